package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/rowanvale/ticketd/internal/domain/profile"
	"github.com/rowanvale/ticketd/internal/repository"
	"github.com/google/uuid"
)

// Service implements one-time-code email login.
type Service struct {
	repo   Repository
	sender CodeSender
	logger *slog.Logger
}

// NewService creates a new session service.
func NewService(repo Repository, sender CodeSender, logger *slog.Logger) *Service {
	return &Service{repo: repo, sender: sender, logger: logger}
}

// RequestCode generates a one-time code for the email, stores its hash
// with an expiry, and hands the plaintext to the configured sender.
func (s *Service) RequestCode(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return ErrInvalidInput
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generating code: %w", err)
	}

	expiresAt := time.Now().Add(CodeTTL)
	if err := s.repo.SaveLoginCode(ctx, email, hashSecret(code), expiresAt); err != nil {
		return fmt.Errorf("saving login code: %w", err)
	}

	if err := s.sender.Send(ctx, email, code); err != nil {
		return fmt.Errorf("sending login code: %w", err)
	}
	return nil
}

// VerifyCode checks a one-time code, upserts the profile for the email,
// and issues a session token. Each code verifies at most once.
func (s *Service) VerifyCode(ctx context.Context, email, code string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || strings.TrimSpace(code) == "" {
		return nil, ErrInvalidInput
	}

	err := s.repo.ConsumeLoginCode(ctx, email, hashSecret(strings.TrimSpace(code)), time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCode
		}
		return nil, fmt.Errorf("consuming login code: %w", err)
	}

	prof, err := s.repo.UpsertProfile(ctx, profile.Profile{ID: uuid.NewString(), Email: email})
	if err != nil {
		return nil, fmt.Errorf("upserting profile: %w", err)
	}

	token := uuid.NewString()
	if err := s.repo.CreateSession(ctx, hashSecret(token), prof.ID); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	return &Session{
		Token:     token,
		UserID:    prof.ID,
		Email:     email,
		CreatedAt: time.Now(),
	}, nil
}

// Resolve returns the session for a bearer token.
func (s *Service) Resolve(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	sess, err := s.repo.GetSession(ctx, hashSecret(token))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("resolving session: %w", err)
	}
	return sess, nil
}

// SignOut deletes the session for a token. Unknown tokens are a no-op.
func (s *Service) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.repo.DeleteSession(ctx, hashSecret(token)); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func hashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// LogSender writes login codes to the log instead of sending email.
// Stands in for a mail provider in local and test setups.
type LogSender struct {
	Logger *slog.Logger
}

func (l LogSender) Send(_ context.Context, email, code string) error {
	if l.Logger != nil {
		l.Logger.Info("login code issued", "email", email, "code", code)
	}
	return nil
}
