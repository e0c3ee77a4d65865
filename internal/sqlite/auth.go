package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rowanvale/ticketd/internal/domain/profile"
	"github.com/rowanvale/ticketd/internal/domain/session"
	"github.com/rowanvale/ticketd/internal/realtime"
	"github.com/rowanvale/ticketd/internal/repository"
)

// AuthRepository implements session.Repository for SQLite. Session
// creation and deletion are announced on the change hub so mounted
// views can react to sign-in state.
type AuthRepository struct {
	db     *DB
	events realtime.Publisher
}

// NewAuthRepository creates a new AuthRepository.
func NewAuthRepository(db *DB, events realtime.Publisher) *AuthRepository {
	return &AuthRepository{db: db, events: events}
}

// SaveLoginCode stores a hashed one-time code with its expiry.
func (r *AuthRepository) SaveLoginCode(ctx context.Context, email, codeHash string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO login_codes (email, code_hash, expires_at)
		VALUES (?, ?, ?)
	`, email, codeHash, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to save login code: %w", err)
	}
	return nil
}

// ConsumeLoginCode marks a matching unexpired, unused code as used.
func (r *AuthRepository) ConsumeLoginCode(ctx context.Context, email, codeHash string, now time.Time) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE login_codes
		SET consumed = 1
		WHERE email = ? AND code_hash = ? AND consumed = 0 AND expires_at > ?
	`, email, codeHash, now)
	if err != nil {
		return fmt.Errorf("failed to consume login code: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// UpsertProfile returns the existing profile for the email, creating
// one with the supplied ID when absent.
func (r *AuthRepository) UpsertProfile(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	existing, err := r.profileByEmail(ctx, p.Email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return profile.Profile{}, err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO profiles (id, full_name, email) VALUES (?, ?, ?)
	`, p.ID, nullable(p.FullName), p.Email)
	if err != nil {
		// Lost a race with a concurrent verify for the same email.
		if isUniqueViolation(err) {
			return r.profileByEmail(ctx, p.Email)
		}
		return profile.Profile{}, fmt.Errorf("failed to create profile: %w", err)
	}
	return p, nil
}

func (r *AuthRepository) profileByEmail(ctx context.Context, email string) (profile.Profile, error) {
	var p profile.Profile
	var fullName sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, full_name, email FROM profiles WHERE email = ?`, email,
	).Scan(&p.ID, &fullName, &p.Email)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("failed to look up profile: %w", err)
	}
	p.FullName = fullName.String
	return p, nil
}

// CreateSession stores a hashed session token.
func (r *AuthRepository) CreateSession(ctx context.Context, tokenHash, userID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO auth_sessions (token_hash, user_id) VALUES (?, ?)
	`, tokenHash, userID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create session: %w", err)
	}

	r.publish(realtime.Event{Table: realtime.TableSessions, Type: realtime.EventInsert, ID: userID})
	return nil
}

// GetSession resolves a hashed token to its session.
func (r *AuthRepository) GetSession(ctx context.Context, tokenHash string) (*session.Session, error) {
	var sess session.Session
	err := r.db.QueryRowContext(ctx, `
		SELECT s.user_id, p.email, s.created_at
		FROM auth_sessions s
		JOIN profiles p ON p.id = s.user_id
		WHERE s.token_hash = ?
	`, tokenHash).Scan(&sess.UserID, &sess.Email, &sess.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &sess, nil
}

// DeleteSession removes a session by hashed token.
func (r *AuthRepository) DeleteSession(ctx context.Context, tokenHash string) error {
	var userID string
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id FROM auth_sessions WHERE token_hash = ?`, tokenHash,
	).Scan(&userID)
	if err == sql.ErrNoRows {
		return repository.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM auth_sessions WHERE token_hash = ?`, tokenHash); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	r.publish(realtime.Event{Table: realtime.TableSessions, Type: realtime.EventDelete, ID: userID})
	return nil
}

func (r *AuthRepository) publish(e realtime.Event) {
	if r.events != nil {
		r.events.Publish(e)
	}
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
