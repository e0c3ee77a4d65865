package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/rowanvale/ticketd/internal/domain/profile"
	"github.com/rowanvale/ticketd/internal/domain/session"
	"github.com/rowanvale/ticketd/internal/repository"
	"github.com/rowanvale/ticketd/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type captureSender struct {
	email string
	code  string
}

func (c *captureSender) Send(_ context.Context, email, code string) error {
	c.email = email
	c.code = code
	return nil
}

func TestSessionService_RequestCode(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.AuthRepository{}
	sender := &captureSender{}

	var savedHash string
	var expiresAt time.Time
	repo.On("SaveLoginCode", ctx, "ada@example.com", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			savedHash = args.String(2)
			expiresAt = args.Get(3).(time.Time)
		}).Return(nil)

	svc := session.NewService(repo, sender, nil)
	require.NoError(t, svc.RequestCode(ctx, "  Ada@Example.com "))

	// The sender gets the plaintext code; the store only the hash.
	require.Equal(t, "ada@example.com", sender.email)
	require.Len(t, sender.code, 6)
	require.NotEqual(t, sender.code, savedHash)
	require.WithinDuration(t, time.Now().Add(session.CodeTTL), expiresAt, 5*time.Second)
}

func TestSessionService_RequestCode_BadEmail(t *testing.T) {
	svc := session.NewService(&mocks.AuthRepository{}, &captureSender{}, nil)
	require.ErrorIs(t, svc.RequestCode(context.Background(), "not-an-email"), session.ErrInvalidInput)
	require.ErrorIs(t, svc.RequestCode(context.Background(), ""), session.ErrInvalidInput)
}

func TestSessionService_VerifyCode(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.AuthRepository{}
	repo.On("ConsumeLoginCode", ctx, "ada@example.com", mock.Anything, mock.Anything).Return(nil)
	repo.On("UpsertProfile", ctx, mock.Anything).Return(profile.Profile{ID: "u1", Email: "ada@example.com"}, nil)
	repo.On("CreateSession", ctx, mock.Anything, "u1").Return(nil)

	svc := session.NewService(repo, &captureSender{}, nil)
	sess, err := svc.VerifyCode(ctx, "ada@example.com", "123456")
	require.NoError(t, err)
	require.NotEmpty(t, sess.Token)
	require.Equal(t, "u1", sess.UserID)
	require.Equal(t, "ada@example.com", sess.Email)
}

func TestSessionService_VerifyCode_Invalid(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.AuthRepository{}
	repo.On("ConsumeLoginCode", ctx, "ada@example.com", mock.Anything, mock.Anything).Return(repository.ErrNotFound)

	svc := session.NewService(repo, &captureSender{}, nil)
	_, err := svc.VerifyCode(ctx, "ada@example.com", "000000")
	require.ErrorIs(t, err, session.ErrInvalidCode)
	repo.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything, mock.Anything)
}

func TestSessionService_Resolve_Unauthenticated(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.AuthRepository{}
	repo.On("GetSession", ctx, mock.Anything).Return(nil, repository.ErrNotFound)

	svc := session.NewService(repo, &captureSender{}, nil)
	_, err := svc.Resolve(ctx, "bogus")
	require.ErrorIs(t, err, session.ErrUnauthenticated)

	_, err = svc.Resolve(ctx, "")
	require.ErrorIs(t, err, session.ErrUnauthenticated)
}

func TestSessionService_SignOut_UnknownToken(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.AuthRepository{}
	repo.On("DeleteSession", ctx, mock.Anything).Return(repository.ErrNotFound)

	svc := session.NewService(repo, &captureSender{}, nil)
	require.NoError(t, svc.SignOut(ctx, "gone"))
	require.NoError(t, svc.SignOut(ctx, ""))
}
