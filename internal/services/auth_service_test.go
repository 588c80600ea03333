package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hummylol/oneonone/config"
	"github.com/Hummylol/oneonone/internal/domain"
	oneonone_errors "github.com/Hummylol/oneonone/pkg/errors"
)

type fakeUserRepo struct {
	users map[uuid.UUID]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return oneonone_errors.ErrAlreadyExists
		}
	}
	r.users[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return domain.User{}, oneonone_errors.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, oneonone_errors.ErrNotFound
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, oneonone_errors.ErrNotFound
}

func (r *fakeUserRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]domain.User, error) {
	var out []domain.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Search(_ context.Context, fragment string, exclude uuid.UUID) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.users {
		if u.ID != exclude && strings.Contains(strings.ToLower(u.Username), strings.ToLower(fragment)) {
			out = append(out, u)
		}
	}
	return out, nil
}

func newTestAuthService(repo *fakeUserRepo) *AuthService {
	return NewAuthService(repo, &config.Config{
		JWTSecret:    "test-secret",
		JWTExpiryMin: 60,
	})
}

func TestAuthService_SignupLoginRoundtrip(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	u, err := svc.Signup(context.Background(), SignupInput{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NotEqual(t, "hunter2hunter2", u.PasswordHash)

	resp, err := svc.Login(context.Background(), LoginInput{
		Email:    "alice@example.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), resp.UserID)
	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	claims, err := svc.ParseAccessToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), claims.UserID)
}

func TestAuthService_SignupValidation(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo())

	cases := []SignupInput{
		{Username: "", Email: "a@b.com", Password: "longenough"},
		{Username: "bob", Email: "not-an-email", Password: "longenough"},
		{Username: "bob", Email: "a@b.com", Password: "short"},
	}
	for _, in := range cases {
		_, err := svc.Signup(context.Background(), in)
		assert.ErrorIs(t, err, oneonone_errors.ErrInvalidInput)
	}
}

func TestAuthService_SignupDuplicate(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	_, err := svc.Signup(context.Background(), SignupInput{
		Username: "carol", Email: "carol@example.com", Password: "longenough",
	})
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), SignupInput{
		Username: "carol", Email: "carol@example.com", Password: "longenough",
	})
	assert.ErrorIs(t, err, oneonone_errors.ErrAlreadyExists)
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	_, err := svc.Signup(context.Background(), SignupInput{
		Username: "dave", Email: "dave@example.com", Password: "correcthorse",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginInput{
		Email:    "dave@example.com",
		Password: "wronghorse",
	})
	assert.ErrorIs(t, err, oneonone_errors.ErrInvalidPassword)
}

func TestAuthService_LoginUnknownEmail(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo())

	_, err := svc.Login(context.Background(), LoginInput{
		Email:    "nobody@example.com",
		Password: "whatever12",
	})
	assert.ErrorIs(t, err, oneonone_errors.ErrNotFound)
}

func TestAuthService_ParseAccessTokenRejectsBadTokens(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo())

	_, err := svc.ParseAccessToken("garbage")
	assert.ErrorIs(t, err, oneonone_errors.ErrUnauthorized)

	// Signed with a different secret.
	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		UserID: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	_, err = svc.ParseAccessToken(foreign)
	assert.ErrorIs(t, err, oneonone_errors.ErrUnauthorized)

	// Expired but correctly signed.
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		UserID: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.ParseAccessToken(expired)
	assert.ErrorIs(t, err, oneonone_errors.ErrUnauthorized)
}
