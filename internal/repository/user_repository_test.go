package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hummylol/oneonone/internal/domain"
	oneonone_errors "github.com/Hummylol/oneonone/pkg/errors"
)

func seedUser(t *testing.T, repo UserRepository, username, email string) domain.User {
	t.Helper()
	u := domain.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: "irrelevant",
	}
	require.NoError(t, repo.Create(context.Background(), &u))
	return u
}

func TestUserRepository_CreateAndLookups(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	u := seedUser(t, repo, "alice", "alice@example.com")

	byID, err := repo.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	byEmail, err := repo.GetByEmail(context.Background(), "Alice@Example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	byName, err := repo.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)
}

func TestUserRepository_NotFound(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, oneonone_errors.ErrNotFound)

	_, err = repo.GetByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, oneonone_errors.ErrNotFound)

	_, err = repo.GetByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, oneonone_errors.ErrNotFound)
}

func TestUserRepository_CreateDuplicateEmail(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	seedUser(t, repo, "bob", "bob@example.com")

	dup := domain.User{
		ID:           uuid.New(),
		Username:     "bob2",
		Email:        "bob@example.com",
		PasswordHash: "irrelevant",
	}
	err := repo.Create(context.Background(), &dup)

	assert.ErrorIs(t, err, oneonone_errors.ErrAlreadyExists)
}

func TestUserRepository_GetByIDs(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	a := seedUser(t, repo, "a", "a@example.com")
	b := seedUser(t, repo, "b", "b@example.com")
	seedUser(t, repo, "c", "c@example.com")

	users, err := repo.GetByIDs(context.Background(), []uuid.UUID{a.ID, b.ID})
	require.NoError(t, err)
	assert.Len(t, users, 2)

	none, err := repo.GetByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUserRepository_SearchCaseInsensitiveExcludesSelf(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	me := seedUser(t, repo, "Annie", "annie@example.com")
	seedUser(t, repo, "anna", "anna@example.com")
	seedUser(t, repo, "Hannah", "hannah@example.com")
	seedUser(t, repo, "bob", "bob@example.com")

	found, err := repo.Search(context.Background(), "AN", me.ID)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Hannah", found[0].Username)
	assert.Equal(t, "anna", found[1].Username)
}
