package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/Hummylol/oneonone/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error)
	// Search matches usernames containing fragment (case-insensitive),
	// excluding the given user.
	Search(ctx context.Context, fragment string, exclude uuid.UUID) ([]domain.User, error)
}

type MessageRepository interface {
	Create(ctx context.Context, m *domain.Message) error
	GetByID(ctx context.Context, id uuid.UUID) (domain.Message, error)
	// GetBetween returns every message exchanged between the two users,
	// oldest first, with reactions loaded.
	GetBetween(ctx context.Context, userA, userB uuid.UUID) ([]domain.Message, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// UpsertReaction inserts the reaction, or overwrites the emoji when the
	// user already reacted to the message. Single atomic statement.
	UpsertReaction(ctx context.Context, r *domain.Reaction) error
	// RemoveReaction deletes the user's reaction on the message. Removing a
	// reaction that does not exist is not an error.
	RemoveReaction(ctx context.Context, messageID, userID uuid.UUID) error
	GetReactions(ctx context.Context, messageID uuid.UUID) ([]domain.Reaction, error)
	// GetPartnerIDs returns the distinct set of users the given user has
	// exchanged at least one message with.
	GetPartnerIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}
