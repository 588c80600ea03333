package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Hummylol/oneonone/internal/domain"
	"github.com/Hummylol/oneonone/internal/repository"
	oneonone_errors "github.com/Hummylol/oneonone/pkg/errors"
)

// OnlineStatusStore reads connectivity hints maintained by the presence
// layer. Queries are best-effort: a store error degrades to "offline"
// rather than failing the request.
type OnlineStatusStore interface {
	IsOnline(ctx context.Context, userID string) (bool, error)
	LastSeen(ctx context.Context, userID string) (time.Time, error)
}

type UserService struct {
	users    repository.UserRepository
	messages repository.MessageRepository
	status   OnlineStatusStore
	logger   *zap.Logger
}

func NewUserService(users repository.UserRepository, messages repository.MessageRepository, status OnlineStatusStore) *UserService {
	return &UserService{
		users:    users,
		messages: messages,
		status:   status,
		logger:   zap.L().With(zap.String("component", "user_service")),
	}
}

// UserProfile is a user record decorated with live connectivity hints.
type UserProfile struct {
	ID       uuid.UUID  `json:"id"`
	Username string     `json:"username"`
	IsOnline bool       `json:"isOnline"`
	LastSeen *time.Time `json:"lastSeen,omitempty"`
}

func (s *UserService) Profile(ctx context.Context, id uuid.UUID) (UserProfile, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return UserProfile{}, err
	}

	profile := UserProfile{ID: u.ID, Username: u.Username}
	if s.status != nil {
		online, err := s.status.IsOnline(ctx, u.ID.String())
		if err != nil {
			s.logger.Warn("online status lookup failed", zap.Error(err))
		} else {
			profile.IsOnline = online
		}
		if seen, err := s.status.LastSeen(ctx, u.ID.String()); err == nil && !seen.IsZero() {
			profile.LastSeen = &seen
		}
	}
	return profile, nil
}

// Search finds users whose username contains the fragment, excluding the
// requester themselves.
func (s *UserService) Search(ctx context.Context, fragment string, requester uuid.UUID) ([]domain.User, error) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return nil, oneonone_errors.ErrInvalidInput
	}
	return s.users.Search(ctx, fragment, requester)
}

// ChatPartners returns every user the given user has exchanged at least one
// message with.
func (s *UserService) ChatPartners(ctx context.Context, userID uuid.UUID) ([]domain.User, error) {
	ids, err := s.messages.GetPartnerIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.users.GetByIDs(ctx, ids)
}
