package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Redis keys for connectivity hints
const (
	onlineSetKey      = "presence:online"     // Set of online user IDs
	lastSeenKeyPrefix = "presence:last_seen:" // Per-user last seen timestamp
)

// OnlineStore keeps a shadow of the hub's presence state in redis so the
// REST layer can answer "is this user online" and "when were they last seen"
// without reaching into the hub. The hub remains the source of truth; this
// store carries no integrity expectation across restarts.
type OnlineStore struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewOnlineStore(client *goredis.Client, ttl time.Duration) *OnlineStore {
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &OnlineStore{client: client, ttl: ttl}
}

// SetOnline marks the user online and stamps last seen.
func (s *OnlineStore) SetOnline(ctx context.Context, userID string) error {
	pipe := s.client.Pipeline()
	pipe.SAdd(ctx, onlineSetKey, userID)
	pipe.Set(ctx, lastSeenKeyPrefix+userID, time.Now().UTC().Format(time.RFC3339), s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// SetOffline removes the user from the online set and stamps last seen.
func (s *OnlineStore) SetOffline(ctx context.Context, userID string) error {
	pipe := s.client.Pipeline()
	pipe.SRem(ctx, onlineSetKey, userID)
	pipe.Set(ctx, lastSeenKeyPrefix+userID, time.Now().UTC().Format(time.RFC3339), s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// IsOnline reports whether the user currently holds a live connection.
func (s *OnlineStore) IsOnline(ctx context.Context, userID string) (bool, error) {
	return s.client.SIsMember(ctx, onlineSetKey, userID).Result()
}

// LastSeen returns the user's last presence transition time, or the zero
// time when nothing is recorded.
func (s *OnlineStore) LastSeen(ctx context.Context, userID string) (time.Time, error) {
	val, err := s.client.Get(ctx, lastSeenKeyPrefix+userID).Result()
	if err == goredis.Nil {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, val)
}

// OnlineUsers returns all currently online user IDs.
func (s *OnlineStore) OnlineUsers(ctx context.Context) ([]string, error) {
	return s.client.SMembers(ctx, onlineSetKey).Result()
}
