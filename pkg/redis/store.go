package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Getter is the subset of the go-redis client StateStore needs.
type Getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// StateStore reads machine states written by the sensor publisher.
type StateStore struct {
	db        Getter
	keyPrefix string
}

func NewStateStore(client Getter, keyPrefix string) *StateStore {
	return &StateStore{db: client, keyPrefix: keyPrefix}
}

// Load returns the stored state of machine. ok is false when nothing or an
// empty value is stored.
func (s *StateStore) Load(ctx context.Context, machine string) (state string, ok bool, err error) {
	state, err = s.db.Get(ctx, s.keyPrefix+machine).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Join(ErrLoadState, err)
	}
	return state, state != "", nil
}
