package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// BindingStore persists account to wallet bindings in one Redis hash so
// sessions can be rebuilt after a restart.
type BindingStore struct {
	client redis.UniversalClient
	key    string
}

// NewBindingStore creates a new BindingStore.
func NewBindingStore(client redis.UniversalClient) *BindingStore {
	return &BindingStore{
		client: client,
		key:    "earnledger:bindings",
	}
}

// Save records that accountID is bound to walletID.
func (s *BindingStore) Save(ctx context.Context, accountID, walletID string) error {
	return s.client.HSet(ctx, s.key, accountID, walletID).Err()
}

// Delete forgets the binding of accountID.
func (s *BindingStore) Delete(ctx context.Context, accountID string) error {
	return s.client.HDel(ctx, s.key, accountID).Err()
}

// All returns every binding keyed by account id.
func (s *BindingStore) All(ctx context.Context) (map[string]string, error) {
	return s.client.HGetAll(ctx, s.key).Result()
}
