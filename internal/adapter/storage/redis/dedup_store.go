package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// PaymentDedupStore implements ports.PaymentDedup using Redis SET NX.
// The persisted escrow status stays authoritative; this store only absorbs
// redelivered ledger events cheaply before they reach the database.
type PaymentDedupStore struct {
	client *goredis.Client
	prefix string
}

// NewPaymentDedupStore creates a new Redis-backed payment dedup store.
func NewPaymentDedupStore(client *goredis.Client) *PaymentDedupStore {
	return &PaymentDedupStore{
		client: client,
		prefix: "payment:",
	}
}

// CheckAndSet atomically records a payment transaction hash, returning true
// if the hash is new and false if it was already seen.
func (s *PaymentDedupStore) CheckAndSet(ctx context.Context, txHash string, ttl time.Duration) (bool, error) {
	key := s.prefix + txHash
	result, err := s.client.SetArgs(ctx, key, 1, goredis.SetArgs{
		Mode: "NX",
		TTL:  ttl,
	}).Result()
	if err != nil {
		if err == goredis.Nil {
			// Key already exists — payment was already processed
			return false, nil
		}
		return false, fmt.Errorf("redis payment dedup: %w", err)
	}
	return result == "OK", nil
}
