package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"wardrobewizard/backend/internal/domain"
	"wardrobewizard/backend/internal/store"
)

const keyPrefix = "cart:"

// Store is the redis cart repository: one JSON value per session under
// cart:<session_id>. A zero TTL keeps carts until explicitly cleared.
type Store struct {
	client *redislib.Client
	ttl    time.Duration
}

var _ store.Repository = (*Store)(nil)

func New(addr string, password string, db int, ttl time.Duration) *Store {
	client := redislib.NewClient(&redislib.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Store{client: client, ttl: ttl}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) LoadCart(ctx context.Context, sessionID string) ([]domain.CartLine, error) {
	val, err := s.client.Get(ctx, keyPrefix+sessionID).Result()
	if errors.Is(err, redislib.Nil) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var lines []domain.CartLine
	if err := json.Unmarshal([]byte(val), &lines); err != nil {
		return nil, fmt.Errorf("%w: session %s: %v", store.ErrCorruptCart, sessionID, err)
	}
	return lines, nil
}

func (s *Store) SaveCart(ctx context.Context, sessionID string, lines []domain.CartLine) error {
	if lines == nil {
		lines = []domain.CartLine{}
	}
	payload, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, keyPrefix+sessionID, payload, s.ttl).Err()
}

func (s *Store) DeleteCart(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, keyPrefix+sessionID).Err()
}

func (s *Store) ListSessions(ctx context.Context, limit int) ([]string, error) {
	if limit < 1 {
		limit = 100
	}

	ids := make([]string, 0, limit)
	iter := s.client.Scan(ctx, 0, keyPrefix+"*", int64(limit)).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, iter.Val()[len(keyPrefix):])
		if len(ids) >= limit {
			break
		}
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
