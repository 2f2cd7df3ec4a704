package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRecordKey = "sliceline:session"

// RedisStore keeps the session record in a single Redis key, for
// deployments where the process has no durable disk.
type RedisStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

type RedisStoreConfig struct {
	Addr     string        `envconfig:"ADDR" split_words:"true" default:"localhost:6379"`
	Password string        `envconfig:"PASSWORD" split_words:"true"`
	DB       int           `envconfig:"DB" split_words:"true" default:"0"`
	Key      string        `envconfig:"KEY" split_words:"true"`
	TTL      time.Duration `envconfig:"TTL" split_words:"true" default:"0"`
}

// RedisStoreOption customizes RedisStore.
type RedisStoreOption func(*RedisStore)

func WithRedisClient(client *redis.Client) RedisStoreOption {
	return func(s *RedisStore) {
		if client != nil {
			s.client = client
		}
	}
}

func NewRedisStore(cfg RedisStoreConfig, opts ...RedisStoreOption) (*RedisStore, error) {
	if cfg.TTL < 0 {
		return nil, errors.New("ttl must be >= 0")
	}

	key := strings.TrimSpace(cfg.Key)
	if key == "" {
		key = defaultRecordKey
	}

	store := &RedisStore{
		key: key,
		ttl: cfg.TTL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}

	if store.client == nil {
		addr := strings.TrimSpace(cfg.Addr)
		if addr == "" {
			return nil, errors.New("redis addr is required")
		}
		store.client = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	}

	return store, nil
}

func (s *RedisStore) Load(ctx context.Context) (*Record, error) {
	raw, err := s.client.Get(ctx, s.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("get session record: %w", err)
	}

	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("decode session record: %w", err)
	}
	return &rec, nil
}

func (s *RedisStore) Save(ctx context.Context, rec *Record) error {
	if rec == nil {
		return errors.New("nil session record")
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal session record: %w", err)
	}

	if err := s.client.Set(ctx, s.key, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("set session record: %w", err)
	}
	return nil
}
