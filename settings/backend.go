package settings

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"

	"flickr-embed/repos"
	"github.com/redis/go-redis/v9"
)

type MemoryBackend struct {
	mu  sync.RWMutex
	key string
}

func NewMemoryBackend(key string) *MemoryBackend {
	return &MemoryBackend{key: key}
}

func (b *MemoryBackend) Load(context.Context) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.key, nil
}

func (b *MemoryBackend) Save(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.key = key
	return nil
}

// EnvBackend reads the key from an environment variable.
type EnvBackend struct {
	Var string
}

func (b EnvBackend) Load(context.Context) (string, error) {
	return os.Getenv(b.Var), nil
}

func (b EnvBackend) Save(context.Context, string) error {
	return ErrReadOnly
}

type RedisBackend struct {
	rdb *redis.Client
	key string
}

func NewRedisBackend(rdb *redis.Client) *RedisBackend {
	return &RedisBackend{rdb: rdb, key: "flickr-embed:" + CredentialName}
}

func (b *RedisBackend) Load(ctx context.Context) (string, error) {
	v, err := b.rdb.Get(ctx, b.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return v, err
}

func (b *RedisBackend) Save(ctx context.Context, key string) error {
	return b.rdb.Set(ctx, b.key, key, 0).Err()
}

// SettingsRepo is the part of *repos.Repo the Postgres backend uses.
type SettingsRepo interface {
	GetSetting(ctx context.Context, name string) (*repos.Setting, error)
	SetSetting(ctx context.Context, name string, value string) error
}

type PostgresBackend struct {
	repo SettingsRepo
}

func NewPostgresBackend(repo SettingsRepo) *PostgresBackend {
	return &PostgresBackend{repo: repo}
}

func (b *PostgresBackend) Load(ctx context.Context) (string, error) {
	s, err := b.repo.GetSetting(ctx, CredentialName)
	if errors.Is(err, repos.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return s.Value, nil
}

func (b *PostgresBackend) Save(ctx context.Context, key string) error {
	return b.repo.SetSetting(ctx, CredentialName, key)
}

// OpenBackend picks Postgres when DATABASE_URL is set, then Redis when REDIS_ADDR is set,
// and otherwise falls back to the FLICKR_API_KEY environment variable. The returned
// func releases the connection and is never nil.
func OpenBackend(ctx context.Context) (Backend, func(), error) {
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		repo, err := repos.Connect(ctx, databaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := repo.EnsureSchema(ctx); err != nil {
			repo.Close()
			return nil, nil, err
		}
		return NewPostgresBackend(repo), repo.Close, nil
	}

	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr: redisAddr,
		})
		closeRedis := func() {
			if err := rdb.Close(); err != nil {
				slog.Warn("close redis", "err", err)
			}
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			closeRedis()
			return nil, nil, err
		}
		return NewRedisBackend(rdb), closeRedis, nil
	}

	return EnvBackend{Var: "FLICKR_API_KEY"}, func() {}, nil
}
