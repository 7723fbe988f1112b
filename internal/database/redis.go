package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/nao1215/realreach/internal/model"
)

// Redis key layout.
const (
	redisSessionPrefix = "realreach:session:"
	redisUserIndex     = "realreach:sessions:user:"
	redisAllIndex      = "realreach:sessions"
	redisUserKey       = "realreach:user"
)

// RedisStore stores sessions in Redis.
//
// Each session is a JSON string under realreach:session:<id>. Sorted sets
// scored by session date index the sessions per user and globally, so
// listing never scans the keyspace.
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithRedisLogger sets the logger used for warnings about unreadable sessions.
func WithRedisLogger(logger *slog.Logger) RedisOption {
	return func(r *RedisStore) {
		r.logger = logger
	}
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, opts ...RedisOption) *RedisStore {
	r := &RedisStore{client: client}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// OpenRedis connects to the server described by url
// (for example redis://localhost:6379/0) and checks the connection.
func OpenRedis(ctx context.Context, url string, storeOpts ...RedisOption) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return NewRedisStore(client, storeOpts...), nil
}

func sessionKey(id string) string {
	return redisSessionPrefix + id
}

func userIndexKey(userID string) string {
	return redisUserIndex + userID
}

// Put inserts or replaces a session.
func (r *RedisStore) Put(ctx context.Context, session *model.AnalysisSession) error {
	if err := prepare(session); err != nil {
		return err
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to serialize session: %w", err)
	}

	member := &redis.Z{Score: float64(session.Date.UnixMilli()), Member: session.ID}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKey(session.ID), string(data), 0)
		pipe.ZAdd(ctx, userIndexKey(session.UserID), member)
		pipe.ZAdd(ctx, redisAllIndex, member)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis put: %w", err)
	}
	return nil
}

// Get retrieves a session by ID.
func (r *RedisStore) Get(ctx context.Context, id string) (*model.AnalysisSession, error) {
	val, err := r.client.Get(ctx, sessionKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return decodeSession([]byte(val))
}

// List returns the sessions of userID, newest first. Index entries whose
// session key has disappeared are skipped, and so are sessions that no
// longer decode, with a warning.
func (r *RedisStore) List(ctx context.Context, userID string) ([]*model.AnalysisSession, error) {
	index := redisAllIndex
	if userID != "" {
		index = userIndexKey(userID)
	}

	ids, err := r.client.ZRevRange(ctx, index, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis zrevrange: %w", err)
	}

	sessions := make([]*model.AnalysisSession, 0, len(ids))
	if len(ids) == 0 {
		return sessions, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = sessionKey(id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis mget: %w", err)
	}

	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		session, err := decodeSession([]byte(raw))
		if err != nil {
			r.logger.Warn("skipping unreadable session", "session", ids[i], "error", err)
			continue
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

// Delete removes a session and its index entries.
func (r *RedisStore) Delete(ctx context.Context, id string) error {
	session, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, sessionKey(id))
		pipe.ZRem(ctx, userIndexKey(session.UserID), id)
		pipe.ZRem(ctx, redisAllIndex, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis delete: %w", err)
	}
	return nil
}

// SaveUser stores the logged in user.
func (r *RedisStore) SaveUser(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to serialize user: %w", err)
	}
	if err := r.client.Set(ctx, redisUserKey, string(data), 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// LoadUser returns the logged in user.
func (r *RedisStore) LoadUser(ctx context.Context) (*model.User, error) {
	val, err := r.client.Get(ctx, redisUserKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var user model.User
	if err := json.Unmarshal([]byte(val), &user); err != nil {
		return nil, fmt.Errorf("failed to parse user: %w", err)
	}
	return &user, nil
}

// DeleteUser removes the logged in user.
func (r *RedisStore) DeleteUser(ctx context.Context) error {
	if err := r.client.Del(ctx, redisUserKey).Err(); err != nil {
		return fmt.Errorf("redis delete: %w", err)
	}
	return nil
}

// Close closes the client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
