package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/okian/wask/internal/domain/model"
)

// RedisStore keeps scores in Redis:
//
//	<prefix>:scores:seq      INCR counter handing out ids
//	<prefix>:scores:records  hash member -> JSON record
//	<prefix>:scores:by_time  sorted set member scored by time_s
//
// Members are zero-padded ids so equal times list in insertion order.
type RedisStore struct {
	rdb  *redis.Client
	opts options
}

type redisRecord struct {
	ID int64 `json:"id"`
	model.Score
}

// OpenRedis connects to the Redis server at url (redis://host:port/db).
func OpenRedis(ctx context.Context, url string, opts ...Option) (*RedisStore, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("%w: redis url is empty", ErrUnavailable)
	}
	ropts, err := redis.ParseURL(url)
	if err != nil {
		return nil, unavailable("parse redis url", err)
	}
	return NewRedisStore(ctx, redis.NewClient(ropts), opts...)
}

// NewRedisStore wraps an existing client. The store owns the client and
// closes it on Close.
func NewRedisStore(ctx context.Context, rdb *redis.Client, opts ...Option) (*RedisStore, error) {
	s := &RedisStore{rdb: rdb, opts: applyOptions(opts)}
	if err := s.Ping(ctx); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return s, nil
}

func (s *RedisStore) key(name string) string { return s.opts.redisPrefix + ":scores:" + name }

func member(id int64) string { return fmt.Sprintf("%020d", id) }

// EnsureSchema has nothing to create; Redis keys appear on first write.
func (s *RedisStore) EnsureSchema(ctx context.Context) error {
	return s.Ping(ctx)
}

// Append allocates an id and writes the record and its index atomically.
func (s *RedisStore) Append(ctx context.Context, sub model.Submission) (model.Score, error) {
	id, err := s.rdb.Incr(ctx, s.key("seq")).Result()
	if err != nil {
		return model.Score{}, unavailable("append id", err)
	}
	score := model.NewScore(id, sub, s.opts.now())
	raw, err := json.Marshal(redisRecord{ID: id, Score: score})
	if err != nil {
		return model.Score{}, fmt.Errorf("append encode: %w", err)
	}

	m := member(id)
	_, err = s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, s.key("records"), m, raw)
		p.ZAdd(ctx, s.key("by_time"), redis.Z{Score: score.TimeS, Member: m})
		return nil
	})
	if err != nil {
		return model.Score{}, unavailable("append", err)
	}
	return score, nil
}

// ListByTime walks the time index and loads every record.
func (s *RedisStore) ListByTime(ctx context.Context) ([]model.Score, error) {
	members, err := s.rdb.ZRange(ctx, s.key("by_time"), 0, -1).Result()
	if err != nil {
		return nil, unavailable("list index", err)
	}
	scores := make([]model.Score, 0, len(members))
	if len(members) == 0 {
		return scores, nil
	}

	vals, err := s.rdb.HMGet(ctx, s.key("records"), members...).Result()
	if err != nil {
		return nil, unavailable("list records", err)
	}
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: record %s missing", ErrUnavailable, members[i])
		}
		var rec redisRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("list decode %s: %w", members[i], err)
		}
		rec.Score.ID = rec.ID
		scores = append(scores, rec.Score)
	}
	return scores, nil
}

// Count returns the size of the time index.
func (s *RedisStore) Count(ctx context.Context) (int, error) {
	n, err := s.rdb.ZCard(ctx, s.key("by_time")).Result()
	if err != nil {
		return 0, unavailable("count", err)
	}
	return int(n), nil
}

// Ping checks the connection within the configured timeout.
func (s *RedisStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.pingTimeout)
	defer cancel()
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return unavailable("ping redis", err)
	}
	return nil
}

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
