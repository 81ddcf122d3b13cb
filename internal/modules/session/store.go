// README: Slot stores. Redis keeps the slot in a hash guarded by a Lua compare-and-set.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store persists one slot per session.
type Store interface {
	// NextSeq returns the next submission number for the session, starting at 1.
	NextSeq(ctx context.Context, sessionID string) (int64, error)
	// Apply writes slot if its Seq supersedes the stored slot and reports
	// whether it did.
	Apply(ctx context.Context, sessionID string, slot Slot) (bool, error)
	// Get returns the stored slot; ok is false when there is none.
	Get(ctx context.Context, sessionID string) (slot Slot, ok bool, err error)
}

// The submission counter lives in the slot hash under "next" so the two
// share one TTL.
const slotKeyPrefix = "tripsage:session:%s:slot"

// KEYS[1] slot hash; ARGV seq, status, body, ttl ms, in-flight status.
var applyScript = redis.NewScript(`
local cur = redis.call('HGET', KEYS[1], 'seq')
local seq = tonumber(ARGV[1])
if cur then
  cur = tonumber(cur)
  if seq < cur then
    return 0
  end
  if seq == cur and redis.call('HGET', KEYS[1], 'status') ~= ARGV[5] then
    return 0
  end
end
redis.call('HSET', KEYS[1], 'seq', ARGV[1], 'status', ARGV[2], 'body', ARGV[3])
local nxt = tonumber(redis.call('HGET', KEYS[1], 'next') or '0')
if nxt < seq then
  redis.call('HSET', KEYS[1], 'next', ARGV[1])
end
redis.call('PEXPIRE', KEYS[1], ARGV[4])
return 1
`)

type RedisStore struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRedisStore(redis *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{redis: redis, ttl: ttl}
}

func (s *RedisStore) NextSeq(ctx context.Context, sessionID string) (int64, error) {
	key := slotKey(sessionID)
	var incr *redis.IntCmd
	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.HIncrBy(ctx, key, "next", 1)
		pipe.PExpire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func (s *RedisStore) Apply(ctx context.Context, sessionID string, slot Slot) (bool, error) {
	body, err := json.Marshal(slot)
	if err != nil {
		return false, fmt.Errorf("encode slot: %w", err)
	}
	n, err := applyScript.Run(ctx, s.redis, []string{slotKey(sessionID)},
		slot.Seq, string(slot.Status), body, s.ttl.Milliseconds(), string(StatusInFlight)).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (Slot, bool, error) {
	body, err := s.redis.HGet(ctx, slotKey(sessionID), "body").Bytes()
	if err == redis.Nil {
		return Slot{}, false, nil
	}
	if err != nil {
		return Slot{}, false, err
	}
	var slot Slot
	if err := json.Unmarshal(body, &slot); err != nil {
		return Slot{}, false, fmt.Errorf("decode slot: %w", err)
	}
	return slot, true, nil
}

func slotKey(sessionID string) string {
	return fmt.Sprintf(slotKeyPrefix, sessionID)
}
