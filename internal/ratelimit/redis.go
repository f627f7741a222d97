package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// fixedWindowScript applies the same transition as apply() inside Redis so the
// read-compare-increment is atomic across instances.
// KEYS[1] counter hash; ARGV now(ms), window(ms), max.
// Returns {allowed(0|1), remaining, reset(ms)}.
var fixedWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local max = tonumber(ARGV[3])

if max <= 0 then
  return {0, 0, now + window}
end

local data = redis.call('HMGET', key, 'count', 'reset')
local count = tonumber(data[1])
local reset = tonumber(data[2])

if count == nil or reset == nil or now >= reset then
  reset = now + window
  redis.call('HSET', key, 'count', 1, 'reset', reset)
  redis.call('PEXPIRE', key, window)
  return {1, max - 1, reset}
end

if count >= max then
  return {0, 0, reset}
end

count = redis.call('HINCRBY', key, 'count', 1)
return {1, max - count, reset}
`)

// RedisStore shares counters between API instances through Redis.
type RedisStore struct {
	client redis.Scripter
	prefix string
	now    func() time.Time
}

// NewRedisStore builds a store writing keys under prefix.
func NewRedisStore(client redis.Scripter, prefix string) *RedisStore {
	prefix = strings.Trim(prefix, ":")
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RedisStore{client: client, prefix: prefix, now: time.Now}
}

// Check implements Store.
func (s *RedisStore) Check(ctx context.Context, identifier string, window time.Duration, max int) (Result, error) {
	now := s.now()
	key := s.prefix + ":" + identifier

	vals, err := fixedWindowScript.Run(ctx, s.client, []string{key},
		now.UnixMilli(), window.Milliseconds(), max).Int64Slice()
	if err != nil {
		return Result{}, fmt.Errorf("rate limit script: %w", err)
	}
	if len(vals) != 3 {
		return Result{}, fmt.Errorf("rate limit script: unexpected reply length %d", len(vals))
	}

	return Result{
		Allowed:   vals[0] == 1,
		Limit:     limitOf(max),
		Remaining: int(vals[1]),
		ResetTime: time.UnixMilli(vals[2]),
	}, nil
}

func limitOf(max int) int {
	if max < 0 {
		return 0
	}
	return max
}
