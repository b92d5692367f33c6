package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// windowScript increments the counter and starts the window when the key has
// no expiry yet. Runs on any Redis version that supports EVAL.
const windowScript = `
local n = redis.call("INCR", KEYS[1])
if n == 1 or redis.call("PTTL", KEYS[1]) < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`

var windowHit = redis.NewScript(windowScript)

// RateLimitStore is a fixed-window request counter shared by every API
// instance. It satisfies echo's middleware.RateLimiterStore.
// Key format: ratelimit:<scope>:<identifier>
type RateLimitStore struct {
	client *redis.Client
	scope  string
	limit  int64
	window time.Duration
	log    zerolog.Logger
}

func NewRateLimitStore(client *redis.Client, scope string, limit int, window time.Duration, log zerolog.Logger) *RateLimitStore {
	return &RateLimitStore{
		client: client,
		scope:  scope,
		limit:  int64(limit),
		window: window,
		log:    log,
	}
}

// Allow counts one request for identifier and reports whether it is within the
// window's limit. Redis failures let the request through.
func (s *RateLimitStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	n, err := s.hit(ctx, identifier)
	if err != nil {
		s.log.Warn().Err(err).Str("scope", s.scope).Msg("rate limiter unavailable, allowing request")
		return true, nil
	}
	return n <= s.limit, nil
}

// hit increments the window counter, starting the window on the first request.
func (s *RateLimitStore) hit(ctx context.Context, identifier string) (int64, error) {
	n, err := windowHit.Run(ctx, s.client, []string{s.key(identifier)}, s.window.Milliseconds()).Int64()
	if err != nil {
		return 0, fmt.Errorf("rate limit hit: %w", err)
	}
	return n, nil
}

func (s *RateLimitStore) key(identifier string) string {
	return "ratelimit:" + s.scope + ":" + identifier
}
