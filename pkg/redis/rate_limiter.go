package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// RateLimiterOptions represents options for fixed-window rate limiting
type RateLimiterOptions struct {
	// Limit is the number of requests allowed per window
	Limit int64
	// Window is the length of a counting window
	Window time.Duration
	// Namespace is the namespace for organizing rate limiter keys
	Namespace string
}

// NewRateLimiterOptions creates a new rate limiter options with default values
func NewRateLimiterOptions() *RateLimiterOptions {
	return &RateLimiterOptions{
		Window:    time.Minute,
		Namespace: "rate_limit",
	}
}

// WithLimit sets the number of requests allowed per window
func (rlo *RateLimiterOptions) WithLimit(limit int64) *RateLimiterOptions {
	rlo.Limit = limit
	return rlo
}

// WithWindow sets the counting window
func (rlo *RateLimiterOptions) WithWindow(window time.Duration) *RateLimiterOptions {
	rlo.Window = window
	return rlo
}

// WithNamespace sets the namespace for organizing rate limiter keys
func (rlo *RateLimiterOptions) WithNamespace(namespace string) *RateLimiterOptions {
	rlo.Namespace = namespace
	return rlo
}

// Validate validates the rate limiter options
func (rlo *RateLimiterOptions) Validate() error {
	if rlo.Limit <= 0 {
		return errors.New("limit must be greater than 0")
	}
	if rlo.Window < time.Second {
		return fmt.Errorf("invalid window: %v, must be at least one second", rlo.Window)
	}
	return nil
}

// RateLimitResult describes the outcome of a single Allow call
type RateLimitResult struct {
	Allowed   bool
	Limit     int64
	Remaining int64
	ResetAt   time.Time
}

// RateLimiter counts requests per key in fixed windows shared through Redis
type RateLimiter struct {
	client *Client
	opts   *RateLimiterOptions
	now    func() time.Time
}

// NewRateLimiter creates a new distributed rate limiter
func NewRateLimiter(client *Client, opts *RateLimiterOptions) (*RateLimiter, error) {
	if opts == nil {
		opts = NewRateLimiterOptions()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	return &RateLimiter{
		client: client,
		opts:   opts,
		now:    time.Now,
	}, nil
}

func (rl *RateLimiter) buildKey(key string, windowStart time.Time) string {
	suffix := key + "::" + strconv.FormatInt(windowStart.Unix(), 10)
	if rl.opts.Namespace != "" {
		return rl.opts.Namespace + "::" + suffix
	}
	return suffix
}

// Allow records one request for key and reports whether it fits in the current window
func (rl *RateLimiter) Allow(ctx context.Context, key string) (RateLimitResult, error) {
	windowStart := rl.now().Truncate(rl.opts.Window)
	fullKey := rl.buildKey(key, windowStart)

	pipe := rl.client.GetClient().TxPipeline()
	incr := pipe.Incr(ctx, fullKey)
	pipe.Expire(ctx, fullKey, rl.opts.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return RateLimitResult{}, fmt.Errorf("failed to count request: %w", err)
	}

	count := incr.Val()
	remaining := rl.opts.Limit - count
	if remaining < 0 {
		remaining = 0
	}

	return RateLimitResult{
		Allowed:   count <= rl.opts.Limit,
		Limit:     rl.opts.Limit,
		Remaining: remaining,
		ResetAt:   windowStart.Add(rl.opts.Window),
	}, nil
}
