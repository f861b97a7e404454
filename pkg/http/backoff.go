package http

import (
	"math"
	"net/http"
	"slices"
	"time"
)

// BackoffConfig defines an exponential retry policy.
type BackoffConfig struct {
	// MaxRetries is the number of attempts made after the first one
	MaxRetries int
	// InitialInterval is the wait before the first retry
	InitialInterval time.Duration
	// MaxInterval caps the wait between retries
	MaxInterval time.Duration
	// Multiplier grows the interval after every retry
	Multiplier float64
	// RetryOnStatus lists the response statuses worth retrying
	RetryOnStatus []int
}

// NewBackoffConfig creates a backoff with three retries on gateway and throttling errors
func NewBackoffConfig() *BackoffConfig {
	return &BackoffConfig{
		MaxRetries:      3,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		Multiplier:      2,
		RetryOnStatus: []int{
			http.StatusTooManyRequests,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout,
		},
	}
}

// WithMaxRetries sets the number of retries
func (b *BackoffConfig) WithMaxRetries(maxRetries int) *BackoffConfig {
	b.MaxRetries = maxRetries
	return b
}

// WithInitialInterval sets the first retry delay
func (b *BackoffConfig) WithInitialInterval(interval time.Duration) *BackoffConfig {
	b.InitialInterval = interval
	return b
}

// WithMaxInterval sets the delay cap
func (b *BackoffConfig) WithMaxInterval(interval time.Duration) *BackoffConfig {
	b.MaxInterval = interval
	return b
}

// WithRetryOnStatus replaces the retryable statuses
func (b *BackoffConfig) WithRetryOnStatus(statuses ...int) *BackoffConfig {
	b.RetryOnStatus = statuses
	return b
}

// shouldRetry only resends requests the server has not applied. A transport error after
// a POST or PATCH may follow a committed write, so those methods are retried only on
// 429 and 503, which mean the request was refused.
func (b *BackoffConfig) shouldRetry(method string, status int, transportErr error) bool {
	if b == nil {
		return false
	}
	if !isIdempotent(method) {
		return transportErr == nil && refused(status) && slices.Contains(b.RetryOnStatus, status)
	}
	if transportErr != nil {
		return true
	}
	return slices.Contains(b.RetryOnStatus, status)
}

func isIdempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

func refused(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}

func (b *BackoffConfig) delay(attempt int) time.Duration {
	multiplier := b.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}
	wait := time.Duration(float64(b.InitialInterval) * math.Pow(multiplier, float64(attempt)))
	if b.MaxInterval > 0 && wait > b.MaxInterval {
		return b.MaxInterval
	}
	return wait
}
