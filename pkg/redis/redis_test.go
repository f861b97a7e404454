package redis

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	if err != nil {
		t.Fatalf("port: %v", err)
	}

	client, err := NewClient(NewRedisConfig().WithHost(mr.Host()).WithPort(port))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{"defaults", NewRedisConfig(), false},
		{"empty host", NewRedisConfig().WithHost(""), true},
		{"bad port", NewRedisConfig().WithPort(70000), true},
		{"bad database", NewRedisConfig().WithDatabase(16), true},
		{"negative cache ttl", NewRedisConfig().WithCacheTTL("todos", -time.Second), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewClientRejectsInvalidConfig(t *testing.T) {
	if _, err := NewClient(NewRedisConfig().WithHost("")); err == nil {
		t.Fatal("expected error for empty host")
	}
}

type cachedItem struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

func TestCacheRoundTrip(t *testing.T) {
	client, mr := newTestClient(t)
	client.GetConfig().WithCacheTTL("todos", 5*time.Minute)
	cache := NewCache(client, NewCacheOptions().WithCacheName("todos"))
	ctx := context.Background()

	var miss cachedItem
	found, err := cache.Get(ctx, "1", &miss)
	if err != nil || found {
		t.Fatalf("expected miss, got found=%v err=%v", found, err)
	}

	if err := cache.Set(ctx, "1", cachedItem{ID: 1, Title: "buy milk"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !mr.Exists("todos::1") {
		t.Fatal("expected namespaced key todos::1")
	}
	if ttl := mr.TTL("todos::1"); ttl != 5*time.Minute {
		t.Errorf("ttl: got %v, want 5m", ttl)
	}

	var hit cachedItem
	found, err = cache.Get(ctx, "1", &hit)
	if err != nil || !found {
		t.Fatalf("expected hit, got found=%v err=%v", found, err)
	}
	if hit.Title != "buy milk" {
		t.Errorf("title: got %q", hit.Title)
	}

	if err := cache.Delete(ctx, "1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if mr.Exists("todos::1") {
		t.Error("key should be gone after Delete")
	}
}

func TestCacheClear(t *testing.T) {
	client, mr := newTestClient(t)
	cache := NewCache(client, NewCacheOptions().WithCacheName("todos"))
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		if err := cache.Set(ctx, strconv.Itoa(i), cachedItem{ID: int64(i)}); err != nil {
			t.Fatal(err)
		}
	}
	if err := mr.Set("other::1", "keep"); err != nil {
		t.Fatal(err)
	}

	if err := cache.Clear(ctx, "*"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	for i := 1; i <= 3; i++ {
		if mr.Exists("todos::" + strconv.Itoa(i)) {
			t.Errorf("todos::%d should be cleared", i)
		}
	}
	if !mr.Exists("other::1") {
		t.Error("keys outside the cache namespace must survive")
	}
}

func TestLockExclusive(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()
	opts := NewLockOptions().WithTTL(time.Minute).WithMaxRetries(0).WithLockNamespace("jobs")

	first := NewLock(client, "purge", opts)
	second := NewLock(client, "purge", opts)

	if err := first.TryLock(ctx); err != nil {
		t.Fatalf("first TryLock: %v", err)
	}
	if err := second.Lock(ctx); !errors.Is(err, ErrLockNotAcquired) {
		t.Fatalf("second Lock: got %v, want ErrLockNotAcquired", err)
	}
	if err := second.Unlock(ctx); !errors.Is(err, ErrLockNotHeld) {
		t.Fatalf("second Unlock: got %v, want ErrLockNotHeld", err)
	}
	if err := first.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if err := first.Unlock(ctx); err != nil {
		t.Fatalf("first Unlock: %v", err)
	}
	if err := second.TryLock(ctx); err != nil {
		t.Fatalf("second TryLock after release: %v", err)
	}
}

func TestRateLimiterAllow(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	limiter, err := NewRateLimiter(client, NewRateLimiterOptions().WithLimit(2).WithWindow(time.Hour))
	if err != nil {
		t.Fatalf("NewRateLimiter: %v", err)
	}
	fixed := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	limiter.now = func() time.Time { return fixed }

	for i, wantAllowed := range []bool{true, true, false} {
		result, err := limiter.Allow(ctx, "10.0.0.1")
		if err != nil {
			t.Fatalf("Allow #%d: %v", i, err)
		}
		if result.Allowed != wantAllowed {
			t.Errorf("Allow #%d: got %v, want %v", i, result.Allowed, wantAllowed)
		}
	}

	other, err := limiter.Allow(ctx, "10.0.0.2")
	if err != nil || !other.Allowed || other.Remaining != 1 {
		t.Errorf("independent key: got %+v, err %v", other, err)
	}

	limiter.now = func() time.Time { return fixed.Add(time.Hour) }
	next, err := limiter.Allow(ctx, "10.0.0.1")
	if err != nil || !next.Allowed {
		t.Errorf("new window should reset the count, got %+v err %v", next, err)
	}
}

func TestRateLimiterOptionsValidate(t *testing.T) {
	if _, err := NewRateLimiter(nil, NewRateLimiterOptions()); err == nil {
		t.Error("zero limit should be rejected")
	}
	if _, err := NewRateLimiter(nil, NewRateLimiterOptions().WithLimit(1).WithWindow(time.Millisecond)); err == nil {
		t.Error("sub-second window should be rejected")
	}
}

func TestPublisherJSON(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()
	publisher := NewPublisher(client, "todo-api")

	sub := client.Subscribe(ctx, publisher.ChannelName("todo-events"))
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatalf("subscribe confirmation: %v", err)
	}

	if err := publisher.PublishJSON(ctx, "todo-events", cachedItem{ID: 9, Title: "x"}); err != nil {
		t.Fatalf("PublishJSON: %v", err)
	}

	select {
	case msg := <-sub.Channel():
		if msg.Channel != "todo-api::todo-events" {
			t.Errorf("channel: got %q", msg.Channel)
		}
		if msg.Payload != `{"id":9,"title":"x"}` {
			t.Errorf("payload: got %q", msg.Payload)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
	}
}

func TestHealthCheck(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()

	if got := client.HealthCheck(ctx); got.Status != StatusUp {
		t.Fatalf("status: got %s, details %v", got.Status, got.Details)
	}

	mr.Close()
	if got := client.HealthCheck(ctx); got.Status != StatusDown {
		t.Errorf("status after close: got %s", got.Status)
	}
}
