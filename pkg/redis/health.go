package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

const healthCheckKey = "health_check_test"

// HealthStatus represents the health status reported by HealthCheck
type HealthStatus string

const (
	StatusUp   HealthStatus = "UP"
	StatusDown HealthStatus = "DOWN"
)

// RedisHealthCheck represents the health check response for Redis
type RedisHealthCheck struct {
	Status  HealthStatus      `json:"status"`
	Details map[string]string `json:"details"`
}

// HealthCheck pings Redis and runs a set/get/delete round trip
func (c *Client) HealthCheck(ctx context.Context) RedisHealthCheck {
	details := map[string]string{
		"address":  c.config.Addr(),
		"database": strconv.Itoa(c.config.Database),
	}

	if err := c.roundTrip(ctx); err != nil {
		details["message"] = err.Error()
		return RedisHealthCheck{Status: StatusDown, Details: details}
	}

	stats := c.Stats()
	details["message"] = string(StatusUp)
	details["total_conns"] = strconv.FormatUint(uint64(stats.TotalConns), 10)
	details["idle_conns"] = strconv.FormatUint(uint64(stats.IdleConns), 10)
	return RedisHealthCheck{Status: StatusUp, Details: details}
}

func (c *Client) roundTrip(ctx context.Context) error {
	if err := c.Ping(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}

	testValue := strconv.FormatInt(time.Now().UnixNano(), 10)
	if err := c.Set(ctx, healthCheckKey, testValue, time.Minute); err != nil {
		return fmt.Errorf("set operation failed: %w", err)
	}

	value, err := c.Get(ctx, healthCheckKey)
	if err != nil {
		return fmt.Errorf("get operation failed: %w", err)
	}
	if value != testValue {
		return fmt.Errorf("value mismatch: expected %s, got %s", testValue, value)
	}

	if err := c.Delete(ctx, healthCheckKey); err != nil {
		return fmt.Errorf("delete operation failed: %w", err)
	}
	return nil
}
