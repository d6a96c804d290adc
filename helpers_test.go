package gateToken

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

const testSecret = "your-super-secure-jwt-secret-key-must-be-at-least-32-characters-long"

var testEpoch = time.Date(2025, time.March, 14, 9, 26, 53, 0, time.UTC)

func testConfig() Config {
	return GatewayPreset([]byte(testSecret))
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return mr, client
}

// buildTestEngine builds an engine on a frozen clock. A nil rdb builds
// without Redis.
func buildTestEngine(t *testing.T, cfg Config, rdb *redis.Client, sink AuditSink) *Engine {
	t.Helper()

	b := New().
		WithConfig(cfg).
		WithAuditSink(sink).
		WithClock(func() time.Time { return testEpoch })
	if rdb != nil {
		b = b.WithRedis(rdb)
	}

	engine, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

func gatewayClaims() map[string]any {
	return map[string]any{
		"user_id": "testuser123",
		"role":    "user",
	}
}
