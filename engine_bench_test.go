package gateToken

import (
	"context"
	"testing"
	"time"
)

func newBenchmarkEngine(b *testing.B, latency bool) *Engine {
	b.Helper()

	cfg := GatewayPreset([]byte(testSecret))
	cfg.Metrics.EnableLatencyHistograms = latency
	engine, err := New().WithConfig(cfg).Build()
	if err != nil {
		b.Fatalf("build: %v", err)
	}
	b.Cleanup(engine.Close)
	return engine
}

func BenchmarkEngineIssue(b *testing.B) {
	engine := newBenchmarkEngine(b, false)
	claims := gatewayClaims()
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Issue(ctx, "testuser123", time.Hour, claims); err != nil {
			b.Fatalf("issue failed: %v", err)
		}
	}
}

func BenchmarkEngineVerify(b *testing.B) {
	engine := newBenchmarkEngine(b, false)
	token, err := engine.Issue(context.Background(), "testuser123", time.Hour, gatewayClaims())
	if err != nil {
		b.Fatalf("issue failed: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Verify(context.Background(), token); err != nil {
			b.Fatalf("verify failed: %v", err)
		}
	}
}

func BenchmarkEngineVerifyWithLatency(b *testing.B) {
	engine := newBenchmarkEngine(b, true)
	token, err := engine.Issue(context.Background(), "testuser123", time.Hour, gatewayClaims())
	if err != nil {
		b.Fatalf("issue failed: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := engine.Verify(context.Background(), token); err != nil {
				b.Errorf("verify failed: %v", err)
				return
			}
		}
	})
}
