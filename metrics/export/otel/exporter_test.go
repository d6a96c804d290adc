package otel

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	gateToken "github.com/MrEthical07/gateToken"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// stubSource reports a fixed latency histogram and a settable verify count.
type stubSource struct {
	verified atomic.Uint64
	dropped  atomic.Uint64
	latency  []uint64
}

func (s *stubSource) MetricsSnapshot() gateToken.MetricsSnapshot {
	snap := gateToken.MetricsSnapshot{
		Counters: map[gateToken.MetricID]uint64{
			gateToken.MetricVerifySuccess: s.verified.Load(),
		},
		Histograms: map[gateToken.MetricID][]uint64{},
	}
	if s.latency != nil {
		snap.Histograms[gateToken.MetricVerifyLatency] = append([]uint64(nil), s.latency...)
	}
	return snap
}

func (s *stubSource) AuditDropped() uint64 { return s.dropped.Load() }

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumPoint(t *testing.T, metrics map[string]metricdata.Metrics, name string) metricdata.DataPoint[int64] {
	t.Helper()
	m, ok := metrics[name]
	if !ok {
		t.Fatalf("metric %s not collected", name)
	}
	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok || len(sum.DataPoints) != 1 {
		t.Fatalf("metric %s: unexpected data %T", name, m.Data)
	}
	return sum.DataPoints[0]
}

func gaugeValue(t *testing.T, metrics map[string]metricdata.Metrics, name string) int64 {
	t.Helper()
	m, ok := metrics[name]
	if !ok {
		t.Fatalf("metric %s not collected", name)
	}
	g, ok := m.Data.(metricdata.Gauge[int64])
	if !ok || len(g.DataPoints) != 1 {
		t.Fatalf("metric %s: unexpected data %T", name, m.Data)
	}
	return g.DataPoints[0].Value
}

func newExporter(t *testing.T, src metricsSource, opts ...Option) *sdkmetric.ManualReader {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	exp, err := NewOTelExporterFromSource(provider.Meter("gatetoken-test"), src, opts...)
	if err != nil {
		t.Fatalf("NewOTelExporterFromSource failed: %v", err)
	}
	t.Cleanup(func() {
		if err := exp.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	})
	return reader
}

func TestExporterCollectsCountersWithAttributes(t *testing.T) {
	src := &stubSource{}
	src.verified.Store(3)
	src.dropped.Store(1)

	reader := newExporter(t, src, WithAttributes(attribute.String("instance", "gw-1")))
	metrics := collect(t, reader)

	dp := sumPoint(t, metrics, "gatetoken_verify_success_total")
	if dp.Value != 3 {
		t.Fatalf("expected verify success 3, got %d", dp.Value)
	}
	if v, ok := dp.Attributes.Value("instance"); !ok || v.AsString() != "gw-1" {
		t.Fatalf("expected instance attribute, got %v", dp.Attributes)
	}
	if got := sumPoint(t, metrics, "gatetoken_audit_dropped_total").Value; got != 1 {
		t.Fatalf("expected audit dropped 1, got %d", got)
	}
	if got := sumPoint(t, metrics, "gatetoken_verify_expired_total").Value; got != 0 {
		t.Fatalf("expected absent counter to report 0, got %d", got)
	}
}

func TestExporterFlattensLatencyHistogram(t *testing.T) {
	src := &stubSource{latency: []uint64{2, 1, 0, 0, 0, 0, 0, 1}}
	metrics := collect(t, newExporter(t, src))

	if got := gaugeValue(t, metrics, "gatetoken_verify_latency_seconds_bucket_le_0_00005"); got != 2 {
		t.Fatalf("expected first bucket 2, got %d", got)
	}
	if got := gaugeValue(t, metrics, "gatetoken_verify_latency_seconds_bucket_le_0_0001"); got != 3 {
		t.Fatalf("expected cumulative second bucket 3, got %d", got)
	}
	if got := gaugeValue(t, metrics, "gatetoken_verify_latency_seconds_bucket_le_inf"); got != 4 {
		t.Fatalf("expected +Inf bucket 4, got %d", got)
	}
	if got := gaugeValue(t, metrics, "gatetoken_verify_latency_seconds_count"); got != 4 {
		t.Fatalf("expected count 4, got %d", got)
	}
}

func TestExporterRejectsNilInputs(t *testing.T) {
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewManualReader()))
	meter := provider.Meter("gatetoken-test")

	if _, err := NewOTelExporterFromSource(meter, nil); err != ErrNilSource {
		t.Fatalf("expected ErrNilSource, got %v", err)
	}
	if _, err := NewOTelExporter(meter, nil); err != ErrNilSource {
		t.Fatalf("expected ErrNilSource for nil engine, got %v", err)
	}
	if _, err := NewOTelExporterFromSource(nil, &stubSource{}); err != ErrNilMeter {
		t.Fatalf("expected ErrNilMeter, got %v", err)
	}
}

func TestExporterConcurrentCollect(t *testing.T) {
	src := &stubSource{latency: []uint64{1, 0, 0, 0, 0, 0, 0, 0}}
	reader := newExporter(t, src)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(v uint64) {
			defer wg.Done()
			src.verified.Store(v)
			var rm metricdata.ResourceMetrics
			_ = reader.Collect(context.Background(), &rm)
		}(uint64(i + 1))
	}
	wg.Wait()
}

func TestExporterFromEngine(t *testing.T) {
	engine, err := gateToken.New().
		WithConfig(gateToken.GatewayPreset([]byte("your-super-secure-jwt-secret-key-must-be-at-least-32-characters-long"))).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	exp, err := NewOTelExporter(provider.Meter("gatetoken-test"), engine)
	if err != nil {
		t.Fatalf("NewOTelExporter failed: %v", err)
	}
	defer exp.Close()

	_, _ = engine.Verify(context.Background(), "garbage")
	metrics := collect(t, reader)
	if got := sumPoint(t, metrics, "gatetoken_verify_malformed_total").Value; got != 1 {
		t.Fatalf("expected one malformed verify, got %d", got)
	}
}
