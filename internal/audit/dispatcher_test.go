package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

type countingSink struct {
	count atomic.Int64
}

func (s *countingSink) Emit(context.Context, Event) {
	s.count.Add(1)
}

type gateSink struct {
	gate chan struct{}
}

func (s *gateSink) Emit(context.Context, Event) {
	<-s.gate
}

func TestNewDispatcherDisabledReturnsNil(t *testing.T) {
	d := NewDispatcher(Config{Enabled: false}, &countingSink{})
	if d != nil {
		t.Fatal("expected nil dispatcher when disabled")
	}
	if d.Emit(context.Background(), Event{EventType: "x"}) {
		t.Fatal("nil dispatcher must not accept events")
	}
	d.Close()
	if d.Dropped() != 0 || d.Delivered() != 0 {
		t.Fatal("nil dispatcher counters must be zero")
	}
	if stats := d.DropStats(); stats.Total != 0 || stats.ByType == nil {
		t.Fatalf("nil dispatcher must report an empty ledger, got %+v", stats)
	}
}

func TestDispatcherCloseDrainsBuffer(t *testing.T) {
	sink := &countingSink{}
	d := NewDispatcher(Config{Enabled: true, BufferSize: 64}, sink)

	for i := 0; i < 50; i++ {
		if !d.Emit(context.Background(), Event{EventType: "token_issued"}) {
			t.Fatalf("emit %d rejected", i)
		}
	}
	d.Close()

	if got := sink.count.Load(); got != 50 {
		t.Fatalf("expected 50 delivered events, got %d", got)
	}
	if d.Delivered() != 50 {
		t.Fatalf("expected Delivered=50, got %d", d.Delivered())
	}
	if d.Emit(context.Background(), Event{}) {
		t.Fatal("closed dispatcher must reject events")
	}
}

func TestDispatcherDropIfFull(t *testing.T) {
	sink := &gateSink{gate: make(chan struct{})}
	d := NewDispatcher(Config{Enabled: true, BufferSize: 1, DropIfFull: true}, sink)

	// first event is picked up by the worker and blocks in the sink,
	// the second fills the buffer, the rest are dropped
	d.Emit(context.Background(), Event{})
	deadline := time.Now().Add(time.Second)
	for len(d.queue) != 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	d.Emit(context.Background(), Event{})
	for i := 0; i < 5; i++ {
		d.Emit(context.Background(), Event{})
	}

	if got := d.Dropped(); got != 5 {
		t.Fatalf("expected 5 dropped events, got %d", got)
	}

	close(sink.gate)
	d.Close()
}

func TestDispatcherDropStatsByType(t *testing.T) {
	sink := &gateSink{gate: make(chan struct{})}
	d := NewDispatcher(Config{Enabled: true, BufferSize: 1, DropIfFull: true}, sink)

	d.Emit(context.Background(), Event{EventType: "token_issued"})
	deadline := time.Now().Add(time.Second)
	for len(d.queue) != 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	d.Emit(context.Background(), Event{EventType: "token_issued"})

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	d.Emit(context.Background(), Event{EventType: "token_rejected"})
	d.Emit(context.Background(), Event{EventType: "token_verified", Subject: "u1"})
	d.Emit(context.Background(), Event{
		EventType: "token_rejected",
		Subject:   "u2",
		Timestamp: at,
		Metadata:  map[string]string{"request_id": "req-9"},
	})

	stats := d.DropStats()
	if stats.Total != 3 || d.Dropped() != 3 {
		t.Fatalf("expected 3 drops, got %d (Dropped=%d)", stats.Total, d.Dropped())
	}
	if stats.ByType["token_rejected"] != 2 || stats.ByType["token_verified"] != 1 {
		t.Fatalf("unexpected per-type drops %v", stats.ByType)
	}
	if _, ok := stats.ByType["token_issued"]; ok {
		t.Fatalf("token_issued was never dropped: %v", stats.ByType)
	}
	want := DroppedEvent{EventType: "token_rejected", Subject: "u2", RequestID: "req-9", At: at}
	if stats.Last != want {
		t.Fatalf("expected last drop %+v, got %+v", want, stats.Last)
	}

	stats.ByType["token_rejected"] = 100
	if d.DropStats().ByType["token_rejected"] != 2 {
		t.Fatal("DropStats must return a copy")
	}

	close(sink.gate)
	d.Close()
	if d.Delivered() != 2 {
		t.Fatalf("expected the 2 accepted events delivered, got %d", d.Delivered())
	}
}

func TestDispatcherCloseIdempotent(t *testing.T) {
	sink := &countingSink{}
	d := NewDispatcher(Config{Enabled: true, BufferSize: 4}, sink)
	d.Emit(context.Background(), Event{EventType: "token_issued"})

	d.Close()
	d.Close()

	if sink.count.Load() != 1 {
		t.Fatalf("expected 1 delivered event, got %d", sink.count.Load())
	}
	if d.Emit(context.Background(), Event{EventType: "token_issued"}) {
		t.Fatal("closed dispatcher must reject events")
	}
	if d.DropStats().Total != 0 {
		t.Fatal("rejections after Close are not drops")
	}
}

func TestDispatcherBlockingRespectsContext(t *testing.T) {
	sink := &gateSink{gate: make(chan struct{})}
	d := NewDispatcher(Config{Enabled: true, BufferSize: 1}, sink)
	defer func() {
		close(sink.gate)
		d.Close()
	}()

	d.Emit(context.Background(), Event{})
	deadline := time.Now().Add(time.Second)
	for len(d.queue) != 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	d.Emit(context.Background(), Event{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if d.Emit(ctx, Event{}) {
		t.Fatal("expected blocked emit to give up when ctx expires")
	}
	if d.Dropped() != 0 {
		t.Fatal("blocking mode must not count drops")
	}
}

func TestJSONWriterSinkOneObjectPerLine(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), Event{ID: "a", EventType: "token_verified", Subject: "u1", Success: true})
	sink.Emit(context.Background(), Event{ID: "b", EventType: "token_rejected", Error: "token_expired"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}

	var second Event
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if second.EventType != "token_rejected" || second.Error != "token_expired" || second.Success {
		t.Fatalf("unexpected decoded event: %+v", second)
	}
	if strings.Contains(lines[1], "subject") {
		t.Fatalf("empty subject should be omitted: %s", lines[1])
	}
}

func TestMultiSinkFansOut(t *testing.T) {
	a, b := &countingSink{}, &countingSink{}
	var seen string
	sink := MultiSink{a, nil, b, SinkFunc(func(_ context.Context, e Event) { seen = e.EventType })}

	sink.Emit(context.Background(), Event{EventType: "token_issued"})

	if a.count.Load() != 1 || b.count.Load() != 1 {
		t.Fatalf("expected each sink once, got %d and %d", a.count.Load(), b.count.Load())
	}
	if seen != "token_issued" {
		t.Fatalf("SinkFunc saw %q", seen)
	}
}

func TestChannelSink(t *testing.T) {
	sink := NewChannelSink(0)
	sink.Emit(context.Background(), Event{EventType: "token_issued"})

	select {
	case e := <-sink.Events():
		if e.EventType != "token_issued" {
			t.Fatalf("unexpected event %q", e.EventType)
		}
	default:
		t.Fatal("expected buffered event")
	}
}
