package audit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Config controls dispatcher buffering behavior.
type Config struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// DroppedEvent names the most recent event lost to a full buffer.
type DroppedEvent struct {
	EventType string
	Subject   string
	RequestID string
	At        time.Time
}

// DropStats is a point-in-time view of dispatcher drops.
type DropStats struct {
	Total  uint64
	ByType map[string]uint64
	Last   DroppedEvent
}

// Dispatcher relays events to a sink from one goroutine. A nil *Dispatcher
// is valid and discards everything.
type Dispatcher struct {
	sink       Sink
	dropIfFull bool
	queue      chan Event
	worker     sync.WaitGroup

	// mu keeps Emit from sending on queue after Close has closed it.
	mu     sync.RWMutex
	closed bool

	delivered atomic.Uint64
	dropped   atomic.Uint64

	dropMu sync.Mutex
	byType map[string]uint64
	last   DroppedEvent
}

// NewDispatcher starts a dispatcher. It returns nil when cfg.Enabled is
// false.
func NewDispatcher(cfg Config, sink Sink) *Dispatcher {
	if !cfg.Enabled {
		return nil
	}
	size := cfg.BufferSize
	if size <= 0 {
		size = 1
	}
	if sink == nil {
		sink = NoOpSink{}
	}

	d := &Dispatcher{
		sink:       sink,
		dropIfFull: cfg.DropIfFull,
		queue:      make(chan Event, size),
		byType:     make(map[string]uint64),
	}
	d.worker.Add(1)
	go d.run()
	return d
}

// run exits once Close has closed the queue and every buffered event has
// reached the sink.
func (d *Dispatcher) run() {
	defer d.worker.Done()
	for event := range d.queue {
		d.sink.Emit(context.Background(), event)
		d.delivered.Add(1)
	}
}

// Emit enqueues event. With DropIfFull it never blocks and records the drop
// against the event type; otherwise it waits for room or for ctx. It
// reports whether the event was enqueued.
func (d *Dispatcher) Emit(ctx context.Context, event Event) bool {
	if d == nil {
		return false
	}
	if ctx == nil {
		ctx = context.Background()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return false
	}

	if d.dropIfFull {
		select {
		case d.queue <- event:
			return true
		default:
			d.recordDrop(event)
			return false
		}
	}

	select {
	case d.queue <- event:
		return true
	case <-ctx.Done():
		return false
	}
}

func (d *Dispatcher) recordDrop(event Event) {
	d.dropMu.Lock()
	defer d.dropMu.Unlock()
	d.dropped.Add(1)
	d.byType[event.EventType]++
	d.last = DroppedEvent{
		EventType: event.EventType,
		Subject:   event.Subject,
		RequestID: event.Metadata["request_id"],
		At:        event.Timestamp,
	}
}

// Close stops accepting events and waits until the buffer has drained into
// the sink. Safe to call more than once.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	d.worker.Wait()
}

func (d *Dispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}

func (d *Dispatcher) Delivered() uint64 {
	if d == nil {
		return 0
	}
	return d.delivered.Load()
}

// DropStats returns a copy of the drop ledger.
func (d *Dispatcher) DropStats() DropStats {
	if d == nil {
		return DropStats{ByType: map[string]uint64{}}
	}
	d.dropMu.Lock()
	defer d.dropMu.Unlock()

	byType := make(map[string]uint64, len(d.byType))
	for k, v := range d.byType {
		byType[k] = v
	}
	return DropStats{
		Total:  d.dropped.Load(),
		ByType: byType,
		Last:   d.last,
	}
}
