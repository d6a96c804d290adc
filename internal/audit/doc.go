// Package audit relays issue and verify outcomes from the engine to a
// caller-supplied [Sink] on a background goroutine.
//
// The [Dispatcher] owns a bounded buffer. When the buffer is full it either
// drops the event or blocks the caller, depending on Config.DropIfFull.
// Drops are tallied per event type, and DropStats also names the subject and
// request ID of the last lost event. Close drains whatever is buffered
// before returning.
//
// Which events exist and when they fire is decided by the engine, not here.
// Sinks provided: channel, JSON lines, func adapter, fan-out, and no-op.
package audit
