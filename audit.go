package gateToken

import (
	"io"

	internalaudit "github.com/MrEthical07/gateToken/internal/audit"
)

// AuditEvent is one issuance or verification outcome.
type AuditEvent = internalaudit.Event

// AuditSink receives audit events from the engine's dispatcher goroutine.
type AuditSink = internalaudit.Sink

type NoOpSink = internalaudit.NoOpSink

// ChannelSink delivers events to an in-process consumer.
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink writes one JSON object per line.
type JSONWriterSink = internalaudit.JSONWriterSink

// AuditDropStats breaks dropped audit events down by event type.
type AuditDropStats = internalaudit.DropStats

// AuditDroppedEvent identifies the last audit event lost to backpressure.
type AuditDroppedEvent = internalaudit.DroppedEvent

type AuditSinkFunc = internalaudit.SinkFunc

type MultiSink = internalaudit.MultiSink

func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}
