package otel

import (
	"context"
	"errors"
	"fmt"

	gateToken "github.com/MrEthical07/gateToken"
	"github.com/MrEthical07/gateToken/metrics/export/internaldefs"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	ErrNilMeter  = errors.New("nil meter")
	ErrNilSource = errors.New("nil metrics source")
)

type metricsSource interface {
	MetricsSnapshot() gateToken.MetricsSnapshot
	AuditDropped() uint64
}

// Option configures an [OTelExporter].
type Option func(*OTelExporter)

// WithAttributes attaches attrs to every observation, e.g. the gateway
// instance name.
func WithAttributes(attrs ...attribute.KeyValue) Option {
	return func(e *OTelExporter) {
		e.attrs = append(e.attrs, attrs...)
	}
}

// latencyGauges is one histogram flattened into cumulative bucket gauges.
type latencyGauges struct {
	buckets [8]metric.Int64ObservableGauge
	count   metric.Int64ObservableGauge
}

type OTelExporter struct {
	source       metricsSource
	attrs        []attribute.KeyValue
	observeOpt   metric.ObserveOption
	counters     map[gateToken.MetricID]metric.Int64ObservableCounter
	histograms   map[gateToken.MetricID]latencyGauges
	auditDropped metric.Int64ObservableCounter
	registration metric.Registration
}

func NewOTelExporter(meter metric.Meter, engine *gateToken.Engine, opts ...Option) (*OTelExporter, error) {
	if engine == nil {
		return nil, ErrNilSource
	}
	return NewOTelExporterFromSource(meter, engine, opts...)
}

// NewOTelExporterFromSource registers instruments on meter that read from
// source on each collection.
func NewOTelExporterFromSource(meter metric.Meter, source metricsSource, opts ...Option) (*OTelExporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	e := &OTelExporter{
		source:     source,
		counters:   make(map[gateToken.MetricID]metric.Int64ObservableCounter, len(internaldefs.CounterDefs)),
		histograms: make(map[gateToken.MetricID]latencyGauges, len(internaldefs.HistogramDefs)),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.observeOpt = metric.WithAttributes(e.attrs...)

	var observables []metric.Observable
	var err error
	if observables, err = e.registerCounters(meter, observables); err != nil {
		return nil, err
	}
	if observables, err = e.registerHistograms(meter, observables); err != nil {
		return nil, err
	}

	e.auditDropped, err = meter.Int64ObservableCounter(
		internaldefs.AuditDroppedName,
		metric.WithDescription(internaldefs.AuditDroppedHelp),
	)
	if err != nil {
		return nil, fmt.Errorf("create counter %s: %w", internaldefs.AuditDroppedName, err)
	}
	observables = append(observables, e.auditDropped)

	e.registration, err = meter.RegisterCallback(e.observe, observables...)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}
	return e, nil
}

func (e *OTelExporter) registerCounters(meter metric.Meter, obs []metric.Observable) ([]metric.Observable, error) {
	for _, def := range internaldefs.CounterDefs {
		c, err := meter.Int64ObservableCounter(def.Name, metric.WithDescription(def.Help))
		if err != nil {
			return nil, fmt.Errorf("create counter %s: %w", def.Name, err)
		}
		e.counters[def.ID] = c
		obs = append(obs, c)
	}
	return obs, nil
}

func (e *OTelExporter) registerHistograms(meter metric.Meter, obs []metric.Observable) ([]metric.Observable, error) {
	for _, def := range internaldefs.HistogramDefs {
		var g latencyGauges
		for i, suffix := range internaldefs.HistogramBoundSuffix {
			name := def.Name + "_bucket_le_" + suffix
			gauge, err := meter.Int64ObservableGauge(name,
				metric.WithDescription("Cumulative bucket count for "+def.Name+"."),
				metric.WithUnit("{request}"),
			)
			if err != nil {
				return nil, fmt.Errorf("create gauge %s: %w", name, err)
			}
			g.buckets[i] = gauge
			obs = append(obs, gauge)
		}

		count, err := meter.Int64ObservableGauge(def.Name+"_count", metric.WithDescription("Sample count for "+def.Name+"."))
		if err != nil {
			return nil, fmt.Errorf("create gauge %s_count: %w", def.Name, err)
		}
		g.count = count
		obs = append(obs, count)
		e.histograms[def.ID] = g
	}
	return obs, nil
}

func (e *OTelExporter) observe(_ context.Context, o metric.Observer) error {
	snap := e.source.MetricsSnapshot()

	for id, c := range e.counters {
		o.ObserveInt64(c, int64(snap.Counters[id]), e.observeOpt)
	}
	for id, g := range e.histograms {
		raw, ok := snap.Histograms[id]
		if !ok {
			continue
		}
		cum := internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(raw))
		for i, v := range cum {
			o.ObserveInt64(g.buckets[i], int64(v), e.observeOpt)
		}
		o.ObserveInt64(g.count, int64(cum[len(cum)-1]), e.observeOpt)
	}
	o.ObserveInt64(e.auditDropped, int64(e.source.AuditDropped()), e.observeOpt)
	return nil
}

// Close unregisters the collection callback.
func (e *OTelExporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
