package prometheus

import (
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"

	gateToken "github.com/MrEthical07/gateToken"
	"github.com/MrEthical07/gateToken/metrics/export/internaldefs"
)

type metricsSource interface {
	MetricsSnapshot() gateToken.MetricsSnapshot
	AuditDropped() uint64
}

// Option configures a [PrometheusExporter].
type Option func(*PrometheusExporter)

// WithConstLabels attaches the same label set to every sample, for example
// to tell gateway instances apart.
func WithConstLabels(labels map[string]string) Option {
	return func(p *PrometheusExporter) {
		keys := make([]string, 0, len(labels))
		for k := range labels {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+"=\""+escapeLabel(labels[k])+"\"")
		}
		p.labels = strings.Join(parts, ",")
	}
}

// PrometheusExporter renders engine metrics in Prometheus text exposition
// format.
type PrometheusExporter struct {
	source metricsSource
	labels string
}

// NewPrometheusExporter creates an exporter that reads from engine.
func NewPrometheusExporter(engine *gateToken.Engine, opts ...Option) *PrometheusExporter {
	return NewPrometheusExporterFromSource(engine, opts...)
}

// NewPrometheusExporterFromSource creates an exporter from any snapshot
// source.
func NewPrometheusExporterFromSource(source metricsSource, opts ...Option) *PrometheusExporter {
	p := &PrometheusExporter{source: source}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Handler serves the current metrics.
func (p *PrometheusExporter) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		_, _ = p.WriteTo(w)
	})
}

// WriteTo writes Render's output to w.
func (p *PrometheusExporter) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, p.Render())
	return int64(n), err
}

// Render returns the current metrics in Prometheus text exposition format,
// or "" when the source has nothing to report.
func (p *PrometheusExporter) Render() string {
	if p == nil || p.source == nil {
		return ""
	}

	snapshot := p.source.MetricsSnapshot()
	dropped := p.source.AuditDropped()
	if len(snapshot.Counters) == 0 && len(snapshot.Histograms) == 0 && dropped == 0 {
		return ""
	}

	var b strings.Builder
	b.Grow(4096)

	for _, def := range internaldefs.CounterDefs {
		p.writeCounter(&b, def.Name, def.Help, snapshot.Counters[def.ID])
	}

	for _, def := range internaldefs.HistogramDefs {
		raw, ok := snapshot.Histograms[def.ID]
		if !ok {
			continue
		}
		cumulative := internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(raw))
		p.writeHistogram(&b, def.Name, def.Help, cumulative)
	}

	p.writeCounter(&b, internaldefs.AuditDroppedName, internaldefs.AuditDroppedHelp, dropped)

	return b.String()
}

func writeHeader(b *strings.Builder, name, help, kind string) {
	b.WriteString("# HELP ")
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(escapeHelp(help))
	b.WriteByte('\n')
	b.WriteString("# TYPE ")
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(kind)
	b.WriteByte('\n')
}

func (p *PrometheusExporter) writeCounter(b *strings.Builder, name, help string, value uint64) {
	writeHeader(b, name, help, "counter")
	b.WriteString(name)
	if p.labels != "" {
		b.WriteByte('{')
		b.WriteString(p.labels)
		b.WriteByte('}')
	}
	b.WriteByte(' ')
	b.WriteString(strconv.FormatUint(value, 10))
	b.WriteByte('\n')
}

func (p *PrometheusExporter) writeHistogram(b *strings.Builder, name, help string, cumulative [8]uint64) {
	writeHeader(b, name, help, "histogram")

	for i, le := range internaldefs.HistogramBounds {
		b.WriteString(name)
		b.WriteString("_bucket{")
		if p.labels != "" {
			b.WriteString(p.labels)
			b.WriteByte(',')
		}
		b.WriteString("le=\"")
		b.WriteString(le)
		b.WriteString("\"} ")
		b.WriteString(strconv.FormatUint(cumulative[i], 10))
		b.WriteByte('\n')
	}

	suffix := ""
	if p.labels != "" {
		suffix = "{" + p.labels + "}"
	}
	b.WriteString(name)
	b.WriteString("_count")
	b.WriteString(suffix)
	b.WriteByte(' ')
	b.WriteString(strconv.FormatUint(cumulative[len(cumulative)-1], 10))
	b.WriteByte('\n')

	// Sum is not tracked by the core; keep a stable field for scrapers.
	b.WriteString(name)
	b.WriteString("_sum")
	b.WriteString(suffix)
	b.WriteString(" 0\n")
}

func escapeHelp(help string) string {
	help = strings.ReplaceAll(help, "\\", "\\\\")
	help = strings.ReplaceAll(help, "\n", "\\n")
	return help
}

func escapeLabel(v string) string {
	v = escapeHelp(v)
	return strings.ReplaceAll(v, "\"", "\\\"")
}
