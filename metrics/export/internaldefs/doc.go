// Package internaldefs holds the gatetoken_* metric names, help strings, and
// latency bucket bounds used by every exporter.
//
// Both exporters range over [CounterDefs] and [HistogramDefs], so a metric
// added to the engine becomes visible everywhere once it is listed here.
//
// # What this package must NOT do
//
//   - Import an exporter package.
//   - Perform I/O.
package internaldefs
