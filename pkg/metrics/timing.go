// Package metrics records how long each stage of a snake run takes.
//
// Metrics are collected in-memory with atomic operations, so the renderers
// running in parallel can record into the same metric. Collection is enabled
// by default and can be disabled via SNAKE_METRICS=0. The --stats flag prints
// AllTimingStats.
//
// Usage:
//
//	func render() {
//	    defer metrics.Timer(metrics.RenderGIF)()
//	    // ...
//	}
package metrics

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

var enabled atomic.Bool

func init() {
	enabled.Store(os.Getenv("SNAKE_METRICS") != "0")
}

// Enabled returns whether metrics collection is enabled.
func Enabled() bool {
	return enabled.Load()
}

// SetEnabled allows programmatic control of metrics collection.
func SetEnabled(e bool) {
	enabled.Store(e)
}

// TimingMetric tracks timing statistics for a named operation.
type TimingMetric struct {
	name    string
	count   atomic.Int64
	totalNs atomic.Int64
	maxNs   atomic.Int64
	minNs   atomic.Int64 // 0 means not set
}

func newTimingMetric(name string) *TimingMetric {
	return &TimingMetric{name: name}
}

// Record records a single measurement.
func (m *TimingMetric) Record(d time.Duration) {
	if !Enabled() {
		return
	}
	ns := d.Nanoseconds()

	m.count.Add(1)
	m.totalNs.Add(ns)

	for {
		old := m.maxNs.Load()
		if ns <= old || m.maxNs.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.minNs.Load()
		if old != 0 && ns >= old {
			break
		}
		if m.minNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// Name returns the metric name.
func (m *TimingMetric) Name() string {
	return m.name
}

// Count returns the number of recorded measurements.
func (m *TimingMetric) Count() int64 {
	return m.count.Load()
}

// Stats returns a snapshot.
func (m *TimingMetric) Stats() TimingStats {
	count := m.count.Load()
	total := m.totalNs.Load()
	var avg int64
	if count > 0 {
		avg = total / count
	}
	return TimingStats{
		Name:  m.name,
		Count: count,
		Total: time.Duration(total),
		Avg:   time.Duration(avg),
		Max:   time.Duration(m.maxNs.Load()),
		Min:   time.Duration(m.minNs.Load()),
	}
}

// Reset clears all recorded measurements.
func (m *TimingMetric) Reset() {
	m.count.Store(0)
	m.totalNs.Store(0)
	m.maxNs.Store(0)
	m.minNs.Store(0)
}

// TimingStats holds a snapshot of timing statistics.
type TimingStats struct {
	Name  string
	Count int64
	Total time.Duration
	Avg   time.Duration
	Max   time.Duration
	Min   time.Duration
}

func (s TimingStats) String() string {
	return fmt.Sprintf("%-11s n=%-3d total=%-10v avg=%-10v max=%v",
		s.Name, s.Count, s.Total.Round(time.Microsecond), s.Avg.Round(time.Microsecond), s.Max.Round(time.Microsecond))
}

// Timer returns a function that records elapsed time when called:
//
//	defer metrics.Timer(metrics.Plan)()
func Timer(m *TimingMetric) func() {
	if !Enabled() || m == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		m.Record(time.Since(start))
	}
}

// Stage metrics.
var (
	Fetch     = newTimingMetric("fetch")
	Plan      = newTimingMetric("plan")
	RenderSVG = newTimingMetric("render_svg")
	RenderGIF = newTimingMetric("render_gif")
	RenderPNG = newTimingMetric("render_png")
)

// AllTimingMetrics returns all registered timing metrics.
func AllTimingMetrics() []*TimingMetric {
	return []*TimingMetric{Fetch, Plan, RenderSVG, RenderGIF, RenderPNG}
}

// ResetAll resets all timing metrics.
func ResetAll() {
	for _, m := range AllTimingMetrics() {
		m.Reset()
	}
}

// AllTimingStats returns stats for metrics that recorded anything.
func AllTimingStats() []TimingStats {
	all := AllTimingMetrics()
	stats := make([]TimingStats, 0, len(all))
	for _, m := range all {
		if m.Count() > 0 {
			stats = append(stats, m.Stats())
		}
	}
	return stats
}

// Report formats AllTimingStats one per line.
func Report() string {
	var sb strings.Builder
	for _, s := range AllTimingStats() {
		sb.WriteString(s.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
