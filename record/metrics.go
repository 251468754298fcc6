package record

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting writer metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordAdd is called after each AddEntrypoint.
	// points is the number of buffer points the call appended, err is nil if
	// the entrypoint was accepted.
	RecordAdd(points int, err error)

	// RecordFlush is called after each Flush that had an entry to write.
	RecordFlush(bytes int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAdd(int, error)                  {}
func (NoopMetricsCollector) RecordFlush(int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	AddCount        atomic.Int64
	AddRejected     atomic.Int64
	AddErrors       atomic.Int64
	PointsAdded     atomic.Int64
	FlushCount      atomic.Int64
	FlushErrors     atomic.Int64
	FlushBytes      atomic.Int64
	FlushTotalNanos atomic.Int64
}

// RecordAdd implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAdd(points int, err error) {
	b.AddCount.Add(1)
	b.PointsAdded.Add(int64(points))
	switch {
	case err == nil:
	case CodeOf(err) == EntrypointRejected:
		b.AddRejected.Add(1)
	default:
		b.AddErrors.Add(1)
	}
}

// RecordFlush implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFlush(bytes int, duration time.Duration, err error) {
	b.FlushCount.Add(1)
	b.FlushTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.FlushErrors.Add(1)
		return
	}
	b.FlushBytes.Add(int64(bytes))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		AddCount:      b.AddCount.Load(),
		AddRejected:   b.AddRejected.Load(),
		AddErrors:     b.AddErrors.Load(),
		PointsAdded:   b.PointsAdded.Load(),
		FlushCount:    b.FlushCount.Load(),
		FlushErrors:   b.FlushErrors.Load(),
		FlushBytes:    b.FlushBytes.Load(),
		FlushAvgNanos: b.getAvgFlushNanos(),
	}
}

func (b *BasicMetricsCollector) getAvgFlushNanos() int64 {
	count := b.FlushCount.Load()
	if count == 0 {
		return 0
	}
	return b.FlushTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	AddCount      int64
	AddRejected   int64
	AddErrors     int64
	PointsAdded   int64
	FlushCount    int64
	FlushErrors   int64
	FlushBytes    int64
	FlushAvgNanos int64
}
