package record

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBasicMetricsCollector(t *testing.T) {
	mc := &BasicMetricsCollector{}

	mc.RecordAdd(5, nil)
	mc.RecordAdd(0, ErrEntrypointRejected)
	mc.RecordAdd(0, ErrBufferOverflow)
	mc.RecordFlush(100, 2*time.Millisecond, nil)
	mc.RecordFlush(0, 4*time.Millisecond, errors.New("io"))

	stats := mc.GetStats()
	assert.Equal(t, BasicMetricsStats{
		AddCount:      3,
		AddRejected:   1,
		AddErrors:     1,
		PointsAdded:   5,
		FlushCount:    2,
		FlushErrors:   1,
		FlushBytes:    100,
		FlushAvgNanos: (3 * time.Millisecond).Nanoseconds(),
	}, stats)
}

func TestBasicMetricsCollector_Empty(t *testing.T) {
	assert.Zero(t, (&BasicMetricsCollector{}).GetStats())
}

func TestNoopMetricsCollector(t *testing.T) {
	var mc MetricsCollector = NoopMetricsCollector{}
	assert.NotPanics(t, func() {
		mc.RecordAdd(1, nil)
		mc.RecordFlush(1, time.Second, nil)
	})
}
