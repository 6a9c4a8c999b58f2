package goCoherence

import (
	"sync/atomic"
	"time"
)

// MetricID defines a public type used by the coherence engine.
//
// MetricID instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricID uint16

const (
	// MetricCacheHit is an exported constant or variable used by the coherence engine.
	MetricCacheHit MetricID = iota
	// MetricCacheMiss is an exported constant or variable used by the coherence engine.
	MetricCacheMiss
	// MetricCacheSet is an exported constant or variable used by the coherence engine.
	MetricCacheSet
	// MetricInvalidationSuccess is an exported constant or variable used by the coherence engine.
	MetricInvalidationSuccess
	// MetricInvalidationFailure is an exported constant or variable used by the coherence engine.
	MetricInvalidationFailure
	// MetricLoginSuccess is an exported constant or variable used by the coherence engine.
	MetricLoginSuccess
	// MetricLoginFailure is an exported constant or variable used by the coherence engine.
	MetricLoginFailure
	// MetricLoginDuplicateToken is an exported constant or variable used by the coherence engine.
	MetricLoginDuplicateToken
	// MetricLogoutSuccess is an exported constant or variable used by the coherence engine.
	MetricLogoutSuccess
	// MetricLogoutNoSession is an exported constant or variable used by the coherence engine.
	MetricLogoutNoSession
	// MetricSessionRegistered is an exported constant or variable used by the coherence engine.
	MetricSessionRegistered
	// MetricSessionConsumed is an exported constant or variable used by the coherence engine.
	MetricSessionConsumed
	// MetricSessionSwept is an exported constant or variable used by the coherence engine.
	MetricSessionSwept
	// MetricAuthorizeSuccess is an exported constant or variable used by the coherence engine.
	MetricAuthorizeSuccess
	// MetricAuthorizeDenied is an exported constant or variable used by the coherence engine.
	MetricAuthorizeDenied
	// MetricJournalAppend is an exported constant or variable used by the coherence engine.
	MetricJournalAppend
	// MetricJournalFailure is an exported constant or variable used by the coherence engine.
	MetricJournalFailure
	// MetricReadLatency is an exported constant or variable used by the coherence engine.
	MetricReadLatency
	metricIDCount
)

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

type metricHistogram struct {
	buckets [histBucketCount]uint64
}

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics defines a public type used by the coherence engine.
//
// Metrics instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histograms    [metricIDCount]metricHistogram
}

// MetricsSnapshot defines a public type used by the coherence engine.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// NewMetrics builds a metrics recorder honoring the config's enable
// flags.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

// Enabled reports whether counters are being recorded.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// LatencyEnabled reports whether the read latency histogram is being
// recorded.
func (m *Metrics) LatencyEnabled() bool {
	return m != nil && m.enableLatency
}

// Inc bumps the counter.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe records a read latency sample.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enabled || !m.enableLatency || id >= metricIDCount {
		return
	}
	if id != MetricReadLatency {
		return
	}

	b := bucketIndex(d)
	atomic.AddUint64(&m.histograms[id].buckets[b], 1)
}

// Value reads one counter.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot copies all counters and histograms.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}

	s := MetricsSnapshot{
		Counters:   make(map[MetricID]uint64, int(metricIDCount)),
		Histograms: make(map[MetricID][]uint64, 1),
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	if m.enableLatency {
		buckets := make([]uint64, histBucketCount)
		for i := 0; i < histBucketCount; i++ {
			buckets[i] = atomic.LoadUint64(&m.histograms[MetricReadLatency].buckets[i])
		}
		s.Histograms[MetricReadLatency] = buckets
	}

	return s
}

func bucketIndex(d time.Duration) int {
	ms := d.Milliseconds()

	switch {
	case ms <= 5:
		return 0
	case ms <= 10:
		return 1
	case ms <= 25:
		return 2
	case ms <= 50:
		return 3
	case ms <= 100:
		return 4
	case ms <= 250:
		return 5
	case ms <= 500:
		return 6
	default:
		return 7
	}
}
