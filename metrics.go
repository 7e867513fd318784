package rawinput

import (
	"sync/atomic"
	"time"
)

// LatencyBuckets defines the dispatch-latency histogram buckets in
// nanoseconds, covering 1us to 10s with logarithmic spacing.
var LatencyBuckets = []uint64{
	1_000,          // 1us
	10_000,         // 10us
	100_000,        // 100us
	1_000_000,      // 1ms
	10_000_000,     // 10ms
	100_000_000,    // 100ms
	1_000_000_000,  // 1s
	10_000_000_000, // 10s
}

const numLatencyBuckets = 8

// Metrics tracks performance and operational statistics for the engine.
type Metrics struct {
	EventsDispatched atomic.Uint64 // raw events delivered via callback or ring push
	KeyEventsDispatched atomic.Uint64
	EventsDropped    atomic.Uint64 // raw events dropped on a full ring
	KeyEventsDropped atomic.Uint64
	KeymapBuildFailures atomic.Uint64

	DeviceCount atomic.Int64 // last observed live device count

	TotalLatencyNs atomic.Uint64 // cumulative acquisition-to-dispatch latency
	LatencyOpCount atomic.Uint64

	LatencyBuckets [numLatencyBuckets]atomic.Uint64

	StartTime atomic.Int64
	StopTime  atomic.Int64
}

// NewMetrics creates a new metrics instance with StartTime set to now.
func NewMetrics() *Metrics {
	m := &Metrics{}
	m.StartTime.Store(time.Now().UnixNano())
	return m
}

// RecordDispatch records a successful dispatch of a raw or key event and
// its latency. kind "key" counts a key event; any other kind counts a raw
// event.
func (m *Metrics) RecordDispatch(kind string, latencyNs uint64) {
	switch kind {
	case "key":
		m.KeyEventsDispatched.Add(1)
	default:
		m.EventsDispatched.Add(1)
	}
	m.recordLatency(latencyNs)
}

// RecordDrop records an event dropped because its ring was full.
func (m *Metrics) RecordDrop(kind string) {
	switch kind {
	case "key":
		m.KeyEventsDropped.Add(1)
	default:
		m.EventsDropped.Add(1)
	}
}

// RecordDeviceCount records the live device count observed after a
// discovery or hotplug transition.
func (m *Metrics) RecordDeviceCount(n int) {
	m.DeviceCount.Store(int64(n))
}

// RecordKeymapBuildFailure records a failed keymap build attempt.
func (m *Metrics) RecordKeymapBuildFailure() {
	m.KeymapBuildFailures.Add(1)
}

func (m *Metrics) recordLatency(latencyNs uint64) {
	m.TotalLatencyNs.Add(latencyNs)
	m.LatencyOpCount.Add(1)
	for i, bucket := range LatencyBuckets {
		if latencyNs <= bucket {
			m.LatencyBuckets[i].Add(1)
		}
	}
}

// Stop marks the engine as stopped for uptime accounting.
func (m *Metrics) Stop() {
	m.StopTime.Store(time.Now().UnixNano())
}

// MetricsSnapshot is a point-in-time snapshot of Metrics.
type MetricsSnapshot struct {
	EventsDispatched    uint64
	KeyEventsDispatched uint64
	EventsDropped       uint64
	KeyEventsDropped    uint64
	KeymapBuildFailures uint64

	DeviceCount int64

	AvgLatencyNs uint64
	UptimeNs     uint64

	LatencyP50Ns uint64
	LatencyP99Ns uint64

	LatencyHistogram [numLatencyBuckets]uint64
}

// Snapshot returns a point-in-time snapshot of m.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{
		EventsDispatched:    m.EventsDispatched.Load(),
		KeyEventsDispatched: m.KeyEventsDispatched.Load(),
		EventsDropped:       m.EventsDropped.Load(),
		KeyEventsDropped:    m.KeyEventsDropped.Load(),
		KeymapBuildFailures: m.KeymapBuildFailures.Load(),
		DeviceCount:         m.DeviceCount.Load(),
	}

	opCount := m.LatencyOpCount.Load()
	if opCount > 0 {
		snap.AvgLatencyNs = m.TotalLatencyNs.Load() / opCount
	}

	startTime := m.StartTime.Load()
	stopTime := m.StopTime.Load()
	if stopTime > 0 {
		snap.UptimeNs = uint64(stopTime - startTime)
	} else {
		snap.UptimeNs = uint64(time.Now().UnixNano() - startTime)
	}

	for i := 0; i < numLatencyBuckets; i++ {
		snap.LatencyHistogram[i] = m.LatencyBuckets[i].Load()
	}

	if opCount > 0 {
		snap.LatencyP50Ns = m.calculatePercentile(0.50)
		snap.LatencyP99Ns = m.calculatePercentile(0.99)
	}

	return snap
}

func (m *Metrics) calculatePercentile(percentile float64) uint64 {
	totalOps := m.LatencyOpCount.Load()
	if totalOps == 0 {
		return 0
	}
	targetCount := uint64(float64(totalOps) * percentile)

	prevBucket := uint64(0)
	for i, bucket := range LatencyBuckets {
		bucketCount := m.LatencyBuckets[i].Load()
		if bucketCount >= targetCount {
			prevCount := uint64(0)
			if i > 0 {
				prevCount = m.LatencyBuckets[i-1].Load()
			}
			if bucketCount == prevCount {
				return bucket
			}
			fraction := float64(targetCount-prevCount) / float64(bucketCount-prevCount)
			return prevBucket + uint64(fraction*float64(bucket-prevBucket))
		}
		prevBucket = bucket
	}
	return LatencyBuckets[numLatencyBuckets-1]
}

// Reset resets all counters, useful for testing.
func (m *Metrics) Reset() {
	m.EventsDispatched.Store(0)
	m.KeyEventsDispatched.Store(0)
	m.EventsDropped.Store(0)
	m.KeyEventsDropped.Store(0)
	m.KeymapBuildFailures.Store(0)
	m.DeviceCount.Store(0)
	m.TotalLatencyNs.Store(0)
	m.LatencyOpCount.Store(0)
	for i := 0; i < numLatencyBuckets; i++ {
		m.LatencyBuckets[i].Store(0)
	}
	m.StartTime.Store(time.Now().UnixNano())
	m.StopTime.Store(0)
}

// Observer is the pluggable metrics-collection contract used by the
// acquisition worker and dispatch policies.
type Observer interface {
	ObserveDispatch(kind string, latencyNs uint64, ringPath bool)
	ObserveDrop(kind string)
	ObserveDeviceCount(n int)
	ObserveKeymapBuildFailure()
}

// NoOpObserver discards every observation.
type NoOpObserver struct{}

func (NoOpObserver) ObserveDispatch(string, uint64, bool) {}
func (NoOpObserver) ObserveDrop(string)                   {}
func (NoOpObserver) ObserveDeviceCount(int)                {}
func (NoOpObserver) ObserveKeymapBuildFailure()            {}

// MetricsObserver implements Observer by recording into a Metrics.
type MetricsObserver struct {
	metrics *Metrics
}

// NewMetricsObserver creates an Observer that records into m.
func NewMetricsObserver(m *Metrics) *MetricsObserver {
	return &MetricsObserver{metrics: m}
}

func (o *MetricsObserver) ObserveDispatch(kind string, latencyNs uint64, _ bool) {
	o.metrics.RecordDispatch(kind, latencyNs)
}

func (o *MetricsObserver) ObserveDrop(kind string) {
	o.metrics.RecordDrop(kind)
}

func (o *MetricsObserver) ObserveDeviceCount(n int) {
	o.metrics.RecordDeviceCount(n)
}

func (o *MetricsObserver) ObserveKeymapBuildFailure() {
	o.metrics.RecordKeymapBuildFailure()
}

var _ Observer = (*MetricsObserver)(nil)
var _ Observer = (*NoOpObserver)(nil)
