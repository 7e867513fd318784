package rawinput

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	m := NewMetrics()

	snap := m.Snapshot()
	require.Equal(t, uint64(0), snap.EventsDispatched, "expected 0 initial dispatches")

	m.RecordDispatch("event", 1_000_000)
	m.RecordDispatch("event", 2_000_000)
	m.RecordDispatch("key", 500_000)
	m.RecordDrop("event")

	snap = m.Snapshot()
	require.Equal(t, uint64(2), snap.EventsDispatched)
	require.Equal(t, uint64(1), snap.KeyEventsDispatched)
	require.Equal(t, uint64(1), snap.EventsDropped)
}

func TestMetricsDeviceCount(t *testing.T) {
	m := NewMetrics()
	m.RecordDeviceCount(3)
	require.EqualValues(t, 3, m.Snapshot().DeviceCount)
}

func TestMetricsLatencyAverage(t *testing.T) {
	m := NewMetrics()
	m.RecordDispatch("event", 1_000_000)
	m.RecordDispatch("event", 2_000_000)

	snap := m.Snapshot()
	require.Equal(t, uint64(1_500_000), snap.AvgLatencyNs)
}

func TestMetricsUptime(t *testing.T) {
	m := NewMetrics()
	time.Sleep(10 * time.Millisecond)

	snap := m.Snapshot()
	require.GreaterOrEqual(t, snap.UptimeNs, uint64(10*time.Millisecond))

	m.Stop()
	time.Sleep(5 * time.Millisecond)
	snap2 := m.Snapshot()
	require.LessOrEqual(t, snap2.UptimeNs, snap.UptimeNs+uint64(2*time.Millisecond),
		"uptime should not advance after Stop")
}

func TestMetricsReset(t *testing.T) {
	m := NewMetrics()
	m.RecordDispatch("event", 1_000_000)
	m.RecordDeviceCount(5)

	m.Reset()
	snap := m.Snapshot()
	require.Zero(t, snap.EventsDispatched)
	require.Zero(t, snap.DeviceCount)
}

func TestObserverForwarding(t *testing.T) {
	noop := NoOpObserver{}
	noop.ObserveDispatch("event", 1000, false)
	noop.ObserveDrop("event")
	noop.ObserveDeviceCount(1)
	noop.ObserveKeymapBuildFailure()

	m := NewMetrics()
	obs := NewMetricsObserver(m)
	obs.ObserveDispatch("event", 1_000_000, false)
	obs.ObserveDrop("key")
	obs.ObserveDeviceCount(2)
	obs.ObserveKeymapBuildFailure()

	snap := m.Snapshot()
	require.Equal(t, uint64(1), snap.EventsDispatched)
	require.Equal(t, uint64(1), snap.KeyEventsDropped)
	require.EqualValues(t, 2, snap.DeviceCount)
	require.Equal(t, uint64(1), snap.KeymapBuildFailures)
}

func TestMetricsHistogramBuckets(t *testing.T) {
	m := NewMetrics()
	for i := 0; i < 50; i++ {
		m.RecordDispatch("event", 500) // well under 1us bucket boundary
	}
	for i := 0; i < 10; i++ {
		m.RecordDispatch("event", 50_000_000) // 50ms
	}

	snap := m.Snapshot()
	require.NotZero(t, snap.LatencyP50Ns)

	total := uint64(0)
	for _, c := range snap.LatencyHistogram {
		total += c
	}
	require.NotZero(t, total, "expected populated histogram")
}
