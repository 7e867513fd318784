// Package promcollector adapts rawinput.Metrics to a prometheus.Collector
// so a host application can register the engine's dispatch/drop/device
// statistics with its own registry, using a Describe/Collect-over-a-
// Desc-table pattern rather than pushing metrics inline.
package promcollector

import (
	"github.com/prometheus/client_golang/prometheus"

	rawinput "github.com/ehrlich-b/go-rawinput"
)

// Collector exposes a *rawinput.Metrics as a prometheus.Collector. It is
// opt-in: importing rawinput alone never pulls in client_golang.
type Collector struct {
	metrics *rawinput.Metrics

	eventsDispatchedDesc *prometheus.Desc
	eventsDroppedDesc    *prometheus.Desc
	deviceCountDesc      *prometheus.Desc
	dispatchLatencyDesc  *prometheus.Desc
	keymapFailuresDesc   *prometheus.Desc
}

// New creates a Collector over m.
func New(m *rawinput.Metrics) *Collector {
	return &Collector{
		metrics: m,
		eventsDispatchedDesc: prometheus.NewDesc(
			"rawinput_events_dispatched_total",
			"Total events delivered via callback or ring push.",
			[]string{"kind"}, nil,
		),
		eventsDroppedDesc: prometheus.NewDesc(
			"rawinput_events_dropped_total",
			"Total events dropped because their ring was full.",
			[]string{"kind"}, nil,
		),
		deviceCountDesc: prometheus.NewDesc(
			"rawinput_device_count",
			"Number of currently registered input devices.",
			nil, nil,
		),
		dispatchLatencyDesc: prometheus.NewDesc(
			"rawinput_dispatch_latency_seconds",
			"Acquisition-to-dispatch latency, P50 and P99.",
			[]string{"quantile"}, nil,
		),
		keymapFailuresDesc: prometheus.NewDesc(
			"rawinput_keymap_build_failures_total",
			"Total failed keymap build attempts.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.eventsDispatchedDesc
	ch <- c.eventsDroppedDesc
	ch <- c.deviceCountDesc
	ch <- c.dispatchLatencyDesc
	ch <- c.keymapFailuresDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	snap := c.metrics.Snapshot()

	ch <- prometheus.MustNewConstMetric(c.eventsDispatchedDesc, prometheus.CounterValue, float64(snap.EventsDispatched), "raw")
	ch <- prometheus.MustNewConstMetric(c.eventsDispatchedDesc, prometheus.CounterValue, float64(snap.KeyEventsDispatched), "key")

	ch <- prometheus.MustNewConstMetric(c.eventsDroppedDesc, prometheus.CounterValue, float64(snap.EventsDropped), "raw")
	ch <- prometheus.MustNewConstMetric(c.eventsDroppedDesc, prometheus.CounterValue, float64(snap.KeyEventsDropped), "key")

	ch <- prometheus.MustNewConstMetric(c.deviceCountDesc, prometheus.GaugeValue, float64(snap.DeviceCount))

	ch <- prometheus.MustNewConstMetric(c.dispatchLatencyDesc, prometheus.GaugeValue, float64(snap.LatencyP50Ns)/1e9, "0.5")
	ch <- prometheus.MustNewConstMetric(c.dispatchLatencyDesc, prometheus.GaugeValue, float64(snap.LatencyP99Ns)/1e9, "0.99")

	ch <- prometheus.MustNewConstMetric(c.keymapFailuresDesc, prometheus.CounterValue, float64(snap.KeymapBuildFailures))
}

var _ prometheus.Collector = (*Collector)(nil)
