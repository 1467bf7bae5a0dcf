// Package metrics exports the counters of instrument sessions to Prometheus.
package metrics

import (
	"github.com/arloliu/go-instrument/session"
	"github.com/prometheus/client_golang/prometheus"
)

const subsystem = "session"

type collector struct {
	metrics []prometheus.Collector
}

var _ prometheus.Collector = (*collector)(nil)

// NewCollector creates a collector exposing the counters of s, labelled with its resource name.
//
// Values are read from the session on every scrape. Register one collector per session.
func NewCollector(namespace string, s *session.Session) prometheus.Collector {
	m := s.Metrics()
	labels := prometheus.Labels{"resource": s.ResourceName()}

	counter := func(name, help string, value func() uint64) prometheus.Collector {
		return prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		}, func() float64 { return float64(value()) })
	}

	return &collector{
		metrics: []prometheus.Collector{
			counter("lines_written_total", "Number of lines written to the instrument.", m.WriteCount.Load),
			counter("lines_read_total", "Number of lines read from the instrument.", m.ReadCount.Load),
			counter("io_errors_total", "Number of failed transport operations.", m.IOErrCount.Load),
			counter("status_reads_total", "Number of status bytes sampled.", m.StatusReadCount.Load),
			counter("error_drains_total", "Number of error queue drains that found device errors.", m.DrainCount.Load),
			counter("device_errors_total", "Number of device errors drained from the error queue.", m.DeviceErrorCount.Load),
			counter("poll_timeouts_total", "Number of status waits that timed out.", m.PollTimeoutCount.Load),
			counter("discarded_lines_total", "Number of unread lines discarded.", m.DiscardCount.Load),
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Namespace:   namespace,
				Subsystem:   subsystem,
				Name:        "device_error_pending",
				Help:        "1 when drained device errors were not cleared since.",
				ConstLabels: labels,
			}, func() float64 {
				if s.HasDeviceError() {
					return 1
				}

				return 0
			}),
		},
	}
}

func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	for _, m := range c.metrics {
		m.Describe(ch)
	}
}

func (c *collector) Collect(ch chan<- prometheus.Metric) {
	for _, m := range c.metrics {
		m.Collect(ch)
	}
}
