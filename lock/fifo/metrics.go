package fifo

import (
	"time"

	"github.com/enverbisevac/fifolock/errors"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	acquired  prometheus.Counter
	contended prometheus.Counter
	waiting   prometheus.Gauge
	wait      prometheus.Histogram
}

func newMetrics(name string, reg prometheus.Registerer) *metrics {
	if reg == nil {
		return nil
	}
	labels := prometheus.Labels{"lock": name}
	return &metrics{
		acquired: register(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "fifolock_acquired_total",
			Help:        "Total number of lock grants",
			ConstLabels: labels,
		})),
		contended: register(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "fifolock_contended_total",
			Help:        "Total number of grants that had to wait in the queue",
			ConstLabels: labels,
		})),
		waiting: register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "fifolock_waiting",
			Help:        "Current number of queued waiters",
			ConstLabels: labels,
		})),
		wait: register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "fifolock_wait_seconds",
			Help:        "Time spent queued before admission",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		})),
	}
}

// register returns the collector already registered under the same
// descriptor, if any. Locks sharing a name add into the same series.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

func (m *metrics) granted(waited time.Duration, contended bool) {
	if m == nil {
		return
	}
	m.acquired.Inc()
	if contended {
		m.contended.Inc()
		m.wait.Observe(waited.Seconds())
	}
}

func (m *metrics) queued() {
	if m == nil {
		return
	}
	m.waiting.Inc()
}

func (m *metrics) dequeued() {
	if m == nil {
		return
	}
	m.waiting.Dec()
}
