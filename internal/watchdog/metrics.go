// internal/watchdog/metrics.go
package watchdog

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "mongo_watchdog"

// Metrics exports tick outcomes to Prometheus.
type Metrics struct {
	ticks             prometheus.Counter
	stalls            *prometheus.CounterVec
	notifications     prometheus.Counter
	interval          prometheus.Gauge
	objects           prometheus.Gauge
	consecutiveStalls prometheus.Gauge
	running           prometheus.Gauge
}

// NewMetrics registers the watchdog metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ticks: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "ticks_total",
			Help:      "The total number of completed watchdog ticks",
		}),
		stalls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "stalls_total",
			Help:      "The total number of stalled ticks by cause",
		}, []string{"cause"}),
		notifications: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "notifications_total",
			Help:      "The total number of stall notifications handed to the notifier",
		}),
		interval: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "interval_seconds",
			Help:      "Interval until the next check",
		}),
		objects: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "object_count",
			Help:      "Object count of the last successful stats probe",
		}),
		consecutiveStalls: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "consecutive_stalls",
			Help:      "Number of stalled ticks in a row",
		}),
		running: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "running",
			Help:      "1 while the watchdog loop is running",
		}),
	}
}

func (m *Metrics) Report(r TickReport) {
	m.running.Set(1)
	m.ticks.Inc()
	if c := r.Cause(); c != "" {
		m.stalls.WithLabelValues(c).Inc()
	}
	if r.Notified {
		m.notifications.Inc()
	}
	if r.LastKnown != nil {
		m.objects.Set(float64(r.LastKnown.Objects))
	}
	m.interval.Set(r.Next.Seconds())
	m.consecutiveStalls.Set(float64(r.ConsecutiveStalls))
}

func (m *Metrics) Stopped() {
	m.running.Set(0)
}
