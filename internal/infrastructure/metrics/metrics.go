package metrics

import (
	"net/http"
	"strconv"
	"time"

	"skillmatch/internal/domain/match"
	"skillmatch/internal/domain/profile"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "skillmatch"

type Metrics struct {
	registry *prometheus.Registry

	swipes          *prometheus.CounterVec
	confirmed       prometheus.Counter
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	wsConnections   prometheus.Gauge
	wsDelivered     *prometheus.CounterVec
	schedulerRuns   *prometheus.CounterVec
	schedulerLastOK prometheus.Gauge
}

// New builds a private registry so parallel tests never collide on the
// default one.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		swipes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "swipes_total",
			Help:      "Swipe decisions recorded, by acting role and decision.",
		}, []string{"role", "decision"}),
		confirmed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_confirmed_total",
			Help:      "Swipes whose stored record ended up accepted by both sides.",
		}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route template, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route template and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		wsConnections: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ws",
			Name:      "connections",
			Help:      "Open websocket connections.",
		}),
		wsDelivered: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ws",
			Name:      "events_delivered_total",
			Help:      "Realtime events queued to clients, by event type.",
		}, []string{"type"}),
		schedulerRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "runs_total",
			Help:      "Scheduled job runs by job and outcome.",
		}, []string{"job", "outcome"}),
		schedulerLastOK: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "last_db_ping_success_timestamp_seconds",
			Help:      "Unix time of the last successful keep-alive ping.",
		}),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) SwipeRecorded(role profile.Role, decision match.Status) {
	m.swipes.WithLabelValues(string(role), string(decision)).Inc()
}

func (m *Metrics) MatchConfirmed() { m.confirmed.Inc() }

func (m *Metrics) ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func (m *Metrics) ConnectionOpened() { m.wsConnections.Inc() }
func (m *Metrics) ConnectionClosed() { m.wsConnections.Dec() }

func (m *Metrics) EventDelivered(eventType string) {
	m.wsDelivered.WithLabelValues(eventType).Inc()
}

func (m *Metrics) JobRun(job string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.schedulerRuns.WithLabelValues(job, outcome).Inc()
	if err == nil && job == "db_ping" {
		m.schedulerLastOK.SetToCurrentTime()
	}
}
