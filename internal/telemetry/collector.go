package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "leadboard"

// Collector holds the service metrics. A nil *Collector is valid and records
// nothing, which keeps tests free of registry setup.
type Collector struct {
	registry *prometheus.Registry

	// HTTP
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	// Leads
	leadsImported  *prometheus.CounterVec
	qualifications *prometheus.CounterVec

	// Forecast
	forecasts *prometheus.CounterVec

	// Follow-up reminders
	reminders *prometheus.GaugeVec
}

// NewCollector registers all metrics on a fresh registry together with the
// Go and process collectors.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Collector{
		registry: reg,
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		leadsImported: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upload",
			Name:      "leads_total",
			Help:      "Lead rows processed by bulk upload",
		}, []string{"outcome"}),
		qualifications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "qualification",
			Name:      "results_total",
			Help:      "Lead qualification results",
		}, []string{"status"}),
		forecasts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "forecast",
			Name:      "generated_total",
			Help:      "Generated forecasts by source",
		}, []string{"source"}),
		reminders: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "followups",
			Name:      "pending",
			Help:      "Follow-up reminders by severity at the last sweep",
		}, []string{"severity"}),
	}
}

// Handler exposes the registry for scraping.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if c == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (c *Collector) LeadsImported(created, updated, failed int) {
	if c == nil {
		return
	}
	c.leadsImported.WithLabelValues("created").Add(float64(created))
	c.leadsImported.WithLabelValues("updated").Add(float64(updated))
	c.leadsImported.WithLabelValues("failed").Add(float64(failed))
}

func (c *Collector) Qualification(status string) {
	if c == nil {
		return
	}
	c.qualifications.WithLabelValues(status).Inc()
}

func (c *Collector) Forecast(source string) {
	if c == nil {
		return
	}
	c.forecasts.WithLabelValues(source).Inc()
}

func (c *Collector) Reminders(critical, warning, info int64) {
	if c == nil {
		return
	}
	c.reminders.WithLabelValues("critical").Set(float64(critical))
	c.reminders.WithLabelValues("warning").Set(float64(warning))
	c.reminders.WithLabelValues("info").Set(float64(info))
}
