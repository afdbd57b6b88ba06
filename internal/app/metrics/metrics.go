package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "lottery",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lottery",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lottery",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	roundsOpened = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lottery",
			Subsystem: "rounds",
			Name:      "opened_total",
			Help:      "Total number of rounds opened.",
		},
	)

	roundsClosed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lottery",
			Subsystem: "rounds",
			Name:      "closed_total",
			Help:      "Total number of rounds closed.",
		},
	)

	ticketsSold = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lottery",
			Subsystem: "tickets",
			Name:      "sold_total",
			Help:      "Total number of tickets admitted.",
		},
	)

	ticketsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lottery",
			Subsystem: "tickets",
			Name:      "rejected_total",
			Help:      "Total number of ticket submissions rejected, by rule.",
		},
		[]string{"rule"},
	)

	drawsRecorded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lottery",
			Subsystem: "draws",
			Name:      "recorded_total",
			Help:      "Total number of draw results recorded.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		roundsOpened,
		roundsClosed,
		ticketsSold,
		ticketsRejected,
		drawsRecorded,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// InstrumentHandler wraps the provided handler with HTTP metrics collection.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		httpInFlight.Inc()
		defer httpInFlight.Dec()

		next.ServeHTTP(rec, r)

		duration := time.Since(start)
		path := canonicalPath(r.URL.Path)
		method := strings.ToUpper(r.Method)

		httpRequests.WithLabelValues(method, path, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	})
}

// RecordRoundOpened increments the rounds-opened counter.
func RecordRoundOpened() {
	roundsOpened.Inc()
}

// RecordRoundClosed increments the rounds-closed counter.
func RecordRoundClosed() {
	roundsClosed.Inc()
}

// RecordTicketSold increments the tickets-sold counter.
func RecordTicketSold() {
	ticketsSold.Inc()
}

// RecordTicketRejected increments the rejection counter for the failed rule.
func RecordTicketRejected(rule string) {
	if rule == "" {
		rule = "unknown"
	}
	ticketsRejected.WithLabelValues(rule).Inc()
}

// RecordDrawRecorded increments the draws-recorded counter.
func RecordDrawRecorded() {
	drawsRecorded.Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// canonicalPath collapses resource IDs so the path label stays low-cardinality.
func canonicalPath(raw string) string {
	trimmed := strings.Trim(raw, "/")
	if trimmed == "" {
		return "/"
	}
	parts := strings.Split(trimmed, "/")
	if parts[0] != "api" {
		return "/" + parts[0]
	}
	if len(parts) == 1 {
		return "/api"
	}
	resource := parts[1]
	switch {
	case len(parts) >= 4 && resource == "tickets":
		return "/api/tickets/:id/" + parts[3]
	case len(parts) >= 3 && (resource == "tickets" || resource == "draws" || resource == "users"):
		return "/api/" + resource + "/:id"
	case len(parts) >= 3:
		return "/api/" + resource + "/" + parts[2]
	default:
		return "/api/" + resource
	}
}
