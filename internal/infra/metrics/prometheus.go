package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "checkout_relay"

type ServerMetrics struct {
	Requests  *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec
}

func NewServerMetrics(reg prometheus.Registerer) *ServerMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"handler", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"handler"})

	reg.MustRegister(requests, latency)
	return &ServerMetrics{Requests: requests, LatencyMS: latency}
}

func (m *ServerMetrics) Observe(handler string, status int, start time.Time) {
	m.Requests.WithLabelValues(handler, strconv.Itoa(status)).Inc()
	m.LatencyMS.WithLabelValues(handler).Observe(float64(time.Since(start).Milliseconds()))
}

// RegisterCounters exposes the relay counters as Prometheus counters.
func RegisterCounters(reg prometheus.Registerer, c *Counters) {
	counter := func(name, help string, v *uint64) prometheus.Collector {
		return prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, func() float64 { return load(v) })
	}

	reg.MustRegister(
		counter("sessions_created_total", "Checkout sessions created.", &c.SessionsCreated),
		counter("notifications_delivered_total", "Completion notifications accepted downstream.", &c.NotificationsDelivered),
		counter("notifications_failed_total", "Completion notifications that failed.", &c.NotificationsFailed),
		counter("notifications_skipped_total", "Completion notifications skipped for missing identifiers.", &c.NotificationsSkipped),
		counter("notifications_deduplicated_total", "Completion notifications suppressed as duplicates.", &c.NotificationsDeduplicated),
		counter("webhooks_received_total", "Webhook events received.", &c.WebhooksReceived),
		counter("webhooks_ignored_total", "Webhook events acknowledged without action.", &c.WebhooksIgnored),
	)
}

func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
