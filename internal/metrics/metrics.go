package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "grail"

// Collector holds service metrics in its own registry
type Collector struct {
	registry *prometheus.Registry

	// HTTP
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	activeRequests      prometheus.Gauge

	// Purchase flows
	flowsStarted  *prometheus.CounterVec
	flowsFinished *prometheus.CounterVec
	flowsInFlight *prometheus.GaugeVec
	flowDuration  *prometheus.HistogramVec
}

func NewCollector() *Collector {
	c := &Collector{registry: prometheus.NewRegistry()}

	c.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	c.httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	c.activeRequests = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_active_requests",
			Help:      "Number of requests being served",
		},
	)

	c.flowsStarted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchase_flows_started_total",
			Help:      "Purchase flows submitted",
		},
		[]string{"kind"},
	)

	c.flowsFinished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchase_flows_finished_total",
			Help:      "Purchase flows reached terminal state",
		},
		[]string{"kind", "state"},
	)

	c.flowsInFlight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "purchase_flows_in_flight",
			Help:      "Purchase flows not finished yet",
		},
		[]string{"kind"},
	)

	c.flowDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "purchase_flow_duration_seconds",
			Help:      "Time from submission to terminal state",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 1.5, 2, 3, 5},
		},
		[]string{"kind", "state"},
	)

	c.registry.MustRegister(
		c.httpRequestsTotal,
		c.httpRequestDuration,
		c.activeRequests,
		c.flowsStarted,
		c.flowsFinished,
		c.flowsInFlight,
		c.flowDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

func (c *Collector) FlowStarted(kind string) {
	c.flowsStarted.WithLabelValues(kind).Inc()
	c.flowsInFlight.WithLabelValues(kind).Inc()
}

func (c *Collector) FlowFinished(kind string, state string, elapsed time.Duration) {
	c.flowsFinished.WithLabelValues(kind, state).Inc()
	c.flowsInFlight.WithLabelValues(kind).Dec()
	c.flowDuration.WithLabelValues(kind, state).Observe(elapsed.Seconds())
}

// ObserveRequest records one served HTTP request
// endpoint is the route pattern, not the raw path, to keep label cardinality low
func (c *Collector) ObserveRequest(method string, endpoint string, status int, elapsed time.Duration) {
	if endpoint == "" {
		endpoint = "unknown"
	}
	c.httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	c.httpRequestDuration.WithLabelValues(method, endpoint).Observe(elapsed.Seconds())
}

func (c *Collector) RequestStarted() {
	c.activeRequests.Inc()
}

func (c *Collector) RequestFinished() {
	c.activeRequests.Dec()
}

// Handler serves the registry in Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
