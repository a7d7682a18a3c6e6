package apiclient

import (
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewMetrics registers the outbound API collectors on reg. A nil reg gets a private registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "merchantportal",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Outbound backend API attempts by method, route and status code.",
		}, []string{"method", "route", "code"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "merchantportal",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Outbound backend API attempt latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(m.Requests, m.Duration)
	return m
}

var (
	reGUID  = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)
	reDigit = regexp.MustCompile(`/[0-9]+(/|$)`)
)

// routeLabel collapses ids so the route label stays low-cardinality.
func routeLabel(path string) string {
	p := reGUID.ReplaceAllString(path, ":id")
	return reDigit.ReplaceAllString(p, "/:n$1")
}

type metricsTransport struct {
	next http.RoundTripper
	m    *Metrics
}

func (t *metricsTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	route := routeLabel(req.URL.Path)
	code := "error"
	if err == nil {
		code = strconv.Itoa(resp.StatusCode)
	}
	t.m.Requests.WithLabelValues(req.Method, route, code).Inc()
	t.m.Duration.WithLabelValues(req.Method, route).Observe(time.Since(start).Seconds())
	return resp, err
}
