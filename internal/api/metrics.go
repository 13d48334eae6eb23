package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors on a private registry.
//
// Metrics:
//   - nexus_http_requests_total{method,route,status}
//   - nexus_http_request_duration_seconds{method,route,status}
//   - nexus_refinements_total{category}
//   - nexus_projects_created_total
//   - nexus_quota_rejections_total
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RefinementsTotal *prometheus.CounterVec
	ProjectsCreated  prometheus.Counter
	QuotaRejections  prometheus.Counter
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	labels := []string{"method", "route", "status"}
	return &Metrics{
		registry: reg,
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nexus_http_requests_total",
				Help: "Total number of HTTP requests handled",
			},
			labels,
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nexus_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			labels,
		),
		RefinementsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nexus_refinements_total",
				Help: "Total number of chat refinements by category",
			},
			[]string{"category"},
		),
		ProjectsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "nexus_projects_created_total",
			Help: "Total number of projects created",
		}),
		QuotaRejections: factory.NewCounter(prometheus.CounterOpts{
			Name: "nexus_quota_rejections_total",
			Help: "Total number of project creations refused by the quota",
		}),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Instrument records request counts and latency labelled by chi route
// pattern rather than raw path.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		lv := []string{r.Method, route, strconv.Itoa(status)}
		m.RequestsTotal.WithLabelValues(lv...).Inc()
		m.RequestDuration.WithLabelValues(lv...).Observe(time.Since(start).Seconds())
	})
}
