// Package metrics métricas Prometheus del servicio.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/forecast-cloud/internal/application/ports"
)

const namespace = "forecast"

var _ ports.OrderMetrics = (*Registry)(nil)

// Registry agrupa las métricas HTTP y de negocio en un registro propio.
type Registry struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	OrdersCreatedTotal *prometheus.CounterVec
	OrderStatusChanges *prometheus.CounterVec
	OrdersDeletedTotal prometheus.Counter
	JobRunsTotal       *prometheus.CounterVec
	JobDurationSeconds *prometheus.HistogramVec

	registry *prometheus.Registry
}

// NewRegistry registra todas las métricas más las del runtime de Go.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)
	return &Registry{
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Peticiones HTTP atendidas",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duración de las peticiones HTTP",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route"}),
		HTTPRequestsInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Peticiones HTTP en curso",
		}),
		OrdersCreatedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "Pedidos creados por ciudad y tipo de huevo",
		}, []string{"city", "egg_type"}),
		OrderStatusChanges: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_status_changes_total",
			Help:      "Cambios de estado de pedidos",
		}, []string{"from", "to"}),
		OrdersDeletedTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_deleted_total",
			Help:      "Pedidos eliminados",
		}),
		JobRunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_runs_total",
			Help:      "Ejecuciones de tareas programadas",
		}, []string{"job", "status"}),
		JobDurationSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "job_duration_seconds",
			Help:      "Duración de las tareas programadas",
			Buckets:   prometheus.DefBuckets,
		}, []string{"job"}),
		registry: reg,
	}
}

// Handler expone el registro en formato Prometheus.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// ObserveHTTP registra una petición terminada.
func (r *Registry) ObserveHTTP(method, route string, status int, d time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveJob registra una ejecución de tarea programada.
func (r *Registry) ObserveJob(job string, err error, d time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.JobRunsTotal.WithLabelValues(job, status).Inc()
	r.JobDurationSeconds.WithLabelValues(job).Observe(d.Seconds())
}

func (r *Registry) OrderCreated(city, eggType string) {
	r.OrdersCreatedTotal.WithLabelValues(city, eggType).Inc()
}

func (r *Registry) OrderStatusChanged(from, to string) {
	r.OrderStatusChanges.WithLabelValues(from, to).Inc()
}

func (r *Registry) OrderDeleted() { r.OrdersDeletedTotal.Inc() }
