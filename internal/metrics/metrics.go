// Package metrics holds the Prometheus collectors of the planner. All
// methods are safe on a nil *Registry, which records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all Prometheus metrics for the meal planner
type Registry struct {
	reg *prometheus.Registry

	Operations        *prometheus.CounterVec
	PersistenceErrors *prometheus.CounterVec
	CatalogSync       *prometheus.CounterVec
	MealsTotal        prometheus.Gauge
	PlannedDays       prometheus.Gauge
	ShoppingItems     prometheus.Gauge

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New creates a registry with process and Go runtime collectors plus the
// planner metrics.
func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),

		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mealplanner_operations_total",
				Help: "Planner operations by name and result",
			},
			[]string{"op", "result"},
		),

		PersistenceErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mealplanner_persistence_errors_total",
				Help: "Storage read or write failures recovered in memory",
			},
			[]string{"op"},
		),

		CatalogSync: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mealplanner_catalog_sync_total",
				Help: "Remote catalog merges by result",
			},
			[]string{"result"},
		),

		MealsTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mealplanner_meals",
			Help: "Meals in the catalog",
		}),

		PlannedDays: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mealplanner_planned_days",
			Help: "Days of the week with a meal assigned",
		}),

		ShoppingItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mealplanner_shopping_items",
			Help: "Items on the current shopping list",
		}),

		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mealplanner_http_requests_total",
				Help: "HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),

		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mealplanner_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
			},
			[]string{"method", "route"},
		),
	}

	r.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.Operations,
		r.PersistenceErrors,
		r.CatalogSync,
		r.MealsTotal,
		r.PlannedDays,
		r.ShoppingItems,
		r.HTTPRequests,
		r.HTTPDuration,
	)
	return r
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

func (r *Registry) ObserveOperation(op string, err error) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.Operations.WithLabelValues(op, result).Inc()
}

func (r *Registry) PersistenceError(op string) {
	if r == nil {
		return
	}
	r.PersistenceErrors.WithLabelValues(op).Inc()
}

func (r *Registry) CatalogSyncResult(result string) {
	if r == nil {
		return
	}
	r.CatalogSync.WithLabelValues(result).Inc()
}

// SetState records the size of the catalog, plan and shopping list.
func (r *Registry) SetState(meals, plannedDays, shoppingItems int) {
	if r == nil {
		return
	}
	r.MealsTotal.Set(float64(meals))
	r.PlannedDays.Set(float64(plannedDays))
	r.ShoppingItems.Set(float64(shoppingItems))
}

func (r *Registry) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
