// Package metrics содержит Prometheus-коллекторы сервиса
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор метрик сервиса
type Metrics struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// База данных
	DBQueryDuration *prometheus.HistogramVec
	DBConnections   *prometheus.GaugeVec

	// Предметная область
	AvailabilityChecks *prometheus.CounterVec
	QuotesTotal        prometheus.Counter
	BookingsCreated    prometheus.Counter
	BookingsRejected   *prometheus.CounterVec
	HoldsExpired       prometheus.Counter
	EventsPublished    *prometheus.CounterVec
	CatalogCache       *prometheus.CounterVec
}

// New регистрирует метрики в глобальном реестре (его отдает promhttp.Handler)
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer регистрирует метрики в указанном реестре
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	labels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: labels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation", "status"}),

		DBConnections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_connections",
			Help:        "Database connection pool state",
			ConstLabels: labels,
		}, []string{"state"}),

		AvailabilityChecks: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "rental_availability_checks_total",
			Help:        "Availability checks by outcome",
			ConstLabels: labels,
		}, []string{"outcome"}),

		QuotesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name:        "rental_quotes_total",
			Help:        "Quotes computed",
			ConstLabels: labels,
		}),

		BookingsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name:        "rental_bookings_created_total",
			Help:        "Bookings accepted",
			ConstLabels: labels,
		}),

		BookingsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "rental_bookings_rejected_total",
			Help:        "Booking attempts rejected by reason",
			ConstLabels: labels,
		}, []string{"reason"}),

		HoldsExpired: factory.NewCounter(prometheus.CounterOpts{
			Name:        "rental_holds_expired_total",
			Help:        "Pending bookings expired by the hold timeout",
			ConstLabels: labels,
		}),

		EventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "rental_events_published_total",
			Help:        "Booking events sent to the broker",
			ConstLabels: labels,
		}, []string{"type", "status"}),

		CatalogCache: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "rental_catalog_cache_total",
			Help:        "Catalog cache lookups",
			ConstLabels: labels,
		}, []string{"result"}),
	}
}

// Методы ниже безопасны для nil receiver: при выключенных метриках вызывающий код не проверяет конфиг

func (m *Metrics) ObserveAvailability(outcome string) {
	if m == nil {
		return
	}
	m.AvailabilityChecks.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveQuote() {
	if m == nil {
		return
	}
	m.QuotesTotal.Inc()
}

func (m *Metrics) ObserveBookingCreated() {
	if m == nil {
		return
	}
	m.BookingsCreated.Inc()
}

func (m *Metrics) ObserveBookingRejected(reason string) {
	if m == nil {
		return
	}
	m.BookingsRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveHoldsExpired(n int) {
	if m == nil {
		return
	}
	m.HoldsExpired.Add(float64(n))
}

func (m *Metrics) ObserveEvent(eventType, status string) {
	if m == nil {
		return
	}
	m.EventsPublished.WithLabelValues(eventType, status).Inc()
}

func (m *Metrics) ObserveCache(result string) {
	if m == nil {
		return
	}
	m.CatalogCache.WithLabelValues(result).Inc()
}
