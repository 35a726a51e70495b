package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор Prometheus-метрик сервиса
// Все методы безопасны для nil-получателя: если метрики выключены, вызовы ничего не делают
type Metrics struct {
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	dbQueryDuration *prometheus.HistogramVec
	dbQueryErrors   *prometheus.CounterVec
	dbConnections   *prometheus.GaugeVec
	transitions     *prometheus.CounterVec
	availability    *prometheus.CounterVec
	ledgerConflicts prometheus.Counter
	notifyFailures  *prometheus.CounterVec
	invoiceStatuses *prometheus.CounterVec
}

// New создает метрики и регистрирует их в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegisterer создает метрики и регистрирует их в указанном реестре
func NewWithRegisterer(reg prometheus.Registerer, serviceName string) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: labels,
			Buckets:     []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		dbQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Database query errors",
			ConstLabels: labels,
		}, []string{"operation"}),
		dbConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_connections",
			Help:        "Database connection pool state",
			ConstLabels: labels,
		}, []string{"state"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_request_transitions_total",
			Help:        "Request lifecycle transitions",
			ConstLabels: labels,
		}, []string{"from", "to"}),
		availability: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_availability_checks_total",
			Help:        "Availability checks by outcome",
			ConstLabels: labels,
		}, []string{"outcome"}),
		ledgerConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "booking_ledger_conflicts_total",
			Help:        "Ledger commits rejected because of a capacity or concurrency conflict",
			ConstLabels: labels,
		}),
		notifyFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_notification_failures_total",
			Help:        "Notification publish failures",
			ConstLabels: labels,
		}, []string{"event"}),
		invoiceStatuses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_invoice_status_changes_total",
			Help:        "Invoice status changes",
			ConstLabels: labels,
		}, []string{"status"}),
	}

	reg.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.dbQueryDuration,
		m.dbQueryErrors,
		m.dbConnections,
		m.transitions,
		m.availability,
		m.ledgerConflicts,
		m.notifyFailures,
		m.invoiceStatuses,
	)

	return m
}

// RecordHTTPRequest учитывает обработанный HTTP запрос
func (m *Metrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordDBQuery учитывает выполненный SQL запрос
func (m *Metrics) RecordDBQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil && err != sql.ErrNoRows {
		m.dbQueryErrors.WithLabelValues(operation).Inc()
	}
}

// SetDBPoolStats публикует состояние пула соединений
func (m *Metrics) SetDBPoolStats(stats sql.DBStats) {
	if m == nil {
		return
	}
	m.dbConnections.WithLabelValues("open").Set(float64(stats.OpenConnections))
	m.dbConnections.WithLabelValues("in_use").Set(float64(stats.InUse))
	m.dbConnections.WithLabelValues("idle").Set(float64(stats.Idle))
	m.dbConnections.WithLabelValues("wait_count").Set(float64(stats.WaitCount))
}

// RecordTransition учитывает переход заявки между статусами
func (m *Metrics) RecordTransition(from, to string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(from, to).Inc()
}

// RecordAvailabilityCheck учитывает проверку доступности (available, unavailable, rejected)
func (m *Metrics) RecordAvailabilityCheck(outcome string) {
	if m == nil {
		return
	}
	m.availability.WithLabelValues(outcome).Inc()
}

// RecordLedgerConflict учитывает отклоненный коммит в журнал
func (m *Metrics) RecordLedgerConflict() {
	if m == nil {
		return
	}
	m.ledgerConflicts.Inc()
}

// RecordNotificationFailure учитывает ошибку публикации события
func (m *Metrics) RecordNotificationFailure(eventType string) {
	if m == nil {
		return
	}
	m.notifyFailures.WithLabelValues(eventType).Inc()
}

// RecordInvoiceStatus учитывает смену статуса счета
func (m *Metrics) RecordInvoiceStatus(status string) {
	if m == nil {
		return
	}
	m.invoiceStatuses.WithLabelValues(status).Inc()
}
