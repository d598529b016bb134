package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics метрики Prometheus для жизненного цикла броней.
// Все методы допускают nil-получатель, чтобы сервисы работали без метрик.
type Metrics struct {
	BookingOperations *prometheus.CounterVec
	BookingConflicts  prometheus.Counter
	OperationDuration *prometheus.HistogramVec
	BookedAmount      prometheus.Counter
	RequestsTotal     *prometheus.CounterVec
}

// New регистрирует метрики в reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		BookingOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pitch_booking_operations_total",
			Help: "Booking lifecycle operations by operation and outcome",
		}, []string{"operation", "outcome"}),

		BookingConflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "pitch_booking_conflicts_total",
			Help: "Create/update requests rejected because the slot was taken",
		}),

		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pitch_booking_operation_duration_seconds",
			Help:    "Duration of booking lifecycle operations",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),

		BookedAmount: factory.NewCounter(prometheus.CounterOpts{
			Name: "pitch_booking_booked_amount_total",
			Help: "Sum of total_amount of created bookings",
		}),

		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pitch_booking_requests_total",
			Help: "Requests handled by the request layers",
		}, []string{"transport", "route", "status"}),
	}
}

// ObserveOperation записывает исход и длительность операции
func (m *Metrics) ObserveOperation(operation, outcome string, started time.Time) {
	if m == nil {
		return
	}
	m.BookingOperations.WithLabelValues(operation, outcome).Inc()
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

// IncConflict считает отказ из-за пересечения
func (m *Metrics) IncConflict() {
	if m == nil {
		return
	}
	m.BookingConflicts.Inc()
}

// AddBooked прибавляет сумму созданной брони
func (m *Metrics) AddBooked(amount int64) {
	if m == nil {
		return
	}
	m.BookedAmount.Add(float64(amount))
}

// IncRequest считает запрос транспортного слоя
func (m *Metrics) IncRequest(transport, route, status string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(transport, route, status).Inc()
}
