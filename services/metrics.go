package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the engine's prometheus collectors. A nil *Metrics records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	unitsSold  *prometheus.CounterVec
	revenue    prometheus.Counter
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "barpos",
			Name:      "engine_operations_total",
			Help:      "Engine operations by name and result kind.",
		}, []string{"operation", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "barpos",
			Name:      "engine_operation_duration_seconds",
			Help:      "Engine operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		unitsSold: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "barpos",
			Name:      "units_sold_total",
			Help:      "Units sold through finalized batches, by beverage.",
		}, []string{"beverage_id"}),
		revenue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "barpos",
			Name:      "revenue_minor_units_total",
			Help:      "Sum of committed transaction totals in minor currency units.",
		}),
	}
	reg.MustRegister(
		m.operations, m.duration, m.unitsSold, m.revenue,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) observe(op string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op, ErrorKind(err)).Inc()
	m.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (m *Metrics) sold(beverageID string, quantity int) {
	if m == nil {
		return
	}
	m.unitsSold.WithLabelValues(beverageID).Add(float64(quantity))
}

func (m *Metrics) recorded(total int64) {
	if m == nil {
		return
	}
	m.revenue.Add(float64(total))
}
