package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// AgendaMetrics expõe contadores das operações de agenda.
type AgendaMetrics struct {
	mutations       *prometheus.CounterVec
	slotsOffered    prometheus.Histogram
	operationTiming *prometheus.HistogramVec
	occupancyCache  *prometheus.CounterVec
}

func NewAgendaMetrics(reg prometheus.Registerer) *AgendaMetrics {
	m := &AgendaMetrics{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "agenda",
			Name:      "mutations_total",
			Help:      "Appointment mutations by operation and outcome",
		}, []string{"operation", "outcome"}),
		slotsOffered: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "salon",
			Subsystem: "agenda",
			Name:      "slots_offered",
			Help:      "Number of free start times returned per availability query",
			Buckets:   []float64{0, 1, 2, 4, 8, 12, 16, 24, 32},
		}),
		operationTiming: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "salon",
			Subsystem: "agenda",
			Name:      "operation_seconds",
			Help:      "Latency of agenda operations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		occupancyCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "agenda",
			Name:      "occupancy_cache_total",
			Help:      "Day occupancy cache lookups",
		}, []string{"result"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.mutations, m.slotsOffered, m.operationTiming, m.occupancyCache)
	return m
}

// ObserveMutation registra o resultado ("ok" ou o Kind do erro).
func (m *AgendaMetrics) ObserveMutation(operation, outcome string, started time.Time) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(operation, outcome).Inc()
	m.operationTiming.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

func (m *AgendaMetrics) ObserveAvailability(offered int, started time.Time) {
	if m == nil {
		return
	}
	m.slotsOffered.Observe(float64(offered))
	m.operationTiming.WithLabelValues("availability").Observe(time.Since(started).Seconds())
}

func (m *AgendaMetrics) ObserveOccupancyCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.occupancyCache.WithLabelValues(result).Inc()
}
