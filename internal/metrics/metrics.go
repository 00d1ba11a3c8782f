// Package metrics exposes Prometheus counters for the analysis and
// notification pipeline.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	registry *prometheus.Registry

	analysesTotal     prometheus.Counter
	interactionsFound *prometheus.CounterVec
	remindersFired    prometheus.Counter
	dispatchTotal     *prometheus.CounterVec
	dispatchLatency   prometheus.Histogram
	activeReminders   prometheus.Gauge
	wsClients         prometheus.Gauge
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

// Default returns the process-wide metrics instance.
func Default() *Metrics {
	once.Do(func() {
		defaultMetrics = New()
	})
	return defaultMetrics
}

// New creates a metrics set backed by its own registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		analysesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rxguard_analyses_total",
			Help: "Prescription analyses performed",
		}),
		interactionsFound: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rxguard_interactions_found_total",
			Help: "Interaction findings by severity",
		}, []string{"severity"}),
		remindersFired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rxguard_reminders_fired_total",
			Help: "Reminder due events emitted",
		}),
		dispatchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rxguard_dispatch_total",
			Help: "Notification dispatch attempts by outcome",
		}, []string{"outcome"}),
		dispatchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rxguard_dispatch_duration_seconds",
			Help:    "Time spent handing an event to the transport",
			Buckets: prometheus.DefBuckets,
		}),
		activeReminders: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rxguard_active_reminders",
			Help: "Enabled reminders currently scheduled",
		}),
		wsClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rxguard_websocket_clients",
			Help: "Connected websocket event subscribers",
		}),
	}

	m.registry.MustRegister(
		m.analysesTotal,
		m.interactionsFound,
		m.remindersFired,
		m.dispatchTotal,
		m.dispatchLatency,
		m.activeReminders,
		m.wsClients,
	)

	return m
}

// Registry returns the underlying registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) RecordAnalysis() {
	m.analysesTotal.Inc()
}

func (m *Metrics) RecordInteraction(severity string) {
	m.interactionsFound.WithLabelValues(severity).Inc()
}

func (m *Metrics) RecordReminderFired() {
	m.remindersFired.Inc()
}

func (m *Metrics) RecordDispatch(outcome string, d time.Duration) {
	m.dispatchTotal.WithLabelValues(outcome).Inc()
	m.dispatchLatency.Observe(d.Seconds())
}

func (m *Metrics) SetActiveReminders(n int) {
	m.activeReminders.Set(float64(n))
}

func (m *Metrics) IncrementWSClients() {
	m.wsClients.Inc()
}

func (m *Metrics) DecrementWSClients() {
	m.wsClients.Dec()
}

func RecordAnalysis() {
	Default().RecordAnalysis()
}

func RecordInteraction(severity string) {
	Default().RecordInteraction(severity)
}

func RecordReminderFired() {
	Default().RecordReminderFired()
}

func RecordDispatch(outcome string, d time.Duration) {
	Default().RecordDispatch(outcome, d)
}

func SetActiveReminders(n int) {
	Default().SetActiveReminders(n)
}
