// Package metrics exposes prometheus collectors for the state container.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "taskboard"

type Metrics struct {
	operations    *prometheus.CounterVec
	notifications *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Core operations by name and outcome.",
		}, []string{"operation", "outcome"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_emitted_total",
			Help:      "Notifications created, by kind.",
		}, []string{"kind"}),
	}
	reg.MustRegister(m.operations, m.notifications)
	return m
}

// FailureCounter is anything that counts rejected snapshot writes.
type FailureCounter interface {
	Failures() int64
}

// WatchPersistence exports the persistence failure count of fc.
func (m *Metrics) WatchPersistence(reg prometheus.Registerer, fc FailureCounter) {
	reg.MustRegister(prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "persistence_failures_total",
		Help:      "Snapshot writes rejected by the storage backend.",
	}, func() float64 { return float64(fc.Failures()) }))
}

// Operation records the outcome of a core operation. Safe on a nil receiver.
func (m *Metrics) Operation(name string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "rejected"
	}
	m.operations.WithLabelValues(name, outcome).Inc()
}

// Notification counts one emitted notification. Safe on a nil receiver.
func (m *Metrics) Notification(kind string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(kind).Inc()
}
