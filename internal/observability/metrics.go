package observability

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nfrund/student-portal/internal/pubsub"
	"github.com/nfrund/student-portal/internal/students"
)

// Namespace prefixes every collector of the application.
const Namespace = "portal"

// Metrics holds the domain collectors. HTTP metrics come from the
// echoprometheus middleware on the same registry.
type Metrics struct {
	StudentEvents *prometheus.CounterVec
	StudentsTotal prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on reg, together with
// a gauge reporting liveClients().
func NewMetrics(reg prometheus.Registerer, liveClients func() float64) (*Metrics, error) {
	m := &Metrics{
		StudentEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "student_events_total",
			Help:      "Student mutations by type.",
		}, []string{"type"}),
		StudentsTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "students_created_minus_deleted",
			Help:      "Students created minus students deleted since the process started.",
		}),
	}

	collectors := []prometheus.Collector{m.StudentEvents, m.StudentsTotal}
	if liveClients != nil {
		collectors = append(collectors, prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "live_clients",
			Help:      "WebSocket clients connected to the live feed.",
		}, liveClients))
	}

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}
	return m, nil
}

// CountEvents subscribes the collectors to the student topics.
func (m *Metrics) CountEvents(ctx context.Context, sub pubsub.Subscriber) error {
	for _, topic := range students.Topics {
		err := pubsub.Subscribe(ctx, sub, topic, func(_ context.Context, _ pubsub.Message, ev students.Event) error {
			m.StudentEvents.WithLabelValues(ev.Type).Inc()
			switch ev.Type {
			case students.EventCreated:
				m.StudentsTotal.Inc()
			case students.EventDeleted:
				m.StudentsTotal.Dec()
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to subscribe metrics to %s: %w", topic.Name(), err)
		}
	}
	return nil
}
