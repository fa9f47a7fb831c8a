package observability_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/student-portal/internal/domain"
	"github.com/nfrund/student-portal/internal/observability"
	"github.com/nfrund/student-portal/internal/pubsub"
	"github.com/nfrund/student-portal/internal/students"
)

func TestMetrics_CountEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg, func() float64 { return 3 })
	require.NoError(t, err)

	bus := pubsub.NewWatermillBridge(false)
	defer bus.Close()
	require.NoError(t, m.CountEvents(ctx, bus))

	st := domain.Student{ID: 1, Name: "Ada"}
	require.NoError(t, pubsub.Publish(ctx, bus, students.Created, "", students.Event{Type: students.EventCreated, Student: st}))
	require.NoError(t, pubsub.Publish(ctx, bus, students.Created, "", students.Event{Type: students.EventCreated, Student: st}))
	require.NoError(t, pubsub.Publish(ctx, bus, students.Deleted, "", students.Event{Type: students.EventDeleted, Student: st}))

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(m.StudentEvents.WithLabelValues(students.EventDeleted)) == 1 &&
			testutil.ToFloat64(m.StudentEvents.WithLabelValues(students.EventCreated)) == 2 &&
			testutil.ToFloat64(m.StudentsTotal) == 1
	}, 2*time.Second, 10*time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "portal_live_clients")
}

func TestNewMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := observability.NewMetrics(reg, nil)
	require.NoError(t, err)
	_, err = observability.NewMetrics(reg, nil)
	assert.Error(t, err)
}
