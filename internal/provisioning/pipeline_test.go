package provisioning

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockPhase implements the Phase interface for testing.
type mockPhase struct {
	name string
	err  error
}

func (m *mockPhase) Name() string               { return m.name }
func (m *mockPhase) Provision(_ *Context) error { return m.err }

type recordedPhase struct {
	name string
	err  error
}

type fakeMetrics struct {
	phases []recordedPhase
}

func (f *fakeMetrics) ObservePhase(phase string, _ time.Duration, err error) {
	f.phases = append(f.phases, recordedPhase{name: phase, err: err})
}

func newTestContext() (*Context, *MockObserver) {
	observer := NewMockObserver()
	return &Context{
		Context:  context.Background(),
		State:    NewState(),
		Observer: observer,
	}, observer
}

func TestNewPipeline(t *testing.T) {
	t.Parallel()
	pipeline := NewPipeline(&mockPhase{name: "ca"}, &mockPhase{name: "certs"})

	require.NotNil(t, pipeline)
	require.Len(t, pipeline.Phases, 2)
	assert.Equal(t, "ca", pipeline.Phases[0].Name())
	assert.Equal(t, "certs", pipeline.Phases[1].Name())
}

func TestNewPipeline_Empty(t *testing.T) {
	t.Parallel()
	ctx, _ := newTestContext()

	require.NoError(t, NewPipeline().Run(ctx))
}

func TestPipeline_Run_Success(t *testing.T) {
	t.Parallel()
	var executed []string
	ctx, observer := newTestContext()

	err := RunPhases(ctx, []Phase{
		PhaseFunc("ca", func(_ *Context) error { executed = append(executed, "ca"); return nil }),
		PhaseFunc("certs", func(_ *Context) error { executed = append(executed, "certs"); return nil }),
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"ca", "certs"}, executed)
	assert.Equal(t, []EventType{
		EventPhaseStarted, EventPhaseCompleted,
		EventPhaseStarted, EventPhaseCompleted,
	}, observer.eventTypes())
	assert.Equal(t, "ca (1/2)", observer.events[0].Phase)
}

func TestPipeline_Run_StopsOnError(t *testing.T) {
	t.Parallel()
	var executed []string
	ctx, observer := newTestContext()
	boom := errors.New("boom")

	err := NewPipeline(
		PhaseFunc("ca", func(_ *Context) error { executed = append(executed, "ca"); return boom }),
		PhaseFunc("certs", func(_ *Context) error { executed = append(executed, "certs"); return nil }),
	).Run(ctx)

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "ca phase failed")
	assert.Equal(t, []string{"ca"}, executed)
	assert.Equal(t, []EventType{EventPhaseStarted, EventPhaseFailed}, observer.eventTypes())
}

func TestPipeline_Run_RecordsMetrics(t *testing.T) {
	t.Parallel()
	ctx, _ := newTestContext()
	metrics := &fakeMetrics{}
	ctx.Metrics = metrics
	boom := errors.New("boom")

	_ = NewPipeline(&mockPhase{name: "ca"}, &mockPhase{name: "certs", err: boom}).Run(ctx)

	require.Len(t, metrics.phases, 2)
	assert.Equal(t, "ca", metrics.phases[0].name)
	assert.NoError(t, metrics.phases[0].err)
	assert.Equal(t, "certs", metrics.phases[1].name)
	assert.ErrorIs(t, metrics.phases[1].err, boom)
}

func TestPipeline_Run_CancelledContext(t *testing.T) {
	t.Parallel()
	ctx, _ := newTestContext()
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	ctx.Context = cancelled

	called := false
	err := NewPipeline(PhaseFunc("ca", func(_ *Context) error { called = true; return nil })).Run(ctx)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
