package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"mention_tracker/internal/domain"
)

type fakeCollector struct {
	runs atomic.Int32
	err  error
}

func (f *fakeCollector) Collect(ctx context.Context) (*domain.RunStats, error) {
	f.runs.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return &domain.RunStats{}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestStartSingleShot(t *testing.T) {
	collector := &fakeCollector{}
	sched := NewScheduler(collector, 0, time.Minute, testLogger())

	err := sched.Start(context.Background())

	require.NoError(t, err)
	require.Equal(t, int32(1), collector.runs.Load())
}

func TestStartSingleShotReturnsRunError(t *testing.T) {
	collector := &fakeCollector{err: errors.New("sink down")}
	sched := NewScheduler(collector, 0, time.Minute, testLogger())

	err := sched.Start(context.Background())

	require.Error(t, err)
	require.Contains(t, err.Error(), "sink down")
}

func TestStartIntervalRunsUntilCanceled(t *testing.T) {
	collector := &fakeCollector{}
	sched := NewScheduler(collector, 10*time.Millisecond, time.Minute, testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := sched.Start(ctx)

	require.ErrorIs(t, err, context.DeadlineExceeded)
	// One immediate run plus at least one tick.
	require.GreaterOrEqual(t, collector.runs.Load(), int32(2))
}

func TestStartIntervalSurvivesRunErrors(t *testing.T) {
	collector := &fakeCollector{err: errors.New("flaky")}
	sched := NewScheduler(collector, 10*time.Millisecond, time.Minute, testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := sched.Start(ctx)

	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.GreaterOrEqual(t, collector.runs.Load(), int32(2))
}
