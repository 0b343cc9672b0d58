package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestSchedulerRegister(t *testing.T) {
	t.Parallel()

	s := NewScheduler(time.Second, testLogger())
	noop := func(context.Context) error { return nil }

	require.NoError(t, s.Register("b-job", "0 0 * * * *", noop))
	require.NoError(t, s.Register("a-job", "*/30 * * * * *", noop))
	assert.Error(t, s.Register("a-job", "0 0 * * * *", noop), "duplicate name")
	assert.Error(t, s.Register("bad", "not a schedule", noop))

	jobs := s.ListJobs()
	require.Len(t, jobs, 2)
	assert.Equal(t, "a-job", jobs[0].Name)
	assert.Equal(t, "b-job", jobs[1].Name)
}

func TestSchedulerRun(t *testing.T) {
	t.Parallel()

	s := NewScheduler(50*time.Millisecond, testLogger())
	boom := errors.New("boom")
	require.NoError(t, s.Register("fails", "0 0 * * * *", func(context.Context) error { return boom }))
	require.NoError(t, s.Register("slow", "0 0 * * * *", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}))

	assert.ErrorIs(t, s.Run(context.Background(), "fails"), boom)
	assert.ErrorIs(t, s.Run(context.Background(), "slow"), context.DeadlineExceeded)
	assert.ErrorIs(t, s.Run(context.Background(), "missing"), ErrUnknownJob)
	assert.ErrorIs(t, s.RunNow("missing"), ErrUnknownJob)
}

func TestSchedulerRunNow(t *testing.T) {
	t.Parallel()

	s := NewScheduler(time.Second, testLogger())
	done := make(chan struct{})
	require.NoError(t, s.Register("once", "0 0 0 1 1 *", func(context.Context) error {
		close(done)
		return nil
	}))

	require.NoError(t, s.RunNow("once"))
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job did not run")
	}
}

func TestSchedulerRecordsLastRun(t *testing.T) {
	t.Parallel()

	s := NewScheduler(time.Second, testLogger())
	fail := true
	require.NoError(t, s.Register("flaky", "0 0 * * * *", func(context.Context) error {
		if fail {
			return errors.New("upstream down")
		}
		return nil
	}))

	before := s.ListJobs()[0]
	assert.Nil(t, before.LastRun)
	assert.False(t, before.Running)

	require.Error(t, s.Run(context.Background(), "flaky"))
	got := s.ListJobs()[0]
	require.NotNil(t, got.LastRun)
	assert.Equal(t, "upstream down", got.LastError)
	assert.Nil(t, before.LastRun, "snapshots are copies")

	fail = false
	require.NoError(t, s.Run(context.Background(), "flaky"))
	assert.Empty(t, s.ListJobs()[0].LastError)
}
