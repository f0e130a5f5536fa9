package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/intlakaa/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSchedule(t *testing.T) {
	tests := map[string]string{
		"@hourly":      "0 0 * * * *",
		"@daily":       "0 0 0 * * *",
		"*/5 * * * *":  "0 */5 * * * *",
		"0 30 * * * *": "0 30 * * * *",
		"@every 1m":    "@every 1m",
	}
	for in, want := range tests {
		assert.Equal(t, want, normalizeSchedule(in), in)
	}
}

func TestAddJobRejectsBadSchedule(t *testing.T) {
	s := NewScheduler(logging.NewNoopLogger(), nil)
	err := s.AddJob(Job{Name: "bad", Schedule: "not a cron", Run: func(context.Context) error { return nil }})
	assert.Error(t, err)
	assert.Empty(t, s.Jobs())

	assert.Error(t, s.AddJob(Job{Name: "no-run", Schedule: "@hourly"}))
}

func TestAddReplaceRemoveAndTrigger(t *testing.T) {
	s := NewScheduler(logging.NewNoopLogger(), time.UTC)
	var calls atomic.Int32
	job := Job{Name: "count", Schedule: "@daily", Run: func(context.Context) error {
		calls.Add(1)
		return nil
	}}

	require.NoError(t, s.AddJob(job))
	require.NoError(t, s.AddJob(job))
	assert.Equal(t, []string{"count"}, s.Jobs())

	s.Start(context.Background())
	defer s.Stop()
	assert.True(t, s.IsRunning())
	assert.NotNil(t, s.NextRun("count"))

	require.NoError(t, s.Trigger("count"))
	assert.Equal(t, int32(1), calls.Load())

	s.RemoveJob("count")
	assert.Empty(t, s.Jobs())
	assert.Nil(t, s.NextRun("count"))
	assert.Error(t, s.Trigger("count"))
}

type fakePurger struct {
	removed int64
	err     error
	calls   int
}

func (f *fakePurger) PurgeExpired(context.Context, time.Time) (int64, error) {
	f.calls++
	return f.removed, f.err
}

func TestInviteSweep(t *testing.T) {
	s := NewScheduler(logging.NewNoopLogger(), nil)
	p := &fakePurger{removed: 2}
	require.NoError(t, s.AddJob(NewInviteSweep("@hourly", p, logging.NewNoopLogger())))

	require.NoError(t, s.Trigger(InviteSweepJob))
	assert.Equal(t, 1, p.calls)

	p.err = errors.New("db down")
	assert.EqualError(t, s.Trigger(InviteSweepJob), "db down")
}
