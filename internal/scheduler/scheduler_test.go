package scheduler

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	runs atomic.Int32
	err  error
}

func (j *countingJob) Run() error {
	j.runs.Add(1)
	return j.err
}

func (j *countingJob) Name() string { return "counting" }

func TestAddJobRejectsBadSchedule(t *testing.T) {
	s := New(zerolog.Nop())
	assert.Error(t, s.AddJob("not a schedule", &countingJob{}))
	// Five-field schedules are rejected once seconds are required.
	assert.Error(t, s.AddJob("0 * * * *", &countingJob{}))
	assert.Zero(t, s.Entries())
}

func TestAddJobAcceptsHourlySchedule(t *testing.T) {
	s := New(zerolog.Nop())
	require.NoError(t, s.AddJob("0 0 * * * *", &countingJob{}))
	require.NoError(t, s.AddJob("@hourly", &countingJob{}))
	assert.Equal(t, 2, s.Entries())
}

func TestRunNowReturnsJobError(t *testing.T) {
	s := New(zerolog.Nop())
	j := &countingJob{err: errors.New("boom")}
	assert.EqualError(t, s.RunNow(j), "boom")
	assert.Equal(t, int32(1), j.runs.Load())
}

func TestScheduledJobRuns(t *testing.T) {
	s := New(zerolog.Nop())
	j := &countingJob{}
	require.NoError(t, s.AddJob("@every 1s", j))

	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool { return j.runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}
