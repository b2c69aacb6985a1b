package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSchedulerAddJob(t *testing.T) {
	s := NewScheduler(zap.NewNop())

	require.NoError(t, s.AddJob("cleanup", "0 0 * * * *", func() {}))

	err := s.AddJob("cleanup", "0 0 * * * *", func() {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	err = s.AddJob("broken", "not a cron expression", func() {})
	assert.Error(t, err)
}

func TestSchedulerRunsJobs(t *testing.T) {
	s := NewScheduler(zap.NewNop())

	var runs atomic.Int32
	require.NoError(t, s.AddJob("tick", "* * * * * *", func() {
		runs.Add(1)
	}))

	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return runs.Load() >= 1
	}, 3*time.Second, 50*time.Millisecond)
}

func TestSchedulerStopWaitsForJobs(t *testing.T) {
	s := NewScheduler(zap.NewNop())
	s.Start()

	done := s.Stop()
	select {
	case <-done.Done():
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop in time")
	}
}

type fakePurger struct {
	purged int64
	err    error
	calls  atomic.Int32
}

func (f *fakePurger) PurgeExpired(ctx context.Context) (int64, error) {
	f.calls.Add(1)
	return f.purged, f.err
}

func TestCacheCleanupJobRun(t *testing.T) {
	purger := &fakePurger{purged: 3}
	job := NewCacheCleanupJob(purger, zap.NewNop())

	job.Run()
	assert.Equal(t, int32(1), purger.calls.Load())
}

func TestCacheCleanupJobRunError(t *testing.T) {
	purger := &fakePurger{err: errors.New("db down")}
	job := NewCacheCleanupJob(purger, zap.NewNop())

	// must not panic; the failure is logged and the next run retries
	job.Run()
	assert.Equal(t, int32(1), purger.calls.Load())
}

func TestRegisterCacheCleanupJob(t *testing.T) {
	s := NewScheduler(zap.NewNop())
	require.NoError(t, RegisterCacheCleanupJob(s, &fakePurger{}, zap.NewNop(), "0 0 */6 * * *"))

	err := RegisterCacheCleanupJob(s, &fakePurger{}, zap.NewNop(), "0 0 */6 * * *")
	assert.Error(t, err)
}
