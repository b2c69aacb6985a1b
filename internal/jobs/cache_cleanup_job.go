package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// CacheCleanupJobName is the name of the vendor cache cleanup job
const CacheCleanupJobName = "vendor_cache_cleanup"

// cacheCleanupTimeout bounds a single purge run.
const cacheCleanupTimeout = 2 * time.Minute

// CachePurger deletes expired vendor cache entries. This interface lets the
// job call the repository without importing the repository package directly.
type CachePurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// CacheCleanupJob purges expired vendor API responses from the cache table.
type CacheCleanupJob struct {
	purger CachePurger
	logger *zap.Logger
}

// NewCacheCleanupJob creates a new vendor cache cleanup job.
func NewCacheCleanupJob(purger CachePurger, logger *zap.Logger) *CacheCleanupJob {
	return &CacheCleanupJob{
		purger: purger,
		logger: logger,
	}
}

// Run executes one purge. This is called by the scheduler according to the
// configured cron expression.
func (j *CacheCleanupJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), cacheCleanupTimeout)
	defer cancel()

	start := time.Now()
	purged, err := j.purger.PurgeExpired(ctx)
	if err != nil {
		j.logger.Error("vendor cache cleanup failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	if purged > 0 {
		j.logger.Info("vendor cache cleanup completed",
			zap.Int64("purged", purged),
			zap.Duration("duration", time.Since(start)))
	}
}

// RegisterCacheCleanupJob registers the cleanup job with the scheduler.
func RegisterCacheCleanupJob(scheduler *Scheduler, purger CachePurger, logger *zap.Logger, cronExpr string) error {
	job := NewCacheCleanupJob(purger, logger)
	return scheduler.AddJob(CacheCleanupJobName, cronExpr, job.Run)
}
