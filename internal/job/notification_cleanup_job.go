package job

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// NotificationCleaner deletes inbox entries created before a cutoff
type NotificationCleaner interface {
	CleanupOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// NotificationCleanupJob purges notifications past the retention window
type NotificationCleanupJob struct {
	cleaner   NotificationCleaner
	retention time.Duration
	timeout   time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewNotificationCleanupJob creates a new NotificationCleanupJob instance
func NewNotificationCleanupJob(cleaner NotificationCleaner, retentionDays int, logger *zap.Logger) *NotificationCleanupJob {
	return &NotificationCleanupJob{
		cleaner:   cleaner,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		timeout:   5 * time.Minute,
		logger:    logger,
		now:       time.Now,
	}
}

// Name identifies the job in logs
func (j *NotificationCleanupJob) Name() string {
	return "notification-cleanup"
}

// Run executes the cleanup job. A non-positive retention disables it.
func (j *NotificationCleanupJob) Run() {
	if j.retention <= 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	cutoff := j.now().Add(-j.retention)
	j.logger.Info("Starting notification cleanup", zap.Time("cutoff", cutoff))

	deleted, err := j.cleaner.CleanupOlderThan(ctx, cutoff)
	if err != nil {
		j.logger.Error("Failed to clean up notifications",
			zap.Time("cutoff", cutoff),
			zap.Error(err),
		)
		return
	}

	j.logger.Info("Notification cleanup completed", zap.Int64("deleted", deleted))
}
