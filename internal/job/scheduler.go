package job

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is a unit of scheduled background work
type Job interface {
	Name() string
	Run()
}

// Scheduler runs jobs on cron schedules
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

// NewScheduler creates a scheduler whose panics are recovered and logged
func NewScheduler(logger *zap.Logger) *Scheduler {
	cl := cronLogger{logger: logger}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger: logger,
	}
}

// Register schedules job on schedule (standard cron or a descriptor such as @daily)
func (s *Scheduler) Register(schedule string, job Job) error {
	if _, err := s.cron.AddJob(schedule, s.wrap(job)); err != nil {
		return fmt.Errorf("failed to schedule %s on %q: %w", job.Name(), schedule, err)
	}
	s.logger.Info("Job scheduled", zap.String("job", job.Name()), zap.String("schedule", schedule))
	return nil
}

// Start runs the scheduler in its own goroutine
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for running jobs up to timeout
func (s *Scheduler) Stop(timeout time.Duration) {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(timeout):
		s.logger.Warn("Timed out waiting for running jobs")
	}
}

func (s *Scheduler) wrap(job Job) cron.Job {
	name := job.Name()
	return cron.FuncJob(func() {
		start := time.Now()
		job.Run()
		s.logger.Debug("Job finished",
			zap.String("job", name),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// cronLogger adapts zap to cron.Logger
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
