package metrics

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BusinessMetricsCollector refreshes table-count gauges periodically
type BusinessMetricsCollector struct {
	db       *gorm.DB
	metrics  *Metrics
	logger   *zap.Logger
	interval time.Duration
	done     chan struct{}
}

// NewBusinessMetricsCollector creates a new collector
func NewBusinessMetricsCollector(db *gorm.DB, metrics *Metrics, logger *zap.Logger, interval time.Duration) *BusinessMetricsCollector {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return &BusinessMetricsCollector{
		db:       db,
		metrics:  metrics,
		logger:   logger,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start begins collecting metrics
func (c *BusinessMetricsCollector) Start() {
	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		c.Collect()
		for {
			select {
			case <-ticker.C:
				c.Collect()
			case <-c.done:
				return
			}
		}
	}()
}

// Stop stops the collector
func (c *BusinessMetricsCollector) Stop() {
	close(c.done)
}

// Collect gathers business metrics once
func (c *BusinessMetricsCollector) Collect() {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Panic in business metrics collection", zap.Any("panic", r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var posts int64
	if err := c.db.WithContext(ctx).Table("forum_posts").Count(&posts).Error; err != nil {
		c.logger.Error("Failed to count forum posts", zap.Error(err))
	} else {
		c.metrics.SetPostsTotal(posts)
	}

	var users int64
	if err := c.db.WithContext(ctx).Table("user_profiles").Count(&users).Error; err != nil {
		c.logger.Error("Failed to count user profiles", zap.Error(err))
	} else {
		c.metrics.SetUsersTotal(users)
	}

	var rows []struct {
		Type  string
		Count int64
	}
	if err := c.db.WithContext(ctx).
		Table("resource_items").
		Select("type, COUNT(*) AS count").
		Group("type").
		Scan(&rows).Error; err != nil {
		c.logger.Error("Failed to count resource items", zap.Error(err))
		return
	}
	for _, row := range rows {
		c.metrics.SetResourcesTotal(row.Type, row.Count)
	}
}
