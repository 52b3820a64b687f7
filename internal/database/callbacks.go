package database

import (
	"time"

	"gorm.io/gorm"
)

const queryStartKey = "metrics:query_start_time"

// MetricsRecorder is an interface for recording database metrics
type MetricsRecorder interface {
	RecordDBQuery(operation, table string, duration time.Duration, err error)
	UpdateDBStats(stats interface{})
}

// RegisterMetricsCallbacks times every query, create, update and delete
func RegisterMetricsCallbacks(db *gorm.DB, recorder MetricsRecorder) error {
	before := func(db *gorm.DB) {
		db.InstanceSet(queryStartKey, time.Now())
	}
	after := func(operation string) func(*gorm.DB) {
		return func(db *gorm.DB) {
			startTime, ok := db.InstanceGet(queryStartKey)
			if !ok {
				return
			}
			table := db.Statement.Table
			if table == "" {
				table = "unknown"
			}
			recorder.RecordDBQuery(operation, table, time.Since(startTime.(time.Time)), db.Error)
		}
	}

	cb := db.Callback()
	if err := cb.Query().Before("gorm:query").Register("metrics:query_before", before); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("metrics:query_after", after("select")); err != nil {
		return err
	}
	if err := cb.Create().Before("gorm:create").Register("metrics:create_before", before); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("metrics:create_after", after("insert")); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("metrics:update_before", before); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("metrics:update_after", after("update")); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("metrics:delete_before", before); err != nil {
		return err
	}
	return cb.Delete().After("gorm:delete").Register("metrics:delete_after", after("delete"))
}

// StartDBStatsCollector publishes connection pool stats every interval
// until the returned channel is closed
func StartDBStatsCollector(db *gorm.DB, recorder MetricsRecorder, interval time.Duration) chan struct{} {
	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					continue
				}
				recorder.UpdateDBStats(sqlDB.Stats())
			case <-done:
				return
			}
		}
	}()

	return done
}
