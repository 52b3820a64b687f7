package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/atanasster/pad-champions/internal/domain"
)

// Models lists every persisted domain model
func Models() []interface{} {
	return []interface{}{
		&domain.UserProfile{},
		&domain.ResourceItem{},
		&domain.Post{},
		&domain.Comment{},
		&domain.ScreeningEvent{},
		&domain.Notification{},
	}
}

// AutoMigrate creates or updates the tables of every domain model
func AutoMigrate(db *gorm.DB, logger *zap.Logger) error {
	migrator := db.Migrator()
	for _, model := range Models() {
		existed := migrator.HasTable(model)
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
		if !existed {
			logger.Info("Created table", zap.String("model", fmt.Sprintf("%T", model)))
		}
	}
	return nil
}
