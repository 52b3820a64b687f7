package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atanasster/pad-champions/internal/domain"
)

// NotificationRepository defines data access for user inboxes
type NotificationRepository interface {
	CreateBatch(ctx context.Context, notifications []*domain.Notification) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, userID string, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type notificationRepositoryImpl struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepositoryImpl{db: db}
}

// CreateBatch writes all notifications in a single transaction
func (r *notificationRepositoryImpl) CreateBatch(ctx context.Context, notifications []*domain.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&notifications).Error
	})
}

func (r *notificationRepositoryImpl) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Notification, error) {
	var notifications []*domain.Notification
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepositoryImpl) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkRead marks one notification owned by userID as read
func (r *notificationRepositoryImpl) MarkRead(ctx context.Context, userID string, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{"read": true, "read_at": time.Now().UTC()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *notificationRepositoryImpl) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Updates(map[string]interface{}{"read": true, "read_at": time.Now().UTC()})
	return result.RowsAffected, result.Error
}

// DeleteOlderThan hard deletes notifications created before cutoff
func (r *notificationRepositoryImpl) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&domain.Notification{})
	return result.RowsAffected, result.Error
}
