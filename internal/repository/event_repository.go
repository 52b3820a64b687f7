package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/atanasster/pad-champions/internal/domain"
)

// EventRepository defines data access for screening events
type EventRepository interface {
	List(ctx context.Context) ([]*domain.ScreeningEvent, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.ScreeningEvent, error)
	Create(ctx context.Context, event *domain.ScreeningEvent) error
	Update(ctx context.Context, event *domain.ScreeningEvent) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpsertBatch(ctx context.Context, events []*domain.ScreeningEvent) error
}

type eventRepositoryImpl struct {
	db *gorm.DB
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepositoryImpl{db: db}
}

// List returns every event, latest date first
func (r *eventRepositoryImpl) List(ctx context.Context) ([]*domain.ScreeningEvent, error) {
	var events []*domain.ScreeningEvent
	if err := r.db.WithContext(ctx).
		Order("date DESC").
		Order("created_at DESC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.ScreeningEvent, error) {
	var event domain.ScreeningEvent
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepositoryImpl) Create(ctx context.Context, event *domain.ScreeningEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepositoryImpl) Update(ctx context.Context, event *domain.ScreeningEvent) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *eventRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.ScreeningEvent{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpsertBatch writes all events in one statement, merging on id
func (r *eventRepositoryImpl) UpsertBatch(ctx context.Context, events []*domain.ScreeningEvent) error {
	if len(events) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "date", "time", "venue_name", "address", "zip", "type", "coordinates", "updated_at"}),
		}).
		Create(&events).Error
}
