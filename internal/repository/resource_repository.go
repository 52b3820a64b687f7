package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atanasster/pad-champions/internal/domain"
)

// ResourceRepository defines data access for the resource library
type ResourceRepository interface {
	Create(ctx context.Context, item *domain.ResourceItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.ResourceItem, error)
	FindChildren(ctx context.Context, parentID *uuid.UUID) ([]*domain.ResourceItem, error)
	CountChildren(ctx context.Context, id uuid.UUID) (int64, error)
	Rename(ctx context.Context, id uuid.UUID, name string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type resourceRepositoryImpl struct {
	db *gorm.DB
}

// NewResourceRepository creates a new ResourceRepository
func NewResourceRepository(db *gorm.DB) ResourceRepository {
	return &resourceRepositoryImpl{db: db}
}

func (r *resourceRepositoryImpl) Create(ctx context.Context, item *domain.ResourceItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *resourceRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.ResourceItem, error) {
	var item domain.ResourceItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindChildren returns the immediate children of parentID, or the root
// items when parentID is nil. Ordering is left to the caller.
func (r *resourceRepositoryImpl) FindChildren(ctx context.Context, parentID *uuid.UUID) ([]*domain.ResourceItem, error) {
	query := r.db.WithContext(ctx)
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}

	var items []*domain.ResourceItem
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *resourceRepositoryImpl) CountChildren(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.ResourceItem{}).
		Where("parent_id = ?", id).
		Count(&count).Error
	return count, err
}

func (r *resourceRepositoryImpl) Rename(ctx context.Context, id uuid.UUID, name string) error {
	result := r.db.WithContext(ctx).
		Model(&domain.ResourceItem{}).
		Where("id = ?", id).
		Update("name", name)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *resourceRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.ResourceItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
