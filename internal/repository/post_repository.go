package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atanasster/pad-champions/internal/domain"
)

// PostRepository defines data access for forum posts
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	List(ctx context.Context, limit int) ([]*domain.Post, error)
	DeleteWithComments(ctx context.Context, id uuid.UUID) error
}

type postRepositoryImpl struct {
	db *gorm.DB
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepositoryImpl{db: db}
}

func (r *postRepositoryImpl) Create(ctx context.Context, post *domain.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	var post domain.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// List returns posts newest first
func (r *postRepositoryImpl) List(ctx context.Context, limit int) ([]*domain.Post, error) {
	var posts []*domain.Post
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// DeleteWithComments removes the post and every comment of its thread in
// one transaction
func (r *postRepositoryImpl) DeleteWithComments(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&domain.Comment{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&domain.Post{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
