package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atanasster/pad-champions/internal/domain"
)

// CommentRepository defines data access for forum replies. Writes keep
// the owning post's comment_count in step using atomic SQL expressions.
type CommentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	FindByPostID(ctx context.Context, postID uuid.UUID) ([]domain.Comment, error)
	CreateAndIncrement(ctx context.Context, comment *domain.Comment) error
	DeleteAndDecrement(ctx context.Context, comment *domain.Comment) error
}

type commentRepositoryImpl struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepositoryImpl{db: db}
}

func (r *commentRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	var comment domain.Comment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// FindByPostID returns the comments of a thread in creation order
func (r *commentRepositoryImpl) FindByPostID(ctx context.Context, postID uuid.UUID) ([]domain.Comment, error) {
	var comments []domain.Comment
	if err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// CreateAndIncrement inserts the comment and bumps the post counters.
// Returns gorm.ErrRecordNotFound when the post does not exist.
func (r *commentRepositoryImpl) CreateAndIncrement(ctx context.Context, comment *domain.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		result := tx.Model(&domain.Post{}).
			Where("id = ?", comment.PostID).
			Updates(map[string]interface{}{
				"comment_count":   gorm.Expr("comment_count + ?", 1),
				"last_comment_at": time.Now().UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// DeleteAndDecrement removes the comment and decrements the post counter,
// never below zero. Child comments are left in place.
func (r *commentRepositoryImpl) DeleteAndDecrement(ctx context.Context, comment *domain.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", comment.ID).Delete(&domain.Comment{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&domain.Post{}).
			Where("id = ? AND comment_count > 0", comment.PostID).
			Update("comment_count", gorm.Expr("comment_count - ?", 1)).Error
	})
}
