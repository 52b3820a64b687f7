package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/atanasster/pad-champions/internal/domain"
)

// UserRepository defines data access for user profiles
type UserRepository interface {
	FindByID(ctx context.Context, uid string) (*domain.UserProfile, error)
	CreateIfAbsent(ctx context.Context, profile *domain.UserProfile) error
	UpdateFields(ctx context.Context, uid string, fields map[string]interface{}) error
	List(ctx context.Context, limit int) ([]*domain.UserProfile, error)
	ListAdvisoryBoard(ctx context.Context) ([]*domain.UserProfile, error)
}

type userRepositoryImpl struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepositoryImpl{db: db}
}

func (r *userRepositoryImpl) FindByID(ctx context.Context, uid string) (*domain.UserProfile, error) {
	var profile domain.UserProfile
	if err := r.db.WithContext(ctx).Where("uid = ?", uid).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// CreateIfAbsent inserts the profile unless one already exists for its uid
func (r *userRepositoryImpl) CreateIfAbsent(ctx context.Context, profile *domain.UserProfile) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "uid"}}, DoNothing: true}).
		Create(profile).Error
}

func (r *userRepositoryImpl) UpdateFields(ctx context.Context, uid string, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&domain.UserProfile{}).
		Where("uid = ?", uid).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns the most recently registered profiles first
func (r *userRepositoryImpl) List(ctx context.Context, limit int) ([]*domain.UserProfile, error) {
	var profiles []*domain.UserProfile
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *userRepositoryImpl) ListAdvisoryBoard(ctx context.Context) ([]*domain.UserProfile, error) {
	var profiles []*domain.UserProfile
	if err := r.db.WithContext(ctx).
		Where("is_advisory_board_member = ?", true).
		Order("display_name ASC").
		Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}
