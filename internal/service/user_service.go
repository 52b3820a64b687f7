package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/atanasster/pad-champions/internal/client"
	"github.com/atanasster/pad-champions/internal/domain"
	"github.com/atanasster/pad-champions/internal/dto"
	"github.com/atanasster/pad-champions/internal/permission"
	"github.com/atanasster/pad-champions/internal/repository"
	"github.com/atanasster/pad-champions/internal/response"
	"github.com/atanasster/pad-champions/internal/util"
)

const listUsersLimit = 100

// UserService defines the interface for profiles and role administration
type UserService interface {
	ResolveRole(ctx context.Context, userID string) (domain.Role, error)
	GetOrCreateProfile(ctx context.Context, actor domain.Actor) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, actor domain.Actor, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	ListUsers(ctx context.Context, actor domain.Actor) ([]dto.UserResponse, error)
	SetUserRole(ctx context.Context, actor domain.Actor, targetID string, role domain.Role) (*dto.UserResponse, error)
	SetAdvisoryBoardStatus(ctx context.Context, actor domain.Actor, targetID string, isMember bool) (*dto.UserResponse, error)
	ListAdvisoryBoard(ctx context.Context) ([]dto.AdvisoryBoardMember, error)
	UploadProfilePhoto(ctx context.Context, actor domain.Actor, data []byte, mimeType string) (*dto.UserResponse, error)
	RefreshToken(ctx context.Context, actor domain.Actor) (*dto.TokenResponse, error)
}

type userServiceImpl struct {
	repo          repository.UserRepository
	blobs         client.BlobStore
	tokens        *util.TokenManager
	maxPhotoBytes int64
	logger        *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	repo repository.UserRepository,
	blobs client.BlobStore,
	tokens *util.TokenManager,
	maxPhotoBytes int64,
	logger *zap.Logger,
) UserService {
	return &userServiceImpl{
		repo:          repo,
		blobs:         blobs,
		tokens:        tokens,
		maxPhotoBytes: maxPhotoBytes,
		logger:        logger,
	}
}

// ResolveRole returns the stored role of userID. A user without a profile
// yet has the default role.
func (s *userServiceImpl) ResolveRole(ctx context.Context, userID string) (domain.Role, error) {
	profile, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.DefaultRole, nil
		}
		return "", fmt.Errorf("failed to load profile %s: %w", userID, err)
	}
	return profile.Role, nil
}

// GetOrCreateProfile returns the caller's profile, creating it with the
// default role on first sight
func (s *userServiceImpl) GetOrCreateProfile(ctx context.Context, actor domain.Actor) (*dto.UserResponse, error) {
	profile, err := s.ensureProfile(ctx, actor)
	if err != nil {
		return nil, err
	}
	resp := dto.ToUserResponse(profile)
	return &resp, nil
}

func (s *userServiceImpl) UpdateProfile(ctx context.Context, actor domain.Actor, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	if _, err := s.ensureProfile(ctx, actor); err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	setString := func(column string, v *string) {
		if v != nil {
			fields[column] = strings.TrimSpace(*v)
		}
	}
	setString("display_name", req.DisplayName)
	setString("institution", req.Institution)
	setString("title", req.Title)
	setString("bio", req.Bio)
	setString("year_in_school", req.YearInSchool)
	setString("work_address", req.WorkAddress)
	setString("cell_phone", req.CellPhone)
	if req.SocialLinks != nil {
		fields["social_links"] = datatypes.NewJSONType(*req.SocialLinks)
	}

	if len(fields) > 0 {
		if err := s.repo.UpdateFields(ctx, actor.ID, fields); err != nil {
			return nil, s.mapProfileError(err, "Failed to update profile")
		}
	}
	return s.loadProfile(ctx, actor.ID)
}

// ListUsers returns the newest profiles. Admin only.
func (s *userServiceImpl) ListUsers(ctx context.Context, actor domain.Actor) ([]dto.UserResponse, error) {
	if !permission.IsAdmin(actor.Role) {
		return nil, response.NewForbiddenError("Only admins can list users", "")
	}

	profiles, err := s.repo.List(ctx, listUsersLimit)
	if err != nil {
		return nil, response.NewInternalError("Failed to list users", err.Error())
	}

	result := make([]dto.UserResponse, 0, len(profiles))
	for _, p := range profiles {
		result = append(result, dto.ToUserResponse(p))
	}
	return result, nil
}

// SetUserRole changes a user's stored role. The target's token keeps the
// old role claim until it is refreshed.
func (s *userServiceImpl) SetUserRole(ctx context.Context, actor domain.Actor, targetID string, role domain.Role) (*dto.UserResponse, error) {
	if !permission.IsAdmin(actor.Role) {
		return nil, response.NewForbiddenError("Only admins can change roles", "")
	}
	if !role.IsValid() {
		return nil, response.NewValidationError("Invalid role", string(role))
	}

	if err := s.repo.UpdateFields(ctx, targetID, map[string]interface{}{"role": role}); err != nil {
		return nil, s.mapProfileError(err, "Failed to update role")
	}

	s.logger.Info("User role changed",
		zap.String("target_id", targetID),
		zap.String("role", string(role)),
		zap.String("user_id", actor.ID),
	)
	return s.loadProfile(ctx, targetID)
}

func (s *userServiceImpl) SetAdvisoryBoardStatus(ctx context.Context, actor domain.Actor, targetID string, isMember bool) (*dto.UserResponse, error) {
	if !permission.IsAdmin(actor.Role) {
		return nil, response.NewForbiddenError("Only admins can manage the advisory board", "")
	}

	if err := s.repo.UpdateFields(ctx, targetID, map[string]interface{}{"is_advisory_board_member": isMember}); err != nil {
		return nil, s.mapProfileError(err, "Failed to update advisory board status")
	}
	return s.loadProfile(ctx, targetID)
}

func (s *userServiceImpl) ListAdvisoryBoard(ctx context.Context) ([]dto.AdvisoryBoardMember, error) {
	profiles, err := s.repo.ListAdvisoryBoard(ctx)
	if err != nil {
		return nil, response.NewInternalError("Failed to list advisory board", err.Error())
	}

	result := make([]dto.AdvisoryBoardMember, 0, len(profiles))
	for _, p := range profiles {
		result = append(result, dto.ToAdvisoryBoardMember(p))
	}
	return result, nil
}

// UploadProfilePhoto stores an image as the caller's avatar. Each upload
// overwrites the previous photo of the same image type.
func (s *userServiceImpl) UploadProfilePhoto(ctx context.Context, actor domain.Actor, data []byte, mimeType string) (*dto.UserResponse, error) {
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, response.NewValidationError("Profile photo must be an image", mimeType)
	}
	if len(data) == 0 {
		return nil, response.NewValidationError("Profile photo is empty", "")
	}
	if int64(len(data)) > s.maxPhotoBytes {
		return nil, response.NewValidationError("Profile photo exceeds the maximum upload size", "")
	}

	if _, err := s.ensureProfile(ctx, actor); err != nil {
		return nil, err
	}

	key := client.ProfilePhotoKey(actor.ID, mimeType)
	url, err := s.blobs.UploadFile(ctx, key, bytes.NewReader(data), mimeType)
	if err != nil {
		return nil, response.NewInternalError("Failed to upload profile photo", err.Error())
	}

	if err := s.repo.UpdateFields(ctx, actor.ID, map[string]interface{}{"photo_url": url}); err != nil {
		return nil, s.mapProfileError(err, "Failed to save profile photo")
	}
	return s.loadProfile(ctx, actor.ID)
}

// RefreshToken issues a token whose role claim matches the stored profile
func (s *userServiceImpl) RefreshToken(ctx context.Context, actor domain.Actor) (*dto.TokenResponse, error) {
	profile, err := s.ensureProfile(ctx, actor)
	if err != nil {
		return nil, err
	}

	name := profile.DisplayName
	if name == "" {
		name = actor.Name
	}
	email := profile.Email
	if email == "" {
		email = actor.Email
	}

	token, expiresAt, err := s.tokens.Issue(domain.Actor{
		ID:    actor.ID,
		Name:  name,
		Email: email,
		Role:  profile.Role,
	})
	if err != nil {
		return nil, response.NewInternalError("Failed to issue token", err.Error())
	}
	return &dto.TokenResponse{Token: token, Role: profile.Role, ExpiresAt: expiresAt}, nil
}

func (s *userServiceImpl) ensureProfile(ctx context.Context, actor domain.Actor) (*domain.UserProfile, error) {
	profile := &domain.UserProfile{
		UID:         actor.ID,
		Email:       actor.Email,
		DisplayName: actor.Name,
		Role:        domain.DefaultRole,
	}
	if err := s.repo.CreateIfAbsent(ctx, profile); err != nil {
		return nil, response.NewInternalError("Failed to create profile", err.Error())
	}

	stored, err := s.repo.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, s.mapProfileError(err, "Failed to load profile")
	}
	return stored, nil
}

func (s *userServiceImpl) loadProfile(ctx context.Context, uid string) (*dto.UserResponse, error) {
	profile, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return nil, s.mapProfileError(err, "Failed to load profile")
	}
	resp := dto.ToUserResponse(profile)
	return &resp, nil
}

func (s *userServiceImpl) mapProfileError(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NewNotFoundError("User not found", "")
	}
	return response.NewInternalError(message, err.Error())
}
