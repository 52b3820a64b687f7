package dto

import (
	"time"

	"github.com/atanasster/pad-champions/internal/domain"
)

// UpdateProfileRequest represents editable profile fields. Nil fields are
// left unchanged.
type UpdateProfileRequest struct {
	DisplayName  *string             `json:"displayName,omitempty" binding:"omitempty,max=255"`
	Institution  *string             `json:"institution,omitempty" binding:"omitempty,max=255"`
	Title        *string             `json:"title,omitempty" binding:"omitempty,max=255"`
	Bio          *string             `json:"bio,omitempty" binding:"omitempty,max=4000"`
	YearInSchool *string             `json:"yearInSchool,omitempty" binding:"omitempty,max=64"`
	WorkAddress  *string             `json:"workAddress,omitempty" binding:"omitempty,max=512"`
	CellPhone    *string             `json:"cellPhone,omitempty" binding:"omitempty,max=64"`
	SocialLinks  *domain.SocialLinks `json:"socialLinks,omitempty"`
}

// SetRoleRequest represents an admin role assignment
type SetRoleRequest struct {
	Role domain.Role `json:"role" binding:"required"`
}

// AdvisoryBoardRequest toggles advisory board membership
type AdvisoryBoardRequest struct {
	IsMember *bool `json:"isMember" binding:"required"`
}

// UserResponse represents a user profile
type UserResponse struct {
	UID                   string             `json:"uid"`
	Email                 string             `json:"email"`
	DisplayName           string             `json:"displayName"`
	PhotoURL              string             `json:"photoUrl,omitempty"`
	Role                  domain.Role        `json:"role"`
	IsAdvisoryBoardMember bool               `json:"isAdvisoryBoardMember"`
	Institution           string             `json:"institution,omitempty"`
	Title                 string             `json:"title,omitempty"`
	Bio                   string             `json:"bio,omitempty"`
	YearInSchool          string             `json:"yearInSchool,omitempty"`
	WorkAddress           string             `json:"workAddress,omitempty"`
	CellPhone             string             `json:"cellPhone,omitempty"`
	SocialLinks           domain.SocialLinks `json:"socialLinks"`
	CreatedAt             time.Time          `json:"createdAt"`
}

// AdvisoryBoardMember is the public view of an advisory board profile
type AdvisoryBoardMember struct {
	UID         string             `json:"uid"`
	DisplayName string             `json:"displayName"`
	PhotoURL    string             `json:"photoUrl,omitempty"`
	Institution string             `json:"institution,omitempty"`
	Title       string             `json:"title,omitempty"`
	Bio         string             `json:"bio,omitempty"`
	SocialLinks domain.SocialLinks `json:"socialLinks"`
}

// TokenResponse carries a re-issued identity token
type TokenResponse struct {
	Token     string      `json:"token"`
	Role      domain.Role `json:"role"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// ToUserResponse converts a domain profile
func ToUserResponse(p *domain.UserProfile) UserResponse {
	return UserResponse{
		UID:                   p.UID,
		Email:                 p.Email,
		DisplayName:           p.DisplayName,
		PhotoURL:              p.PhotoURL,
		Role:                  p.Role,
		IsAdvisoryBoardMember: p.IsAdvisoryBoardMember,
		Institution:           p.Institution,
		Title:                 p.Title,
		Bio:                   p.Bio,
		YearInSchool:          p.YearInSchool,
		WorkAddress:           p.WorkAddress,
		CellPhone:             p.CellPhone,
		SocialLinks:           p.SocialLinks.Data(),
		CreatedAt:             p.CreatedAt,
	}
}

// ToAdvisoryBoardMember converts a domain profile to its public view
func ToAdvisoryBoardMember(p *domain.UserProfile) AdvisoryBoardMember {
	return AdvisoryBoardMember{
		UID:         p.UID,
		DisplayName: p.DisplayName,
		PhotoURL:    p.PhotoURL,
		Institution: p.Institution,
		Title:       p.Title,
		Bio:         p.Bio,
		SocialLinks: p.SocialLinks.Data(),
	}
}
