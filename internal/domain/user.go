package domain

import (
	"time"

	"gorm.io/datatypes"
)

// SocialLinks are optional profile links
type SocialLinks struct {
	LinkedIn string `json:"linkedin,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
	Website  string `json:"website,omitempty"`
}

// UserProfile is the durable profile record of an identity. Role here is
// authoritative; the role claim in a token may lag behind it.
type UserProfile struct {
	UID                   string                          `gorm:"primaryKey;size:128" json:"uid"`
	Email                 string                          `gorm:"size:255;index" json:"email"`
	DisplayName           string                          `gorm:"size:255" json:"displayName"`
	PhotoURL              string                          `gorm:"size:2048" json:"photoUrl,omitempty"`
	Role                  Role                            `gorm:"size:32;not null;default:volunteer" json:"role"`
	IsAdvisoryBoardMember bool                            `gorm:"not null;default:false;index" json:"isAdvisoryBoardMember"`
	Institution           string                          `gorm:"size:255" json:"institution,omitempty"`
	Title                 string                          `gorm:"size:255" json:"title,omitempty"`
	Bio                   string                          `gorm:"type:text" json:"bio,omitempty"`
	YearInSchool          string                          `gorm:"size:64" json:"yearInSchool,omitempty"`
	WorkAddress           string                          `gorm:"size:512" json:"workAddress,omitempty"`
	CellPhone             string                          `gorm:"size:64" json:"cellPhone,omitempty"`
	SocialLinks           datatypes.JSONType[SocialLinks] `json:"socialLinks"`
	CreatedAt             time.Time                       `gorm:"not null;index" json:"createdAt"`
	UpdatedAt             time.Time                       `gorm:"not null" json:"updatedAt"`
}

// TableName specifies the table name for UserProfile
func (UserProfile) TableName() string {
	return "user_profiles"
}
