package domain

import "time"

// NotificationType classifies an inbox entry
type NotificationType string

const (
	NotificationReply  NotificationType = "reply"
	NotificationSystem NotificationType = "system"
)

// Notification is an inbox entry for a single user
type Notification struct {
	BaseModel
	UserID  string           `gorm:"size:128;not null;index" json:"userId"`
	Type    NotificationType `gorm:"size:16;not null" json:"type"`
	Message string           `gorm:"type:text;not null" json:"message"`
	Link    string           `gorm:"size:1024" json:"link,omitempty"`
	Read    bool             `gorm:"not null;default:false" json:"read"`
	ReadAt  *time.Time       `json:"readAt,omitempty"`
}

// TableName specifies the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}
