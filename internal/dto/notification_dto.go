package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/atanasster/pad-champions/internal/domain"
)

// NotificationResponse represents an inbox entry
type NotificationResponse struct {
	ID        uuid.UUID               `json:"id"`
	Type      domain.NotificationType `json:"type"`
	Message   string                  `json:"message"`
	Link      string                  `json:"link,omitempty"`
	Read      bool                    `json:"read"`
	CreatedAt time.Time               `json:"createdAt"`
}

// InboxResponse is a page of notifications with the unread total
type InboxResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int64                  `json:"unreadCount"`
}

// MarkAllReadResponse reports how many entries changed
type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

// ToNotificationResponse converts a domain notification
func ToNotificationResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Message:   n.Message,
		Link:      n.Link,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}
