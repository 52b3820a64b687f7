package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/atanasster/pad-champions/internal/domain"
)

// CreateFolderRequest represents the request to create a resource folder
// @Description accessLevel defaults to public
type CreateFolderRequest struct {
	Name        string             `json:"name" binding:"required,min=1,max=255"`
	ParentID    *uuid.UUID         `json:"parentId,omitempty"`
	AccessLevel domain.AccessLevel `json:"accessLevel,omitempty" binding:"omitempty,oneof=public learner lead admin"`
}

// RenameResourceRequest represents the request to rename a resource item
type RenameResourceRequest struct {
	Name string `json:"name" binding:"required,min=1,max=255"`
}

// FileUpload carries an uploaded file into the service layer
type FileUpload struct {
	FileName    string
	ContentType string
	Data        []byte
	ParentID    *uuid.UUID
	AccessLevel domain.AccessLevel
}

// ResourceResponse represents a folder or file of the resource library
type ResourceResponse struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	Type        domain.ResourceType `json:"type"`
	ParentID    *uuid.UUID          `json:"parentId"`
	MimeType    string              `json:"mimeType,omitempty"`
	URL         string              `json:"url,omitempty"`
	Size        int64               `json:"size,omitempty"`
	AccessLevel domain.AccessLevel  `json:"accessLevel"`
	CreatedBy   string              `json:"createdBy,omitempty"`
	UploadedBy  string              `json:"uploadedBy,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// BreadcrumbEntry is one step of the path from the root to a folder
type BreadcrumbEntry struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// DownloadResponse carries a time-limited download link
type DownloadResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ToResourceResponse converts a domain resource item
func ToResourceResponse(r *domain.ResourceItem) ResourceResponse {
	return ResourceResponse{
		ID:          r.ID,
		Name:        r.Name,
		Type:        r.Type,
		ParentID:    r.ParentID,
		MimeType:    r.MimeType,
		URL:         r.URL,
		Size:        r.Size,
		AccessLevel: r.AccessLevel,
		CreatedBy:   r.CreatedBy,
		UploadedBy:  r.UploadedBy,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
