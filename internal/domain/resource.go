package domain

import "github.com/google/uuid"

// ResourceType tags a ResourceItem as a folder or a file
type ResourceType string

const (
	ResourceFolder ResourceType = "folder"
	ResourceFile   ResourceType = "file"
)

// ResourceItem is one node of the resource library. Items form a forest
// through ParentID; nil means the item lives at the root.
type ResourceItem struct {
	BaseModel
	Name        string       `gorm:"size:255;not null" json:"name"`
	Type        ResourceType `gorm:"size:16;not null" json:"type"`
	ParentID    *uuid.UUID   `gorm:"type:uuid;index" json:"parentId"`
	MimeType    string       `gorm:"size:255" json:"mimeType,omitempty"`
	URL         string       `gorm:"size:2048" json:"url,omitempty"`
	StoragePath string       `gorm:"size:1024" json:"storagePath,omitempty"`
	Size        int64        `json:"size,omitempty"`
	AccessLevel AccessLevel  `gorm:"size:16;not null;default:public" json:"accessLevel"`
	CreatedBy   string       `gorm:"size:128;index" json:"createdBy,omitempty"`
	UploadedBy  string       `gorm:"size:128;index" json:"uploadedBy,omitempty"`
}

// TableName specifies the table name for ResourceItem
func (ResourceItem) TableName() string {
	return "resource_items"
}

// IsFolder returns true if the item is a folder
func (r *ResourceItem) IsFolder() bool {
	return r.Type == ResourceFolder
}

// IsRoot returns true if the item has no parent
func (r *ResourceItem) IsRoot() bool {
	return r.ParentID == nil
}
