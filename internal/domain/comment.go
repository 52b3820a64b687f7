package domain

import "github.com/google/uuid"

// Comment is a single reply in a forum thread. ParentID is nil for
// top-level replies.
type Comment struct {
	BaseModel
	PostID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"postId"`
	ParentID   *uuid.UUID `gorm:"type:uuid;index" json:"parentId"`
	AuthorID   string     `gorm:"size:128;not null;index" json:"authorId"`
	AuthorName string     `gorm:"size:255;not null" json:"authorName"`
	Content    string     `gorm:"type:text;not null" json:"content"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "forum_comments"
}
