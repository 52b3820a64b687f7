package domain

import "time"

// Post is a forum discussion thread
type Post struct {
	BaseModel
	Title          string     `gorm:"size:200;not null" json:"title"`
	Content        string     `gorm:"type:text;not null" json:"content"`
	AuthorID       string     `gorm:"size:128;not null;index" json:"authorId"`
	AuthorName     string     `gorm:"size:255;not null" json:"authorName"`
	AuthorPhotoURL string     `gorm:"size:1024" json:"authorPhotoUrl,omitempty"`
	LikeCount      int        `gorm:"not null;default:0" json:"likeCount"`
	CommentCount   int        `gorm:"not null;default:0" json:"commentCount"`
	LastCommentAt  *time.Time `json:"lastCommentAt"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "forum_posts"
}
