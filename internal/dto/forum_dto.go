package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/atanasster/pad-champions/internal/domain"
)

// CreatePostRequest represents the request to open a forum thread
// @Description Title must be 5-200 characters and content at least 10
type CreatePostRequest struct {
	Title   string `json:"title" binding:"required,min=5,max=200" example:"Tips for barbershop screenings"`
	Content string `json:"content" binding:"required,min=10"`
}

// CreateReplyRequest represents the request to reply in a thread
// @Description parentId is set when replying to another reply
type CreateReplyRequest struct {
	Content  string     `json:"content" binding:"required,min=2"`
	ParentID *uuid.UUID `json:"parentId,omitempty" example:"f47ac10b-58cc-4372-a567-0e02b2c3d479"`
}

// PostResponse represents a forum thread header
type PostResponse struct {
	ID             uuid.UUID  `json:"id"`
	Title          string     `json:"title"`
	Content        string     `json:"content"`
	AuthorID       string     `json:"authorId"`
	AuthorName     string     `json:"authorName"`
	AuthorPhotoURL string     `json:"authorPhotoUrl,omitempty"`
	LikeCount      int        `json:"likeCount"`
	CommentCount   int        `json:"commentCount"`
	LastCommentAt  *time.Time `json:"lastCommentAt"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// CommentNode is a comment with its nested replies. Children are derived
// per request and never stored.
type CommentNode struct {
	ID         uuid.UUID      `json:"id"`
	PostID     uuid.UUID      `json:"postId"`
	ParentID   *uuid.UUID     `json:"parentId"`
	AuthorID   string         `json:"authorId"`
	AuthorName string         `json:"authorName"`
	Content    string         `json:"content"`
	CreatedAt  time.Time      `json:"createdAt"`
	Children   []*CommentNode `json:"children"`
}

// ThreadResponse is a post together with its comment forest
type ThreadResponse struct {
	Post     PostResponse   `json:"post"`
	Comments []*CommentNode `json:"comments"`
}

// ToPostResponse converts a domain post
func ToPostResponse(p *domain.Post) PostResponse {
	return PostResponse{
		ID:             p.ID,
		Title:          p.Title,
		Content:        p.Content,
		AuthorID:       p.AuthorID,
		AuthorName:     p.AuthorName,
		AuthorPhotoURL: p.AuthorPhotoURL,
		LikeCount:      p.LikeCount,
		CommentCount:   p.CommentCount,
		LastCommentAt:  p.LastCommentAt,
		CreatedAt:      p.CreatedAt,
	}
}

// ToCommentNode converts a domain comment into a childless node
func ToCommentNode(c *domain.Comment) *CommentNode {
	return &CommentNode{
		ID:         c.ID,
		PostID:     c.PostID,
		ParentID:   c.ParentID,
		AuthorID:   c.AuthorID,
		AuthorName: c.AuthorName,
		Content:    c.Content,
		CreatedAt:  c.CreatedAt,
		Children:   []*CommentNode{},
	}
}
