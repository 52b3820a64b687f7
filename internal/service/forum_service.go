package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/atanasster/pad-champions/internal/domain"
	"github.com/atanasster/pad-champions/internal/dto"
	"github.com/atanasster/pad-champions/internal/metrics"
	"github.com/atanasster/pad-champions/internal/permission"
	"github.com/atanasster/pad-champions/internal/repository"
	"github.com/atanasster/pad-champions/internal/response"
)

// Forum item kinds accepted by DeleteItem
const (
	ForumItemPost  = "post"
	ForumItemReply = "reply"
)

const (
	defaultPostLimit = 50
	maxPostLimit     = 100

	minTitleLen   = 5
	maxTitleLen   = 200
	minContentLen = 10
	minReplyLen   = 2
)

// ForumService defines the interface for forum business logic
type ForumService interface {
	ListPosts(ctx context.Context, limit int) ([]dto.PostResponse, error)
	GetThread(ctx context.Context, postID uuid.UUID) (*dto.ThreadResponse, error)
	CreatePost(ctx context.Context, actor domain.Actor, req *dto.CreatePostRequest) (*dto.PostResponse, error)
	CreateReply(ctx context.Context, actor domain.Actor, postID uuid.UUID, req *dto.CreateReplyRequest) (*dto.CommentNode, error)
	DeleteItem(ctx context.Context, actor domain.Actor, itemType string, id uuid.UUID, postID *uuid.UUID) error
}

type forumServiceImpl struct {
	postRepo      repository.PostRepository
	commentRepo   repository.CommentRepository
	userRepo      repository.UserRepository
	notifications NotificationService
	live          LivePublisher
	metrics       *metrics.Metrics
	logger        *zap.Logger
}

// NewForumService creates a new ForumService
func NewForumService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	userRepo repository.UserRepository,
	notifications NotificationService,
	live LivePublisher,
	m *metrics.Metrics,
	logger *zap.Logger,
) ForumService {
	if live == nil {
		live = noopLivePublisher{}
	}
	return &forumServiceImpl{
		postRepo:      postRepo,
		commentRepo:   commentRepo,
		userRepo:      userRepo,
		notifications: notifications,
		live:          live,
		metrics:       m,
		logger:        logger,
	}
}

// ListPosts returns threads newest first
func (s *forumServiceImpl) ListPosts(ctx context.Context, limit int) ([]dto.PostResponse, error) {
	if limit <= 0 {
		limit = defaultPostLimit
	}
	if limit > maxPostLimit {
		limit = maxPostLimit
	}

	posts, err := s.postRepo.List(ctx, limit)
	if err != nil {
		return nil, response.NewInternalError("Failed to list posts", err.Error())
	}

	result := make([]dto.PostResponse, 0, len(posts))
	for _, p := range posts {
		result = append(result, dto.ToPostResponse(p))
	}
	return result, nil
}

// GetThread loads a post and its comments concurrently and nests the
// comments into a forest
func (s *forumServiceImpl) GetThread(ctx context.Context, postID uuid.UUID) (*dto.ThreadResponse, error) {
	var (
		post     *domain.Post
		comments []domain.Comment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		post, err = s.postRepo.FindByID(gctx, postID)
		return err
	})
	g.Go(func() error {
		var err error
		comments, err = s.commentRepo.FindByPostID(gctx, postID)
		return err
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("Post not found", "")
		}
		return nil, response.NewInternalError("Failed to load thread", err.Error())
	}

	return &dto.ThreadResponse{
		Post:     dto.ToPostResponse(post),
		Comments: BuildCommentTree(comments),
	}, nil
}

// CreatePost opens a new thread with zeroed counters
func (s *forumServiceImpl) CreatePost(ctx context.Context, actor domain.Actor, req *dto.CreatePostRequest) (*dto.PostResponse, error) {
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)

	if n := utf8.RuneCountInString(title); n < minTitleLen || n > maxTitleLen {
		return nil, response.NewValidationError("Title must be between 5 and 200 characters", "")
	}
	if utf8.RuneCountInString(content) < minContentLen {
		return nil, response.NewValidationError("Content must be at least 10 characters", "")
	}

	name, photoURL := s.authorInfo(ctx, actor)
	post := &domain.Post{
		Title:          title,
		Content:        content,
		AuthorID:       actor.ID,
		AuthorName:     name,
		AuthorPhotoURL: photoURL,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, response.NewInternalError("Failed to create post", err.Error())
	}

	s.metrics.IncrementPostCreated()
	s.logger.Info("Post created",
		zap.String("post_id", post.ID.String()),
		zap.String("user_id", actor.ID),
	)

	resp := dto.ToPostResponse(post)
	return &resp, nil
}

// CreateReply adds a comment to a thread and bumps its counters in the
// same transaction. Notifications and the live push follow the commit.
func (s *forumServiceImpl) CreateReply(ctx context.Context, actor domain.Actor, postID uuid.UUID, req *dto.CreateReplyRequest) (*dto.CommentNode, error) {
	content := strings.TrimSpace(req.Content)
	if utf8.RuneCountInString(content) < minReplyLen {
		return nil, response.NewValidationError("Reply must be at least 2 characters", "")
	}

	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("Post not found", "")
		}
		return nil, response.NewInternalError("Failed to load post", err.Error())
	}

	var parent *domain.Comment
	if req.ParentID != nil {
		parent, err = s.commentRepo.FindByID(ctx, *req.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, response.NewNotFoundError("Parent reply not found", "")
			}
			return nil, response.NewInternalError("Failed to load parent reply", err.Error())
		}
		if parent.PostID != postID {
			return nil, response.NewNotFoundError("Parent reply not found", "belongs to another post")
		}
	}

	name, _ := s.authorInfo(ctx, actor)
	comment := &domain.Comment{
		PostID:     postID,
		ParentID:   req.ParentID,
		AuthorID:   actor.ID,
		AuthorName: name,
		Content:    content,
	}
	if err := s.commentRepo.CreateAndIncrement(ctx, comment); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("Post not found", "")
		}
		return nil, response.NewInternalError("Failed to create reply", err.Error())
	}

	s.metrics.IncrementReplyCreated()
	s.logger.Info("Reply created",
		zap.String("post_id", postID.String()),
		zap.String("reply_id", comment.ID.String()),
		zap.String("user_id", actor.ID),
	)

	if s.notifications != nil {
		s.notifications.NotifyReply(ctx, post, parent, comment)
	}
	s.live.Publish(ctx, PostTopic(postID), LiveKindCreated, comment.ID.String())

	return dto.ToCommentNode(comment), nil
}

// DeleteItem removes a post with all its replies, or a single reply.
// Replies under a deleted reply are kept and surface as roots.
func (s *forumServiceImpl) DeleteItem(ctx context.Context, actor domain.Actor, itemType string, id uuid.UUID, postID *uuid.UUID) error {
	switch itemType {
	case ForumItemPost:
		return s.deletePost(ctx, actor, id)
	case ForumItemReply:
		if postID == nil {
			return response.NewValidationError("postId is required to delete a reply", "")
		}
		return s.deleteReply(ctx, actor, *postID, id)
	default:
		return response.NewValidationError("Invalid item type", itemType)
	}
}

func (s *forumServiceImpl) deletePost(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFoundError("Post not found", "")
		}
		return response.NewInternalError("Failed to load post", err.Error())
	}
	if !permission.CanDeleteAuthored(actor, post.AuthorID) {
		return response.NewForbiddenError("You can only delete your own posts", "")
	}

	if err := s.postRepo.DeleteWithComments(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFoundError("Post not found", "")
		}
		return response.NewInternalError("Failed to delete post", err.Error())
	}

	s.logger.Info("Post deleted",
		zap.String("post_id", id.String()),
		zap.String("user_id", actor.ID),
	)
	s.live.Publish(ctx, PostTopic(id), LiveKindDeleted, id.String())
	return nil
}

func (s *forumServiceImpl) deleteReply(ctx context.Context, actor domain.Actor, postID, id uuid.UUID) error {
	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFoundError("Reply not found", "")
		}
		return response.NewInternalError("Failed to load reply", err.Error())
	}
	if comment.PostID != postID {
		return response.NewNotFoundError("Reply not found", "belongs to another post")
	}
	if !permission.CanDeleteAuthored(actor, comment.AuthorID) {
		return response.NewForbiddenError("You can only delete your own replies", "")
	}

	if err := s.commentRepo.DeleteAndDecrement(ctx, comment); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFoundError("Reply not found", "")
		}
		return response.NewInternalError("Failed to delete reply", err.Error())
	}

	s.logger.Info("Reply deleted",
		zap.String("post_id", postID.String()),
		zap.String("reply_id", id.String()),
		zap.String("user_id", actor.ID),
	)
	s.live.Publish(ctx, PostTopic(postID), LiveKindDeleted, id.String())
	return nil
}

// authorInfo prefers the stored profile over token claims
func (s *forumServiceImpl) authorInfo(ctx context.Context, actor domain.Actor) (string, string) {
	name := actor.DisplayName()
	if s.userRepo == nil {
		return name, ""
	}
	profile, err := s.userRepo.FindByID(ctx, actor.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("Failed to load author profile", zap.String("user_id", actor.ID), zap.Error(err))
		}
		return name, ""
	}
	if profile.DisplayName != "" {
		name = profile.DisplayName
	}
	return name, profile.PhotoURL
}
