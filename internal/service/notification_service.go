package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/atanasster/pad-champions/internal/domain"
	"github.com/atanasster/pad-champions/internal/dto"
	"github.com/atanasster/pad-champions/internal/metrics"
	"github.com/atanasster/pad-champions/internal/repository"
	"github.com/atanasster/pad-champions/internal/response"
)

const (
	inboxLimit     = 50
	unreadCacheTTL = 5 * time.Minute
)

// NotificationService defines the interface for user inboxes
type NotificationService interface {
	NotifyReply(ctx context.Context, post *domain.Post, parent *domain.Comment, reply *domain.Comment)
	List(ctx context.Context, userID string) (*dto.InboxResponse, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, userID string, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID string) (*dto.MarkAllReadResponse, error)
	CleanupOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type notificationServiceImpl struct {
	repo    repository.NotificationRepository
	redis   *redis.Client
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewNotificationService creates a new NotificationService. redis may be
// nil, which disables the unread cache and the push channel.
func NewNotificationService(
	repo repository.NotificationRepository,
	rdb *redis.Client,
	m *metrics.Metrics,
	logger *zap.Logger,
) NotificationService {
	return &notificationServiceImpl{
		repo:    repo,
		redis:   rdb,
		metrics: m,
		logger:  logger,
	}
}

// NotificationChannel is the push channel of a user's inbox
func NotificationChannel(userID string) string {
	return "notifications:user:" + userID
}

func unreadCacheKey(userID string) string {
	return "unread:" + userID
}

// NotifyReply tells the post author and the parent comment author about a
// reply. Nobody is notified of their own reply, and a parent author who
// also wrote the post gets a single notification. Failures are logged only.
func (s *notificationServiceImpl) NotifyReply(ctx context.Context, post *domain.Post, parent *domain.Comment, reply *domain.Comment) {
	link := fmt.Sprintf("/forum/post/%s", post.ID)
	var batch []*domain.Notification

	if post.AuthorID != "" && post.AuthorID != reply.AuthorID {
		batch = append(batch, &domain.Notification{
			UserID:  post.AuthorID,
			Type:    domain.NotificationReply,
			Message: fmt.Sprintf("%s replied to your topic: \"%s\"", reply.AuthorName, post.Title),
			Link:    link,
		})
	}

	if parent != nil && parent.AuthorID != "" &&
		parent.AuthorID != reply.AuthorID && parent.AuthorID != post.AuthorID {
		batch = append(batch, &domain.Notification{
			UserID:  parent.AuthorID,
			Type:    domain.NotificationReply,
			Message: fmt.Sprintf("%s replied to your comment in \"%s\"", reply.AuthorName, post.Title),
			Link:    link,
		})
	}

	if len(batch) == 0 {
		return
	}

	if err := s.repo.CreateBatch(ctx, batch); err != nil {
		s.logger.Error("Failed to create reply notifications",
			zap.String("post_id", post.ID.String()),
			zap.String("reply_id", reply.ID.String()),
			zap.Error(err),
		)
		return
	}

	s.metrics.AddNotificationsSent(len(batch))
	for _, n := range batch {
		s.invalidateUnreadCache(ctx, n.UserID)
		s.publish(ctx, n)
	}
}

// List returns the newest inbox entries and the unread total
func (s *notificationServiceImpl) List(ctx context.Context, userID string) (*dto.InboxResponse, error) {
	notifications, err := s.repo.ListByUser(ctx, userID, inboxLimit)
	if err != nil {
		return nil, response.NewInternalError("Failed to load notifications", err.Error())
	}

	unread, err := s.UnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]dto.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		result = append(result, dto.ToNotificationResponse(n))
	}
	return &dto.InboxResponse{Notifications: result, UnreadCount: unread}, nil
}

// UnreadCount reads through the redis cache when one is configured
func (s *notificationServiceImpl) UnreadCount(ctx context.Context, userID string) (int64, error) {
	key := unreadCacheKey(userID)

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, key).Int64(); err == nil {
			return cached, nil
		}
	}

	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, response.NewInternalError("Failed to count notifications", err.Error())
	}

	if s.redis != nil {
		if err := s.redis.Set(ctx, key, count, unreadCacheTTL).Err(); err != nil {
			s.logger.Warn("Failed to cache unread count", zap.String("user_id", userID), zap.Error(err))
		}
	}
	return count, nil
}

func (s *notificationServiceImpl) MarkRead(ctx context.Context, userID string, id uuid.UUID) error {
	if err := s.repo.MarkRead(ctx, userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFoundError("Notification not found", "")
		}
		return response.NewInternalError("Failed to update notification", err.Error())
	}
	s.invalidateUnreadCache(ctx, userID)
	return nil
}

func (s *notificationServiceImpl) MarkAllRead(ctx context.Context, userID string) (*dto.MarkAllReadResponse, error) {
	updated, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return nil, response.NewInternalError("Failed to update notifications", err.Error())
	}
	s.invalidateUnreadCache(ctx, userID)
	return &dto.MarkAllReadResponse{Updated: updated}, nil
}

// CleanupOlderThan deletes inbox entries created before cutoff
func (s *notificationServiceImpl) CleanupOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	deleted, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old notifications: %w", err)
	}
	return deleted, nil
}

func (s *notificationServiceImpl) publish(ctx context.Context, n *domain.Notification) {
	if s.redis == nil {
		return
	}

	data, err := json.Marshal(dto.ToNotificationResponse(n))
	if err != nil {
		s.logger.Error("Failed to marshal notification for publish", zap.Error(err))
		return
	}
	if err := s.redis.Publish(ctx, NotificationChannel(n.UserID), data).Err(); err != nil {
		s.logger.Warn("Failed to publish notification", zap.String("user_id", n.UserID), zap.Error(err))
	}
}

func (s *notificationServiceImpl) invalidateUnreadCache(ctx context.Context, userID string) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, unreadCacheKey(userID)).Err(); err != nil {
		s.logger.Warn("Failed to invalidate unread cache", zap.String("user_id", userID), zap.Error(err))
	}
}
