package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atanasster/pad-champions/internal/client"
	"github.com/atanasster/pad-champions/internal/domain"
)

// memResourceRepository is an in-memory ResourceRepository
type memResourceRepository struct {
	mu    sync.Mutex
	items map[uuid.UUID]*domain.ResourceItem
}

func newMemResourceRepository(items ...*domain.ResourceItem) *memResourceRepository {
	r := &memResourceRepository{items: make(map[uuid.UUID]*domain.ResourceItem)}
	for _, item := range items {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		r.items[item.ID] = item
	}
	return r
}

func (r *memResourceRepository) Create(ctx context.Context, item *domain.ResourceItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	now := time.Now()
	item.CreatedAt, item.UpdatedAt = now, now
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *memResourceRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ResourceItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *item
	return &copied, nil
}

func (r *memResourceRepository) FindChildren(ctx context.Context, parentID *uuid.UUID) ([]*domain.ResourceItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.ResourceItem
	for _, item := range r.items {
		if (parentID == nil && item.ParentID == nil) ||
			(parentID != nil && item.ParentID != nil && *item.ParentID == *parentID) {
			copied := *item
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memResourceRepository) CountChildren(ctx context.Context, id uuid.UUID) (int64, error) {
	children, _ := r.FindChildren(ctx, &id)
	return int64(len(children)), nil
}

func (r *memResourceRepository) Rename(ctx context.Context, id uuid.UUID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	item.Name = name
	return nil
}

func (r *memResourceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *memResourceRepository) has(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.items[id]
	return ok
}

// MockPostRepository is a mock implementation of PostRepository
type MockPostRepository struct {
	CreateFunc             func(ctx context.Context, post *domain.Post) error
	FindByIDFunc           func(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	ListFunc               func(ctx context.Context, limit int) ([]*domain.Post, error)
	DeleteWithCommentsFunc func(ctx context.Context, id uuid.UUID) error
}

func (m *MockPostRepository) Create(ctx context.Context, post *domain.Post) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, post)
	}
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	return nil
}

func (m *MockPostRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockPostRepository) List(ctx context.Context, limit int) ([]*domain.Post, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit)
	}
	return nil, nil
}

func (m *MockPostRepository) DeleteWithComments(ctx context.Context, id uuid.UUID) error {
	if m.DeleteWithCommentsFunc != nil {
		return m.DeleteWithCommentsFunc(ctx, id)
	}
	return nil
}

// MockCommentRepository is a mock implementation of CommentRepository
type MockCommentRepository struct {
	FindByIDFunc           func(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	FindByPostIDFunc       func(ctx context.Context, postID uuid.UUID) ([]domain.Comment, error)
	CreateAndIncrementFunc func(ctx context.Context, comment *domain.Comment) error
	DeleteAndDecrementFunc func(ctx context.Context, comment *domain.Comment) error
}

func (m *MockCommentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockCommentRepository) FindByPostID(ctx context.Context, postID uuid.UUID) ([]domain.Comment, error) {
	if m.FindByPostIDFunc != nil {
		return m.FindByPostIDFunc(ctx, postID)
	}
	return nil, nil
}

func (m *MockCommentRepository) CreateAndIncrement(ctx context.Context, comment *domain.Comment) error {
	if m.CreateAndIncrementFunc != nil {
		return m.CreateAndIncrementFunc(ctx, comment)
	}
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	return nil
}

func (m *MockCommentRepository) DeleteAndDecrement(ctx context.Context, comment *domain.Comment) error {
	if m.DeleteAndDecrementFunc != nil {
		return m.DeleteAndDecrementFunc(ctx, comment)
	}
	return nil
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	FindByIDFunc          func(ctx context.Context, uid string) (*domain.UserProfile, error)
	CreateIfAbsentFunc    func(ctx context.Context, profile *domain.UserProfile) error
	UpdateFieldsFunc      func(ctx context.Context, uid string, fields map[string]interface{}) error
	ListFunc              func(ctx context.Context, limit int) ([]*domain.UserProfile, error)
	ListAdvisoryBoardFunc func(ctx context.Context) ([]*domain.UserProfile, error)
}

func (m *MockUserRepository) FindByID(ctx context.Context, uid string) (*domain.UserProfile, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, uid)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockUserRepository) CreateIfAbsent(ctx context.Context, profile *domain.UserProfile) error {
	if m.CreateIfAbsentFunc != nil {
		return m.CreateIfAbsentFunc(ctx, profile)
	}
	return nil
}

func (m *MockUserRepository) UpdateFields(ctx context.Context, uid string, fields map[string]interface{}) error {
	if m.UpdateFieldsFunc != nil {
		return m.UpdateFieldsFunc(ctx, uid, fields)
	}
	return nil
}

func (m *MockUserRepository) List(ctx context.Context, limit int) ([]*domain.UserProfile, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit)
	}
	return nil, nil
}

func (m *MockUserRepository) ListAdvisoryBoard(ctx context.Context) ([]*domain.UserProfile, error) {
	if m.ListAdvisoryBoardFunc != nil {
		return m.ListAdvisoryBoardFunc(ctx)
	}
	return nil, nil
}

// MockNotificationRepository is a mock implementation of NotificationRepository
type MockNotificationRepository struct {
	CreateBatchFunc     func(ctx context.Context, notifications []*domain.Notification) error
	ListByUserFunc      func(ctx context.Context, userID string, limit int) ([]*domain.Notification, error)
	CountUnreadFunc     func(ctx context.Context, userID string) (int64, error)
	MarkReadFunc        func(ctx context.Context, userID string, id uuid.UUID) error
	MarkAllReadFunc     func(ctx context.Context, userID string) (int64, error)
	DeleteOlderThanFunc func(ctx context.Context, cutoff time.Time) (int64, error)
}

func (m *MockNotificationRepository) CreateBatch(ctx context.Context, notifications []*domain.Notification) error {
	if m.CreateBatchFunc != nil {
		return m.CreateBatchFunc(ctx, notifications)
	}
	return nil
}

func (m *MockNotificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Notification, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID, limit)
	}
	return nil, nil
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	if m.CountUnreadFunc != nil {
		return m.CountUnreadFunc(ctx, userID)
	}
	return 0, nil
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, userID string, id uuid.UUID) error {
	if m.MarkReadFunc != nil {
		return m.MarkReadFunc(ctx, userID, id)
	}
	return nil
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	if m.MarkAllReadFunc != nil {
		return m.MarkAllReadFunc(ctx, userID)
	}
	return 0, nil
}

func (m *MockNotificationRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.DeleteOlderThanFunc != nil {
		return m.DeleteOlderThanFunc(ctx, cutoff)
	}
	return 0, nil
}

// MockEventRepository is a mock implementation of EventRepository
type MockEventRepository struct {
	ListFunc        func(ctx context.Context) ([]*domain.ScreeningEvent, error)
	FindByIDFunc    func(ctx context.Context, id uuid.UUID) (*domain.ScreeningEvent, error)
	CreateFunc      func(ctx context.Context, event *domain.ScreeningEvent) error
	UpdateFunc      func(ctx context.Context, event *domain.ScreeningEvent) error
	DeleteFunc      func(ctx context.Context, id uuid.UUID) error
	UpsertBatchFunc func(ctx context.Context, events []*domain.ScreeningEvent) error
}

func (m *MockEventRepository) List(ctx context.Context) ([]*domain.ScreeningEvent, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockEventRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ScreeningEvent, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockEventRepository) Create(ctx context.Context, event *domain.ScreeningEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, event)
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return nil
}

func (m *MockEventRepository) Update(ctx context.Context, event *domain.ScreeningEvent) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, event)
	}
	return nil
}

func (m *MockEventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockEventRepository) UpsertBatch(ctx context.Context, events []*domain.ScreeningEvent) error {
	if m.UpsertBatchFunc != nil {
		return m.UpsertBatchFunc(ctx, events)
	}
	return nil
}

// MockNotificationService records reply notifications
type MockNotificationService struct {
	NotificationService
	mu      sync.Mutex
	Replies []*domain.Comment
	Parents []*domain.Comment
}

func (m *MockNotificationService) NotifyReply(ctx context.Context, post *domain.Post, parent *domain.Comment, reply *domain.Comment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Replies = append(m.Replies, reply)
	m.Parents = append(m.Parents, parent)
}

// recordingPublisher captures live messages
type recordingPublisher struct {
	mu       sync.Mutex
	messages []publishedMessage
}

type publishedMessage struct {
	Topic, Kind, ID string
}

func (p *recordingPublisher) Publish(ctx context.Context, topic, kind, id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, publishedMessage{Topic: topic, Kind: kind, ID: id})
}

// MockGenAIClient replays canned stream events
type MockGenAIClient struct {
	Events      []client.StreamEvent
	Err         error
	LastRequest client.CompletionRequest
}

func (m *MockGenAIClient) StreamCompletion(ctx context.Context, req client.CompletionRequest) (<-chan client.StreamEvent, error) {
	m.LastRequest = req
	if m.Err != nil {
		return nil, m.Err
	}
	ch := make(chan client.StreamEvent, len(m.Events))
	for _, ev := range m.Events {
		ch <- ev
	}
	close(ch)
	return ch, nil
}
