package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/atanasster/pad-champions/internal/client"
	"github.com/atanasster/pad-champions/internal/domain"
	"github.com/atanasster/pad-champions/internal/dto"
	"github.com/atanasster/pad-champions/internal/util"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// withActor stands in for the auth middleware
func withActor(actor domain.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		util.SetActor(c, actor, "test-token")
		c.Next()
	}
}

// MockForumService is a mock implementation of ForumService
type MockForumService struct {
	ListPostsFunc   func(ctx context.Context, limit int) ([]dto.PostResponse, error)
	GetThreadFunc   func(ctx context.Context, postID uuid.UUID) (*dto.ThreadResponse, error)
	CreatePostFunc  func(ctx context.Context, actor domain.Actor, req *dto.CreatePostRequest) (*dto.PostResponse, error)
	CreateReplyFunc func(ctx context.Context, actor domain.Actor, postID uuid.UUID, req *dto.CreateReplyRequest) (*dto.CommentNode, error)
	DeleteItemFunc  func(ctx context.Context, actor domain.Actor, itemType string, id uuid.UUID, postID *uuid.UUID) error
}

func (m *MockForumService) ListPosts(ctx context.Context, limit int) ([]dto.PostResponse, error) {
	if m.ListPostsFunc != nil {
		return m.ListPostsFunc(ctx, limit)
	}
	return []dto.PostResponse{}, nil
}

func (m *MockForumService) GetThread(ctx context.Context, postID uuid.UUID) (*dto.ThreadResponse, error) {
	if m.GetThreadFunc != nil {
		return m.GetThreadFunc(ctx, postID)
	}
	return &dto.ThreadResponse{}, nil
}

func (m *MockForumService) CreatePost(ctx context.Context, actor domain.Actor, req *dto.CreatePostRequest) (*dto.PostResponse, error) {
	if m.CreatePostFunc != nil {
		return m.CreatePostFunc(ctx, actor, req)
	}
	return &dto.PostResponse{}, nil
}

func (m *MockForumService) CreateReply(ctx context.Context, actor domain.Actor, postID uuid.UUID, req *dto.CreateReplyRequest) (*dto.CommentNode, error) {
	if m.CreateReplyFunc != nil {
		return m.CreateReplyFunc(ctx, actor, postID, req)
	}
	return &dto.CommentNode{}, nil
}

func (m *MockForumService) DeleteItem(ctx context.Context, actor domain.Actor, itemType string, id uuid.UUID, postID *uuid.UUID) error {
	if m.DeleteItemFunc != nil {
		return m.DeleteItemFunc(ctx, actor, itemType, id, postID)
	}
	return nil
}

// MockResourceService is a mock implementation of ResourceService
type MockResourceService struct {
	ListChildrenFunc func(ctx context.Context, actor domain.Actor, parentID *uuid.UUID) ([]dto.ResourceResponse, error)
	BreadcrumbFunc   func(ctx context.Context, actor domain.Actor, folderID uuid.UUID) ([]dto.BreadcrumbEntry, error)
	GetItemFunc      func(ctx context.Context, actor domain.Actor, id uuid.UUID) (*dto.ResourceResponse, error)
	CreateFolderFunc func(ctx context.Context, actor domain.Actor, req *dto.CreateFolderRequest) (*dto.ResourceResponse, error)
	RenameFunc       func(ctx context.Context, actor domain.Actor, id uuid.UUID, name string) (*dto.ResourceResponse, error)
	DeleteFunc       func(ctx context.Context, actor domain.Actor, id uuid.UUID) error
	UploadFileFunc   func(ctx context.Context, actor domain.Actor, upload *dto.FileUpload) (*dto.ResourceResponse, error)
	DownloadURLFunc  func(ctx context.Context, actor domain.Actor, id uuid.UUID) (*dto.DownloadResponse, error)
}

func (m *MockResourceService) ListChildren(ctx context.Context, actor domain.Actor, parentID *uuid.UUID) ([]dto.ResourceResponse, error) {
	if m.ListChildrenFunc != nil {
		return m.ListChildrenFunc(ctx, actor, parentID)
	}
	return []dto.ResourceResponse{}, nil
}

func (m *MockResourceService) Breadcrumb(ctx context.Context, actor domain.Actor, folderID uuid.UUID) ([]dto.BreadcrumbEntry, error) {
	if m.BreadcrumbFunc != nil {
		return m.BreadcrumbFunc(ctx, actor, folderID)
	}
	return []dto.BreadcrumbEntry{}, nil
}

func (m *MockResourceService) GetItem(ctx context.Context, actor domain.Actor, id uuid.UUID) (*dto.ResourceResponse, error) {
	if m.GetItemFunc != nil {
		return m.GetItemFunc(ctx, actor, id)
	}
	return &dto.ResourceResponse{ID: id}, nil
}

func (m *MockResourceService) CreateFolder(ctx context.Context, actor domain.Actor, req *dto.CreateFolderRequest) (*dto.ResourceResponse, error) {
	if m.CreateFolderFunc != nil {
		return m.CreateFolderFunc(ctx, actor, req)
	}
	return &dto.ResourceResponse{}, nil
}

func (m *MockResourceService) Rename(ctx context.Context, actor domain.Actor, id uuid.UUID, name string) (*dto.ResourceResponse, error) {
	if m.RenameFunc != nil {
		return m.RenameFunc(ctx, actor, id, name)
	}
	return &dto.ResourceResponse{ID: id}, nil
}

func (m *MockResourceService) Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, actor, id)
	}
	return nil
}

func (m *MockResourceService) UploadFile(ctx context.Context, actor domain.Actor, upload *dto.FileUpload) (*dto.ResourceResponse, error) {
	if m.UploadFileFunc != nil {
		return m.UploadFileFunc(ctx, actor, upload)
	}
	return &dto.ResourceResponse{}, nil
}

func (m *MockResourceService) DownloadURL(ctx context.Context, actor domain.Actor, id uuid.UUID) (*dto.DownloadResponse, error) {
	if m.DownloadURLFunc != nil {
		return m.DownloadURLFunc(ctx, actor, id)
	}
	return &dto.DownloadResponse{}, nil
}

// MockEventService is a mock implementation of EventService
type MockEventService struct {
	ListEventsFunc  func(ctx context.Context) ([]dto.EventResponse, error)
	CreateEventFunc func(ctx context.Context, actor domain.Actor, req *dto.EventRequest) (*dto.EventResponse, error)
	UpdateEventFunc func(ctx context.Context, actor domain.Actor, id uuid.UUID, req *dto.EventRequest) (*dto.EventResponse, error)
	DeleteEventFunc func(ctx context.Context, actor domain.Actor, id uuid.UUID) error
	SeedEventsFunc  func(ctx context.Context, actor domain.Actor, req *dto.SeedEventsRequest) (int, error)
}

func (m *MockEventService) ListEvents(ctx context.Context) ([]dto.EventResponse, error) {
	if m.ListEventsFunc != nil {
		return m.ListEventsFunc(ctx)
	}
	return []dto.EventResponse{}, nil
}

func (m *MockEventService) CreateEvent(ctx context.Context, actor domain.Actor, req *dto.EventRequest) (*dto.EventResponse, error) {
	if m.CreateEventFunc != nil {
		return m.CreateEventFunc(ctx, actor, req)
	}
	return &dto.EventResponse{}, nil
}

func (m *MockEventService) UpdateEvent(ctx context.Context, actor domain.Actor, id uuid.UUID, req *dto.EventRequest) (*dto.EventResponse, error) {
	if m.UpdateEventFunc != nil {
		return m.UpdateEventFunc(ctx, actor, id, req)
	}
	return &dto.EventResponse{}, nil
}

func (m *MockEventService) DeleteEvent(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	if m.DeleteEventFunc != nil {
		return m.DeleteEventFunc(ctx, actor, id)
	}
	return nil
}

func (m *MockEventService) SeedEvents(ctx context.Context, actor domain.Actor, req *dto.SeedEventsRequest) (int, error) {
	if m.SeedEventsFunc != nil {
		return m.SeedEventsFunc(ctx, actor, req)
	}
	return len(req.Events), nil
}

// MockUserService is a mock implementation of UserService
type MockUserService struct {
	ResolveRoleFunc            func(ctx context.Context, userID string) (domain.Role, error)
	GetOrCreateProfileFunc     func(ctx context.Context, actor domain.Actor) (*dto.UserResponse, error)
	UpdateProfileFunc          func(ctx context.Context, actor domain.Actor, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	ListUsersFunc              func(ctx context.Context, actor domain.Actor) ([]dto.UserResponse, error)
	SetUserRoleFunc            func(ctx context.Context, actor domain.Actor, targetID string, role domain.Role) (*dto.UserResponse, error)
	SetAdvisoryBoardStatusFunc func(ctx context.Context, actor domain.Actor, targetID string, isMember bool) (*dto.UserResponse, error)
	ListAdvisoryBoardFunc      func(ctx context.Context) ([]dto.AdvisoryBoardMember, error)
	UploadProfilePhotoFunc     func(ctx context.Context, actor domain.Actor, data []byte, mimeType string) (*dto.UserResponse, error)
	RefreshTokenFunc           func(ctx context.Context, actor domain.Actor) (*dto.TokenResponse, error)
}

func (m *MockUserService) ResolveRole(ctx context.Context, userID string) (domain.Role, error) {
	if m.ResolveRoleFunc != nil {
		return m.ResolveRoleFunc(ctx, userID)
	}
	return domain.DefaultRole, nil
}

func (m *MockUserService) GetOrCreateProfile(ctx context.Context, actor domain.Actor) (*dto.UserResponse, error) {
	if m.GetOrCreateProfileFunc != nil {
		return m.GetOrCreateProfileFunc(ctx, actor)
	}
	return &dto.UserResponse{UID: actor.ID}, nil
}

func (m *MockUserService) UpdateProfile(ctx context.Context, actor domain.Actor, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, actor, req)
	}
	return &dto.UserResponse{UID: actor.ID}, nil
}

func (m *MockUserService) ListUsers(ctx context.Context, actor domain.Actor) ([]dto.UserResponse, error) {
	if m.ListUsersFunc != nil {
		return m.ListUsersFunc(ctx, actor)
	}
	return []dto.UserResponse{}, nil
}

func (m *MockUserService) SetUserRole(ctx context.Context, actor domain.Actor, targetID string, role domain.Role) (*dto.UserResponse, error) {
	if m.SetUserRoleFunc != nil {
		return m.SetUserRoleFunc(ctx, actor, targetID, role)
	}
	return &dto.UserResponse{UID: targetID, Role: role}, nil
}

func (m *MockUserService) SetAdvisoryBoardStatus(ctx context.Context, actor domain.Actor, targetID string, isMember bool) (*dto.UserResponse, error) {
	if m.SetAdvisoryBoardStatusFunc != nil {
		return m.SetAdvisoryBoardStatusFunc(ctx, actor, targetID, isMember)
	}
	return &dto.UserResponse{UID: targetID, IsAdvisoryBoardMember: isMember}, nil
}

func (m *MockUserService) ListAdvisoryBoard(ctx context.Context) ([]dto.AdvisoryBoardMember, error) {
	if m.ListAdvisoryBoardFunc != nil {
		return m.ListAdvisoryBoardFunc(ctx)
	}
	return []dto.AdvisoryBoardMember{}, nil
}

func (m *MockUserService) UploadProfilePhoto(ctx context.Context, actor domain.Actor, data []byte, mimeType string) (*dto.UserResponse, error) {
	if m.UploadProfilePhotoFunc != nil {
		return m.UploadProfilePhotoFunc(ctx, actor, data, mimeType)
	}
	return &dto.UserResponse{UID: actor.ID}, nil
}

func (m *MockUserService) RefreshToken(ctx context.Context, actor domain.Actor) (*dto.TokenResponse, error) {
	if m.RefreshTokenFunc != nil {
		return m.RefreshTokenFunc(ctx, actor)
	}
	return &dto.TokenResponse{Token: "t", Role: actor.Role, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

// MockNotificationService is a mock implementation of NotificationService
type MockNotificationService struct {
	ListFunc        func(ctx context.Context, userID string) (*dto.InboxResponse, error)
	UnreadCountFunc func(ctx context.Context, userID string) (int64, error)
	MarkReadFunc    func(ctx context.Context, userID string, id uuid.UUID) error
	MarkAllReadFunc func(ctx context.Context, userID string) (*dto.MarkAllReadResponse, error)
}

func (m *MockNotificationService) NotifyReply(ctx context.Context, post *domain.Post, parent *domain.Comment, reply *domain.Comment) {
}

func (m *MockNotificationService) List(ctx context.Context, userID string) (*dto.InboxResponse, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID)
	}
	return &dto.InboxResponse{Notifications: []dto.NotificationResponse{}}, nil
}

func (m *MockNotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	if m.UnreadCountFunc != nil {
		return m.UnreadCountFunc(ctx, userID)
	}
	return 0, nil
}

func (m *MockNotificationService) MarkRead(ctx context.Context, userID string, id uuid.UUID) error {
	if m.MarkReadFunc != nil {
		return m.MarkReadFunc(ctx, userID, id)
	}
	return nil
}

func (m *MockNotificationService) MarkAllRead(ctx context.Context, userID string) (*dto.MarkAllReadResponse, error) {
	if m.MarkAllReadFunc != nil {
		return m.MarkAllReadFunc(ctx, userID)
	}
	return &dto.MarkAllReadResponse{}, nil
}

func (m *MockNotificationService) CleanupOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

// MockScreeningService is a mock implementation of ScreeningService
type MockScreeningService struct {
	AnalyzeFunc func(ctx context.Context, req *dto.AnalyzeRequest) (<-chan client.StreamEvent, error)
}

func (m *MockScreeningService) Analyze(ctx context.Context, req *dto.AnalyzeRequest) (<-chan client.StreamEvent, error) {
	if m.AnalyzeFunc != nil {
		return m.AnalyzeFunc(ctx, req)
	}
	ch := make(chan client.StreamEvent)
	close(ch)
	return ch, nil
}

// streamOf returns a closed channel preloaded with events
func streamOf(events ...client.StreamEvent) <-chan client.StreamEvent {
	ch := make(chan client.StreamEvent, len(events))
	for _, ev := range events {
		ch <- ev
	}
	close(ch)
	return ch
}
