package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/atanasster/pad-champions/internal/client"
	"github.com/atanasster/pad-champions/internal/domain"
	"github.com/atanasster/pad-champions/internal/dto"
	"github.com/atanasster/pad-champions/internal/metrics"
	"github.com/atanasster/pad-champions/internal/permission"
	"github.com/atanasster/pad-champions/internal/repository"
	"github.com/atanasster/pad-champions/internal/response"
)

const (
	// maxBreadcrumbDepth bounds the ancestor walk on a corrupted chain
	maxBreadcrumbDepth = 64
	downloadURLTTL     = 15 * time.Minute

	msgFolderNotEmpty = "Folder is not empty. Please delete contents first."
)

// ResourceService defines the interface for the resource library
type ResourceService interface {
	ListChildren(ctx context.Context, actor domain.Actor, parentID *uuid.UUID) ([]dto.ResourceResponse, error)
	Breadcrumb(ctx context.Context, actor domain.Actor, folderID uuid.UUID) ([]dto.BreadcrumbEntry, error)
	GetItem(ctx context.Context, actor domain.Actor, id uuid.UUID) (*dto.ResourceResponse, error)
	CreateFolder(ctx context.Context, actor domain.Actor, req *dto.CreateFolderRequest) (*dto.ResourceResponse, error)
	Rename(ctx context.Context, actor domain.Actor, id uuid.UUID, name string) (*dto.ResourceResponse, error)
	Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error
	UploadFile(ctx context.Context, actor domain.Actor, upload *dto.FileUpload) (*dto.ResourceResponse, error)
	DownloadURL(ctx context.Context, actor domain.Actor, id uuid.UUID) (*dto.DownloadResponse, error)
}

type resourceServiceImpl struct {
	repo           repository.ResourceRepository
	blobs          client.BlobStore
	live           LivePublisher
	maxUploadBytes int64
	metrics        *metrics.Metrics
	logger         *zap.Logger
	now            func() time.Time
}

// NewResourceService creates a new ResourceService
func NewResourceService(
	repo repository.ResourceRepository,
	blobs client.BlobStore,
	live LivePublisher,
	maxUploadBytes int64,
	m *metrics.Metrics,
	logger *zap.Logger,
) ResourceService {
	if live == nil {
		live = noopLivePublisher{}
	}
	return &resourceServiceImpl{
		repo:           repo,
		blobs:          blobs,
		live:           live,
		maxUploadBytes: maxUploadBytes,
		metrics:        m,
		logger:         logger,
		now:            time.Now,
	}
}

// ListChildren returns the items directly under parentID that the actor may
// view, folders first and then by name
func (s *resourceServiceImpl) ListChildren(ctx context.Context, actor domain.Actor, parentID *uuid.UUID) ([]dto.ResourceResponse, error) {
	items, err := s.repo.FindChildren(ctx, parentID)
	if err != nil {
		return nil, response.NewInternalError("Failed to list resources", err.Error())
	}

	visible := make([]*domain.ResourceItem, 0, len(items))
	for _, item := range items {
		if permission.CanView(actor.Role, item.AccessLevel) {
			visible = append(visible, item)
		}
	}
	SortResources(visible)

	result := make([]dto.ResourceResponse, 0, len(visible))
	for _, item := range visible {
		result = append(result, dto.ToResourceResponse(item))
	}
	return result, nil
}

// SortResources orders folders before files, then names ascending
func SortResources(items []*domain.ResourceItem) {
	sort.SliceStable(items, func(i, j int) bool {
		fi, fj := items[i].IsFolder(), items[j].IsFolder()
		if fi != fj {
			return fi
		}
		return items[i].Name < items[j].Name
	})
}

// Breadcrumb returns the path from the root to folderID inclusive. A target
// the actor cannot view reads as missing. A missing or hidden ancestor
// truncates the path at that point; a looping chain stops at the first
// repeated folder.
func (s *resourceServiceImpl) Breadcrumb(ctx context.Context, actor domain.Actor, folderID uuid.UUID) ([]dto.BreadcrumbEntry, error) {
	current, err := s.findViewable(ctx, actor, folderID)
	if err != nil {
		return nil, err
	}

	path := []dto.BreadcrumbEntry{{ID: current.ID, Name: current.Name}}
	visited := map[uuid.UUID]bool{current.ID: true}

	for current.ParentID != nil && len(path) < maxBreadcrumbDepth {
		parentID := *current.ParentID
		if visited[parentID] {
			s.logger.Warn("Resource parent chain loops",
				zap.String("folder_id", folderID.String()),
				zap.String("repeated_id", parentID.String()),
			)
			break
		}

		parent, err := s.repo.FindByID(ctx, parentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				break
			}
			return nil, response.NewInternalError("Failed to load folder", err.Error())
		}
		if !permission.CanView(actor.Role, parent.AccessLevel) {
			break
		}

		visited[parent.ID] = true
		path = append(path, dto.BreadcrumbEntry{ID: parent.ID, Name: parent.Name})
		current = parent
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}

func (s *resourceServiceImpl) GetItem(ctx context.Context, actor domain.Actor, id uuid.UUID) (*dto.ResourceResponse, error) {
	item, err := s.findViewable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	resp := dto.ToResourceResponse(item)
	return &resp, nil
}

// CreateFolder creates a folder owned by the actor
func (s *resourceServiceImpl) CreateFolder(ctx context.Context, actor domain.Actor, req *dto.CreateFolderRequest) (*dto.ResourceResponse, error) {
	if !permission.CanManage(actor.Role) {
		return nil, response.NewForbiddenError("You do not have permission to create folders", "")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, response.NewValidationError("Folder name is required", "")
	}

	level := req.AccessLevel
	if level == "" {
		level = domain.AccessPublic
	}
	if !level.IsValid() {
		return nil, response.NewValidationError("Invalid access level", string(level))
	}

	if err := s.checkParentFolder(ctx, req.ParentID); err != nil {
		return nil, err
	}

	folder := &domain.ResourceItem{
		Name:        name,
		Type:        domain.ResourceFolder,
		ParentID:    req.ParentID,
		AccessLevel: level,
		CreatedBy:   actor.ID,
	}
	if err := s.repo.Create(ctx, folder); err != nil {
		return nil, response.NewInternalError("Failed to create folder", err.Error())
	}

	s.logger.Info("Folder created",
		zap.String("folder_id", folder.ID.String()),
		zap.String("user_id", actor.ID),
	)
	s.live.Publish(ctx, FolderTopic(folder.ParentID), LiveKindCreated, folder.ID.String())

	resp := dto.ToResourceResponse(folder)
	return &resp, nil
}

// Rename changes an item's display name
func (s *resourceServiceImpl) Rename(ctx context.Context, actor domain.Actor, id uuid.UUID, name string) (*dto.ResourceResponse, error) {
	item, err := s.findEditable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, response.NewValidationError("Name is required", "")
	}

	if err := s.repo.Rename(ctx, id, name); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("Resource not found", "")
		}
		return nil, response.NewInternalError("Failed to rename resource", err.Error())
	}
	item.Name = name

	s.live.Publish(ctx, FolderTopic(item.ParentID), LiveKindUpdated, item.ID.String())

	resp := dto.ToResourceResponse(item)
	return &resp, nil
}

// Delete removes an empty folder, or a file and its blob. A blob that
// cannot be removed is logged and left behind.
func (s *resourceServiceImpl) Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	item, err := s.findEditable(ctx, actor, id)
	if err != nil {
		return err
	}

	if item.IsFolder() {
		count, err := s.repo.CountChildren(ctx, id)
		if err != nil {
			return response.NewInternalError("Failed to check folder contents", err.Error())
		}
		if count > 0 {
			return response.NewFailedPreconditionError(msgFolderNotEmpty, "")
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFoundError("Resource not found", "")
		}
		return response.NewInternalError("Failed to delete resource", err.Error())
	}

	if !item.IsFolder() && item.StoragePath != "" {
		if err := s.blobs.DeleteFile(ctx, item.StoragePath); err != nil {
			s.logger.Warn("Failed to delete resource blob",
				zap.String("resource_id", id.String()),
				zap.String("storage_path", item.StoragePath),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("Resource deleted",
		zap.String("resource_id", id.String()),
		zap.String("type", string(item.Type)),
		zap.String("user_id", actor.ID),
	)
	s.live.Publish(ctx, FolderTopic(item.ParentID), LiveKindDeleted, item.ID.String())
	return nil
}

// UploadFile stores the blob, then its metadata record
func (s *resourceServiceImpl) UploadFile(ctx context.Context, actor domain.Actor, upload *dto.FileUpload) (*dto.ResourceResponse, error) {
	if !permission.CanManage(actor.Role) {
		return nil, response.NewForbiddenError("You do not have permission to upload files", "")
	}

	size := int64(len(upload.Data))
	if size == 0 {
		return nil, response.NewValidationError("File is empty", "")
	}
	if size > s.maxUploadBytes {
		return nil, response.NewValidationError("File exceeds the maximum upload size",
			fmt.Sprintf("%d bytes > %d bytes", size, s.maxUploadBytes))
	}

	name := strings.TrimSpace(upload.FileName)
	if name == "" {
		return nil, response.NewValidationError("File name is required", "")
	}

	level := upload.AccessLevel
	if level == "" {
		level = domain.AccessLearner
	}
	if !level.IsValid() {
		return nil, response.NewValidationError("Invalid access level", string(level))
	}

	if err := s.checkParentFolder(ctx, upload.ParentID); err != nil {
		return nil, err
	}

	contentType := upload.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := client.ResourceFileKey(actor.ID, name, s.now())
	url, err := s.blobs.UploadFile(ctx, key, bytes.NewReader(upload.Data), contentType)
	if err != nil {
		return nil, response.NewInternalError("Failed to upload file", err.Error())
	}

	item := &domain.ResourceItem{
		Name:        name,
		Type:        domain.ResourceFile,
		ParentID:    upload.ParentID,
		MimeType:    contentType,
		URL:         url,
		StoragePath: key,
		Size:        size,
		AccessLevel: level,
		UploadedBy:  actor.ID,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		if delErr := s.blobs.DeleteFile(ctx, key); delErr != nil {
			s.logger.Warn("Failed to remove blob after metadata error",
				zap.String("storage_path", key),
				zap.Error(delErr),
			)
		}
		return nil, response.NewInternalError("Failed to save file metadata", err.Error())
	}

	s.metrics.RecordResourceUpload(size)
	s.logger.Info("File uploaded",
		zap.String("resource_id", item.ID.String()),
		zap.String("user_id", actor.ID),
		zap.Int64("size", size),
	)
	s.live.Publish(ctx, FolderTopic(item.ParentID), LiveKindCreated, item.ID.String())

	resp := dto.ToResourceResponse(item)
	return &resp, nil
}

// DownloadURL returns a short-lived link to a viewable file's blob
func (s *resourceServiceImpl) DownloadURL(ctx context.Context, actor domain.Actor, id uuid.UUID) (*dto.DownloadResponse, error) {
	item, err := s.findViewable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if item.IsFolder() || item.StoragePath == "" {
		return nil, response.NewValidationError("Only files can be downloaded", "")
	}

	url, err := s.blobs.PresignGetURL(ctx, item.StoragePath, downloadURLTTL)
	if err != nil {
		return nil, response.NewInternalError("Failed to create download link", err.Error())
	}
	return &dto.DownloadResponse{URL: url, ExpiresAt: s.now().Add(downloadURLTTL)}, nil
}

func (s *resourceServiceImpl) findViewable(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.ResourceItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("Resource not found", "")
		}
		return nil, response.NewInternalError("Failed to load resource", err.Error())
	}
	// Hidden items read as missing.
	if !permission.CanView(actor.Role, item.AccessLevel) {
		return nil, response.NewNotFoundError("Resource not found", "")
	}
	return item, nil
}

func (s *resourceServiceImpl) findEditable(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.ResourceItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("Resource not found", "")
		}
		return nil, response.NewInternalError("Failed to load resource", err.Error())
	}
	if !permission.CanEditResource(actor, item) {
		return nil, response.NewForbiddenError("You do not have permission to modify this resource", "")
	}
	return item, nil
}

func (s *resourceServiceImpl) checkParentFolder(ctx context.Context, parentID *uuid.UUID) error {
	if parentID == nil {
		return nil
	}
	parent, err := s.repo.FindByID(ctx, *parentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFoundError("Parent folder not found", "")
		}
		return response.NewInternalError("Failed to load parent folder", err.Error())
	}
	if !parent.IsFolder() {
		return response.NewValidationError("Parent must be a folder", "")
	}
	return nil
}
