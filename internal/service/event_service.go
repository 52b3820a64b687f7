package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/atanasster/pad-champions/internal/domain"
	"github.com/atanasster/pad-champions/internal/dto"
	"github.com/atanasster/pad-champions/internal/permission"
	"github.com/atanasster/pad-champions/internal/repository"
	"github.com/atanasster/pad-champions/internal/response"
)

// EventService defines the interface for screening event management
type EventService interface {
	ListEvents(ctx context.Context) ([]dto.EventResponse, error)
	CreateEvent(ctx context.Context, actor domain.Actor, req *dto.EventRequest) (*dto.EventResponse, error)
	UpdateEvent(ctx context.Context, actor domain.Actor, id uuid.UUID, req *dto.EventRequest) (*dto.EventResponse, error)
	DeleteEvent(ctx context.Context, actor domain.Actor, id uuid.UUID) error
	SeedEvents(ctx context.Context, actor domain.Actor, req *dto.SeedEventsRequest) (int, error)
}

type eventServiceImpl struct {
	repo   repository.EventRepository
	logger *zap.Logger
}

// NewEventService creates a new EventService
func NewEventService(repo repository.EventRepository, logger *zap.Logger) EventService {
	return &eventServiceImpl{repo: repo, logger: logger}
}

// ListEvents returns every event, latest date first
func (s *eventServiceImpl) ListEvents(ctx context.Context) ([]dto.EventResponse, error) {
	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, response.NewInternalError("Failed to list events", err.Error())
	}

	result := make([]dto.EventResponse, 0, len(events))
	for _, e := range events {
		result = append(result, dto.ToEventResponse(e))
	}
	return result, nil
}

func (s *eventServiceImpl) CreateEvent(ctx context.Context, actor domain.Actor, req *dto.EventRequest) (*dto.EventResponse, error) {
	if !permission.CanModerate(actor.Role) {
		return nil, response.NewForbiddenError("Only moderators can manage events", "")
	}
	if !req.Type.IsValid() {
		return nil, response.NewValidationError("Invalid event type", string(req.Type))
	}

	event := &domain.ScreeningEvent{}
	applyEventRequest(event, req)
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, response.NewInternalError("Failed to create event", err.Error())
	}

	s.logger.Info("Event created",
		zap.String("event_id", event.ID.String()),
		zap.String("user_id", actor.ID),
	)
	resp := dto.ToEventResponse(event)
	return &resp, nil
}

func (s *eventServiceImpl) UpdateEvent(ctx context.Context, actor domain.Actor, id uuid.UUID, req *dto.EventRequest) (*dto.EventResponse, error) {
	if !permission.CanModerate(actor.Role) {
		return nil, response.NewForbiddenError("Only moderators can manage events", "")
	}
	if !req.Type.IsValid() {
		return nil, response.NewValidationError("Invalid event type", string(req.Type))
	}

	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("Event not found", "")
		}
		return nil, response.NewInternalError("Failed to load event", err.Error())
	}

	applyEventRequest(event, req)
	if err := s.repo.Update(ctx, event); err != nil {
		return nil, response.NewInternalError("Failed to update event", err.Error())
	}

	resp := dto.ToEventResponse(event)
	return &resp, nil
}

func (s *eventServiceImpl) DeleteEvent(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	if !permission.CanModerate(actor.Role) {
		return response.NewForbiddenError("Only moderators can manage events", "")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFoundError("Event not found", "")
		}
		return response.NewInternalError("Failed to delete event", err.Error())
	}

	s.logger.Info("Event deleted",
		zap.String("event_id", id.String()),
		zap.String("user_id", actor.ID),
	)
	return nil
}

// SeedEvents upserts a batch by id. Admin only.
func (s *eventServiceImpl) SeedEvents(ctx context.Context, actor domain.Actor, req *dto.SeedEventsRequest) (int, error) {
	if !permission.IsAdmin(actor.Role) {
		return 0, response.NewForbiddenError("Only admins can seed events", "")
	}

	events := make([]*domain.ScreeningEvent, 0, len(req.Events))
	for i := range req.Events {
		item := &req.Events[i]
		if !item.Type.IsValid() {
			return 0, response.NewValidationError("Invalid event type", string(item.Type))
		}
		event := &domain.ScreeningEvent{BaseModel: domain.BaseModel{ID: item.ID}}
		applyEventRequest(event, &item.EventRequest)
		events = append(events, event)
	}

	if err := s.repo.UpsertBatch(ctx, events); err != nil {
		return 0, response.NewInternalError("Failed to seed events", err.Error())
	}

	s.logger.Info("Events seeded", zap.Int("count", len(events)), zap.String("user_id", actor.ID))
	return len(events), nil
}

func applyEventRequest(event *domain.ScreeningEvent, req *dto.EventRequest) {
	event.Name = req.Name
	event.Date = req.Date
	event.Time = req.Time
	event.VenueName = req.VenueName
	event.Address = req.Address
	event.Zip = req.Zip
	event.Type = req.Type
	event.Coordinates = datatypes.NewJSONType(req.Coordinates)
}
