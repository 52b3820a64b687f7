package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/atanasster/pad-champions/internal/domain"
)

// EventRequest represents the body used to create or update a screening event
type EventRequest struct {
	Name        string             `json:"name" binding:"required,max=255"`
	Date        string             `json:"date" binding:"required,datetime=2006-01-02" example:"2025-06-14"`
	Time        string             `json:"time" binding:"max=64" example:"10:00 AM - 2:00 PM"`
	VenueName   string             `json:"venueName" binding:"max=255"`
	Address     string             `json:"address" binding:"max=512"`
	Zip         string             `json:"zip" binding:"max=16"`
	Type        domain.EventType   `json:"type" binding:"required"`
	Coordinates domain.Coordinates `json:"coordinates"`
}

// SeedEventItem is one entry of a seed batch. A known id is overwritten.
type SeedEventItem struct {
	ID uuid.UUID `json:"id" binding:"required"`
	EventRequest
}

// SeedEventsRequest represents a batch of events to upsert
type SeedEventsRequest struct {
	Events []SeedEventItem `json:"events" binding:"required,min=1,dive"`
}

// EventResponse represents a screening event
type EventResponse struct {
	ID          uuid.UUID          `json:"id"`
	Name        string             `json:"name"`
	Date        string             `json:"date"`
	Time        string             `json:"time"`
	VenueName   string             `json:"venueName"`
	Address     string             `json:"address"`
	Zip         string             `json:"zip"`
	Type        domain.EventType   `json:"type"`
	Coordinates domain.Coordinates `json:"coordinates"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// ToEventResponse converts a domain screening event
func ToEventResponse(e *domain.ScreeningEvent) EventResponse {
	return EventResponse{
		ID:          e.ID,
		Name:        e.Name,
		Date:        e.Date,
		Time:        e.Time,
		VenueName:   e.VenueName,
		Address:     e.Address,
		Zip:         e.Zip,
		Type:        e.Type,
		Coordinates: e.Coordinates.Data(),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
