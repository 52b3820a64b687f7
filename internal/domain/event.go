package domain

import "gorm.io/datatypes"

// EventType is the kind of venue hosting a screening event
type EventType string

const (
	EventBarbershop      EventType = "Barbershop"
	EventCommunityCenter EventType = "Community Center"
	EventChurch          EventType = "Church"
	EventPharmacy        EventType = "Pharmacy"
)

// IsValid reports whether t is a known venue type
func (t EventType) IsValid() bool {
	switch t {
	case EventBarbershop, EventCommunityCenter, EventChurch, EventPharmacy:
		return true
	}
	return false
}

// Coordinates is a map position
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ScreeningEvent is a scheduled community screening
type ScreeningEvent struct {
	BaseModel
	Name        string                          `gorm:"size:255;not null" json:"name"`
	Date        string                          `gorm:"size:10;not null;index" json:"date"`
	Time        string                          `gorm:"size:64" json:"time"`
	VenueName   string                          `gorm:"size:255" json:"venueName"`
	Address     string                          `gorm:"size:512" json:"address"`
	Zip         string                          `gorm:"size:16" json:"zip"`
	Type        EventType                       `gorm:"size:32;not null" json:"type"`
	Coordinates datatypes.JSONType[Coordinates] `json:"coordinates"`
}

// TableName specifies the table name for ScreeningEvent
func (ScreeningEvent) TableName() string {
	return "screening_events"
}
