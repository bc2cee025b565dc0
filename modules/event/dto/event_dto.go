package dto

import (
	"time"

	"sportmeet/modules/event/entity"
)

// ===================== Request DTOs =====================

// Location is a GeoJSON point, coordinates are [longitude, latitude].
type Location struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

func (l *Location) Longitude() float64 {
	if l == nil || len(l.Coordinates) < 1 {
		return 0
	}
	return l.Coordinates[0]
}

func (l *Location) Latitude() float64 {
	if l == nil || len(l.Coordinates) < 2 {
		return 0
	}
	return l.Coordinates[1]
}

// CreateEventRequest for POST /events
type CreateEventRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Date        *time.Time `json:"date"`
	Location    *Location  `json:"location"`
	Category    string     `json:"category"`
	SkillLevel  string     `json:"skillLevel"`
	EntryFee    *int       `json:"entryFee"`
}

// UpdateEventRequest for PUT /events/:id. A nil field is left unchanged, a
// non-nil one overwrites, zero values included.
type UpdateEventRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Date        *time.Time `json:"date"`
	Location    *Location  `json:"location"`
	Category    *string    `json:"category"`
	SkillLevel  *string    `json:"skillLevel"`
	EntryFee    *int       `json:"entryFee"`
}

// ListEventsQuery is the raw query string of GET /events.
type ListEventsQuery struct {
	Category   string `query:"category"`
	SkillLevel string `query:"skillLevel"`
	MaxFee     string `query:"maxFee"`
	Search     string `query:"search"`
	StartDate  string `query:"startDate"`
	EndDate    string `query:"endDate"`
}

// ===================== Response DTOs =====================

type HostResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// EventResponse for list views
type EventResponse struct {
	ID                     string       `json:"id"`
	Title                  string       `json:"title"`
	Description            string       `json:"description"`
	Date                   time.Time    `json:"date"`
	Location               Location     `json:"location"`
	Category               string       `json:"category"`
	SkillLevel             string       `json:"skillLevel"`
	EntryFee               int          `json:"entryFee"`
	Host                   HostResponse `json:"host"`
	RegisteredParticipants []string     `json:"registeredParticipants"`
	CreatedAt              time.Time    `json:"createdAt"`
	UpdatedAt              time.Time    `json:"updatedAt"`
}

// EventDetailResponse adds participant identities for the host.
type EventDetailResponse struct {
	EventResponse
	Participants []ParticipantResponse `json:"participants,omitempty"`
}

type ParticipantResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	RegisteredAt time.Time `json:"registeredAt"`
}

type RegisterResponse struct {
	Message string `json:"message"`
}

type MyEventIDsResponse struct {
	EventIDs []string `json:"eventIds"`
}

// ===================== Mappers =====================

func ToEventResponse(e *entity.EventWithHost, participantIDs []string, withHostEmail bool) EventResponse {
	if participantIDs == nil {
		participantIDs = []string{}
	}
	host := HostResponse{ID: e.HostID.String(), Name: e.HostName}
	if withHostEmail {
		host.Email = e.HostEmail
	}
	return EventResponse{
		ID:          e.ID.String(),
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date.UTC(),
		Location: Location{
			Type:        "Point",
			Coordinates: []float64{e.Longitude, e.Latitude},
		},
		Category:               string(e.Category),
		SkillLevel:             e.SkillLevel,
		EntryFee:               e.EntryFee,
		Host:                   host,
		RegisteredParticipants: participantIDs,
		CreatedAt:              e.CreatedAt.UTC(),
		UpdatedAt:              e.UpdatedAt.UTC(),
	}
}

func ToParticipantResponses(ps []entity.Participant) []ParticipantResponse {
	out := make([]ParticipantResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, ParticipantResponse{
			ID:           p.ID.String(),
			Name:         p.Name,
			Email:        p.Email,
			RegisteredAt: p.RegisteredAt.UTC(),
		})
	}
	return out
}
