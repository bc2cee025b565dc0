package service

import (
	"context"
	"strings"

	"sportmeet/core/activity"
	"sportmeet/core/errors"
	"sportmeet/core/logger"
	"sportmeet/modules/access"
	"sportmeet/modules/event/dto"
	"sportmeet/modules/event/entity"
	"sportmeet/modules/event/repository"
	notifDto "sportmeet/modules/notification/dto"
	notifService "sportmeet/modules/notification/service"

	"github.com/google/uuid"
)

type EventServiceInterface interface {
	List(ctx context.Context, filter entity.Filter) ([]dto.EventResponse, *errors.AppError)
	Get(ctx context.Context, id uuid.UUID, requester access.Principal) (*dto.EventDetailResponse, *errors.AppError)
	Create(ctx context.Context, principal access.Principal, req *dto.CreateEventRequest) (*dto.EventDetailResponse, *errors.AppError)
	Update(ctx context.Context, id uuid.UUID, principal access.Principal, req *dto.UpdateEventRequest) (*dto.EventDetailResponse, *errors.AppError)
	MyEventIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	RegisteredEvents(ctx context.Context, userID uuid.UUID) ([]dto.EventResponse, *errors.AppError)
}

type EventService struct {
	repo     repository.EventRepositoryInterface
	notifier notifService.Notifier
	activity activity.Publisher
}

func NewEventService(repo repository.EventRepositoryInterface, notifier notifService.Notifier, publisher activity.Publisher) *EventService {
	if publisher == nil {
		publisher = activity.Noop{}
	}
	return &EventService{repo: repo, notifier: notifier, activity: publisher}
}

func (s *EventService) List(ctx context.Context, filter entity.Filter) ([]dto.EventResponse, *errors.AppError) {
	events, err := s.repo.List(ctx, filter)
	if err != nil {
		logger.Error("EventService:List:Error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list events", err)
	}
	return s.toResponses(ctx, events)
}

func (s *EventService) Get(ctx context.Context, id uuid.UUID, requester access.Principal) (*dto.EventDetailResponse, *errors.AppError) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError("EventService:Get", err)
	}
	return s.detail(ctx, event, requester)
}

func (s *EventService) Create(ctx context.Context, principal access.Principal, req *dto.CreateEventRequest) (*dto.EventDetailResponse, *errors.AppError) {
	if appErr := access.RequireHost(principal); appErr != nil {
		return nil, appErr
	}
	if _, err := s.repo.GetUser(ctx, principal.ID); err != nil {
		return nil, mapRepoError("EventService:Create:GetUser", err)
	}

	category, _ := entity.ParseCategory(req.Category)
	event := &entity.Event{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Date:        req.Date.UTC(),
		Longitude:   req.Location.Longitude(),
		Latitude:    req.Location.Latitude(),
		Category:    category,
		SkillLevel:  strings.TrimSpace(req.SkillLevel),
		HostID:      principal.ID,
	}
	if req.EntryFee != nil {
		event.EntryFee = *req.EntryFee
	}

	if err := s.repo.Create(ctx, event); err != nil {
		logger.Error("EventService:Create:Error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create event", err)
	}

	s.record(ctx, activity.TypeEventCreated, event.ID, principal.ID, nil)

	created, err := s.repo.GetByID(ctx, event.ID)
	if err != nil {
		return nil, mapRepoError("EventService:Create:GetByID", err)
	}
	return s.detail(ctx, created, principal)
}

// Update overwrites the supplied fields only. The host never changes.
func (s *EventService) Update(ctx context.Context, id uuid.UUID, principal access.Principal, req *dto.UpdateEventRequest) (*dto.EventDetailResponse, *errors.AppError) {
	event, err := s.repo.Update(ctx, id, func(e *entity.Event) error {
		if appErr := access.RequireOwner(e, principal); appErr != nil {
			return appErr
		}
		ApplyUpdate(e, req)
		return nil
	})
	if err != nil {
		var appErr *errors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, mapRepoError("EventService:Update", err)
	}

	if err := s.notifier.Notify(ctx, event.ID, notifDto.Notification{
		Title:   "Event updated",
		Message: event.Title + " has been updated",
	}); err != nil {
		logger.Warn("EventService:Update:Notify:Error", "error", err, "event_id", event.ID)
	}
	s.record(ctx, activity.TypeEventUpdated, event.ID, principal.ID, req)

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError("EventService:Update:GetByID", err)
	}
	return s.detail(ctx, updated, principal)
}

// ApplyUpdate copies every non-nil field of req onto event.
func ApplyUpdate(event *entity.Event, req *dto.UpdateEventRequest) {
	if req.Title != nil {
		event.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Date != nil {
		event.Date = req.Date.UTC()
	}
	if req.Location != nil {
		event.Longitude = req.Location.Longitude()
		event.Latitude = req.Location.Latitude()
	}
	if req.Category != nil {
		if category, ok := entity.ParseCategory(*req.Category); ok {
			event.Category = category
		}
	}
	if req.SkillLevel != nil {
		event.SkillLevel = strings.TrimSpace(*req.SkillLevel)
	}
	if req.EntryFee != nil {
		event.EntryFee = *req.EntryFee
	}
}

func (s *EventService) MyEventIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return s.repo.MyEventIDs(ctx, userID)
}

func (s *EventService) RegisteredEvents(ctx context.Context, userID uuid.UUID) ([]dto.EventResponse, *errors.AppError) {
	events, err := s.repo.RegisteredEvents(ctx, userID)
	if err != nil {
		logger.Error("EventService:RegisteredEvents:Error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load registered events", err)
	}
	return s.toResponses(ctx, events)
}

func (s *EventService) toResponses(ctx context.Context, events []entity.EventWithHost) ([]dto.EventResponse, *errors.AppError) {
	ids := make([]uuid.UUID, len(events))
	for i := range events {
		ids[i] = events[i].ID
	}
	participants, err := s.repo.ParticipantIDs(ctx, ids)
	if err != nil {
		logger.Error("EventService:ParticipantIDs:Error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load participants", err)
	}

	out := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		out = append(out, dto.ToEventResponse(&events[i], idStrings(participants[events[i].ID]), false))
	}
	return out, nil
}

// detail always carries participant ids. Identities are added for the host.
func (s *EventService) detail(ctx context.Context, event *entity.EventWithHost, requester access.Principal) (*dto.EventDetailResponse, *errors.AppError) {
	participants, err := s.repo.ListParticipants(ctx, event.ID)
	if err != nil {
		logger.Error("EventService:Detail:ListParticipants:Error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load participants", err)
	}

	ids := make([]string, len(participants))
	for i, p := range participants {
		ids[i] = p.ID.String()
	}
	resp := &dto.EventDetailResponse{EventResponse: dto.ToEventResponse(event, ids, true)}
	if access.CanViewParticipants(&event.Event, requester) {
		resp.Participants = dto.ToParticipantResponses(participants)
	}
	return resp, nil
}

func (s *EventService) record(ctx context.Context, recordType string, eventID, actorID uuid.UUID, data any) {
	if err := s.activity.Publish(ctx, activity.Record{
		Type:    recordType,
		EventID: eventID,
		ActorID: actorID,
		Data:    data,
	}); err != nil {
		logger.Warn("EventService:Activity:Error", "error", err, "type", recordType)
	}
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func mapRepoError(op string, err error) *errors.AppError {
	switch {
	case errors.Is(err, repository.ErrEventNotFound):
		return errors.NewAppError(errors.ErrNotFound, "Event not found", err)
	case errors.Is(err, repository.ErrUserNotFound):
		return errors.NewAppError(errors.ErrUnauthorized, "user is not known to this service", err)
	case errors.Is(err, repository.ErrAlreadyRegistered):
		return errors.NewAppError(errors.ErrConflict, "User already registered for this event", err)
	default:
		logger.Error(op+":Error", err)
		return errors.NewAppError(errors.ErrInternalServer, "internal server error", err)
	}
}
