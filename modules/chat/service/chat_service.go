package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"sportmeet/core/activity"
	"sportmeet/core/errors"
	"sportmeet/core/logger"
	"sportmeet/core/metrics"
	"sportmeet/modules/access"
	"sportmeet/modules/chat/dto"
	"sportmeet/modules/chat/entity"
	"sportmeet/modules/chat/repository"
	eventEntity "sportmeet/modules/event/entity"
	eventRepository "sportmeet/modules/event/repository"
	notifDto "sportmeet/modules/notification/dto"
	notifService "sportmeet/modules/notification/service"

	"github.com/google/uuid"
)

const MaxBodyLength = 2000

// EventDirectory is the part of the event store chat needs.
type EventDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*eventEntity.EventWithHost, error)
	GetUser(ctx context.Context, id uuid.UUID) (*eventEntity.UserSummary, error)
	IsParticipant(ctx context.Context, eventID, userID uuid.UUID) (bool, error)
}

type ChatServiceInterface interface {
	History(ctx context.Context, eventID uuid.UUID) ([]dto.MessageResponse, *errors.AppError)
	Append(ctx context.Context, eventID uuid.UUID, principal access.Principal, body string) (*dto.MessageResponse, *errors.AppError)
}

type ChatService struct {
	repo     repository.MessageRepositoryInterface
	events   EventDirectory
	notifier notifService.Notifier
	activity activity.Publisher
}

func NewChatService(repo repository.MessageRepositoryInterface, events EventDirectory, notifier notifService.Notifier, publisher activity.Publisher) *ChatService {
	if publisher == nil {
		publisher = activity.Noop{}
	}
	return &ChatService{repo: repo, events: events, notifier: notifier, activity: publisher}
}

func (s *ChatService) History(ctx context.Context, eventID uuid.UUID) ([]dto.MessageResponse, *errors.AppError) {
	if _, appErr := s.loadEvent(ctx, eventID); appErr != nil {
		return nil, appErr
	}

	messages := []dto.MessageResponse{}
	for msg, err := range s.repo.History(ctx, eventID) {
		if err != nil {
			logger.Error("ChatService:History:Error", err)
			return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load chat history", err)
		}
		messages = append(messages, dto.ToMessageResponse(&msg))
	}
	return messages, nil
}

// Append stores a message from the host or a registered participant and
// pushes it to the event's live subscribers.
func (s *ChatService) Append(ctx context.Context, eventID uuid.UUID, principal access.Principal, body string) (*dto.MessageResponse, *errors.AppError) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "message body is required", nil)
	}
	if utf8.RuneCountInString(body) > MaxBodyLength {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "message body is too long", nil)
	}

	event, appErr := s.loadEvent(ctx, eventID)
	if appErr != nil {
		return nil, appErr
	}

	registered := false
	if !access.IsOwner(&event.Event, principal.ID) {
		var err error
		registered, err = s.events.IsParticipant(ctx, eventID, principal.ID)
		if err != nil {
			logger.Error("ChatService:Append:IsParticipant:Error", err)
			return nil, errors.NewAppError(errors.ErrInternalServer, "failed to check membership", err)
		}
	}
	if appErr := access.RequireChatMember(&event.Event, principal, registered); appErr != nil {
		return nil, appErr
	}

	sender, err := s.events.GetUser(ctx, principal.ID)
	if err != nil {
		if errors.Is(err, eventRepository.ErrUserNotFound) {
			return nil, errors.NewAppError(errors.ErrUnauthorized, "user is not known to this service", err)
		}
		logger.Error("ChatService:Append:GetUser:Error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load sender", err)
	}

	msg := &entity.Message{
		EventID:    eventID,
		SenderID:   principal.ID,
		SenderName: sender.Name,
		Body:       body,
	}
	if err := s.repo.Append(ctx, msg); err != nil {
		logger.Error("ChatService:Append:Error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to save message", err)
	}
	metrics.ChatMessages.Inc()

	resp := dto.ToMessageResponse(msg)
	frame, err := notifDto.NewFrame(notifDto.FrameChatMessage, resp)
	if err == nil {
		err = s.notifier.Dispatch(ctx, eventID, frame)
	}
	if err != nil {
		logger.Warn("ChatService:Append:Dispatch:Error", "error", err, "event_id", eventID)
	}
	if err := s.activity.Publish(ctx, activity.Record{
		Type:    activity.TypeChatMessagePosted,
		EventID: eventID,
		ActorID: principal.ID,
		Data:    map[string]string{"messageId": resp.ID},
	}); err != nil {
		logger.Warn("ChatService:Append:Activity:Error", "error", err)
	}

	return &resp, nil
}

func (s *ChatService) loadEvent(ctx context.Context, eventID uuid.UUID) (*eventEntity.EventWithHost, *errors.AppError) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, eventRepository.ErrEventNotFound) {
			return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", err)
		}
		logger.Error("ChatService:LoadEvent:Error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load event", err)
	}
	return event, nil
}
