package service

import (
	"context"

	"sportmeet/core/activity"
	"sportmeet/core/errors"
	"sportmeet/core/logger"
	"sportmeet/core/metrics"
	"sportmeet/modules/access"
	"sportmeet/modules/event/dto"
	"sportmeet/modules/event/entity"
	"sportmeet/modules/event/repository"
	notifDto "sportmeet/modules/notification/dto"
	notifService "sportmeet/modules/notification/service"

	"github.com/google/uuid"
)

type RegistrationServiceInterface interface {
	Register(ctx context.Context, eventID uuid.UUID, principal access.Principal) (*dto.RegisterResponse, *errors.AppError)
	ListParticipants(ctx context.Context, eventID uuid.UUID, principal access.Principal) ([]dto.ParticipantResponse, *errors.AppError)
}

type RegistrationService struct {
	repo     repository.EventRepositoryInterface
	notifier notifService.Notifier
	activity activity.Publisher
}

func NewRegistrationService(repo repository.EventRepositoryInterface, notifier notifService.Notifier, publisher activity.Publisher) *RegistrationService {
	if publisher == nil {
		publisher = activity.Noop{}
	}
	return &RegistrationService{repo: repo, notifier: notifier, activity: publisher}
}

// Register checks and inserts under the event's row lock, so two concurrent
// calls for the same user cannot both succeed.
func (s *RegistrationService) Register(ctx context.Context, eventID uuid.UUID, principal access.Principal) (*dto.RegisterResponse, *errors.AppError) {
	user, err := s.repo.GetUser(ctx, principal.ID)
	if err != nil {
		metrics.Registrations.WithLabelValues(metrics.OutcomeFailed).Inc()
		return nil, mapRepoError("RegistrationService:Register:GetUser", err)
	}

	event, err := s.repo.Register(ctx, eventID, principal.ID, func(e *entity.Event) error {
		if appErr := access.RequireCanRegister(e, principal); appErr != nil {
			return appErr
		}
		return nil
	})
	if err != nil {
		var appErr *errors.AppError
		switch {
		case errors.As(err, &appErr):
			metrics.Registrations.WithLabelValues(metrics.OutcomeSelfHost).Inc()
			return nil, appErr
		case errors.Is(err, repository.ErrAlreadyRegistered):
			metrics.Registrations.WithLabelValues(metrics.OutcomeConflict).Inc()
		case errors.Is(err, repository.ErrEventNotFound):
			metrics.Registrations.WithLabelValues(metrics.OutcomeNotFound).Inc()
		default:
			metrics.Registrations.WithLabelValues(metrics.OutcomeFailed).Inc()
		}
		return nil, mapRepoError("RegistrationService:Register", err)
	}
	metrics.Registrations.WithLabelValues(metrics.OutcomeSuccess).Inc()

	if err := s.notifier.Notify(ctx, event.ID, notifDto.Notification{
		Title:   "New registration",
		Message: user.Name + " joined " + event.Title,
	}); err != nil {
		logger.Warn("RegistrationService:Register:Notify:Error", "error", err, "event_id", event.ID)
	}
	if err := s.activity.Publish(ctx, activity.Record{
		Type:    activity.TypeUserRegistered,
		EventID: event.ID,
		ActorID: principal.ID,
	}); err != nil {
		logger.Warn("RegistrationService:Register:Activity:Error", "error", err)
	}

	return &dto.RegisterResponse{Message: "Registered for event successfully"}, nil
}

func (s *RegistrationService) ListParticipants(ctx context.Context, eventID uuid.UUID, principal access.Principal) ([]dto.ParticipantResponse, *errors.AppError) {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, mapRepoError("RegistrationService:ListParticipants:GetByID", err)
	}
	if appErr := access.RequireOwner(&event.Event, principal); appErr != nil {
		return nil, appErr
	}

	participants, err := s.repo.ListParticipants(ctx, eventID)
	if err != nil {
		return nil, mapRepoError("RegistrationService:ListParticipants", err)
	}
	return dto.ToParticipantResponses(participants), nil
}
