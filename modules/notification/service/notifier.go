package service

import (
	"context"
	"encoding/json"
	"fmt"

	"sportmeet/core/constants"
	"sportmeet/core/logger"
	"sportmeet/modules/notification/dto"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Notifier is what mutating services call once per change.
type Notifier interface {
	Notify(ctx context.Context, eventID uuid.UUID, n dto.Notification) error
	Dispatch(ctx context.Context, eventID uuid.UUID, frame dto.Frame) error
}

// Enqueuer is the part of asynq.Client the service uses.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type NotificationService struct {
	broadcaster Broadcaster
	queue       Enqueuer
}

// NewNotificationService dispatches through queue when it is non-nil,
// otherwise straight to the broadcaster.
func NewNotificationService(broadcaster Broadcaster, queue Enqueuer) *NotificationService {
	return &NotificationService{broadcaster: broadcaster, queue: queue}
}

func (s *NotificationService) Notify(ctx context.Context, eventID uuid.UUID, n dto.Notification) error {
	n.EventID = eventID
	frame, err := dto.NewFrame(dto.FrameNotification, n)
	if err != nil {
		return err
	}
	return s.Dispatch(ctx, eventID, frame)
}

func (s *NotificationService) Dispatch(ctx context.Context, eventID uuid.UUID, frame dto.Frame) error {
	env := dto.Envelope{EventID: eventID, Frame: frame}

	if s.queue != nil {
		payload, err := json.Marshal(env)
		if err != nil {
			return err
		}
		task := asynq.NewTask(constants.TaskTypeNotificationPublish, payload,
			asynq.MaxRetry(0),
			asynq.Queue(constants.QueueNotifications),
		)
		_, err = s.queue.EnqueueContext(ctx, task)
		if err == nil {
			return nil
		}
		logger.Warn("NotificationService:Dispatch:Enqueue:Error", "error", err, "event_id", eventID)
	}

	if err := s.broadcaster.Broadcast(ctx, env); err != nil {
		logger.Error("NotificationService:Dispatch:Broadcast:Error", "error", err, "event_id", eventID)
		return err
	}
	return nil
}

// HandlePublishTask is the asynq handler for notification:publish.
func (s *NotificationService) HandlePublishTask(ctx context.Context, task *asynq.Task) error {
	var env dto.Envelope
	if err := json.Unmarshal(task.Payload(), &env); err != nil {
		return fmt.Errorf("decode %s payload: %v: %w", task.Type(), err, asynq.SkipRetry)
	}
	return s.broadcaster.Broadcast(ctx, env)
}
