package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"sportmeet/core/constants"
	"sportmeet/modules/notification/dto"
	"sportmeet/modules/notification/hub"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQueue struct {
	tasks []*asynq.Task
	opts  [][]asynq.Option
	err   error
}

func (q *fakeQueue) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if q.err != nil {
		return nil, q.err
	}
	q.tasks = append(q.tasks, task)
	q.opts = append(q.opts, opts)
	return &asynq.TaskInfo{}, nil
}

func readFrame(t *testing.T, c *hub.Client) dto.Frame {
	t.Helper()
	select {
	case raw := <-c.Send():
		var f dto.Frame
		require.NoError(t, json.Unmarshal(raw, &f))
		return f
	default:
		t.Fatal("no frame queued")
		return dto.Frame{}
	}
}

func TestNotifyWithoutQueuePublishesToHub(t *testing.T) {
	h := hub.NewHub(4)
	eventID := uuid.New()
	c := h.Connect(uuid.New())
	h.Subscribe(c, []uuid.UUID{eventID})

	svc := NewNotificationService(NewLocalBroadcaster(h), nil)
	require.NoError(t, svc.Notify(context.Background(), eventID, dto.Notification{Title: "New registration", Message: "Ana joined"}))

	f := readFrame(t, c)
	assert.Equal(t, dto.FrameNotification, f.Type)
	var n dto.Notification
	require.NoError(t, json.Unmarshal(f.Payload, &n))
	assert.Equal(t, eventID, n.EventID)
	assert.Equal(t, "New registration", n.Title)
	assert.Equal(t, "Ana joined", n.Message)
}

func TestNotifyEnqueuesOnceWithoutRetry(t *testing.T) {
	h := hub.NewHub(4)
	eventID := uuid.New()
	c := h.Connect(uuid.New())
	h.Subscribe(c, []uuid.UUID{eventID})

	q := &fakeQueue{}
	svc := NewNotificationService(NewLocalBroadcaster(h), q)
	require.NoError(t, svc.Notify(context.Background(), eventID, dto.Notification{Title: "Event updated"}))

	require.Len(t, q.tasks, 1)
	assert.Equal(t, constants.TaskTypeNotificationPublish, q.tasks[0].Type())
	assert.Len(t, q.opts[0], 2)
	assert.Empty(t, c.Send())

	// the worker side delivers it
	require.NoError(t, svc.HandlePublishTask(context.Background(), q.tasks[0]))
	assert.Equal(t, dto.FrameNotification, readFrame(t, c).Type)
}

func TestDispatchFallsBackWhenEnqueueFails(t *testing.T) {
	h := hub.NewHub(4)
	eventID := uuid.New()
	c := h.Connect(uuid.New())
	h.Subscribe(c, []uuid.UUID{eventID})

	svc := NewNotificationService(NewLocalBroadcaster(h), &fakeQueue{err: errors.New("redis down")})
	frame, err := dto.NewFrame(dto.FrameChatMessage, map[string]string{"body": "hi"})
	require.NoError(t, err)
	require.NoError(t, svc.Dispatch(context.Background(), eventID, frame))

	assert.Equal(t, dto.FrameChatMessage, readFrame(t, c).Type)
}

func TestHandlePublishTaskRejectsBadPayload(t *testing.T) {
	svc := NewNotificationService(NewLocalBroadcaster(hub.NewHub(1)), nil)
	err := svc.HandlePublishTask(context.Background(), asynq.NewTask(constants.TaskTypeNotificationPublish, []byte("{")))
	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
