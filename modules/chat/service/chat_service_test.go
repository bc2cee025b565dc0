package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"sportmeet/core/database"
	"sportmeet/core/database/dbtest"
	"sportmeet/core/errors"
	"sportmeet/modules/access"
	"sportmeet/modules/chat/entity"
	"sportmeet/modules/chat/repository"
	eventEntity "sportmeet/modules/event/entity"
	eventRepository "sportmeet/modules/event/repository"
	notifDto "sportmeet/modules/notification/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type frameRecorder struct {
	frames []notifDto.Frame
	events []uuid.UUID
}

func (r *frameRecorder) Notify(context.Context, uuid.UUID, notifDto.Notification) error { return nil }

func (r *frameRecorder) Dispatch(_ context.Context, eventID uuid.UUID, frame notifDto.Frame) error {
	r.events = append(r.events, eventID)
	r.frames = append(r.frames, frame)
	return nil
}

type chatFixture struct {
	db       database.Database
	svc      *ChatService
	msgs     *repository.MessageRepository
	frames   *frameRecorder
	eventID  uuid.UUID
	host     access.Principal
	member   access.Principal
	outsider access.Principal
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()
	ctx := context.Background()
	db := dbtest.New(t)
	events := eventRepository.NewEventRepository(db)

	host := dbtest.SeedUser(t, db, "Host", "host")
	member := dbtest.SeedUser(t, db, "Member", "participant")
	outsider := dbtest.SeedUser(t, db, "Outsider", "participant")

	ev := &eventEntity.Event{
		Title:    "Chatty Football",
		Date:     time.Now().Add(time.Hour),
		Category: eventEntity.CategoryFootball,
		HostID:   host.ID,
	}
	require.NoError(t, events.Create(ctx, ev))
	_, err := events.Register(ctx, ev.ID, member.ID, nil)
	require.NoError(t, err)

	msgs := repository.NewMessageRepository(db)
	frames := &frameRecorder{}
	return &chatFixture{
		db:       db,
		svc:      NewChatService(msgs, events, frames, nil),
		msgs:     msgs,
		frames:   frames,
		eventID:  ev.ID,
		host:     access.Principal{ID: host.ID, Role: access.RoleHost},
		member:   access.Principal{ID: member.ID, Role: access.RoleParticipant},
		outsider: access.Principal{ID: outsider.ID, Role: access.RoleParticipant},
	}
}

func TestAppendAndHistory(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	first, appErr := f.svc.Append(ctx, f.eventID, f.member, "  see you there  ")
	require.Nil(t, appErr)
	assert.Equal(t, "see you there", first.Body)
	assert.Equal(t, "Member", first.Sender.Name)

	history, appErr := f.svc.History(ctx, f.eventID)
	require.Nil(t, appErr)
	require.Len(t, history, 1)

	_, appErr = f.svc.Append(ctx, f.eventID, f.host, "bring boots")
	require.Nil(t, appErr)

	history, appErr = f.svc.History(ctx, f.eventID)
	require.Nil(t, appErr)
	require.Len(t, history, 2)
	assert.Equal(t, "bring boots", history[1].Body)
	assert.Equal(t, "Host", history[1].Sender.Name)
	assert.False(t, history[1].CreatedAt.Before(history[0].CreatedAt))

	require.Len(t, f.frames.frames, 2)
	assert.Equal(t, notifDto.FrameChatMessage, f.frames.frames[0].Type)
	assert.Equal(t, f.eventID, f.frames.events[0])
}

func TestAppendRestrictedToMembers(t *testing.T) {
	f := newChatFixture(t)

	_, appErr := f.svc.Append(context.Background(), f.eventID, f.outsider, "hello?")
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)
	assert.Empty(t, f.frames.frames)
}

func TestAppendValidation(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	_, appErr := f.svc.Append(ctx, f.eventID, f.member, "   ")
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)

	_, appErr = f.svc.Append(ctx, f.eventID, f.member, strings.Repeat("é", MaxBodyLength+1))
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)

	_, appErr = f.svc.Append(ctx, f.eventID, f.member, strings.Repeat("é", MaxBodyLength))
	assert.Nil(t, appErr)

	_, appErr = f.svc.Append(ctx, uuid.New(), f.member, "hi")
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestHistoryMissingEvent(t *testing.T) {
	f := newChatFixture(t)
	_, appErr := f.svc.History(context.Background(), uuid.New())
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestHistoryOrdersByTimeThenSequence(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	same := time.Date(2031, 1, 1, 12, 0, 0, 0, time.UTC)

	for i, body := range []string{"late", "tie-1", "tie-2", "early"} {
		created := same
		switch i {
		case 0:
			created = same.Add(time.Minute)
		case 3:
			created = same.Add(-time.Minute)
		}
		require.NoError(t, f.msgs.Append(ctx, &entity.Message{
			EventID:   f.eventID,
			SenderID:  f.member.ID,
			Body:      body,
			CreatedAt: created,
		}))
	}

	var bodies []string
	for msg, err := range f.msgs.History(ctx, f.eventID) {
		require.NoError(t, err)
		bodies = append(bodies, msg.Body)
	}
	assert.Equal(t, []string{"early", "tie-1", "tie-2", "late"}, bodies)
}

func TestHistorySequenceIsRestartable(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	seq := f.msgs.History(ctx, f.eventID)

	count := func() int {
		n := 0
		for _, err := range seq {
			require.NoError(t, err)
			n++
		}
		return n
	}

	assert.Equal(t, 0, count())
	_, appErr := f.svc.Append(ctx, f.eventID, f.member, "one")
	require.Nil(t, appErr)
	assert.Equal(t, 1, count())

	// stopping early releases the rows
	_, appErr = f.svc.Append(ctx, f.eventID, f.member, "two")
	require.Nil(t, appErr)
	for range seq {
		break
	}
	assert.Equal(t, 2, count())
}
