package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sportmeet/core/config"
	"sportmeet/core/constants"
	"sportmeet/core/controller"
	"sportmeet/core/errors"
	"sportmeet/core/middleware"
	"sportmeet/core/utils"
	"sportmeet/modules/access"
	livecontroller "sportmeet/modules/notification/controller"
	"sportmeet/modules/notification/dto"
	"sportmeet/modules/notification/hub"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"
)

type staticMembership struct {
	ids []uuid.UUID
	err error
}

func (m staticMembership) MyEventIDs(context.Context, uuid.UUID) ([]uuid.UUID, error) {
	return m.ids, m.err
}

type sentMessage struct {
	eventID uuid.UUID
	userID  uuid.UUID
	body    string
}

type liveServer struct {
	url  string
	hub  *hub.Hub
	sent chan sentMessage
}

func startLive(t *testing.T, members livecontroller.MembershipSource, sendErr *errors.AppError) liveServer {
	t.Helper()
	config.Set(&config.Config{JWT: config.JWTConfig{Secret: "test-secret", Issuer: "sportmeet", AccessTTL: 60}})

	h := hub.NewHub(hub.DefaultBufferSize)
	sent := make(chan sentMessage, 4)
	sender := func(_ context.Context, eventID uuid.UUID, p access.Principal, body string) *errors.AppError {
		sent <- sentMessage{eventID: eventID, userID: p.ID, body: body}
		return sendErr
	}

	e := echo.New()
	e.HTTPErrorHandler = controller.HTTPErrorHandler
	Init(e.Group("/api/v1"), middleware.NewMiddleware(), h, members, sender)

	srv := httptest.NewServer(e)
	t.Cleanup(func() {
		h.Close()
		srv.Close()
	})
	return liveServer{url: "ws" + strings.TrimPrefix(srv.URL, "http"), hub: h, sent: sent}
}

func dial(t *testing.T, s liveServer, userID uuid.UUID) *websocket.Conn {
	t.Helper()
	token, err := utils.GenerateToken(userID, "participant", constants.ScopeTokenAccess)
	require.NoError(t, err)

	conn, err := websocket.Dial(fmt.Sprintf("%s/api/v1/ws?token=%s", s.url, token), "", "http://localhost/")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) dto.Frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var raw string
	require.NoError(t, websocket.Message.Receive(conn, &raw))
	var frame dto.Frame
	require.NoError(t, json.Unmarshal([]byte(raw), &frame))
	return frame
}

func writeFrame(t *testing.T, conn *websocket.Conn, frameType string, payload any) {
	t.Helper()
	frame, err := dto.NewFrame(frameType, payload)
	require.NoError(t, err)
	data, err := json.Marshal(frame)
	require.NoError(t, err)
	require.NoError(t, websocket.Message.Send(conn, string(data)))
}

func subscribedIDs(t *testing.T, frame dto.Frame) []string {
	t.Helper()
	require.Equal(t, dto.FrameSubscribed, frame.Type)
	var payload dto.SubscribedPayload
	require.NoError(t, json.Unmarshal(frame.Payload, &payload))
	return payload.EventIDs
}

func TestConnectSubscribesToOwnEvents(t *testing.T) {
	e1, e2 := uuid.New(), uuid.New()
	s := startLive(t, staticMembership{ids: []uuid.UUID{e1}}, nil)
	conn := dial(t, s, uuid.New())

	assert.Equal(t, []string{e1.String()}, subscribedIDs(t, readFrame(t, conn)))

	_, err := s.hub.Publish(e2, dto.Frame{Type: dto.FrameNotification})
	require.NoError(t, err)
	frame, err := dto.NewFrame(dto.FrameNotification, dto.Notification{EventID: e1, Title: "Event updated", Message: "Derby"})
	require.NoError(t, err)
	_, err = s.hub.Publish(e1, frame)
	require.NoError(t, err)

	got := readFrame(t, conn)
	require.Equal(t, dto.FrameNotification, got.Type)
	var n dto.Notification
	require.NoError(t, json.Unmarshal(got.Payload, &n))
	assert.Equal(t, e1, n.EventID)
	assert.Equal(t, "Event updated", n.Title)
}

func TestSubscribeIsNarrowedToMembership(t *testing.T) {
	mine, other := uuid.New(), uuid.New()
	s := startLive(t, staticMembership{ids: []uuid.UUID{mine}}, nil)
	conn := dial(t, s, uuid.New())
	readFrame(t, conn)

	writeFrame(t, conn, dto.FrameSubscribe, dto.SubscribeRequest{EventIDs: []string{other.String(), mine.String(), "not-an-id"}})
	assert.Equal(t, []string{mine.String()}, subscribedIDs(t, readFrame(t, conn)))

	writeFrame(t, conn, dto.FrameSubscribe, dto.SubscribeRequest{EventIDs: []string{}})
	assert.Empty(t, subscribedIDs(t, readFrame(t, conn)))
}

func TestSubscribeAcceptsEquivalentIDForms(t *testing.T) {
	mine := uuid.New()
	s := startLive(t, staticMembership{ids: []uuid.UUID{mine}}, nil)
	conn := dial(t, s, uuid.New())
	readFrame(t, conn)

	upper := strings.ToUpper(mine.String())
	writeFrame(t, conn, dto.FrameSubscribe, dto.SubscribeRequest{EventIDs: []string{" " + upper + " ", mine.String()}})
	assert.Equal(t, []string{mine.String()}, subscribedIDs(t, readFrame(t, conn)))
}

func TestMembershipFailureKeepsConnectionOpen(t *testing.T) {
	s := startLive(t, staticMembership{err: fmt.Errorf("db down")}, nil)
	conn := dial(t, s, uuid.New())

	assert.Empty(t, subscribedIDs(t, readFrame(t, conn)))

	writeFrame(t, conn, dto.FramePing, nil)
	assert.Equal(t, dto.FramePong, readFrame(t, conn).Type)
}

func TestSendMessageUsesSender(t *testing.T) {
	eventID, userID := uuid.New(), uuid.New()
	s := startLive(t, staticMembership{ids: []uuid.UUID{eventID}}, nil)
	conn := dial(t, s, userID)
	readFrame(t, conn)

	writeFrame(t, conn, dto.FrameSendMessage, dto.SendMessageRequest{EventID: eventID.String(), Body: "see you there"})

	select {
	case msg := <-s.sent:
		assert.Equal(t, eventID, msg.eventID)
		assert.Equal(t, userID, msg.userID)
		assert.Equal(t, "see you there", msg.body)
	case <-time.After(2 * time.Second):
		t.Fatal("message was not sent")
	}
}

func TestSendMessageErrorIsReported(t *testing.T) {
	eventID := uuid.New()
	s := startLive(t, staticMembership{}, errors.NewAppError(errors.ErrForbidden, "Only participants can chat", nil))
	conn := dial(t, s, uuid.New())
	readFrame(t, conn)

	writeFrame(t, conn, dto.FrameSendMessage, dto.SendMessageRequest{EventID: eventID.String(), Body: "hi"})

	got := readFrame(t, conn)
	require.Equal(t, dto.FrameError, got.Type)
	var payload dto.ErrorPayload
	require.NoError(t, json.Unmarshal(got.Payload, &payload))
	assert.Equal(t, string(errors.ErrForbidden), payload.Code)
}

func TestUnknownFrameGetsError(t *testing.T) {
	s := startLive(t, staticMembership{}, nil)
	conn := dial(t, s, uuid.New())
	readFrame(t, conn)

	writeFrame(t, conn, "dance", nil)

	got := readFrame(t, conn)
	require.Equal(t, dto.FrameError, got.Type)
	assert.Contains(t, string(got.Payload), "UNSUPPORTED_FRAME")
}

func TestRepeatedGarbageClosesConnection(t *testing.T) {
	s := startLive(t, staticMembership{}, nil)
	conn := dial(t, s, uuid.New())
	readFrame(t, conn)

	for range 3 {
		require.NoError(t, websocket.Message.Send(conn, "{not json"))
		assert.Equal(t, dto.FrameError, readFrame(t, conn).Type)
	}

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var raw string
	assert.Error(t, websocket.Message.Receive(conn, &raw))
}

func TestConnectRequiresToken(t *testing.T) {
	s := startLive(t, staticMembership{}, nil)

	_, err := websocket.Dial(s.url+"/api/v1/ws", "", "http://localhost/")
	assert.Error(t, err)
}
