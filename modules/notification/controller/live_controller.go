package controller

import (
	"context"
	"encoding/json"
	"time"

	"sportmeet/core/controller"
	"sportmeet/core/errors"
	"sportmeet/core/logger"
	"sportmeet/core/utils"
	"sportmeet/modules/access"
	"sportmeet/modules/notification/dto"
	"sportmeet/modules/notification/hub"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/net/websocket"
)

const (
	maxFrameBytes          = 8 << 10
	maxFramesPerSecond     = 20
	maxDecodeErrorsPerConn = 3
)

// MembershipSource lists the events a user may follow: the ones they
// registered for and the ones they host.
type MembershipSource interface {
	MyEventIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

// MessageSender posts a chat message on behalf of the connection's user.
type MessageSender func(ctx context.Context, eventID uuid.UUID, principal access.Principal, body string) *errors.AppError

type LiveController struct {
	controller.BaseController
	hub     *hub.Hub
	members MembershipSource
	send    MessageSender
}

func NewLiveController(h *hub.Hub, members MembershipSource, send MessageSender) *LiveController {
	return &LiveController{
		BaseController: controller.NewBaseController(),
		hub:            h,
		members:        members,
		send:           send,
	}
}

// Connect handles GET /ws
// @Summary Live notification channel
// @Description Upgrades to a websocket. Pass the token as a Bearer header or ?token=.
// @Tags Notification
// @Security BearerAuth
// @Router /ws [get]
func (c *LiveController) Connect(ctx echo.Context) error {
	principal, appErr := access.FromEcho(ctx)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	server := websocket.Server{
		Handler: func(conn *websocket.Conn) {
			c.serve(conn, principal)
		},
	}
	server.ServeHTTP(ctx.Response(), ctx.Request())
	return nil
}

func (c *LiveController) serve(conn *websocket.Conn, principal access.Principal) {
	conn.MaxPayloadBytes = maxFrameBytes
	ctx, cancel := context.WithCancel(conn.Request().Context())
	defer cancel()

	client := c.hub.Connect(principal.ID)
	logger.Info("LiveController:Connect", "client_id", client.ID, "user_id", principal.ID)

	// A failed lookup leaves the connection open with nothing subscribed.
	ids, err := c.members.MyEventIDs(ctx, principal.ID)
	if err != nil {
		logger.Warn("LiveController:Connect:MyEventIDs:Error", "error", err, "user_id", principal.ID)
		ids = nil
	}
	c.subscribed(client, c.hub.Subscribe(client, ids))

	done := make(chan struct{})
	go c.writeLoop(conn, client, done)

	c.readLoop(ctx, conn, client, principal)

	c.hub.Disconnect(client)
	<-done
	logger.Info("LiveController:Disconnect", "client_id", client.ID, "user_id", principal.ID)
}

// writeLoop is the only writer on conn. It closes conn when the hub drops
// the client, which unblocks the reader.
func (c *LiveController) writeLoop(conn *websocket.Conn, client *hub.Client, done chan<- struct{}) {
	defer close(done)
	defer conn.Close()

	for data := range client.Send() {
		if err := websocket.Message.Send(conn, string(data)); err != nil {
			logger.Debug("LiveController:Write:Error", "error", err, "client_id", client.ID)
			return
		}
	}
}

func (c *LiveController) readLoop(ctx context.Context, conn *websocket.Conn, client *hub.Client, principal access.Principal) {
	windowStart := time.Now()
	framesInWindow := 0
	decodeErrors := 0

	for {
		var raw []byte
		if err := websocket.Message.Receive(conn, &raw); err != nil {
			if errors.Is(err, websocket.ErrFrameTooLarge) {
				decodeErrors++
				c.replyError(client, "PAYLOAD_TOO_LARGE", "frame exceeds 8 KiB")
				if decodeErrors >= maxDecodeErrorsPerConn {
					return
				}
				continue
			}
			return
		}

		now := time.Now()
		if now.Sub(windowStart) >= time.Second {
			windowStart = now
			framesInWindow = 0
		}
		framesInWindow++
		if framesInWindow > maxFramesPerSecond {
			c.replyError(client, "RATE_LIMITED", "too many frames")
			return
		}

		var frame dto.Frame
		if err := json.Unmarshal(raw, &frame); err != nil || frame.Type == "" {
			decodeErrors++
			c.replyError(client, "INVALID_FRAME", "invalid frame payload")
			if decodeErrors >= maxDecodeErrorsPerConn {
				return
			}
			continue
		}
		decodeErrors = 0

		switch frame.Type {
		case dto.FrameSubscribe:
			c.handleSubscribe(ctx, client, principal, frame)
		case dto.FrameSendMessage:
			c.handleSendMessage(ctx, client, principal, frame)
		case dto.FramePing:
			c.reply(client, dto.FramePong, nil)
		default:
			c.replyError(client, "UNSUPPORTED_FRAME", "unsupported frame type")
		}
	}
}

// handleSubscribe replaces the subscription set. Requested ids are narrowed
// to the user's own events.
func (c *LiveController) handleSubscribe(ctx context.Context, client *hub.Client, principal access.Principal, frame dto.Frame) {
	var req dto.SubscribeRequest
	if err := json.Unmarshal(frame.Payload, &req); err != nil {
		c.replyError(client, "INVALID_FRAME", "eventIds must be an array of ids")
		return
	}

	ids, err := c.members.MyEventIDs(ctx, principal.ID)
	if err != nil {
		logger.Warn("LiveController:Subscribe:MyEventIDs:Error", "error", err, "user_id", principal.ID)
	}

	requested := make([]uuid.UUID, 0, len(req.EventIDs))
	for _, raw := range req.EventIDs {
		for _, id := range ids {
			if access.SameIdentity(raw, id.String()) {
				requested = append(requested, id)
				break
			}
		}
	}
	c.subscribed(client, c.hub.Subscribe(client, requested))
}

func (c *LiveController) handleSendMessage(ctx context.Context, client *hub.Client, principal access.Principal, frame dto.Frame) {
	var req dto.SendMessageRequest
	if err := json.Unmarshal(frame.Payload, &req); err != nil {
		c.replyError(client, "INVALID_FRAME", "invalid sendMessage payload")
		return
	}
	eventID := utils.ToUUID(req.EventID)
	if eventID == uuid.Nil {
		c.replyError(client, string(errors.ErrNotFound), "Event not found")
		return
	}
	if appErr := c.send(ctx, eventID, principal, req.Body); appErr != nil {
		c.replyError(client, string(appErr.Code), appErr.Message)
	}
}

func (c *LiveController) subscribed(client *hub.Client, ids []uuid.UUID) {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	c.reply(client, dto.FrameSubscribed, dto.SubscribedPayload{EventIDs: out})
}

func (c *LiveController) replyError(client *hub.Client, code, message string) {
	c.reply(client, dto.FrameError, dto.ErrorPayload{Code: code, Message: message})
}

func (c *LiveController) reply(client *hub.Client, frameType string, payload any) {
	frame, err := dto.NewFrame(frameType, payload)
	if err != nil {
		logger.Error("LiveController:Reply:Marshal:Error", err)
		return
	}
	data, err := json.Marshal(frame)
	if err != nil {
		logger.Error("LiveController:Reply:Marshal:Error", err)
		return
	}
	c.hub.SendTo(client, data)
}
