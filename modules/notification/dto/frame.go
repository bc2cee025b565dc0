package dto

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Live channel frame types.
const (
	FrameSubscribe   = "subscribeToNotifications"
	FrameSendMessage = "sendMessage"
	FramePing        = "ping"

	FrameNotification = "notification"
	FrameChatMessage  = "chatMessage"
	FrameSubscribed   = "subscribed"
	FramePong         = "pong"
	FrameError        = "error"
)

type Frame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func NewFrame(frameType string, payload any) (Frame, error) {
	if payload == nil {
		return Frame{Type: frameType}, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Frame{}, err
	}
	return Frame{Type: frameType, Payload: raw}, nil
}

// Notification is the payload of a notification frame.
type Notification struct {
	EventID uuid.UUID `json:"eventId"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
}

// Envelope carries a frame addressed to one event's subscribers across the
// queue and the pub/sub channel.
type Envelope struct {
	EventID uuid.UUID `json:"eventId"`
	Frame   Frame     `json:"frame"`
}

type SubscribeRequest struct {
	EventIDs []string `json:"eventIds"`
}

type SendMessageRequest struct {
	EventID string `json:"eventId"`
	Body    string `json:"body"`
}

type SubscribedPayload struct {
	EventIDs []string `json:"eventIds"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
