package dto

import (
	"time"

	"sportmeet/modules/chat/entity"
)

type PostMessageRequest struct {
	Body string `json:"body"`
}

type SenderResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type MessageResponse struct {
	ID        string         `json:"id"`
	EventID   string         `json:"event"`
	Sender    SenderResponse `json:"sender"`
	Body      string         `json:"body"`
	CreatedAt time.Time      `json:"createdAt"`
}

func ToMessageResponse(m *entity.Message) MessageResponse {
	return MessageResponse{
		ID:      m.ID.String(),
		EventID: m.EventID.String(),
		Sender: SenderResponse{
			ID:   m.SenderID.String(),
			Name: m.SenderName,
		},
		Body:      m.Body,
		CreatedAt: m.CreatedAt.UTC(),
	}
}
