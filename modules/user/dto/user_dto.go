package dto

import (
	"io"

	"sportmeet/modules/user/entity"

	"github.com/google/uuid"
)

type ProfileResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	ProfilePicture *string   `json:"profilePicture"`
}

// PictureUpload is a profile picture read from a multipart form.
type PictureUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

func ToProfileResponse(u *entity.User) *ProfileResponse {
	return &ProfileResponse{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Role:           u.Role,
		ProfilePicture: u.ProfilePicture,
	}
}
