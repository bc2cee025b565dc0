package entity

import "sportmeet/core/entity"

// User mirrors a row owned by the identity provider. Only the picture
// columns are written here.
type User struct {
	Name              string  `db:"name"`
	Email             string  `db:"email"`
	Role              string  `db:"role"`
	ProfilePicture    *string `db:"profile_picture"`
	ProfilePictureKey *string `db:"profile_picture_key"`
	entity.BaseEntity
}
