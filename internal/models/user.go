package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                 uuid.UUID   `json:"id"`
	FirstName          string      `json:"first_name"`
	LastName           string      `json:"last_name"`
	Email              string      `json:"email"`
	Phone              string      `json:"phone"`
	Bio                string      `json:"bio"`
	PasswordHash       string      `json:"-"`
	IsAdmin            bool        `json:"is_admin"`
	ProfilePicture     []byte      `json:"profile_picture,omitempty"`
	ProfilePictureType string      `json:"profile_picture_type,omitempty"`
	Videos             []uuid.UUID `json:"videos"`
	Created_At         time.Time   `json:"created_at"`
	Updated_At         time.Time   `json:"updated_at"`
}
