package models

import (
	"time"

	"github.com/google/uuid"
)

type Video struct {
	Id          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Url         string    `json:"url"`
	Media_ID    string    `json:"media_id"`
	User_ID     uuid.UUID `json:"user_id"`
	Created_At  time.Time `json:"created_at"`
	Updated_At  time.Time `json:"updated_at"`
}
