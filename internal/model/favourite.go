package model

import "time"

// Favourite marks an image as liked by one user subscription.
// It is deleted by its own ID, never by the image ID.
type Favourite struct {
	ID        ID        `json:"id"`
	ImageID   ID        `json:"image_id"`
	SubID     string    `json:"sub_id"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	Image     *Image    `json:"image,omitempty"`
}

// NewFavourite is the body of a create call.
type NewFavourite struct {
	ImageID ID     `json:"image_id"`
	SubID   string `json:"sub_id"`
}

// FavouriteCreated is what the service answers to a create call.
type FavouriteCreated struct {
	ID      ID     `json:"id"`
	Message string `json:"message,omitempty"`
}
