package model

import "time"

// Location is a geocoded coordinate pair derived from a place's address.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Place represents a user-created place record.
//
// Creator is immutable after creation and always names an existing User
// whose places set contains this Place's id.
type Place struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	Location    Location  `json:"location"`
	Image       string    `json:"image,omitempty"`
	Creator     string    `json:"creator"`
	CreatedOn   time.Time `json:"created_on"`
	UpdatedOn   time.Time `json:"updated_on"`
}
