package models

import "time"

// Artist is an act represented by the agency.
type Artist struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Genre     *string   `db:"genre" json:"genre,omitempty"`
	Color     string    `db:"color" json:"color"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ArtistFilter captures listing criteria for artists.
type ArtistFilter struct {
	Search   string
	Active   *bool
	Page     int
	PageSize int
}
