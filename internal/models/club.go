package models

import "time"

// Club is an activity with a seat ceiling, offered in a single sede.
type Club struct {
	ID          string    `db:"id" json:"id"`
	SedeID      string    `db:"sede_id" json:"sede_id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Responsible string    `db:"responsible" json:"responsible"`
	Capacity    int       `db:"capacity" json:"capacity"`
	ImageURL    string    `db:"image_url" json:"image_url"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ClubSummary is a club with sede display data and its current occupancy.
type ClubSummary struct {
	Club
	SedeName  string `db:"sede_name" json:"sede_name"`
	SedeSlug  string `db:"sede_slug" json:"sede_slug"`
	Occupied  int    `db:"occupied" json:"occupied"`
	Available int    `db:"available" json:"available"`
}
