package dto

import "github.com/andresdelrio/clubs/internal/models"

// CreateClubRequest describes a new club.
type CreateClubRequest struct {
	SedeSlug    string `json:"sedeSlug" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Responsible string `json:"responsible" validate:"required"`
	Capacity    *int   `json:"capacity" validate:"required,min=0"`
	ImageURL    string `json:"imageUrl"`
}

// UpdateClubRequest replaces club metadata and capacity.
type UpdateClubRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Responsible string `json:"responsible" validate:"required"`
	Capacity    *int   `json:"capacity" validate:"required,min=0"`
	ImageURL    string `json:"imageUrl"`
}

// UpdateCapacityRequest changes only the seat ceiling.
type UpdateCapacityRequest struct {
	Capacity *int `json:"capacity" validate:"required,min=0"`
}

// SedeClubsResponse lists the clubs offered in one sede.
type SedeClubsResponse struct {
	Sede  models.Sede          `json:"sede"`
	Clubs []models.ClubSummary `json:"clubs"`
}
