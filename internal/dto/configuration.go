package dto

// ConfigurationItem represents a configuration entry exposed via API.
type ConfigurationItem struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// EnrollmentsToggleRequest opens or closes public registration.
type EnrollmentsToggleRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

// EnrollmentsToggleResponse reports whether public registration is open.
type EnrollmentsToggleResponse struct {
	Enabled bool `json:"enabled"`
}
