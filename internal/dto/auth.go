package dto

import "time"

// AdminLoginRequest exchanges the shared access code for a session token.
type AdminLoginRequest struct {
	Code string `json:"code" validate:"required"`
}

// AdminLoginResponse carries the issued admin token.
type AdminLoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
