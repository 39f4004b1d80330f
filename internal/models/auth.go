package models

import "github.com/golang-jwt/jwt/v5"

// AdminRole is the only role the API distinguishes.
const AdminRole = "admin"

// AdminClaims is the payload of an admin session token.
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}
