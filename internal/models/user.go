package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims carried inside the API access token. The platform runs with a single
// configured admin account; there is no user table.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}
