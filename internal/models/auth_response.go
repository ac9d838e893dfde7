package models

import "time"

// AuthResponse identifies the logged in user and carries the bearer token
// for the link endpoints.
type AuthResponse struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Token     string    `json:"token"`
}

type RegisterResponse struct {
	Message string       `json:"message"`
	User    AuthResponse `json:"user"`
}
