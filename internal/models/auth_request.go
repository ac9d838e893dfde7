package models

// RegisterRequest is the body of POST /api/v1/auth/register
type RegisterRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8,max=72"` // bcrypt ignores bytes past 72
	Name     *string `json:"name,omitempty"`
}

// LoginRequest is the body of POST /api/v1/auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
