package models

// CreateLinkRequest represents the request body for shortening a URL
type CreateLinkRequest struct {
	URL string `json:"url" binding:"required"` // Scheme is optional; https:// is assumed
}
