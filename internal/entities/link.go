package entities

import "time"

// Link maps a short code to the original URL. Links are immutable once created.
type Link struct {
	ID          string    `json:"id"` // UUID
	ShortCode   string    `json:"short_code"`
	OriginalURL string    `json:"original_url"`
	OwnerID     string    `json:"owner_id"` // UUID of the owning user
	CreatedAt   time.Time `json:"created_at"`
}
