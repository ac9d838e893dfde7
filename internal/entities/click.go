package entities

import "time"

// Click is one recorded visit to a Link. Clicks are append-only and are only
// removed together with their Link.
type Click struct {
	ID        string    `json:"id"` // UUID
	LinkID    string    `json:"link_id"`
	Timestamp time.Time `json:"timestamp"`
	IPAddress *string   `json:"ip_address,omitempty"` // Pointer allows NULL
	UserAgent *string   `json:"user_agent,omitempty"`
	Referer   *string   `json:"referer,omitempty"`
	Device    string    `json:"device"`
	Browser   string    `json:"browser"`
}
