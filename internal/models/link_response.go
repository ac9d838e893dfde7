package models

import (
	"time"

	"linkly-be/internal/entities"
)

// LinkResponse is a link as returned by the API
type LinkResponse struct {
	ID          string    `json:"id"`
	ShortCode   string    `json:"short_code"`
	OriginalURL string    `json:"original_url"`
	ShortURL    string    `json:"short_url"` // Full short URL (base URL + short code)
	CreatedAt   time.Time `json:"created_at"`
}

// LinkListItem is one entry of the owner's link list
type LinkListItem struct {
	LinkResponse
	ClickCount int64 `json:"click_count"`
}

// LinkDetail is a single link with its click total and latest clicks
type LinkDetail struct {
	Link         *entities.Link
	ClickCount   int64
	RecentClicks []entities.Click
}

// LinkDetailResponse is the API shape of LinkDetail
type LinkDetailResponse struct {
	LinkResponse
	ClickCount   int64            `json:"click_count"`
	RecentClicks []entities.Click `json:"recent_clicks"`
}

// NewLinkResponse builds the response DTO for a link served under baseURL
func NewLinkResponse(link *entities.Link, baseURL string) LinkResponse {
	return LinkResponse{
		ID:          link.ID,
		ShortCode:   link.ShortCode,
		OriginalURL: link.OriginalURL,
		ShortURL:    baseURL + "/" + link.ShortCode,
		CreatedAt:   link.CreatedAt,
	}
}
