package models

import "linkly-be/internal/entities"

// Summary is the aggregated analytics of one link
type Summary struct {
	TotalClicks      int              `json:"total_clicks"`
	UniqueVisitors   int              `json:"unique_visitors"`
	DeviceBreakdown  map[string]int   `json:"device_breakdown"`
	BrowserBreakdown map[string]int   `json:"browser_breakdown"`
	DailyTimeSeries  map[string]int   `json:"daily_time_series"` // UTC date (YYYY-MM-DD) -> clicks; days without clicks are absent
	RecentClicks     []entities.Click `json:"recent_clicks"`
}
