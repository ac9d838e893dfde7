package service

import (
	"context"
	"slices"
	"time"

	"linkly-be/internal/entities"
	"linkly-be/internal/models"
	"linkly-be/internal/repository"
	"linkly-be/internal/useragent"
)

// RecentClickLimit is how many raw clicks accompany a summary or link detail.
const RecentClickLimit = 100

const dayLayout = "2006-01-02"

// AnalyticsAggregator builds click summaries for link owners.
type AnalyticsAggregator struct {
	links   repository.LinkRepository
	clicks  repository.ClickRepository
	timeout time.Duration
}

func NewAnalyticsAggregator(links repository.LinkRepository, clicks repository.ClickRepository, storeTimeout time.Duration) *AnalyticsAggregator {
	return &AnalyticsAggregator{
		links:   links,
		clicks:  clicks,
		timeout: storeTimeout,
	}
}

// Summarize aggregates the full click log of a link owned by requesterID.
func (a *AnalyticsAggregator) Summarize(ctx context.Context, linkID, requesterID string) (*models.Summary, error) {
	link, err := ownedLink(ctx, a.links, a.timeout, linkID, requesterID)
	if err != nil {
		return nil, err
	}

	storeCtx, cancel := withStoreTimeout(ctx, a.timeout)
	defer cancel()

	clicks, err := a.clicks.ListByLink(storeCtx, link.ID, 0)
	if err != nil {
		return nil, storeError("list clicks", err)
	}

	summary := Aggregate(clicks)
	return &summary, nil
}

// Aggregate computes a Summary from a click log in any order.
func Aggregate(clicks []entities.Click) models.Summary {
	summary := models.Summary{
		TotalClicks:      len(clicks),
		DeviceBreakdown:  make(map[string]int),
		BrowserBreakdown: make(map[string]int),
		DailyTimeSeries:  make(map[string]int),
	}

	visitors := make(map[string]struct{})
	for _, c := range clicks {
		if c.IPAddress != nil && *c.IPAddress != "" {
			visitors[*c.IPAddress] = struct{}{}
		}
		summary.DeviceBreakdown[orUnknown(c.Device, useragent.DeviceUnknown)]++
		summary.BrowserBreakdown[orUnknown(c.Browser, useragent.BrowserUnknown)]++
		summary.DailyTimeSeries[c.Timestamp.UTC().Format(dayLayout)]++
	}
	summary.UniqueVisitors = len(visitors)

	recent := slices.Clone(clicks)
	slices.SortStableFunc(recent, func(a, b entities.Click) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	if len(recent) > RecentClickLimit {
		recent = recent[:RecentClickLimit]
	}
	if recent == nil {
		recent = []entities.Click{}
	}
	summary.RecentClicks = recent

	return summary
}

func orUnknown(v, unknown string) string {
	if v == "" {
		return unknown
	}
	return v
}
