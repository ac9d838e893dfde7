package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"linkly-be/internal/cache"
	"linkly-be/internal/config"
	"linkly-be/internal/entities"
	"linkly-be/internal/models"
	"linkly-be/internal/repository"
	"linkly-be/internal/shortcode"
	"linkly-be/internal/urlutil"
)

// LinkService defines the operations exposed to the transport layer
type LinkService interface {
	CreateShortLink(ctx context.Context, rawURL, ownerID string) (*entities.Link, error)
	Visit(ctx context.Context, shortCode string, meta RequestMeta) RedirectTarget
	GetLink(ctx context.Context, id, requesterID string) (*models.LinkDetail, error)
	ListLinks(ctx context.Context, ownerID string) ([]*repository.LinkWithClickCount, error)
	DeleteLink(ctx context.Context, id, requesterID string) error
	GetAnalytics(ctx context.Context, id, requesterID string) (*models.Summary, error)
}

// LinkServiceOptions carries the policy knobs of the link service
type LinkServiceOptions struct {
	Generator    shortcode.Generator
	Allocation   config.AllocationPolicy
	Recorder     ClickRecorder // defaults to inline inserts through the click repository
	LandingURL   string
	CacheTTL     time.Duration
	StoreTimeout time.Duration
}

type linkService struct {
	links      repository.LinkRepository
	clicks     repository.ClickRepository
	cache      cache.Cache
	allocator  *Allocator
	tracker    *RedirectTracker
	aggregator *AnalyticsAggregator
	timeout    time.Duration
}

// NewLinkService wires the allocator, tracker and aggregator over the given
// repositories. cacheClient may be nil.
func NewLinkService(links repository.LinkRepository, clicks repository.ClickRepository, cacheClient cache.Cache, opts LinkServiceOptions) LinkService {
	if opts.Generator == nil {
		opts.Generator = shortcode.NewGenerator()
	}
	if opts.Recorder == nil {
		opts.Recorder = NewStoreRecorder(clicks, opts.StoreTimeout)
	}

	return &linkService{
		links:      links,
		clicks:     clicks,
		cache:      cacheClient,
		allocator:  NewAllocator(links, opts.Generator, opts.Allocation, opts.StoreTimeout),
		tracker:    NewRedirectTracker(links, cacheClient, opts.Recorder, opts.LandingURL, opts.CacheTTL, opts.StoreTimeout),
		aggregator: NewAnalyticsAggregator(links, clicks, opts.StoreTimeout),
		timeout:    opts.StoreTimeout,
	}
}

// CreateShortLink validates rawURL and allocates a short code for it
func (s *linkService) CreateShortLink(ctx context.Context, rawURL, ownerID string) (*entities.Link, error) {
	if ownerID == "" {
		return nil, ErrUnauthenticated
	}

	normalized, err := urlutil.Prepare(rawURL)
	if err != nil {
		return nil, err
	}

	return s.allocator.Allocate(ctx, normalized, ownerID)
}

// Visit resolves a short code for a redirect; it never fails
func (s *linkService) Visit(ctx context.Context, shortCode string, meta RequestMeta) RedirectTarget {
	return s.tracker.Visit(ctx, shortCode, meta)
}

// GetLink returns a link with its click count and most recent clicks
func (s *linkService) GetLink(ctx context.Context, id, requesterID string) (*models.LinkDetail, error) {
	link, err := ownedLink(ctx, s.links, s.timeout, id, requesterID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withStoreTimeout(ctx, s.timeout)
	defer cancel()

	count, err := s.clicks.CountByLink(ctx, link.ID)
	if err != nil {
		return nil, storeError("count clicks", err)
	}
	recent, err := s.clicks.ListByLink(ctx, link.ID, RecentClickLimit)
	if err != nil {
		return nil, storeError("list clicks", err)
	}

	return &models.LinkDetail{
		Link:         link,
		ClickCount:   count,
		RecentClicks: recent,
	}, nil
}

// ListLinks returns all links of the owner, newest first
func (s *linkService) ListLinks(ctx context.Context, ownerID string) ([]*repository.LinkWithClickCount, error) {
	if ownerID == "" {
		return nil, ErrUnauthenticated
	}

	ctx, cancel := withStoreTimeout(ctx, s.timeout)
	defer cancel()

	links, err := s.links.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, storeError("list links", err)
	}
	return links, nil
}

// DeleteLink removes a link and its clicks, then evicts it from the redirect cache
func (s *linkService) DeleteLink(ctx context.Context, id, requesterID string) error {
	link, err := ownedLink(ctx, s.links, s.timeout, id, requesterID)
	if err != nil {
		return err
	}

	storeCtx, cancel := withStoreTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.links.Delete(storeCtx, link.ID); err != nil {
		// Deleted concurrently by another request of the same owner.
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return storeError("delete link", err)
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, linkCacheKey(link.ShortCode)); err != nil {
			log.Printf("Warning: failed to evict %s from cache: %v", link.ShortCode, err)
		}
	}
	return nil
}

// GetAnalytics returns the click summary of a link
func (s *linkService) GetAnalytics(ctx context.Context, id, requesterID string) (*models.Summary, error) {
	return s.aggregator.Summarize(ctx, id, requesterID)
}

// ownedLink loads a link and checks that requesterID owns it. Ids that are
// not UUIDs cannot exist and resolve to ErrNotFound without a query.
func ownedLink(ctx context.Context, links repository.LinkRepository, timeout time.Duration, id, requesterID string) (*entities.Link, error) {
	if requesterID == "" {
		return nil, ErrUnauthenticated
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	ctx, cancel := withStoreTimeout(ctx, timeout)
	defer cancel()

	link, err := links.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeError("find link", err)
	}

	if link.OwnerID != requesterID {
		return nil, ErrForbidden
	}
	return link, nil
}
