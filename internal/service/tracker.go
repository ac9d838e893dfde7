package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"linkly-be/internal/cache"
	"linkly-be/internal/entities"
	"linkly-be/internal/repository"
	"linkly-be/internal/shortcode"
	"linkly-be/internal/useragent"
)

// RequestMeta is what the transport layer knows about a visitor.
type RequestMeta struct {
	UserAgent string
	Referer   string
	IPAddress string
}

// RedirectTarget is where a visitor should be sent.
type RedirectTarget struct {
	URL    string
	LinkID string // empty when the short code did not resolve
}

// Found reports whether the target is a link rather than the landing page.
func (t RedirectTarget) Found() bool { return t.LinkID != "" }

// ClickRecorder persists click events.
type ClickRecorder interface {
	Record(ctx context.Context, click *entities.Click) error
}

// RedirectTracker resolves short codes and records a click per resolution.
// Click recording never affects the redirect.
type RedirectTracker struct {
	links      repository.LinkRepository
	cache      cache.Cache
	recorder   ClickRecorder
	landingURL string
	cacheTTL   time.Duration
	timeout    time.Duration
	now        func() time.Time
}

func NewRedirectTracker(links repository.LinkRepository, cacheClient cache.Cache, recorder ClickRecorder, landingURL string, cacheTTL, storeTimeout time.Duration) *RedirectTracker {
	return &RedirectTracker{
		links:      links,
		cache:      cacheClient,
		recorder:   recorder,
		landingURL: landingURL,
		cacheTTL:   cacheTTL,
		timeout:    storeTimeout,
		now:        time.Now,
	}
}

// Visit resolves shortCode and records the click. Unknown codes and lookup
// failures send the visitor to the landing page and record nothing. Paths
// that cannot be short codes (favicon.ico, robots.txt) never reach the store.
func (t *RedirectTracker) Visit(ctx context.Context, shortCode string, meta RequestMeta) RedirectTarget {
	if !shortcode.Valid(shortCode) {
		return RedirectTarget{URL: t.landingURL}
	}

	link, err := t.lookup(ctx, shortCode)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Printf("ERROR: failed to resolve short code %s: %v", shortCode, err)
		}
		return RedirectTarget{URL: t.landingURL}
	}

	agent := useragent.Classify(meta.UserAgent)
	click := &entities.Click{
		LinkID:    link.ID,
		Timestamp: t.now().UTC(),
		IPAddress: optional(meta.IPAddress),
		UserAgent: optional(meta.UserAgent),
		Referer:   optional(meta.Referer),
		Device:    agent.Device,
		Browser:   agent.Browser,
	}
	if err := t.record(ctx, click); err != nil {
		log.Printf("Warning: failed to record click for %s: %v", shortCode, err)
	}

	return RedirectTarget{URL: link.OriginalURL, LinkID: link.ID}
}

func (t *RedirectTracker) record(ctx context.Context, click *entities.Click) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("click recorder panicked: %v", r)
		}
	}()
	return t.recorder.Record(ctx, click)
}

func (t *RedirectTracker) lookup(ctx context.Context, shortCode string) (*entities.Link, error) {
	key := linkCacheKey(shortCode)

	if t.cache != nil {
		var cached entities.Link
		err := t.cache.GetJSON(ctx, key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("Warning: cache read failed for %s: %v", shortCode, err)
		}
	}

	storeCtx, cancel := withStoreTimeout(ctx, t.timeout)
	defer cancel()

	link, err := t.links.FindByShortCode(storeCtx, shortCode)
	if err != nil {
		return nil, err
	}

	if t.cache != nil {
		if err := t.cache.SetJSON(ctx, key, link, t.cacheTTL); err != nil {
			log.Printf("Warning: cache write failed for %s: %v", shortCode, err)
		}
	}
	return link, nil
}

func linkCacheKey(shortCode string) string {
	return fmt.Sprintf("link:code:%s", shortCode)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// StoreRecorder writes clicks straight to the click repository. The insert
// is detached from request cancellation so a client hanging up right after
// the redirect does not lose the click.
type StoreRecorder struct {
	clicks  repository.ClickRepository
	timeout time.Duration
}

func NewStoreRecorder(clicks repository.ClickRepository, storeTimeout time.Duration) *StoreRecorder {
	return &StoreRecorder{clicks: clicks, timeout: storeTimeout}
}

func (r *StoreRecorder) Record(ctx context.Context, click *entities.Click) error {
	ctx, cancel := withStoreTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()
	return r.clicks.Create(ctx, click)
}
