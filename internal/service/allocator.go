package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"linkly-be/internal/config"
	"linkly-be/internal/entities"
	"linkly-be/internal/repository"
	"linkly-be/internal/shortcode"
)

const insertRetryDelay = 5 * time.Millisecond

// Reserved short codes that would be shadowed by routes or read as system paths
var reservedCodes = map[string]bool{
	"admin":    true,
	"api":      true,
	"www":      true,
	"mail":     true,
	"health":   true,
	"auth":     true,
	"login":    true,
	"logout":   true,
	"signin":   true,
	"signup":   true,
	"signout":  true,
	"register": true,
	"shorten":  true,
	"links":    true,
	"qrcode":   true,
	"redirect": true,
}

// Allocator assigns unique short codes to new links. Uniqueness is enforced by
// the store's unique index; the existence check only keeps the insert from
// failing in the common case.
type Allocator struct {
	links   repository.LinkRepository
	gen     shortcode.Generator
	policy  config.AllocationPolicy
	timeout time.Duration
}

func NewAllocator(links repository.LinkRepository, gen shortcode.Generator, policy config.AllocationPolicy, storeTimeout time.Duration) *Allocator {
	return &Allocator{
		links:   links,
		gen:     gen,
		policy:  policy,
		timeout: storeTimeout,
	}
}

// Allocate stores a new link for an already normalized URL. Losing the insert
// race to a concurrent allocation restarts the whole generate-check-insert cycle.
func (a *Allocator) Allocate(ctx context.Context, normalizedURL, ownerID string) (*entities.Link, error) {
	var link *entities.Link

	backoff := retry.WithMaxRetries(uint64(max(a.policy.MaxInsertRetries, 0)), retry.NewConstant(insertRetryDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		code, err := a.freeCode(ctx)
		if err != nil {
			return err
		}

		created, err := a.create(ctx, code, normalizedURL, ownerID)
		if errors.Is(err, repository.ErrDuplicateShortCode) {
			log.Printf("Short code %s taken by a concurrent insert, retrying", code)
			return retry.RetryableError(err)
		}
		if err != nil {
			return storeError("create link", err)
		}

		link = created
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrStoreUnavailable) {
			return nil, err
		}
		return nil, storeError("allocate short code", err)
	}

	return link, nil
}

// freeCode draws codes until one is not taken. After EscalateAfter collisions
// it switches to the longer escalated length.
func (a *Allocator) freeCode(ctx context.Context) (string, error) {
	length := a.policy.CodeLength
	collisions := 0

	for {
		code, err := a.gen.Generate(length)
		if err != nil {
			return "", fmt.Errorf("failed to generate short code: %w", err)
		}

		if !reservedCodes[strings.ToLower(code)] {
			taken, err := a.exists(ctx, code)
			if err != nil {
				return "", storeError("check short code", err)
			}
			if !taken {
				return code, nil
			}
		}

		collisions++
		if a.policy.MaxCodeAttempts > 0 && collisions >= a.policy.MaxCodeAttempts {
			return "", ErrCodeSpaceExhausted
		}
		if collisions > a.policy.EscalateAfter {
			length = a.policy.EscalatedCodeLength
		}
	}
}

func (a *Allocator) exists(ctx context.Context, code string) (bool, error) {
	ctx, cancel := withStoreTimeout(ctx, a.timeout)
	defer cancel()
	return a.links.ExistsByShortCode(ctx, code)
}

func (a *Allocator) create(ctx context.Context, code, originalURL, ownerID string) (*entities.Link, error) {
	ctx, cancel := withStoreTimeout(ctx, a.timeout)
	defer cancel()
	return a.links.Create(ctx, code, originalURL, ownerID)
}
