package service

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"linkly-be/internal/entities"
	"linkly-be/internal/repository"
)

// memDB is an in-memory stand-in for Postgres with the same unique index on
// short codes and the same cascade from links to clicks.
type memDB struct {
	mu     sync.Mutex
	links  map[string]entities.Link // by id
	codes  map[string]string        // short code -> id
	clicks []entities.Click
}

func newMemDB() *memDB {
	return &memDB{
		links: make(map[string]entities.Link),
		codes: make(map[string]string),
	}
}

func (db *memDB) linkRepo() *memLinks   { return &memLinks{db: db} }
func (db *memDB) clickRepo() *memClicks { return &memClicks{db: db} }

func (db *memDB) clickCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.clicks)
}

type memLinks struct{ db *memDB }

func (r *memLinks) Create(_ context.Context, shortCode, originalURL, ownerID string) (*entities.Link, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, taken := r.db.codes[shortCode]; taken {
		return nil, repository.ErrDuplicateShortCode
	}
	link := entities.Link{
		ID:          uuid.NewString(),
		ShortCode:   shortCode,
		OriginalURL: originalURL,
		OwnerID:     ownerID,
		CreatedAt:   time.Now().UTC(),
	}
	r.db.links[link.ID] = link
	r.db.codes[shortCode] = link.ID
	return &link, nil
}

func (r *memLinks) FindByID(_ context.Context, id string) (*entities.Link, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	link, ok := r.db.links[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &link, nil
}

func (r *memLinks) FindByShortCode(ctx context.Context, shortCode string) (*entities.Link, error) {
	r.db.mu.Lock()
	id, ok := r.db.codes[shortCode]
	r.db.mu.Unlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *memLinks) ExistsByShortCode(_ context.Context, shortCode string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	_, ok := r.db.codes[shortCode]
	return ok, nil
}

func (r *memLinks) ListByOwner(_ context.Context, ownerID string) ([]*repository.LinkWithClickCount, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	out := make([]*repository.LinkWithClickCount, 0)
	for _, l := range r.db.links {
		if l.OwnerID != ownerID {
			continue
		}
		var n int64
		for _, c := range r.db.clicks {
			if c.LinkID == l.ID {
				n++
			}
		}
		out = append(out, &repository.LinkWithClickCount{Link: l, ClickCount: n})
	}
	slices.SortFunc(out, func(a, b *repository.LinkWithClickCount) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func (r *memLinks) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	link, ok := r.db.links[id]
	if !ok {
		return repository.ErrNotFound
	}
	delete(r.db.links, id)
	delete(r.db.codes, link.ShortCode)
	r.db.clicks = slices.DeleteFunc(r.db.clicks, func(c entities.Click) bool { return c.LinkID == id })
	return nil
}

type memClicks struct {
	db      *memDB
	failErr error
}

func (r *memClicks) Create(_ context.Context, click *entities.Click) error {
	if r.failErr != nil {
		return r.failErr
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.links[click.LinkID]; !ok {
		return errors.New("insert violates foreign key constraint")
	}
	click.ID = uuid.NewString()
	r.db.clicks = append(r.db.clicks, *click)
	return nil
}

func (r *memClicks) ListByLink(_ context.Context, linkID string, limit int) ([]entities.Click, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	out := make([]entities.Click, 0)
	for _, c := range r.db.clicks {
		if c.LinkID == linkID {
			out = append(out, c)
		}
	}
	slices.SortStableFunc(out, func(a, b entities.Click) int { return b.Timestamp.Compare(a.Timestamp) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memClicks) CountByLink(ctx context.Context, linkID string) (int64, error) {
	clicks, err := r.ListByLink(ctx, linkID, 0)
	return int64(len(clicks)), err
}

// MockLinkRepository is a testify mock of repository.LinkRepository.
type MockLinkRepository struct {
	mock.Mock
}

func (m *MockLinkRepository) Create(ctx context.Context, shortCode, originalURL, ownerID string) (*entities.Link, error) {
	args := m.Called(ctx, shortCode, originalURL, ownerID)
	if fn, ok := args.Get(0).(func(context.Context, string, string, string) *entities.Link); ok {
		return fn(ctx, shortCode, originalURL, ownerID), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Link), args.Error(1)
}

func (m *MockLinkRepository) FindByID(ctx context.Context, id string) (*entities.Link, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Link), args.Error(1)
}

func (m *MockLinkRepository) FindByShortCode(ctx context.Context, shortCode string) (*entities.Link, error) {
	args := m.Called(ctx, shortCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Link), args.Error(1)
}

func (m *MockLinkRepository) ExistsByShortCode(ctx context.Context, shortCode string) (bool, error) {
	args := m.Called(ctx, shortCode)
	return args.Bool(0), args.Error(1)
}

func (m *MockLinkRepository) ListByOwner(ctx context.Context, ownerID string) ([]*repository.LinkWithClickCount, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.LinkWithClickCount), args.Error(1)
}

func (m *MockLinkRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockClickRepository is a testify mock of repository.ClickRepository.
type MockClickRepository struct {
	mock.Mock
}

func (m *MockClickRepository) Create(ctx context.Context, click *entities.Click) error {
	args := m.Called(ctx, click)
	return args.Error(0)
}

func (m *MockClickRepository) ListByLink(ctx context.Context, linkID string, limit int) ([]entities.Click, error) {
	args := m.Called(ctx, linkID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Click), args.Error(1)
}

func (m *MockClickRepository) CountByLink(ctx context.Context, linkID string) (int64, error) {
	args := m.Called(ctx, linkID)
	return args.Get(0).(int64), args.Error(1)
}

// MockRecorder is a testify mock of ClickRecorder.
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) Record(ctx context.Context, click *entities.Click) error {
	args := m.Called(ctx, click)
	return args.Error(0)
}

// scriptedGenerator hands out codes in order and remembers requested lengths.
type scriptedGenerator struct {
	mu      sync.Mutex
	codes   []string
	lengths []int
}

func (g *scriptedGenerator) Generate(length int) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.lengths = append(g.lengths, length)
	if len(g.codes) == 0 {
		return "", errors.New("script exhausted")
	}
	code := g.codes[0]
	g.codes = g.codes[1:]
	return code, nil
}
