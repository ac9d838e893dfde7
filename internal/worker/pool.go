package worker

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"linkly-be/internal/entities"
)

// ErrQueueFull is returned by Record when the queue has no room; the click is dropped.
var ErrQueueFull = errors.New("click queue full")

// ErrStopped is returned by Record after Stop has been called.
var ErrStopped = errors.New("click pool stopped")

// ClickStore is the persistence the pool writes to.
type ClickStore interface {
	Create(ctx context.Context, click *entities.Click) error
}

// Pool records clicks off the request path. Record never blocks; the queue
// is bounded and overflow is dropped.
type Pool struct {
	workers      int
	jobQueue     chan entities.Click
	store        ClickStore
	storeTimeout time.Duration
	group        errgroup.Group

	mu      sync.RWMutex
	stopped bool
}

func New(workers, queueSize int, store ClickStore, storeTimeout time.Duration) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	return &Pool{
		workers:      workers,
		jobQueue:     make(chan entities.Click, queueSize),
		store:        store,
		storeTimeout: storeTimeout,
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		id := i
		p.group.Go(func() error {
			p.worker(id)
			return nil
		})
	}
}

// Record queues a click for insertion. The click is copied, so callers may
// reuse it after Record returns.
func (p *Pool) Record(_ context.Context, click *entities.Click) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		return ErrStopped
	}

	select {
	case p.jobQueue <- *click:
		return nil
	default:
		return ErrQueueFull
	}
}

func (p *Pool) worker(id int) {
	for click := range p.jobQueue {
		ctx, cancel := p.context()
		if err := p.store.Create(ctx, &click); err != nil {
			log.Printf("Click worker %d failed to record click for link %s: %v", id, click.LinkID, err)
		}
		cancel()
	}
}

func (p *Pool) context() (context.Context, context.CancelFunc) {
	if p.storeTimeout > 0 {
		return context.WithTimeout(context.Background(), p.storeTimeout)
	}
	return context.WithCancel(context.Background())
}

// Stop rejects new clicks, drains the queue and waits for the workers.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.jobQueue)
	p.mu.Unlock()

	_ = p.group.Wait()
}
