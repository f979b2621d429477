package pollboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/eringen/pollboard/poll"
	"github.com/eringen/pollboard/source"
)

// ErrRefreshThrottled is returned when an upstream refresh was requested
// sooner than the configured refresh interval allows.
var ErrRefreshThrottled = errors.New("pollboard: refresh throttled")

// LoadState is the lifecycle of the cached feed.
type LoadState int

const (
	StateLoading LoadState = iota
	StateReady
	StateFailed
)

func (s LoadState) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "loading"
	}
}

// PollCache holds the one loaded snapshot of the feed. It loads once and
// never revalidates on its own; Refresh re-fetches on demand.
type PollCache struct {
	mu    sync.RWMutex
	snap  poll.Snapshot
	years []int
	state LoadState
	err   error

	loadMu  sync.Mutex // serialises fetches
	src     source.Fetcher
	limiter *rate.Limiter
	logger  echo.Logger
}

// NewPollCache creates a PollCache backed by src. At most one upstream
// refresh is allowed per refreshInterval; zero disables the throttle.
func NewPollCache(src source.Fetcher, refreshInterval time.Duration, logger echo.Logger) *PollCache {
	limit := rate.Inf
	if refreshInterval > 0 {
		limit = rate.Every(refreshInterval)
	}
	return &PollCache{
		src:     src,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}
}

// Status reports the current state, the snapshot (valid when ready) and the
// last load error.
func (c *PollCache) Status() (LoadState, poll.Snapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state, c.snap, c.err
}

// Years returns the year list of the current snapshot.
func (c *PollCache) Years() []int {
	c.mu.RLock()
	years := c.years
	c.mu.RUnlock()
	if years == nil {
		return poll.ExtractYears(nil)
	}
	return years
}

// Load fetches the feed unless a snapshot is already present. Concurrent
// callers wait for the single in-flight fetch.
func (c *PollCache) Load(ctx context.Context) (poll.Snapshot, error) {
	c.loadMu.Lock()
	defer c.loadMu.Unlock()

	c.mu.RLock()
	state, snap := c.state, c.snap
	c.mu.RUnlock()
	if state == StateReady {
		return snap, nil
	}
	return c.fetch(ctx)
}

// Refresh re-fetches the feed. A failed refresh keeps serving the previous
// snapshot.
func (c *PollCache) Refresh(ctx context.Context) (poll.Snapshot, error) {
	if !c.limiter.Allow() {
		_, snap, _ := c.Status()
		return snap, ErrRefreshThrottled
	}
	c.loadMu.Lock()
	defer c.loadMu.Unlock()
	return c.fetch(ctx)
}

// fetch must be called with loadMu held.
func (c *PollCache) fetch(ctx context.Context) (poll.Snapshot, error) {
	start := time.Now()
	snap, err := c.src.Fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.err = err
		if c.state != StateReady {
			c.state = StateFailed
		}
		c.logf(false, "feed load failed after %s: %v", time.Since(start), err)
		return c.snap, err
	}
	c.snap = snap
	c.years = poll.ExtractYears(snap.Posts)
	c.state = StateReady
	c.err = nil
	c.logf(true, "feed loaded: %d posts in %s", len(snap.Posts), time.Since(start))
	return snap, nil
}

func (c *PollCache) logf(ok bool, format string, args ...any) {
	if c.logger == nil {
		return
	}
	if ok {
		c.logger.Infof(format, args...)
	} else {
		c.logger.Errorf(format, args...)
	}
}
