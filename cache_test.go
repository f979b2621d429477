package pollboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestPollCacheLoadsOnce(t *testing.T) {
	src := &fakeSource{snap: fixtureSnapshot()}
	c := NewPollCache(src, time.Minute, nil)

	if state, _, _ := c.Status(); state != StateLoading {
		t.Fatalf("initial state = %s, want loading", state)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Load(context.Background()); err != nil {
				t.Errorf("load: %v", err)
			}
		}()
	}
	wg.Wait()

	if src.callCount() != 1 {
		t.Fatalf("fetched %d times, want 1", src.callCount())
	}
	state, snap, err := c.Status()
	if state != StateReady || err != nil || len(snap.Posts) != 4 {
		t.Fatalf("status = %s, %d posts, %v", state, len(snap.Posts), err)
	}
	if years := c.Years(); len(years) != 2 || years[0] != 2024 || years[1] != 2023 {
		t.Fatalf("years = %v", years)
	}
}

func TestPollCacheFailedLoad(t *testing.T) {
	src := &fakeSource{err: errors.New("unreachable")}
	c := NewPollCache(src, time.Minute, nil)

	if _, err := c.Load(context.Background()); err == nil {
		t.Fatal("expected load error")
	}
	state, _, err := c.Status()
	if state != StateFailed || err == nil {
		t.Fatalf("status = %s, %v", state, err)
	}
	if years := c.Years(); len(years) != 1 || years[0] != time.Now().Year() {
		t.Fatalf("years without data = %v, want current year", years)
	}

	// Load retries after a failure.
	src.mu.Lock()
	src.err = nil
	src.snap = fixtureSnapshot()
	src.mu.Unlock()
	if _, err := c.Load(context.Background()); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if state, _, _ := c.Status(); state != StateReady {
		t.Fatalf("state after retry = %s", state)
	}
}

func TestPollCacheRefreshKeepsSnapshotOnError(t *testing.T) {
	src := &fakeSource{snap: fixtureSnapshot()}
	c := NewPollCache(src, 0, nil)
	if _, err := c.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	src.mu.Lock()
	src.err = errors.New("upstream down")
	src.mu.Unlock()

	snap, err := c.Refresh(context.Background())
	if err == nil {
		t.Fatal("expected refresh error")
	}
	if len(snap.Posts) != 4 {
		t.Fatalf("refresh error should return the previous snapshot, got %d posts", len(snap.Posts))
	}
	state, kept, lastErr := c.Status()
	if state != StateReady || len(kept.Posts) != 4 || lastErr == nil {
		t.Fatalf("status = %s, %d posts, %v", state, len(kept.Posts), lastErr)
	}
}

func TestPollCacheRefreshThrottle(t *testing.T) {
	src := &fakeSource{snap: fixtureSnapshot()}
	c := NewPollCache(src, time.Hour, nil)
	c.Load(context.Background())

	if _, err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("first refresh: %v", err)
	}
	snap, err := c.Refresh(context.Background())
	if !errors.Is(err, ErrRefreshThrottled) {
		t.Fatalf("second refresh err = %v, want ErrRefreshThrottled", err)
	}
	if len(snap.Posts) != 4 {
		t.Fatal("throttled refresh should still return the snapshot")
	}
	if src.callCount() != 2 {
		t.Fatalf("fetched %d times, want 2", src.callCount())
	}
}

func TestPollCacheRefreshUnthrottled(t *testing.T) {
	src := &fakeSource{snap: fixtureSnapshot()}
	c := NewPollCache(src, 0, nil)

	for i := 0; i < 3; i++ {
		if _, err := c.Refresh(context.Background()); err != nil {
			t.Fatalf("refresh %d: %v", i, err)
		}
	}
	if src.callCount() != 3 {
		t.Fatalf("fetched %d times, want 3", src.callCount())
	}
}

func TestLoadStateString(t *testing.T) {
	for state, want := range map[LoadState]string{
		StateLoading: "loading",
		StateReady:   "ready",
		StateFailed:  "failed",
	} {
		if got := state.String(); got != want {
			t.Fatalf("%d.String() = %q, want %q", state, got, want)
		}
	}
}
