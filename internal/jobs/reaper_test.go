package jobs

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyRemover fails the first failures attempts per path, then succeeds
type flakyRemover struct {
	mu       sync.Mutex
	failures int
	attempts map[string]int
	removed  []string
}

func newFlakyRemover(failures int) *flakyRemover {
	return &flakyRemover{failures: failures, attempts: make(map[string]int)}
}

func (f *flakyRemover) Remove(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts[path]++
	if f.attempts[path] <= f.failures {
		return errors.New("device busy")
	}
	f.removed = append(f.removed, path)
	return nil
}

func (f *flakyRemover) removedPaths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.removed...)
}

func TestDiscard_RemovesImmediately(t *testing.T) {
	remover := newFlakyRemover(0)
	reaper := NewCleanupReaper(remover, time.Minute, nil)

	reaper.Discard("uploads/images/a.jpg")

	assert.Equal(t, []string{"uploads/images/a.jpg"}, remover.removedPaths())
	assert.Equal(t, 0, reaper.Pending())
}

func TestDiscard_QueuesOnFailure(t *testing.T) {
	remover := newFlakyRemover(1)
	reaper := NewCleanupReaper(remover, time.Minute, nil)

	reaper.Discard("uploads/images/a.jpg")

	assert.Empty(t, remover.removedPaths())
	assert.Equal(t, 1, reaper.Pending())
}

func TestDiscard_IgnoresEmptyPath(t *testing.T) {
	remover := newFlakyRemover(0)
	reaper := NewCleanupReaper(remover, time.Minute, nil)

	reaper.Discard("")

	assert.Empty(t, remover.removedPaths())
	assert.Equal(t, 0, reaper.Pending())
}

func TestReaper_RetriesQueuedPaths(t *testing.T) {
	remover := newFlakyRemover(1)
	reaper := NewCleanupReaper(remover, 10*time.Millisecond, nil)

	reaper.Discard("uploads/images/a.jpg")
	require.Equal(t, 1, reaper.Pending())

	reaper.Start()
	defer reaper.Stop()

	require.Eventually(t, func() bool {
		return reaper.Pending() == 0
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"uploads/images/a.jpg"}, remover.removedPaths())
}

func TestReaper_StopDrainsQueue(t *testing.T) {
	remover := newFlakyRemover(1)
	// Long interval so the ticker never fires; Stop performs the drain
	reaper := NewCleanupReaper(remover, time.Hour, nil)

	reaper.Start()
	reaper.Discard("uploads/images/a.jpg")
	require.Equal(t, 1, reaper.Pending())

	reaper.Stop()

	assert.Equal(t, 0, reaper.Pending())
	assert.Equal(t, []string{"uploads/images/a.jpg"}, remover.removedPaths())
}

func TestReaper_StartStopIdempotent(t *testing.T) {
	remover := newFlakyRemover(0)
	reaper := NewCleanupReaper(remover, time.Minute, nil)

	reaper.Start()
	reaper.Start()
	assert.True(t, reaper.IsRunning())

	reaper.Stop()
	reaper.Stop()
	assert.False(t, reaper.IsRunning())
}

func TestReaper_KeepsFailingPathsQueued(t *testing.T) {
	remover := newFlakyRemover(100)
	reaper := NewCleanupReaper(remover, 10*time.Millisecond, nil)

	reaper.Discard("uploads/images/stubborn.jpg")
	reaper.Start()

	// Give the loop a few ticks; the path should stay queued
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, reaper.Pending())

	// Stop's drain also fails; the path survives for a future process
	reaper.Stop()
	assert.Equal(t, 1, reaper.Pending())
}
