// Package jobs contains background workers.
package jobs

import (
	"log/slog"
	"sync"
	"time"
)

// FileRemover deletes a stored file. Removal of a missing file must succeed.
type FileRemover interface {
	Remove(path string) error
}

// CleanupReaper removes orphaned image files in the background. Discard
// tries to delete immediately; paths that fail (file locked, transient I/O
// error) are queued and retried on an interval. Removal is best-effort and
// never blocks or fails the request that triggered it.
type CleanupReaper struct {
	remover  FileRemover
	interval time.Duration
	logger   *slog.Logger
	stopCh   chan struct{}
	wg       sync.WaitGroup
	running  bool
	mu       sync.Mutex
	pending  []string
}

// NewCleanupReaper creates a new cleanup reaper
func NewCleanupReaper(remover FileRemover, interval time.Duration, logger *slog.Logger) *CleanupReaper {
	if interval == 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CleanupReaper{
		remover:  remover,
		interval: interval,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

// Discard attempts to remove the file now, queuing it for retry on failure
func (r *CleanupReaper) Discard(path string) {
	if path == "" {
		return
	}

	if err := r.remover.Remove(path); err != nil {
		r.logger.Warn("file cleanup failed, queuing for retry",
			"path", path, "error", err)
		r.mu.Lock()
		r.pending = append(r.pending, path)
		r.mu.Unlock()
		return
	}
	r.logger.Debug("discarded file", "path", path)
}

// Start begins the retry loop
func (r *CleanupReaper) Start() {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.mu.Unlock()

	r.wg.Add(1)
	go r.run()
	r.logger.Info("cleanup reaper started", "interval", r.interval)
}

// Stop gracefully stops the retry loop after a final drain attempt
func (r *CleanupReaper) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.mu.Unlock()

	close(r.stopCh)
	r.wg.Wait()
	r.drain()
	r.logger.Info("cleanup reaper stopped")
}

// Pending returns the number of paths awaiting retry
func (r *CleanupReaper) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// IsRunning returns whether the retry loop is active
func (r *CleanupReaper) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// run is the main loop
func (r *CleanupReaper) run() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.drain()
		case <-r.stopCh:
			return
		}
	}
}

// drain retries every queued path once, requeueing the ones that still fail
func (r *CleanupReaper) drain() {
	r.mu.Lock()
	batch := r.pending
	r.pending = nil
	r.mu.Unlock()

	if len(batch) == 0 {
		return
	}

	var failed []string
	for _, path := range batch {
		if err := r.remover.Remove(path); err != nil {
			r.logger.Warn("file cleanup retry failed", "path", path, "error", err)
			failed = append(failed, path)
			continue
		}
		r.logger.Debug("discarded file on retry", "path", path)
	}

	if len(failed) > 0 {
		r.mu.Lock()
		r.pending = append(r.pending, failed...)
		r.mu.Unlock()
	}
}
