package ratelimiter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// entry is a per-key window counter. resetAt only moves forward: a rollover
// always sets it strictly past the previous value.
type entry struct {
	count   int
	resetAt time.Time
}

// MemoryStore implements Store with per-process window counters. It is the
// fallback path when the shared store is unreachable: counting degrades to
// per-instance accuracy, which is the documented availability/consistency
// tradeoff for abuse prevention.
//
// A MemoryStore is an owned component with its own lifecycle: create one per
// process, call Start (or Run with an errgroup) to begin sweeping expired
// entries, and Stop on shutdown. Tests can build isolated instances.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*entry

	// Configuration
	sweepInterval   time.Duration
	shutdownTimeout time.Duration
	logger          *slog.Logger

	// State management
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Observability metrics
	entriesCreated atomic.Int64
	entriesSwept   atomic.Int64
}

// MemoryStoreStats provides observability metrics for monitoring and debugging.
type MemoryStoreStats struct {
	EntriesCreated int64 // Total number of counter entries created
	EntriesSwept   int64 // Total number of expired entries removed
	ActiveEntries  int   // Current number of live entries
	IsRunning      bool  // Whether the sweep goroutine is running
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithSweepInterval sets how often expired entries are removed.
func WithSweepInterval(interval time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		ms.sweepInterval = interval
	}
}

// WithMemoryStoreShutdownTimeout sets the graceful shutdown timeout.
func WithMemoryStoreShutdownTimeout(timeout time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if timeout > 0 {
			ms.shutdownTimeout = timeout
		}
	}
}

// WithMemoryStoreLogger sets the logger for internal operations.
func WithMemoryStoreLogger(logger *slog.Logger) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if logger != nil {
			ms.logger = logger
		}
	}
}

// NewMemoryStore creates a new in-memory store.
// Call Start() to begin background sweeping.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	ms := &MemoryStore{
		entries:         make(map[string]*entry),
		sweepInterval:   time.Minute,
		shutdownTimeout: 30 * time.Second,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(ms)
	}

	return ms
}

// Take implements Store. The whole prune-count-record sequence runs under
// one lock, so a single instance never over-admits.
func (ms *MemoryStore) Take(ctx context.Context, key string, cfg Config, now time.Time) (TakeResult, error) {
	if key == "" {
		return TakeResult{}, ErrEmptyKey
	}
	if err := cfg.Validate(); err != nil {
		return TakeResult{}, err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	e, exists := ms.entries[key]
	if !exists {
		e = &entry{resetAt: now.Add(cfg.Window)}
		ms.entries[key] = e
		ms.entriesCreated.Add(1)
	} else if !now.Before(e.resetAt) {
		// Rollover: the window expired. resetAt must keep increasing so a
		// denied caller's retry hint never moves backwards.
		e.count = 0
		e.resetAt = now.Add(cfg.Window)
	}

	res := TakeResult{Count: e.count, ResetAt: e.resetAt}
	if e.count < cfg.Limit {
		e.count++
		res.Recorded = true
	}
	return res, nil
}

// Reset removes the counter for a key.
func (ms *MemoryStore) Reset(ctx context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.entries, key)
	return nil
}

// Start begins the background sweep goroutine. This is a blocking operation
// that runs until the context is cancelled. Use Run() for errgroup pattern
// or call this in a goroutine.
func (ms *MemoryStore) Start(ctx context.Context) error {
	ms.mu.Lock()
	if ms.cancel != nil {
		ms.mu.Unlock()
		return fmt.Errorf("memory store already started")
	}
	if ms.sweepInterval <= 0 {
		ms.mu.Unlock()
		return fmt.Errorf("sweep interval must be > 0, got %v (use WithSweepInterval to configure)", ms.sweepInterval)
	}

	ms.ctx, ms.cancel = context.WithCancel(ctx)
	ms.mu.Unlock()

	ms.logger.InfoContext(ms.ctx, "memory store sweep started",
		slog.Duration("sweep_interval", ms.sweepInterval))

	ticker := time.NewTicker(ms.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ms.ctx.Done():
			ms.logger.InfoContext(context.Background(), "memory store sweep stopping")
			return ms.ctx.Err()
		case <-ticker.C:
			ms.sweepWithWait()
		}
	}
}

// Stop gracefully shuts down the background sweep with a timeout.
// Returns an error if the shutdown timeout is exceeded.
func (ms *MemoryStore) Stop() error {
	ms.mu.Lock()
	if ms.cancel == nil {
		ms.mu.Unlock()
		return fmt.Errorf("memory store not started")
	}

	cancel := ms.cancel
	ms.cancel = nil
	ms.mu.Unlock()

	cancel()

	ctx, ctxCancel := context.WithTimeout(context.Background(), ms.shutdownTimeout)
	defer ctxCancel()

	done := make(chan struct{})
	go func() {
		ms.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		ms.logger.InfoContext(context.Background(), "memory store stopped cleanly")
		return nil
	case <-ctx.Done():
		ms.logger.WarnContext(context.Background(), "memory store shutdown timeout exceeded",
			slog.Duration("timeout", ms.shutdownTimeout))
		return fmt.Errorf("shutdown timeout exceeded after %s", ms.shutdownTimeout)
	}
}

// Run provides errgroup compatibility for coordinated lifecycle management.
// Returns a function that starts the sweep loop, monitors context
// cancellation, and performs graceful shutdown when the context is cancelled.
func (ms *MemoryStore) Run(ctx context.Context) func() error {
	return func() error {
		errCh := make(chan error, 1)
		go func() {
			errCh <- ms.Start(ctx)
		}()

		select {
		case <-ctx.Done():
			_ = ms.Stop() // Ignore stop error in normal shutdown
			<-errCh       // Wait for Start() to exit
			return nil
		case err := <-errCh:
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
	}
}

// sweepWithWait wraps removeExpired so Stop can wait for an in-flight sweep.
func (ms *MemoryStore) sweepWithWait() {
	ms.mu.Lock()
	if ms.cancel == nil {
		ms.mu.Unlock()
		return
	}
	ms.wg.Add(1)
	ms.mu.Unlock()

	defer ms.wg.Done()
	ms.removeExpired()
}

// removeExpired drops entries whose window has fully elapsed. Expired
// entries carry no information (a Take would roll them over anyway), so
// removing them only bounds memory.
func (ms *MemoryStore) removeExpired() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := time.Now()
	removed := 0
	for key, e := range ms.entries {
		if !now.Before(e.resetAt) {
			delete(ms.entries, key)
			removed++
		}
	}

	if removed > 0 {
		ms.entriesSwept.Add(int64(removed))
	}
}

// Stats returns current memory store statistics for observability.
// This method is thread-safe and can be called at any time.
func (ms *MemoryStore) Stats() MemoryStoreStats {
	ms.mu.Lock()
	isRunning := ms.cancel != nil
	active := len(ms.entries)
	ms.mu.Unlock()

	return MemoryStoreStats{
		EntriesCreated: ms.entriesCreated.Load(),
		EntriesSwept:   ms.entriesSwept.Load(),
		ActiveEntries:  active,
		IsRunning:      isRunning,
	}
}

// Healthcheck validates that the memory store is operational.
func (ms *MemoryStore) Healthcheck(ctx context.Context) error {
	stats := ms.Stats()

	if ms.sweepInterval > 0 && !stats.IsRunning {
		return fmt.Errorf("sweep is configured but not running")
	}

	return nil
}
