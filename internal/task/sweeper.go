package task

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrAlreadyStarted is returned when Start is called on a running sweeper.
var ErrAlreadyStarted = errors.New("sweeper already started")

// Evictor removes expired entries and reports how many were removed.
type Evictor interface {
	EvictExpired(ctx context.Context) (int, error)
}

// SweeperConfig holds configuration for the sweeper
type SweeperConfig struct {
	// Interval defines how often expired entries are evicted.
	// If zero, defaults to 5 minutes
	Interval time.Duration

	// Timeout bounds a single eviction pass.
	// If zero, defaults to 30 seconds
	Timeout time.Duration
}

// DefaultSweeperConfig returns a SweeperConfig with reasonable defaults
func DefaultSweeperConfig() SweeperConfig {
	return SweeperConfig{
		Interval: 5 * time.Minute,
		Timeout:  30 * time.Second,
	}
}

// Sweeper periodically calls an Evictor until stopped.
type Sweeper struct {
	evictor    Evictor
	config     SweeperConfig
	logger     *slog.Logger
	mu         sync.Mutex
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	errHandler func(err error)
}

// NewSweeper creates a new Sweeper
func NewSweeper(evictor Evictor, config SweeperConfig, logger *slog.Logger) *Sweeper {
	defaults := DefaultSweeperConfig()
	if config.Interval <= 0 {
		config.Interval = defaults.Interval
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "sweeper"))

	return &Sweeper{
		evictor: evictor,
		config:  config,
		logger:  logger,
		errHandler: func(err error) {
			// Default error handler just logs the error
			logger.Error("eviction pass failed", slog.String("error", err.Error()))
		},
	}
}

// SetErrorHandler allows setting a custom error handler function
func (s *Sweeper) SetErrorHandler(handler func(err error)) {
	s.errHandler = handler
}

// Start begins the periodic eviction loop. The loop ends when ctx is
// cancelled or Stop is called.
func (s *Sweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelFunc != nil {
		return ErrAlreadyStarted
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancelFunc = cancel

	s.wg.Add(1)
	go s.loop(runCtx)

	s.logger.Info("sweeper started", slog.Duration("interval", s.config.Interval))
	return nil
}

// Stop gracefully shuts down the sweeper and waits for an in-flight pass.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	cancel := s.cancelFunc
	s.cancelFunc = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	s.wg.Wait()
	s.logger.Info("sweeper stopped")
}

// RunOnce performs a single eviction pass.
func (s *Sweeper) RunOnce(ctx context.Context) (int, error) {
	passCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	n, err := s.evictor.EvictExpired(passCtx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("evicted expired datasets", slog.Int("count", n))
	} else {
		s.logger.Debug("no expired datasets to evict")
	}
	return n, nil
}

func (s *Sweeper) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
				s.errHandler(err)
			}
		}
	}
}
