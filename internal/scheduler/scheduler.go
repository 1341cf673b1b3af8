package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-dashboard/internal/observability"
)

// KeyValidator checks the remote API key with one lookup.
type KeyValidator interface {
	ProviderName() string
	ValidateKey(ctx context.Context) error
}

// KeyStatus is the outcome of the most recent key check.
type KeyStatus struct {
	Checked   bool      `json:"checked"`
	Valid     bool      `json:"valid"`
	CheckedAt time.Time `json:"checkedAt,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Scheduler periodically validates the remote API key. Every check spends
// quota, so it only runs when an interval is configured.
type Scheduler struct {
	scheduler *gocron.Scheduler
	validator KeyValidator
	interval  time.Duration
	metrics   *observability.Metrics
	logger    *slog.Logger

	mu     sync.RWMutex
	status KeyStatus
}

// New creates a new Scheduler.
func New(validator KeyValidator, interval time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		validator: validator,
		interval:  interval,
		metrics:   metrics,
		logger:    logger,
	}
}

// Start schedules the periodic key check and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		s.logger.Info("scheduler: key check disabled")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 1
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		s.Check(ctx)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Check validates the key once and records the result.
func (s *Scheduler) Check(ctx context.Context) KeyStatus {
	err := s.validator.ValidateKey(ctx)

	st := KeyStatus{
		Checked:   true,
		Valid:     err == nil,
		CheckedAt: time.Now().UTC(),
	}
	if err != nil {
		st.Error = err.Error()
		s.metrics.APIKeyValid.Set(0)
		s.logger.Warn("api key check failed", "provider", s.validator.ProviderName(), "error", err)
	} else {
		s.metrics.APIKeyValid.Set(1)
		s.logger.Info("api key check passed", "provider", s.validator.ProviderName())
	}

	s.mu.Lock()
	s.status = st
	s.mu.Unlock()
	return st
}

// Status returns the result of the last check.
func (s *Scheduler) Status() KeyStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
