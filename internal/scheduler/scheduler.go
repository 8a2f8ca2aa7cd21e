package scheduler

import (
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-widget/internal/store"
)

// DefaultInterval is used when the configured sweep interval is not positive.
const DefaultInterval = 5 * time.Minute

// Sweeper periodically unmounts idle widget sessions.
type Sweeper struct {
	scheduler *gocron.Scheduler
	sessions  *store.SessionStore
	interval  time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// New creates a new Sweeper.
func New(sessions *store.SessionStore, interval time.Duration, logger *slog.Logger) *Sweeper {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{
		scheduler: gocron.NewScheduler(time.UTC),
		sessions:  sessions,
		interval:  interval,
		logger:    logger,
		now:       time.Now,
	}
}

// Start schedules the periodic sweep and starts the underlying scheduler.
func (s *Sweeper) Start() error {
	_, err := s.scheduler.Every(s.interval).SingletonMode().Do(func() {
		s.RunOnce()
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.logger.Info("session sweeper started", "interval", s.interval)
	return nil
}

// RunOnce sweeps idle sessions now and returns how many were unmounted.
func (s *Sweeper) RunOnce() int {
	n := s.sessions.Sweep(s.now())
	if n > 0 {
		s.logger.Info("swept idle widget sessions", "removed", n, "remaining", s.sessions.Len())
	}
	return n
}

// Stop stops the scheduler and cancels any future sweeps.
func (s *Sweeper) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
