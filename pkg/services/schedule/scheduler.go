package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/sumedhd1118/chargback-export/pkg/models/domain"
	"github.com/sumedhd1118/chargback-export/pkg/services/export"
)

// DefaultSpec fires at 10:00 on the first day of every month.
const DefaultSpec = "0 10 1 * *"

// RunRecord is the outcome of the most recent scheduled cycle.
type RunRecord struct {
	Period     domain.Period
	StartedAt  time.Time
	FinishedAt time.Time
	FilePath   string
	Rows       int
	Err        error
}

// Status is a point in time view of the scheduler.
type Status struct {
	Spec    string
	NextRun time.Time
	LastRun *RunRecord
}

type Config struct {
	Spec     string
	Location *time.Location
}

// Scheduler exports the previous calendar month each time its cron spec fires.
type Scheduler struct {
	spec     string
	schedule cron.Schedule
	location *time.Location
	exporter export.Exporter
	cron     *cron.Cron
	ctx      context.Context
	now      func() time.Time

	mu      sync.Mutex
	lastRun *RunRecord
}

func NewScheduler(ctx context.Context, cfg Config, exporter export.Exporter) (*Scheduler, error) {
	if exporter == nil {
		return nil, fmt.Errorf("exporter is nil")
	}
	if cfg.Spec == "" {
		cfg.Spec = DefaultSpec
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	sched, err := cron.ParseStandard(cfg.Spec)
	if err != nil {
		return nil, domain.NewConfigurationError("", fmt.Sprintf("invalid cron schedule %q: %v", cfg.Spec, err))
	}

	logger := zerolog.Ctx(ctx)
	cronLogger := cronLogAdapter{logger: logger}

	s := &Scheduler{
		spec:     cfg.Spec,
		schedule: sched,
		location: cfg.Location,
		exporter: exporter,
		ctx:      ctx,
		now:      time.Now,
	}
	s.cron = cron.New(
		cron.WithLocation(cfg.Location),
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)
	if _, err := s.cron.AddFunc(cfg.Spec, func() {
		s.Fire(s.now().In(s.location))
	}); err != nil {
		return nil, domain.NewConfigurationError("", fmt.Sprintf("register cron schedule %q: %v", cfg.Spec, err))
	}

	return s, nil
}

// Start begins waiting for the next fire. Nothing runs on registration.
func (s *Scheduler) Start() {
	zerolog.Ctx(s.ctx).Info().
		Str("spec", s.spec).
		Time("next_run", s.Next()).
		Msg("monthly chargeback scheduler started")
	s.cron.Start()
}

// Stop halts the scheduler and returns a context done once any running cycle has finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// Next returns the upcoming fire time.
func (s *Scheduler) Next() time.Time {
	return s.schedule.Next(s.now().In(s.location))
}

// Fire runs one cycle for the month preceding now. Failures and panics are
// logged and recorded, and never propagate to the caller.
func (s *Scheduler) Fire(now time.Time) {
	period := domain.PreviousMonth(now)
	logger := zerolog.Ctx(s.ctx).With().Str("period", period.Label()).Logger()
	record := &RunRecord{Period: period, StartedAt: now}

	defer func() {
		if r := recover(); r != nil {
			record.Err = fmt.Errorf("panic during scheduled export: %v", r)
			logger.Error().Err(record.Err).Msg("scheduled export crashed")
		}
		record.FinishedAt = s.now()
		s.mu.Lock()
		s.lastRun = record
		s.mu.Unlock()
	}()

	logger.Info().Msg("scheduled chargeback export fired")
	summary, err := s.exporter.Run(logger.WithContext(s.ctx), period)
	if err != nil {
		record.Err = err
		logger.Error().Err(err).Msg("scheduled export failed")
		return
	}
	record.FilePath = summary.FilePath
	record.Rows = summary.Rows
}

func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := Status{Spec: s.spec, NextRun: s.Next()}
	if s.lastRun != nil {
		last := *s.lastRun
		status.LastRun = &last
	}
	return status
}

// cronLogAdapter routes cron's internal logging through zerolog.
type cronLogAdapter struct {
	logger *zerolog.Logger
}

func (a cronLogAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (a cronLogAdapter) Error(err error, msg string, keysAndValues ...interface{}) {
	a.logger.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
