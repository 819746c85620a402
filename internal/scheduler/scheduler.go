package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"BitcoinHindsight/internal/collector"
	"BitcoinHindsight/internal/dates"
)

// ProbeStatus is the outcome of the most recent source probe.
type ProbeStatus struct {
	Source    string    `json:"source"`
	CheckedAt time.Time `json:"checked_at,omitempty"`
	Date      string    `json:"date,omitempty"`
	OK        bool      `json:"ok"`
	Error     string    `json:"error,omitempty"`
}

// Scheduler periodically checks that the price source has published yesterday's close.
type Scheduler struct {
	Cron    *cron.Cron
	Fetcher collector.Fetcher
	Ctx     context.Context

	now     func() time.Time
	loc     *time.Location
	timeout time.Duration
	log     zerolog.Logger

	mu     sync.RWMutex
	status ProbeStatus
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, fetcher collector.Fetcher, loc *time.Location, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:    cron.New(cron.WithSeconds()),
		Fetcher: fetcher,
		Ctx:     ctx,
		now:     time.Now,
		loc:     loc,
		timeout: 30 * time.Second,
		log:     log.With().Str("component", "scheduler").Logger(),
		status:  ProbeStatus{Source: fetcher.Name()},
	}
}

// RegisterAll registers the source probe.
func (s *Scheduler) RegisterAll(probeCron string) error {
	if _, err := s.Cron.AddFunc(probeCron, s.probeTask); err != nil {
		return fmt.Errorf("register probe task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running probe to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// RunProbeNow executes the probe immediately (RUN_ON_START).
func (s *Scheduler) RunProbeNow() {
	s.probeTask()
}

// Status returns a copy of the last probe result.
func (s *Scheduler) Status() ProbeStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *Scheduler) probeTask() {
	date := dates.Format(dates.SellDate(dates.Today(s.now(), s.loc)))
	ctx, cancel := context.WithTimeout(s.Ctx, s.timeout)
	defer cancel()

	status := ProbeStatus{Source: s.Fetcher.Name(), CheckedAt: s.now(), Date: date}
	price, err := s.Fetcher.FetchClosePrice(ctx, date)
	if err != nil {
		status.Error = err.Error()
		s.log.Warn().Err(err).Str("date", date).Msg("price source probe failed")
	} else {
		status.OK = true
		s.log.Info().Str("date", date).Str("price", price.String()).Msg("price source probe ok")
	}

	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}
