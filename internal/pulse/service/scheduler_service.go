package service

import (
	"context"

	"marketpulse/internal/pulse/config"
	"marketpulse/pkg/logger"

	"github.com/robfig/cron/v3"
)

// SchedulerService runs the periodic cache warmer.
type SchedulerService interface {
	Start(ctx context.Context) error
	Stop()
}

// NewSchedulerService creates the cron-backed cache warmer.
func NewSchedulerService(cfg *config.Config, log *logger.Logger, pulseSvc PulseService) SchedulerService {
	return &schedulerService{
		cfg:      cfg,
		logger:   log,
		pulseSvc: pulseSvc,
		cron:     cron.New(),
	}
}

type schedulerService struct {
	cfg      *config.Config
	logger   *logger.Logger
	pulseSvc PulseService
	cron     *cron.Cron
}

// Start registers the refresh job and begins the cron loop.
func (s *schedulerService) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.cfg.Scheduler.RefreshSpec, func() {
		s.logger.Info("Running scheduled cache refresh")
		s.pulseSvc.RefreshAll(ctx)
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("Scheduler started", logger.StringField("spec", s.cfg.Scheduler.RefreshSpec))
	return nil
}

// Stop halts the cron loop, waiting for a running job to finish.
func (s *schedulerService) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}
