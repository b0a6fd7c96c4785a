package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/robfig/cron/v3"
)

// Job is a unit of periodic work.
type Job interface {
	Name() string
	Run()
}

// Scheduler runs jobs on cron specs ("@every 1h", "0 3 * * *") in the dashboard's time zone.
// A run still in progress makes the next one skip; panics are logged and recovered.
type Scheduler struct {
	cron *cron.Cron
}

func NewScheduler(loc *time.Location) *Scheduler {
	logger := cron.PrintfLogger(log.New("cron"))
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
	}
}

func (s *Scheduler) Register(spec string, job Job) error {
	if _, err := s.cron.AddFunc(spec, job.Run); err != nil {
		return fmt.Errorf("failed to schedule %s with %q: %w", job.Name(), spec, err)
	}

	log.Infof("%s scheduled (%s)", job.Name(), spec)
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs and waits for running ones until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		log.Info("scheduler stopped")
	case <-ctx.Done():
		log.Warn("scheduler stop timed out with jobs still running")
	}
}
