package scheduler

import (
	"github.com/robfig/cron/v3"

	applogger "MacroPull/pkg/logger"
)

// Job is a named unit of periodic work.
type Job interface {
	Run() error
	Name() string
}

// Scheduler runs the refresh loops on cron schedules.
type Scheduler struct {
	cron *cron.Cron
	log  *applogger.Logger
}

func New(log *applogger.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		log:  log,
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started")
}

// Stop blocks until any in-flight job has finished.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("scheduler stopped")
}

// AddJob registers a job under a standard cron expression or a descriptor
// like "@every 5m".
func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		if err := job.Run(); err != nil {
			s.log.Error("scheduled job failed",
				applogger.String("job", job.Name()),
				applogger.Error(err),
			)
		}
	})
	if err != nil {
		return err
	}
	s.log.Info("job registered",
		applogger.String("job", job.Name()),
		applogger.String("schedule", schedule),
	)
	return nil
}

// FuncJob adapts a bare function into a Job.
type FuncJob struct {
	JobName string
	Fn      func() error
}

func (f FuncJob) Run() error   { return f.Fn() }
func (f FuncJob) Name() string { return f.JobName }
