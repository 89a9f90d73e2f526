package scheduler

import (
	"context"
	"fmt"
	"time"

	"tutorhub/internal/domain/backup"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ReminderJobs is the part of the notification service driven by cron.
type ReminderJobs interface {
	CheckUpcomingClasses(ctx context.Context) (int, error)
	SendNextDayReminders(ctx context.Context) (int, error)
	SendDailyReport(ctx context.Context) (int, error)
}

// BackupJobs is the part of the backup service driven by cron.
type BackupJobs interface {
	Run(ctx context.Context, trigger backup.Trigger) (*backup.Log, error)
	Prune(ctx context.Context, retentionDays int) (int, error)
}

// Specs holds the cron expressions of every job. An empty spec disables the job.
type Specs struct {
	UpcomingCheck    string
	NextDayReminders string
	DailyReport      string
	AutoBackup       string
}

type JobScheduler struct {
	cronEngine    *cron.Cron
	reminders     ReminderJobs
	backups       BackupJobs
	retentionDays int
	specs         Specs
	logger        *logrus.Entry
}

func NewJobScheduler(
	reminders ReminderJobs,
	backups BackupJobs,
	retentionDays int,
	specs Specs,
	logger *logrus.Entry,
) *JobScheduler {
	cronLogger := cron.PrintfLogger(logger)
	return &JobScheduler{
		// Jobs work in UTC; a run that is still going when the next tick fires is skipped.
		cronEngine: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		reminders:     reminders,
		backups:       backups,
		retentionDays: retentionDays,
		specs:         specs,
		logger:        logger,
	}
}

type job struct {
	name    string
	spec    string
	timeout time.Duration
	run     func(ctx context.Context) (int, error)
}

func (s *JobScheduler) jobs() []job {
	return []job{
		{name: "upcoming-classes", spec: s.specs.UpcomingCheck, timeout: time.Minute, run: s.reminders.CheckUpcomingClasses},
		{name: "next-day-reminders", spec: s.specs.NextDayReminders, timeout: 5 * time.Minute, run: s.reminders.SendNextDayReminders},
		{name: "daily-report", spec: s.specs.DailyReport, timeout: time.Minute, run: s.reminders.SendDailyReport},
		{name: "auto-backup", spec: s.specs.AutoBackup, timeout: 30 * time.Minute, run: s.autoBackup},
	}
}

// Start registers every enabled job and starts the cron engine.
func (s *JobScheduler) Start() error {
	s.logger.Info("Starting job scheduler...")

	for _, j := range s.jobs() {
		j := j
		if j.spec == "" {
			s.logger.WithField("job", j.name).Info("Job disabled")
			continue
		}
		if _, err := s.cronEngine.AddFunc(j.spec, func() { s.runJob(j) }); err != nil {
			return fmt.Errorf("could not add %s cron job (%q): %w", j.name, j.spec, err)
		}
		s.logger.WithFields(logrus.Fields{"job": j.name, "spec": j.spec}).Debug("Job registered")
	}

	s.cronEngine.Start()
	s.logger.WithField("jobs", len(s.cronEngine.Entries())).Info("Job scheduler started")
	return nil
}

func (s *JobScheduler) runJob(j job) {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	started := time.Now()
	log := s.logger.WithField("job", j.name)
	n, err := j.run(ctx)
	if err != nil {
		log.WithError(err).Error("Cron job failed")
		return
	}
	log.WithFields(logrus.Fields{"processed": n, "took": time.Since(started).String()}).Debug("Cron job finished")
}

func (s *JobScheduler) autoBackup(ctx context.Context) (int, error) {
	if _, err := s.backups.Run(ctx, backup.TriggerAuto); err != nil {
		return 0, err
	}
	return s.backups.Prune(ctx, s.retentionDays)
}

// Stop stops the cron engine and waits for running jobs to finish.
func (s *JobScheduler) Stop() {
	s.logger.Info("Stopping job scheduler...")
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
	s.logger.Info("Job scheduler gracefully stopped.")
}
