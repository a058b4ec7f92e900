package cron

import (
	"context"
	"time"

	"github.com/mileusna/crontab"
	"leadgen.ai/leadgen-api/app/domain/project"
	"leadgen.ai/leadgen-api/app/utils/logger"
	"leadgen.ai/leadgen-api/config/environment_variables"
)

const (
	refreshStatsLock    = "leadgen:cron:refresh-project-stats"
	refreshStatsLockTTL = 10 * time.Minute
)

// JobLocker keeps a job to one replica at a time. acquired is false when
// another replica holds the lock.
type JobLocker interface {
	WithLock(ctx context.Context, name string, ttl time.Duration, fn func() error) (acquired bool, err error)
}

type CronService struct {
	projects *project.ProjectService
	locker   JobLocker
}

// NewCronService accepts a nil locker, in which case every replica runs
// every job.
func NewCronService(projects *project.ProjectService, locker JobLocker) *CronService {
	return &CronService{projects: projects, locker: locker}
}

func (cs *CronService) Start(ctx context.Context, ctab *crontab.Crontab) {
	ctab.MustAddJob("* * * * *", func() {
		environment_variables.EnvironmentVariables.LoadFromEnv()
		logger.SetLevel(environment_variables.EnvironmentVariables.LOG_LEVEL)
	})
	// counters drift when leads are deleted directly
	ctab.MustAddJob("*/15 * * * *", func() {
		cs.RefreshProjectStats(ctx)
	})
}

func (cs *CronService) RefreshProjectStats(ctx context.Context) {
	refresh := func() error {
		return cs.projects.RefreshAllStats(ctx)
	}
	var err error
	if cs.locker == nil {
		err = refresh()
	} else {
		var acquired bool
		acquired, err = cs.locker.WithLock(ctx, refreshStatsLock, refreshStatsLockTTL, refresh)
		if !acquired && err == nil {
			logger.GetLogger().Debug("project stats refresh running elsewhere, skipped")
			return
		}
	}
	if err != nil {
		logger.GetLogger().Errorf("failed to refresh project stats: %v", err)
	}
}
