package app

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob(ctx context.Context) error {
	loc, err := time.LoadLocation(a.appConfig.System.Location)
	if err != nil {
		loc = time.Local
	}
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	jobs := []struct {
		name string
		spec string
		fn   func(context.Context)
	}{
		{"catalog_refresh", a.appConfig.Jobs.CatalogRefresh, a.SchedCatalogRefreshTask},
		{"rates_update", a.appConfig.Jobs.RatesUpdate, a.SchedRatesUpdateTask},
	}
	for _, job := range jobs {
		if job.spec == "" {
			continue
		}
		fn := job.fn
		if _, err := a.sched.AddFunc(job.spec, func() { fn(ctx) }); err != nil {
			return errors.Wrapf(err, "schedule %s", job.name)
		}
		zap.L().Info("job scheduled",
			zap.String("namespace", "app"),
			zap.String("job", job.name),
			zap.String("spec", job.spec),
		)
	}

	a.sched.Start()
	return nil
}
