package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"github.com/fractal-nyc/attendabot/core"
)

const jobTimeout = 5 * time.Minute

// Runner schedules the bot's jobs. All specs fire in the bot's
// configured timezone, not the host's.
type Runner struct {
	cron   *cron.Cron
	logger core.Logger
}

func NewRunner(b *Bot, conf *core.Config, logger core.Logger) (*Runner, error) {
	c := cron.New(cron.WithLocation(b.loc))

	jobs := []struct {
		name string
		spec string
		run  func(context.Context) error
	}{
		{"morning reminder", conf.Bot.MorningSpec, b.MorningReminder},
		{"attendance check", conf.Bot.AttendanceSpec, b.AttendanceCheck},
		{"midday PR check", conf.Bot.MiddaySpec, b.MiddayPRCheck},
		{"EOD check", conf.Bot.EODSpec, b.EODCheck},
		{"message archive", conf.Bot.ArchiveSpec, b.Archive},
	}
	for _, job := range jobs {
		job := job
		_, err := c.AddFunc(job.spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()

			logger.Info("running job: " + job.name)
			if err := job.run(ctx); err != nil {
				logger.Error(fmt.Sprintf("job %s: %v", job.name, err), err)
			}
		})
		if err != nil {
			return nil, errors.Wrapf(err, "scheduling %s (%q)", job.name, job.spec)
		}
	}
	return &Runner{cron: c, logger: logger}, nil
}

func (r *Runner) Start() {
	r.logger.Info("starting job scheduler")
	r.cron.Start()
}

// Stop halts scheduling and waits for any running job to finish.
func (r *Runner) Stop() {
	stopCtx := r.cron.Stop()
	<-stopCtx.Done()
	r.logger.Info("job scheduler stopped")
}
