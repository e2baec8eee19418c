// Package bot runs attendabot's scheduled classroom jobs: the morning
// assignment post, the attendance and PR checks, the end-of-day wrap-up
// and the message archive.
package bot

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/fractal-nyc/attendabot/core"
	"github.com/fractal-nyc/attendabot/core/cohort"
	"github.com/fractal-nyc/attendabot/core/curriculum"
	"github.com/fractal-nyc/attendabot/core/message"
)

type (
	// ChannelHistory fetches a channel's messages created at or after a
	// point in time, oldest first.
	ChannelHistory interface {
		ChannelMessagesSince(ctx context.Context, channelID string, since time.Time) ([]message.Message, error)
	}

	// Announcer posts a message to a channel.
	Announcer interface {
		Announce(ctx context.Context, channelID, content string) error
	}

	// Client is the full Discord surface the jobs need.
	Client interface {
		ChannelHistory
		Announcer
	}

	Bot struct {
		discord  Client
		cohorts  *cohort.Service
		messages *message.Service
		table    curriculum.Table
		conf     *core.Config
		logger   core.Logger
		loc      *time.Location

		nowFunc func() time.Time // overridable in tests
	}
)

func New(
	discord Client,
	cohorts *cohort.Service,
	messages *message.Service,
	table curriculum.Table,
	conf *core.Config,
	logger core.Logger,
) (*Bot, error) {
	loc, err := time.LoadLocation(conf.Bot.Timezone)
	if err != nil {
		return nil, errors.Wrapf(err, "loading timezone %s", conf.Bot.Timezone)
	}
	return &Bot{
		discord:  discord,
		cohorts:  cohorts,
		messages: messages,
		table:    table,
		conf:     conf,
		logger:   logger,
		loc:      loc,
		nowFunc:  time.Now,
	}, nil
}

// today returns the current calendar date in the bot's timezone as
// YYYY-MM-DD. All day-boundary math downstream keys off this string.
func (b *Bot) today() string {
	return b.nowFunc().In(b.loc).Format("2006-01-02")
}

// activeCohorts returns cohorts that have a schedule position today.
// Sundays, pre-start and post-graduation dates all come back empty.
func (b *Bot) activeCohorts(ctx context.Context) ([]cohort.Cohort, error) {
	all, err := b.cohorts.QueryAll(ctx)
	if err != nil {
		return nil, err
	}
	date := b.nowFunc().In(b.loc)

	var active []cohort.Cohort
	for _, c := range all {
		if _, ok := curriculum.PositionFor(date, c.Schedule()); ok {
			active = append(active, c)
		}
	}
	return active, nil
}
