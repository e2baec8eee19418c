package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/fractal-nyc/attendabot/core/cohort"
	"github.com/fractal-nyc/attendabot/core/compliance"
	"github.com/fractal-nyc/attendabot/core/curriculum"
	"github.com/fractal-nyc/attendabot/core/message"
)

// MorningReminder posts the day's schedule position and assignment to
// each active cohort's attendance channel.
func (b *Bot) MorningReminder(ctx context.Context) error {
	active, err := b.activeCohorts(ctx)
	if err != nil {
		return err
	}
	date := b.nowFunc().In(b.loc)

	for _, c := range active {
		if c.AttendanceChannelID == "" {
			continue
		}
		pos, ok := curriculum.PositionFor(date, c.Schedule())
		if !ok {
			continue
		}

		var assignment *curriculum.Assignment
		if a, found := curriculum.AssignmentFor(date, c.Schedule(), b.table); found {
			assignment = &a
		}

		if err := b.discord.Announce(ctx, c.AttendanceChannelID, formatMorning(pos, assignment)); err != nil {
			b.logger.Error(fmt.Sprintf("morning reminder for cohort %s: %v", c.Name, err), err)
		}
	}
	return nil
}

// AttendanceCheck calls out students who have not posted in the
// attendance channel by the morning cutoff.
func (b *Bot) AttendanceCheck(ctx context.Context) error {
	return b.complianceSweep(ctx, sweep{
		clock:   compliance.AttendanceCutoffClock,
		channel: func(c cohort.Cohort) string { return c.AttendanceChannelID },
		announce: func(ctx context.Context, c cohort.Cohort, roster []cohort.Student, res compliance.Result) error {
			if len(res.Missing) == 0 {
				return nil
			}
			return b.discord.Announce(ctx, c.AttendanceChannelID,
				formatMissing("Attendance check: still waiting on a check-in from:", res.Missing))
		},
	})
}

// MiddayPRCheck nudges students who have not posted a PR link in the
// EOD channel by early afternoon.
func (b *Bot) MiddayPRCheck(ctx context.Context) error {
	return b.complianceSweep(ctx, sweep{
		clock:   compliance.MiddayCutoffClock,
		channel: func(c cohort.Cohort) string { return c.EODChannelID },
		announce: func(ctx context.Context, c cohort.Cohort, roster []cohort.Student, res compliance.Result) error {
			missing := missingIDs(roster, func(id string) bool { return res.PRCounts[id] > 0 })
			if len(missing) == 0 {
				return nil
			}
			return b.discord.Announce(ctx, c.EODChannelID,
				formatMissing("Midday check: no PR link posted yet from:", missing))
		},
	})
}

// EODCheck runs the end-of-day wrap-up: who missed their EOD post, plus
// the PR leaderboard. This is the only job that announces a leaderboard.
func (b *Bot) EODCheck(ctx context.Context) error {
	return b.complianceSweep(ctx, sweep{
		clock:   "23:59:59",
		channel: func(c cohort.Cohort) string { return c.EODChannelID },
		announce: func(ctx context.Context, c cohort.Cohort, roster []cohort.Student, res compliance.Result) error {
			if len(res.Missing) > 0 {
				msg := formatMissing("End of day: no EOD post from:", res.Missing)
				if err := b.discord.Announce(ctx, c.EODChannelID, msg); err != nil {
					return err
				}
			}

			board := compliance.Leaderboard(res.PRCounts, cohort.ExpectedIDs(roster), cohort.NameMap(roster))
			if hasAnyPRs(board) {
				return b.discord.Announce(ctx, c.EODChannelID, formatLeaderboard(board))
			}
			return nil
		},
	})
}

// Archive pulls recent messages from every cohort's channels into the
// database. Runs over all cohorts, active or not, so late edits in a
// finished cohort's channels still get captured.
func (b *Bot) Archive(ctx context.Context) error {
	all, err := b.cohorts.QueryAll(ctx)
	if err != nil {
		return err
	}
	since := b.nowFunc().Add(-b.conf.Bot.Lookback)

	for _, c := range all {
		for _, channelID := range []string{c.AttendanceChannelID, c.EODChannelID} {
			if channelID == "" {
				continue
			}
			msgs, err := b.discord.ChannelMessagesSince(ctx, channelID, since)
			if err != nil {
				b.logger.Error(fmt.Sprintf("archiving channel %s: %v", channelID, err), err)
				continue
			}
			if err = b.messages.Archive(ctx, msgs); err != nil {
				b.logger.Error(fmt.Sprintf("archiving channel %s: %v", channelID, err), err)
			}
		}
	}
	return nil
}

// sweep is one compliance pass: fetch a channel's messages for today up
// to a cutoff clock, verify them against the roster and announce.
type sweep struct {
	clock    string
	channel  func(cohort.Cohort) string
	announce func(ctx context.Context, c cohort.Cohort, roster []cohort.Student, res compliance.Result) error
}

func (b *Bot) complianceSweep(ctx context.Context, sw sweep) error {
	active, err := b.activeCohorts(ctx)
	if err != nil {
		return err
	}
	date := b.today()

	start, _, err := compliance.DayWindow(date, b.conf.Bot.UTCOffset)
	if err != nil {
		return err
	}
	cutoff, err := compliance.LocalCutoff(date, sw.clock, b.conf.Bot.UTCOffset)
	if err != nil {
		return err
	}

	for _, c := range active {
		channelID := sw.channel(c)
		if channelID == "" {
			continue
		}
		roster, err := b.cohorts.Roster(ctx, c.ID)
		if err != nil {
			b.logger.Error(fmt.Sprintf("loading roster for cohort %s: %v", c.Name, err), err)
			continue
		}
		if len(roster) == 0 {
			continue
		}

		msgs, err := b.discord.ChannelMessagesSince(ctx, channelID, start)
		if err != nil {
			b.logger.Error(fmt.Sprintf("fetching channel %s: %v", channelID, err), err)
			continue
		}
		res := compliance.Verify(complianceWindow(msgs, cutoff), cohort.ExpectedIDs(roster))

		if err = sw.announce(ctx, c, roster, res); err != nil {
			b.logger.Error(fmt.Sprintf("announcing for cohort %s: %v", c.Name, err), err)
		}
	}
	return nil
}

// complianceWindow drops messages created after the cutoff and converts
// the rest for the verifier.
func complianceWindow(msgs []message.Message, cutoff time.Time) []compliance.Message {
	out := make([]compliance.Message, 0, len(msgs))
	for _, m := range msgs {
		if m.CreatedAt.After(cutoff) {
			continue
		}
		out = append(out, m.Compliance())
	}
	return out
}

// missingIDs returns roster Discord IDs whose ok predicate fails, in
// roster order.
func missingIDs(roster []cohort.Student, ok func(id string) bool) []string {
	var missing []string
	for _, s := range roster {
		if !ok(s.DiscordID) {
			missing = append(missing, s.DiscordID)
		}
	}
	return missing
}

func hasAnyPRs(board []compliance.LeaderboardEntry) bool {
	for _, e := range board {
		if e.Count > 0 {
			return true
		}
	}
	return false
}
