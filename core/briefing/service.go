// Package briefing assembles the instructor's daily briefing for a cohort:
// tomorrow's assignment, today's compliance picture and an optional LLM
// summary of the day's EOD channel.
package briefing

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/fractal-nyc/attendabot/core"
	"github.com/fractal-nyc/attendabot/core/cohort"
	"github.com/fractal-nyc/attendabot/core/compliance"
	"github.com/fractal-nyc/attendabot/core/curriculum"
	"github.com/fractal-nyc/attendabot/core/message"
)

type (
	// Summarizer condenses a day of channel messages into a few sentences.
	// Implementations may call out to an LLM; a failed or absent summary
	// degrades the briefing, it never fails it.
	Summarizer interface {
		Summarize(ctx context.Context, channelName string, msgs []message.Message) (string, error)
	}

	Briefing struct {
		Date        string                        `json:"date"` // YYYY-MM-DD
		CohortID    string                        `json:"cohort_id"`
		Position    *curriculum.Position          `json:"position,omitempty"`
		Assignment  *curriculum.Assignment        `json:"next_assignment,omitempty"`
		Missing     []string                      `json:"missing"` // display names, roster order
		Leaderboard []compliance.LeaderboardEntry `json:"leaderboard"`
		Summary     string                        `json:"summary,omitempty"`
	}

	Service struct {
		cohorts    *cohort.Service
		messages   *message.Service
		summarizer Summarizer
		mail       core.EmailService
		table      curriculum.Table
		conf       *core.Config
		logger     core.Logger
	}
)

func NewService(
	cohorts *cohort.Service,
	messages *message.Service,
	summarizer Summarizer,
	mailSvc core.EmailService,
	table curriculum.Table,
	conf *core.Config,
	logger core.Logger,
) *Service {
	return &Service{
		cohorts:    cohorts,
		messages:   messages,
		summarizer: summarizer,
		mail:       mailSvc,
		table:      table,
		conf:       conf,
		logger:     logger,
	}
}

// SendDigest emails the briefing for a cohort on the given date to the
// instructor list. Recipients come from the caller; this service does not
// know about dashboard accounts.
func (svc *Service) SendDigest(ctx context.Context, cohortID string, date time.Time, to []mail.Address) (Briefing, error) {
	b, err := svc.ForDate(ctx, cohortID, date)
	if err != nil {
		return Briefing{}, err
	}
	if len(to) == 0 {
		return b, nil
	}
	svc.mail.SendMessages(&core.EmailMessage{
		To:      to,
		Subject: "Daily briefing " + b.Date,
		BodyStr: RenderText(b),
	})
	return b, nil
}

// ForDate builds the briefing for a cohort on the given calendar date. The
// date may be simulated (the dashboard's test-briefing endpoint passes any
// date); nothing here reads the wall clock.
func (svc *Service) ForDate(ctx context.Context, cohortID string, date time.Time) (Briefing, error) {
	ch, err := svc.cohorts.Get(ctx, cohortID)
	if err != nil {
		return Briefing{}, err
	}
	roster, err := svc.cohorts.Roster(ctx, cohortID)
	if err != nil {
		return Briefing{}, errors.Wrap(err, "fetching roster")
	}

	b := Briefing{
		Date:        date.Format("2006-01-02"),
		CohortID:    cohortID,
		Missing:     []string{},
		Leaderboard: []compliance.LeaderboardEntry{},
	}

	sched := ch.Schedule()
	if pos, ok := curriculum.PositionFor(date, sched); ok {
		b.Position = &pos
	}
	if next, ok := curriculum.NextAssignment(date, sched, svc.table); ok {
		b.Assignment = &next
	}

	if ch.EODChannelID == "" || len(roster) == 0 {
		return b, nil
	}

	start, end, err := compliance.DayWindow(b.Date, svc.conf.Bot.UTCOffset)
	if err != nil {
		return Briefing{}, err
	}
	msgs, err := svc.messages.Window(ctx, ch.EODChannelID, start, end)
	if err != nil {
		return Briefing{}, errors.Wrap(err, "fetching day window")
	}

	ids := cohort.ExpectedIDs(roster)
	names := cohort.NameMap(roster)
	res := compliance.Verify(message.ComplianceSlice(msgs), ids)

	for _, id := range res.Missing {
		if name := names[id]; name != "" {
			b.Missing = append(b.Missing, name)
		} else {
			b.Missing = append(b.Missing, id)
		}
	}
	b.Leaderboard = compliance.Leaderboard(res.PRCounts, ids, names)

	if svc.summarizer != nil && len(msgs) > 0 {
		summary, err := svc.summarizer.Summarize(ctx, ch.Name+" EOD", msgs)
		if err != nil {
			svc.logger.Warn(fmt.Sprintf("briefing summary failed: %v", err), err)
		} else {
			b.Summary = summary
		}
	}
	return b, nil
}

// RenderText renders a briefing as the plain-text digest sent to Discord and
// to the instructor email list.
func RenderText(b Briefing) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Daily briefing for %s\n", b.Date)
	if b.Position != nil {
		fmt.Fprintf(&sb, "Week %d, day %d\n", b.Position.Week, b.Position.Day)
	}
	if b.Assignment != nil {
		fmt.Fprintf(&sb, "Next up: %s (week %d, day %d)\n", b.Assignment.Title, b.Assignment.Week, b.Assignment.Day)
		if b.Assignment.GithubPath != "" {
			fmt.Fprintf(&sb, "Materials: %s\n", b.Assignment.GithubPath)
		}
	}
	if len(b.Missing) > 0 {
		fmt.Fprintf(&sb, "Missing EOD: %s\n", strings.Join(b.Missing, ", "))
	}
	if len(b.Leaderboard) > 0 {
		sb.WriteString("PR leaderboard:\n")
		for _, e := range b.Leaderboard {
			fmt.Fprintf(&sb, "  %s: %d\n", e.Name, e.Count)
		}
	}
	if b.Summary != "" {
		fmt.Fprintf(&sb, "Summary:\n%s\n", b.Summary)
	}
	return sb.String()
}
