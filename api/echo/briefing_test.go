package echoapi

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/fractal-nyc/attendabot/core/briefing"
	"github.com/fractal-nyc/attendabot/core/cohort"
	"github.com/fractal-nyc/attendabot/core/curriculum"
	"github.com/fractal-nyc/attendabot/core/message"
	"github.com/fractal-nyc/attendabot/core/user"
)

func Test_briefingApi_test(t *testing.T) {
	table := curriculum.Table{
		1: {4: {Title: "Graphs", GithubPath: "week1/day4"}},
	}
	env := setupEnv(t, table)
	ctx := context.Background()

	instructor := createUser(t, env.userRepo, "Yacin", "yacin1", "yacin@fractal.nyc", []string{user.RoleInstructor})
	token := getToken(t, instructor)

	c, err := env.cohorts.Create(ctx, cohort.NewCohort{
		Name:                "HB-2025",
		StartDate:           time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
		TotalWeeks:          12,
		AttendanceChannelID: "100000000000000001",
		EODChannelID:        "100000000000000002",
	})
	if err != nil {
		t.Fatalf("creating cohort: %v", err)
	}
	_, err = env.cohorts.ReplaceRoster(ctx, c.ID, []cohort.NewStudent{
		{DiscordID: "100000000000000011", Name: "Ada"},
		{DiscordID: "100000000000000012", Name: "Grace"},
	})
	if err != nil {
		t.Fatalf("replacing roster: %v", err)
	}

	// Wednesday Jan 8: Ada posts an EOD with one PR link, Grace is absent
	err = env.messages.Archive(ctx, []message.Message{{
		ID:        "900000000000000001",
		ChannelID: "100000000000000002",
		AuthorID:  "100000000000000011",
		Content:   "done: https://github.com/fractal-nyc/hb/pull/7",
		CreatedAt: time.Date(2025, 1, 8, 22, 0, 0, 0, time.UTC),
	}})
	if err != nil {
		t.Fatalf("archiving messages: %v", err)
	}

	req, rec := newAuthRequest(http.MethodGet, "/v1/briefings/test?cohort_id="+c.ID+"&date=2025-01-08", token)
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d; body %s", rec.Code, rec.Body.String())
	}

	var b briefing.Briefing
	if !jsonUnmarshal(t, rec.Body.Bytes(), &b) {
		t.FailNow()
	}
	if b.Date != "2025-01-08" {
		t.Errorf("Date = %q, want 2025-01-08", b.Date)
	}
	if b.Position == nil || b.Position.Week != 1 || b.Position.Day != 3 {
		t.Errorf("Position = %+v, want week 1 day 3", b.Position)
	}
	// next working day is Thursday, week 1 day 4
	if b.Assignment == nil || b.Assignment.Title != "Graphs" {
		t.Errorf("Assignment = %+v, want Graphs", b.Assignment)
	}
	if len(b.Missing) != 1 || b.Missing[0] != "Grace" {
		t.Errorf("Missing = %v, want [Grace]", b.Missing)
	}
	if len(b.Leaderboard) == 0 || b.Leaderboard[0].Name != "Ada" || b.Leaderboard[0].Count != 1 {
		t.Errorf("Leaderboard = %v, want Ada with 1", b.Leaderboard)
	}

	t.Run("bad date is rejected", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/briefings/test?cohort_id="+c.ID+"&date=01-08-2025", token)
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("digest is emailed and returned", func(t *testing.T) {
		env.conf.InstructorEmails = []string{"alumni@fractal.nyc", instructor.Email}

		req, rec := newAuthRequest(http.MethodPost, "/v1/briefings/digest?cohort_id="+c.ID+"&date=2025-01-08", token)
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d; body %s", rec.Code, rec.Body.String())
		}
		var b briefing.Briefing
		if jsonUnmarshal(t, rec.Body.Bytes(), &b) && b.Date != "2025-01-08" {
			t.Errorf("Date = %q, want 2025-01-08", b.Date)
		}

		sent := env.mail.Sent()
		if len(sent) != 1 {
			t.Fatalf("sent %d emails, want 1", len(sent))
		}
		recipients := make([]string, 0, len(sent[0].To))
		for _, addr := range sent[0].To {
			recipients = append(recipients, addr.Address)
		}
		// the instructor account plus the configured extra address, no
		// duplicate for the address present in both lists
		want := []string{instructor.Email, "alumni@fractal.nyc"}
		if len(recipients) != len(want) {
			t.Fatalf("recipients = %v, want %v", recipients, want)
		}
		for i, addr := range want {
			if recipients[i] != addr {
				t.Errorf("recipients[%d] = %q, want %q", i, recipients[i], addr)
			}
		}
	})

	t.Run("unknown cohort is a 404", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/briefings/test?cohort_id=missing&date=2025-01-08", token)
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("code = %d, want %d", rec.Code, http.StatusNotFound)
		}
	})
}
