package sqlxrepos

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/fractal-nyc/attendabot/core"
	"github.com/fractal-nyc/attendabot/core/cohort"
	"github.com/fractal-nyc/attendabot/core/message"
	"github.com/fractal-nyc/attendabot/core/user"
	"github.com/fractal-nyc/attendabot/storage/database"
)

func testDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Open("sqlite3", "file::memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	// a second connection would see its own empty :memory: database
	db.SetMaxOpenConns(1)
	if err = database.Migrate(db); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestUserRepositoryRoundtrip(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(testDB(t))

	active := true
	created, err := repo.CreateUser(ctx, user.User{
		Name:     "Grace Hopper",
		Username: "ghopper",
		Email:    "ghopper@fractal.nyc",
		IsActive: &active,
		Roles:    []string{"instructor:lead"},
	})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if created.ID == "" {
		t.Error("expected a generated ID")
	}

	got, err := repo.GetUser(ctx, user.GetFilter{Username: "ghopper"})
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if got.Email != "ghopper@fractal.nyc" {
		t.Errorf("Email = %q; expected %q", got.Email, "ghopper@fractal.nyc")
	}
	if len(got.Roles) != 1 || got.Roles[0] != "instructor:lead" {
		t.Errorf("Roles = %v; expected [instructor:lead]", got.Roles)
	}

	got.Name = "Rear Admiral Hopper"
	if _, err = repo.UpdateUser(ctx, got); err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	got, err = repo.GetUser(ctx, user.GetFilter{ID: created.ID})
	if err != nil {
		t.Fatalf("GetUser after update failed: %v", err)
	}
	if got.Name != "Rear Admiral Hopper" {
		t.Errorf("Name = %q; expected %q", got.Name, "Rear Admiral Hopper")
	}

	_, err = repo.GetUser(ctx, user.GetFilter{Username: "nobody"})
	if errors.Cause(err) != user.ErrNotFound {
		t.Errorf("expected ErrNotFound for unknown username; got %v", err)
	}
}

func TestCohortReplaceRoster(t *testing.T) {
	ctx := context.Background()
	repo := NewCohortRepository(testDB(t))

	c, err := repo.CreateCohort(ctx, cohort.Cohort{
		Name:       "June 2026",
		StartDate:  time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		TotalWeeks: 12,
	})
	if err != nil {
		t.Fatalf("CreateCohort failed: %v", err)
	}

	first := []cohort.Student{
		{DiscordID: "d1", Name: "Ada"},
		{DiscordID: "d2", Name: "Linus"},
	}
	if err = repo.ReplaceRoster(ctx, c.ID, first); err != nil {
		t.Fatalf("ReplaceRoster failed: %v", err)
	}

	// a second replace drops the old roster entirely and keeps slice order
	second := []cohort.Student{
		{DiscordID: "d3", Name: "Margaret"},
		{DiscordID: "d1", Name: "Ada"},
	}
	if err = repo.ReplaceRoster(ctx, c.ID, second); err != nil {
		t.Fatalf("second ReplaceRoster failed: %v", err)
	}

	roster, err := repo.QueryRoster(ctx, c.ID)
	if err != nil {
		t.Fatalf("QueryRoster failed: %v", err)
	}
	if len(roster) != 2 {
		t.Fatalf("roster size = %d; expected 2", len(roster))
	}
	for i, wanted := range []string{"d3", "d1"} {
		if roster[i].DiscordID != wanted {
			t.Errorf("roster[%d].DiscordID = %q; expected %q", i, roster[i].DiscordID, wanted)
		}
	}
}

func TestMessageWindowBounds(t *testing.T) {
	ctx := context.Background()
	repo := NewMessageRepository(testDB(t))

	from := time.Date(2026, 6, 3, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 3, 23, 59, 59, 0, time.UTC)

	msgs := []message.Message{
		{ID: "before", ChannelID: "ch", AuthorID: "a", CreatedAt: from.Add(-time.Second)},
		{ID: "at-start", ChannelID: "ch", AuthorID: "a", CreatedAt: from},
		{ID: "midday", ChannelID: "ch", AuthorID: "a", CreatedAt: from.Add(9 * time.Hour)},
		{ID: "at-end", ChannelID: "ch", AuthorID: "a", CreatedAt: to},
		{ID: "after", ChannelID: "ch", AuthorID: "a", CreatedAt: to.Add(time.Second)},
	}
	if err := repo.ArchiveMessages(ctx, msgs); err != nil {
		t.Fatalf("ArchiveMessages failed: %v", err)
	}

	got, err := repo.QueryMessages(ctx, &message.QueryFilter{From: from, To: to}, nil)
	if err != nil {
		t.Fatalf("QueryMessages failed: %v", err)
	}

	expected := []string{"at-start", "midday", "at-end"}
	if len(got) != len(expected) {
		t.Fatalf("returned %d messages; expected %d", len(got), len(expected))
	}
	for i, id := range expected {
		if got[i].ID != id {
			t.Errorf("got[%d].ID = %q; expected %q", i, got[i].ID, id)
		}
	}
}

func TestTrapFatalErr(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		shutdown bool
	}{
		{"corrupt file", sqlite3.Error{Code: sqlite3.ErrCorrupt}, true},
		{"not a database", sqlite3.Error{Code: sqlite3.ErrNotADB}, true},
		{"wrapped corrupt file", errors.Wrap(sqlite3.Error{Code: sqlite3.ErrCorrupt}, "querying users"), true},
		{"busy", sqlite3.Error{Code: sqlite3.ErrBusy}, false},
		{"plain error", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := trapFatalErr(tt.err, "querying users")
			if got := core.IsShutdown(err); got != tt.shutdown {
				t.Errorf("IsShutdown = %v; expected %v", got, tt.shutdown)
			}
		})
	}
}
