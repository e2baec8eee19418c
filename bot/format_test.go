package bot

import (
	"strings"
	"testing"

	"github.com/fractal-nyc/attendabot/core/compliance"
	"github.com/fractal-nyc/attendabot/core/curriculum"
)

func TestFormatMorning(t *testing.T) {
	pos := curriculum.Position{Week: 3, Day: 2}

	t.Run("with assignment", func(t *testing.T) {
		a := &curriculum.Assignment{Week: 3, Day: 2, Title: "Linked Lists", GithubPath: "week3/day2"}
		got := formatMorning(pos, a)
		for _, want := range []string{"week 3, day 2", "Linked Lists", "week3/day2", "attendance check-in"} {
			if !strings.Contains(got, want) {
				t.Errorf("formatMorning() = %q, missing %q", got, want)
			}
		}
	})

	t.Run("without assignment", func(t *testing.T) {
		got := formatMorning(pos, nil)
		if strings.Contains(got, "assignment") {
			t.Errorf("formatMorning() = %q, should not mention an assignment", got)
		}
	})
}

func TestFormatMissing(t *testing.T) {
	if got := formatMissing("header", nil); got != "" {
		t.Errorf("formatMissing(no ids) = %q, want empty", got)
	}

	got := formatMissing("Still waiting on:", []string{"111", "222"})
	want := "Still waiting on:\n<@111> <@222>"
	if got != want {
		t.Errorf("formatMissing() = %q, want %q", got, want)
	}
}

func TestFormatLeaderboard(t *testing.T) {
	entries := []compliance.LeaderboardEntry{
		{Name: "Grace", Count: 3},
		{Name: "Ada", Count: 1},
	}
	got := formatLeaderboard(entries)
	for _, want := range []string{"1. Grace with 3 PRs", "2. Ada with 1 PR"} {
		if !strings.Contains(got, want) {
			t.Errorf("formatLeaderboard() = %q, missing %q", got, want)
		}
	}
	if strings.Contains(got, "1 PRs") {
		t.Errorf("formatLeaderboard() = %q, singular count should not be pluralized", got)
	}
}
