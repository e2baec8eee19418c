package curriculum

import (
	"testing"
	"time"
)

// 2025-01-06 is a Monday.
var testSchedule = Schedule{
	Start:      date(2025, 1, 6),
	BreakWeek:  7,
	TotalWeeks: 12,
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPositionFor(t *testing.T) {
	tests := []struct {
		name   string
		date   time.Time
		want   Position
		wantOK bool
	}{
		{name: "start date is week 1 Monday", date: date(2025, 1, 6), want: Position{Week: 1, Day: 1}, wantOK: true},
		{name: "day before start", date: date(2025, 1, 5)},
		{name: "saturday of week 1", date: date(2025, 1, 11), want: Position{Week: 1, Day: 6}, wantOK: true},
		{name: "sunday in range has no position", date: date(2025, 1, 12)},
		{name: "monday of week 2", date: date(2025, 1, 13), want: Position{Week: 2, Day: 1}, wantOK: true},
		{name: "break week still reports a position", date: date(2025, 2, 18), want: Position{Week: 7, Day: 2}, wantOK: true},
		{name: "final saturday", date: date(2025, 3, 29), want: Position{Week: 12, Day: 6}, wantOK: true},
		{name: "week past the end", date: date(2025, 3, 31)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PositionFor(tt.date, testSchedule)
			if ok != tt.wantOK {
				t.Fatalf("PositionFor() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("PositionFor() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// Day diffs are computed at noon UTC, so a spring-forward weekend does not
// shift the week boundary.
func TestPositionForAcrossDSTChange(t *testing.T) {
	// 2025-03-09 is the US spring-forward Sunday; the Monday after it is
	// 9 weeks and 1 day past start.
	got, ok := PositionFor(date(2025, 3, 10), testSchedule)
	if !ok {
		t.Fatal("PositionFor() reported no position")
	}
	if want := (Position{Week: 10, Day: 1}); got != want {
		t.Errorf("PositionFor() = %+v, want %+v", got, want)
	}
}

func TestNextWorkingDay(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want time.Time
	}{
		{name: "saturday skips to monday", date: date(2025, 1, 11), want: date(2025, 1, 13)},
		{name: "friday goes to saturday", date: date(2025, 1, 10), want: date(2025, 1, 11)},
		{name: "sunday goes to monday", date: date(2025, 1, 12), want: date(2025, 1, 13)},
		{name: "weekday goes to next day", date: date(2025, 1, 7), want: date(2025, 1, 8)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextWorkingDay(tt.date); !got.Equal(tt.want) {
				t.Errorf("NextWorkingDay() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAssignmentFor(t *testing.T) {
	table := Table{
		1: {
			1: {Title: "Unix basics", GithubPath: "week1/day1"},
		},
		7: {
			1: {Title: "should never surface"},
		},
	}

	tests := []struct {
		name   string
		date   time.Time
		want   Assignment
		wantOK bool
	}{
		{
			name:   "table entry for the date",
			date:   date(2025, 1, 6),
			want:   Assignment{Week: 1, Day: 1, Title: "Unix basics", GithubPath: "week1/day1"},
			wantOK: true,
		},
		{name: "no table entry for the date", date: date(2025, 1, 7)},
		{name: "break week day", date: date(2025, 2, 17)},
		{name: "sunday has no position", date: date(2025, 1, 12)},
		{name: "before the cohort starts", date: date(2025, 1, 4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := AssignmentFor(tt.date, testSchedule, table)
			if ok != tt.wantOK {
				t.Fatalf("AssignmentFor() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("AssignmentFor() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNextAssignment(t *testing.T) {
	table := Table{
		1: {
			2: {Title: "HTTP from scratch", Description: "Build a tiny HTTP server", GithubPath: "week1/day2"},
		},
		10: {
			1: {Title: "Databases", GithubPath: "week10/day1"},
		},
	}

	t.Run("returns tomorrow's assignment verbatim", func(t *testing.T) {
		got, ok := NextAssignment(date(2025, 1, 6), testSchedule, table)
		if !ok {
			t.Fatal("NextAssignment() reported none")
		}
		want := Assignment{Week: 1, Day: 2, Title: "HTTP from scratch", Description: "Build a tiny HTTP server", GithubPath: "week1/day2"}
		if got != want {
			t.Errorf("NextAssignment() = %+v, want %+v", got, want)
		}
	})

	t.Run("no table entry", func(t *testing.T) {
		if _, ok := NextAssignment(date(2025, 1, 7), testSchedule, table); ok {
			t.Error("NextAssignment() found an assignment with no table entry")
		}
	})

	t.Run("break week suppresses even a valid position", func(t *testing.T) {
		// the day before the break week's first working day
		breakTable := Table{7: {1: {Title: "should never surface"}}}
		if _, ok := NextAssignment(date(2025, 2, 15), testSchedule, breakTable); ok {
			t.Error("NextAssignment() returned an assignment inside the break week")
		}
		if pos, ok := PositionFor(date(2025, 2, 17), testSchedule); !ok || pos.Week != 7 {
			t.Fatalf("precondition: expected a valid week-7 position, got %+v ok=%v", pos, ok)
		}
	})

	t.Run("past the end of the cohort", func(t *testing.T) {
		if _, ok := NextAssignment(date(2025, 3, 29), testSchedule, table); ok {
			t.Error("NextAssignment() returned an assignment past the final week")
		}
	})
}
