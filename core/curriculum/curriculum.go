// Package curriculum maps calendar dates onto a cohort's teaching schedule:
// week/day positions, next working day and next assignment lookup. Pure date
// arithmetic, no I/O.
package curriculum

import "time"

type (
	// Schedule is the slice of a cohort's config the date math needs.
	// BreakWeek is 1-based; 0 means no break week.
	Schedule struct {
		Start      time.Time
		BreakWeek  int
		TotalWeeks int
	}

	// Position locates a date within the schedule. Week is 1-based;
	// Day is 1=Monday .. 6=Saturday. Sundays have no position.
	Position struct {
		Week int `json:"week"`
		Day  int `json:"day"`
	}

	AssignmentInfo struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		GithubPath  string `json:"github_path"`
	}

	// Table indexes assignment info by week, then by day of week.
	Table map[int]map[int]AssignmentInfo

	Assignment struct {
		Week        int    `json:"week"`
		Day         int    `json:"day"`
		Title       string `json:"title"`
		Description string `json:"description"`
		GithubPath  string `json:"github_path"`
	}
)

// noonUTC pins a calendar date to 12:00 UTC so that day diffs between local
// calendar dates survive DST shifts without off-by-one errors.
func noonUTC(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

// PositionFor maps a date to its schedule position. It reports no position
// before the start date, after the final week, or on a Sunday. A break week
// is NOT filtered here: this only reports where a date falls, and callers
// combine it with an explicit break-week check (see AssignmentFor).
func PositionFor(date time.Time, s Schedule) (Position, bool) {
	diffDays := int(noonUTC(date).Sub(noonUTC(s.Start)).Hours() / 24)
	if diffDays < 0 {
		return Position{}, false
	}

	week := diffDays/7 + 1
	if week > s.TotalWeeks {
		return Position{}, false
	}

	wd := date.Weekday()
	if wd == time.Sunday {
		return Position{}, false
	}
	return Position{Week: week, Day: int(wd)}, true
}

// NextWorkingDay adds one calendar day, skipping Sunday straight to Monday.
func NextWorkingDay(date time.Time) time.Time {
	next := date.AddDate(0, 0, 1)
	if next.Weekday() == time.Sunday {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// AssignmentFor resolves the assignment due on the given date. It reports
// none when the date has no schedule position, when its week is the cohort's
// break week, or when the table has no entry for that week/day.
func AssignmentFor(date time.Time, s Schedule, table Table) (Assignment, bool) {
	pos, ok := PositionFor(date, s)
	if !ok {
		return Assignment{}, false
	}
	if s.BreakWeek != 0 && pos.Week == s.BreakWeek {
		return Assignment{}, false
	}
	info, ok := table[pos.Week][pos.Day]
	if !ok {
		return Assignment{}, false
	}
	return Assignment{
		Week:        pos.Week,
		Day:         pos.Day,
		Title:       info.Title,
		Description: info.Description,
		GithubPath:  info.GithubPath,
	}, true
}

// NextAssignment resolves the next working day's assignment.
func NextAssignment(date time.Time, s Schedule, table Table) (Assignment, bool) {
	return AssignmentFor(NextWorkingDay(date), s, table)
}
