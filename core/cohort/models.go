package cohort

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/fractal-nyc/attendabot/core"
	"github.com/fractal-nyc/attendabot/core/curriculum"
)

type (
	// Cohort is a named group of students following a shared curriculum
	// schedule. BreakWeek is 1-based; 0 means no break week. The two channel
	// IDs point at the Discord channels the bot watches for this cohort.
	Cohort struct {
		ID                  string    `json:"id"`
		Name                string    `json:"name"`
		StartDate           time.Time `json:"start_date"`
		BreakWeek           int       `json:"break_week"`
		TotalWeeks          int       `json:"total_weeks"`
		AttendanceChannelID string    `json:"attendance_channel_id"`
		EODChannelID        string    `json:"eod_channel_id"`
		CreatedAt           time.Time `json:"created_at"` // UTC
		UpdatedAt           time.Time `json:"updated_at"` // UTC
	}

	// Student is one roster entry: a Discord account expected to post.
	Student struct {
		CohortID  string `json:"cohort_id"`
		DiscordID string `json:"discord_id"`
		Name      string `json:"name"`
	}
)

// Schedule bridges a cohort into the curriculum date math.
func (c Cohort) Schedule() curriculum.Schedule {
	return curriculum.Schedule{
		Start:      c.StartDate,
		BreakWeek:  c.BreakWeek,
		TotalWeeks: c.TotalWeeks,
	}
}

// ExpectedIDs flattens a roster into the ordered expected-user-ID list the
// compliance verifier consumes.
func ExpectedIDs(roster []Student) []string {
	ids := make([]string, 0, len(roster))
	for _, s := range roster {
		ids = append(ids, s.DiscordID)
	}
	return ids
}

// NameMap builds the ID-to-display-name mapping for formatting. Always
// sourced from the roster at call time, never compiled in.
func NameMap(roster []Student) map[string]string {
	names := make(map[string]string, len(roster))
	for _, s := range roster {
		names[s.DiscordID] = s.Name
	}
	return names
}

// NewCohort contains information needed to create a new Cohort.
type NewCohort struct {
	Name                string    `json:"name" validate:"required"`
	StartDate           time.Time `json:"start_date" validate:"required"`
	BreakWeek           int       `json:"break_week" validate:"omitempty,min=1"`
	TotalWeeks          int       `json:"total_weeks" validate:"required,min=1"`
	AttendanceChannelID string    `json:"attendance_channel_id" validate:"omitempty,snowflake"`
	EODChannelID        string    `json:"eod_channel_id" validate:"omitempty,snowflake"`
}

func (nc *NewCohort) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	if err := validate.Struct(nc); err != nil {
		return err
	}
	if nc.BreakWeek > nc.TotalWeeks {
		return core.NewValidationError(nil, core.FieldError{
			Field: "break_week", Error: "break week falls outside the cohort",
		})
	}
	return nil
}

// UpdateCohort defines what information may be provided to modify an existing Cohort.
type UpdateCohort struct {
	Name                string    `json:"name"`
	StartDate           time.Time `json:"start_date"`
	BreakWeek           *int      `json:"break_week"`
	TotalWeeks          int       `json:"total_weeks" validate:"omitempty,min=1"`
	AttendanceChannelID string    `json:"attendance_channel_id" validate:"omitempty,snowflake"`
	EODChannelID        string    `json:"eod_channel_id" validate:"omitempty,snowflake"`
}

func (uc *UpdateCohort) Validate(validate *validator.Validate, orig Cohort) error {
	if name := core.CleanString(uc.Name); name != "" {
		uc.Name = name
	} else {
		uc.Name = orig.Name
	}
	if uc.StartDate.IsZero() {
		uc.StartDate = orig.StartDate
	}
	if uc.BreakWeek == nil {
		uc.BreakWeek = &orig.BreakWeek
	}
	if uc.TotalWeeks == 0 {
		uc.TotalWeeks = orig.TotalWeeks
	}
	if uc.AttendanceChannelID == "" {
		uc.AttendanceChannelID = orig.AttendanceChannelID
	}
	if uc.EODChannelID == "" {
		uc.EODChannelID = orig.EODChannelID
	}

	if err := validate.Struct(uc); err != nil {
		return err
	}
	if *uc.BreakWeek > uc.TotalWeeks {
		return core.NewValidationError(nil, core.FieldError{
			Field: "break_week", Error: "break week falls outside the cohort",
		})
	}
	return nil
}

// NewStudent is one roster entry to add or replace.
type NewStudent struct {
	DiscordID string `json:"discord_id" validate:"required,snowflake"`
	Name      string `json:"name" validate:"required"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.DiscordID = core.CleanString(ns.DiscordID)
	return validate.Struct(ns)
}
