package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/fractal-nyc/attendabot/core"
	"github.com/fractal-nyc/attendabot/core/cohort"
)

type cohortRow struct {
	ID                  string       `db:"id"`
	Name                string       `db:"name"`
	StartDate           time.Time    `db:"start_date"`
	BreakWeek           int          `db:"break_week"`
	TotalWeeks          int          `db:"total_weeks"`
	AttendanceChannelID string       `db:"attendance_channel_id"`
	EODChannelID        string       `db:"eod_channel_id"`
	CreatedAt           sql.NullTime `db:"created_at"`
	UpdatedAt           sql.NullTime `db:"updated_at"`
}

func (r cohortRow) toDomain() cohort.Cohort {
	return cohort.Cohort{
		ID:                  r.ID,
		Name:                r.Name,
		StartDate:           r.StartDate,
		BreakWeek:           r.BreakWeek,
		TotalWeeks:          r.TotalWeeks,
		AttendanceChannelID: r.AttendanceChannelID,
		EODChannelID:        r.EODChannelID,
		CreatedAt:           r.CreatedAt.Time,
		UpdatedAt:           r.UpdatedAt.Time,
	}
}

func cohortToRow(c cohort.Cohort) cohortRow {
	return cohortRow{
		ID:                  c.ID,
		Name:                c.Name,
		StartDate:           c.StartDate,
		BreakWeek:           c.BreakWeek,
		TotalWeeks:          c.TotalWeeks,
		AttendanceChannelID: c.AttendanceChannelID,
		EODChannelID:        c.EODChannelID,
		CreatedAt:           nullTime(c.CreatedAt),
		UpdatedAt:           nullTime(c.UpdatedAt),
	}
}

type studentRow struct {
	CohortID  string `db:"cohort_id"`
	DiscordID string `db:"discord_id"`
	Name      string `db:"name"`
	Position  int    `db:"position"`
}

type cohortRepository struct {
	db core.DB
}

var _ cohort.Repository = (*cohortRepository)(nil) // interface compliance check

func NewCohortRepository(db core.DB) *cohortRepository {
	return &cohortRepository{db: db}
}

func (repo cohortRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return cohort.ErrNotFound
	}
	return trapFatalErr(err, msg)
}

func (repo cohortRepository) CreateCohort(ctx context.Context, c cohort.Cohort) (cohort.Cohort, error) {
	c.ID = uuid.New().String()
	row := cohortToRow(c)

	query := `
		INSERT INTO cohort (id, name, start_date, break_week, total_weeks, attendance_channel_id, eod_channel_id, created_at, updated_at)
		VALUES (:id, :name, :start_date, :break_week, :total_weeks, :attendance_channel_id, :eod_channel_id, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, row); err != nil {
		return cohort.Cohort{}, errors.Wrap(err, "inserting cohort")
	}
	return row.toDomain(), nil
}

func (repo cohortRepository) QueryAllCohorts(ctx context.Context) ([]cohort.Cohort, error) {
	var rows []cohortRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM cohort ORDER BY start_date DESC`); err != nil {
		return nil, errors.Wrap(err, "querying cohorts")
	}
	cohorts := make([]cohort.Cohort, 0, len(rows))
	for _, r := range rows {
		cohorts = append(cohorts, r.toDomain())
	}
	return cohorts, nil
}

func (repo cohortRepository) GetCohort(ctx context.Context, id string) (cohort.Cohort, error) {
	var row cohortRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM cohort WHERE id = ?`, id); err != nil {
		return cohort.Cohort{}, repo.trapNoRowsErr(err, "getting cohort")
	}
	return row.toDomain(), nil
}

func (repo cohortRepository) UpdateCohort(ctx context.Context, c cohort.Cohort) (cohort.Cohort, error) {
	c.UpdatedAt = time.Now().UTC()
	row := cohortToRow(c)

	query := `
		UPDATE cohort
		SET name = :name, start_date = :start_date, break_week = :break_week, total_weeks = :total_weeks,
			attendance_channel_id = :attendance_channel_id, eod_channel_id = :eod_channel_id, updated_at = :updated_at
		WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, query, row)
	if err != nil {
		return cohort.Cohort{}, errors.Wrap(err, "updating cohort")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return cohort.Cohort{}, cohort.ErrNotFound
	}
	return row.toDomain(), nil
}

func (repo cohortRepository) DeleteCohortsByID(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`DELETE FROM cohort WHERE id IN (?)`, ids)
	if err != nil {
		return 0, errors.Wrap(err, "deleting cohorts")
	}
	res, err := repo.db.ExecContext(ctx, repo.db.Rebind(query), args...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting cohorts")
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// QueryRoster returns a cohort's students in their stored order.
func (repo cohortRepository) QueryRoster(ctx context.Context, cohortID string) ([]cohort.Student, error) {
	var rows []studentRow
	query := `SELECT * FROM cohort_student WHERE cohort_id = ? ORDER BY position ASC`
	if err := repo.db.SelectContext(ctx, &rows, query, cohortID); err != nil {
		return nil, errors.Wrap(err, "querying roster")
	}
	roster := make([]cohort.Student, 0, len(rows))
	for _, r := range rows {
		roster = append(roster, cohort.Student{CohortID: r.CohortID, DiscordID: r.DiscordID, Name: r.Name})
	}
	return roster, nil
}

// ReplaceRoster swaps a cohort's roster wholesale, preserving the order
// of the slice passed in.
func (repo cohortRepository) ReplaceRoster(ctx context.Context, cohortID string, roster []cohort.Student) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "replacing roster")
	}
	defer func() { _ = tx.Rollback() }()

	if err = insertRoster(ctx, tx, cohortID, roster); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(), "replacing roster")
}

// insertRoster clears and rewrites a cohort's students inside tx.
func insertRoster(ctx context.Context, tx core.DBTransactor, cohortID string, roster []cohort.Student) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM cohort_student WHERE cohort_id = ?`, cohortID); err != nil {
		return errors.Wrap(err, "replacing roster")
	}
	for i, s := range roster {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO cohort_student (cohort_id, discord_id, name, position) VALUES (?, ?, ?, ?)`,
			cohortID, s.DiscordID, s.Name, i)
		if err != nil {
			return errors.Wrap(err, "replacing roster")
		}
	}
	return nil
}
