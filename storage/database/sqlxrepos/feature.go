package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/fractal-nyc/attendabot/core"
	"github.com/fractal-nyc/attendabot/core/feature"
)

type featureRow struct {
	ID          string       `db:"id"`
	Title       string       `db:"title"`
	Description string       `db:"description"`
	RequestedBy string       `db:"requested_by"`
	Status      string       `db:"status"`
	CreatedAt   sql.NullTime `db:"created_at"`
	UpdatedAt   sql.NullTime `db:"updated_at"`
}

func (r featureRow) toDomain() feature.Request {
	return feature.Request{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		RequestedBy: r.RequestedBy,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt.Time,
		UpdatedAt:   r.UpdatedAt.Time,
	}
}

func featureToRow(req feature.Request) featureRow {
	return featureRow{
		ID:          req.ID,
		Title:       req.Title,
		Description: req.Description,
		RequestedBy: req.RequestedBy,
		Status:      req.Status,
		CreatedAt:   nullTime(req.CreatedAt),
		UpdatedAt:   nullTime(req.UpdatedAt),
	}
}

type featureRepository struct {
	db core.DB
}

var _ feature.Repository = (*featureRepository)(nil) // interface compliance check

func NewFeatureRepository(db core.DB) *featureRepository {
	return &featureRepository{db: db}
}

func (repo featureRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return feature.ErrNotFound
	}
	return trapFatalErr(err, msg)
}

func (repo featureRepository) CreateRequest(ctx context.Context, req feature.Request) (feature.Request, error) {
	req.ID = uuid.New().String()
	row := featureToRow(req)

	query := `
		INSERT INTO feature_request (id, title, description, requested_by, status, created_at, updated_at)
		VALUES (:id, :title, :description, :requested_by, :status, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, row); err != nil {
		return feature.Request{}, errors.Wrap(err, "inserting feature request")
	}
	return row.toDomain(), nil
}

func (repo featureRepository) QueryRequests(ctx context.Context, filter *feature.QueryFilter, ordering []core.DBOrdering) ([]feature.Request, error) {
	query := `SELECT * FROM feature_request`
	var conds []string
	var args []interface{}

	if filter != nil {
		if filter.Status != "" {
			conds = append(conds, `status = ?`)
			args = append(args, filter.Status)
		}
		if filter.RequestedBy != "" {
			conds = append(conds, `requested_by = ?`)
			args = append(args, filter.RequestedBy)
		}
		if filter.Search != "" {
			val := "%" + filter.Search + "%"
			conds = append(conds, `(title LIKE ? OR description LIKE ?)`)
			args = append(args, val, val)
		}
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += orderBy(ordering, "created_at DESC")

	var rows []featureRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying feature requests")
	}
	reqs := make([]feature.Request, 0, len(rows))
	for _, r := range rows {
		reqs = append(reqs, r.toDomain())
	}
	return reqs, nil
}

func (repo featureRepository) GetRequest(ctx context.Context, id string) (feature.Request, error) {
	var row featureRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM feature_request WHERE id = ?`, id); err != nil {
		return feature.Request{}, repo.trapNoRowsErr(err, "getting feature request")
	}
	return row.toDomain(), nil
}

func (repo featureRepository) UpdateRequest(ctx context.Context, req feature.Request) (feature.Request, error) {
	req.UpdatedAt = time.Now().UTC()
	row := featureToRow(req)

	query := `
		UPDATE feature_request
		SET title = :title, description = :description, status = :status, updated_at = :updated_at
		WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, query, row)
	if err != nil {
		return feature.Request{}, errors.Wrap(err, "updating feature request")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return feature.Request{}, feature.ErrNotFound
	}
	return row.toDomain(), nil
}

func (repo featureRepository) DeleteRequestsByID(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`DELETE FROM feature_request WHERE id IN (?)`, ids)
	if err != nil {
		return 0, errors.Wrap(err, "deleting feature requests")
	}
	res, err := repo.db.ExecContext(ctx, repo.db.Rebind(query), args...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting feature requests")
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
