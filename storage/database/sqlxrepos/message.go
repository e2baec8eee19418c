package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/fractal-nyc/attendabot/core"
	"github.com/fractal-nyc/attendabot/core/message"
)

type messageRow struct {
	ID         string    `db:"id"`
	ChannelID  string    `db:"channel_id"`
	AuthorID   string    `db:"author_id"`
	AuthorName string    `db:"author_name"`
	Content    string    `db:"content"`
	PRCount    int       `db:"pr_count"`
	CreatedAt  time.Time `db:"created_at"`
}

func (r messageRow) toDomain() message.Message {
	return message.Message(r)
}

type messageRepository struct {
	db core.DB
}

var _ message.Repository = (*messageRepository)(nil) // interface compliance check

func NewMessageRepository(db core.DB) *messageRepository {
	return &messageRepository{db: db}
}

// ArchiveMessages upserts on the Discord message ID so re-archiving an
// edited message refreshes its content and PR count.
func (repo messageRepository) ArchiveMessages(ctx context.Context, msgs []message.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	query := `
		INSERT INTO message (id, channel_id, author_id, author_name, content, pr_count, created_at)
		VALUES (:id, :channel_id, :author_id, :author_name, :content, :pr_count, :created_at)
		ON CONFLICT (id) DO UPDATE SET
			author_name = excluded.author_name,
			content = excluded.content,
			pr_count = excluded.pr_count`

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "archiving messages")
	}
	defer func() { _ = tx.Rollback() }()

	if err = upsertMessages(ctx, tx, query, msgs); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(), "archiving messages")
}

func upsertMessages(ctx context.Context, tx core.DBTransactor, query string, msgs []message.Message) error {
	for _, m := range msgs {
		m.CreatedAt = m.CreatedAt.UTC()
		if _, err := tx.NamedExecContext(ctx, query, messageRow(m)); err != nil {
			return errors.Wrap(err, "archiving messages")
		}
	}
	return nil
}

func (repo messageRepository) QueryMessages(ctx context.Context, filter *message.QueryFilter, ordering []core.DBOrdering) ([]message.Message, error) {
	query := `SELECT * FROM message`
	var conds []string
	var args []interface{}

	if filter != nil {
		if filter.ChannelID != "" {
			conds = append(conds, `channel_id = ?`)
			args = append(args, filter.ChannelID)
		}
		if filter.AuthorID != "" {
			conds = append(conds, `author_id = ?`)
			args = append(args, filter.AuthorID)
		}
		if filter.Search != "" {
			conds = append(conds, `content LIKE ?`)
			args = append(args, "%"+filter.Search+"%")
		}
		if !filter.From.IsZero() {
			conds = append(conds, `created_at >= ?`)
			args = append(args, filter.From.UTC())
		}
		// the window is inclusive on both ends, matching message.Service.Window
		if !filter.To.IsZero() {
			conds = append(conds, `created_at <= ?`)
			args = append(args, filter.To.UTC())
		}
		if filter.HasPRs != nil {
			if *filter.HasPRs {
				conds = append(conds, `pr_count > 0`)
			} else {
				conds = append(conds, `pr_count = 0`)
			}
		}
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += orderBy(ordering, "created_at ASC")

	var rows []messageRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying messages")
	}
	msgs := make([]message.Message, 0, len(rows))
	for _, r := range rows {
		msgs = append(msgs, r.toDomain())
	}
	return msgs, nil
}

func (repo messageRepository) GetMessage(ctx context.Context, id string) (message.Message, error) {
	var row messageRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM message WHERE id = ?`, id); err != nil {
		if err == sql.ErrNoRows {
			return message.Message{}, message.ErrNotFound
		}
		return message.Message{}, trapFatalErr(err, "getting message")
	}
	return row.toDomain(), nil
}
