package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/fractal-nyc/attendabot/core"
	"github.com/fractal-nyc/attendabot/core/message"
)

type messageRepository struct {
	db *DB
}

var _ message.Repository = (*messageRepository)(nil)

func NewMessageRepository(db *DB) *messageRepository {
	return &messageRepository{db: db}
}

func (repo *messageRepository) ArchiveMessages(_ context.Context, msgs []message.Message) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, m := range msgs {
		m := m
		m.CreatedAt = m.CreatedAt.UTC()
		repo.db.messages[m.ID] = &m
	}
	return nil
}

func (repo *messageRepository) QueryMessages(_ context.Context, filter *message.QueryFilter, ordering []core.DBOrdering) ([]message.Message, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	msgs := make([]message.Message, 0, len(repo.db.messages))
	for _, m := range repo.db.messages {
		if filter != nil && !matchMessage(*m, filter) {
			continue
		}
		msgs = append(msgs, *m)
	}

	descending := len(ordering) > 0 && !ordering[0].Ascending
	sort.Slice(msgs, func(i, j int) bool {
		if descending {
			return msgs[i].CreatedAt.After(msgs[j].CreatedAt)
		}
		return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
	})
	return msgs, nil
}

func matchMessage(m message.Message, filter *message.QueryFilter) bool {
	if filter.ChannelID != "" && m.ChannelID != filter.ChannelID {
		return false
	}
	if filter.AuthorID != "" && m.AuthorID != filter.AuthorID {
		return false
	}
	if filter.Search != "" && !strings.Contains(strings.ToLower(m.Content), strings.ToLower(filter.Search)) {
		return false
	}
	if !filter.From.IsZero() && m.CreatedAt.Before(filter.From) {
		return false
	}
	if !filter.To.IsZero() && m.CreatedAt.After(filter.To) {
		return false
	}
	if filter.HasPRs != nil && (m.PRCount > 0) != *filter.HasPRs {
		return false
	}
	return true
}

func (repo *messageRepository) GetMessage(_ context.Context, id string) (message.Message, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if m, ok := repo.db.messages[id]; ok {
		return *m, nil
	}
	return message.Message{}, message.ErrNotFound
}
