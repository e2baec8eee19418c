package message

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/fractal-nyc/attendabot/core"
	"github.com/fractal-nyc/attendabot/core/compliance"
)

var (
	// errors
	ErrNotFound = errors.New("message not found")
)

type (
	Repository interface {
		// ArchiveMessages upserts a batch keyed on the Discord message ID;
		// re-archiving an edited message refreshes content and PR count.
		ArchiveMessages(ctx context.Context, msgs []Message) error
		QueryMessages(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Message, error)
		GetMessage(ctx context.Context, id string) (Message, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Archive stores a batch of fetched messages, stamping each with its PR count.
func (svc *Service) Archive(ctx context.Context, msgs []Message) error {
	if len(msgs) == 0 {
		return nil
	}
	for i := range msgs {
		msgs[i].PRCount = compliance.CountPRLinks(msgs[i].Content)
		msgs[i].CreatedAt = msgs[i].CreatedAt.UTC()
	}
	return svc.repo.ArchiveMessages(ctx, msgs)
}

func (svc *Service) Filter(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Message, error) {
	if filter != nil {
		filter.Clean()
	}
	return svc.repo.QueryMessages(ctx, filter, ordering)
}

func (svc *Service) Get(ctx context.Context, id string) (Message, error) {
	return svc.repo.GetMessage(ctx, id)
}

// Window returns one channel's archived messages within [from, to], oldest
// first, which is the pre-filtered input shape the compliance verifier expects.
func (svc *Service) Window(ctx context.Context, channelID string, from, to time.Time) ([]Message, error) {
	return svc.repo.QueryMessages(ctx,
		&QueryFilter{ChannelID: channelID, From: from, To: to},
		[]core.DBOrdering{{Field: "created_at", Ascending: true}},
	)
}
