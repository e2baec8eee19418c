package feature

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/fractal-nyc/attendabot/core"
)

var (
	// errors
	ErrNotFound = errors.New("feature request not found")
)

type (
	QueryFilter struct {
		Status      string `query:"status"`
		RequestedBy string `query:"requested_by"`
		Search      string `query:"search"`
	}

	Repository interface {
		CreateRequest(ctx context.Context, req Request) (Request, error)
		QueryRequests(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Request, error)
		GetRequest(ctx context.Context, id string) (Request, error)
		UpdateRequest(ctx context.Context, req Request) (Request, error)
		DeleteRequestsByID(ctx context.Context, ids []string) (int, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, requestedBy string, nr NewRequest) (Request, error) {
	now := time.Now().UTC()
	req := Request{
		Title:       nr.Title,
		Description: nr.Description,
		RequestedBy: requestedBy,
		Status:      StatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateRequest(ctx, req)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Request, error) {
	if filter != nil {
		filter.Search = core.CleanString(filter.Search)
	}
	return svc.repo.QueryRequests(ctx, filter, ordering)
}

func (svc *Service) Get(ctx context.Context, id string) (Request, error) {
	return svc.repo.GetRequest(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id string, ur UpdateRequest) (Request, error) {
	orig, err := svc.repo.GetRequest(ctx, id)
	if err != nil {
		return Request{}, err
	}
	orig.Title = ur.Title
	orig.Description = ur.Description
	orig.Status = ur.Status
	orig.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateRequest(ctx, orig)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	_, err := svc.repo.DeleteRequestsByID(ctx, ids)
	return err
}
