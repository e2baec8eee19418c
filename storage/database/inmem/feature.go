package inmemdb

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fractal-nyc/attendabot/core"
	"github.com/fractal-nyc/attendabot/core/feature"
)

type featureRepository struct {
	db *DB
}

var _ feature.Repository = (*featureRepository)(nil)

func NewFeatureRepository(db *DB) *featureRepository {
	return &featureRepository{db: db}
}

func (repo *featureRepository) CreateRequest(_ context.Context, req feature.Request) (feature.Request, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	req.ID = uuid.New().String()
	repo.db.features[req.ID] = &req
	return req, nil
}

func (repo *featureRepository) QueryRequests(_ context.Context, filter *feature.QueryFilter, ordering []core.DBOrdering) ([]feature.Request, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	reqs := make([]feature.Request, 0, len(repo.db.features))
	for _, req := range repo.db.features {
		if filter != nil && !matchFeature(*req, filter) {
			continue
		}
		reqs = append(reqs, *req)
	}
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].CreatedAt.After(reqs[j].CreatedAt) })
	return reqs, nil
}

func matchFeature(req feature.Request, filter *feature.QueryFilter) bool {
	if filter.Status != "" && req.Status != filter.Status {
		return false
	}
	if filter.RequestedBy != "" && req.RequestedBy != filter.RequestedBy {
		return false
	}
	if filter.Search != "" {
		kw := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(req.Title), kw) &&
			!strings.Contains(strings.ToLower(req.Description), kw) {
			return false
		}
	}
	return true
}

func (repo *featureRepository) GetRequest(_ context.Context, id string) (feature.Request, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if req, ok := repo.db.features[id]; ok {
		return *req, nil
	}
	return feature.Request{}, feature.ErrNotFound
}

func (repo *featureRepository) UpdateRequest(_ context.Context, req feature.Request) (feature.Request, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.features[req.ID]; !ok {
		return feature.Request{}, feature.ErrNotFound
	}
	req.UpdatedAt = time.Now().UTC()
	repo.db.features[req.ID] = &req
	return req, nil
}

func (repo *featureRepository) DeleteRequestsByID(_ context.Context, ids []string) (int, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	deleted := 0
	for _, id := range ids {
		if _, ok := repo.db.features[id]; ok {
			delete(repo.db.features, id)
			deleted++
		}
	}
	return deleted, nil
}
