package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/fractal-nyc/attendabot/core/cohort"
)

type cohortRepository struct {
	db *DB
}

var _ cohort.Repository = (*cohortRepository)(nil)

func NewCohortRepository(db *DB) *cohortRepository {
	return &cohortRepository{db: db}
}

func (repo *cohortRepository) CreateCohort(_ context.Context, c cohort.Cohort) (cohort.Cohort, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	c.ID = uuid.New().String()
	repo.db.cohorts[c.ID] = &c
	return c, nil
}

func (repo *cohortRepository) QueryAllCohorts(_ context.Context) ([]cohort.Cohort, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	cohorts := make([]cohort.Cohort, 0, len(repo.db.cohorts))
	for _, c := range repo.db.cohorts {
		cohorts = append(cohorts, *c)
	}
	sort.Slice(cohorts, func(i, j int) bool { return cohorts[i].StartDate.After(cohorts[j].StartDate) })
	return cohorts, nil
}

func (repo *cohortRepository) GetCohort(_ context.Context, id string) (cohort.Cohort, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if c, ok := repo.db.cohorts[id]; ok {
		return *c, nil
	}
	return cohort.Cohort{}, cohort.ErrNotFound
}

func (repo *cohortRepository) UpdateCohort(_ context.Context, c cohort.Cohort) (cohort.Cohort, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.cohorts[c.ID]; !ok {
		return cohort.Cohort{}, cohort.ErrNotFound
	}
	c.UpdatedAt = time.Now().UTC()
	repo.db.cohorts[c.ID] = &c
	return c, nil
}

func (repo *cohortRepository) DeleteCohortsByID(_ context.Context, ids []string) (int, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	deleted := 0
	for _, id := range ids {
		if _, ok := repo.db.cohorts[id]; ok {
			delete(repo.db.cohorts, id)
			delete(repo.db.rosters, id)
			deleted++
		}
	}
	return deleted, nil
}

func (repo *cohortRepository) QueryRoster(_ context.Context, cohortID string) ([]cohort.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	roster := repo.db.rosters[cohortID]
	out := make([]cohort.Student, len(roster))
	copy(out, roster)
	return out, nil
}

func (repo *cohortRepository) ReplaceRoster(_ context.Context, cohortID string, roster []cohort.Student) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	stored := make([]cohort.Student, len(roster))
	copy(stored, roster)
	for i := range stored {
		stored[i].CohortID = cohortID
	}
	repo.db.rosters[cohortID] = stored
	return nil
}
