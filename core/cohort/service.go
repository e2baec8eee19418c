package cohort

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrNotFound = errors.New("cohort not found")
)

type (
	Repository interface {
		CreateCohort(ctx context.Context, c Cohort) (Cohort, error)
		QueryAllCohorts(ctx context.Context) ([]Cohort, error)
		GetCohort(ctx context.Context, id string) (Cohort, error)
		UpdateCohort(ctx context.Context, c Cohort) (Cohort, error)
		DeleteCohortsByID(ctx context.Context, ids []string) (int, error)

		QueryRoster(ctx context.Context, cohortID string) ([]Student, error)
		ReplaceRoster(ctx context.Context, cohortID string, roster []Student) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, nc NewCohort) (Cohort, error) {
	now := time.Now().UTC()
	c := Cohort{
		Name:                nc.Name,
		StartDate:           nc.StartDate,
		BreakWeek:           nc.BreakWeek,
		TotalWeeks:          nc.TotalWeeks,
		AttendanceChannelID: nc.AttendanceChannelID,
		EODChannelID:        nc.EODChannelID,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	return svc.repo.CreateCohort(ctx, c)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Cohort, error) {
	return svc.repo.QueryAllCohorts(ctx)
}

func (svc *Service) Get(ctx context.Context, id string) (Cohort, error) {
	return svc.repo.GetCohort(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id string, uc UpdateCohort) (Cohort, error) {
	c := Cohort{
		ID:                  id,
		Name:                uc.Name,
		StartDate:           uc.StartDate,
		BreakWeek:           *uc.BreakWeek,
		TotalWeeks:          uc.TotalWeeks,
		AttendanceChannelID: uc.AttendanceChannelID,
		EODChannelID:        uc.EODChannelID,
		UpdatedAt:           time.Now().UTC(),
	}
	return svc.repo.UpdateCohort(ctx, c)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	_, err := svc.repo.DeleteCohortsByID(ctx, ids)
	return err
}

func (svc *Service) Roster(ctx context.Context, cohortID string) ([]Student, error) {
	return svc.repo.QueryRoster(ctx, cohortID)
}

func (svc *Service) ReplaceRoster(ctx context.Context, cohortID string, entries []NewStudent) ([]Student, error) {
	if _, err := svc.repo.GetCohort(ctx, cohortID); err != nil {
		return nil, err
	}
	roster := make([]Student, 0, len(entries))
	for _, e := range entries {
		roster = append(roster, Student{CohortID: cohortID, DiscordID: e.DiscordID, Name: e.Name})
	}
	if err := svc.repo.ReplaceRoster(ctx, cohortID, roster); err != nil {
		return nil, err
	}
	return roster, nil
}
