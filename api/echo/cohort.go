package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/fractal-nyc/attendabot/core/cohort"
)

type cohortApi struct {
	svc      *cohort.Service
	validate *validator.Validate
}

func registerCohortAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc *cohort.Service,
	validate *validator.Validate,
) {
	api := cohortApi{svc: svc, validate: validate}

	cg := g.Group("/cohorts", jwt)
	cg.GET("", api.query)
	cg.GET("/:id", api.retrieve)
	cg.GET("/:id/roster", api.roster)

	// mutations are instructor-only
	cg.POST("", api.create, instructorMiddleware())
	cg.PUT("/:id", api.update, instructorMiddleware())
	cg.DELETE("/:id", api.destroy, instructorMiddleware())
	cg.PUT("/:id/roster", api.replaceRoster, instructorMiddleware())
}

func (api *cohortApi) create(ctx echo.Context) error {
	var data cohort.NewCohort
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCohort")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	c, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating cohort")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *cohortApi) query(ctx echo.Context) error {
	cohorts, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying cohorts")
	}
	if cohorts == nil {
		cohorts = []cohort.Cohort{}
	}
	return ctx.JSON(http.StatusOK, cohorts)
}

func (api *cohortApi) retrieve(ctx echo.Context) error {
	c, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == cohort.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting cohort")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *cohortApi) update(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	orig, err := api.svc.Get(reqCtx, ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == cohort.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting cohort")
	}

	var data cohort.UpdateCohort
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCohort")
	}
	if err := data.Validate(api.validate, orig); err != nil {
		return err
	}

	c, err := api.svc.Update(reqCtx, orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating cohort")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *cohortApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting cohort")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *cohortApi) roster(ctx echo.Context) error {
	roster, err := api.svc.Roster(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying roster")
	}
	if roster == nil {
		roster = []cohort.Student{}
	}
	return ctx.JSON(http.StatusOK, roster)
}

func (api *cohortApi) replaceRoster(ctx echo.Context) error {
	var entries []cohort.NewStudent
	if err := ctx.Bind(&entries); err != nil {
		return errors.Wrap(err, "binding to roster entries")
	}
	for i := range entries {
		if err := entries[i].Validate(api.validate); err != nil {
			return err
		}
	}

	roster, err := api.svc.ReplaceRoster(ctx.Request().Context(), ctx.Param("id"), entries)
	if err != nil {
		if errors.Cause(err) == cohort.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "replacing roster")
	}
	return ctx.JSON(http.StatusOK, roster)
}
