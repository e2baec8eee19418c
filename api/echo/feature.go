package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/fractal-nyc/attendabot/core/feature"
	"github.com/fractal-nyc/attendabot/core/user"
)

type featureApi struct {
	svc      *feature.Service
	usrSvc   *user.Service
	validate *validator.Validate
}

func registerFeatureAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc *feature.Service,
	usrSvc *user.Service,
	validate *validator.Validate,
) {
	api := featureApi{svc: svc, usrSvc: usrSvc, validate: validate}

	fg := g.Group("/features", jwt)
	fg.POST("", api.create)
	fg.GET("", api.query)
	fg.GET("/:id", api.retrieve)

	// status changes and deletion are instructor-only
	fg.PUT("/:id", api.update, instructorMiddleware())
	fg.DELETE("/:id", api.destroy, instructorMiddleware())
}

func (api *featureApi) create(ctx echo.Context) error {
	var data feature.NewRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	req, err := api.svc.Create(ctx.Request().Context(), ctxUsr.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating feature request")
	}
	return ctx.JSON(http.StatusCreated, req)
}

func (api *featureApi) query(ctx echo.Context) error {
	filter := new(feature.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []feature.Request{})
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)

	reqs, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying feature requests")
	}
	if reqs == nil {
		reqs = []feature.Request{}
	}
	return ctx.JSON(http.StatusOK, reqs)
}

func (api *featureApi) retrieve(ctx echo.Context) error {
	req, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == feature.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting feature request")
	}
	return ctx.JSON(http.StatusOK, req)
}

func (api *featureApi) update(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	orig, err := api.svc.Get(reqCtx, ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == feature.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting feature request")
	}

	var data feature.UpdateRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateRequest")
	}
	if err := data.Validate(api.validate, orig); err != nil {
		return err
	}

	req, err := api.svc.Update(reqCtx, orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating feature request")
	}
	return ctx.JSON(http.StatusOK, req)
}

func (api *featureApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting feature request")
	}
	return ctx.NoContent(http.StatusNoContent)
}
