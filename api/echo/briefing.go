package echoapi

import (
	"net/http"
	"net/mail"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/fractal-nyc/attendabot/core"
	"github.com/fractal-nyc/attendabot/core/briefing"
	"github.com/fractal-nyc/attendabot/core/cohort"
	"github.com/fractal-nyc/attendabot/core/user"
)

var errBadDate = echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")

type briefingApi struct {
	svc       *briefing.Service
	cohortSvc *cohort.Service
	usrSvc    *user.Service
	conf      *core.Config
}

func registerBriefingAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc *briefing.Service,
	cohortSvc *cohort.Service,
	usrSvc *user.Service,
	conf *core.Config,
) {
	api := briefingApi{svc: svc, cohortSvc: cohortSvc, usrSvc: usrSvc, conf: conf}

	bg := g.Group("/briefings", jwt, instructorMiddleware())
	bg.GET("/today", api.today)
	bg.GET("/test", api.test)
	bg.POST("/digest", api.digest)
}

func (api *briefingApi) today(ctx echo.Context) error {
	// "today" is the classroom's calendar date, not the host's
	ref, err := time.Parse("-07:00", api.conf.Bot.UTCOffset)
	if err != nil {
		return errors.Wrap(err, "parsing UTC offset")
	}
	return api.briefingFor(ctx, time.Now().In(ref.Location()))
}

// test builds the briefing for any simulated date, so instructors can
// dry-run what the bot would report on a given day.
func (api *briefingApi) test(ctx echo.Context) error {
	date, err := time.Parse("2006-01-02", ctx.QueryParam("date"))
	if err != nil {
		return errBadDate
	}
	return api.briefingFor(ctx, date)
}

// digest emails today's briefing (or any simulated date) to every active
// instructor and admin account that has an email on file, plus any extra
// addresses configured in instructorEmails.
func (api *briefingApi) digest(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	date, err := api.resolveDate(ctx)
	if err != nil {
		return err
	}
	cohortID, err := api.resolveCohortID(ctx)
	if err != nil {
		return err
	}

	active := true
	staff, err := api.usrSvc.Query(reqCtx, &user.QueryFilter{
		Roles:    append(user.InstructorRoles, user.AdminRoles...),
		IsActive: &active,
	}, nil)
	if err != nil {
		return errors.Wrap(err, "querying instructors")
	}
	seen := make(map[string]bool, len(staff))
	to := make([]mail.Address, 0, len(staff)+len(api.conf.InstructorEmails))
	for _, usr := range staff {
		if usr.Email != "" && !seen[usr.Email] {
			seen[usr.Email] = true
			to = append(to, mail.Address{Name: usr.Name, Address: usr.Email})
		}
	}
	for _, addr := range api.conf.InstructorEmails {
		if addr != "" && !seen[addr] {
			seen[addr] = true
			to = append(to, mail.Address{Address: addr})
		}
	}

	b, err := api.svc.SendDigest(reqCtx, cohortID, date, to)
	if err != nil {
		if errors.Cause(err) == cohort.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "sending digest")
	}
	return ctx.JSON(http.StatusOK, b)
}

func (api *briefingApi) resolveDate(ctx echo.Context) (time.Time, error) {
	if raw := ctx.QueryParam("date"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, errBadDate
		}
		return date, nil
	}
	ref, err := time.Parse("-07:00", api.conf.Bot.UTCOffset)
	if err != nil {
		return time.Time{}, errors.Wrap(err, "parsing UTC offset")
	}
	return time.Now().In(ref.Location()), nil
}

func (api *briefingApi) resolveCohortID(ctx echo.Context) (string, error) {
	cohortID := ctx.QueryParam("cohort_id")
	if cohortID != "" {
		return cohortID, nil
	}
	// default to the most recent cohort
	cohorts, err := api.cohortSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return "", errors.Wrap(err, "querying cohorts")
	}
	if len(cohorts) == 0 {
		return "", errHttpNotFound
	}
	return cohorts[0].ID, nil
}

func (api *briefingApi) briefingFor(ctx echo.Context, date time.Time) error {
	reqCtx := ctx.Request().Context()

	cohortID, err := api.resolveCohortID(ctx)
	if err != nil {
		return err
	}

	b, err := api.svc.ForDate(reqCtx, cohortID, date)
	if err != nil {
		if errors.Cause(err) == cohort.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "building briefing")
	}
	return ctx.JSON(http.StatusOK, b)
}
