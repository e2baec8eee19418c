package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/fractal-nyc/attendabot/core"
	"github.com/fractal-nyc/attendabot/core/cohort"
	"github.com/fractal-nyc/attendabot/core/compliance"
	"github.com/fractal-nyc/attendabot/core/message"
)

type complianceApi struct {
	cohortSvc  *cohort.Service
	messageSvc *message.Service
	conf       *core.Config
}

func registerComplianceAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	cohortSvc *cohort.Service,
	messageSvc *message.Service,
	conf *core.Config,
) {
	api := complianceApi{cohortSvc: cohortSvc, messageSvc: messageSvc, conf: conf}

	g.GET("/compliance/preview", api.preview, jwt, instructorMiddleware())
}

type compliancePreview struct {
	Date        string                        `json:"date"`
	CohortID    string                        `json:"cohort_id"`
	ChannelID   string                        `json:"channel_id"`
	Posted      map[string]bool               `json:"posted"`
	Missing     []string                      `json:"missing"`
	PRCounts    map[string]int                `json:"pr_counts"`
	Leaderboard []compliance.LeaderboardEntry `json:"leaderboard"`
}

// preview replays the verifier over archived messages for a cohort's
// channel on any date. Lets instructors audit what the bot reported, or
// would have reported, on a given day.
func (api *complianceApi) preview(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	date := ctx.QueryParam("date")
	start, end, err := compliance.DayWindow(date, api.conf.Bot.UTCOffset)
	if err != nil {
		return errBadDate
	}

	c, err := api.cohortSvc.Get(reqCtx, ctx.QueryParam("cohort_id"))
	if err != nil {
		if errors.Cause(err) == cohort.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting cohort")
	}

	channelID := c.EODChannelID
	if ctx.QueryParam("channel") == "attendance" {
		channelID = c.AttendanceChannelID
	}
	if channelID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "cohort has no such channel configured")
	}

	roster, err := api.cohortSvc.Roster(reqCtx, c.ID)
	if err != nil {
		return errors.Wrap(err, "querying roster")
	}

	msgs, err := api.messageSvc.Window(reqCtx, channelID, start, end)
	if err != nil {
		return errors.Wrap(err, "querying messages")
	}

	res := compliance.Verify(message.ComplianceSlice(msgs), cohort.ExpectedIDs(roster))
	return ctx.JSON(http.StatusOK, compliancePreview{
		Date:        date,
		CohortID:    c.ID,
		ChannelID:   channelID,
		Posted:      res.Posted,
		Missing:     res.Missing,
		PRCounts:    res.PRCounts,
		Leaderboard: compliance.Leaderboard(res.PRCounts, cohort.ExpectedIDs(roster), cohort.NameMap(roster)),
	})
}
