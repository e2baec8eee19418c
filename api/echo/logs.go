package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/fractal-nyc/attendabot/core"
	"github.com/fractal-nyc/attendabot/services/logstream"
)

func registerLogsAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	ring *logstream.Ring,
	logger core.Logger,
) {
	if ring == nil {
		return
	}
	g.GET("/logs/stream", func(ctx echo.Context) error {
		err := logstream.ServeWS(ring, logger, ctx.Response(), ctx.Request())
		return errors.Wrap(err, "serving log stream")
	}, jwt, instructorMiddleware())
}
