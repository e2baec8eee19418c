package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/fractal-nyc/attendabot/core"
	"github.com/fractal-nyc/attendabot/core/briefing"
	"github.com/fractal-nyc/attendabot/core/cohort"
	"github.com/fractal-nyc/attendabot/core/feature"
	"github.com/fractal-nyc/attendabot/core/message"
	"github.com/fractal-nyc/attendabot/core/user"
	"github.com/fractal-nyc/attendabot/services/logstream"
)

type (
	ServerDeps struct {
		Conf        *core.Config
		Logger      core.Logger
		UserSvc     *user.Service
		CohortSvc   *cohort.Service
		MessageSvc  *message.Service
		FeatureSvc  *feature.Service
		BriefingSvc *briefing.Service
		LogStream   *logstream.Ring
		Validate    *validator.Validate
		Translator  ut.Translator
	}

	Server struct {
		deps     ServerDeps
		app      *echo.Echo
		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := ConfigureAuth(conf)

	registerUserAPI(v1, jwt, s.deps.UserSvc, s.deps.Validate, s.deps.Translator)
	registerCohortAPI(v1, jwt, s.deps.CohortSvc, s.deps.Validate)
	registerMessageAPI(v1, jwt, s.deps.MessageSvc)
	registerFeatureAPI(v1, jwt, s.deps.FeatureSvc, s.deps.UserSvc, s.deps.Validate)
	registerBriefingAPI(v1, jwt, s.deps.BriefingSvc, s.deps.CohortSvc, s.deps.UserSvc, conf)
	registerComplianceAPI(v1, jwt, s.deps.CohortSvc, s.deps.MessageSvc, conf)
	registerLogsAPI(v1, jwt, s.deps.LogStream, s.deps.Logger)
}

func (s *Server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Host); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

// Errors receives fatal server errors.
func (s *Server) Errors() <-chan error {
	return s.errors
}

// ShutdownSignal receives OS signals and internal shutdown requests.
func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

// signalShutdown requests a graceful shutdown, called on integrity errors.
func (s *Server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Attendabot API!")
}
