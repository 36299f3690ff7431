package api

import (
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/aph/pathlabel/internal/api/handler"
	"github.com/aph/pathlabel/internal/api/middleware"
	"github.com/aph/pathlabel/internal/api/view"
	"github.com/aph/pathlabel/internal/core/ports"
	"github.com/aph/pathlabel/internal/infrastructure/http/handlers"
)

// Services are the use cases the screens are built on.
type Services struct {
	Auth    ports.AuthService
	Intake  ports.IntakeService
	Reprint ports.ReprintService
	Report  ports.ReportService
	Users   ports.UserService
	Labels  ports.LabelService
}

// Options configures the router.
type Options struct {
	Log zerolog.Logger
	// CookieTTL is the session cookie lifetime; zero means a browser-session cookie.
	CookieTTL time.Duration
	// Readiness lists the dependencies checked by /health/ready.
	Readiness []handlers.Dependency
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc Services, opts Options) (*echo.Echo, error) {
	renderer, err := view.New()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.Logger(opts.Log))
	e.Use(middleware.SecurityHeaders())

	// --- Dependencies ---
	auth := middleware.Auth(svc.Auth)
	optional := middleware.OptionalAuth(svc.Auth)

	authHandler := handler.NewAuthHandler(svc.Auth, opts.CookieTTL)
	intakeHandler := handler.NewIntakeHandler(svc.Intake, svc.Labels)
	reprintHandler := handler.NewReprintHandler(svc.Reprint, svc.Labels)
	reportHandler := handler.NewReportHandler(svc.Report)
	userHandler := handler.NewUserHandler(svc.Users)
	labelHandler := handler.NewLabelHandler(svc.Labels)

	// --- Public screens ---
	e.GET("/", handler.Dashboard, optional)
	e.GET("/login", authHandler.LoginPage, optional)
	e.POST("/login", authHandler.Login)
	e.GET("/signup", authHandler.SignupPage, optional)
	e.POST("/signup", authHandler.Signup)
	e.POST("/logout", authHandler.Logout, optional)

	// --- Screens that require a session ---
	e.GET("/home", intakeHandler.Form, auth)
	e.POST("/home", intakeHandler.Submit, auth)
	e.GET("/reprint", reprintHandler.Form, auth)
	e.POST("/reprint", reprintHandler.Lookup, auth)
	e.GET("/report", reportHandler.Report, auth)
	e.GET("/report/export.xlsx", reportHandler.Export(ports.FormatSpreadsheet), auth)
	e.GET("/report/export.pdf", reportHandler.Export(ports.FormatDocument), auth)
	e.GET("/usermanagement", userHandler.List, auth)
	e.POST("/usermanagement/:id/name", userHandler.Rename, auth)
	e.POST("/usermanagement/:id/password", userHandler.ResetPassword, auth)
	e.POST("/usermanagement/:id/status", userHandler.ToggleStatus, auth)
	e.GET("/labels/:id", labelHandler.SVG, auth)
	e.POST("/labels/:id/printed", labelHandler.Printed, auth)

	// --- Ops (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(opts.Readiness...)
	opts.Log.Info().Strs("dependencies", healthDepsHandler.Names()).Msg("readiness checks registered")

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e, nil
}
