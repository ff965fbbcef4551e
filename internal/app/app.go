package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/rakhadavedra/user-management-service/config"
	"github.com/rakhadavedra/user-management-service/internal/controller"
	"github.com/rakhadavedra/user-management-service/internal/infrastructure/tracing"
	"github.com/rakhadavedra/user-management-service/internal/middleware"
	"github.com/rakhadavedra/user-management-service/internal/repository"
	"github.com/rakhadavedra/user-management-service/internal/service"
	"github.com/rakhadavedra/user-management-service/pkg/response"
)

type App struct {
	DB            *sqlx.DB
	Config        *config.Config
	KafkaProducer *kafka.Conn
	Server        *echo.Echo
}

func (app *App) Start() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = logger

	e := echo.New()
	app.Server = e

	if app.Config.TracingConfig.CollectorHost != "" {
		traceProvider, err := tracing.InitTracing(app.Config.TracingConfig.CollectorHost)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to initialize tracing")
		} else {
			defer func() {
				if err := traceProvider.Shutdown(context.Background()); err != nil {
					logger.Error().Err(err).Msg("Failed to shutdown tracing")
				}
			}()

			tracer := traceProvider.Tracer("user-management-service")

			e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
				return func(c echo.Context) error {
					ctx, span := tracer.Start(c.Request().Context(), fmt.Sprintf("[%s] %s", c.Request().Method, c.Path()))
					defer span.End()

					req := c.Request()
					c.SetRequest(req.WithContext(ctx))

					return next(c)
				}
			})
		}
	}

	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: allowedOrigins(app.Config.AllowedOrigins),
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	// Used empty string so that metrics are not prefixed with the service name
	e.Use(echoprometheus.NewMiddleware(""))

	if app.Config.MetricsPort != "" {
		go func() {
			metrics := echo.New()
			metrics.GET("/metrics", echoprometheus.NewHandler())
			if err := metrics.Start(fmt.Sprintf(":%s", app.Config.MetricsPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal().Err(err).Msg("Failed to start metrics server")
			}
		}()
	}

	g := e.Group("/api")

	g.Use(middleware.Logger)

	repo := repository.CreateNewRepository(app.DB)
	svc := service.CreateNewService(repo, *app.Config, app.KafkaProducer)
	controller.CreateController(g, svc, middleware.Auth(app.Config.JWTSecret))

	g.GET("/ping", func(c echo.Context) error {
		return response.WriteSuccessResponse(c, "pong", nil)
	})

	if err := e.Start(fmt.Sprintf(":%s", app.Config.ServicePort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}

func (app *App) StopServer() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return app.Server.Shutdown(ctx)
}

func allowedOrigins(origins string) []string {
	if origins == "" {
		return []string{"http://localhost:3000"}
	}

	parts := strings.Split(origins, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	return parts
}
