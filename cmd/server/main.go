package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"score-for-cancer-total/internal/config"
	"score-for-cancer-total/internal/logging"
	"score-for-cancer-total/internal/models"
	"score-for-cancer-total/internal/services"
)

// totalResolver is the part of the service the routes depend on
type totalResolver interface {
	Resolve(ctx context.Context) (int, models.TotalResponse)
}

// newServer builds the local development server around the same resolver the Lambda uses
func newServer(resolver totalResolver, logger zerolog.Logger, gatherer prometheus.Gatherer) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(requestLogging(logger))

	e.Any("/api/score-total", totalHandler(resolver))
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]bool{"ok": true})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	return e
}

// totalHandler serves the envelope with the same status and headers as the Lambda
func totalHandler(resolver totalResolver) echo.HandlerFunc {
	return func(c echo.Context) error {
		status, response := resolver.Resolve(c.Request().Context())

		body, err := services.EncodeResponse(response)
		if err != nil {
			c.Logger().Errorf("Error marshaling response body: %v", err)
			status = http.StatusInternalServerError
		}

		header := c.Response().Header()
		for name, value := range services.ResponseHeaders() {
			header.Set(name, value)
		}

		return c.Blob(status, services.JSONContentType, []byte(body))
	}
}

// requestLogging logs one line per request
func requestLogging(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			req := c.Request()
			logger.Info().
				Str("method", req.Method).
				Str("uri", req.RequestURI).
				Str("remote", req.RemoteAddr).
				Int("status", c.Response().Status).
				Dur("latency", time.Since(start)).
				Msg("HTTP request")

			return err
		}
	}
}

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	service, err := services.NewTotalServiceFromConfig(ctx, cfg, logger, registry)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize total service")
	}

	e := newServer(service, logger, registry)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	go func() {
		logger.Info().Str("addr", addr).Str("mode", service.Mode()).Msg("HTTP server listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("HTTP server error")
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown error")
		return
	}
	logger.Info().Msg("HTTP server stopped gracefully")
}
