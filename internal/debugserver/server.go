// Package debugserver exposes the running session's mood, health and
// Prometheus metrics over HTTP. It only runs when DEBUG_ADDR is set.
package debugserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/KagemniKarimu/nyota/internal/domain"
	"github.com/KagemniKarimu/nyota/internal/metrics"
	"github.com/KagemniKarimu/nyota/internal/platform/version"
	"github.com/KagemniKarimu/nyota/internal/sentiment"
)

const readinessProbeTimeout = 2 * time.Second

type moodSource interface {
	Mood() domain.Mood
	Report() sentiment.Report
	Model() string
}

// HealthCheck is a named health check function.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type Server struct {
	echo         *echo.Echo
	mood         moodSource
	healthChecks []HealthCheck
	startTime    time.Time
}

// New builds the server. reg is served on /metrics and also receives the
// server's own request metrics.
func New(mood moodSource, reg *prometheus.Registry, healthChecks []HealthCheck) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:         e,
		mood:         mood,
		healthChecks: healthChecks,
		startTime:    time.Now(),
	}

	e.Use(requestLogger())
	e.Use(middleware.Recover())
	e.Use(metrics.NewHTTPMetrics(reg).Middleware())

	e.GET("/health/live", s.handleLiveness)
	e.GET("/health/ready", s.handleReadiness)
	e.GET("/version", s.handleVersion)
	e.GET("/mood", s.handleMood)
	e.GET("/feelings", s.handleFeelings)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler(reg)))
	return s
}

// Start serves on addr until Shutdown. It returns nil after a clean shutdown.
func (s *Server) Start(addr string) error {
	slog.Info("Starting debug server", "addr", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start debug server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown debug server: %w", err)
	}
	return nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

func (s *Server) handleLiveness(c echo.Context) error {
	response := map[string]any{
		"status": "ok",
		"uptime": time.Since(s.startTime).Seconds(),
	}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write liveness response: %w", err)
	}
	return nil
}

func (s *Server) handleReadiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessProbeTimeout)
	defer cancel()

	for _, hc := range s.healthChecks {
		err := hc.Check(ctx)
		if err == nil {
			continue
		}
		response := map[string]any{
			"status":       "unhealthy",
			"failed_check": hc.Name,
			"error":        err.Error(),
		}
		if err := c.JSON(http.StatusServiceUnavailable, response); err != nil {
			return fmt.Errorf("failed to send JSON response: %w", err)
		}
		return nil
	}

	if err := c.JSON(http.StatusOK, map[string]string{"status": "ready"}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleVersion(c echo.Context) error {
	if err := c.JSON(http.StatusOK, version.Get()); err != nil {
		return fmt.Errorf("failed to write version response: %w", err)
	}
	return nil
}

type moodResponse struct {
	domain.Mood
	Label string `json:"label"`
	Model string `json:"model"`
}

func (s *Server) handleMood(c echo.Context) error {
	mood := s.mood.Mood()
	response := moodResponse{Mood: mood, Label: mood.String(), Model: s.mood.Model()}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write mood response: %w", err)
	}
	return nil
}

func (s *Server) handleFeelings(c echo.Context) error {
	if err := c.JSON(http.StatusOK, s.mood.Report()); err != nil {
		return fmt.Errorf("failed to write feelings response: %w", err)
	}
	return nil
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			slog.Debug("Debug request", attrs...)
			return nil
		},
	})
}
