package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/clinicalc/clinicalc/internal/config"
	"github.com/clinicalc/clinicalc/internal/domain/dosing"
	"github.com/clinicalc/clinicalc/internal/domain/fluids"
	"github.com/clinicalc/clinicalc/internal/domain/scores"
	"github.com/clinicalc/clinicalc/internal/domain/vitals"
	"github.com/clinicalc/clinicalc/internal/engine"
	"github.com/clinicalc/clinicalc/internal/platform/middleware"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "calc-server",
		Short: "Clinical calculation API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(listCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the calculation API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the registered calculators",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, id := range newRegistry().IDs() {
				cmd.Println(id)
			}
			return nil
		},
	}
}

// newRegistry wires every calculator into a fresh registry.
func newRegistry() *engine.Registry {
	reg := engine.NewRegistry()

	reg.MustRegister(dosing.NewMedicationDosage())
	reg.MustRegister(dosing.NewHeparinDosage())
	reg.MustRegister(dosing.NewUnitConverter())
	reg.MustRegister(dosing.NewPediatricDosage())
	reg.MustRegister(fluids.NewDripRate())
	reg.MustRegister(fluids.NewFluidBalance())
	reg.MustRegister(fluids.NewElectrolyteManagement())
	reg.MustRegister(vitals.NewBMI())
	reg.MustRegister(vitals.NewMeanArterialPressure())
	reg.MustRegister(vitals.NewMinuteVentilation())
	reg.MustRegister(scores.NewBraden())
	reg.MustRegister(scores.NewGlasgow())
	reg.MustRegister(scores.NewApgar())

	return reg
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	e.Use(middleware.RequestTimeout(30 * time.Second))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Content-Type", middleware.RequestIDHeader},
	}))

	// API group
	apiV1 := e.Group("/api/v1")

	// Rate limiting middleware
	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})

	// Calculator routes
	reg := newRegistry()
	engine.NewHandler(reg).RegisterRoutes(apiV1)
	logger.Info().Int("calculators", len(reg.IDs())).Msg("registry loaded")

	// Start server
	go func() {
		addr := cfg.Addr()
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
