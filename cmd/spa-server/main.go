package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/medspa/api/internal/config"
	"github.com/medspa/api/internal/domain/admin"
	"github.com/medspa/api/internal/domain/analytics"
	"github.com/medspa/api/internal/domain/appointment"
	"github.com/medspa/api/internal/domain/catalog"
	"github.com/medspa/api/internal/domain/chat"
	"github.com/medspa/api/internal/domain/dashboard"
	"github.com/medspa/api/internal/domain/patient"
	"github.com/medspa/api/internal/domain/provider"
	"github.com/medspa/api/internal/platform/auth"
	"github.com/medspa/api/internal/platform/cache"
	"github.com/medspa/api/internal/platform/db"
	"github.com/medspa/api/internal/platform/middleware"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "spa-server",
		Short: "Med-spa practice analytics API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			count, err := db.NewMigrator(pool, dir).Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := db.NewMigrator(pool, dir).Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a synthetic demo dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			patients, _ := cmd.Flags().GetInt("patients")
			providers, _ := cmd.Flags().GetInt("providers")
			perPatient, _ := cmd.Flags().GetInt("appointments-per-patient")
			seed, _ := cmd.Flags().GetInt64("seed")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			svc := admin.NewService(admin.NewRepoPG(pool))
			result, err := svc.Seed(ctx, admin.SeedConfig{
				PatientCount:           patients,
				ProviderCount:          providers,
				AppointmentsPerPatient: perPatient,
				Seed:                   seed,
			})
			if err != nil {
				return fmt.Errorf("seed failed: %w", err)
			}

			fmt.Printf("Seeded %d patients, %d providers, %d services, %d appointments, %d bookings, %d payments in %s.\n",
				result.Patients, result.Providers, result.Services,
				result.Appointments, result.Bookings, result.Payments, result.Duration)
			return nil
		},
	}
	cmd.Flags().Int("patients", 100, "Number of patients to generate")
	cmd.Flags().Int("providers", 6, "Number of providers to generate")
	cmd.Flags().Int("appointments-per-patient", 4, "Max appointments per patient")
	cmd.Flags().Int64("seed", 0, "RNG seed (0 = time-based)")
	return cmd
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Response cache for the aggregation endpoints: Redis when configured,
	// in-process otherwise.
	var store cache.Store
	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	if cacheTTL > 0 {
		if cfg.RedisURL != "" {
			redisStore, err := cache.NewRedisStore(ctx, cfg.RedisURL)
			if err != nil {
				logger.Fatal().Err(err).Msg("failed to connect to redis")
			}
			defer redisStore.Close()
			store = redisStore
			logger.Info().Msg("connected to redis")
		} else {
			store = cache.NewMemoryStore()
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID", auth.AdminKeyHeader},
	}))

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"name":    "medspa-api",
			"version": version,
		})
	})
	e.GET("/healthz", db.HealthHandler(pool))

	api := e.Group("")

	// Pure aggregation endpoints are cacheable; everything registered on
	// the plain group is served fresh.
	cached := e.Group("", cache.Middleware(store, cacheTTL))

	analyticsSvc := analytics.NewService(analytics.NewRepoPG(pool))
	analytics.NewHandler(analyticsSvc).RegisterRoutes(cached)

	patientSvc := patient.NewService(patient.NewRepoPG(pool))
	patient.NewHandler(patientSvc).RegisterRoutes(api)

	providerSvc := provider.NewService(provider.NewRepoPG(pool))
	provider.NewHandler(providerSvc).RegisterRoutes(api)

	catalogSvc := catalog.NewCatalogService(catalog.NewRepoPG(pool))
	catalog.NewHandler(catalogSvc).RegisterRoutes(api)

	apptRepo := appointment.NewRepoPG(pool)
	apptSvc := appointment.NewService(apptRepo)
	appointment.NewHandler(apptSvc).RegisterRoutes(api)

	dashSvc := dashboard.NewService(dashboard.NewRepoPG(pool), apptRepo)
	dashboard.NewHandler(dashSvc).RegisterRoutes(cached)

	if cfg.GeminiAPIKey != "" {
		agent, err := chat.NewAgent(ctx, cfg, chat.NewSandbox(pool), chat.NewSchemaPG(pool))
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create chat agent")
		}
		defer agent.Close()
		chat.NewHandler(agent).RegisterRoutes(api)
		logger.Info().Str("model", cfg.GeminiModel).Msg("chat agent enabled")
	} else {
		logger.Warn().Msg("GEMINI_API_KEY not set; chat endpoint disabled")
	}

	adminGroup := e.Group("", auth.AdminOnly(auth.Config{
		AdminAPIKey: cfg.AdminAPIKey,
		JWTSecret:   cfg.JWTSecret,
		DevMode:     cfg.IsDev(),
	}))
	adminSvc := admin.NewService(admin.NewRepoPG(pool))
	admin.NewHandler(adminSvc).RegisterRoutes(adminGroup)

	// Start and wait for shutdown signal.
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("server listening")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
