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

	"github.com/carelink/crm/internal/config"
	"github.com/carelink/crm/internal/domain/billing"
	"github.com/carelink/crm/internal/domain/clinical"
	"github.com/carelink/crm/internal/domain/complaints"
	"github.com/carelink/crm/internal/domain/dashboard"
	"github.com/carelink/crm/internal/domain/identity"
	"github.com/carelink/crm/internal/domain/marketing"
	"github.com/carelink/crm/internal/domain/messaging"
	"github.com/carelink/crm/internal/domain/scheduling"
	"github.com/carelink/crm/internal/platform/db"
	"github.com/carelink/crm/internal/platform/middleware"
	"github.com/carelink/crm/internal/platform/session"
	"github.com/carelink/crm/internal/platform/web"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "crm-server",
		Short: "Healthcare CRM API Server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(createAdminCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the CRM API server",
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

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
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

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
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

func createAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create the default admin account, or reset its password with --reset",
		RunE: func(cmd *cobra.Command, args []string) error {
			reset, _ := cmd.Flags().GetBool("reset")

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

			svc := identity.NewService(identity.NewUserRepoPG(pool), identity.NewPatientRepoPG(pool))

			if reset {
				created, total, err := svc.ResetAdmin(ctx)
				if err != nil {
					return err
				}
				if created {
					fmt.Printf("Admin account created. Total users: %d\n", total)
				} else {
					fmt.Printf("Admin password reset to the default. Total users: %d\n", total)
				}
				return nil
			}

			created, err := svc.EnsureAdmin(ctx)
			if err != nil {
				return err
			}
			if created {
				fmt.Println("Admin account created (username: admin). Change the password immediately.")
			} else {
				fmt.Println("Admin account already exists; nothing to do.")
			}
			return nil
		},
	}
	cmd.Flags().Bool("reset", false, "Reset the admin password to the default")
	return cmd
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var out = os.Stdout
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			out = f
		}
	}

	if cfg.IsDev() {
		return zerolog.New(zerolog.ConsoleWriter{Out: out}).Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := newLogger(cfg)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Run pending migrations at startup so a fresh database just works.
	migrator := db.NewMigrator(pool, "./migrations")
	applied, err := migrator.Up(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("migrations failed")
	}
	if applied > 0 {
		logger.Info().Int("applied", applied).Msg("migrations applied")
	}

	// Repositories
	userRepo := identity.NewUserRepoPG(pool)
	patientRepo := identity.NewPatientRepoPG(pool)
	appointmentRepo := scheduling.NewAppointmentRepoPG(pool)
	billRepo := billing.NewBillRepoPG(pool)
	recordRepo := clinical.NewMedicalRecordRepoPG(pool)
	investigationRepo := clinical.NewInvestigationRepoPG(pool)
	campaignRepo := marketing.NewCampaignRepoPG(pool)
	complaintRepo := complaints.NewComplaintRepoPG(pool)
	communicationRepo := messaging.NewCommunicationRepoPG(pool)
	sessionRepo := session.NewPgRepository(pool)

	// Services
	identitySvc := identity.NewService(userRepo, patientRepo)
	schedulingSvc := scheduling.NewService(appointmentRepo)
	billingSvc := billing.NewService(billRepo)
	clinicalSvc := clinical.NewService(recordRepo, investigationRepo)
	marketingSvc := marketing.NewService(campaignRepo)
	complaintsSvc := complaints.NewService(complaintRepo)
	messagingSvc := messaging.NewService(communicationRepo)
	dashboardSvc := dashboard.NewService(identitySvc, schedulingSvc, billingSvc)

	sessions := session.NewManager(sessionRepo, cfg.SecretKey,
		cfg.SessionLifetime(), cfg.SessionCookieSecure, cfg.SessionCookieHTTPOnly)

	// Seed the default admin so a fresh deployment is reachable.
	created, err := identitySvc.EnsureAdmin(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to ensure admin account")
	}
	if created {
		logger.Warn().Msg("default admin account created with a well-known password; change it immediately")
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost},
		AllowHeaders:     []string{"Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	}))

	// Health check
	e.GET("/healthz", db.HealthHandler(pool))

	// Handlers
	identityHandler := identity.NewHandler(identitySvc, sessions)
	schedulingHandler := scheduling.NewHandler(schedulingSvc, identitySvc)
	billingHandler := billing.NewHandler(billingSvc, identitySvc)
	clinicalHandler := clinical.NewHandler(clinicalSvc, identitySvc)
	marketingHandler := marketing.NewHandler(marketingSvc)
	complaintsHandler := complaints.NewHandler(complaintsSvc, identitySvc)
	messagingHandler := messaging.NewHandler(messagingSvc, identitySvc)
	dashboardHandler := dashboard.NewHandler(dashboardSvc)

	// Public routes: landing redirect, login
	identityHandler.RegisterPublicRoutes(e)

	// Everything else sits behind the session gate.
	app := e.Group("")
	app.Use(sessions.Middleware())
	app.Use(web.FlashHeader())

	identityHandler.RegisterRoutes(app)
	schedulingHandler.RegisterRoutes(app)
	billingHandler.RegisterRoutes(app)
	clinicalHandler.RegisterRoutes(app)
	marketingHandler.RegisterRoutes(app)
	complaintsHandler.RegisterRoutes(app)
	messagingHandler.RegisterRoutes(app)
	dashboardHandler.RegisterRoutes(app)

	// Expired session cleanup
	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-janitorCtx.Done():
				return
			case <-ticker.C:
				n, err := sessionRepo.DeleteExpired(janitorCtx)
				if err != nil {
					logger.Error().Err(err).Msg("session cleanup failed")
				} else if n > 0 {
					logger.Info().Int64("deleted", n).Msg("expired sessions removed")
				}
			}
		}
	}()

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
