package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/thiagohfagundes/therapytrack/internal/config"
	"github.com/thiagohfagundes/therapytrack/internal/domain/account"
	"github.com/thiagohfagundes/therapytrack/internal/domain/agenda"
	"github.com/thiagohfagundes/therapytrack/internal/domain/clinic"
	"github.com/thiagohfagundes/therapytrack/internal/domain/family"
	"github.com/thiagohfagundes/therapytrack/internal/domain/routine"
	"github.com/thiagohfagundes/therapytrack/internal/platform/auth"
	"github.com/thiagohfagundes/therapytrack/internal/platform/db"
	"github.com/thiagohfagundes/therapytrack/internal/platform/middleware"
)

// AppointmentStoreAdapter adapts the agenda repository to the
// routine.AppointmentStore interface, avoiding a circular import
// between the routine and agenda packages.
type AppointmentStoreAdapter struct {
	repo agenda.AppointmentRepository
}

func (a *AppointmentStoreAdapter) CreateGenerated(ctx context.Context, batch []*routine.GeneratedAppointment) error {
	appts := make([]*agenda.Appointment, len(batch))
	for i, g := range batch {
		origin := g.OriginItemID
		appts[i] = &agenda.Appointment{
			Title:           g.Title,
			Description:     g.Description,
			Type:            g.Type,
			Date:            g.Date,
			StartTime:       g.StartTime,
			EndTime:         g.EndTime,
			DurationSeconds: g.DurationSeconds,
			ProfessionalID:  g.ProfessionalID,
			ClinicID:        g.ClinicID,
			ChildID:         g.ChildID,
			CreatedBy:       g.CreatedBy,
			OriginItemID:    &origin,
		}
	}
	return a.repo.CreateBatch(ctx, appts)
}

func (a *AppointmentStoreAdapter) DatesByOriginItem(ctx context.Context, itemID uuid.UUID) (map[time.Time]bool, error) {
	return a.repo.DatesByOriginItem(ctx, itemID)
}

func (a *AppointmentStoreAdapter) DeleteByOriginItem(ctx context.Context, itemID uuid.UUID, from *time.Time) (int64, error) {
	return a.repo.DeleteByOriginItem(ctx, itemID, from)
}

// DirectoryAdapter resolves clinic and professional references for the
// agenda aggregator through the clinic service.
type DirectoryAdapter struct {
	svc *clinic.Service
}

func (d *DirectoryAdapter) ClinicNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(ids))
	for _, id := range ids {
		cl, err := d.svc.GetClinic(ctx, id)
		if err != nil {
			continue
		}
		names[id] = cl.Name
	}
	return names, nil
}

func (d *DirectoryAdapter) ProfessionalTypeLabels(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	labels := make(map[uuid.UUID]string, len(ids))
	for _, id := range ids {
		p, err := d.svc.GetProfessional(ctx, id)
		if err != nil {
			continue
		}
		labels[id] = p.Type.Label()
	}
	return labels, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "therapytrack-server",
		Short: "Therapy scheduling API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

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
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Repositories
	userRepo := account.NewUserRepoPG(pool)
	clinicRepo := clinic.NewClinicRepoPG(pool)
	professionalRepo := clinic.NewProfessionalRepoPG(pool)
	childRepo := family.NewChildRepoPG(pool)
	routineRepo := routine.NewRoutineRepoPG(pool)
	itemRepo := routine.NewItemRepoPG(pool)
	apptRepo := agenda.NewAppointmentRepoPG(pool)

	// Services
	accountSvc := account.NewService(userRepo)
	clinicSvc := clinic.NewService(clinicRepo, professionalRepo)
	familySvc := family.NewService(childRepo)
	routineSvc := routine.NewService(routineRepo, itemRepo,
		&AppointmentStoreAdapter{repo: apptRepo}, pool,
		cfg.HorizonDays, cfg.DefaultEventType, logger)
	agendaSvc := agenda.NewService(apptRepo, &DirectoryAdapter{svc: clinicSvc},
		cfg.GridStartHour, cfg.GridEndHour, cfg.DefaultEventType)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Health check
	e.GET("/health", db.HealthHandler(pool))

	// Public account endpoints
	secret := []byte(cfg.AuthSecret)
	account.NewHandler(accountSvc, secret).RegisterRoutes(e.Group("/auth"))

	// Authenticated API
	api := e.Group("/api/v1")
	if cfg.IsDev() {
		api.Use(auth.DevAuthMiddleware())
	} else {
		api.Use(auth.JWTMiddleware(secret))
	}

	clinic.NewHandler(clinicSvc).RegisterRoutes(api)
	family.NewHandler(familySvc).RegisterRoutes(api)
	routine.NewHandler(routineSvc).RegisterRoutes(api)
	agenda.NewHandler(agendaSvc).RegisterRoutes(api)

	// Start server with graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
