package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/timeclock/internal/config"
	"github.com/cmlabs-hris/timeclock/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock/internal/domain/settings"
	appHTTP "github.com/cmlabs-hris/timeclock/internal/handler/http"
	"github.com/cmlabs-hris/timeclock/internal/pkg/cron"
	"github.com/cmlabs-hris/timeclock/internal/pkg/database"
	"github.com/cmlabs-hris/timeclock/internal/pkg/jwt"
	"github.com/cmlabs-hris/timeclock/internal/pkg/sse"
	"github.com/cmlabs-hris/timeclock/internal/repository/memory"
	"github.com/cmlabs-hris/timeclock/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/timeclock/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/timeclock/internal/service/auth"
	employeeService "github.com/cmlabs-hris/timeclock/internal/service/employee"
	reportService "github.com/cmlabs-hris/timeclock/internal/service/report"
	settingsService "github.com/cmlabs-hris/timeclock/internal/service/settings"
	"golang.org/x/sync/errgroup"
)

type repositories struct {
	employee   employee.EmployeeRepository
	attendance attendance.AttendanceRepository
	settings   settings.SettingsRepository
	transactor attendance.Transactor
	close      func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))

	if err := run(cfg); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer repos.close()

	hub := sse.NewHub()
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	settingsSvc := settingsService.NewSettingsService(repos.settings, settings.Settings{
		CooldownSeconds:       cfg.Attendance.CooldownSeconds,
		StandardShiftHours:    cfg.Attendance.StandardShiftHours,
		EntryToleranceMinutes: cfg.Attendance.EntryToleranceMinutes,
		Timezone:              cfg.App.Timezone,
	})
	employeeSvc := employeeService.NewEmployeeService(repos.employee)
	attendanceSvc := attendanceService.NewAttendanceService(
		repos.attendance,
		employeeSvc,
		settingsSvc,
		repos.transactor,
		cfg.Scanner.MinLength,
		attendanceService.WithPublisher(hub),
	)
	reportSvc := reportService.NewReportService(repos.attendance, settingsSvc)
	authSvc := serviceAuth.NewAuthService(JWTService, cfg.Admin.Username, cfg.Admin.PasswordHash)

	router := appHTTP.NewRouter(
		cfg.App,
		JWTService,
		appHTTP.NewAuthHandler(authSvc),
		appHTTP.NewAttendanceHandler(attendanceSvc, hub),
		appHTTP.NewReportHandler(reportSvc),
		appHTTP.NewEmployeeHandler(employeeSvc),
		appHTTP.NewSettingsHandler(settingsSvc),
	)

	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(repos.attendance, settingsSvc, hub).RegisterJobs(scheduler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Server running", "addr", server.Addr, "storage", cfg.Storage.Type, "timezone", cfg.App.Timezone)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		scheduler.Start(gCtx)
		<-gCtx.Done()
		scheduler.Stop()
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		slog.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func openRepositories(ctx context.Context, cfg *config.Config) (repositories, error) {
	switch cfg.Storage.Type {
	case "postgres":
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return repositories{}, fmt.Errorf("failed to connect to database: %w", err)
		}
		return repositories{
			employee:   postgresql.NewEmployeeRepository(db),
			attendance: postgresql.NewAttendanceRepository(db),
			settings:   postgresql.NewSettingsRepository(db),
			transactor: postgresql.NewTransactor(db),
			close:      db.Close,
		}, nil
	case "memory":
		slog.Warn("Using in-memory storage, records are lost on restart")
		store := memory.NewStore()
		return repositories{
			employee:   memory.NewEmployeeRepository(store),
			attendance: memory.NewAttendanceRepository(store),
			settings:   memory.NewSettingsRepository(store),
			transactor: store,
			close:      func() {},
		}, nil
	default:
		return repositories{}, fmt.Errorf("unsupported storage type %q", cfg.Storage.Type)
	}
}
