package server

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"ems/internal/domain/attendance"
	"ems/internal/domain/audit"
	"ems/internal/domain/auth"
	"ems/internal/domain/employee"
	"ems/internal/domain/leave"
	"ems/internal/domain/notifications"
	"ems/internal/domain/reports"
	"ems/internal/domain/salary"
	"ems/internal/platform/config"
	"ems/internal/platform/db"
	"ems/internal/platform/email"
	"ems/internal/platform/metrics"
	"ems/internal/platform/sequence"
	attendancehandler "ems/internal/transport/http/handlers/attendance"
	authhandler "ems/internal/transport/http/handlers/auth"
	employeehandler "ems/internal/transport/http/handlers/employee"
	leavehandler "ems/internal/transport/http/handlers/leave"
	notificationshandler "ems/internal/transport/http/handlers/notifications"
	reportshandler "ems/internal/transport/http/handlers/reports"
	salaryhandler "ems/internal/transport/http/handlers/salary"
	"ems/internal/transport/http/middleware"
)

func Run(cfg config.Config) {
	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	mailer := email.New(cfg)
	seq := sequence.New(sequence.NewStore(pool))

	authStore := auth.NewStore(pool)
	authService := auth.NewService(authStore, mailer, cfg)
	employeeService := employee.NewService(employee.NewStore(pool), seq, authService)
	leaveService := leave.NewService(leave.NewStore(pool), seq)
	attendanceService := attendance.NewService(attendance.NewStore(pool), seq, cfg.WorkdayHours, cfg.LateAfterHour)
	salaryService := salary.NewService(salary.NewStore(pool), seq)
	auditService := audit.New(pool)
	notifyService := notifications.New(notifications.NewStore(pool), mailer, cfg.EmailFrom)
	reportsService := reports.NewService(reports.NewStore(pool), leaveService)

	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		collector = metrics.New()
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Logger)
	if collector != nil {
		router.Use(middleware.Metrics(collector))
	}
	router.Use(middleware.Auth(cfg.JWTSecret, authStore))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authService, auditService).RegisterRoutes(r)
		employeehandler.NewHandler(employeeService, auditService).RegisterRoutes(r)
		leavehandler.NewHandler(leaveService, employeeService, notifyService, auditService).RegisterRoutes(r)
		attendancehandler.NewHandler(attendanceService, employeeService, auditService).RegisterRoutes(r)
		salaryhandler.NewHandler(salaryService, employeeService, notifyService, auditService).RegisterRoutes(r)
		reportshandler.NewHandler(reportsService, auditService, collector).RegisterRoutes(r)
		notificationshandler.NewHandler(notifyService).RegisterRoutes(r)
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("server listening", "addr", cfg.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	<-stop
	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "err", err)
	}
}
