package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/campus-records/api/swagger"
	"github.com/noah-isme/campus-records/internal/handler"
	"github.com/noah-isme/campus-records/internal/repository"
	"github.com/noah-isme/campus-records/internal/router"
	"github.com/noah-isme/campus-records/internal/service"
	"github.com/noah-isme/campus-records/pkg/cache"
	"github.com/noah-isme/campus-records/pkg/config"
	"github.com/noah-isme/campus-records/pkg/database"
	"github.com/noah-isme/campus-records/pkg/logger"
	"github.com/noah-isme/campus-records/pkg/storage"
)

// @title Campus Records API
// @version 1.0.0
// @description Enrollment and academic record engine
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	validate := validator.New()
	metrics := service.NewMetricsService()
	checks := map[string]handler.ReadinessCheck{}

	var reportCache *service.CacheService
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Fatal("failed to connect redis", zap.Error(err))
		}
		cacheRepo := repository.NewCacheRepository(client, cfg.Cache.Prefix, logr)
		defer cacheRepo.Close() //nolint:errcheck
		checks["redis"] = redisPinger(client)
		reportCache = service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, true)
	}

	var snapshots *repository.SnapshotRepository
	if cfg.Database.SnapshotsEnabled {
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			logr.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer db.Close() //nolint:errcheck
		checks["postgres"] = postgresPinger(db)
		snapshots = repository.NewSnapshotRepository(db)
	}

	store, err := storage.NewLocalStorage(cfg.Data.Dir)
	if err != nil {
		logr.Fatal("failed to prepare data folder", zap.Error(err))
	}

	students := repository.NewStudentRepository()
	courses := repository.NewCourseRepository()
	if snapshots != nil {
		restoreRoster(ctx, snapshots, students, logr)
	}

	engine := service.NewEnrollmentService(students, courses, metrics, validate, logr)
	reports := service.NewReportService(engine, students, courses, reportCache, logr)
	studentSvc := service.NewStudentService(students, engine, reports, validate, logr)
	courseSvc := service.NewCourseService(courses, validate, logr)
	transfer := service.NewImportExportService(store, students, courses, reports, nil, nil, nil, logr)
	backups := service.NewBackupService(cfg.Data, store, students, snapshots, metrics, logr)

	r := router.Setup(cfg, router.Handlers{
		Students:    handler.NewStudentHandler(studentSvc),
		Courses:     handler.NewCourseHandler(courseSvc),
		Enrollments: handler.NewEnrollmentHandler(engine),
		Reports:     handler.NewReportHandler(reports, transfer),
		Data:        handler.NewDataHandler(transfer, backups, validate),
		Metrics:     handler.NewMetricsHandler(metrics, checks),
	}, metrics, logr)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

func postgresPinger(db *sqlx.DB) handler.ReadinessCheck {
	return func(ctx context.Context) error { return db.PingContext(ctx) }
}

func redisPinger(client *redis.Client) handler.ReadinessCheck {
	return func(ctx context.Context) error { return client.Ping(ctx).Err() }
}

// restoreRoster seeds the student store from the last Postgres snapshot.
func restoreRoster(ctx context.Context, snapshots *repository.SnapshotRepository, students *repository.StudentRepository, logr *zap.Logger) {
	rows, err := snapshots.LoadStudents(ctx)
	if err != nil {
		logr.Warn("roster snapshot unavailable", zap.Error(err))
		return
	}
	restored := 0
	for i := range rows {
		student := rows[i]
		if err := students.Add(&student); err != nil {
			logr.Warn("skipping snapshot row", zap.String("student_id", student.ID), zap.Error(err))
			continue
		}
		restored++
	}
	logr.Info("roster restored from snapshot", zap.Int("students", restored))
}
