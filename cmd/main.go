package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yashdodwani/student-grading-system/internal/config"
	"github.com/yashdodwani/student-grading-system/internal/handlers"
	"github.com/yashdodwani/student-grading-system/internal/repository"
	"github.com/yashdodwani/student-grading-system/internal/services"
	"github.com/yashdodwani/student-grading-system/pkg/database"
	"github.com/yashdodwani/student-grading-system/pkg/logger"
	"github.com/yashdodwani/student-grading-system/pkg/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl := logger.New(cfg.Environment)
	defer zl.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Подключаемся к базе данных
	dsn := cfg.DBPath
	if cfg.DBDriver == database.DriverPostgres {
		dsn = cfg.DatabaseURL
	}
	logLevel := gormlogger.Warn
	if cfg.IsProduction() {
		logLevel = gormlogger.Error
	}
	db, err := database.NewDatabase(ctx, database.Options{
		Driver:   cfg.DBDriver,
		DSN:      dsn,
		LogLevel: logLevel,
		Logger:   zl,
	})
	if err != nil {
		zl.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Создаем репозитории и сервисы
	store := repository.NewStore(db.DB)
	access := services.NewAccess(store)

	authService := services.NewAuthService(store.Users, cfg.SecretKey, cfg.JWTExpiration, cfg.BcryptCost, zl.Named("auth"))
	userService := services.NewUserService(store, authService, zl.Named("users"))
	courseService := services.NewCourseService(store, access, zl.Named("courses"))
	assignmentService := services.NewAssignmentService(store, access, zl.Named("assignments"))
	submissionService := services.NewSubmissionService(store, access, zl.Named("submissions"))
	gradingService := services.NewGradingService(store, access, zl.Named("grading"))

	router := handlers.NewRouter(handlers.Deps{
		Logger:      zl,
		Metrics:     metrics.New(),
		DB:          db,
		Version:     cfg.APIVersion,
		CORSOrigins: cfg.CORSOrigins,
		Auth:        authService,
		Users:       userService,
		Courses:     courseService,
		Assignments: assignmentService,
		Submissions: submissionService,
		Grading:     gradingService,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		zl.Info("starting server",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Environment),
			zap.String("db_driver", cfg.DBDriver),
			zap.String("version", cfg.APIVersion))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
}
