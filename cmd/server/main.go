package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "jobportal/docs" // swagger docs

	"github.com/labstack/echo/v4"

	"jobportal/internal/auth"
	"jobportal/internal/cache"
	"jobportal/internal/config"
	"jobportal/internal/db"
	"jobportal/internal/handler"
	"jobportal/internal/metrics"
	"jobportal/internal/repository"
	"jobportal/internal/router"
	"jobportal/internal/service"
	"jobportal/internal/storage"
)

// @title Job Portal API
// @version 1.0
// @description Role-based job portal API: vacancies, applications, resumes and profiles for students and companies.
// @host localhost:5000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	gormDB, err := db.Open(cfg.Database)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if cfg.ResetDB {
		logger.Warn("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			log.Fatalf("reset database: %v", err)
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("%v", err)
	}

	ctx := context.Background()

	cacheClient := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer cacheClient.Close()
	if err := cacheClient.Ping(ctx); err != nil {
		logger.Warn("redis unreachable, caching and token revocation are degraded", "addr", cfg.Redis.Addr, "error", err)
	}

	blobStore, err := storage.NewClient(ctx, cfg.MinIO)
	if err != nil {
		log.Fatalf("storage init: %v", err)
	}

	metrics.Register()

	// Initialize repositories
	repos := repository.New(gormDB)
	tx := repository.NewTransactor(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)
	hasher := auth.NewBcryptHasher(0)

	// Initialize services
	uploads := service.NewUploadConfig(cfg.Upload)
	authService := service.NewAuthService(repos.Users, hasher, jwtService, tokenStore)
	applicationService := service.NewApplicationService(repos, logger)
	vacancyService := service.NewVacancyService(repos.Vacancies, tx, applicationService, cacheClient, cfg.Cache.VacancyTTL, logger)
	profileService := service.NewProfileService(repos.Profiles, blobStore, uploads, logger)
	detailsService := service.NewStudentDetailsService(repos.StudentDetails)
	resumeService := service.NewResumeService(repos.Resumes, blobStore, uploads, logger)

	e := echo.New()
	e.HideBanner = true

	// Register routes
	router.Register(e, cfg, logger, jwtService, tokenStore, router.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Vacancies:    handler.NewVacancyHandler(vacancyService),
		Applications: handler.NewApplicationHandler(applicationService),
		Profiles:     handler.NewProfileHandler(profileService, detailsService),
		Resumes:      handler.NewResumeHandler(resumeService),
	})

	logger.Info("swagger documentation available", "url", swaggerURL(cfg.SwaggerHost))

	go func() {
		addr := ":" + cfg.ServerPort
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	logger.Info("server stopped")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

// swaggerURL builds the external docs URL. SwaggerHost may already include a scheme.
func swaggerURL(host string) string {
	if host == "" {
		// docker-compose maps the container's 8080 to 5000
		return "http://localhost:5000/swagger/index.html"
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return strings.TrimSuffix(host, "/") + "/swagger/index.html"
}
