package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/studioplan/lessongrid-api/api/swagger"
	"github.com/studioplan/lessongrid-api/internal/handler"
	"github.com/studioplan/lessongrid-api/internal/middleware"
	"github.com/studioplan/lessongrid-api/internal/repository"
	"github.com/studioplan/lessongrid-api/internal/service"
	"github.com/studioplan/lessongrid-api/pkg/cache"
	"github.com/studioplan/lessongrid-api/pkg/config"
	"github.com/studioplan/lessongrid-api/pkg/database"
	"github.com/studioplan/lessongrid-api/pkg/export"
	"github.com/studioplan/lessongrid-api/pkg/logger"
	corsmiddleware "github.com/studioplan/lessongrid-api/pkg/middleware/cors"
	reqidmiddleware "github.com/studioplan/lessongrid-api/pkg/middleware/requestid"
)

// @title LessonGrid API
// @version 0.1.0
// @description Weekly lesson availability and scheduling service
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	validate := validator.New()
	metrics := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if redisClient, err := cache.NewRedis(cfg.Redis); err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		cacheSvc = service.NewCacheService(nil, metrics, cfg.Solver.DropZoneCacheTTL, logr, false)
	} else {
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metrics, cfg.Solver.DropZoneCacheTTL, logr, true)
		defer cacheRepo.Close()
	}

	userRepo := repository.NewUserRepository(db)
	participantRepo := repository.NewParticipantRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "lessongrid-api",
	})
	participantSvc := service.NewParticipantService(participantRepo, assignmentRepo, availabilityRepo, cacheSvc, validate, logr)
	availabilitySvc := service.NewAvailabilityService(availabilityRepo, assignmentRepo, cacheSvc, validate, logr)
	assignmentSvc := service.NewAssignmentService(assignmentRepo, availabilityRepo, participantRepo, db, cacheSvc, metrics, validate, logr)
	placementSvc := service.NewPlacementService(assignmentRepo, availabilityRepo, cacheSvc, metrics,
		cfg.Solver.DefaultSnapMode, cfg.Solver.SessionTTL, validate, logr)
	analysisSvc := service.NewAnalysisService(assignmentRepo, availabilityRepo, cacheSvc, cfg.Solver.AnalysisCacheTTL, logr)
	exportSvc := service.NewExportService(assignmentRepo, participantRepo,
		export.NewCSVExporter(), export.NewPDFExporter(), export.NewICSExporter(),
		service.ExportSettings{CalendarName: cfg.Export.CalendarName, Timezone: cfg.Export.Timezone}, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	handler.Register(r, handler.Handlers{
		Auth:         handler.NewAuthHandler(authSvc),
		Participants: handler.NewParticipantHandler(participantSvc),
		Availability: handler.NewAvailabilityHandler(availabilitySvc),
		Assignments:  handler.NewAssignmentHandler(assignmentSvc),
		Placement:    handler.NewPlacementHandler(placementSvc),
		Analysis:     handler.NewAnalysisHandler(analysisSvc),
		Export:       handler.NewExportHandler(exportSvc),
		Metrics:      handler.NewMetricsHandler(metrics, db),
	}, authSvc)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
