package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/routine-api/api/swagger"
	"github.com/noah-isme/routine-api/internal/handler"
	internalmiddleware "github.com/noah-isme/routine-api/internal/middleware"
	"github.com/noah-isme/routine-api/internal/models"
	"github.com/noah-isme/routine-api/internal/repository"
	"github.com/noah-isme/routine-api/internal/service"
	"github.com/noah-isme/routine-api/pkg/cache"
	"github.com/noah-isme/routine-api/pkg/config"
	"github.com/noah-isme/routine-api/pkg/database"
	appErrors "github.com/noah-isme/routine-api/pkg/errors"
	"github.com/noah-isme/routine-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/routine-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/routine-api/pkg/middleware/requestid"
	"github.com/noah-isme/routine-api/pkg/response"
)

// @title Department Routine API
// @version 1.0.0
// @description Generates, edits and serves weekly class routines for university departments.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	ctx := context.Background()
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Fatal("failed to connect redis", zap.Error(err))
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	entryRepo := repository.NewScheduleEntryRepository(db)
	courseTeacherRepo := repository.NewCourseTeacherRepository(db)
	resourceRepo := repository.NewResourceRepository(db)
	semesterRepo := repository.NewSemesterRepository(db)
	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Routine.CacheTTL, logr, cfg.Routine.CacheEnabled && redisClient != nil)

	var previews service.PreviewStore = service.NewMemoryPreviewStore()
	if cfg.Scheduler.PreviewStore == config.PreviewStoreRedis {
		if redisClient != nil {
			previews = service.NewRedisPreviewStore(cacheRepo)
		} else {
			logr.Warn("redis preview store requested but redis is disabled, falling back to memory")
		}
	}

	tokenSvc := service.NewTokenService(service.TokenConfig{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
		Expiry: cfg.JWT.Expiration,
	})
	routineSvc := service.NewRoutineService(courseTeacherRepo, resourceRepo, semesterRepo, entryRepo, previews, cacheSvc, metricsSvc, validate, logr, service.RoutineServiceConfig{
		PreviewTTL: cfg.Scheduler.PreviewTTL,
		Seed:       cfg.Scheduler.Seed,
	})
	entrySvc := service.NewScheduleEntryService(entryRepo, resourceRepo, semesterRepo, userRepo, cacheSvc, metricsSvc, validate, logr)
	courseTeacherSvc := service.NewCourseTeacherService(courseTeacherRepo, semesterRepo, resourceRepo, userRepo, cacheSvc, validate, logr)

	checks := map[string]handler.Pinger{"database": db}
	if redisClient != nil {
		checks["cache"] = handler.PingFunc(cacheRepo.Ping)
	}
	metricsHandler := handler.NewMetricsHandler(metricsSvc, checks)
	routineHandler := handler.NewRoutineHandler(routineSvc)
	entryHandler := handler.NewScheduleEntryHandler(entrySvc)
	courseTeacherHandler := handler.NewCourseTeacherHandler(courseTeacherSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, metricsHandler.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	admins := internalmiddleware.RequireRoles(models.RoleSuperAdmin, models.RoleDepartmentAdmin)
	audit := func(action, resource string) gin.HandlerFunc {
		return internalmiddleware.Audit(auditRepo, logr, action, resource)
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(internalmiddleware.JWT(tokenSvc))
	{
		routines := api.Group("/routines")
		generation := routines.Group("", featureGate(cfg.Scheduler.Enabled), admins)
		generation.POST("/preview", routineHandler.GeneratePreview)
		generation.GET("/previews/:id", routineHandler.GetPreview)
		generation.PATCH("/previews/:id/entries/:key", routineHandler.MoveEntry)
		generation.POST("/commit", audit(models.AuditActionRoutineCommit, "routine"), routineHandler.Commit)

		routines.GET("/export", entryHandler.Export)
		for _, segment := range handler.ProjectionSegments() {
			routines.GET("/"+segment+"/:id", withKind(segment), entryHandler.Read)
		}

		entries := api.Group("/schedule-entries")
		entries.POST("", admins, audit(models.AuditActionEntryCreate, "schedule_entry"), entryHandler.Create)
		entries.DELETE("/:id", admins, audit(models.AuditActionEntryDelete, "schedule_entry"), entryHandler.Delete)
		entries.PATCH("/:id/cancellation",
			internalmiddleware.RequireRoles(models.RoleTeacher, models.RoleDepartmentAdmin, models.RoleSuperAdmin),
			audit(models.AuditActionEntryCancel, "schedule_entry"),
			entryHandler.ToggleCancellation,
		)

		semesters := api.Group("/semesters/:id", admins)
		semesters.GET("/course-teachers", courseTeacherHandler.List)
		semesters.PUT("/course-teachers", audit(models.AuditActionCourseTeacherAssign, "course_teacher"), courseTeacherHandler.Assign)

		api.GET("/metrics/summary", admins, metricsHandler.Summary)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Info("server starting",
		zap.String("addr", addr),
		zap.String("env", cfg.Env),
		zap.String("preview_store", cfg.Scheduler.PreviewStore),
		zap.Bool("routine_cache", cacheSvc.Enabled()),
	)
	if err := r.Run(addr); err != nil && err != http.ErrServerClosed {
		logr.Fatal("server failed", zap.Error(err))
	}
}

// featureGate hides routes behind a config toggle.
func featureGate(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			response.Error(c, appErrors.ErrFeatureDisabled)
			c.Abort()
			return
		}
		c.Next()
	}
}

// withKind exposes a fixed projection segment as the :kind param.
func withKind(segment string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Params = append(c.Params, gin.Param{Key: "kind", Value: segment})
		c.Next()
	}
}
