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

	_ "github.com/noah-isme/student-agreement-api/api/swagger"
	"github.com/noah-isme/student-agreement-api/internal/agreement"
	"github.com/noah-isme/student-agreement-api/internal/handler"
	"github.com/noah-isme/student-agreement-api/internal/middleware"
	"github.com/noah-isme/student-agreement-api/internal/repository"
	"github.com/noah-isme/student-agreement-api/internal/service"
	"github.com/noah-isme/student-agreement-api/pkg/cache"
	"github.com/noah-isme/student-agreement-api/pkg/config"
	"github.com/noah-isme/student-agreement-api/pkg/database"
	"github.com/noah-isme/student-agreement-api/pkg/logger"
	"github.com/noah-isme/student-agreement-api/pkg/mail"
	corsmiddleware "github.com/noah-isme/student-agreement-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/student-agreement-api/pkg/middleware/requestid"
	"github.com/noah-isme/student-agreement-api/pkg/pdf"
	"github.com/noah-isme/student-agreement-api/pkg/sheets"
	"github.com/noah-isme/student-agreement-api/pkg/storage"
)

// @title Student Agreement API
// @version 1.0.0
// @description Digital student agreement intake, admin review and approval
// @BasePath /api/v1
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := buildStore(cfg, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to init submission store", "error", err)
	}

	archive, err := storage.NewLocalStorage(cfg.Approval.AgreementsDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init agreement archive", "error", err)
	}

	mailer := mail.NewMailer(cfg.SMTP, logr)
	ledger, err := sheets.NewAppender(context.Background(), cfg.Sheets, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to init ledger", "error", err)
	}

	renderer := pdf.NewRenderer(agreement.Default())
	metricsSvc := service.NewMetricsService()

	authSvc := service.NewAuthService(service.AuthConfig{
		Password:     cfg.Admin.Password,
		PasswordHash: cfg.Admin.PasswordHash,
		MaxAge:       cfg.Session.MaxAge,
		Secure:       cfg.Env == config.EnvProduction,
	}, logr)

	submissionSvc := service.NewSubmissionService(store, validator.New(), logr)
	approvalSvc := service.NewApprovalService(store, renderer, mailer, ledger, archive, metricsSvc, logr, service.ApprovalConfig{
		AdminEmail:    cfg.Admin.Email,
		NotifyTimeout: cfg.Approval.NotifyTimeout,
		LedgerTimeout: cfg.Approval.LedgerTimeout,
	})

	submissionHandler := handler.NewSubmissionHandler(submissionSvc)
	adminHandler := handler.NewAdminHandler(authSvc, submissionSvc, approvalSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/submit", submissionHandler.Submit)

	admin := api.Group("/admin")
	admin.POST("/login", adminHandler.Login)
	admin.POST("/logout", adminHandler.Logout)

	guarded := admin.Group("", middleware.RequireSession(authSvc))
	guarded.GET("/submissions", adminHandler.List)
	guarded.GET("/submissions/:id", adminHandler.Get)
	guarded.POST("/submissions/:id/approve", adminHandler.Approve)

	if cfg.AdminPagesDir != "" {
		pages := r.Group("/admin", middleware.RequirePage(authSvc, "/admin/login"))
		pages.Static("/", cfg.AdminPagesDir)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "store", cfg.Store.Driver)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// buildStore selects the submission store backend and optionally layers the
// Redis list cache on top.
func buildStore(cfg *config.Config, logr *zap.Logger) (repository.SubmissionStore, error) {
	var store repository.SubmissionStore
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		store = repository.NewPostgresStore(db)
	default:
		fs, err := repository.NewFileStore(cfg.Store.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		store = fs
	}

	if !cfg.Store.RedisEnabled {
		return store, nil
	}

	client, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, continuing without list cache", "error", err)
		return store, nil
	}
	cacheRepo := repository.NewCacheRepository(client, logr)
	return repository.NewCachedStore(store, cacheRepo, cfg.Store.ListCacheTTL, logr), nil
}
