package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/course-planner-api/api/swagger"
	"github.com/noah-isme/course-planner-api/internal/conflict"
	"github.com/noah-isme/course-planner-api/internal/handler"
	internalmiddleware "github.com/noah-isme/course-planner-api/internal/middleware"
	"github.com/noah-isme/course-planner-api/internal/models"
	"github.com/noah-isme/course-planner-api/internal/repository"
	"github.com/noah-isme/course-planner-api/internal/service"
	"github.com/noah-isme/course-planner-api/pkg/cache"
	"github.com/noah-isme/course-planner-api/pkg/config"
	"github.com/noah-isme/course-planner-api/pkg/database"
	"github.com/noah-isme/course-planner-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/course-planner-api/pkg/middleware/cors"
	profilemiddleware "github.com/noah-isme/course-planner-api/pkg/middleware/profile"
	reqidmiddleware "github.com/noah-isme/course-planner-api/pkg/middleware/requestid"
	"github.com/noah-isme/course-planner-api/pkg/storage"
)

// @title Course Planner API
// @version 0.1.0
// @description Course catalog browsing, filtering, selection and conflict checking
// @BasePath /api/v1
// @schemes http

const (
	snapshotsKept   = 5
	shutdownTimeout = 15 * time.Second
)

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := service.NewMetricsService()

	var snapshots service.CatalogSnapshotStore
	if cfg.Catalog.SnapshotPath != "" {
		sqliteDB, err := database.NewSQLite(cfg.Catalog.SnapshotPath)
		if err != nil {
			logr.Warn("catalog snapshots disabled", zap.String("path", cfg.Catalog.SnapshotPath), zap.Error(err))
		} else {
			defer sqliteDB.Close() //nolint:errcheck
			repo := repository.NewCatalogSnapshotRepository(sqliteDB, snapshotsKept)
			if err := repo.Migrate(ctx); err != nil {
				logr.Warn("catalog snapshots disabled", zap.Error(err))
			} else {
				snapshots = repo
			}
		}
	}

	var (
		selections   service.SelectionStore
		filterStates service.FilterStateStore
		pg           *sqlx.DB
	)
	if cfg.Persistence.Enabled {
		pg, err = database.NewPostgres(cfg.Database)
		if err != nil {
			logr.Fatal("failed to connect to postgres", zap.Error(err))
		}
		defer pg.Close() //nolint:errcheck
		selections = repository.NewSelectionRepository(pg)
		filterStates = repository.NewFilterStateRepository(pg)
	}

	var cacheRepo service.CacheRepository
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, catalog page cache disabled", zap.Error(err))
		} else {
			repo := repository.NewCacheRepository(client, logr)
			defer repo.Close() //nolint:errcheck
			cacheRepo = repo
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, cacheRepo != nil)

	detector := conflict.NewDetector(metrics)
	feed := repository.NewCatalogFeedRepository(cfg.Catalog.Source, cfg.Catalog.FetchTimeout)
	catalogSvc := service.NewCatalogService(feed, snapshots, metrics, logr)
	workspaces := service.NewWorkspaceService(catalogSvc, detector, selections, filterStates, metrics, cfg.Workspace.TTL, logr)

	catalogSvc.OnReload(func(ctx context.Context, catalog *models.Catalog) {
		detector.ClearCache()
		if err := cacheSvc.InvalidateCatalog(ctx); err != nil {
			logr.Warn("failed to invalidate catalog pages", zap.Error(err))
		}
		workspaces.Relink(ctx, catalog)
	})

	if err := catalogSvc.Load(ctx); err != nil {
		logr.Warn("catalog not loaded at startup", zap.Error(err))
	}

	selectionSvc := service.NewSelectionService(workspaces, catalogSvc, detector, logr)
	filterSvc := service.NewFilterService(workspaces, catalogSvc, cacheSvc, metrics, logr)
	refreshSvc := service.NewRefreshService(catalogSvc, service.RefreshConfig{
		Cooldown: cfg.Catalog.RefreshCooldown,
		Retries:  cfg.Catalog.RefreshRetries,
		Timeout:  cfg.Catalog.FetchTimeout,
	}, logr)
	refreshSvc.Start(ctx)
	defer refreshSvc.Stop()

	go refreshSvc.Run(ctx, cfg.Catalog.RefreshInterval)
	go workspaces.Run(ctx, cfg.Workspace.SweepInterval)

	var exportHandler *handler.ExportHandler
	if cfg.Exports.Enabled {
		store, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Fatal("failed to prepare export storage", zap.Error(err))
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportSvc := service.NewExportService(selectionSvc, store, signer, metrics, service.ExportConfig{
			APIPrefix: cfg.APIPrefix,
			ResultTTL: cfg.Exports.SignedURLTTL,
		}, logr)
		go exportSvc.Run(ctx, cfg.Exports.CleanupInterval)
		exportHandler = handler.NewExportHandler(exportSvc)
	}

	metricsHandler := handler.NewMetricsHandler(metrics, catalogSvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc, filterSvc, refreshSvc)
	filterHandler := handler.NewFilterHandler(filterSvc)
	selectionHandler := handler.NewSelectionHandler(selectionSvc)
	scheduleHandler := handler.NewScheduleHandler(filterSvc, selectionSvc)
	termHandler := handler.NewTermHandler()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))
	r.Use(internalmiddleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)
	r.GET("/metrics/summary", metricsHandler.Summary)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(profilemiddleware.Middleware())
	{
		api.GET("/departments", catalogHandler.Departments)
		api.GET("/courses", catalogHandler.Courses)
		api.GET("/courses/:id", catalogHandler.Course)
		api.POST("/catalog/refresh", catalogHandler.Refresh)

		filterRoutes := api.Group("/filters/:scope")
		filterRoutes.GET("", filterHandler.State)
		filterRoutes.POST("", filterHandler.Add)
		filterRoutes.DELETE("", filterHandler.Clear)
		filterRoutes.GET("/state", filterHandler.ExportState)
		filterRoutes.PUT("/state", filterHandler.ImportState)
		filterRoutes.GET("/options/:id", filterHandler.Options)
		filterRoutes.PUT("/:id", filterHandler.Update)
		filterRoutes.DELETE("/:id", filterHandler.Remove)
		filterRoutes.POST("/:id/toggle", filterHandler.Toggle)

		selectionRoutes := api.Group("/selections")
		selectionRoutes.GET("", selectionHandler.List)
		selectionRoutes.POST("", selectionHandler.Select)
		selectionRoutes.DELETE("", selectionHandler.Clear)
		selectionRoutes.GET("/export", selectionHandler.Export)
		selectionRoutes.POST("/import", selectionHandler.Import)
		selectionRoutes.DELETE("/:courseId", selectionHandler.Unselect)
		selectionRoutes.POST("/:courseId/toggle", selectionHandler.Toggle)
		selectionRoutes.PUT("/:courseId/section", selectionHandler.SetSection)
		selectionRoutes.PUT("/:courseId/required", selectionHandler.SetRequired)

		scheduleRoutes := api.Group("/schedule")
		scheduleRoutes.GET("/sections", scheduleHandler.Sections)
		scheduleRoutes.GET("/periods", scheduleHandler.Periods)
		scheduleRoutes.GET("/courses", scheduleHandler.Courses)
		scheduleRoutes.GET("/conflicts", scheduleHandler.Conflicts)
		api.POST("/conflicts/check", scheduleHandler.CheckConflicts)

		api.GET("/terms/extract", termHandler.Extract)

		if exportHandler != nil {
			api.POST("/exports", exportHandler.Create)
			api.GET("/exports/:token", exportHandler.Download)
		}
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "persistence", pg != nil, "cache", cacheSvc.Enabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
}
