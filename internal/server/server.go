package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"LCID/configs"
	"LCID/internal/dbs"
	"LCID/internal/handlers"
	"LCID/internal/metrics"
	"LCID/internal/middlewares"
	"LCID/internal/repositories"
	"LCID/internal/scheduler"
	"LCID/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OpenStore connects the configured snapshot backend. The returned func
// releases the connection.
func OpenStore(ctx context.Context, cfg *configs.Config, log *zap.Logger) (repositories.SnapshotStore, func(), error) {
	switch cfg.StoreBackend {
	case configs.StoreRedis:
		client, err := dbs.NewRedis(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewRedisSnapshotStore(client), func() { _ = client.Close() }, nil

	case configs.StoreMySQL:
		db, err := dbs.NewMySQL(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := repositories.EnsureSnapshotTable(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return repositories.NewMySQLSnapshotStore(db), func() { _ = db.Close() }, nil

	case configs.StoreBadger:
		db, err := dbs.OpenBadger(cfg.BadgerPath, log)
		if err != nil {
			return nil, nil, err
		}
		if cfg.BadgerPath == "" {
			log.Warn("Using in-memory badger store, the catalog is lost on restart")
		}
		return repositories.NewBadgerSnapshotStore(db), func() { _ = db.Close() }, nil
	}

	return nil, nil, fmt.Errorf("unsupported store backend %q", cfg.StoreBackend)
}

// NewSyncService wires the upstream client and the store into a sync job.
func NewSyncService(cfg *configs.Config, store repositories.SnapshotStore, log *zap.Logger) *services.SyncService {
	client := services.NewLeetCodeClient(cfg.GraphQLURL, cfg.RequestTimeout, log)
	creds := services.Credentials{CFClearance: cfg.CFClearance, CSRFToken: cfg.CSRFToken}
	return services.NewSyncService(client, store, cfg.SnapshotKey, creds, cfg.SyncProbeLimit, log)
}

// NewRouter builds the read API on top of the stored catalog.
func NewRouter(cfg *configs.Config, store repositories.SnapshotStore, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(middlewares.MetricsMiddleware(), middlewares.ErrorHandlerMiddleware(log))
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	problems := services.NewProblemService(store, cfg.SnapshotKey, log)
	sites := handlers.Sites{Primary: cfg.PrimarySiteURL, Mirror: cfg.MirrorSiteURL}
	handlers.NewProblemHandler(problems, sites, log).RegisterRoutes(router)

	return router
}

// Serve runs the HTTP API and the sync scheduler until ctx is cancelled.
func Serve(ctx context.Context, cfg *configs.Config, log *zap.Logger) error {
	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	store, closeStore, err := OpenStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open snapshot store: %w", err)
	}

	sched, err := scheduler.New(NewSyncService(cfg, store, log), cfg.SyncSchedule, cfg.SyncTimeout, log)
	if err != nil {
		closeStore()
		return err
	}
	if cfg.SyncOnStart {
		log.Info("Running first sync immediately")
		sched.Trigger()
	}
	sched.Start()

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: NewRouter(cfg, store, log),
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-serveErr:
		if runErr != nil {
			log.Error("Server failed", zap.Error(runErr))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("Server shutdown incomplete", zap.Error(err))
	}
	releaseStore(shutdownCtx, sched, closeStore, log)

	log.Info("Server stopped")
	return runErr
}

type stopper interface {
	Stop(ctx context.Context) error
}

// releaseStore stops the scheduler and closes the store once no sync can
// reach it. A run that outlives ctx keeps the store open until the process exits.
func releaseStore(ctx context.Context, sched stopper, closeStore func(), log *zap.Logger) {
	if err := sched.Stop(ctx); err != nil {
		log.Warn("Sync still running at shutdown, leaving store open", zap.Error(err))
		return
	}
	closeStore()
}

// SyncOnce performs a single blocking sync, for seeding a fresh store.
func SyncOnce(ctx context.Context, cfg *configs.Config, log *zap.Logger) error {
	store, closeStore, err := OpenStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open snapshot store: %w", err)
	}
	defer closeStore()

	ctx, cancel := context.WithTimeout(ctx, cfg.SyncTimeout)
	defer cancel()

	_, err = NewSyncService(cfg, store, log).Run(ctx)
	return err
}
