package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sportmeet/core/activity"
	"sportmeet/core/cache"
	"sportmeet/core/config"
	"sportmeet/core/constants"
	"sportmeet/core/controller"
	"sportmeet/core/database"
	appErrors "sportmeet/core/errors"
	"sportmeet/core/logger"
	"sportmeet/core/middleware"
	"sportmeet/core/queue"
	"sportmeet/core/storage"
	"sportmeet/core/telemetry"
	"sportmeet/modules/access"
	"sportmeet/modules/chat"
	"sportmeet/modules/event"
	"sportmeet/modules/news"
	newsService "sportmeet/modules/news/service"
	"sportmeet/modules/notification"
	"sportmeet/modules/notification/hub"
	notifService "sportmeet/modules/notification/service"
	"sportmeet/modules/user"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Run loads configuration, wires every module and serves until SIGINT or
// SIGTERM.
func Run() error {
	cfg, err := config.Init()
	if err != nil {
		return err
	}
	logger.Setup(cfg.Log.Level, cfg.Log.Format, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.Telemetry, cfg.Env)
	if err != nil {
		return err
	}
	defer func() {
		c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(c); err != nil {
			logger.Warn("Server:Tracer:Shutdown:Error", "error", err)
		}
	}()

	db, err := openDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	var redisCache *cache.Cache
	if cfg.Redis.Enabled() {
		if redisCache, err = cache.NewRedisClient(cfg.Redis); err != nil {
			return err
		}
		defer redisCache.Close()
	}

	liveHub := hub.NewHub(cfg.Notification.BufferSize)
	defer liveHub.Close()

	var broadcaster notifService.Broadcaster = notifService.NewLocalBroadcaster(liveHub)
	if redisCache != nil {
		redisBroadcaster := notifService.NewRedisBroadcaster(redisCache, liveHub)
		broadcaster = redisBroadcaster
		go func() {
			if err := redisBroadcaster.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Server:RedisBroadcaster:Error", err)
			}
		}()
	}

	var enqueuer notifService.Enqueuer
	var worker *queue.Worker
	if cfg.Queue.Enabled && cfg.Redis.Enabled() {
		client := queue.NewClient(cfg.Redis)
		defer client.Close()
		enqueuer = client
		worker = queue.NewWorker(cfg.Redis, cfg.Queue.Concurrency)
	}
	notifier := notifService.NewNotificationService(broadcaster, enqueuer)
	if worker != nil {
		worker.HandleFunc(constants.TaskTypeNotificationPublish, notifier.HandlePublishTask)
		if err := worker.Start(); err != nil {
			return fmt.Errorf("failed to start queue worker: %w", err)
		}
		defer worker.Shutdown()
	}

	var publisher activity.Publisher = activity.Noop{}
	if brokers := cfg.Kafka.BrokerList(); len(brokers) > 0 {
		publisher = activity.NewKafkaPublisher(brokers, cfg.Kafka.Topic)
	}
	defer publisher.Close()

	var objectStorage storage.ObjectStorage
	if cfg.Storage.Enabled() {
		objectStorage = storage.NewS3Storage(cfg.Storage)
	}

	e := newEcho()
	mw := middleware.NewMiddleware()
	e.Use(mw.Recover(), mw.RequestLogger(), mw.Timeout())

	api := e.Group("/api/v1")
	events := event.Init(api, db, mw, notifier, publisher)
	chatService := chat.Init(api, db, mw, events.Repository, notifier, publisher)
	notification.Init(api, mw, liveHub, events.Repository,
		func(ctx context.Context, eventID uuid.UUID, principal access.Principal, body string) *appErrors.AppError {
			_, appErr := chatService.Append(ctx, eventID, principal, body)
			return appErr
		})
	user.Init(api, db, mw, objectStorage)
	var newsCache newsService.Cache
	if redisCache != nil {
		newsCache = redisCache
	}
	news.Init(api, cfg.News, newsCache)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           otelhttp.NewHandler(e, "http.server"),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server started", "addr", srv.Addr, "env", cfg.Env, "driver", db.Driver())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = controller.HTTPErrorHandler

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	return e
}

func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (database.Database, error) {
	var (
		db  database.Database
		err error
	)
	switch cfg.Driver {
	case database.DriverSQLite:
		db, err = database.OpenSQLite(cfg.Path)
	default:
		db, err = database.InitDB(database.DatabaseConfig{
			Host:     cfg.Host,
			Port:     cfg.Port,
			User:     cfg.User,
			Password: cfg.Password,
			DBName:   cfg.Name,
			SSLMode:  cfg.SSLMode,
		})
	}
	if err != nil {
		return database.Database{}, err
	}

	if cfg.Migrate {
		if err := db.Migrate(ctx); err != nil {
			_ = db.Close()
			return database.Database{}, err
		}
	}
	return db, nil
}
