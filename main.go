package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"storagemarket/web/internal/api"
	"storagemarket/web/internal/cache"
	"storagemarket/web/internal/config"
	"storagemarket/web/internal/db"
	"storagemarket/web/internal/email"
	"storagemarket/web/internal/logging"
	"storagemarket/web/internal/services"
	"storagemarket/web/internal/storage"
	"storagemarket/web/internal/store"
	"storagemarket/web/internal/tasks"
)

var runMode = flag.String("m", "all", "Run mode: 'api', 'bg' (background tasks), 'all' (default)")

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*runMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logging.InitLogger(cfg.AppName, cfg.LogLevel, cfg.LogFormat)
	log := logging.Logger

	switch cfg.RunMode {
	case "api", "bg", "all":
	default:
		log.Fatalf("Invalid run mode specified: %s.", cfg.RunMode)
	}
	runAPI := cfg.RunMode == "api" || cfg.RunMode == "all"
	runBg := cfg.RunMode == "bg" || cfg.RunMode == "all"

	// Initialize Cache (Redis)
	redisClient, err := cache.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer func() {
		if err := cache.DisconnectRedis(redisClient); err != nil {
			log.Errorf("Error disconnecting from Redis: %v", err)
		}
	}()

	// WaitGroup for managing goroutines
	var wg sync.WaitGroup

	// Channel to signal shutdown from Service API
	shutdownChan := make(chan struct{}, 1)

	// Start Service API (always runs)
	serviceSrv := &http.Server{
		Addr:    ":" + cfg.ServiceApiPort,
		Handler: api.SetupServiceRouter(cfg, redisClient, shutdownChan),
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Infof("Service API listening on :%s", cfg.ServiceApiPort)
		if err := serviceSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Service API ListenAndServe error: %v", err)
		}
		log.Info("Service API server stopped")
	}()

	log.Infof("Starting application in '%s' mode...", cfg.RunMode)

	var mainApiSrv *http.Server
	var taskClient *asynq.Client
	if runAPI {
		listings, closeStore, err := openListingStore(cfg, redisClient)
		if err != nil {
			log.Fatalf("Failed to open listing store: %v", err)
		}
		defer closeStore()

		media, err := openMediaStore(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize media store: %v", err)
		}

		taskClient = tasks.NewClient(cfg)
		defer taskClient.Close()

		mainApiSrv = &http.Server{
			Addr:    ":" + cfg.ApiPort,
			Handler: api.SetupRouter(cfg, listings, media, tasks.NewTaskNotifier(taskClient)),
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Infof("Main API listening on :%s", cfg.ApiPort)
			if err := mainApiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Main API ListenAndServe error: %v", err)
			}
			log.Info("Main API server stopped")
		}()
	}

	var backgroundTaskSrv *asynq.Server
	if runBg {
		taskProcessor := tasks.NewTaskProcessor(cfg, newEmailSender(cfg, redisClient), services.NewEmailTemplateService())
		srv, mux := tasks.SetupServer(tasks.RedisClientOpt(cfg), taskProcessor)
		if err := srv.Start(mux); err != nil {
			log.Fatalf("Background task server error: %v", err)
		}
		backgroundTaskSrv = srv
		log.Info("Background task server started")
	}

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Infof("Received signal: %s. Shutting down gracefully...", sig)
	case <-shutdownChan:
		log.Info("Shutdown requested via Service API. Shutting down gracefully...")
	}

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()

	if err := serviceSrv.Shutdown(ctxShutdown); err != nil {
		log.Errorf("Service API server shutdown error: %v", err)
	}
	if mainApiSrv != nil {
		if err := mainApiSrv.Shutdown(ctxShutdown); err != nil {
			log.Errorf("Main API server shutdown error: %v", err)
		}
	}
	if backgroundTaskSrv != nil {
		backgroundTaskSrv.Shutdown()
	}

	wg.Wait()
	log.Info("Server gracefully stopped")
}

// openListingStore connects the configured listing store and wraps it with the snapshot cache.
// The returned func releases the connection.
func openListingStore(cfg *config.Config, redisClient *redis.Client) (store.IListingStore, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var listings store.IListingStore
	var closeFn func()

	switch cfg.ListingStore {
	case config.StorePostgres:
		pg, err := db.ConnectPostgres(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := store.EnsurePostgresSchema(ctx, pg); err != nil {
			_ = db.DisconnectPostgres(pg)
			return nil, nil, err
		}
		listings = store.NewPostgresListingStore(pg)
		closeFn = func() {
			if err := db.DisconnectPostgres(pg); err != nil {
				logging.Logger.Errorf("Error disconnecting from Postgres: %v", err)
			}
		}
	default:
		mongoClient, mongoDb, err := db.ConnectDB(cfg.MongoURI, cfg.MongoDbName)
		if err != nil {
			return nil, nil, err
		}
		if err := store.EnsureMongoIndexes(ctx, mongoDb); err != nil {
			_ = db.DisconnectDB(mongoClient)
			return nil, nil, err
		}
		listings = store.NewMongoListingStore(mongoDb)
		closeFn = func() {
			if err := db.DisconnectDB(mongoClient); err != nil {
				logging.Logger.Errorf("Error disconnecting from MongoDB: %v", err)
			}
		}
	}

	if cfg.SnapshotCacheTTL > 0 {
		listings = store.NewCachedListingStore(listings, cache.NewRedisSnapshotCache(redisClient, cfg.SnapshotCacheTTL))
	}
	return listings, closeFn, nil
}

// openMediaStore builds the configured media store.
func openMediaStore(cfg *config.Config) (storage.IMediaStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if cfg.MediaBackend == config.MediaMinIO {
		m, err := storage.NewMinIOStorage(cfg)
		if err != nil {
			return nil, err
		}
		if err := m.EnsureBucket(ctx); err != nil {
			logging.Logger.Warnf("MinIO bucket check failed, uploads may fail: %v", err)
		}
		return m, nil
	}
	return storage.NewS3Storage(ctx, cfg)
}

// newEmailSender builds the composite sender used by the background worker.
func newEmailSender(cfg *config.Config, redisClient *redis.Client) email.Sender {
	var primaryEmailSender email.Sender
	if cfg.MockServices {
		logging.Logger.Info("MOCK_SERVICES enabled: Using Redis email sender")
		primaryEmailSender = email.NewRedisSender(redisClient, cfg)
	} else {
		primaryEmailSender = email.NewSMTPSender(cfg)
	}

	compositeSender := email.NewCompositeEmailSender(primaryEmailSender)
	if cfg.LogEmailsPath != "" {
		fileSender, err := email.NewFileEmailSender(cfg.LogEmailsPath)
		if err != nil {
			logging.Logger.Warnf("Failed to initialize file email sender (LOG_EMAILS='%s'): %v. Proceeding without file logging.", cfg.LogEmailsPath, err)
		} else {
			compositeSender.AddSender(fileSender)
		}
	}
	return compositeSender
}
