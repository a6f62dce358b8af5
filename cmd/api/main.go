package main

import (
	"context"
	"log"
	"time"

	"direct-chat/config"
	"direct-chat/internal/events"
	"direct-chat/internal/handler"
	"direct-chat/internal/realtime"
	"direct-chat/internal/redis"
	"direct-chat/internal/server"
	"direct-chat/internal/services"
	"direct-chat/internal/storage"
	"direct-chat/internal/websocket"
	"direct-chat/pkg/database"
	"direct-chat/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()

	mode := logger.DevelopmentMode
	if cfg.AppMode == server.ReleaseMode {
		mode = logger.ProductionMode
	}
	l := logger.New(mode)
	logger.SetGlobalLogger(l)
	defer l.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, err := database.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.StoreDriver, err)
	}
	defer func() {
		if err := stores.Close(context.Background()); err != nil {
			l.Errorf("Error closing store: %v", err)
		}
	}()
	l.Infof("Using %s store", stores.Driver)

	if cfg.SeedDevData {
		if _, err := database.Seed(ctx, stores.Users, stores.Messages, database.DefaultSeedConfig(), l); err != nil {
			log.Fatalf("Failed to seed development data: %v", err)
		}
	}

	var uploader services.ImageUploader
	if cfg.S3Bucket != "" {
		s3Client, err := storage.NewClient(ctx, storage.S3Config{
			Region:     cfg.S3Region,
			Bucket:     cfg.S3Bucket,
			AccessKey:  cfg.S3AccessKey,
			SecretKey:  cfg.S3SecretKey,
			Endpoint:   cfg.S3Endpoint,
			PublicBase: cfg.S3PublicBase,
			Prefix:     cfg.S3Prefix,
			MaxBytes:   cfg.MaxImageBytes,
		})
		if err != nil {
			log.Fatalf("Failed to create S3 client: %v", err)
		}
		uploader = s3Client
	} else {
		l.Warnf("S3_BUCKET not set, image messages will be rejected")
	}

	checks := []server.HealthCheck{{Name: "store", Check: stores.Ping}}

	var (
		registry realtime.Registry
		emitter  realtime.Emitter
		hub      *websocket.Hub
	)
	switch cfg.RegistryDriver {
	case config.RegistryRedis:
		client, err := redis.Connect(ctx, redis.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer client.Close()

		redisRegistry := realtime.NewRedisRegistry(client, 0)
		relay := events.NewRedisRelay(client)
		registry, emitter = redisRegistry, relay
		hub = websocket.NewHub(registry, l, websocket.WithRefreshInterval(redisRegistry.TTL()/3))
		checks = append(checks, server.HealthCheck{Name: "registry", Check: redisRegistry.Ping})

		go func() {
			if err := websocket.NewRedisBridge(relay, hub).Run(ctx); err != nil {
				l.Errorf("Redis bridge stopped: %v", err)
			}
		}()
	default:
		memoryRegistry := realtime.NewMemoryRegistry()
		registry = memoryRegistry
		hub = websocket.NewHub(registry, l)
		emitter = hub
		checks = append(checks, server.HealthCheck{Name: "registry", Check: memoryRegistry.Ping})
	}
	go hub.Run(ctx)

	authService := services.NewAuthService(cfg.JWTSecret, time.Duration(cfg.JWTExpiryHours)*time.Hour)
	userService := services.NewUserService(stores.Users)
	messageService := services.NewMessageService(stores.Messages, stores.Users, uploader, registry, emitter, l)

	srv := server.New(cfg, l)
	srv.SetupRoutes(&server.Handlers{
		User:      handler.NewUserHandler(userService),
		Message:   handler.NewMessageHandler(messageService),
		WebSocket: websocket.NewHandler(authService, hub, cfg.CORSOrigins),
	}, authService, checks...)

	if err := srv.Start(); err != nil {
		l.Errorf("Server exited with error: %v", err)
	}
}
