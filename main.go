package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"telegram-sharebot/bot"
	"telegram-sharebot/configs"
	"telegram-sharebot/controllers"
	"telegram-sharebot/models"
	"telegram-sharebot/services"
	"telegram-sharebot/storage"
)

func main() {
	env, err := configs.LoadEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := configs.NewLogger(env.AppEnv)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := configs.ConnectDB(ctx, env.MongoURI)
	if err != nil {
		logger.Fatal("mongo connection failed", zap.Error(err))
	}
	db := client.Database(env.DBName)

	if err := configs.SetupIndexes(db); err != nil {
		logger.Warn("index setup failed, continuing", zap.Error(err))
	}

	stores := storage.NewStores(db)

	settings, err := services.LoadSettings(ctx, stores.Settings, models.Settings{
		AutoDeleteTime: env.DefaultAutoDeleteTime,
		PrefixName:     env.DefaultPrefixName,
		LinkEnabled:    true,
	}, env.AdminID)
	if err != nil {
		logger.Fatal("settings load failed", zap.Error(err))
	}

	api, err := bot.NewClient(env.BotToken)
	if err != nil {
		logger.Fatal("telegram client failed", zap.Error(err))
	}

	sender := bot.NewTelegramSender(api)
	registry := services.NewRegistry(stores.Files, stores.Batches, services.HashCodeGenerator{}, logger)
	scheduler := services.NewAutoDelete(settings, sender, logger)

	b := bot.New(bot.Deps{
		API:      api,
		Env:      env,
		Log:      logger,
		Settings: settings,
		Registry: registry,
		Intake:   services.NewBatchIntake(registry),
		Captions: services.NewPromptSessions(),
		Delivery: services.NewDelivery(registry, settings, sender, scheduler, logger),
		Search:   services.NewSearch(stores.Files, stores.Batches),
		Short:    services.NewShortener(settings, logger),
		Cast:     services.NewBroadcaster(stores.Users, sender, logger),
		Users:    services.NewUsers(stores.Users),
	})

	go b.Run(ctx)

	if env.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	health := controllers.NewHealth(client)
	router.GET("/healthz", health.Liveness)
	router.GET("/readyz", health.Readiness)

	srv := &http.Server{
		Addr:    env.HealthAddr,
		Handler: router,
	}

	go func() {
		logger.Info("health server starting", zap.String("addr", env.HealthAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("health server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("health server forced shutdown", zap.Error(err))
	}
	if err := client.Disconnect(shutdownCtx); err != nil {
		logger.Warn("mongo disconnect failed", zap.Error(err))
	}

	logger.Info("exited gracefully")
}
