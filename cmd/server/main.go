package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Franklimello/lajinhaStore-sub002/internal/config"
	"github.com/Franklimello/lajinhaStore-sub002/internal/database"
	"github.com/Franklimello/lajinhaStore-sub002/internal/handler"
	"github.com/Franklimello/lajinhaStore-sub002/internal/middleware"
	"github.com/Franklimello/lajinhaStore-sub002/internal/repository"
	"github.com/Franklimello/lajinhaStore-sub002/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg := config.Load()

	// Optional message archive. The relay core is memory-only; everything
	// below is a write-only sink and the server runs fine without it.
	var (
		pool        *pgxpool.Pool
		archiveRepo *repository.MessageArchiveRepository
		archiveSvc  *service.ArchiveService
	)
	if cfg.ArchiveEnabled() {
		var err error
		pool, err = database.NewPool(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to archive database: %v", err)
		}
		defer pool.Close()

		if err := database.RunMigrations(context.Background(), pool); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}

		archiveRepo = repository.NewMessageArchiveRepository(pool)
		archiveSvc = service.NewArchiveService(archiveRepo)
	}

	// Services
	notifier := service.NewTelegramNotifier(cfg.NotifyAPIBase, cfg.NotifyBotToken, cfg.NotifyChatIDs)
	if !notifier.Enabled() {
		log.Println("First-contact notifications disabled (no bot token or recipients)")
	}
	authSvc := service.NewAuthService(cfg.AdminTokenSecret)

	var sink service.ArchiveSink
	if archiveSvc != nil {
		sink = archiveSvc
	}
	hub := service.NewRelayHub(notifier, sink)

	// Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
		BodyLimit:    256 * 1024,
	})

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.AllowedOrigins}))

	// Health
	healthH := handler.NewHealthHandler(pool)
	app.Get("/health", healthH.Health)
	app.Get("/ready", healthH.Ready)

	// Operational surface
	statusH := handler.NewStatusHandler(hub)
	app.Get("/status", statusH.Status)
	app.Post("/clear-conversations",
		middleware.RateLimit(3, time.Minute),
		middleware.AdminKey(cfg.AdminKey),
		statusH.ClearConversations)

	// Key-gated admin endpoints
	admin := app.Group("/admin", middleware.AdminKey(cfg.AdminKey))
	adminH := handler.NewAdminHandler(hub, authSvc, archiveRepo)
	admin.Post("/ws-token", adminH.WSToken)
	admin.Get("/stats", adminH.Stats)

	// WebSocket
	wsH := handler.NewWSHandler(hub, authSvc)
	app.Get("/ws", wsH.Upgrade)

	// Archive retention
	retentionCtx, stopRetention := context.WithCancel(context.Background())
	if archiveSvc != nil {
		go archiveSvc.RunRetention(retentionCtx, cfg.ArchiveKeepDays)
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	log.Printf("Chat relay running on :%s (%s)", cfg.Port, cfg.Env)

	<-quit
	log.Println("Shutting down...")
	_ = app.ShutdownWithTimeout(5 * time.Second)
	hub.Shutdown()
	stopRetention()
	if archiveSvc != nil {
		archiveSvc.Close()
	}
	log.Println("Server stopped")
}
