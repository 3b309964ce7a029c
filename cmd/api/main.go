package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anjiri1684/wordpace/codec"
	config "github.com/anjiri1684/wordpace/configs"
	"github.com/anjiri1684/wordpace/database"
	"github.com/anjiri1684/wordpace/handlers"
	"github.com/anjiri1684/wordpace/jobs"
	"github.com/anjiri1684/wordpace/routes"
	"github.com/anjiri1684/wordpace/services"
	"github.com/anjiri1684/wordpace/utils"
	"github.com/anjiri1684/wordpace/websocket"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		log.Fatalf("🔥 Failed to load configuration: %v", err)
	}
	zlog, err := utils.NewLogger(settings.LogLevel)
	if err != nil {
		log.Fatalf("🔥 Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	if settings.JWTSecret == "" || settings.DeviceSecret == "" {
		zlog.Fatal("🔥 JWT_SECRET and DEVICE_SECRET must be set")
	}

	store, err := database.Open(database.Options{
		Driver:        settings.StoreDriver,
		SQLitePath:    settings.SQLitePath,
		DatabaseURL:   settings.DatabaseURL,
		RedisAddr:     settings.RedisAddr,
		RedisPassword: settings.RedisPassword,
		RedisPrefix:   "wordpace:",
	}, zlog.Named("store"))
	if err != nil {
		zlog.Fatal("🔥 Failed to open profile store", zap.Error(err))
	}
	defer store.Close()

	hub := websocket.NewHub(zlog)
	go hub.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	engine := services.NewEngine(ctx, codec.New(store, settings.ProfileKey, nil, zlog),
		services.WithLocation(settings.Location()),
		services.WithLogger(zlog),
		services.WithNotifier(hub))
	cancel()

	c, err := jobs.Schedule(engine, settings.CleanupSchedule, zlog)
	if err != nil {
		zlog.Fatal("🔥 Failed to schedule maintenance jobs", zap.Error(err))
	}
	c.Start()

	auth, err := handlers.NewDeviceAuth(settings.DeviceSecret, settings.JWTSecret)
	if err != nil {
		zlog.Fatal("🔥 Failed to hash device secret", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		AppName:       "Wordpace",
		CaseSensitive: true,
		StrictRouting: true,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  15 * time.Second,
		IdleTimeout:   60 * time.Second,
		JSONEncoder:   json.Marshal,
		JSONDecoder:   json.Unmarshal,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			zlog.Error("request failed", zap.Error(err), zap.String("path", c.Path()), zap.String("method", c.Method()))
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
		MaxAge:       86400,
	}))
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	routes.Setup(app, handlers.New(engine, hub, auth, zlog))

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		zlog.Info("shutting down")
		if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
			zlog.Error("server shutdown failed", zap.Error(err))
		}
	}()

	zlog.Info("✅ Server is running", zap.String("port", settings.Port))
	if err := app.Listen(":" + settings.Port); err != nil {
		zlog.Error("🔥 Server failed to start", zap.Error(err))
	}

	<-c.Stop().Done()
	if err := engine.Close(); err != nil {
		zlog.Error("failed to close engine", zap.Error(err))
	}
	hub.Stop()
}
