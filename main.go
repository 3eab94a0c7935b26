package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"madrasa/config"
	"madrasa/database"
	"madrasa/middleware"
	"madrasa/routers"
	"madrasa/utils"
)

func main() {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	utils.InitReporter(cfg)
	defer utils.FlushReports()
	utils.InitMailer(cfg)
	if cfg.CertificateServiceURL != "" {
		utils.Certificates = utils.NewCertificateClient(cfg.CertificateServiceURL)
	}

	database.ConnectDb()

	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		cache, err := database.ConnectCache(ctx, cfg.RedisURL)
		cancel()
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer cache.Close()
		database.Orders = database.RedisSequencer{Client: cache.Client}
		log.Println("[ORDER] Using redis counters for curriculum order")
	}

	if cfg.SeedFile != "" {
		if err := database.LoadSeedFile(database.Database.Db, cfg.SeedFile, cfg.SaltRound); err != nil {
			log.Fatalf("Failed to seed from %s: %v", cfg.SeedFile, err)
		}
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders: "Content-Type,Authorization,Accept-Language",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	routers.Setup(app)

	go func() {
		log.Printf("Server is running on port %s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
