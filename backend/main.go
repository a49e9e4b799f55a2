package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"quizlearn/backend/config"
	"quizlearn/backend/database"
	"quizlearn/backend/middleware"
	"quizlearn/backend/repos"
	"quizlearn/backend/routes"
	"quizlearn/backend/services"
	"quizlearn/backend/utils"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(cfg.LogMode)
	if err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database
	client, err := database.InitDB(cfg, logger)
	if err != nil {
		logger.Fatal("Error initializing database", "error", err)
	}
	defer client.Close()

	if err := client.Migrate(); err != nil {
		logger.Fatal("Error migrating database", "error", err)
	}

	// quizlearn grant-role <email> <role>
	if len(os.Args) > 1 && os.Args[1] == "grant-role" {
		if err := grantRole(client, logger, os.Args[2:]); err != nil {
			logger.Fatal("Grant role failed", "error", err)
		}
		return
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "quizlearn",
		ErrorHandler: utils.ErrorHandler(logger),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigin,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	// Setup routes
	routes.SetupRoutes(app, client, cfg, logger)

	listenErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "port", cfg.ServerPort)
		listenErr <- app.Listen(":" + cfg.ServerPort)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-listenErr:
		client.Close()
		logger.Fatal("Server stopped", "error", err)
	case <-quit:
	}

	logger.Info("Shutting down")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Error("Shutdown failed", "error", err)
	}
}

func grantRole(client *database.Client, logger *utils.Logger, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: grant-role <email> <role>")
	}
	users := services.NewUserService(repos.NewUserRepo(client, logger), logger)
	user, err := users.GrantRoleByEmail(context.Background(), args[0], args[1])
	if err != nil {
		return err
	}
	logger.Info("Role granted", "user_id", user.ID, "roles", user.Roles)
	return nil
}
