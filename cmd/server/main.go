package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/ario/internal/config"
	"github.com/example/ario/internal/database"
	"github.com/example/ario/internal/routes"
	"github.com/example/ario/internal/services"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg.DatabaseURL)

	app := fiber.New(fiber.Config{
		AppName: "Ario Backend",
	})

	app.Use(recover.New())
	app.Use(logger.New())

	mailer := services.NewHTTPMailer(cfg.MailAPIURL, cfg.MailAPIKey, cfg.MailFrom)
	blobs := services.NewCloudinaryStore(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)

	routes.Register(app, db, cfg, mailer, blobs)

	log.Printf("Starting server on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}
