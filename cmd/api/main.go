package main

import (
	"log"
	"time"

	"github.com/menttalk/mentor_marketplace/database"
	"github.com/menttalk/mentor_marketplace/jobs"
	"github.com/menttalk/mentor_marketplace/notifications"
	"github.com/menttalk/mentor_marketplace/routes"
	"github.com/menttalk/mentor_marketplace/services"
	"github.com/menttalk/mentor_marketplace/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
)

func main() {
	database.ConnectDB()
	database.Migrate()
	database.SeedAdmin()
	if err := database.ValidateCommissionSetting(); err != nil {
		log.Fatalf("🔥 Invalid commission configuration: %v", err)
	}
	notifications.InitEmailService()

	services.Expiry = services.NewExpiryScheduler(database.DB, services.UnpaidBookingTimeout)
	if err := services.Expiry.Rescan(); err != nil {
		log.Printf("🔥 Failed to rescan unpaid bookings: %v", err)
	}

	c := cron.New()
	c.AddFunc("* * * * *", jobs.ReapUnpaidBookings)
	go c.Start()
	log.Println("✅ Cron job for unpaid booking cleanup scheduled successfully.")

	app := fiber.New(fiber.Config{
		Prefork:           false,
		AppName:           "Mentor Marketplace",
		CaseSensitive:     true,
		StrictRouting:     true,
		EnablePrintRoutes: true,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to Mentor Marketplace API",
		})
	})

	routes.AuthRoutes(app)
	routes.MentorRoutes(app)
	routes.BookingRoutes(app)
	routes.PaymentRoutes(app)
	routes.WalletRoutes(app)
	routes.PaybookRoutes(app)
	routes.UploadRoutes(app)
	routes.NotificationRoutes(app)

	go websocket.RunHub()

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	log.Println("✅ Server is running on port 8080")
	err := app.Listen(":8080")
	if err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
