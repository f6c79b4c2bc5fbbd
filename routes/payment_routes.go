package routes

import (
	"github.com/menttalk/mentor_marketplace/handlers"
	"github.com/menttalk/mentor_marketplace/middleware"
	"github.com/gofiber/fiber/v2"
)

func PaymentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	payments := api.Group("/payments", middleware.Protected())
	payments.Post("/verify", handlers.VerifyPayment)
}
