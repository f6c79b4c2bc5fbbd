package routes

import (
	"github.com/menttalk/mentor_marketplace/handlers"
	"github.com/menttalk/mentor_marketplace/middleware"
	"github.com/gofiber/fiber/v2"
)

func BookingRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	booking := api.Group("/bookings", middleware.Protected())
	booking.Get("/me", handlers.GetMyBookings)
	booking.Post("", handlers.CreateBooking)
	booking.Post("/:id/pay-with-wallet", handlers.PayBookingWithWallet)
}
