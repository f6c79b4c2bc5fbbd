package routes

import (
	"github.com/menttalk/mentor_marketplace/handlers"
	"github.com/menttalk/mentor_marketplace/middleware"
	"github.com/gofiber/fiber/v2"
)

func MentorRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/mentors", handlers.ListMentors)
	api.Get("/mentors/:mentorId/slots", handlers.GetMentorAvailableSlots)

	mentor := api.Group("/mentor", middleware.Protected(), middleware.MentorRequired())
	mentor.Post("/availability", handlers.CreateAvailability)
	mentor.Get("/availability", handlers.GetMyAvailability)
	mentor.Post("/time-slots", handlers.CreateTimeSlot)
	mentor.Get("/time-slots", handlers.ListMyTimeSlots)
	mentor.Get("/bookings", handlers.GetMentorBookings)
	mentor.Put("/bookings/:id/status", handlers.UpdateBookingStatus)
}
