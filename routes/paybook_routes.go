package routes

import (
	"github.com/menttalk/mentor_marketplace/handlers"
	"github.com/menttalk/mentor_marketplace/middleware"
	"github.com/gofiber/fiber/v2"
)

func PaybookRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	mentor := api.Group("/mentor", middleware.Protected(), middleware.MentorRequired())
	mentor.Get("/paybook", handlers.GetMyPaybookEntries)
	mentor.Post("/payout-requests", handlers.RequestPayout)
	mentor.Get("/payout-requests", handlers.GetMyPayoutRequests)

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())
	admin.Get("/commission-settings", handlers.GetCommissionSetting)
	admin.Put("/commission-settings", handlers.UpdateCommissionSetting)
	admin.Get("/paybook", handlers.ListPaybookEntries)
	admin.Get("/payout-requests", handlers.ListPayoutRequests)
	admin.Post("/payout-requests/:id/process", handlers.ProcessPayoutRequest)
}
