package routes

import (
	"github.com/menttalk/mentor_marketplace/handlers"
	"github.com/menttalk/mentor_marketplace/middleware"
	"github.com/gofiber/fiber/v2"
)

func WalletRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	wallet := api.Group("/wallet", middleware.Protected())
	wallet.Get("", handlers.GetWallet)
	wallet.Get("/transactions", handlers.GetWalletTransactions)
	wallet.Post("/add-funds", handlers.AddFunds)
	wallet.Post("/verify-top-up", handlers.VerifyTopUp)
	wallet.Post("/book", handlers.BookWithWallet)
}
