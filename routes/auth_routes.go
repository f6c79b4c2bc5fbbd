package routes

import (
	"github.com/menttalk/mentor_marketplace/handlers"
	"github.com/menttalk/mentor_marketplace/middleware"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", handlers.RegisterUser)
	auth.Post("/login", handlers.LoginUser)
	auth.Post("/become-mentor", middleware.Protected(), handlers.BecomeMentor)
}
