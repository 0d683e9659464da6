package routes

import (
	"github.com/MohammadMohid03/codenexus/internal/handlers"
	"github.com/MohammadMohid03/codenexus/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterChallengeRoutes(r gin.IRouter) {
	challenges := r.Group("/challenges")
	{
		// Browsing the catalog is open; being in an active battle never
		// blocks regular practice.
		challenges.GET("", middleware.OptionalAuthMiddleware(), handlers.ListChallenges)
		challenges.GET("/:id", middleware.OptionalAuthMiddleware(), handlers.GetChallenge)
	}

	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("/me", handlers.GetMe)
	}
}
