package routes

import (
	"github.com/MohammadMohid03/codenexus/internal/handlers"
	"github.com/MohammadMohid03/codenexus/internal/middleware"
	"github.com/gin-gonic/gin"
)

// RegisterBattleRoutes sets up the 1v1 battle endpoints. Everything here
// requires auth; the poll and submit paths carry their own rate limits.
func RegisterBattleRoutes(r gin.IRouter) {
	battles := r.Group("/battles")
	battles.Use(middleware.AuthMiddleware())
	{
		battles.POST("/queue", handlers.JoinBattleQueue)
		battles.DELETE("/queue", handlers.LeaveBattleQueue)

		battles.GET("/active", middleware.PollRateLimit(), handlers.GetActiveBattle)

		battles.POST("/:battleId/submit", middleware.SubmitRateLimit(), handlers.SubmitBattleSolution)
		battles.POST("/:battleId/forfeit", handlers.ForfeitBattle)

		battles.GET("/history", handlers.GetBattleHistory)
	}
}
