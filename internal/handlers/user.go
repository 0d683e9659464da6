package handlers

import (
	"net/http"

	"github.com/MohammadMohid03/codenexus/internal/database"
	"github.com/MohammadMohid03/codenexus/internal/models"
	"github.com/gin-gonic/gin"
)

// GetMe handles GET /api/users/me — profile plus battle stats.
func GetMe(c *gin.Context) {
	userID := c.GetString("userId")

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var totalBattles int64
	database.DB.Model(&models.Battle{}).
		Where("status = ? AND (player1_id = ? OR player2_id = ?)",
			models.BattleStatusCompleted, userID, userID).
		Count(&totalBattles)

	var battlesWon int64
	database.DB.Model(&models.Battle{}).
		Where("status = ? AND winner_id = ?", models.BattleStatusCompleted, userID).
		Count(&battlesWon)

	c.JSON(http.StatusOK, gin.H{
		"user": user,
		"stats": gin.H{
			"battlesWon":   battlesWon,
			"totalBattles": totalBattles,
		},
	})
}
