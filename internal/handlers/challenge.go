package handlers

import (
	"net/http"
	"time"

	"github.com/MohammadMohid03/codenexus/internal/database"
	"github.com/MohammadMohid03/codenexus/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// The challenge catalog is read-only here; battles reference it but never
// mutate it.

// ListChallenges handles GET /api/challenges
func ListChallenges(c *gin.Context) {
	cacheKey := "challenges:" + c.Query("difficulty")

	var challenges []models.Challenge
	if database.Redis != nil {
		if err := database.CacheGet(cacheKey, &challenges); err == nil {
			c.JSON(http.StatusOK, gin.H{"challenges": challenges})
			return
		}
	}

	query := database.DB.Model(&models.Challenge{})
	if diff := c.Query("difficulty"); diff != "" {
		normalized, ok := models.NormalizeDifficulty(diff)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Difficulty must be easy, medium or hard"})
			return
		}
		query = query.Where("LOWER(difficulty) = ?", string(normalized))
	}

	if err := query.Order("title asc").Find(&challenges).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch challenges"})
		return
	}

	// Expected outputs stay server-side.
	for i := range challenges {
		challenges[i].TestCases = ""
	}

	if database.Redis != nil {
		database.CacheSet(cacheKey, challenges, 5*time.Minute)
	}

	c.JSON(http.StatusOK, gin.H{"challenges": challenges})
}

// GetChallenge handles GET /api/challenges/:id
func GetChallenge(c *gin.Context) {
	id := c.Param("id")

	var challenge models.Challenge
	if err := database.DB.First(&challenge, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Challenge not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	challenge.TestCases = ""

	c.JSON(http.StatusOK, gin.H{"challenge": challenge})
}
