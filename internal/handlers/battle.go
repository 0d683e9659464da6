package handlers

import (
	"net/http"
	"time"

	"github.com/MohammadMohid03/codenexus/internal/config"
	"github.com/MohammadMohid03/codenexus/internal/database"
	"github.com/MohammadMohid03/codenexus/internal/models"
	"github.com/MohammadMohid03/codenexus/internal/services"
	"github.com/MohammadMohid03/codenexus/pkg/errors"
	"github.com/gin-gonic/gin"
)

// -- Inputs -- //

type JoinQueueInput struct {
	Difficulty string `json:"difficulty" binding:"required"`
}

type SubmitBattleInput struct {
	Code     string `json:"code" binding:"required"`
	Language string `json:"language" binding:"required"`
}

// -- Helpers -- //

// battleView strips hidden challenge data (test cases) before a battle
// leaves the API.
func battleView(b *models.Battle) *models.Battle {
	if b == nil {
		return nil
	}
	view := *b
	view.Challenge.TestCases = ""
	return &view
}

func respondError(c *gin.Context, err error) {
	if stateErr, ok := err.(*services.BattleStateError); ok {
		// Carry the current status so the client re-syncs instead of
		// retrying blindly.
		c.JSON(http.StatusConflict, gin.H{
			"error":  "Battle is no longer active",
			"status": stateErr.Status,
		})
		return
	}
	if appErr, ok := err.(*errors.AppError); ok {
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

// -- Handlers -- //

// JoinBattleQueue handles POST /api/battles/queue
func JoinBattleQueue(c *gin.Context) {
	userID := c.GetString("userId")

	var input JoinQueueInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Difficulty is required"})
		return
	}

	outcome, err := services.JoinQueue(userID, input.Difficulty)
	if err != nil {
		respondError(c, err)
		return
	}

	if outcome.Matched {
		c.JSON(http.StatusOK, gin.H{
			"status": "matched",
			"battle": battleView(outcome.Battle),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       "queued",
		"difficulty":   outcome.Difficulty,
		"expiresIn":    outcome.ExpiresIn,
		"pollInterval": int(config.AppConfig.PollInterval() / time.Second),
	})
}

// LeaveBattleQueue handles DELETE /api/battles/queue
func LeaveBattleQueue(c *gin.Context) {
	userID := c.GetString("userId")

	if err := services.LeaveQueue(userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "left_queue"})
}

// GetActiveBattle handles GET /api/battles/active — the endpoint clients
// poll while queued or fighting. Responds with the battle or null.
func GetActiveBattle(c *gin.Context) {
	userID := c.GetString("userId")

	battle, err := services.GetActiveBattle(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	if battle == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, battleView(battle))
}

// SubmitBattleSolution handles POST /api/battles/:battleId/submit
func SubmitBattleSolution(c *gin.Context) {
	userID := c.GetString("userId")
	battleID := c.Param("battleId")

	var input SubmitBattleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Code and language are required"})
		return
	}

	// Per-user window on top of the IP limiter: each submit fans out to
	// the execution service once per test case.
	if database.Redis != nil {
		if allowed, err := database.CheckRateLimit("battle_submit:"+userID, 10, time.Minute); err == nil && !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many submissions, slow down"})
			return
		}
	}

	result, err := services.SubmitBattle(battleID, userID, input.Language, input.Code)
	if err != nil {
		respondError(c, err)
		return
	}

	if !result.Accepted {
		c.JSON(http.StatusOK, gin.H{
			"status":      "failed",
			"testResults": result.TestResults,
		})
		return
	}

	resp := gin.H{
		"status":         "success",
		"time":           result.TimeSeconds,
		"battleComplete": result.BattleComplete,
		"won":            result.Won,
		"testResults":    result.TestResults,
	}
	if result.XPAwarded > 0 {
		resp["xpAwarded"] = result.XPAwarded
	}
	c.JSON(http.StatusOK, resp)
}

// ForfeitBattle handles POST /api/battles/:battleId/forfeit
func ForfeitBattle(c *gin.Context) {
	userID := c.GetString("userId")
	battleID := c.Param("battleId")

	battle, err := services.ForfeitBattle(battleID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "forfeited",
		"winner_id": battle.WinnerID,
	})
}

// GetBattleHistory handles GET /api/battles/history
func GetBattleHistory(c *gin.Context) {
	userID := c.GetString("userId")

	battles, err := services.BattleHistory(userID, 20)
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]*models.Battle, len(battles))
	for i := range battles {
		views[i] = battleView(&battles[i])
	}
	c.JSON(http.StatusOK, views)
}
