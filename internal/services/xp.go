package services

import (
	"github.com/MohammadMohid03/codenexus/internal/database"
	"github.com/MohammadMohid03/codenexus/internal/models"
	"github.com/MohammadMohid03/codenexus/pkg/logger"
	"gorm.io/gorm"
)

// XP awarded to a battle winner, by challenge difficulty.
var battleXP = map[models.Difficulty]int{
	models.DifficultyEasy:   50,
	models.DifficultyMedium: 100,
	models.DifficultyHard:   150,
}

// AwardBattleXP credits the winner's XP in a single atomic increment and
// returns the amount. Called exactly once, at the winning transition.
func AwardBattleXP(userID string, difficulty models.Difficulty) int {
	amount, ok := battleXP[difficulty]
	if !ok {
		amount = battleXP[models.DifficultyMedium]
	}

	err := database.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Update("xp", gorm.Expr("xp + ?", amount)).Error
	if err != nil {
		// The battle outcome is already committed; a lost XP credit is
		// logged rather than unwinding the win.
		logger.Error().Err(err).Str("user_id", userID).Int("xp", amount).Msg("Failed to award battle XP")
		return 0
	}

	return amount
}
