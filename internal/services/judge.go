package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/MohammadMohid03/codenexus/internal/database"
	"github.com/MohammadMohid03/codenexus/internal/models"
	"github.com/MohammadMohid03/codenexus/pkg/errors"
	"github.com/MohammadMohid03/codenexus/pkg/logger"
	"gorm.io/gorm"
)

// TestResult reports one test case of a battle submission. Inputs and
// expected outputs stay hidden; clients only learn pass/fail.
type TestResult struct {
	Index  int    `json:"index"`
	Passed bool   `json:"passed"`
	Error  string `json:"error,omitempty"`
}

// SubmitResult is the outcome of a battle submission whose code compiled
// and was judged.
type SubmitResult struct {
	Accepted       bool         `json:"accepted"`
	TimeSeconds    int          `json:"time"`
	BattleComplete bool         `json:"battleComplete"`
	Won            bool         `json:"won"`
	XPAwarded      int          `json:"xpAwarded"`
	TestResults    []TestResult `json:"testResults"`
}

// BattleStateError is returned when an operation hits a battle that is no
// longer active. It carries the current status so clients can re-sync
// instead of retrying blindly.
type BattleStateError struct {
	Status models.BattleStatus
}

func (e *BattleStateError) Error() string {
	return fmt.Sprintf("battle is %s", e.Status)
}

// SubmitBattle judges a participant's solution against every test case of
// the battle's challenge. All tests must pass; there is no partial credit.
//
// Arbitration: the transition to completed is a single conditional update
// on status = 'active'. When both players' accepted submissions race, both
// may record solve times, but only one update flips the status; the loser
// observes zero rows affected and reports the opponent's win instead of
// erroring.
func SubmitBattle(battleID, userID, language, code string) (*SubmitResult, error) {
	var battle models.Battle
	err := database.DB.Preload("Challenge").First(&battle, "id = ?", battleID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, errors.NotFound("Battle not found")
	}
	if err != nil {
		return nil, errors.Internal("Failed to load battle")
	}

	if battle.Status != models.BattleStatusActive {
		return nil, &BattleStateError{Status: battle.Status}
	}
	if !battle.HasPlayer(userID) {
		return nil, errors.Forbidden("Not a participant in this battle")
	}

	var testCases []models.TestCase
	if err := json.Unmarshal([]byte(battle.Challenge.TestCases), &testCases); err != nil {
		return nil, errors.Internal("Malformed challenge test cases")
	}

	results := make([]TestResult, 0, len(testCases))
	allPassed := true
	for i, tc := range testCases {
		res, execErr := ExecuteCode(language, code, tc.Input)
		tr := TestResult{Index: i + 1}
		switch {
		case execErr != nil:
			// Judge unreachable: the test fails with a visible error,
			// never a 5xx to the player.
			tr.Error = "Execution service error"
			logger.Error().Err(execErr).Str("battle_id", battleID).Msg("Judge execution failed")
		case res.Run.Code != 0 || res.Run.Stderr != "":
			tr.Error = "Runtime error"
		default:
			// Exact match after trimming; no other normalization.
			tr.Passed = strings.TrimSpace(res.Run.Stdout) == strings.TrimSpace(tc.Expected)
		}
		if !tr.Passed {
			allPassed = false
		}
		results = append(results, tr)
	}

	if !allPassed {
		// Battle stays active and untouched; the opponent may still win.
		return &SubmitResult{Accepted: false, TestResults: results}, nil
	}

	elapsed := int(time.Since(battle.StartedAt).Seconds())

	timeField, codeField := "player1_time", "player1_code"
	if battle.Player2ID == userID {
		timeField, codeField = "player2_time", "player2_code"
	}

	// Record this player's solve conditionally. Zero rows affected means
	// the battle went terminal (opponent completed it, or the sweeper
	// expired it) while we were judging.
	res := database.DB.Model(&models.Battle{}).
		Where("id = ? AND status = ?", battleID, models.BattleStatusActive).
		Updates(map[string]interface{}{timeField: elapsed, codeField: code})
	if res.Error != nil {
		return nil, errors.Internal("Failed to record solve")
	}
	if res.RowsAffected == 0 {
		return concededResult(battleID, userID, elapsed, results)
	}

	// Re-read for arbitration. If the opponent's solve time is already in
	// (both submissions raced through judging), the lower time wins; a tie
	// goes to the earlier-recorded solve. Otherwise first-to-solve is
	// authoritative and this player wins now.
	if err := database.DB.First(&battle, "id = ?", battleID).Error; err != nil {
		return nil, errors.Internal("Failed to reload battle")
	}

	winnerID := userID
	if oppTime := battle.SolveTime(battle.Opponent(userID)); oppTime != nil && *oppTime <= elapsed {
		winnerID = battle.Opponent(userID)
	}

	now := time.Now()
	res = database.DB.Model(&models.Battle{}).
		Where("id = ? AND status = ?", battleID, models.BattleStatusActive).
		Updates(map[string]interface{}{
			"status":    models.BattleStatusCompleted,
			"winner_id": winnerID,
			"ended_at":  now,
		})
	if res.Error != nil {
		return nil, errors.Internal("Failed to complete battle")
	}
	if res.RowsAffected == 0 {
		// The concurrent submission's update committed first.
		return concededResult(battleID, userID, elapsed, results)
	}

	awarded := AwardBattleXP(winnerID, battle.Challenge.Difficulty)
	xp := 0
	if winnerID == userID {
		xp = awarded
	}

	logger.Info().
		Str("battle_id", battleID).
		Str("winner", winnerID).
		Int("elapsed_s", elapsed).
		Msg("Battle completed")

	return &SubmitResult{
		Accepted:       true,
		TimeSeconds:    elapsed,
		BattleComplete: true,
		Won:            winnerID == userID,
		XPAwarded:      xp,
		TestResults:    results,
	}, nil
}

// concededResult shapes the losing side of a resolved race: the solution
// passed, but the battle was decided first by the opponent or the sweeper.
func concededResult(battleID, userID string, elapsed int, results []TestResult) (*SubmitResult, error) {
	var battle models.Battle
	if err := database.DB.First(&battle, "id = ?", battleID).Error; err != nil {
		return nil, errors.Internal("Failed to reload battle")
	}
	won := battle.WinnerID != nil && *battle.WinnerID == userID
	return &SubmitResult{
		Accepted:       true,
		TimeSeconds:    elapsed,
		BattleComplete: true,
		Won:            won,
		TestResults:    results,
	}, nil
}

// ForfeitBattle ends an active battle early with the opponent as winner.
// No XP changes hands on a forfeit.
func ForfeitBattle(battleID, userID string) (*models.Battle, error) {
	var battle models.Battle
	err := database.DB.First(&battle, "id = ?", battleID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, errors.NotFound("Battle not found")
	}
	if err != nil {
		return nil, errors.Internal("Failed to load battle")
	}

	if battle.Status != models.BattleStatusActive {
		return nil, &BattleStateError{Status: battle.Status}
	}
	if !battle.HasPlayer(userID) {
		return nil, errors.Forbidden("Not a participant in this battle")
	}

	winnerID := battle.Opponent(userID)
	now := time.Now()
	res := database.DB.Model(&models.Battle{}).
		Where("id = ? AND status = ?", battleID, models.BattleStatusActive).
		Updates(map[string]interface{}{
			"status":     models.BattleStatusCompleted,
			"winner_id":  winnerID,
			"forfeit_by": userID,
			"ended_at":   now,
		})
	if res.Error != nil {
		return nil, errors.Internal("Failed to forfeit battle")
	}
	if res.RowsAffected == 0 {
		// Decided or expired while the forfeit was in flight.
		if err := database.DB.First(&battle, "id = ?", battleID).Error; err != nil {
			return nil, errors.Internal("Failed to reload battle")
		}
		return nil, &BattleStateError{Status: battle.Status}
	}

	logger.Info().
		Str("battle_id", battleID).
		Str("forfeited_by", userID).
		Str("winner", winnerID).
		Msg("Battle forfeited")

	if err := database.DB.First(&battle, "id = ?", battleID).Error; err != nil {
		return nil, errors.Internal("Failed to reload battle")
	}
	return &battle, nil
}

// BattleHistory returns the user's completed battles, newest first.
func BattleHistory(userID string, limit int) ([]models.Battle, error) {
	if limit <= 0 {
		limit = 20
	}
	var battles []models.Battle
	err := database.DB.Preload("Challenge").
		Where("status = ? AND (player1_id = ? OR player2_id = ?)",
			models.BattleStatusCompleted, userID, userID).
		Order("ended_at desc").
		Limit(limit).
		Find(&battles).Error
	if err != nil {
		return nil, errors.Internal("Failed to fetch battle history")
	}
	return battles, nil
}
