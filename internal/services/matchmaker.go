package services

import (
	"math/rand"
	"time"

	"github.com/MohammadMohid03/codenexus/internal/config"
	"github.com/MohammadMohid03/codenexus/internal/database"
	"github.com/MohammadMohid03/codenexus/internal/models"
	"github.com/MohammadMohid03/codenexus/pkg/errors"
	"github.com/MohammadMohid03/codenexus/pkg/logger"
	"github.com/MohammadMohid03/codenexus/pkg/utils"
	"gorm.io/gorm"
)

// QueueOutcome is the result of a join-queue request: either an immediate
// match or a queued wait state.
type QueueOutcome struct {
	Matched    bool
	Battle     *models.Battle
	Difficulty models.Difficulty
	ExpiresIn  int // seconds until the queue entry goes stale
}

// JoinQueue pairs the user with the oldest compatible waiting player, or
// inserts a queue entry if nobody is waiting.
//
// The find-and-consume step is serialized by the conditional DELETE of the
// opponent's queue row inside the match transaction: when two joins race
// for the same entry, exactly one delete reports a row affected and only
// that caller creates the battle. The loser falls through to queueing.
func JoinQueue(userID, difficulty string) (*QueueOutcome, error) {
	diff, ok := models.NormalizeDifficulty(difficulty)
	if !ok {
		return nil, errors.BadRequest("Difficulty must be easy, medium or hard")
	}

	ttl := config.AppConfig.QueueTTL()
	now := time.Now()
	cutoff := now.Add(-ttl)

	// Drop ghost entries before searching so nobody matches a player
	// whose client died minutes ago.
	if err := database.DB.Where("joined_at < ?", cutoff).Delete(&models.QueueEntry{}).Error; err != nil {
		return nil, errors.Internal("Failed to clean queue")
	}

	// Re-join restarts the wait instead of duplicating the entry.
	if err := database.DB.Where("user_id = ?", userID).Delete(&models.QueueEntry{}).Error; err != nil {
		return nil, errors.Internal("Failed to reset queue entry")
	}

	active, err := GetActiveBattle(userID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, errors.Conflict("Already in an active battle")
	}

	// Oldest waiting player first, so long waits are never starved.
	var opponent models.QueueEntry
	findErr := database.DB.
		Where("difficulty = ? AND user_id != ? AND joined_at >= ?", diff, userID, cutoff).
		Order("joined_at asc").
		First(&opponent).Error

	if findErr == nil {
		// The candidate may have been matched by a concurrent request
		// between their insert and now. A stale entry is discarded and
		// the caller queues normally.
		opponentActive, err := GetActiveBattle(opponent.UserID)
		if err != nil {
			return nil, err
		}
		if opponentActive != nil {
			database.DB.Where("id = ?", opponent.ID).Delete(&models.QueueEntry{})
		} else {
			battle, err := createMatch(userID, &opponent, diff, now)
			if err != nil {
				return nil, err
			}
			if battle != nil {
				return &QueueOutcome{Matched: true, Battle: battle, Difficulty: diff}, nil
			}
			// battle == nil: lost the race for this entry, queue instead.
		}
	} else if findErr != gorm.ErrRecordNotFound {
		return nil, errors.Internal("Failed to search queue")
	}

	entry := models.QueueEntry{
		ID:         utils.GenerateID(),
		UserID:     userID,
		Difficulty: diff,
		JoinedAt:   now,
	}
	if err := database.DB.Create(&entry).Error; err != nil {
		return nil, errors.Internal("Failed to join queue")
	}

	return &QueueOutcome{
		Matched:    false,
		Difficulty: diff,
		ExpiresIn:  int(ttl.Seconds()),
	}, nil
}

// createMatch consumes the opponent's queue entry and creates the battle
// in one transaction. Returns (nil, nil) when another request consumed the
// entry first.
func createMatch(userID string, opponent *models.QueueEntry, diff models.Difficulty, now time.Time) (*models.Battle, error) {
	challenge, err := pickChallenge(diff)
	if err != nil {
		return nil, err
	}

	battle := &models.Battle{
		ID:          utils.GenerateID(),
		Player1ID:   opponent.UserID,
		Player2ID:   userID,
		ChallengeID: challenge.ID,
		Status:      models.BattleStatusActive,
		StartedAt:   now,
	}

	won := false
	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		// Deleting the specific queue row is the lock: only one racing
		// caller sees RowsAffected == 1.
		res := tx.Where("id = ?", opponent.ID).Delete(&models.QueueEntry{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		won = true
		return tx.Create(battle).Error
	})
	if txErr != nil {
		return nil, errors.Internal("Failed to create battle")
	}
	if !won {
		return nil, nil
	}

	battle.Challenge = *challenge
	logger.Info().
		Str("battle_id", battle.ID).
		Str("player1", battle.Player1ID).
		Str("player2", battle.Player2ID).
		Str("difficulty", string(diff)).
		Msg("Battle matched")

	return battle, nil
}

// pickChallenge selects one catalog challenge uniformly at random for the
// difficulty. An empty bucket is a configuration defect that silently
// breaks matchmaking, so it is logged loudly and surfaced as 503.
func pickChallenge(diff models.Difficulty) (*models.Challenge, error) {
	var challenges []models.Challenge
	if err := database.DB.Where("LOWER(difficulty) = ?", string(diff)).Find(&challenges).Error; err != nil {
		return nil, errors.Internal("Failed to load challenges")
	}
	if len(challenges) == 0 {
		logger.Error().Str("difficulty", string(diff)).Msg("No challenges configured for difficulty; matchmaking broken")
		return nil, errors.Unavailable("No challenges available for this difficulty")
	}
	return &challenges[rand.Intn(len(challenges))], nil
}

// LeaveQueue removes any queue entry for the user. Idempotent; leaving
// with no entry is a success.
func LeaveQueue(userID string) error {
	if err := database.DB.Where("user_id = ?", userID).Delete(&models.QueueEntry{}).Error; err != nil {
		return errors.Internal("Failed to leave queue")
	}
	return nil
}

// GetActiveBattle returns the single active battle the user participates
// in, or nil. Completed and expired battles are never returned; this is
// the query clients poll.
func GetActiveBattle(userID string) (*models.Battle, error) {
	var battle models.Battle
	err := database.DB.Preload("Challenge").
		Where("status = ? AND (player1_id = ? OR player2_id = ?)",
			models.BattleStatusActive, userID, userID).
		First(&battle).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Internal("Failed to fetch battle")
	}
	return &battle, nil
}
