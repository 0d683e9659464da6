package services

import (
	"testing"
	"time"

	"github.com/MohammadMohid03/codenexus/internal/database"
	"github.com/MohammadMohid03/codenexus/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestSweep_RemovesExpiredQueueEntries(t *testing.T) {
	setupTestDB(t)
	stale := createTestUser(t, "sw_stale")
	fresh := createTestUser(t, "sw_fresh")

	enqueue(t, stale.ID, models.DifficultyEasy, time.Now().Add(-121*time.Second))
	enqueue(t, fresh.ID, models.DifficultyEasy, time.Now().Add(-119*time.Second))

	Sweep()

	var remaining []models.QueueEntry
	database.DB.Find(&remaining)
	if assert.Len(t, remaining, 1) {
		assert.Equal(t, fresh.ID, remaining[0].UserID)
	}
}

func TestSweep_ExpiresAbandonedBattles(t *testing.T) {
	setupTestDB(t)
	challenge := createTestChallenge(t, models.DifficultyEasy, []models.TestCase{
		{Input: "in", Expected: "ok"},
	})
	a := createTestUser(t, "sw_a")
	b := createTestUser(t, "sw_b")
	c := createTestUser(t, "sw_c")
	d := createTestUser(t, "sw_d")

	abandoned := createActiveBattle(t, a.ID, b.ID, challenge.ID, time.Now().Add(-1801*time.Second))
	running := createActiveBattle(t, c.ID, d.ID, challenge.ID, time.Now().Add(-1799*time.Second))

	Sweep()

	var stored models.Battle
	database.DB.First(&stored, "id = ?", abandoned.ID)
	assert.Equal(t, models.BattleStatusExpired, stored.Status)
	assert.Nil(t, stored.WinnerID)
	assert.NotNil(t, stored.EndedAt)

	var storedRunning models.Battle
	database.DB.First(&storedRunning, "id = ?", running.ID)
	assert.Equal(t, models.BattleStatusActive, storedRunning.Status)

	// Expired battles no longer poll as active.
	active, err := GetActiveBattle(a.ID)
	assert.NoError(t, err)
	assert.Nil(t, active)
}

func TestSweep_LeavesCompletedBattlesAlone(t *testing.T) {
	setupTestDB(t)
	challenge := createTestChallenge(t, models.DifficultyEasy, []models.TestCase{
		{Input: "in", Expected: "ok"},
	})
	a := createTestUser(t, "sw_done_a")
	b := createTestUser(t, "sw_done_b")

	battle := createActiveBattle(t, a.ID, b.ID, challenge.ID, time.Now().Add(-2*time.Hour))
	ended := time.Now().Add(-time.Hour)
	database.DB.Model(battle).Updates(map[string]interface{}{
		"status":    models.BattleStatusCompleted,
		"winner_id": a.ID,
		"ended_at":  ended,
	})

	Sweep()

	var stored models.Battle
	database.DB.First(&stored, "id = ?", battle.ID)
	assert.Equal(t, models.BattleStatusCompleted, stored.Status)
	if assert.NotNil(t, stored.WinnerID) {
		assert.Equal(t, a.ID, *stored.WinnerID)
	}
	assert.WithinDuration(t, ended, *stored.EndedAt, time.Second)
}
