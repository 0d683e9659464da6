package migrations

import (
	"gorm.io/gorm"
)

// Migration001AddBattleIndexes adds Postgres partial indexes for the two
// hot battle paths:
// 1. The active-battle poll (every queued/fighting client, every 2-3s)
// 2. The matchmaker's oldest-compatible-entry scan
//
// Partial indexes on status = 'active' stay tiny no matter how much
// battle history accumulates. All statements are idempotent for safe
// re-runs.
func Migration001AddBattleIndexes() Migration {
	return Migration{
		ID:   "001_add_battle_indexes",
		Name: "Add partial indexes for battle poll and queue match paths",
		Up: func(db *gorm.DB) error {
			// Active-battle lookup by participant.
			// Optimizes: WHERE status = 'active' AND (player1_id = ? OR player2_id = ?)
			idx1 := `
				CREATE INDEX IF NOT EXISTS idx_battles_active_p1
				ON battles (player1_id) WHERE status = 'active'
			`
			if err := db.Exec(idx1).Error; err != nil {
				return err
			}

			idx2 := `
				CREATE INDEX IF NOT EXISTS idx_battles_active_p2
				ON battles (player2_id) WHERE status = 'active'
			`
			if err := db.Exec(idx2).Error; err != nil {
				return err
			}

			// Matchmaker scan.
			// Optimizes: WHERE difficulty = ? AND joined_at >= ? ORDER BY joined_at ASC
			idx3 := `
				CREATE INDEX IF NOT EXISTS idx_battle_queue_diff_joined
				ON battle_queue (difficulty, joined_at)
			`
			return db.Exec(idx3).Error
		},
		Down: func(db *gorm.DB) error {
			if err := db.Exec(`DROP INDEX IF EXISTS idx_battle_queue_diff_joined`).Error; err != nil {
				return err
			}
			if err := db.Exec(`DROP INDEX IF EXISTS idx_battles_active_p2`).Error; err != nil {
				return err
			}
			return db.Exec(`DROP INDEX IF EXISTS idx_battles_active_p1`).Error
		},
	}
}
