package services

import (
	"context"
	"time"

	"github.com/MohammadMohid03/codenexus/internal/config"
	"github.com/MohammadMohid03/codenexus/internal/database"
	"github.com/MohammadMohid03/codenexus/internal/models"
	"github.com/MohammadMohid03/codenexus/pkg/logger"
)

// StartSweeper runs the cleanup sweep once immediately, then on the
// configured interval until ctx is cancelled. Failures are logged and
// retried on the next tick; the sweeper never blocks request handling.
func StartSweeper(ctx context.Context) {
	go func() {
		log := logger.With("sweeper")

		Sweep()

		ticker := time.NewTicker(config.AppConfig.SweepInterval())
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("Sweeper stopped")
				return
			case <-ticker.C:
				Sweep()
			}
		}
	}()
}

// Sweep expires stale queue entries and abandoned battles. Both steps are
// single batched conditional statements, safe to race against an in-flight
// submit: that path and this one are both conditioned on status='active'
// and only one will win any given row.
func Sweep() {
	log := logger.With("sweeper")
	now := time.Now()

	queueCutoff := now.Add(-config.AppConfig.QueueTTL())
	res := database.DB.Where("joined_at < ?", queueCutoff).Delete(&models.QueueEntry{})
	if res.Error != nil {
		log.Error().Err(res.Error).Msg("Queue sweep failed")
	} else if res.RowsAffected > 0 {
		log.Info().Int64("removed", res.RowsAffected).Msg("Expired stale queue entries")
	}

	battleCutoff := now.Add(-config.AppConfig.BattleMaxDuration())
	res = database.DB.Model(&models.Battle{}).
		Where("status = ? AND started_at < ?", models.BattleStatusActive, battleCutoff).
		Updates(map[string]interface{}{
			"status":   models.BattleStatusExpired,
			"ended_at": now,
		})
	if res.Error != nil {
		log.Error().Err(res.Error).Msg("Battle sweep failed")
	} else if res.RowsAffected > 0 {
		log.Info().Int64("expired", res.RowsAffected).Msg("Expired abandoned battles")
	}
}
