package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/moritz155/johanniter/pkg/db"
)

// defaultDeletionReason is recorded when the operator gives none.
const defaultDeletionReason = "Keine Begründung"

// DeleteMission soft-deletes a mission. The row, its roster links and its
// log entries all stay in place so reports can still account for it; only
// the deleted flag and the reason change. Linked Ambulanzen are re-evaluated
// afterwards since the deleted mission no longer counts towards occupancy.
func DeleteMission(ctx context.Context, store db.Store, logger *zap.Logger, sessionID string, missionID int64, reason string) error {
	if reason == "" {
		reason = defaultDeletionReason
	}

	err := store.InTx(ctx, func(tx db.Store) error {
		mission, err := tx.GetMission(ctx, sessionID, missionID)
		if err != nil {
			return err
		}

		// Logged before the flag flips: the entry references a mission that
		// is still valid at write time.
		entry := &db.LogEntry{
			Action:    db.ActionMissionDeleted,
			Details:   fmt.Sprintf(msgMissionDeleted, missionLabel(mission), reason),
			MissionID: mission.ID,
			SessionID: sessionID,
		}
		if err := tx.AppendLog(ctx, entry); err != nil {
			return fmt.Errorf("failed to append deletion log: %w", err)
		}

		mission.IsDeleted = true
		mission.DeletionReason = reason
		if err := tx.UpdateMission(ctx, mission); err != nil {
			return fmt.Errorf("failed to persist deletion: %w", err)
		}

		roster, err := tx.MissionSquadIDs(ctx, mission.ID)
		if err != nil {
			return fmt.Errorf("failed to load roster: %w", err)
		}
		for _, id := range roster {
			squad, err := tx.GetSquad(ctx, sessionID, id)
			if err != nil {
				continue
			}
			if err := updateAmbulanzOccupancy(ctx, tx, squad); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return storeErr(err, fmt.Sprintf("mission %d not deleted", missionID))
	}

	logger.Info("Mission deleted", zap.Int64("mission_id", missionID), zap.String("reason", reason))
	return nil
}
