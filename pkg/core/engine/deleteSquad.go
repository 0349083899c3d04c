package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/moritz155/johanniter/pkg/db"
)

// DeleteSquad takes a unit out of service. This is an irreversible hard
// delete: the mission-link rows go first so no roster entry is left pointing
// at a dead squad, then the row itself. Mission history and log entries
// referencing the squad's id stay untouched.
func DeleteSquad(ctx context.Context, store db.Store, logger *zap.Logger, sessionID string, squadID int64) error {
	err := store.InTx(ctx, func(tx db.Store) error {
		squad, err := tx.GetSquad(ctx, sessionID, squadID)
		if err != nil {
			return err
		}
		name := squad.Name

		if err := tx.DeleteSquad(ctx, sessionID, squadID); err != nil {
			return fmt.Errorf("failed to delete squad: %w", err)
		}

		entry := &db.LogEntry{
			Action:    db.ActionSquadDeleted,
			Details:   fmt.Sprintf(msgSquadRemoved, name),
			SessionID: sessionID,
		}
		if err := tx.AppendLog(ctx, entry); err != nil {
			return fmt.Errorf("failed to append deletion log: %w", err)
		}
		return nil
	})
	if err != nil {
		return storeErr(err, fmt.Sprintf("squad %d not deleted", squadID))
	}

	logger.Info("Squad deleted", zap.Int64("squad_id", squadID))
	return nil
}

// ReorderSquads applies a new board ordering: each squad's position becomes
// its index in the given id list. Unknown ids are skipped.
func ReorderSquads(ctx context.Context, store db.Store, logger *zap.Logger, sessionID string, order []int64) error {
	err := store.InTx(ctx, func(tx db.Store) error {
		for index, id := range order {
			squad, err := tx.GetSquad(ctx, sessionID, id)
			if err != nil {
				continue
			}
			if squad.Position == index {
				continue
			}
			squad.Position = index
			if err := tx.UpdateSquad(ctx, squad); err != nil {
				return fmt.Errorf("failed to reposition squad %d: %w", id, err)
			}
		}
		return nil
	})
	if err != nil {
		return storageErr(err, "reorder not committed")
	}

	logger.Debug("Squads reordered", zap.Int("count", len(order)))
	return nil
}
