package engine

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/moritz155/johanniter/pkg/db"
)

// EndShift closes the session's active shift: end time set, active flag
// cleared, every squad access token nulled so mobile access is revoked
// instantly. The pick lists are reset to the given defaults afterwards.
//
// Ending when no shift is active is not an error; the options reset still
// happens so the next shift starts clean.
func EndShift(ctx context.Context, store db.Store, logger *zap.Logger, sessionID string, defaultOptions map[string][]string) (*db.Shift, error) {
	var shift *db.Shift

	err := store.InTx(ctx, func(tx db.Store) error {
		active, err := tx.GetActiveShift(ctx, sessionID)
		if err != nil && !errors.Is(err, db.ErrNotFound) {
			return err
		}

		if active != nil {
			now := nowUTC()
			active.IsActive = false
			active.EndTime = &now
			if err := tx.UpdateShift(ctx, active); err != nil {
				return fmt.Errorf("failed to persist shift end: %w", err)
			}
			if err := tx.ClearAccessTokens(ctx, sessionID); err != nil {
				return fmt.Errorf("failed to revoke access tokens: %w", err)
			}
			entry := &db.LogEntry{
				Action:    db.ActionConfig,
				Details:   fmt.Sprintf(msgShiftEnded, active.Location),
				SessionID: sessionID,
			}
			if err := tx.AppendLog(ctx, entry); err != nil {
				return fmt.Errorf("failed to append shift-end log: %w", err)
			}
			shift = active
		}

		if err := replaceOptions(ctx, tx, sessionID, defaultOptions); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, storageErr(err, "shift not ended")
	}

	if shift == nil {
		// Report generation still wants the last shift of the session.
		latest, err := store.GetLatestShift(ctx, sessionID)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return nil, notFoundErr("no shift for session")
			}
			return nil, storageErr(err, "failed to load latest shift")
		}
		shift = latest
	}

	logger.Info("Shift ended", zap.String("session_id", sessionID), zap.String("location", shift.Location))
	return shift, nil
}
