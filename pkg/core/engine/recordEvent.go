package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/moritz155/johanniter/pkg/db"
)

// RecordEvent appends a free-text EREIGNIS entry to the session log. Used
// for operator observations that belong in the protocol but are not tied to
// a particular record.
func RecordEvent(ctx context.Context, store db.Store, logger *zap.Logger, sessionID, details string) error {
	if details == "" {
		return validationErr("event details are required")
	}

	entry := &db.LogEntry{
		Action:    db.ActionEvent,
		Details:   details,
		SessionID: sessionID,
	}
	if err := store.AppendLog(ctx, entry); err != nil {
		return storageErr(err, "event not recorded")
	}

	logger.Debug("Event recorded", zap.String("session_id", sessionID))
	return nil
}

// EnsureAccessTokens backfills missing squad access tokens. Squads created
// before the mobile path existed have none; the board self-heals them on
// load so every unit can be handed a QR login.
func EnsureAccessTokens(ctx context.Context, store db.Store, logger *zap.Logger, sessionID string) (int, error) {
	issued := 0
	err := store.InTx(ctx, func(tx db.Store) error {
		squads, err := tx.ListSquads(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("failed to list squads: %w", err)
		}
		for i := range squads {
			if squads[i].AccessToken != "" {
				continue
			}
			squads[i].AccessToken = uuid.New().String()
			if err := tx.UpdateSquad(ctx, &squads[i]); err != nil {
				return fmt.Errorf("failed to issue token for squad %d: %w", squads[i].ID, err)
			}
			issued++
		}
		return nil
	})
	if err != nil {
		return 0, storageErr(err, "token backfill not committed")
	}

	if issued > 0 {
		logger.Info("Issued missing access tokens", zap.Int("count", issued))
	}
	return issued, nil
}
