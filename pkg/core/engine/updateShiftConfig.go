package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/moritz155/johanniter/pkg/db"
)

// UpdateShiftConfigInput is a partial change set for the active shift.
type UpdateShiftConfigInput struct {
	Location  *string
	Address   *string
	StartTime *time.Time
	// EndTime distinguishes "set" (non-nil pointer to value) from "clear"
	// (non-nil pointer to nil) from "untouched" (nil).
	EndTime **time.Time
	// Locations are merged into the location pick list; existing values are
	// kept.
	Locations []string
}

// UpdateShiftConfig edits the active shift's configuration and logs the
// change summary. Fails with NotFound when the session has no active shift.
func UpdateShiftConfig(ctx context.Context, store db.Store, logger *zap.Logger, sessionID string, in UpdateShiftConfigInput) (*db.Shift, error) {
	var shift *db.Shift

	err := store.InTx(ctx, func(tx db.Store) error {
		var err error
		shift, err = tx.GetActiveShift(ctx, sessionID)
		if err != nil {
			return err
		}

		var changes []string
		if in.Location != nil && *in.Location != shift.Location {
			shift.Location = *in.Location
			changes = append(changes, "Einsatzort aktualisiert")
		}
		if in.Address != nil && *in.Address != shift.Address {
			shift.Address = *in.Address
			changes = append(changes, "Adresse aktualisiert")
		}
		if in.StartTime != nil && !in.StartTime.Equal(shift.StartTime) {
			shift.StartTime = *in.StartTime
			changes = append(changes, "Dienstbeginn geändert")
		}
		if in.EndTime != nil {
			shift.EndTime = *in.EndTime
			changes = append(changes, "Dienstende geändert")
		}

		if len(changes) > 0 {
			if err := tx.UpdateShift(ctx, shift); err != nil {
				return fmt.Errorf("failed to persist shift: %w", err)
			}
			entry := &db.LogEntry{
				Action:    db.ActionConfig,
				Details:   fmt.Sprintf(msgConfigChanged, strings.Join(changes, ", ")),
				SessionID: sessionID,
			}
			if err := tx.AppendLog(ctx, entry); err != nil {
				return fmt.Errorf("failed to append config log: %w", err)
			}
		}

		if len(in.Locations) > 0 {
			added, err := mergeLocationOptions(ctx, tx, sessionID, in.Locations)
			if err != nil {
				return err
			}
			if added > 0 {
				entry := &db.LogEntry{
					Action:    db.ActionConfig,
					Details:   fmt.Sprintf("%d neue Einsatzorte hinzugefügt", added),
					SessionID: sessionID,
				}
				if err := tx.AppendLog(ctx, entry); err != nil {
					return fmt.Errorf("failed to append import log: %w", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(err, "no active shift")
	}

	logger.Debug("Shift config updated", zap.String("session_id", sessionID))
	return shift, nil
}

// mergeLocationOptions adds new location pick-list values without touching
// existing ones. Returns the number of values actually added.
func mergeLocationOptions(ctx context.Context, store db.Store, sessionID string, locations []string) (int, error) {
	existing, err := store.ListOptions(ctx, sessionID)
	if err != nil {
		return 0, fmt.Errorf("failed to list options: %w", err)
	}
	known := make(map[string]bool)
	for _, o := range existing {
		if o.Category == "location" {
			known[o.Value] = true
		}
	}

	added := 0
	for _, value := range locations {
		if value == "" || known[value] {
			continue
		}
		known[value] = true
		option := &db.PredefinedOption{Category: "location", Value: value, SessionID: sessionID}
		if err := store.InsertOption(ctx, option); err != nil {
			return 0, fmt.Errorf("failed to insert option: %w", err)
		}
		added++
	}
	return added, nil
}
