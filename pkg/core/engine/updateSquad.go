package engine

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/moritz155/johanniter/pkg/core/model"
	"github.com/moritz155/johanniter/pkg/db"
)

// UpdateSquadInput is a partial change set for a squad's master data.
type UpdateSquadInput struct {
	Name           *string
	Qualification  *string
	ServiceNumbers *string
	CustomLocation *string
}

// UpdateSquad edits a squad's master data and location override.
//
// The location override interacts with missions: while the squad is at or
// en route to a scene (status 3/4), a manual location edit relocates its
// open mission instead of the squad, snapshotting the mission's initial
// location on first change. Otherwise the override is applied to the squad
// and, when an open mission exists, recorded as a hand-over location note on
// it.
func UpdateSquad(ctx context.Context, store db.Store, logger *zap.Logger, sessionID string, squadID int64, in UpdateSquadInput) (*db.SquadView, error) {
	var squad *db.Squad

	err := store.InTx(ctx, func(tx db.Store) error {
		var err error
		squad, err = tx.GetSquad(ctx, sessionID, squadID)
		if err != nil {
			return err
		}

		var changes []string
		if in.Name != nil && *in.Name != squad.Name {
			changes = append(changes, fmt.Sprintf("Name: %s", *in.Name))
			squad.Name = *in.Name
		}
		if in.Qualification != nil && *in.Qualification != squad.Qualification {
			changes = append(changes, fmt.Sprintf("Qual: %s", *in.Qualification))
			squad.Qualification = *in.Qualification
		}
		if in.ServiceNumbers != nil && *in.ServiceNumbers != squad.ServiceNumbers {
			display := *in.ServiceNumbers
			if display == "" {
				display = "keine"
			}
			changes = append(changes, fmt.Sprintf("DN: %s", display))
			squad.ServiceNumbers = *in.ServiceNumbers
		}

		if in.CustomLocation != nil {
			fragment, err := applyLocationOverride(ctx, tx, squad, strings.TrimSpace(*in.CustomLocation))
			if err != nil {
				return err
			}
			if fragment != "" {
				changes = append(changes, fragment)
			}
		}

		if len(changes) == 0 {
			return nil
		}

		if err := tx.UpdateSquad(ctx, squad); err != nil {
			return fmt.Errorf("failed to persist squad: %w", err)
		}
		entry := &db.LogEntry{
			Action:    db.ActionSquadUpdated,
			Details:   fmt.Sprintf(msgSquadUpdated, squad.Name, strings.Join(changes, "; ")),
			SquadID:   squad.ID,
			SessionID: sessionID,
		}
		if err := tx.AppendLog(ctx, entry); err != nil {
			return fmt.Errorf("failed to append squad log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(err, fmt.Sprintf("squad %d not updated", squadID))
	}

	logger.Debug("Squad updated", zap.Int64("squad_id", squadID))
	return squadView(ctx, store, squad)
}

// applyLocationOverride handles a manual location edit. Returns the log
// fragment, or empty when nothing worth narrating changed.
func applyLocationOverride(ctx context.Context, store db.Store, squad *db.Squad, value string) (string, error) {
	onScene := squad.CurrentStatus == model.StatusZBO || squad.CurrentStatus == model.StatusBO

	if onScene && value != "" {
		active, err := activeLinkedMission(ctx, store, squad.ID)
		if err != nil {
			return "", err
		}
		if active != nil {
			// Relocate the mission, not the squad: the squad's displayed
			// location follows its mission anyway.
			if active.InitialLocation == "" {
				active.InitialLocation = active.Location
			}
			active.Location = value
			if err := store.UpdateMission(ctx, active); err != nil {
				return "", fmt.Errorf("failed to relocate mission: %w", err)
			}
			squad.CustomLocation = ""
			return fmt.Sprintf("Einsatzort: %s (via Trupp)", value), nil
		}
		squad.CustomLocation = value
		return "", nil
	}

	display := value
	if display == "" {
		display = "(Automatisch)"
	}
	squad.CustomLocation = value

	if value != "" {
		active, err := activeLinkedMission(ctx, store, squad.ID)
		if err != nil {
			return "", err
		}
		if active != nil {
			note := fmt.Sprintf("[%s] Abgabeort: %s", nowUTC().Format("15:04"), value)
			if active.Notes != "" {
				active.Notes += "\n" + note
			} else {
				active.Notes = note
			}
			if err := store.UpdateMission(ctx, active); err != nil {
				return "", fmt.Errorf("failed to note hand-over location: %w", err)
			}
		}
	}
	return fmt.Sprintf("Standort: %s", display), nil
}
