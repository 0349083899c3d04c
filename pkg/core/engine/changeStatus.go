package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/moritz155/johanniter/pkg/core/model"
	"github.com/moritz155/johanniter/pkg/db"
)

// fallbackHandoverLocation is the displayed location for a squad returning
// from base duty when no co-assigned Ambulanz can be named.
const fallbackHandoverLocation = "BHP"

// ChangeStatusInput identifies the target squad and the requested status.
// When AccessToken is set the squad is resolved by token (the mobile path)
// and the token's session wins over the caller's.
type ChangeStatusInput struct {
	SquadID     int64
	AccessToken string
	NewStatus   string `validate:"required"`
}

// ChangeStatusResult carries the squad's state after the operation and
// whether anything changed (re-issuing the current status is a no-op).
type ChangeStatusResult struct {
	Squad   *db.SquadView
	Changed bool
}

// ChangeSquadStatus applies a manual status transition to a squad.
//
// Entering "2" (Einsatzbereit) triggers the location-inheritance rule: the
// squad's displayed location keeps its last meaningful position instead of
// reverting to nothing the moment it becomes available. Every applied
// transition appends exactly one STATUS log entry; the entry rolls back with
// the squad row if the commit fails.
func ChangeSquadStatus(ctx context.Context, store db.Store, logger *zap.Logger, sessionID string, in ChangeStatusInput) (*ChangeStatusResult, error) {
	if err := validate.Struct(in); err != nil {
		return nil, validationErr("status value missing")
	}

	squad, err := resolveSquad(ctx, store, sessionID, in)
	if err != nil {
		return nil, err
	}

	if in.NewStatus == squad.CurrentStatus {
		view, err := squadView(ctx, store, squad)
		if err != nil {
			return nil, storageErr(err, "failed to load squad view")
		}
		return &ChangeStatusResult{Squad: view, Changed: false}, nil
	}

	logger.Debug("Changing squad status",
		zap.Int64("squad_id", squad.ID),
		zap.String("old_status", squad.CurrentStatus),
		zap.String("new_status", in.NewStatus))

	oldStatus := squad.CurrentStatus

	err = store.InTx(ctx, func(tx db.Store) error {
		squad.CurrentStatus = in.NewStatus
		squad.LastStatusChange = nowUTC()

		if in.NewStatus == model.StatusEB {
			if err := inheritLocation(ctx, tx, squad, oldStatus); err != nil {
				return fmt.Errorf("failed to apply location inheritance: %w", err)
			}
		}

		if err := tx.UpdateSquad(ctx, squad); err != nil {
			return fmt.Errorf("failed to persist squad: %w", err)
		}

		var missionID int64
		if active, err := activeLinkedMission(ctx, tx, squad.ID); err != nil {
			return fmt.Errorf("failed to resolve active mission: %w", err)
		} else if active != nil {
			missionID = active.ID
		}

		entry := &db.LogEntry{
			Action:    db.ActionStatus,
			Details:   fmt.Sprintf(msgStatusChanged, squad.Name, model.CodeLabel(oldStatus), model.CodeLabel(in.NewStatus)),
			SquadID:   squad.ID,
			MissionID: missionID,
			SessionID: squad.SessionID,
			OldStatus: oldStatus,
			NewStatus: in.NewStatus,
		}
		if err := tx.AppendLog(ctx, entry); err != nil {
			return fmt.Errorf("failed to append status log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, storageErr(err, "status change not committed")
	}

	view, err := squadView(ctx, store, squad)
	if err != nil {
		return nil, storageErr(err, "failed to load squad view")
	}
	return &ChangeStatusResult{Squad: view, Changed: true}, nil
}

// resolveSquad finds the target squad by access token (mobile) or by
// session-scoped id.
func resolveSquad(ctx context.Context, store db.Store, sessionID string, in ChangeStatusInput) (*db.Squad, error) {
	if in.AccessToken != "" {
		squad, err := store.GetSquadByToken(ctx, in.AccessToken)
		if err != nil {
			return nil, storeErr(err, "no squad for access token")
		}
		if in.SquadID != 0 && in.SquadID != squad.ID {
			return nil, notFoundErr("access token does not match squad %d", in.SquadID)
		}
		return squad, nil
	}
	squad, err := store.GetSquad(ctx, sessionID, in.SquadID)
	if err != nil {
		return nil, storeErr(err, fmt.Sprintf("squad %d not found", in.SquadID))
	}
	return squad, nil
}

// inheritLocation freezes the squad's last known position when it returns to
// availability. Coming back from the scene (3/4) inherits the mission
// location; coming back from base duty (7/8) falls back to a co-assigned
// Ambulanz name or "BHP" when no location override is set.
func inheritLocation(ctx context.Context, store db.Store, squad *db.Squad, oldStatus string) error {
	target, err := activeLinkedMission(ctx, store, squad.ID)
	if err != nil {
		return err
	}
	if target == nil {
		target, err = latestCompletedMission(ctx, store, squad.ID)
		if err != nil {
			return err
		}
	}
	if target == nil {
		return nil
	}

	switch oldStatus {
	case model.StatusZBO, model.StatusBO:
		squad.CustomLocation = target.Location
	case model.StatusZAO, model.StatusAO:
		if squad.CustomLocation != "" {
			return nil
		}
		location := fallbackHandoverLocation
		roster, err := store.MissionSquadIDs(ctx, target.ID)
		if err != nil {
			return err
		}
		// First co-assigned Ambulanz in roster order wins.
		for _, id := range roster {
			if id == squad.ID {
				continue
			}
			other, err := store.GetSquad(ctx, squad.SessionID, id)
			if err != nil {
				continue
			}
			if other.Type == model.SquadTypeAmbulanz {
				location = other.Name
				break
			}
		}
		squad.CustomLocation = location
	}
	return nil
}
