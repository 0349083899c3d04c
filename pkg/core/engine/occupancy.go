package engine

import (
	"context"
	"fmt"

	"github.com/moritz155/johanniter/pkg/core/model"
	"github.com/moritz155/johanniter/pkg/db"
)

// updateAmbulanzOccupancy derives an Ambulanz squad's status from its open
// mission count: at least one open mission means occupied ("4"), none means
// back to available ("2"). Travel statuses (3/4) set by an operator are left
// alone until the next occupancy-triggering event re-evaluates them.
//
// Only the mission create/update paths invoke this; the plain status-change
// operation never does, so manual Trupp-style travel status and automatic
// occupancy tracking cannot fight each other.
func updateAmbulanzOccupancy(ctx context.Context, store db.Store, squad *db.Squad) error {
	if squad.Type != model.SquadTypeAmbulanz {
		return nil
	}

	missions, err := store.ListSquadMissions(ctx, squad.ID)
	if err != nil {
		return fmt.Errorf("failed to list missions for occupancy: %w", err)
	}
	activeCount := 0
	for _, m := range missions {
		if !m.IsDeleted && m.Status != model.MissionAbgeschlossen {
			activeCount++
		}
	}

	switch {
	case activeCount > 0 && squad.CurrentStatus != model.StatusBO && squad.CurrentStatus != model.StatusZBO:
		return applyAutoStatus(ctx, store, squad, model.StatusBO, msgStatusAutoBusy)
	case activeCount == 0 && squad.CurrentStatus == model.StatusBO:
		return applyAutoStatus(ctx, store, squad, model.StatusEB, msgStatusAutoFree)
	}
	return nil
}

func applyAutoStatus(ctx context.Context, store db.Store, squad *db.Squad, newStatus, msgTemplate string) error {
	oldStatus := squad.CurrentStatus
	squad.CurrentStatus = newStatus
	squad.LastStatusChange = nowUTC()
	if err := store.UpdateSquad(ctx, squad); err != nil {
		return fmt.Errorf("failed to persist auto status: %w", err)
	}
	entry := &db.LogEntry{
		Action:    db.ActionStatus,
		Details:   fmt.Sprintf(msgTemplate, squad.Name),
		SquadID:   squad.ID,
		SessionID: squad.SessionID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
	}
	if err := store.AppendLog(ctx, entry); err != nil {
		return fmt.Errorf("failed to append auto status log: %w", err)
	}
	return nil
}
