package engine

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/moritz155/johanniter/pkg/core/model"
	"github.com/moritz155/johanniter/pkg/db"
)

// armOutcomes are the outcome spellings that denote a transfer to another
// transport and make the ARM hand-off fields meaningful.
var armOutcomes = map[string]bool{
	"ARM":                          true,
	"ARM (Anderes Rettungsmittel)": true,
}

// UpdateMissionInput is a partial change set: only non-nil fields are
// compared and applied.
type UpdateMissionInput struct {
	MissionNumber  *string
	Location       *string
	AlarmingEntity *string
	Reason         *string
	Description    *string
	Status         *string
	Outcome        *string
	ArmID          *string
	ArmType        *string
	ArmNotes       *string
	NacaScore      *string
	Notes          *string
	SquadIDs       *[]int64
}

// UpdateMission applies a field diff to a mission and writes exactly one
// combined EINSATZ UPDATE log entry for the request.
//
// Squads added to the roster are dispatched through a deferred effect list
// flushed after the mission log entry, so the audit trail reads "mission
// updated" before "squad dispatched". The ordering is about readability of
// the combined history, not correctness; everything still commits as one
// transaction.
func UpdateMission(ctx context.Context, store db.Store, logger *zap.Logger, sessionID string, missionID int64, in UpdateMissionInput) (*db.Mission, error) {
	var mission *db.Mission

	err := store.InTx(ctx, func(tx db.Store) error {
		var err error
		mission, err = tx.GetMission(ctx, sessionID, missionID)
		if err != nil {
			return err
		}
		if mission.IsDeleted {
			return db.ErrNotFound
		}

		var changes []string
		var deferred []*db.Squad
		var removed []int64
		oldMissionStatus := mission.Status

		if in.Status != nil && *in.Status != mission.Status {
			changes = append(changes, fmt.Sprintf("Status geändert: %s", *in.Status))
			mission.Status = *in.Status
		}

		outcomeLogged := false
		if in.Outcome != nil && *in.Outcome != mission.Outcome {
			mission.Outcome = *in.Outcome
			armID := mission.ArmID
			if in.ArmID != nil {
				armID = *in.ArmID
			}
			if armOutcomes[mission.Outcome] && armID != "" {
				changes = append(changes, fmt.Sprintf("Ausgang: ARM (%s)", armID))
				outcomeLogged = true
			} else {
				changes = append(changes, fmt.Sprintf("Ausgang: %s", mission.Outcome))
			}
		}

		if in.ArmID != nil && *in.ArmID != mission.ArmID {
			// Suppressed when the outcome fragment above already named the
			// transfer id in this request.
			if !outcomeLogged {
				changes = append(changes, fmt.Sprintf("ARM-ID: %s", *in.ArmID))
			}
			mission.ArmID = *in.ArmID
		}

		if in.ArmType != nil && *in.ArmType != mission.ArmType {
			changes = append(changes, fmt.Sprintf("ARM-Typ: %s", *in.ArmType))
			mission.ArmType = *in.ArmType
		}

		if in.ArmNotes != nil && *in.ArmNotes != mission.ArmNotes {
			changes = append(changes, "Übergabe-Notiz aktualisiert")
			mission.ArmNotes = *in.ArmNotes
		}

		if in.NacaScore != nil && *in.NacaScore != mission.NacaScore {
			changes = append(changes, fmt.Sprintf("NACA: %s", *in.NacaScore))
			mission.NacaScore = *in.NacaScore
		}

		if in.SquadIDs != nil {
			added, removedIDs, fragment, err := applyRosterChange(ctx, tx, sessionID, mission, dedupeIDs(*in.SquadIDs))
			if err != nil {
				return err
			}
			if fragment != "" {
				changes = append(changes, fragment)
			}
			deferred = append(deferred, added...)
			removed = removedIDs
		}

		if in.Description != nil && *in.Description != mission.Description {
			changes = append(changes, "Lage aktualisiert")
			mission.Description = *in.Description
		}

		if in.Notes != nil && *in.Notes != mission.Notes {
			if mission.Notes == "" {
				changes = append(changes, fmt.Sprintf("%s: %s", msgNoteAdded, orEmpty(*in.Notes)))
			} else {
				changes = append(changes, fmt.Sprintf("Notiz geändert: %s zu %s", mission.Notes, orEmpty(*in.Notes)))
			}
			mission.Notes = *in.Notes
		}

		// One-time capture: the pre-relocation location survives any number
		// of later edits.
		if in.Location != nil && *in.Location != mission.Location && mission.InitialLocation == "" {
			mission.InitialLocation = mission.Location
		}

		for _, field := range []struct {
			label string
			input *string
			value *string
		}{
			{"Ort", in.Location, &mission.Location},
			{"Stichwort", in.Reason, &mission.Reason},
			{"Nr.", in.MissionNumber, &mission.MissionNumber},
			{"Alarmierung", in.AlarmingEntity, &mission.AlarmingEntity},
		} {
			if field.input != nil && *field.input != *field.value {
				changes = append(changes, fmt.Sprintf("%s: %s", field.label, orEmpty(*field.input)))
				*field.value = *field.input
			}
		}

		if len(changes) > 0 {
			if err := tx.UpdateMission(ctx, mission); err != nil {
				return fmt.Errorf("failed to persist mission: %w", err)
			}
			entry := &db.LogEntry{
				Action:    db.ActionMissionUpdated,
				Details:   fmt.Sprintf(msgMissionUpdated, missionLabel(mission), strings.Join(changes, "; ")),
				MissionID: mission.ID,
				SessionID: sessionID,
			}
			if mission.Status != oldMissionStatus {
				entry.OldStatus = oldMissionStatus
				entry.NewStatus = mission.Status
			}
			if err := tx.AppendLog(ctx, entry); err != nil {
				return fmt.Errorf("failed to append mission log: %w", err)
			}
		}

		// Deferred dispatch transitions, each with its own STATUS entry
		// after the mission log.
		for _, squad := range deferred {
			if squad.CurrentStatus == model.StatusIntegriert {
				continue
			}
			oldStatus := squad.CurrentStatus
			squad.CurrentStatus = model.StatusIntegriert
			squad.LastStatusChange = nowUTC()
			if err := tx.UpdateSquad(ctx, squad); err != nil {
				return fmt.Errorf("failed to dispatch squad %d: %w", squad.ID, err)
			}
			statusEntry := &db.LogEntry{
				Action:    db.ActionStatus,
				Details:   fmt.Sprintf(msgSetIntegriert, squad.Name, model.ShortLabels[model.StatusIntegriert]),
				SquadID:   squad.ID,
				MissionID: mission.ID,
				SessionID: sessionID,
				OldStatus: oldStatus,
				NewStatus: model.StatusIntegriert,
			}
			if err := tx.AppendLog(ctx, statusEntry); err != nil {
				return fmt.Errorf("failed to append dispatch log: %w", err)
			}
		}

		// Re-run occupancy for everyone on the current roster, plus squads
		// that just left it: losing the link may have freed an Ambulanz.
		roster, err := tx.MissionSquadIDs(ctx, mission.ID)
		if err != nil {
			return fmt.Errorf("failed to load roster: %w", err)
		}
		roster = append(roster, removed...)
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
		return nil, storeErr(err, fmt.Sprintf("mission %d not updated", missionID))
	}

	logger.Debug("Mission updated", zap.Int64("mission_id", missionID))
	return mission, nil
}

// applyRosterChange replaces the mission's squad roster, returning the
// squads that joined (queued for the deferred dispatch transition), the ids
// of those that left and the human-readable diff fragment.
func applyRosterChange(ctx context.Context, store db.Store, sessionID string, mission *db.Mission, newIDs []int64) ([]*db.Squad, []int64, string, error) {
	currentIDs, err := store.MissionSquadIDs(ctx, mission.ID)
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to load roster: %w", err)
	}
	if equalIDSets(currentIDs, newIDs) {
		return nil, nil, "", nil
	}

	current := make(map[int64]bool, len(currentIDs))
	for _, id := range currentIDs {
		current[id] = true
	}
	next := make(map[int64]bool, len(newIDs))
	for _, id := range newIDs {
		next[id] = true
	}

	var added []*db.Squad
	var removed []int64
	var addedNames, removedNames []string
	var resolved []int64
	for _, id := range newIDs {
		squad, err := store.GetSquad(ctx, sessionID, id)
		if err != nil {
			continue
		}
		resolved = append(resolved, id)
		if !current[id] {
			addedNames = append(addedNames, squad.Name)
			// New roster members lose their location override right away;
			// the status transition itself is deferred for log ordering.
			squad.CustomLocation = ""
			if err := store.UpdateSquad(ctx, squad); err != nil {
				return nil, nil, "", fmt.Errorf("failed to update squad %d: %w", id, err)
			}
			added = append(added, squad)
		}
	}
	for _, id := range currentIDs {
		if next[id] {
			continue
		}
		if squad, err := store.GetSquad(ctx, sessionID, id); err == nil {
			removed = append(removed, id)
			removedNames = append(removedNames, squad.Name)
		}
	}

	if err := store.SetMissionSquads(ctx, mission.ID, resolved); err != nil {
		return nil, nil, "", fmt.Errorf("failed to replace roster: %w", err)
	}

	var parts []string
	if len(addedNames) > 0 {
		parts = append(parts, "+ "+strings.Join(addedNames, ", "))
	}
	if len(removedNames) > 0 {
		parts = append(parts, "- "+strings.Join(removedNames, ", "))
	}
	return added, removed, "Trupps: " + strings.Join(parts, "; "), nil
}

func equalIDSets(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[int64]bool, len(a))
	for _, id := range a {
		set[id] = true
	}
	for _, id := range b {
		if !set[id] {
			return false
		}
	}
	return true
}
