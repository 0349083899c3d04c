package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/moritz155/johanniter/pkg/core/model"
	"github.com/moritz155/johanniter/pkg/db"
)

// CreateMissionInput carries the fields of a new incident. Location and
// reason are the only required ones.
type CreateMissionInput struct {
	MissionNumber  string
	Location       string `validate:"required"`
	AlarmingEntity string
	Reason         string `validate:"required"`
	Description    string
	Outcome        string
	ArmNotes       string
	NacaScore      string
	Notes          string
	SquadIDs       []int64
}

// CreateMission opens a new mission and dispatches the named squads.
//
// Trupp squads are forced to "Integriert" with their location override
// cleared so the mission location takes precedence; Ambulanz squads keep
// their status here (occupancy is derived, see updateAmbulanzOccupancy) and
// only get an INFO entry about the assigned patient. Everything, log entries
// included, commits as one unit.
func CreateMission(ctx context.Context, store db.Store, logger *zap.Logger, sessionID string, in CreateMissionInput) (*db.Mission, error) {
	if err := validate.Struct(in); err != nil {
		return nil, validationErr("location and reason are required")
	}

	mission := &db.Mission{
		MissionNumber:  in.MissionNumber,
		Location:       in.Location,
		AlarmingEntity: in.AlarmingEntity,
		Reason:         in.Reason,
		Description:    in.Description,
		Status:         model.MissionLaufend,
		Outcome:        in.Outcome,
		ArmNotes:       in.ArmNotes,
		NacaScore:      in.NacaScore,
		Notes:          in.Notes,
		SessionID:      sessionID,
	}

	err := store.InTx(ctx, func(tx db.Store) error {
		// Resolve the roster first; ids that don't exist in this session
		// are silently dropped.
		var roster []*db.Squad
		for _, id := range dedupeIDs(in.SquadIDs) {
			squad, err := tx.GetSquad(ctx, sessionID, id)
			if err != nil {
				continue
			}
			roster = append(roster, squad)
		}

		rosterIDs := make([]int64, len(roster))
		for i, s := range roster {
			rosterIDs[i] = s.ID
		}
		if err := tx.InsertMission(ctx, mission, rosterIDs); err != nil {
			return fmt.Errorf("failed to insert mission: %w", err)
		}

		for _, squad := range roster {
			if err := dispatchSquad(ctx, tx, squad, mission); err != nil {
				return err
			}
		}

		entry := &db.LogEntry{
			Action:    db.ActionMissionCreated,
			Details:   fmt.Sprintf(msgMissionCreated, missionLabel(mission), mission.Reason, mission.Location),
			MissionID: mission.ID,
			SessionID: sessionID,
		}
		if err := tx.AppendLog(ctx, entry); err != nil {
			return fmt.Errorf("failed to append mission log: %w", err)
		}

		// Occupancy runs last so the counts see the new link.
		for _, squad := range roster {
			if err := updateAmbulanzOccupancy(ctx, tx, squad); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, storageErr(err, "mission not created")
	}

	logger.Info("Mission created",
		zap.Int64("mission_id", mission.ID),
		zap.String("reason", mission.Reason),
		zap.Int("squads", len(in.SquadIDs)))
	return mission, nil
}

// dispatchSquad applies the dispatch rule for one squad joining a mission.
func dispatchSquad(ctx context.Context, store db.Store, squad *db.Squad, mission *db.Mission) error {
	if squad.Type == model.SquadTypeAmbulanz {
		entry := &db.LogEntry{
			Action:    db.ActionInfo,
			Details:   fmt.Sprintf(msgPatientAssign, squad.Name),
			SquadID:   squad.ID,
			MissionID: mission.ID,
			SessionID: squad.SessionID,
		}
		if err := store.AppendLog(ctx, entry); err != nil {
			return fmt.Errorf("failed to append assignment log: %w", err)
		}
		return nil
	}

	if squad.CurrentStatus == model.StatusIntegriert {
		return nil
	}

	oldStatus := squad.CurrentStatus
	squad.CurrentStatus = model.StatusIntegriert
	squad.LastStatusChange = nowUTC()
	squad.CustomLocation = ""
	if err := store.UpdateSquad(ctx, squad); err != nil {
		return fmt.Errorf("failed to dispatch squad %d: %w", squad.ID, err)
	}

	entry := &db.LogEntry{
		Action:    db.ActionStatus,
		Details:   fmt.Sprintf(msgDispatched, squad.Name, missionLabel(mission)),
		SquadID:   squad.ID,
		MissionID: mission.ID,
		SessionID: squad.SessionID,
		OldStatus: oldStatus,
		NewStatus: model.StatusIntegriert,
	}
	if err := store.AppendLog(ctx, entry); err != nil {
		return fmt.Errorf("failed to append dispatch log: %w", err)
	}
	return nil
}
