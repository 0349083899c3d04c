package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/moritz155/johanniter/pkg/db"
)

const missionColumns = `id, mission_number, location, initial_location, alarming_entity,
	reason, description, status, outcome, arm_id, arm_type, arm_notes, naca_score,
	notes, created_at, updated_at, session_id, is_deleted, deletion_reason`

func scanMission(row pgx.Row) (*db.Mission, error) {
	var m db.Mission
	err := row.Scan(&m.ID, &m.MissionNumber, &m.Location, &m.InitialLocation,
		&m.AlarmingEntity, &m.Reason, &m.Description, &m.Status, &m.Outcome,
		&m.ArmID, &m.ArmType, &m.ArmNotes, &m.NacaScore, &m.Notes,
		&m.CreatedAt, &m.UpdatedAt, &m.SessionID, &m.IsDeleted, &m.DeletionReason)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan mission: %w", err)
	}
	return &m, nil
}

func collectMissions(rows pgx.Rows) ([]db.Mission, error) {
	defer rows.Close()
	var missions []db.Mission
	for rows.Next() {
		m, err := scanMission(rows)
		if err != nil {
			return nil, err
		}
		missions = append(missions, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating missions: %w", err)
	}
	return missions, nil
}

// GetMission retrieves a mission by id within the session.
func (d *DB) GetMission(ctx context.Context, sessionID string, id int64) (*db.Mission, error) {
	row := d.q.QueryRow(ctx, `
		SELECT `+missionColumns+`
		FROM mission
		WHERE id = $1 AND session_id = $2
	`, id, sessionID)
	return scanMission(row)
}

// ListMissions retrieves the session's missions, newest first.
func (d *DB) ListMissions(ctx context.Context, sessionID string, includeDeleted bool) ([]db.Mission, error) {
	rows, err := d.q.Query(ctx, `
		SELECT `+missionColumns+`
		FROM mission
		WHERE session_id = $1 AND (NOT is_deleted OR $2)
		ORDER BY created_at DESC, id DESC
	`, sessionID, includeDeleted)
	if err != nil {
		return nil, fmt.Errorf("failed to query missions: %w", err)
	}
	return collectMissions(rows)
}

// InsertMission stores a new mission with its roster links and fills in the
// mission id.
func (d *DB) InsertMission(ctx context.Context, mission *db.Mission, squadIDs []int64) error {
	now := time.Now().UTC()
	if mission.CreatedAt.IsZero() {
		mission.CreatedAt = now
	}
	mission.UpdatedAt = now
	err := d.q.QueryRow(ctx, `
		INSERT INTO mission (mission_number, location, initial_location, alarming_entity,
			reason, description, status, outcome, arm_id, arm_type, arm_notes,
			naca_score, notes, created_at, updated_at, session_id, is_deleted, deletion_reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id
	`, mission.MissionNumber, mission.Location, mission.InitialLocation,
		mission.AlarmingEntity, mission.Reason, mission.Description, mission.Status,
		mission.Outcome, mission.ArmID, mission.ArmType, mission.ArmNotes,
		mission.NacaScore, mission.Notes, mission.CreatedAt, mission.UpdatedAt,
		mission.SessionID, mission.IsDeleted, mission.DeletionReason).Scan(&mission.ID)
	if err != nil {
		return fmt.Errorf("failed to insert mission: %w", err)
	}
	return d.SetMissionSquads(ctx, mission.ID, squadIDs)
}

// UpdateMission persists changes to an existing mission.
func (d *DB) UpdateMission(ctx context.Context, mission *db.Mission) error {
	mission.UpdatedAt = time.Now().UTC()
	tag, err := d.q.Exec(ctx, `
		UPDATE mission
		SET mission_number = $1, location = $2, initial_location = $3,
			alarming_entity = $4, reason = $5, description = $6, status = $7,
			outcome = $8, arm_id = $9, arm_type = $10, arm_notes = $11,
			naca_score = $12, notes = $13, updated_at = $14, is_deleted = $15,
			deletion_reason = $16
		WHERE id = $17 AND session_id = $18
	`, mission.MissionNumber, mission.Location, mission.InitialLocation,
		mission.AlarmingEntity, mission.Reason, mission.Description, mission.Status,
		mission.Outcome, mission.ArmID, mission.ArmType, mission.ArmNotes,
		mission.NacaScore, mission.Notes, mission.UpdatedAt, mission.IsDeleted,
		mission.DeletionReason, mission.ID, mission.SessionID)
	if err != nil {
		return fmt.Errorf("failed to update mission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

// ListSquadMissions retrieves every mission linked to the squad, ordered by
// creation time.
func (d *DB) ListSquadMissions(ctx context.Context, squadID int64) ([]db.Mission, error) {
	rows, err := d.q.Query(ctx, `
		SELECT `+missionColumns+`
		FROM mission m
		JOIN mission_squad ms ON ms.mission_id = m.id
		WHERE ms.squad_id = $1
		ORDER BY m.created_at, m.id
	`, squadID)
	if err != nil {
		return nil, fmt.Errorf("failed to query squad missions: %w", err)
	}
	return collectMissions(rows)
}

// MissionSquadIDs retrieves the roster squad ids in roster order.
func (d *DB) MissionSquadIDs(ctx context.Context, missionID int64) ([]int64, error) {
	rows, err := d.q.Query(ctx, `
		SELECT squad_id FROM mission_squad
		WHERE mission_id = $1
		ORDER BY position, squad_id
	`, missionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query mission roster: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan roster id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roster: %w", err)
	}
	return ids, nil
}

// SetMissionSquads replaces the mission's roster links.
func (d *DB) SetMissionSquads(ctx context.Context, missionID int64, squadIDs []int64) error {
	if _, err := d.q.Exec(ctx, `
		DELETE FROM mission_squad WHERE mission_id = $1
	`, missionID); err != nil {
		return fmt.Errorf("failed to clear mission roster: %w", err)
	}
	for i, squadID := range squadIDs {
		if _, err := d.q.Exec(ctx, `
			INSERT INTO mission_squad (mission_id, squad_id, position) VALUES ($1, $2, $3)
		`, missionID, squadID, i); err != nil {
			return fmt.Errorf("failed to link squad %d: %w", squadID, err)
		}
	}
	return nil
}
