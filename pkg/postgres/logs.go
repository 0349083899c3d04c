package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/moritz155/johanniter/pkg/db"
)

const logColumns = `id, timestamp, action, details, mission_id, squad_id, session_id, old_status, new_status`

func scanLog(row pgx.Row) (*db.LogEntry, error) {
	var l db.LogEntry
	var missionID, squadID *int64
	err := row.Scan(&l.ID, &l.Timestamp, &l.Action, &l.Details,
		&missionID, &squadID, &l.SessionID, &l.OldStatus, &l.NewStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to scan log entry: %w", err)
	}
	if missionID != nil {
		l.MissionID = *missionID
	}
	if squadID != nil {
		l.SquadID = *squadID
	}
	return &l, nil
}

func collectLogs(rows pgx.Rows) ([]db.LogEntry, error) {
	defer rows.Close()
	var entries []db.LogEntry
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating log entries: %w", err)
	}
	return entries, nil
}

// AppendLog stores a new log entry and fills in its id.
func (d *DB) AppendLog(ctx context.Context, entry *db.LogEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	var missionID, squadID *int64
	if entry.MissionID != 0 {
		missionID = &entry.MissionID
	}
	if entry.SquadID != 0 {
		squadID = &entry.SquadID
	}
	err := d.q.QueryRow(ctx, `
		INSERT INTO log_entry (timestamp, action, details, mission_id, squad_id,
			session_id, old_status, new_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, entry.Timestamp, entry.Action, entry.Details, missionID, squadID,
		entry.SessionID, entry.OldStatus, entry.NewStatus).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("failed to insert log entry: %w", err)
	}
	return nil
}

// ListLogs retrieves the session log ordered by timestamp.
func (d *DB) ListLogs(ctx context.Context, sessionID string) ([]db.LogEntry, error) {
	rows, err := d.q.Query(ctx, `
		SELECT `+logColumns+`
		FROM log_entry
		WHERE session_id = $1
		ORDER BY timestamp, id
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query log entries: %w", err)
	}
	return collectLogs(rows)
}

// ListSquadLogs retrieves a squad's log entries ordered by timestamp.
func (d *DB) ListSquadLogs(ctx context.Context, squadID int64) ([]db.LogEntry, error) {
	rows, err := d.q.Query(ctx, `
		SELECT `+logColumns+`
		FROM log_entry
		WHERE squad_id = $1
		ORDER BY timestamp, id
	`, squadID)
	if err != nil {
		return nil, fmt.Errorf("failed to query squad log: %w", err)
	}
	return collectLogs(rows)
}

// ListMissionLogs retrieves a mission's log entries ordered by timestamp.
func (d *DB) ListMissionLogs(ctx context.Context, missionID int64) ([]db.LogEntry, error) {
	rows, err := d.q.Query(ctx, `
		SELECT `+logColumns+`
		FROM log_entry
		WHERE mission_id = $1
		ORDER BY timestamp, id
	`, missionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query mission log: %w", err)
	}
	return collectLogs(rows)
}
