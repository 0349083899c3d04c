package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/moritz155/johanniter/pkg/db"
)

const shiftColumns = `id, location, address, start_time, end_time, is_active, session_id, password_hash`

func scanShift(row pgx.Row) (*db.Shift, error) {
	var s db.Shift
	err := row.Scan(&s.ID, &s.Location, &s.Address, &s.StartTime, &s.EndTime,
		&s.IsActive, &s.SessionID, &s.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan shift: %w", err)
	}
	return &s, nil
}

// GetActiveShift retrieves the session's active shift configuration.
func (d *DB) GetActiveShift(ctx context.Context, sessionID string) (*db.Shift, error) {
	row := d.q.QueryRow(ctx, `
		SELECT `+shiftColumns+`
		FROM shift_config
		WHERE session_id = $1 AND is_active
		ORDER BY id DESC
		LIMIT 1
	`, sessionID)
	return scanShift(row)
}

// GetLatestShift retrieves the session's most recent shift, active or not.
func (d *DB) GetLatestShift(ctx context.Context, sessionID string) (*db.Shift, error) {
	row := d.q.QueryRow(ctx, `
		SELECT `+shiftColumns+`
		FROM shift_config
		WHERE session_id = $1
		ORDER BY id DESC
		LIMIT 1
	`, sessionID)
	return scanShift(row)
}

// InsertShift stores a new shift configuration and fills in its id.
func (d *DB) InsertShift(ctx context.Context, shift *db.Shift) error {
	err := d.q.QueryRow(ctx, `
		INSERT INTO shift_config (location, address, start_time, end_time, is_active, session_id, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, shift.Location, shift.Address, shift.StartTime, shift.EndTime,
		shift.IsActive, shift.SessionID, shift.PasswordHash).Scan(&shift.ID)
	if err != nil {
		return fmt.Errorf("failed to insert shift: %w", err)
	}
	return nil
}

// UpdateShift persists changes to an existing shift configuration.
func (d *DB) UpdateShift(ctx context.Context, shift *db.Shift) error {
	tag, err := d.q.Exec(ctx, `
		UPDATE shift_config
		SET location = $1, address = $2, start_time = $3, end_time = $4,
			is_active = $5, password_hash = $6
		WHERE id = $7 AND session_id = $8
	`, shift.Location, shift.Address, shift.StartTime, shift.EndTime,
		shift.IsActive, shift.PasswordHash, shift.ID, shift.SessionID)
	if err != nil {
		return fmt.Errorf("failed to update shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

// DeactivateShifts clears the active flag on every shift of the session.
func (d *DB) DeactivateShifts(ctx context.Context, sessionID string) error {
	_, err := d.q.Exec(ctx, `
		UPDATE shift_config SET is_active = FALSE WHERE session_id = $1
	`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to deactivate shifts: %w", err)
	}
	return nil
}
