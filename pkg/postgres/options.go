package postgres

import (
	"context"
	"fmt"

	"github.com/moritz155/johanniter/pkg/db"
)

// ListOptions retrieves the session's pick-list values.
func (d *DB) ListOptions(ctx context.Context, sessionID string) ([]db.PredefinedOption, error) {
	rows, err := d.q.Query(ctx, `
		SELECT id, category, value, session_id
		FROM predefined_option
		WHERE session_id = $1
		ORDER BY category, id
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query options: %w", err)
	}
	defer rows.Close()

	var options []db.PredefinedOption
	for rows.Next() {
		var o db.PredefinedOption
		if err := rows.Scan(&o.ID, &o.Category, &o.Value, &o.SessionID); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		options = append(options, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating options: %w", err)
	}
	return options, nil
}

// InsertOption stores a new pick-list value and fills in its id.
func (d *DB) InsertOption(ctx context.Context, option *db.PredefinedOption) error {
	err := d.q.QueryRow(ctx, `
		INSERT INTO predefined_option (category, value, session_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`, option.Category, option.Value, option.SessionID).Scan(&option.ID)
	if err != nil {
		return fmt.Errorf("failed to insert option: %w", err)
	}
	return nil
}

// DeleteOptions removes every pick-list value of the session.
func (d *DB) DeleteOptions(ctx context.Context, sessionID string) error {
	_, err := d.q.Exec(ctx, `
		DELETE FROM predefined_option WHERE session_id = $1
	`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete options: %w", err)
	}
	return nil
}

// PurgeSession removes all squads, missions, links and log entries of the
// session. Link rows follow via foreign keys.
func (d *DB) PurgeSession(ctx context.Context, sessionID string) error {
	statements := []string{
		`DELETE FROM log_entry WHERE session_id = $1`,
		`DELETE FROM mission WHERE session_id = $1`,
		`DELETE FROM squad WHERE session_id = $1`,
	}
	for _, stmt := range statements {
		if _, err := d.q.Exec(ctx, stmt, sessionID); err != nil {
			return fmt.Errorf("failed to purge session: %w", err)
		}
	}
	return nil
}
