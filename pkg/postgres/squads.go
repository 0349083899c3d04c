package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/moritz155/johanniter/pkg/db"
)

const squadColumns = `id, name, type, qualification, current_status, position,
	service_numbers, custom_location, session_id, access_token, last_status_change, updated_at`

func scanSquad(row pgx.Row) (*db.Squad, error) {
	var s db.Squad
	err := row.Scan(&s.ID, &s.Name, &s.Type, &s.Qualification, &s.CurrentStatus,
		&s.Position, &s.ServiceNumbers, &s.CustomLocation, &s.SessionID,
		&s.AccessToken, &s.LastStatusChange, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan squad: %w", err)
	}
	return &s, nil
}

// GetSquad retrieves a squad by id within the session.
func (d *DB) GetSquad(ctx context.Context, sessionID string, id int64) (*db.Squad, error) {
	row := d.q.QueryRow(ctx, `
		SELECT `+squadColumns+`
		FROM squad
		WHERE id = $1 AND session_id = $2
	`, id, sessionID)
	return scanSquad(row)
}

// GetSquadByToken retrieves a squad by its mobile access token. The lookup
// is cross-session: the token itself identifies the session.
func (d *DB) GetSquadByToken(ctx context.Context, token string) (*db.Squad, error) {
	if token == "" {
		return nil, db.ErrNotFound
	}
	row := d.q.QueryRow(ctx, `
		SELECT `+squadColumns+`
		FROM squad
		WHERE access_token = $1
	`, token)
	return scanSquad(row)
}

// GetSquadByName retrieves a squad by its unique per-session name.
func (d *DB) GetSquadByName(ctx context.Context, sessionID, name string) (*db.Squad, error) {
	row := d.q.QueryRow(ctx, `
		SELECT `+squadColumns+`
		FROM squad
		WHERE session_id = $1 AND name = $2
	`, sessionID, name)
	return scanSquad(row)
}

// ListSquads retrieves the session's squads in board order.
func (d *DB) ListSquads(ctx context.Context, sessionID string) ([]db.Squad, error) {
	rows, err := d.q.Query(ctx, `
		SELECT `+squadColumns+`
		FROM squad
		WHERE session_id = $1
		ORDER BY position, id
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query squads: %w", err)
	}
	defer rows.Close()

	var squads []db.Squad
	for rows.Next() {
		s, err := scanSquad(rows)
		if err != nil {
			return nil, err
		}
		squads = append(squads, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating squads: %w", err)
	}
	return squads, nil
}

// InsertSquad stores a new squad and fills in its id.
func (d *DB) InsertSquad(ctx context.Context, squad *db.Squad) error {
	now := time.Now().UTC()
	if squad.LastStatusChange.IsZero() {
		squad.LastStatusChange = now
	}
	squad.UpdatedAt = now
	err := d.q.QueryRow(ctx, `
		INSERT INTO squad (name, type, qualification, current_status, position,
			service_numbers, custom_location, session_id, access_token,
			last_status_change, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`, squad.Name, squad.Type, squad.Qualification, squad.CurrentStatus,
		squad.Position, squad.ServiceNumbers, squad.CustomLocation,
		squad.SessionID, squad.AccessToken, squad.LastStatusChange,
		squad.UpdatedAt).Scan(&squad.ID)
	if err != nil {
		return fmt.Errorf("failed to insert squad: %w", err)
	}
	return nil
}

// UpdateSquad persists changes to an existing squad.
func (d *DB) UpdateSquad(ctx context.Context, squad *db.Squad) error {
	squad.UpdatedAt = time.Now().UTC()
	tag, err := d.q.Exec(ctx, `
		UPDATE squad
		SET name = $1, type = $2, qualification = $3, current_status = $4,
			position = $5, service_numbers = $6, custom_location = $7,
			access_token = $8, last_status_change = $9, updated_at = $10
		WHERE id = $11 AND session_id = $12
	`, squad.Name, squad.Type, squad.Qualification, squad.CurrentStatus,
		squad.Position, squad.ServiceNumbers, squad.CustomLocation,
		squad.AccessToken, squad.LastStatusChange, squad.UpdatedAt,
		squad.ID, squad.SessionID)
	if err != nil {
		return fmt.Errorf("failed to update squad: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

// DeleteSquad removes the squad and its mission links.
func (d *DB) DeleteSquad(ctx context.Context, sessionID string, id int64) error {
	// Link rows go via ON DELETE CASCADE; log back-refs are nulled.
	tag, err := d.q.Exec(ctx, `
		DELETE FROM squad WHERE id = $1 AND session_id = $2
	`, id, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete squad: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

// ClearAccessTokens revokes every mobile token of the session.
func (d *DB) ClearAccessTokens(ctx context.Context, sessionID string) error {
	_, err := d.q.Exec(ctx, `
		UPDATE squad SET access_token = '' WHERE session_id = $1
	`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to clear access tokens: %w", err)
	}
	return nil
}
