package engine

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/moritz155/johanniter/pkg/db"
)

// snapshotLogLimit caps the log tail delivered with incremental updates.
const snapshotLogLimit = 50

// SnapshotOptions controls what the board snapshot covers.
type SnapshotOptions struct {
	// AccessToken resolves the session for the mobile path. An unknown
	// token falls back to the caller's session rather than failing, so a
	// revoked device degrades to the public view of its own session only.
	AccessToken string
	// Since limits the result to records changed after the given time, for
	// incremental polling. The active config and the options are always
	// included.
	Since *time.Time
}

// BoardSnapshot is the read model the polling frontend renders.
type BoardSnapshot struct {
	Shift    *db.Shift
	Squads   []db.SquadView
	Missions []db.Mission
	Options  map[string][]string
	// Logs are ordered newest first and capped for incremental polls.
	Logs []db.LogEntry
}

// Snapshot assembles the current board state for a session. Read-only.
func Snapshot(ctx context.Context, store db.Store, logger *zap.Logger, sessionID string, opts SnapshotOptions) (*BoardSnapshot, error) {
	if opts.AccessToken != "" {
		if squad, err := store.GetSquadByToken(ctx, opts.AccessToken); err == nil {
			sessionID = squad.SessionID
		}
	}

	snap := &BoardSnapshot{Options: map[string][]string{}}

	shift, err := store.GetActiveShift(ctx, sessionID)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		return nil, storageErr(err, "failed to load shift")
	}
	snap.Shift = shift

	squads, err := store.ListSquads(ctx, sessionID)
	if err != nil {
		return nil, storageErr(err, "failed to list squads")
	}
	for i := range squads {
		if opts.Since != nil && !squads[i].UpdatedAt.After(*opts.Since) {
			continue
		}
		view, err := squadView(ctx, store, &squads[i])
		if err != nil {
			return nil, storageErr(err, "failed to build squad view")
		}
		snap.Squads = append(snap.Squads, *view)
	}

	missions, err := store.ListMissions(ctx, sessionID, false)
	if err != nil {
		return nil, storageErr(err, "failed to list missions")
	}
	for _, m := range missions {
		if opts.Since != nil && !m.UpdatedAt.After(*opts.Since) {
			continue
		}
		snap.Missions = append(snap.Missions, m)
	}

	options, err := store.ListOptions(ctx, sessionID)
	if err != nil {
		return nil, storageErr(err, "failed to list options")
	}
	for _, o := range options {
		snap.Options[o.Category] = append(snap.Options[o.Category], o.Value)
	}

	logs, err := store.ListLogs(ctx, sessionID)
	if err != nil {
		return nil, storageErr(err, "failed to list logs")
	}
	// Newest first for display.
	for i := len(logs) - 1; i >= 0; i-- {
		if opts.Since != nil {
			if !logs[i].Timestamp.After(*opts.Since) {
				continue
			}
			if len(snap.Logs) >= snapshotLogLimit {
				break
			}
		}
		snap.Logs = append(snap.Logs, logs[i])
	}

	logger.Debug("Snapshot assembled",
		zap.String("session_id", sessionID),
		zap.Int("squads", len(snap.Squads)),
		zap.Int("missions", len(snap.Missions)),
		zap.Int("logs", len(snap.Logs)))
	return snap, nil
}
