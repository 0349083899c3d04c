package db

import (
	"context"
	"errors"
)

// ErrNotFound is returned by lookups that miss within the given session
// scope. Implementations must return this exact sentinel (possibly wrapped)
// so callers can map it to their own error taxonomy.
var ErrNotFound = errors.New("record not found")

// Store defines the persistence operations the engine and the report
// generator need. Two implementations exist: MemoryStore in this package and
// the pgx-backed store in pkg/postgres.
//
// All queries are session-scoped except the token lookup, which is the
// identity proof for the mobile path and therefore resolves the session.
type Store interface {
	// InTx runs fn against a transactional view of the store. If fn returns
	// an error every write performed inside it is rolled back, including log
	// entries.
	InTx(ctx context.Context, fn func(tx Store) error) error

	// Shifts
	GetActiveShift(ctx context.Context, sessionID string) (*Shift, error)
	GetLatestShift(ctx context.Context, sessionID string) (*Shift, error)
	InsertShift(ctx context.Context, shift *Shift) error
	UpdateShift(ctx context.Context, shift *Shift) error
	DeactivateShifts(ctx context.Context, sessionID string) error

	// Squads
	GetSquad(ctx context.Context, sessionID string, id int64) (*Squad, error)
	GetSquadByToken(ctx context.Context, token string) (*Squad, error)
	GetSquadByName(ctx context.Context, sessionID, name string) (*Squad, error)
	ListSquads(ctx context.Context, sessionID string) ([]Squad, error)
	InsertSquad(ctx context.Context, squad *Squad) error
	UpdateSquad(ctx context.Context, squad *Squad) error
	// DeleteSquad removes the squad and its mission-link rows. Hard delete:
	// unlike missions, removed squads leave no tombstone.
	DeleteSquad(ctx context.Context, sessionID string, id int64) error
	ClearAccessTokens(ctx context.Context, sessionID string) error

	// Missions
	GetMission(ctx context.Context, sessionID string, id int64) (*Mission, error)
	// ListMissions returns the session's missions ordered newest first.
	ListMissions(ctx context.Context, sessionID string, includeDeleted bool) ([]Mission, error)
	InsertMission(ctx context.Context, mission *Mission, squadIDs []int64) error
	UpdateMission(ctx context.Context, mission *Mission) error
	// ListSquadMissions returns every mission linked to the squad, deleted
	// or not, ordered by creation time ascending.
	ListSquadMissions(ctx context.Context, squadID int64) ([]Mission, error)
	// MissionSquadIDs returns the ids of the squads on the mission's roster.
	MissionSquadIDs(ctx context.Context, missionID int64) ([]int64, error)
	SetMissionSquads(ctx context.Context, missionID int64, squadIDs []int64) error

	// Logs
	AppendLog(ctx context.Context, entry *LogEntry) error
	// ListLogs returns the session log ordered by timestamp ascending.
	ListLogs(ctx context.Context, sessionID string) ([]LogEntry, error)
	ListSquadLogs(ctx context.Context, squadID int64) ([]LogEntry, error)
	ListMissionLogs(ctx context.Context, missionID int64) ([]LogEntry, error)

	// Predefined options
	ListOptions(ctx context.Context, sessionID string) ([]PredefinedOption, error)
	InsertOption(ctx context.Context, option *PredefinedOption) error
	DeleteOptions(ctx context.Context, sessionID string) error

	// PurgeSession removes all squads, missions, link rows and log entries
	// for the session. Used by the roster reset on shift start.
	PurgeSession(ctx context.Context, sessionID string) error
}
