package db

import "time"

// Log entry actions. The reconstructor and the report generator key off
// these tags, so they are shared vocabulary rather than free text.
const (
	ActionConfig         = "KONFIGURATION"
	ActionSquadCreated   = "TRUPP NEU"
	ActionSquadUpdated   = "TRUPP UPDATE"
	ActionSquadDeleted   = "TRUPP GELÖSCHT"
	ActionMissionCreated = "EINSATZ ERSTELLT"
	ActionMissionUpdated = "EINSATZ UPDATE"
	ActionMissionDeleted = "EINSATZ GELÖSCHT"
	ActionStatus         = "STATUS"
	ActionInfo           = "INFO"
	ActionEvent          = "EREIGNIS"
)

// Shift represents one operational shift configuration.
// At most one shift per session is active at a time.
type Shift struct {
	ID           int64
	Location     string
	Address      string
	StartTime    time.Time
	EndTime      *time.Time
	IsActive     bool
	SessionID    string
	PasswordHash string
}

// Squad represents a dispatchable unit: a personnel team ("Trupp") or a
// fixed resource ("Ambulanz"). Names are unique within a session.
type Squad struct {
	ID             int64
	Name           string
	Type           string
	Qualification  string
	CurrentStatus  string
	Position       int
	ServiceNumbers string
	// CustomLocation is a manual location override; empty means unset and
	// the display location falls back to the last mission's location.
	CustomLocation string
	SessionID      string
	// AccessToken is the bearer credential for the unauthenticated mobile
	// status-update path. Cleared when the shift ends.
	AccessToken      string
	LastStatusChange time.Time
	UpdatedAt        time.Time
}

// Mission represents an incident record. Missions are never hard-deleted;
// IsDeleted marks them removed while keeping history queryable.
type Mission struct {
	ID            int64
	MissionNumber string
	Location      string
	// InitialLocation preserves the pre-relocation location for audit. It
	// is set exactly once, on the first edit that changes Location.
	InitialLocation string
	AlarmingEntity  string
	Reason          string
	Description     string
	Status          string
	Outcome         string
	ArmID           string
	ArmType         string
	ArmNotes        string
	NacaScore       string
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	SessionID       string
	IsDeleted       bool
	DeletionReason  string
}

// LogEntry is an immutable audit record. Entries are append-only and never
// mutated once written.
//
// STATUS entries additionally carry the transition as structured data in
// OldStatus/NewStatus so that history reconstruction does not have to parse
// the German details text. Rows written before these columns existed leave
// them empty and are handled by the text fallback in pkg/core/history.
type LogEntry struct {
	ID        int64
	Timestamp time.Time
	Action    string
	Details   string
	// MissionID and SquadID are optional back-references; zero means unset.
	MissionID int64
	SquadID   int64
	SessionID string
	OldStatus string
	NewStatus string
}

// PredefinedOption is a per-session pick-list value.
type PredefinedOption struct {
	ID        int64
	Category  string // "location", "entity" or "reason"
	Value     string
	SessionID string
}
