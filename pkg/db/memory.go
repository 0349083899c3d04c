package db

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store implementation. It backs the test suite
// and local development when no database is configured.
type MemoryStore struct {
	mu sync.RWMutex
	// txMu serializes transactions so InTx can snapshot and restore state.
	txMu sync.Mutex

	nextID   int64
	shifts   map[int64]Shift
	squads   map[int64]Squad
	missions map[int64]Mission
	logs     []LogEntry
	options  map[int64]PredefinedOption
	// links holds each mission's roster in assignment order.
	links map[int64][]int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID:   1,
		shifts:   map[int64]Shift{},
		squads:   map[int64]Squad{},
		missions: map[int64]Mission{},
		options:  map[int64]PredefinedOption{},
		links:    map[int64][]int64{},
	}
}

func (s *MemoryStore) allocID() int64 {
	id := s.nextID
	s.nextID++
	return id
}

// InTx snapshots the full state, runs fn, and restores the snapshot if fn
// fails. This mirrors the all-or-nothing semantics of the SQL implementation
// closely enough for the engine's rollback contract to be testable.
func (s *MemoryStore) InTx(ctx context.Context, fn func(tx Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snapshot := s.clone()
	if err := fn(s); err != nil {
		s.restore(snapshot)
		return err
	}
	return nil
}

type memorySnapshot struct {
	nextID   int64
	shifts   map[int64]Shift
	squads   map[int64]Squad
	missions map[int64]Mission
	logs     []LogEntry
	options  map[int64]PredefinedOption
	links    map[int64][]int64
}

func (s *MemoryStore) clone() memorySnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := memorySnapshot{
		nextID:   s.nextID,
		shifts:   make(map[int64]Shift, len(s.shifts)),
		squads:   make(map[int64]Squad, len(s.squads)),
		missions: make(map[int64]Mission, len(s.missions)),
		logs:     append([]LogEntry(nil), s.logs...),
		options:  make(map[int64]PredefinedOption, len(s.options)),
		links:    make(map[int64][]int64, len(s.links)),
	}
	for k, v := range s.shifts {
		snap.shifts[k] = v
	}
	for k, v := range s.squads {
		snap.squads[k] = v
	}
	for k, v := range s.missions {
		snap.missions[k] = v
	}
	for k, v := range s.options {
		snap.options[k] = v
	}
	for k, v := range s.links {
		snap.links[k] = append([]int64(nil), v...)
	}
	return snap
}

func (s *MemoryStore) restore(snap memorySnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID = snap.nextID
	s.shifts = snap.shifts
	s.squads = snap.squads
	s.missions = snap.missions
	s.logs = snap.logs
	s.options = snap.options
	s.links = snap.links
}

// --- Shifts ---

func (s *MemoryStore) GetActiveShift(ctx context.Context, sessionID string) (*Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sh := range s.shifts {
		if sh.SessionID == sessionID && sh.IsActive {
			out := sh
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetLatestShift(ctx context.Context, sessionID string) (*Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *Shift
	for _, sh := range s.shifts {
		if sh.SessionID != sessionID {
			continue
		}
		if latest == nil || sh.ID > latest.ID {
			out := sh
			latest = &out
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	return latest, nil
}

func (s *MemoryStore) InsertShift(ctx context.Context, shift *Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	shift.ID = s.allocID()
	if shift.StartTime.IsZero() {
		shift.StartTime = time.Now().UTC()
	}
	s.shifts[shift.ID] = *shift
	return nil
}

func (s *MemoryStore) UpdateShift(ctx context.Context, shift *Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.shifts[shift.ID]; !ok {
		return ErrNotFound
	}
	s.shifts[shift.ID] = *shift
	return nil
}

func (s *MemoryStore) DeactivateShifts(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sh := range s.shifts {
		if sh.SessionID == sessionID && sh.IsActive {
			sh.IsActive = false
			s.shifts[id] = sh
		}
	}
	return nil
}

// --- Squads ---

func (s *MemoryStore) GetSquad(ctx context.Context, sessionID string, id int64) (*Squad, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sq, ok := s.squads[id]
	if !ok || sq.SessionID != sessionID {
		return nil, ErrNotFound
	}
	out := sq
	return &out, nil
}

func (s *MemoryStore) GetSquadByToken(ctx context.Context, token string) (*Squad, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if token == "" {
		return nil, ErrNotFound
	}
	for _, sq := range s.squads {
		if sq.AccessToken == token {
			out := sq
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetSquadByName(ctx context.Context, sessionID, name string) (*Squad, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sq := range s.squads {
		if sq.SessionID == sessionID && sq.Name == name {
			out := sq
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ListSquads(ctx context.Context, sessionID string) ([]Squad, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Squad
	for _, sq := range s.squads {
		if sq.SessionID == sessionID {
			out = append(out, sq)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) InsertSquad(ctx context.Context, squad *Squad) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	squad.ID = s.allocID()
	if squad.LastStatusChange.IsZero() {
		squad.LastStatusChange = now
	}
	squad.UpdatedAt = now
	s.squads[squad.ID] = *squad
	return nil
}

func (s *MemoryStore) UpdateSquad(ctx context.Context, squad *Squad) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.squads[squad.ID]; !ok {
		return ErrNotFound
	}
	squad.UpdatedAt = time.Now().UTC()
	s.squads[squad.ID] = *squad
	return nil
}

func (s *MemoryStore) DeleteSquad(ctx context.Context, sessionID string, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sq, ok := s.squads[id]
	if !ok || sq.SessionID != sessionID {
		return ErrNotFound
	}
	// Link rows first so no orphaned roster entries reference the squad.
	for missionID, roster := range s.links {
		s.links[missionID] = removeID(roster, id)
	}
	delete(s.squads, id)
	return nil
}

func (s *MemoryStore) ClearAccessTokens(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sq := range s.squads {
		if sq.SessionID == sessionID {
			sq.AccessToken = ""
			s.squads[id] = sq
		}
	}
	return nil
}

// --- Missions ---

func (s *MemoryStore) GetMission(ctx context.Context, sessionID string, id int64) (*Mission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.missions[id]
	if !ok || m.SessionID != sessionID {
		return nil, ErrNotFound
	}
	out := m
	return &out, nil
}

func (s *MemoryStore) ListMissions(ctx context.Context, sessionID string, includeDeleted bool) ([]Mission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Mission
	for _, m := range s.missions {
		if m.SessionID != sessionID {
			continue
		}
		if m.IsDeleted && !includeDeleted {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) InsertMission(ctx context.Context, mission *Mission, squadIDs []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	mission.ID = s.allocID()
	if mission.CreatedAt.IsZero() {
		mission.CreatedAt = now
	}
	mission.UpdatedAt = now
	s.missions[mission.ID] = *mission
	s.links[mission.ID] = append([]int64(nil), squadIDs...)
	return nil
}

func (s *MemoryStore) UpdateMission(ctx context.Context, mission *Mission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.missions[mission.ID]; !ok {
		return ErrNotFound
	}
	mission.UpdatedAt = time.Now().UTC()
	s.missions[mission.ID] = *mission
	return nil
}

func (s *MemoryStore) ListSquadMissions(ctx context.Context, squadID int64) ([]Mission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Mission
	for missionID, roster := range s.links {
		if !containsID(roster, squadID) {
			continue
		}
		if m, ok := s.missions[missionID]; ok {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) MissionSquadIDs(ctx context.Context, missionID int64) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]int64(nil), s.links[missionID]...), nil
}

func (s *MemoryStore) SetMissionSquads(ctx context.Context, missionID int64, squadIDs []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.missions[missionID]; !ok {
		return ErrNotFound
	}
	s.links[missionID] = append([]int64(nil), squadIDs...)
	return nil
}

// --- Logs ---

func (s *MemoryStore) AppendLog(ctx context.Context, entry *LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry.ID = s.allocID()
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	s.logs = append(s.logs, *entry)
	return nil
}

func (s *MemoryStore) ListLogs(ctx context.Context, sessionID string) ([]LogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filterLogs(func(l LogEntry) bool { return l.SessionID == sessionID }), nil
}

func (s *MemoryStore) ListSquadLogs(ctx context.Context, squadID int64) ([]LogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filterLogs(func(l LogEntry) bool { return l.SquadID == squadID }), nil
}

func (s *MemoryStore) ListMissionLogs(ctx context.Context, missionID int64) ([]LogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filterLogs(func(l LogEntry) bool { return l.MissionID == missionID }), nil
}

func (s *MemoryStore) filterLogs(keep func(LogEntry) bool) []LogEntry {
	var out []LogEntry
	for _, l := range s.logs {
		if keep(l) {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// --- Options ---

func (s *MemoryStore) ListOptions(ctx context.Context, sessionID string) ([]PredefinedOption, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []PredefinedOption
	for _, o := range s.options {
		if o.SessionID == sessionID {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := strings.Compare(out[i].Category, out[j].Category); c != 0 {
			return c < 0
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) InsertOption(ctx context.Context, option *PredefinedOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	option.ID = s.allocID()
	s.options[option.ID] = *option
	return nil
}

func (s *MemoryStore) DeleteOptions(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, o := range s.options {
		if o.SessionID == sessionID {
			delete(s.options, id)
		}
	}
	return nil
}

// --- Session purge ---

func (s *MemoryStore) PurgeSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sq := range s.squads {
		if sq.SessionID == sessionID {
			delete(s.squads, id)
		}
	}
	for id, m := range s.missions {
		if m.SessionID == sessionID {
			delete(s.missions, id)
			delete(s.links, id)
		}
	}
	kept := s.logs[:0]
	for _, l := range s.logs {
		if l.SessionID != sessionID {
			kept = append(kept, l)
		}
	}
	s.logs = kept
	return nil
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(ids []int64, id int64) []int64 {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
