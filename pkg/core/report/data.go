// Package report renders the shift-end documentation: a plain-text
// protocol suitable for printing or archiving, and an XLSX workbook for
// further processing. Both formats read the same assembled data set and
// never write to the store.
package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/moritz155/johanniter/pkg/core/history"
	"github.com/moritz155/johanniter/pkg/db"
)

// German report labels. These match the wording on the printed protocol
// sheets the operators archive, so they are fixed vocabulary.
const (
	titleText       = "=== EINSATZDOKUMENTATION / DIENSTPROTOKOLL ==="
	titleWorkbook   = "Einsatzdokumentation / Dienstprotokoll"
	sectionMissions = "EINSÄTZE"
	sectionSquads   = "EINGESETZTE KRÄFTE"
	sectionLog      = "GESAMTES LOGBUCH"
	sectionDeleted  = "STORNIERTE EINSÄTZE"

	lblService      = "Dienst:"
	lblAddress      = "Adresse:"
	lblPeriod       = "Zeitraum:"
	lblTime         = "Zeit:"
	lblLocation     = "Ort:"
	lblReason       = "Grund:"
	lblAlarming     = "Meldebild"
	lblSquads       = "Eingesetzte Kräfte"
	lblSituation    = "Lage:"
	lblNotes        = "Notizen:"
	lblHistory      = "Verlauf:"
	lblPauses       = "Ruhezeiten"
	lblDeleteReason = "Grund für Stornierung:"
	lblOrigAlarm    = "Urspr. Meldebild:"

	ongoingText = "Laufend"
)

// data is the fully assembled read model both renderers walk. All slices
// keep store ordering: missions and logs ascending by creation/timestamp.
type data struct {
	shift    *db.Shift
	squads   []db.Squad
	missions []db.Mission
	logs     []db.LogEntry

	missionLogs   map[int64][]db.LogEntry
	missionRoster map[int64][]string
	squadLogs     map[int64][]db.LogEntry
	squadMissions map[int64]int
}

func load(ctx context.Context, store db.Store, logger *zap.Logger, sessionID string) (*data, error) {
	d := &data{
		missionLogs:   map[int64][]db.LogEntry{},
		missionRoster: map[int64][]string{},
		squadLogs:     map[int64][]db.LogEntry{},
		squadMissions: map[int64]int{},
	}

	shift, err := store.GetLatestShift(ctx, sessionID)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("failed to load shift: %w", err)
	}
	d.shift = shift

	d.squads, err = store.ListSquads(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list squads: %w", err)
	}
	nameByID := make(map[int64]string, len(d.squads))
	for _, s := range d.squads {
		nameByID[s.ID] = s.Name
	}

	missions, err := store.ListMissions(ctx, sessionID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list missions: %w", err)
	}
	// Store order is newest first; the protocol reads chronologically.
	d.missions = make([]db.Mission, 0, len(missions))
	for i := len(missions) - 1; i >= 0; i-- {
		d.missions = append(d.missions, missions[i])
	}

	for _, m := range d.missions {
		logs, err := store.ListMissionLogs(ctx, m.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load mission %d logs: %w", m.ID, err)
		}
		d.missionLogs[m.ID] = logs

		ids, err := store.MissionSquadIDs(ctx, m.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load mission %d roster: %w", m.ID, err)
		}
		names := make([]string, 0, len(ids))
		for _, id := range ids {
			if name, ok := nameByID[id]; ok {
				names = append(names, name)
			}
		}
		d.missionRoster[m.ID] = names
	}

	for _, s := range d.squads {
		logs, err := store.ListSquadLogs(ctx, s.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load squad %d logs: %w", s.ID, err)
		}
		d.squadLogs[s.ID] = logs

		linked, err := store.ListSquadMissions(ctx, s.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load squad %d missions: %w", s.ID, err)
		}
		d.squadMissions[s.ID] = len(linked)
	}

	d.logs, err = store.ListLogs(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session log: %w", err)
	}

	logger.Debug("Report data assembled",
		zap.String("session_id", sessionID),
		zap.Int("missions", len(d.missions)),
		zap.Int("squads", len(d.squads)),
		zap.Int("log_entries", len(d.logs)))
	return d, nil
}

func (d *data) deletedMissions() []db.Mission {
	var out []db.Mission
	for _, m := range d.missions {
		if m.IsDeleted {
			out = append(out, m)
		}
	}
	return out
}

// averageResponseMinutes returns the mean alarm-to-arrival span across
// non-deleted missions that have a usable arrival entry.
func (d *data) averageResponseMinutes() (float64, bool) {
	var total time.Duration
	var count int
	for _, m := range d.missions {
		if m.IsDeleted {
			continue
		}
		mission := m
		if delta, ok := history.ResponseTime(&mission, d.missionLogs[m.ID]); ok {
			total += delta
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return total.Minutes() / float64(count), true
}

func missionLabel(m db.Mission) string {
	if m.MissionNumber != "" {
		return m.MissionNumber
	}
	return fmt.Sprintf("%d", m.ID)
}

// outcomeDisplay expands a handover outcome with the receiving unit's
// details. Other outcomes pass through unchanged.
func outcomeDisplay(m db.Mission) string {
	if m.Outcome == "" {
		return "-"
	}
	handover := m.Outcome == "ARM" || m.Outcome == "ARM (Anderes Rettungsmittel)" ||
		strings.HasPrefix(m.Outcome, "Übergeben")
	if !handover {
		return m.Outcome
	}
	parts := make([]string, 0, 3)
	if m.ArmType != "" {
		parts = append(parts, m.ArmType)
	}
	if m.ArmID != "" {
		parts = append(parts, m.ArmID)
	}
	if m.ArmNotes != "" {
		parts = append(parts, m.ArmNotes)
	}
	if len(parts) == 0 {
		return "Übergeben"
	}
	return "Übergeben / " + strings.Join(parts, " / ")
}

func fmtDate(t time.Time) string { return t.Local().Format("02.01.2006 15:04") }
func fmtDateSec(t time.Time) string { return t.Local().Format("02.01.2006 15:04:05") }
func fmtClock(t time.Time) string { return t.Local().Format("15:04:05") }
func fmtFullStamp(t time.Time) string { return t.Local().Format("2006-01-02 15:04:05") }
