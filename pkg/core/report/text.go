package report

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/moritz155/johanniter/pkg/core/history"
	"github.com/moritz155/johanniter/pkg/core/model"
	"github.com/moritz155/johanniter/pkg/db"
)

// Protocol renders the plain-text shift protocol: shift header, mission
// dossiers with their chronology, squad activity with pause summaries, the
// full session log, and an appendix of cancelled missions.
func Protocol(ctx context.Context, store db.Store, logger *zap.Logger, sessionID string) ([]byte, error) {
	d, err := load(ctx, store, logger, sessionID)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	writeHeader(&b, d)
	writeMissions(&b, d)
	writeSquadActivity(&b, d)
	writeFullLog(&b, d)
	writeDeletedMissions(&b, d)
	return []byte(b.String()), nil
}

func writeHeader(b *strings.Builder, d *data) {
	fmt.Fprintf(b, "%s\n", titleText)
	if d.shift != nil {
		fmt.Fprintf(b, "%s %s\n", lblService, d.shift.Location)
		if d.shift.Address != "" {
			fmt.Fprintf(b, "%s %s\n", lblAddress, d.shift.Address)
		}
		end := ongoingText
		if d.shift.EndTime != nil {
			end = fmtDate(*d.shift.EndTime)
		}
		fmt.Fprintf(b, "%s %s - %s\n", lblPeriod, fmtDate(d.shift.StartTime), end)
	}
	b.WriteString("\n")
}

func writeMissions(b *strings.Builder, d *data) {
	active := make([]db.Mission, 0, len(d.missions))
	for _, m := range d.missions {
		if !m.IsDeleted {
			active = append(active, m)
		}
	}
	fmt.Fprintf(b, "=== %s (%d) ===\n\n", sectionMissions, len(active))

	for _, m := range active {
		mission := m
		fmt.Fprintf(b, "Einsatz #%s\n", missionLabel(m))

		if m.Status == model.MissionAbgeschlossen {
			end := "Abgeschlossen"
			if completed, ok := history.CompletionTime(&mission, d.missionLogs[m.ID]); ok {
				end = fmtDateSec(completed)
			}
			fmt.Fprintf(b, "%s %s - %s (%s)\n", lblTime, fmtDateSec(m.CreatedAt), end, outcomeDisplay(m))
		} else {
			fmt.Fprintf(b, "%s %s - %s\n", lblTime, fmtDateSec(m.CreatedAt), ongoingText)
		}

		if m.NacaScore != "" {
			fmt.Fprintf(b, "NACA: %s\n", m.NacaScore)
		}
		fmt.Fprintf(b, "%s %s\n", lblLocation, m.Location)
		fmt.Fprintf(b, "%s %s\n", lblReason, m.Reason)
		entity := m.AlarmingEntity
		if entity == "" {
			entity = "-"
		}
		fmt.Fprintf(b, "%s: %s\n", lblAlarming, entity)
		fmt.Fprintf(b, "%s: %s\n", lblSquads, strings.Join(d.missionRoster[m.ID], ", "))

		if m.Description != "" {
			fmt.Fprintf(b, "%s %s\n", lblSituation, m.Description)
		}
		if m.Notes != "" {
			fmt.Fprintf(b, "%s %s\n", lblNotes, m.Notes)
		}

		writeChronology(b, d.missionLogs[m.ID])
		b.WriteString(strings.Repeat("-", 40) + "\n\n")
	}
}

func writeChronology(b *strings.Builder, logs []db.LogEntry) {
	if len(logs) == 0 {
		return
	}
	fmt.Fprintf(b, "  %s\n", lblHistory)
	for _, l := range logs {
		fmt.Fprintf(b, "  - [%s] %s: %s\n", fmtClock(l.Timestamp), l.Action, l.Details)
	}
}

func writeSquadActivity(b *strings.Builder, d *data) {
	fmt.Fprintf(b, "=== %s ===\n\n", sectionSquads)

	for _, s := range d.squads {
		sn := ""
		if s.ServiceNumbers != "" {
			sn = fmt.Sprintf(" [DN: %s]", s.ServiceNumbers)
		}
		label := s.Type
		if label == "" {
			label = model.SquadTypeTrupp
		}
		fmt.Fprintf(b, "%s: %s (%s)%s - %d Einsätze\n",
			label, s.Name, s.Qualification, sn, d.squadMissions[s.ID])

		logs := d.squadLogs[s.ID]
		for _, l := range logs {
			if l.Action != db.ActionStatus {
				continue
			}
			ref := ""
			if l.MissionID != 0 {
				ref = fmt.Sprintf(" (Einsatz #%s)", d.missionLabelByID(l.MissionID))
			}
			fmt.Fprintf(b, "  [%s] %s%s\n", fmtClock(l.Timestamp), l.Details, ref)
		}

		if periods := history.PausePeriods(logs); len(periods) > 0 {
			spans := make([]string, 0, len(periods))
			for _, p := range periods {
				if p.End != nil {
					spans = append(spans, fmt.Sprintf("%s - %s", fmtClock(p.Start), fmtClock(*p.End)))
				} else {
					spans = append(spans, fmt.Sprintf("%s - laufend", fmtClock(p.Start)))
				}
			}
			fmt.Fprintf(b, "  %s: %s\n", lblPauses, strings.Join(spans, "; "))
		}
		b.WriteString("\n")
	}
}

func (d *data) missionLabelByID(id int64) string {
	for _, m := range d.missions {
		if m.ID == id {
			return missionLabel(m)
		}
	}
	return fmt.Sprintf("%d", id)
}

func writeFullLog(b *strings.Builder, d *data) {
	fmt.Fprintf(b, "=== %s ===\n", sectionLog)
	for _, l := range d.logs {
		fmt.Fprintf(b, "[%s] [%s] %s\n", fmtFullStamp(l.Timestamp), l.Action, l.Details)
	}
	b.WriteString("\n")
}

func writeDeletedMissions(b *strings.Builder, d *data) {
	deleted := d.deletedMissions()
	if len(deleted) == 0 {
		return
	}
	fmt.Fprintf(b, "=== %s ===\n\n", sectionDeleted)
	for _, m := range deleted {
		fmt.Fprintf(b, "Einsatz #%s (%s)\n", missionLabel(m), m.Location)
		reason := m.DeletionReason
		if reason == "" {
			reason = "-"
		}
		fmt.Fprintf(b, "  %s %s\n", lblDeleteReason, reason)
		fmt.Fprintf(b, "  %s %s\n", lblOrigAlarm, m.Reason)
		if m.Description != "" {
			fmt.Fprintf(b, "  %s %s\n", lblSituation, m.Description)
		}
		writeChronology(b, d.missionLogs[m.ID])
		b.WriteString("\n")
	}
}
