package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/moritz155/johanniter/pkg/core/model"
	"github.com/moritz155/johanniter/pkg/db"
)

const testSession = "report-session"

// seedReportFixture builds a small but complete shift: one completed
// mission with a trupp, one cancelled mission, and a pause interval.
func seedReportFixture(t *testing.T, store db.Store) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

	end := base.Add(12 * time.Hour)
	require.NoError(t, store.InsertShift(ctx, &db.Shift{
		Location:  "Stadtfest",
		Address:   "Marktplatz 1",
		StartTime: base,
		EndTime:   &end,
		SessionID: testSession,
	}))

	squad := &db.Squad{
		Name:           "Trupp 1",
		Type:           model.SquadTypeTrupp,
		Qualification:  "San",
		ServiceNumbers: "101",
		CurrentStatus:  model.StatusEB,
		SessionID:      testSession,
	}
	require.NoError(t, store.InsertSquad(ctx, squad))

	mission := &db.Mission{
		MissionNumber:  "2026-01",
		Location:       "Bühne",
		Reason:         "Sturz",
		AlarmingEntity: "Security",
		Status:         model.MissionAbgeschlossen,
		Outcome:        "ARM",
		ArmType:        "RTW",
		ArmID:          "41-83-1",
		NacaScore:      "3",
		SessionID:      testSession,
		CreatedAt:      base.Add(time.Hour),
		UpdatedAt:      base.Add(2 * time.Hour),
	}
	require.NoError(t, store.InsertMission(ctx, mission, []int64{squad.ID}))

	cancelled := &db.Mission{
		Location:       "Haupteingang",
		Reason:         "Fehlalarm",
		Status:         model.MissionLaufend,
		IsDeleted:      true,
		DeletionReason: "Doppelt gemeldet",
		SessionID:      testSession,
		CreatedAt:      base.Add(3 * time.Hour),
	}
	require.NoError(t, store.InsertMission(ctx, cancelled, nil))

	entries := []db.LogEntry{
		{Action: db.ActionStatus, Details: "Statusänderung Trupp 1: EB -> BO",
			OldStatus: "2", NewStatus: "4",
			SquadID: squad.ID, MissionID: mission.ID, Timestamp: base.Add(70 * time.Minute)},
		{Action: db.ActionMissionUpdated, Details: "Änderungen an Einsatz #2026-01: Status geändert: Abgeschlossen",
			OldStatus: model.MissionLaufend, NewStatus: model.MissionAbgeschlossen,
			MissionID: mission.ID, Timestamp: base.Add(100 * time.Minute)},
		{Action: db.ActionStatus, Details: "Statusänderung Trupp 1: EB -> NEB / Pause",
			OldStatus: "2", NewStatus: "6",
			SquadID: squad.ID, Timestamp: base.Add(4 * time.Hour)},
		{Action: db.ActionStatus, Details: "Statusänderung Trupp 1: NEB / Pause -> EB",
			OldStatus: "6", NewStatus: "2",
			SquadID: squad.ID, Timestamp: base.Add(5 * time.Hour)},
	}
	for i := range entries {
		entries[i].SessionID = testSession
		require.NoError(t, store.AppendLog(ctx, &entries[i]))
	}
}

func TestProtocol_RendersShiftHeader(t *testing.T) {
	store := db.NewMemoryStore()
	seedReportFixture(t, store)

	out, err := Protocol(context.Background(), store, zap.NewNop(), testSession)
	require.NoError(t, err)
	text := string(out)

	assert.Contains(t, text, titleText)
	assert.Contains(t, text, "Dienst: Stadtfest")
	assert.Contains(t, text, "Adresse: Marktplatz 1")
	assert.Contains(t, text, "Zeitraum:")
}

func TestProtocol_MissionSectionExcludesCancelled(t *testing.T) {
	store := db.NewMemoryStore()
	seedReportFixture(t, store)

	out, err := Protocol(context.Background(), store, zap.NewNop(), testSession)
	require.NoError(t, err)
	text := string(out)

	assert.Contains(t, text, "=== EINSÄTZE (1) ===")
	assert.Contains(t, text, "Einsatz #2026-01")
	assert.Contains(t, text, "NACA: 3")
	assert.Contains(t, text, "Ort: Bühne")
	assert.Contains(t, text, "Meldebild: Security")
	assert.Contains(t, text, "Eingesetzte Kräfte: Trupp 1")
	// Completed line names the completion time and the handover details.
	assert.Contains(t, text, "(Übergeben / RTW / 41-83-1)")
}

func TestProtocol_SquadActivityWithPauses(t *testing.T) {
	store := db.NewMemoryStore()
	seedReportFixture(t, store)

	out, err := Protocol(context.Background(), store, zap.NewNop(), testSession)
	require.NoError(t, err)
	text := string(out)

	assert.Contains(t, text, "=== EINGESETZTE KRÄFTE ===")
	assert.Contains(t, text, "Trupp: Trupp 1 (San) [DN: 101] - 1 Einsätze")
	assert.Contains(t, text, "(Einsatz #2026-01)")
	assert.Contains(t, text, "Ruhezeiten:")
}

func TestProtocol_CancelledAppendix(t *testing.T) {
	store := db.NewMemoryStore()
	seedReportFixture(t, store)

	out, err := Protocol(context.Background(), store, zap.NewNop(), testSession)
	require.NoError(t, err)
	text := string(out)

	assert.Contains(t, text, "=== STORNIERTE EINSÄTZE ===")
	assert.Contains(t, text, "Grund für Stornierung: Doppelt gemeldet")
	assert.Contains(t, text, "Urspr. Meldebild: Fehlalarm")
}

func TestProtocol_FullLogSection(t *testing.T) {
	store := db.NewMemoryStore()
	seedReportFixture(t, store)

	out, err := Protocol(context.Background(), store, zap.NewNop(), testSession)
	require.NoError(t, err)
	text := string(out)

	assert.Contains(t, text, "=== GESAMTES LOGBUCH ===")
	assert.Contains(t, text, "[STATUS] Statusänderung Trupp 1: EB -> BO")
}

func TestProtocol_EmptySession(t *testing.T) {
	store := db.NewMemoryStore()

	out, err := Protocol(context.Background(), store, zap.NewNop(), testSession)
	require.NoError(t, err)
	text := string(out)

	assert.Contains(t, text, titleText)
	assert.Contains(t, text, "=== EINSÄTZE (0) ===")
	assert.NotContains(t, text, sectionDeleted)
}

func TestOutcomeDisplay(t *testing.T) {
	assert.Equal(t, "-", outcomeDisplay(db.Mission{}))
	assert.Equal(t, "Entlassen", outcomeDisplay(db.Mission{Outcome: "Entlassen"}))
	assert.Equal(t, "Übergeben", outcomeDisplay(db.Mission{Outcome: "ARM"}))
	assert.Equal(t, "Übergeben / RTW / 41-83-1",
		outcomeDisplay(db.Mission{Outcome: "ARM (Anderes Rettungsmittel)", ArmType: "RTW", ArmID: "41-83-1"}))
	assert.Equal(t, "Übergeben / Notizen",
		outcomeDisplay(db.Mission{Outcome: "Übergeben an RTW", ArmNotes: "Notizen"}))
}

func TestAverageResponseMinutes(t *testing.T) {
	base := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	d := &data{
		missions: []db.Mission{
			{ID: 1, CreatedAt: base},
			{ID: 2, CreatedAt: base, IsDeleted: true},
		},
		missionLogs: map[int64][]db.LogEntry{
			1: {{Action: db.ActionStatus, NewStatus: "4", Timestamp: base.Add(6 * time.Minute)}},
			2: {{Action: db.ActionStatus, NewStatus: "4", Timestamp: base.Add(2 * time.Minute)}},
		},
	}

	avg, ok := d.averageResponseMinutes()
	require.True(t, ok)
	assert.InDelta(t, 6.0, avg, 0.001)

	empty := &data{}
	_, ok = empty.averageResponseMinutes()
	assert.False(t, ok)
}
