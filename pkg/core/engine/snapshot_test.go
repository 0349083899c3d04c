package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moritz155/johanniter/pkg/core/model"
	"github.com/moritz155/johanniter/pkg/db"
)

func TestSnapshot_AssemblesBoardState(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	_, err := StartShift(ctx, store, testLogger(), testSession, StartShiftInput{
		Location: "Stadtfest",
		Options:  map[string][]string{"location": {"BHP"}, "reason": {"Sturz"}},
	})
	require.NoError(t, err)
	squad := seedSquad(t, store, "Trupp 1", model.SquadTypeTrupp, model.StatusIntegriert)
	mission := seedMission(t, store, "Bühne", model.MissionLaufend, squad.ID)

	snap, err := Snapshot(ctx, store, testLogger(), testSession, SnapshotOptions{})
	require.NoError(t, err)

	require.NotNil(t, snap.Shift)
	assert.Equal(t, "Stadtfest", snap.Shift.Location)

	require.Len(t, snap.Squads, 1)
	require.NotNil(t, snap.Squads[0].ActiveMission)
	assert.Equal(t, mission.ID, snap.Squads[0].ActiveMission.ID)

	require.Len(t, snap.Missions, 1)
	assert.Equal(t, []string{"BHP"}, snap.Options["location"])
	assert.Equal(t, []string{"Sturz"}, snap.Options["reason"])

	// One KONFIGURATION entry from the shift start, newest first.
	require.Len(t, snap.Logs, 1)
	assert.Equal(t, db.ActionConfig, snap.Logs[0].Action)
}

func TestSnapshot_LogsNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	base := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.AppendLog(ctx, &db.LogEntry{Action: db.ActionInfo, Details: "erste", SessionID: testSession, Timestamp: base}))
	require.NoError(t, store.AppendLog(ctx, &db.LogEntry{Action: db.ActionInfo, Details: "zweite", SessionID: testSession, Timestamp: base.Add(time.Minute)}))

	snap, err := Snapshot(ctx, store, testLogger(), testSession, SnapshotOptions{})
	require.NoError(t, err)
	require.Len(t, snap.Logs, 2)
	assert.Equal(t, "zweite", snap.Logs[0].Details)
	assert.Equal(t, "erste", snap.Logs[1].Details)
}

func TestSnapshot_SinceFiltersUnchangedRecords(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	seedSquad(t, store, "Trupp 1", model.SquadTypeTrupp, model.StatusEB)
	seedMission(t, store, "Bühne", model.MissionLaufend)

	cutoff := time.Now().UTC().Add(time.Hour)
	snap, err := Snapshot(ctx, store, testLogger(), testSession, SnapshotOptions{Since: &cutoff})
	require.NoError(t, err)
	assert.Empty(t, snap.Squads)
	assert.Empty(t, snap.Missions)
	assert.Empty(t, snap.Logs)
}

func TestSnapshot_AccessTokenResolvesSession(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	squad := seedSquad(t, store, "Trupp 1", model.SquadTypeTrupp, model.StatusEB)

	snap, err := Snapshot(ctx, store, testLogger(), "unrelated-session", SnapshotOptions{
		AccessToken: squad.AccessToken,
	})
	require.NoError(t, err)
	require.Len(t, snap.Squads, 1)
	assert.Equal(t, "Trupp 1", snap.Squads[0].Name)
}

func TestRecordEvent_AppendsEntry(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()

	require.NoError(t, RecordEvent(ctx, store, testLogger(), testSession, "Wetterumschwung, Regen"))

	logs := sessionLogs(t, store)
	require.Len(t, logs, 1)
	assert.Equal(t, db.ActionEvent, logs[0].Action)
	assert.Equal(t, "Wetterumschwung, Regen", logs[0].Details)
}

func TestRecordEvent_EmptyRejected(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()

	err := RecordEvent(ctx, store, testLogger(), testSession, "")
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestEnsureAccessTokens_BackfillsMissing(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	with := seedSquad(t, store, "Trupp 1", model.SquadTypeTrupp, model.StatusEB)
	without := &db.Squad{Name: "Trupp 2", Type: model.SquadTypeTrupp, SessionID: testSession}
	require.NoError(t, store.InsertSquad(ctx, without))

	issued, err := EnsureAccessTokens(ctx, store, testLogger(), testSession)
	require.NoError(t, err)
	assert.Equal(t, 1, issued)

	assert.Equal(t, with.AccessToken, mustGetSquad(t, store, with.ID).AccessToken)
	assert.NotEmpty(t, mustGetSquad(t, store, without.ID).AccessToken)

	again, err := EnsureAccessTokens(ctx, store, testLogger(), testSession)
	require.NoError(t, err)
	assert.Zero(t, again)
}
