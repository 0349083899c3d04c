package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moritz155/johanniter/pkg/core/model"
	"github.com/moritz155/johanniter/pkg/db"
)

func strPtr(v string) *string { return &v }

func TestUpdateMission_CombinedChangeEntry(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	mission := seedMission(t, store, "Bühne", model.MissionLaufend)

	updated, err := UpdateMission(ctx, store, testLogger(), testSession, mission.ID, UpdateMissionInput{
		Status:    strPtr(model.MissionAbgeschlossen),
		NacaScore: strPtr("3"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.MissionAbgeschlossen, updated.Status)
	assert.Equal(t, "3", updated.NacaScore)

	logs := sessionLogs(t, store)
	require.Len(t, logs, 1)
	entry := logs[0]
	assert.Equal(t, db.ActionMissionUpdated, entry.Action)
	assert.Equal(t, fmt.Sprintf("Änderungen an Einsatz #%d: Status geändert: Abgeschlossen; NACA: 3", mission.ID), entry.Details)
	assert.Equal(t, model.MissionLaufend, entry.OldStatus)
	assert.Equal(t, model.MissionAbgeschlossen, entry.NewStatus)
}

func TestUpdateMission_NoChangesNoEntry(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	mission := seedMission(t, store, "Bühne", model.MissionLaufend)

	_, err := UpdateMission(ctx, store, testLogger(), testSession, mission.ID, UpdateMissionInput{
		Location: strPtr("Bühne"),
	})
	require.NoError(t, err)
	assert.Empty(t, sessionLogs(t, store))
}

func TestUpdateMission_ArmOutcomeNamesTransferID(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	mission := seedMission(t, store, "Bühne", model.MissionLaufend)

	_, err := UpdateMission(ctx, store, testLogger(), testSession, mission.ID, UpdateMissionInput{
		Outcome: strPtr("ARM"),
		ArmID:   strPtr("RTW 41-83-1"),
	})
	require.NoError(t, err)

	logs := sessionLogs(t, store)
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0].Details, "Ausgang: ARM (RTW 41-83-1)")
	assert.NotContains(t, logs[0].Details, "ARM-ID:")
}

func TestUpdateMission_ArmIDAloneNarrated(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	mission := seedMission(t, store, "Bühne", model.MissionLaufend)

	_, err := UpdateMission(ctx, store, testLogger(), testSession, mission.ID, UpdateMissionInput{
		ArmID: strPtr("RTW 41-83-1"),
	})
	require.NoError(t, err)

	logs := sessionLogs(t, store)
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0].Details, "ARM-ID: RTW 41-83-1")
}

func TestUpdateMission_NonArmOutcomePlain(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	mission := seedMission(t, store, "Bühne", model.MissionLaufend)

	_, err := UpdateMission(ctx, store, testLogger(), testSession, mission.ID, UpdateMissionInput{
		Outcome: strPtr("Entlassen"),
	})
	require.NoError(t, err)

	logs := sessionLogs(t, store)
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0].Details, "Ausgang: Entlassen")
}

func TestUpdateMission_RosterAdditionDeferredDispatch(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	squad := seedSquad(t, store, "Trupp 1", model.SquadTypeTrupp, model.StatusEB)
	mission := seedMission(t, store, "Bühne", model.MissionLaufend)

	_, err := UpdateMission(ctx, store, testLogger(), testSession, mission.ID, UpdateMissionInput{
		SquadIDs: &[]int64{squad.ID},
	})
	require.NoError(t, err)

	dispatched := mustGetSquad(t, store, squad.ID)
	assert.Equal(t, model.StatusIntegriert, dispatched.CurrentStatus)

	logs := sessionLogs(t, store)
	require.Len(t, logs, 2)
	assert.Equal(t, db.ActionMissionUpdated, logs[0].Action)
	assert.Contains(t, logs[0].Details, "Trupps: + Trupp 1")
	assert.Equal(t, db.ActionStatus, logs[1].Action)
	assert.Equal(t, "Trupp 1: Status auf Disponiert gesetzt", logs[1].Details)
	assert.Equal(t, model.StatusEB, logs[1].OldStatus)
	assert.Equal(t, model.StatusIntegriert, logs[1].NewStatus)
}

func TestUpdateMission_RosterRemovalNarrated(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	squad := seedSquad(t, store, "Trupp 1", model.SquadTypeTrupp, model.StatusIntegriert)
	mission := seedMission(t, store, "Bühne", model.MissionLaufend, squad.ID)

	_, err := UpdateMission(ctx, store, testLogger(), testSession, mission.ID, UpdateMissionInput{
		SquadIDs: &[]int64{},
	})
	require.NoError(t, err)

	ids, err := store.MissionSquadIDs(ctx, mission.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)

	logs := sessionLogs(t, store)
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0].Details, "Trupps: - Trupp 1")
}

func TestUpdateMission_InitialLocationCapturedOnce(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	mission := seedMission(t, store, "Bühne", model.MissionLaufend)

	_, err := UpdateMission(ctx, store, testLogger(), testSession, mission.ID, UpdateMissionInput{
		Location: strPtr("BHP"),
	})
	require.NoError(t, err)
	_, err = UpdateMission(ctx, store, testLogger(), testSession, mission.ID, UpdateMissionInput{
		Location: strPtr("Haupteingang"),
	})
	require.NoError(t, err)

	moved := mustGetMission(t, store, mission.ID)
	assert.Equal(t, "Haupteingang", moved.Location)
	assert.Equal(t, "Bühne", moved.InitialLocation)
}

func TestUpdateMission_NoteNarration(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	mission := seedMission(t, store, "Bühne", model.MissionLaufend)

	_, err := UpdateMission(ctx, store, testLogger(), testSession, mission.ID, UpdateMissionInput{
		Notes: strPtr("Patient ansprechbar"),
	})
	require.NoError(t, err)
	_, err = UpdateMission(ctx, store, testLogger(), testSession, mission.ID, UpdateMissionInput{
		Notes: strPtr("Patient stabil"),
	})
	require.NoError(t, err)

	logs := sessionLogs(t, store)
	require.Len(t, logs, 2)
	assert.Contains(t, logs[0].Details, "Lagemeldung / Vermerk dokumentiert: Patient ansprechbar")
	assert.Contains(t, logs[1].Details, "Notiz geändert: Patient ansprechbar zu Patient stabil")
}

func TestUpdateMission_CompletionFreesAmbulanz(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	amb := seedSquad(t, store, "Ambulanz Nord", model.SquadTypeAmbulanz, model.StatusBO)
	mission := seedMission(t, store, "Bühne", model.MissionLaufend, amb.ID)

	_, err := UpdateMission(ctx, store, testLogger(), testSession, mission.ID, UpdateMissionInput{
		Status: strPtr(model.MissionAbgeschlossen),
	})
	require.NoError(t, err)

	freed := mustGetSquad(t, store, amb.ID)
	assert.Equal(t, model.StatusEB, freed.CurrentStatus)

	logs := sessionLogs(t, store)
	require.Len(t, logs, 2)
	assert.Equal(t, "Ambulanz Nord: Status (System): Einsatzbereit (Auto-Frei)", logs[1].Details)
}

func TestUpdateMission_RosterRemovalFreesAmbulanz(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	amb := seedSquad(t, store, "Ambulanz Nord", model.SquadTypeAmbulanz, model.StatusBO)
	mission := seedMission(t, store, "Bühne", model.MissionLaufend, amb.ID)

	_, err := UpdateMission(ctx, store, testLogger(), testSession, mission.ID, UpdateMissionInput{
		SquadIDs: &[]int64{},
	})
	require.NoError(t, err)

	freed := mustGetSquad(t, store, amb.ID)
	assert.Equal(t, model.StatusEB, freed.CurrentStatus)

	logs := sessionLogs(t, store)
	require.Len(t, logs, 2)
	assert.Contains(t, logs[0].Details, "Trupps: - Ambulanz Nord")
	assert.Equal(t, db.ActionStatus, logs[1].Action)
	assert.Equal(t, "Ambulanz Nord: Status (System): Einsatzbereit (Auto-Frei)", logs[1].Details)
	assert.Equal(t, model.StatusBO, logs[1].OldStatus)
	assert.Equal(t, model.StatusEB, logs[1].NewStatus)
}

func TestUpdateMission_DeletedMissionNotFound(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	mission := seedMission(t, store, "Bühne", model.MissionLaufend)
	mission.IsDeleted = true
	require.NoError(t, store.UpdateMission(ctx, mission))

	_, err := UpdateMission(ctx, store, testLogger(), testSession, mission.ID, UpdateMissionInput{
		Location: strPtr("BHP"),
	})
	assert.True(t, IsNotFound(err))
	assert.Empty(t, sessionLogs(t, store))
}

func TestUpdateMission_UnknownMissionNotFound(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()

	_, err := UpdateMission(ctx, store, testLogger(), testSession, 99, UpdateMissionInput{})
	assert.True(t, IsNotFound(err))
}
