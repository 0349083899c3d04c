package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moritz155/johanniter/pkg/core/model"
	"github.com/moritz155/johanniter/pkg/db"
)

func TestChangeSquadStatus_AppliesTransition(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	squad := seedSquad(t, store, "Trupp 1", model.SquadTypeTrupp, model.StatusEB)

	result, err := ChangeSquadStatus(ctx, store, testLogger(), testSession, ChangeStatusInput{
		SquadID:   squad.ID,
		NewStatus: model.StatusPause,
	})
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, model.StatusPause, result.Squad.CurrentStatus)

	logs := sessionLogs(t, store)
	require.Len(t, logs, 1)
	entry := logs[0]
	assert.Equal(t, db.ActionStatus, entry.Action)
	assert.Equal(t, "Statusänderung Trupp 1: EB -> NEB / Pause", entry.Details)
	assert.Equal(t, model.StatusEB, entry.OldStatus)
	assert.Equal(t, model.StatusPause, entry.NewStatus)
	assert.Equal(t, squad.ID, entry.SquadID)
}

func TestChangeSquadStatus_SameStatusIsNoOp(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	squad := seedSquad(t, store, "Trupp 1", model.SquadTypeTrupp, model.StatusEB)

	result, err := ChangeSquadStatus(ctx, store, testLogger(), testSession, ChangeStatusInput{
		SquadID:   squad.ID,
		NewStatus: model.StatusEB,
	})
	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Empty(t, sessionLogs(t, store))
}

func TestChangeSquadStatus_LinksActiveMission(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	squad := seedSquad(t, store, "Trupp 1", model.SquadTypeTrupp, model.StatusIntegriert)
	mission := seedMission(t, store, "Bühne", model.MissionLaufend, squad.ID)

	_, err := ChangeSquadStatus(ctx, store, testLogger(), testSession, ChangeStatusInput{
		SquadID:   squad.ID,
		NewStatus: model.StatusZBO,
	})
	require.NoError(t, err)

	logs := sessionLogs(t, store)
	require.Len(t, logs, 1)
	assert.Equal(t, mission.ID, logs[0].MissionID)
}

func TestChangeSquadStatus_InheritsMissionLocationFromScene(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	squad := seedSquad(t, store, "Trupp 1", model.SquadTypeTrupp, model.StatusBO)
	seedMission(t, store, "Bühne", model.MissionLaufend, squad.ID)

	result, err := ChangeSquadStatus(ctx, store, testLogger(), testSession, ChangeStatusInput{
		SquadID:   squad.ID,
		NewStatus: model.StatusEB,
	})
	require.NoError(t, err)
	assert.Equal(t, "Bühne", result.Squad.CustomLocation)
}

func TestChangeSquadStatus_InheritsAmbulanzNameFromBase(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	trupp := seedSquad(t, store, "Trupp 1", model.SquadTypeTrupp, model.StatusAO)
	amb := seedSquad(t, store, "Ambulanz Nord", model.SquadTypeAmbulanz, model.StatusEB)
	seedMission(t, store, "Bühne", model.MissionAbgeschlossen, trupp.ID, amb.ID)

	result, err := ChangeSquadStatus(ctx, store, testLogger(), testSession, ChangeStatusInput{
		SquadID:   trupp.ID,
		NewStatus: model.StatusEB,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ambulanz Nord", result.Squad.CustomLocation)
}

func TestChangeSquadStatus_FallsBackToBHPFromBase(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	trupp := seedSquad(t, store, "Trupp 1", model.SquadTypeTrupp, model.StatusZAO)
	seedMission(t, store, "Bühne", model.MissionAbgeschlossen, trupp.ID)

	result, err := ChangeSquadStatus(ctx, store, testLogger(), testSession, ChangeStatusInput{
		SquadID:   trupp.ID,
		NewStatus: model.StatusEB,
	})
	require.NoError(t, err)
	assert.Equal(t, "BHP", result.Squad.CustomLocation)
}

func TestChangeSquadStatus_KeepsExistingOverrideFromBase(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	trupp := seedSquad(t, store, "Trupp 1", model.SquadTypeTrupp, model.StatusAO)
	trupp.CustomLocation = "Haupteingang"
	require.NoError(t, store.UpdateSquad(ctx, trupp))
	seedMission(t, store, "Bühne", model.MissionAbgeschlossen, trupp.ID)

	result, err := ChangeSquadStatus(ctx, store, testLogger(), testSession, ChangeStatusInput{
		SquadID:   trupp.ID,
		NewStatus: model.StatusEB,
	})
	require.NoError(t, err)
	assert.Equal(t, "Haupteingang", result.Squad.CustomLocation)
}

func TestChangeSquadStatus_ResolvesByAccessToken(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	squad := seedSquad(t, store, "Trupp 1", model.SquadTypeTrupp, model.StatusEB)

	result, err := ChangeSquadStatus(ctx, store, testLogger(), "unrelated-session", ChangeStatusInput{
		AccessToken: squad.AccessToken,
		NewStatus:   model.StatusZBO,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusZBO, result.Squad.CurrentStatus)
}

func TestChangeSquadStatus_TokenMismatchRejected(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	squad := seedSquad(t, store, "Trupp 1", model.SquadTypeTrupp, model.StatusEB)
	other := seedSquad(t, store, "Trupp 2", model.SquadTypeTrupp, model.StatusEB)

	_, err := ChangeSquadStatus(ctx, store, testLogger(), testSession, ChangeStatusInput{
		SquadID:     other.ID,
		AccessToken: squad.AccessToken,
		NewStatus:   model.StatusZBO,
	})
	assert.True(t, IsNotFound(err))
}

func TestChangeSquadStatus_UnknownSquad(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()

	_, err := ChangeSquadStatus(ctx, store, testLogger(), testSession, ChangeStatusInput{
		SquadID:   42,
		NewStatus: model.StatusEB,
	})
	assert.True(t, IsNotFound(err))
}

func TestChangeSquadStatus_MissingStatusRejected(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	squad := seedSquad(t, store, "Trupp 1", model.SquadTypeTrupp, model.StatusEB)

	_, err := ChangeSquadStatus(ctx, store, testLogger(), testSession, ChangeStatusInput{SquadID: squad.ID})
	assert.Equal(t, KindValidation, KindOf(err))
}
