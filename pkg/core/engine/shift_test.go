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

var testOptions = map[string][]string{
	"location": {"BHP", "Bühne"},
	"entity":   {"Security"},
	"reason":   {"Internistisch"},
}

func TestStartShift_OpensActiveShift(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()

	start := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	shift, err := StartShift(ctx, store, testLogger(), testSession, StartShiftInput{
		Location:  "Stadtfest",
		Address:   "Marktplatz 1",
		StartTime: &start,
		Options:   testOptions,
	})
	require.NoError(t, err)
	assert.True(t, shift.IsActive)
	assert.Equal(t, start, shift.StartTime)

	active, err := store.GetActiveShift(ctx, testSession)
	require.NoError(t, err)
	assert.Equal(t, shift.ID, active.ID)

	options, err := store.ListOptions(ctx, testSession)
	require.NoError(t, err)
	assert.Len(t, options, 4)

	logs := sessionLogs(t, store)
	require.Len(t, logs, 1)
	assert.Equal(t, db.ActionConfig, logs[0].Action)
	assert.Equal(t, "Dienstbetrieb aufgenommen. Stützpunkt: Stadtfest", logs[0].Details)
}

func TestStartShift_DeactivatesPriorShift(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()

	first, err := StartShift(ctx, store, testLogger(), testSession, StartShiftInput{Location: "Alt"})
	require.NoError(t, err)
	second, err := StartShift(ctx, store, testLogger(), testSession, StartShiftInput{Location: "Neu"})
	require.NoError(t, err)

	active, err := store.GetActiveShift(ctx, testSession)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)
	assert.NotEqual(t, first.ID, active.ID)
}

func TestStartShift_RosterResetPurgesSession(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	old := seedSquad(t, store, "Alt-Trupp", model.SquadTypeTrupp, model.StatusEB)
	seedMission(t, store, "Bühne", model.MissionLaufend, old.ID)

	_, err := StartShift(ctx, store, testLogger(), testSession, StartShiftInput{
		Location: "Stadtfest",
		Squads: []SquadSetup{
			{Name: "Trupp 1"},
			{Name: "Ambulanz Nord", Type: model.SquadTypeAmbulanz, Qualification: "RS"},
		},
	})
	require.NoError(t, err)

	squads, err := store.ListSquads(ctx, testSession)
	require.NoError(t, err)
	require.Len(t, squads, 2)
	assert.Equal(t, "Trupp 1", squads[0].Name)
	assert.Equal(t, model.StatusEB, squads[0].CurrentStatus)
	assert.Equal(t, "San", squads[0].Qualification)
	assert.NotEmpty(t, squads[0].AccessToken)
	assert.Equal(t, model.SquadTypeAmbulanz, squads[1].Type)

	missions, err := store.ListMissions(ctx, testSession, true)
	require.NoError(t, err)
	assert.Empty(t, missions)
}

func TestStartShift_LocationRequired(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()

	_, err := StartShift(ctx, store, testLogger(), testSession, StartShiftInput{})
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestUpdateShiftConfig_FieldChanges(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	_, err := StartShift(ctx, store, testLogger(), testSession, StartShiftInput{Location: "Alt"})
	require.NoError(t, err)

	end := time.Date(2026, 6, 1, 22, 0, 0, 0, time.UTC)
	endPtr := &end
	shift, err := UpdateShiftConfig(ctx, store, testLogger(), testSession, UpdateShiftConfigInput{
		Location: strPtr("Neu"),
		Address:  strPtr("Marktplatz 1"),
		EndTime:  &endPtr,
	})
	require.NoError(t, err)
	assert.Equal(t, "Neu", shift.Location)
	require.NotNil(t, shift.EndTime)
	assert.Equal(t, end, *shift.EndTime)

	logs := sessionLogs(t, store)
	require.Len(t, logs, 2)
	assert.Equal(t, "Systemkonfiguration geändert: Einsatzort aktualisiert, Adresse aktualisiert, Dienstende geändert", logs[1].Details)
}

func TestUpdateShiftConfig_ClearEndTime(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	_, err := StartShift(ctx, store, testLogger(), testSession, StartShiftInput{Location: "Alt"})
	require.NoError(t, err)

	end := time.Date(2026, 6, 1, 22, 0, 0, 0, time.UTC)
	endPtr := &end
	_, err = UpdateShiftConfig(ctx, store, testLogger(), testSession, UpdateShiftConfigInput{EndTime: &endPtr})
	require.NoError(t, err)

	var cleared *time.Time
	shift, err := UpdateShiftConfig(ctx, store, testLogger(), testSession, UpdateShiftConfigInput{EndTime: &cleared})
	require.NoError(t, err)
	assert.Nil(t, shift.EndTime)
}

func TestUpdateShiftConfig_MergesLocationOptions(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	_, err := StartShift(ctx, store, testLogger(), testSession, StartShiftInput{
		Location: "Stadtfest",
		Options:  map[string][]string{"location": {"BHP"}},
	})
	require.NoError(t, err)

	_, err = UpdateShiftConfig(ctx, store, testLogger(), testSession, UpdateShiftConfigInput{
		Locations: []string{"BHP", "Tribüne Ost", "", "Tribüne West"},
	})
	require.NoError(t, err)

	options, err := store.ListOptions(ctx, testSession)
	require.NoError(t, err)
	assert.Len(t, options, 3)

	logs := sessionLogs(t, store)
	require.Len(t, logs, 2)
	assert.Equal(t, "2 neue Einsatzorte hinzugefügt", logs[1].Details)
}

func TestUpdateShiftConfig_NoActiveShift(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()

	_, err := UpdateShiftConfig(ctx, store, testLogger(), testSession, UpdateShiftConfigInput{Location: strPtr("x")})
	assert.True(t, IsNotFound(err))
}

func TestEndShift_ClosesAndRevokesTokens(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	squad := seedSquad(t, store, "Trupp 1", model.SquadTypeTrupp, model.StatusEB)
	_, err := StartShift(ctx, store, testLogger(), testSession, StartShiftInput{Location: "Stadtfest"})
	require.NoError(t, err)

	shift, err := EndShift(ctx, store, testLogger(), testSession, testOptions)
	require.NoError(t, err)
	assert.False(t, shift.IsActive)
	require.NotNil(t, shift.EndTime)

	_, err = store.GetActiveShift(ctx, testSession)
	assert.ErrorIs(t, err, db.ErrNotFound)

	assert.Empty(t, mustGetSquad(t, store, squad.ID).AccessToken)

	options, err := store.ListOptions(ctx, testSession)
	require.NoError(t, err)
	assert.Len(t, options, 4)

	logs := sessionLogs(t, store)
	require.Len(t, logs, 2)
	assert.Equal(t, "Dienstschluss / Einsatzende. Abschlussort: Stadtfest", logs[1].Details)
}

func TestEndShift_NoActiveShiftReturnsLatest(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	_, err := StartShift(ctx, store, testLogger(), testSession, StartShiftInput{Location: "Stadtfest"})
	require.NoError(t, err)
	_, err = EndShift(ctx, store, testLogger(), testSession, nil)
	require.NoError(t, err)

	shift, err := EndShift(ctx, store, testLogger(), testSession, nil)
	require.NoError(t, err)
	assert.Equal(t, "Stadtfest", shift.Location)
	assert.False(t, shift.IsActive)
}

func TestEndShift_NoShiftAtAll(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()

	_, err := EndShift(ctx, store, testLogger(), testSession, nil)
	assert.True(t, IsNotFound(err))
}
