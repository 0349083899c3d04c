package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/moritz155/johanniter/pkg/db"
)

const testSession = "test-session"

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func seedSquad(t *testing.T, store db.Store, name, squadType, status string) *db.Squad {
	t.Helper()
	squad := &db.Squad{
		Name:          name,
		Type:          squadType,
		Qualification: "San",
		CurrentStatus: status,
		SessionID:     testSession,
		AccessToken:   "token-" + name,
	}
	require.NoError(t, store.InsertSquad(context.Background(), squad))
	return squad
}

func seedMission(t *testing.T, store db.Store, location, status string, squadIDs ...int64) *db.Mission {
	t.Helper()
	mission := &db.Mission{
		Location:  location,
		Reason:    "Testlage",
		Status:    status,
		SessionID: testSession,
	}
	require.NoError(t, store.InsertMission(context.Background(), mission, squadIDs))
	return mission
}

func sessionLogs(t *testing.T, store db.Store) []db.LogEntry {
	t.Helper()
	logs, err := store.ListLogs(context.Background(), testSession)
	require.NoError(t, err)
	return logs
}

func logActions(entries []db.LogEntry) []string {
	actions := make([]string, len(entries))
	for i, e := range entries {
		actions[i] = e.Action
	}
	return actions
}

func mustGetSquad(t *testing.T, store db.Store, id int64) *db.Squad {
	t.Helper()
	squad, err := store.GetSquad(context.Background(), testSession, id)
	require.NoError(t, err)
	return squad
}

func mustGetMission(t *testing.T, store db.Store, id int64) *db.Mission {
	t.Helper()
	mission, err := store.GetMission(context.Background(), testSession, id)
	require.NoError(t, err)
	return mission
}
