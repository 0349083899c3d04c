package engine

import (
	"context"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/moritz155/johanniter/pkg/core/model"
	"github.com/moritz155/johanniter/pkg/db"
)

var validate = validator.New()

func nowUTC() time.Time {
	return time.Now().UTC()
}

// missionLabel returns the human-assigned mission number if present, else
// the record id. Matches the "#N" the log templates interpolate.
func missionLabel(m *db.Mission) string {
	if m.MissionNumber != "" {
		return m.MissionNumber
	}
	return strconv.FormatInt(m.ID, 10)
}

// activeLinkedMission returns the squad's first linked mission that is still
// open (not Abgeschlossen, not deleted), in creation order. Nil when the
// squad has no open mission.
func activeLinkedMission(ctx context.Context, store db.Store, squadID int64) (*db.Mission, error) {
	missions, err := store.ListSquadMissions(ctx, squadID)
	if err != nil {
		return nil, err
	}
	for i := range missions {
		if missions[i].Status != model.MissionAbgeschlossen && !missions[i].IsDeleted {
			return &missions[i], nil
		}
	}
	return nil, nil
}

// latestCompletedMission returns the squad's most recently completed mission
// (highest id), or nil.
func latestCompletedMission(ctx context.Context, store db.Store, squadID int64) (*db.Mission, error) {
	missions, err := store.ListSquadMissions(ctx, squadID)
	if err != nil {
		return nil, err
	}
	var latest *db.Mission
	for i := range missions {
		m := &missions[i]
		if m.Status != model.MissionAbgeschlossen || m.IsDeleted {
			continue
		}
		if latest == nil || m.ID > latest.ID {
			latest = m
		}
	}
	return latest, nil
}

// squadView assembles the derived read-model for a squad.
func squadView(ctx context.Context, store db.Store, squad *db.Squad) (*db.SquadView, error) {
	linked, err := store.ListSquadMissions(ctx, squad.ID)
	if err != nil {
		return nil, err
	}
	rosters := make(map[int64][]int64)
	for _, m := range linked {
		ids, err := store.MissionSquadIDs(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		rosters[m.ID] = ids
	}
	view := db.BuildSquadView(*squad, linked, rosters)
	return &view, nil
}

// dedupeIDs removes duplicates while preserving first-seen order.
func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	var out []int64
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func orEmpty(v string) string {
	if v == "" {
		return emptyValue
	}
	return v
}
