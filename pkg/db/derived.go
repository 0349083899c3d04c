package db

import (
	"sort"

	"github.com/moritz155/johanniter/pkg/core/model"
)

// MissionRef is the compact mission shape embedded in a SquadView.
type MissionRef struct {
	ID            int64
	MissionNumber string
	Location      string
	Reason        string
	SquadIDs      []int64
}

// SquadView is the read-time projection of a squad: the stored row plus the
// derived fields the board renders. None of these are persisted.
type SquadView struct {
	Squad
	ActiveMission *MissionRef
	LastMission   *MissionRef
	// CurrentLocationDisplay is the custom location if set, else the last
	// mission's location, else empty.
	CurrentLocationDisplay string
	// PatientCount is only meaningful for Ambulanz squads.
	PatientCount int
}

// BuildSquadView computes the derived fields for a squad from the missions
// linked to it. missionSquads provides each mission's roster ids; only the
// active mission's roster is embedded in the view.
func BuildSquadView(squad Squad, linked []Mission, missionSquads map[int64][]int64) SquadView {
	view := SquadView{Squad: squad}

	// Active mission: non-terminal status, no outcome, not deleted, same
	// session (guards against ghost links after id reuse). Latest creation
	// time wins.
	var active []Mission
	for _, m := range linked {
		if model.IsTerminalMissionStatus(m.Status) || m.Outcome != "" || m.IsDeleted || m.SessionID != squad.SessionID {
			continue
		}
		active = append(active, m)
	}
	sort.SliceStable(active, func(i, j int) bool {
		if !active[i].CreatedAt.Equal(active[j].CreatedAt) {
			return active[i].CreatedAt.After(active[j].CreatedAt)
		}
		return active[i].ID > active[j].ID
	})
	if len(active) > 0 {
		m := active[0]
		view.ActiveMission = &MissionRef{
			ID:            m.ID,
			MissionNumber: m.MissionNumber,
			Location:      m.Location,
			Reason:        m.Reason,
			SquadIDs:      missionSquads[m.ID],
		}
	}

	// Last mission: any status, not deleted, latest creation time.
	var all []Mission
	for _, m := range linked {
		if !m.IsDeleted {
			all = append(all, m)
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})
	if len(all) > 0 {
		m := all[0]
		view.LastMission = &MissionRef{
			ID:            m.ID,
			MissionNumber: m.MissionNumber,
			Location:      m.Location,
		}
	}

	if squad.CustomLocation != "" {
		view.CurrentLocationDisplay = squad.CustomLocation
	} else if view.LastMission != nil {
		view.CurrentLocationDisplay = view.LastMission.Location
	}

	if squad.Type == model.SquadTypeAmbulanz {
		for _, m := range linked {
			if !m.IsDeleted && m.Status != model.MissionAbgeschlossen {
				view.PatientCount++
			}
		}
	}

	return view
}
