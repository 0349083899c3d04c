// Package history derives time-interval facts (pause periods, response
// times, completion timestamps) from a record's append-only log sequence.
// Everything here is read-only and pure: callers fetch the ordered entries,
// these functions only scan them.
//
// Entries written by the engine carry the transition as structured
// old/new status fields; those are matched first. Entries from before the
// structured columns existed fall back to the fixed German text markers the
// engine has always emitted, so old shifts keep reconstructing.
package history

import (
	"strings"
	"time"

	"github.com/moritz155/johanniter/pkg/core/model"
	"github.com/moritz155/johanniter/pkg/db"
)

// Text markers for rows without structured transition data.
const (
	pauseStartMarker = "-> Pause"
	pauseEndMarker   = "Pause ->"
)

var arrivalMarkers = []string{"-> BO", "-> 4"}

var completionMarkers = []string{
	"Status: Laufend -> Abgeschlossen",
	"auf Abgeschlossen",
}

// PausePeriod is one off-duty interval of a squad. End is nil while the
// pause is still ongoing.
type PausePeriod struct {
	Start time.Time
	End   *time.Time
}

// Duration returns the closed interval's length, or the time since Start
// for an open one.
func (p PausePeriod) Duration(now time.Time) time.Duration {
	if p.End != nil {
		return p.End.Sub(p.Start)
	}
	return now.Sub(p.Start)
}

// PausePeriods scans a squad's STATUS entries, ordered by timestamp, and
// pairs pause starts with the next pause end in appearance order. An
// unterminated trailing start is reported as an open interval.
func PausePeriods(entries []db.LogEntry) []PausePeriod {
	var periods []PausePeriod
	var start *time.Time

	for _, entry := range entries {
		if entry.Action != db.ActionStatus {
			continue
		}
		switch {
		case isPauseStart(entry):
			if start == nil {
				t := entry.Timestamp
				start = &t
			}
		case start != nil && isPauseEnd(entry):
			end := entry.Timestamp
			periods = append(periods, PausePeriod{Start: *start, End: &end})
			start = nil
		}
	}
	if start != nil {
		periods = append(periods, PausePeriod{Start: *start})
	}
	return periods
}

func isPauseStart(entry db.LogEntry) bool {
	if entry.NewStatus != "" {
		return model.IsPauseCode(entry.NewStatus)
	}
	return strings.Contains(entry.Details, pauseStartMarker)
}

func isPauseEnd(entry db.LogEntry) bool {
	if entry.OldStatus != "" || entry.NewStatus != "" {
		return model.IsPauseCode(entry.OldStatus) && !model.IsPauseCode(entry.NewStatus)
	}
	return strings.Contains(entry.Details, pauseEndMarker)
}

// ResponseTime returns the span between the mission's creation and the
// first logged arrival on scene. The second return is false when no arrival
// was logged or the delta is non-positive (back-dated or skewed entries are
// discarded rather than reported as negative response times).
func ResponseTime(mission *db.Mission, entries []db.LogEntry) (time.Duration, bool) {
	for _, entry := range entries {
		if !isArrival(entry) {
			continue
		}
		delta := entry.Timestamp.Sub(mission.CreatedAt)
		if delta > 0 {
			return delta, true
		}
		return 0, false
	}
	return 0, false
}

func isArrival(entry db.LogEntry) bool {
	if entry.Action != db.ActionStatus {
		return false
	}
	if entry.NewStatus != "" {
		return entry.NewStatus == model.StatusBO
	}
	for _, marker := range arrivalMarkers {
		if strings.Contains(entry.Details, marker) {
			return true
		}
	}
	return false
}

// CompletionTime returns when the mission was completed. The second return
// is false while the mission is still ongoing. For completed missions the
// first EINSATZ UPDATE entry recording the transition into Abgeschlossen
// wins; missions completed without such an entry fall back to their
// updated_at field.
func CompletionTime(mission *db.Mission, entries []db.LogEntry) (time.Time, bool) {
	if mission.Status != model.MissionAbgeschlossen {
		return time.Time{}, false
	}

	for _, entry := range entries {
		if entry.Action != db.ActionMissionUpdated {
			continue
		}
		if entry.NewStatus == model.MissionAbgeschlossen {
			return entry.Timestamp, true
		}
		for _, marker := range completionMarkers {
			if strings.Contains(entry.Details, marker) {
				return entry.Timestamp, true
			}
		}
	}

	if !mission.UpdatedAt.IsZero() {
		return mission.UpdatedAt, true
	}
	return time.Time{}, false
}
