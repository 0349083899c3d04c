package model

// Squad types
const (
	SquadTypeTrupp    = "Trupp"
	SquadTypeAmbulanz = "Ambulanz"
)

// Squad status codes. The codes follow the German dispatch radio scheme;
// "Integriert" is a pseudo-status assigned by the engine when a squad is
// dispatched to a mission, it is never chosen by an operator directly.
const (
	StatusFunkbereit   = "1"
	StatusEB           = "2" // Einsatzbereit (available), default
	StatusZBO          = "3" // en route to scene
	StatusBO           = "4" // on scene / Besetzt for Ambulanz
	StatusSprechwunsch = "5"
	StatusPause        = "6"
	StatusZAO          = "7" // en route to base
	StatusAO           = "8" // at base
	StatusAus          = "0"
	StatusNEB          = "NEB" // legacy spelling of Pause
	StatusIntegriert   = "Integriert"
)

// Mission statuses. Status is free-form beyond these well-known values.
const (
	MissionLaufend       = "Laufend"
	MissionAbgeschlossen = "Abgeschlossen"
	MissionStorniert     = "Storniert"
	MissionUnterblieben  = "Intervention unterblieben"
)

// ShortLabels maps status codes to the compact labels used on the board.
var ShortLabels = map[string]string{
	"1":          "Frei",
	"2":          "EB",
	"3":          "zBO",
	"4":          "BO",
	"7":          "zAO",
	"8":          "AO",
	"Pause":      "Pause",
	"NEB":        "NEB",
	"Integriert": "Disponiert",
}

// codeLabels maps status codes to the long labels used in log text.
var codeLabels = map[string]string{
	"0":   "Aus",
	"1":   "Funkbereit",
	"2":   "EB",
	"3":   "zBO",
	"4":   "BO",
	"5":   "Sprechwunsch",
	"6":   "NEB / Pause",
	"7":   "zAO",
	"8":   "AO",
	"NEB": "NEB / Pause",
}

// CodeLabel returns the long label for a status code.
// Unknown codes are passed through unchanged.
func CodeLabel(code string) string {
	if label, ok := codeLabels[code]; ok {
		return label
	}
	return code
}

// IsPauseCode reports whether a status code denotes the off-duty break state.
// Both legacy spellings are in circulation.
func IsPauseCode(code string) bool {
	return code == StatusPause || code == StatusNEB
}

// IsTerminalMissionStatus reports whether a mission status excludes the
// mission from being any squad's active mission.
func IsTerminalMissionStatus(status string) bool {
	switch status {
	case MissionAbgeschlossen, MissionStorniert, MissionUnterblieben:
		return true
	}
	return false
}
