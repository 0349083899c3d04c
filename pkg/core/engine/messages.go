package engine

// German log text templates. The wording is load-bearing: shift reports are
// rendered from these entries and older log rows are reconstructed by
// matching this exact phrasing, so changes here must stay in sync with
// pkg/core/history.
const (
	msgShiftStarted  = "Dienstbetrieb aufgenommen. Stützpunkt: %s"
	msgConfigChanged = "Systemkonfiguration geändert: %s"
	msgShiftEnded    = "Dienstschluss / Einsatzende. Abschlussort: %s"

	msgSquadCreated = "Einheit in Dienst gestellt: '%s' (%s | DN: %s)"
	msgSquadUpdated = "Stammdatenänderung '%s': %s"
	msgSquadRemoved = "Einheit '%s' außer Dienst gestellt"

	msgStatusChanged  = "Statusänderung %s: %s -> %s"
	msgStatusAutoBusy = "%s: Status (System): Einsatzübernahme / Besetzt"
	msgStatusAutoFree = "%s: Status (System): Einsatzbereit (Auto-Frei)"
	msgDispatched     = "%s: Disposition (System): Zuweisung zu Einsatz #%s"
	msgPatientAssign  = "%s: Disposition (System): Patient zugewiesen"
	msgSetIntegriert  = "%s: Status auf %s gesetzt"

	msgMissionCreated = "Einsatzeröffnung #%s: %s // %s"
	msgMissionUpdated = "Änderungen an Einsatz #%s: %s"
	msgMissionDeleted = "Einsatz #%s storniert. Grund: %s"

	msgNoteAdded = "Lagemeldung / Vermerk dokumentiert"

	// emptyValue stands in for cleared fields in log fragments.
	emptyValue = "(leer)"
)
