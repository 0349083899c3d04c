package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/moritz155/johanniter/pkg/core/engine"
)

// UpdateMissionCmd creates the updateMission command
func UpdateMissionCmd(app *AppContext) *cobra.Command {
	var (
		number      string
		location    string
		entity      string
		reason      string
		description string
		status      string
		outcome     string
		armID       string
		armType     string
		armNotes    string
		naca        string
		notes       string
		squads      string
	)

	cmd := &cobra.Command{
		Use:   "updateMission <mission_id>",
		Short: "Edit a mission: status, outcome, roster, location, notes",
		Long: `Edits a mission. Only flags that are given change anything; every
change is narrated in a single audit entry. --squads takes the full new
roster as a comma-separated id list, newly added squads are dispatched
automatically.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			missionID, err := parseID(args[0], "mission_id")
			if err != nil {
				return err
			}

			var in engine.UpdateMissionInput
			setIf := func(flag string, target **string, value *string) {
				if cmd.Flags().Changed(flag) {
					*target = value
				}
			}
			setIf("number", &in.MissionNumber, &number)
			setIf("location", &in.Location, &location)
			setIf("entity", &in.AlarmingEntity, &entity)
			setIf("reason", &in.Reason, &reason)
			setIf("description", &in.Description, &description)
			setIf("status", &in.Status, &status)
			setIf("outcome", &in.Outcome, &outcome)
			setIf("arm-id", &in.ArmID, &armID)
			setIf("arm-type", &in.ArmType, &armType)
			setIf("arm-notes", &in.ArmNotes, &armNotes)
			setIf("naca", &in.NacaScore, &naca)
			setIf("notes", &in.Notes, &notes)

			if cmd.Flags().Changed("squads") {
				ids := []int64{}
				if squads != "" {
					for _, part := range strings.Split(squads, ",") {
						id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
						if err != nil {
							return fmt.Errorf("invalid squad id %q: %w", part, err)
						}
						ids = append(ids, id)
					}
				}
				in.SquadIDs = &ids
			}

			mission, err := engine.UpdateMission(app.Ctx, app.Store, app.Logger, app.SessionID, missionID, in)
			if err != nil {
				return err
			}

			fmt.Printf("✓ Einsatz aktualisiert: %s (%s)\n", mission.Reason, mission.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&number, "number", "", "External mission number")
	cmd.Flags().StringVar(&location, "location", "", "Mission location")
	cmd.Flags().StringVar(&entity, "entity", "", "Alarming entity")
	cmd.Flags().StringVar(&reason, "reason", "", "Alarm reason")
	cmd.Flags().StringVar(&description, "description", "", "Situation description")
	cmd.Flags().StringVar(&status, "status", "", "Mission status (e.g. Laufend, Abgeschlossen)")
	cmd.Flags().StringVar(&outcome, "outcome", "", "Mission outcome")
	cmd.Flags().StringVar(&armID, "arm-id", "", "Receiving unit identifier")
	cmd.Flags().StringVar(&armType, "arm-type", "", "Receiving unit type (RTW, KTW, NEF...)")
	cmd.Flags().StringVar(&armNotes, "arm-notes", "", "Handover notes")
	cmd.Flags().StringVar(&naca, "naca", "", "NACA score")
	cmd.Flags().StringVar(&notes, "notes", "", "Mission notes")
	cmd.Flags().StringVar(&squads, "squads", "", "Full new roster as comma-separated squad ids")

	return cmd
}
