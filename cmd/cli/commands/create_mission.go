package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moritz155/johanniter/pkg/core/engine"
)

// CreateMissionCmd creates the createMission command
func CreateMissionCmd(app *AppContext) *cobra.Command {
	var (
		number      string
		location    string
		entity      string
		reason      string
		description string
		naca        string
		notes       string
		squadIDs    []int64
	)

	cmd := &cobra.Command{
		Use:   "createMission",
		Short: "Open a new mission and dispatch squads to it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mission, err := engine.CreateMission(app.Ctx, app.Store, app.Logger, app.SessionID, engine.CreateMissionInput{
				MissionNumber:  number,
				Location:       location,
				AlarmingEntity: entity,
				Reason:         reason,
				Description:    description,
				NacaScore:      naca,
				Notes:          notes,
				SquadIDs:       squadIDs,
			})
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Mission opened\n\n")
			label := mission.MissionNumber
			if label == "" {
				label = fmt.Sprintf("%d", mission.ID)
			}
			fmt.Printf("Einsatz #%s\n", label)
			fmt.Printf("Ort:   %s\n", mission.Location)
			fmt.Printf("Grund: %s\n", mission.Reason)
			return nil
		},
	}

	cmd.Flags().StringVar(&number, "number", "", "External mission number")
	cmd.Flags().StringVar(&location, "location", "", "Mission location (required)")
	cmd.Flags().StringVar(&entity, "entity", "", "Alarming entity")
	cmd.Flags().StringVar(&reason, "reason", "", "Alarm reason (required)")
	cmd.Flags().StringVar(&description, "description", "", "Situation description")
	cmd.Flags().StringVar(&naca, "naca", "", "NACA score")
	cmd.Flags().StringVar(&notes, "notes", "", "Initial notes")
	cmd.Flags().Int64SliceVar(&squadIDs, "squad", nil, "Squad id to dispatch, repeatable")
	cmd.MarkFlagRequired("location")
	cmd.MarkFlagRequired("reason")

	return cmd
}
