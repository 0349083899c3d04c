package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moritz155/johanniter/pkg/core/engine"
)

// DeleteMissionCmd creates the deleteMission command
func DeleteMissionCmd(app *AppContext) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "deleteMission <mission_id>",
		Short: "Cancel a mission (kept in the records as cancelled)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			missionID, err := parseID(args[0], "mission_id")
			if err != nil {
				return err
			}

			if err := engine.DeleteMission(app.Ctx, app.Store, app.Logger, app.SessionID, missionID, reason); err != nil {
				return err
			}

			fmt.Println("✓ Einsatz storniert")
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Cancellation reason")

	return cmd
}
