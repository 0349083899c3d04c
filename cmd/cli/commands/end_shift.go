package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moritz155/johanniter/pkg/core/engine"
)

// EndShiftCmd creates the endShift command
func EndShiftCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "endShift",
		Short: "Close the active shift and revoke all mobile access tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defaults := map[string][]string{
				"location": app.Cfg.DefaultOptions.Locations,
				"entity":   app.Cfg.DefaultOptions.Entities,
				"reason":   app.Cfg.DefaultOptions.Reasons,
			}

			shift, err := engine.EndShift(app.Ctx, app.Store, app.Logger, app.SessionID, defaults)
			if err != nil {
				return err
			}

			fmt.Printf("✓ Shift at %s closed", shift.Location)
			if shift.EndTime != nil {
				fmt.Printf(" at %s", shift.EndTime.Local().Format("02.01.2006 15:04"))
			}
			fmt.Println()
			fmt.Println("Run 'johanniter export' to generate the shift protocol.")
			return nil
		},
	}
}
