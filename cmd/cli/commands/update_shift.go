package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/moritz155/johanniter/pkg/core/engine"
)

// UpdateShiftCmd creates the updateShift command
func UpdateShiftCmd(app *AppContext) *cobra.Command {
	var (
		location     string
		address      string
		start        string
		end          string
		clearEnd     bool
		addLocations []string
	)

	cmd := &cobra.Command{
		Use:   "updateShift",
		Short: "Change the active shift's configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var in engine.UpdateShiftConfigInput

			if cmd.Flags().Changed("location") {
				in.Location = &location
			}
			if cmd.Flags().Changed("address") {
				in.Address = &address
			}
			if start != "" {
				t, err := time.Parse("2006-01-02 15:04", start)
				if err != nil {
					return fmt.Errorf("invalid start time (want YYYY-MM-DD HH:MM): %w", err)
				}
				in.StartTime = &t
			}
			if clearEnd {
				var none *time.Time
				in.EndTime = &none
			} else if end != "" {
				t, err := time.Parse("2006-01-02 15:04", end)
				if err != nil {
					return fmt.Errorf("invalid end time (want YYYY-MM-DD HH:MM): %w", err)
				}
				ptr := &t
				in.EndTime = &ptr
			}
			in.Locations = addLocations

			shift, err := engine.UpdateShiftConfig(app.Ctx, app.Store, app.Logger, app.SessionID, in)
			if err != nil {
				return err
			}

			fmt.Printf("✓ Shift updated: %s", shift.Location)
			if shift.EndTime != nil {
				fmt.Printf(" (until %s)", shift.EndTime.Local().Format("02.01.2006 15:04"))
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().StringVar(&location, "location", "", "New duty location")
	cmd.Flags().StringVar(&address, "address", "", "New street address")
	cmd.Flags().StringVar(&start, "start", "", "New shift start (YYYY-MM-DD HH:MM)")
	cmd.Flags().StringVar(&end, "end", "", "Planned shift end (YYYY-MM-DD HH:MM)")
	cmd.Flags().BoolVar(&clearEnd, "clear-end", false, "Remove the planned shift end")
	cmd.Flags().StringArrayVar(&addLocations, "add-location", nil, "Add a value to the location pick list, repeatable")

	return cmd
}
