package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moritz155/johanniter/pkg/core/engine"
	"github.com/moritz155/johanniter/pkg/core/model"
)

// BoardCmd creates the board command
func BoardCmd(app *AppContext) *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show the current coordination board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := engine.Snapshot(app.Ctx, app.Store, app.Logger, app.SessionID, engine.SnapshotOptions{
				AccessToken: token,
			})
			if err != nil {
				return err
			}

			if snap.Shift != nil {
				fmt.Printf("\nDienst: %s", snap.Shift.Location)
				if snap.Shift.Address != "" {
					fmt.Printf(" (%s)", snap.Shift.Address)
				}
				fmt.Printf(", seit %s\n", snap.Shift.StartTime.Local().Format("02.01.2006 15:04"))
			} else {
				fmt.Println("\nKein aktiver Dienst.")
			}

			fmt.Printf("\nKräfte (%d):\n", len(snap.Squads))
			for _, s := range snap.Squads {
				line := fmt.Sprintf("  [%3d] %-20s %-10s Status %-12s", s.ID, s.Name, s.Qualification, s.CurrentStatus)
				if s.CurrentLocationDisplay != "" {
					line += "  @ " + s.CurrentLocationDisplay
				}
				if s.ActiveMission != nil {
					line += fmt.Sprintf("  -> Einsatz #%d", s.ActiveMission.ID)
				}
				if s.Type == model.SquadTypeAmbulanz {
					line += fmt.Sprintf("  (%d Patienten)", s.PatientCount)
				}
				fmt.Println(line)
			}

			open := 0
			fmt.Printf("\nEinsätze (%d):\n", len(snap.Missions))
			for _, m := range snap.Missions {
				label := m.MissionNumber
				if label == "" {
					label = fmt.Sprintf("%d", m.ID)
				}
				fmt.Printf("  #%-6s %-14s %s // %s\n", label, m.Status, m.Reason, m.Location)
				if !model.IsTerminalMissionStatus(m.Status) {
					open++
				}
			}
			fmt.Printf("\n%d offen\n", open)
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Squad access token (mobile path)")

	return cmd
}
