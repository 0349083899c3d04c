package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/moritz155/johanniter/pkg/core/engine"
)

// UpdateSquadCmd creates the updateSquad command
func UpdateSquadCmd(app *AppContext) *cobra.Command {
	var (
		name           string
		qualification  string
		serviceNumbers string
		location       string
	)

	cmd := &cobra.Command{
		Use:   "updateSquad <squad_id>",
		Short: "Change a squad's details or manual location",
		Long: `Changes squad master data. Setting --location on a squad that is on
scene relocates its active mission instead; an empty --location clears the
manual override.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			squadID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("squad_id must be a number: %w", err)
			}

			var in engine.UpdateSquadInput
			if cmd.Flags().Changed("name") {
				in.Name = &name
			}
			if cmd.Flags().Changed("qualification") {
				in.Qualification = &qualification
			}
			if cmd.Flags().Changed("dn") {
				in.ServiceNumbers = &serviceNumbers
			}
			if cmd.Flags().Changed("location") {
				in.CustomLocation = &location
			}

			view, err := engine.UpdateSquad(app.Ctx, app.Store, app.Logger, app.SessionID, squadID, in)
			if err != nil {
				return err
			}

			fmt.Printf("✓ %s (%s), Status %s, Standort %s\n",
				view.Name, view.Qualification, view.CurrentStatus, view.CurrentLocationDisplay)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New squad name")
	cmd.Flags().StringVar(&qualification, "qualification", "", "New qualification")
	cmd.Flags().StringVar(&serviceNumbers, "dn", "", "New service numbers")
	cmd.Flags().StringVar(&location, "location", "", "Manual location override (empty clears)")

	return cmd
}
