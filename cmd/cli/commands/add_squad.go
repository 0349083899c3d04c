package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moritz155/johanniter/pkg/core/engine"
	"github.com/moritz155/johanniter/pkg/core/model"
)

// AddSquadCmd creates the addSquad command
func AddSquadCmd(app *AppContext) *cobra.Command {
	var (
		qualification  string
		squadType      string
		serviceNumbers string
		position       int
	)

	cmd := &cobra.Command{
		Use:   "addSquad <name>",
		Short: "Put a new squad in service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			squad, err := engine.CreateSquad(app.Ctx, app.Store, app.Logger, app.SessionID, engine.CreateSquadInput{
				Name:           args[0],
				Qualification:  qualification,
				Type:           squadType,
				ServiceNumbers: serviceNumbers,
				Position:       position,
			})
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Squad in service\n\n")
			fmt.Printf("ID:           %d\n", squad.ID)
			fmt.Printf("Name:         %s (%s)\n", squad.Name, squad.Qualification)
			fmt.Printf("Access token: %s\n", squad.AccessToken)
			return nil
		},
	}

	cmd.Flags().StringVar(&qualification, "qualification", "", "Medical qualification (default San)")
	cmd.Flags().StringVar(&squadType, "type", model.SquadTypeTrupp, "Squad type (Trupp or Ambulanz)")
	cmd.Flags().StringVar(&serviceNumbers, "dn", "", "Service numbers of the members")
	cmd.Flags().IntVar(&position, "position", 0, "Board position")

	return cmd
}
