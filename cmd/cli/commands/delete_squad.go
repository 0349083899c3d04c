package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/moritz155/johanniter/pkg/core/engine"
)

// DeleteSquadCmd creates the deleteSquad command
func DeleteSquadCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deleteSquad <squad_id>",
		Short: "Take a squad out of service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			squadID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("squad_id must be a number: %w", err)
			}

			if err := engine.DeleteSquad(app.Ctx, app.Store, app.Logger, app.SessionID, squadID); err != nil {
				return err
			}

			fmt.Println("✓ Squad removed")
			return nil
		},
	}
}

// ReorderSquadsCmd creates the reorderSquads command
func ReorderSquadsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reorderSquads <id,id,...>",
		Short: "Set the board order of the squads",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var order []int64
			for _, part := range strings.Split(args[0], ",") {
				id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
				if err != nil {
					return fmt.Errorf("invalid squad id %q: %w", part, err)
				}
				order = append(order, id)
			}

			if err := engine.ReorderSquads(app.Ctx, app.Store, app.Logger, app.SessionID, order); err != nil {
				return err
			}

			fmt.Println("✓ Board order updated")
			return nil
		},
	}
}
