package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/moritz155/johanniter/pkg/core/engine"
)

// SetStatusCmd creates the setStatus command
func SetStatusCmd(app *AppContext) *cobra.Command {
	var (
		squadID int64
		token   string
	)

	cmd := &cobra.Command{
		Use:   "setStatus <status>",
		Short: "Change a squad's radio status",
		Long: `Changes a squad's status code. The squad is addressed either by
--squad (dispatcher path) or by --token (mobile path, the squad's own
access token). Repeating the current status is a no-op and leaves no log
entry.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if squadID == 0 && token == "" {
				return fmt.Errorf("either --squad or --token is required")
			}

			result, err := engine.ChangeSquadStatus(app.Ctx, app.Store, app.Logger, app.SessionID, engine.ChangeStatusInput{
				SquadID:     squadID,
				AccessToken: token,
				NewStatus:   args[0],
			})
			if err != nil {
				return err
			}

			if !result.Changed {
				fmt.Printf("Status unchanged: %s is already %s\n", result.Squad.Name, result.Squad.CurrentStatus)
				return nil
			}
			fmt.Printf("✓ %s -> %s (Standort: %s)\n",
				result.Squad.Name, result.Squad.CurrentStatus, result.Squad.CurrentLocationDisplay)
			return nil
		},
	}

	cmd.Flags().Int64Var(&squadID, "squad", 0, "Squad id")
	cmd.Flags().StringVar(&token, "token", "", "Squad access token (mobile path)")

	return cmd
}

func parseID(arg, what string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", what, err)
	}
	return id, nil
}
