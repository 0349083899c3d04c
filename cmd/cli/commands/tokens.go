package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moritz155/johanniter/pkg/core/engine"
)

// IssueTokensCmd creates the issueTokens command
func IssueTokensCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "issueTokens",
		Short: "Backfill access tokens for squads that have none",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			issued, err := engine.EnsureAccessTokens(app.Ctx, app.Store, app.Logger, app.SessionID)
			if err != nil {
				return err
			}
			fmt.Printf("✓ %d token(s) issued\n", issued)

			squads, err := app.Store.ListSquads(app.Ctx, app.SessionID)
			if err != nil {
				return err
			}
			for _, s := range squads {
				fmt.Printf("  %-20s %s\n", s.Name, s.AccessToken)
			}
			return nil
		},
	}
}
