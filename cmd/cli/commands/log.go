package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/moritz155/johanniter/pkg/core/engine"
)

// LogCmd creates the log command
func LogCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "log",
		Short: "Print the session's audit log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := app.Store.ListLogs(app.Ctx, app.SessionID)
			if err != nil {
				return err
			}

			for _, e := range entries {
				fmt.Printf("[%s] [%s] %s\n",
					e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Action, e.Details)
			}
			return nil
		},
	}
}

// RecordEventCmd creates the recordEvent command
func RecordEventCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "recordEvent <details>...",
		Short: "Document a free-form situation report in the audit log",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			details := strings.Join(args, " ")
			if err := engine.RecordEvent(app.Ctx, app.Store, app.Logger, app.SessionID, details); err != nil {
				return err
			}
			fmt.Println("✓ Ereignis dokumentiert")
			return nil
		},
	}
}
