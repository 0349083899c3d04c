package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/moritz155/johanniter/pkg/core/report"
)

// ExportCmd creates the export command
func ExportCmd(app *AppContext) *cobra.Command {
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Generate the shift protocol (text or xlsx)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case "text":
				content, err := report.Protocol(app.Ctx, app.Store, app.Logger, app.SessionID)
				if err != nil {
					return err
				}
				if out == "" {
					fmt.Print(string(content))
					return nil
				}
				if err := os.WriteFile(out, content, 0644); err != nil {
					return fmt.Errorf("failed to write protocol: %w", err)
				}

			case "xlsx":
				if out == "" {
					return fmt.Errorf("--out is required for xlsx export")
				}
				wb, err := report.Workbook(app.Ctx, app.Store, app.Logger, app.SessionID)
				if err != nil {
					return err
				}
				defer wb.Close()
				if err := wb.SaveAs(out); err != nil {
					return fmt.Errorf("failed to write workbook: %w", err)
				}

			default:
				return fmt.Errorf("unknown format %q (want text or xlsx)", format)
			}

			fmt.Printf("✓ Protocol written to %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or xlsx")
	cmd.Flags().StringVar(&out, "out", "", "Output file (text defaults to stdout)")

	return cmd
}
