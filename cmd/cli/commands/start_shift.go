package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/moritz155/johanniter/pkg/core/engine"
)

// StartShiftCmd creates the startShift command
func StartShiftCmd(app *AppContext) *cobra.Command {
	var (
		address  string
		start    string
		password string
		squads   []string
		reset    bool
	)

	cmd := &cobra.Command{
		Use:   "startShift <location>",
		Short: "Open a new shift at the given duty location",
		Long: `Opens a new shift and deactivates any previous one. With --reset the
session roster is rebuilt from the --squad flags and all prior records are
purged. Squad flags use the form "Name:Qualification:Type:DN", where every
part after the name is optional.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := engine.StartShiftInput{
				Location:     args[0],
				Address:      address,
				PasswordHash: password,
				Options: map[string][]string{
					"location": app.Cfg.DefaultOptions.Locations,
					"entity":   app.Cfg.DefaultOptions.Entities,
					"reason":   app.Cfg.DefaultOptions.Reasons,
				},
			}

			if start != "" {
				t, err := time.Parse("2006-01-02 15:04", start)
				if err != nil {
					return fmt.Errorf("invalid start time (want YYYY-MM-DD HH:MM): %w", err)
				}
				in.StartTime = &t
			}

			if reset {
				setups := make([]engine.SquadSetup, 0, len(squads))
				for _, spec := range squads {
					setup, err := parseSquadSpec(spec)
					if err != nil {
						return err
					}
					setups = append(setups, setup)
				}
				in.Squads = setups
			}

			shift, err := engine.StartShift(app.Ctx, app.Store, app.Logger, app.SessionID, in)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Shift opened\n\n")
			fmt.Printf("Location: %s\n", shift.Location)
			if shift.Address != "" {
				fmt.Printf("Address:  %s\n", shift.Address)
			}
			fmt.Printf("Start:    %s\n", shift.StartTime.Local().Format("02.01.2006 15:04"))
			return nil
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "Street address of the duty location")
	cmd.Flags().StringVar(&start, "start", "", "Shift start (YYYY-MM-DD HH:MM, default now)")
	cmd.Flags().StringVar(&password, "password-hash", "", "Opaque hash protecting the board session")
	cmd.Flags().StringArrayVar(&squads, "squad", nil, "Squad to create (Name:Qualification:Type:DN), repeatable")
	cmd.Flags().BoolVar(&reset, "reset", false, "Purge the session and rebuild the roster from --squad flags")

	return cmd
}

func parseSquadSpec(spec string) (engine.SquadSetup, error) {
	parts := strings.SplitN(spec, ":", 4)
	if parts[0] == "" {
		return engine.SquadSetup{}, fmt.Errorf("squad spec %q has no name", spec)
	}
	setup := engine.SquadSetup{Name: parts[0]}
	if len(parts) > 1 {
		setup.Qualification = parts[1]
	}
	if len(parts) > 2 {
		setup.Type = parts[2]
	}
	if len(parts) > 3 {
		setup.ServiceNumbers = parts[3]
	}
	return setup, nil
}
