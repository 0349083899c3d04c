package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/moritz155/johanniter/cmd/cli/commands"
	"github.com/moritz155/johanniter/internal/config"
	"github.com/moritz155/johanniter/pkg/postgres"
	"github.com/moritz155/johanniter/pkg/utils/logging"
)

var (
	configPath string
	sessionID  string
	app        *commands.AppContext
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "johanniter",
		Short: "Johanniter mission control - coordinate squads and missions during a duty shift",
		Long:  `A coordination board for medical service shifts: squad status tracking, mission dispatch, audit logging and shift-end documentation.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				if app.Logger != nil {
					app.Logger.Sync()
				}
				if app.Database != nil {
					app.Database.Close()
				}
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: johanniter_config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&sessionID, "session", "s", "", "Board session to operate on (default: from config)")

	rootCmd.AddCommand(commands.MigrateCmd(appRef()))
	rootCmd.AddCommand(commands.StartShiftCmd(appRef()))
	rootCmd.AddCommand(commands.UpdateShiftCmd(appRef()))
	rootCmd.AddCommand(commands.EndShiftCmd(appRef()))
	rootCmd.AddCommand(commands.AddSquadCmd(appRef()))
	rootCmd.AddCommand(commands.UpdateSquadCmd(appRef()))
	rootCmd.AddCommand(commands.DeleteSquadCmd(appRef()))
	rootCmd.AddCommand(commands.ReorderSquadsCmd(appRef()))
	rootCmd.AddCommand(commands.SetStatusCmd(appRef()))
	rootCmd.AddCommand(commands.CreateMissionCmd(appRef()))
	rootCmd.AddCommand(commands.UpdateMissionCmd(appRef()))
	rootCmd.AddCommand(commands.DeleteMissionCmd(appRef()))
	rootCmd.AddCommand(commands.BoardCmd(appRef()))
	rootCmd.AddCommand(commands.LogCmd(appRef()))
	rootCmd.AddCommand(commands.RecordEventCmd(appRef()))
	rootCmd.AddCommand(commands.IssueTokensCmd(appRef()))
	rootCmd.AddCommand(commands.ExportCmd(appRef()))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// appRef returns the shared context that initApp fills in before any RunE
// executes.
func appRef() *commands.AppContext {
	if app == nil {
		app = &commands.AppContext{}
	}
	return app
}

// initApp sets up logger, config and database
func initApp() error {
	var err error
	ctx := appRef()
	ctx.Ctx = context.Background()

	var cfg *config.Config
	if configPath != "" {
		cfg, err = config.LoadFromPath(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	ctx.Cfg = cfg

	ctx.Logger, err = logging.InitLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx.SessionID = sessionID
	if ctx.SessionID == "" {
		ctx.SessionID = cfg.SessionID
	}
	if ctx.SessionID == "" {
		return fmt.Errorf("no session id: pass --session or set sessionID in the config")
	}

	ctx.Logger.Info("Connecting to database")
	ctx.Database, err = postgres.NewDB(ctx.Ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	ctx.Store = ctx.Database
	ctx.Logger.Debug("Database connected", zap.String("session_id", ctx.SessionID))

	return nil
}
