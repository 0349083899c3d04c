package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/moritz155/johanniter/internal/config"
	"github.com/moritz155/johanniter/pkg/db"
	"github.com/moritz155/johanniter/pkg/postgres"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg      *config.Config
	Database *postgres.DB
	Store    db.Store
	Logger   *zap.Logger
	Ctx      context.Context
	// SessionID is the board session commands operate on, from --session
	// or the config file.
	SessionID string
}
