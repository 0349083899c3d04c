package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/moritz155/johanniter/pkg/core/model"
	"github.com/moritz155/johanniter/pkg/db"
)

const defaultQualification = "San"

// SquadSetup describes one squad of the initial roster.
type SquadSetup struct {
	Name           string `validate:"required"`
	Qualification  string
	Type           string
	ServiceNumbers string
}

// StartShiftInput configures a new shift.
type StartShiftInput struct {
	Location  string `validate:"required"`
	Address   string
	StartTime *time.Time
	// PasswordHash is stored opaque; hashing is the caller's concern.
	PasswordHash string
	// Options replaces the session's pick lists, keyed by category.
	Options map[string][]string
	// Squads, when non-nil, resets the session: all squads, missions, link
	// rows and log entries are purged and this roster is created fresh.
	Squads []SquadSetup
}

// StartShift opens a new shift for the session. Prior shifts are
// deactivated, never deleted; at most one shift per session is active
// afterwards.
func StartShift(ctx context.Context, store db.Store, logger *zap.Logger, sessionID string, in StartShiftInput) (*db.Shift, error) {
	if err := validate.Struct(in); err != nil {
		return nil, validationErr("shift location is required")
	}

	shift := &db.Shift{
		Location:     in.Location,
		Address:      in.Address,
		IsActive:     true,
		SessionID:    sessionID,
		PasswordHash: in.PasswordHash,
	}
	if in.StartTime != nil {
		shift.StartTime = *in.StartTime
	} else {
		shift.StartTime = nowUTC()
	}

	err := store.InTx(ctx, func(tx db.Store) error {
		if err := tx.DeactivateShifts(ctx, sessionID); err != nil {
			return fmt.Errorf("failed to deactivate prior shifts: %w", err)
		}
		if err := tx.InsertShift(ctx, shift); err != nil {
			return fmt.Errorf("failed to insert shift: %w", err)
		}

		if err := replaceOptions(ctx, tx, sessionID, in.Options); err != nil {
			return err
		}

		if in.Squads != nil {
			if err := tx.PurgeSession(ctx, sessionID); err != nil {
				return fmt.Errorf("failed to reset session: %w", err)
			}
			for i, setup := range in.Squads {
				qualification := setup.Qualification
				if qualification == "" {
					qualification = defaultQualification
				}
				squadType := setup.Type
				if squadType == "" {
					squadType = model.SquadTypeTrupp
				}
				squad := &db.Squad{
					Name:           setup.Name,
					Type:           squadType,
					Qualification:  qualification,
					CurrentStatus:  model.StatusEB,
					Position:       i,
					ServiceNumbers: setup.ServiceNumbers,
					SessionID:      sessionID,
					AccessToken:    uuid.New().String(),
				}
				if err := tx.InsertSquad(ctx, squad); err != nil {
					return fmt.Errorf("failed to insert squad %q: %w", setup.Name, err)
				}
			}
		}

		entry := &db.LogEntry{
			Action:    db.ActionConfig,
			Details:   fmt.Sprintf(msgShiftStarted, shift.Location),
			SessionID: sessionID,
		}
		if err := tx.AppendLog(ctx, entry); err != nil {
			return fmt.Errorf("failed to append shift log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, storageErr(err, "shift not started")
	}

	logger.Info("Shift started",
		zap.String("session_id", sessionID),
		zap.String("location", shift.Location),
		zap.Int("squads", len(in.Squads)))
	return shift, nil
}

func replaceOptions(ctx context.Context, store db.Store, sessionID string, options map[string][]string) error {
	if err := store.DeleteOptions(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to clear options: %w", err)
	}
	for _, category := range []string{"location", "entity", "reason"} {
		for _, value := range options[category] {
			option := &db.PredefinedOption{Category: category, Value: value, SessionID: sessionID}
			if err := store.InsertOption(ctx, option); err != nil {
				return fmt.Errorf("failed to insert option: %w", err)
			}
		}
	}
	return nil
}
