package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/moritz155/johanniter/pkg/core/model"
	"github.com/moritz155/johanniter/pkg/db"
)

// CreateSquadInput describes a new squad.
type CreateSquadInput struct {
	Name           string `validate:"required"`
	Qualification  string
	Type           string
	ServiceNumbers string
	Position       int
}

// CreateSquad puts a new unit into service. Squad names are unique within a
// session; a fresh access token is issued for the mobile path.
func CreateSquad(ctx context.Context, store db.Store, logger *zap.Logger, sessionID string, in CreateSquadInput) (*db.Squad, error) {
	if err := validate.Struct(in); err != nil {
		return nil, validationErr("squad name is required")
	}

	qualification := in.Qualification
	if qualification == "" {
		qualification = defaultQualification
	}
	squadType := in.Type
	if squadType == "" {
		squadType = model.SquadTypeTrupp
	}

	squad := &db.Squad{
		Name:           in.Name,
		Type:           squadType,
		Qualification:  qualification,
		CurrentStatus:  model.StatusEB,
		Position:       in.Position,
		ServiceNumbers: in.ServiceNumbers,
		SessionID:      sessionID,
		AccessToken:    uuid.New().String(),
	}

	err := store.InTx(ctx, func(tx db.Store) error {
		if _, err := tx.GetSquadByName(ctx, sessionID, in.Name); err == nil {
			return conflictErr("squad %q already exists", in.Name)
		} else if !errors.Is(err, db.ErrNotFound) {
			return err
		}

		if err := tx.InsertSquad(ctx, squad); err != nil {
			return fmt.Errorf("failed to insert squad: %w", err)
		}

		numbers := squad.ServiceNumbers
		if numbers == "" {
			numbers = "keine"
		}
		entry := &db.LogEntry{
			Action:    db.ActionSquadCreated,
			Details:   fmt.Sprintf(msgSquadCreated, squad.Name, squad.Qualification, numbers),
			SquadID:   squad.ID,
			SessionID: sessionID,
		}
		if err := tx.AppendLog(ctx, entry); err != nil {
			return fmt.Errorf("failed to append squad log: %w", err)
		}
		return nil
	})
	if err != nil {
		var e *Error
		if errors.As(err, &e) {
			return nil, e
		}
		return nil, storageErr(err, "squad not created")
	}

	logger.Info("Squad created",
		zap.Int64("squad_id", squad.ID),
		zap.String("name", squad.Name),
		zap.String("type", squad.Type))
	return squad, nil
}
