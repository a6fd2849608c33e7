package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/fantasy-rooms/internal/domain/roster"
	"github.com/riskibarqy/fantasy-rooms/internal/platform/logging"
)

// RosterValidationReport is the validator verdict plus the derived starting
// formation, which is only meaningful when the selection is legal.
type RosterValidationReport struct {
	roster.ValidationResult
	Formation string `json:"formation,omitempty"`
}

// RosterService checks prospective squad selections against the room's
// roster rules before submission.
type RosterService struct {
	constraints roster.Constraints
	logger      *logging.Logger
}

func NewRosterService(constraints roster.Constraints, logger *logging.Logger) *RosterService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RosterService{constraints: constraints, logger: logger}
}

// ValidateSelection runs every rule over the selection and reports all
// violations at once, so the caller can surface the complete fix list.
func (s *RosterService) ValidateSelection(ctx context.Context, selections []roster.PlayerSelection) (RosterValidationReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.ValidateSelection")
	defer span.End()

	if len(selections) == 0 {
		return RosterValidationReport{}, fmt.Errorf("%w: selection is empty", ErrInvalidInput)
	}

	result := roster.Validate(selections, s.constraints)
	report := RosterValidationReport{ValidationResult: result}
	if result.IsValid {
		report.Formation = roster.FormationLabel(selections)
	}

	s.logger.DebugContext(ctx, "roster selection validated",
		"players", len(selections),
		"valid", result.IsValid,
		"errors", len(result.Errors),
		"warnings", len(result.Warnings),
	)
	return report, nil
}

// Constraints exposes the active rule set, e.g. for echoing limits back to
// clients.
func (s *RosterService) Constraints() roster.Constraints {
	return s.constraints
}
