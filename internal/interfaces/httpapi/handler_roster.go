package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/fantasy-rooms/internal/domain/player"
	"github.com/riskibarqy/fantasy-rooms/internal/domain/roster"
	"github.com/riskibarqy/fantasy-rooms/internal/usecase"
)

type rosterSelectionPayload struct {
	PlayerID      string  `json:"player_id" validate:"required"`
	TeamID        string  `json:"team_id" validate:"required"`
	Position      string  `json:"position" validate:"required"`
	Price         float64 `json:"price" validate:"required"`
	IsStarter     bool    `json:"is_starter"`
	IsCaptain     bool    `json:"is_captain"`
	IsViceCaptain bool    `json:"is_vice_captain"`
}

type validateRosterRequest struct {
	Players []rosterSelectionPayload `json:"players" validate:"required,min=1,dive"`
}

type validateRosterResponse struct {
	IsValid   bool     `json:"is_valid"`
	Errors    []string `json:"errors"`
	Warnings  []string `json:"warnings"`
	Formation string   `json:"formation,omitempty"`
}

// ValidateRoster checks a proposed squad against the room's roster rules and
// reports every violation at once.
func (h *Handler) ValidateRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ValidateRoster")
	defer span.End()

	var req validateRosterRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	selections := make([]roster.PlayerSelection, 0, len(req.Players))
	for _, item := range req.Players {
		selections = append(selections, roster.PlayerSelection{
			PlayerID:      item.PlayerID,
			TeamID:        item.TeamID,
			Position:      player.Position(item.Position),
			Price:         item.Price,
			IsStarter:     item.IsStarter,
			IsCaptain:     item.IsCaptain,
			IsViceCaptain: item.IsViceCaptain,
		})
	}

	report, err := h.rosterService.ValidateSelection(ctx, selections)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, validateRosterResponse{
		IsValid:   report.IsValid,
		Errors:    emptyIfNil(report.Errors),
		Warnings:  emptyIfNil(report.Warnings),
		Formation: report.Formation,
	})
}

type rosterConstraintsResponse struct {
	SquadSize         int               `json:"squad_size"`
	StarterSize       int               `json:"starter_size"`
	BudgetCap         float64           `json:"budget_cap"`
	MaxPlayersPerTeam int               `json:"max_players_per_team"`
	StarterBounds     map[string][2]int `json:"starter_bounds"`
}

// GetRosterConstraints echoes the active rule set so clients can validate
// locally before submitting.
func (h *Handler) GetRosterConstraints(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRosterConstraints")
	defer span.End()

	constraints := h.rosterService.Constraints()
	bounds := make(map[string][2]int, len(constraints.StarterBounds))
	for position, bound := range constraints.StarterBounds {
		bounds[string(position)] = [2]int{bound.Min, bound.Max}
	}

	writeSuccess(ctx, w, http.StatusOK, rosterConstraintsResponse{
		SquadSize:         constraints.SquadSize,
		StarterSize:       constraints.StarterSize,
		BudgetCap:         constraints.BudgetCap,
		MaxPlayersPerTeam: constraints.MaxPlayersPerTeam,
		StarterBounds:     bounds,
	})
}

func emptyIfNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
