package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/fantasy-rooms/internal/usecase"
)

type settleGameweekRequest struct {
	RoomID           string `json:"room_id" validate:"omitempty,max=100"`
	ForceRecalculate bool   `json:"force_recalculate"`
}

// SettleGameweek triggers one settlement batch for the gameweek in the path.
// The body is optional; an empty body settles every room without forcing.
func (h *Handler) SettleGameweek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SettleGameweek")
	defer span.End()

	gameweek, err := strconv.Atoi(r.PathValue("gameweek"))
	if err != nil || gameweek <= 0 {
		writeError(ctx, w, fmt.Errorf("%w: gameweek must be a positive integer", usecase.ErrInvalidInput))
		return
	}

	var req settleGameweekRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.settlementService.Settle(ctx, usecase.SettleInput{
		Gameweek:         gameweek,
		RoomID:           req.RoomID,
		ForceRecalculate: req.ForceRecalculate,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "gameweek settlement failed",
			"gameweek", gameweek, "room_id", req.RoomID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
