package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/usecase"
)

type markEliminationRequest struct {
	LeagueID   string `json:"leagueId" validate:"omitempty"`
	CastawayID string `json:"castawayId" validate:"required"`
	Week       int    `json:"week" validate:"required,min=1"`
}

type unmarkEliminationRequest struct {
	LeagueID   string `json:"leagueId" validate:"omitempty"`
	CastawayID string `json:"castawayId" validate:"required"`
}

type recomputeRequest struct {
	LeagueID string `json:"leagueId" validate:"omitempty"`
}

type eliminationDTO struct {
	LeagueID     string `json:"leagueId,omitempty"`
	Season       int    `json:"season"`
	CastawayID   string `json:"castawayId"`
	Week         int    `json:"week"`
	EliminatedAt string `json:"eliminatedAt"`
}

func (h *Handler) ListEliminations(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListEliminations")
	defer span.End()

	leagueID := strings.TrimSpace(r.URL.Query().Get("league_id"))
	records, err := h.eliminationService.ListEliminated(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list eliminations failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]eliminationDTO, 0, len(records))
	for _, record := range records {
		items = append(items, eliminationDTO{
			LeagueID:     record.Scope.LeagueID,
			Season:       record.Scope.Season,
			CastawayID:   record.CastawayID,
			Week:         record.Week,
			EliminatedAt: record.EliminatedAt.UTC().Format(time.RFC3339),
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

// MarkElimination records a castaway as voted out and cascades the change
// onto every roster holding them.
func (h *Handler) MarkElimination(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MarkElimination")
	defer span.End()

	var req markEliminationRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	err := h.eliminationService.MarkEliminated(ctx, usecase.MarkEliminatedInput{
		LeagueID:   req.LeagueID,
		CastawayID: req.CastawayID,
		Week:       req.Week,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "mark elimination failed", "castaway_id", req.CastawayID, "week", req.Week, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "eliminated"})
}

func (h *Handler) UnmarkElimination(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UnmarkElimination")
	defer span.End()

	var req unmarkEliminationRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	err := h.eliminationService.UnmarkEliminated(ctx, usecase.UnmarkEliminatedInput{
		LeagueID:   req.LeagueID,
		CastawayID: req.CastawayID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "unmark elimination failed", "castaway_id", req.CastawayID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "restored"})
}

// RunRecompute forces an attribution sweep, league-scoped when a leagueId is
// provided.
func (h *Handler) RunRecompute(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRecompute")
	defer span.End()

	var req recomputeRequest
	if r.ContentLength > 0 {
		if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
			writeError(ctx, w, err)
			return
		}
	}

	var err error
	if strings.TrimSpace(req.LeagueID) != "" {
		err = h.recomputeService.RecomputeLeague(ctx, req.LeagueID)
	} else {
		err = h.recomputeService.RecomputeAll(ctx)
	}
	if err != nil {
		h.logger.WarnContext(ctx, "forced recompute failed", "league_id", req.LeagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "recomputed"})
}
