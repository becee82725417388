package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/roster"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/usecase"
)

type draftRosterRequest struct {
	CastawayIDs []string `json:"castawayIds" validate:"required,min=1,dive,required"`
}

type rosterChangeRequest struct {
	DropCastawayID string `json:"dropCastawayId" validate:"required_without=AddCastawayID"`
	AddCastawayID  string `json:"addCastawayId" validate:"required_without=DropCastawayID"`
}

type rosterDTO struct {
	LeagueID    string           `json:"leagueId"`
	UserID      string           `json:"userId"`
	Entries     []rosterEntryDTO `json:"entries"`
	TotalPoints int              `json:"totalPoints"`
	Version     int64            `json:"version"`
	UpdatedAt   string           `json:"updatedAt"`
}

type rosterEntryDTO struct {
	CastawayID  string `json:"castawayId"`
	Status      string `json:"status"`
	AddedWeek   int    `json:"addedWeek"`
	DroppedWeek *int   `json:"droppedWeek,omitempty"`
	Points      int    `json:"points"`
}

type rosterSnapshotDTO struct {
	Week    int              `json:"week"`
	Entries []rosterEntryDTO `json:"entries"`
}

func (h *Handler) DraftRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DraftRoster")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req draftRosterRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	leagueID := r.PathValue("leagueID")
	timeline, err := h.rosterService.DraftRoster(ctx, usecase.DraftRosterInput{
		UserID:      principal.UserID,
		LeagueID:    leagueID,
		CastawayIDs: req.CastawayIDs,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "draft roster failed", "user_id", principal.UserID, "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, rosterToDTO(timeline))
}

func (h *Handler) GetRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRoster")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	leagueID := r.PathValue("leagueID")
	timeline, err := h.rosterService.CurrentRoster(ctx, principal.UserID, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "get roster failed", "user_id", principal.UserID, "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rosterToDTO(timeline))
}

// ApplyRosterChange handles one add/drop transaction at the current week.
func (h *Handler) ApplyRosterChange(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApplyRosterChange")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req rosterChangeRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	leagueID := r.PathValue("leagueID")
	timeline, err := h.rosterService.AddDrop(ctx, usecase.AddDropInput{
		UserID:         principal.UserID,
		LeagueID:       leagueID,
		DropCastawayID: req.DropCastawayID,
		AddCastawayID:  req.AddCastawayID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "roster change failed", "user_id", principal.UserID, "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rosterToDTO(timeline))
}

func (h *Handler) ResetRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResetRoster")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	leagueID := r.PathValue("leagueID")
	timeline, err := h.rosterService.ResetToPreviousWeek(ctx, principal.UserID, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "roster reset failed", "user_id", principal.UserID, "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rosterToDTO(timeline))
}

func (h *Handler) GetRosterWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRosterWeek")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	week, err := strconv.Atoi(r.PathValue("week"))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: week must be an integer", usecase.ErrInvalidInput))
		return
	}

	leagueID := r.PathValue("leagueID")
	entries, err := h.rosterService.SnapshotForWeek(ctx, principal.UserID, leagueID, week)
	if err != nil {
		h.logger.WarnContext(ctx, "get roster snapshot failed", "user_id", principal.UserID, "league_id", leagueID, "week", week, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rosterSnapshotDTO{
		Week:    week,
		Entries: entriesToDTO(entries),
	})
}

func rosterToDTO(v roster.Timeline) rosterDTO {
	total := 0
	for _, entry := range v.Entries {
		total += entry.Points
	}

	return rosterDTO{
		LeagueID:    v.LeagueID,
		UserID:      v.UserID,
		Entries:     entriesToDTO(v.Entries),
		TotalPoints: total,
		Version:     v.Version,
		UpdatedAt:   v.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func entriesToDTO(entries []roster.Entry) []rosterEntryDTO {
	items := make([]rosterEntryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, rosterEntryDTO{
			CastawayID:  entry.CastawayID,
			Status:      string(entry.Status),
			AddedWeek:   entry.AddedWeek,
			DroppedWeek: entry.DroppedWeek,
			Points:      entry.Points,
		})
	}
	return items
}
