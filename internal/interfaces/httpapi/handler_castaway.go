package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/castaway"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/usecase"
)

type castawayDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Season int    `json:"season"`
	Tribe  string `json:"tribe"`
}

func (h *Handler) ListCastaways(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCastaways")
	defer span.End()

	cast, err := h.rosterService.SeasonCast(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list castaways failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, castawaysToDTO(cast))
}

// ListAvailableCastaways filters the cast down to pickable members for a
// league's elimination scope.
func (h *Handler) ListAvailableCastaways(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListAvailableCastaways")
	defer span.End()

	leagueID := strings.TrimSpace(r.URL.Query().Get("league_id"))
	if leagueID == "" {
		writeError(ctx, w, fmt.Errorf("%w: league_id query parameter is required", usecase.ErrInvalidInput))
		return
	}
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))

	available, err := h.rosterService.AvailableCastaways(ctx, leagueID, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "list available castaways failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, castawaysToDTO(available))
}

func castawaysToDTO(cast []castaway.Castaway) []castawayDTO {
	items := make([]castawayDTO, 0, len(cast))
	for _, member := range cast {
		items = append(items, castawayDTO{
			ID:     member.ID,
			Name:   member.Name,
			Season: member.Season,
			Tribe:  member.Tribe,
		})
	}
	return items
}
