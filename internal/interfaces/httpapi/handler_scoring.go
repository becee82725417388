package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/episode"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/event"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/usecase"
)

type catalogEntryDTO struct {
	Kind   string `json:"kind"`
	Label  string `json:"label"`
	Points int    `json:"points"`
}

type episodeEventsRequest struct {
	AirDate string                     `json:"airDate" validate:"omitempty"`
	Events  map[string][]eventCountDTO `json:"events" validate:"required"`
}

type eventCountDTO struct {
	Kind  string `json:"kind" validate:"required"`
	Count int    `json:"count" validate:"required,min=1"`
}

type episodeLedgerDTO struct {
	Season    int                        `json:"season"`
	Episode   int                        `json:"episode"`
	AirDate   string                     `json:"airDate,omitempty"`
	Events    map[string][]eventCountDTO `json:"events"`
	UpdatedAt string                     `json:"updatedAt"`
}

type episodePointsDTO struct {
	Season  int            `json:"season"`
	Episode int            `json:"episode"`
	Points  map[string]int `json:"points"`
}

func (h *Handler) GetScoringCatalog(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetScoringCatalog")
	defer span.End()

	entries := h.scoringService.CatalogEntries()
	items := make([]catalogEntryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, catalogEntryDTO{
			Kind:   string(entry.Kind),
			Label:  entry.Label,
			Points: entry.Points,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

// PutEpisodeEvents replaces one episode's event ledger wholesale. Commissioner
// surface: replays are idempotent and corrections are full re-submissions.
func (h *Handler) PutEpisodeEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PutEpisodeEvents")
	defer span.End()

	episodeNum, err := strconv.Atoi(r.PathValue("episode"))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: episode must be an integer", usecase.ErrInvalidInput))
		return
	}

	var req episodeEventsRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	var airDate time.Time
	if req.AirDate != "" {
		airDate, err = time.Parse(time.RFC3339, req.AirDate)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: airDate must be RFC3339", usecase.ErrInvalidInput))
			return
		}
	}

	events := make(map[string][]event.Event, len(req.Events))
	for castawayID, items := range req.Events {
		converted := make([]event.Event, 0, len(items))
		for _, item := range items {
			converted = append(converted, event.Event{
				Kind:  event.Kind(item.Kind),
				Count: item.Count,
			})
		}
		events[castawayID] = converted
	}

	ledger, err := h.scoringService.SetEpisodeEvents(ctx, usecase.SetEpisodeEventsInput{
		Season:  h.seasonNum,
		Episode: episodeNum,
		AirDate: airDate,
		Events:  events,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "set episode events failed", "episode", episodeNum, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, ledgerToDTO(ledger))
}

func (h *Handler) GetEpisodePoints(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetEpisodePoints")
	defer span.End()

	episodeNum, err := strconv.Atoi(r.PathValue("episode"))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: episode must be an integer", usecase.ErrInvalidInput))
		return
	}

	scores, err := h.scoringService.EpisodeScores(ctx, h.seasonNum, episodeNum)
	if err != nil {
		h.logger.WarnContext(ctx, "get episode points failed", "episode", episodeNum, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, episodePointsDTO{
		Season:  h.seasonNum,
		Episode: episodeNum,
		Points:  scores,
	})
}

func ledgerToDTO(ledger episode.Ledger) episodeLedgerDTO {
	events := make(map[string][]eventCountDTO, len(ledger.Events))
	for castawayID, items := range ledger.Events {
		converted := make([]eventCountDTO, 0, len(items))
		for _, item := range items {
			converted = append(converted, eventCountDTO{
				Kind:  string(item.Kind),
				Count: item.Count,
			})
		}
		events[castawayID] = converted
	}

	airDate := ""
	if !ledger.AirDate.IsZero() {
		airDate = ledger.AirDate.UTC().Format(time.RFC3339)
	}

	return episodeLedgerDTO{
		Season:    ledger.Season,
		Episode:   ledger.Episode,
		AirDate:   airDate,
		Events:    events,
		UpdatedAt: ledger.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
