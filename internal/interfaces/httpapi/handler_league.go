package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/league"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/usecase"
)

type createLeagueRequest struct {
	Name       string `json:"name" validate:"required,max=100"`
	TribeColor string `json:"tribeColor" validate:"omitempty,max=32"`
	MaxPlayers int    `json:"maxPlayers" validate:"omitempty,min=2,max=50"`
}

type joinLeagueRequest struct {
	JoinCode   string `json:"joinCode" validate:"required,min=4,max=12"`
	TribeColor string `json:"tribeColor" validate:"omitempty,max=32"`
}

type leagueDTO struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Season     int               `json:"season"`
	OwnerID    string            `json:"ownerId"`
	JoinCode   string            `json:"joinCode"`
	MaxPlayers int               `json:"maxPlayers"`
	Members    []leagueMemberDTO `json:"members"`
	Status     string            `json:"status"`
	CreatedAt  string            `json:"createdAt"`
}

type leagueMemberDTO struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	TribeColor  string `json:"tribeColor,omitempty"`
	Points      int    `json:"points"`
	JoinedAt    string `json:"joinedAt"`
}

type standingDTO struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Points      int    `json:"points"`
}

func (h *Handler) CreateLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateLeague")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req createLeagueRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.leagueService.Create(ctx, usecase.CreateLeagueInput{
		OwnerID:          principal.UserID,
		OwnerDisplayName: principal.DisplayName,
		OwnerTribeColor:  req.TribeColor,
		Name:             req.Name,
		MaxPlayers:       req.MaxPlayers,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create league failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, leagueToDTO(created))
}

func (h *Handler) JoinLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.JoinLeague")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req joinLeagueRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	joined, err := h.leagueService.Join(ctx, usecase.JoinLeagueInput{
		UserID:      principal.UserID,
		DisplayName: principal.DisplayName,
		TribeColor:  req.TribeColor,
		JoinCode:    req.JoinCode,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "join league failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leagueToDTO(joined))
}

func (h *Handler) GetLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeague")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	item, err := h.leagueService.Get(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "get league failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leagueToDTO(item))
}

func (h *Handler) ListLeagueStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagueStandings")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	standings, err := h.leagueService.Standings(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list standings failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]standingDTO, 0, len(standings))
	for _, row := range standings {
		items = append(items, standingDTO{
			Rank:        row.Rank,
			UserID:      row.UserID,
			DisplayName: row.DisplayName,
			Points:      row.Points,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func leagueToDTO(v league.League) leagueDTO {
	members := make([]leagueMemberDTO, 0, len(v.Members))
	for _, m := range v.Members {
		members = append(members, leagueMemberDTO{
			UserID:      m.UserID,
			DisplayName: m.DisplayName,
			TribeColor:  m.TribeColor,
			Points:      m.Points,
			JoinedAt:    m.JoinedAt.UTC().Format(time.RFC3339),
		})
	}

	return leagueDTO{
		ID:         v.ID,
		Name:       v.Name,
		Season:     v.Season,
		OwnerID:    v.OwnerID,
		JoinCode:   v.JoinCode,
		MaxPlayers: v.MaxPlayers,
		Members:    members,
		Status:     string(v.Status),
		CreatedAt:  v.CreatedAt.UTC().Format(time.RFC3339),
	}
}
