package httpapi

import (
	"net/http"
	"time"
)

type seasonInfoDTO struct {
	Season       int    `json:"season"`
	Name         string `json:"name"`
	PremiereDate string `json:"premiereDate"`
	CurrentWeek  int    `json:"currentWeek"`
	NextLockTime string `json:"nextLockTime"`
	RosterSize   int    `json:"rosterSize"`
	NetChangeCap int    `json:"netChangeCap"`
}

// SeasonWeek exposes the derived fantasy week so clients never compute lock
// boundaries themselves.
func (h *Handler) SeasonWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SeasonWeek")
	defer span.End()

	info := h.seasonService.Info(ctx)
	writeSuccess(ctx, w, http.StatusOK, seasonInfoDTO{
		Season:       info.Season,
		Name:         info.Name,
		PremiereDate: info.PremiereDate.Format(time.RFC3339),
		CurrentWeek:  info.CurrentWeek,
		NextLockTime: info.NextLockTime.Format(time.RFC3339),
		RosterSize:   info.RosterSize,
		NetChangeCap: info.NetChangeCap,
	})
}
