package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/platform/logging"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/usecase"
)

type Handler struct {
	seasonService      *usecase.SeasonService
	leagueService      *usecase.LeagueService
	rosterService      *usecase.RosterService
	scoringService     *usecase.ScoringService
	eliminationService *usecase.EliminationService
	recomputeService   *usecase.RecomputeService
	seasonNum          int
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	seasonService *usecase.SeasonService,
	leagueService *usecase.LeagueService,
	rosterService *usecase.RosterService,
	scoringService *usecase.ScoringService,
	eliminationService *usecase.EliminationService,
	recomputeService *usecase.RecomputeService,
	seasonNum int,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		seasonService:      seasonService,
		leagueService:      leagueService,
		rosterService:      rosterService,
		scoringService:     scoringService,
		eliminationService: eliminationService,
		recomputeService:   recomputeService,
		seasonNum:          seasonNum,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) decodeRequest(ctx context.Context, body io.Reader, out any) error {
	decoder := sonic.ConfigDefault.NewDecoder(body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, out)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
