package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/elimination"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/event"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/roster"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/season"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/user"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/infrastructure/repository/memory"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/platform/id"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/usecase"
)

const (
	testAdminToken = "admin-secret"
	testUserToken  = "owner-token"
)

type envelope struct {
	APIVersion string          `json:"apiVersion"`
	Data       json.RawMessage `json:"data"`
	Error      *struct {
		Code   int    `json:"code"`
		Status string `json:"status"`
	} `json:"error"`
}

// newTestRouter wires the full stack over memory repositories with the
// premiere one day out, so the draft window is still open.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	premiere := time.Now().Add(24 * time.Hour)
	clock := season.NewClock(premiere, premiere.Weekday(), premiere.Hour(), time.UTC)
	rules := roster.DefaultRules()
	catalog := event.DefaultCatalog()

	leagueRepo := memory.NewLeagueRepository(memory.SeedLeagues()...)
	castawayRepo := memory.NewCastawayRepository(memory.SeedCastaways()...)
	rosterRepo := memory.NewRosterRepository()
	episodeRepo := memory.NewEpisodeRepository()
	eliminationRepo := memory.NewEliminationRepository()

	seasonService := usecase.NewSeasonService(season.Season{
		Number:       memory.SeedSeasonNumber,
		Name:         "Season 50",
		PremiereDate: premiere,
	}, clock, rules)
	leagueService := usecase.NewLeagueService(leagueRepo, id.NewRandomGenerator(), memory.SeedSeasonNumber, nil)
	rosterService := usecase.NewRosterService(
		rosterRepo, leagueRepo, castawayRepo, eliminationRepo,
		rules, clock, elimination.ScopeModeGlobal, memory.SeedSeasonNumber, nil,
	)
	recomputeService := usecase.NewRecomputeService(leagueRepo, rosterRepo, episodeRepo, catalog, 2, nil)
	scoringService := usecase.NewScoringService(episodeRepo, castawayRepo, catalog, nil)
	scoringService.SetRecomputer(recomputeService)
	eliminationService := usecase.NewEliminationService(
		eliminationRepo, castawayRepo, leagueRepo, rosterRepo,
		elimination.ScopeModeGlobal, memory.SeedSeasonNumber, nil,
	)
	eliminationService.SetRecomputer(recomputeService)

	handler := NewHandler(
		seasonService, leagueService, rosterService,
		scoringService, eliminationService, recomputeService,
		memory.SeedSeasonNumber, nil,
	)
	verifier := staticVerifier{
		token:     testUserToken,
		principal: user.Principal{UserID: "user-owner", DisplayName: "Commissioner"},
	}

	return NewRouter(handler, verifier, nil, []string{"*"}, testAdminToken)
}

func doRequest(t *testing.T, router http.Handler, method, path, body string, headers map[string]string) (int, envelope) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	var out envelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal envelope from %s %s: %v (body %q)", method, path, err, rec.Body.String())
	}
	return rec.Code, out
}

func authHeaders() map[string]string {
	return map[string]string{"Authorization": "Bearer " + testUserToken}
}

func adminHeaders() map[string]string {
	return map[string]string{"X-Internal-Token": testAdminToken}
}

func TestRouter_PublicSurface(t *testing.T) {
	router := newTestRouter(t)

	code, out := doRequest(t, router, http.MethodGet, "/healthz", "", nil)
	if code != http.StatusOK || out.Error != nil {
		t.Fatalf("healthz: code=%d error=%+v", code, out.Error)
	}

	code, out = doRequest(t, router, http.MethodGet, "/v1/season/week", "", nil)
	if code != http.StatusOK {
		t.Fatalf("season week: code=%d", code)
	}
	var info seasonInfoDTO
	if err := sonic.Unmarshal(out.Data, &info); err != nil {
		t.Fatalf("unmarshal season info: %v", err)
	}
	if info.CurrentWeek != 0 || info.RosterSize != 5 || info.NetChangeCap != 1 {
		t.Fatalf("season info = %+v", info)
	}

	code, out = doRequest(t, router, http.MethodGet, "/v1/castaways", "", nil)
	if code != http.StatusOK {
		t.Fatalf("list castaways: code=%d", code)
	}
	var cast []castawayDTO
	if err := sonic.Unmarshal(out.Data, &cast); err != nil {
		t.Fatalf("unmarshal castaways: %v", err)
	}
	if len(cast) != 20 {
		t.Fatalf("castaways = %d, want 20", len(cast))
	}

	code, out = doRequest(t, router, http.MethodGet, "/v1/scoring/catalog", "", nil)
	if code != http.StatusOK {
		t.Fatalf("scoring catalog: code=%d", code)
	}
	var entries []catalogEntryDTO
	if err := sonic.Unmarshal(out.Data, &entries); err != nil {
		t.Fatalf("unmarshal catalog: %v", err)
	}
	if len(entries) != 11 {
		t.Fatalf("catalog entries = %d, want 11", len(entries))
	}
}

func TestRouter_DraftRequiresAuth(t *testing.T) {
	router := newTestRouter(t)

	body := `{"castawayIds":["castaway-01","castaway-02","castaway-03","castaway-04","castaway-05"]}`
	code, out := doRequest(t, router, http.MethodPost, "/v1/leagues/"+memory.LeagueIDFounders+"/roster/draft", body, nil)
	if code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated draft: code=%d", code)
	}
	if out.Error == nil || out.Error.Status != "UNAUTHENTICATED" {
		t.Fatalf("error = %+v", out.Error)
	}
}

func TestRouter_DraftAndReadRoster(t *testing.T) {
	router := newTestRouter(t)

	body := `{"castawayIds":["castaway-01","castaway-02","castaway-03","castaway-04","castaway-05"]}`
	code, out := doRequest(t, router, http.MethodPost, "/v1/leagues/"+memory.LeagueIDFounders+"/roster/draft", body, authHeaders())
	if code != http.StatusCreated {
		t.Fatalf("draft: code=%d error=%+v", code, out.Error)
	}

	code, out = doRequest(t, router, http.MethodGet, "/v1/leagues/"+memory.LeagueIDFounders+"/roster", "", authHeaders())
	if code != http.StatusOK {
		t.Fatalf("get roster: code=%d", code)
	}
	var timeline rosterDTO
	if err := sonic.Unmarshal(out.Data, &timeline); err != nil {
		t.Fatalf("unmarshal roster: %v", err)
	}
	if len(timeline.Entries) != 5 || timeline.Version != 1 {
		t.Fatalf("roster = %+v", timeline)
	}
}

func TestRouter_AdminEpisodeIngestAndPoints(t *testing.T) {
	router := newTestRouter(t)

	body := `{"events":{"castaway-01":[{"kind":"immunity_win","count":1},{"kind":"survived_episode","count":1}]}}`
	code, out := doRequest(t, router, http.MethodPut, "/v1/internal/episodes/1/events", body, adminHeaders())
	if code != http.StatusOK {
		t.Fatalf("put episode events: code=%d error=%+v", code, out.Error)
	}

	code, out = doRequest(t, router, http.MethodGet, "/v1/internal/episodes/1/points", "", adminHeaders())
	if code != http.StatusOK {
		t.Fatalf("get episode points: code=%d", code)
	}
	var points episodePointsDTO
	if err := sonic.Unmarshal(out.Data, &points); err != nil {
		t.Fatalf("unmarshal points: %v", err)
	}
	if points.Points["castaway-01"] != 6 {
		t.Fatalf("castaway-01 points = %d, want 6", points.Points["castaway-01"])
	}

	// Admin surface is closed without the internal token.
	code, _ = doRequest(t, router, http.MethodPut, "/v1/internal/episodes/1/events", body, nil)
	if code != http.StatusUnauthorized {
		t.Fatalf("tokenless ingest: code=%d", code)
	}
}

func TestRouter_EliminationLifecycle(t *testing.T) {
	router := newTestRouter(t)

	code, out := doRequest(t, router, http.MethodPost, "/v1/internal/eliminations",
		`{"castawayId":"castaway-10","week":2}`, adminHeaders())
	if code != http.StatusOK {
		t.Fatalf("mark elimination: code=%d error=%+v", code, out.Error)
	}

	code, out = doRequest(t, router, http.MethodGet, "/v1/eliminations", "", nil)
	if code != http.StatusOK {
		t.Fatalf("list eliminations: code=%d", code)
	}
	var records []eliminationDTO
	if err := sonic.Unmarshal(out.Data, &records); err != nil {
		t.Fatalf("unmarshal eliminations: %v", err)
	}
	if len(records) != 1 || records[0].CastawayID != "castaway-10" {
		t.Fatalf("records = %+v", records)
	}

	code, out = doRequest(t, router, http.MethodGet, "/v1/castaways/available?league_id="+memory.LeagueIDFounders, "", nil)
	if code != http.StatusOK {
		t.Fatalf("available castaways: code=%d", code)
	}
	var available []castawayDTO
	if err := sonic.Unmarshal(out.Data, &available); err != nil {
		t.Fatalf("unmarshal available: %v", err)
	}
	if len(available) != 19 {
		t.Fatalf("available = %d, want 19", len(available))
	}

	code, out = doRequest(t, router, http.MethodDelete, "/v1/internal/eliminations",
		`{"castawayId":"castaway-10"}`, adminHeaders())
	if code != http.StatusOK {
		t.Fatalf("unmark elimination: code=%d error=%+v", code, out.Error)
	}

	code, out = doRequest(t, router, http.MethodGet, "/v1/eliminations", "", nil)
	if code != http.StatusOK {
		t.Fatalf("list after unmark: code=%d", code)
	}
	records = nil
	if err := sonic.Unmarshal(out.Data, &records); err != nil {
		t.Fatalf("unmarshal eliminations: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("records after unmark = %+v", records)
	}
}
