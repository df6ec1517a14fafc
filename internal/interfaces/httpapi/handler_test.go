package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/drafthoops/nba-draft-tracker/internal/domain/games"
	"github.com/drafthoops/nba-draft-tracker/internal/domain/team"
	"github.com/drafthoops/nba-draft-tracker/internal/infrastructure/repository/memory"
	"github.com/drafthoops/nba-draft-tracker/internal/platform/cache"
	"github.com/drafthoops/nba-draft-tracker/internal/scheduler"
	"github.com/drafthoops/nba-draft-tracker/internal/usecase"
)

const testJobToken = "test-job-token"

type stubRecords struct {
	set team.RecordSet
	ok  bool
}

func (s *stubRecords) Snapshot(_ context.Context) (team.RecordSet, bool) {
	return s.set, s.ok
}

func (s *stubRecords) Save(_ context.Context, set team.RecordSet, _ []games.Scoreboard) error {
	s.set = set
	s.ok = true
	return nil
}

func (s *stubRecords) Scoreboards(_ context.Context) []games.Scoreboard {
	return []games.Scoreboard{{Date: "2026-01-09"}}
}

type stubReadiness struct {
	status scheduler.Status
}

func (s *stubReadiness) Status() scheduler.Status { return s.status }

func testRecords() team.RecordSet {
	records := make(map[string]team.Record, len(team.Franchises))
	for idx, name := range team.Franchises {
		records[name] = team.Record{
			Name:          name,
			Wins:          idx + 1,
			Losses:        30 - idx,
			PointsFor:     111,
			PointsAgainst: 109,
		}
	}
	return team.RecordSet{
		FetchedAt: time.Date(2026, 1, 9, 6, 0, 0, 0, time.UTC),
		Records:   records,
	}
}

func newTestRouter(t *testing.T, haveData bool, ready bool) http.Handler {
	t.Helper()

	records := &stubRecords{set: testRecords(), ok: haveData}
	cacheStore := cache.NewStore(time.Minute)
	rosterRepo := memory.NewRosterRepository(memory.SeedAssignment())
	historyRepo := memory.NewHistoryRepository()

	standingsService := usecase.NewStandingsService(rosterRepo, records, cacheStore)
	historyService := usecase.NewHistoryService(historyRepo, rosterRepo, nil, cacheStore, nil, 2)
	gamesService := usecase.NewGamesService(records)

	status := scheduler.Status{}
	if ready {
		status.LastSuccess = time.Now()
	}

	handler := NewHandler(standingsService, historyService, gamesService, nil, &stubReadiness{status: status}, nil)
	return NewRouter(handler, nil, []string{"*"}, testJobToken)
}

func decodeEnvelope(t *testing.T, body []byte) googleResponseEnvelope {
	t.Helper()
	var envelope googleResponseEnvelope
	if err := sonic.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return envelope
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t, true, true)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	envelope := decodeEnvelope(t, rec.Body.Bytes())
	if envelope.APIVersion != googleAPIVersion {
		t.Fatalf("unexpected apiVersion %q", envelope.APIVersion)
	}
}

func TestReadyz(t *testing.T) {
	cases := []struct {
		name  string
		ready bool
		want  int
	}{
		{"ready", true, http.StatusOK},
		{"not ready", false, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(t, true, tc.ready)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			if rec.Code != tc.want {
				t.Fatalf("unexpected status %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestGetStandings(t *testing.T) {
	router := newTestRouter(t, true, true)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/standings", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		APIVersion string       `json:"apiVersion"`
		Data       standingsDTO `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(envelope.Data.Owners) != 6 {
		t.Fatalf("expected 6 owners, got %d", len(envelope.Data.Owners))
	}
	if envelope.Data.Owners[0].Rank != 1 {
		t.Fatalf("first owner must be rank 1: %+v", envelope.Data.Owners[0])
	}
	if envelope.Data.FetchedAt == "" {
		t.Fatalf("fetchedAt must be set")
	}
}

func TestGetStandingsWithoutData(t *testing.T) {
	router := newTestRouter(t, false, true)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/standings", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	envelope := decodeEnvelope(t, rec.Body.Bytes())
	if envelope.Error == nil || envelope.Error.Status != "UNAVAILABLE" {
		t.Fatalf("unexpected error body: %+v", envelope.Error)
	}
}

func TestListTeams(t *testing.T) {
	router := newTestRouter(t, true, true)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/teams", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}

	var envelope struct {
		Data []teamCatalogDTO `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(envelope.Data) != 30 {
		t.Fatalf("expected 30 franchises, got %d", len(envelope.Data))
	}
}

func TestSandboxStandings(t *testing.T) {
	router := newTestRouter(t, true, true)

	proposal := memory.SeedAssignment()
	proposal["JJ"] = []string{"Magic", "Spurs", "Pistons", "Pelicans"}
	proposal["Nate"] = []string{"Thunder", "Hawks", "Grizzlies", "Suns"}
	body, err := sonic.Marshal(map[string]any{"assignment": proposal})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/sandbox/standings", strings.NewReader(string(body))))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSandboxStandingsRejectsBadPayload(t *testing.T) {
	router := newTestRouter(t, true, true)

	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{`},
		{"unknown field", `{"assignment": {}, "extra": true}`},
		{"missing assignment", `{}`},
		{"team owned twice", `{"assignment": {"JJ": ["Thunder","Spurs","Pistons","Pelicans"], "Nate": ["Thunder","Hawks","Grizzlies","Suns"], "Chris": ["Warriors","Pacers","Mavericks","Hornets"], "Adam": ["Nuggets","Celtics","Heat","Kings"], "Duke": ["Knicks","Clippers","Raptors","Bulls"], "Nick": ["Rockets","Timberwolves","76ers","Trail Blazers"]}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/sandbox/standings", strings.NewReader(tc.body)))

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestStandingsHistoryEndpoint(t *testing.T) {
	router := newTestRouter(t, true, true)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/standings/history", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
}

func TestListGamesEndpoint(t *testing.T) {
	router := newTestRouter(t, true, true)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/games", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}

	var envelope struct {
		Data []scoreboardDTO `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(envelope.Data) != 1 || envelope.Data[0].Date != "2026-01-09" {
		t.Fatalf("unexpected games payload: %+v", envelope.Data)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/games?day=tomorrow", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown day must be rejected, got %d", rec.Code)
	}
}

func TestInternalJobRequiresToken(t *testing.T) {
	router := newTestRouter(t, true, true)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/refresh", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token must be rejected, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/refresh", nil)
	req.Header.Set("X-Internal-Job-Token", "wrong")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong token must be rejected, got %d", rec.Code)
	}

	// Correct token reaches the handler; refresh service is nil here so
	// the handler answers 503 rather than 401.
	req = httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/refresh", nil)
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 from unconfigured refresh, got %d", rec.Code)
	}
}
