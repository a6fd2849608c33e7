package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/fantasy-rooms/internal/domain/roster"
	"github.com/riskibarqy/fantasy-rooms/internal/infrastructure/repository/memory"
	idgen "github.com/riskibarqy/fantasy-rooms/internal/platform/id"
	"github.com/riskibarqy/fantasy-rooms/internal/platform/logging"
	"github.com/riskibarqy/fantasy-rooms/internal/usecase"
)

const testJobToken = "test-job-token"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	matchRepo := memory.NewMatchRepository(memory.SeedMatches(), memory.SeedEvents())
	rosterRepo := memory.NewRosterRepository(memory.SeedRosters())
	statsSource := memory.NewStatsSource(memory.SeedMinutes())

	settlementService := usecase.NewSettlementService(
		matchRepo, matchRepo, rosterRepo, statsSource,
		idgen.NewRandomGenerator(), logging.NewNop(),
	)
	rosterService := usecase.NewRosterService(roster.DefaultConstraints(), logging.NewNop())

	handler := NewHandler(settlementService, rosterService, logging.NewNop())
	return NewRouter(handler, logging.NewNop(), []string{"*"}, testJobToken)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	return body
}

func TestRouter_Healthz(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestRouter_SettleGameweek(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/gameweeks/1/settlement",
		strings.NewReader(`{"room_id":"room-liga-1-friends"}`))
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeEnvelope(t, rec)
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %v", body)
	}
	if got, _ := data["rosters_updated"].(float64); got != 1 {
		t.Fatalf("unexpected rosters_updated: got=%v want=1", data["rosters_updated"])
	}
	if got, _ := data["total_points_calculated"].(float64); got != 65 {
		t.Fatalf("unexpected total_points_calculated: got=%v want=65", data["total_points_calculated"])
	}
}

func TestRouter_SettleGameweek_RequiresToken(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/gameweeks/1/settlement", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRouter_SettleGameweek_BadGameweek(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/gameweeks/zero/settlement", nil)
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestRouter_SettleGameweek_NoFinishedMatchesConflict(t *testing.T) {
	router := newTestRouter(t)

	// Gameweek 9 has no finished matches in the seed data.
	req := httptest.NewRequest(http.MethodPost, "/v1/internal/gameweeks/9/settlement", nil)
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	errorObj, _ := body["error"].(map[string]any)
	if got, _ := errorObj["status"].(string); got != "FAILED_PRECONDITION" {
		t.Fatalf("unexpected error status: %v", errorObj["status"])
	}
}

func TestRouter_ValidateRoster(t *testing.T) {
	router := newTestRouter(t)

	payload := `{"players":[
		{"player_id":"gk1","team_id":"t1","position":"GK","price":5.0,"is_starter":true},
		{"player_id":"d1","team_id":"t1","position":"DEF","price":5.5,"is_starter":true},
		{"player_id":"d2","team_id":"t2","position":"DEF","price":6.0,"is_starter":true},
		{"player_id":"d3","team_id":"t3","position":"DEF","price":5.0,"is_starter":true},
		{"player_id":"d4","team_id":"t4","position":"DEF","price":4.5,"is_starter":true},
		{"player_id":"m1","team_id":"t1","position":"MID","price":7.5,"is_starter":true,"is_captain":true},
		{"player_id":"m2","team_id":"t2","position":"MID","price":7.0,"is_starter":true},
		{"player_id":"m3","team_id":"t3","position":"MID","price":6.5,"is_starter":true},
		{"player_id":"m4","team_id":"t4","position":"MID","price":6.0,"is_starter":true},
		{"player_id":"f1","team_id":"t2","position":"FWD","price":8.5,"is_starter":true,"is_vice_captain":true},
		{"player_id":"f2","team_id":"t3","position":"FWD","price":7.0,"is_starter":true}
	]}`

	req := httptest.NewRequest(http.MethodPost, "/v1/rosters/validate", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	data, _ := body["data"].(map[string]any)
	if valid, _ := data["is_valid"].(bool); !valid {
		t.Fatalf("expected legal roster, got %v", data)
	}
	if got, _ := data["formation"].(string); got != "1-4-4-2" {
		t.Fatalf("unexpected formation: %v", data["formation"])
	}
}

func TestRouter_ValidateRoster_EmptyBody(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/rosters/validate", strings.NewReader(`{"players":[]}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestRouter_GetRosterConstraints(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/rosters/constraints", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	data, _ := body["data"].(map[string]any)
	if got, _ := data["squad_size"].(float64); got != 11 {
		t.Fatalf("unexpected squad_size: %v", data["squad_size"])
	}
	if got, _ := data["budget_cap"].(float64); got != 70.0 {
		t.Fatalf("unexpected budget_cap: %v", data["budget_cap"])
	}
}
