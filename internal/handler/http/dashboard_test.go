package http

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/facturaflow/dashboard/internal/domain/dashboard"
	"github.com/facturaflow/dashboard/internal/handler/http/response"
	"github.com/facturaflow/dashboard/internal/pkg/jwt"
	"github.com/facturaflow/dashboard/internal/pkg/sse"
	dashboardService "github.com/facturaflow/dashboard/internal/service/dashboard"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerTestSecret = "test-secret-key-for-jwt"

type stubSource struct {
	stats *dashboard.DashboardStats
	err   error
}

func (s *stubSource) FetchStats(ctx context.Context) (*dashboard.DashboardStats, error) {
	return s.stats, s.err
}

type stubStatsService struct {
	resp *dashboard.StatsResponse
	err  error
}

func (s *stubStatsService) GetDashboardStats(ctx context.Context) (*dashboard.StatsResponse, error) {
	return s.resp, s.err
}

type testEnv struct {
	handler  http.Handler
	sessions dashboard.SessionService
	source   *stubSource
	jwt      jwt.Service
	stats    *stubStatsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	hub := sse.NewHub()
	source := &stubSource{err: &dashboard.NetworkError{StatusCode: http.StatusServiceUnavailable}}
	controller := dashboardService.NewController(source, hub)
	sessions := dashboardService.NewSessionService(768, time.Hour)
	jwtService := jwt.NewJWTService(handlerTestSecret, "1m")
	stats := &stubStatsService{resp: &dashboard.StatsResponse{Success: true, TotalDocs: 3}}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := NewRouter(
		RouterConfig{FrontendURL: "http://localhost:5000", LogLevel: slog.LevelInfo},
		logger,
		jwtService,
		NewDashboardHandler(controller, sessions, hub),
		NewStatsHandler(stats),
	)

	return &testEnv{handler: router, sessions: sessions, source: source, jwt: jwtService, stats: stats}
}

func (e *testEnv) do(t *testing.T, method, target string, body io.Reader, accept string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) response.Response {
	t.Helper()
	var raw struct {
		response.Response
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	if data != nil {
		require.NoError(t, json.Unmarshal(raw.Data, data))
	}
	return raw.Response
}

func TestRouter_RootRedirects(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/", nil, "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/estadistica/", rec.Header().Get("Location"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestRouter_Heartbeat(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPage_RendersPlaceholdersAndSession(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/estadistica/", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	body := rec.Body.String()
	assert.Contains(t, body, "Salidas Totales")
	assert.Contains(t, body, "$24,580.00")
	assert.Contains(t, body, "docTypeChart")
	assert.Contains(t, body, `data-session="`)
	assert.NotContains(t, body, "No se encontraron resultados")
}

func TestSummary_FragmentAndJSON(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/dashboard/summary", nil, "text/html")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `class="stat-card-value">156<`)

	var cards []dashboard.SummaryCard
	rec = env.do(t, http.MethodGet, "/dashboard/summary", nil, "application/json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeEnvelope(t, rec, &cards).Success)
	require.Len(t, cards, 4)
	assert.Equal(t, "Cargos Recurrentes", cards[2].Label)
}

func TestChart_AndLegendToggle(t *testing.T) {
	env := newTestEnv(t)

	var view dashboard.ChartView
	rec := env.do(t, http.MethodGet, "/dashboard/charts/docType", nil, "application/json")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeEnvelope(t, rec, &view)
	assert.Equal(t, "docType", view.ID)
	assert.Len(t, view.Legend, 4)

	var legend []dashboard.LegendEntry
	rec = env.do(t, http.MethodPost, "/dashboard/charts/docType/legend/0", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeEnvelope(t, rec, &legend)
	assert.True(t, legend[0].Hidden)

	rec = env.do(t, http.MethodGet, "/dashboard/charts/pie", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/dashboard/charts/trend/legend/5", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/dashboard/charts/trend/legend/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestActivity_FilterRemembersPerSession(t *testing.T) {
	env := newTestEnv(t)
	session := env.sessions.Create()

	rec := env.do(t, http.MethodGet, "/dashboard/activity?session="+session.ID+"&type=all&q=zzz", nil, "text/html")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, strings.Count(rec.Body.String(), "No se encontraron resultados"))

	// Without filter params the remembered ones apply
	var view dashboard.ActivityView
	rec = env.do(t, http.MethodGet, "/dashboard/activity?session="+session.ID, nil, "application/json")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeEnvelope(t, rec, &view)
	assert.Equal(t, "zzz", view.Search)
	assert.True(t, view.EmptyState)

	rec = env.do(t, http.MethodGet, "/dashboard/activity?session=missing&type=all", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRefresh_FailureKeepsPlaceholders(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/dashboard/refresh", nil, "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var snap dashboard.Snapshot
	rec = env.do(t, http.MethodGet, "/dashboard/state", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeEnvelope(t, rec, &snap)
	assert.Equal(t, "$24,580.00", snap.Summary[0].Value)
	assert.Equal(t, "Error al cargar datos. Usando datos de ejemplo.", snap.Toast.Message)
	assert.Equal(t, int64(5000), snap.Toast.DurationMs)
}

func TestRefresh_Success(t *testing.T) {
	env := newTestEnv(t)
	env.source.err = nil
	env.source.stats = &dashboard.DashboardStats{
		TotalAmount:        decimal.RequireFromString("10"),
		TotalDocs:          1,
		CurrentMonthAmount: decimal.Zero,
	}

	var snap dashboard.Snapshot
	rec := env.do(t, http.MethodPost, "/dashboard/refresh", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeEnvelope(t, rec, &snap)
	assert.Equal(t, "$10.00", snap.Summary[0].Value)
	assert.Equal(t, "Datos cargados correctamente", snap.Toast.Message)
}

func TestSidebar(t *testing.T) {
	env := newTestEnv(t)
	session := env.sessions.Create()
	base := "/dashboard/sessions/" + session.ID + "/sidebar"

	var state dashboard.SidebarState
	rec := env.do(t, http.MethodPost, base+"/toggle?width=600", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeEnvelope(t, rec, &state)
	assert.Equal(t, dashboard.SidebarState{Collapsed: true, OverlayActive: true}, state)

	rec = env.do(t, http.MethodPost, base+"/close", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeEnvelope(t, rec, &state)
	assert.Equal(t, dashboard.SidebarState{Collapsed: true}, state)

	rec = env.do(t, http.MethodPost, base+"/toggle?width=wide", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/dashboard/sessions/nope/sidebar/close", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSelectorChanged(t *testing.T) {
	env := newTestEnv(t)

	var toast dashboard.Toast
	rec := env.do(t, http.MethodPost, "/dashboard/selectors/timeRange", strings.NewReader(`{"label":"Este año"}`), "")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeEnvelope(t, rec, &toast)
	assert.Equal(t, "Período cambiado a: Este año", toast.Message)

	rec = env.do(t, http.MethodPost, "/dashboard/selectors/unknown", strings.NewReader(`{"label":"x"}`), "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.do(t, http.MethodPost, "/dashboard/selectors/timeRange", strings.NewReader(`not json`), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEvents_StreamsToasts(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.handler)
	defer srv.Close()

	session := env.sessions.Create()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/dashboard/events?session="+session.ID, nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: connected\n", line)
	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, line, `"streams":1`)

	postResp, err := srv.Client().Post(srv.URL+"/dashboard/selectors/docTypeFilter", "application/json", strings.NewReader(`{"label":"Facturas"}`))
	require.NoError(t, err)
	postResp.Body.Close()

	for {
		line, err = reader.ReadString('\n')
		require.NoError(t, err)
		if line == "event: notification.show\n" {
			break
		}
	}
	data, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, data, "Filtro aplicado: Facturas")
}

func TestEvents_UnknownSession(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/dashboard/events?session=nope", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatsAPI(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/dashboard-stats", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"No autorizado"}`, rec.Body.String())

	token, _, err := env.jwt.GenerateServiceToken()
	require.NoError(t, err)

	authed := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/dashboard-stats", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, req)
		return rec
	}

	rec = authed()
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(3), body["total_docs"])

	env.stats.err = errors.New("db down")
	rec = authed()
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Error obteniendo estadísticas"}`, rec.Body.String())
}

func TestRouter_StatsAPINotMountedWithoutHandler(t *testing.T) {
	hub := sse.NewHub()
	router := NewRouter(
		RouterConfig{FrontendURL: "http://localhost:5000"},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		jwt.NewJWTService(handlerTestSecret, "1m"),
		NewDashboardHandler(dashboardService.NewController(&stubSource{}, hub), dashboardService.NewSessionService(768, time.Hour), hub),
		nil,
	)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard-stats", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
