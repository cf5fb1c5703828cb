/*
handlers_test.go - HTTP layer tests against an in-memory store

These drive the full router with httptest, so routing, parameter
validation and JSON shapes are covered together.
*/
package api

import (
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/adherence-engine/adherence/store"
	"github.com/warp/adherence-engine/metrics"
	"github.com/warp/adherence-engine/simulate"
)

func newTestServer(t *testing.T) (*httptest.Server, *Handler) {
	t.Helper()
	mem := store.NewTxMemory()
	gen := simulate.NewGenerator(mem, zerolog.Nop()).WithRand(rand.New(rand.NewSource(7)))
	h := NewHandler(mem, gen, metrics.New(), zerolog.Nop())
	h.Composer.WithRand(rand.New(rand.NewSource(7)))

	srv := httptest.NewServer(NewRouter(h, []string{"*"}))
	t.Cleanup(srv.Close)
	return srv, h
}

func get(t *testing.T, srv *httptest.Server, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func post(t *testing.T, srv *httptest.Server, path, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

// =============================================================================
// DASHBOARD AND REPORTS
// =============================================================================

func TestGetDashboardEmptyStore(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := get(t, srv, "/api/reports/dashboard")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var dto DashboardDTO
	require.NoError(t, json.Unmarshal(body, &dto))
	assert.Equal(t, 0, dto.TotalAgents)
	assert.NotEmpty(t, dto.From)
	assert.NotEmpty(t, dto.To)
}

func TestRegenerateThenDashboard(t *testing.T) {
	srv, _ := newTestServer(t)

	// WHEN regenerating a 5-day world
	resp, body := post(t, srv, "/api/admin/regenerate", `{"days": 5}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var regen RegenerationDTO
	require.NoError(t, json.Unmarshal(body, &regen))
	assert.Equal(t, 10, regen.Agents)
	assert.Greater(t, regen.Activities, 0)

	// THEN the dashboard reflects the generated roster
	resp, body = get(t, srv, "/api/reports/dashboard")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var dto DashboardDTO
	require.NoError(t, json.Unmarshal(body, &dto))
	assert.Equal(t, 10, dto.TotalAgents)
	assert.Equal(t, 6, dto.FullTimeAgents)
	assert.Equal(t, 4, dto.PartTimeAgents)
	require.NotNil(t, dto.Report)
	assert.Len(t, dto.Hourly, 12)
	assert.Len(t, dto.Factors, 5)
	require.NotNil(t, dto.KPITarget)
}

func TestGetContractReportValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, _ := get(t, srv, "/api/reports/contract/CONTRACTOR")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// A valid type with no data is 404, not a zero report.
	resp, _ = get(t, srv, "/api/reports/contract/FT")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetContractReportAfterSeed(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, _ := post(t, srv, "/api/admin/seed", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := get(t, srv, "/api/reports/contract/FT")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var dto ContractResultDTO
	require.NoError(t, json.Unmarshal(body, &dto))
	assert.Equal(t, "FT", dto.ContractType)
	assert.Equal(t, 6, dto.AgentCount)
	assert.LessOrEqual(t, dto.Max, 100.0)
}

func TestGetHourlyReportValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, _ := get(t, srv, "/api/reports/hourly?date=03-03-2025")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := get(t, srv, "/api/reports/hourly?date=2025-03-03")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Date  string    `json:"date"`
		Hours []HourDTO `json:"hours"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "2025-03-03", payload.Date)
	require.Len(t, payload.Hours, 12)
	assert.Equal(t, "no_schedule", payload.Hours[0].Status)
}

func TestGetInstantReport(t *testing.T) {
	srv, _ := newTestServer(t)

	// GIVEN an empty store, the day has no schedule
	resp, body := get(t, srv, "/api/reports/instant?date=2025-03-03")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var dto InstantDTO
	require.NoError(t, json.Unmarshal(body, &dto))
	assert.Equal(t, "no_schedule", dto.Status)

	// GIVEN a seeded day, the tile reports activity
	post(t, srv, "/api/admin/seed", "")
	resp, body = get(t, srv, "/api/reports/instant")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &dto))
	assert.Equal(t, "active", dto.Status)
	assert.Equal(t, 10, dto.ScheduledAgents)
}

func TestGetTopAgentsParams(t *testing.T) {
	srv, _ := newTestServer(t)
	post(t, srv, "/api/admin/seed", "")

	resp, body := get(t, srv, "/api/agents/top?type=FT&top=3")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var results []AgentResultDTO
	require.NoError(t, json.Unmarshal(body, &results))
	assert.Len(t, results, 3)
	for _, result := range results {
		assert.Equal(t, "FT", result.Agent.ContractType)
	}

	resp, _ = get(t, srv, "/api/agents/top?type=NOPE")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = get(t, srv, "/api/agents/top?top=-1")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetDailySeriesValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, _ := get(t, srv, "/api/reports/daily?days=zero")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := get(t, srv, "/api/reports/daily?days=3")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var points []DailyPointDTO
	require.NoError(t, json.Unmarshal(body, &points))
	assert.Len(t, points, 3)
}

// =============================================================================
// ROSTER AND INPUTS
// =============================================================================

func TestListAgentsWithFilter(t *testing.T) {
	srv, _ := newTestServer(t)
	post(t, srv, "/api/admin/seed", "")

	resp, body := get(t, srv, "/api/agents?contract_type=PT&active=true")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var agents []AgentDTO
	require.NoError(t, json.Unmarshal(body, &agents))
	require.Len(t, agents, 4)
	for _, agent := range agents {
		assert.Equal(t, "PT", agent.ContractType)
		assert.Equal(t, 20, agent.WeeklyHours)
	}

	resp, _ = get(t, srv, "/api/agents?contract_type=NOPE")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetTopAgents(t *testing.T) {
	srv, _ := newTestServer(t)
	post(t, srv, "/api/admin/seed", "")

	resp, body := get(t, srv, "/api/agents/top")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		FullTime []AgentResultDTO `json:"full_time"`
		PartTime []AgentResultDTO `json:"part_time"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.LessOrEqual(t, len(payload.FullTime), 5)
	assert.NotEmpty(t, payload.FullTime)
	for i := 1; i < len(payload.FullTime); i++ {
		assert.GreaterOrEqual(t, payload.FullTime[i-1].Adherence, payload.FullTime[i].Adherence)
	}
}

func TestGetKPITargetsAndFactors(t *testing.T) {
	srv, _ := newTestServer(t)
	post(t, srv, "/api/admin/seed", "")

	resp, body := get(t, srv, "/api/kpi-targets")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var targets []KPITargetDTO
	require.NoError(t, json.Unmarshal(body, &targets))
	assert.Len(t, targets, 3)

	resp, body = get(t, srv, "/api/factors")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var factors []FactorDTO
	require.NoError(t, json.Unmarshal(body, &factors))
	assert.Len(t, factors, 5)
}

func TestGetSummary(t *testing.T) {
	srv, _ := newTestServer(t)
	post(t, srv, "/api/admin/seed", "")

	resp, body := get(t, srv, "/api/summary")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var summary SummaryDTO
	require.NoError(t, json.Unmarshal(body, &summary))
	assert.Equal(t, 10, summary.TotalAgents)
	assert.Equal(t, "active", summary.Status)
	assert.Equal(t, 10, summary.SchedulesToday)
}

// =============================================================================
// ADMIN VALIDATION AND METRICS
// =============================================================================

func TestRegenerateValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, _ := post(t, srv, "/api/admin/regenerate", `{"days": 1000}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = post(t, srv, "/api/admin/regenerate", `{not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// An empty body falls back to the default window.
	resp, body := post(t, srv, "/api/admin/regenerate", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var regen RegenerationDTO
	require.NoError(t, json.Unmarshal(body, &regen))
	assert.Equal(t, simulate.DefaultDays, regen.Days)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	post(t, srv, "/api/admin/regenerate", `{"days": 2}`)
	get(t, srv, "/api/reports/dashboard")

	resp, body := get(t, srv, "/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "adherence_regenerations_total")
	assert.Contains(t, string(body), "adherence_report_requests_total")
}
