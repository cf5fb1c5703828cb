/*
handlers.go - HTTP API handlers for the adherence engine

PURPOSE:
  Exposes the adherence engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Reports:
    GET    /api/reports/dashboard        Full dashboard payload
    GET    /api/reports/contract/{type}  30-day drill-down per contract type
    GET    /api/reports/hourly?date=     Hour-by-hour profile for one date
    GET    /api/reports/instant?date=    Whole-day live tile
    GET    /api/reports/daily?days=      Per-day FT/PT series

  Roster:
    GET    /api/agents                   List roster
    GET    /api/agents/top               Top agents per contract type (7 days)

  Reporting inputs:
    GET    /api/factors                  Simulated impact-factor ranking
    GET    /api/kpi-targets              Active KPI targets

  System:
    GET    /api/summary                  Roster/volume snapshot

  Admin:
    POST   /api/admin/regenerate         Atomic wipe-and-rebuild {days}
    POST   /api/admin/seed               Non-destructive quick seed

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Call domain logic (composer, aggregator, generator)
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: No data for the requested subject
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/warp/adherence-engine/adherence"
	"github.com/warp/adherence-engine/metrics"
	"github.com/warp/adherence-engine/simulate"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store     adherence.TxStore
	Composer  *adherence.Composer
	Generator *simulate.Generator
	Metrics   *metrics.Metrics
	Log       zerolog.Logger

	// SeedDays is the regeneration window used when a request does not
	// pick one. Zero falls back to the generator default.
	SeedDays int

	// Now is injectable so tests can pin "today".
	Now func() adherence.Date
}

// NewHandler creates a handler wired to the given store.
func NewHandler(store adherence.TxStore, gen *simulate.Generator, m *metrics.Metrics, log zerolog.Logger) *Handler {
	return &Handler{
		Store:     store,
		Composer:  adherence.NewComposer(store),
		Generator: gen,
		Metrics:   m,
		Log:       log,
		Now:       adherence.Today,
	}
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// GetDashboard returns the full dashboard payload for the trailing week.
// GET /api/reports/dashboard
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	dashboard, err := h.Composer.DashboardReport(r.Context(), h.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute dashboard", err)
		return
	}
	h.Metrics.ObserveReport("dashboard", start)

	dto := DashboardDTO{
		From:           dashboard.From.String(),
		To:             dashboard.To.String(),
		Report:         toReportDTO(dashboard.Report),
		Hourly:         toHourDTOs(dashboard.Hourly),
		Factors:        toFactorDTOs(dashboard.Factors),
		TotalAgents:    dashboard.TotalAgents,
		FullTimeAgents: dashboard.FullTimeAgents,
		PartTimeAgents: dashboard.PartTimeAgents,
	}
	if dashboard.KPITarget != nil {
		target := toKPITargetDTO(*dashboard.KPITarget)
		dto.KPITarget = &target
	}
	writeJSON(w, http.StatusOK, dto)
}

// GetContractReport returns the 30-day drill-down for one contract type.
// GET /api/reports/contract/{type}
func (h *Handler) GetContractReport(w http.ResponseWriter, r *http.Request) {
	kind := adherence.ContractType(chi.URLParam(r, "type"))
	if !kind.Valid() {
		writeError(w, http.StatusBadRequest, "Unknown contract type", adherence.ErrUnknownContractType)
		return
	}

	start := time.Now()
	result, err := h.Composer.ContractDrillDown(r.Context(), kind, h.Now())
	if adherence.IsNoData(err) {
		writeError(w, http.StatusNotFound, "No data for contract type", err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute contract report", err)
		return
	}
	h.Metrics.ObserveReport("contract", start)
	writeJSON(w, http.StatusOK, toContractResultDTO(result))
}

// GetHourlyReport returns the hour-by-hour profile for one date.
// GET /api/reports/hourly?date=YYYY-MM-DD (default today)
func (h *Handler) GetHourlyReport(w http.ResponseWriter, r *http.Request) {
	date := h.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := adherence.ParseDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date", err)
			return
		}
		date = parsed
	}

	start := time.Now()
	results, err := h.Composer.Agg.HourlyAdherence(r.Context(), date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute hourly report", err)
		return
	}
	h.Metrics.ObserveReport("hourly", start)

	writeJSON(w, http.StatusOK, map[string]any{
		"date":  date.String(),
		"hours": toHourDTOs(results),
	})
}

// GetInstantReport returns the whole-day planned-vs-productive ratio.
// GET /api/reports/instant?date=YYYY-MM-DD (default today)
func (h *Handler) GetInstantReport(w http.ResponseWriter, r *http.Request) {
	date := h.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := adherence.ParseDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date", err)
			return
		}
		date = parsed
	}

	result, err := h.Composer.Agg.InstantAdherence(r.Context(), date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute instant adherence", err)
		return
	}
	writeJSON(w, http.StatusOK, InstantDTO{
		Date:              result.Date.String(),
		Adherence:         result.Adherence,
		PlannedMinutes:    result.PlannedMinutes,
		ProductiveMinutes: result.ProductiveMinutes,
		ScheduledAgents:   result.ScheduledAgents,
		ProductiveRecords: result.ProductiveRecords,
		Status:            result.Status,
	})
}

// GetDailySeries returns the per-day FT/PT adherence series.
// GET /api/reports/daily?days=N (default 7)
func (h *Handler) GetDailySeries(w http.ResponseWriter, r *http.Request) {
	days := adherence.DefaultReportDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid days parameter", err)
			return
		}
		days = parsed
	}

	start := time.Now()
	points, err := h.Composer.DailySeries(r.Context(), h.Now(), days)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute daily series", err)
		return
	}
	h.Metrics.ObserveReport("daily", start)

	dtos := make([]DailyPointDTO, len(points))
	for i, p := range points {
		dtos[i] = DailyPointDTO{
			Date:     p.Date.String(),
			FullTime: p.FullTime,
			PartTime: p.PartTime,
			Combined: p.Combined,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// ROSTER HANDLERS
// =============================================================================

// ListAgents returns the roster.
// GET /api/agents?contract_type=FT&active=true
func (h *Handler) ListAgents(w http.ResponseWriter, r *http.Request) {
	filter := adherence.AgentFilter{}
	if raw := r.URL.Query().Get("contract_type"); raw != "" {
		kind := adherence.ContractType(raw)
		if !kind.Valid() {
			writeError(w, http.StatusBadRequest, "Unknown contract type", adherence.ErrUnknownContractType)
			return
		}
		filter.ContractType = &kind
	}
	filter.ActiveOnly = r.URL.Query().Get("active") == "true"

	agents, err := h.Store.ListAgents(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list agents", err)
		return
	}

	dtos := make([]AgentDTO, len(agents))
	for i, agent := range agents {
		dtos[i] = toAgentDTO(agent)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetTopAgents returns the trailing-week top performers per contract type.
// GET /api/agents/top?type=FT&top=3
func (h *Handler) GetTopAgents(w http.ResponseWriter, r *http.Request) {
	limit := 5
	if raw := r.URL.Query().Get("top"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid top parameter", err)
			return
		}
		limit = parsed
	}

	today := h.Now()
	report, err := h.Composer.FullReport(r.Context(), today.AddDays(-adherence.DefaultReportDays), today)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to rank agents", err)
		return
	}

	fullTime := truncateResults(report.TopFullTime, limit)
	partTime := truncateResults(report.TopPartTime, limit)

	switch kind := r.URL.Query().Get("type"); kind {
	case "":
		writeJSON(w, http.StatusOK, map[string]any{
			"full_time": toAgentResultDTOs(fullTime),
			"part_time": toAgentResultDTOs(partTime),
		})
	case string(adherence.ContractFullTime):
		writeJSON(w, http.StatusOK, toAgentResultDTOs(fullTime))
	case string(adherence.ContractPartTime):
		writeJSON(w, http.StatusOK, toAgentResultDTOs(partTime))
	default:
		writeError(w, http.StatusBadRequest, "Unknown contract type", adherence.ErrUnknownContractType)
	}
}

func truncateResults(results []adherence.AgentResult, limit int) []adherence.AgentResult {
	if len(results) > limit {
		return results[:limit]
	}
	return results
}

// =============================================================================
// REPORTING INPUT HANDLERS
// =============================================================================

// GetFactors returns the simulated impact-factor ranking.
// GET /api/factors
func (h *Handler) GetFactors(w http.ResponseWriter, r *http.Request) {
	impacts, err := h.Composer.ImpactFactorSimulation(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to simulate factors", err)
		return
	}
	writeJSON(w, http.StatusOK, toFactorDTOs(impacts))
}

// GetKPITargets returns the active reporting targets.
// GET /api/kpi-targets
func (h *Handler) GetKPITargets(w http.ResponseWriter, r *http.Request) {
	targets, err := h.Store.ListKPITargets(r.Context(), true)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list KPI targets", err)
		return
	}

	dtos := make([]KPITargetDTO, len(targets))
	for i, target := range targets {
		dtos[i] = toKPITargetDTO(target)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetSummary returns the roster/volume snapshot.
// GET /api/summary
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Composer.SystemSummary(r.Context(), h.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute summary", err)
		return
	}
	writeJSON(w, http.StatusOK, SummaryDTO{
		TotalAgents:     summary.TotalAgents,
		ActiveAgents:    summary.ActiveAgents,
		FullTimeAgents:  summary.FullTimeAgents,
		PartTimeAgents:  summary.PartTimeAgents,
		SchedulesToday:  summary.SchedulesToday,
		ActivitiesToday: summary.ActivitiesToday,
		Status:          summary.Status,
	})
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// Regenerate rebuilds all synthetic data atomically.
// POST /api/admin/regenerate  body: {"days": 30}
func (h *Handler) Regenerate(w http.ResponseWriter, r *http.Request) {
	var req RegenerateRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}
	if req.Days < 0 || req.Days > 365 {
		writeError(w, http.StatusBadRequest, "days must be between 0 and 365", nil)
		return
	}
	days := req.Days
	if days == 0 {
		days = h.SeedDays
	}

	start := time.Now()
	result, err := h.Generator.RegenerateAll(r.Context(), days)
	if err != nil {
		h.Metrics.RegenerationFailures.Inc()
		writeError(w, http.StatusInternalServerError, "Regeneration failed", err)
		return
	}
	h.Metrics.Regenerations.Inc()
	h.Metrics.RegenerationDuration.Observe(time.Since(start).Seconds())
	h.Metrics.RecordsGenerated.WithLabelValues("agents").Add(float64(result.Agents))
	h.Metrics.RecordsGenerated.WithLabelValues("schedules").Add(float64(result.Schedules))
	h.Metrics.RecordsGenerated.WithLabelValues("activities").Add(float64(result.Activities))

	writeJSON(w, http.StatusOK, toRegenerationDTO(result))
}

// QuickSeed seeds the roster and today's data without wiping history.
// POST /api/admin/seed
func (h *Handler) QuickSeed(w http.ResponseWriter, r *http.Request) {
	result, err := h.Generator.QuickSeed(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Seed failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toRegenerationDTO(result))
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
