/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"github.com/warp/adherence-engine/adherence"
	"github.com/warp/adherence-engine/simulate"
)

// =============================================================================
// ROSTER
// =============================================================================

// AgentDTO represents a roster member in API responses.
type AgentDTO struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	Email        string `json:"email,omitempty"`
	ContractType string `json:"contract_type"`
	WeeklyHours  int    `json:"weekly_hours"`
	HireDate     string `json:"hire_date"`
	Active       bool   `json:"active"`
}

func toAgentDTO(a adherence.Agent) AgentDTO {
	return AgentDTO{
		Code:         string(a.Code),
		Name:         a.Name,
		Email:        a.Email,
		ContractType: string(a.ContractType),
		WeeklyHours:  a.WeeklyHours,
		HireDate:     a.HireDate.String(),
		Active:       a.Active,
	}
}

// =============================================================================
// ADHERENCE RESULTS
// =============================================================================

// AgentResultDTO is one agent's adherence over a range.
type AgentResultDTO struct {
	Agent             AgentDTO `json:"agent"`
	Adherence         float64  `json:"adherence"`
	ProductiveMinutes int      `json:"productive_minutes"`
	PlannedMinutes    float64  `json:"planned_minutes"`
	DaysAnalyzed      int      `json:"days_analyzed"`
}

func toAgentResultDTO(r adherence.AgentResult) AgentResultDTO {
	return AgentResultDTO{
		Agent:             toAgentDTO(r.Agent),
		Adherence:         r.Adherence,
		ProductiveMinutes: r.ProductiveMinutes,
		PlannedMinutes:    r.PlannedMinutes,
		DaysAnalyzed:      r.DaysAnalyzed,
	}
}

func toAgentResultDTOs(results []adherence.AgentResult) []AgentResultDTO {
	dtos := make([]AgentResultDTO, len(results))
	for i, r := range results {
		dtos[i] = toAgentResultDTO(r)
	}
	return dtos
}

// ContractResultDTO summarizes one contract type's distribution.
type ContractResultDTO struct {
	ContractType string  `json:"contract_type"`
	Mean         float64 `json:"mean"`
	Median       float64 `json:"median"`
	AgentCount   int     `json:"agent_count"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
}

func toContractResultDTO(r *adherence.ContractTypeResult) *ContractResultDTO {
	if r == nil {
		return nil
	}
	return &ContractResultDTO{
		ContractType: string(r.ContractType),
		Mean:         r.Mean,
		Median:       r.Median,
		AgentCount:   r.AgentCount,
		Min:          r.Min,
		Max:          r.Max,
	}
}

// HourDTO is one operating hour's minute-granular profile.
type HourDTO struct {
	Hour             int     `json:"hour"`
	Label            string  `json:"label"`
	Adherence        float64 `json:"adherence"`
	ScheduledAvg     float64 `json:"scheduled_avg"`
	ActiveAvg        float64 `json:"active_avg"`
	ScheduledMinutes int     `json:"scheduled_minutes"`
	LowMinutes       int     `json:"low_minutes"`
	CriticalMinutes  int     `json:"critical_minutes"`
	Consistency      float64 `json:"consistency"`
	Status           string  `json:"status"`
}

func toHourDTOs(results []adherence.HourResult) []HourDTO {
	dtos := make([]HourDTO, len(results))
	for i, r := range results {
		dtos[i] = HourDTO{
			Hour:             r.Hour,
			Label:            r.Label,
			Adherence:        r.Adherence,
			ScheduledAvg:     r.ScheduledAvg,
			ActiveAvg:        r.ActiveAvg,
			ScheduledMinutes: r.ScheduledMinutes,
			LowMinutes:       r.LowMinutes,
			CriticalMinutes:  r.CriticalMinutes,
			Consistency:      r.Consistency,
			Status:           string(r.Status),
		}
	}
	return dtos
}

// InstantDTO is the whole-day live tile payload.
type InstantDTO struct {
	Date              string  `json:"date"`
	Adherence         float64 `json:"adherence"`
	PlannedMinutes    float64 `json:"planned_minutes"`
	ProductiveMinutes int     `json:"productive_minutes"`
	ScheduledAgents   int     `json:"scheduled_agents"`
	ProductiveRecords int     `json:"productive_records"`
	Status            string  `json:"status"`
}

// DailyPointDTO is one day of the contract-type adherence series.
type DailyPointDTO struct {
	Date     string  `json:"date"`
	FullTime float64 `json:"full_time"`
	PartTime float64 `json:"part_time"`
	Combined float64 `json:"combined"`
}

// FactorDTO is one simulated impact factor.
type FactorDTO struct {
	Factor      string  `json:"factor"`
	Category    string  `json:"category"`
	Description string  `json:"description,omitempty"`
	Theoretical float64 `json:"theoretical"`
	Simulated   float64 `json:"simulated"`
}

func toFactorDTOs(impacts []adherence.FactorImpact) []FactorDTO {
	dtos := make([]FactorDTO, len(impacts))
	for i, f := range impacts {
		dtos[i] = FactorDTO{
			Factor:      f.Factor,
			Category:    string(f.Category),
			Description: f.Description,
			Theoretical: f.Theoretical,
			Simulated:   f.Simulated,
		}
	}
	return dtos
}

// KPITargetDTO is one reporting target.
type KPITargetDTO struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Kind        string  `json:"kind"`
	Target      float64 `json:"target"`
	Floor       float64 `json:"floor"`
	From        string  `json:"from"`
	To          *string `json:"to,omitempty"`
	Active      bool    `json:"active"`
}

func toKPITargetDTO(t adherence.KPITarget) KPITargetDTO {
	dto := KPITargetDTO{
		Name:        t.Name,
		Description: t.Description,
		Kind:        string(t.Kind),
		Target:      t.Target.InexactFloat64(),
		Floor:       t.Floor.InexactFloat64(),
		From:        t.From.String(),
		Active:      t.Active,
	}
	if t.To != nil {
		s := t.To.String()
		dto.To = &s
	}
	return dto
}

// =============================================================================
// TOP-LEVEL RESPONSES
// =============================================================================

// ReportDTO is the contract-type comparison block.
type ReportDTO struct {
	From        string             `json:"from"`
	To          string             `json:"to"`
	FullTime    *ContractResultDTO `json:"full_time"`
	PartTime    *ContractResultDTO `json:"part_time"`
	TopFullTime []AgentResultDTO   `json:"top_full_time"`
	TopPartTime []AgentResultDTO   `json:"top_part_time"`
	ContractGap float64            `json:"contract_gap"`
}

func toReportDTO(r *adherence.Report) *ReportDTO {
	if r == nil {
		return nil
	}
	return &ReportDTO{
		From:        r.From.String(),
		To:          r.To.String(),
		FullTime:    toContractResultDTO(r.FullTime),
		PartTime:    toContractResultDTO(r.PartTime),
		TopFullTime: toAgentResultDTOs(r.TopFullTime),
		TopPartTime: toAgentResultDTOs(r.TopPartTime),
		ContractGap: r.ContractGap,
	}
}

// DashboardDTO is the single response backing the main view.
type DashboardDTO struct {
	From           string        `json:"from"`
	To             string        `json:"to"`
	Report         *ReportDTO    `json:"report"`
	Hourly         []HourDTO     `json:"hourly"`
	Factors        []FactorDTO   `json:"factors"`
	KPITarget      *KPITargetDTO `json:"kpi_target,omitempty"`
	TotalAgents    int           `json:"total_agents"`
	FullTimeAgents int           `json:"full_time_agents"`
	PartTimeAgents int           `json:"part_time_agents"`
}

// SummaryDTO is the roster/volume snapshot.
type SummaryDTO struct {
	TotalAgents     int    `json:"total_agents"`
	ActiveAgents    int    `json:"active_agents"`
	FullTimeAgents  int    `json:"full_time_agents"`
	PartTimeAgents  int    `json:"part_time_agents"`
	SchedulesToday  int    `json:"schedules_today"`
	ActivitiesToday int    `json:"activities_today"`
	Status          string `json:"status"`
}

// =============================================================================
// ADMIN
// =============================================================================

// RegenerateRequest selects the trailing window to rebuild.
type RegenerateRequest struct {
	Days int `json:"days"`
}

// RegenerationDTO summarizes a generator run.
type RegenerationDTO struct {
	Days        int            `json:"days"`
	From        string         `json:"from"`
	To          string         `json:"to"`
	Agents      int            `json:"agents"`
	Schedules   int            `json:"schedules"`
	Activities  int            `json:"activities"`
	ByKind      map[string]int `json:"activities_by_kind"`
	Corrections []string       `json:"corrections,omitempty"`
}

func toRegenerationDTO(r *simulate.RegenerationResult) RegenerationDTO {
	dto := RegenerationDTO{
		Days:       r.Days,
		From:       r.From.String(),
		To:         r.To.String(),
		Agents:     r.Agents,
		Schedules:  r.Schedules,
		Activities: r.Activities,
		ByKind:     make(map[string]int, len(r.ActivityByKind)),
	}
	for kind, n := range r.ActivityByKind {
		dto.ByKind[string(kind)] = n
	}
	for _, violation := range r.Corrections {
		dto.Corrections = append(dto.Corrections, violation.String())
	}
	return dto
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
