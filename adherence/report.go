/*
report.go - Top-level report composition

PURPOSE:
  Thin orchestration over the aggregator: the dashboard report, the
  per-contract-type drill-down, the daily series and the impact-factor
  simulation. No independent algorithm lives here; this file exists so
  composition order and default windows are reproducible.

DEFAULT WINDOWS:
  Dashboard report:  [today - 7 days, today]
  Drill-down views:  [today - 30 days, today]

DEGRADATION:
  Reports may be requested before any data exists. Top-level functions
  degrade to a default zero-value structure when the store reports
  ErrStoreUnavailable instead of propagating it.

IMPACT SIMULATION:
  Each impact factor gets one draw from N(theoretical, 2.5) - purely
  illustrative noise, not a statistical estimate from real data. The
  random source is injectable so tests can pin the seed.
*/
package adherence

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"time"
)

// Default trailing windows, in days.
const (
	DefaultReportDays = 7
	DrillDownDays     = 30
)

// Standard deviation of the simulated impact draw.
const impactNoiseStdDev = 2.5

// =============================================================================
// COMPOSER
// =============================================================================

// Composer assembles aggregator outputs into top-level report structures.
// It holds no state across calls beyond its dependencies.
type Composer struct {
	Store EntityStore
	Agg   *Aggregator
	Rand  *rand.Rand
}

// NewComposer creates a composer with a time-seeded random source for the
// impact simulation. Tests inject their own source via WithRand.
func NewComposer(store EntityStore) *Composer {
	return &Composer{
		Store: store,
		Agg:   NewAggregator(store),
		Rand:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// WithRand replaces the random source used by the impact simulation.
func (c *Composer) WithRand(r *rand.Rand) *Composer {
	c.Rand = r
	return c
}

// =============================================================================
// FULL REPORT
// =============================================================================

// Report is the contract-type comparison over one date range.
type Report struct {
	From        Date
	To          Date
	FullTime    *ContractTypeResult // nil when no FT agent produced data
	PartTime    *ContractTypeResult
	TopFullTime []AgentResult // top 5 by adherence, descending
	TopPartTime []AgentResult
	ContractGap float64 // FT mean - PT mean, 0 when either side lacks data
}

// FullReport composes contract-type adherence for both contract types,
// the top-5 agents per type over the full active roster, and the FT-PT
// gap. Any adherence above 100 is clamped here as a second line of
// defense beyond the per-agent cap.
func (c *Composer) FullReport(ctx context.Context, from, to Date) (*Report, error) {
	report := &Report{From: from, To: to}

	ft, err := c.Agg.ContractTypeAdherence(ctx, ContractFullTime, from, to)
	if err != nil && !IsNoData(err) {
		return nil, err
	}
	pt, err := c.Agg.ContractTypeAdherence(ctx, ContractPartTime, from, to)
	if err != nil && !IsNoData(err) {
		return nil, err
	}
	report.FullTime = clampContractResult(ft)
	report.PartTime = clampContractResult(pt)

	report.TopFullTime, err = c.topAgents(ctx, ContractFullTime, from, to)
	if err != nil {
		return nil, err
	}
	report.TopPartTime, err = c.topAgents(ctx, ContractPartTime, from, to)
	if err != nil {
		return nil, err
	}

	if report.FullTime != nil && report.PartTime != nil {
		report.ContractGap = round2(report.FullTime.Mean - report.PartTime.Mean)
	}
	return report, nil
}

// topAgents ranks the full active roster of one contract type by
// adherence and keeps the top 5. The whole roster is scanned: ranking a
// listing prefix would under-sample rosters above the cutoff.
func (c *Composer) topAgents(ctx context.Context, kind ContractType, from, to Date) ([]AgentResult, error) {
	agents, err := c.Store.ListAgents(ctx, AgentFilter{ContractType: &kind, ActiveOnly: true})
	if err != nil {
		return nil, err
	}

	var results []AgentResult
	for _, agent := range agents {
		result, err := c.Agg.AgentAdherence(ctx, agent, from, to)
		if IsNoData(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		result.Adherence = math.Min(result.Adherence, 100)
		results = append(results, *result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Adherence > results[j].Adherence
	})
	if len(results) > 5 {
		results = results[:5]
	}
	return results, nil
}

func clampContractResult(r *ContractTypeResult) *ContractTypeResult {
	if r == nil {
		return nil
	}
	r.Mean = math.Min(r.Mean, 100)
	r.Median = math.Min(r.Median, 100)
	r.Min = math.Min(r.Min, 100)
	r.Max = math.Min(r.Max, 100)
	return r
}

// =============================================================================
// IMPACT FACTOR SIMULATION
// =============================================================================

// FactorImpact is one factor's simulated what-if impact.
type FactorImpact struct {
	Factor      string
	Category    FactorCategory
	Description string
	Theoretical float64
	Simulated   float64
}

// ImpactFactorSimulation draws one sample per impact factor from a normal
// distribution centered at its theoretical percentage, and returns the
// list sorted by descending absolute simulated value.
func (c *Composer) ImpactFactorSimulation(ctx context.Context) ([]FactorImpact, error) {
	factors, err := c.Store.ListImpactFactors(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]FactorImpact, 0, len(factors))
	for _, factor := range factors {
		theoretical := factor.TheoreticalImpact.InexactFloat64()
		simulated := c.Rand.NormFloat64()*impactNoiseStdDev + theoretical
		results = append(results, FactorImpact{
			Factor:      factor.Name,
			Category:    factor.Category,
			Description: factor.Description,
			Theoretical: theoretical,
			Simulated:   round2(simulated),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return math.Abs(results[i].Simulated) > math.Abs(results[j].Simulated)
	})
	return results, nil
}

// =============================================================================
// DASHBOARD REPORT
// =============================================================================

// Dashboard is the single top-level response for the main view.
type Dashboard struct {
	From           Date
	To             Date
	Report         *Report
	Hourly         []HourResult
	Factors        []FactorImpact // top 5 by |simulated impact|
	KPITarget      *KPITarget     // first active target, nil when none
	TotalAgents    int
	FullTimeAgents int
	PartTimeAgents int
}

// DashboardReport assembles the 7-day trailing report, today's hourly
// profile, the impact simulation and roster counts. A store that is not
// initialized yet yields an empty dashboard, not an error.
func (c *Composer) DashboardReport(ctx context.Context, today Date) (*Dashboard, error) {
	from := today.AddDays(-DefaultReportDays)
	dashboard := &Dashboard{From: from, To: today}

	report, err := c.FullReport(ctx, from, today)
	if err != nil {
		if IsStoreUnavailable(err) {
			return dashboard, nil
		}
		return nil, err
	}
	dashboard.Report = report

	dashboard.Hourly, err = c.Agg.HourlyAdherence(ctx, today)
	if err != nil {
		return nil, err
	}

	factors, err := c.ImpactFactorSimulation(ctx)
	if err != nil {
		return nil, err
	}
	if len(factors) > 5 {
		factors = factors[:5]
	}
	dashboard.Factors = factors

	targets, err := c.Store.ListKPITargets(ctx, true)
	if err != nil {
		return nil, err
	}
	if len(targets) > 0 {
		dashboard.KPITarget = &targets[0]
	}

	agents, err := c.Store.ListAgents(ctx, AgentFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	dashboard.TotalAgents = len(agents)
	for _, agent := range agents {
		switch agent.ContractType {
		case ContractFullTime:
			dashboard.FullTimeAgents++
		case ContractPartTime:
			dashboard.PartTimeAgents++
		}
	}
	return dashboard, nil
}

// =============================================================================
// DRILL-DOWN AND SERIES
// =============================================================================

// ContractDrillDown is the 30-day detail view for one contract type.
// ErrNoData passes through so the caller can distinguish an empty roster
// from a zero result.
func (c *Composer) ContractDrillDown(ctx context.Context, kind ContractType, today Date) (*ContractTypeResult, error) {
	return c.Agg.ContractTypeAdherence(ctx, kind, today.AddDays(-DrillDownDays), today)
}

// DailyPoint is one day of the FT/PT adherence series.
type DailyPoint struct {
	Date     Date
	FullTime float64
	PartTime float64
	Combined float64
}

// DailySeries returns per-day contract-type adherence for the trailing
// window, oldest first. Days without data contribute zeros.
func (c *Composer) DailySeries(ctx context.Context, today Date, days int) ([]DailyPoint, error) {
	if days <= 0 {
		days = DefaultReportDays
	}

	points := make([]DailyPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := today.AddDays(-i)
		point := DailyPoint{Date: date}

		ft, err := c.Agg.ContractTypeAdherence(ctx, ContractFullTime, date, date)
		if err != nil && !IsNoData(err) {
			return nil, err
		}
		if ft != nil {
			point.FullTime = ft.Mean
		}

		pt, err := c.Agg.ContractTypeAdherence(ctx, ContractPartTime, date, date)
		if err != nil && !IsNoData(err) {
			return nil, err
		}
		if pt != nil {
			point.PartTime = pt.Mean
		}

		point.Combined = round2((point.FullTime + point.PartTime) / 2)
		points = append(points, point)
	}
	return points, nil
}

// =============================================================================
// SYSTEM SUMMARY
// =============================================================================

// Summary is the roster/volume snapshot for the status endpoint.
type Summary struct {
	TotalAgents     int
	ActiveAgents    int
	FullTimeAgents  int
	PartTimeAgents  int
	SchedulesToday  int
	ActivitiesToday int
	Status          string // "active" when today has scheduling
}

// SystemSummary reports record counts and today's scheduling state.
func (c *Composer) SystemSummary(ctx context.Context, today Date) (*Summary, error) {
	summary := &Summary{Status: "inactive"}

	all, err := c.Store.ListAgents(ctx, AgentFilter{})
	if err != nil {
		if IsStoreUnavailable(err) {
			return summary, nil
		}
		return nil, err
	}
	summary.TotalAgents = len(all)
	for _, agent := range all {
		if !agent.Active {
			continue
		}
		summary.ActiveAgents++
		switch agent.ContractType {
		case ContractFullTime:
			summary.FullTimeAgents++
		case ContractPartTime:
			summary.PartTimeAgents++
		}
	}

	schedules, err := c.Store.ListSchedules(ctx, ScheduleFilter{From: today, To: today})
	if err != nil {
		return nil, err
	}
	summary.SchedulesToday = len(schedules)
	if len(schedules) > 0 {
		summary.Status = "active"
	}

	activities, err := c.Store.ListActivities(ctx, ActivityFilter{From: today, To: today})
	if err != nil {
		return nil, err
	}
	summary.ActivitiesToday = len(activities)
	return summary, nil
}
