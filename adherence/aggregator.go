/*
aggregator.go - Rollups of per-minute overlap into agent, contract-type
and hourly adherence

PURPOSE:
  Turns raw schedule/activity data into the three mid-level metrics the
  reports are built from:
  - AgentAdherence:        productive vs planned minutes for one agent
  - ContractTypeAdherence: distribution stats across one contract type
  - HourlyAdherence:       minute-granular hour profile for one day

NO-DATA HANDLING:
  An agent with zero schedule entries in range yields ErrNoData, never a
  zero result. An agent with schedules but zero activities yields exactly
  0.0. A contract type where every agent yields ErrNoData itself yields
  ErrNoData. Callers exclude no-data subjects from averages.

HOURLY ZERO-SCHEDULED POLICY:
  Unlike the raw per-minute default (0%), the hourly average only covers
  minutes that had at least one scheduled agent. An hour with no scheduled
  minutes at all reports zeros and the NoSchedule status, and is excluded
  from any average-of-hours computation downstream.
*/
package adherence

import (
	"context"
	"math"
	"sort"
)

// =============================================================================
// ROUNDING
// =============================================================================

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round1(v float64) float64 { return math.Round(v*10) / 10 }

// =============================================================================
// AGGREGATOR
// =============================================================================

// Aggregator computes adherence rollups over an EntityStore snapshot.
type Aggregator struct {
	Store EntityStore
}

func NewAggregator(store EntityStore) *Aggregator {
	return &Aggregator{Store: store}
}

// =============================================================================
// PER-AGENT ADHERENCE
// =============================================================================

// AgentResult is one agent's adherence over a date range.
type AgentResult struct {
	Agent             Agent
	Adherence         float64 // percent, 2 decimals, capped at 100
	ProductiveMinutes int
	PlannedMinutes    float64
	DaysAnalyzed      int
}

// AgentAdherence computes productive-vs-planned adherence for one agent
// over [from, to]. Returns ErrNoData when the agent has no schedule
// entries in range. Zero planned minutes yields adherence 0, not a
// division error.
func (g *Aggregator) AgentAdherence(ctx context.Context, agent Agent, from, to Date) (*AgentResult, error) {
	if to.Before(from) {
		return nil, ErrInvalidRange
	}

	schedules, err := g.Store.ListSchedules(ctx, ScheduleFilter{
		AgentCode: &agent.Code,
		From:      from,
		To:        to,
	})
	if err != nil {
		return nil, err
	}
	if len(schedules) == 0 {
		return nil, ErrNoData
	}

	planned := 0.0
	for _, entry := range schedules {
		planned += entry.PlannedMinutes().InexactFloat64()
	}

	activities, err := g.Store.ListActivities(ctx, ActivityFilter{
		AgentCode: &agent.Code,
		From:      from,
		To:        to,
		Kinds:     ProductiveKinds,
	})
	if err != nil {
		return nil, err
	}
	productive := 0
	for _, record := range activities {
		productive += record.DurationMinutes
	}

	adherence := 0.0
	if planned > 0 {
		adherence = math.Min(float64(productive)/planned*100, 100)
	}

	return &AgentResult{
		Agent:             agent,
		Adherence:         round2(adherence),
		ProductiveMinutes: productive,
		PlannedMinutes:    planned,
		DaysAnalyzed:      len(schedules),
	}, nil
}

// =============================================================================
// CONTRACT-TYPE ADHERENCE
// =============================================================================

// ContractTypeResult summarizes adherence across one contract type's
// active agents that produced data.
type ContractTypeResult struct {
	ContractType ContractType
	Mean         float64
	Median       float64
	AgentCount   int
	Min          float64
	Max          float64
}

// ContractTypeAdherence computes AgentAdherence for every active agent of
// the given contract type and summarizes the distribution. Agents without
// data are excluded; if none produced data the result is ErrNoData.
func (g *Aggregator) ContractTypeAdherence(ctx context.Context, kind ContractType, from, to Date) (*ContractTypeResult, error) {
	if !kind.Valid() {
		return nil, ErrUnknownContractType
	}

	agents, err := g.Store.ListAgents(ctx, AgentFilter{ContractType: &kind, ActiveOnly: true})
	if err != nil {
		return nil, err
	}

	var values []float64
	for _, agent := range agents {
		result, err := g.AgentAdherence(ctx, agent, from, to)
		if IsNoData(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		values = append(values, result.Adherence)
	}
	if len(values) == 0 {
		return nil, ErrNoData
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	return &ContractTypeResult{
		ContractType: kind,
		Mean:         round2(mean(values)),
		Median:       round2(median(sorted)),
		AgentCount:   len(values),
		Min:          round2(sorted[0]),
		Max:          round2(sorted[len(sorted)-1]),
	}, nil
}

func mean(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

// median expects sorted input.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// =============================================================================
// HOURLY ADHERENCE
// =============================================================================

type HourStatus string

const (
	StatusExcellent  HourStatus = "excellent"   // >= 90
	StatusAcceptable HourStatus = "acceptable"  // >= 80
	StatusCritical   HourStatus = "critical"    // >= 60
	StatusSevere     HourStatus = "severe"      // < 60
	StatusNoSchedule HourStatus = "no_schedule" // 0 scheduled minutes
)

// Thresholds for problem-minute counting.
const (
	lowAdherenceThreshold      = 80.0
	criticalAdherenceThreshold = 50.0
)

func statusFor(adherence float64) HourStatus {
	switch {
	case adherence >= 90:
		return StatusExcellent
	case adherence >= 80:
		return StatusAcceptable
	case adherence >= 60:
		return StatusCritical
	default:
		return StatusSevere
	}
}

// HourResult is the minute-granular profile of one operating hour.
type HourResult struct {
	Hour             int
	Label            string  // "08:00"
	Adherence        float64 // avg over minutes with scheduling, 2 decimals
	ScheduledAvg     float64 // avg scheduled agents, 1 decimal
	ActiveAvg        float64 // avg active agents, 1 decimal
	ScheduledMinutes int     // minutes with at least one scheduled agent
	LowMinutes       int     // minutes below 80%
	CriticalMinutes  int     // minutes below 50%
	Consistency      float64 // % of scheduled minutes not low, 1 decimal
	Status           HourStatus
}

// HourlyAdherence computes the per-hour profile for hours 8..19 of the
// given date using the preloaded bulk overlap path.
func (g *Aggregator) HourlyAdherence(ctx context.Context, date Date) ([]HourResult, error) {
	engine := &OverlapEngine{Store: g.Store}
	coverage, err := engine.LoadDay(ctx, date)
	if err != nil {
		return nil, err
	}

	results := make([]HourResult, 0, ClosingHour-OpeningHour)
	for hour := OpeningHour; hour < ClosingHour; hour++ {
		results = append(results, hourProfile(coverage, hour))
	}
	return results, nil
}

func hourProfile(coverage *DayCoverage, hour int) HourResult {
	result := HourResult{
		Hour:   hour,
		Label:  NewClock(hour, 0).String(),
		Status: StatusNoSchedule,
	}

	var adherenceSum, scheduledSum, activeSum float64
	for minute := 0; minute < 60; minute++ {
		snap := coverage.Minute(NewClock(hour, minute))
		if snap.ScheduledCount() == 0 {
			continue
		}
		adherence := snap.Adherence()
		result.ScheduledMinutes++
		adherenceSum += adherence
		scheduledSum += float64(snap.ScheduledCount())
		activeSum += float64(snap.ActiveCount())
		if adherence < lowAdherenceThreshold {
			result.LowMinutes++
		}
		if adherence < criticalAdherenceThreshold {
			result.CriticalMinutes++
		}
	}

	if result.ScheduledMinutes == 0 {
		return result
	}

	n := float64(result.ScheduledMinutes)
	result.Adherence = round2(adherenceSum / n)
	result.ScheduledAvg = round1(scheduledSum / n)
	result.ActiveAvg = round1(activeSum / n)
	result.Consistency = round1(float64(result.ScheduledMinutes-result.LowMinutes) / n * 100)
	result.Status = statusFor(result.Adherence)
	return result
}

// =============================================================================
// INSTANT ADHERENCE - Whole-day ratio for the live dashboard tile
// =============================================================================

type InstantResult struct {
	Date              Date
	Adherence         float64
	PlannedMinutes    float64
	ProductiveMinutes int
	ScheduledAgents   int
	ProductiveRecords int
	Status            string // "active", "idle" or "no_schedule"
}

// InstantAdherence computes the whole-day planned-vs-productive ratio for
// a single date across all agents.
func (g *Aggregator) InstantAdherence(ctx context.Context, date Date) (*InstantResult, error) {
	schedules, err := g.Store.ListSchedules(ctx, ScheduleFilter{From: date, To: date})
	if err != nil {
		return nil, err
	}
	if len(schedules) == 0 {
		return &InstantResult{Date: date, Status: "no_schedule"}, nil
	}

	planned := 0.0
	for _, entry := range schedules {
		planned += entry.PlannedMinutes().InexactFloat64()
	}

	activities, err := g.Store.ListActivities(ctx, ActivityFilter{
		From:  date,
		To:    date,
		Kinds: ProductiveKinds,
	})
	if err != nil {
		return nil, err
	}
	productive := 0
	for _, record := range activities {
		productive += record.DurationMinutes
	}

	adherence := 0.0
	if planned > 0 {
		adherence = math.Min(float64(productive)/planned*100, 100)
	}
	status := "idle"
	if productive > 0 {
		status = "active"
	}

	return &InstantResult{
		Date:              date,
		Adherence:         round2(adherence),
		PlannedMinutes:    planned,
		ProductiveMinutes: productive,
		ScheduledAgents:   len(schedules),
		ProductiveRecords: len(activities),
		Status:            status,
	}, nil
}
