/*
integrity.go - Data-quality invariants and auto-correction

PURPOSE:
  Generated (and ingested) data must respect a few structural invariants
  before the engine computes over it:
  - Weekly hours match the contract type's target (40 FT, 20 PT)
  - A part-time shift never plans more than 5 hours
  - Activity durations are never negative

  The Fix functions correct violations in place and return what they
  changed; callers log the corrections. Verify scans a store and reports
  violations without mutating anything.
*/
package simulate

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/adherence-engine/adherence"
)

// Part-time planned hours above this are treated as data errors.
var partTimeMaxHours = decimal.NewFromInt(5)

// partTimeForcedHours replaces an over-planned part-time shift.
var partTimeForcedHours = decimal.NewFromInt(4)

// =============================================================================
// AUTO-CORRECTION
// =============================================================================

// FixRoster aligns each agent's weekly hours with the contract target.
func FixRoster(agents []adherence.Agent) ([]adherence.Agent, []adherence.InvariantViolation) {
	var violations []adherence.InvariantViolation
	for i, agent := range agents {
		target := agent.ContractType.WeeklyHoursTarget()
		if target == 0 || agent.WeeklyHours == target {
			continue
		}
		violations = append(violations, adherence.InvariantViolation{
			Subject: string(agent.Code),
			Field:   "weekly_hours",
			Detail:  fmt.Sprintf("%d does not match %s target %d", agent.WeeklyHours, agent.ContractType, target),
		})
		agents[i].WeeklyHours = target
	}
	return agents, violations
}

// FixSchedule caps part-time shifts at the forced 4-hour plan when they
// exceed the 5-hour limit.
func FixSchedule(agent adherence.Agent, entry adherence.ScheduleEntry) (adherence.ScheduleEntry, []adherence.InvariantViolation) {
	if agent.ContractType != adherence.ContractPartTime || entry.PlannedHours.LessThanOrEqual(partTimeMaxHours) {
		return entry, nil
	}
	violation := adherence.InvariantViolation{
		Subject: string(entry.AgentCode),
		Field:   "planned_hours",
		Detail:  fmt.Sprintf("part-time shift on %s plans %s hours, forced to %s", entry.Date, entry.PlannedHours, partTimeForcedHours),
	}
	entry.PlannedHours = partTimeForcedHours
	return entry, []adherence.InvariantViolation{violation}
}

// FixActivity flips negative durations to their absolute value.
func FixActivity(record adherence.ActivityRecord) (adherence.ActivityRecord, []adherence.InvariantViolation) {
	if record.DurationMinutes >= 0 {
		return record, nil
	}
	violation := adherence.InvariantViolation{
		Subject: record.ID,
		Field:   "duration_minutes",
		Detail:  fmt.Sprintf("negative duration %d, corrected to %d", record.DurationMinutes, -record.DurationMinutes),
	}
	record.DurationMinutes = -record.DurationMinutes
	return record, []adherence.InvariantViolation{violation}
}

// =============================================================================
// VERIFICATION
// =============================================================================

// VerifyReport summarizes a read-only integrity scan.
type VerifyReport struct {
	Counts     adherence.StoreCounts
	Violations []adherence.InvariantViolation
}

func (r *VerifyReport) Clean() bool { return len(r.Violations) == 0 }

// Verify scans the store over the trailing default window and reports
// invariant violations without correcting them.
func (g *Generator) Verify(ctx context.Context) (*VerifyReport, error) {
	report := &VerifyReport{}
	today := adherence.Today()
	from := today.AddDays(-(DefaultDays - 1))

	counts, err := g.Store.Counts(ctx)
	if err != nil {
		return nil, err
	}
	report.Counts = counts

	agents, err := g.Store.ListAgents(ctx, adherence.AgentFilter{})
	if err != nil {
		return nil, err
	}
	byCode := make(map[adherence.AgentCode]adherence.Agent, len(agents))
	for _, agent := range agents {
		byCode[agent.Code] = agent
		target := agent.ContractType.WeeklyHoursTarget()
		if target != 0 && agent.WeeklyHours != target {
			report.Violations = append(report.Violations, adherence.InvariantViolation{
				Subject: string(agent.Code),
				Field:   "weekly_hours",
				Detail:  fmt.Sprintf("%d does not match %s target %d", agent.WeeklyHours, agent.ContractType, target),
			})
		}
	}

	schedules, err := g.Store.ListSchedules(ctx, adherence.ScheduleFilter{From: from, To: today})
	if err != nil {
		return nil, err
	}
	for _, entry := range schedules {
		agent, ok := byCode[entry.AgentCode]
		if !ok {
			report.Violations = append(report.Violations, adherence.InvariantViolation{
				Subject: string(entry.AgentCode),
				Field:   "agent_code",
				Detail:  fmt.Sprintf("schedule on %s references unknown agent", entry.Date),
			})
			continue
		}
		if agent.ContractType == adherence.ContractPartTime && entry.PlannedHours.GreaterThan(partTimeMaxHours) {
			report.Violations = append(report.Violations, adherence.InvariantViolation{
				Subject: string(entry.AgentCode),
				Field:   "planned_hours",
				Detail:  fmt.Sprintf("part-time shift on %s plans %s hours", entry.Date, entry.PlannedHours),
			})
		}
	}

	activities, err := g.Store.ListActivities(ctx, adherence.ActivityFilter{From: from, To: today})
	if err != nil {
		return nil, err
	}
	for _, record := range activities {
		if record.DurationMinutes < 0 {
			report.Violations = append(report.Violations, adherence.InvariantViolation{
				Subject: record.ID,
				Field:   "duration_minutes",
				Detail:  fmt.Sprintf("negative duration %d", record.DurationMinutes),
			})
		}
	}

	for _, violation := range report.Violations {
		g.Log.Warn().Str("violation", violation.String()).Msg("integrity violation")
	}
	return report, nil
}
