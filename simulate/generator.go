/*
Package simulate generates synthetic roster, schedule and activity data.

PURPOSE:
  The adherence engine is demonstrated and tested against a synthetic
  world: a fixed demo roster, planned shifts on business days, and
  activity records that tile each shift without gaps. This package builds
  that world and keeps it internally consistent.

KEY OPERATIONS:
  RegenerateAll: Wipe and rebuild everything for a trailing day window,
                 atomically. A failure partway leaves the previous data
                 untouched.
  QuickSeed:     Non-destructive minimal seed (roster + today only) for
                 demos and smoke tests.
  Verify:        Report data-quality violations without mutating.

GAP-FREE TILING:
  Activities are generated by walking a cursor from shift start to shift
  end, drawing a kind from the contract type's weighted mix and a duration
  from the kind's range. The final activity is truncated at shift end, so
  generated intervals exactly cover the shift.

SEE ALSO:
  - profiles.go: Roster, shift templates, mixes, duration ranges
  - integrity.go: Auto-correction of invariant violations
*/
package simulate

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/warp/adherence-engine/adherence"
)

// DefaultDays is the trailing window regenerated when the caller does not
// pick one.
const DefaultDays = 30

// =============================================================================
// GENERATOR
// =============================================================================

// Generator builds synthetic adherence data in a TxStore.
type Generator struct {
	Store adherence.TxStore
	Rand  *rand.Rand
	Log   zerolog.Logger
}

// NewGenerator creates a generator with a time-seeded random source.
func NewGenerator(store adherence.TxStore, log zerolog.Logger) *Generator {
	return &Generator{
		Store: store,
		Rand:  rand.New(rand.NewSource(time.Now().UnixNano())),
		Log:   log,
	}
}

// WithRand replaces the random source. Tests pin the seed through this.
func (g *Generator) WithRand(r *rand.Rand) *Generator {
	g.Rand = r
	return g
}

// RegenerationResult summarizes one regeneration run.
type RegenerationResult struct {
	Days           int
	From           adherence.Date
	To             adherence.Date
	Agents         int
	Schedules      int
	Activities     int
	ActivityByKind map[adherence.ActivityKind]int
	Corrections    []adherence.InvariantViolation
}

// =============================================================================
// FULL REGENERATION - Atomic wipe and rebuild
// =============================================================================

// RegenerateAll deletes all roster, schedule and activity data and
// rebuilds it for the trailing window of the given length, ending today.
// The whole run happens in one transaction.
func (g *Generator) RegenerateAll(ctx context.Context, days int) (*RegenerationResult, error) {
	if days <= 0 {
		days = DefaultDays
	}
	today := adherence.Today()
	from := today.AddDays(-(days - 1))

	result := &RegenerationResult{Days: days, From: from, To: today}

	err := g.Store.WithTx(ctx, func(s adherence.EntityStore) error {
		if err := s.DeleteAllActivities(ctx); err != nil {
			return fmt.Errorf("clear activities: %w", err)
		}
		if err := s.DeleteAllSchedules(ctx); err != nil {
			return fmt.Errorf("clear schedules: %w", err)
		}
		if err := s.DeleteAllAgents(ctx); err != nil {
			return fmt.Errorf("clear agents: %w", err)
		}

		agents, corrections, err := g.createRoster(ctx, s)
		if err != nil {
			return err
		}
		result.Corrections = corrections

		for date := from; !date.After(today); date = date.AddDays(1) {
			if !date.IsWorkday() {
				continue
			}
			for _, agent := range agents {
				entry, fixes := g.planShift(agent, date)
				result.Corrections = append(result.Corrections, fixes...)
				if err := s.SaveSchedule(ctx, entry); err != nil {
					return fmt.Errorf("save schedule %s/%s: %w", agent.Code, date, err)
				}
				result.Schedules++

				records, fixes := g.tileShift(agent, entry)
				result.Corrections = append(result.Corrections, fixes...)
				for _, record := range records {
					if err := s.SaveActivity(ctx, record); err != nil {
						return fmt.Errorf("save activity %s: %w", record.ID, err)
					}
				}
				result.Activities += len(records)
			}
		}

		counts, err := s.Counts(ctx)
		if err != nil {
			return err
		}
		result.Agents = counts.Agents
		result.ActivityByKind = counts.ActivityByKind
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, violation := range result.Corrections {
		g.Log.Warn().Str("violation", violation.String()).Msg("auto-corrected during regeneration")
	}
	g.Log.Info().
		Int("days", result.Days).
		Int("agents", result.Agents).
		Int("schedules", result.Schedules).
		Int("activities", result.Activities).
		Msg("regeneration complete")
	return result, nil
}

// =============================================================================
// QUICK SEED - Minimal, non-destructive
// =============================================================================

// QuickSeed creates the roster if the store is empty and generates
// schedules plus activities for today only. Existing data is kept;
// today's entries are overwritten by the upsert semantics.
func (g *Generator) QuickSeed(ctx context.Context) (*RegenerationResult, error) {
	today := adherence.Today()
	result := &RegenerationResult{Days: 1, From: today, To: today}

	err := g.Store.WithTx(ctx, func(s adherence.EntityStore) error {
		agents, err := s.ListAgents(ctx, adherence.AgentFilter{ActiveOnly: true})
		if err != nil {
			return err
		}
		if len(agents) == 0 {
			agents, result.Corrections, err = g.createRoster(ctx, s)
			if err != nil {
				return err
			}
		}

		for _, agent := range agents {
			entry, fixes := g.planShift(agent, today)
			result.Corrections = append(result.Corrections, fixes...)
			if err := s.SaveSchedule(ctx, entry); err != nil {
				return err
			}
			result.Schedules++

			records, fixes := g.tileShift(agent, entry)
			result.Corrections = append(result.Corrections, fixes...)
			for _, record := range records {
				if err := s.SaveActivity(ctx, record); err != nil {
					return err
				}
			}
			result.Activities += len(records)
		}

		counts, err := s.Counts(ctx)
		if err != nil {
			return err
		}
		result.Agents = counts.Agents
		result.ActivityByKind = counts.ActivityByKind
		return nil
	})
	if err != nil {
		return nil, err
	}

	g.Log.Info().
		Int("schedules", result.Schedules).
		Int("activities", result.Activities).
		Msg("quick seed complete")
	return result, nil
}

// =============================================================================
// ROSTER
// =============================================================================

// createRoster saves the demo roster plus the KPI target and impact
// factor seed data, running the roster through the integrity pass first.
func (g *Generator) createRoster(ctx context.Context, s adherence.EntityStore) ([]adherence.Agent, []adherence.InvariantViolation, error) {
	today := adherence.Today()

	agents := make([]adherence.Agent, 0, len(defaultRoster))
	for _, seed := range defaultRoster {
		agents = append(agents, adherence.Agent{
			Code:         seed.Code,
			Name:         seed.Name,
			Email:        emailFor(seed.Name),
			ContractType: seed.Kind,
			WeeklyHours:  seed.Kind.WeeklyHoursTarget(),
			HireDate:     today.AddDays(-365),
			Active:       true,
		})
	}
	agents, corrections := FixRoster(agents)

	for _, agent := range agents {
		if err := s.SaveAgent(ctx, agent); err != nil {
			return nil, nil, fmt.Errorf("save agent %s: %w", agent.Code, err)
		}
	}

	for _, seed := range defaultKPITargets {
		target := adherence.KPITarget{
			Name:        seed.Name,
			Description: seed.Name + " target for the current period",
			Kind:        seed.Kind,
			Target:      seed.Target,
			Floor:       seed.Floor,
			From:        today.AddDays(-DefaultDays),
			Active:      true,
		}
		if err := s.SaveKPITarget(ctx, target); err != nil {
			return nil, nil, fmt.Errorf("save KPI target %q: %w", seed.Name, err)
		}
	}

	for _, factor := range defaultImpactFactors {
		if err := s.SaveImpactFactor(ctx, factor); err != nil {
			return nil, nil, fmt.Errorf("save impact factor %q: %w", factor.Name, err)
		}
	}
	return agents, corrections, nil
}

func emailFor(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com"
}

// =============================================================================
// SHIFT PLANNING AND TILING
// =============================================================================

// planShift picks a random shift template for the agent's contract type
// and runs the resulting entry through the integrity pass.
func (g *Generator) planShift(agent adherence.Agent, date adherence.Date) (adherence.ScheduleEntry, []adherence.InvariantViolation) {
	templates := shiftsFor(agent.ContractType)
	template := templates[g.Rand.Intn(len(templates))]

	entry := adherence.ScheduleEntry{
		AgentCode:     agent.Code,
		Date:          date,
		Shift:         template.Label,
		Start:         template.Start,
		End:           template.End,
		PlannedHours:  template.Hours,
		PlannedBreaks: template.Breaks,
	}
	return FixSchedule(agent, entry)
}

// tileShift generates activity records covering the shift without gaps.
// The last activity is truncated at shift end.
func (g *Generator) tileShift(agent adherence.Agent, entry adherence.ScheduleEntry) ([]adherence.ActivityRecord, []adherence.InvariantViolation) {
	mix := mixFor(agent.ContractType)

	var records []adherence.ActivityRecord
	var corrections []adherence.InvariantViolation
	for cursor := entry.Start; cursor < entry.End; {
		kind := mix[g.Rand.Intn(len(mix))]
		span := durationRanges[kind]
		duration := span.Min
		if span.Max > span.Min {
			duration += g.Rand.Intn(span.Max - span.Min + 1)
		}
		if cursor+adherence.ClockMinute(duration) > entry.End {
			duration = int(entry.End - cursor)
		}

		record := adherence.ActivityRecord{
			ID:              uuid.NewString(),
			AgentCode:       agent.Code,
			Date:            entry.Date,
			Start:           entry.Date.At(cursor),
			End:             entry.Date.At(cursor + adherence.ClockMinute(duration)),
			Kind:            kind,
			DurationMinutes: duration,
		}
		if kind == adherence.ActivityCall {
			record.CallsHandled = 1 + g.Rand.Intn(3)
			record.TalkTimeMinutes = duration * 7 / 10
		}

		record, fixes := FixActivity(record)
		corrections = append(corrections, fixes...)
		records = append(records, record)
		cursor += adherence.ClockMinute(duration)
	}
	return records, corrections
}
