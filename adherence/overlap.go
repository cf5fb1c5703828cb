/*
overlap.go - Minute-resolution scheduled/active overlap engine

PURPOSE:
  Answers, for any minute of an operating day: which agents were scheduled
  to work that exact minute, and which of them were concurrently engaged in
  a productive activity. Everything above (hourly rollups, consistency
  scores) is built on these per-minute snapshots.

WHY MINUTE GRANULARITY:
  Comparing whole shift ranges against whole activity ranges lets a burst
  of afternoon activity compensate for an idle morning. Minute-by-minute
  comparison detects the real gaps. Only the minute-granular algorithm is
  authoritative here; the whole-range variant is intentionally absent.

TWO EQUIVALENT PATHS:
  MinuteSnapshot: queries the store per minute (simple, used as the
                  reference oracle in tests)
  LoadDay:        loads the day's records once and buckets them by
                  absolute minute-of-day (what the aggregator uses)
  Both must produce identical results for every minute; this equivalence
  is a core correctness property and is pinned by tests.

OVERLAP SEMANTICS:
  A span [start, end) overlaps minute m = [m, m+1) iff
  start < m+1 AND end > m. Half-open: exact boundary touches don't count.

ZERO-SCHEDULED POLICY:
  A minute with no scheduled agents has adherence 0 (not N/A). Trade-off:
  this can understate performance on minutes with zero scheduled staff,
  which is why the hourly rollup excludes such minutes instead (see
  aggregator.go).
*/
package adherence

import "context"

// =============================================================================
// MINUTE SNAPSHOT
// =============================================================================

// MinuteSnapshot is the overlap result for one minute of one day.
type MinuteSnapshot struct {
	Date   Date
	Minute ClockMinute

	// Scheduled holds agents whose (window-clamped) shift covers this
	// minute. Active holds the scheduled agents concurrently engaged in a
	// productive activity; it is always a subset of Scheduled.
	Scheduled map[AgentCode]bool
	Active    map[AgentCode]bool
}

func (s MinuteSnapshot) ScheduledCount() int { return len(s.Scheduled) }
func (s MinuteSnapshot) ActiveCount() int    { return len(s.Active) }

// Adherence returns active/scheduled as a percentage, 0 when no agents
// are scheduled this minute.
func (s MinuteSnapshot) Adherence() float64 {
	if len(s.Scheduled) == 0 {
		return 0
	}
	return float64(len(s.Active)) / float64(len(s.Scheduled)) * 100
}

// =============================================================================
// OVERLAP ENGINE
// =============================================================================

// OverlapEngine computes minute-resolution coverage from an EntityStore.
type OverlapEngine struct {
	Store EntityStore
}

// MinuteSnapshot is the naive path: it queries the store for the given
// minute and applies the half-open overlap test entry by entry.
func (e *OverlapEngine) MinuteSnapshot(ctx context.Context, date Date, minute ClockMinute) (MinuteSnapshot, error) {
	snap := MinuteSnapshot{
		Date:      date,
		Minute:    minute,
		Scheduled: make(map[AgentCode]bool),
		Active:    make(map[AgentCode]bool),
	}

	schedules, err := e.Store.ListSchedules(ctx, ScheduleFilter{From: date, To: date})
	if err != nil {
		return snap, err
	}
	for _, entry := range schedules {
		start, end, ok := ClampToWindow(entry.Start, entry.End)
		if !ok || !Overlaps(start, end, minute) {
			continue
		}
		snap.Scheduled[entry.AgentCode] = true
	}

	if len(snap.Scheduled) == 0 {
		return snap, nil
	}

	activities, err := e.Store.ListActivities(ctx, ActivityFilter{
		From:  date,
		To:    date,
		Kinds: ProductiveKinds,
	})
	if err != nil {
		return snap, err
	}
	for _, record := range activities {
		if !snap.Scheduled[record.AgentCode] {
			continue
		}
		start, end, ok := ClampToWindow(record.Window())
		if !ok || !Overlaps(start, end, minute) {
			continue
		}
		snap.Active[record.AgentCode] = true
	}
	return snap, nil
}

// =============================================================================
// DAY COVERAGE - Preloaded bulk path
// =============================================================================

// DayCoverage holds one operating day's records bucketed by absolute
// minute-of-day. Build it once with LoadDay, then read any minute without
// further store access.
type DayCoverage struct {
	date      Date
	scheduled map[ClockMinute]map[AgentCode]bool
	active    map[ClockMinute]map[AgentCode]bool
}

// LoadDay loads all of the day's schedule entries and productive
// activities in two queries and expands them minute by minute across the
// operating window.
func (e *OverlapEngine) LoadDay(ctx context.Context, date Date) (*DayCoverage, error) {
	cov := &DayCoverage{
		date:      date,
		scheduled: make(map[ClockMinute]map[AgentCode]bool),
		active:    make(map[ClockMinute]map[AgentCode]bool),
	}

	schedules, err := e.Store.ListSchedules(ctx, ScheduleFilter{From: date, To: date})
	if err != nil {
		return nil, err
	}
	for _, entry := range schedules {
		start, end, ok := ClampToWindow(entry.Start, entry.End)
		if !ok {
			continue
		}
		for m := start; m < end; m++ {
			bucket := cov.scheduled[m]
			if bucket == nil {
				bucket = make(map[AgentCode]bool)
				cov.scheduled[m] = bucket
			}
			bucket[entry.AgentCode] = true
		}
	}

	activities, err := e.Store.ListActivities(ctx, ActivityFilter{
		From:  date,
		To:    date,
		Kinds: ProductiveKinds,
	})
	if err != nil {
		return nil, err
	}
	for _, record := range activities {
		start, end, ok := ClampToWindow(record.Window())
		if !ok {
			continue
		}
		for m := start; m < end; m++ {
			bucket := cov.active[m]
			if bucket == nil {
				bucket = make(map[AgentCode]bool)
				cov.active[m] = bucket
			}
			bucket[record.AgentCode] = true
		}
	}
	return cov, nil
}

// Minute returns the snapshot for one minute. Results are identical to
// the naive MinuteSnapshot path for every minute of the operating window.
func (c *DayCoverage) Minute(minute ClockMinute) MinuteSnapshot {
	snap := MinuteSnapshot{
		Date:      c.date,
		Minute:    minute,
		Scheduled: make(map[AgentCode]bool),
		Active:    make(map[AgentCode]bool),
	}
	for code := range c.scheduled[minute] {
		snap.Scheduled[code] = true
	}
	// Intersect: an unscheduled agent's activity never counts.
	for code := range c.active[minute] {
		if snap.Scheduled[code] {
			snap.Active[code] = true
		}
	}
	return snap
}
