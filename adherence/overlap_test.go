/*
overlap_test.go - Minute-resolution overlap semantics

Covers the half-open interval rule, window clamping, the
unscheduled-activity exclusion, and the equivalence of the naive
per-minute path and the preloaded bulk path.
*/
package adherence_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/adherence-engine/adherence"
	"github.com/warp/adherence-engine/adherence/store"
)

// =============================================================================
// TEST FIXTURES
// =============================================================================

// testDay is a Monday.
func testDay() adherence.Date {
	return adherence.NewDate(2025, time.March, 3)
}

func newTestStore() *store.TxMemory {
	return store.NewTxMemory()
}

func seedAgent(t *testing.T, s adherence.EntityStore, code adherence.AgentCode, kind adherence.ContractType) adherence.Agent {
	t.Helper()
	agent := adherence.Agent{
		Code:         code,
		Name:         "Agent " + string(code),
		ContractType: kind,
		WeeklyHours:  kind.WeeklyHoursTarget(),
		HireDate:     testDay().AddDays(-365),
		Active:       true,
	}
	require.NoError(t, s.SaveAgent(context.Background(), agent))
	return agent
}

func seedShift(t *testing.T, s adherence.EntityStore, code adherence.AgentCode, date adherence.Date, start, end adherence.ClockMinute, hours float64) {
	t.Helper()
	require.NoError(t, s.SaveSchedule(context.Background(), adherence.ScheduleEntry{
		AgentCode:     code,
		Date:          date,
		Shift:         start.String() + "-" + end.String(),
		Start:         start,
		End:           end,
		PlannedHours:  decimal.NewFromFloat(hours),
		PlannedBreaks: decimal.NewFromInt(1),
	}))
}

var activitySeq int

func seedActivity(t *testing.T, s adherence.EntityStore, code adherence.AgentCode, date adherence.Date, start, end adherence.ClockMinute, kind adherence.ActivityKind) {
	t.Helper()
	activitySeq++
	require.NoError(t, s.SaveActivity(context.Background(), adherence.ActivityRecord{
		ID:              fmt.Sprintf("%s-%s-%d", code, date, activitySeq),
		AgentCode:       code,
		Date:            date,
		Start:           date.At(start),
		End:             date.At(end),
		Kind:            kind,
		DurationMinutes: int(end - start),
	}))
}

// =============================================================================
// HALF-OPEN OVERLAP SEMANTICS
// =============================================================================

func TestOverlapsHalfOpen(t *testing.T) {
	start := adherence.NewClock(9, 0)
	end := adherence.NewClock(9, 30)

	// Minute before the span starts.
	assert.False(t, adherence.Overlaps(start, end, adherence.NewClock(8, 59)))
	// First covered minute.
	assert.True(t, adherence.Overlaps(start, end, adherence.NewClock(9, 0)))
	// Last covered minute: [09:29, 09:30) is inside [09:00, 09:30).
	assert.True(t, adherence.Overlaps(start, end, adherence.NewClock(9, 29)))
	// Exact end boundary does not count.
	assert.False(t, adherence.Overlaps(start, end, adherence.NewClock(9, 30)))
}

func TestClampToWindow(t *testing.T) {
	// GIVEN a span spilling outside 08:00-20:00 on both sides
	start, end, ok := adherence.ClampToWindow(adherence.NewClock(6, 0), adherence.NewClock(22, 0))

	// THEN it is truncated to the operating window
	require.True(t, ok)
	assert.Equal(t, adherence.WindowStart, start)
	assert.Equal(t, adherence.WindowEnd, end)

	// AND a span entirely outside the window is rejected
	_, _, ok = adherence.ClampToWindow(adherence.NewClock(21, 0), adherence.NewClock(23, 0))
	assert.False(t, ok)
}

// =============================================================================
// MINUTE SNAPSHOTS
// =============================================================================

func TestMinuteSnapshotScheduledAndActive(t *testing.T) {
	// GIVEN one agent scheduled 08:00-16:00 with a call 09:00-09:30
	s := newTestStore()
	agent := seedAgent(t, s, "AGT001", adherence.ContractFullTime)
	seedShift(t, s, agent.Code, testDay(), adherence.NewClock(8, 0), adherence.NewClock(16, 0), 8)
	seedActivity(t, s, agent.Code, testDay(), adherence.NewClock(9, 0), adherence.NewClock(9, 30), adherence.ActivityCall)

	engine := &adherence.OverlapEngine{Store: s}

	// WHEN inspecting a minute inside the call
	snap, err := engine.MinuteSnapshot(context.Background(), testDay(), adherence.NewClock(9, 15))
	require.NoError(t, err)

	// THEN the agent is both scheduled and active
	assert.Equal(t, 1, snap.ScheduledCount())
	assert.Equal(t, 1, snap.ActiveCount())
	assert.Equal(t, 100.0, snap.Adherence())

	// AND a scheduled minute outside the call is idle
	snap, err = engine.MinuteSnapshot(context.Background(), testDay(), adherence.NewClock(10, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, snap.ScheduledCount())
	assert.Equal(t, 0, snap.ActiveCount())
	assert.Equal(t, 0.0, snap.Adherence())
}

func TestMinuteSnapshotZeroScheduled(t *testing.T) {
	// GIVEN a store with no schedules
	s := newTestStore()
	engine := &adherence.OverlapEngine{Store: s}

	snap, err := engine.MinuteSnapshot(context.Background(), testDay(), adherence.NewClock(10, 0))
	require.NoError(t, err)

	// THEN the minute has adherence 0, not an error or NaN
	assert.Equal(t, 0, snap.ScheduledCount())
	assert.Equal(t, 0.0, snap.Adherence())
}

func TestMinuteSnapshotIgnoresUnproductiveKinds(t *testing.T) {
	// GIVEN a scheduled agent on lunch
	s := newTestStore()
	agent := seedAgent(t, s, "AGT001", adherence.ContractFullTime)
	seedShift(t, s, agent.Code, testDay(), adherence.NewClock(8, 0), adherence.NewClock(16, 0), 8)
	seedActivity(t, s, agent.Code, testDay(), adherence.NewClock(12, 0), adherence.NewClock(13, 0), adherence.ActivityLunch)

	engine := &adherence.OverlapEngine{Store: s}
	snap, err := engine.MinuteSnapshot(context.Background(), testDay(), adherence.NewClock(12, 30))
	require.NoError(t, err)

	// THEN lunch does not count as active
	assert.Equal(t, 1, snap.ScheduledCount())
	assert.Equal(t, 0, snap.ActiveCount())
}

func TestMinuteSnapshotIgnoresUnscheduledAgents(t *testing.T) {
	// GIVEN an agent logging calls without any schedule
	s := newTestStore()
	agent := seedAgent(t, s, "AGT001", adherence.ContractFullTime)
	seedActivity(t, s, agent.Code, testDay(), adherence.NewClock(9, 0), adherence.NewClock(10, 0), adherence.ActivityCall)

	// AND a scheduled colleague so the minute has scheduling
	other := seedAgent(t, s, "AGT002", adherence.ContractFullTime)
	seedShift(t, s, other.Code, testDay(), adherence.NewClock(8, 0), adherence.NewClock(16, 0), 8)

	engine := &adherence.OverlapEngine{Store: s}
	snap, err := engine.MinuteSnapshot(context.Background(), testDay(), adherence.NewClock(9, 30))
	require.NoError(t, err)

	// THEN the unscheduled agent's activity never counts
	assert.Equal(t, 1, snap.ScheduledCount())
	assert.Equal(t, 0, snap.ActiveCount())
}

// =============================================================================
// PATH EQUIVALENCE - Naive per-minute vs preloaded bulk
// =============================================================================

func TestNaiveAndBulkPathsAgree(t *testing.T) {
	// GIVEN a day with overlapping shifts, boundary-touching activities and
	// spans spilling past the operating window
	s := newTestStore()
	day := testDay()

	a := seedAgent(t, s, "AGT001", adherence.ContractFullTime)
	b := seedAgent(t, s, "AGT002", adherence.ContractFullTime)
	c := seedAgent(t, s, "AGT003", adherence.ContractPartTime)

	seedShift(t, s, a.Code, day, adherence.NewClock(8, 0), adherence.NewClock(16, 0), 8)
	seedShift(t, s, b.Code, day, adherence.NewClock(12, 0), adherence.NewClock(20, 0), 8)
	// Shift spilling before opening: clamped to 08:00.
	seedShift(t, s, c.Code, day, adherence.NewClock(6, 0), adherence.NewClock(12, 0), 4)

	seedActivity(t, s, a.Code, day, adherence.NewClock(8, 0), adherence.NewClock(9, 0), adherence.ActivityCall)
	seedActivity(t, s, a.Code, day, adherence.NewClock(9, 0), adherence.NewClock(9, 45), adherence.ActivityAvailable)
	seedActivity(t, s, b.Code, day, adherence.NewClock(12, 30), adherence.NewClock(14, 0), adherence.ActivityTraining)
	// Activity running past closing: clamped to 20:00.
	seedActivity(t, s, b.Code, day, adherence.NewClock(19, 0), adherence.NewClock(21, 0), adherence.ActivityCall)
	seedActivity(t, s, c.Code, day, adherence.NewClock(7, 0), adherence.NewClock(8, 30), adherence.ActivityAdmin)
	// Unproductive span, must not show up on either path.
	seedActivity(t, s, c.Code, day, adherence.NewClock(10, 0), adherence.NewClock(11, 0), adherence.ActivityLunch)

	engine := &adherence.OverlapEngine{Store: s}
	coverage, err := engine.LoadDay(context.Background(), day)
	require.NoError(t, err)

	// THEN both paths agree on every minute of the operating window
	for m := adherence.WindowStart; m < adherence.WindowEnd; m++ {
		naive, err := engine.MinuteSnapshot(context.Background(), day, m)
		require.NoError(t, err)
		bulk := coverage.Minute(m)

		assert.Equal(t, naive.Scheduled, bulk.Scheduled, "scheduled set at %s", m)
		assert.Equal(t, naive.Active, bulk.Active, "active set at %s", m)
		assert.Equal(t, naive.Adherence(), bulk.Adherence(), "adherence at %s", m)
	}
}

func TestBulkPathClampsToWindow(t *testing.T) {
	// GIVEN a shift spilling past both window edges
	s := newTestStore()
	agent := seedAgent(t, s, "AGT001", adherence.ContractFullTime)
	seedShift(t, s, agent.Code, testDay(), adherence.NewClock(6, 0), adherence.NewClock(22, 0), 8)

	engine := &adherence.OverlapEngine{Store: s}
	coverage, err := engine.LoadDay(context.Background(), testDay())
	require.NoError(t, err)

	// THEN scheduling exists only inside 08:00-20:00
	assert.Equal(t, 0, coverage.Minute(adherence.NewClock(7, 59)).ScheduledCount())
	assert.Equal(t, 1, coverage.Minute(adherence.NewClock(8, 0)).ScheduledCount())
	assert.Equal(t, 1, coverage.Minute(adherence.NewClock(19, 59)).ScheduledCount())
	assert.Equal(t, 0, coverage.Minute(adherence.NewClock(20, 0)).ScheduledCount())
}
