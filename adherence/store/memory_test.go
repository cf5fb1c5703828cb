package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/adherence-engine/adherence"
)

func day() adherence.Date { return adherence.NewDate(2025, time.March, 3) }

func TestMemoryAgentFilters(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	require.NoError(t, s.SaveAgent(ctx, adherence.Agent{Code: "AGT002", ContractType: adherence.ContractPartTime, Active: true}))
	require.NoError(t, s.SaveAgent(ctx, adherence.Agent{Code: "AGT001", ContractType: adherence.ContractFullTime, Active: true}))
	require.NoError(t, s.SaveAgent(ctx, adherence.Agent{Code: "AGT003", ContractType: adherence.ContractFullTime, Active: false}))

	// Unfiltered listing is sorted by code.
	all, err := s.ListAgents(ctx, adherence.AgentFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, adherence.AgentCode("AGT001"), all[0].Code)

	ft := adherence.ContractFullTime
	active, err := s.ListAgents(ctx, adherence.AgentFilter{ContractType: &ft, ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, adherence.AgentCode("AGT001"), active[0].Code)
}

func TestMemoryScheduleUpsertByAgentAndDate(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	entry := adherence.ScheduleEntry{
		AgentCode:    "AGT001",
		Date:         day(),
		Start:        adherence.NewClock(8, 0),
		End:          adherence.NewClock(16, 0),
		PlannedHours: decimal.NewFromInt(8),
	}
	require.NoError(t, s.SaveSchedule(ctx, entry))

	// Saving the same (agent, date) replaces, never duplicates.
	entry.Start = adherence.NewClock(12, 0)
	entry.End = adherence.NewClock(20, 0)
	require.NoError(t, s.SaveSchedule(ctx, entry))

	entries, err := s.ListSchedules(ctx, adherence.ScheduleFilter{From: day(), To: day()})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, adherence.NewClock(12, 0), entries[0].Start)
}

func TestMemoryActivityKindFilter(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	for i, kind := range []adherence.ActivityKind{adherence.ActivityCall, adherence.ActivityLunch, adherence.ActivityAdmin} {
		require.NoError(t, s.SaveActivity(ctx, adherence.ActivityRecord{
			ID:        string(rune('a' + i)),
			AgentCode: "AGT001",
			Date:      day(),
			Start:     day().At(adherence.NewClock(8+i, 0)),
			End:       day().At(adherence.NewClock(9+i, 0)),
			Kind:      kind,
		}))
	}

	productive, err := s.ListActivities(ctx, adherence.ActivityFilter{
		From: day(), To: day(), Kinds: adherence.ProductiveKinds,
	})
	require.NoError(t, err)
	require.Len(t, productive, 2)
	assert.Equal(t, adherence.ActivityCall, productive[0].Kind)
	assert.Equal(t, adherence.ActivityAdmin, productive[1].Kind)
}

func TestTxMemoryRollbackOnError(t *testing.T) {
	s := NewTxMemory()
	ctx := context.Background()
	require.NoError(t, s.SaveAgent(ctx, adherence.Agent{Code: "AGT001", ContractType: adherence.ContractFullTime, Active: true}))

	// GIVEN a transaction that writes and deletes, then fails
	err := s.WithTx(ctx, func(view adherence.EntityStore) error {
		if err := view.DeleteAllAgents(ctx); err != nil {
			return err
		}
		if err := view.SaveAgent(ctx, adherence.Agent{Code: "AGT099"}); err != nil {
			return err
		}
		return errors.New("boom")
	})
	require.Error(t, err)

	// THEN every change inside the transaction is rolled back
	agents, err := s.ListAgents(ctx, adherence.AgentFilter{})
	require.NoError(t, err)
	require.Len(t, agents, 1)
	assert.Equal(t, adherence.AgentCode("AGT001"), agents[0].Code)
}

func TestTxMemoryCommitOnSuccess(t *testing.T) {
	s := NewTxMemory()
	ctx := context.Background()

	err := s.WithTx(ctx, func(view adherence.EntityStore) error {
		return view.SaveAgent(ctx, adherence.Agent{Code: "AGT001"})
	})
	require.NoError(t, err)

	counts, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Agents)
}
