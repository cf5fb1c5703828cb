// Package store provides EntityStore implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/adherence-engine/adherence"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu         sync.RWMutex
	agents     map[adherence.AgentCode]adherence.Agent
	schedules  map[scheduleKey]adherence.ScheduleEntry
	activities map[string]adherence.ActivityRecord
	targets    map[string]adherence.KPITarget
	factors    map[string]adherence.ImpactFactor
}

type scheduleKey struct {
	AgentCode adherence.AgentCode
	Date      string
}

func NewMemory() *Memory {
	return &Memory{
		agents:     make(map[adherence.AgentCode]adherence.Agent),
		schedules:  make(map[scheduleKey]adherence.ScheduleEntry),
		activities: make(map[string]adherence.ActivityRecord),
		targets:    make(map[string]adherence.KPITarget),
		factors:    make(map[string]adherence.ImpactFactor),
	}
}

// =============================================================================
// QUERIES
// =============================================================================

func (m *Memory) ListAgents(_ context.Context, filter adherence.AgentFilter) ([]adherence.Agent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []adherence.Agent
	for _, agent := range m.agents {
		if filter.ContractType != nil && agent.ContractType != *filter.ContractType {
			continue
		}
		if filter.ActiveOnly && !agent.Active {
			continue
		}
		result = append(result, agent)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}

func (m *Memory) ListSchedules(_ context.Context, filter adherence.ScheduleFilter) ([]adherence.ScheduleEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []adherence.ScheduleEntry
	for _, entry := range m.schedules {
		if filter.AgentCode != nil && entry.AgentCode != *filter.AgentCode {
			continue
		}
		if !entry.Date.InRange(filter.From, filter.To) {
			continue
		}
		result = append(result, entry)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].AgentCode < result[j].AgentCode
	})
	return result, nil
}

func (m *Memory) ListActivities(_ context.Context, filter adherence.ActivityFilter) ([]adherence.ActivityRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	kinds := make(map[adherence.ActivityKind]bool, len(filter.Kinds))
	for _, k := range filter.Kinds {
		kinds[k] = true
	}

	var result []adherence.ActivityRecord
	for _, record := range m.activities {
		if filter.AgentCode != nil && record.AgentCode != *filter.AgentCode {
			continue
		}
		if !record.Date.InRange(filter.From, filter.To) {
			continue
		}
		if len(kinds) > 0 && !kinds[record.Kind] {
			continue
		}
		result = append(result, record)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Start.Equal(result[j].Start) {
			return result[i].Start.Before(result[j].Start)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (m *Memory) ListKPITargets(_ context.Context, activeOnly bool) ([]adherence.KPITarget, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []adherence.KPITarget
	for _, target := range m.targets {
		if activeOnly && !target.Active {
			continue
		}
		result = append(result, target)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *Memory) ListImpactFactors(_ context.Context) ([]adherence.ImpactFactor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []adherence.ImpactFactor
	for _, factor := range m.factors {
		result = append(result, factor)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *Memory) Counts(_ context.Context) (adherence.StoreCounts, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := adherence.StoreCounts{
		Agents:         len(m.agents),
		Schedules:      len(m.schedules),
		Activities:     len(m.activities),
		ActivityByKind: make(map[adherence.ActivityKind]int),
	}
	for _, record := range m.activities {
		counts.ActivityByKind[record.Kind]++
	}
	return counts, nil
}

// =============================================================================
// WRITES - Upserts keyed per store.go contract
// =============================================================================

func (m *Memory) SaveAgent(_ context.Context, agent adherence.Agent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.agents[agent.Code] = agent
	return nil
}

func (m *Memory) SaveSchedule(_ context.Context, entry adherence.ScheduleEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schedules[scheduleKey{AgentCode: entry.AgentCode, Date: entry.Date.String()}] = entry
	return nil
}

func (m *Memory) SaveActivity(_ context.Context, record adherence.ActivityRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activities[record.ID] = record
	return nil
}

func (m *Memory) SaveKPITarget(_ context.Context, target adherence.KPITarget) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.targets[target.Name] = target
	return nil
}

func (m *Memory) SaveImpactFactor(_ context.Context, factor adherence.ImpactFactor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.factors[factor.Name] = factor
	return nil
}

func (m *Memory) DeleteAllAgents(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.agents = make(map[adherence.AgentCode]adherence.Agent)
	return nil
}

func (m *Memory) DeleteAllSchedules(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schedules = make(map[scheduleKey]adherence.ScheduleEntry)
	return nil
}

func (m *Memory) DeleteAllActivities(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activities = make(map[string]adherence.ActivityRecord)
	return nil
}

// =============================================================================
// TRANSACTIONAL MEMORY STORE
// =============================================================================

// TxMemory wraps Memory with transaction support.
type TxMemory struct {
	*Memory
}

func NewTxMemory() *TxMemory {
	return &TxMemory{Memory: NewMemory()}
}

// WithTx executes fn against the store. For the memory store this is
// simulated with a snapshot + restore on error, which is what makes the
// bulk regeneration all-or-nothing in tests.
func (tm *TxMemory) WithTx(_ context.Context, fn func(adherence.EntityStore) error) error {
	snapshot := tm.snapshot()
	if err := fn(tm.Memory); err != nil {
		tm.restore(snapshot)
		return err
	}
	return nil
}

type memorySnapshot struct {
	agents     map[adherence.AgentCode]adherence.Agent
	schedules  map[scheduleKey]adherence.ScheduleEntry
	activities map[string]adherence.ActivityRecord
	targets    map[string]adherence.KPITarget
	factors    map[string]adherence.ImpactFactor
}

func (tm *TxMemory) snapshot() memorySnapshot {
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	s := memorySnapshot{
		agents:     make(map[adherence.AgentCode]adherence.Agent, len(tm.agents)),
		schedules:  make(map[scheduleKey]adherence.ScheduleEntry, len(tm.schedules)),
		activities: make(map[string]adherence.ActivityRecord, len(tm.activities)),
		targets:    make(map[string]adherence.KPITarget, len(tm.targets)),
		factors:    make(map[string]adherence.ImpactFactor, len(tm.factors)),
	}
	for k, v := range tm.agents {
		s.agents[k] = v
	}
	for k, v := range tm.schedules {
		s.schedules[k] = v
	}
	for k, v := range tm.activities {
		s.activities[k] = v
	}
	for k, v := range tm.targets {
		s.targets[k] = v
	}
	for k, v := range tm.factors {
		s.factors[k] = v
	}
	return s
}

func (tm *TxMemory) restore(s memorySnapshot) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.agents = s.agents
	tm.schedules = s.schedules
	tm.activities = s.activities
	tm.targets = s.targets
	tm.factors = s.factors
}
