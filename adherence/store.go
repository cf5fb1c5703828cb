/*
store.go - Persistence interface for roster, schedule and activity data

PURPOSE:
  Defines the interface between the adherence engine and the database.
  The engine only needs range/filter queries plus bulk create/delete for
  the synthetic data generator. Different implementations can use SQLite
  or in-memory storage.

KEY INTERFACES:
  EntityStore: Queries and writes over the five entity kinds
  TxStore:     Adds WithTx for atomic multi-step operations

ATOMICITY:
  The only multi-write operation in the system is bulk regeneration
  (delete everything, recreate roster, schedules, activities). TxStore
  scopes it as a single all-or-nothing transaction: a failure partway
  must not leave a partially-deleted, partially-regenerated store.

SNAPSHOT READS:
  A single report issues several range queries. Implementations should
  let one aggregation call see a consistent snapshot; with SQLite's
  single-writer model plain reads are already consistent enough.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: Production SQLite
  - adherence/store/memory.go: In-memory for testing

SEE ALSO:
  - aggregator.go: The main consumer of the query side
  - simulate: The only consumer of the write side
*/
package adherence

import "context"

// =============================================================================
// FILTERS
// =============================================================================

// AgentFilter narrows ListAgents. Nil ContractType means all types.
type AgentFilter struct {
	ContractType *ContractType
	ActiveOnly   bool
}

// ScheduleFilter narrows ListSchedules to an agent (optional) and an
// inclusive date range.
type ScheduleFilter struct {
	AgentCode *AgentCode
	From      Date
	To        Date
}

// ActivityFilter narrows ListActivities. Empty Kinds means all kinds.
type ActivityFilter struct {
	AgentCode *AgentCode
	From      Date
	To        Date
	Kinds     []ActivityKind
}

// StoreCounts summarizes store contents for integrity and summary reports.
type StoreCounts struct {
	Agents         int
	Schedules      int
	Activities     int
	ActivityByKind map[ActivityKind]int
}

// =============================================================================
// ENTITY STORE
// =============================================================================

// EntityStore is the queryable record store the engine computes over.
// Save operations are upserts: agents are keyed by code, schedules by
// (agent, date), activities by ID, KPI targets and impact factors by name.
type EntityStore interface {
	ListAgents(ctx context.Context, filter AgentFilter) ([]Agent, error)
	ListSchedules(ctx context.Context, filter ScheduleFilter) ([]ScheduleEntry, error)
	ListActivities(ctx context.Context, filter ActivityFilter) ([]ActivityRecord, error)
	ListKPITargets(ctx context.Context, activeOnly bool) ([]KPITarget, error)
	ListImpactFactors(ctx context.Context) ([]ImpactFactor, error)

	SaveAgent(ctx context.Context, agent Agent) error
	SaveSchedule(ctx context.Context, entry ScheduleEntry) error
	SaveActivity(ctx context.Context, record ActivityRecord) error
	SaveKPITarget(ctx context.Context, target KPITarget) error
	SaveImpactFactor(ctx context.Context, factor ImpactFactor) error

	DeleteAllAgents(ctx context.Context) error
	DeleteAllSchedules(ctx context.Context) error
	DeleteAllActivities(ctx context.Context) error

	Counts(ctx context.Context) (StoreCounts, error)
}

// =============================================================================
// TRANSACTIONAL STORE
// =============================================================================

// TxStore wraps EntityStore with transaction support.
type TxStore interface {
	EntityStore

	// WithTx executes fn within a transaction.
	// If fn returns error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(EntityStore) error) error
}
