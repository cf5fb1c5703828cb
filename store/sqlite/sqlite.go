/*
Package sqlite provides a SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements adherence.EntityStore and adherence.TxStore using SQLite.
  In production the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

KEY TABLES:
  agents:          Roster (keyed by agent code)
  schedules:       Planned shifts, unique per (agent_code, date)
  activities:      Logged activity intervals
  kpi_targets:     Reporting targets
  impact_factors:  What-if simulation inputs

INDEXES:
  idx_schedules_date:        Hot path for the overlap engine's day loads
  idx_activities_agent_date: Per-agent adherence queries
  idx_activities_kind_date:  Productive-kind range queries

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging): multiple readers don't
  block, single writer at a time, better crash recovery. One report's
  several range queries therefore read a consistent snapshot.

TRANSACTIONS:
  WithTx runs the callback against a transaction-backed store view, which
  is what makes bulk regeneration all-or-nothing.

USAGE:
  store, err := sqlite.New("./data/adherence.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - adherence/store.go: Interface definitions
  - adherence/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/adherence-engine/adherence"
)

// Store implements adherence.TxStore using SQLite.
type Store struct {
	db *sql.DB
	queries
}

// queries holds the SQL implementations. It runs against either the
// connection pool or an open transaction, so the same code serves plain
// calls and WithTx callbacks.
type queries struct {
	db dbtx
}

type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Each pool connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db, queries: queries{db: db}}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// WithTx executes fn within a database transaction.
func (s *Store) WithTx(ctx context.Context, fn func(adherence.EntityStore) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	view := &queries{db: tx}
	if err := fn(view); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback after %w: %v", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Roster
	CREATE TABLE IF NOT EXISTS agents (
		code TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		contract_type TEXT NOT NULL,
		weekly_hours INTEGER NOT NULL,
		hire_date TEXT NOT NULL,
		active INTEGER NOT NULL DEFAULT 1
	);

	-- Planned shifts, one per agent per date
	CREATE TABLE IF NOT EXISTS schedules (
		agent_code TEXT NOT NULL,
		date TEXT NOT NULL,
		shift TEXT,
		start_minute INTEGER NOT NULL,
		end_minute INTEGER NOT NULL,
		planned_hours TEXT NOT NULL,
		planned_breaks TEXT NOT NULL,
		PRIMARY KEY (agent_code, date)
	);

	CREATE INDEX IF NOT EXISTS idx_schedules_date
		ON schedules(date);

	-- Logged activity intervals
	CREATE TABLE IF NOT EXISTS activities (
		id TEXT PRIMARY KEY,
		agent_code TEXT NOT NULL,
		date TEXT NOT NULL,
		start_at TEXT NOT NULL,
		end_at TEXT NOT NULL,
		kind TEXT NOT NULL,
		duration_minutes INTEGER NOT NULL,
		calls_handled INTEGER NOT NULL DEFAULT 0,
		talk_time_minutes INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_activities_agent_date
		ON activities(agent_code, date);
	CREATE INDEX IF NOT EXISTS idx_activities_kind_date
		ON activities(kind, date);

	-- Reporting targets
	CREATE TABLE IF NOT EXISTS kpi_targets (
		name TEXT PRIMARY KEY,
		description TEXT,
		kind TEXT NOT NULL,
		target_value TEXT NOT NULL,
		floor_value TEXT NOT NULL,
		valid_from TEXT NOT NULL,
		valid_to TEXT,
		active INTEGER NOT NULL DEFAULT 1
	);

	-- What-if simulation inputs
	CREATE TABLE IF NOT EXISTS impact_factors (
		name TEXT PRIMARY KEY,
		description TEXT,
		category TEXT NOT NULL,
		impact_pct TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// AGENTS
// =============================================================================

func (q *queries) ListAgents(ctx context.Context, filter adherence.AgentFilter) ([]adherence.Agent, error) {
	query := `SELECT code, name, email, contract_type, weekly_hours, hire_date, active FROM agents`
	var conds []string
	var args []any
	if filter.ContractType != nil {
		conds = append(conds, "contract_type = ?")
		args = append(args, string(*filter.ContractType))
	}
	if filter.ActiveOnly {
		conds = append(conds, "active = 1")
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY code"

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var agents []adherence.Agent
	for rows.Next() {
		var a adherence.Agent
		var hireDate string
		var active int
		if err := rows.Scan(&a.Code, &a.Name, &a.Email, &a.ContractType, &a.WeeklyHours, &hireDate, &active); err != nil {
			return nil, err
		}
		if a.HireDate, err = adherence.ParseDate(hireDate); err != nil {
			return nil, err
		}
		a.Active = active == 1
		agents = append(agents, a)
	}
	return agents, rows.Err()
}

func (q *queries) SaveAgent(ctx context.Context, agent adherence.Agent) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO agents (code, name, email, contract_type, weekly_hours, hire_date, active)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			contract_type = excluded.contract_type,
			weekly_hours = excluded.weekly_hours,
			hire_date = excluded.hire_date,
			active = excluded.active`,
		string(agent.Code), agent.Name, agent.Email, string(agent.ContractType),
		agent.WeeklyHours, agent.HireDate.String(), boolToInt(agent.Active))
	return err
}

func (q *queries) DeleteAllAgents(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM agents`)
	return err
}

// =============================================================================
// SCHEDULES
// =============================================================================

func (q *queries) ListSchedules(ctx context.Context, filter adherence.ScheduleFilter) ([]adherence.ScheduleEntry, error) {
	query := `SELECT agent_code, date, shift, start_minute, end_minute, planned_hours, planned_breaks
		FROM schedules WHERE date >= ? AND date <= ?`
	args := []any{filter.From.String(), filter.To.String()}
	if filter.AgentCode != nil {
		query += " AND agent_code = ?"
		args = append(args, string(*filter.AgentCode))
	}
	query += " ORDER BY date, agent_code"

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []adherence.ScheduleEntry
	for rows.Next() {
		var e adherence.ScheduleEntry
		var date, hours, breaks string
		if err := rows.Scan(&e.AgentCode, &date, &e.Shift, &e.Start, &e.End, &hours, &breaks); err != nil {
			return nil, err
		}
		if e.Date, err = adherence.ParseDate(date); err != nil {
			return nil, err
		}
		if e.PlannedHours, err = decimal.NewFromString(hours); err != nil {
			return nil, err
		}
		if e.PlannedBreaks, err = decimal.NewFromString(breaks); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (q *queries) SaveSchedule(ctx context.Context, entry adherence.ScheduleEntry) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO schedules (agent_code, date, shift, start_minute, end_minute, planned_hours, planned_breaks)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(agent_code, date) DO UPDATE SET
			shift = excluded.shift,
			start_minute = excluded.start_minute,
			end_minute = excluded.end_minute,
			planned_hours = excluded.planned_hours,
			planned_breaks = excluded.planned_breaks`,
		string(entry.AgentCode), entry.Date.String(), entry.Shift,
		int(entry.Start), int(entry.End),
		entry.PlannedHours.String(), entry.PlannedBreaks.String())
	return err
}

func (q *queries) DeleteAllSchedules(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM schedules`)
	return err
}

// =============================================================================
// ACTIVITIES
// =============================================================================

func (q *queries) ListActivities(ctx context.Context, filter adherence.ActivityFilter) ([]adherence.ActivityRecord, error) {
	query := `SELECT id, agent_code, date, start_at, end_at, kind, duration_minutes, calls_handled, talk_time_minutes
		FROM activities WHERE date >= ? AND date <= ?`
	args := []any{filter.From.String(), filter.To.String()}
	if filter.AgentCode != nil {
		query += " AND agent_code = ?"
		args = append(args, string(*filter.AgentCode))
	}
	if len(filter.Kinds) > 0 {
		placeholders := make([]string, len(filter.Kinds))
		for i, k := range filter.Kinds {
			placeholders[i] = "?"
			args = append(args, string(k))
		}
		query += " AND kind IN (" + strings.Join(placeholders, ", ") + ")"
	}
	query += " ORDER BY start_at, id"

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []adherence.ActivityRecord
	for rows.Next() {
		var r adherence.ActivityRecord
		var date, startAt, endAt string
		if err := rows.Scan(&r.ID, &r.AgentCode, &date, &startAt, &endAt, &r.Kind,
			&r.DurationMinutes, &r.CallsHandled, &r.TalkTimeMinutes); err != nil {
			return nil, err
		}
		if r.Date, err = adherence.ParseDate(date); err != nil {
			return nil, err
		}
		if r.Start, err = time.Parse(time.RFC3339, startAt); err != nil {
			return nil, err
		}
		if r.End, err = time.Parse(time.RFC3339, endAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (q *queries) SaveActivity(ctx context.Context, record adherence.ActivityRecord) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO activities (id, agent_code, date, start_at, end_at, kind, duration_minutes, calls_handled, talk_time_minutes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			agent_code = excluded.agent_code,
			date = excluded.date,
			start_at = excluded.start_at,
			end_at = excluded.end_at,
			kind = excluded.kind,
			duration_minutes = excluded.duration_minutes,
			calls_handled = excluded.calls_handled,
			talk_time_minutes = excluded.talk_time_minutes`,
		record.ID, string(record.AgentCode), record.Date.String(),
		record.Start.UTC().Format(time.RFC3339), record.End.UTC().Format(time.RFC3339),
		string(record.Kind), record.DurationMinutes, record.CallsHandled, record.TalkTimeMinutes)
	return err
}

func (q *queries) DeleteAllActivities(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM activities`)
	return err
}

// =============================================================================
// KPI TARGETS
// =============================================================================

func (q *queries) ListKPITargets(ctx context.Context, activeOnly bool) ([]adherence.KPITarget, error) {
	query := `SELECT name, description, kind, target_value, floor_value, valid_from, valid_to, active FROM kpi_targets`
	if activeOnly {
		query += " WHERE active = 1"
	}
	query += " ORDER BY name"

	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var targets []adherence.KPITarget
	for rows.Next() {
		var t adherence.KPITarget
		var target, floor, from string
		var to sql.NullString
		var active int
		if err := rows.Scan(&t.Name, &t.Description, &t.Kind, &target, &floor, &from, &to, &active); err != nil {
			return nil, err
		}
		if t.Target, err = decimal.NewFromString(target); err != nil {
			return nil, err
		}
		if t.Floor, err = decimal.NewFromString(floor); err != nil {
			return nil, err
		}
		if t.From, err = adherence.ParseDate(from); err != nil {
			return nil, err
		}
		if to.Valid {
			parsed, err := adherence.ParseDate(to.String)
			if err != nil {
				return nil, err
			}
			t.To = &parsed
		}
		t.Active = active == 1
		targets = append(targets, t)
	}
	return targets, rows.Err()
}

func (q *queries) SaveKPITarget(ctx context.Context, target adherence.KPITarget) error {
	var validTo any
	if target.To != nil {
		validTo = target.To.String()
	}
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO kpi_targets (name, description, kind, target_value, floor_value, valid_from, valid_to, active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			description = excluded.description,
			kind = excluded.kind,
			target_value = excluded.target_value,
			floor_value = excluded.floor_value,
			valid_from = excluded.valid_from,
			valid_to = excluded.valid_to,
			active = excluded.active`,
		target.Name, target.Description, string(target.Kind),
		target.Target.String(), target.Floor.String(),
		target.From.String(), validTo, boolToInt(target.Active))
	return err
}

// =============================================================================
// IMPACT FACTORS
// =============================================================================

func (q *queries) ListImpactFactors(ctx context.Context) ([]adherence.ImpactFactor, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT name, description, category, impact_pct FROM impact_factors ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var factors []adherence.ImpactFactor
	for rows.Next() {
		var f adherence.ImpactFactor
		var impact string
		if err := rows.Scan(&f.Name, &f.Description, &f.Category, &impact); err != nil {
			return nil, err
		}
		if f.TheoreticalImpact, err = decimal.NewFromString(impact); err != nil {
			return nil, err
		}
		factors = append(factors, f)
	}
	return factors, rows.Err()
}

func (q *queries) SaveImpactFactor(ctx context.Context, factor adherence.ImpactFactor) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO impact_factors (name, description, category, impact_pct)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			description = excluded.description,
			category = excluded.category,
			impact_pct = excluded.impact_pct`,
		factor.Name, factor.Description, string(factor.Category),
		factor.TheoreticalImpact.String())
	return err
}

// =============================================================================
// COUNTS
// =============================================================================

func (q *queries) Counts(ctx context.Context) (adherence.StoreCounts, error) {
	counts := adherence.StoreCounts{ActivityByKind: make(map[adherence.ActivityKind]int)}

	row := q.db.QueryRowContext(ctx, `SELECT
		(SELECT COUNT(*) FROM agents),
		(SELECT COUNT(*) FROM schedules),
		(SELECT COUNT(*) FROM activities)`)
	if err := row.Scan(&counts.Agents, &counts.Schedules, &counts.Activities); err != nil {
		return counts, err
	}

	rows, err := q.db.QueryContext(ctx, `SELECT kind, COUNT(*) FROM activities GROUP BY kind`)
	if err != nil {
		return counts, err
	}
	defer rows.Close()
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return counts, err
		}
		counts.ActivityByKind[adherence.ActivityKind(kind)] = n
	}
	return counts, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
