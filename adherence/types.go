/*
Package adherence provides the core workforce adherence engine.

PURPOSE:
  This package contains the domain types and algorithms for measuring how
  closely logged contact-center activity matches planned schedules. The same
  engine answers "how adherent was this agent last week?", "how did the
  part-time pool do this month?", and "which minute of the 2pm hour fell
  apart?".

KEY CONCEPTS IN THIS FILE (types.go):
  - Agent: A roster member with a contract type and weekly-hours target
  - ScheduleEntry: One planned shift for one agent on one date
  - ActivityRecord: One logged activity interval (call, break, training, ...)
  - KPITarget / ImpactFactor: Reporting inputs (targets and what-if factors)

DESIGN PRINCIPLES:
  1. Purity: Every metric is a function of a queried snapshot plus a date
     range. Nothing in this package holds mutable state across calls.
  2. Precision: Stored fractional quantities (planned hours, KPI values)
     use decimal.Decimal. Percentages become float64 only at the result
     boundary, rounded to two decimals.
  3. Type Safety: Contract types and activity kinds are closed enums;
     agent codes are a distinct string type.

SEE ALSO:
  - clock.go: Civil date and minute-of-day value types
  - overlap.go: Minute-resolution scheduled/active overlap engine
  - aggregator.go: Per-agent, per-contract-type and hourly rollups
  - report.go: Top-level report composition
  - store.go: Entity store interfaces
*/
package adherence

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CONTRACT TYPES
// =============================================================================

type ContractType string

const (
	ContractFullTime  ContractType = "FT"
	ContractPartTime  ContractType = "PT"
	ContractTemporary ContractType = "TEMP"
)

// WeeklyHoursTarget returns the contractual weekly-hours target.
// Temporary contracts have no fixed target.
func (c ContractType) WeeklyHoursTarget() int {
	switch c {
	case ContractFullTime:
		return 40
	case ContractPartTime:
		return 20
	default:
		return 0
	}
}

func (c ContractType) Valid() bool {
	return c == ContractFullTime || c == ContractPartTime || c == ContractTemporary
}

// =============================================================================
// ACTIVITY KINDS
// =============================================================================

type ActivityKind string

const (
	ActivityCall        ActivityKind = "call"
	ActivityActiveBreak ActivityKind = "active_break"
	ActivityAvailable   ActivityKind = "available"
	ActivityTraining    ActivityKind = "training"
	ActivityMeeting     ActivityKind = "meeting"
	ActivityAdmin       ActivityKind = "admin"
	ActivityLunch       ActivityKind = "lunch"
	ActivityAbsent      ActivityKind = "absent"
)

// ProductiveKinds are the activity kinds that count toward adherence.
var ProductiveKinds = []ActivityKind{
	ActivityCall,
	ActivityAvailable,
	ActivityTraining,
	ActivityAdmin,
}

// IsProductive reports whether this kind counts toward adherence.
func (k ActivityKind) IsProductive() bool {
	switch k {
	case ActivityCall, ActivityAvailable, ActivityTraining, ActivityAdmin:
		return true
	}
	return false
}

// =============================================================================
// AGENT
// =============================================================================

type AgentCode string

type Agent struct {
	Code         AgentCode
	Name         string
	Email        string
	ContractType ContractType
	WeeklyHours  int
	HireDate     Date
	Active       bool
}

func (a Agent) IsFullTime() bool { return a.ContractType == ContractFullTime }
func (a Agent) IsPartTime() bool { return a.ContractType == ContractPartTime }

// =============================================================================
// SCHEDULE ENTRY - One planned shift, unique per (agent, date)
// =============================================================================

type ScheduleEntry struct {
	AgentCode     AgentCode
	Date          Date
	Shift         string // template label, e.g. "Morning (08:00-16:00)"
	Start         ClockMinute
	End           ClockMinute
	PlannedHours  decimal.Decimal
	PlannedBreaks decimal.Decimal
}

// PlannedMinutes converts the planned hours to minutes.
func (s ScheduleEntry) PlannedMinutes() decimal.Decimal {
	return s.PlannedHours.Mul(decimal.NewFromInt(60))
}

// =============================================================================
// ACTIVITY RECORD - One logged activity interval
// =============================================================================

// ActivityRecord is created once by ingestion or simulation and never
// modified afterward, except for the integrity pass that clamps negative
// durations to their absolute value.
type ActivityRecord struct {
	ID              string
	AgentCode       AgentCode
	Date            Date
	Start           time.Time
	End             time.Time
	Kind            ActivityKind
	DurationMinutes int
	CallsHandled    int
	TalkTimeMinutes int
}

// Window returns the record's [start, end) span as minutes-of-day on its
// date. A record ending past midnight is clamped to end-of-day.
func (r ActivityRecord) Window() (ClockMinute, ClockMinute) {
	start := ClockOf(r.Start)
	end := ClockOf(r.End)
	if r.End.YearDay() != r.Start.YearDay() || r.End.Year() != r.Start.Year() {
		end = EndOfDay
	}
	return start, end
}

// =============================================================================
// KPI TARGET - Read-only reporting input
// =============================================================================

type KPIKind string

const (
	KPIAdherence    KPIKind = "adherence"
	KPIServiceLevel KPIKind = "service_level"
	KPISatisfaction KPIKind = "satisfaction"
)

type KPITarget struct {
	Name        string
	Description string
	Kind        KPIKind
	Target      decimal.Decimal // 0-100
	Floor       decimal.Decimal // 0-100
	From        Date
	To          *Date // nil = open-ended
	Active      bool
}

// =============================================================================
// IMPACT FACTOR - Input to the simulated what-if ranking
// =============================================================================

type FactorCategory string

const (
	FactorTechnical   FactorCategory = "technical"
	FactorOperational FactorCategory = "operational"
	FactorHuman       FactorCategory = "human"
	FactorCustomer    FactorCategory = "customer"
)

// ImpactFactor carries a theoretical percentage impact on adherence. It
// feeds the illustrative simulation only; it is not a measured quantity.
type ImpactFactor struct {
	Name              string
	Description       string
	Category          FactorCategory
	TheoreticalImpact decimal.Decimal
}
