/*
profiles.go - Static generation profiles

PURPOSE:
  The synthetic data generator works from fixed profiles: a demo roster,
  shift templates per contract type, weighted activity mixes and duration
  ranges per activity kind. Keeping them in one file makes the generated
  world easy to audit and adjust.

SHAPE OF THE WORLD:
  10 agents (6 full-time, 4 part-time), business days only, shifts inside
  the 08:00-20:00 operating window. Full-time shifts run 8 hours with 1h
  of planned breaks; part-time shifts run 4 hours with 0.5h.
*/
package simulate

import (
	"github.com/shopspring/decimal"

	"github.com/warp/adherence-engine/adherence"
)

// =============================================================================
// SHIFT TEMPLATES
// =============================================================================

// ShiftTemplate is one planned-shift pattern for a contract type.
type ShiftTemplate struct {
	Label  string
	Start  adherence.ClockMinute
	End    adherence.ClockMinute
	Hours  decimal.Decimal
	Breaks decimal.Decimal
}

var fullTimeShifts = []ShiftTemplate{
	{
		Label:  "Morning (08:00-16:00)",
		Start:  adherence.NewClock(8, 0),
		End:    adherence.NewClock(16, 0),
		Hours:  decimal.NewFromInt(8),
		Breaks: decimal.NewFromInt(1),
	},
	{
		Label:  "Afternoon (12:00-20:00)",
		Start:  adherence.NewClock(12, 0),
		End:    adherence.NewClock(20, 0),
		Hours:  decimal.NewFromInt(8),
		Breaks: decimal.NewFromInt(1),
	},
}

var partTimeShifts = []ShiftTemplate{
	{
		Label:  "Morning (08:00-12:00)",
		Start:  adherence.NewClock(8, 0),
		End:    adherence.NewClock(12, 0),
		Hours:  decimal.NewFromInt(4),
		Breaks: decimal.NewFromFloat(0.5),
	},
	{
		Label:  "Afternoon (14:00-18:00)",
		Start:  adherence.NewClock(14, 0),
		End:    adherence.NewClock(18, 0),
		Hours:  decimal.NewFromInt(4),
		Breaks: decimal.NewFromFloat(0.5),
	},
}

// shiftsFor returns the shift templates for a contract type.
func shiftsFor(kind adherence.ContractType) []ShiftTemplate {
	if kind == adherence.ContractPartTime {
		return partTimeShifts
	}
	return fullTimeShifts
}

// =============================================================================
// ACTIVITY MIXES - Weighted by repetition
// =============================================================================

// Activity kinds are drawn uniformly from these slices, so repetition is
// the weighting mechanism: full-timers skew toward calls, part-timers get
// a training slot instead of admin work.
var fullTimeMix = []adherence.ActivityKind{
	adherence.ActivityCall, adherence.ActivityCall, adherence.ActivityCall,
	adherence.ActivityCall, adherence.ActivityCall,
	adherence.ActivityAvailable, adherence.ActivityAvailable,
	adherence.ActivityActiveBreak,
	adherence.ActivityAdmin,
}

var partTimeMix = []adherence.ActivityKind{
	adherence.ActivityCall, adherence.ActivityCall, adherence.ActivityCall,
	adherence.ActivityCall,
	adherence.ActivityAvailable, adherence.ActivityAvailable, adherence.ActivityAvailable,
	adherence.ActivityActiveBreak,
	adherence.ActivityTraining,
}

func mixFor(kind adherence.ContractType) []adherence.ActivityKind {
	if kind == adherence.ContractPartTime {
		return partTimeMix
	}
	return fullTimeMix
}

// =============================================================================
// DURATION RANGES - Minutes, inclusive
// =============================================================================

type durationRange struct {
	Min int
	Max int
}

var durationRanges = map[adherence.ActivityKind]durationRange{
	adherence.ActivityCall:        {3, 15},
	adherence.ActivityAvailable:   {5, 30},
	adherence.ActivityActiveBreak: {5, 15},
	adherence.ActivityTraining:    {30, 60},
	adherence.ActivityAdmin:       {10, 45},
	adherence.ActivityLunch:       {60, 60},
	adherence.ActivityMeeting:     {30, 30},
	adherence.ActivityAbsent:      {15, 15},
}

// =============================================================================
// DEMO ROSTER
// =============================================================================

type rosterSeed struct {
	Code adherence.AgentCode
	Name string
	Kind adherence.ContractType
}

var defaultRoster = []rosterSeed{
	{"AGT001", "Anna Garcia", adherence.ContractFullTime},
	{"AGT002", "Charles Lopez", adherence.ContractFullTime},
	{"AGT003", "Maria Rodriguez", adherence.ContractFullTime},
	{"AGT004", "Joseph Martin", adherence.ContractFullTime},
	{"AGT005", "Laura Sanchez", adherence.ContractFullTime},
	{"AGT006", "David Perez", adherence.ContractFullTime},
	{"AGT007", "Carmen Gomez", adherence.ContractPartTime},
	{"AGT008", "Michael Diaz", adherence.ContractPartTime},
	{"AGT009", "Elena Moreno", adherence.ContractPartTime},
	{"AGT010", "Xavier Munoz", adherence.ContractPartTime},
}

// =============================================================================
// REPORTING SEED DATA - KPI targets and impact factors
// =============================================================================

type kpiSeed struct {
	Name   string
	Kind   adherence.KPIKind
	Target decimal.Decimal
	Floor  decimal.Decimal
}

var defaultKPITargets = []kpiSeed{
	{"General Adherence", adherence.KPIAdherence, decimal.NewFromInt(95), decimal.NewFromInt(85)},
	{"Full-Time Adherence", adherence.KPIAdherence, decimal.NewFromInt(96), decimal.NewFromInt(88)},
	{"Part-Time Adherence", adherence.KPIAdherence, decimal.NewFromInt(93), decimal.NewFromInt(83)},
}

var defaultImpactFactors = []adherence.ImpactFactor{
	{
		Name:              "Technical Failures",
		Description:       "System or telephony outages during the shift",
		Category:          adherence.FactorTechnical,
		TheoreticalImpact: decimal.NewFromFloat(8.5),
	},
	{
		Name:              "Staff Turnover",
		Description:       "Coverage lost to recent departures",
		Category:          adherence.FactorHuman,
		TheoreticalImpact: decimal.NewFromFloat(7.1),
	},
	{
		Name:              "Insufficient Training",
		Description:       "Handling time inflated by unfamiliar case types",
		Category:          adherence.FactorHuman,
		TheoreticalImpact: decimal.NewFromFloat(6.2),
	},
	{
		Name:              "Meeting Overrun",
		Description:       "Scheduled meetings exceeding their planned slot",
		Category:          adherence.FactorOperational,
		TheoreticalImpact: decimal.NewFromFloat(5.8),
	},
	{
		Name:              "Call Complexity",
		Description:       "Above-average share of escalation-level calls",
		Category:          adherence.FactorCustomer,
		TheoreticalImpact: decimal.NewFromFloat(4.3),
	},
}
