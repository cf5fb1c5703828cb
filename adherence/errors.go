/*
errors.go - Centralized error types for the adherence engine

ERROR TAXONOMY:
  NoData             A query range produced no schedule entries for an
                     agent or contract type. Signaled as a sentinel, never
                     a failure. Callers exclude the subject from rollups;
                     NoData is NOT zero adherence.
  StoreUnavailable   The backing store is not initialized yet. Top-level
                     report functions degrade to empty structures instead
                     of propagating this.
  InvariantViolation A data-quality problem (PT agent planned > 5h,
                     negative activity duration). Detected by the integrity
                     pass, auto-corrected in place and logged. Not fatal.

USAGE:
  result, err := agg.AgentAdherence(ctx, agent, from, to)
  if errors.Is(err, adherence.ErrNoData) {
      // agent had no schedule in range; skip, don't count as 0
  }
*/
package adherence

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNoData marks an empty query result that callers must exclude
	// from aggregates rather than treat as zero.
	ErrNoData = errors.New("no data in range")

	// ErrStoreUnavailable marks a store that is not ready to serve reads.
	ErrStoreUnavailable = errors.New("entity store unavailable")

	// ErrInvalidRange marks a range whose end precedes its start.
	ErrInvalidRange = errors.New("invalid range: end before start")

	// ErrUnknownContractType marks a contract type outside the enum.
	ErrUnknownContractType = errors.New("unknown contract type")
)

// =============================================================================
// DETAILED ERRORS - Carry context, unwrap to sentinels
// =============================================================================

// InvariantViolation describes one auto-correctable data-quality problem.
// The integrity pass collects these; they are reported, not raised.
type InvariantViolation struct {
	Subject string // e.g. agent code or activity record ID
	Field   string
	Detail  string
}

func (v InvariantViolation) String() string {
	return fmt.Sprintf("%s.%s: %s", v.Subject, v.Field, v.Detail)
}

// =============================================================================
// CLASSIFICATION HELPERS
// =============================================================================

// IsNoData checks if an error is the no-data sentinel.
func IsNoData(err error) bool {
	return errors.Is(err, ErrNoData)
}

// IsStoreUnavailable checks if an error means the store is not ready.
func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}
