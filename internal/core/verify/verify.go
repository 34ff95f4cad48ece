// Package verify classifies bloom membership results against an
// authoritative log count.
//
// The filter's contract is one-sided: it may over-report (false positive)
// but must never under-report. Observing "absent in bloom" together with a
// non-zero exact log count therefore indicates corruption or a derivation
// bug, never expected behavior, and is surfaced as a distinct outcome so
// callers cannot conflate it with ordinary filter imprecision.
package verify

// Outcome is the three-way consistency classification for one query.
type Outcome string

const (
	// OutcomeConsistent: the bloom result agrees with the exact count
	// (present with matches, or absent with none).
	OutcomeConsistent Outcome = "consistent"

	// OutcomeFalsePositive: the bloom reported present but no logs
	// matched. Expected filter imprecision; informational, not an error.
	OutcomeFalsePositive Outcome = "false_positive"

	// OutcomeSoundnessViolation: the bloom reported absent but logs
	// matched. The filter must never under-report; this is an error-level
	// inconsistency.
	OutcomeSoundnessViolation Outcome = "soundness_violation"
)

// IsViolation reports whether o indicates a broken soundness guarantee.
func (o Outcome) IsViolation() bool {
	return o == OutcomeSoundnessViolation
}

// Classify maps a single candidate's membership result and the exact
// matching log count to an Outcome. Total over all inputs.
func Classify(present bool, count uint64) Outcome {
	switch {
	case !present && count > 0:
		return OutcomeSoundnessViolation
	case present && count == 0:
		return OutcomeFalsePositive
	default:
		return OutcomeConsistent
	}
}

// ClassifyAggregate classifies at query scope when multiple candidates
// (address and/or topic) were tested against a single log count.
//
// The scope is aggregate, matching the informal check this tool encodes:
// a violation is flagged when ANY tested candidate was absent while logs
// matched, without attributing the count to a specific candidate.
func ClassifyAggregate(anyPresent, anyAbsent bool, count uint64) Outcome {
	switch {
	case anyAbsent && count > 0:
		return OutcomeSoundnessViolation
	case anyPresent && count == 0:
		return OutcomeFalsePositive
	default:
		return OutcomeConsistent
	}
}
