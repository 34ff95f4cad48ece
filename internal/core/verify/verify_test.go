package verify

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		name    string
		present bool
		count   uint64
		want    Outcome
	}{
		{"absent with matches is a violation", false, 3, OutcomeSoundnessViolation},
		{"present with no matches is a benign false positive", true, 0, OutcomeFalsePositive},
		{"present with matches is consistent", true, 7, OutcomeConsistent},
		{"absent with no matches is consistent", false, 0, OutcomeConsistent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.present, tc.count); got != tc.want {
				t.Errorf("Classify(%v, %d) = %s, want %s", tc.present, tc.count, got, tc.want)
			}
		})
	}
}

func TestClassify_Totality(t *testing.T) {
	// Every (present, count) pair yields exactly one of the three
	// outcomes, and absent+count>0 is always a violation.
	for _, present := range []bool{true, false} {
		for _, count := range []uint64{0, 1, 2, 100, 1 << 40} {
			got := Classify(present, count)
			switch got {
			case OutcomeConsistent, OutcomeFalsePositive, OutcomeSoundnessViolation:
			default:
				t.Fatalf("Classify(%v, %d) = %q, not a known outcome", present, count, got)
			}
			if !present && count > 0 && got != OutcomeSoundnessViolation {
				t.Fatalf("Classify(false, %d) = %s, want violation", count, got)
			}
		}
	}
}

func TestClassifyAggregate(t *testing.T) {
	cases := []struct {
		name       string
		anyPresent bool
		anyAbsent  bool
		count      uint64
		want       Outcome
	}{
		{"all absent, matches exist", false, true, 2, OutcomeSoundnessViolation},
		{"mixed results, matches exist", true, true, 2, OutcomeSoundnessViolation},
		{"all present, no matches", true, false, 0, OutcomeFalsePositive},
		{"all present, matches exist", true, false, 5, OutcomeConsistent},
		{"all absent, no matches", false, true, 0, OutcomeConsistent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyAggregate(tc.anyPresent, tc.anyAbsent, tc.count)
			if got != tc.want {
				t.Errorf("ClassifyAggregate(%v, %v, %d) = %s, want %s",
					tc.anyPresent, tc.anyAbsent, tc.count, got, tc.want)
			}
		})
	}
}

func TestIsViolation(t *testing.T) {
	if !OutcomeSoundnessViolation.IsViolation() {
		t.Error("soundness violation not flagged")
	}
	if OutcomeConsistent.IsViolation() || OutcomeFalsePositive.IsViolation() {
		t.Error("benign outcome flagged as violation")
	}
}
