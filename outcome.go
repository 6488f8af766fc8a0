package photosort

import (
	"encoding/json"
	"fmt"
)

// Outcome classifies what happened to one file during a scan.
type Outcome int

const (
	OutcomePending   Outcome = iota // enumerated but not yet processed
	OutcomeClean                    // confidence below threshold
	OutcomeSensitive                // confidence at or above threshold
	OutcomeError                    // scoring or move failed
	OutcomeSkipped                  // unsupported extension, never scored
)

func (o Outcome) String() string {
	switch o {
	case OutcomeClean:
		return "clean"
	case OutcomeSensitive:
		return "sensitive"
	case OutcomeError:
		return "error"
	case OutcomeSkipped:
		return "skipped-unsupported"
	default:
		return "pending"
	}
}

// ParseOutcome maps the string form back to an Outcome.
func ParseOutcome(s string) (Outcome, error) {
	switch s {
	case "pending":
		return OutcomePending, nil
	case "clean":
		return OutcomeClean, nil
	case "sensitive":
		return OutcomeSensitive, nil
	case "error":
		return OutcomeError, nil
	case "skipped-unsupported":
		return OutcomeSkipped, nil
	default:
		return OutcomePending, fmt.Errorf("unknown outcome %q", s)
	}
}

// MarshalJSON writes the outcome in its string form.
func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// UnmarshalJSON reads the string form written by MarshalJSON.
func (o *Outcome) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseOutcome(s)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}
