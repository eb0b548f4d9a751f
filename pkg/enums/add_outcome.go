package enums

import "fmt"

// AddOutcome reports how an add-to-cart call resolved: a fresh line item or a
// quantity merge into an existing equivalent line.
type AddOutcome string

const (
	AddOutcomeAdded  AddOutcome = "added"
	AddOutcomeMerged AddOutcome = "merged"
)

var validAddOutcomes = []AddOutcome{
	AddOutcomeAdded,
	AddOutcomeMerged,
}

// String implements fmt.Stringer.
func (a AddOutcome) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AddOutcome.
func (a AddOutcome) IsValid() bool {
	for _, candidate := range validAddOutcomes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAddOutcome converts raw input into an AddOutcome.
func ParseAddOutcome(value string) (AddOutcome, error) {
	for _, candidate := range validAddOutcomes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid add outcome %q", value)
}
