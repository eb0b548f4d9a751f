package types

import "github.com/shopspring/decimal"

// minorUnitScale is the number of decimal places carried by stored amounts.
// All arithmetic in the service stays on integer minor units; decimal is used
// only when rendering amounts for API consumers.
const minorUnitScale = 2

// FormatMinorUnits renders an integer minor-unit amount as a decimal string,
// e.g. 1350 -> "13.50" and -45 -> "-0.45".
func FormatMinorUnits(amount int) string {
	return decimal.New(int64(amount), -minorUnitScale).StringFixed(minorUnitScale)
}
