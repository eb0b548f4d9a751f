package variants

// Option is one concrete choice within a variant group, with an optional
// signed price adjustment in minor currency units.
type Option struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	PriceModifier int    `json:"price_modifier"`
	Available     bool   `json:"is_available"`
}

// Group is a named set of customization options for a menu item, with rules
// on how many options may or must be chosen. MaxSelections == 1 signals
// exclusive single-choice semantics.
type Group struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Required      bool     `json:"is_required"`
	MinSelections int      `json:"min_selections"`
	MaxSelections int      `json:"max_selections"`
	Options       []Option `json:"options"`
}

// Selection maps a group id to the option ids currently chosen in it.
type Selection map[string][]string

// Toggle flips the membership of optionID in the current choice set for the
// group and returns the updated set. The input slice is never mutated.
//
// Exclusive groups (MaxSelections == 1) replace whatever was chosen before,
// regardless of prior state; re-toggling the chosen option keeps it chosen.
// Multi-select groups deselect a present option, and add an absent one only
// while the group's ceiling is not exceeded; a toggle past the ceiling is a
// no-op. Unavailable options are never toggled on.
func Toggle(group Group, optionID string, current []string) []string {
	option, ok := findOption(group, optionID)

	if !ok || !option.Available {
		return clone(current)
	}

	if group.MaxSelections == 1 {
		return []string{optionID}
	}

	if contains(current, optionID) {
		return remove(current, optionID)
	}

	if group.MaxSelections > 0 && len(current)+1 > group.MaxSelections {
		return clone(current)
	}

	updated := make([]string, 0, len(current)+1)
	updated = append(updated, current...)
	return append(updated, optionID)
}

// IsComplete reports whether the selection satisfies every group's rules.
//
// A required group must have at least one choice even when MinSelections is
// zero; the numeric minimum only tightens that further. Optional groups may
// be empty, but any choices they do hold must respect the min/max bounds.
func IsComplete(groups []Group, sel Selection) bool {
	for _, group := range groups {
		chosen := len(sel[group.ID])

		if group.Required && chosen == 0 {
			return false
		}
		if chosen == 0 {
			continue
		}
		if group.MinSelections > 0 && chosen < group.MinSelections {
			return false
		}
		if group.MaxSelections > 0 && chosen > group.MaxSelections {
			return false
		}
	}
	return true
}

// PriceDelta sums the price modifiers of every selected option across all
// groups. Options that went unavailable after being selected still count;
// filtering here would silently reprice frozen line items, so availability
// is re-checked by the caller at submit time instead.
func PriceDelta(groups []Group, sel Selection) int {
	total := 0
	for _, group := range groups {
		for _, optionID := range sel[group.ID] {
			if option, ok := findOption(group, optionID); ok {
				total += option.PriceModifier
			}
		}
	}
	return total
}

func findOption(group Group, optionID string) (Option, bool) {
	for _, option := range group.Options {
		if option.ID == optionID {
			return option, true
		}
	}
	return Option{}, false
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func remove(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, candidate := range ids {
		if candidate != id {
			out = append(out, candidate)
		}
	}
	return out
}

func clone(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}
