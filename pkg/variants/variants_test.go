package variants

import (
	"reflect"
	"sort"
	"testing"
)

func sizeGroup() Group {
	return Group{
		ID:            "size",
		Name:          "Size",
		Required:      true,
		MaxSelections: 1,
		Options: []Option{
			{ID: "small", Name: "Small", PriceModifier: 0, Available: true},
			{ID: "large", Name: "Large", PriceModifier: 300, Available: true},
		},
	}
}

func extrasGroup() Group {
	return Group{
		ID:            "extras",
		Name:          "Extras",
		MaxSelections: 3,
		Options: []Option{
			{ID: "cheese", Name: "Extra Cheese", PriceModifier: 150, Available: true},
			{ID: "olives", Name: "Olives", PriceModifier: 100, Available: true},
			{ID: "ham", Name: "Ham", PriceModifier: 200, Available: true},
			{ID: "truffle", Name: "Truffle", PriceModifier: 500, Available: false},
		},
	}
}

func TestToggleExclusiveReplaces(t *testing.T) {
	t.Parallel()

	got := Toggle(sizeGroup(), "large", []string{"small"})
	if !reflect.DeepEqual(got, []string{"large"}) {
		t.Fatalf("expected {large}, got %v", got)
	}
}

func TestToggleDeselects(t *testing.T) {
	t.Parallel()

	got := Toggle(extrasGroup(), "cheese", []string{"cheese", "olives"})
	if !reflect.DeepEqual(got, []string{"olives"}) {
		t.Fatalf("expected {olives}, got %v", got)
	}
}

func TestToggleExclusiveNeverDeselects(t *testing.T) {
	t.Parallel()

	// Replace semantics hold regardless of prior state: re-toggling the
	// chosen option keeps the singleton instead of emptying the group.
	got := Toggle(sizeGroup(), "small", []string{"small"})
	if !reflect.DeepEqual(got, []string{"small"}) {
		t.Fatalf("expected {small}, got %v", got)
	}
}

func TestToggleCeilingIsNoop(t *testing.T) {
	t.Parallel()

	group := extrasGroup()
	group.MaxSelections = 2
	current := []string{"cheese", "olives"}

	got := Toggle(group, "ham", current)
	if !reflect.DeepEqual(got, current) {
		t.Fatalf("toggle past the ceiling must be a no-op, got %v", got)
	}
}

func TestToggleUnavailableIsNoop(t *testing.T) {
	t.Parallel()

	got := Toggle(extrasGroup(), "truffle", []string{"cheese"})
	if !reflect.DeepEqual(got, []string{"cheese"}) {
		t.Fatalf("unavailable option must not toggle on, got %v", got)
	}
}

func TestToggleUnknownOptionIsNoop(t *testing.T) {
	t.Parallel()

	got := Toggle(extrasGroup(), "pineapple", []string{"cheese"})
	if !reflect.DeepEqual(got, []string{"cheese"}) {
		t.Fatalf("unknown option must not toggle on, got %v", got)
	}
}

func TestToggleDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	current := []string{"cheese"}
	_ = Toggle(extrasGroup(), "olives", current)
	if !reflect.DeepEqual(current, []string{"cheese"}) {
		t.Fatalf("input slice was mutated: %v", current)
	}
}

func TestIsCompleteRequiredGroupZeroMinimum(t *testing.T) {
	t.Parallel()

	// Required with MinSelections == 0 still needs at least one choice.
	group := sizeGroup()
	group.MinSelections = 0
	groups := []Group{group}

	if IsComplete(groups, Selection{}) {
		t.Fatal("required group with no selection must be incomplete")
	}
	if !IsComplete(groups, Selection{"size": {"small"}}) {
		t.Fatal("one choice should satisfy the required group")
	}
}

func TestIsCompleteBounds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		sel  Selection
		want bool
	}{
		{"optional empty", Selection{}, true},
		{"within bounds", Selection{"toppings": {"a", "b"}}, true},
		{"below minimum", Selection{"toppings": {"a"}}, false},
		{"above maximum", Selection{"toppings": {"a", "b", "c", "d"}}, false},
	}

	group := Group{
		ID:            "toppings",
		MinSelections: 2,
		MaxSelections: 3,
		Options: []Option{
			{ID: "a", Available: true},
			{ID: "b", Available: true},
			{ID: "c", Available: true},
			{ID: "d", Available: true},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsComplete([]Group{group}, tc.sel); got != tc.want {
				t.Fatalf("IsComplete = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsCompleteAcrossGroups(t *testing.T) {
	t.Parallel()

	groups := []Group{sizeGroup(), extrasGroup()}

	if IsComplete(groups, Selection{"extras": {"cheese"}}) {
		t.Fatal("missing required size group must fail the item")
	}
	if !IsComplete(groups, Selection{"size": {"large"}, "extras": {"cheese", "olives"}}) {
		t.Fatal("valid selections in every group should pass")
	}
}

func TestPriceDelta(t *testing.T) {
	t.Parallel()

	groups := []Group{sizeGroup(), extrasGroup()}
	sel := Selection{
		"size":   {"large"},
		"extras": {"cheese", "olives"},
	}

	if got := PriceDelta(groups, sel); got != 550 {
		t.Fatalf("expected delta 550, got %d", got)
	}
}

func TestPriceDeltaKeepsUnavailableSelections(t *testing.T) {
	t.Parallel()

	// An option that went unavailable after being chosen still contributes
	// its modifier; frozen prices must not shift under the customer.
	sel := Selection{"extras": {"truffle"}}
	if got := PriceDelta([]Group{extrasGroup()}, sel); got != 500 {
		t.Fatalf("expected delta 500, got %d", got)
	}
}

func TestPriceDeltaNegativeModifier(t *testing.T) {
	t.Parallel()

	group := Group{
		ID: "bread",
		Options: []Option{
			{ID: "half", PriceModifier: -200, Available: true},
		},
	}
	if got := PriceDelta([]Group{group}, Selection{"bread": {"half"}}); got != -200 {
		t.Fatalf("expected delta -200, got %d", got)
	}
}

func TestToggleBuildUpSequence(t *testing.T) {
	t.Parallel()

	group := extrasGroup()
	var current []string
	for _, id := range []string{"cheese", "olives", "ham"} {
		current = Toggle(group, id, current)
	}
	sort.Strings(current)
	if !reflect.DeepEqual(current, []string{"cheese", "ham", "olives"}) {
		t.Fatalf("unexpected final set: %v", current)
	}
}
