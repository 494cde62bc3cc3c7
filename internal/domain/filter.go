package domain

import (
	"fmt"
	"strings"
)

// Filter profile names accepted by FilterForProfile.
const (
	ProfileStrict = "strict"
	ProfileLoose  = "loose"
)

// Filter keeps events whose currency contains one of CurrencyAliases and whose
// impact contains one of ImpactAliases. Matching is case-insensitive.
type Filter struct {
	CurrencyAliases []string
	ImpactAliases   []string
}

// StrictFilter matches "USD" currencies with high or medium impact.
func StrictFilter() Filter {
	return Filter{
		CurrencyAliases: []string{"USD"},
		ImpactAliases:   []string{"high", "med"},
	}
}

// LooseFilter also accepts "US"/"U.S." currencies and "strong" impact labels.
func LooseFilter() Filter {
	return Filter{
		CurrencyAliases: []string{"USD", "US", "U.S."},
		ImpactAliases:   []string{"high", "strong", "high impact", "med", "medium"},
	}
}

// FilterForProfile returns the filter registered under name.
func FilterForProfile(name string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ProfileStrict:
		return StrictFilter(), nil
	case ProfileLoose:
		return LooseFilter(), nil
	default:
		return Filter{}, fmt.Errorf("unknown filter profile %q", name)
	}
}

// Match reports whether e satisfies both the currency and impact predicates.
func (f Filter) Match(e Event) bool {
	return containsAny(e.Currency, f.CurrencyAliases) && containsAny(e.Impact, f.ImpactAliases)
}

// Apply returns the matching events in their original order.
func (f Filter) Apply(events []Event) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

func containsAny(value string, aliases []string) bool {
	value = strings.ToLower(value)
	for _, alias := range aliases {
		if alias != "" && strings.Contains(value, strings.ToLower(alias)) {
			return true
		}
	}
	return false
}
