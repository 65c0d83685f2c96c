package gatewayroute

import (
	"slices"

	"github.com/lexfrei/gateway-route-configurator/internal/relation"
)

// DiffRecords computes the difference between the current and desired databag.
// Returns keys to set (missing from current or holding another value) and keys
// to remove (in current but not in desired), both sorted.
func DiffRecords(current, desired relation.Databag) (toSet, toRemove []string) {
	for key, value := range desired {
		if currentValue, ok := current[key]; !ok || currentValue != value {
			toSet = append(toSet, key)
		}
	}

	for key := range current {
		if _, ok := desired[key]; !ok {
			toRemove = append(toRemove, key)
		}
	}

	slices.Sort(toSet)
	slices.Sort(toRemove)

	return toSet, toRemove
}
