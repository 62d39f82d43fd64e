// Package filter narrows a pool collection by the predicate values the
// presentation layer exposes, and owns the filter state transitions.
package filter

import (
	"strings"

	"carpool/internal/domain"
)

// Bounds is an inclusive fare-per-head range.
type Bounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DefaultFareBounds anchors the fare range when no pools are loaded.
var DefaultFareBounds = Bounds{Min: 0, Max: 100}

// Spec holds the active predicate values. A nil FemaleOnly and empty strings
// mean the corresponding predicate is unconstrained; the fare range is always
// active. Spec values are immutable: every transition returns a new value.
type Spec struct {
	SearchQuery   string
	FemaleOnly    *bool
	StartPoint    string
	EndPoint      string
	TransportMode string
	FareRange     [2]float64
}

// NewSpec returns an unconstrained spec anchored to the given fare bounds.
func NewSpec(bounds Bounds) Spec {
	return Spec{FareRange: [2]float64{bounds.Min, bounds.Max}}
}

// Apply returns the pools matching every active predicate, preserving the
// input order. It never reorders, deduplicates, or errors.
func Apply(pools []domain.Pool, spec Spec) []domain.Pool {
	matched := make([]domain.Pool, 0, len(pools))
	for _, pool := range pools {
		if matches(pool, spec) {
			matched = append(matched, pool)
		}
	}
	return matched
}

// matches evaluates the conjunction of all active predicates. Pools missing a
// field used by an active predicate fail closed; the per-head fare was already
// normalized to zero when its inputs were absent, so it stays in range checks.
func matches(pool domain.Pool, spec Spec) bool {
	if spec.SearchQuery != "" {
		creator := strings.ToLower(pool.CreatedBy.FullName)
		if !strings.Contains(creator, strings.ToLower(spec.SearchQuery)) {
			return false
		}
	}

	if spec.FemaleOnly != nil && pool.FemaleOnly != *spec.FemaleOnly {
		return false
	}

	if spec.StartPoint != "" && pool.StartPoint != spec.StartPoint {
		return false
	}

	if spec.EndPoint != "" && pool.EndPoint != spec.EndPoint {
		return false
	}

	if spec.TransportMode != "" && pool.TransportMode != spec.TransportMode {
		return false
	}

	if pool.FarePerHead < spec.FareRange[0] || pool.FarePerHead > spec.FareRange[1] {
		return false
	}

	return true
}
