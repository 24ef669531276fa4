// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package recommend

import (
	"sort"
)

// TieBreak selects the most frequent location when counts are equal.
type TieBreak string

const (
	// TieBreakFirstSeen picks the location encountered first in catalog order.
	TieBreakFirstSeen TieBreak = "first_seen"

	// TieBreakLexicographic picks the lexicographically smallest location.
	TieBreakLexicographic TieBreak = "lexicographic"
)

// UnknownLocationName is the preference location used when no property in
// scope has a location at all.
const UnknownLocationName = "Unknown"

// PreferencePolicy holds the configurable policy points of preference
// extraction.
type PreferencePolicy struct {
	// TieBreak decides between equally frequent locations.
	TieBreak TieBreak

	// Defaults are substituted for numeric fields with no defined values.
	Defaults UserPreference
}

// DefaultPreferencePolicy returns first-seen tie-breaking and neutral
// defaults of 3 bedrooms, 2 bathrooms, 1 toilet and 1 parking space.
func DefaultPreferencePolicy() PreferencePolicy {
	return PreferencePolicy{
		TieBreak: TieBreakFirstSeen,
		Defaults: UserPreference{
			Bedrooms:      3,
			Bathrooms:     2,
			Toilets:       1,
			ParkingSpaces: 1,
			Location:      UnknownLocationName,
		},
	}
}

// ExtractPreferences derives a preference profile with the default policy.
func ExtractPreferences(user User, all []Property) UserPreference {
	return DefaultPreferencePolicy().Extract(user, all)
}

// Extract derives the user's implied preferences from their behaviour set.
// When none of the behaviour IDs exist in the catalog the whole catalog is
// aggregated instead. It never fails.
//
//nolint:gocritic // User is passed by value to keep the call site simple
func (pp PreferencePolicy) Extract(user User, all []Property) UserPreference {
	behavior := user.BehaviorIDs()

	scope := make([]Property, 0, len(behavior))
	if len(behavior) > 0 {
		for i := range all {
			if _, ok := behavior[all[i].ID]; ok {
				scope = append(scope, all[i])
			}
		}
	}
	if len(scope) == 0 {
		scope = all
	}

	return pp.aggregate(scope)
}

func (pp PreferencePolicy) aggregate(props []Property) UserPreference {
	bedrooms := make([]float64, 0, len(props))
	bathrooms := make([]float64, 0, len(props))
	toilets := make([]float64, 0, len(props))
	parking := make([]float64, 0, len(props))
	locations := make([]string, 0, len(props))

	for i := range props {
		p := &props[i]
		bedrooms = append(bedrooms, float64(p.Bedrooms))
		bathrooms = append(bathrooms, float64(p.Bathrooms))
		toilets = append(toilets, float64(p.Toilets))
		if p.ParkingSpaces != nil {
			parking = append(parking, float64(*p.ParkingSpaces))
		}
		if p.Location != "" {
			locations = append(locations, p.Location)
		}
	}

	return UserPreference{
		Bedrooms:      medianOr(bedrooms, pp.Defaults.Bedrooms),
		Bathrooms:     medianOr(bathrooms, pp.Defaults.Bathrooms),
		Toilets:       medianOr(toilets, pp.Defaults.Toilets),
		ParkingSpaces: medianOr(parking, pp.Defaults.ParkingSpaces),
		Location:      pp.mostFrequent(locations),
	}
}

func (pp PreferencePolicy) mostFrequent(locations []string) string {
	if len(locations) == 0 {
		if pp.Defaults.Location != "" {
			return pp.Defaults.Location
		}
		return UnknownLocationName
	}

	counts := make(map[string]int, len(locations))
	order := make([]string, 0, len(locations))
	for _, loc := range locations {
		if counts[loc] == 0 {
			order = append(order, loc)
		}
		counts[loc]++
	}

	best := order[0]
	for _, loc := range order[1:] {
		switch {
		case counts[loc] > counts[best]:
			best = loc
		case counts[loc] == counts[best] && pp.TieBreak == TieBreakLexicographic && loc < best:
			best = loc
		}
	}
	return best
}

// medianOr returns the median of values, or fallback when values is empty.
func medianOr(values []float64, fallback float64) float64 {
	if len(values) == 0 {
		return fallback
	}
	return median(values)
}

// median returns the median of a non-empty slice without modifying it.
func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
