// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package recommend

import (
	"fmt"
	"math"
	"sort"
)

// Stage identifies which step of the fallback cascade produced a result.
type Stage string

const (
	StageExact              Stage = "exact"
	StageLocation           Stage = "location"
	StageSample             Stage = "sample"
	StageDegenerateExact    Stage = "degenerate_exact"
	StageDegenerateLocation Stage = "degenerate_location"
	StageDegenerateSample   Stage = "degenerate_sample"
	StageEmpty              Stage = "empty"
)

// Sampler provides random permutations for backfill sampling.
// *rand.Rand satisfies it.
type Sampler interface {
	Perm(n int) []int
}

// FilterAndRank selects candidates matching the preference, narrows them by
// location when possible and ranks them by ascending predicted price. When
// nothing matches it samples up to limit candidates uniformly.
//
// locationKnown must be false when the preference location is not in the
// encoder vocabulary; location narrowing is skipped in that case.
//
//nolint:gocritic // UserPreference is passed by value as an immutable profile
func FilterAndRank(candidates []Property, pref UserPreference, locationKnown bool, limit int, rng Sampler) ([]Property, Stage, error) {
	if limit < 1 {
		return nil, StageEmpty, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}

	unique := dedupeByID(candidates)
	if len(unique) == 0 {
		return nil, StageEmpty, nil
	}

	matched := exactMatches(unique, &pref)
	stage := StageExact
	if locationKnown {
		if narrowed := locationMatches(matched, pref.Location); len(narrowed) > 0 {
			matched = narrowed
			stage = StageLocation
		}
	}

	if len(matched) == 0 {
		return sample(unique, limit, rng), StageSample, nil
	}

	rankByPredictedPrice(matched)
	return truncate(matched, limit), stage, nil
}

// FilterDegenerate is the path used when no model is available. It applies
// the exact and location stages without price ranking and falls back to a
// uniform sample of the catalog.
//
//nolint:gocritic // UserPreference is passed by value as an immutable profile
func FilterDegenerate(all []Property, pref UserPreference, limit int, rng Sampler) ([]Property, Stage, error) {
	if limit < 1 {
		return nil, StageEmpty, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}

	unique := dedupeByID(all)
	if len(unique) == 0 {
		return nil, StageEmpty, nil
	}

	matched := exactMatches(unique, &pref)
	if len(matched) == 0 {
		return sample(unique, limit, rng), StageDegenerateSample, nil
	}

	if narrowed := locationMatches(matched, pref.Location); len(narrowed) > 0 {
		return truncate(narrowed, limit), StageDegenerateLocation, nil
	}
	return truncate(matched, limit), StageDegenerateExact, nil
}

// matchesRooms compares against the preference rounded to the nearest
// integer, since medians can be fractional.
func matchesRooms(p *Property, pref *UserPreference) bool {
	return float64(p.Bedrooms) == math.Round(pref.Bedrooms) &&
		float64(p.Bathrooms) == math.Round(pref.Bathrooms) &&
		float64(p.Toilets) == math.Round(pref.Toilets)
}

func exactMatches(props []Property, pref *UserPreference) []Property {
	var out []Property
	for i := range props {
		if matchesRooms(&props[i], pref) {
			out = append(out, props[i])
		}
	}
	return out
}

func locationMatches(props []Property, location string) []Property {
	if location == "" {
		return nil
	}
	var out []Property
	for i := range props {
		if props[i].Location == location {
			out = append(out, props[i])
		}
	}
	return out
}

// rankByPredictedPrice sorts ascending by predicted price with ties broken
// by ascending ID. Properties without a prediction sort last.
func rankByPredictedPrice(props []Property) {
	sort.SliceStable(props, func(i, j int) bool {
		a, b := props[i].PredictedPrice, props[j].PredictedPrice
		switch {
		case a == nil && b == nil:
			return props[i].ID < props[j].ID
		case a == nil:
			return false
		case b == nil:
			return true
		case *a != *b:
			return *a < *b
		default:
			return props[i].ID < props[j].ID
		}
	})
}

// dedupeByID keeps the first occurrence of every ID.
func dedupeByID(props []Property) []Property {
	seen := make(map[int64]struct{}, len(props))
	out := make([]Property, 0, len(props))
	for i := range props {
		if _, ok := seen[props[i].ID]; ok {
			continue
		}
		seen[props[i].ID] = struct{}{}
		out = append(out, props[i])
	}
	return out
}

func sample(props []Property, limit int, rng Sampler) []Property {
	n := min(limit, len(props))
	perm := rng.Perm(len(props))
	out := make([]Property, 0, n)
	for _, i := range perm[:n] {
		out = append(out, props[i])
	}
	return out
}

func truncate(props []Property, limit int) []Property {
	if len(props) > limit {
		return props[:limit]
	}
	return props
}
