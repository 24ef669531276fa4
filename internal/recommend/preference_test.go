// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package recommend

import (
	"testing"
)

func TestExtractPreferences_Median(t *testing.T) {
	t.Parallel()

	catalog := []Property{
		{ID: 1, Location: "Lekki", Bedrooms: 1, Bathrooms: 1, Toilets: 1},
		{ID: 2, Location: "Lekki", Bedrooms: 2, Bathrooms: 1, Toilets: 2},
		{ID: 3, Location: "Ikeja", Bedrooms: 2, Bathrooms: 2, Toilets: 2},
		{ID: 4, Location: "Ikeja", Bedrooms: 3, Bathrooms: 3, Toilets: 2},
		{ID: 5, Location: "Yaba", Bedrooms: 4, Bathrooms: 3, Toilets: 3},
	}
	user := User{ID: 1, Favorites: []int64{1, 2, 3}, ViewedProperties: []int64{4, 5}}

	pref := ExtractPreferences(user, catalog)

	if pref.Bedrooms != 2 {
		t.Errorf("Bedrooms = %v, want 2", pref.Bedrooms)
	}
	if pref.Bathrooms != 2 {
		t.Errorf("Bathrooms = %v, want 2", pref.Bathrooms)
	}
	if pref.Toilets != 2 {
		t.Errorf("Toilets = %v, want 2", pref.Toilets)
	}
	// Lekki and Ikeja both appear twice; Lekki is seen first.
	if pref.Location != "Lekki" {
		t.Errorf("Location = %q, want Lekki", pref.Location)
	}
}

func TestExtractPreferences_LekkiScenario(t *testing.T) {
	t.Parallel()

	pref := ExtractPreferences(User{ID: 9, Favorites: []int64{1}}, lekkiCatalog())

	if pref.Bedrooms != 3 || pref.Bathrooms != 2 || pref.Toilets != 1 {
		t.Errorf("rooms = %v/%v/%v, want 3/2/1", pref.Bedrooms, pref.Bathrooms, pref.Toilets)
	}
	if pref.ParkingSpaces != 2 {
		t.Errorf("ParkingSpaces = %v, want 2", pref.ParkingSpaces)
	}
	if pref.Location != "Lekki" {
		t.Errorf("Location = %q, want Lekki", pref.Location)
	}
}

func TestExtractPreferences_PopulationFallback(t *testing.T) {
	t.Parallel()

	catalog := lekkiCatalog()
	population := ExtractPreferences(User{}, catalog)

	tests := []struct {
		name string
		user User
	}{
		{name: "no behavior", user: User{ID: 1}},
		{name: "behavior not in catalog", user: User{ID: 2, Favorites: []int64{99}, ViewedProperties: []int64{100}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ExtractPreferences(tt.user, catalog)
			if got != population {
				t.Errorf("ExtractPreferences() = %+v, want population %+v", got, population)
			}
		})
	}

	// bedrooms {3,2,3,4,1} -> 3, bathrooms {2,1,2,3,1} -> 2
	if population.Bedrooms != 3 || population.Bathrooms != 2 || population.Toilets != 1 {
		t.Errorf("population rooms = %v/%v/%v, want 3/2/1",
			population.Bedrooms, population.Bathrooms, population.Toilets)
	}
	// parking {2,1} -> 1.5
	if population.ParkingSpaces != 1.5 {
		t.Errorf("population ParkingSpaces = %v, want 1.5", population.ParkingSpaces)
	}
	if population.Location != "Lekki" {
		t.Errorf("population Location = %q, want Lekki", population.Location)
	}
}

func TestExtractPreferences_EmptyCatalogDefaults(t *testing.T) {
	t.Parallel()

	pref := ExtractPreferences(User{ID: 1, Favorites: []int64{1}}, nil)

	want := UserPreference{Bedrooms: 3, Bathrooms: 2, Toilets: 1, ParkingSpaces: 1, Location: UnknownLocationName}
	if pref != want {
		t.Errorf("ExtractPreferences() = %+v, want %+v", pref, want)
	}
}

func TestExtractPreferences_UnsetParkingUsesDefault(t *testing.T) {
	t.Parallel()

	catalog := []Property{
		{ID: 1, Location: "Ikeja", Bedrooms: 2, Bathrooms: 1, Toilets: 1},
		{ID: 2, Location: "Ikeja", Bedrooms: 4, Bathrooms: 2, Toilets: 2},
	}

	pref := ExtractPreferences(User{Favorites: []int64{1, 2, 2, 1}}, catalog)

	if pref.Bedrooms != 3 {
		t.Errorf("Bedrooms = %v, want 3", pref.Bedrooms)
	}
	if pref.ParkingSpaces != 1 {
		t.Errorf("ParkingSpaces = %v, want default 1", pref.ParkingSpaces)
	}
}

func TestPreferencePolicy_TieBreak(t *testing.T) {
	t.Parallel()

	catalog := []Property{
		{ID: 1, Location: "Yaba", Bedrooms: 2},
		{ID: 2, Location: "Ikeja", Bedrooms: 2},
		{ID: 3, Location: "Ikeja", Bedrooms: 2},
		{ID: 4, Location: "Yaba", Bedrooms: 2},
	}

	tests := []struct {
		tieBreak TieBreak
		want     string
	}{
		{TieBreakFirstSeen, "Yaba"},
		{TieBreakLexicographic, "Ikeja"},
	}

	for _, tt := range tests {
		t.Run(string(tt.tieBreak), func(t *testing.T) {
			t.Parallel()
			policy := DefaultPreferencePolicy()
			policy.TieBreak = tt.tieBreak

			got := policy.Extract(User{}, catalog)
			if got.Location != tt.want {
				t.Errorf("Location = %q, want %q", got.Location, tt.want)
			}
		})
	}
}

func TestMedian(t *testing.T) {
	t.Parallel()

	tests := []struct {
		values []float64
		want   float64
	}{
		{[]float64{1, 2, 2, 3, 4}, 2},
		{[]float64{4, 1}, 2.5},
		{[]float64{7}, 7},
		{[]float64{3, 1, 2, 10}, 2.5},
	}

	for _, tt := range tests {
		original := append([]float64(nil), tt.values...)
		if got := median(tt.values); got != tt.want {
			t.Errorf("median(%v) = %v, want %v", tt.values, got, tt.want)
		}
		for i := range original {
			if original[i] != tt.values[i] {
				t.Fatalf("median modified its input: %v", tt.values)
			}
		}
	}
}
