// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package catalog

import (
	"errors"
	"testing"
)

func intVal(p *int) int {
	if p == nil {
		return -1
	}
	return *p
}

func TestParseRooms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text                        string
		bed, bath, toilets, parking int
	}{
		{"3 Bedrooms 2 Bathrooms 3 Toilets 1 Parking Space", 3, 2, 3, 1},
		{"1 Bedroom 1 Bathroom 1 Toilet", 1, 1, 1, -1},
		{"4 Bedrooms 4 Bathrooms 5 Toilets 3 Parking Spaces Save", 4, 4, 5, 3},
		{"5 bedrooms 6 BATHROOMS", 5, 6, -1, -1},
		{"4Bedrooms", 4, -1, -1, -1},
		{"Land for sale", -1, -1, -1, -1},
		{"", -1, -1, -1, -1},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()

			got := ParseRooms(tt.text)
			if intVal(got.Bedrooms) != tt.bed || intVal(got.Bathrooms) != tt.bath ||
				intVal(got.Toilets) != tt.toilets || intVal(got.ParkingSpaces) != tt.parking {
				t.Errorf("ParseRooms(%q) = %d/%d/%d/%d, want %d/%d/%d/%d", tt.text,
					intVal(got.Bedrooms), intVal(got.Bathrooms), intVal(got.Toilets), intVal(got.ParkingSpaces),
					tt.bed, tt.bath, tt.toilets, tt.parking)
			}
		})
	}
}

func TestCleanPrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"₦ 1,200,000", 1_200_000, false},
		{"₦45,000,000", 45_000_000, false},
		{"$ 2,500.50", 2500.5, false},
		{"  750000 ", 750_000, false},
		{"", 0, true},
		{"₦", 0, true},
		{"Price on request", 0, true},
		{"NaN", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := CleanPrice(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnparsablePrice) {
					t.Errorf("CleanPrice(%q) err = %v, want ErrUnparsablePrice", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("CleanPrice(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("CleanPrice(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeListings(t *testing.T) {
	t.Parallel()

	raw := []RawListing{
		{Rooms: "3 Bedrooms 2 Bathrooms 3 Toilets 1 Parking Space", Price: "₦ 1,200,000", Location: "Lekki"},
		{Rooms: "1 Bedroom 1 Bathroom 1 Toilet", Price: "₦ 400,000", Location: " Yaba "},
		{Rooms: "5 Bedrooms 4 Bathrooms 6 Toilets 3 Parking Spaces", Price: "Price on request", Location: "Ikoyi"},
		{ID: 77, Rooms: "Land", Price: "₦0", Location: "Epe"},
	}

	props := NormalizeListings(raw)
	if len(props) != 4 {
		t.Fatalf("got %d properties, want 4", len(props))
	}

	if props[0].ID != 1 || props[1].ID != 2 || props[3].ID != 77 {
		t.Errorf("ids = %d,%d,%d,%d", props[0].ID, props[1].ID, props[2].ID, props[3].ID)
	}
	if props[1].Location != "Yaba" {
		t.Errorf("location not trimmed: %q", props[1].Location)
	}
	if props[0].Price == nil || *props[0].Price != 1_200_000 {
		t.Errorf("price not cleaned: %v", props[0].Price)
	}
	if props[2].Price != nil {
		t.Error("unparsable price should stay nil")
	}
	if props[3].Price != nil {
		t.Error("zero price should stay nil")
	}

	// Bedrooms {3,1,5} has median 3. Parking {1,3} has median 2.
	land := props[3]
	if land.Bedrooms != 3 || land.Bathrooms != 2 || land.Toilets != 3 {
		t.Errorf("median fill = %d/%d/%d, want 3/2/3", land.Bedrooms, land.Bathrooms, land.Toilets)
	}
	if intVal(land.ParkingSpaces) != 2 || intVal(props[1].ParkingSpaces) != 2 {
		t.Errorf("parking fill = %d/%d, want 2", intVal(land.ParkingSpaces), intVal(props[1].ParkingSpaces))
	}
	if intVal(props[0].ParkingSpaces) != 1 {
		t.Errorf("parsed parking overwritten: %d", intVal(props[0].ParkingSpaces))
	}
}

func TestNormalizeListingsNoValues(t *testing.T) {
	t.Parallel()

	props := NormalizeListings([]RawListing{{Rooms: "Land", Location: "Epe"}})
	if len(props) != 1 {
		t.Fatal("listing dropped")
	}
	if props[0].Bedrooms != 0 || props[0].ParkingSpaces != nil {
		t.Errorf("unexpected fill without any values: %+v", props[0])
	}
}
