// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

const propertiesSeed = `[
  {"id": 1, "location": "Lekki", "bedrooms": 3, "bathrooms": 2, "toilets": 3, "price": 1200000},
  {"id": 2, "location": "Ikeja", "bedrooms": 2, "bathrooms": 1, "toilets": 2, "parking_spaces": 1}
]`

const listingsSeed = `[
  {"rooms": "3 Bedrooms 2 Bathrooms 3 Toilets 1 Parking Space", "price": "₦ 1,200,000", "location": "Lekki"},
  {"rooms": "2 Bedrooms 2 Bathrooms 3 Toilets Save", "price": "₦ 900,000", "location": "Ikeja"},
  {"rooms": "1 Bedroom", "price": "₦ 300,000", "location": "Yaba"}
]`

func TestImportJSON(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	n, err := s.ImportJSON(context.Background(), writeFile(t, "properties.json", propertiesSeed))
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if n != 2 {
		t.Errorf("imported %d, want 2", n)
	}
	p, err := s.Get(context.Background(), 2)
	if err != nil {
		t.Fatal(err)
	}
	if intVal(p.ParkingSpaces) != 1 || p.Price != nil {
		t.Errorf("unexpected property: %+v", p)
	}
}

func TestImportListingsJSON(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	n, err := s.ImportListingsJSON(context.Background(), writeFile(t, "listings.json", listingsSeed))
	if err != nil {
		t.Fatalf("ImportListingsJSON: %v", err)
	}
	if n != 3 {
		t.Errorf("imported %d, want 3", n)
	}

	yaba, err := s.Get(context.Background(), 3)
	if err != nil {
		t.Fatal(err)
	}
	// Bathrooms {2,2} and toilets {3,3} fill the Yaba listing.
	if yaba.Bedrooms != 1 || yaba.Bathrooms != 2 || yaba.Toilets != 3 {
		t.Errorf("Yaba = %+v", yaba)
	}
	if yaba.Price == nil || *yaba.Price != 300_000 {
		t.Errorf("Yaba price = %v", yaba.Price)
	}
}

func TestImportMissingFile(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	n, err := s.ImportJSON(context.Background(), filepath.Join(t.TempDir(), "absent.json"))
	if err != nil || n != 0 {
		t.Errorf("ImportJSON(missing) = %d, %v; want 0, nil", n, err)
	}
}

func TestImportErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		format  SeedFormat
		wantErr error
	}{
		{"malformed JSON", `[{"id": 1,`, SeedFormatProperties, nil},
		{"invalid property", `[{"id": -4, "location": "Lekki"}]`, SeedFormatProperties, ErrInvalidPropertyData},
		{"unknown format", `[]`, SeedFormat("csv"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := openTestStore(t)
			_, err := s.importFile(context.Background(), writeFile(t, "seed.json", tt.content), tt.format)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSeedOnlyWhenEmpty(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()
	path := writeFile(t, "properties.json", propertiesSeed)

	n, err := s.Seed(ctx, path, SeedFormatProperties)
	if err != nil || n != 2 {
		t.Fatalf("first Seed = %d, %v", n, err)
	}
	n, err = s.Seed(ctx, path, SeedFormatProperties)
	if err != nil || n != 0 {
		t.Errorf("second Seed = %d, %v; want 0, nil", n, err)
	}
	if n, err := s.Seed(ctx, "", SeedFormatProperties); err != nil || n != 0 {
		t.Errorf("Seed with empty path = %d, %v", n, err)
	}
}
