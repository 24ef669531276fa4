// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package recommend

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/rs/zerolog"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

// memStore implements ArtifactStore in memory.
type memStore struct {
	mu      sync.Mutex
	sets    []*ArtifactSet
	saveErr error
	loadErr error

	// stored simulates versions on disk that LoadLatest cannot return.
	stored int
}

func (m *memStore) LoadLatest(ctx context.Context) (*ArtifactSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if len(m.sets) == 0 {
		return nil, nil
	}
	return m.sets[len(m.sets)-1], nil
}

func (m *memStore) Save(ctx context.Context, set *ArtifactSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.sets = append(m.sets, set)
	return nil
}

func (m *memStore) LatestVersion(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	latest := m.stored
	for _, set := range m.sets {
		if set.Version > latest {
			latest = set.Version
		}
	}
	return latest, nil
}

func (m *memStore) saved() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sets)
}

// staticCatalog implements Catalog over a fixed slice.
type staticCatalog struct {
	mu    sync.RWMutex
	props []Property
	err   error
}

func (c *staticCatalog) GetAll(ctx context.Context) ([]Property, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.err != nil {
		return nil, c.err
	}
	out := make([]Property, len(c.props))
	copy(out, c.props)
	return out, nil
}

func (c *staticCatalog) set(props []Property) {
	c.mu.Lock()
	c.props = props
	c.mu.Unlock()
}

var errStoreDown = errors.New("store down")

// lekkiCatalog is the five-property catalog from the recommendation
// scenario: property 1 is the 3/2/1 Lekki listing.
func lekkiCatalog() []Property {
	return []Property{
		{ID: 1, Location: "Lekki", Bedrooms: 3, Bathrooms: 2, Toilets: 1, ParkingSpaces: intPtr(2), Price: floatPtr(500000)},
		{ID: 2, Location: "Ikeja", Bedrooms: 2, Bathrooms: 1, Toilets: 1, Price: floatPtr(300000)},
		{ID: 3, Location: "Ikeja", Bedrooms: 3, Bathrooms: 2, Toilets: 1, ParkingSpaces: intPtr(1), Price: floatPtr(420000)},
		{ID: 4, Location: "Yaba", Bedrooms: 4, Bathrooms: 3, Toilets: 2, Price: floatPtr(800000)},
		{ID: 5, Location: "Lekki", Bedrooms: 1, Bathrooms: 1, Toilets: 1, Price: floatPtr(150000)},
	}
}

// pricedCatalog returns n properties whose price grows with bedrooms and
// carries a premium for Lekki.
func pricedCatalog(n int) []Property {
	locations := []string{"Ikeja", "Lekki", "Yaba"}
	props := make([]Property, 0, n)
	for i := 0; i < n; i++ {
		bedrooms := 1 + i%5
		loc := locations[i%len(locations)]
		price := float64(bedrooms) * 100000
		if loc == "Lekki" {
			price += 50000
		}
		props = append(props, Property{
			ID:            int64(i + 1),
			Location:      loc,
			Bedrooms:      bedrooms,
			Bathrooms:     1 + bedrooms/2,
			Toilets:       1 + bedrooms/3,
			ParkingSpaces: intPtr(i % 3),
			Price:         floatPtr(price),
		})
	}
	return props
}

// fastConfig trains small forests for tests.
func fastConfig() *Config {
	cfg := DefaultConfig()
	cfg.Forest.Trees = 10
	cfg.Training.MinInterval = 0
	return cfg
}
