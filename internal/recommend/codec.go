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

// FeatureFrame is the encoded and scaled matrix for a list of properties.
// Rows follow input order and columns follow FeatureColumns.
type FeatureFrame [][]float64

// CodecState is the fitted location encoder and feature scaler. It is
// immutable after FitCodec returns and is only valid together with the
// estimator that was trained against it.
type CodecState struct {
	// Locations is the sorted vocabulary. A location's id is its index.
	Locations []string

	// Mean is the per-feature mean of the numeric block.
	Mean [numericFeatures]float64

	// Std is the per-feature population standard deviation. Zero
	// deviations are stored as 1.
	Std [numericFeatures]float64

	// ParkingFill replaces missing parking values before scaling.
	ParkingFill float64
}

// FitCodec fits the location encoder and scaler on the given properties.
// Location ids are assigned in lexicographic order so fitting is
// independent of catalog order.
func FitCodec(properties []Property) (*CodecState, error) {
	if len(properties) == 0 {
		return nil, fmt.Errorf("fit codec: %w: no properties", ErrInsufficientData)
	}

	state := &CodecState{}

	seen := make(map[string]struct{})
	var parking []float64
	for i := range properties {
		p := &properties[i]
		if p.Location != "" {
			if _, ok := seen[p.Location]; !ok {
				seen[p.Location] = struct{}{}
				state.Locations = append(state.Locations, p.Location)
			}
		}
		if p.ParkingSpaces != nil {
			parking = append(parking, float64(*p.ParkingSpaces))
		}
	}
	sort.Strings(state.Locations)
	state.ParkingFill = medianOr(parking, 0)

	rows := make([][numericFeatures]float64, len(properties))
	for i := range properties {
		rows[i] = state.numeric(ToRow(properties[i]))
	}

	n := float64(len(rows))
	for f := 0; f < numericFeatures; f++ {
		var sum float64
		for _, r := range rows {
			sum += r[f]
		}
		mean := sum / n

		var sq float64
		for _, r := range rows {
			d := r[f] - mean
			sq += d * d
		}
		std := math.Sqrt(sq / n)
		if std == 0 {
			std = 1
		}

		state.Mean[f] = mean
		state.Std[f] = std
	}

	return state, nil
}

// LocationID returns the dense id of a location, or an
// *UnknownLocationError when the location was not seen during fit.
func (s *CodecState) LocationID(location string) (int, error) {
	i := sort.SearchStrings(s.Locations, location)
	if i < len(s.Locations) && s.Locations[i] == location {
		return i, nil
	}
	return 0, &UnknownLocationError{Location: location}
}

// EncodeOne encodes a single property into a feature row.
//
//nolint:gocritic // Property is small enough to pass by value
func (s *CodecState) EncodeOne(p Property) ([]float64, error) {
	id, err := s.LocationID(p.Location)
	if err != nil {
		return nil, err
	}

	numeric := s.numeric(ToRow(p))
	out := make([]float64, len(FeatureColumns))
	for f := 0; f < numericFeatures; f++ {
		out[f] = (numeric[f] - s.Mean[f]) / s.Std[f]
	}
	out[locationColumn] = float64(id)
	return out, nil
}

// Encode encodes every property. It fails on the first property whose
// location is not in the vocabulary.
func (s *CodecState) Encode(properties []Property) (FeatureFrame, error) {
	frame := make(FeatureFrame, 0, len(properties))
	for i := range properties {
		row, err := s.EncodeOne(properties[i])
		if err != nil {
			return nil, fmt.Errorf("encode property %d: %w", properties[i].ID, err)
		}
		frame = append(frame, row)
	}
	return frame, nil
}

// numeric returns the unscaled numeric block with missing parking filled.
func (s *CodecState) numeric(row PropertyRow) [numericFeatures]float64 {
	out := row.Numeric
	if !row.ParkingKnown {
		out[parkingColumn] = s.ParkingFill
	}
	return out
}
