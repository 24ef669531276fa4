// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package recommend

// Column names of the tabular property form. Training and serving both go
// through ToRow, so the feature order below is declared exactly once.
const (
	ColumnBedrooms  = "Bedrooms"
	ColumnBathrooms = "Bathrooms"
	ColumnToilets   = "Toilets"
	ColumnParking   = "Parking Spaces"
	ColumnLocation  = "location"
)

// numericFeatures is the width of the scaled block of a feature row.
const numericFeatures = 4

// FeatureColumns is the estimator column order: scaled numeric block
// followed by the unscaled location id.
var FeatureColumns = [numericFeatures + 1]string{
	ColumnBedrooms,
	ColumnBathrooms,
	ColumnToilets,
	ColumnParking,
	ColumnLocation,
}

// locationColumn is the index of the location id within a feature row.
const locationColumn = numericFeatures

// parkingColumn is the index of parking spaces within the numeric block.
const parkingColumn = 3

// PropertyRow is the typed tabular form of a Property.
type PropertyRow struct {
	ID int64

	// Numeric holds bedrooms, bathrooms, toilets, parking in FeatureColumns order.
	Numeric [numericFeatures]float64

	// ParkingKnown is false when the source property had no parking value.
	ParkingKnown bool

	Location string

	Price    float64
	HasPrice bool
}

// ToRow converts a property to its tabular form.
//
//nolint:gocritic // Property is small enough to pass by value
func ToRow(p Property) PropertyRow {
	row := PropertyRow{
		ID:       p.ID,
		Location: p.Location,
	}
	row.Numeric[0] = float64(p.Bedrooms)
	row.Numeric[1] = float64(p.Bathrooms)
	row.Numeric[2] = float64(p.Toilets)
	if p.ParkingSpaces != nil {
		row.Numeric[parkingColumn] = float64(*p.ParkingSpaces)
		row.ParkingKnown = true
	}
	if p.HasPrice() {
		row.Price = *p.Price
		row.HasPrice = true
	}
	return row
}

// FromRow converts a tabular row back to a property. The predicted price is
// never reconstructed from a row.
//
//nolint:gocritic // PropertyRow is passed by value for symmetry with ToRow
func FromRow(r PropertyRow) Property {
	p := Property{
		ID:        r.ID,
		Location:  r.Location,
		Bedrooms:  int(r.Numeric[0]),
		Bathrooms: int(r.Numeric[1]),
		Toilets:   int(r.Numeric[2]),
	}
	if r.ParkingKnown {
		parking := int(r.Numeric[parkingColumn])
		p.ParkingSpaces = &parking
	}
	if r.HasPrice {
		price := r.Price
		p.Price = &price
	}
	return p
}
