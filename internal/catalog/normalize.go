// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package catalog

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/tomtom215/estatewise/internal/recommend"
)

// RawListing is a scraped listing before normalization.
type RawListing struct {
	// ID is optional. Listings without one are numbered by position,
	// starting at 1.
	ID       int64  `json:"id,omitempty"`
	Rooms    string `json:"rooms"`
	Price    string `json:"price"`
	Location string `json:"location"`
}

// Rooms holds counts parsed from a listing's rooms text. Nil means the
// count was not present.
type Rooms struct {
	Bedrooms      *int
	Bathrooms     *int
	Toilets       *int
	ParkingSpaces *int
}

var (
	bedroomsRe  = regexp.MustCompile(`(?i)(\d+)\s*Bedrooms?`)
	bathroomsRe = regexp.MustCompile(`(?i)(\d+)\s*Bathrooms?`)
	toiletsRe   = regexp.MustCompile(`(?i)(\d+)\s*Toilets?`)
	parkingRe   = regexp.MustCompile(`(?i)(\d+)\s*Parking\s+Spaces?`)

	priceStrip = strings.NewReplacer("₦", "", "$", "", ",", "", " ", "", "\u00a0", "")
)

// ErrUnparsablePrice is returned by CleanPrice.
var ErrUnparsablePrice = errors.New("unparsable price")

// ParseRooms extracts room counts from text such as
// "3 Bedrooms 2 Bathrooms 3 Toilets 1 Parking Space". A trailing " Save"
// left by the scraper is ignored.
func ParseRooms(text string) Rooms {
	text = strings.TrimSpace(strings.ReplaceAll(text, " Save", ""))
	return Rooms{
		Bedrooms:      firstCount(bedroomsRe, text),
		Bathrooms:     firstCount(bathroomsRe, text),
		Toilets:       firstCount(toiletsRe, text),
		ParkingSpaces: firstCount(parkingRe, text),
	}
}

func firstCount(re *regexp.Regexp, text string) *int {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &n
}

// CleanPrice strips currency symbols, thousands separators and spaces and
// parses the remainder, e.g. "₦ 1,200,000" becomes 1200000.
func CleanPrice(price string) (float64, error) {
	cleaned := priceStrip.Replace(strings.TrimSpace(price))
	if cleaned == "" {
		return 0, fmt.Errorf("%w: empty", ErrUnparsablePrice)
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrUnparsablePrice, price)
	}
	return v, nil
}

// NormalizeListings converts raw listings to properties. Missing room
// counts are filled with the column median, rounded to the nearest integer.
// Listings whose price does not parse, or is not positive, keep a nil
// price.
func NormalizeListings(raw []RawListing) []recommend.Property {
	parsed := make([]Rooms, len(raw))
	for i := range raw {
		parsed[i] = ParseRooms(raw[i].Rooms)
	}

	bedFill := columnMedian(parsed, func(r Rooms) *int { return r.Bedrooms })
	bathFill := columnMedian(parsed, func(r Rooms) *int { return r.Bathrooms })
	toiletFill := columnMedian(parsed, func(r Rooms) *int { return r.Toilets })
	parkingFill := columnMedian(parsed, func(r Rooms) *int { return r.ParkingSpaces })

	props := make([]recommend.Property, 0, len(raw))
	for i := range raw {
		id := raw[i].ID
		if id <= 0 {
			id = int64(i + 1)
		}
		p := recommend.Property{
			ID:       id,
			Location: strings.TrimSpace(raw[i].Location),
		}
		p.Bedrooms = valueOr(parsed[i].Bedrooms, bedFill)
		p.Bathrooms = valueOr(parsed[i].Bathrooms, bathFill)
		p.Toilets = valueOr(parsed[i].Toilets, toiletFill)

		switch {
		case parsed[i].ParkingSpaces != nil:
			p.ParkingSpaces = parsed[i].ParkingSpaces
		case parkingFill != nil:
			v := *parkingFill
			p.ParkingSpaces = &v
		}

		if price, err := CleanPrice(raw[i].Price); err == nil && price > 0 {
			p.Price = &price
		}
		props = append(props, p)
	}
	return props
}

func valueOr(v, fill *int) int {
	if v != nil {
		return *v
	}
	if fill != nil {
		return *fill
	}
	return 0
}

// columnMedian returns nil when no row has a value.
func columnMedian(rows []Rooms, get func(Rooms) *int) *int {
	values := make([]float64, 0, len(rows))
	for _, r := range rows {
		if v := get(r); v != nil {
			values = append(values, float64(*v))
		}
	}
	if len(values) == 0 {
		return nil
	}
	sort.Float64s(values)
	mid := len(values) / 2
	m := values[mid]
	if len(values)%2 == 0 {
		m = (values[mid-1] + values[mid]) / 2
	}
	n := int(math.Round(m))
	return &n
}
