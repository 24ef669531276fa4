// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package recommend

import (
	"time"
)

// Property is a real-estate listing as seen by the recommendation engine.
type Property struct {
	// ID is the immutable property identifier.
	ID int64 `json:"id" validate:"required,gt=0"`

	// Location is the free-form neighbourhood or city name.
	Location string `json:"location" validate:"max=256,nocontrol"`

	// Bedrooms is the number of bedrooms.
	Bedrooms int `json:"bedrooms" validate:"gte=0,lte=100"`

	// Bathrooms is the number of bathrooms.
	Bathrooms int `json:"bathrooms" validate:"gte=0,lte=100"`

	// Toilets is the number of toilets.
	Toilets int `json:"toilets" validate:"gte=0,lte=100"`

	// ParkingSpaces is optional; nil means unknown.
	ParkingSpaces *int `json:"parking_spaces,omitempty" validate:"omitempty,gte=0,lte=100"`

	// Price is the ground-truth listing price. Nil when unknown.
	Price *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`

	// PredictedPrice is derived on every prediction pass and must never be
	// persisted or copied into Price.
	PredictedPrice *float64 `json:"predicted_price,omitempty"`
}

// HasPrice reports whether the property carries a usable training label.
func (p *Property) HasPrice() bool {
	return p.Price != nil && *p.Price > 0
}

// WithoutPrediction returns a copy with PredictedPrice cleared.
//
//nolint:gocritic // value receiver returns an independent copy
func (p Property) WithoutPrediction() Property {
	p.PredictedPrice = nil
	return p
}

// User is the behavioural view of a user needed for recommendations.
type User struct {
	// ID is the user identifier.
	ID int64 `json:"user_id"`

	// Favorites holds favorited property IDs. Duplicates are tolerated.
	Favorites []int64 `json:"favorites"`

	// ViewedProperties holds viewed property IDs.
	ViewedProperties []int64 `json:"viewed_properties"`
}

// BehaviorIDs returns the union of favorites and viewed properties.
func (u *User) BehaviorIDs() map[int64]struct{} {
	ids := make(map[int64]struct{}, len(u.Favorites)+len(u.ViewedProperties))
	for _, id := range u.Favorites {
		ids[id] = struct{}{}
	}
	for _, id := range u.ViewedProperties {
		ids[id] = struct{}{}
	}
	return ids
}

// UserPreference is the implied preference profile of a user. It is built
// fresh per request and never persisted.
type UserPreference struct {
	Bedrooms      float64 `json:"bedrooms"`
	Bathrooms     float64 `json:"bathrooms"`
	Toilets       float64 `json:"toilets"`
	ParkingSpaces float64 `json:"parking_spaces"`
	Location      string  `json:"location"`
}

// Request represents a recommendation request.
type Request struct {
	// UserID identifies the user. Zero is allowed for anonymous requests.
	UserID int64 `json:"user_id"`

	// Favorites are property IDs the user favorited.
	Favorites []int64 `json:"favorites,omitempty"`

	// ViewedProperties are property IDs the user viewed.
	ViewedProperties []int64 `json:"viewed_properties,omitempty"`

	// Limit is the maximum number of recommendations. Zero uses the default.
	Limit int `json:"limit"`

	// RequestID is used for tracing. Generated if empty.
	RequestID string `json:"request_id,omitempty"`
}

// User returns the behavioural user carried by the request.
func (r *Request) User() User {
	return User{ID: r.UserID, Favorites: r.Favorites, ViewedProperties: r.ViewedProperties}
}

// Recommendation is the outbound record for one recommended property.
type Recommendation struct {
	PropertyID     int64    `json:"property_id"`
	Location       string   `json:"location"`
	Bedrooms       int      `json:"bedrooms"`
	Bathrooms      int      `json:"bathrooms"`
	Toilets        int      `json:"toilets"`
	ParkingSpaces  *int     `json:"parking_spaces,omitempty"`
	Price          *float64 `json:"price,omitempty"`
	PredictedPrice *float64 `json:"predicted_price,omitempty"`
}

// NewRecommendation converts a property into its outbound record.
//
//nolint:gocritic // Property is small enough to pass by value
func NewRecommendation(p Property) Recommendation {
	return Recommendation{
		PropertyID:     p.ID,
		Location:       p.Location,
		Bedrooms:       p.Bedrooms,
		Bathrooms:      p.Bathrooms,
		Toilets:        p.Toilets,
		ParkingSpaces:  p.ParkingSpaces,
		Price:          p.Price,
		PredictedPrice: p.PredictedPrice,
	}
}

// Response contains recommendations and metadata.
type Response struct {
	// Recommendations is the ordered result, at most Limit entries.
	Recommendations []Recommendation `json:"recommendations"`

	// Metadata contains request processing information.
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata contains information about the recommendation request.
type ResponseMetadata struct {
	// RequestID is the request identifier.
	RequestID string `json:"request_id"`

	// UserID is the requesting user.
	UserID int64 `json:"user_id"`

	// Stage is the filter stage that produced the result.
	Stage Stage `json:"stage"`

	// ModelAvailable reports whether predictions were computed.
	ModelAvailable bool `json:"model_available"`

	// ModelVersion is the artifact set version used, zero without a model.
	ModelVersion int `json:"model_version"`

	// TotalCandidates is the catalog size considered.
	TotalCandidates int `json:"total_candidates"`

	// Preference is the profile extracted for the user.
	Preference UserPreference `json:"preference"`

	// LatencyMS is the processing time in milliseconds.
	LatencyMS int64 `json:"latency_ms"`

	// Timestamp is when the response was generated.
	Timestamp time.Time `json:"timestamp"`
}

// TrainingStatus reports the current state of the model lifecycle.
type TrainingStatus struct {
	// IsTraining indicates whether a retrain is running.
	IsTraining bool `json:"is_training"`

	// ModelVersion is the version of the served artifact set.
	ModelVersion int `json:"model_version"`

	// ModelLoaded reports whether an artifact set is being served.
	ModelLoaded bool `json:"model_loaded"`

	// LastTrainedAt is when the served artifact set was trained.
	LastTrainedAt time.Time `json:"last_trained_at,omitempty"`

	// LastDurationMS is how long the last successful training took.
	LastDurationMS int64 `json:"last_duration_ms"`

	// LastError is the most recent training error, if any.
	LastError string `json:"last_error,omitempty"`

	// TrainingRows is the labeled row count of the served artifact set.
	TrainingRows int `json:"training_rows"`

	// Locations is the size of the served location vocabulary.
	Locations int `json:"locations"`
}
