// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package recommend

// Estimator is a fitted regression model over FeatureColumns rows.
type Estimator interface {
	Predict(row []float64) float64
}

// Predict runs the estimator over every row of the frame. It never trains
// or mutates the estimator.
func Predict(frame FeatureFrame, est Estimator) []float64 {
	out := make([]float64, len(frame))
	for i, row := range frame {
		out[i] = est.Predict(row)
	}
	return out
}
