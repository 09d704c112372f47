package aggregate

import (
	"math"

	"github.com/montanaflynn/stats"
)

// Round rounds v to places decimals. Non-finite values become nil so they
// serialize as JSON null.
func Round(v float64, places int) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	r, err := stats.Round(v, places)
	if err != nil {
		return nil
	}
	return &r
}

// RoundPtr is Round for optional values
func RoundPtr(v *float64, places int) *float64 {
	if v == nil {
		return nil
	}
	return Round(*v, places)
}

// Finite returns v, or nil when v is NaN or infinite
func Finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Mean returns the arithmetic mean, or NaN for an empty slice
func Mean(values []float64) float64 {
	m, err := stats.Mean(values)
	if err != nil {
		return math.NaN()
	}
	return m
}

// Sum returns the total, 0 for an empty slice
func Sum(values []float64) float64 {
	s, err := stats.Sum(values)
	if err != nil {
		return 0
	}
	return s
}

// Floats collects the non-missing values of an optional field
func Floats[T any](items []T, field func(T) *float64) []float64 {
	out := make([]float64, 0, len(items))
	for _, item := range items {
		if v := field(item); v != nil {
			out = append(out, *v)
		}
	}
	return out
}
