// Package stats implements the significance tests used by the insight
// engine on top of gonum's distributions.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Distributions provides p-values from the reference distributions
type Distributions struct{}

// NewDistributions creates a new distributions utility
func NewDistributions() *Distributions {
	return &Distributions{}
}

// TTestPValue computes the two-sided p-value of t with df degrees of freedom.
// Fractional df (Welch-Satterthwaite) is accepted.
func (d *Distributions) TTestPValue(tStatistic, df float64) float64 {
	if df <= 0 || math.IsNaN(df) || math.IsNaN(tStatistic) {
		return 1.0
	}
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return math.Min(1, 2*tDist.Survival(math.Abs(tStatistic)))
}

// CorrelationTStatistic transforms rho into t = rho*sqrt((n-2)/(1-rho^2))
func (d *Distributions) CorrelationTStatistic(rho float64, sampleSize int) float64 {
	df := float64(sampleSize - 2)
	return rho * math.Sqrt(df/(1-rho*rho))
}

// CorrelationPValue computes the two-sided p-value for H0: rho = 0
func (d *Distributions) CorrelationPValue(rho float64, sampleSize int) float64 {
	if sampleSize < 3 {
		return 1.0
	}
	if math.Abs(rho) >= 1 {
		return 0
	}
	return d.TTestPValue(d.CorrelationTStatistic(rho, sampleSize), float64(sampleSize-2))
}

// FTestPValue computes the upper-tail p-value of an F statistic
func (d *Distributions) FTestPValue(fStatistic float64, df1, df2 int) float64 {
	if df1 <= 0 || df2 <= 0 || math.IsNaN(fStatistic) {
		return 1.0
	}
	fDist := distuv.F{D1: float64(df1), D2: float64(df2)}
	return fDist.Survival(fStatistic)
}

// Quantile returns the p-quantile of values using gonum's LinInterp
// estimator. NaN for empty input.
func Quantile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.LinInterp, sorted, nil)
}
