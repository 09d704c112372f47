package stats

import (
	"math"

	"prodinsight/internal/errors"

	"gonum.org/v1/gonum/stat"
)

var dist = NewDistributions()

// TTestResult is the outcome of a two-sample Welch t-test. T is nil when the
// statistic is undefined (zero standard error with unequal means).
type TTestResult struct {
	Mean1, Mean2 float64
	N1, N2       int
	T            *float64
	DF           float64
	PValue       float64
}

// WelchTTest compares the means of a and b without assuming equal variances.
// Each sample needs at least two observations.
func WelchTTest(a, b []float64) (TTestResult, error) {
	if len(a) < 2 || len(b) < 2 {
		return TTestResult{}, errors.InsufficientData("t-test needs at least 2 observations per group (got %d and %d)", len(a), len(b))
	}

	mean1, var1 := stat.MeanVariance(a, nil)
	mean2, var2 := stat.MeanVariance(b, nil)
	n1, n2 := float64(len(a)), float64(len(b))

	res := TTestResult{Mean1: mean1, Mean2: mean2, N1: len(a), N2: len(b)}

	se2 := var1/n1 + var2/n2
	if se2 == 0 {
		if mean1 == mean2 {
			zero := 0.0
			res.T = &zero
			res.PValue = 1
		} else {
			res.PValue = 0
		}
		return res, nil
	}

	t := (mean1 - mean2) / math.Sqrt(se2)
	df := se2 * se2 / (math.Pow(var1/n1, 2)/(n1-1) + math.Pow(var2/n2, 2)/(n2-1))
	res.T = &t
	res.DF = df
	res.PValue = dist.TTestPValue(t, df)
	return res, nil
}

// ANOVAResult is the outcome of a one-way ANOVA. F is nil when the
// within-group variance is zero.
type ANOVAResult struct {
	Means  []float64
	Ns     []int
	F      *float64
	DF1    int
	DF2    int
	PValue float64
}

// OneWayANOVA tests equality of means across groups. Every group must be
// non-empty, there must be at least two groups and more observations than groups.
func OneWayANOVA(groups [][]float64) (ANOVAResult, error) {
	k := len(groups)
	if k < 2 {
		return ANOVAResult{}, errors.InsufficientData("ANOVA needs at least 2 groups (got %d)", k)
	}

	res := ANOVAResult{Means: make([]float64, k), Ns: make([]int, k)}
	var total float64
	n := 0
	for i, g := range groups {
		if len(g) == 0 {
			return ANOVAResult{}, errors.InsufficientData("ANOVA group %d is empty", i)
		}
		res.Means[i] = stat.Mean(g, nil)
		res.Ns[i] = len(g)
		for _, v := range g {
			total += v
		}
		n += len(g)
	}
	if n <= k {
		return ANOVAResult{}, errors.InsufficientData("ANOVA needs more observations than groups (%d <= %d)", n, k)
	}

	grand := total / float64(n)
	var ssb, ssw float64
	for i, g := range groups {
		d := res.Means[i] - grand
		ssb += float64(len(g)) * d * d
		for _, v := range g {
			e := v - res.Means[i]
			ssw += e * e
		}
	}

	res.DF1 = k - 1
	res.DF2 = n - k
	if ssw == 0 {
		if ssb == 0 {
			return ANOVAResult{}, errors.InsufficientData("ANOVA groups have no variance")
		}
		res.PValue = 0
		return res, nil
	}

	f := (ssb / float64(res.DF1)) / (ssw / float64(res.DF2))
	res.F = &f
	res.PValue = dist.FTestPValue(f, res.DF1, res.DF2)
	return res, nil
}

// CorrelationResult is a Pearson correlation with its significance. T is nil
// when |R| = 1.
type CorrelationResult struct {
	R      float64
	N      int
	T      *float64
	PValue float64
}

// Pearson returns the correlation coefficient of paired samples, or ok=false
// when it is undefined (fewer than 2 pairs or a constant sample).
func Pearson(x, y []float64) (float64, bool) {
	if len(x) != len(y) || len(x) < 2 {
		return math.NaN(), false
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return math.NaN(), false
	}
	// clamp rounding drift so |r| = 1 is detected exactly
	return math.Max(-1, math.Min(1, r)), true
}

// PearsonTest computes rho and tests H0: rho = 0 with n-2 degrees of freedom
func PearsonTest(x, y []float64) (CorrelationResult, error) {
	if len(x) != len(y) {
		return CorrelationResult{}, errors.InternalError("correlation samples differ in length")
	}
	n := len(x)
	if n <= 2 {
		return CorrelationResult{}, errors.InsufficientData("correlation needs more than 2 pairs (got %d)", n)
	}
	r, ok := Pearson(x, y)
	if !ok {
		return CorrelationResult{}, errors.InsufficientData("correlation is undefined for a constant sample")
	}

	res := CorrelationResult{R: r, N: n}
	if math.Abs(r) >= 1 || 1-r*r < 1e-15 {
		res.PValue = 0
		return res, nil
	}
	t := dist.CorrelationTStatistic(r, n)
	res.T = &t
	res.PValue = dist.TTestPValue(t, float64(n-2))
	return res, nil
}
