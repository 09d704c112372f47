// Package binning assigns numeric values to labeled half-open intervals.
//
// Fixed-edge bins (price and discount ranges) and data-dependent tertiles
// (price tiers) share the same Bucket function; tertiles first compute their
// cut points from the observed distribution.
package binning

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Fixed price range edges and labels
var (
	PriceEdges  = []float64{0, 500, 1000, 2000, 5000, math.Inf(1)}
	PriceLabels = []string{"0-500", "500-1000", "1000-2000", "2000-5000", "5000+"}
)

// Fixed discount range edges and labels
var (
	DiscountEdges  = []float64{0, 10, 20, 30, 40, 50, 100}
	DiscountLabels = []string{"0-10%", "10-20%", "20-30%", "30-40%", "40-50%", "50%+"}
)

// TierLabels name the equal-frequency price tiers from cheapest to most expensive
var TierLabels = []string{"Low", "Mid", "High"}

// Bucket returns the label of the interval (edges[i], edges[i+1]] containing v.
// The first interval is also closed on the left so the lowest edge is kept.
// Values outside the edges, NaN, or mismatched edges/labels yield ok=false.
func Bucket(v float64, edges []float64, labels []string) (string, bool) {
	if math.IsNaN(v) || len(edges) < 2 || len(labels) != len(edges)-1 {
		return "", false
	}
	for i := 0; i < len(edges)-1; i++ {
		lo, hi := edges[i], edges[i+1]
		if (v > lo && v <= hi) || (i == 0 && v == lo) {
			return labels[i], true
		}
	}
	return "", false
}

// BucketPtr is Bucket for optional values; nil falls into no bucket
func BucketPtr(v *float64, edges []float64, labels []string) string {
	if v == nil {
		return ""
	}
	label, _ := Bucket(*v, edges, labels)
	return label
}

// PriceRange labels a discounted price
func PriceRange(v *float64) string {
	return BucketPtr(v, PriceEdges, PriceLabels)
}

// DiscountRange labels a discount percentage
func DiscountRange(v *float64) string {
	return BucketPtr(v, DiscountEdges, DiscountLabels)
}

// CutPoints holds data-dependent interval edges with their labels
type CutPoints struct {
	Edges  []float64
	Labels []string
}

// Tiers returns the number of surviving intervals
func (c CutPoints) Tiers() int {
	return len(c.Labels)
}

// Apply buckets v with the computed edges
func (c CutPoints) Apply(v *float64) string {
	return BucketPtr(v, c.Edges, c.Labels)
}

// QuantileCutPoints computes equal-frequency edges for q groups from the
// non-NaN values. Duplicate edges are dropped, so degenerate distributions
// produce fewer than q intervals; labels are the first k entries of labels.
func QuantileCutPoints(values []float64, q int, labels []string) CutPoints {
	sorted := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			sorted = append(sorted, v)
		}
	}
	if len(sorted) == 0 || q < 1 {
		return CutPoints{}
	}
	sort.Float64s(sorted)

	edges := make([]float64, 0, q+1)
	for i := 0; i <= q; i++ {
		var edge float64
		switch i {
		case 0:
			edge = sorted[0]
		case q:
			edge = sorted[len(sorted)-1]
		default:
			edge = stat.Quantile(float64(i)/float64(q), stat.LinInterp, sorted, nil)
		}
		if len(edges) == 0 || edge > edges[len(edges)-1] {
			edges = append(edges, edge)
		}
	}

	k := len(edges) - 1
	if k > len(labels) {
		k = len(labels)
		edges = edges[:k+1]
	}
	if k < 1 {
		// a single distinct value still forms the closed interval [v, v]
		return CutPoints{Edges: []float64{edges[0], edges[0]}, Labels: labels[:1]}
	}
	return CutPoints{Edges: edges, Labels: append([]string(nil), labels[:k]...)}
}

// PriceTiers computes tertile cut points over discounted prices
func PriceTiers(prices []float64) CutPoints {
	return QuantileCutPoints(prices, len(TierLabels), TierLabels)
}
