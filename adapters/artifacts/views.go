package artifacts

import "prodinsight/internal/aggregate"

// PriceRangeRow is one row of price_range_stats.json
type PriceRangeRow struct {
	PriceRange   string   `json:"price_range"`
	AvgRating    *float64 `json:"avg_rating"`
	ProductCount int      `json:"product_count"`
}

// DiscountRangeRow is one row of discount_stats.json
type DiscountRangeRow struct {
	DiscountRange string   `json:"discount_range"`
	AvgRating     *float64 `json:"avg_rating"`
	ProductCount  int      `json:"product_count"`
}

// PriceRangeRows labels each bucket under its price_range key
func PriceRangeRows(buckets []aggregate.BucketAggregate) []PriceRangeRow {
	out := make([]PriceRangeRow, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, PriceRangeRow{PriceRange: b.Label, AvgRating: b.AvgRating, ProductCount: b.ProductCount})
	}
	return out
}

// DiscountRangeRows labels each bucket under its discount_range key
func DiscountRangeRows(buckets []aggregate.BucketAggregate) []DiscountRangeRow {
	out := make([]DiscountRangeRow, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, DiscountRangeRow{DiscountRange: b.Label, AvgRating: b.AvgRating, ProductCount: b.ProductCount})
	}
	return out
}
