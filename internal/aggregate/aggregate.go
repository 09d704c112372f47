// Package aggregate reduces normalized product records into per-category and
// per-bin summary tables.
package aggregate

import (
	"prodinsight/domain/product"
	"prodinsight/internal/binning"
)

// Decimal places used for the summary tables
const TablePlaces = 2

// CategoryAggregate summarizes one distinct category value
type CategoryAggregate struct {
	Key          string   `json:"-"`
	Category     string   `json:"category"`
	AvgRating    *float64 `json:"avg_rating"`
	ProductCount int      `json:"product_count"`
	AvgPrice     *float64 `json:"avg_price"`
	AvgDiscount  *float64 `json:"avg_discount"`
	TotalReviews int64    `json:"total_reviews"`

	// RecordCount counts every record in the group, rated or not
	RecordCount int `json:"-"`
}

// BucketAggregate summarizes one bin label
type BucketAggregate struct {
	Label        string   `json:"-"`
	AvgRating    *float64 `json:"avg_rating"`
	ProductCount int      `json:"product_count"`
}

// Summary is the dataset-wide overview
type Summary struct {
	TotalProducts   int      `json:"total_products"`
	TotalCategories int      `json:"total_categories"`
	AvgRating       *float64 `json:"avg_rating"`
	AvgPrice        *float64 `json:"avg_price"`
	AvgDiscount     *float64 `json:"avg_discount"`
	TotalReviews    int64    `json:"total_reviews"`
}

// TierGroup holds the non-missing ratings of one price tier
type TierGroup struct {
	Label   string
	Ratings []float64
}

func rating(r product.NormalizedRecord) *float64          { return r.Rating }
func discountedPrice(r product.NormalizedRecord) *float64 { return r.DiscountedPrice }
func discount(r product.NormalizedRecord) *float64        { return r.DiscountPercentage }

func categoryKey(r product.NormalizedRecord) string { return r.Category }

// CategoryLabel is the display form of a category key
func CategoryLabel(key string) string {
	if key == "" {
		return product.UncategorizedLabel
	}
	return key
}

// sumRatingCounts treats missing counts as 0
func sumRatingCounts(records []product.NormalizedRecord) int64 {
	var total int64
	for _, r := range records {
		if r.RatingCount != nil {
			total += *r.RatingCount
		}
	}
	return total
}

// ByCategory computes one aggregate per distinct category in ascending
// category order. A category without ratings gets a nil mean and count 0.
func ByCategory(records []product.NormalizedRecord) []CategoryAggregate {
	groups := GroupBy(records, categoryKey)
	out := make([]CategoryAggregate, 0, len(groups))
	for _, g := range groups {
		ratings := Floats(g.Items, rating)
		out = append(out, CategoryAggregate{
			Key:          g.Key,
			Category:     CategoryLabel(g.Key),
			AvgRating:    Round(Mean(ratings), TablePlaces),
			ProductCount: len(ratings),
			AvgPrice:     Round(Mean(Floats(g.Items, discountedPrice)), TablePlaces),
			AvgDiscount:  Round(Mean(Floats(g.Items, discount)), TablePlaces),
			TotalReviews: sumRatingCounts(g.Items),
			RecordCount:  len(g.Items),
		})
	}
	return out
}

// byBucket aggregates ratings per label, emitting every label in order even
// when empty. Records whose label is "" belong to no bucket.
func byBucket(records []product.NormalizedRecord, labels []string, labelOf func(product.NormalizedRecord) string) []BucketAggregate {
	members := make(map[string][]product.NormalizedRecord, len(labels))
	for _, r := range records {
		if l := labelOf(r); l != "" {
			members[l] = append(members[l], r)
		}
	}

	out := make([]BucketAggregate, 0, len(labels))
	for _, l := range labels {
		out = append(out, BucketAggregate{
			Label:        l,
			AvgRating:    Round(Mean(Floats(members[l], rating)), TablePlaces),
			ProductCount: len(members[l]),
		})
	}
	return out
}

// ByPriceRange aggregates over the fixed price range bins
func ByPriceRange(records []product.NormalizedRecord) []BucketAggregate {
	return byBucket(records, binning.PriceLabels, func(r product.NormalizedRecord) string { return r.PriceRange })
}

// ByDiscountRange aggregates over the fixed discount range bins
func ByDiscountRange(records []product.NormalizedRecord) []BucketAggregate {
	return byBucket(records, binning.DiscountLabels, func(r product.NormalizedRecord) string { return r.DiscountRange })
}

// ByPriceTier returns the rating lists of the surviving tiers, cheapest first
func ByPriceTier(records []product.NormalizedRecord, tiers binning.CutPoints) []TierGroup {
	index := make(map[string]int, tiers.Tiers())
	out := make([]TierGroup, 0, tiers.Tiers())
	for i, l := range tiers.Labels {
		index[l] = i
		out = append(out, TierGroup{Label: l})
	}
	for _, r := range records {
		i, ok := index[r.PriceTier]
		if !ok || r.Rating == nil {
			continue
		}
		out[i].Ratings = append(out[i].Ratings, *r.Rating)
	}
	return out
}

// Summarize computes the dataset-wide summary. Means are left unrounded.
func Summarize(records []product.NormalizedRecord) Summary {
	categories := make(map[string]struct{})
	for _, r := range records {
		categories[r.Category] = struct{}{}
	}
	return Summary{
		TotalProducts:   len(records),
		TotalCategories: len(categories),
		AvgRating:       Finite(Mean(Floats(records, rating))),
		AvgPrice:        Finite(Mean(Floats(records, discountedPrice))),
		AvgDiscount:     Finite(Mean(Floats(records, discount))),
		TotalReviews:    sumRatingCounts(records),
	}
}
