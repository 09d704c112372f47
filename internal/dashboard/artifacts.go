// Package dashboard builds the ranked tables and the nine question
// artifacts consumed by the dashboard.
package dashboard

import (
	"strings"

	"prodinsight/domain/product"
	"prodinsight/internal/aggregate"
	"prodinsight/internal/binning"
	"prodinsight/internal/ranking"
	"prodinsight/internal/stats"
)

// Fixed artifact sizes
const (
	Q1Categories       = 15
	Q2PerCategory      = 3
	Q2RowCap           = 50
	Q4Categories       = 15
	Q5Products         = 10
	Q7Titles           = 10
	Q9Categories       = 5
	ReviewTitleDivider = ","
	CorrelationPlaces  = 4
)

// TopRatedRow is one row of the top-rated products table
type TopRatedRow struct {
	ProductName     string   `json:"product_name"`
	Category        string   `json:"category"`
	Rating          *float64 `json:"rating"`
	RatingCount     *int64   `json:"rating_count"`
	DiscountedPrice *float64 `json:"discounted_price"`
}

type Q1Row struct {
	CategoryShort string   `json:"category_short"`
	AvgRating     *float64 `json:"avg_rating"`
}

type Q2Row struct {
	Category    string   `json:"category"`
	ProductName string   `json:"product_name"`
	RatingCount *int64   `json:"rating_count"`
	Rating      *float64 `json:"rating"`
}

type Q3Row struct {
	PriceRange      string `json:"price_range"`
	DiscountedCount int    `json:"discounted_count"`
	ActualCount     int    `json:"actual_count"`
}

type Q4Row struct {
	CategoryShort string   `json:"category_short"`
	AvgDiscount   *float64 `json:"avg_discount"`
}

type Q5Row struct {
	ProductNameShort string   `json:"product_name_short"`
	Occurrences      int      `json:"occurrences"`
	AvgRating        *float64 `json:"avg_rating"`
	TotalReviews     int64    `json:"total_reviews"`
}

type Q6Row struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

type Q7Row struct {
	ReviewTitleShort string `json:"review_title_short"`
	Count            int    `json:"count"`
}

type ScatterPoint struct {
	Price  float64 `json:"price"`
	Rating float64 `json:"rating"`
}

type Q8Correlation struct {
	Correlation *float64       `json:"correlation"`
	Scatter     []ScatterPoint `json:"scatter"`
}

type Q9Row struct {
	CategoryShort string   `json:"category_short"`
	AvgRating     *float64 `json:"avg_rating"`
	ProductCount  int      `json:"product_count"`
}

func ratingOf(r product.NormalizedRecord) *float64 {
	return r.Rating
}

func avgRating(c aggregate.CategoryAggregate) *float64 {
	return c.AvgRating
}

func avgDiscount(c aggregate.CategoryAggregate) *float64 {
	return c.AvgDiscount
}

func recordCount(c aggregate.CategoryAggregate) *float64 {
	v := float64(c.RecordCount)
	return &v
}

// TopRated returns the highest-rated records, unrated records excluded
func TopRated(records []product.NormalizedRecord) []TopRatedRow {
	top := ranking.TopNPresent(records, ranking.TopRatedProducts, ratingOf)
	out := make([]TopRatedRow, 0, len(top))
	for _, r := range top {
		out = append(out, TopRatedRow{
			ProductName:     r.ProductName,
			Category:        r.Category,
			Rating:          r.Rating,
			RatingCount:     r.RatingCount,
			DiscountedPrice: r.DiscountedPrice,
		})
	}
	return out
}

// TopCategories returns the categories with the highest mean rating
func TopCategories(cats []aggregate.CategoryAggregate) []aggregate.CategoryAggregate {
	top := ranking.TopNPresent(cats, ranking.TopCategories, avgRating)
	return append(make([]aggregate.CategoryAggregate, 0, len(top)), top...)
}

// AvgRatingByCategory is q1
func AvgRatingByCategory(cats []aggregate.CategoryAggregate) []Q1Row {
	top := ranking.TopNPresent(cats, Q1Categories, avgRating)
	out := make([]Q1Row, 0, len(top))
	for _, c := range top {
		out = append(out, Q1Row{CategoryShort: ShortCategory(c.Key), AvgRating: c.AvgRating})
	}
	return out
}

// TopProductsByCategory is q2
func TopProductsByCategory(records []product.NormalizedRecord) []Q2Row {
	top := ranking.PerCategoryTopK(records, Q2PerCategory, Q2RowCap)
	out := make([]Q2Row, 0, len(top))
	for _, r := range top {
		out = append(out, Q2Row{
			Category:    ShortCategory(r.Category),
			ProductName: ranking.Truncate(r.ProductName, ranking.TruncateRunes),
			RatingCount: r.RatingCount,
			Rating:      r.Rating,
		})
	}
	return out
}

// PriceDistribution is q3: discounted and actual prices counted over the
// same price range bins
func PriceDistribution(records []product.NormalizedRecord) []Q3Row {
	out := make([]Q3Row, len(binning.PriceLabels))
	index := make(map[string]int, len(binning.PriceLabels))
	for i, l := range binning.PriceLabels {
		out[i].PriceRange = l
		index[l] = i
	}
	for _, r := range records {
		if i, ok := index[binning.PriceRange(r.DiscountedPrice)]; ok {
			out[i].DiscountedCount++
		}
		if i, ok := index[binning.PriceRange(r.ActualPrice)]; ok {
			out[i].ActualCount++
		}
	}
	return out
}

// AvgDiscountByCategory is q4
func AvgDiscountByCategory(cats []aggregate.CategoryAggregate) []Q4Row {
	top := ranking.TopNPresent(cats, Q4Categories, avgDiscount)
	out := make([]Q4Row, 0, len(top))
	for _, c := range top {
		out = append(out, Q4Row{CategoryShort: ShortCategory(c.Key), AvgDiscount: c.AvgDiscount})
	}
	return out
}

// PopularProducts is q5: records grouped by name, ranked by total reviews
func PopularProducts(records []product.NormalizedRecord) []Q5Row {
	named := make([]product.NormalizedRecord, 0, len(records))
	for _, r := range records {
		if r.ProductName != "" {
			named = append(named, r)
		}
	}

	groups := aggregate.GroupBy(named, func(r product.NormalizedRecord) string { return r.ProductName })
	rows := make([]Q5Row, 0, len(groups))
	for _, g := range groups {
		var total int64
		for _, r := range g.Items {
			if r.RatingCount != nil {
				total += *r.RatingCount
			}
		}
		rows = append(rows, Q5Row{
			ProductNameShort: ranking.Truncate(g.Key, ranking.TruncateRunes),
			Occurrences:      len(g.Items),
			AvgRating:        aggregate.Round(aggregate.Mean(aggregate.Floats(g.Items, ratingOf)), aggregate.TablePlaces),
			TotalReviews:     total,
		})
	}

	top := ranking.TopN(rows, Q5Products, func(r Q5Row) *float64 {
		v := float64(r.TotalReviews)
		return &v
	})
	return append(make([]Q5Row, 0, len(top)), top...)
}

// Keywords is q6
func Keywords(records []product.NormalizedRecord) []Q6Row {
	names := make([]string, 0, len(records))
	for _, r := range records {
		if r.ProductName != "" {
			names = append(names, r.ProductName)
		}
	}
	counts := ranking.Keywords(names, ranking.KeywordLimit)
	out := make([]Q6Row, 0, len(counts))
	for _, c := range counts {
		out = append(out, Q6Row{Keyword: c.Value, Count: c.Count})
	}
	return out
}

// PopularReviews is q7. Without the review title column it is empty.
func PopularReviews(records []product.NormalizedRecord, hasReviewTitle bool) []Q7Row {
	out := make([]Q7Row, 0, Q7Titles)
	if !hasReviewTitle {
		return out
	}

	counter := ranking.NewCounter()
	for _, r := range records {
		if r.ReviewTitle == "" {
			continue
		}
		for _, title := range splitTitles(r.ReviewTitle) {
			counter.Add(title)
		}
	}
	for _, c := range counter.Top(Q7Titles) {
		out = append(out, Q7Row{ReviewTitleShort: ranking.Truncate(c.Value, ranking.TruncateRunes), Count: c.Count})
	}
	return out
}

// PriceRatingCorrelation is q8: Pearson r of discounted price vs rating plus
// a fixed-seed scatter sample
func PriceRatingCorrelation(records []product.NormalizedRecord) Q8Correlation {
	var points []ScatterPoint
	for _, r := range records {
		if r.DiscountedPrice != nil && r.Rating != nil {
			points = append(points, ScatterPoint{Price: *r.DiscountedPrice, Rating: *r.Rating})
		}
	}

	x := make([]float64, len(points))
	y := make([]float64, len(points))
	for i, p := range points {
		x[i], y[i] = p.Price, p.Rating
	}

	out := Q8Correlation{Scatter: ranking.Sample(points, ranking.SampleSize, ranking.SampleSeed)}
	if out.Scatter == nil {
		out.Scatter = []ScatterPoint{}
	}
	if r, ok := stats.Pearson(x, y); ok {
		out.Correlation = aggregate.Round(r, CorrelationPlaces)
	}
	return out
}

// TopCategoriesByProducts is q9
func TopCategoriesByProducts(cats []aggregate.CategoryAggregate) []Q9Row {
	top := ranking.TopN(cats, Q9Categories, recordCount)
	out := make([]Q9Row, 0, len(top))
	for _, c := range top {
		out = append(out, Q9Row{
			CategoryShort: ShortCategory(c.Key),
			AvgRating:     c.AvgRating,
			ProductCount:  c.RecordCount,
		})
	}
	return out
}

// ShortCategory is the leaf segment used as a display label
func ShortCategory(category string) string {
	return product.LeafSegment(category)
}

// splitTitles breaks a review title cell into its comma-separated titles
func splitTitles(cell string) []string {
	var out []string
	for _, part := range strings.Split(cell, ReviewTitleDivider) {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
