package hypothesis

import (
	"fmt"

	"prodinsight/domain/insight"
	"prodinsight/domain/product"
	"prodinsight/internal/aggregate"
	"prodinsight/internal/errors"
	"prodinsight/internal/ranking"
	"prodinsight/internal/stats"
)

// Fixed test parameters
const (
	HighDiscountThreshold = 30.0
	CategorySideSize      = 5
	CategoryLabelsShown   = 3
	StrategyCategories    = 10
	StrategyMeansShown    = 5
	BestSellerQuantile    = 0.9
	RequiredTiers         = 3
)

func mean3(v float64) *float64 { return aggregate.Round(v, MeanPlaces) }
func stat4(v float64) *float64 { return aggregate.Round(v, StatisticPlaces) }

// finish fills the common fields of an insight from its descriptor and narrative
func finish(id string, metrics []insight.Metric, p float64, direction bool, data map[string]string) (insight.Insight, error) {
	d, ok := descriptors[id]
	if !ok {
		return insight.Insight{}, errors.InternalError("unknown test " + id)
	}
	significant := insight.IsSignificant(p)
	data["p"] = formatP(p)

	interp, rec, err := render(id, significant, direction, data)
	if err != nil {
		return insight.Insight{}, errors.Wrapf(err, "render %s", id)
	}
	return insight.Insight{
		ID:             id,
		Question:       d.Question,
		Hypothesis:     d.Hypothesis,
		Test:           d.Test,
		Metrics:        metrics,
		PValue:         p,
		Significant:    significant,
		Interpretation: interp,
		Recommendation: rec,
	}, nil
}

// splitByDiscount partitions value(r) by discount >= threshold. Records
// missing either field are left out.
func splitByDiscount(records []product.NormalizedRecord, value func(product.NormalizedRecord) *float64) (high, low []float64) {
	for _, r := range records {
		v := value(r)
		if r.DiscountPercentage == nil || v == nil {
			continue
		}
		if *r.DiscountPercentage >= HighDiscountThreshold {
			high = append(high, *v)
		} else {
			low = append(low, *v)
		}
	}
	return high, low
}

func ratingOf(r product.NormalizedRecord) *float64 { return r.Rating }

func ratingCountOf(r product.NormalizedRecord) *float64 {
	if r.RatingCount == nil {
		return nil
	}
	v := float64(*r.RatingCount)
	return &v
}

func discountVsRating(in Input) (insight.Insight, error) {
	high, low := splitByDiscount(in.Records, ratingOf)
	res, err := stats.WelchTTest(high, low)
	if err != nil {
		return insight.Insight{}, err
	}

	metrics := []insight.Metric{
		{Key: "high_discount_mean", Value: mean3(res.Mean1)},
		{Key: "high_discount_count", Value: res.N1},
		{Key: "low_discount_mean", Value: mean3(res.Mean2)},
		{Key: "low_discount_count", Value: res.N2},
		{Key: "t_statistic", Value: aggregate.RoundPtr(res.T, StatisticPlaces)},
	}
	data := map[string]string{
		"high": formatNum(mean3(res.Mean1), MeanPlaces),
		"low":  formatNum(mean3(res.Mean2), MeanPlaces),
	}
	return finish("insight1", metrics, res.PValue, res.Mean1 < res.Mean2, data)
}

func discountVsEngagement(in Input) (insight.Insight, error) {
	high, low := splitByDiscount(in.Records, ratingCountOf)
	res, err := stats.WelchTTest(high, low)
	if err != nil {
		return insight.Insight{}, err
	}

	metrics := []insight.Metric{
		{Key: "high_discount_mean_reviews", Value: mean3(res.Mean1)},
		{Key: "high_discount_count", Value: res.N1},
		{Key: "low_discount_mean_reviews", Value: mean3(res.Mean2)},
		{Key: "low_discount_count", Value: res.N2},
		{Key: "t_statistic", Value: aggregate.RoundPtr(res.T, StatisticPlaces)},
	}
	data := map[string]string{
		"high": formatNum(mean3(res.Mean1), 1),
		"low":  formatNum(mean3(res.Mean2), 1),
	}
	return finish("insight2", metrics, res.PValue, res.Mean1 > res.Mean2, data)
}

func avgRatingOf(c aggregate.CategoryAggregate) *float64 { return c.AvgRating }

// pooledRatings collects member ratings of the given categories in record order
func pooledRatings(records []product.NormalizedRecord, cats []aggregate.CategoryAggregate) []float64 {
	keys := make(map[string]bool, len(cats))
	for _, c := range cats {
		keys[c.Key] = true
	}
	var out []float64
	for _, r := range records {
		if r.Rating != nil && keys[r.Category] {
			out = append(out, *r.Rating)
		}
	}
	return out
}

func leafLabels(cats []aggregate.CategoryAggregate, n int) []string {
	out := make([]string, 0, n)
	for i := 0; i < len(cats) && i < n; i++ {
		out = append(out, product.LeafSegment(cats[i].Key))
	}
	return out
}

func categoryQuality(in Input) (insight.Insight, error) {
	top := ranking.TopNPresent(in.Categories, CategorySideSize, avgRatingOf)
	bottom := ranking.BottomNPresent(in.Categories, CategorySideSize, avgRatingOf)
	if len(top) < 2 {
		return insight.Insight{}, errors.InsufficientData("category comparison needs at least 2 rated categories (got %d)", len(top))
	}

	res, err := stats.WelchTTest(pooledRatings(in.Records, top), pooledRatings(in.Records, bottom))
	if err != nil {
		return insight.Insight{}, err
	}

	topNames := leafLabels(top, CategoryLabelsShown)
	bottomNames := leafLabels(bottom, CategoryLabelsShown)
	metrics := []insight.Metric{
		{Key: "top_categories_mean", Value: mean3(res.Mean1)},
		{Key: "bottom_categories_mean", Value: mean3(res.Mean2)},
		{Key: "top_categories", Value: topNames},
		{Key: "bottom_categories", Value: bottomNames},
		{Key: "t_statistic", Value: aggregate.RoundPtr(res.T, StatisticPlaces)},
	}
	data := map[string]string{
		"top":          formatNum(mean3(res.Mean1), MeanPlaces),
		"bottom":       formatNum(mean3(res.Mean2), MeanPlaces),
		"top_names":    joinNames(topNames),
		"bottom_names": joinNames(bottomNames),
	}
	return finish("insight3", metrics, res.PValue, res.Mean1 > res.Mean2, data)
}

func priceTierVsRating(in Input) (insight.Insight, error) {
	if len(in.Tiers) < RequiredTiers {
		return insight.Insight{}, errors.InsufficientData("price tiers collapsed to %d", len(in.Tiers))
	}

	groups := make([][]float64, len(in.Tiers))
	for i, t := range in.Tiers {
		groups[i] = t.Ratings
	}
	res, err := stats.OneWayANOVA(groups)
	if err != nil {
		return insight.Insight{}, err
	}

	means := make(insight.Object, 0, len(in.Tiers))
	best := 0
	for i, t := range in.Tiers {
		means = append(means, insight.Metric{Key: t.Label, Value: mean3(res.Means[i])})
		if res.Means[i] > res.Means[best] {
			best = i
		}
	}

	metrics := []insight.Metric{
		{Key: "tier_means", Value: means},
		{Key: "f_statistic", Value: aggregate.RoundPtr(res.F, StatisticPlaces)},
	}
	data := map[string]string{
		"f":         formatNum(aggregate.RoundPtr(res.F, StatisticPlaces), StatisticPlaces),
		"best":      in.Tiers[best].Label,
		"best_mean": formatNum(mean3(res.Means[best]), MeanPlaces),
	}
	return finish("insight4", metrics, res.PValue, false, data)
}

func recordCountOf(c aggregate.CategoryAggregate) *float64 {
	v := float64(c.RecordCount)
	return &v
}

func discountStrategyByCategory(in Input) (insight.Insight, error) {
	largest := ranking.TopN(in.Categories, StrategyCategories, recordCountOf)

	discounts := make(map[string][]float64, len(largest))
	for _, r := range in.Records {
		if r.DiscountPercentage != nil {
			discounts[r.Category] = append(discounts[r.Category], *r.DiscountPercentage)
		}
	}

	var groups [][]float64
	var used []aggregate.CategoryAggregate
	for _, c := range largest {
		if len(discounts[c.Key]) > 0 {
			groups = append(groups, discounts[c.Key])
			used = append(used, c)
		}
	}
	if len(groups) < 2 {
		return insight.Insight{}, errors.InsufficientData("discount strategy needs at least 2 categories with discounts (got %d)", len(groups))
	}

	res, err := stats.OneWayANOVA(groups)
	if err != nil {
		return insight.Insight{}, err
	}

	labels := uniqueLeafLabels(used)
	means := make(insight.Object, 0, StrategyMeansShown)
	deepest := 0
	for i := range used {
		if i < StrategyMeansShown {
			means = append(means, insight.Metric{Key: labels[i], Value: aggregate.Round(res.Means[i], aggregate.TablePlaces)})
		}
		if res.Means[i] > res.Means[deepest] {
			deepest = i
		}
	}

	metrics := []insight.Metric{
		{Key: "category_discount_means", Value: means},
		{Key: "categories_tested", Value: len(used)},
		{Key: "f_statistic", Value: aggregate.RoundPtr(res.F, StatisticPlaces)},
	}
	data := map[string]string{
		"f":       formatNum(aggregate.RoundPtr(res.F, StatisticPlaces), StatisticPlaces),
		"deepest": labels[deepest],
	}
	return finish("insight5", metrics, res.PValue, false, data)
}

// uniqueLeafLabels uses leaf segments, falling back to the full category
// when two categories share a leaf
func uniqueLeafLabels(cats []aggregate.CategoryAggregate) []string {
	seen := make(map[string]int, len(cats))
	for _, c := range cats {
		seen[product.LeafSegment(c.Key)]++
	}
	out := make([]string, len(cats))
	for i, c := range cats {
		leaf := product.LeafSegment(c.Key)
		if seen[leaf] > 1 {
			leaf = aggregate.CategoryLabel(c.Key)
		}
		out[i] = leaf
	}
	return out
}

func discountRatingCorrelation(in Input) (insight.Insight, error) {
	var x, y []float64
	for _, r := range in.Records {
		if r.DiscountPercentage != nil && r.Rating != nil {
			x = append(x, *r.DiscountPercentage)
			y = append(y, *r.Rating)
		}
	}

	res, err := stats.PearsonTest(x, y)
	if err != nil {
		return insight.Insight{}, err
	}

	metrics := []insight.Metric{
		{Key: "correlation", Value: stat4(res.R)},
		{Key: "sample_size", Value: res.N},
		{Key: "t_statistic", Value: aggregate.RoundPtr(res.T, StatisticPlaces)},
	}
	data := map[string]string{
		"r": formatNum(stat4(res.R), StatisticPlaces),
		"n": fmt.Sprintf("%d", res.N),
	}
	return finish("insight6", metrics, res.PValue, res.R > 0, data)
}

func bestSellerQuality(in Input) (insight.Insight, error) {
	counts := aggregate.Floats(in.Records, ratingCountOf)
	if len(counts) == 0 {
		return insight.Insight{}, errors.InsufficientData("no review counts available")
	}
	threshold := stats.Quantile(counts, BestSellerQuantile)

	var top, other []float64
	for _, r := range in.Records {
		if r.RatingCount == nil || r.Rating == nil {
			continue
		}
		if float64(*r.RatingCount) >= threshold {
			top = append(top, *r.Rating)
		} else {
			other = append(other, *r.Rating)
		}
	}

	res, err := stats.WelchTTest(top, other)
	if err != nil {
		return insight.Insight{}, err
	}

	metrics := []insight.Metric{
		{Key: "top_products_mean", Value: mean3(res.Mean1)},
		{Key: "top_products_count", Value: res.N1},
		{Key: "other_products_mean", Value: mean3(res.Mean2)},
		{Key: "other_products_count", Value: res.N2},
		{Key: "review_threshold", Value: aggregate.Round(threshold, aggregate.TablePlaces)},
		{Key: "t_statistic", Value: aggregate.RoundPtr(res.T, StatisticPlaces)},
	}
	data := map[string]string{
		"top":       formatNum(mean3(res.Mean1), MeanPlaces),
		"other":     formatNum(mean3(res.Mean2), MeanPlaces),
		"threshold": fmt.Sprintf("%.0f", threshold),
	}
	return finish("insight7", metrics, res.PValue, res.Mean1 > res.Mean2, data)
}

func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	}
	out := names[0]
	for i := 1; i < len(names)-1; i++ {
		out += ", " + names[i]
	}
	return out + " and " + names[len(names)-1]
}
