package dashboard

import (
	"fmt"
	"strings"

	"prodinsight/domain/insight"
	"prodinsight/domain/product"
	"prodinsight/internal/aggregate"
)

const noData = "Not enough data to answer this question."

// Artifacts holds the nine question artifacts of one run
type Artifacts struct {
	Q1 []Q1Row
	Q2 []Q2Row
	Q3 []Q3Row
	Q4 []Q4Row
	Q5 []Q5Row
	Q6 []Q6Row
	Q7 []Q7Row
	Q8 Q8Correlation
	Q9 []Q9Row
}

// Build computes all question artifacts from the normalized collection
func Build(records []product.NormalizedRecord, cats []aggregate.CategoryAggregate, hasReviewTitle bool) Artifacts {
	return Artifacts{
		Q1: AvgRatingByCategory(cats),
		Q2: TopProductsByCategory(records),
		Q3: PriceDistribution(records),
		Q4: AvgDiscountByCategory(cats),
		Q5: PopularProducts(records),
		Q6: Keywords(records),
		Q7: PopularReviews(records, hasReviewTitle),
		Q8: PriceRatingCorrelation(records),
		Q9: TopCategoriesByProducts(cats),
	}
}

// QA renders one question card per artifact with a templated answer
func QA(a Artifacts) []insight.QAItem {
	return []insight.QAItem{
		{ID: "q1", CardTitle: "Ratings by Category", Question: "Which product categories have the highest average ratings?", Answer: answerQ1(a.Q1)},
		{ID: "q2", CardTitle: "Category Best-Sellers", Question: "What are the most popular products in each category?", Answer: answerQ2(a.Q2)},
		{ID: "q3", CardTitle: "Price Distribution", Question: "How are discounted prices distributed compared to actual prices?", Answer: answerQ3(a.Q3)},
		{ID: "q4", CardTitle: "Discounts by Category", Question: "Which categories offer the deepest average discounts?", Answer: answerQ4(a.Q4)},
		{ID: "q5", CardTitle: "Most Reviewed Products", Question: "Which products have the most customer reviews?", Answer: answerQ5(a.Q5)},
		{ID: "q6", CardTitle: "Product Keywords", Question: "Which words appear most often in product names?", Answer: answerQ6(a.Q6)},
		{ID: "q7", CardTitle: "Popular Reviews", Question: "What are the most common review titles?", Answer: answerQ7(a.Q7)},
		{ID: "q8", CardTitle: "Price vs Rating", Question: "Is there a relationship between price and rating?", Answer: answerQ8(a.Q8)},
		{ID: "q9", CardTitle: "Top 5 Categories", Question: "How do the five largest categories compare on rating?", Answer: answerQ9(a.Q9)},
	}
}

func num(v *float64, places int) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.*f", places, *v)
}

func answerQ1(rows []Q1Row) string {
	if len(rows) == 0 {
		return noData
	}
	best := rows[0]
	return fmt.Sprintf("%s leads with an average rating of %s, followed by %d other categories in the top %d.",
		best.CategoryShort, num(best.AvgRating, 2), len(rows)-1, Q1Categories)
}

func answerQ2(rows []Q2Row) string {
	if len(rows) == 0 {
		return noData
	}
	var mostReviewed Q2Row
	var most int64 = -1
	for _, r := range rows {
		if r.RatingCount != nil && *r.RatingCount > most {
			most = *r.RatingCount
			mostReviewed = r
		}
	}
	if most < 0 {
		return fmt.Sprintf("%d products are listed across categories, none with review counts.", len(rows))
	}
	return fmt.Sprintf("%d category best-sellers are listed. The most reviewed is %s in %s with %d ratings.",
		len(rows), mostReviewed.ProductName, mostReviewed.Category, most)
}

func answerQ3(rows []Q3Row) string {
	var peak Q3Row
	found := false
	for _, r := range rows {
		if r.DiscountedCount > peak.DiscountedCount {
			peak = r
			found = true
		}
	}
	if !found {
		return noData
	}
	return fmt.Sprintf("Most discounted prices fall in the %s range (%d products, against %d at actual price).",
		peak.PriceRange, peak.DiscountedCount, peak.ActualCount)
}

func answerQ4(rows []Q4Row) string {
	if len(rows) == 0 {
		return noData
	}
	return fmt.Sprintf("%s has the deepest average discount at %s%%.", rows[0].CategoryShort, num(rows[0].AvgDiscount, 1))
}

func answerQ5(rows []Q5Row) string {
	if len(rows) == 0 {
		return noData
	}
	top := rows[0]
	return fmt.Sprintf("%s has the most reviews (%d across %d listings, average rating %s).",
		top.ProductNameShort, top.TotalReviews, top.Occurrences, num(top.AvgRating, 2))
}

func answerQ6(rows []Q6Row) string {
	if len(rows) == 0 {
		return noData
	}
	n := len(rows)
	if n > 5 {
		n = 5
	}
	words := make([]string, n)
	for i := 0; i < n; i++ {
		words[i] = fmt.Sprintf("%s (%d)", rows[i].Keyword, rows[i].Count)
	}
	return "The most frequent product name keywords are " + strings.Join(words, ", ") + "."
}

func answerQ7(rows []Q7Row) string {
	if len(rows) == 0 {
		return "No review titles are available in this dataset."
	}
	return fmt.Sprintf("The most common review title is %q, used %d times.", rows[0].ReviewTitleShort, rows[0].Count)
}

func answerQ8(q Q8Correlation) string {
	if q.Correlation == nil {
		return noData
	}
	r := *q.Correlation
	strength := "no meaningful"
	switch abs := absf(r); {
	case abs >= 0.5:
		strength = "a strong"
	case abs >= 0.3:
		strength = "a moderate"
	case abs >= 0.1:
		strength = "a weak"
	}
	direction := "positive"
	if r < 0 {
		direction = "negative"
	}
	if strength == "no meaningful" {
		return fmt.Sprintf("Price and rating show no meaningful linear relationship (r = %.4f).", r)
	}
	return fmt.Sprintf("Price and rating show %s %s relationship (r = %.4f, %d sampled points plotted).", strength, direction, r, len(q.Scatter))
}

func answerQ9(rows []Q9Row) string {
	if len(rows) == 0 {
		return noData
	}
	best := rows[0]
	for _, r := range rows[1:] {
		if r.AvgRating != nil && (best.AvgRating == nil || *r.AvgRating > *best.AvgRating) {
			best = r
		}
	}
	return fmt.Sprintf("%s is the largest category with %d products; among the top %d, %s has the best average rating (%s).",
		rows[0].CategoryShort, rows[0].ProductCount, len(rows), best.CategoryShort, num(best.AvgRating, 2))
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
