package hypothesis

import (
	"fmt"
	"strings"
	"text/template"
)

// descriptor is the fixed text of a test
type descriptor struct {
	Question   string
	Hypothesis string
	Test       string
}

const (
	welchTest       = "Welch two-sample t-test (two-sided)"
	anovaTest       = "One-way ANOVA"
	correlationTest = "Pearson correlation t-test (two-sided)"
)

var descriptors = map[string]descriptor{
	"insight1": {
		Question:   "Do heavily discounted products (30% off or more) receive lower customer ratings?",
		Hypothesis: "H0: the mean rating of products discounted 30% or more equals the mean rating of products discounted less than 30%.",
		Test:       welchTest,
	},
	"insight2": {
		Question:   "Do heavily discounted products attract more reviews?",
		Hypothesis: "H0: the mean review count of products discounted 30% or more equals that of products discounted less than 30%.",
		Test:       welchTest,
	},
	"insight3": {
		Question:   "Is product quality consistent across categories?",
		Hypothesis: "H0: products in the five best-rated categories have the same mean rating as products in the five worst-rated categories.",
		Test:       welchTest,
	},
	"insight4": {
		Question:   "Does the price tier affect customer ratings?",
		Hypothesis: "H0: the mean rating is equal across the Low, Mid and High price tiers.",
		Test:       anovaTest,
	},
	"insight5": {
		Question:   "Do the largest categories follow different discount strategies?",
		Hypothesis: "H0: the mean discount percentage is equal across the ten categories with the most products.",
		Test:       anovaTest,
	},
	"insight6": {
		Question:   "Is the discount percentage correlated with the rating?",
		Hypothesis: "H0: the Pearson correlation between discount percentage and rating is zero.",
		Test:       correlationTest,
	},
	"insight7": {
		Question:   "Are best-selling products rated higher than the rest?",
		Hypothesis: "H0: products in the top 10% by review count have the same mean rating as all other products.",
		Test:       welchTest,
	},
}

// narrativeKey selects interpretation and recommendation. Direction is the
// test-specific flag (for example "high-discount mean is lower") and is only
// consulted for significant results.
type narrativeKey struct {
	id          string
	significant bool
	direction   bool
}

type narrative struct {
	interpretation *template.Template
	recommendation *template.Template
}

func newNarrative(id, interpretation, recommendation string) narrative {
	return narrative{
		interpretation: template.Must(template.New(id + "-i").Option("missingkey=error").Parse(interpretation)),
		recommendation: template.Must(template.New(id + "-r").Option("missingkey=error").Parse(recommendation)),
	}
}

var narratives = map[narrativeKey]narrative{
	{"insight1", true, true}: newNarrative("insight1",
		"Products discounted 30% or more are rated significantly lower ({{.high}} vs {{.low}}, p={{.p}}).",
		"Avoid over-discounting: deep discounts coincide with weaker perceived quality. Reserve discounts above 30% for clearance and protect pricing on core lines."),
	{"insight1", true, false}: newNarrative("insight1",
		"Products discounted 30% or more are rated significantly higher ({{.high}} vs {{.low}}, p={{.p}}).",
		"Deep discounts do not hurt perceived quality; use them to drive trial on well-reviewed lines."),
	{"insight1", false, false}: newNarrative("insight1",
		"No significant rating difference between heavily and lightly discounted products ({{.high}} vs {{.low}}, p={{.p}}).",
		"Discount depth can be set on margin and inventory grounds without risking ratings."),

	{"insight2", true, true}: newNarrative("insight2",
		"Heavily discounted products attract significantly more reviews ({{.high}} vs {{.low}} on average, p={{.p}}).",
		"Discounts drive engagement: use targeted deep discounts to build review volume on new listings."),
	{"insight2", true, false}: newNarrative("insight2",
		"Heavily discounted products attract significantly fewer reviews ({{.high}} vs {{.low}} on average, p={{.p}}).",
		"Discounting is not buying engagement; invest in listing quality and post-purchase review prompts instead."),
	{"insight2", false, false}: newNarrative("insight2",
		"Review volume does not differ significantly with discount depth ({{.high}} vs {{.low}} on average, p={{.p}}).",
		"Do not rely on discounts to grow review counts."),

	{"insight3", true, true}: newNarrative("insight3",
		"The best-rated categories ({{.top_names}}) score significantly higher than the worst-rated ({{.bottom_names}}): {{.top}} vs {{.bottom}}, p={{.p}}.",
		"Audit suppliers and product quality in {{.bottom_names}}; use {{.top_names}} as quality benchmarks."),
	{"insight3", true, false}: newNarrative("insight3",
		"Pooled ratings of the worst-ranked categories ({{.bottom_names}}) are significantly higher than those of the best-ranked ({{.top_names}}): {{.bottom}} vs {{.top}}, p={{.p}}.",
		"Category rankings are driven by a few products; act on product-level ratings rather than category averages."),
	{"insight3", false, false}: newNarrative("insight3",
		"Ratings in the best and worst categories are not significantly different ({{.top}} vs {{.bottom}}, p={{.p}}).",
		"Category choice matters less than individual product quality; focus quality reviews on products."),

	{"insight4", true, false}: newNarrative("insight4",
		"Ratings differ significantly across price tiers (F={{.f}}, p={{.p}}). The {{.best}} tier has the highest mean rating ({{.best_mean}}).",
		"Prioritise the {{.best}} price tier in assortment and promotion."),
	{"insight4", false, false}: newNarrative("insight4",
		"Price tier has no significant effect on ratings (F={{.f}}, p={{.p}}).",
		"Customers rate products consistently across price points; compete on value rather than price tier."),

	{"insight5", true, false}: newNarrative("insight5",
		"Average discount depth differs significantly across the largest categories (F={{.f}}, p={{.p}}).",
		"Discounting is category-specific; review {{.deepest}}, the category with the deepest average discount, for margin leakage."),
	{"insight5", false, false}: newNarrative("insight5",
		"Discount depth is similar across the largest categories (F={{.f}}, p={{.p}}).",
		"A uniform discount policy across the major categories matches current practice."),

	{"insight6", true, true}: newNarrative("insight6",
		"Discount percentage and rating are significantly positively correlated (r={{.r}}, n={{.n}}, p={{.p}}).",
		"Larger discounts coincide with better ratings; test discount-led promotions on highly rated items."),
	{"insight6", true, false}: newNarrative("insight6",
		"Discount percentage and rating are significantly negatively correlated (r={{.r}}, n={{.n}}, p={{.p}}).",
		"Higher discounts coincide with lower ratings; avoid using deep discounts to prop up weaker products."),
	{"insight6", false, false}: newNarrative("insight6",
		"No significant linear relationship between discount and rating (r={{.r}}, n={{.n}}, p={{.p}}).",
		"Discount depth is not a lever for ratings; manage it for revenue and margin."),

	{"insight7", true, true}: newNarrative("insight7",
		"The most-reviewed products (at least {{.threshold}} reviews) are rated significantly higher ({{.top}} vs {{.other}}, p={{.p}}).",
		"Feature best-sellers prominently; their ratings confirm quality and reinforce social proof."),
	{"insight7", true, false}: newNarrative("insight7",
		"The most-reviewed products (at least {{.threshold}} reviews) are rated significantly lower ({{.top}} vs {{.other}}, p={{.p}}).",
		"Popular products show quality issues at scale; review returns and complaints for best-sellers."),
	{"insight7", false, false}: newNarrative("insight7",
		"Best-sellers are not rated significantly differently from other products ({{.top}} vs {{.other}}, p={{.p}}).",
		"Popularity is not a quality signal here; surface well-rated niche products alongside best-sellers."),
}

// render fills the interpretation and recommendation for a test outcome
func render(id string, significant, direction bool, data map[string]string) (string, string, error) {
	key := narrativeKey{id: id, significant: significant, direction: significant && direction}
	n, ok := narratives[key]
	if !ok {
		return "", "", fmt.Errorf("no narrative for %s (significant=%t direction=%t)", id, key.significant, key.direction)
	}

	var interp, rec strings.Builder
	if err := n.interpretation.Execute(&interp, data); err != nil {
		return "", "", err
	}
	if err := n.recommendation.Execute(&rec, data); err != nil {
		return "", "", err
	}
	return interp.String(), rec.String(), nil
}

// formatP renders a p-value for prose
func formatP(p float64) string {
	if p < 0.0001 {
		return "<0.0001"
	}
	return fmt.Sprintf("%.4f", p)
}

// formatNum renders an optional statistic for prose
func formatNum(v *float64, places int) string {
	if v == nil {
		return "undefined"
	}
	return fmt.Sprintf("%.*f", places, *v)
}
