package artifacts

import (
	"bytes"
	"fmt"
	"strings"

	"prodinsight/domain/insight"
	"prodinsight/internal/aggregate"
	"prodinsight/internal/dashboard"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Report bundles the tables shared by the workbook and the markdown report
type Report struct {
	Summary        aggregate.Summary
	Categories     []aggregate.CategoryAggregate
	PriceRanges    []aggregate.BucketAggregate
	DiscountRanges []aggregate.BucketAggregate
	TopRated       []dashboard.TopRatedRow
	TopCategories  []aggregate.CategoryAggregate
	Insights       []insight.Insight
	QA             []insight.QAItem
}

const reportTitle = "Product Catalog Analysis"

// RenderMarkdown lays the report out as GitHub-style markdown
func RenderMarkdown(r Report) []byte {
	var b bytes.Buffer

	fmt.Fprintf(&b, "# %s\n\n", reportTitle)

	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Products | %d |\n", r.Summary.TotalProducts)
	fmt.Fprintf(&b, "| Categories | %d |\n", r.Summary.TotalCategories)
	fmt.Fprintf(&b, "| Average rating | %s |\n", cell(r.Summary.AvgRating))
	fmt.Fprintf(&b, "| Average discounted price | %s |\n", cell(r.Summary.AvgPrice))
	fmt.Fprintf(&b, "| Average discount %% | %s |\n", cell(r.Summary.AvgDiscount))
	fmt.Fprintf(&b, "| Total reviews | %d |\n\n", r.Summary.TotalReviews)

	b.WriteString("## Top Categories\n\n")
	b.WriteString("| Category | Avg rating | Rated products | Total reviews |\n|---|---|---|---|\n")
	for _, c := range r.TopCategories {
		fmt.Fprintf(&b, "| %s | %s | %d | %d |\n", escape(c.Category), cell(c.AvgRating), c.ProductCount, c.TotalReviews)
	}
	b.WriteString("\n")

	b.WriteString("## Price Ranges\n\n")
	b.WriteString("| Range | Avg rating | Products |\n|---|---|---|\n")
	for _, p := range r.PriceRanges {
		fmt.Fprintf(&b, "| %s | %s | %d |\n", p.Label, cell(p.AvgRating), p.ProductCount)
	}
	b.WriteString("\n")

	b.WriteString("## Discount Ranges\n\n")
	b.WriteString("| Range | Avg rating | Products |\n|---|---|---|\n")
	for _, d := range r.DiscountRanges {
		fmt.Fprintf(&b, "| %s | %s | %d |\n", d.Label, cell(d.AvgRating), d.ProductCount)
	}
	b.WriteString("\n")

	b.WriteString("## Hypothesis Tests\n\n")
	if len(r.Insights) == 0 {
		b.WriteString("No hypothesis test had enough data to run.\n\n")
	}
	for _, ins := range r.Insights {
		verdict := "not significant"
		if ins.Significant {
			verdict = "significant"
		}
		fmt.Fprintf(&b, "### %s\n\n", ins.Question)
		fmt.Fprintf(&b, "- **Test:** %s\n", ins.Test)
		fmt.Fprintf(&b, "- **H0:** %s\n", ins.Hypothesis)
		fmt.Fprintf(&b, "- **p-value:** %.4g (%s)\n\n", ins.PValue, verdict)
		fmt.Fprintf(&b, "%s\n\n> %s\n\n", ins.Interpretation, ins.Recommendation)
	}

	if len(r.QA) > 0 {
		b.WriteString("## Questions\n\n")
		for _, q := range r.QA {
			fmt.Fprintf(&b, "**%s** %s\n\n", q.Question, q.Answer)
		}
	}
	return b.Bytes()
}

// RenderHTML converts report markdown into a standalone HTML page
func RenderHTML(md []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: reportTitle,
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.ToHTML(md, p, renderer)
}

func cell(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *v)
}

// escape keeps category paths from splitting table cells
func escape(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
