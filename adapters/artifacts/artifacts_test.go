package artifacts

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"prodinsight/domain/core"
	"prodinsight/domain/insight"
	"prodinsight/domain/product"
	"prodinsight/domain/run"
	"prodinsight/internal"
	"prodinsight/internal/aggregate"
	"prodinsight/internal/dashboard"
	"prodinsight/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newWriter(t *testing.T) *Writer {
	t.Helper()
	w := NewWriter(filepath.Join(t.TempDir(), "out"), internal.Discard())
	require.NoError(t, w.EnsureDir())
	return w
}

func sampleRecords() []product.NormalizedRecord {
	f, i := product.Float, product.Int
	return []product.NormalizedRecord{
		{
			ProductID: "B01", ProductName: "Boat Cable, 1m", Category: "Electronics|Cables",
			DiscountedPrice: f(1299), ActualPrice: f(2599), DiscountPercentage: f(50),
			Rating: f(4.3), RatingCount: i(12456), DiscountAmount: f(1300),
			PriceRange: "1000-2000", DiscountRange: "40-50%", PriceTier: "High",
		},
		{ProductID: "B02", Category: "Home|Kettles", Rating: f(3.9)},
	}
}

func sampleReport(records []product.NormalizedRecord) Report {
	cats := aggregate.ByCategory(records)
	return Report{
		Summary:        aggregate.Summarize(records),
		Categories:     cats,
		PriceRanges:    aggregate.ByPriceRange(records),
		DiscountRanges: aggregate.ByDiscountRange(records),
		TopRated:       dashboard.TopRated(records),
		TopCategories:  dashboard.TopCategories(cats),
		Insights: []insight.Insight{{
			ID: "insight1", Question: "Do deep discounts hurt ratings?", Test: "Welch two-sample t-test (two-sided)",
			PValue: 0.012, Significant: true, Interpretation: "Ratings differ.", Recommendation: "Avoid over-discounting.",
		}},
		QA: []insight.QAItem{{ID: "q1", CardTitle: "Ratings", Question: "Which category?", Answer: "Cables."}},
	}
}

func TestWriteJSON(t *testing.T) {
	w := newWriter(t)
	rows := PriceRangeRows([]aggregate.BucketAggregate{{Label: "0-500", ProductCount: 0}})

	require.NoError(t, w.WriteJSON(PriceRangeFile, rows))

	data, err := os.ReadFile(w.Path(PriceRangeFile))
	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"price_range\": \"0-500\",\n    \"avg_rating\": null,\n    \"product_count\": 0\n  }\n]\n", string(data))
}

func TestWriteJSON_MissingDir(t *testing.T) {
	w := NewWriter(filepath.Join(t.TempDir(), "absent"), internal.Discard())
	err := w.WriteJSON(SummaryFile, aggregate.Summary{})
	require.Error(t, err)
	assert.Equal(t, errors.CodeArtifactWrite, errors.GetCode(err))
}

func TestDiscountRangeRows(t *testing.T) {
	rows := DiscountRangeRows(aggregate.ByDiscountRange(sampleRecords()))
	require.Len(t, rows, 6)
	assert.Equal(t, "40-50%", rows[4].DiscountRange)
	assert.Equal(t, 1, rows[4].ProductCount)
	assert.Equal(t, 4.3, *rows[4].AvgRating)
}

func TestWriteCleanedCSV(t *testing.T) {
	w := newWriter(t)
	require.NoError(t, w.WriteCleanedCSV(sampleRecords()))

	f, err := os.Open(w.Path(CleanedDataFile))
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, CleanedHeaders, rows[0])
	assert.Equal(t, []string{
		"B01", "Boat Cable, 1m", "Electronics|Cables", "1299", "2599", "50", "4.3", "12456", "1300",
		"1000-2000", "40-50%", "High",
	}, rows[1])
	assert.Equal(t, []string{"B02", "", "Home|Kettles", "", "", "", "3.9", "", "", "", "", ""}, rows[2])
}

func TestWriteWorkbook(t *testing.T) {
	w := newWriter(t)
	require.NoError(t, w.WriteWorkbook(sampleReport(sampleRecords())))

	f, err := excelize.OpenFile(w.Path(WorkbookFile))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSummary, SheetCategory, SheetPrice, SheetDiscount, SheetTopRated, SheetHypothesis}, f.GetSheetList())

	rows, err := f.GetRows(SheetSummary)
	require.NoError(t, err)
	assert.Equal(t, []string{"total_products", "2"}, rows[1])

	rows, err = f.GetRows(SheetCategory)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Electronics|Cables", rows[1][0])

	rows, err = f.GetRows(SheetHypothesis)
	require.NoError(t, err)
	assert.Equal(t, "insight1", rows[1][0])
}

func TestRenderReport(t *testing.T) {
	md := RenderMarkdown(sampleReport(sampleRecords()))
	assert.Contains(t, string(md), "## Summary")
	assert.Contains(t, string(md), `Electronics\|Cables`)
	assert.Contains(t, string(md), "Avoid over-discounting.")

	page := RenderHTML(md)
	assert.Contains(t, string(page), "<title>"+reportTitle+"</title>")
	assert.Contains(t, string(page), "<table>")
}

func TestRenderMarkdown_NoInsights(t *testing.T) {
	md := string(RenderMarkdown(Report{}))
	assert.Contains(t, md, "No hypothesis test had enough data to run.")
	assert.NotContains(t, md, "## Questions")
}

func TestWriteMetrics(t *testing.T) {
	m := run.NewManifest("products.csv", core.NewHash([]byte("x")), 42)
	m.RecordCount = 2
	m.RecordArtifact(SummaryFile, nil)
	m.RecordInsights([]insight.Insight{{ID: "insight1", Significant: true}}, []insight.Skipped{{ID: "insight4"}})
	m.RecordStage("read", time.Now())

	path := filepath.Join(t.TempDir(), "metrics.prom")
	require.NoError(t, WriteMetrics(path, m, []insight.Insight{{ID: "insight1", Significant: true}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	for _, line := range []string{
		"prodinsight_records 2",
		"prodinsight_insights_emitted 1",
		"prodinsight_insights_skipped 1",
		"prodinsight_insights_significant 1",
		"prodinsight_artifacts_written 1",
		"prodinsight_artifacts_failed 0",
		`prodinsight_stage_duration_seconds{stage="read"}`,
	} {
		assert.True(t, strings.Contains(text, line), "missing %q", line)
	}
}
