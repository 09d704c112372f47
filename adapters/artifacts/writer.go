// Package artifacts writes the dashboard artifacts of a run to the output
// directory: JSON tables, the cleaned CSV export and the optional reports.
package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"prodinsight/internal"
	"prodinsight/internal/errors"
)

// Artifact file names
const (
	SummaryFile        = "summary_stats.json"
	CategoryFile       = "category_stats.json"
	PriceRangeFile     = "price_range_stats.json"
	DiscountRangeFile  = "discount_stats.json"
	TopRatedFile       = "top_rated_products.json"
	TopCategoriesFile  = "top_categories.json"
	CleanedDataFile    = "cleaned_data.csv"
	InsightsFile       = "business_insights.json"
	Q1File             = "insight_q1_avg_rating_by_category.json"
	Q2File             = "insight_q2_top_products_by_category.json"
	Q3File             = "insight_q3_price_distribution.json"
	Q4File             = "insight_q4_avg_discount_by_category.json"
	Q5File             = "insight_q5_popular_products.json"
	Q6File             = "insight_q6_keywords.json"
	Q7File             = "insight_q7_popular_reviews.json"
	Q8File             = "insight_q8_correlation.json"
	Q9File             = "insight_q9_top5_categories.json"
	QAFile             = "insights_qa.json"
	ManifestFile       = "run_manifest.json"
	WorkbookFile       = "analysis_report.xlsx"
	MarkdownReportFile = "report.md"
	HTMLReportFile     = "report.html"
)

// Writer persists artifacts under one directory
type Writer struct {
	Dir    string
	logger *internal.Logger
}

// NewWriter creates a writer for dir
func NewWriter(dir string, logger *internal.Logger) *Writer {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Writer{Dir: dir, logger: logger}
}

// EnsureDir creates the output directory if it doesn't exist
func (w *Writer) EnsureDir() error {
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return errors.ArtifactWriteFailed(w.Dir, err)
	}
	return nil
}

// Path returns the location of the named artifact
func (w *Writer) Path(name string) string {
	return filepath.Join(w.Dir, name)
}

// WriteJSON marshals v with two-space indentation
func (w *Writer) WriteJSON(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.ArtifactWriteFailed(name, fmt.Errorf("failed to marshal: %w", err))
	}
	return w.WriteFile(name, append(data, '\n'))
}

// WriteFile writes raw bytes
func (w *Writer) WriteFile(name string, data []byte) error {
	if err := os.WriteFile(w.Path(name), data, 0644); err != nil {
		return errors.ArtifactWriteFailed(name, err)
	}
	w.logger.Debug("[Emitter] wrote %s (%d bytes)", name, len(data))
	return nil
}
