package artifacts

import (
	"fmt"

	"prodinsight/internal/aggregate"
	"prodinsight/internal/errors"

	"github.com/xuri/excelize/v2"
)

// Workbook sheet names
const (
	SheetSummary    = "Summary"
	SheetCategory   = "Categories"
	SheetPrice      = "Price Ranges"
	SheetDiscount   = "Discount Ranges"
	SheetTopRated   = "Top Rated"
	SheetHypothesis = "Hypothesis Tests"
)

// WriteWorkbook writes analysis_report.xlsx with one sheet per table
func (w *Writer) WriteWorkbook(r Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return errors.ArtifactWriteFailed(WorkbookFile, err)
	}

	sheets := []struct {
		name string
		rows [][]interface{}
	}{
		{SheetSummary, summaryRows(r)},
		{SheetCategory, categoryRows(r)},
		{SheetPrice, bucketRows("price_range", r.PriceRanges)},
		{SheetDiscount, bucketRows("discount_range", r.DiscountRanges)},
		{SheetTopRated, topRatedRows(r)},
		{SheetHypothesis, hypothesisRows(r)},
	}

	for _, s := range sheets {
		if s.name != SheetSummary {
			if _, err := f.NewSheet(s.name); err != nil {
				return errors.ArtifactWriteFailed(WorkbookFile, err)
			}
		}
		if err := writeRows(f, s.name, s.rows); err != nil {
			return errors.ArtifactWriteFailed(WorkbookFile, fmt.Errorf("sheet %s: %w", s.name, err))
		}
	}

	if err := f.SaveAs(w.Path(WorkbookFile)); err != nil {
		return errors.ArtifactWriteFailed(WorkbookFile, err)
	}
	w.logger.Debug("[Emitter] wrote %s (%d sheets)", WorkbookFile, len(sheets))
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// value turns a missing number into an empty cell
func value(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func summaryRows(r Report) [][]interface{} {
	s := r.Summary
	return [][]interface{}{
		{"metric", "value"},
		{"total_products", s.TotalProducts},
		{"total_categories", s.TotalCategories},
		{"avg_rating", value(s.AvgRating)},
		{"avg_price", value(s.AvgPrice)},
		{"avg_discount", value(s.AvgDiscount)},
		{"total_reviews", s.TotalReviews},
	}
}

func categoryRows(r Report) [][]interface{} {
	rows := [][]interface{}{{"category", "avg_rating", "product_count", "avg_price", "avg_discount", "total_reviews"}}
	for _, c := range r.Categories {
		rows = append(rows, []interface{}{c.Category, value(c.AvgRating), c.ProductCount, value(c.AvgPrice), value(c.AvgDiscount), c.TotalReviews})
	}
	return rows
}

func bucketRows(header string, buckets []aggregate.BucketAggregate) [][]interface{} {
	rows := [][]interface{}{{header, "avg_rating", "product_count"}}
	for _, b := range buckets {
		rows = append(rows, []interface{}{b.Label, value(b.AvgRating), b.ProductCount})
	}
	return rows
}

func topRatedRows(r Report) [][]interface{} {
	rows := [][]interface{}{{"product_name", "category", "rating", "rating_count", "discounted_price"}}
	for _, p := range r.TopRated {
		var count interface{} = ""
		if p.RatingCount != nil {
			count = *p.RatingCount
		}
		rows = append(rows, []interface{}{p.ProductName, p.Category, value(p.Rating), count, value(p.DiscountedPrice)})
	}
	return rows
}

func hypothesisRows(r Report) [][]interface{} {
	rows := [][]interface{}{{"id", "question", "test", "p_value", "significant", "interpretation", "recommendation"}}
	for _, ins := range r.Insights {
		rows = append(rows, []interface{}{ins.ID, ins.Question, ins.Test, ins.PValue, ins.Significant, ins.Interpretation, ins.Recommendation})
	}
	return rows
}
