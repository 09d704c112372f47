package excel

import "prodinsight/domain/product"

// RawRowData represents a row of raw input data as header -> cell pairs
type RawRowData map[string]string

// Dataset is the complete input file after header validation
type Dataset struct {
	Headers        []string            // Column headers, trimmed
	Records        []product.RawRecord // One per data row, in file order
	HasReviewTitle bool                // Whether the optional review_title column exists
	Format         string              // "csv" or "xlsx"
}

// Len returns the number of data rows
func (d *Dataset) Len() int {
	return len(d.Records)
}
