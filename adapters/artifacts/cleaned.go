package artifacts

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"prodinsight/domain/product"
	"prodinsight/internal/errors"
)

// CleanedHeaders are the columns of cleaned_data.csv
var CleanedHeaders = []string{
	product.ColumnProductID,
	product.ColumnProductName,
	product.ColumnCategory,
	product.ColumnDiscountedPrice,
	product.ColumnActualPrice,
	product.ColumnDiscountPercentage,
	product.ColumnRating,
	product.ColumnRatingCount,
	"discount_amount",
	"price_range",
	"discount_range",
	"price_tier",
}

// WriteCleanedCSV exports every normalized record; missing values are empty cells
func (w *Writer) WriteCleanedCSV(records []product.NormalizedRecord) error {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(CleanedHeaders); err != nil {
		return errors.ArtifactWriteFailed(CleanedDataFile, err)
	}
	for _, r := range records {
		row := []string{
			r.ProductID,
			r.ProductName,
			r.Category,
			formatFloat(r.DiscountedPrice),
			formatFloat(r.ActualPrice),
			formatFloat(r.DiscountPercentage),
			formatFloat(r.Rating),
			formatInt(r.RatingCount),
			formatFloat(r.DiscountAmount),
			r.PriceRange,
			r.DiscountRange,
			r.PriceTier,
		}
		if err := cw.Write(row); err != nil {
			return errors.ArtifactWriteFailed(CleanedDataFile, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.ArtifactWriteFailed(CleanedDataFile, err)
	}
	return w.WriteFile(CleanedDataFile, buf.Bytes())
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatInt(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}
