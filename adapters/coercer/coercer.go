package coercer

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"prodinsight/domain/product"
	"prodinsight/internal/binning"
)

// numericRunRegexp matches the first maximal digits(.digits)? run
var numericRunRegexp = regexp.MustCompile(`\d+(?:\.\d+)?`)

// mojibakeRupee is the rupee sign after a UTF-8 -> cp1252 -> UTF-8 round trip
const mojibakeRupee = "â‚¹"

// FieldCoercer converts raw string fields to typed values. Every method is
// total: malformed input degrades to nil, never to an error or panic.
type FieldCoercer struct{}

// NewFieldCoercer creates a field coercer
func NewFieldCoercer() *FieldCoercer {
	return &FieldCoercer{}
}

// CleanPrice strips currency symbols and thousands separators and parses the
// first numeric run. Only the first run is used.
func (c *FieldCoercer) CleanPrice(raw *string) *float64 {
	if raw == nil {
		return nil
	}

	s := strings.ReplaceAll(*raw, mojibakeRupee, "")
	s = strings.Map(func(r rune) rune {
		if r == ',' || unicode.Is(unicode.Sc, r) {
			return -1
		}
		return r
	}, s)

	match := numericRunRegexp.FindString(s)
	if match == "" {
		return nil
	}
	return parseFinite(match)
}

// CleanDiscount parses "50%" style values
func (c *FieldCoercer) CleanDiscount(raw *string) *float64 {
	if raw == nil {
		return nil
	}
	s := strings.TrimSpace(*raw)
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	return parseFinite(s)
}

// CleanRating parses a plain numeric rating
func (c *FieldCoercer) CleanRating(raw *string) *float64 {
	if raw == nil {
		return nil
	}
	return parseFinite(strings.TrimSpace(*raw))
}

// CleanRatingCount parses "12,456" style counts, truncating fractional parts
func (c *FieldCoercer) CleanRatingCount(raw *string) *int64 {
	if raw == nil {
		return nil
	}
	s := strings.TrimSpace(strings.ReplaceAll(*raw, ",", ""))
	v := parseFinite(s)
	if v == nil {
		return nil
	}
	t := math.Trunc(*v)
	if t > math.MaxInt64 || t < math.MinInt64 {
		return nil
	}
	n := int64(t)
	return &n
}

// Normalize converts one raw row. It never drops or fails a row; the
// price tier is left empty because it depends on the whole collection.
func (c *FieldCoercer) Normalize(index int, raw product.RawRecord) product.NormalizedRecord {
	rec := product.NormalizedRecord{
		Index:              index,
		ProductID:          strings.TrimSpace(product.Deref(raw.ProductID)),
		ProductName:        strings.TrimSpace(product.Deref(raw.ProductName)),
		Category:           strings.TrimSpace(product.Deref(raw.Category)),
		ReviewTitle:        strings.TrimSpace(product.Deref(raw.ReviewTitle)),
		DiscountedPrice:    c.CleanPrice(raw.DiscountedPrice),
		ActualPrice:        c.CleanPrice(raw.ActualPrice),
		DiscountPercentage: c.CleanDiscount(raw.DiscountPercentage),
		Rating:             c.CleanRating(raw.Rating),
		RatingCount:        c.CleanRatingCount(raw.RatingCount),
	}

	if rec.ActualPrice != nil && rec.DiscountedPrice != nil {
		amount := *rec.ActualPrice - *rec.DiscountedPrice
		rec.DiscountAmount = &amount
	}
	rec.PriceRange = binning.PriceRange(rec.DiscountedPrice)
	rec.DiscountRange = binning.DiscountRange(rec.DiscountPercentage)

	return rec
}

// NormalizeAll converts every raw row, preserving order, then assigns price
// tiers from the tertiles of the observed discounted prices.
func (c *FieldCoercer) NormalizeAll(raws []product.RawRecord) ([]product.NormalizedRecord, binning.CutPoints) {
	records := make([]product.NormalizedRecord, len(raws))
	prices := make([]float64, 0, len(raws))
	for i, raw := range raws {
		records[i] = c.Normalize(i, raw)
		if records[i].DiscountedPrice != nil {
			prices = append(prices, *records[i].DiscountedPrice)
		}
	}

	tiers := binning.PriceTiers(prices)
	for i := range records {
		records[i].PriceTier = tiers.Apply(records[i].DiscountedPrice)
	}
	return records, tiers
}

func parseFinite(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
