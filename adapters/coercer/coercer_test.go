package coercer

import (
	"math/rand"
	"testing"

	"prodinsight/domain/product"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func TestCleanPrice(t *testing.T) {
	c := NewFieldCoercer()

	tests := []struct {
		name string
		raw  *string
		want *float64
	}{
		{"absent", nil, nil},
		{"rupee with separator", strp("₹1,299"), product.Float(1299)},
		{"mojibake rupee", strp("â‚¹399"), product.Float(399)},
		{"dollar decimal", strp("$19.99"), product.Float(19.99)},
		{"euro with spaces", strp(" € 2,500.50 "), product.Float(2500.50)},
		{"first run only", strp("₹499 - ₹999"), product.Float(499)},
		{"trailing text", strp("1,099 only"), product.Float(1099)},
		{"no digits", strp("free"), nil},
		{"empty", strp(""), nil},
		{"trailing dot", strp("12."), product.Float(12)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.CleanPrice(tt.raw)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestCleanPrice_NeverNegativeOrPanics(t *testing.T) {
	c := NewFieldCoercer()
	rng := rand.New(rand.NewSource(7))
	alphabet := []rune("₹$€£¥,.-+ 0123456789abc%â‚¹")

	for i := 0; i < 2000; i++ {
		n := rng.Intn(16)
		runes := make([]rune, n)
		for j := range runes {
			runes[j] = alphabet[rng.Intn(len(alphabet))]
		}
		s := string(runes)

		got := c.CleanPrice(&s)
		if got != nil {
			assert.GreaterOrEqual(t, *got, 0.0, "input %q", s)
		}
	}
}

func TestCleanDiscount(t *testing.T) {
	c := NewFieldCoercer()

	assert.Nil(t, c.CleanDiscount(nil))
	assert.Nil(t, c.CleanDiscount(strp("n/a")))
	assert.Nil(t, c.CleanDiscount(strp("NaN")))
	assert.InDelta(t, 50.0, *c.CleanDiscount(strp("50%")), 1e-9)
	assert.InDelta(t, 12.5, *c.CleanDiscount(strp(" 12.5 % ")), 1e-9)
	assert.InDelta(t, 7.0, *c.CleanDiscount(strp("7")), 1e-9)
}

func TestCleanRating(t *testing.T) {
	c := NewFieldCoercer()

	assert.Nil(t, c.CleanRating(nil))
	assert.Nil(t, c.CleanRating(strp("|")))
	assert.Nil(t, c.CleanRating(strp("4,1")))
	assert.InDelta(t, 4.3, *c.CleanRating(strp("4.3")), 1e-9)
	assert.InDelta(t, 3.0, *c.CleanRating(strp(" 3 ")), 1e-9)
}

func TestCleanRatingCount(t *testing.T) {
	c := NewFieldCoercer()

	assert.Nil(t, c.CleanRatingCount(nil))
	assert.Nil(t, c.CleanRatingCount(strp("many")))
	assert.Nil(t, c.CleanRatingCount(strp("1e400")))
	assert.Equal(t, int64(12456), *c.CleanRatingCount(strp("12,456")))
	assert.Equal(t, int64(24), *c.CleanRatingCount(strp("24.9")))
}

func TestNormalize_ExampleRow(t *testing.T) {
	c := NewFieldCoercer()
	raw := product.RawRecord{
		ProductID:          strp("B07JW9H4J1"),
		ProductName:        strp("Wayona Nylon Braided USB Cable"),
		Category:           strp("Computers&Accessories|Accessories&Peripherals|Cables&Accessories|Cables|USBCables"),
		DiscountedPrice:    strp("₹1,299"),
		ActualPrice:        strp("₹2,599"),
		DiscountPercentage: strp("50%"),
		Rating:             strp("4.3"),
		RatingCount:        strp("12,456"),
	}

	rec := c.Normalize(0, raw)

	require.NotNil(t, rec.DiscountedPrice)
	require.NotNil(t, rec.ActualPrice)
	require.NotNil(t, rec.DiscountAmount)
	require.NotNil(t, rec.DiscountPercentage)
	require.NotNil(t, rec.Rating)
	require.NotNil(t, rec.RatingCount)

	assert.Equal(t, 1299.0, *rec.DiscountedPrice)
	assert.Equal(t, 2599.0, *rec.ActualPrice)
	assert.Equal(t, 1300.0, *rec.DiscountAmount)
	assert.Equal(t, 50.0, *rec.DiscountPercentage)
	assert.Equal(t, 4.3, *rec.Rating)
	assert.Equal(t, int64(12456), *rec.RatingCount)
	assert.Equal(t, "1000-2000", rec.PriceRange)
	assert.Equal(t, "40-50%", rec.DiscountRange)
	assert.Equal(t, "USBCables", rec.LeafCategory())
}

func TestNormalize_DiscountAboveFiftyIsTopRange(t *testing.T) {
	c := NewFieldCoercer()
	rec := c.Normalize(0, product.RawRecord{DiscountPercentage: strp("50.5%")})
	assert.Equal(t, "50%+", rec.DiscountRange)
}

func TestNormalize_MissingOperandsLeaveDerivedMissing(t *testing.T) {
	c := NewFieldCoercer()
	rec := c.Normalize(3, product.RawRecord{ActualPrice: strp("₹999")})

	assert.Equal(t, 3, rec.Index)
	assert.Nil(t, rec.DiscountedPrice)
	assert.Nil(t, rec.DiscountAmount)
	assert.Empty(t, rec.PriceRange)
	assert.Empty(t, rec.DiscountRange)
}

func TestNormalize_Idempotent(t *testing.T) {
	c := NewFieldCoercer()
	raw := product.RawRecord{
		ProductID:          strp("B1"),
		DiscountedPrice:    strp("₹349"),
		ActualPrice:        strp("garbage"),
		DiscountPercentage: strp("64%"),
		Rating:             strp("4.0"),
		RatingCount:        strp("43,994"),
	}

	assert.Equal(t, c.Normalize(0, raw), c.Normalize(0, raw))
}

func TestNormalizeAll_KeepsEveryRowAndAssignsTiers(t *testing.T) {
	c := NewFieldCoercer()
	raws := []product.RawRecord{
		{DiscountedPrice: strp("₹100")},
		{DiscountedPrice: strp("₹200")},
		{DiscountedPrice: strp("₹300")},
		{DiscountedPrice: strp("₹400")},
		{DiscountedPrice: strp("₹500")},
		{DiscountedPrice: strp("₹600")},
		{DiscountedPrice: nil},
	}

	records, tiers := c.NormalizeAll(raws)
	require.Len(t, records, len(raws))
	assert.Equal(t, 3, tiers.Tiers())

	assert.Equal(t, "Low", records[0].PriceTier)
	assert.Equal(t, "High", records[5].PriceTier)
	assert.Empty(t, records[6].PriceTier)
	for i, rec := range records {
		assert.Equal(t, i, rec.Index)
	}
}
