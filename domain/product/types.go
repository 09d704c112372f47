package product

import "strings"

// Input column names
const (
	ColumnProductID          = "product_id"
	ColumnProductName        = "product_name"
	ColumnCategory           = "category"
	ColumnDiscountedPrice    = "discounted_price"
	ColumnActualPrice        = "actual_price"
	ColumnDiscountPercentage = "discount_percentage"
	ColumnRating             = "rating"
	ColumnRatingCount        = "rating_count"
	ColumnReviewTitle        = "review_title"
)

// RequiredColumns must all be present in the input header
var RequiredColumns = []string{
	ColumnProductID,
	ColumnProductName,
	ColumnCategory,
	ColumnDiscountedPrice,
	ColumnActualPrice,
	ColumnDiscountPercentage,
	ColumnRating,
	ColumnRatingCount,
}

// CategoryDelimiter separates hierarchical category segments
const CategoryDelimiter = "|"

// UncategorizedLabel is displayed for records without a category
const UncategorizedLabel = "Uncategorized"

// RawRecord is one input row as read. A nil field means the cell was absent or empty.
type RawRecord struct {
	ProductID          *string
	ProductName        *string
	Category           *string
	DiscountedPrice    *string
	ActualPrice        *string
	DiscountPercentage *string
	Rating             *string
	RatingCount        *string
	ReviewTitle        *string
}

// NormalizedRecord is a RawRecord after type coercion. Nil numeric fields are missing.
type NormalizedRecord struct {
	Index              int      `json:"-"`
	ProductID          string   `json:"product_id"`
	ProductName        string   `json:"product_name"`
	Category           string   `json:"category"`
	ReviewTitle        string   `json:"-"`
	DiscountedPrice    *float64 `json:"discounted_price"`
	ActualPrice        *float64 `json:"actual_price"`
	DiscountPercentage *float64 `json:"discount_percentage"`
	Rating             *float64 `json:"rating"`
	RatingCount        *int64   `json:"rating_count"`
	DiscountAmount     *float64 `json:"discount_amount"`
	PriceRange         string   `json:"price_range"`
	DiscountRange      string   `json:"discount_range"`
	PriceTier          string   `json:"price_tier"`
}

// LeafCategory returns the text after the final delimiter of the category path
func (r *NormalizedRecord) LeafCategory() string {
	return LeafSegment(r.Category)
}

// LeafSegment returns the display label for a hierarchical category string
func LeafSegment(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return UncategorizedLabel
	}
	if idx := strings.LastIndex(category, CategoryDelimiter); idx >= 0 {
		leaf := strings.TrimSpace(category[idx+len(CategoryDelimiter):])
		if leaf != "" {
			return leaf
		}
	}
	return category
}

// Str returns a pointer to s, or nil when s is empty after trimming
func Str(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// Float returns a pointer to v
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v
func Int(v int64) *int64 { return &v }

// Deref returns the string value or "" when nil
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
