// Package ranking selects deterministic top-N slices, keyword tables and
// samples from normalized records.
package ranking

import (
	"math/rand"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"prodinsight/domain/product"
)

// Fixed selection sizes
const (
	TopRatedProducts = 20
	TopCategories    = 10
	KeywordLimit     = 20
	TruncateRunes    = 60
	Ellipsis         = "..."
	SampleSize       = 80
)

// SampleSeed fixes the scatter sample across runs
const SampleSeed int64 = 42

// SortDesc returns a stably sorted copy, largest key first, missing keys last.
// Ties keep input order.
func SortDesc[T any](items []T, key func(T) *float64) []T {
	return sortBy(items, key, func(a, b float64) bool { return a > b })
}

// SortAsc returns a stably sorted copy, smallest key first, missing keys last
func SortAsc[T any](items []T, key func(T) *float64) []T {
	return sortBy(items, key, func(a, b float64) bool { return a < b })
}

func sortBy[T any](items []T, key func(T) *float64, before func(a, b float64) bool) []T {
	out := append([]T(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		ki, kj := key(out[i]), key(out[j])
		switch {
		case ki == nil:
			return false
		case kj == nil:
			return true
		default:
			return before(*ki, *kj)
		}
	})
	return out
}

// TopN returns the first n items of SortDesc
func TopN[T any](items []T, n int, key func(T) *float64) []T {
	return head(SortDesc(items, key), n)
}

// TopNPresent is TopN restricted to items whose key is present
func TopNPresent[T any](items []T, n int, key func(T) *float64) []T {
	return head(SortDesc(present(items, key), key), n)
}

// BottomNPresent returns the n smallest present keys, ascending
func BottomNPresent[T any](items []T, n int, key func(T) *float64) []T {
	return head(SortAsc(present(items, key), key), n)
}

func present[T any](items []T, key func(T) *float64) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if key(item) != nil {
			out = append(out, item)
		}
	}
	return out
}

func head[T any](items []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if len(items) > n {
		return items[:n]
	}
	return items
}

func ratingCountKey(r product.NormalizedRecord) *float64 {
	if r.RatingCount == nil {
		return nil
	}
	v := float64(*r.RatingCount)
	return &v
}

// PerCategoryTopK takes the k most-reviewed records of each category, in
// ascending category order, then truncates the concatenation to limit rows.
func PerCategoryTopK(records []product.NormalizedRecord, k, limit int) []product.NormalizedRecord {
	byCategory := make(map[string][]product.NormalizedRecord)
	var keys []string
	for _, r := range records {
		if _, ok := byCategory[r.Category]; !ok {
			keys = append(keys, r.Category)
		}
		byCategory[r.Category] = append(byCategory[r.Category], r)
	}
	sort.Strings(keys)

	var out []product.NormalizedRecord
	for _, key := range keys {
		out = append(out, TopN(byCategory[key], k, ratingCountKey)...)
		if len(out) >= limit {
			break
		}
	}
	return head(out, limit)
}

// Truncate shortens s to max runes plus an ellipsis; shorter strings pass through
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max]) + Ellipsis
}

// Tokens splits a name on whitespace and keeps lower-cased, purely
// alphabetic tokens longer than one rune
func Tokens(name string) []string {
	var out []string
	for _, tok := range strings.Fields(name) {
		if utf8.RuneCountInString(tok) < 2 || !isAlpha(tok) {
			continue
		}
		out = append(out, strings.ToLower(tok))
	}
	return out
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// Keywords counts name tokens across all non-empty names
func Keywords(names []string, n int) []Count {
	counter := NewCounter()
	for _, name := range names {
		for _, tok := range Tokens(name) {
			counter.Add(tok)
		}
	}
	return counter.Top(n)
}

// Sample draws up to n items uniformly without replacement using a fixed
// seed. When there are at most n items, all are returned in input order.
func Sample[T any](items []T, n int, seed int64) []T {
	if len(items) <= n {
		return append([]T(nil), items...)
	}
	rng := rand.New(rand.NewSource(seed))
	pool := append([]T(nil), items...)
	// partial Fisher-Yates: the first n slots end up as the sample
	for i := 0; i < n; i++ {
		j := i + rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}
