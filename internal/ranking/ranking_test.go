package ranking

import (
	"strings"
	"testing"

	"prodinsight/domain/product"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	name string
	v    *float64
}

func key(i item) *float64 { return i.v }

func names(items []item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.name
	}
	return out
}

func TestSortDesc_StableMissingLast(t *testing.T) {
	f := product.Float
	items := []item{
		{"a", f(3)}, {"b", nil}, {"c", f(5)}, {"d", f(3)}, {"e", nil}, {"f", f(1)},
	}

	assert.Equal(t, []string{"c", "a", "d", "f", "b", "e"}, names(SortDesc(items, key)))
	assert.Equal(t, []string{"f", "a", "d", "c", "b", "e"}, names(SortAsc(items, key)))
	assert.Equal(t, "a", items[0].name, "input is not modified")
}

func TestTopN(t *testing.T) {
	f := product.Float
	items := []item{{"a", nil}, {"b", f(2)}, {"c", f(9)}}

	assert.Equal(t, []string{"c", "b"}, names(TopN(items, 2, key)))
	assert.Equal(t, []string{"c", "b", "a"}, names(TopN(items, 10, key)))
	assert.Equal(t, []string{"c", "b"}, names(TopNPresent(items, 10, key)))
	assert.Equal(t, []string{"b"}, names(BottomNPresent(items, 1, key)))
	assert.Empty(t, TopN(items, 0, key))
}

func TestPerCategoryTopK(t *testing.T) {
	i := product.Int
	records := []product.NormalizedRecord{
		{ProductID: "b1", Category: "B", RatingCount: i(5)},
		{ProductID: "a1", Category: "A", RatingCount: i(1)},
		{ProductID: "a2", Category: "A", RatingCount: i(10)},
		{ProductID: "a3", Category: "A", RatingCount: nil},
		{ProductID: "a4", Category: "A", RatingCount: i(10)},
		{ProductID: "a5", Category: "A", RatingCount: i(3)},
		{ProductID: "b2", Category: "B", RatingCount: i(7)},
	}

	got := PerCategoryTopK(records, 3, 50)
	ids := make([]string, len(got))
	for n, r := range got {
		ids[n] = r.ProductID
	}
	assert.Equal(t, []string{"a2", "a4", "a5", "b2", "b1"}, ids)

	capped := PerCategoryTopK(records, 3, 4)
	assert.Len(t, capped, 4)
}

func TestTruncate(t *testing.T) {
	short := "USB Cable"
	assert.Equal(t, short, Truncate(short, TruncateRunes))

	exact := strings.Repeat("x", TruncateRunes)
	assert.Equal(t, exact, Truncate(exact, TruncateRunes))

	long := strings.Repeat("₹", TruncateRunes+5)
	got := Truncate(long, TruncateRunes)
	assert.Equal(t, strings.Repeat("₹", TruncateRunes)+"...", got)
}

func TestTokens(t *testing.T) {
	got := Tokens("boAt Rugged v3 USB-C Cable, 1.5m  Braided a Cable")
	assert.Equal(t, []string{"boat", "rugged", "braided", "cable"}, got)
	assert.Empty(t, Tokens(""))
}

func TestKeywords_TiesByFirstEncounter(t *testing.T) {
	got := Keywords([]string{
		"Fast Cable Charger",
		"Cable Mouse",
		"Charger Fast",
		"",
	}, 3)

	require.Len(t, got, 3)
	assert.Equal(t, Count{Value: "fast", Count: 2}, got[0])
	assert.Equal(t, Count{Value: "cable", Count: 2}, got[1])
	assert.Equal(t, Count{Value: "charger", Count: 2}, got[2])
}

func TestCounter(t *testing.T) {
	c := NewCounter()
	for _, v := range []string{"Good", "Nice", "Good", "Average", "Nice", "Good"} {
		c.Add(v)
	}
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []Count{{"Good", 3}, {"Nice", 2}, {"Average", 1}}, c.Top(10))
}

func TestSample_Deterministic(t *testing.T) {
	items := make([]int, 500)
	for n := range items {
		items[n] = n
	}

	a := Sample(items, SampleSize, SampleSeed)
	b := Sample(items, SampleSize, SampleSeed)
	require.Len(t, a, SampleSize)
	assert.Equal(t, a, b)

	seen := make(map[int]bool)
	for _, v := range a {
		assert.False(t, seen[v], "sampled without replacement")
		seen[v] = true
	}

	other := Sample(items, SampleSize, SampleSeed+1)
	assert.NotEqual(t, a, other)
}

func TestSample_SmallInputReturnedInOrder(t *testing.T) {
	items := []int{5, 3, 9}
	assert.Equal(t, items, Sample(items, SampleSize, SampleSeed))
}
