package ranking

import "sort"

// Count is one entry of a frequency table
type Count struct {
	Value string
	Count int
}

// Counter is a frequency table that remembers first-encounter order
type Counter struct {
	counts map[string]int
	order  []string
}

func NewCounter() *Counter {
	return &Counter{counts: make(map[string]int)}
}

// Add counts one occurrence of v
func (c *Counter) Add(v string) {
	if _, ok := c.counts[v]; !ok {
		c.order = append(c.order, v)
	}
	c.counts[v]++
}

// Len returns the number of distinct values
func (c *Counter) Len() int {
	return len(c.order)
}

// Top returns the n most frequent values; ties keep first-encounter order
func (c *Counter) Top(n int) []Count {
	out := make([]Count, 0, len(c.order))
	for _, v := range c.order {
		out = append(out, Count{Value: v, Count: c.counts[v]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return head(out, n)
}
