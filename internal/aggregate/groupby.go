package aggregate

import (
	"cmp"
	"sort"
)

// Group is one key of a GroupBy together with its members in input order
type Group[K cmp.Ordered, T any] struct {
	Key   K
	Items []T
}

// GroupBy partitions items by key. Groups are returned in ascending key
// order so iteration is deterministic; members keep their input order.
func GroupBy[K cmp.Ordered, T any](items []T, key func(T) K) []Group[K, T] {
	index := make(map[K]int)
	var groups []Group[K, T]
	for _, item := range items {
		k := key(item)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group[K, T]{Key: k})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	sort.SliceStable(groups, func(a, b int) bool {
		return cmp.Less(groups[a].Key, groups[b].Key)
	})
	return groups
}
