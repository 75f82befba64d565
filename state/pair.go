package state

import (
	"cmp"
	"slices"
)

type Pair[Ty1, Ty2 any] struct {
	V1 Ty1
	V2 Ty2
}

// MakeSortedPair orders the endpoints so that an edge has exactly one
// representation no matter which way the config wrote it.
func MakeSortedPair(a, b string) Pair[RouterId, RouterId] {
	if a > b {
		a, b = b, a
	}
	return Pair[RouterId, RouterId]{RouterId(a), RouterId(b)}
}

func SortPairs(pairs []Pair[RouterId, RouterId]) {
	slices.SortFunc(pairs, func(a, b Pair[RouterId, RouterId]) int {
		if c := cmp.Compare(a.V1, b.V1); c != 0 {
			return c
		}
		return cmp.Compare(a.V2, b.V2)
	})
}
