package cluster

import (
	"sort"
	"strings"

	"github.com/finrag/finrag/core"
)

// groupKey returns the grouping-dimension tuple for level L over a
// node's metadata, per §4.2's fixed hierarchy table.
func groupKey(level int, m core.Metadata) []string {
	switch {
	case level <= 1:
		k := core.GroupKey1(m)
		return k[:]
	case level == 2:
		k := core.GroupKey2(m)
		return k[:]
	case level == 3:
		k := core.GroupKey3(m)
		return k[:]
	default:
		return nil
	}
}

// canonicalKey joins a group key tuple into a single comparable string
// using a separator that cannot appear in a metadata value.
func canonicalKey(tuple []string) string {
	return strings.Join(tuple, "\x1f")
}

// compareValue orders two metadata values: the "all" sentinel always
// sorts after any concrete value; otherwise plain lexicographic order.
func compareValue(a, b string) int {
	aAll := a == core.All
	bAll := b == core.All
	if aAll != bAll {
		if aAll {
			return 1
		}
		return -1
	}
	return strings.Compare(a, b)
}

// compareTuples orders two group key tuples component by component.
func compareTuples(a, b []string) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := compareValue(a[i], b[i]); c != 0 {
			return c
		}
	}
	return len(a) - len(b)
}

// group is a single metadata group: the tuple that defines it, plus the
// indices (into the input node slice) of its members in input order.
type group struct {
	key     []string
	indices []int
}

// groupNodes partitions nodes into metadata groups for level, preserving
// each group's member order as encountered, then sorts the groups by
// canonical key (§4.2).
func groupNodes(level int, nodes []*core.Node) []group {
	index := map[string]*group{}
	var order []string

	for i, n := range nodes {
		key := groupKey(level, n.Metadata)
		ck := canonicalKey(key)
		g, ok := index[ck]
		if !ok {
			g = &group{key: key}
			index[ck] = g
			order = append(order, ck)
		}
		g.indices = append(g.indices, i)
	}

	groups := make([]group, 0, len(order))
	for _, ck := range order {
		groups = append(groups, *index[ck])
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return compareTuples(groups[i].key, groups[j].key) < 0
	})
	return groups
}
