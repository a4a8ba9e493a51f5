package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finrag/finrag/core"
)

func TestGroupNodes_Level1GroupsBySectorCompanyYear(t *testing.T) {
	nodes := []*core.Node{
		makeNode("a", "technology", "Apple Inc", "2023", nil),
		makeNode("b", "technology", "Apple Inc", "2022", nil),
		makeNode("c", "technology", "Apple Inc", "2023", nil),
	}
	groups := groupNodes(1, nodes)
	require.Len(t, groups, 2, "2023 group and 2022 group")
}

func TestGroupNodes_Level3GroupsBySectorOnly(t *testing.T) {
	nodes := []*core.Node{
		makeNode("a", "technology", "Apple Inc", "2023", nil),
		makeNode("b", "technology", "Microsoft Corp", "2022", nil),
		makeNode("c", "finance", "JPMorgan", "2023", nil),
	}
	groups := groupNodes(3, nodes)
	require.Len(t, groups, 2, "technology and finance")
}

func TestGroupNodes_Level4SingleGroup(t *testing.T) {
	nodes := []*core.Node{
		makeNode("a", "technology", "Apple Inc", "2023", nil),
		makeNode("b", "finance", "JPMorgan", "2022", nil),
	}
	groups := groupNodes(4, nodes)
	require.Len(t, groups, 1, "single root group")
}

func TestCompareValue_AllSortsAfterConcrete(t *testing.T) {
	assert.Positive(t, compareValue(core.All, "technology"))
	assert.Negative(t, compareValue("technology", core.All))
}

func TestGroupNodes_SortedByCanonicalKey(t *testing.T) {
	nodes := []*core.Node{
		makeNode("a", "technology", "X", "2023", nil),
		makeNode("b", "finance", "Y", "2023", nil),
	}
	groups := groupNodes(3, nodes)
	require.Len(t, groups, 2)
	assert.Equal(t, "finance", groups[0].key[0])
	assert.Equal(t, "technology", groups[1].key[0])
}
