package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSampleTree() *Tree {
	tr := NewTree()
	leaf0 := &Node{ID: LeafID(0, 0), Level: 0, Text: "a"}
	leaf1 := &Node{ID: LeafID(1, 0), Level: 0, Text: "b"}
	tr.AddNode(leaf0)
	tr.AddNode(leaf1)

	parent := &Node{ID: InteriorID(1, 0), Level: 1, Text: "summary", Children: []*Node{leaf0, leaf1}}
	tr.AddNode(parent)
	tr.SetRoot(parent)
	return tr
}

func TestTree_LevelOrderingAndLookup(t *testing.T) {
	tr := buildSampleTree()

	assert.Len(t, tr.Level(0), 2)
	assert.Len(t, tr.Level(1), 1)
	assert.Equal(t, InteriorID(1, 0), tr.Root().ID)

	n, ok := tr.Node(LeafID(0, 0))
	require.True(t, ok)
	assert.Equal(t, "a", n.Text)
}

func TestTree_ParentOf(t *testing.T) {
	tr := buildSampleTree()
	leaf, _ := tr.Node(LeafID(0, 0))
	parent := tr.ParentOf(leaf)
	require.NotNil(t, parent)
	assert.Equal(t, InteriorID(1, 0), parent.ID)
	assert.Nil(t, tr.ParentOf(tr.Root()), "root has no parent")
}

func TestTree_StatisticsHelpers(t *testing.T) {
	tr := buildSampleTree()
	assert.Equal(t, 3, tr.TotalNodes())
	assert.Equal(t, 1, tr.Depth())

	counts := tr.NodesPerLevel()
	assert.Equal(t, 2, counts[0])
	assert.Equal(t, 1, counts[1])

	assert.False(t, tr.Empty())
	assert.True(t, NewTree().Empty())
}

func TestTree_AllNodesLevelThenClusterOrder(t *testing.T) {
	tr := buildSampleTree()
	all := tr.AllNodes()
	require.Len(t, all, 3)
	for i := 1; i < len(all); i++ {
		assert.GreaterOrEqualf(t, all[i].Level, all[i-1].Level, "AllNodes() must be in non-decreasing level order")
	}
}
