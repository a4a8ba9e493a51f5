package retrieve

import (
	"sort"

	"github.com/finrag/finrag/core"
)

// hierarchicalTraversal implements §4.4.1: starting from the root,
// repeatedly score every child of the current frontier, retain the
// top k-per-level children (ties broken by node id), and replace the
// frontier with those children. The accumulator is capped at k and
// returned ordered by decreasing score.
func hierarchicalTraversal(tree *core.Tree, queryEmbedding []float32, opts Options) []ScoredNode {
	root := tree.Root()
	if root == nil {
		return nil
	}

	var accumulator []ScoredNode
	frontier := []*core.Node{root}

	for len(frontier) > 0 {
		var candidates []*core.Node
		for _, n := range frontier {
			candidates = append(candidates, n.Children...)
		}
		if len(candidates) == 0 {
			break
		}

		scored := make([]ScoredNode, len(candidates))
		for i, c := range candidates {
			scored[i] = ScoredNode{Node: c, Score: cosineSimilarity(queryEmbedding, c.Embedding)}
		}
		sortByScoreThenID(scored)

		level := candidates[0].Level
		kPerLevel := opts.kPerLevel(level)
		if kPerLevel > len(scored) {
			kPerLevel = len(scored)
		}
		retained := scored[:kPerLevel]

		accumulator = append(accumulator, retained...)

		frontier = make([]*core.Node, len(retained))
		for i, sn := range retained {
			frontier[i] = sn.Node
		}
	}

	sortByScoreThenID(accumulator)
	if opts.K < len(accumulator) {
		accumulator = accumulator[:opts.K]
	}
	return accumulator
}

func sortByScoreThenID(nodes []ScoredNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Score != nodes[j].Score {
			return nodes[i].Score > nodes[j].Score
		}
		return nodes[i].Node.ID < nodes[j].Node.ID
	})
}
