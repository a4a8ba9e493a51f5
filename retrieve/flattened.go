package retrieve

import (
	"github.com/finrag/finrag/core"
)

// flattenedSearch implements §4.4.2: score every node in the tree
// against the query, apply optional per-level weighting, sort by
// decreasing weighted score, and return the top k. A node has exactly
// one entry in the tree's id index, so deduplication by id is
// automatic; the explicit de-dup pass below only guards against a
// caller-supplied Tree that somehow aliases a node at two levels.
func flattenedSearch(tree *core.Tree, queryEmbedding []float32, opts Options) []ScoredNode {
	all := tree.AllNodes()
	if len(all) == 0 {
		return nil
	}

	seen := make(map[core.NodeID]struct{}, len(all))
	scored := make([]ScoredNode, 0, len(all))
	for _, n := range all {
		if _, dup := seen[n.ID]; dup {
			continue
		}
		seen[n.ID] = struct{}{}

		weight := opts.levelWeight(n.Level)
		score := cosineSimilarity(queryEmbedding, n.Embedding) * weight
		scored = append(scored, ScoredNode{Node: n, Score: score})
	}

	sortByScoreThenID(scored)
	if opts.K < len(scored) {
		scored = scored[:opts.K]
	}
	return scored
}
