package retrieve

import (
	"fmt"
	"strings"

	"github.com/finrag/finrag/core"
)

// PreviewLength is the number of bytes of node text exposed in a
// NodePreview, per §6's query response object.
const PreviewLength = 200

// ScoredNode pairs a retrieved node with its cosine similarity to the
// query.
type ScoredNode struct {
	Node  *core.Node
	Score float64
}

// NodePreview is the inspectable summary of one retrieved node, as
// returned alongside the assembled context (§6's query response
// object).
type NodePreview struct {
	ID      core.NodeID
	Level   int
	Score   float64
	Preview string
}

// Result is the outcome of one Retrieve call: the ranked, deduplicated
// node list plus enough bookkeeping to format a QA context and a
// query response.
type Result struct {
	Query  string
	Method Method
	Nodes  []ScoredNode
}

// Previews returns an inspectable summary of every retrieved node, in
// retrieval order.
func (r *Result) Previews() []NodePreview {
	previews := make([]NodePreview, len(r.Nodes))
	for i, sn := range r.Nodes {
		previews[i] = NodePreview{
			ID:      sn.Node.ID,
			Level:   sn.Node.Level,
			Score:   sn.Score,
			Preview: sn.Node.TextPreview(PreviewLength),
		}
	}
	return previews
}

// FormatContext concatenates retrieved nodes into a single context
// string in retrieval order, each prefixed with a "[L{level} #{id}]"
// header (§4.4.3). When verbose is true, each header additionally
// reports the node's relevance score, generalizing the original
// implementation's per-node relevance annotation (§12).
func (r *Result) FormatContext(verbose bool) string {
	var sb strings.Builder
	for i, sn := range r.Nodes {
		if verbose {
			fmt.Fprintf(&sb, "[L%d #%s] (relevance: %.3f)\n", sn.Node.Level, sn.Node.ID, sn.Score)
		} else {
			fmt.Fprintf(&sb, "[L%d #%s]\n", sn.Node.Level, sn.Node.ID)
		}
		sb.WriteString(sn.Node.Text)
		if i < len(r.Nodes)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}
