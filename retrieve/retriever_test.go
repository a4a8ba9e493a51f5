package retrieve

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finrag/finrag/ai/mock"
	"github.com/finrag/finrag/core"
)

func buildSampleTree() *core.Tree {
	tree := core.NewTree()

	leaf1 := &core.Node{ID: "leaf:0:0", Level: 0, Text: "Apple revenue grew 10 percent.", Embedding: []float32{1, 0, 0}}
	leaf2 := &core.Node{ID: "leaf:0:1", Level: 0, Text: "Apple margins improved slightly.", Embedding: []float32{0.9, 0.1, 0}}
	leaf3 := &core.Node{ID: "leaf:0:2", Level: 0, Text: "Unrelated note about office supplies.", Embedding: []float32{0, 0, 1}}
	tree.AddNode(leaf1)
	tree.AddNode(leaf2)
	tree.AddNode(leaf3)

	parent := &core.Node{
		ID:        "L1:0",
		Level:     1,
		Text:      "Apple had a strong quarter.",
		Embedding: []float32{0.95, 0.05, 0},
		Children:  []*core.Node{leaf1, leaf2, leaf3},
	}
	tree.AddNode(parent)
	tree.SetRoot(parent)

	return tree
}

func TestRetrieve_EmptyTreeReturnsTreeNotBuilt(t *testing.T) {
	r := NewRetriever(mock.NewMockEmbedder())
	_, err := r.Retrieve(context.Background(), core.NewTree(), "question", Hierarchical, DefaultOptions())
	assert.Equal(t, core.ErrTreeNotBuilt, err)
}

func TestRetrieve_UnknownMethod(t *testing.T) {
	r := NewRetriever(mock.NewMockEmbedder())
	_, err := r.Retrieve(context.Background(), buildSampleTree(), "q", Method("bogus"), DefaultOptions())
	assert.Equal(t, ErrUnknownMethod, err)
}

func TestRetrieve_HierarchicalReturnsChildrenNotRoot(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 0, 0}, nil
	}
	r := NewRetriever(embedder)

	opts := DefaultOptions()
	opts.K = 2
	result, err := r.Retrieve(context.Background(), buildSampleTree(), "apple revenue", Hierarchical, opts)
	require.NoError(t, err)
	for _, sn := range result.Nodes {
		assert.NotEqual(t, core.NodeID("L1:0"), sn.Node.ID, "hierarchical traversal should not return the root itself")
	}
	assert.NotEmpty(t, result.Nodes)
}

func TestRetrieve_FlattenedConsidersAllNodes(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 0, 0}, nil
	}
	r := NewRetriever(embedder)

	opts := DefaultOptions()
	opts.K = 10
	result, err := r.Retrieve(context.Background(), buildSampleTree(), "apple revenue", Flattened, opts)
	require.NoError(t, err)
	require.Len(t, result.Nodes, 4, "all nodes across both levels")
	for i := 1; i < len(result.Nodes); i++ {
		assert.LessOrEqualf(t, result.Nodes[i].Score, result.Nodes[i-1].Score, "results must be sorted by decreasing score")
	}
}

func TestRetrieve_EmbedderFailurePropagatesAfterRetries(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	attempts := 0
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		attempts++
		return nil, errors.New("transient")
	}
	r := NewRetriever(embedder)

	opts := DefaultOptions()
	opts.RetryBaseDelay = 0
	_, err := r.Retrieve(context.Background(), buildSampleTree(), "q", Hierarchical, opts)
	require.Error(t, err)

	var qerr *QueryEmbeddingError
	assert.ErrorAs(t, err, &qerr)
	assert.Equal(t, 3, attempts)
}

func TestFormatContext_IncludesLevelAndIDHeaders(t *testing.T) {
	result := &Result{
		Nodes: []ScoredNode{
			{Node: &core.Node{ID: "L1:0", Level: 1, Text: "summary text"}, Score: 0.9},
		},
	}
	assert.Equal(t, "[L1 #L1:0]\nsummary text", result.FormatContext(false))
}

func TestFormatContext_VerboseIncludesRelevance(t *testing.T) {
	result := &Result{
		Nodes: []ScoredNode{
			{Node: &core.Node{ID: "L1:0", Level: 1, Text: "summary text"}, Score: 0.876},
		},
	}
	assert.Equal(t, "[L1 #L1:0] (relevance: 0.876)\nsummary text", result.FormatContext(true))
}
