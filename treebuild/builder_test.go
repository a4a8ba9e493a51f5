package treebuild

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finrag/finrag/ai"
	"github.com/finrag/finrag/ai/mock"
	"github.com/finrag/finrag/chunker"
	"github.com/finrag/finrag/cluster"
)

func fastConfig() Config {
	cfg := DefaultConfig()
	cfg.RetryBaseDelay = time.Millisecond
	cfg.ProviderTimeout = 5 * time.Second
	return cfg
}

func docChunks(sector, company, year string, n int) []chunker.Chunk {
	chunks := make([]chunker.Chunk, n)
	for i := 0; i < n; i++ {
		chunks[i] = chunker.Chunk{
			DocumentIndex: 0,
			ChunkIndex:    i,
			Text:          "Revenue grew steadily across all divisions this fiscal year.",
			Metadata:      chunker.DocumentMetadata{Sector: sector, Company: company, Year: year},
		}
	}
	return chunks
}

func TestBuildTree_EmptyCorpusReturnsError(t *testing.T) {
	builder := NewBuilder(mock.NewMockProvider(), cluster.DefaultConfig(), fastConfig())
	_, err := builder.BuildTree(context.Background(), nil)
	assert.Equal(t, ErrEmptyCorpus, err)
}

func TestBuildTree_SingleChunkCollapsesToRoot(t *testing.T) {
	builder := NewBuilder(mock.NewMockProvider(), cluster.DefaultConfig(), fastConfig())
	chunks := docChunks("technology", "Apple Inc", "2023", 1)

	tree, err := builder.BuildTree(context.Background(), chunks)
	require.NoError(t, err)
	require.NotNil(t, tree.Root())
	assert.Equal(t, 1, tree.Root().Level, "a single chunk's level-1 cluster is the root")
	assert.Len(t, tree.Level(0), 1)
}

func TestBuildTree_SkipsEmptyChunksWithWarning(t *testing.T) {
	builder := NewBuilder(mock.NewMockProvider(), cluster.DefaultConfig(), fastConfig())
	chunks := docChunks("technology", "Apple Inc", "2023", 2)
	chunks = append(chunks, chunker.Chunk{DocumentIndex: 0, ChunkIndex: 2, Text: "   "})

	tree, err := builder.BuildTree(context.Background(), chunks)
	require.NoError(t, err)
	assert.NotEmpty(t, tree.Warnings(), "expected a build warning for the blank chunk")
	assert.Len(t, tree.Level(0), 2, "blank chunk skipped")
}

func TestBuildTree_MultipleMetadataGroupsProduceDistinctLevel1Nodes(t *testing.T) {
	builder := NewBuilder(mock.NewMockProvider(), cluster.DefaultConfig(), fastConfig())
	chunks := append(docChunks("technology", "Apple Inc", "2023", 2), docChunks("finance", "JPMorgan", "2023", 2)...)

	tree, err := builder.BuildTree(context.Background(), chunks)
	require.NoError(t, err)
	require.Len(t, tree.Level(1), 2, "one per sector/company/year group")
	for _, n := range tree.Level(1) {
		assert.Equalf(t, 2, n.Metadata.NumChildren, "node %s", n.ID)
	}
}

func TestBuildTree_EmbedderFailureAbortsBuild(t *testing.T) {
	provider := &testProvider{
		embedder:   &failingEmbedder{},
		summarizer: mock.NewMockSummarizer(),
		qa:         mock.NewMockQA(),
	}
	builder := NewBuilder(provider, cluster.DefaultConfig(), fastConfig())
	chunks := docChunks("technology", "Apple Inc", "2023", 1)

	_, err := builder.BuildTree(context.Background(), chunks)
	require.Error(t, err)
	assert.IsType(t, &BuildAbortedError{}, err)
}

func TestBuildTree_SummarizerFailureFallsBackToExtractive(t *testing.T) {
	summarizer := mock.NewMockSummarizer()
	summarizer.SummarizeFunc = func(ctx context.Context, texts []string, maxTokens int) (string, error) {
		return "", errAlwaysFails
	}
	provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), summarizer, mock.NewMockQA())
	builder := NewBuilder(provider, cluster.DefaultConfig(), fastConfig())
	chunks := docChunks("technology", "Apple Inc", "2023", 1)

	tree, err := builder.BuildTree(context.Background(), chunks)
	require.NoError(t, err)
	require.NotNil(t, tree.Root())
	assert.NotEmpty(t, tree.Root().Text, "extractive fallback should produce non-empty summary text")
}

func TestBuildTree_VaryingEmbeddingDimensionAborts(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	calls := 0
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		calls++
		if calls == 1 {
			return []float32{1, 2, 3}, nil
		}
		return []float32{1, 2}, nil
	}
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockSummarizer(), mock.NewMockQA())
	builder := NewBuilder(provider, cluster.DefaultConfig(), fastConfig())
	chunks := docChunks("technology", "Apple Inc", "2023", 2)

	_, err := builder.BuildTree(context.Background(), chunks)
	assert.Error(t, err, "expected an error when embedding dimension varies mid-build")
}

type failingEmbedder struct{}

func (f *failingEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	return nil, errAlwaysFails
}
func (f *failingEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, errAlwaysFails
}
func (f *failingEmbedder) Dimension() int { return 0 }

var errAlwaysFails = errAlways{}

type errAlways struct{}

func (errAlways) Error() string { return "always fails" }

// testProvider wires together an arbitrary ai.Embedder with mock
// summarizer/QA services, for failure-injection tests that the
// concrete-typed mock.MockProvider constructor cannot express.
type testProvider struct {
	embedder   ai.Embedder
	summarizer ai.Summarizer
	qa         ai.QA
}

func (p *testProvider) Embedder() ai.Embedder     { return p.embedder }
func (p *testProvider) Summarizer() ai.Summarizer { return p.summarizer }
func (p *testProvider) QA() ai.QA                 { return p.qa }
func (p *testProvider) Close() error              { return nil }
