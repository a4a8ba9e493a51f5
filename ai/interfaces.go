package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use and deterministic
// for a fixed provider version (§6).
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the fixed dimension D of vectors this embedder
	// produces, or 0 if unknown before the first call.
	Dimension() int
}

// Summarizer produces an abstractive summary of an ordered list of
// texts bounded by a token budget. Implementations are treated as pure
// functions by the Tree Builder: identical input must yield identical
// output within a single build (§4.3).
type Summarizer interface {
	// Summarize condenses texts, in order, into a single summary string
	// that should not exceed maxTokens whitespace/punctuation tokens.
	Summarize(ctx context.Context, texts []string, maxTokens int) (string, error)
}

// QA answers a natural-language question given a context string
// assembled by the Retriever.
type QA interface {
	// Answer returns the answer to question given the supplied context.
	Answer(ctx context.Context, context string, question string) (string, error)
}

// Provider aggregates the three external services for convenient
// initialization and lifecycle management. A provider creates and
// manages Embedder, Summarizer and QA instances sharing configuration
// and resources.
type Provider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Summarizer returns the abstractive summarization service.
	Summarizer() Summarizer

	// QA returns the question-answering service.
	QA() QA

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
