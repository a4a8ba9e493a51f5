package retrieve

import (
	"context"
	"log/slog"
	"time"

	"github.com/finrag/finrag/ai"
	"github.com/finrag/finrag/core"
)

// Retriever runs the retrieve(query, k, method) operation (§4.4) over
// a built Tree, embedding the query once and dispatching to the
// requested strategy.
type Retriever struct {
	embedder ai.Embedder
	logger   *slog.Logger
}

// NewRetriever creates a Retriever against embedder.
func NewRetriever(embedder ai.Embedder, opts ...RetrieverOption) *Retriever {
	r := &Retriever{embedder: embedder, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RetrieverOption configures a Retriever.
type RetrieverOption func(*Retriever)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) RetrieverOption {
	return func(r *Retriever) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Retrieve embeds query and scores tree's nodes using method,
// returning the ranked result. An empty tree returns ErrTreeNotBuilt
// without ever calling the embedder (§4.4.4).
func (r *Retriever) Retrieve(ctx context.Context, tree *core.Tree, query string, method Method, opts Options) (*Result, error) {
	if tree == nil || tree.Empty() {
		return nil, core.ErrTreeNotBuilt
	}
	if method != Hierarchical && method != Flattened {
		return nil, ErrUnknownMethod
	}
	if opts.K <= 0 {
		opts.K = DefaultOptions().K
	}

	queryEmbedding, err := r.embedQueryWithRetry(ctx, query, opts)
	if err != nil {
		return nil, &QueryEmbeddingError{Cause: err}
	}

	var nodes []ScoredNode
	switch method {
	case Hierarchical:
		nodes = hierarchicalTraversal(tree, queryEmbedding, opts)
	case Flattened:
		nodes = flattenedSearch(tree, queryEmbedding, opts)
	}

	return &Result{Query: query, Method: method, Nodes: nodes}, nil
}

func (r *Retriever) embedQueryWithRetry(ctx context.Context, query string, opts Options) ([]float32, error) {
	maxAttempts := opts.RetryMaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultOptions().RetryMaxAttempts
	}
	baseDelay := opts.RetryBaseDelay
	if baseDelay <= 0 {
		baseDelay = DefaultOptions().RetryBaseDelay
	}
	multiplier := opts.RetryMultiplier
	if multiplier <= 0 {
		multiplier = DefaultOptions().RetryMultiplier
	}

	var vec []float32
	var lastErr error
	delay := baseDelay
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		v, err := r.embedder.EmbedText(ctx, query)
		if err == nil {
			vec = v
			return vec, nil
		}
		lastErr = err
		r.logger.Debug("retrieve: query embedding failed, will retry", "attempt", attempt, "error", err)

		if attempt == maxAttempts {
			break
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		delay = time.Duration(float64(delay) * multiplier)
	}
	return nil, lastErr
}
