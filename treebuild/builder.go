package treebuild

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"golang.org/x/time/rate"

	"github.com/finrag/finrag/ai"
	"github.com/finrag/finrag/chunker"
	"github.com/finrag/finrag/cluster"
	"github.com/finrag/finrag/core"
)

// Builder runs build_tree (§4.3): it embeds level-0 chunks, then
// repeatedly clusters, summarizes and re-embeds to produce each
// interior level, stopping once a level collapses to a single root
// node or max_depth is reached.
type Builder struct {
	provider   ai.Provider
	clusterCfg cluster.Config
	cfg        Config
	logger     *slog.Logger
	limiter    *rate.Limiter
	progress   io.Writer
	metrics    Metrics

	dimMu sync.Mutex
	dim   int // embedding dimension observed on the first EmbedText call, 0 until set
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithProgressWriter enables per-level progress reporting to w.
func WithProgressWriter(w io.Writer) Option {
	return func(b *Builder) { b.progress = w }
}

// WithMetrics wires an observer for provider calls, retries, and
// per-level build duration.
func WithMetrics(m Metrics) Option {
	return func(b *Builder) {
		if m != nil {
			b.metrics = m
		}
	}
}

// NewBuilder creates a Builder against provider, using clusterCfg for
// the clustering step of every interior level.
func NewBuilder(provider ai.Provider, clusterCfg cluster.Config, cfg Config, opts ...Option) *Builder {
	b := &Builder{
		provider:   provider,
		clusterCfg: clusterCfg,
		cfg:        cfg,
		logger:     slog.Default(),
		metrics:    noopMetrics{},
	}
	if cfg.ProviderRateLimit > 0 {
		b.limiter = rate.NewLimiter(rate.Limit(cfg.ProviderRateLimit), b.burstFor(cfg))
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Builder) burstFor(cfg Config) int {
	if cfg.ProviderParallelism < 1 {
		return 1
	}
	return cfg.ProviderParallelism
}

// Dimension returns the embedding dimension observed on the first
// successful embedding call made through this Builder (it is not reset
// between BuildTree calls), or 0 if no embedding has succeeded yet.
func (b *Builder) Dimension() int {
	b.dimMu.Lock()
	defer b.dimMu.Unlock()
	return b.dim
}

// checkDimension records the embedding dimension seen on the first
// successful embed call and rejects (as a permanent, non-retryable
// error) any later call whose vector length differs — guarding against
// a provider swapped mid-build (§9's "mixed providers" configuration
// error).
func (b *Builder) checkDimension(n int) error {
	b.dimMu.Lock()
	defer b.dimMu.Unlock()
	if b.dim == 0 {
		b.dim = n
		return nil
	}
	if b.dim != n {
		return Permanent(fmt.Errorf("%w: embedding length %d, established dimension %d", core.ErrDimensionMismatch, n, b.dim))
	}
	return nil
}

// BuildTree runs the full level-by-level algorithm over chunks and
// returns the assembled Tree. Malformed (empty) chunks are skipped and
// recorded as build warnings (§4.3.2); an empty corpus aborts the
// build entirely (§7).
func (b *Builder) BuildTree(ctx context.Context, chunks []chunker.Chunk) (*core.Tree, error) {
	if len(chunks) == 0 {
		return nil, ErrEmptyCorpus
	}

	tree := core.NewTree()

	levelStart := time.Now()
	level0, err := b.buildLevel0(ctx, tree, chunks)
	if err != nil {
		return nil, err
	}
	b.metrics.ObserveLevelDuration(0, time.Since(levelStart))
	if len(level0) == 0 {
		return nil, ErrEmptyCorpus
	}

	children := level0
	for level := 1; level <= b.cfg.MaxDepth; level++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		levelStart = time.Now()
		nodes, err := b.buildLevel(ctx, tree, level, children)
		if err != nil {
			return nil, err
		}
		b.metrics.ObserveLevelDuration(level, time.Since(levelStart))

		if len(nodes) == 1 {
			tree.SetRoot(nodes[0])
			return tree, nil
		}
		children = nodes
	}

	if len(children) == 1 {
		tree.SetRoot(children[0])
	} else {
		tree.AddWarning(fmt.Sprintf("max_depth=%d reached without converging to a single root node (%d nodes remain)", b.cfg.MaxDepth, len(children)))
	}

	return tree, nil
}

// buildLevel0 embeds every non-empty chunk into a level-0 Node,
// preserving document/chunk order (§3 invariant 2).
func (b *Builder) buildLevel0(ctx context.Context, tree *core.Tree, chunks []chunker.Chunk) ([]*core.Node, error) {
	valid := make([]chunker.Chunk, 0, len(chunks))
	for _, c := range chunks {
		if chunker.IsEmpty(c) {
			tree.AddWarning(fmt.Sprintf("skipped empty chunk at document %d, chunk %d", c.DocumentIndex, c.ChunkIndex))
			continue
		}
		valid = append(valid, c)
	}
	if len(valid) == 0 {
		return nil, nil
	}

	tracker := newProgressTracker(b.progress, len(valid), progressInterval(len(valid)))
	tracker.start()

	results := make([]*core.Node, len(valid))
	err := b.dispatch(ctx, len(valid), func(i int) error {
		c := valid[i]
		vec, embedErr := b.embedWithRetry(ctx, c.Text)
		if embedErr != nil {
			return &BuildAbortedError{
				Identifier: fmt.Sprintf("chunk doc=%d chunk=%d", c.DocumentIndex, c.ChunkIndex),
				Cause:      embedErr,
			}
		}
		results[i] = &core.Node{
			ID:        core.LeafID(c.DocumentIndex, c.ChunkIndex),
			Text:      c.Text,
			Embedding: vec,
			Level:     0,
			Metadata: core.Metadata{
				Sector:  c.Metadata.Sector,
				Company: c.Metadata.Company,
				Year:    c.Metadata.Year,
			},
		}
		tracker.increment(1)
		return nil
	})
	tracker.finish()
	if err != nil {
		return nil, err
	}

	for _, n := range results {
		tree.AddNode(n)
	}
	return results, nil
}

// buildLevel clusters children at level, summarizes and re-embeds each
// cluster, and returns the resulting parent nodes in cluster order.
func (b *Builder) buildLevel(ctx context.Context, tree *core.Tree, level int, children []*core.Node) ([]*core.Node, error) {
	clusters, err := cluster.Cluster(level, children, b.clusterCfg)
	if err != nil {
		return nil, err
	}
	if len(clusters) == 0 {
		return nil, nil
	}

	tracker := newProgressTracker(b.progress, len(clusters), progressInterval(len(clusters)))
	tracker.start()

	results := make([]*core.Node, len(clusters))
	err = b.dispatch(ctx, len(clusters), func(ci int) error {
		idxs := clusters[ci]
		kids := make([]*core.Node, len(idxs))
		texts := make([]string, len(idxs))
		for j, idx := range idxs {
			kids[j] = children[idx]
			texts[j] = children[idx].Text
		}

		summary, sumErr := b.summarizeWithRetry(ctx, texts, b.cfg.SummarizationLength)
		if sumErr != nil || summary == "" {
			if sumErr != nil {
				b.logger.Warn("treebuild: summarizer exhausted retries, using extractive fallback",
					"level", level, "cluster", ci, "error", sumErr)
			}
			summary = extractiveSummary(texts, b.cfg.SummarizationLength)
		}

		vec, embedErr := b.embedWithRetry(ctx, summary)
		if embedErr != nil {
			return &BuildAbortedError{
				Identifier: fmt.Sprintf("L%d cluster=%d summary embedding", level, ci),
				Cause:      embedErr,
			}
		}

		results[ci] = &core.Node{
			ID:        core.InteriorID(level, ci),
			Text:      summary,
			Embedding: vec,
			Level:     level,
			Children:  kids,
			Metadata:  core.InheritMetadata(kids, level, ci),
		}
		tracker.increment(1)
		return nil
	})
	tracker.finish()
	if err != nil {
		return nil, err
	}

	for _, n := range results {
		tree.AddNode(n)
	}
	return results, nil
}

func progressInterval(total int) int {
	if total <= 20 {
		return 1
	}
	return total / 20
}

// dispatch runs work for indices [0,n) across a bounded pool of size
// ProviderParallelism. Dispatch order is index order; completion order
// is irrelevant because callers key results by index (§5). On the
// first error, no further work is submitted, but work already
// dispatched is allowed to finish (cooperative cancel at cluster
// boundaries).
func (b *Builder) dispatch(ctx context.Context, n int, work func(i int) error) error {
	if n == 0 {
		return nil
	}

	size := b.cfg.ProviderParallelism
	if size < 1 {
		size = 1
	}
	pool, err := ants.NewPool(size)
	if err != nil {
		return err
	}
	defer pool.Release()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for i := 0; i < n; i++ {
		mu.Lock()
		abort := firstErr != nil
		mu.Unlock()
		if abort {
			break
		}

		idx := i
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			select {
			case <-runCtx.Done():
				return
			default:
			}
			if werr := work(idx); werr != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = werr
					cancel()
				}
				mu.Unlock()
			}
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = submitErr
			}
			mu.Unlock()
			break
		}
	}

	wg.Wait()
	return firstErr
}

func (b *Builder) embedWithRetry(ctx context.Context, text string) ([]float32, error) {
	var vec []float32
	op := func() error {
		if b.limiter != nil {
			if werr := b.limiter.Wait(ctx); werr != nil {
				return werr
			}
		}
		callCtx, cancel := context.WithTimeout(ctx, b.cfg.ProviderTimeout)
		defer cancel()

		start := time.Now()
		v, err := b.provider.Embedder().EmbedText(callCtx, text)
		b.metrics.ObserveProviderCall("embedder", time.Since(start), err)
		if err != nil {
			return err
		}
		if dimErr := b.checkDimension(len(v)); dimErr != nil {
			return dimErr
		}
		vec = v
		return nil
	}

	attempt := 0
	wrapped := func() error {
		attempt++
		if attempt > 1 {
			b.metrics.ObserveRetry("embedder")
		}
		return op()
	}

	err := retryWithBackoff(ctx, wrapped, b.cfg.RetryMaxAttempts, b.cfg.RetryBaseDelay, b.cfg.RetryMultiplier)
	return vec, err
}

func (b *Builder) summarizeWithRetry(ctx context.Context, texts []string, maxTokens int) (string, error) {
	var summary string
	op := func() error {
		if b.limiter != nil {
			if werr := b.limiter.Wait(ctx); werr != nil {
				return werr
			}
		}
		callCtx, cancel := context.WithTimeout(ctx, b.cfg.ProviderTimeout)
		defer cancel()

		start := time.Now()
		s, err := b.provider.Summarizer().Summarize(callCtx, texts, maxTokens)
		b.metrics.ObserveProviderCall("summarizer", time.Since(start), err)
		if err != nil {
			return err
		}
		summary = s
		return nil
	}

	attempt := 0
	wrapped := func() error {
		attempt++
		if attempt > 1 {
			b.metrics.ObserveRetry("summarizer")
		}
		return op()
	}

	err := retryWithBackoff(ctx, wrapped, b.cfg.RetryMaxAttempts, b.cfg.RetryBaseDelay, b.cfg.RetryMultiplier)
	return summary, err
}
