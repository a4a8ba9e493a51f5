// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package finrag is the thin orchestrator facade (C5) that composes
// the chunker, cluster, treebuild, retrieve and storage packages behind
// a handful of verbs: AddDocuments, Query, Save, Load, Statistics, and
// the supplemented ReembedAll operation. It holds no domain logic of
// its own; every decision lives in the package responsible for it.
package finrag

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/finrag/finrag/ai"
	"github.com/finrag/finrag/chunker"
	"github.com/finrag/finrag/core"
	"github.com/finrag/finrag/retrieve"
	"github.com/finrag/finrag/storage"
	"github.com/finrag/finrag/treebuild"
)

// Orchestrator is the sole entry point a caller needs: one struct
// wrapping a provider, a store and a config, exposing the five C5
// operations over a tree that the orchestrator owns and replaces
// atomically on every successful AddDocuments or Load (core.Tree's own
// "never mutated in place" invariant).
type Orchestrator struct {
	cfg      *Config
	provider ai.Provider
	store    storage.TreeStore
	logger   *slog.Logger
	metrics  treebuild.Metrics

	mu   sync.RWMutex
	tree *core.Tree
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics wires an observer for the builder's provider calls,
// retries, and per-level build duration (see package metrics for a
// Prometheus-backed implementation).
func WithMetrics(m treebuild.Metrics) Option {
	return func(o *Orchestrator) {
		if m != nil {
			o.metrics = m
		}
	}
}

// New creates an Orchestrator over provider and store, using cfg for
// every chunking/clustering/build/retrieval parameter.
func New(cfg *Config, provider ai.Provider, store storage.TreeStore, opts ...Option) *Orchestrator {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	o := &Orchestrator{
		cfg:      cfg,
		provider: provider,
		store:    store,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// AddDocuments chunks documents, builds a fresh tree over them, and
// replaces whatever tree the orchestrator previously held. overrides,
// if non-nil, supplies per-document metadata that takes precedence over
// regex extraction (§6); pass nil entries for documents without an
// override.
func (o *Orchestrator) AddDocuments(ctx context.Context, documents []string, overrides []*chunker.DocumentMetadata) error {
	if len(documents) == 0 {
		return core.ErrEmptyCorpus
	}

	chunks := chunker.ChunkDocuments(documents, overrides, o.cfg.ChunkSize, o.cfg.ChunkOverlap)

	builderOpts := []treebuild.Option{treebuild.WithLogger(o.logger)}
	if o.metrics != nil {
		builderOpts = append(builderOpts, treebuild.WithMetrics(o.metrics))
	}
	builder := treebuild.NewBuilder(o.provider, o.cfg.ClusterConfig(), o.cfg.TreebuildConfig(), builderOpts...)
	tree, err := builder.BuildTree(ctx, chunks)
	if err != nil {
		return fmt.Errorf("finrag: build tree: %w", err)
	}

	o.mu.Lock()
	o.tree = tree
	o.mu.Unlock()
	return nil
}

// QueryResult is the response object §6 describes.
type QueryResult struct {
	Answer          string                 `json:"answer"`
	Context         string                 `json:"context"`
	Question        string                 `json:"question"`
	RetrievedNodes  []retrieve.NodePreview `json:"retrieved_nodes"`
	RetrievalMethod string                 `json:"retrieval_method"`
}

// Query retrieves context for question using the tree's configured
// traversal method and k, then answers question via the QA provider.
// An empty/unbuilt tree returns core.ErrTreeNotBuilt without calling
// any provider (§4.4.4).
func (o *Orchestrator) Query(ctx context.Context, question string) (*QueryResult, error) {
	o.mu.RLock()
	tree := o.tree
	o.mu.RUnlock()

	if tree == nil || tree.Empty() {
		return nil, core.ErrTreeNotBuilt
	}

	method, err := o.cfg.RetrievalMethod()
	if err != nil {
		return nil, err
	}
	if o.cfg.TopK <= 0 {
		return nil, ErrInvalidTopK
	}

	retriever := retrieve.NewRetriever(o.provider.Embedder(), retrieve.WithLogger(o.logger))
	result, err := retriever.Retrieve(ctx, tree, question, method, o.cfg.RetrieveOptions())
	if err != nil {
		return nil, err
	}

	formatted := result.FormatContext(false)
	answer, err := o.provider.QA().Answer(ctx, formatted, question)
	if err != nil {
		return nil, fmt.Errorf("finrag: answer question: %w", err)
	}

	return &QueryResult{
		Answer:          answer,
		Context:         formatted,
		Question:        question,
		RetrievedNodes:  result.Previews(),
		RetrievalMethod: string(method),
	}, nil
}

// Save persists the current tree via the orchestrator's store. It
// returns core.ErrTreeNotBuilt if no tree has been built yet.
func (o *Orchestrator) Save(ctx context.Context) error {
	o.mu.RLock()
	tree := o.tree
	o.mu.RUnlock()

	if tree == nil || tree.Empty() {
		return core.ErrTreeNotBuilt
	}

	d := o.provider.Embedder().Dimension()
	if d == 0 {
		d = len(tree.Root().Embedding)
	}

	return o.store.Save(ctx, tree, d, storage.PersistedConfig{
		ChunkSize:           o.cfg.ChunkSize,
		ChunkOverlap:        o.cfg.ChunkOverlap,
		MaxDepth:            o.cfg.MaxDepth,
		ReductionDimension:  o.cfg.ReductionDimension,
		MaxClusters:         o.cfg.MaxClusters,
		MinClusterSize:      o.cfg.MinClusterSize,
		MaxClusterSize:      o.cfg.MaxClusterSize,
		SummarizationLength: o.cfg.SummarizationLength,
	})
}

// Load restores the tree from the orchestrator's store without calling
// any external provider (§6). The restored config's fields overwrite
// the orchestrator's current chunk/cluster/build settings so a later
// Save or ReembedAll stays consistent with what was persisted.
func (o *Orchestrator) Load(ctx context.Context) error {
	tree, _, persistedCfg, err := o.store.Load(ctx)
	if err != nil {
		return err
	}

	o.cfg.ChunkSize = persistedCfg.ChunkSize
	o.cfg.ChunkOverlap = persistedCfg.ChunkOverlap
	o.cfg.MaxDepth = persistedCfg.MaxDepth
	o.cfg.ReductionDimension = persistedCfg.ReductionDimension
	o.cfg.MaxClusters = persistedCfg.MaxClusters
	o.cfg.MinClusterSize = persistedCfg.MinClusterSize
	o.cfg.MaxClusterSize = persistedCfg.MaxClusterSize
	o.cfg.SummarizationLength = persistedCfg.SummarizationLength

	o.mu.Lock()
	o.tree = tree
	o.mu.Unlock()
	return nil
}

// Statistics summarizes the current tree's shape.
type Statistics struct {
	TotalNodes    int
	NodesPerLevel [core.MaxLevel + 1]int
	Depth         int
	Warnings      []string
}

// Statistics returns a snapshot of the current tree's shape. It
// returns core.ErrTreeNotBuilt if no tree has been built or loaded yet.
func (o *Orchestrator) Statistics() (*Statistics, error) {
	o.mu.RLock()
	tree := o.tree
	o.mu.RUnlock()

	if tree == nil || tree.Empty() {
		return nil, core.ErrTreeNotBuilt
	}
	return &Statistics{
		TotalNodes:    tree.TotalNodes(),
		NodesPerLevel: tree.NodesPerLevel(),
		Depth:         tree.Depth(),
		Warnings:      tree.Warnings(),
	}, nil
}

// Close releases the orchestrator's provider and store.
func (o *Orchestrator) Close() error {
	var errs []error
	if err := o.provider.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := o.store.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("finrag: close: %v", errs)
	}
	return nil
}
