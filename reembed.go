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

package finrag

import (
	"context"
	"fmt"
	"time"

	"github.com/finrag/finrag/core"
	"github.com/finrag/finrag/treebuild"
)

// ReembedAll refreshes every node's embedding vector, level by level,
// without touching cluster structure or summary text. It exists
// for the case where the embedding model changes but the tree's
// grouping and summaries are still considered valid: re-running the
// full build would re-cluster and re-summarize for no reason, while
// ReembedAll only replaces vectors (adapted from reembed/batch.go's
// extract-texts/retry-embed idiom; the returned vectors are stored as
// the provider returns them, without normalization).
//
// Because core.Node is never mutated after construction, each level is
// rebuilt into fresh Node values referencing the already-rebuilt
// Children one level down; the NumChildren/Metadata/Text of every node
// are carried over unchanged.
func (o *Orchestrator) ReembedAll(ctx context.Context) error {
	o.mu.RLock()
	tree := o.tree
	o.mu.RUnlock()

	if tree == nil || tree.Empty() {
		return core.ErrTreeNotBuilt
	}

	newTree := core.NewTree()
	rebuilt := make(map[core.NodeID]*core.Node)

	for level := 0; level <= core.MaxLevel; level++ {
		nodes := tree.Level(level)
		if len(nodes) == 0 {
			continue
		}

		texts := make([]string, len(nodes))
		for i, n := range nodes {
			texts[i] = n.Text
		}

		vectors, err := o.reembedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("finrag: reembed level %d: %w", level, err)
		}

		for i, n := range nodes {
			var children []*core.Node
			if len(n.Children) > 0 {
				children = make([]*core.Node, len(n.Children))
				for j, c := range n.Children {
					children[j] = rebuilt[c.ID]
				}
			}
			fresh := &core.Node{
				ID:        n.ID,
				Text:      n.Text,
				Embedding: vectors[i],
				Level:     n.Level,
				Children:  children,
				Metadata:  n.Metadata,
			}
			rebuilt[n.ID] = fresh
			newTree.AddNode(fresh)
		}
	}

	if root := tree.Root(); root != nil {
		newTree.SetRoot(rebuilt[root.ID])
	}
	for _, w := range tree.Warnings() {
		newTree.AddWarning(w)
	}

	o.mu.Lock()
	o.tree = newTree
	o.mu.Unlock()
	return nil
}

// reembedBatch embeds texts in one provider call, retrying with
// exponential backoff on failure (reembed/retry.go's RetryWithBackoff,
// inlined here since treebuild's equivalent is unexported).
func (o *Orchestrator) reembedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	retryDefaults := treebuild.DefaultConfig()
	maxAttempts := retryDefaults.RetryMaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	baseDelay := retryDefaults.RetryBaseDelay

	var vectors [][]float32
	var lastErr error
	delay := baseDelay
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		vectors, lastErr = o.provider.Embedder().EmbedTexts(ctx, texts)
		if lastErr == nil {
			if len(vectors) != len(texts) {
				return nil, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(texts), len(vectors))
			}
			return vectors, nil
		}

		o.logger.Warn("finrag: reembed batch failed, retrying", "attempt", attempt, "error", lastErr)
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
		delay = time.Duration(float64(delay) * retryDefaults.RetryMultiplier)
	}

	return nil, lastErr
}
