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

// Package treebuild orchestrates levels 0..max_depth of a Tree: embed
// level-0 chunks, then repeatedly cluster, summarize, and re-embed to
// produce each interior level, until a level collapses to a single
// root node or max_depth is reached.
package treebuild

import "time"

// Config holds the Tree Builder's own parameters, independent of
// chunking and clustering configuration (which are supplied
// separately to AddDocuments by the orchestrator).
type Config struct {
	// MaxDepth is the highest interior level the build will attempt.
	MaxDepth int

	// SummarizationLength is the token budget handed to the summarizer
	// for each cluster.
	SummarizationLength int

	// ProviderParallelism bounds concurrent embedding/summarization
	// calls dispatched within a single level.
	ProviderParallelism int

	// ProviderTimeout bounds a single provider call.
	ProviderTimeout time.Duration

	// ProviderRateLimit caps the sustained rate of provider dispatch,
	// in requests per second, independent of the parallelism bound.
	// Zero disables rate limiting.
	ProviderRateLimit float64

	// RetryMaxAttempts is the number of attempts (including the first)
	// made against a transiently failing provider call.
	RetryMaxAttempts int

	// RetryBaseDelay is the delay before the first retry.
	RetryBaseDelay time.Duration

	// RetryMultiplier scales the delay between successive retries.
	RetryMultiplier float64
}

// DefaultConfig returns the spec-mandated defaults (§6, §4.3.2, §5).
func DefaultConfig() Config {
	return Config{
		MaxDepth:            4,
		SummarizationLength: 200,
		ProviderParallelism: 8,
		ProviderTimeout:     60 * time.Second,
		ProviderRateLimit:   0,
		RetryMaxAttempts:    3,
		RetryBaseDelay:      100 * time.Millisecond,
		RetryMultiplier:     4.0,
	}
}
