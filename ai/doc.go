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

// Package ai provides abstractions for the AI services the tree builder
// and retriever depend on.
//
// This package defines interfaces for text embedding, abstractive
// summarization and question answering. It follows the dependency
// inversion principle, allowing the domain logic in treebuild and
// retrieve to depend on abstractions rather than concrete implementations.
//
// # Design Principles
//
// The package is designed around four key interfaces:
//
//   - Embedder: generates vector embeddings from text
//   - Summarizer: produces an abstractive summary of a list of texts
//   - QA: answers a question given an assembled context string
//   - Provider: aggregates the three above for convenient initialization
//
// # Implementation Packages
//
//   - ai/langchain: production implementation backed by langchaingo against
//     OpenAI-compatible APIs
//   - ai/mock: deterministic test doubles for unit testing without external
//     dependencies
//
// # Constructor Return Type Pattern
//
// Public constructors (langchain.NewProvider, langchain.NewEmbedder, etc.)
// return INTERFACE types to enforce abstraction and prevent accidental
// coupling to concrete implementations:
//
//	provider, err := langchain.NewProvider(config)  // returns ai.Provider
//
// Test utility constructors (mock.NewMockEmbedder, mock.NewMockSummarizer)
// return CONCRETE types to enable test assertions and behavior injection
// via the mock's public fields (EmbedTextFunc, SummarizeFunc, ...) and
// methods (CallCount, Reset).
//
//	mockEmbed := mock.NewMockEmbedder()
//	mockEmbed.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) { ... }
//	count := mockEmbed.CallCount()
//
// mock.NewMockProvider() returns an interface since it's the primary entry
// point, but provides GetMockEmbedder()/GetMockSummarizer()/GetMockQA()
// methods to access concrete types for assertions when needed.
package ai
