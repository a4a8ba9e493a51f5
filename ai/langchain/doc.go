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

// Package langchain provides AI service implementations backed by
// OpenAI-compatible APIs through langchaingo.
//
// This package implements ai.Provider (embedding, summarization and
// question-answering) against OpenAI or OpenAI-compatible services such
// as Ollama, LocalAI, or vLLM.
//
// # Usage
//
//	config := ai.DefaultConfig()
//	provider, err := langchain.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	embedding, err := provider.Embedder().EmbedText(ctx, "sample text")
//	summary, err := provider.Summarizer().Summarize(ctx, texts, 200)
//	answer, err := provider.QA().Answer(ctx, context, "what sector led growth?")
package langchain
