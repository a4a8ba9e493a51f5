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

// Package finrag implements a hierarchical retrieval-augmented
// generation engine over financial reports.
//
// A corpus of documents is chunked (package chunker), clustered and
// summarized level by level into a tree (packages cluster and
// treebuild), persisted (package storage), and queried by traversing
// that tree top-down or scoring it flat (package retrieve). This
// package composes the five into a single Orchestrator:
//
//	cfg := finrag.DefaultConfig()
//	provider, _ := langchain.NewProvider(&cfg.AI)
//	store, _ := storage.NewFileStore("./data/acme-2023")
//	orc := finrag.New(cfg, provider, store)
//	defer orc.Close()
//
//	if err := orc.AddDocuments(ctx, documents, nil); err != nil {
//		log.Fatal(err)
//	}
//	if err := orc.Save(ctx); err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := orc.Query(ctx, "What drove the revenue increase?")
//
// Orchestrator holds no domain logic: chunk sizing lives in chunker,
// cluster shape in cluster, the build algorithm in treebuild, scoring
// and traversal in retrieve, and the on-disk layout in storage. This
// package only wires Config's fields into each subpackage's own
// Config/Options type and sequences the calls between them.
package finrag
