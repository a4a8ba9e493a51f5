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

package core

import "errors"

// Data and state errors shared across packages that operate on Node/Tree.
var (
	// ErrEmptyCorpus indicates AddDocuments was called with no documents.
	ErrEmptyCorpus = errors.New("empty corpus")

	// ErrTreeNotBuilt indicates an operation that requires a built tree
	// was invoked before any tree exists.
	ErrTreeNotBuilt = errors.New("tree not built")

	// ErrIndexNotFound indicates Load was called against a path with no
	// persisted index.
	ErrIndexNotFound = errors.New("index not found")

	// ErrTruncatedData indicates a persisted node/tree record was cut
	// short of its declared size.
	ErrTruncatedData = errors.New("truncated data")

	// ErrDimensionMismatch indicates an embedding of a different
	// dimension than the tree's established D was produced mid-build.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
