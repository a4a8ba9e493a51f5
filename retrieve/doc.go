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

// Package retrieve implements the two retrieval strategies over a
// built Tree: hierarchical traversal (top-down, expanding the
// best-scoring children level by level) and flattened search (scoring
// every node at once). Both strategies score nodes by cosine
// similarity against a single query embedding and hand their result
// to Result.FormatContext for assembly into a QA prompt.
package retrieve
