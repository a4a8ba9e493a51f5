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

// Package storage persists a built Tree and restores it without ever
// calling an AI provider again.
//
// TreeStore is the sole abstraction: a directory-backed FileStore is
// the mandatory implementation (§6's nodes.{binary|json} + index.json
// layout), and the badger subpackage offers a higher-throughput
// alternative for serving concurrent queries over large trees. Both
// share the record-level codec in core/codec.go and the
// disassemble/assemble helpers in assemble.go, so the two backends
// always agree on what a saved tree looks like.
//
//	store, err := storage.NewFileStore("/path/to/tree")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//	if err := store.Save(ctx, tree, dimension, cfg); err != nil {
//	    log.Fatal(err)
//	}
package storage
