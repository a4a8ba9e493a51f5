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

package storage

import (
	"context"

	"github.com/finrag/finrag/core"
)

// TreeStore persists and restores a built Tree, per §6's persistence
// layout. Save and Load never call any AI provider; a tree round-trips
// through a TreeStore using only what was already computed during the
// build.
type TreeStore interface {
	// Save writes tree, its embedding dimension d, and the config it
	// was built with. Save overwrites whatever was previously stored.
	Save(ctx context.Context, tree *core.Tree, d int, cfg PersistedConfig) error

	// Load restores the most recently saved tree, its dimension and its
	// config. It returns core.ErrIndexNotFound if nothing has been
	// saved.
	Load(ctx context.Context) (*core.Tree, int, PersistedConfig, error)

	// Close releases any resources the store holds open. A FileStore's
	// Close only marks the store closed, so later Save and Load calls
	// return ErrStorageClosed; a Badger-backed store's Close closes the
	// underlying database.
	Close() error
}
