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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/finrag/finrag/core"
)

const (
	nodesBinaryFile = "nodes.binary"
	nodesJSONFile   = "nodes.json"
	indexFile       = "index.json"
	dirPerm         = 0o755
	filePerm        = 0o644
)

// FileStore is the mandatory TreeStore implementation (§6): a directory
// holding nodes.binary, nodes.json and index.json. Save writes both node
// forms every time; Load tries the binary form first and falls back to
// JSON, per §6's "load tries binary first, falls back to JSON".
type FileStore struct {
	dir    string
	closed bool
}

var _ TreeStore = (*FileStore)(nil)

// NewFileStore creates a FileStore rooted at dir, creating dir if it
// does not already exist.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("storage: create directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Save writes tree, d and cfg to the store's directory.
func (s *FileStore) Save(ctx context.Context, tree *core.Tree, d int, cfg PersistedConfig) error {
	if s.closed {
		return ErrStorageClosed
	}
	if tree == nil || tree.Empty() {
		return core.ErrTreeNotBuilt
	}

	records := DisassembleTree(tree)

	if err := s.writeBinary(records); err != nil {
		return fmt.Errorf("storage: write %s: %w", nodesBinaryFile, err)
	}
	if err := s.writeJSON(records); err != nil {
		return fmt.Errorf("storage: write %s: %w", nodesJSONFile, err)
	}

	counts := tree.NodesPerLevel()
	idx := Index{
		D:          d,
		TotalNodes: tree.TotalNodes(),
		Levels:     counts[:],
		Config:     cfg,
	}
	idxBytes, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSerializationFailed, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, indexFile), idxBytes, filePerm); err != nil {
		return fmt.Errorf("storage: write %s: %w", indexFile, err)
	}
	return nil
}

// Load restores the tree, dimension and config most recently saved to
// the store's directory.
func (s *FileStore) Load(ctx context.Context) (*core.Tree, int, PersistedConfig, error) {
	if s.closed {
		return nil, 0, PersistedConfig{}, ErrStorageClosed
	}

	idxBytes, err := os.ReadFile(filepath.Join(s.dir, indexFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, PersistedConfig{}, core.ErrIndexNotFound
		}
		return nil, 0, PersistedConfig{}, fmt.Errorf("storage: read %s: %w", indexFile, err)
	}
	var idx Index
	if err := json.Unmarshal(idxBytes, &idx); err != nil {
		return nil, 0, PersistedConfig{}, fmt.Errorf("%w: %v", ErrSerializationFailed, err)
	}

	records, err := s.readBinary()
	if err != nil {
		records, err = s.readJSON()
		if err != nil {
			return nil, 0, PersistedConfig{}, err
		}
	}

	tree, err := AssembleTree(records)
	if err != nil {
		return nil, 0, PersistedConfig{}, err
	}
	return tree, idx.D, idx.Config, nil
}

// Close marks the store closed. FileStore holds no open handles between
// calls, so Close otherwise does nothing.
func (s *FileStore) Close() error {
	s.closed = true
	return nil
}

func (s *FileStore) writeBinary(records []core.NodeRecord) error {
	total := 0
	for _, r := range records {
		total += core.SizeNodeRecord(r)
	}
	buf := make([]byte, total)
	n := 0
	for _, r := range records {
		n += core.MarshalNodeRecord(r, buf[n:])
	}
	return os.WriteFile(filepath.Join(s.dir, nodesBinaryFile), buf[:n], filePerm)
}

func (s *FileStore) readBinary() ([]core.NodeRecord, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, nodesBinaryFile))
	if err != nil {
		return nil, err
	}
	var records []core.NodeRecord
	for len(data) > 0 {
		r, n, err := core.UnmarshalNodeRecord(data)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
		data = data[n:]
	}
	return records, nil
}

func (s *FileStore) writeJSON(records []core.NodeRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSerializationFailed, err)
	}
	return os.WriteFile(filepath.Join(s.dir, nodesJSONFile), data, filePerm)
}

func (s *FileStore) readJSON() ([]core.NodeRecord, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, nodesJSONFile))
	if err != nil {
		return nil, err
	}
	var records []core.NodeRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerializationFailed, err)
	}
	return records, nil
}
