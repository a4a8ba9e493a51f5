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
	"fmt"

	"github.com/finrag/finrag/core"
)

// DisassembleTree flattens tree into the record sequence §6 describes:
// level-then-cluster order, with each node's parent link recorded
// explicitly instead of the in-memory Children slice. Shared by every
// TreeStore implementation so the on-disk shape stays identical
// regardless of backend.
func DisassembleTree(tree *core.Tree) []core.NodeRecord {
	parent := make(map[core.NodeID]core.NodeID)
	for level := 1; level <= core.MaxLevel; level++ {
		for _, n := range tree.Level(level) {
			for _, child := range n.Children {
				parent[child.ID] = n.ID
			}
		}
	}

	nodes := tree.AllNodes()
	records := make([]core.NodeRecord, len(nodes))
	for i, n := range nodes {
		records[i] = core.ToRecord(n, parent[n.ID])
	}
	return records
}

// AssembleTree rebuilds a Tree from records in the order DisassembleTree
// produced them (level-then-cluster). It returns ErrUnsupportedFormat if
// more than one record has no parent or a record names a parent that is
// not among the records; if no record is parentless, the returned tree
// has no root.
func AssembleTree(records []core.NodeRecord) (*core.Tree, error) {
	tree := core.NewTree()
	byID := make(map[core.NodeID]*core.Node, len(records))

	for _, r := range records {
		byID[r.ID] = &core.Node{
			ID:        r.ID,
			Text:      r.Text,
			Embedding: r.Embedding,
			Level:     r.Level,
			Metadata:  r.Metadata,
		}
	}

	var root *core.Node
	for _, r := range records {
		n := byID[r.ID]
		if r.ParentID == "" {
			if root != nil {
				return nil, fmt.Errorf("%w: multiple rootless nodes (%q and %q)", ErrUnsupportedFormat, root.ID, n.ID)
			}
			root = n
			continue
		}
		p, ok := byID[r.ParentID]
		if !ok {
			return nil, fmt.Errorf("%w: node %q references missing parent %q", ErrUnsupportedFormat, n.ID, r.ParentID)
		}
		p.Children = append(p.Children, n)
	}

	for _, r := range records {
		tree.AddNode(byID[r.ID])
	}
	if root != nil {
		tree.SetRoot(root)
	}
	return tree, nil
}
