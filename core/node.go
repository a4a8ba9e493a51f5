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

import "fmt"

// NodeID is a deterministic identifier for a tree Node.
//
// Unlike core.ID in the teacher repo (a content hash), NodeID is
// structural: it is derived from a node's position in the tree, not
// from its text, so that rebuilding with identical inputs reproduces
// identical ids regardless of provider output.
type NodeID string

// Sentinel metadata values.
const (
	// Unknown marks a metadata dimension that could not be determined.
	Unknown = "unknown"
	// All marks a metadata dimension that has been aggregated away at
	// this level of the tree.
	All = "all"
)

// LeafID returns the deterministic id for a level-0 node.
func LeafID(documentIndex, chunkIndex int) NodeID {
	return NodeID(fmt.Sprintf("leaf:%d:%d", documentIndex, chunkIndex))
}

// InteriorID returns the deterministic id for an interior node at the
// given level and cluster index within that level.
func InteriorID(level, clusterIndex int) NodeID {
	return NodeID(fmt.Sprintf("L%d:%d", level, clusterIndex))
}

// Metadata holds the recognized metadata keys for a Node.
//
// Sector, Company and Year carry domain values or the All sentinel
// string (meaning "aggregated across this dimension"). NumChildren and
// ClusterIdx are diagnostic values populated by the Tree Builder.
type Metadata struct {
	Sector      string
	Company     string
	Year        string
	NumChildren int
	ClusterIdx  int
}

// Node is the sole tree entity: either a leaf holding an original text
// chunk (Level == 0) or an interior node holding an abstractive summary
// of its children's texts (Level >= 1).
//
// Nodes are created exclusively by the Tree Builder and never mutated
// after creation.
type Node struct {
	ID        NodeID
	Text      string
	Embedding []float32
	Level     int
	Children  []*Node
	Metadata  Metadata
}

// IsLeaf reports whether n is a level-0 node.
func (n *Node) IsLeaf() bool {
	return n.Level == 0
}

// TextPreview returns the first maxLen bytes of the node's text, used
// when reporting retrieved nodes without shipping the full text.
func (n *Node) TextPreview(maxLen int) string {
	if len(n.Text) <= maxLen {
		return n.Text
	}
	return n.Text[:maxLen]
}
