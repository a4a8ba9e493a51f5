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

// This file hand-composes the binary record layout for nodes.binary
// using mus-go's primitive marshallers directly. The teacher
// (poiesic-memorit) generates this kind of code with the musgen-go code
// generator via `go:generate`; that generator cannot run in this build
// environment, so the field-by-field Marshal/Unmarshal/Size below plays
// the same role musgen would otherwise have produced, built on the same
// runtime library (mus-go) the generated code would have called into.
package core

import (
	"encoding/binary"
	"math"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// NodeRecord is the on-disk shape of a Node: the parent link replaces
// the in-memory Children slice, per §6's persistence layout
// (id, level, text, embedding[D], parent_id, metadata).
type NodeRecord struct {
	ID        NodeID
	Level     int
	Text      string
	Embedding []float32
	ParentID  NodeID // "" for the root
	Metadata  Metadata
}

// ToRecord converts a Node plus its parent id into a NodeRecord.
func ToRecord(n *Node, parentID NodeID) NodeRecord {
	return NodeRecord{
		ID:        n.ID,
		Level:     n.Level,
		Text:      n.Text,
		Embedding: n.Embedding,
		ParentID:  parentID,
		Metadata:  n.Metadata,
	}
}

// SizeNodeRecord returns the number of bytes MarshalNodeRecord will write.
func SizeNodeRecord(r NodeRecord) int {
	size := ord.SizeString(string(r.ID))
	size += varint.SizeInt(r.Level)
	size += ord.SizeString(r.Text)
	size += varint.SizeInt(len(r.Embedding))
	size += 4 * len(r.Embedding) // fixed-width float32, see MarshalNodeRecord below
	size += ord.SizeString(string(r.ParentID))
	size += ord.SizeString(r.Metadata.Sector)
	size += ord.SizeString(r.Metadata.Company)
	size += ord.SizeString(r.Metadata.Year)
	size += varint.SizeInt(r.Metadata.NumChildren)
	size += varint.SizeInt(r.Metadata.ClusterIdx)
	return size
}

// MarshalNodeRecord writes r into bs, returning the number of bytes written.
//
// The embedding vector is written with fixed-width 4-byte big-endian
// IEEE-754 float32 fields via the standard library rather than mus-go's
// raw-encoding subpackage, since bit-exact round-tripping of the vector
// matters more here than variable-length compaction.
func MarshalNodeRecord(r NodeRecord, bs []byte) int {
	n := ord.MarshalString(string(r.ID), bs)
	n += varint.MarshalInt(r.Level, bs[n:])
	n += ord.MarshalString(r.Text, bs[n:])
	n += varint.MarshalInt(len(r.Embedding), bs[n:])
	for _, f := range r.Embedding {
		binary.BigEndian.PutUint32(bs[n:n+4], math.Float32bits(f))
		n += 4
	}
	n += ord.MarshalString(string(r.ParentID), bs[n:])
	n += ord.MarshalString(r.Metadata.Sector, bs[n:])
	n += ord.MarshalString(r.Metadata.Company, bs[n:])
	n += ord.MarshalString(r.Metadata.Year, bs[n:])
	n += varint.MarshalInt(r.Metadata.NumChildren, bs[n:])
	n += varint.MarshalInt(r.Metadata.ClusterIdx, bs[n:])
	return n
}

// UnmarshalNodeRecord reads a NodeRecord from bs, returning the record,
// the number of bytes consumed, and any error. A buffer truncated inside
// the embedding vector surfaces core.ErrTruncatedData; truncation inside
// any other field surfaces the error mus-go returns for that field.
func UnmarshalNodeRecord(bs []byte) (r NodeRecord, n int, err error) {
	id, n1, err := ord.UnmarshalString(bs)
	if err != nil {
		return r, 0, err
	}
	n = n1

	level, n2, err := varint.UnmarshalInt(bs[n:])
	if err != nil {
		return r, 0, err
	}
	n += n2

	text, n3, err := ord.UnmarshalString(bs[n:])
	if err != nil {
		return r, 0, err
	}
	n += n3

	dim, n4, err := varint.UnmarshalInt(bs[n:])
	if err != nil {
		return r, 0, err
	}
	n += n4

	if dim < 0 || n+dim*4 > len(bs) {
		return r, 0, ErrTruncatedData
	}
	embedding := make([]float32, dim)
	for i := 0; i < dim; i++ {
		embedding[i] = math.Float32frombits(binary.BigEndian.Uint32(bs[n : n+4]))
		n += 4
	}

	parentID, n5, err := ord.UnmarshalString(bs[n:])
	if err != nil {
		return r, 0, err
	}
	n += n5

	sector, n6, err := ord.UnmarshalString(bs[n:])
	if err != nil {
		return r, 0, err
	}
	n += n6

	company, n7, err := ord.UnmarshalString(bs[n:])
	if err != nil {
		return r, 0, err
	}
	n += n7

	year, n8, err := ord.UnmarshalString(bs[n:])
	if err != nil {
		return r, 0, err
	}
	n += n8

	numChildren, n9, err := varint.UnmarshalInt(bs[n:])
	if err != nil {
		return r, 0, err
	}
	n += n9

	clusterIdx, n10, err := varint.UnmarshalInt(bs[n:])
	if err != nil {
		return r, 0, err
	}
	n += n10

	r = NodeRecord{
		ID:        NodeID(id),
		Level:     level,
		Text:      text,
		Embedding: embedding,
		ParentID:  NodeID(parentID),
		Metadata: Metadata{
			Sector:      sector,
			Company:     company,
			Year:        year,
			NumChildren: numChildren,
			ClusterIdx:  clusterIdx,
		},
	}
	return r, n, nil
}
