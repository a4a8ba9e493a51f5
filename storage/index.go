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

// PersistedConfig is the subset of the tree builder's configuration
// recorded alongside a saved tree, per the index.json config table.
type PersistedConfig struct {
	ChunkSize           int `json:"chunk_size"`
	ChunkOverlap        int `json:"chunk_overlap"`
	MaxDepth            int `json:"max_depth"`
	ReductionDimension  int `json:"reduction_dimension"`
	MaxClusters         int `json:"max_clusters"`
	MinClusterSize      int `json:"min_cluster_size"`
	MaxClusterSize      int `json:"max_cluster_size"`
	SummarizationLength int `json:"summarization_length"`
}

// Index is the on-disk shape of index.json: the embedding dimension,
// node counts and build config. Load reads it before the node file and
// returns its D and Config; the node counts are written on Save but are
// not compared against the node file on Load.
type Index struct {
	D          int             `json:"D"`
	TotalNodes int             `json:"total_nodes"`
	Levels     []int           `json:"levels"`
	Config     PersistedConfig `json:"config"`
}
