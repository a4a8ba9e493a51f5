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

// Package cluster groups sibling nodes into clusters for one interior
// tree level. Grouping is primarily a deterministic function of metadata
// (the fixed hierarchy); oversized groups are sub-clustered by embedding
// similarity using a seeded dimensionality reduction followed by a
// Gaussian-mixture / BIC model-selection pass.
package cluster

// Config holds the parameters governing both the fixed-hierarchy
// grouping and the oversized-group sub-clustering step.
type Config struct {
	// MaxClusterSize is the group size above which sub-clustering kicks in.
	MaxClusterSize int

	// MinClusterSize is the minimum surviving sub-cluster size; smaller
	// sub-clusters are merged into their nearest neighbor by centroid
	// cosine distance.
	MinClusterSize int

	// ReductionDimension is the target dimensionality for the
	// UMAP-style reduction step.
	ReductionDimension int

	// MaxClusters caps the number of candidate K values tried during
	// BIC-based model selection.
	MaxClusters int

	// GaussianRandomState seeds every pseudo-random step of
	// sub-clustering, so a fixed input always yields the same output.
	GaussianRandomState int64
}

// DefaultConfig returns the spec-mandated defaults (§6).
func DefaultConfig() Config {
	return Config{
		MaxClusterSize:      100,
		MinClusterSize:      5,
		ReductionDimension:  10,
		MaxClusters:         5,
		GaussianRandomState: 42,
	}
}
