package cluster

import (
	"math"
	"sort"

	"github.com/finrag/finrag/core"
)

// Cluster partitions nodes (the children) into clusters for the
// interior level being built above them: level is the target level L
// the resulting clusters will become parents at, matching the grouping
// key table in §4.2 (L=1 groups by sector/company/year, ..., L>=4
// groups everything together).
//
// Grouping is driven first by the fixed metadata hierarchy (§4.2): nodes
// sharing a group key at this level are always clustered together.
// Groups at or below MaxClusterSize become a single cluster; oversized
// groups are further split by embedding similarity via dimensionality
// reduction followed by BIC-selected Gaussian-mixture sub-clustering.
//
// The returned slices are indices into nodes. Cluster order follows
// §4.2: groups sorted by canonical metadata key, then within a group,
// sub-clusters sorted by decreasing size with ties broken by smallest
// minimum member index.
func Cluster(level int, nodes []*core.Node, cfg Config) ([][]int, error) {
	if len(nodes) == 0 {
		return nil, nil
	}
	if len(nodes) == 1 {
		return [][]int{{0}}, nil
	}

	groups := groupNodes(level, nodes)

	var clusters [][]int
	for _, g := range groups {
		if len(g.indices) <= cfg.MaxClusterSize {
			clusters = append(clusters, g.indices)
			continue
		}
		sub := subCluster(g.indices, nodes, cfg)
		clusters = append(clusters, sub...)
	}

	return clusters, nil
}

// subCluster splits an oversized group's member indices into smaller
// clusters by embedding similarity.
func subCluster(indices []int, nodes []*core.Node, cfg Config) [][]int {
	embeddings := make([][]float32, len(indices))
	for i, idx := range indices {
		embeddings[i] = nodes[idx].Embedding
	}

	reduced := reduceDimensions(embeddings, cfg.ReductionDimension, cfg.GaussianRandomState)
	model := selectK(reduced, cfg.MaxClusters, cfg.GaussianRandomState)
	assignments := assignComponents(reduced, model)

	byComponent := map[int][]int{}
	var order []int
	for i, comp := range assignments {
		if _, ok := byComponent[comp]; !ok {
			order = append(order, comp)
		}
		byComponent[comp] = append(byComponent[comp], indices[i])
	}

	var clusters [][]int
	for _, comp := range order {
		clusters = append(clusters, byComponent[comp])
	}

	clusters = mergeSmallClusters(clusters, nodes, cfg.MinClusterSize)

	sort.SliceStable(clusters, func(i, j int) bool {
		if len(clusters[i]) != len(clusters[j]) {
			return len(clusters[i]) > len(clusters[j])
		}
		return minOf(clusters[i]) < minOf(clusters[j])
	})

	return clusters
}

func minOf(indices []int) int {
	m := indices[0]
	for _, v := range indices[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// mergeSmallClusters folds any cluster smaller than minSize into its
// nearest surviving neighbor, measured by cosine distance between
// full-dimensional embedding centroids.
func mergeSmallClusters(clusters [][]int, nodes []*core.Node, minSize int) [][]int {
	if len(clusters) <= 1 {
		return clusters
	}

	centroids := make([][]float32, len(clusters))
	for i, c := range clusters {
		centroids[i] = centroidOf(c, nodes)
	}

	alive := make([]bool, len(clusters))
	for i := range alive {
		alive[i] = true
	}

	for {
		smallest := -1
		for i, c := range clusters {
			if alive[i] && len(c) < minSize {
				smallest = i
				break
			}
		}
		if smallest == -1 {
			break
		}
		if countAlive(alive) <= 1 {
			break
		}

		best := -1
		bestDist := 2.0
		for j := range clusters {
			if j == smallest || !alive[j] {
				continue
			}
			d := cosineDistance(centroids[smallest], centroids[j])
			if d < bestDist {
				bestDist = d
				best = j
			}
		}
		if best == -1 {
			break
		}

		clusters[best] = append(clusters[best], clusters[smallest]...)
		centroids[best] = centroidOf(clusters[best], nodes)
		alive[smallest] = false
		clusters[smallest] = nil
	}

	merged := make([][]int, 0, countAlive(alive))
	for i, c := range clusters {
		if alive[i] {
			merged = append(merged, c)
		}
	}
	return merged
}

func countAlive(alive []bool) int {
	n := 0
	for _, a := range alive {
		if a {
			n++
		}
	}
	return n
}

func centroidOf(indices []int, nodes []*core.Node) []float32 {
	if len(indices) == 0 {
		return nil
	}
	dim := len(nodes[indices[0]].Embedding)
	centroid := make([]float32, dim)
	for _, idx := range indices {
		vec := nodes[idx].Embedding
		for d := 0; d < dim && d < len(vec); d++ {
			centroid[d] += vec[d]
		}
	}
	for d := range centroid {
		centroid[d] /= float32(len(indices))
	}
	return centroid
}

func cosineDistance(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := 0; i < len(a) && i < len(b); i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1.0
	}
	cosine := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return 1.0 - cosine
}
