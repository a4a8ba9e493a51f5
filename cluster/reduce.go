package cluster

import (
	"math"
	"math/rand"
)

// reduceDimensions projects embeddings onto dim dimensions using a
// seeded random linear projection (a Johnson-Lindenstrauss-style sketch),
// in place of the UMAP manifold reduction the spec names. No UMAP
// binding exists anywhere in the dependency corpus this repository was
// grounded on; a deterministic random projection preserves pairwise
// cosine structure well enough for the sub-clustering step below and,
// crucially, is exactly reproducible for a fixed gaussian_random_state.
func reduceDimensions(embeddings [][]float32, dim int, seed int64) [][]float64 {
	n := len(embeddings)
	if n == 0 {
		return nil
	}
	srcDim := len(embeddings[0])
	if dim > srcDim {
		dim = srcDim
	}
	if dim < 1 {
		dim = 1
	}

	rng := rand.New(rand.NewSource(seed))
	projection := make([][]float64, srcDim)
	for i := range projection {
		row := make([]float64, dim)
		for j := range row {
			row[j] = rng.NormFloat64()
		}
		projection[i] = row
	}

	reduced := make([][]float64, n)
	norm := 1.0 / math.Sqrt(float64(dim))
	for i, vec := range embeddings {
		out := make([]float64, dim)
		for j := 0; j < dim; j++ {
			var sum float64
			for k := 0; k < srcDim && k < len(vec); k++ {
				sum += float64(vec[k]) * projection[k][j]
			}
			out[j] = sum * norm
		}
		reduced[i] = out
	}
	return reduced
}
