package cluster

import (
	"math"
	"math/rand"
)

// gmmModel is a diagonal-covariance Gaussian mixture.
type gmmModel struct {
	weights   []float64
	means     [][]float64
	variances [][]float64 // diagonal only
	dim       int
}

const (
	gmmMaxIterations  = 100
	gmmConvergenceTol = 1e-4
	gmmMinVariance    = 1e-6
)

// fitGMM runs EM with k-means++ initialization to fit a k-component
// diagonal Gaussian mixture to data, deterministically for a fixed rng.
func fitGMM(data [][]float64, k int, rng *rand.Rand) *gmmModel {
	n := len(data)
	dim := len(data[0])
	if k > n {
		k = n
	}

	means := kMeansPlusPlusInit(data, k, rng)
	variances := make([][]float64, k)
	weights := make([]float64, k)
	for c := 0; c < k; c++ {
		variances[c] = make([]float64, dim)
		for d := 0; d < dim; d++ {
			variances[c][d] = 1.0
		}
		weights[c] = 1.0 / float64(k)
	}

	model := &gmmModel{weights: weights, means: means, variances: variances, dim: dim}

	prevLL := math.Inf(-1)
	for iter := 0; iter < gmmMaxIterations; iter++ {
		resp := responsibilities(data, model)

		nk := make([]float64, k)
		for i := 0; i < n; i++ {
			for c := 0; c < k; c++ {
				nk[c] += resp[i][c]
			}
		}

		newMeans := make([][]float64, k)
		newVars := make([][]float64, k)
		for c := 0; c < k; c++ {
			newMeans[c] = make([]float64, dim)
			newVars[c] = make([]float64, dim)
			if nk[c] < 1e-9 {
				copy(newMeans[c], model.means[c])
				copy(newVars[c], model.variances[c])
				continue
			}
			for i := 0; i < n; i++ {
				w := resp[i][c]
				for d := 0; d < dim; d++ {
					newMeans[c][d] += w * data[i][d]
				}
			}
			for d := 0; d < dim; d++ {
				newMeans[c][d] /= nk[c]
			}
			for i := 0; i < n; i++ {
				w := resp[i][c]
				for d := 0; d < dim; d++ {
					diff := data[i][d] - newMeans[c][d]
					newVars[c][d] += w * diff * diff
				}
			}
			for d := 0; d < dim; d++ {
				newVars[c][d] /= nk[c]
				if newVars[c][d] < gmmMinVariance {
					newVars[c][d] = gmmMinVariance
				}
			}
		}

		newWeights := make([]float64, k)
		for c := 0; c < k; c++ {
			newWeights[c] = nk[c] / float64(n)
			if newWeights[c] < 1e-9 {
				newWeights[c] = 1e-9
			}
		}

		model = &gmmModel{weights: newWeights, means: newMeans, variances: newVars, dim: dim}

		ll := logLikelihood(data, model)
		if math.Abs(ll-prevLL) < gmmConvergenceTol {
			break
		}
		prevLL = ll
	}

	return model
}

func kMeansPlusPlusInit(data [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(data)
	means := make([][]float64, 0, k)
	first := rng.Intn(n)
	means = append(means, append([]float64(nil), data[first]...))

	for len(means) < k {
		dists := make([]float64, n)
		var total float64
		for i, pt := range data {
			best := math.Inf(1)
			for _, m := range means {
				d := squaredDist(pt, m)
				if d < best {
					best = d
				}
			}
			dists[i] = best
			total += best
		}
		if total <= 0 {
			means = append(means, append([]float64(nil), data[rng.Intn(n)]...))
			continue
		}
		target := rng.Float64() * total
		var acc float64
		chosen := n - 1
		for i, d := range dists {
			acc += d
			if acc >= target {
				chosen = i
				break
			}
		}
		means = append(means, append([]float64(nil), data[chosen]...))
	}
	return means
}

func squaredDist(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// componentLogDensity returns the log density of point under component c
// of a diagonal Gaussian mixture.
func componentLogDensity(point []float64, mean, variance []float64) float64 {
	var logDensity float64
	for d := range point {
		diff := point[d] - mean[d]
		logDensity += -0.5*math.Log(2*math.Pi*variance[d]) - (diff*diff)/(2*variance[d])
	}
	return logDensity
}

// responsibilities computes the posterior probability of each point
// belonging to each component (soft assignment).
func responsibilities(data [][]float64, model *gmmModel) [][]float64 {
	n := len(data)
	k := len(model.weights)
	resp := make([][]float64, n)
	for i, pt := range data {
		logProbs := make([]float64, k)
		maxLP := math.Inf(-1)
		for c := 0; c < k; c++ {
			lp := math.Log(model.weights[c]) + componentLogDensity(pt, model.means[c], model.variances[c])
			logProbs[c] = lp
			if lp > maxLP {
				maxLP = lp
			}
		}
		var sum float64
		probs := make([]float64, k)
		for c := 0; c < k; c++ {
			probs[c] = math.Exp(logProbs[c] - maxLP)
			sum += probs[c]
		}
		for c := 0; c < k; c++ {
			probs[c] /= sum
		}
		resp[i] = probs
	}
	return resp
}

func logLikelihood(data [][]float64, model *gmmModel) float64 {
	k := len(model.weights)
	var total float64
	for _, pt := range data {
		maxLP := math.Inf(-1)
		logProbs := make([]float64, k)
		for c := 0; c < k; c++ {
			lp := math.Log(model.weights[c]) + componentLogDensity(pt, model.means[c], model.variances[c])
			logProbs[c] = lp
			if lp > maxLP {
				maxLP = lp
			}
		}
		var sum float64
		for c := 0; c < k; c++ {
			sum += math.Exp(logProbs[c] - maxLP)
		}
		total += maxLP + math.Log(sum)
	}
	return total
}

// bic computes the Bayesian Information Criterion for model on data:
// lower is better.
func bic(data [][]float64, model *gmmModel) float64 {
	n := float64(len(data))
	k := len(model.weights)
	dim := model.dim
	// Per component: dim means + dim variances, plus (k-1) free weights.
	numParams := float64(k*(2*dim) + (k - 1))
	return -2*logLikelihood(data, model) + numParams*math.Log(n)
}

// selectK fits candidate mixtures for K in [1, maxClusters] (capped at
// len(data)) and returns the model with lowest BIC.
func selectK(data [][]float64, maxClusters int, seed int64) *gmmModel {
	n := len(data)
	if maxClusters > n {
		maxClusters = n
	}
	if maxClusters < 1 {
		maxClusters = 1
	}

	var best *gmmModel
	bestBIC := math.Inf(1)
	for k := 1; k <= maxClusters; k++ {
		rng := rand.New(rand.NewSource(seed + int64(k)))
		model := fitGMM(data, k, rng)
		score := bic(data, model)
		if score < bestBIC {
			bestBIC = score
			best = model
		}
	}
	return best
}

// assignComponents returns, for each point, the index of its
// highest-probability mixture component.
func assignComponents(data [][]float64, model *gmmModel) []int {
	resp := responsibilities(data, model)
	assignments := make([]int, len(data))
	for i, probs := range resp {
		best := 0
		for c := 1; c < len(probs); c++ {
			if probs[c] > probs[best] {
				best = c
			}
		}
		assignments[i] = best
	}
	return assignments
}
