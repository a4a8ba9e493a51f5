package retrieve

import "time"

// Method selects a retrieval strategy (§4.4).
type Method string

const (
	// Hierarchical traverses top-down from the root, expanding only
	// the best-scoring children at each level (§4.4.1).
	Hierarchical Method = "hierarchical"

	// Flattened scores every node in the tree at once (§4.4.2).
	Flattened Method = "flattened"
)

// Options configures a single Retrieve call.
type Options struct {
	// K is the number of nodes to return overall.
	K int

	// KPerLevel overrides the hierarchical strategy's per-level
	// retention count; a level missing from the map uses K.
	KPerLevel map[int]int

	// LevelWeights multiplies a node's raw cosine score by a
	// per-level factor before ranking (flattened strategy only);
	// a level missing from the map uses 1.0.
	LevelWeights map[int]float64

	// RetryMaxAttempts, RetryBaseDelay and RetryMultiplier govern the
	// query-embedding retry policy (§4.3.2's schedule, reused here
	// per §4.4.4).
	RetryMaxAttempts int
	RetryBaseDelay   time.Duration
	RetryMultiplier  float64
}

// DefaultOptions returns the spec-mandated defaults (§6).
func DefaultOptions() Options {
	return Options{
		K:                10,
		RetryMaxAttempts: 3,
		RetryBaseDelay:   100 * time.Millisecond,
		RetryMultiplier:  4.0,
	}
}

func (o Options) kPerLevel(level int) int {
	if o.KPerLevel != nil {
		if k, ok := o.KPerLevel[level]; ok {
			return k
		}
	}
	return o.K
}

func (o Options) levelWeight(level int) float64 {
	if o.LevelWeights != nil {
		if w, ok := o.LevelWeights[level]; ok {
			return w
		}
	}
	return 1.0
}
