package retrieve

import (
	"errors"
	"fmt"
)

// ErrUnknownMethod indicates a retrieval method outside
// {hierarchical, flattened} was requested (§7's configuration-error
// class).
var ErrUnknownMethod = errors.New("unknown retrieval method")

// QueryEmbeddingError reports that the query embedder exhausted its
// retries (§4.4.4): "propagate a query embedding failed error; no
// partial results."
type QueryEmbeddingError struct {
	Cause error
}

func (e *QueryEmbeddingError) Error() string {
	return fmt.Sprintf("query embedding failed: %v", e.Cause)
}

func (e *QueryEmbeddingError) Unwrap() error {
	return e.Cause
}
