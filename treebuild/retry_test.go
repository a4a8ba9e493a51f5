package treebuild

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryWithBackoff_SucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	op := func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	}

	err := retryWithBackoff(context.Background(), op, 3, time.Millisecond, 4.0)
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryWithBackoff_ExhaustsAttempts(t *testing.T) {
	attempts := 0
	op := func() error {
		attempts++
		return errors.New("always fails")
	}

	err := retryWithBackoff(context.Background(), op, 3, time.Millisecond, 4.0)
	require.Error(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryWithBackoff_PermanentErrorNotRetried(t *testing.T) {
	attempts := 0
	op := func() error {
		attempts++
		return Permanent(errors.New("bad credentials"))
	}

	err := retryWithBackoff(context.Background(), op, 3, time.Millisecond, 4.0)
	require.Error(t, err)
	assert.Equal(t, 1, attempts, "permanent errors must not be retried")
}

func TestRetryWithBackoff_InvalidMaxAttempts(t *testing.T) {
	err := retryWithBackoff(context.Background(), func() error { return nil }, 0, time.Millisecond, 4.0)
	assert.Equal(t, ErrInvalidMaxAttempts, err)
}

func TestRetryWithBackoff_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	op := func() error {
		attempts++
		return errors.New("fails")
	}

	err := retryWithBackoff(ctx, op, 3, time.Millisecond, 4.0)
	assert.Equal(t, context.Canceled, err)
}
