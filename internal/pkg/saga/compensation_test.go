package saga

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompensationRunsAtMostOnce(t *testing.T) {
	var calls int32
	comp := NewCompensation("delete", func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("gone")
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = comp.Run(context.Background())
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	assert.EqualError(t, comp.Run(context.Background()), "gone")
	assert.True(t, comp.Ran())
}

func TestCompensationRecoversPanic(t *testing.T) {
	comp := NewCompensation("explode", func(ctx context.Context) error {
		panic("boom")
	})

	var err error
	assert.NotPanics(t, func() { err = comp.Run(context.Background()) })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "explode")
	assert.Contains(t, err.Error(), "boom")
}

func TestCompensationIgnoresParentCancellation(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	cancel()

	comp := NewCompensation("cleanup", func(ctx context.Context) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		_, hasDeadline := ctx.Deadline()
		if !hasDeadline {
			return errors.New("missing deadline")
		}
		return nil
	}).WithTimeout(time.Second)

	assert.NoError(t, comp.Run(parent))
}

func TestCompensationNotRunUntilAsked(t *testing.T) {
	comp := NewCompensation("noop", func(ctx context.Context) error { return nil })
	assert.False(t, comp.Ran())
}

func TestStep(t *testing.T) {
	t.Run("success skips compensation", func(t *testing.T) {
		var compensated bool
		comp := NewCompensation("c", func(ctx context.Context) error {
			compensated = true
			return nil
		})

		v, err := Step(context.Background(), func(ctx context.Context) (int, error) { return 42, nil }, comp)
		require.NoError(t, err)
		assert.Equal(t, 42, v)
		assert.False(t, compensated)
	})

	t.Run("failure surfaces action error", func(t *testing.T) {
		actionErr := errors.New("insert failed")
		comp := NewCompensation("c", func(ctx context.Context) error {
			return errors.New("delete failed")
		})

		_, err := Step(context.Background(), func(ctx context.Context) (string, error) { return "", actionErr }, comp)
		assert.ErrorIs(t, err, actionErr)
		assert.True(t, comp.Ran())
	})

	t.Run("nil compensation", func(t *testing.T) {
		actionErr := errors.New("x")
		_, err := Step(context.Background(), func(ctx context.Context) (int, error) { return 0, actionErr }, nil)
		assert.ErrorIs(t, err, actionErr)
	})
}
