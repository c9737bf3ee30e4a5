package utils

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunParallel(t *testing.T) {
	var ran atomic.Int32
	errA := errors.New("a failed")

	errs := RunParallel(
		func() error { ran.Add(1); return nil },
		func() error { ran.Add(1); return errA },
		func() error { ran.Add(1); return nil },
	)

	assert.Equal(t, int32(3), ran.Load())
	assert.Equal(t, []error{nil, errA, nil}, errs)
}

func TestRunParallelEmpty(t *testing.T) {
	assert.Empty(t, RunParallel())
}

func TestFirstError(t *testing.T) {
	errA := errors.New("a")
	errB := errors.New("b")

	assert.NoError(t, FirstError(nil))
	assert.NoError(t, FirstError([]error{nil, nil}))
	assert.Equal(t, errA, FirstError([]error{nil, errA, errB}))
}
