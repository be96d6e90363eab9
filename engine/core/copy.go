package core

import (
	"fmt"

	"github.com/mohae/deepcopy"
)

// DeepCopy returns a deep copy of v that shares no memory with it.
//
// Copies are made with github.com/mohae/deepcopy, which walks exported
// fields only. Values with unexported state must provide their own Clone.
// A nil pointer copies to a nil pointer.
func DeepCopy[T any](v T) (T, error) {
	var zero T
	copied := deepcopy.Copy(v)
	if copied == nil {
		return zero, nil
	}
	result, ok := copied.(T)
	if !ok {
		return zero, fmt.Errorf("failed to cast copied value to type %T", zero)
	}
	return result, nil
}

// MustDeepCopy is DeepCopy for values whose type is known to round-trip.
// It panics if the copy cannot be asserted back to T.
func MustDeepCopy[T any](v T) T {
	out, err := DeepCopy(v)
	if err != nil {
		panic(err)
	}
	return out
}
