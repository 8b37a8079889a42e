package containers

import "iter"

// Result carries either a value or the error that prevented producing it.
// Iterators yield Results so a failure can travel through a range loop.
type Result[T any] struct {
	Value T
	Err   error
}

func (r Result[T]) IsOk() bool {
	return r.Err == nil
}

func (r Result[T]) IsErr() bool {
	return r.Err != nil
}

// Unwrap returns the value and panics on an Err result.
func (r Result[T]) Unwrap() T {
	if r.IsErr() {
		panic("called Unwrap on an Err result: " + r.Err.Error())
	}
	return r.Value
}

func (r Result[T]) UnwrapOr(defaultValue T) T {
	if r.IsErr() {
		return defaultValue
	}
	return r.Value
}

// Get returns the value and the error in the usual Go order.
func (r Result[T]) Get() (T, error) {
	return r.Value, r.Err
}

func Ok[T any](value T) Result[T] {
	return Result[T]{Value: value}
}

func Err[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

// Collect drains seq into a slice, stopping at the first error.
func Collect[T any](seq iter.Seq[Result[T]]) ([]T, error) {
	var values []T
	var err error
	for res := range seq {
		if res.IsErr() {
			err = res.Err
			break
		}
		values = append(values, res.Value)
	}
	return values, err
}
