package containers

import (
	"errors"
	"iter"
	"testing"

	"github.com/maxatome/go-testdeep/td"
)

func results(items ...Result[int]) iter.Seq[Result[int]] {
	return func(yield func(Result[int]) bool) {
		for _, item := range items {
			if !yield(item) {
				return
			}
		}
	}
}

func TestResult(t *testing.T) {
	ok := Ok(3)
	td.CmpTrue(t, ok.IsOk())
	td.Cmp(t, ok.Unwrap(), 3)
	td.Cmp(t, ok.UnwrapOr(9), 3)

	failed := Err[int](errors.New("boom"))
	td.CmpTrue(t, failed.IsErr())
	td.Cmp(t, failed.UnwrapOr(9), 9)
	td.CmpPanic(t, func() { failed.Unwrap() }, "called Unwrap on an Err result: boom")

	v, err := failed.Get()
	td.Cmp(t, v, 0)
	td.CmpString(t, err, "boom")
}

func TestCollect(t *testing.T) {
	values, err := Collect(results(Ok(1), Ok(2), Ok(3)))
	td.CmpNoError(t, err)
	td.Cmp(t, values, []int{1, 2, 3})

	boom := errors.New("boom")
	values, err = Collect(results(Ok(1), Err[int](boom), Ok(3)))
	td.Cmp(t, err, td.Shallow(boom))
	td.Cmp(t, values, []int{1})
}
