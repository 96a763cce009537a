package pacer

import (
	"iter"
)

// indeterminate marks a sequence whose length the adapter cannot derive.
const indeterminate = int64(-1)

// wrap drives seq through a bar owned for the iteration's lifetime. The bar
// is created at first pull, advanced once per consumed item, and finished
// on every exit path including early breaks. Bar errors never interrupt
// iteration.
func wrap[T any](seq iter.Seq[T], o options, derivedTotal int64) iter.Seq[T] {
	return func(yield func(T) bool) {
		bar := o.newBar(derivedTotal)
		defer func() { _ = bar.Finish() }()
		for v := range seq {
			if !yield(v) {
				return
			}
			_ = bar.Add(1)
		}
	}
}

// Enumerate yields (index, item) pairs for seq, the index counting up from
// WithStart, while a bar tracks consumption. The pairs match a plain
// counted loop over seq exactly, whichever backend renders.
func Enumerate[T any](seq iter.Seq[T], opts ...Option) iter.Seq2[int, T] {
	o := newOptions(opts)
	return func(yield func(int, T) bool) {
		i := o.start
		for v := range wrap(seq, o, indeterminate) {
			if !yield(i, v) {
				return
			}
			i++
		}
	}
}

// Zip pairs items from a and b, stopping silently at the shorter input.
// Only the first sequence drives progress.
func Zip[A, B any](a iter.Seq[A], b iter.Seq[B], opts ...Option) iter.Seq2[A, B] {
	o := newOptions(opts)
	return func(yield func(A, B) bool) {
		next, stop := iter.Pull(b)
		defer stop()
		for av := range wrap(a, o, indeterminate) {
			bv, ok := next()
			if !ok {
				return
			}
			if !yield(av, bv) {
				return
			}
		}
	}
}

// ZipN zips any number of same-typed sequences into rows, stopping at the
// shortest input. Only the first sequence drives progress. No sequences
// yields nothing.
func ZipN[T any](seqs []iter.Seq[T], opts ...Option) iter.Seq[[]T] {
	o := newOptions(opts)
	return func(yield func([]T) bool) {
		if len(seqs) == 0 {
			return
		}
		pulls := make([]func() (T, bool), 0, len(seqs)-1)
		for _, s := range seqs[1:] {
			next, stop := iter.Pull(s)
			defer stop()
			pulls = append(pulls, next)
		}
		for first := range wrap(seqs[0], o, indeterminate) {
			row := make([]T, len(seqs))
			row[0] = first
			for i, next := range pulls {
				v, ok := next()
				if !ok {
					return
				}
				row[i+1] = v
			}
			if !yield(row) {
				return
			}
		}
	}
}

// Map yields f(v) for each v in seq, with progress tracked on the input.
// A panic in f propagates to the consumer.
func Map[T, R any](f func(T) R, seq iter.Seq[T], opts ...Option) iter.Seq[R] {
	o := newOptions(opts)
	return func(yield func(R) bool) {
		for v := range wrap(seq, o, indeterminate) {
			if !yield(f(v)) {
				return
			}
		}
	}
}

// Map2 yields f(a, b) for each pair Zip would produce from the same inputs,
// inheriting Zip's progress reporting and shortest-input truncation.
func Map2[A, B, R any](f func(A, B) R, a iter.Seq[A], b iter.Seq[B], opts ...Option) iter.Seq[R] {
	return func(yield func(R) bool) {
		for av, bv := range Zip(a, b, opts...) {
			if !yield(f(av, bv)) {
				return
			}
		}
	}
}

// Product yields the Cartesian product of the input slices in odometer
// order, each tuple as a fresh slice. WithRepeat(n) treats the factor list
// as repeated n times. The bar's total is the product of the factor
// lengths raised to the repeat count unless WithTotal overrides it; the bar
// is held for the product's whole lifetime and advanced once per tuple.
// Zero factors yield a single empty tuple; any empty factor yields nothing.
func Product[T any](inputs [][]T, opts ...Option) iter.Seq[[]T] {
	o := newOptions(opts)
	return func(yield func([]T) bool) {
		repeat := o.repeat
		if repeat < 0 {
			repeat = 0
		}
		pools := make([][]T, 0, len(inputs)*repeat)
		for r := 0; r < repeat; r++ {
			pools = append(pools, inputs...)
		}
		total := int64(1)
		for _, p := range pools {
			total *= int64(len(p))
		}
		bar := o.newBar(total)
		defer func() { _ = bar.Finish() }()
		if total == 0 {
			return
		}
		idx := make([]int, len(pools))
		for {
			row := make([]T, len(pools))
			for k, p := range pools {
				row[k] = p[idx[k]]
			}
			if !yield(row) {
				return
			}
			_ = bar.Add(1)
			k := len(pools) - 1
			for ; k >= 0; k-- {
				idx[k]++
				if idx[k] < len(pools[k]) {
					break
				}
				idx[k] = 0
			}
			if k < 0 {
				return
			}
		}
	}
}

// Range yields 0 through n-1 under a bar whose total is pre-filled.
func Range(n int, opts ...Option) iter.Seq[int] {
	return RangeStep(0, n, 1, opts...)
}

// RangeStep yields start, start+step, ... short of stop, in either
// direction. A zero step yields nothing rather than spinning forever.
func RangeStep(start, stop, step int, opts ...Option) iter.Seq[int] {
	o := newOptions(opts)
	return wrap(rangeSeq(start, stop, step), o, rangeCount(start, stop, step))
}

func rangeSeq(start, stop, step int) iter.Seq[int] {
	return func(yield func(int) bool) {
		switch {
		case step > 0:
			for i := start; i < stop; i += step {
				if !yield(i) {
					return
				}
			}
		case step < 0:
			for i := start; i > stop; i += step {
				if !yield(i) {
					return
				}
			}
		}
	}
}

func rangeCount(start, stop, step int) int64 {
	switch {
	case step > 0 && stop > start:
		return int64((stop - start + step - 1) / step)
	case step < 0 && stop < start:
		return int64((start - stop - step - 1) / -step)
	}
	return 0
}
