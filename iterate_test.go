package pacer

import (
	"io"
	"iter"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/pacer/backend"
)

// TestEnumerateMatchesCountedLoop verifies Enumerate yields the same pairs
// as a plain counted loop for positive, zero, and negative starts.
func TestEnumerateMatchesCountedLoop(t *testing.T) {
	t.Parallel()

	items := []string{"a", "b", "c"}
	for _, start := range []int{0, 5, -2} {
		stub := newStubBackend()
		var gotIdx []int
		var gotVals []string
		for i, v := range Enumerate(slices.Values(items), WithStart(start), WithBackend(stub)) {
			gotIdx = append(gotIdx, i)
			gotVals = append(gotVals, v)
		}
		require.Equal(t, []int{start, start + 1, start + 2}, gotIdx)
		require.Equal(t, items, gotVals)
		require.Len(t, stub.bars, 1)
		require.Equal(t, 3, stub.bars[0].adds)
		require.Equal(t, 1, stub.bars[0].finishes)
	}
}

// TestEnumerateTotalForwarding checks the expected-length hint: absent a
// WithTotal the bar runs indeterminate, with one it carries the value.
func TestEnumerateTotalForwarding(t *testing.T) {
	t.Parallel()

	stub := newStubBackend()
	for range Enumerate(slices.Values([]int{1, 2}), WithBackend(stub)) {
	}
	require.Equal(t, int64(-1), stub.bars[0].opts.Total)

	for range Enumerate(slices.Values([]int{1, 2}), WithTotal(2), WithBackend(stub)) {
	}
	require.Equal(t, int64(2), stub.bars[1].opts.Total)
}

// TestZipStopsAtShorterInput covers both orderings of a length mismatch;
// neither panics and only the first sequence drives the bar.
func TestZipStopsAtShorterInput(t *testing.T) {
	t.Parallel()

	long := []int{1, 2, 3, 4, 5}
	short := []string{"x", "y", "z"}

	stub := newStubBackend()
	var pairs int
	for a, b := range Zip(slices.Values(long), slices.Values(short), WithBackend(stub)) {
		require.Equal(t, long[pairs], a)
		require.Equal(t, short[pairs], b)
		pairs++
	}
	require.Equal(t, 3, pairs)
	require.Equal(t, 1, stub.bars[0].finishes)

	stub = newStubBackend()
	pairs = 0
	for range Zip(slices.Values(short), slices.Values(long), WithBackend(stub)) {
		pairs++
	}
	require.Equal(t, 3, pairs)
	require.Equal(t, 3, stub.bars[0].adds)
	require.Equal(t, 1, stub.bars[0].finishes)
}

// TestZipNRowsInOrder zips three same-typed sequences and stops at the
// shortest.
func TestZipNRowsInOrder(t *testing.T) {
	t.Parallel()

	stub := newStubBackend()
	seqs := []iter.Seq[int]{
		slices.Values([]int{1, 2, 3}),
		slices.Values([]int{10, 20}),
		slices.Values([]int{100, 200, 300}),
	}
	var rows [][]int
	for row := range ZipN(seqs, WithBackend(stub)) {
		rows = append(rows, row)
	}
	require.Equal(t, [][]int{{1, 10, 100}, {2, 20, 200}}, rows)
	require.Equal(t, 1, stub.bars[0].finishes)
}

// TestMapAppliesFunction checks Map transforms each element in order.
func TestMapAppliesFunction(t *testing.T) {
	t.Parallel()

	stub := newStubBackend()
	var got []int
	for v := range Map(func(v int) int { return v * v }, slices.Values([]int{1, 2, 3}), WithBackend(stub)) {
		got = append(got, v)
	}
	require.Equal(t, []int{1, 4, 9}, got)
	require.Equal(t, 3, stub.bars[0].adds)
}

// TestMap2InheritsZipSemantics verifies Map2 applies f to exactly the pairs
// Zip would produce, truncating at the shorter input.
func TestMap2InheritsZipSemantics(t *testing.T) {
	t.Parallel()

	stub := newStubBackend()
	var got []int
	f := func(a, b int) int { return a + b }
	for v := range Map2(f, slices.Values([]int{1, 2, 3}), slices.Values([]int{10, 20}), WithBackend(stub)) {
		got = append(got, v)
	}
	require.Equal(t, []int{11, 22}, got)
}

// TestProductPairs checks tuple content, odometer order, the derived total,
// and that the bar observed one update per tuple.
func TestProductPairs(t *testing.T) {
	t.Parallel()

	stub := newStubBackend()
	var got [][]int
	for row := range Product([][]int{{1, 2}, {3, 4}}, WithBackend(stub)) {
		got = append(got, row)
	}
	require.Equal(t, [][]int{{1, 3}, {1, 4}, {2, 3}, {2, 4}}, got)
	require.Len(t, stub.bars, 1)
	require.Equal(t, int64(4), stub.bars[0].opts.Total)
	require.Equal(t, 4, stub.bars[0].adds)
	require.Equal(t, 1, stub.bars[0].finishes)
}

// TestProductRepeat squares the factor list via WithRepeat.
func TestProductRepeat(t *testing.T) {
	t.Parallel()

	stub := newStubBackend()
	var got [][]int
	for row := range Product([][]int{{0, 1}}, WithRepeat(2), WithBackend(stub)) {
		got = append(got, row)
	}
	require.Equal(t, [][]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}}, got)
	require.Equal(t, int64(4), stub.bars[0].opts.Total)
}

// TestProductEdges covers the empty-factor, no-factor, and caller-total
// cases.
func TestProductEdges(t *testing.T) {
	t.Parallel()

	stub := newStubBackend()
	count := 0
	for range Product([][]int{{}, {1, 2}}, WithBackend(stub)) {
		count++
	}
	require.Zero(t, count)
	require.Equal(t, int64(0), stub.bars[0].opts.Total)
	require.Equal(t, 1, stub.bars[0].finishes)

	var rows [][]int
	for row := range Product[int](nil, WithBackend(stub)) {
		rows = append(rows, row)
	}
	require.Len(t, rows, 1)
	require.Empty(t, rows[0])

	for range Product([][]int{{1, 2}}, WithTotal(99), WithBackend(stub)) {
	}
	require.Equal(t, int64(99), stub.bars[2].opts.Total)
}

// TestProductEarlyBreakFinishesBar stops consuming mid-product and expects
// the bar released anyway.
func TestProductEarlyBreakFinishesBar(t *testing.T) {
	t.Parallel()

	stub := newStubBackend()
	for range Product([][]int{{1, 2}, {3, 4}}, WithBackend(stub)) {
		break
	}
	require.Equal(t, 1, stub.bars[0].finishes)
	require.Zero(t, stub.bars[0].adds)
}

// TestRangeYieldsSequence checks Range and RangeStep values and derived
// totals, including a descending range and the zero-step guard.
func TestRangeYieldsSequence(t *testing.T) {
	t.Parallel()

	stub := newStubBackend()
	require.Equal(t, []int{0, 1, 2}, slices.Collect(Range(3, WithBackend(stub))))
	require.Equal(t, int64(3), stub.bars[0].opts.Total)

	require.Equal(t, []int{5, 3, 1}, slices.Collect(RangeStep(5, 0, -2, WithBackend(stub))))
	require.Equal(t, int64(3), stub.bars[1].opts.Total)

	require.Empty(t, slices.Collect(RangeStep(0, 5, 0, WithBackend(stub))))
	require.Empty(t, slices.Collect(Range(-1, WithBackend(stub))))
}

// TestEarlyBreakIsLazy breaks after two items and expects the input pulled
// at most three times, the bar advanced twice at most, and finished once.
func TestEarlyBreakIsLazy(t *testing.T) {
	t.Parallel()

	stub := newStubBackend()
	pulled := 0
	source := func(yield func(int) bool) {
		for i := 0; ; i++ {
			pulled++
			if !yield(i) {
				return
			}
		}
	}
	seen := 0
	for range Enumerate(source, WithBackend(stub)) {
		seen++
		if seen == 2 {
			break
		}
	}
	require.Equal(t, 2, seen)
	require.LessOrEqual(t, pulled, 3)
	require.LessOrEqual(t, stub.bars[0].adds, 2)
	require.Equal(t, 1, stub.bars[0].finishes)
}

// TestExplicitBackendSkipsProbing swaps the resolver for one that fails the
// test if invoked; every adapter call with WithBackend must avoid it.
func TestExplicitBackendSkipsProbing(t *testing.T) {
	orig := autoResolve
	defer func() { autoResolve = orig }()
	autoResolve = func() backend.Backend {
		t.Fatal("environment probing triggered despite explicit backend")
		return nil
	}

	stub := newStubBackend()
	for range Enumerate(slices.Values([]int{1}), WithBackend(stub)) {
	}
	for range Zip(slices.Values([]int{1}), slices.Values([]int{2}), WithBackend(stub)) {
	}
	for range Product([][]int{{1}}, WithBackend(stub)) {
	}
	for range Range(1, WithBackend(stub)) {
	}
}

// TestAutoResolveIsLazy asserts the resolver runs only once iteration
// begins, not when the sequence is built.
func TestAutoResolveIsLazy(t *testing.T) {
	orig := autoResolve
	defer func() { autoResolve = orig }()
	stub := newStubBackend()
	resolves := 0
	autoResolve = func() backend.Backend {
		resolves++
		return stub
	}

	seq := Range(2)
	require.Zero(t, resolves)
	require.Equal(t, []int{0, 1}, slices.Collect(seq))
	require.Equal(t, 1, resolves)
}

// TestExtraPassthrough forwards unknown configuration untouched.
func TestExtraPassthrough(t *testing.T) {
	t.Parallel()

	stub := newStubBackend()
	for range Range(1, WithBackend(stub), WithExtra("theme", "plain"), WithDescription("d")) {
	}
	require.Equal(t, "plain", stub.bars[0].opts.Extra["theme"])
	require.Equal(t, "d", stub.bars[0].opts.Description)
}

type stubBackend struct {
	mu    sync.Mutex
	lock  sync.Locker
	bars  []*stubBar
	wrote []string
}

func newStubBackend() *stubBackend {
	return &stubBackend{lock: &sync.Mutex{}}
}

func (b *stubBackend) Name() string { return "stub" }

func (b *stubBackend) NewBar(opts backend.Options) backend.Bar {
	b.mu.Lock()
	defer b.mu.Unlock()
	bar := &stubBar{opts: opts}
	b.bars = append(b.bars, bar)
	return bar
}

func (b *stubBackend) Write(_ io.Writer, msg string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.wrote = append(b.wrote, msg)
	return nil
}

func (b *stubBackend) Lock() sync.Locker { return b.lock }

func (b *stubBackend) SetLock(l sync.Locker) { b.lock = l }

type stubBar struct {
	opts     backend.Options
	adds     int
	finishes int
}

func (s *stubBar) Add(n int) error {
	s.adds += n
	return nil
}

func (s *stubBar) Finish() error {
	s.finishes++
	return nil
}
