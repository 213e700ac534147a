// Package overlap precomputes which pairs of requests conflict in time, so
// the optimiser never has to compare two requests' intervals twice.
package overlap

import "github.com/dries007/ProjectAI-CarSharing/internal/model"

// Index is a symmetric, irreflexive conflict matrix over a fixed set of
// requests, indexed by Request.Index. Two requests overlap (and therefore
// cannot share the same vehicle) when their [RealStart, RealEnd] intervals
// touch or intersect — the comparison is closed at both ends, matching the
// reference implementation's predicate exactly (see DESIGN.md).
type Index struct {
	n    int
	bits []bool  // row-major n*n, bits[i*n+j] == overlap between i and j
	rows [][]int // rows[i] = sorted indices j with bits[i*n+j] == true
}

// Build computes the overlap matrix for the given requests in O(n^2) time.
// Requests must be indexed 0..len(requests)-1 via their Index field.
func Build(requests []*model.Request) *Index {
	n := len(requests)
	idx := &Index{
		n:    n,
		bits: make([]bool, n*n),
		rows: make([][]int, n),
	}

	for i := 0; i < n; i++ {
		a := requests[i]
		for j := i + 1; j < n; j++ {
			b := requests[j]
			first, second := a, b
			if first.RealStart() > second.RealStart() {
				first, second = second, first
			}
			if first.RealEnd() >= second.RealStart() {
				idx.set(i, j)
				idx.set(j, i)
			}
		}
	}

	for i := 0; i < n; i++ {
		row := make([]int, 0)
		for j := 0; j < n; j++ {
			if idx.bits[i*n+j] {
				row = append(row, j)
			}
		}
		idx.rows[i] = row
	}

	return idx
}

func (idx *Index) set(i, j int) {
	idx.bits[i*idx.n+j] = true
}

// Overlaps reports whether requests i and j conflict. i == j is always false.
func (idx *Index) Overlaps(i, j int) bool {
	if i == j {
		return false
	}
	return idx.bits[i*idx.n+j]
}

// Row returns the indices that overlap with request i, in ascending order.
// The returned slice must not be mutated by callers.
func (idx *Index) Row(i int) []int {
	return idx.rows[i]
}

// Len returns the number of requests the index was built for.
func (idx *Index) Len() int {
	return idx.n
}
