package overlap_test

import (
	"testing"

	"github.com/dries007/ProjectAI-CarSharing/internal/model"
	"github.com/dries007/ProjectAI-CarSharing/internal/overlap"
)

func req(day, start, duration int) *model.Request {
	return &model.Request{Day: day, Start: start, Duration: duration}
}

// TestOverlapClosedInterval is property P4: overlap iff [real_start,
// real_end] of both requests touch or intersect, closed at both ends.
func TestOverlapClosedInterval(t *testing.T) {
	tests := []struct {
		name string
		a, b *model.Request
		want bool
	}{
		{"disjoint", req(0, 0, 60), req(0, 120, 60), false},
		{"touching-at-boundary", req(0, 0, 60), req(0, 60, 60), true},
		{"overlapping", req(0, 0, 60), req(0, 30, 60), true},
		{"identical", req(0, 0, 60), req(0, 0, 60), true},
		{"nested", req(0, 0, 120), req(0, 30, 10), true},
		{"cross-day disjoint", req(0, 0, 60), req(1, 0, 60), false},
		{"cross-day touching", req(0, 23 * 60, 60), req(1, 0, 60), true},
	}

	for i := range tests {
		tests[i].a.Index = 0
		tests[i].b.Index = 1
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			idx := overlap.Build([]*model.Request{tc.a, tc.b})
			if got := idx.Overlaps(0, 1); got != tc.want {
				t.Errorf("Overlaps(0,1) = %v, want %v", got, tc.want)
			}
			if got := idx.Overlaps(1, 0); got != tc.want {
				t.Errorf("Overlaps(1,0) = %v, want %v (not symmetric)", got, tc.want)
			}
		})
	}
}

func TestOverlapIrreflexive(t *testing.T) {
	r := req(0, 0, 60)
	r.Index = 0
	idx := overlap.Build([]*model.Request{r})
	if idx.Overlaps(0, 0) {
		t.Fatalf("a request must never overlap itself")
	}
}

func TestRowMatchesOverlaps(t *testing.T) {
	a, b, c := req(0, 0, 60), req(0, 30, 60), req(0, 200, 10)
	a.Index, b.Index, c.Index = 0, 1, 2
	idx := overlap.Build([]*model.Request{a, b, c})

	row := idx.Row(0)
	if len(row) != 1 || row[0] != 1 {
		t.Fatalf("Row(0) = %v, want [1]", row)
	}

	if idx.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", idx.Len())
	}
}
