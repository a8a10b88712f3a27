package compare

import "testing"

func TestHungarianAssignPicksMinimumCostPerfectMatching(t *testing.T) {
	cost := [][]float64{
		{1, 2, 3},
		{2, 1, 3},
		{3, 3, 1},
	}
	assign := hungarianAssign(cost)
	if len(assign) != 3 {
		t.Fatalf("expected 3 assignments, got %d", len(assign))
	}
	for i, j := range assign {
		if j < 0 {
			t.Fatalf("row %d left unassigned in a square all-finite matrix", i)
		}
	}
	// the diagonal is strictly cheapest, so the optimal assignment is identity.
	want := []int{0, 1, 2}
	for i := range want {
		if assign[i] != want[i] {
			t.Errorf("row %d: want col %d, got %d", i, want[i], assign[i])
		}
	}
}

func TestHungarianAssignLeavesForbiddenPairsUnassigned(t *testing.T) {
	cost := [][]float64{
		{hungarianInf, hungarianInf},
		{hungarianInf, hungarianInf},
	}
	assign := hungarianAssign(cost)
	for i, j := range assign {
		if j != -1 {
			t.Errorf("row %d: expected unassigned, got col %d", i, j)
		}
	}
}

func TestHungarianAssignHandlesEmptyMatrix(t *testing.T) {
	if got := hungarianAssign(nil); got != nil {
		t.Errorf("expected nil result for empty matrix, got %v", got)
	}
}

func TestHungarianAssignHandlesRectangularMatrix(t *testing.T) {
	cost := [][]float64{
		{1, 5},
		{5, 1},
		{2, 2},
	}
	assign := hungarianAssign(cost)
	if len(assign) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(assign))
	}
	seen := map[int]bool{}
	for _, j := range assign {
		if j < 0 {
			continue
		}
		if seen[j] {
			t.Fatalf("column %d assigned more than once", j)
		}
		seen[j] = true
	}
}
