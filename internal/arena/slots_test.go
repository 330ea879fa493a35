package arena

import (
	"math/rand/v2"
	"slices"
	"testing"
)

type item struct{ id int }

func collect(s *Slots[*item]) []int {
	var ids []int
	s.Each(func(_ int, v *item) bool {
		ids = append(ids, v.id)
		return true
	})
	return ids
}

func TestSlotsRemoveNullsWithoutShifting(t *testing.T) {
	var s Slots[*item]
	a, b, c := &item{1}, &item{2}, &item{3}
	s.Add(a)
	s.Add(b)
	s.Add(c)

	if !s.Remove(b) {
		t.Fatal("Remove(b) should find b")
	}
	if s.Remove(b) {
		t.Error("second Remove(b) should report not found")
	}
	if s.Len() != 2 || s.Cap() != 3 || s.Blank() != 1 {
		t.Errorf("Len/Cap/Blank = %d/%d/%d, expected 2/3/1", s.Len(), s.Cap(), s.Blank())
	}
	if v, ok := s.At(2); !ok || v != c {
		t.Error("slot 2 should still hold c")
	}
	if _, ok := s.At(1); ok {
		t.Error("slot 1 should be empty")
	}
}

func TestSlotsRemoveDuringIteration(t *testing.T) {
	var s Slots[*item]
	items := make([]*item, 6)
	for i := range items {
		items[i] = &item{i}
		s.Add(items[i])
	}

	var visited []int
	s.Each(func(i int, v *item) bool {
		visited = append(visited, v.id)
		if v.id == 1 {
			s.Remove(items[3])
			s.Add(&item{99})
		}
		return true
	})

	expected := []int{0, 1, 2, 4, 5}
	if !slices.Equal(visited, expected) {
		t.Errorf("visited = %v, expected %v", visited, expected)
	}
	if got := collect(&s); !slices.Equal(got, []int{0, 1, 2, 4, 5, 99}) {
		t.Errorf("after iteration = %v", got)
	}
}

func TestSlotsCompactPreservesOrder(t *testing.T) {
	var s Slots[*item]
	items := make([]*item, 10)
	for i := range items {
		items[i] = &item{i}
		s.Add(items[i])
	}
	for _, i := range []int{0, 3, 4, 9} {
		s.Remove(items[i])
	}

	if removed := s.Compact(); removed != 4 {
		t.Errorf("Compact() = %d, expected 4", removed)
	}
	if s.Cap() != 6 || s.Blank() != 0 || s.Len() != 6 {
		t.Errorf("Len/Cap/Blank = %d/%d/%d after compaction", s.Len(), s.Cap(), s.Blank())
	}
	if got := collect(&s); !slices.Equal(got, []int{1, 2, 5, 6, 7, 8}) {
		t.Errorf("order after compaction = %v", got)
	}
}

func TestNeedsCompaction(t *testing.T) {
	tests := []struct {
		name      string
		added     int
		removed   int
		threshold int
		ceiling   int
		expected  bool
	}{
		{"below both", 10, 2, 5, 100, false},
		{"blank over threshold", 10, 6, 5, 100, true},
		{"blank equal threshold", 10, 5, 5, 100, false},
		{"slots over ceiling", 101, 0, 5, 100, true},
		{"bounds disabled", 1000, 999, 0, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var s Slots[*item]
			for i := 0; i < tc.added; i++ {
				s.Add(&item{i})
			}
			for i := 0; i < tc.removed; i++ {
				s.Null(i)
			}
			if got := s.NeedsCompaction(tc.threshold, tc.ceiling); got != tc.expected {
				t.Errorf("NeedsCompaction() = %v, expected %v", got, tc.expected)
			}
		})
	}
}

// TestSlotsLiveSetMatchesModel checks that after any interleaving of adds,
// removes and compactions the iterated set equals the reference set.
func TestSlotsLiveSetMatchesModel(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	var s Slots[*item]
	var model []*item
	next := 0

	for step := 0; step < 5000; step++ {
		switch op := r.IntN(10); {
		case op < 5:
			it := &item{next}
			next++
			s.Add(it)
			model = append(model, it)
		case op < 9 && len(model) > 0:
			i := r.IntN(len(model))
			s.Remove(model[i])
			model = slices.Delete(model, i, i+1)
		default:
			if s.NeedsCompaction(16, 256) {
				s.Compact()
			}
		}

		if s.Len() != len(model) {
			t.Fatalf("step %d: Len() = %d, model has %d", step, s.Len(), len(model))
		}
	}

	var want []int
	for _, it := range model {
		want = append(want, it.id)
	}
	if got := collect(&s); !slices.Equal(got, want) {
		t.Errorf("live set diverged from model")
	}
}

func TestSlotsReset(t *testing.T) {
	var s Slots[*item]
	s.Add(&item{1})
	s.Add(&item{2})
	s.Null(0)
	s.Reset()
	if s.Len() != 0 || s.Cap() != 0 || s.Blank() != 0 {
		t.Error("Reset should empty the container")
	}
}
