// Package arena provides tombstoned slice storage for containers that remove
// elements while they are being iterated.
package arena

// Slots stores values in insertion order. Removing a value nulls its slot
// (sets it to the zero value) instead of shifting later elements, so indices
// stay stable until Compact is called at a safe point.
type Slots[T comparable] struct {
	items []T
	live  int
	blank int
}

// Add appends v and returns its slot index.
func (s *Slots[T]) Add(v T) int {
	s.items = append(s.items, v)
	s.live++
	return len(s.items) - 1
}

// Remove locates v by identity and nulls its slot.
// It reports whether v was found.
func (s *Slots[T]) Remove(v T) bool {
	var zero T
	if v == zero {
		return false
	}
	for i, it := range s.items {
		if it == v {
			s.Null(i)
			return true
		}
	}
	return false
}

// Null clears slot i. Clearing an already empty slot is a no-op.
func (s *Slots[T]) Null(i int) {
	var zero T
	if i < 0 || i >= len(s.items) || s.items[i] == zero {
		return
	}
	s.items[i] = zero
	s.live--
	s.blank++
}

// At returns the value in slot i and whether the slot is occupied.
func (s *Slots[T]) At(i int) (T, bool) {
	var zero T
	if i < 0 || i >= len(s.items) {
		return zero, false
	}
	v := s.items[i]
	return v, v != zero
}

// Each calls fn for every occupied slot in storage order. Slots appended
// during iteration are not visited. Returning false stops the iteration.
func (s *Slots[T]) Each(fn func(i int, v T) bool) {
	var zero T
	n := len(s.items)
	for i := 0; i < n; i++ {
		v := s.items[i]
		if v == zero {
			continue
		}
		if !fn(i, v) {
			return
		}
	}
}

// Len returns the number of occupied slots.
func (s *Slots[T]) Len() int { return s.live }

// Cap returns the number of slots, occupied or not.
func (s *Slots[T]) Cap() int { return len(s.items) }

// Blank returns the number of nulled slots since the last compaction.
func (s *Slots[T]) Blank() int { return s.blank }

// NeedsCompaction reports whether the blank count exceeds threshold or the
// slot count exceeds ceiling. A non-positive bound is ignored.
func (s *Slots[T]) NeedsCompaction(threshold, ceiling int) bool {
	if threshold > 0 && s.blank > threshold {
		return true
	}
	return ceiling > 0 && len(s.items) > ceiling
}

// Compact drops every empty slot, preserving the relative order of the rest.
// It returns the number of slots removed.
func (s *Slots[T]) Compact() int {
	var zero T
	kept := s.items[:0]
	for _, v := range s.items {
		if v != zero {
			kept = append(kept, v)
		}
	}
	removed := len(s.items) - len(kept)
	clear(s.items[len(kept):])
	s.items = kept
	s.blank = 0
	return removed
}

// Reset empties the container.
func (s *Slots[T]) Reset() {
	clear(s.items)
	s.items = s.items[:0]
	s.live = 0
	s.blank = 0
}
