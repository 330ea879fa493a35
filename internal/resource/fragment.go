// Package resource holds the session's counters: two-level life and bomb
// counters and the score-side accumulators.
package resource

// FragmentCounter is a whole-unit counter with partial progress toward the
// next unit, e.g. lives and life pieces.
//
// After Update: 0 <= Fragment < Factor and 0 <= Completed <= Limit.
// Fragments that would carry past Limit are discarded.
type FragmentCounter struct {
	Completed int `msgpack:"completed" yaml:"completed"`
	Fragment  int `msgpack:"fragment" yaml:"fragment"`
	Factor    int `msgpack:"factor" yaml:"factor"`
	Limit     int `msgpack:"limit" yaml:"limit"`
}

// NewFragmentCounter returns a counter starting at completed whole units.
// A factor below 1 is treated as 1.
func NewFragmentCounter(factor, limit, completed int) FragmentCounter {
	c := FragmentCounter{Completed: completed, Factor: max(factor, 1), Limit: max(limit, 0)}
	c.Update()
	return c
}

// Update normalizes the counter: fragments carry into or borrow from whole
// units, then the result is clamped to [0, Limit].
func (c *FragmentCounter) Update() {
	if c.Factor < 1 {
		c.Factor = 1
	}
	if c.Fragment >= c.Factor {
		c.Completed += c.Fragment / c.Factor
		c.Fragment %= c.Factor
	}
	for c.Fragment < 0 && c.Completed > 0 {
		borrow := min((-c.Fragment+c.Factor-1)/c.Factor, c.Completed)
		c.Completed -= borrow
		c.Fragment += borrow * c.Factor
	}
	if c.Fragment < 0 {
		c.Fragment = 0
	}
	if c.Completed < 0 {
		c.Completed = 0
	}
	if c.Completed >= c.Limit {
		c.Completed = c.Limit
		c.Fragment = 0
	}
}

// AddFragment adds n fragments and normalizes.
func (c *FragmentCounter) AddFragment(n int) {
	c.Fragment += n
	c.Update()
}

// RemoveFragment removes n fragments, borrowing whole units as needed.
func (c *FragmentCounter) RemoveFragment(n int) {
	c.Fragment -= n
	c.Update()
}

// AddCompleted adds n whole units.
func (c *FragmentCounter) AddCompleted(n int) {
	c.Completed += n
	c.Update()
}

// RemoveCompleted removes n whole units. It reports whether the counter held
// at least n units before the call; the count never drops below zero.
func (c *FragmentCounter) RemoveCompleted(n int) bool {
	ok := c.Completed >= n
	c.Completed -= n
	c.Update()
	return ok
}

// Reset sets the counter to completed whole units and no fragments.
func (c *FragmentCounter) Reset(completed int) {
	c.Completed = completed
	c.Fragment = 0
	c.Update()
}

// Full reports whether the counter is at its limit.
func (c FragmentCounter) Full() bool { return c.Completed >= c.Limit }
