package resource

import (
	"math/rand/v2"
	"testing"
)

func TestAddFragmentCarries(t *testing.T) {
	c := NewFragmentCounter(3, 8, 0)
	c.AddFragment(7)

	if c.Completed != 2 || c.Fragment != 1 {
		t.Errorf("after AddFragment(7): completed=%d fragment=%d, expected 2, 1", c.Completed, c.Fragment)
	}
}

func TestFragmentCounterOperations(t *testing.T) {
	tests := []struct {
		name      string
		start     FragmentCounter
		op        func(c *FragmentCounter)
		completed int
		fragment  int
	}{
		{"add within unit", FragmentCounter{Factor: 5, Limit: 8}, func(c *FragmentCounter) { c.AddFragment(4) }, 0, 4},
		{"add exact unit", FragmentCounter{Factor: 5, Limit: 8}, func(c *FragmentCounter) { c.AddFragment(5) }, 1, 0},
		{"overflow clamps and discards", FragmentCounter{Completed: 7, Fragment: 2, Factor: 3, Limit: 8}, func(c *FragmentCounter) { c.AddFragment(5) }, 8, 0},
		{"remove borrows", FragmentCounter{Completed: 4, Fragment: 0, Factor: 3, Limit: 8}, func(c *FragmentCounter) { c.RemoveFragment(5) }, 2, 1},
		{"remove past zero", FragmentCounter{Completed: 1, Fragment: 1, Factor: 3, Limit: 8}, func(c *FragmentCounter) { c.RemoveFragment(10) }, 0, 0},
		{"add completed clamps", FragmentCounter{Completed: 6, Fragment: 2, Factor: 3, Limit: 8}, func(c *FragmentCounter) { c.AddCompleted(5) }, 8, 0},
		{"remove completed keeps fragments", FragmentCounter{Completed: 3, Fragment: 2, Factor: 3, Limit: 8}, func(c *FragmentCounter) { c.RemoveCompleted(1) }, 2, 2},
		{"zero factor treated as one", FragmentCounter{Factor: 0, Limit: 8}, func(c *FragmentCounter) { c.AddFragment(3) }, 3, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := tc.start
			tc.op(&c)
			if c.Completed != tc.completed || c.Fragment != tc.fragment {
				t.Errorf("got (%d, %d), expected (%d, %d)", c.Completed, c.Fragment, tc.completed, tc.fragment)
			}
		})
	}
}

func TestRemoveCompletedReportsShortfall(t *testing.T) {
	c := NewFragmentCounter(3, 8, 1)
	if !c.RemoveCompleted(1) {
		t.Error("removing the last unit should succeed")
	}
	if c.RemoveCompleted(1) {
		t.Error("removing from an empty counter should fail")
	}
	if c.Completed != 0 {
		t.Errorf("Completed = %d, expected 0", c.Completed)
	}
}

// TestFragmentCounterInvariant drives random operation sequences and checks
// the bounds after every call.
func TestFragmentCounterInvariant(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))

	for trial := 0; trial < 200; trial++ {
		factor := 1 + r.IntN(6)
		limit := r.IntN(10)
		c := NewFragmentCounter(factor, limit, r.IntN(limit+1))

		for step := 0; step < 100; step++ {
			n := r.IntN(20)
			switch r.IntN(4) {
			case 0:
				c.AddFragment(n)
			case 1:
				c.RemoveFragment(n)
			case 2:
				c.AddCompleted(n % 4)
			case 3:
				c.RemoveCompleted(n % 4)
			}

			if c.Fragment < 0 || c.Fragment >= c.Factor {
				t.Fatalf("trial %d step %d: fragment %d outside [0, %d)", trial, step, c.Fragment, c.Factor)
			}
			if c.Completed < 0 || c.Completed > c.Limit {
				t.Fatalf("trial %d step %d: completed %d outside [0, %d]", trial, step, c.Completed, c.Limit)
			}
		}
	}
}

func TestCountersScoreAndHighScore(t *testing.T) {
	c := New(Settings{
		Life:      NewFragmentCounter(3, 8, 2),
		Bomb:      NewFragmentCounter(5, 8, 3),
		HighScore: 100,
		Credits:   1,
	})

	c.AddScore(60)
	if c.HighScoreAchieved {
		t.Error("60 should not beat the high score of 100")
	}
	c.AddScore(60)
	if !c.HighScoreAchieved || c.HighScore != 120 {
		t.Errorf("HighScore = %d achieved=%v, expected 120 true", c.HighScore, c.HighScoreAchieved)
	}
}

func TestCountersDeathAndContinue(t *testing.T) {
	c := New(Settings{
		Life:    NewFragmentCounter(3, 8, 1),
		Bomb:    NewFragmentCounter(5, 8, 3),
		Credits: 1,
	})
	c.Bomb.RemoveCompleted(2)
	c.AddScore(500)

	if !c.LoseLife() {
		t.Fatal("first death should consume the spare life")
	}
	if c.Bomb.Completed != 3 {
		t.Errorf("bombs should reset to 3 on death, got %d", c.Bomb.Completed)
	}
	if c.LoseLife() {
		t.Fatal("second death should report no life left")
	}

	if !c.Continue() {
		t.Fatal("continue should succeed with one credit")
	}
	if c.Life.Completed != 1 || c.Credits != 0 || c.Continues != 1 || c.Score != 1 {
		t.Errorf("after continue: %+v", c)
	}
	if c.Continue() {
		t.Error("continue without credits should fail")
	}
}
