// Package task is the cooperative scripting runtime.
//
// A task advances exactly one step per logical tick. Scripts written as
// coroutines suspend only at Co.Yield; nothing else suspends them and nothing
// preempts them. Everything runs on the simulation thread.
package task

// Task is a resumable unit of scripted behavior.
type Task interface {
	// Tick advances the task by one step. It returns false once the task has
	// finished or been killed; a task that returned false is never resumed.
	Tick() bool
	// Kill stops the task synchronously. Cleanup runs inline before Kill
	// returns. Killing a dead task is a no-op.
	Kill()
	// Alive reports whether the task may still be resumed.
	Alive() bool
}

// Owner is anything a task can be bound to.
type Owner interface {
	Alive() bool
}

// state is the liveness flag shared by the simple task kinds.
type state struct {
	dead bool
}

func (s *state) Alive() bool { return !s.dead }
func (s *state) Kill()       { s.dead = true }

// FuncTask runs a step function once per tick until it returns false.
type FuncTask struct {
	state
	step  func(frame int) bool
	frame int
}

// Func returns a task that calls step every tick with the zero-based number
// of ticks it has already run. The task finishes when step returns false.
func Func(step func(frame int) bool) *FuncTask {
	return &FuncTask{step: step}
}

func (f *FuncTask) Tick() bool {
	if f.dead {
		return false
	}
	more := f.step(f.frame)
	f.frame++
	if !more {
		f.dead = true
	}
	return more
}

// Once returns a task that runs fn on its first tick and finishes.
func Once(fn func()) *FuncTask {
	return Func(func(int) bool {
		fn()
		return false
	})
}

// WaitTask consumes a fixed number of ticks.
type WaitTask struct {
	state
	remaining int
}

// Wait returns a task that stays alive for n ticks. Wait(0) finishes on its
// first tick.
func Wait(n int) *WaitTask {
	return &WaitTask{remaining: n}
}

func (w *WaitTask) Tick() bool {
	if w.dead {
		return false
	}
	w.remaining--
	if w.remaining <= 0 {
		w.dead = true
		return false
	}
	return true
}

// Remaining returns the number of ticks left.
func (w *WaitTask) Remaining() int { return max(w.remaining, 0) }

// UntilTask waits for a predicate.
type UntilTask struct {
	state
	pred func() bool
}

// Until returns a task that re-evaluates pred once per tick and finishes on
// the first tick it holds. A predicate that never holds waits forever.
func Until(pred func() bool) *UntilTask {
	return &UntilTask{pred: pred}
}

func (u *UntilTask) Tick() bool {
	if u.dead {
		return false
	}
	if u.pred() {
		u.dead = true
		return false
	}
	return true
}

// SequenceTask runs tasks one after another.
type SequenceTask struct {
	state
	tasks []Task
	pos   int
}

// Sequence returns a task that runs each of tasks to completion in order.
// When one finishes the next starts on the following tick.
func Sequence(tasks ...Task) *SequenceTask {
	return &SequenceTask{tasks: tasks}
}

func (s *SequenceTask) Tick() bool {
	for !s.dead {
		if s.pos >= len(s.tasks) {
			s.dead = true
			break
		}
		cur := s.tasks[s.pos]
		if !cur.Alive() {
			s.pos++
			continue
		}
		if !cur.Tick() {
			s.pos++
			if s.pos >= len(s.tasks) {
				s.dead = true
				return false
			}
		}
		return true
	}
	return false
}

func (s *SequenceTask) Kill() {
	if s.dead {
		return
	}
	s.dead = true
	for _, t := range s.tasks[s.pos:] {
		t.Kill()
	}
}

// Repeat returns a task that runs a fresh task from factory each time the
// previous one finishes. A non-positive count repeats forever.
func Repeat(count int, factory func(i int) Task) Task {
	i := 0
	var cur Task
	r := &repeatTask{}
	r.step = func() bool {
		if cur == nil || !cur.Alive() {
			if count > 0 && i >= count {
				return false
			}
			cur = factory(i)
			i++
		}
		cur.Tick()
		return true
	}
	r.kill = func() {
		if cur != nil {
			cur.Kill()
		}
	}
	return r
}

type repeatTask struct {
	state
	step func() bool
	kill func()
}

func (r *repeatTask) Tick() bool {
	if r.dead {
		return false
	}
	if !r.step() {
		r.dead = true
		return false
	}
	return true
}

func (r *repeatTask) Kill() {
	if r.dead {
		return
	}
	r.dead = true
	r.kill()
}

// BoundTask is a task with a weak back-reference to its owner.
type BoundTask struct {
	owner Owner
	inner Task
}

// Bind ties t to owner. The owner's liveness is checked before every step;
// once the owner is dead the task is killed and reports finished. The task
// never keeps the owner alive.
func Bind(owner Owner, t Task) *BoundTask {
	return &BoundTask{owner: owner, inner: t}
}

func (b *BoundTask) Tick() bool {
	if !b.inner.Alive() {
		return false
	}
	if !b.owner.Alive() {
		b.inner.Kill()
		return false
	}
	return b.inner.Tick()
}

func (b *BoundTask) Kill()       { b.inner.Kill() }
func (b *BoundTask) Alive() bool { return b.inner.Alive() && b.owner.Alive() }
