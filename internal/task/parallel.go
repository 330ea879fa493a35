package task

import (
	"github.com/vovakirdan/tui-danmaku/internal/arena"
)

// Compaction bounds for a Parallel's child storage.
const (
	parallelBlankThreshold = 32
	parallelCeiling        = 4096
)

type child struct {
	task  Task
	index int
}

// Parallel ticks an ordered set of sibling tasks.
//
// Children added while the Parallel is ticking, including those a child
// spawns during its own step, start on the next Tick. Finished children are
// nulled in place and compacted lazily.
type Parallel struct {
	children arena.Slots[*child]
	pending  []*child
	next     int
	root     bool
	ticking  bool
	dead     bool
}

// NewParallel returns a Parallel that finishes once it has no children left.
func NewParallel(tasks ...Task) *Parallel {
	p := &Parallel{}
	for _, t := range tasks {
		p.Add(t)
	}
	return p
}

// NewRoot returns a Parallel that stays alive while empty. Entities and
// sessions use it as the attachment point for their scripts.
func NewRoot() *Parallel {
	return &Parallel{root: true}
}

// Add attaches t and returns its attachment index. Indices increase in
// attachment order; siblings tick in that order.
func (p *Parallel) Add(t Task) int {
	c := &child{task: t, index: p.next}
	p.next++
	if p.dead {
		t.Kill()
		return c.index
	}
	p.pending = append(p.pending, c)
	return c.index
}

// Go attaches a coroutine running script.
func (p *Parallel) Go(script Script) *Coroutine {
	co := Go(script)
	p.Add(co)
	return co
}

func (p *Parallel) Tick() bool {
	if p.dead {
		return false
	}
	for _, c := range p.pending {
		p.children.Add(c)
	}
	clear(p.pending)
	p.pending = p.pending[:0]

	p.ticking = true
	p.children.Each(func(i int, c *child) bool {
		if !c.task.Alive() || !c.task.Tick() {
			p.children.Null(i)
		}
		return !p.dead
	})
	p.ticking = false

	if p.dead {
		return false
	}
	if p.children.NeedsCompaction(parallelBlankThreshold, parallelCeiling) {
		p.children.Compact()
	}
	if !p.root && p.Len() == 0 {
		p.dead = true
		return false
	}
	return true
}

// Kill kills every child, pending ones included, in attachment order.
func (p *Parallel) Kill() {
	if p.dead {
		return
	}
	p.dead = true
	p.children.Each(func(i int, c *child) bool {
		c.task.Kill()
		p.children.Null(i)
		return true
	})
	for _, c := range p.pending {
		c.task.Kill()
	}
	p.pending = nil
	if !p.ticking {
		p.children.Reset()
	}
}

// Clear kills every child but leaves the Parallel itself alive.
func (p *Parallel) Clear() {
	p.children.Each(func(i int, c *child) bool {
		c.task.Kill()
		p.children.Null(i)
		return true
	})
	for _, c := range p.pending {
		c.task.Kill()
	}
	p.pending = p.pending[:0]
}

func (p *Parallel) Alive() bool { return !p.dead }

// Len returns the number of live and pending children.
func (p *Parallel) Len() int {
	return p.children.Len() + len(p.pending)
}

// Indices returns the attachment indices of the current children in tick
// order. Pending children come last.
func (p *Parallel) Indices() []int {
	out := make([]int, 0, p.Len())
	p.children.Each(func(_ int, c *child) bool {
		out = append(out, c.index)
		return true
	})
	for _, c := range p.pending {
		out = append(out, c.index)
	}
	return out
}
