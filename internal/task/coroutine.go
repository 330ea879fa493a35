package task

import (
	"iter"
)

// Script is the body of a coroutine task.
type Script func(co *Co)

// Co is the handle a running script uses to suspend itself.
type Co struct {
	yield  func(struct{}) bool
	frame  int
	killed bool
}

// stopped is raised inside a script when its coroutine has been killed, so
// the script unwinds through its deferred calls.
type stopped struct{}

// Yield suspends the script until the next tick. It is the only suspension
// point. If the coroutine was killed while suspended, Yield does not return:
// the script unwinds and its deferred functions run as cleanup.
func (c *Co) Yield() {
	if c.killed || !c.yield(struct{}{}) {
		panic(stopped{})
	}
}

// Wait yields n times.
func (c *Co) Wait(n int) {
	for i := 0; i < n; i++ {
		c.Yield()
	}
}

// WaitUntil yields until pred holds. pred is evaluated once per tick,
// starting immediately.
func (c *Co) WaitUntil(pred func() bool) {
	for !pred() {
		c.Yield()
	}
}

// Run drives t from inside the script, one step per tick, until it finishes.
func (c *Co) Run(t Task) {
	for t.Tick() {
		c.Yield()
	}
}

// Frame returns the number of ticks the script has been resumed on, counting
// the current one from zero.
func (c *Co) Frame() int { return c.frame }

// Coroutine runs a Script as a stackful coroutine. The body starts on the
// first Tick and runs until its first Yield; every later Tick resumes it
// from the last Yield.
type Coroutine struct {
	co      *Co
	next    func() (struct{}, bool)
	stop    func()
	dead    bool
	running bool
}

// Go wraps script in a coroutine task.
func Go(script Script) *Coroutine {
	co := &Co{}
	seq := func(yield func(struct{}) bool) {
		defer func() {
			if r := recover(); r != nil {
				if _, ok := r.(stopped); !ok {
					panic(r)
				}
			}
		}()
		co.yield = yield
		script(co)
	}
	next, stop := iter.Pull(seq)
	return &Coroutine{co: co, next: next, stop: stop}
}

func (c *Coroutine) Tick() bool {
	if c.dead {
		return false
	}
	c.running = true
	_, ok := c.next()
	c.running = false
	c.co.frame++
	if !ok || c.dead {
		c.dead = true
		c.stop()
		return false
	}
	return true
}

// Kill unwinds a suspended script, running its deferred cleanup before
// returning. A script that never started is discarded without running.
// A script that kills its own coroutine unwinds at its next Yield.
func (c *Coroutine) Kill() {
	if c.dead {
		return
	}
	c.dead = true
	c.co.killed = true
	if !c.running {
		c.stop()
	}
}

func (c *Coroutine) Alive() bool { return !c.dead }
