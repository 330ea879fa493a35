package task

import (
	bt "github.com/joeycumines/go-behaviortree"
)

// Behavior ticks a behavior tree once per logical tick. It finishes when the
// root returns Success or Failure, or when a node returns an error.
type Behavior struct {
	state
	node   bt.Node
	status bt.Status
	err    error
}

// NewBehavior wraps the tree rooted at node.
func NewBehavior(node bt.Node) *Behavior {
	return &Behavior{node: node}
}

func (b *Behavior) Tick() bool {
	if b.dead {
		return false
	}
	status, err := b.node.Tick()
	b.status = status
	if err != nil {
		b.err = err
		b.dead = true
		return false
	}
	if status == bt.Running {
		return true
	}
	b.dead = true
	return false
}

// Status returns the status of the last tick.
func (b *Behavior) Status() bt.Status { return b.status }

// Err returns the error that stopped the tree, if any.
func (b *Behavior) Err() error { return b.err }

// Leaf adapts a step function into a behavior tree leaf that reports Running
// while fn returns true and Success once it returns false.
func Leaf(fn func() bool) bt.Node {
	return bt.New(func([]bt.Node) (bt.Status, error) {
		if fn() {
			return bt.Running, nil
		}
		return bt.Success, nil
	})
}

// Condition adapts a predicate into a leaf that succeeds when pred holds and
// fails otherwise.
func Condition(pred func() bool) bt.Node {
	return bt.New(func([]bt.Node) (bt.Status, error) {
		if pred() {
			return bt.Success, nil
		}
		return bt.Failure, nil
	})
}

// Hold adapts a task into a leaf that reports Running while t is alive.
// The task restarts from where it left off on the next tick of the tree.
func Hold(t Task) bt.Node {
	return bt.New(func([]bt.Node) (bt.Status, error) {
		if t.Tick() {
			return bt.Running, nil
		}
		return bt.Success, nil
	})
}
