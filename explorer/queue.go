package explorer

import (
	"github.com/ardanlabs/c2ffi/cdecl"
	"github.com/ardanlabs/c2ffi/frontend"
)

// Node is a unit of work in one of the explorer queues.
type Node struct {
	Kind cdecl.Kind
	Name string

	// Cursor is the declaration site, or the referencing site for anonymous
	// function pointers.
	Cursor frontend.Cursor
	// Type is the resolved type the classifier produced for the node.
	Type frontend.Type
	// PointerType is the pointer through which a function pointer was
	// reached; it carries the pointer size.
	PointerType frontend.Type

	// Parent is the node whose exploration discovered this one; nil for
	// nodes seeded from the translation unit.
	Parent *Node

	Macro *cdecl.MacroObject
}

// TopLevel reports whether the node was seeded from the translation unit.
func (n *Node) TopLevel() bool {
	return n.Parent == nil
}

type phase int

const (
	phaseSeed phase = iota
	phaseVariables
	phaseFunctions
	phaseTypes
	phaseDone
)

func (p phase) String() string {
	switch p {
	case phaseSeed:
		return "seed"
	case phaseVariables:
		return "variables"
	case phaseFunctions:
		return "functions"
	case phaseTypes:
		return "types"
	}
	return "done"
}

// queue is a FIFO of nodes for one phase.
type queue struct {
	phase phase
	nodes []*Node
	head  int
}

func (q *queue) push(n *Node) {
	q.nodes = append(q.nodes, n)
}

func (q *queue) pop() (*Node, bool) {
	if q.head == len(q.nodes) {
		return nil, false
	}
	n := q.nodes[q.head]
	q.nodes[q.head] = nil
	q.head++
	return n, true
}

func (q *queue) len() int {
	return len(q.nodes) - q.head
}
