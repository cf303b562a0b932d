// Package cflow builds the control-flow graph a procedure body lowers to:
// spec component 4.2. The representation is a dense, zero-based,
// forward-star graph — two flat slices plus singly linked out-edge lists
// threaded through them — rather than a map-of-slices adjacency list.
//
// Grounded on the teacher's graph.Graph (dshills/langgraph-go), which keeps
// nodes and edges in flat slices indexed by a stable integer ID; this
// package pushes that one step further into the forward-star layout spec.md
// §3 specifies, because cflow's node/edge counts are known to grow large for
// deeply nested generator bodies and the dispatch code in Build walks
// out-edges far more often than it looks an edge up by (source, target).
package cflow

import "github.com/aalbacetef/gocoro/internal/hostast"

// Dead is the cursor sentinel meaning "this thread of control has already
// terminated" (a break, continue, or return tail). AddEdge silently rejects
// any edge with Dead as its source, which is how orphaned chains such a
// tail might otherwise start never contaminate the graph. It shares its
// value with noEdge (both are "absent" in their respective contexts) but
// the two are never compared against each other.
const Dead = -1

// noEdge is the terminator for an out-edge or next-out-edge chain.
const noEdge = -1

// Start and Final are the two nodes every graph is seeded with: node 0 is
// the procedure's entry and always carries the start_stmt sentinel; node 1
// is the single exit and always carries the final_stmt sentinel.
const (
	Start = 0
	Final = 1
)

// Node is one CFG vertex: a payload (a user statement, a guard expression
// borrowed as a one-off label, or one of the six sentinel markers) plus the
// head of its forward-star out-edge list.
type Node struct {
	Payload hostast.Stmt
	OutHead int // index into Graph.Edges, or noEdge
}

// Edge is one forward-star out-edge: a source/target pair, a weight (the
// nop sentinel for an unconditional edge, an else_stmt sentinel for a
// fall-through, or an arbitrary guard expression), and the link to the
// source node's next out-edge.
type Edge struct {
	Source, Target int
	Weight          hostast.Stmt
	NextOut         int // index into Graph.Edges, or noEdge
}

// inDegree tracks, per node, how many edges target it and whether any of
// those edges carries a non-nop weight. The projector (spec component 4.3)
// reads both fields directly; cflow only ever writes them.
type inDegree struct {
	count     uint32
	hasNonNop bool
}

// Graph is the CFG produced by Build. Nodes and edges are append-only and
// referenced by their slice index, which is stable for the graph's
// lifetime — callers may hold onto a node or edge index across calls.
type Graph struct {
	Nodes []Node
	Edges []Edge

	inDeg []inDegree
}

// NewGraph allocates an empty graph pre-seeded with node 0 (start_stmt) and
// node 1 (final_stmt).
func NewGraph() *Graph {
	g := &Graph{}
	g.AddNode(hostast.Stmt{Kind: hostast.KindStart})
	g.AddNode(hostast.Stmt{Kind: hostast.KindFinal})
	return g
}

// AddNode appends a node carrying payload and returns its index.
func (g *Graph) AddNode(payload hostast.Stmt) int {
	idx := len(g.Nodes)
	g.Nodes = append(g.Nodes, Node{Payload: payload, OutHead: noEdge})
	g.inDeg = append(g.inDeg, inDegree{})
	return idx
}

// AddEdge appends an edge source->target carrying weight, threading it onto
// source's out-edge list and updating target's in-degree record. It reports
// whether the edge was admitted.
//
// Per spec.md §3's edge-admission rule, an edge is rejected — silently,
// this is routine graph hygiene rather than a user-facing error — if
// either endpoint is the Dead cursor sentinel, or if source has no incoming
// edges of its own and is not node 0. That second clause is what keeps a
// break/continue/return tail's orphaned successor nodes from ever becoming
// reachable: they were allocated, but nothing ever reaches the node that
// would have been their own source.
func (g *Graph) AddEdge(source, target int, weight hostast.Stmt) bool {
	if source == Dead || target == Dead {
		return false
	}
	if source != Start && g.inDeg[source].count == 0 {
		return false
	}

	idx := len(g.Edges)
	g.Edges = append(g.Edges, Edge{
		Source:  source,
		Target:  target,
		Weight:  weight,
		NextOut: g.Nodes[source].OutHead,
	})
	g.Nodes[source].OutHead = idx

	ind := &g.inDeg[target]
	ind.count++
	if weight.Kind != hostast.KindNop {
		ind.hasNonNop = true
	}
	return true
}

// InDegree reports how many edges target node n.
func (g *Graph) InDegree(n int) uint32 {
	return g.inDeg[n].count
}

// HasNonNopIncoming reports whether any edge targeting node n carries a
// non-nop weight (a guard expression or an else_stmt sentinel). The
// projector's merge rule (spec component 4.3) reads this directly.
func (g *Graph) HasNonNopIncoming(n int) bool {
	return g.inDeg[n].hasNonNop
}

// OutEdges returns the indices of node n's out-edges, in reverse insertion
// order (forward-star traversal order, not declaration order).
func (g *Graph) OutEdges(n int) []int {
	var out []int
	for e := g.Nodes[n].OutHead; e != noEdge; e = g.Edges[e].NextOut {
		out = append(out, e)
	}
	return out
}

// Predecessors returns every node with an edge into n. This is O(E) — cflow
// and project only call it from debug tooling and tests, never from the hot
// construction/projection path, both of which are purely forward (source to
// target) and never need the reverse edge.
func (g *Graph) Predecessors(n int) []int {
	var preds []int
	for _, e := range g.Edges {
		if e.Target == n {
			preds = append(preds, e.Source)
		}
	}
	return preds
}
