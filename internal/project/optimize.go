package project

import (
	"sort"

	"github.com/aalbacetef/gocoro/internal/cflow"
	"github.com/aalbacetef/gocoro/internal/sentinel"
)

// Optimize collapses states that carry nothing but sentinel nodes into
// whichever single state control actually flows to next, per spec.md §4.4.
// A state built entirely of start_node_stmt/end_node_stmt/nop markers emits
// no code of its own; keeping it as its own switch arm would just be a
// no-op arm that jumps straight to the next one. Folding it away shrinks
// the dispatch switch without changing any observable behavior.
//
// State 0 is never folded, even if node 0 happens to be sentinel-only
// (an empty procedure body, for instance): it is the state a fresh
// invocation always starts from, and the emitted dispatch switch relies on
// state 0 existing as a distinct arm. A suspension-successor state is never
// folded either, since it is the literal resumption point a future call
// must land on — collapsing it away would leave nothing for the next call
// to jump to.
func Optimize(g *cflow.Graph, p *Projection) *Projection {
	nodesByState := groupByState(p)

	eliminable := map[int]bool{}
	exitOf := map[int]int{}

	for s, nodes := range nodesByState {
		if s == 0 || (s < len(p.SuspensionSuccessor) && p.SuspensionSuccessor[s]) {
			continue
		}
		if !allSentinel(g, nodes) {
			continue
		}
		exit, ok := singleExitState(g, p, nodes)
		if !ok {
			continue
		}
		eliminable[s] = true
		exitOf[s] = exit
	}

	resolve := func(s int) int {
		seen := map[int]bool{}
		for eliminable[s] && !seen[s] {
			seen[s] = true
			s = exitOf[s]
		}
		return s
	}

	newState := make([]int, len(p.State))
	for i, s := range p.State {
		if s == -1 {
			newState[i] = -1
			continue
		}
		newState[i] = resolve(s)
	}

	remap, count := renumber(newState)
	finalState := make([]int, len(newState))
	suspSucc := make([]bool, count)
	for i, s := range newState {
		if s == -1 {
			finalState[i] = -1
			continue
		}
		ns := remap[s]
		finalState[i] = ns
		if s < len(p.SuspensionSuccessor) && p.SuspensionSuccessor[s] {
			suspSucc[ns] = true
		}
	}

	return &Projection{State: finalState, NodeCount: count, SuspensionSuccessor: suspSucc}
}

func groupByState(p *Projection) map[int][]int {
	out := map[int][]int{}
	for i, s := range p.State {
		if s == -1 {
			continue
		}
		out[s] = append(out[s], i)
	}
	return out
}

func allSentinel(g *cflow.Graph, nodes []int) bool {
	for _, ni := range nodes {
		if !sentinel.IsSentinel(g.Nodes[ni].Payload) {
			return false
		}
	}
	return true
}

// singleExitState reports the one state every edge leaving this node set
// leads to, if there is exactly one. A state whose sentinel nodes branch
// out to more than one distinct further state cannot be collapsed into a
// single successor and is left alone.
func singleExitState(g *cflow.Graph, p *Projection, nodes []int) (int, bool) {
	inSet := make(map[int]bool, len(nodes))
	for _, ni := range nodes {
		inSet[ni] = true
	}

	exit := -1
	found := false
	for _, ni := range nodes {
		for _, ei := range g.OutEdges(ni) {
			target := g.Edges[ei].Target
			if inSet[target] {
				continue
			}
			ts := p.State[target]
			if ts == -1 {
				continue
			}
			if !found {
				exit, found = ts, true
			} else if exit != ts {
				return 0, false
			}
		}
	}
	return exit, found
}

// renumber assigns dense state IDs 0..count-1 to the surviving state values
// in newState, preserving 0 -> 0.
func renumber(newState []int) (map[int]int, int) {
	seen := map[int]bool{}
	var order []int
	for _, s := range newState {
		if s == -1 || seen[s] {
			continue
		}
		seen[s] = true
		order = append(order, s)
	}
	sort.Ints(order)

	remap := make(map[int]int, len(order))
	for idx, s := range order {
		remap[s] = idx
	}
	return remap, len(order)
}
