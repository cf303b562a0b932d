// Package project maps a CFG onto the small integer "resumption state"
// space a generator's dispatch loop switches on: spec components 4.3 and
// 4.4.
//
// Grounded on the teacher's graph scheduler (dshills/langgraph-go,
// graph/scheduler.go), which assigns each runnable node a position in a
// bounded execution frontier; here the frontier is static and computed once
// ahead of time rather than advanced at run time, but the shape of the
// problem — partition a graph into groups that can share one resumption
// point — is the same one the teacher's checkpoint/resume machinery solves.
package project

import (
	"github.com/aalbacetef/gocoro/internal/cflow"
	"github.com/aalbacetef/gocoro/internal/sentinel"
	"github.com/aalbacetef/gocoro/internal/xerrors"
)

// Projection is the result of projecting a CFG's nodes onto states. State[i]
// is the state node i belongs to, or -1 if node i is unreachable from node
// 0 (and so was never assigned one). NodeCount is the number of distinct
// state values in use (states are numbered densely from 0).
type Projection struct {
	State     []int
	NodeCount int
	// SuspensionSuccessor[s] is true when state s is the resumption point
	// immediately after a co_yield/co_return/return — the one place
	// Optimize must never fold away even if every node it holds is a
	// sentinel, because it is the literal target the dispatch switch jumps
	// to on the next call.
	SuspensionSuccessor []bool
}

// Project assigns every CFG node reachable from node 0 a resumption state,
// per spec.md §4.3's merge rule:
//
//   - node 0 always gets state 0.
//   - a node with more than one incoming edge, or any incoming edge
//     carrying a non-nop weight (a guard or an else_stmt), always gets a
//     fresh state: control can arrive there from more than one place, or
//     conditionally, so it cannot simply inherit a predecessor's state.
//   - a node with exactly one incoming nop edge inherits its single
//     predecessor's state, UNLESS that predecessor is a suspension point
//     (co_yield, co_return, or an early return) — the node right after a
//     suspension is where the next call into the generator resumes, so it
//     always starts a fresh state regardless of its in-degree.
func Project(g *cflow.Graph) (*Projection, error) {
	n := len(g.Nodes)
	preds := predecessorLists(g, n)

	state := make([]int, n)
	assigned := make([]bool, n)
	fresh := make([]bool, n)
	for i := range state {
		state[i] = -1
	}

	state[cflow.Start] = 0
	assigned[cflow.Start] = true

	for i := 1; i < n; i++ {
		if len(preds[i]) == 0 {
			continue
		}
		if len(preds[i]) > 1 || g.HasNonNopIncoming(i) {
			fresh[i] = true
		}
	}

	suspensionSuccessor := []bool{false} // state 0 is never a suspension successor
	next := 1
	for changed := true; changed; {
		changed = false
		for i := 1; i < n; i++ {
			if assigned[i] || len(preds[i]) == 0 {
				continue
			}
			if fresh[i] {
				state[i] = next
				suspensionSuccessor = growBool(suspensionSuccessor, next, false)
				next++
				assigned[i] = true
				changed = true
				continue
			}

			p := preds[i][0]
			if !assigned[p] {
				continue
			}
			if sentinel.IsYieldOrReturn(g.Nodes[p].Payload) {
				state[i] = next
				suspensionSuccessor = growBool(suspensionSuccessor, next, true)
				next++
			} else {
				state[i] = state[p]
			}
			assigned[i] = true
			changed = true
		}
	}

	for i := 1; i < n; i++ {
		if len(preds[i]) > 0 && !assigned[i] {
			return nil, xerrors.ErrUnreachableState
		}
	}

	return &Projection{State: state, NodeCount: next, SuspensionSuccessor: suspensionSuccessor}, nil
}

func predecessorLists(g *cflow.Graph, n int) [][]int {
	preds := make([][]int, n)
	for _, e := range g.Edges {
		preds[e.Target] = append(preds[e.Target], e.Source)
	}
	return preds
}

func growBool(s []bool, idx int, v bool) []bool {
	for len(s) <= idx {
		s = append(s, false)
	}
	s[idx] = v
	return s
}
