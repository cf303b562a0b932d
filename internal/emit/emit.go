// Package stmtemit is gocoro's code generator: spec component 4.5. It
// serializes an optimized state projection into a single outer dispatch
// loop — an infinite `for` wrapping a `switch` on the persisted state field —
// that re-enacts the original procedure's control flow one resumption at a
// time.
//
// The package name (stmtemit, not emit) keeps it from colliding with
// internal/pipeline/emit, the unrelated observability Emitter gocoro's
// ambient stack borrows from the teacher — one emits workflow events, this
// one emits Go statements.
package stmtemit

import (
	"fmt"
	"go/parser"
	"go/token"
	"strings"

	"github.com/aalbacetef/gocoro/internal/cflow"
	"github.com/aalbacetef/gocoro/internal/hostast"
	"github.com/aalbacetef/gocoro/internal/project"
	"github.com/aalbacetef/gocoro/internal/sentinel"
	"github.com/aalbacetef/gocoro/internal/xerrors"
)

// outerLabel names the emitted dispatch loop. Safe to hardcode: the CFG
// flattens every original loop into states and edges, so no user label ever
// reaches the emitted body — labels only ever steered graph construction
// (cflow's loop-frame stack), they are never themselves spliced into output
// text.
const outerLabel = "gocoroOuter"

// Config carries the two attribute-driven knobs spec.md §4.6 exposes: where
// the persisted state lives, and what a terminated generator returns to a
// caller that keeps calling it.
type Config struct {
	// StateExpr is the persisted state field path, e.g. `self.state`. Never
	// nil — attrparse.Parse fills in the `self.state` default.
	StateExpr hostast.Expr
	// RetVal is the default return expression spliced after the dispatch
	// loop, or nil when none was configured (no final return is emitted).
	RetVal hostast.Expr
}

// Emit builds the dispatch block spec.md §4.5 describes from an already
// optimized projection (the caller runs project.Project then
// project.Optimize first) and reparses the assembled text to catch a
// malformed splice before it ever reaches the host compiler, reporting it
// as *xerrors.TransformError{Kind: EmissionParse}.
func Emit(g *cflow.Graph, p *project.Projection, cfg Config) (string, error) {
	stateExprText, err := hostast.RenderExpr(cfg.StateExpr)
	if err != nil {
		return "", fmt.Errorf("stmtemit: render state expr: %w", err)
	}

	e := &emitter{g: g, p: p, stateExprText: stateExprText, terminal: p.NodeCount}
	arms, err := e.build()
	if err != nil {
		return "", err
	}

	out, err := assemble(stateExprText, arms, e.terminal, cfg.RetVal)
	if err != nil {
		return "", err
	}

	if err := reparse(out); err != nil {
		return "", xerrors.EmissionError(err)
	}
	return out, nil
}

type emitter struct {
	g             *cflow.Graph
	p             *project.Projection
	stateExprText string
	terminal      int
}

// stateOf returns the arm key a node's own code and incoming transitions use.
// cflow.Final is special-cased to the reserved terminal sentinel (spec.md
// §4.5: "Node count + 1 is the sentinel 'terminated' state") rather than
// whatever ordinary number the projector happened to assign it, decoupling
// "where generated code jumps to terminate" from the dense 0..NodeCount-1
// numbering the rest of the switch uses.
func (e *emitter) stateOf(n int) int {
	if n == cflow.Final {
		return e.terminal
	}
	return e.p.State[n]
}

// build walks the graph in BFS order from node 0, emitting each reachable
// node's code into the buffer for its arm exactly once, and translating
// each outgoing edge into the transition text spec.md §4.5 describes.
// Because project.Optimize has already folded each sentinel-only state that
// drains into a single successor state into that successor, no further
// "skip unused states" logic is needed here: a folded node's own state
// equals its successor's, so its transition emission degenerates to a no-op
// automatically. Sentinel-only states that were not folded still get arms.
func (e *emitter) build() (map[int]*strings.Builder, error) {
	arms := map[int]*strings.Builder{}
	seen := make([]bool, len(e.g.Nodes))

	getArm := func(s int) *strings.Builder {
		if b, ok := arms[s]; ok {
			return b
		}
		b := &strings.Builder{}
		arms[s] = b
		return b
	}

	queue := []int{cflow.Start}
	seen[cflow.Start] = true

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]

		payload := e.g.Nodes[n].Payload
		buf := getArm(e.stateOf(n))

		switch {
		case n == cflow.Final:
			buf.WriteString("break " + outerLabel + "\n")
		case !sentinel.IsSentinel(payload) && !sentinel.IsYieldOrReturn(payload):
			text, err := hostast.Render(payload.Node)
			if err != nil {
				return nil, fmt.Errorf("stmtemit: render node %d: %w", n, err)
			}
			buf.WriteString(text)
			buf.WriteString("\n")
		}

		for _, ei := range e.outEdgesInOrder(n) {
			edge := e.g.Edges[ei]
			if !seen[edge.Target] {
				seen[edge.Target] = true
				queue = append(queue, edge.Target)
			}
			if err := e.emitTransition(buf, n, edge, payload); err != nil {
				return nil, err
			}
		}
	}

	return arms, nil
}

// outEdgesInOrder restores declaration order. Graph.OutEdges walks the
// forward-star singly-linked list, which prepends on insert and so yields
// edges in reverse of the order cflow.Build added them — but spec.md §4.5
// requires guard edges to be emitted before their else_stmt fall-through, so
// emission needs the original order back.
func (e *emitter) outEdgesInOrder(n int) []int {
	raw := e.g.OutEdges(n)
	out := make([]int, len(raw))
	for i, v := range raw {
		out[len(raw)-1-i] = v
	}
	return out
}

// emitTransition renders one edge n->target as text appended to n's arm,
// per spec.md §4.5's four cases: a guard expression becomes a conditional
// jump that must `continue` past the rest of the arm (the else_stmt case
// that follows it); an else_stmt fall-through is the unconditional tail of
// the arm; a suspension's single nop edge is the one place persistence and
// the rendered `return` meet; any other nop edge crossing into a new state
// just writes the state forward and lets the switch's natural fall-out
// re-dispatch it on the next turn of the outer loop — no explicit continue
// needed, because a Go switch never falls through case bodies on its own.
func (e *emitter) emitTransition(buf *strings.Builder, n int, edge cflow.Edge, nodePayload hostast.Stmt) error {
	s := e.stateOf(n)
	t := e.stateOf(edge.Target)
	w := edge.Weight

	switch w.Kind {
	case hostast.KindElse:
		fmt.Fprintf(buf, "%s = %d\n", e.stateExprText, t)
	case hostast.KindNop:
		if sentinel.IsYieldOrReturn(nodePayload) {
			text, _, err := sentinel.Render(nodePayload)
			if err != nil {
				return fmt.Errorf("stmtemit: render suspension: %w", err)
			}
			fmt.Fprintf(buf, "%s = %d\n%s\n", e.stateExprText, t, text)
			return nil
		}
		if t != s {
			fmt.Fprintf(buf, "%s = %d\n", e.stateExprText, t)
		}
	default:
		// Any other weight carries a guard expression (an `if`/`while`
		// condition), the one user-expression shape an edge weight takes.
		guard := w.GuardExpr()
		if guard == nil {
			return fmt.Errorf("stmtemit: edge %d->%d has unrenderable weight", n, edge.Target)
		}
		exprText, err := hostast.RenderExpr(guard)
		if err != nil {
			return fmt.Errorf("stmtemit: render guard: %w", err)
		}
		fmt.Fprintf(buf, "if %s {\n%s = %d\ncontinue %s\n}\n", exprText, e.stateExprText, t, outerLabel)
	}
	return nil
}

// assemble wraps the per-arm text into the final block, ordering arms with
// state 0 first and the terminal sentinel last (the order is, per spec.md
// §3, "observable but not semantically significant" — ascending order
// reads naturally since project.Optimize's renumbering already runs
// 0..NodeCount-1 densely).
func assemble(stateExprText string, arms map[int]*strings.Builder, terminal int, retVal hostast.Expr) (string, error) {
	var b strings.Builder
	b.WriteString("{\n")
	fmt.Fprintf(&b, "%s:\n\tfor {\n\t\tswitch %s {\n", outerLabel, stateExprText)

	for _, s := range orderKeys(arms, terminal) {
		fmt.Fprintf(&b, "\t\tcase %d:\n", s)
		b.WriteString(indent(arms[s].String()))
	}
	b.WriteString("\t\tdefault:\n\t\t\tbreak " + outerLabel + "\n")
	b.WriteString("\t\t}\n\t}\n")

	if retVal != nil {
		text, err := hostast.RenderExpr(retVal)
		if err != nil {
			return "", fmt.Errorf("stmtemit: render ret_val: %w", err)
		}
		fmt.Fprintf(&b, "\treturn %s\n", text)
	}
	b.WriteString("}\n")
	return b.String(), nil
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	var b strings.Builder
	for _, l := range lines {
		if l == "" {
			continue
		}
		b.WriteString("\t\t\t")
		b.WriteString(l)
		b.WriteString("\n")
	}
	return b.String()
}

// orderKeys returns arms' state keys sorted with 0 first, terminal last,
// everything else ascending in between.
func orderKeys(arms map[int]*strings.Builder, terminal int) []int {
	keys := make([]int, 0, len(arms))
	for s := range arms {
		keys = append(keys, s)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && rank(keys[j-1], terminal) > rank(keys[j], terminal); j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}

func rank(s, terminal int) int {
	if s == 0 {
		return -1
	}
	if s == terminal {
		return terminal + 1
	}
	return s
}

// reparse feeds the assembled block back through go/parser as a function
// body, exactly as spec.md §7 describes EmissionParse: "the emitter
// assembled a block whose text cannot be reparsed."
func reparse(block string) error {
	src := "package p\nfunc gocoroReparseCheck() " + block
	fset := token.NewFileSet()
	_, err := parser.ParseFile(fset, "", src, 0)
	return err
}
