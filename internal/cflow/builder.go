package cflow

import (
	"go/ast"
	"go/token"

	"github.com/aalbacetef/gocoro/internal/hostast"
	"github.com/aalbacetef/gocoro/internal/sentinel"
	"github.com/aalbacetef/gocoro/internal/xerrors"
)

// loopFrame records one enclosing loop's entry and exit nodes, and the
// label attached to it (empty for an unlabeled loop).
type loopFrame struct {
	Name        string
	Entry, Exit int
}

// builder threads a cursor (the most recently appended node, or Dead) across
// a statement sequence, appending nodes and edges to graph as it goes. It
// holds two pieces of state across the whole walk: the stack of enclosing
// loop frames, searched innermost-first when resolving break/continue, and
// the current if/loop nesting depth, checked against maxDepth.
type builder struct {
	graph    *Graph
	frames   []loopFrame
	depth    int
	maxDepth int // 0 means unbounded
}

// Build lowers a procedure body — a flat list of real go/ast statements —
// into a CFG rooted at node 0 and draining into node 1. It is spec.md §4's
// single entry point into the core's first stage.
func Build(body []ast.Stmt) (*Graph, error) {
	return BuildWithLimit(body, 0)
}

// BuildWithLimit is Build with a cap on if/loop nesting depth
// (internal/pipeline's WithMaxBodyDepth), guarding against pathologically
// nested generator bodies recursing the lowering past a reasonable depth. A
// limit of 0 means unbounded, matching Build.
func BuildWithLimit(body []ast.Stmt, maxDepth int) (*Graph, error) {
	g := NewGraph()
	b := &builder{graph: g, maxDepth: maxDepth}

	tail, err := b.lowerStmts(Start, body)
	if err != nil {
		return nil, err
	}
	g.AddEdge(tail, Final, sentinel.Nop())
	return g, nil
}

// enterNesting increments the if/loop depth counter and fails with
// UnsupportedConstruct once maxDepth is exceeded; leaveNesting restores it.
func (b *builder) enterNesting(pos token.Pos) error {
	b.depth++
	if b.maxDepth > 0 && b.depth > b.maxDepth {
		return xerrors.Unsupported(pos, "nesting depth exceeds configured maximum")
	}
	return nil
}

func (b *builder) leaveNesting() {
	b.depth--
}

func (b *builder) lowerStmts(cursor int, stmts []ast.Stmt) (int, error) {
	for _, st := range stmts {
		var err error
		cursor, err = b.lowerStmt(cursor, st)
		if err != nil {
			return Dead, err
		}
	}
	return cursor, nil
}

func (b *builder) lowerStmt(cursor int, st ast.Stmt) (int, error) {
	switch s := st.(type) {
	case *ast.AssignStmt:
		return b.appendLocal(cursor, s)
	case *ast.DeclStmt:
		return b.lowerDecl(cursor, s)
	case *ast.ExprStmt:
		return b.lowerExprStmt(cursor, s)
	case *ast.IfStmt:
		return b.lowerIf(cursor, s)
	case *ast.ForStmt:
		return b.lowerFor(cursor, "", s)
	case *ast.LabeledStmt:
		return b.lowerLabeled(cursor, s)
	case *ast.BranchStmt:
		return b.lowerBranch(cursor, s)
	case *ast.ReturnStmt:
		return b.lowerReturn(cursor, s)
	case *ast.BlockStmt:
		return b.lowerStmts(cursor, s.List)
	case *ast.EmptyStmt:
		return cursor, nil
	default:
		return Dead, xerrors.Unsupported(st.Pos(), describeStmt(st))
	}
}

// lowerDecl admits a local var/const binding. A nested *type* declaration
// is an item declaration in spec.md's sense — the lowering has no concept of
// a block-scoped type and fails per spec.md §7's UnsupportedConstruct rule.
func (b *builder) lowerDecl(cursor int, s *ast.DeclStmt) (int, error) {
	gd, ok := s.Decl.(*ast.GenDecl)
	if !ok || gd.Tok == token.TYPE {
		return Dead, xerrors.Unsupported(s.Pos(), "item declaration")
	}
	return b.appendLocal(cursor, s)
}

// appendLocal handles the plain "local binding" shape: one node, one nop
// edge in from the cursor, cursor moves to the new node.
func (b *builder) appendLocal(cursor int, s ast.Stmt) (int, error) {
	node := b.graph.AddNode(hostast.User(s, true))
	b.graph.AddEdge(cursor, node, sentinel.Nop())
	return node, nil
}

// lowerExprStmt handles both ordinary expression statements and the
// co_yield/co_return suspension points: a suspending expression gets an
// extra end_node_stmt join appended after it, per spec.md §4's "extra-join
// node splitting" rule, so every successor of a suspension starts a fresh
// state at projection time.
func (b *builder) lowerExprStmt(cursor int, s *ast.ExprStmt) (int, error) {
	node := b.graph.AddNode(hostast.User(s, true))
	b.graph.AddEdge(cursor, node, sentinel.Nop())
	cursor = node

	if sentinel.IsCoYieldOrCoReturnExpr(s.X) {
		end := b.graph.AddNode(sentinel.EndNode())
		b.graph.AddEdge(node, end, sentinel.Nop())
		cursor = end
	}
	return cursor, nil
}

// lowerIf handles both `if` and `if/else`. The then-branch always gets a
// start_node_stmt entry and the whole statement drains into one shared
// end_node_stmt, whether or not an else arm is present.
func (b *builder) lowerIf(cursor int, s *ast.IfStmt) (int, error) {
	if err := b.enterNesting(s.Pos()); err != nil {
		return Dead, err
	}
	defer b.leaveNesting()

	if s.Init != nil {
		var err error
		cursor, err = b.lowerStmt(cursor, s.Init)
		if err != nil {
			return Dead, err
		}
	}

	end := b.graph.AddNode(sentinel.EndNode())
	thenStart := b.graph.AddNode(sentinel.StartNode())
	b.graph.AddEdge(cursor, thenStart, hostast.Guard(s.Cond))

	thenTail, err := b.lowerStmts(thenStart, s.Body.List)
	if err != nil {
		return Dead, err
	}
	b.graph.AddEdge(thenTail, end, sentinel.Nop())

	switch e := s.Else.(type) {
	case nil:
		b.graph.AddEdge(cursor, end, sentinel.Else())
	case *ast.BlockStmt:
		elseTail, err := b.lowerElseBranch(cursor, e.List)
		if err != nil {
			return Dead, err
		}
		b.graph.AddEdge(elseTail, end, sentinel.Nop())
	case *ast.IfStmt:
		elseTail, err := b.lowerElseBranch(cursor, []ast.Stmt{e})
		if err != nil {
			return Dead, err
		}
		b.graph.AddEdge(elseTail, end, sentinel.Nop())
	default:
		return Dead, xerrors.Unsupported(s.Pos(), "else arm")
	}

	return end, nil
}

// lowerElseBranch allocates the else arm's join node (a plain nop, not a
// start_node_stmt — the else arm shares the `if`'s else_stmt edge rather
// than getting its own guard) and lowers the arm's body from it.
func (b *builder) lowerElseBranch(cursor int, stmts []ast.Stmt) (int, error) {
	mid := b.graph.AddNode(sentinel.Nop())
	b.graph.AddEdge(cursor, mid, sentinel.Else())
	return b.lowerStmts(mid, stmts)
}

func (b *builder) lowerLabeled(cursor int, s *ast.LabeledStmt) (int, error) {
	forStmt, ok := s.Stmt.(*ast.ForStmt)
	if !ok {
		return Dead, xerrors.Unsupported(s.Pos(), "label on non-loop statement")
	}
	return b.lowerFor(cursor, s.Label.Name, forStmt)
}

// lowerFor handles both the unconditional loop (s.Cond == nil) and the
// conditional "while" loop. Both share one join node ("before") that every
// iteration re-enters through: the unconditional form always steps from
// before straight to the body; the conditional form splits before's one
// out-edge into a guard edge into the body and an else_stmt edge straight
// to the exit.
func (b *builder) lowerFor(cursor int, label string, s *ast.ForStmt) (int, error) {
	if err := b.enterNesting(s.Pos()); err != nil {
		return Dead, err
	}
	defer b.leaveNesting()

	if s.Init != nil {
		var err error
		cursor, err = b.lowerStmt(cursor, s.Init)
		if err != nil {
			return Dead, err
		}
	}

	before := b.graph.AddNode(sentinel.Nop())
	bodyStart := b.graph.AddNode(sentinel.StartNode())
	exit := b.graph.AddNode(sentinel.EndNode())

	b.graph.AddEdge(cursor, before, sentinel.Nop())
	if s.Cond == nil {
		b.graph.AddEdge(before, bodyStart, sentinel.Nop())
	} else {
		b.graph.AddEdge(before, bodyStart, hostast.Guard(s.Cond))
		b.graph.AddEdge(before, exit, sentinel.Else())
	}

	b.frames = append(b.frames, loopFrame{Name: label, Entry: before, Exit: exit})
	bodyTail, err := b.lowerStmts(bodyStart, s.Body.List)
	b.frames = b.frames[:len(b.frames)-1]
	if err != nil {
		return Dead, err
	}

	if s.Post != nil {
		postTail, err := b.lowerStmt(bodyTail, s.Post)
		if err != nil {
			return Dead, err
		}
		bodyTail = postTail
	}
	b.graph.AddEdge(bodyTail, before, sentinel.Nop())

	return exit, nil
}

// lowerBranch resolves a break/continue to its target loop frame and emits
// a single nop edge there. The cursor dies: nothing after a branch in the
// same statement sequence is reachable, and AddEdge's admission rule is
// what makes that fact stick without lowerStmt needing to special-case it.
func (b *builder) lowerBranch(cursor int, s *ast.BranchStmt) (int, error) {
	if s.Tok != token.BREAK && s.Tok != token.CONTINUE {
		return Dead, xerrors.Unsupported(s.Pos(), s.Tok.String())
	}

	name := ""
	if s.Label != nil {
		name = s.Label.Name
	}
	frame, err := b.resolveFrame(name)
	if err != nil {
		return Dead, err
	}

	target := frame.Exit
	if s.Tok == token.CONTINUE {
		target = frame.Entry
	}
	b.graph.AddEdge(cursor, target, sentinel.Nop())
	return Dead, nil
}

// resolveFrame finds the loop frame a break/continue targets. An unlabeled
// branch always targets the innermost frame. A labeled branch searches
// innermost-first for the nearest frame carrying that label — resolving the
// spec's Design Notes Open Question against "nearest matching frame only,"
// not every matching frame: if more than one enclosing frame shares the
// label (impossible for genuine Go source, since the language itself
// forbids duplicate labels in one function, but cflow does not assume its
// caller is always a Go parser), resolution fails loudly instead of
// silently fanning the edge out to all of them.
func (b *builder) resolveFrame(name string) (loopFrame, error) {
	if name == "" {
		if len(b.frames) == 0 {
			return loopFrame{}, xerrors.ErrBranchOutsideLoop
		}
		return b.frames[len(b.frames)-1], nil
	}

	var found *loopFrame
	for i := len(b.frames) - 1; i >= 0; i-- {
		if b.frames[i].Name != name {
			continue
		}
		if found != nil {
			return loopFrame{}, xerrors.ErrAmbiguousLabel
		}
		f := b.frames[i]
		found = &f
	}
	if found == nil {
		return loopFrame{}, xerrors.ErrLabelNotFound
	}
	return *found, nil
}

// lowerReturn handles an early return: one node holding the return
// statement, a nop edge in from the cursor, a nop edge straight to node 1.
// Like a branch, the cursor dies afterward.
func (b *builder) lowerReturn(cursor int, s *ast.ReturnStmt) (int, error) {
	node := b.graph.AddNode(hostast.User(s, true))
	b.graph.AddEdge(cursor, node, sentinel.Nop())
	b.graph.AddEdge(node, Final, sentinel.Nop())
	return Dead, nil
}

func describeStmt(st ast.Stmt) string {
	switch st.(type) {
	case *ast.SwitchStmt:
		return "switch statement"
	case *ast.TypeSwitchStmt:
		return "type switch statement"
	case *ast.SelectStmt:
		return "select statement"
	case *ast.GoStmt:
		return "go statement"
	case *ast.DeferStmt:
		return "defer statement"
	case *ast.RangeStmt:
		return "range loop"
	default:
		return "unrecognized statement"
	}
}
