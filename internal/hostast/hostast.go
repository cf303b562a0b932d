// Package hostast is the thin seam between gocoro's transform packages and
// the real host AST: go/ast, go/token, and go/printer.
//
// PURPOSE & SCOPE places the host parser/printer out of the core's scope —
// it is an external collaborator. hostast is that collaborator's Go-side
// face: CFG payloads are the Stmt/Expr vocabulary declared here. Stmt and
// Expr alias go/ast types, and cflow, sentinel and stmtemit also import
// go/ast directly (cflow.Build lowers a []ast.Stmt).
//
// Stmt is a tagged union rather than a bare ast.Stmt for one concrete
// reason: go/ast's Stmt interface carries an unexported marker method, so
// no type outside package ast can implement it — a sentinel marker type
// could never satisfy ast.Stmt. The Design Notes' recommended redesign
// ("a tagged variant payload, six distinct tags plus a user statement tag")
// sidesteps that entirely and is what gocoro implements: one struct, a Kind
// enum, and a payload that is only meaningful for the user-statement tag.
package hostast

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/token"
)

// Expr is a host expression: a guard condition, a co_yield/co_return
// argument, or a state/ret_val path.
type Expr = ast.Expr

// StmtKind tags a Stmt as one of the six sentinel markers or ordinary user
// code. The zero value is KindUser so an accidentally zero-valued Stmt
// behaves as "not a sentinel" rather than silently matching one.
type StmtKind int

const (
	// KindUser is an ordinary statement (or, on an edge weight, an
	// arbitrary guard expression) cloned from the original procedure body.
	KindUser StmtKind = iota
	// KindNop marks an unconditional edge; never emitted.
	KindNop
	// KindStart marks node 0, the procedure's entry.
	KindStart
	// KindFinal marks node 1, the procedure's single exit.
	KindFinal
	// KindStartNode marks the first node of a branch/loop body.
	KindStartNode
	// KindEndNode marks the join point after a branch or loop.
	KindEndNode
	// KindElse marks the fall-through edge of a conditional.
	KindElse
)

func (k StmtKind) String() string {
	switch k {
	case KindUser:
		return "user"
	case KindNop:
		return "nop"
	case KindStart:
		return "start_stmt"
	case KindFinal:
		return "final_stmt"
	case KindStartNode:
		return "start_node_stmt"
	case KindEndNode:
		return "end_node_stmt"
	case KindElse:
		return "else_stmt"
	default:
		return "unknown"
	}
}

// Stmt is gocoro's statement representation: an opaque fragment of host
// syntax with three shapes the CFG cares about (spec data model §3) when
// Kind == KindUser — a local binding, a bare expression statement, or an
// expression statement with an explicit trailing terminator — plus the six
// sentinel shapes used only to steer graph construction and emission.
type Stmt struct {
	Kind StmtKind
	// Node holds the cloned go/ast statement for KindUser. When a Stmt is
	// used as an edge weight carrying a guard expression, Node is an
	// *ast.ExprStmt wrapping that expression; see GuardExpr.
	Node ast.Stmt
	// Terminated records whether the source had an explicit trailing
	// terminator on this expression statement. Only meaningful for
	// KindUser expression statements; see Render.
	Terminated bool
}

// IsSentinel reports whether s is one of the six graph markers rather than
// emittable user code.
func (s Stmt) IsSentinel() bool {
	return s.Kind != KindUser
}

// GuardExpr returns the expression an edge weight carries, or nil if the
// weight is not a user expression (e.g. it is Nop or Else).
func (s Stmt) GuardExpr() Expr {
	if s.Kind != KindUser {
		return nil
	}
	if es, ok := s.Node.(*ast.ExprStmt); ok {
		return es.X
	}
	return nil
}

// User wraps a real statement cloned from the procedure body.
func User(node ast.Stmt, terminated bool) Stmt {
	return Stmt{Kind: KindUser, Node: Clone(node), Terminated: terminated}
}

// Guard wraps an expression for use as an edge weight (an `if` or `while`
// condition).
func Guard(expr Expr) Stmt {
	return Stmt{Kind: KindUser, Node: &ast.ExprStmt{X: CloneExpr(expr)}}
}

// Render prints a real ast.Stmt back to Go source text using go/format, the
// same pretty-printer gofmt itself uses.
func Render(stmt ast.Stmt) (string, error) {
	var buf bytes.Buffer
	if err := format.Node(&buf, token.NewFileSet(), stmt); err != nil {
		return "", fmt.Errorf("hostast: render stmt: %w", err)
	}
	return buf.String(), nil
}

// RenderExpr prints an expression back to Go source text.
func RenderExpr(expr Expr) (string, error) {
	var buf bytes.Buffer
	if err := format.Node(&buf, token.NewFileSet(), expr); err != nil {
		return "", fmt.Errorf("hostast: render expr: %w", err)
	}
	return buf.String(), nil
}

// NewIdent builds a bare identifier expression.
func NewIdent(name string) *ast.Ident {
	return ast.NewIdent(name)
}

// NewCall builds a call expression fun(args...).
func NewCall(fun Expr, args ...Expr) *ast.CallExpr {
	return &ast.CallExpr{Fun: fun, Args: args}
}

// NewReturn builds a return statement with zero or one result.
func NewReturn(result Expr) *ast.ReturnStmt {
	if result == nil {
		return &ast.ReturnStmt{}
	}
	return &ast.ReturnStmt{Results: []Expr{result}}
}

// NewBranch builds a break or continue statement, optionally labeled.
func NewBranch(tok token.Token, label string) *ast.BranchStmt {
	b := &ast.BranchStmt{Tok: tok}
	if label != "" {
		b.Label = ast.NewIdent(label)
	}
	return b
}

// NewAssign builds a state assignment `lhs = rhs`.
func NewAssign(lhs, rhs Expr) *ast.AssignStmt {
	return &ast.AssignStmt{Lhs: []Expr{lhs}, Tok: token.ASSIGN, Rhs: []Expr{rhs}}
}
