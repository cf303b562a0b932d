// Package sentinel provides the fixed catalog of marker statements the CFG
// builder and emitter use to steer graph construction and code emission,
// plus the classifiers that recognize suspension points in user code.
//
// Spec component 4.1. Sentinel identity here is the tagged-Kind redesign
// the spec's Design Notes recommend over textual comparison: constructing
// a sentinel just sets hostast.Stmt.Kind, and IsSentinel is a Kind check.
package sentinel

import (
	"fmt"
	"go/ast"

	"github.com/aalbacetef/gocoro/internal/hostast"
)

// The six sentinel constructors. Each returns a Stmt that is never emitted
// into output code; it only exists to be matched against during graph
// construction and emission.
func Nop() hostast.Stmt       { return hostast.Stmt{Kind: hostast.KindNop} }
func Start() hostast.Stmt     { return hostast.Stmt{Kind: hostast.KindStart} }
func Final() hostast.Stmt     { return hostast.Stmt{Kind: hostast.KindFinal} }
func StartNode() hostast.Stmt { return hostast.Stmt{Kind: hostast.KindStartNode} }
func EndNode() hostast.Stmt   { return hostast.Stmt{Kind: hostast.KindEndNode} }
func Else() hostast.Stmt      { return hostast.Stmt{Kind: hostast.KindElse} }

// IsSentinel reports whether s is a graph marker rather than user code.
func IsSentinel(s hostast.Stmt) bool {
	return s.IsSentinel()
}

// calleeName returns the identifier a call or bare-path expression is named
// after, and the call's arguments when it is a call. Non-call, non-ident
// expressions return ("", nil, false).
func calleeName(expr ast.Expr) (name string, args []ast.Expr, isCall bool) {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name, nil, false
	case *ast.CallExpr:
		if id, ok := e.Fun.(*ast.Ident); ok {
			return id.Name, e.Args, true
		}
	}
	return "", nil, false
}

// IsCoYieldOrCoReturnExpr reports whether expr is a bare or called
// co_yield/co_return pseudo-identifier.
func IsCoYieldOrCoReturnExpr(expr ast.Expr) bool {
	name, _, _ := calleeName(expr)
	return name == "co_yield" || name == "co_return"
}

// IsYieldOrReturn reports whether stmt is, with or without a trailing
// terminator, a co_yield/co_return call or path expression, or an early
// `return`. These are the only statement shapes that create a suspension.
func IsYieldOrReturn(stmt hostast.Stmt) bool {
	if stmt.Kind != hostast.KindUser || stmt.Node == nil {
		return false
	}
	switch n := stmt.Node.(type) {
	case *ast.ExprStmt:
		return IsCoYieldOrCoReturnExpr(n.X)
	case *ast.ReturnStmt:
		return true
	}
	return false
}

// Render produces the textual form to splice into emitted output for a
// non-sentinel statement, and reports whether it is a suspension.
//
// co_yield(x)/co_return(x) become `return x`; bare co_yield/co_return
// become a bare `return`; an early `return` renders verbatim and is marked
// suspending; every other statement renders verbatim and is not suspending.
// stmt.Terminated is carried through from the source but does not affect
// Go's textual form — Go statements don't have Rust's optional trailing-
// semicolon "is this a tail value" distinction — it is retained purely for
// parity with the spec's data model and is available to callers that want
// it (e.g. diagnostics).
func Render(stmt hostast.Stmt) (text string, suspends bool, err error) {
	if stmt.Kind != hostast.KindUser {
		return "", false, fmt.Errorf("sentinel: cannot render sentinel kind %s", stmt.Kind)
	}
	switch n := stmt.Node.(type) {
	case *ast.ExprStmt:
		if name, args, _ := calleeName(n.X); name == "co_yield" || name == "co_return" {
			var result ast.Expr
			if len(args) == 1 {
				result = args[0]
			} else if len(args) > 1 {
				return "", false, fmt.Errorf("sentinel: %s takes at most one argument, got %d", name, len(args))
			}
			text, err = hostast.Render(hostast.NewReturn(result))
			return text, true, err
		}
		text, err = hostast.Render(n)
		return text, false, err
	case *ast.ReturnStmt:
		text, err = hostast.Render(n)
		return text, true, err
	default:
		text, err = hostast.Render(stmt.Node)
		return text, false, err
	}
}
