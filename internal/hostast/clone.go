package hostast

import "go/ast"

// Clone deep-copies a real go/ast statement so the CFG can store it as a
// node or edge payload without aliasing the caller's tree. Only the node
// shapes gocoro actually builds or consumes are handled; anything else is
// returned as-is (a shallow alias), which is safe because those shapes are
// always leaves gocoro never mutates in place.
func Clone(stmt ast.Stmt) ast.Stmt {
	switch s := stmt.(type) {
	case nil:
		return nil
	case *ast.ExprStmt:
		return &ast.ExprStmt{X: CloneExpr(s.X)}
	case *ast.AssignStmt:
		return &ast.AssignStmt{
			Lhs: cloneExprList(s.Lhs),
			Tok: s.Tok,
			Rhs: cloneExprList(s.Rhs),
		}
	case *ast.ReturnStmt:
		return &ast.ReturnStmt{Results: cloneExprList(s.Results)}
	case *ast.BranchStmt:
		b := &ast.BranchStmt{Tok: s.Tok}
		if s.Label != nil {
			b.Label = ast.NewIdent(s.Label.Name)
		}
		return b
	case *ast.DeclStmt:
		return &ast.DeclStmt{Decl: s.Decl}
	case *ast.BlockStmt:
		out := make([]ast.Stmt, len(s.List))
		for i, st := range s.List {
			out[i] = Clone(st)
		}
		return &ast.BlockStmt{List: out}
	default:
		return stmt
	}
}

// CloneExpr deep-copies the expression shapes gocoro builds or inspects
// (identifiers, selectors, calls, literals, binary/unary guards). Anything
// else is returned as-is since gocoro treats unrecognized expressions as
// opaque guard text, never mutating them.
func CloneExpr(expr ast.Expr) ast.Expr {
	switch e := expr.(type) {
	case nil:
		return nil
	case *ast.Ident:
		return ast.NewIdent(e.Name)
	case *ast.BasicLit:
		cp := *e
		return &cp
	case *ast.SelectorExpr:
		return &ast.SelectorExpr{X: CloneExpr(e.X), Sel: ast.NewIdent(e.Sel.Name)}
	case *ast.CallExpr:
		return &ast.CallExpr{Fun: CloneExpr(e.Fun), Args: cloneExprList(e.Args)}
	case *ast.BinaryExpr:
		return &ast.BinaryExpr{X: CloneExpr(e.X), Op: e.Op, Y: CloneExpr(e.Y)}
	case *ast.UnaryExpr:
		return &ast.UnaryExpr{Op: e.Op, X: CloneExpr(e.X)}
	case *ast.ParenExpr:
		return &ast.ParenExpr{X: CloneExpr(e.X)}
	default:
		return expr
	}
}

func cloneExprList(in []ast.Expr) []ast.Expr {
	if in == nil {
		return nil
	}
	out := make([]ast.Expr, len(in))
	for i, e := range in {
		out[i] = CloneExpr(e)
	}
	return out
}
