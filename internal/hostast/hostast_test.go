package hostast

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"
)

func parseExpr(t *testing.T, src string) ast.Expr {
	t.Helper()
	expr, err := parser.ParseExpr(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return expr
}

func TestStmtKind_String(t *testing.T) {
	tests := map[StmtKind]string{
		KindUser:      "user",
		KindNop:       "nop",
		KindStart:     "start_stmt",
		KindFinal:     "final_stmt",
		KindStartNode: "start_node_stmt",
		KindEndNode:   "end_node_stmt",
		KindElse:      "else_stmt",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", k, got, want)
		}
	}
}

func TestIsSentinel(t *testing.T) {
	if (Stmt{Kind: KindUser}).IsSentinel() {
		t.Error("KindUser should not be a sentinel")
	}
	if !(Stmt{Kind: KindNop}).IsSentinel() {
		t.Error("KindNop should be a sentinel")
	}
}

func TestGuardExpr(t *testing.T) {
	g := Guard(parseExpr(t, "x > 0"))
	if g.GuardExpr() == nil {
		t.Fatal("expected a guard expression")
	}
	if (Stmt{Kind: KindNop}).GuardExpr() != nil {
		t.Error("a sentinel should carry no guard expression")
	}
}

func TestUser_ClonesAndRendersVerbatim(t *testing.T) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "t.go", "package p\nfunc f() { x := 1 }", 0)
	if err != nil {
		t.Fatal(err)
	}
	orig := file.Decls[0].(*ast.FuncDecl).Body.List[0]

	stmt := User(orig, true)
	if stmt.Node == orig {
		t.Error("expected User to clone, not alias, the statement")
	}
	text, err := Render(stmt.Node)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if text != "x := 1" {
		t.Errorf("text = %q, want %q", text, "x := 1")
	}
}

func TestRenderExpr(t *testing.T) {
	text, err := RenderExpr(parseExpr(t, "a.b(1, 2)"))
	if err != nil {
		t.Fatalf("RenderExpr: %v", err)
	}
	if text != "a.b(1, 2)" {
		t.Errorf("text = %q, want %q", text, "a.b(1, 2)")
	}
}

func TestNewReturn(t *testing.T) {
	bare := NewReturn(nil)
	if len(bare.Results) != 0 {
		t.Errorf("expected a bare return, got %d results", len(bare.Results))
	}
	withVal := NewReturn(NewIdent("x"))
	if len(withVal.Results) != 1 {
		t.Fatalf("expected one result, got %d", len(withVal.Results))
	}
}

func TestNewBranch(t *testing.T) {
	b := NewBranch(token.BREAK, "")
	if b.Label != nil {
		t.Error("expected no label")
	}
	labeled := NewBranch(token.CONTINUE, "outer")
	if labeled.Label == nil || labeled.Label.Name != "outer" {
		t.Error("expected label \"outer\"")
	}
}

func TestNewAssign(t *testing.T) {
	a := NewAssign(NewIdent("s"), NewIdent("1"))
	text, err := Render(a)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if text != "s = 1" {
		t.Errorf("text = %q, want %q", text, "s = 1")
	}
}

func TestClone_DeepCopiesNestedExprs(t *testing.T) {
	orig := parseExpr(t, "a.b + 1").(*ast.BinaryExpr)
	cloned := CloneExpr(orig).(*ast.BinaryExpr)
	if cloned == orig || cloned.X == orig.X {
		t.Error("expected CloneExpr to deep copy, not alias")
	}
	origSel := orig.X.(*ast.SelectorExpr)
	clonedSel := cloned.X.(*ast.SelectorExpr)
	if clonedSel.Sel.Name != origSel.Sel.Name {
		t.Errorf("cloned selector name = %q, want %q", clonedSel.Sel.Name, origSel.Sel.Name)
	}
}

func TestClone_BlockStmtRecurses(t *testing.T) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "t.go", "package p\nfunc f() { if true { x := 1; _ = x } }", 0)
	if err != nil {
		t.Fatal(err)
	}
	ifStmt := file.Decls[0].(*ast.FuncDecl).Body.List[0].(*ast.IfStmt)
	cloned := Clone(ifStmt.Body).(*ast.BlockStmt)
	if len(cloned.List) != len(ifStmt.Body.List) {
		t.Fatalf("expected %d cloned statements, got %d", len(ifStmt.Body.List), len(cloned.List))
	}
	if cloned.List[0] == ifStmt.Body.List[0] {
		t.Error("expected nested statements to be cloned, not aliased")
	}
}
