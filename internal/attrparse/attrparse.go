// Package attrparse is gocoro's attribute reader: spec component 4.6. It
// recognizes exactly two options, `state = <expr>` and `ret_val = <expr>`,
// in a comma-separated list in either order, and resolves the two defaults
// spec.md §4.6 names (`self.state`, and "absent" for ret_val).
//
// Go has no macro-attribute syntax of its own, so the directive text this
// package parses comes from a `//gocoro:generate state=..., ret_val=...`
// comment above the generator function — see cmd/gocoro/internal/genfile,
// the concrete instantiation of the "host parser/printer" collaborator
// spec.md's PURPOSE & SCOPE places outside the core.
package attrparse

import (
	"fmt"
	"go/ast"
	"go/parser"
	"strings"

	"github.com/aalbacetef/gocoro/internal/hostast"
	"github.com/aalbacetef/gocoro/internal/xerrors"
)

// Directive is the parsed, defaulted configuration spec.md §4.6 describes.
type Directive struct {
	// StateExpr is the persisted state field path. Never nil.
	StateExpr hostast.Expr
	// RetVal is the default return expression, or nil when ret_val was not
	// given — "no value" per spec.md, not the zero value of some type.
	RetVal hostast.Expr
}

// DefaultStateExpr builds `self.state`, spec.md §4.6's default state path.
func DefaultStateExpr() hostast.Expr {
	return &ast.SelectorExpr{X: ast.NewIdent("self"), Sel: ast.NewIdent("state")}
}

// Parse reads a directive's raw option text — everything after the
// `//gocoro:generate` marker — into a Directive. An empty string is valid
// and yields both defaults. Anything that isn't a well-formed, comma
// separated `key=expr` list, or names a key other than the two spec.md
// §4.6 enumerates, is a malformed attribute and returns
// *xerrors.TransformError{Kind: AttributeParse}.
func Parse(raw string) (Directive, error) {
	d := Directive{StateExpr: DefaultStateExpr()}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return d, nil
	}

	for _, part := range splitTopLevel(raw, ',') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		key, val, ok := strings.Cut(part, "=")
		if !ok {
			return Directive{}, xerrors.AttrError(fmt.Sprintf("malformed directive option %q: expected key=expr", part))
		}
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)

		expr, err := parser.ParseExpr(val)
		if err != nil {
			return Directive{}, xerrors.AttrError(fmt.Sprintf("option %s: %v", key, err))
		}

		switch key {
		case "state":
			d.StateExpr = expr
		case "ret_val":
			d.RetVal = expr
		default:
			return Directive{}, xerrors.AttrError(fmt.Sprintf("unknown directive option %q", key))
		}
	}

	return d, nil
}

// splitTopLevel splits s on sep, ignoring separators nested inside
// parens/brackets/braces, so an argument like `ret_val=f(a, b)` isn't torn
// in half at its inner comma.
func splitTopLevel(s string, sep byte) []string {
	var out []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case sep:
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	out = append(out, s[start:])
	return out
}
