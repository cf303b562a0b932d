// Package genfile is the concrete instantiation of the "host parser/printer"
// collaborator spec.md's PURPOSE & SCOPE places outside the core transform:
// it parses a .go file with go/parser, walks its declarations looking for
// functions carrying a `//gocoro:generate` directive, runs each one through
// gocoro.Rewrite, and re-prints the result with go/format.
package genfile

import (
	"bytes"
	"context"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"os"
	"strings"

	"github.com/aalbacetef/gocoro"
	"github.com/aalbacetef/gocoro/internal/pipeline"
)

// Result reports what RewriteFile did to one source file.
type Result struct {
	Path      string
	Rewritten []string // names of functions that were rewritten
}

// RewriteFile parses path, rewrites every `//gocoro:generate`-tagged
// function, and writes the result back to outPath (which may equal path
// for an in-place rewrite, or a `_gocoro.go` companion path otherwise).
func RewriteFile(ctx context.Context, path, outPath string, opts ...pipeline.Option) (Result, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
	if err != nil {
		return Result{}, fmt.Errorf("genfile: parse %s: %w", path, err)
	}

	res := Result{Path: outPath}
	for i, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || !isTagged(fn) {
			continue
		}

		rewritten, err := gocoro.Rewrite(ctx, fn, opts...)
		if err != nil {
			return Result{}, fmt.Errorf("genfile: rewrite %s: %w", fn.Name.Name, err)
		}
		file.Decls[i] = rewritten
		// The printer takes comments from file.Comments, so swap the old doc
		// group there too or the directive line is printed again.
		for j, cg := range file.Comments {
			if cg == fn.Doc {
				if rewritten.Doc != nil {
					file.Comments[j] = rewritten.Doc
				} else {
					file.Comments = append(file.Comments[:j], file.Comments[j+1:]...)
				}
				break
			}
		}
		res.Rewritten = append(res.Rewritten, fn.Name.Name)
	}

	if len(res.Rewritten) == 0 {
		return res, nil
	}

	var buf bytes.Buffer
	if err := format.Node(&buf, fset, file); err != nil {
		return Result{}, fmt.Errorf("genfile: format %s: %w", path, err)
	}

	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return Result{}, fmt.Errorf("genfile: write %s: %w", outPath, err)
	}
	return res, nil
}

// isTagged reports whether fn's doc comment carries a `//gocoro:generate`
// line.
func isTagged(fn *ast.FuncDecl) bool {
	if fn.Doc == nil {
		return false
	}
	for _, c := range fn.Doc.List {
		text := strings.TrimSpace(strings.TrimPrefix(c.Text, "//"))
		if strings.HasPrefix(text, gocoro.DirectiveMarker) {
			return true
		}
	}
	return false
}
