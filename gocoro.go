// Package gocoro rewrites a generator-style Go function — one whose body
// contains co_yield, co_return, and ordinary early return — into a
// resumable state machine backed by a persisted integer state field.
//
// Rewrite is the single entry point spec.md §4.6 describes, gluing the
// five core stages together: internal/cflow builds the control-flow graph,
// internal/project assigns and optimizes resumption states, internal/emit
// serializes the dispatch loop, and internal/attrparse resolves the two
// `//gocoro:generate` directive options that configure it.
package gocoro

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"time"

	"github.com/aalbacetef/gocoro/internal/advisor"
	"github.com/aalbacetef/gocoro/internal/attrparse"
	"github.com/aalbacetef/gocoro/internal/cache"
	"github.com/aalbacetef/gocoro/internal/cflow"
	stmtemit "github.com/aalbacetef/gocoro/internal/emit"
	"github.com/aalbacetef/gocoro/internal/hostast"
	"github.com/aalbacetef/gocoro/internal/pipeline"
	"github.com/aalbacetef/gocoro/internal/pipeline/emit"
	"github.com/aalbacetef/gocoro/internal/project"
	"github.com/aalbacetef/gocoro/internal/xerrors"
)

// DirectiveMarker is the comment text cmd/gocoro's file walker
// (cmd/gocoro/internal/genfile) looks for above a generator function:
//
//	//gocoro:generate state=self.s, ret_val=0
//
// Go has no procedural-attribute-macro mechanism, so a leading-comment
// directive is gocoro's stand-in for the host language's attribute syntax.
const DirectiveMarker = "gocoro:generate"

// Rewrite lowers fn's body to a CFG, projects it onto resumption states,
// optimizes the projection, and replaces fn.Body with the emitted dispatch
// loop. fn's signature, type parameters, and every doc comment other than
// the directive line are preserved verbatim. Rewrite does not mutate fn;
// it returns a new *ast.FuncDecl.
//
// The directive is read from a `//gocoro:generate` line in fn.Doc. Options
// passed via opts (pipeline.WithStatePath, pipeline.WithRetVal) take
// priority over the directive comment, for callers driving gocoro
// programmatically rather than through cmd/gocoro.
//
// ctx bounds the two optional network-backed stages: a cfg.Cache lookup
// and a cfg.Advisor explanation. Neither is reached unless the caller
// wired one in via pipeline.WithCache / pipeline.WithAdvisor.
func Rewrite(ctx context.Context, fn *ast.FuncDecl, opts ...pipeline.Option) (*ast.FuncDecl, error) {
	cfg, err := pipeline.NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	started := time.Now()
	fail := func(err error) (*ast.FuncDecl, error) {
		if cfg.Metrics != nil {
			cfg.Metrics.ObserveError(errorKind(err))
		}
		return nil, err
	}

	if fn.Body == nil {
		return fail(xerrors.Unsupported(fn.Pos(), "function with no body"))
	}

	directive, err := resolveDirective(fn, cfg)
	if err != nil {
		return fail(err)
	}
	var trace []string
	emitStage := func(ev emit.Event) {
		cfg.Emitter.Emit(ev)
		trace = append(trace, fmt.Sprintf("[%s] %s", ev.Stage, ev.Msg))
	}
	emitStage(emit.Event{Stage: emit.StageAttr, Fn: fn.Name.Name, Msg: "directive resolved"})

	bodyText, renderErr := hostast.Render(fn.Body)
	if renderErr != nil {
		bodyText = fn.Name.Name
	}
	sourceHash := cache.HashSource(bodyText, rawDirective(fn.Doc)+"|"+cfg.StatePath+"|"+cfg.RetVal)

	if cfg.Cache != nil {
		if entry, err := cfg.Cache.Get(ctx, sourceHash); err == nil {
			body, err := parseBlock(entry.EmittedText)
			if err != nil {
				return fail(xerrors.EmissionError(err))
			}
			emitStage(emit.Event{Stage: emit.StageEmit, Fn: fn.Name.Name, Msg: "cache hit"})
			if cfg.Metrics != nil {
				cfg.Metrics.ObserveRewrite(entry.CFGNodes, entry.StatesAssigned, entry.StatesFinal, time.Since(started))
			}
			out := *fn
			out.Body = body
			out.Doc = stripDirective(fn.Doc)
			return &out, nil
		}
	}

	g, err := cflow.BuildWithLimit(fn.Body.List, cfg.MaxBodyDepth)
	if err != nil {
		return fail(err)
	}
	emitStage(emit.Event{
		Stage: emit.StageCFG, Fn: fn.Name.Name,
		Msg:  fmt.Sprintf("%d nodes, %d edges", len(g.Nodes), len(g.Edges)),
		Meta: map[string]any{"nodes": len(g.Nodes), "edges": len(g.Edges)},
	})

	proj, err := project.Project(g)
	if err != nil {
		return fail(err)
	}
	emitStage(emit.Event{
		Stage: emit.StageProject, Fn: fn.Name.Name,
		Msg:  fmt.Sprintf("%d states assigned", proj.NodeCount),
		Meta: map[string]any{"states": proj.NodeCount},
	})

	optimized := project.Optimize(g, proj)
	emitStage(emit.Event{
		Stage: emit.StageOptimize, Fn: fn.Name.Name,
		Msg:  fmt.Sprintf("%d states after folding", optimized.NodeCount),
		Meta: map[string]any{"states": optimized.NodeCount},
	})

	text, err := stmtemit.Emit(g, optimized, stmtemit.Config{
		StateExpr: directive.StateExpr,
		RetVal:    directive.RetVal,
	})
	if err != nil {
		return fail(err)
	}
	emitStage(emit.Event{Stage: emit.StageEmit, Fn: fn.Name.Name, Msg: "dispatch block emitted"})

	if cfg.Cache != nil {
		_ = cfg.Cache.Put(ctx, sourceHash, cache.Entry{
			EmittedText:    text,
			CFGNodes:       len(g.Nodes),
			StatesAssigned: proj.NodeCount,
			StatesFinal:    optimized.NodeCount,
		})
	}

	body, err := parseBlock(text)
	if err != nil {
		return fail(xerrors.EmissionError(err))
	}
	if cfg.Metrics != nil {
		cfg.Metrics.ObserveRewrite(len(g.Nodes), proj.NodeCount, optimized.NodeCount, time.Since(started))
	}

	doc := stripDirective(fn.Doc)
	if cfg.Advisor != nil {
		suspensions := 0
		for _, s := range optimized.SuspensionSuccessor {
			if s {
				suspensions++
			}
		}
		explanation, err := cfg.Advisor.Explain(ctx, advisor.Summary{
			FuncName:        fn.Name.Name,
			CFGNodes:        len(g.Nodes),
			StatesAssigned:  proj.NodeCount,
			StatesFinal:     optimized.NodeCount,
			SuspensionCount: suspensions,
			EventTrace:      trace,
		})
		if err == nil && explanation != "" {
			doc = withExplanation(doc, explanation)
		}
	}

	out := *fn
	out.Body = body
	out.Doc = doc
	return &out, nil
}

// resolveDirective reads the `//gocoro:generate` line from fn.Doc (if any)
// and lets cfg.StatePath/cfg.RetVal override its two options.
func resolveDirective(fn *ast.FuncDecl, cfg *pipeline.Config) (attrparse.Directive, error) {
	raw, ok := directiveText(fn.Doc)
	if !ok {
		raw = ""
	}

	directive, err := attrparse.Parse(raw)
	if err != nil {
		return attrparse.Directive{}, err
	}

	if cfg.StatePath != "" {
		expr, err := parser.ParseExpr(cfg.StatePath)
		if err != nil {
			return attrparse.Directive{}, xerrors.AttrError(fmt.Sprintf("WithStatePath: %v", err))
		}
		directive.StateExpr = expr
	}
	if cfg.RetVal != "" {
		expr, err := parser.ParseExpr(cfg.RetVal)
		if err != nil {
			return attrparse.Directive{}, xerrors.AttrError(fmt.Sprintf("WithRetVal: %v", err))
		}
		directive.RetVal = expr
	}

	return directive, nil
}

// directiveText finds the `//gocoro:generate ...` line in a doc comment
// group and returns the text following the marker.
func directiveText(doc *ast.CommentGroup) (string, bool) {
	if doc == nil {
		return "", false
	}
	for _, c := range doc.List {
		text := strings.TrimPrefix(c.Text, "//")
		text = strings.TrimSpace(text)
		if rest, ok := strings.CutPrefix(text, DirectiveMarker); ok {
			return strings.TrimSpace(rest), true
		}
	}
	return "", false
}

// rawDirective returns the raw `//gocoro:generate` option text (or "" if fn
// has none), used as part of the cache key so changing state=/ret_val=
// invalidates a cached rewrite.
func rawDirective(doc *ast.CommentGroup) string {
	text, _ := directiveText(doc)
	return text
}

// withExplanation prepends an advisor's one-paragraph summary to doc as a
// leading comment line, keeping whatever doc comment the function already
// had beneath it.
func withExplanation(doc *ast.CommentGroup, explanation string) *ast.CommentGroup {
	var list []*ast.Comment
	for _, line := range strings.Split(strings.TrimSpace(explanation), "\n") {
		list = append(list, &ast.Comment{Text: "// " + line})
	}
	if doc != nil {
		list = append(list, doc.List...)
	}
	return &ast.CommentGroup{List: list}
}

// stripDirective removes the `//gocoro:generate` line from a doc comment
// group, preserving every other comment verbatim. Returns nil if nothing
// is left.
func stripDirective(doc *ast.CommentGroup) *ast.CommentGroup {
	if doc == nil {
		return nil
	}
	var kept []*ast.Comment
	for _, c := range doc.List {
		text := strings.TrimSpace(strings.TrimPrefix(c.Text, "//"))
		if strings.HasPrefix(text, DirectiveMarker) {
			continue
		}
		kept = append(kept, c)
	}
	if len(kept) == 0 {
		return nil
	}
	return &ast.CommentGroup{List: kept}
}

// errorKind labels a failed rewrite for the gocoro_rewrite_errors_total
// counter, falling back to "other" for errors that never passed through
// the xerrors taxonomy (e.g. cflow's ErrAmbiguousLabel or project's
// ErrUnreachableState).
func errorKind(err error) string {
	var te *xerrors.TransformError
	if errors.As(err, &te) {
		return string(te.Kind)
	}
	return "other"
}

// parseBlock reparses the emitted dispatch text (already validated once by
// stmtemit.Emit) into a real *ast.BlockStmt to splice onto the function.
func parseBlock(text string) (*ast.BlockStmt, error) {
	src := "package p\nfunc f() " + text
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "", src, 0)
	if err != nil {
		return nil, err
	}
	fn, ok := file.Decls[0].(*ast.FuncDecl)
	if !ok {
		return nil, fmt.Errorf("gocoro: reparsed file has no function declaration")
	}
	return fn.Body, nil
}
