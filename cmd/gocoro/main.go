// Command gocoro rewrites generator-style Go functions — ones using
// co_yield/co_return pseudo-calls and tagged with a `//gocoro:generate`
// comment — into resumable state machines. It is the Go equivalent of the
// original's `#[generator]` procedural-attribute macro: Go has no macro
// mechanism, so gocoro is a standalone pass over source files instead of a
// compiler plugin.
package main

import (
	"context"
	"flag"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"net/http"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aalbacetef/gocoro/cmd/gocoro/internal/genfile"
	"github.com/aalbacetef/gocoro/internal/advisor"
	"github.com/aalbacetef/gocoro/internal/cache"
	"github.com/aalbacetef/gocoro/internal/cflow"
	"github.com/aalbacetef/gocoro/internal/pipeline"
	"github.com/aalbacetef/gocoro/internal/pipeline/emit"
	"github.com/aalbacetef/gocoro/internal/pipeline/metrics"
	"github.com/aalbacetef/gocoro/internal/project"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "rewrite":
		runRewrite(os.Args[2:])
	case "dump-cfg":
		runDumpCFG(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: gocoro rewrite <file.go> [flags]")
	fmt.Fprintln(os.Stderr, "       gocoro dump-cfg <file.go> <func>")
}

func runRewrite(args []string) {
	fs := flag.NewFlagSet("rewrite", flag.ExitOnError)
	out := fs.String("out", "", "output path (default: overwrite in place)")
	statePath := fs.String("state", "", "override the persisted state expression")
	retVal := fs.String("ret-val", "", "override the default return expression")
	jsonLog := fs.Bool("json-log", false, "emit pipeline events as JSON instead of text")
	serveMetrics := fs.String("serve-metrics", "", "address to serve Prometheus metrics on, e.g. :9090")
	cacheDB := fs.String("cache-db", "", "path to a SQLite build cache (default: no cache)")
	explain := fs.String("explain", "", "LLM advisor backend for a one-paragraph summary per rewrite: anthropic, openai, or google")
	explainModel := fs.String("explain-model", "", "model name for -explain (required with -explain)")
	maxDepth := fs.Int("max-depth", 0, "fail rewrites nested deeper than this many if/for levels (0 = unbounded)")
	fs.Parse(args)

	if fs.NArg() != 1 {
		usage()
		os.Exit(2)
	}
	path := fs.Arg(0)
	outPath := *out
	if outPath == "" {
		outPath = path
	}

	var opts []pipeline.Option
	opts = append(opts, pipeline.WithEmitter(emit.NewLogEmitter(os.Stderr, *jsonLog)))
	if *statePath != "" {
		opts = append(opts, pipeline.WithStatePath(*statePath))
	}
	if *retVal != "" {
		opts = append(opts, pipeline.WithRetVal(*retVal))
	}
	if *maxDepth > 0 {
		opts = append(opts, pipeline.WithMaxBodyDepth(*maxDepth))
	}

	if *cacheDB != "" {
		store, err := cache.NewSQLiteStore(*cacheDB)
		if err != nil {
			fmt.Fprintln(os.Stderr, "gocoro:", err)
			os.Exit(1)
		}
		opts = append(opts, pipeline.WithCache(store))
	}

	if *explain != "" {
		if *explainModel == "" {
			fmt.Fprintln(os.Stderr, "gocoro: -explain requires -explain-model")
			os.Exit(2)
		}
		a, err := buildAdvisor(*explain, *explainModel)
		if err != nil {
			fmt.Fprintln(os.Stderr, "gocoro:", err)
			os.Exit(1)
		}
		opts = append(opts, pipeline.WithAdvisor(a))
	}

	var reg *prometheus.Registry
	if *serveMetrics != "" {
		reg = prometheus.NewRegistry()
		m := metrics.New(reg)
		opts = append(opts, pipeline.WithMetrics(m))

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go http.ListenAndServe(*serveMetrics, mux) //nolint:errcheck
	}

	res, err := genfile.RewriteFile(context.Background(), path, outPath, opts...)
	if err != nil {
		fmt.Fprintln(os.Stderr, "gocoro:", err)
		os.Exit(1)
	}
	if len(res.Rewritten) == 0 {
		fmt.Fprintf(os.Stderr, "gocoro: no //gocoro:generate functions found in %s\n", path)
		return
	}
	fmt.Fprintf(os.Stderr, "gocoro: rewrote %s in %s\n", strings.Join(res.Rewritten, ", "), outPath)
}

// buildAdvisor constructs the -explain backend named by kind, reading its
// API key from the environment variable each SDK conventionally uses.
func buildAdvisor(kind, model string) (advisor.Advisor, error) {
	switch kind {
	case "anthropic":
		key := os.Getenv("ANTHROPIC_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is not set")
		}
		return advisor.NewAnthropicAdvisor(key, model), nil
	case "openai":
		key := os.Getenv("OPENAI_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is not set")
		}
		return advisor.NewOpenAIAdvisor(key, model), nil
	case "google":
		key := os.Getenv("GOOGLE_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("GOOGLE_API_KEY is not set")
		}
		return advisor.NewGoogleAdvisor(key, model), nil
	default:
		return nil, fmt.Errorf("unknown -explain backend %q (want anthropic, openai, or google)", kind)
	}
}

// runDumpCFG renders one function's CFG as Graphviz DOT, the debug surface
// spec.md §6 names: `gocoro dump-cfg file.go myGenerator`.
func runDumpCFG(args []string) {
	if len(args) != 2 {
		usage()
		os.Exit(2)
	}
	path, funcName := args[0], args[1]

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
	if err != nil {
		fmt.Fprintln(os.Stderr, "gocoro:", err)
		os.Exit(1)
	}

	var fn *ast.FuncDecl
	for _, decl := range file.Decls {
		if f, ok := decl.(*ast.FuncDecl); ok && f.Name.Name == funcName {
			fn = f
			break
		}
	}
	if fn == nil || fn.Body == nil {
		fmt.Fprintf(os.Stderr, "gocoro: function %q not found in %s\n", funcName, path)
		os.Exit(1)
	}

	g, err := cflow.Build(fn.Body.List)
	if err != nil {
		fmt.Fprintln(os.Stderr, "gocoro:", err)
		os.Exit(1)
	}
	proj, err := project.Project(g)
	if err != nil {
		fmt.Fprintln(os.Stderr, "gocoro:", err)
		os.Exit(1)
	}
	optimized := project.Optimize(g, proj)

	fmt.Println(g.DOT(optimized.State))
}
