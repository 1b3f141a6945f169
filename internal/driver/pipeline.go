// Package driver wires the gold pipeline together: load, parse, analyze,
// lower, JIT and execute, plus parallel checking of many files.
package driver

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"gold/internal/ast"
	"gold/internal/diag"
	"gold/internal/ir"
	"gold/internal/lexer"
	"gold/internal/lower"
	"gold/internal/observ"
	"gold/internal/parser"
	"gold/internal/sema"
	"gold/internal/source"
	"gold/internal/trace"
)

type Options struct {
	// MaxDiagnostics caps the bag per file; 0 is unlimited.
	MaxDiagnostics int
	Timer          *observ.Timer
	Progress       ProgressSink
	// Cache stores lowered modules keyed by source hash; nil disables it.
	Cache *IRCache

	// Used by Run only.
	Stdout       io.Writer
	Entry        string
	MaxCallDepth int
}

// Unit is one source file carried through the pipeline. Later fields stay
// nil when an earlier phase failed.
type Unit struct {
	Path    string
	FileSet *source.FileSet
	File    *source.File
	Bag     *diag.Bag
	Builder *ast.Builder
	AST     ast.FileID
	Sema    *sema.Result
	Module  *ir.Module
	// CacheHit is set when Module came from the IR cache.
	CacheHit bool
}

// HasErrors reports whether parsing or analysis produced errors.
func (u *Unit) HasErrors() bool {
	return u.Bag.HasErrors()
}

// phase runs fn inside a trace span and a timer phase and reports progress.
func phase(ctx context.Context, opts *Options, u *Unit, stage Stage, fn func(ctx context.Context) error) error {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, string(stage), trace.CurrentSpan(ctx).SpanID).WithExtra("file", u.Path)
	done := opts.Timer.Track(string(stage))
	emit(opts.Progress, Event{File: u.Path, Stage: stage, Status: StatusWorking})
	started := time.Now()

	err := fn(trace.WithSpan(ctx, span))

	detail := ""
	if err != nil {
		detail = err.Error()
	}
	span.End(detail)
	done(filepath.Base(u.Path))
	if err != nil {
		emit(opts.Progress, Event{File: u.Path, Stage: stage, Status: StatusError, Err: err, Elapsed: time.Since(started)})
	}
	return err
}

// Parse loads and parses path. A returned error means the file could not be
// read; syntax errors land in the unit's bag.
func Parse(ctx context.Context, path string, opts Options) (*Unit, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return parseFile(ctx, fs, fs.Get(id), opts), nil
}

// ParseSource is Parse for in-memory text.
func ParseSource(ctx context.Context, name string, src []byte, opts Options) *Unit {
	fs := source.NewFileSet()
	return parseFile(ctx, fs, fs.Get(fs.AddVirtual(name, src)), opts)
}

func parseFile(ctx context.Context, fs *source.FileSet, file *source.File, opts Options) *Unit {
	u := &Unit{
		Path:    file.Path,
		FileSet: fs,
		File:    file,
		Bag:     diag.NewBag(opts.MaxDiagnostics),
		Builder: ast.NewBuilder(ast.Hints{}),
		AST:     ast.NoFileID,
	}
	// одинаковая диагностика на одном и том же месте выводится один раз
	r := diag.NewDedupReporter(diag.BagReporter{Bag: u.Bag})
	_ = phase(ctx, &opts, u, StageParse, func(context.Context) error {
		res := parser.ParseFile(lexer.New(file, lexer.Options{Reporter: r}), u.Builder, parser.Options{Reporter: r})
		if res.OK {
			u.AST = res.File
		}
		return nil
	})
	return u
}

// Analyze runs the checker over a parsed unit. It is a no-op when parsing
// failed.
func Analyze(ctx context.Context, u *Unit, opts Options) {
	if u == nil || !u.AST.IsValid() {
		return
	}
	_ = phase(ctx, &opts, u, StageAnalyze, func(ctx context.Context) error {
		res := sema.Check(ctx, u.Builder, u.AST, sema.Options{Reporter: diag.BagReporter{Bag: u.Bag}})
		u.Sema = &res
		return nil
	})
}

// Lower produces u.Module, from the cache when possible. It must only be
// called on units without errors.
func Lower(ctx context.Context, u *Unit, opts Options) error {
	if u.Sema == nil || u.HasErrors() {
		return fmt.Errorf("%s: cannot lower a unit with errors", u.Path)
	}
	key := opts.Cache.Key(u.File)
	if mod, ok, err := opts.Cache.Get(key); err == nil && ok {
		trace.Point(trace.FromContext(ctx), trace.ScopeModule, "cache.hit", u.Path, trace.CurrentSpan(ctx).SpanID)
		u.Module, u.CacheHit = mod, true
		return nil
	}
	err := phase(ctx, &opts, u, StageLower, func(ctx context.Context) error {
		mod, err := lower.Program(ctx, u.Builder, u.AST, u.Sema, lower.Options{ModuleName: moduleName(u.Path)})
		if err != nil {
			return err
		}
		u.Module = mod
		return nil
	})
	if err != nil {
		return err
	}
	if err := opts.Cache.Put(key, u.Path, u.Module); err != nil {
		trace.Point(trace.FromContext(ctx), trace.ScopeModule, "cache.error", err.Error(), trace.CurrentSpan(ctx).SpanID)
	}
	return nil
}

// Compile parses, analyzes and, when the file is clean, lowers path. Source
// errors are reported through the unit, not the error result.
func Compile(ctx context.Context, path string, opts Options) (*Unit, error) {
	u, err := Parse(ctx, path, opts)
	if err != nil {
		return nil, err
	}
	Analyze(ctx, u, opts)
	if u.Sema == nil || u.HasErrors() {
		emit(opts.Progress, Event{File: u.Path, Stage: StageAnalyze, Status: StatusError})
		return u, nil
	}
	if err := Lower(ctx, u, opts); err != nil {
		return u, err
	}
	emit(opts.Progress, Event{File: u.Path, Stage: StageLower, Status: StatusDone})
	return u, nil
}

func moduleName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
