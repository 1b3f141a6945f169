package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"gold/internal/project"
	"gold/internal/trace"
)

// CheckResult pairs a file with its analyzed unit, or the error that kept it
// from loading.
type CheckResult struct {
	Path string
	Unit *Unit
	Err  error
}

// ExpandPaths turns files and directories into a sorted, de-duplicated list
// of .gld files. Explicitly named files are kept whatever their extension.
func ExpandPaths(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		// same form as source.File.Path, so progress events line up
		p = filepath.ToSlash(filepath.Clean(p))
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() && path != p && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if !d.IsDir() && filepath.Ext(path) == project.SourceExt {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	slices.Sort(out)
	return out, nil
}

// CheckPaths parses and analyzes every file under paths in parallel. Each
// file gets its own FileSet and bag; results come back in path order.
// jobs <= 0 uses GOMAXPROCS.
func CheckPaths(ctx context.Context, paths []string, jobs int, opts Options) ([]CheckResult, error) {
	files, err := ExpandPaths(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no %s files found", project.SourceExt)
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	span := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, "check", trace.CurrentSpan(ctx).SpanID).
		WithExtra("files", fmt.Sprint(len(files)))
	defer span.End("")
	ctx = trace.WithSpan(ctx, span)

	for _, f := range files {
		emit(opts.Progress, Event{File: f, Stage: StageParse, Status: StatusQueued})
	}

	results := make([]CheckResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fileSpan := trace.Begin(trace.FromContext(gctx), trace.ScopeModule, "file", span.ID()).WithExtra("path", path)
			fctx := trace.WithSpan(gctx, fileSpan)
			u, err := Parse(fctx, path, opts)
			if err == nil {
				Analyze(fctx, u, opts)
			}
			fileSpan.End("")
			results[i] = CheckResult{Path: path, Unit: u, Err: err}

			status := StatusDone
			if err != nil || u.HasErrors() {
				status = StatusError
			}
			emit(opts.Progress, Event{File: path, Stage: StageAnalyze, Status: status, Err: err})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
