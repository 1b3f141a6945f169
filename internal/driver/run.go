package driver

import (
	"context"
	"fmt"
	"strconv"

	"gold/internal/jit"
	"gold/internal/sema"
	"gold/internal/trace"
	"gold/internal/types"
)

// RunResult is the outcome of executing a unit's entry function.
type RunResult struct {
	Unit  *Unit
	Entry string
	// Value is the formatted return value, empty for Void functions.
	Value string
	Type  types.Type
	Raw   int64
}

// Diagnosed reports that the program never ran because of source errors.
func (r *RunResult) Diagnosed() bool {
	return r.Unit == nil || r.Unit.HasErrors()
}

// Run compiles path and calls its entry function with args parsed by the
// parameter types; missing args take zero values. The error is a *jit.Trap
// for runtime faults and a *lower.InternalError for compiler faults.
func Run(ctx context.Context, path string, args []string, opts Options) (*RunResult, error) {
	u, err := Compile(ctx, path, opts)
	if err != nil {
		return &RunResult{Unit: u}, err
	}
	return Execute(ctx, u, args, opts)
}

// Execute runs an already compiled unit.
func Execute(ctx context.Context, u *Unit, args []string, opts Options) (*RunResult, error) {
	res := &RunResult{Unit: u}
	if u.HasErrors() || u.Module == nil {
		return res, nil
	}
	sig, err := entrySignature(u, opts.Entry)
	if err != nil {
		return res, err
	}
	res.Entry, res.Type = sig.Name, sig.Return

	m := jit.New(u.Module, jit.Options{Stdout: opts.Stdout, MaxCallDepth: opts.MaxCallDepth})
	defer m.Close()
	var code *jit.Code
	err = phase(ctx, &opts, u, StageJIT, func(context.Context) error {
		if err := m.Finalize(); err != nil {
			return err
		}
		code, err = m.Function(sig.Name)
		return err
	})
	if err != nil {
		return res, err
	}

	argv, err := parseArgs(m, sig, args)
	if err != nil {
		return res, err
	}
	err = phase(ctx, &opts, u, StageExec, func(ctx context.Context) error {
		trace.Point(trace.FromContext(ctx), trace.ScopePass, "call", sig.Name, trace.CurrentSpan(ctx).SpanID)
		raw, err := code.Call(argv...)
		if err != nil {
			return err
		}
		res.Raw = raw
		res.Value, err = formatValue(code, sig.Return, raw)
		return err
	})
	if err != nil {
		return res, err
	}
	emit(opts.Progress, Event{File: u.Path, Stage: StageExec, Status: StatusDone})
	return res, nil
}

// entrySignature picks the named function, or the first declared one.
func entrySignature(u *Unit, entry string) (*sema.FunctionSignature, error) {
	if entry == "" {
		if len(u.Sema.Order) == 0 {
			return nil, fmt.Errorf("%s: no functions to run", u.Path)
		}
		entry = u.Sema.Order[0]
	}
	sig, ok := u.Sema.Function(entry)
	if !ok || sig.Builtin {
		return nil, fmt.Errorf("%s: no function named %q", u.Path, entry)
	}
	return sig, nil
}

func parseArgs(m *jit.Module, sig *sema.FunctionSignature, args []string) ([]int64, error) {
	if len(args) > len(sig.Params) {
		return nil, fmt.Errorf("%s takes %d arguments, got %d", sig.Name, len(sig.Params), len(args))
	}
	argv := make([]int64, len(sig.Params))
	for i, p := range sig.Params {
		text, given := "", i < len(args)
		if given {
			text = args[i]
		}
		v, err := parseArg(m, p.Type, text, given)
		if err != nil {
			return nil, fmt.Errorf("argument %q of %s: %w", p.Name, sig.Name, err)
		}
		argv[i] = v
	}
	return argv, nil
}

func parseArg(m *jit.Module, t types.Type, text string, given bool) (int64, error) {
	switch t {
	case types.String:
		return m.NewString(text)
	case types.Int:
		if !given {
			return 0, nil
		}
		return strconv.ParseInt(text, 10, 64)
	case types.Float:
		if !given {
			return jit.FloatArg(0), nil
		}
		f, err := strconv.ParseFloat(text, 64)
		return jit.FloatArg(f), err
	case types.Bool:
		if !given {
			return 0, nil
		}
		b, err := strconv.ParseBool(text)
		if b {
			return 1, err
		}
		return 0, err
	}
	return 0, fmt.Errorf("cannot pass a %s from the command line", t)
}

func formatValue(code *jit.Code, t types.Type, raw int64) (string, error) {
	switch t {
	case types.Void:
		return "", nil
	case types.Float:
		return strconv.FormatFloat(jit.FloatResult(raw), 'g', -1, 64), nil
	case types.Bool:
		return strconv.FormatBool(raw != 0), nil
	case types.String:
		return code.ReadString(raw)
	}
	return strconv.FormatInt(raw, 10), nil
}
