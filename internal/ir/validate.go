package ir

import (
	"errors"
	"fmt"
)

// Validate checks module invariants: every defined function is well formed
// and every non-import declaration has a body.
func Validate(m *Module) error {
	if m == nil {
		return nil
	}
	var errs []error
	for id := range m.Decls {
		d := &m.Decls[id]
		f := m.Funcs[id]
		if d.Linkage == LinkageImport {
			continue
		}
		if f == nil {
			errs = append(errs, fmt.Errorf("function %s: declared but not defined", d.Name))
			continue
		}
		if err := validateFunc(m, f); err != nil {
			errs = append(errs, fmt.Errorf("function %s: %w", d.Name, err))
		}
	}
	return errors.Join(errs...)
}

func validateFunc(m *Module, f *Func) error {
	if len(f.Blocks) == 0 {
		return errors.New("no blocks")
	}
	var errs []error
	for i := range f.Blocks {
		blk := &f.Blocks[i]
		if !blk.Terminated() {
			errs = append(errs, fmt.Errorf("block%d: not terminated", blk.ID))
		}
		if !blk.Sealed {
			errs = append(errs, fmt.Errorf("block%d: not sealed", blk.ID))
		}
		for _, succ := range blk.Term.Successors() {
			if f.Block(succ) == nil {
				errs = append(errs, fmt.Errorf("block%d: jump to missing block%d", blk.ID, succ))
			}
		}
		for k := range blk.Instrs {
			if err := validateInstr(m, f, &blk.Instrs[k]); err != nil {
				errs = append(errs, fmt.Errorf("block%d: %w", blk.ID, err))
			}
		}
		if blk.Term.Kind == TermReturn {
			errs = append(errs, validateReturn(f, blk)...)
		}
	}
	return errors.Join(errs...)
}

func validateInstr(m *Module, f *Func, in *Instr) error {
	checkValue := func(v Value) error {
		if int(v) >= len(f.Values) {
			return fmt.Errorf("instruction %d uses undefined value v%d", in.Kind, v)
		}
		return nil
	}
	switch in.Kind {
	case InstrBinary:
		return errors.Join(checkValue(in.Binary.Left), checkValue(in.Binary.Right))
	case InstrIcmp, InstrFcmp:
		return errors.Join(checkValue(in.Cmp.Left), checkValue(in.Cmp.Right))
	case InstrConvert:
		return checkValue(in.Convert.Arg)
	case InstrCall:
		if m.Decl(in.Call.Func) == nil {
			return fmt.Errorf("call to unknown function %d", in.Call.Func)
		}
		var errs []error
		for _, a := range in.Call.Args {
			errs = append(errs, checkValue(a))
		}
		return errors.Join(errs...)
	case InstrDataAddr:
		if int(in.DataAddr.Data) >= len(m.Data) {
			return fmt.Errorf("data_addr of unknown data object %d", in.DataAddr.Data)
		}
	case InstrLoad:
		return checkValue(in.Mem.Addr)
	case InstrStore:
		return errors.Join(checkValue(in.Mem.Addr), checkValue(in.Mem.Value))
	case InstrDefVar, InstrUseVar:
		if int(in.Var.Var) >= len(f.Vars) {
			return fmt.Errorf("unknown variable v%d", in.Var.Var)
		}
		if in.Kind == InstrDefVar {
			return checkValue(in.Var.Value)
		}
	}
	return nil
}

func validateReturn(f *Func, blk *Block) []error {
	vals := blk.Term.Return.Values
	if len(vals) != len(f.Sig.Returns) {
		return []error{fmt.Errorf("block%d: returns %d values, signature has %d", blk.ID, len(vals), len(f.Sig.Returns))}
	}
	var errs []error
	for i, v := range vals {
		if t := f.ValueType(v); t != f.Sig.Returns[i] {
			errs = append(errs, fmt.Errorf("block%d: returns %s, signature has %s", blk.ID, t, f.Sig.Returns[i]))
		}
	}
	return errs
}
