package ir

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Format renders m as text.
func Format(m *Module) string {
	var sb strings.Builder
	_ = DumpModule(&sb, m)
	return sb.String()
}

// DumpModule writes a human-readable representation of a module.
func DumpModule(w io.Writer, m *Module) error {
	if w == nil || m == nil {
		return nil
	}
	p := printer{w: w}
	p.printf("module %s\n", m.Name)
	for i := range m.Data {
		d := &m.Data[i]
		p.printf("data d%d %s = %s\n", i, d.Name, strconv.Quote(string(d.Bytes)))
	}
	for id := range m.Decls {
		d := &m.Decls[id]
		p.printf("%s fn %s%s", d.Linkage, d.Name, sigString(d.Sig))
		f := m.Funcs[id]
		if f == nil {
			p.printf("\n")
			continue
		}
		p.printf(" {\n")
		p.printFunc(m, f)
		p.printf("}\n")
	}
	return p.err
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func sigString(sig Signature) string {
	params := make([]string, len(sig.Params))
	for i, t := range sig.Params {
		params[i] = t.String()
	}
	s := "(" + strings.Join(params, ", ") + ")"
	if r := sig.Result(); r != TypeNone {
		s += " -> " + r.String()
	}
	return s
}

func (p *printer) printFunc(m *Module, f *Func) {
	for v, t := range f.Vars {
		p.printf("    var%d: %s\n", v, t)
	}
	for i := range f.Blocks {
		blk := &f.Blocks[i]
		params := make([]string, len(blk.Params))
		for k, v := range blk.Params {
			params[k] = fmt.Sprintf("v%d: %s", v, f.ValueType(v))
		}
		p.printf("block%d", blk.ID)
		if len(params) > 0 {
			p.printf("(%s)", strings.Join(params, ", "))
		}
		p.printf(":\n")
		for k := range blk.Instrs {
			p.printf("    %s\n", instrString(m, f, &blk.Instrs[k]))
		}
		p.printf("    %s\n", termString(&blk.Term))
	}
}

func instrString(m *Module, f *Func, in *Instr) string {
	var body string
	switch in.Kind {
	case InstrIconst:
		body = fmt.Sprintf("iconst.%s %d", in.Const.Type, in.Const.Int)
	case InstrF64const:
		body = "f64const " + strconv.FormatFloat(in.Const.Float, 'g', -1, 64)
	case InstrBinary:
		body = fmt.Sprintf("%s v%d, v%d", in.Binary.Op, in.Binary.Left, in.Binary.Right)
	case InstrIcmp:
		body = fmt.Sprintf("icmp %s v%d, v%d", in.Cmp.Cond, in.Cmp.Left, in.Cmp.Right)
	case InstrFcmp:
		body = fmt.Sprintf("fcmp %s v%d, v%d", in.Cmp.Cond, in.Cmp.Left, in.Cmp.Right)
	case InstrConvert:
		body = fmt.Sprintf("%s v%d", in.Convert.Op, in.Convert.Arg)
	case InstrCall:
		args := make([]string, len(in.Call.Args))
		for i, a := range in.Call.Args {
			args[i] = "v" + strconv.Itoa(int(a))
		}
		name := "?"
		if d := m.Decl(in.Call.Func); d != nil {
			name = d.Name
		}
		body = fmt.Sprintf("call %s(%s)", name, strings.Join(args, ", "))
	case InstrDataAddr:
		body = fmt.Sprintf("data_addr d%d", in.DataAddr.Data)
	case InstrLoad:
		body = fmt.Sprintf("load.%s v%d+%d", in.Mem.Type, in.Mem.Addr, in.Mem.Offset)
	case InstrStore:
		body = fmt.Sprintf("store.%s v%d, v%d+%d", in.Mem.Type, in.Mem.Value, in.Mem.Addr, in.Mem.Offset)
	case InstrDefVar:
		body = fmt.Sprintf("def_var var%d, v%d", in.Var.Var, in.Var.Value)
	case InstrUseVar:
		body = fmt.Sprintf("use_var var%d", in.Var.Var)
	default:
		body = "?"
	}
	if in.Result == NoValue {
		return body
	}
	return fmt.Sprintf("v%d = %s", in.Result, body)
}

func termString(t *Terminator) string {
	switch t.Kind {
	case TermJump:
		return fmt.Sprintf("jump block%d", t.Jump.Target)
	case TermBrif:
		return fmt.Sprintf("brif v%d, block%d, block%d", t.Brif.Cond, t.Brif.Then, t.Brif.Else)
	case TermReturn:
		vals := make([]string, len(t.Return.Values))
		for i, v := range t.Return.Values {
			vals[i] = "v" + strconv.Itoa(int(v))
		}
		if len(vals) == 0 {
			return "return"
		}
		return "return " + strings.Join(vals, ", ")
	}
	return "<unterminated>"
}
