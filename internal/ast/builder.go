package ast

import (
	"gold/internal/source"
)

type Hints struct{ Files, Fns, Exprs uint }

// Builder owns every arena of one parse session.
type Builder struct {
	Files *Files
	Fns   *Fns
	Exprs *Exprs
}

func NewBuilder(hints Hints) *Builder {
	if hints.Files == 0 {
		hints.Files = 1 << 2
	}
	if hints.Fns == 0 {
		hints.Fns = 1 << 4
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 8
	}
	return &Builder{
		Files: NewFiles(hints.Files),
		Fns:   NewFns(hints.Fns),
		Exprs: NewExprs(hints.Exprs),
	}
}

func (b *Builder) NewFile(sp source.Span) FileID {
	return b.Files.New(sp)
}

// PushFn allocates fn and appends it to file in declaration order.
func (b *Builder) PushFn(file FileID, fn Fn) FnID {
	id := b.Fns.New(fn)
	f := b.Files.Get(file)
	f.Fns = append(f.Fns, id)
	return id
}
