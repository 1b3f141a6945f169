// Package testkit holds helpers shared by parser, sema and lowering tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"gold/internal/ast"
	"gold/internal/source"
)

// CheckSpanInvariants runs span invariants on a parsed file:
// 1) file.Span is within content bounds and covers every function
// 2) every function span covers its header and body
// 3) every expression span is non-empty and lies inside its parent's span
func CheckSpanInvariants(b *ast.Builder, fileID ast.FileID, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	f := b.Files.Get(fileID)
	if f == nil {
		return fmt.Errorf("file node not found")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if f.Span.File != sf.ID || f.Span.End > lenContent {
		return fmt.Errorf("file span %v does not fit file %d of %d bytes", f.Span, sf.ID, lenContent)
	}

	for _, id := range f.Fns {
		fn := b.Fns.Get(id)
		if fn == nil {
			return fmt.Errorf("nil fn for id=%d", id)
		}
		if fn.Span.Empty() || !f.Span.Contains(fn.Span) {
			return fmt.Errorf("fn %s span %v outside file span %v", fn.Name, fn.Span, f.Span)
		}
		if !fn.Span.Contains(fn.HeaderSpan) || !fn.Span.Contains(fn.BodySpan) {
			return fmt.Errorf("fn %s span %v does not cover header %v and body %v", fn.Name, fn.Span, fn.HeaderSpan, fn.BodySpan)
		}
		if !fn.HeaderSpan.Contains(fn.NameSpan) || !fn.HeaderSpan.Contains(fn.Return.Span) {
			return fmt.Errorf("fn %s header span %v misses name or return type", fn.Name, fn.HeaderSpan)
		}
		for _, p := range fn.Params {
			if !fn.HeaderSpan.Contains(p.Type.Span) || p.Type.Span.Empty() {
				return fmt.Errorf("param %s type span %v outside header %v", p.Name, p.Type.Span, fn.HeaderSpan)
			}
		}
		for _, stmt := range fn.Body {
			if err := checkExpr(b, stmt, fn.BodySpan); err != nil {
				return fmt.Errorf("fn %s: %w", fn.Name, err)
			}
		}
	}
	return nil
}

func checkExpr(b *ast.Builder, id ast.ExprID, parent source.Span) error {
	e := b.Exprs.Get(id)
	if e == nil {
		return fmt.Errorf("dangling expression id %d", id)
	}
	if e.Span.Empty() {
		return fmt.Errorf("%s expression has an empty span", e.Kind)
	}
	if !parent.Contains(e.Span) {
		return fmt.Errorf("%s span %v escapes parent %v", e.Kind, e.Span, parent)
	}
	for _, child := range b.Exprs.Children(id) {
		if err := checkExpr(b, child, e.Span); err != nil {
			return err
		}
	}
	return nil
}
