package diag

import (
	"testing"

	"gold/internal/source"
)

func TestBag_LimitAndErrors(t *testing.T) {
	bag := NewBag(2)
	r := BagReporter{Bag: bag}

	ReportWarning(r, SemaInfo, source.Span{}, "w").Emit()
	if bag.HasErrors() {
		t.Fatal("warnings alone must not count as errors")
	}
	ReportError(r, SemaArityMismatch, source.Span{Start: 1, End: 2}, "arity").
		WithNote(source.Span{Start: 5, End: 6}, "declared here").
		WithPayload("2", "1").
		Emit()
	ReportError(r, SemaUnboundVariable, source.Span{}, "over the limit").Emit()

	if bag.Len() != 2 || bag.Dropped() != 1 {
		t.Fatalf("len=%d dropped=%d, want 2/1", bag.Len(), bag.Dropped())
	}
	if !bag.HasErrors() || bag.ErrorCount() != 1 {
		t.Fatalf("errors: has=%v count=%d", bag.HasErrors(), bag.ErrorCount())
	}
	got := bag.Filter(SemaArityMismatch)
	if len(got) != 1 || got[0].Payload == nil || got[0].Payload.Expected != "2" || len(got[0].Notes) != 1 {
		t.Fatalf("unexpected arity diagnostic: %+v", got)
	}
}

func TestReportBuilder_EmitOnce(t *testing.T) {
	count := 0
	r := ReporterFunc(func(Diagnostic) { count++ })
	b := ReportError(r, SemaEmptyList, source.Span{}, "empty")
	b.Emit()
	b.Emit()
	if count != 1 {
		t.Fatalf("emitted %d times", count)
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: bag})
	d := NewError(SemaUnboundVariable, source.Span{Start: 3, End: 4}, "unbound x")
	r.Report(d)
	r.Report(d)
	r.Report(NewError(SemaUnboundVariable, source.Span{Start: 9, End: 10}, "unbound x"))
	if bag.Len() != 2 {
		t.Fatalf("len = %d, want 2", bag.Len())
	}
}

func TestBag_SortIsDeterministic(t *testing.T) {
	bag := NewBag(0)
	bag.Add(NewError(SemaOperandTypeMismatch, source.Span{Start: 8, End: 9}, "b"))
	bag.Add(New(SevWarning, SemaInfo, source.Span{Start: 1, End: 2}, "w"))
	bag.Add(NewError(SemaUnboundVariable, source.Span{Start: 1, End: 2}, "a"))
	bag.Sort()
	items := bag.Items()
	if items[0].Code != SemaUnboundVariable || items[1].Code != SemaInfo || items[2].Code != SemaOperandTypeMismatch {
		t.Fatalf("unexpected order: %v %v %v", items[0].Code, items[1].Code, items[2].Code)
	}
}
