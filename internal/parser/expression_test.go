package parser_test

import (
	"testing"

	"gold/internal/ast"
	"gold/internal/diag"
)

func TestExpression_Precedence(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3", "(+ 1 (* 2 3))"},
		{"1 - 2 - 3", "(- (- 1 2) 3)"},
		{"2 ^ 3 ^ 2", "(^ 2 (^ 3 2))"},
		{"2 * 3 ^ 2", "(* 2 (^ 3 2))"},
		{"a + 1 is b", "(is (+ a 1) b)"},
		{"a is not b", "(is not a b)"},
		{"a <= b", "(<= a b)"},
		{"a >= b + 1", "(>= a (+ b 1))"},
		{"(1 + 2) * 3", "(* (+ 1 2) 3)"},
		{"a / b < c * d", "(< (/ a b) (* c d))"},
		{`add(1, "x")`, `add(1, "x")`},
		{"f()", "f()"},
		{"[1, 2.5, x,]", "[1, 2.5, x]"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			p := mustParse(t, wrap(tt.src))
			body := p.fn(0).Body
			if len(body) != 1 {
				t.Fatalf("body has %d statements", len(body))
			}
			if got := p.render(body[0]); got != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestExpression_CallSpans(t *testing.T) {
	p := mustParse(t, wrap(`add(1, "x")`))
	call, ok := p.b.Exprs.Call(p.fn(0).Body[0])
	if !ok {
		t.Fatal("expected call")
	}
	if p.text(call.NameSpan) != "add" || p.text(call.ArgsSpan) != `(1, "x")` {
		t.Fatalf("name span %q, args span %q", p.text(call.NameSpan), p.text(call.ArgsSpan))
	}
	lit, _ := p.b.Exprs.Literal(call.Args[1])
	if lit.Kind != ast.ExprLitString || lit.Str != "x" || p.text(p.b.Exprs.Get(call.Args[1]).Span) != `"x"` {
		t.Fatalf("string literal = %+v", lit)
	}
}

func TestStatements_LetAndReassign(t *testing.T) {
	p := mustParse(t, wrap("let x = 1; x = x + 2\nx"))
	body := p.fn(0).Body
	want := []string{"(Assign x 1)", "(Reassign x (+ x 2))", "x"}
	if len(body) != len(want) {
		t.Fatalf("got %d statements", len(body))
	}
	for i := range want {
		if got := p.render(body[i]); got != want[i] {
			t.Errorf("stmt %d = %s, want %s", i, got, want[i])
		}
	}
}

func TestStatements_IfElifElse(t *testing.T) {
	p := mustParse(t, wrap("if a < 1 { 1 } elif a < 2 { 2 } else { let z = 3\n z }"))
	node, ok := p.b.Exprs.If(p.fn(0).Body[0])
	if !ok {
		t.Fatal("expected if")
	}
	if len(node.Body) != 1 || len(node.Elifs) != 1 || !node.Else.IsValid() {
		t.Fatalf("if payload = %+v", node)
	}
	elif, ok := p.b.Exprs.Elif(node.Elifs[0])
	if !ok || p.render(elif.Cond) != "(< a 2)" {
		t.Fatal("bad elif")
	}
	els, ok := p.b.Exprs.Else(node.Else)
	if !ok || len(els.Body) != 2 {
		t.Fatalf("else body = %+v", els)
	}
}

func TestStatements_While(t *testing.T) {
	p := mustParse(t, wrap("let i = 0\nwhile i < 10 { i = i + 1 }\ni"))
	w, ok := p.b.Exprs.While(p.fn(0).Body[1])
	if !ok || p.render(w.Cond) != "(< i 10)" || len(w.Body) != 1 {
		t.Fatalf("while = %+v", w)
	}
}

func TestParse_MultipleFunctions(t *testing.T) {
	src := addSource + "\n// main is a function.\n// Params:\n// Returns: Int\nfn { add(3, 4) }\n"
	p := mustParse(t, src)
	if got := len(p.b.Files.Get(p.file).Fns); got != 2 {
		t.Fatalf("fns = %d", got)
	}
	if p.fn(1).Name != "main" {
		t.Fatalf("second fn = %s", p.fn(1).Name)
	}
}

func TestParse_ErrorsStopAtFirst(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
	}{
		{"unclosed brace", "// f is a function.\n// Params:\n// Returns: Int\nfn { 1 + 2", diag.SynUnclosedBrace},
		{"missing operand", wrap("1 + "), diag.SynExpectExpression},
		{"unclosed call", wrap("f(1, 2"), diag.SynUnclosedParen},
		{"unclosed list", wrap("[1, 2"), diag.SynUnclosedBracket},
		{"let without name", wrap("let = 1"), diag.SynExpectIdentifier},
		{"top level junk", "x + 1", diag.SynUnexpectedTopLevel},
		{"empty file", "// nothing here\n", diag.SynEmptyFile},
		{"empty source", "", diag.SynEmptyFile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parseSource(t, tt.src)
			if p.ok || p.file.IsValid() {
				t.Fatal("expected failure without a file")
			}
			if p.bag.Len() != 1 || p.bag.Items()[0].Code != tt.code {
				t.Fatalf("got %s, want single %s", diagnosticsSummary(p.bag), tt.code.ID())
			}
		})
	}
}

func TestParse_LexErrorIsNotReportedTwice(t *testing.T) {
	p := parseSource(t, wrap(`"unterminated`))
	if p.ok {
		t.Fatal("expected failure")
	}
	if p.bag.Len() != 1 || p.bag.Items()[0].Code != diag.LexUnterminatedString {
		t.Fatalf("got %s", diagnosticsSummary(p.bag))
	}
}
