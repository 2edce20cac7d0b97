package fuzzy

import (
	"testing"

	"github.com/gangfan/clang-highlight/cpp/lexer"
	"github.com/gangfan/clang-highlight/cpp/token"
)

func parseSource(src string) (*TranslationUnit, []AnnotatedToken) {
	buf := Annotate(lexer.Tokenize([]byte(src), "test.cpp"))
	return Parse(buf), buf
}

func parseExprSource(src string) (Expr, *cursor) {
	buf := Annotate(lexer.Tokenize([]byte(src), "test.cpp"))
	cur := newCursor(buf)
	return parseExpression(cur, token.PrecComma, false), cur
}

func TestDeclStmtWithInitializer(t *testing.T) {
	tu, _ := parseSource("int x = 1 + 2 * 3;")

	if len(tu.Body) != 1 {
		t.Fatalf("got %d statements, want 1", len(tu.Body))
	}
	decl, ok := tu.Body[0].(*DeclStmt)
	if !ok {
		t.Fatalf("got %T, want *DeclStmt", tu.Body[0])
	}
	if len(decl.Decls) != 1 {
		t.Fatalf("got %d declarators, want 1", len(decl.Decls))
	}
	d := decl.Decls[0]
	if d.NameTok == nil || d.NameTok.Tok.Literal != "x" {
		t.Errorf("declarator name: got %v, want x", d.NameTok)
	}
	if spelled := typeSpelling(d.VariableType); spelled != "int" {
		t.Errorf("type: got %q, want int", spelled)
	}
	if d.Value == nil {
		t.Fatal("missing initializer")
	}
	plus, ok := d.Value.Value.(*BinaryOperator)
	if !ok || plus.OperatorTok.Tok.Literal != "+" {
		t.Fatalf("initializer: got %T, want BinaryOperator +", d.Value.Value)
	}
	times, ok := plus.RHS.(*BinaryOperator)
	if !ok || times.OperatorTok.Tok.Literal != "*" {
		t.Fatalf("right operand: got %T, want BinaryOperator *", plus.RHS)
	}
}

func TestExprLineStmtCall(t *testing.T) {
	tu, _ := parseSource("foo(a, b + c);")

	if len(tu.Body) != 1 {
		t.Fatalf("got %d statements, want 1", len(tu.Body))
	}
	line, ok := tu.Body[0].(*ExprLineStmt)
	if !ok {
		t.Fatalf("got %T, want *ExprLineStmt", tu.Body[0])
	}
	call, ok := line.Value.(*CallExpr)
	if !ok {
		t.Fatalf("got %T, want *CallExpr", line.Value)
	}
	if name := call.Callee.Name(); name == nil || name.Tok.Literal != "foo" {
		t.Errorf("callee: got %v, want foo", name)
	}
	if len(call.Args) != 2 {
		t.Fatalf("got %d arguments, want 2", len(call.Args))
	}
	plus, ok := call.Args[1].(*BinaryOperator)
	if !ok || plus.OperatorTok.Tok.Literal != "+" {
		t.Errorf("second argument: got %T, want BinaryOperator +", call.Args[1])
	}
}

func TestClassDeclWithBasesAndDestructor(t *testing.T) {
	tu, _ := parseSource("class A : public B, C { int x; ~A(); };")

	if len(tu.Body) != 1 {
		t.Fatalf("got %d statements, want 1", len(tu.Body))
	}
	class, ok := tu.Body[0].(*ClassDecl)
	if !ok {
		t.Fatalf("got %T, want *ClassDecl", tu.Body[0])
	}
	if spelled := typeSpelling(class.Name); spelled != "A" {
		t.Errorf("class name: got %q, want A", spelled)
	}
	if len(class.Bases) != 2 {
		t.Fatalf("got %d bases, want 2", len(class.Bases))
	}
	if class.Bases[0].Accessibility == nil || class.Bases[0].Accessibility.Tok.Kind != token.Public {
		t.Errorf("first base accessibility: got %v, want public", class.Bases[0].Accessibility)
	}
	if class.Bases[1].Accessibility != nil {
		t.Errorf("second base accessibility: got %v, want none", class.Bases[1].Accessibility)
	}
	if len(class.Body) != 2 {
		t.Fatalf("got %d members, want 2", len(class.Body))
	}
	if _, ok := class.Body[0].(*DeclStmt); !ok {
		t.Errorf("first member: got %T, want *DeclStmt", class.Body[0])
	}
	dtor, ok := class.Body[1].(*FunctionDecl)
	if !ok {
		t.Fatalf("second member: got %T, want *FunctionDecl", class.Body[1])
	}
	if !dtor.IsDestructor() {
		t.Error("second member is not recognized as a destructor")
	}
	if dtor.Body != nil {
		t.Error("destructor should have no body")
	}
}

func TestReturnMemberAccess(t *testing.T) {
	tu, _ := parseSource("return a->b.c;")

	ret, ok := tu.Body[0].(*ReturnStmt)
	if !ok {
		t.Fatalf("got %T, want *ReturnStmt", tu.Body[0])
	}
	period, ok := ret.Body.(*BinaryOperator)
	if !ok || period.OperatorTok.Tok.Literal != "." {
		t.Fatalf("got %T, want BinaryOperator .", ret.Body)
	}
	arrow, ok := period.LHS.(*BinaryOperator)
	if !ok || arrow.OperatorTok.Tok.Literal != "->" {
		t.Fatalf("left of .: got %T, want BinaryOperator ->", period.LHS)
	}
}

func TestTemplateTypeDecl(t *testing.T) {
	tu, _ := parseSource("std::vector<int> v;")

	decl, ok := tu.Body[0].(*DeclStmt)
	if !ok {
		t.Fatalf("got %T, want *DeclStmt", tu.Body[0])
	}
	typ := decl.Decls[0].VariableType
	var quals []string
	for _, q := range typ.Qualifiers {
		quals = append(quals, q.Tok.Literal)
	}
	want := []string{"std", "::", "vector"}
	if len(quals) != len(want) {
		t.Fatalf("qualifiers: got %v, want %v", quals, want)
	}
	for i := range want {
		if quals[i] != want[i] {
			t.Fatalf("qualifiers: got %v, want %v", quals, want)
		}
	}
	if typ.Template == nil || len(typ.Template.Args) != 1 {
		t.Fatal("missing template argument list")
	}
	arg, ok := typ.Template.Args[0].(*Type)
	if !ok || typeSpelling(arg) != "int" {
		t.Fatalf("template argument: got %T %v, want Type int", typ.Template.Args[0], typ.Template.Args[0])
	}
}

func TestRecoveryProducesUnparsableBlocks(t *testing.T) {
	tu, _ := parseSource("int ;  garble )  ; int y;")

	if len(tu.Body) != 3 {
		t.Fatalf("got %d statements, want 3: %s", len(tu.Body), DumpString(tu))
	}
	first, ok := tu.Body[0].(*UnparsableBlock)
	if !ok {
		t.Fatalf("first statement: got %T, want *UnparsableBlock", tu.Body[0])
	}
	if len(first.Tokens) != 2 || first.Tokens[1].Tok.Kind != token.Semicolon {
		t.Errorf("first block should hold 'int ;', got %d tokens", len(first.Tokens))
	}
	second, ok := tu.Body[1].(*UnparsableBlock)
	if !ok {
		t.Fatalf("second statement: got %T, want *UnparsableBlock", tu.Body[1])
	}
	if len(second.Tokens) != 3 {
		t.Errorf("second block should hold 'garble ) ;', got %d tokens", len(second.Tokens))
	}
	decl, ok := tu.Body[2].(*DeclStmt)
	if !ok {
		t.Fatalf("third statement: got %T, want *DeclStmt", tu.Body[2])
	}
	if decl.Decls[0].NameTok.Tok.Literal != "y" {
		t.Errorf("declarator name: got %q, want y", decl.Decls[0].NameTok.Tok.Literal)
	}
}

func TestFunctionDeclWithBody(t *testing.T) {
	tu, _ := parseSource("void f(int a, int b) { return a + b; }")

	fn, ok := tu.Body[0].(*FunctionDecl)
	if !ok {
		t.Fatalf("got %T, want *FunctionDecl", tu.Body[0])
	}
	if fn.NameTok.Tok.Literal != "f" {
		t.Errorf("name: got %q, want f", fn.NameTok.Tok.Literal)
	}
	if len(fn.Params) != 2 {
		t.Fatalf("got %d parameters, want 2", len(fn.Params))
	}
	if fn.Body == nil || len(fn.Body.Body) != 1 {
		t.Fatal("missing or empty function body")
	}
	if _, ok := fn.Body.Body[0].(*ReturnStmt); !ok {
		t.Errorf("body statement: got %T, want *ReturnStmt", fn.Body.Body[0])
	}
}

func TestFunctionDeclTrailingTokens(t *testing.T) {
	tu, _ := parseSource("void f() const { return; }")

	fn, ok := tu.Body[0].(*FunctionDecl)
	if !ok {
		t.Fatalf("got %T, want *FunctionDecl", tu.Body[0])
	}
	if len(fn.Trailing) != 1 || fn.Trailing[0].Tok.Kind != token.Const {
		t.Errorf("trailing tokens: got %v, want [const]", fn.Trailing)
	}
	if fn.Body == nil {
		t.Error("missing function body")
	}
}

func TestStaticAndVirtualSetters(t *testing.T) {
	tu, _ := parseSource("class C { static int f(); virtual int g(); };")

	class := tu.Body[0].(*ClassDecl)
	if len(class.Body) != 2 {
		t.Fatalf("got %d members, want 2", len(class.Body))
	}
	f := class.Body[0].(*FunctionDecl)
	if f.StaticTok == nil || f.VirtualTok != nil {
		t.Errorf("f: static=%v virtual=%v, want static set only", f.StaticTok, f.VirtualTok)
	}
	g := class.Body[1].(*FunctionDecl)
	if g.VirtualTok == nil || g.StaticTok != nil {
		t.Errorf("g: static=%v virtual=%v, want virtual set only", g.StaticTok, g.VirtualTok)
	}
}

func TestMultiDeclaratorStmt(t *testing.T) {
	tu, _ := parseSource("int x, *y, &z;")

	decl, ok := tu.Body[0].(*DeclStmt)
	if !ok {
		t.Fatalf("got %T, want *DeclStmt", tu.Body[0])
	}
	if len(decl.Decls) != 3 {
		t.Fatalf("got %d declarators, want 3", len(decl.Decls))
	}
	if len(decl.Decls[0].VariableType.Decorations) != 0 {
		t.Error("x should carry no decorations")
	}
	y := decl.Decls[1].VariableType
	if len(y.Decorations) != 1 || y.Decorations[0].Class != DecorationPointer {
		t.Error("y should carry one pointer decoration")
	}
	z := decl.Decls[2].VariableType
	if len(z.Decorations) != 1 || z.Decorations[0].Class != DecorationReference {
		t.Error("z should carry one reference decoration")
	}
}

func TestEmptyTemplateArgumentList(t *testing.T) {
	tu, _ := parseSource("A<> x;")

	decl, ok := tu.Body[0].(*DeclStmt)
	if !ok {
		t.Fatalf("got %T, want *DeclStmt: %s", tu.Body[0], DumpString(tu))
	}
	typ := decl.Decls[0].VariableType
	if typ.Template == nil {
		t.Fatal("missing template argument list")
	}
	if len(typ.Template.Args) != 0 {
		t.Errorf("got %d template arguments, want 0", len(typ.Template.Args))
	}
}

func TestExpressionTemplateArgument(t *testing.T) {
	tu, _ := parseSource("array<4 + 4> a;")

	decl, ok := tu.Body[0].(*DeclStmt)
	if !ok {
		t.Fatalf("got %T, want *DeclStmt: %s", tu.Body[0], DumpString(tu))
	}
	typ := decl.Decls[0].VariableType
	if typ.Template == nil || len(typ.Template.Args) != 1 {
		t.Fatal("missing template argument")
	}
	plus, ok := typ.Template.Args[0].(*BinaryOperator)
	if !ok || plus.OperatorTok.Tok.Literal != "+" {
		t.Fatalf("template argument: got %T, want BinaryOperator +", typ.Template.Args[0])
	}
}

func TestTrailingCommaInCallFails(t *testing.T) {
	tu, _ := parseSource("foo(a,);")

	if _, ok := tu.Body[0].(*UnparsableBlock); !ok {
		t.Errorf("got %T, want *UnparsableBlock: %s", tu.Body[0], DumpString(tu))
	}
}

func TestLabelStmt(t *testing.T) {
	tu, _ := parseSource("out: return;")

	label, ok := tu.Body[0].(*LabelStmt)
	if !ok {
		t.Fatalf("got %T, want *LabelStmt", tu.Body[0])
	}
	if label.LabelTok.Tok.Literal != "out" {
		t.Errorf("label: got %q, want out", label.LabelTok.Tok.Literal)
	}
	if _, ok := tu.Body[1].(*ReturnStmt); !ok {
		t.Errorf("second statement: got %T, want *ReturnStmt", tu.Body[1])
	}
}

func TestPrecedenceGrouping(t *testing.T) {
	tests := []struct {
		input string
		// expected top-level operator and the side holding the nested one
		top    string
		nested string
		onLeft bool
	}{
		{"a + b * c", "+", "*", false},
		{"a * b + c", "+", "*", true},
		{"a - b + c", "+", "-", true},
		{"a == b && c == d", "&&", "==", true},
		{"a->b.c", ".", "->", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			e, _ := parseExprSource(tt.input)
			top, ok := e.(*BinaryOperator)
			if !ok {
				t.Fatalf("got %T, want *BinaryOperator", e)
			}
			if top.OperatorTok.Tok.Literal != tt.top {
				t.Fatalf("top operator: got %q, want %q", top.OperatorTok.Tok.Literal, tt.top)
			}
			side := top.RHS
			if tt.onLeft {
				side = top.LHS
			}
			nested, ok := side.(*BinaryOperator)
			if !ok {
				t.Fatalf("nested side: got %T, want *BinaryOperator", side)
			}
			if nested.OperatorTok.Tok.Literal != tt.nested {
				t.Errorf("nested operator: got %q, want %q", nested.OperatorTok.Tok.Literal, tt.nested)
			}
		})
	}
}

func TestUnaryOperatorsStack(t *testing.T) {
	e, _ := parseExprSource("!~x")
	outer, ok := e.(*UnaryOperator)
	if !ok || outer.OperatorTok.Tok.Literal != "!" {
		t.Fatalf("got %T, want UnaryOperator !", e)
	}
	inner, ok := outer.Value.(*UnaryOperator)
	if !ok || inner.OperatorTok.Tok.Literal != "~" {
		t.Fatalf("operand: got %T, want UnaryOperator ~", outer.Value)
	}
	if _, ok := inner.Value.(*DeclRefExpr); !ok {
		t.Errorf("innermost operand: got %T, want *DeclRefExpr", inner.Value)
	}
}

func TestRollbackPurity(t *testing.T) {
	// 'foo bar(' parses a type and a declarator before failing; the cursor
	// must come back byte-identical.
	buf := Annotate(lexer.Tokenize([]byte("foo bar("), "test.cpp"))
	cur := newCursor(buf)
	before := cur.mark()

	if st := parseDeclStmt(cur); st != nil {
		t.Fatalf("parseDeclStmt unexpectedly succeeded: %v", st)
	}
	if cur.mark() != before {
		t.Errorf("cursor moved across a failed recognizer: %v != %v", cur.mark(), before)
	}

	if f := parseFunctionDecl(cur, false); f != nil {
		t.Fatalf("parseFunctionDecl unexpectedly succeeded: %v", f)
	}
	if cur.mark() != before {
		t.Errorf("cursor moved across a failed recognizer: %v != %v", cur.mark(), before)
	}
}

func TestFullTokenCoverage(t *testing.T) {
	sources := []string{
		"int x = 1 + 2 * 3;",
		"foo(a, b + c);",
		"class A : public B, C { int x; ~A(); };",
		"return a->b.c;",
		"std::vector<int> v;",
		"int ;  garble )  ; int y;",
		"void f(int a, int b) { return a + b; }",
		"void f(int* p) const { return; }",
		"class D : garbage ( here { int x; };",
		"x; -y; f();",
		"A<> x; array<4 + 4> b;",
	}

	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			_, buf := parseSource(src)
			for i := range buf {
				switch buf[i].Tok.Kind {
				case token.EOF, token.Comment, token.LineComment, token.Unknown:
					continue
				}
				if buf[i].Ref() == nil {
					t.Errorf("token %d %q (%v) has no AST back-reference",
						i, buf[i].Tok.Literal, buf[i].Tok.Kind)
				}
			}
		})
	}
}

func TestResyncAlignment(t *testing.T) {
	sources := []string{
		"garble ) ;",
		") ) )",
		"int ; junk",
		"~ ~ ~",
	}

	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			tu, buf := parseSource(src)
			if len(tu.Body) == 0 {
				t.Fatal("non-empty buffer produced no statements")
			}
			lastIdx := len(buf) - 1
			for buf[lastIdx].Tok.Kind == token.EOF || ignoredKind(buf[lastIdx].Tok.Kind) {
				lastIdx--
			}
			for _, st := range tu.Body {
				block, ok := st.(*UnparsableBlock)
				if !ok {
					continue
				}
				if len(block.Tokens) == 0 {
					t.Fatal("empty unparsable block")
				}
				last := block.Tokens[len(block.Tokens)-1]
				switch last.Tok.Kind {
				case token.Semicolon, token.LBrace, token.RBrace:
					continue
				}
				if last != &buf[lastIdx] {
					t.Errorf("block ends at %q, neither a boundary nor the final token", last.Tok.Literal)
				}
			}
		})
	}
}

func TestProgressOnArbitraryInput(t *testing.T) {
	sources := []string{
		";", "}", "{", "( ( (", "class", "return", "= = =", "< > < >",
	}
	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			tu, _ := parseSource(src)
			if len(tu.Body) == 0 {
				t.Error("non-empty buffer produced no statements")
			}
		})
	}
}

func TestCommentsAreInvisibleToTheParser(t *testing.T) {
	tu, buf := parseSource("int /* width */ x = /* init */ 3; // done")

	decl, ok := tu.Body[0].(*DeclStmt)
	if !ok {
		t.Fatalf("got %T, want *DeclStmt", tu.Body[0])
	}
	if decl.Decls[0].NameTok.Tok.Literal != "x" {
		t.Errorf("name: got %q, want x", decl.Decls[0].NameTok.Tok.Literal)
	}
	for i := range buf {
		if ignoredKind(buf[i].Tok.Kind) && buf[i].Ref() != nil {
			t.Errorf("comment token %q was claimed", buf[i].Tok.Literal)
		}
	}
}

func TestSharedTypeCloneKeepsDecorationsApart(t *testing.T) {
	tu, _ := parseSource("std::vector<int> a, *b;")

	decl := tu.Body[0].(*DeclStmt)
	if len(decl.Decls) != 2 {
		t.Fatalf("got %d declarators, want 2", len(decl.Decls))
	}
	if len(decl.Decls[0].VariableType.Decorations) != 0 {
		t.Error("a should carry no decorations")
	}
	if len(decl.Decls[1].VariableType.Decorations) != 1 {
		t.Error("b should carry the pointer decoration")
	}
	if decl.Decls[0].VariableType == decl.Decls[1].VariableType {
		t.Error("declarators must not share one Type node")
	}
}
