package fuzzy

import (
	"testing"

	"github.com/gangfan/clang-highlight/cpp/lexer"
	"github.com/gangfan/clang-highlight/cpp/token"
)

func TestCursorSkipsCommentsAndUnknowns(t *testing.T) {
	buf := Annotate(lexer.Tokenize([]byte("int /* a */ x // b\n@ ;"), "test.cpp"))
	cur := newCursor(buf)

	var kinds []token.Kind
	for cur.peek() != nil {
		kinds = append(kinds, cur.next().Tok.Kind)
	}
	want := []token.Kind{token.Int, token.Identifier, token.Semicolon}
	if len(kinds) != len(want) {
		t.Fatalf("got %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("got %v, want %v", kinds, want)
		}
	}
}

func TestCursorLeadingCommentAndEOF(t *testing.T) {
	buf := Annotate(lexer.Tokenize([]byte("// only a comment"), "test.cpp"))
	cur := newCursor(buf)
	if cur.peek() != nil {
		t.Errorf("cursor over comment-only input should be exhausted, peeked %v", cur.peek().Tok)
	}

	buf = Annotate(lexer.Tokenize([]byte("/* lead */ x"), "test.cpp"))
	cur = newCursor(buf)
	if cur.peek() == nil || cur.peek().Tok.Kind != token.Identifier {
		t.Error("cursor should start on the first real token")
	}
}

func TestGuardRewindsUnlessDismissed(t *testing.T) {
	buf := Annotate(lexer.Tokenize([]byte("a b c"), "test.cpp"))

	cur := newCursor(buf)
	before := cur.mark()
	func() {
		g := cur.guard()
		defer g.exit()
		cur.next()
		cur.next()
	}()
	if cur.mark() != before {
		t.Error("guard did not rewind on exit")
	}

	func() {
		g := cur.guard()
		defer g.exit()
		cur.next()
		g.dismiss()
	}()
	if cur.mark() == before {
		t.Error("dismissed guard still rewound the cursor")
	}
	if cur.peek() == nil || cur.peek().Tok.Literal != "b" {
		t.Error("cursor should rest on the second token after a dismissed guard")
	}
}

func TestCursorExhaustsAtEOF(t *testing.T) {
	buf := Annotate(lexer.Tokenize([]byte("x"), "test.cpp"))
	cur := newCursor(buf)
	if tok := cur.next(); tok == nil || tok.Tok.Literal != "x" {
		t.Fatal("expected the identifier first")
	}
	if cur.peek() != nil {
		t.Error("cursor should be exhausted past the last real token")
	}
	if cur.next() != nil {
		t.Error("next on an exhausted cursor should return nil")
	}
}
