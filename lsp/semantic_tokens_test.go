package lsp

import (
	"testing"

	"github.com/gangfan/clang-highlight/cpp/highlight"
)

func TestEncodeSemanticTokens(t *testing.T) {
	doc := highlight.FromSource([]byte("int x;\nreturn;"), "test.cpp")

	data := encodeSemanticTokens(doc)
	if len(data)%5 != 0 {
		t.Fatalf("data length %d is not a multiple of 5", len(data))
	}

	// int (keyword), x (variable), return (keyword); punctuation is not in
	// the legend.
	if len(data)/5 != 3 {
		t.Fatalf("got %d tokens, want 3", len(data)/5)
	}

	// First token: line 0, col 0, length 3, keyword.
	if data[0] != 0 || data[1] != 0 || data[2] != 3 {
		t.Errorf("first token header: got %v", data[:5])
	}
	if legendTypes[data[3]] != "keyword" {
		t.Errorf("first token type: got %s, want keyword", legendTypes[data[3]])
	}

	// Second token: same line, delta start 4, length 1, variable.
	if data[5] != 0 || data[6] != 4 || data[7] != 1 {
		t.Errorf("second token header: got %v", data[5:10])
	}
	if legendTypes[data[8]] != "variable" {
		t.Errorf("second token type: got %s, want variable", legendTypes[data[8]])
	}

	// Third token: next line, col 0, length 6, keyword.
	if data[10] != 1 || data[11] != 0 || data[12] != 6 {
		t.Errorf("third token header: got %v", data[10:15])
	}
}

func TestEncodeSemanticTokensSplitsMultiline(t *testing.T) {
	doc := highlight.FromSource([]byte("/* a\nb */ int x;"), "test.cpp")

	data := encodeSemanticTokens(doc)
	// The block comment spans two lines and must become two tokens, plus
	// int and x.
	if len(data)/5 != 4 {
		t.Fatalf("got %d tokens, want 4", len(data)/5)
	}
	if legendTypes[data[3]] != "comment" || legendTypes[data[8]] != "comment" {
		t.Error("split comment pieces should stay comments")
	}
	if data[5] != 1 {
		t.Errorf("second comment piece should start on the next line, got delta %d", data[5])
	}
}
