package highlight

import (
	"encoding"

	"github.com/gangfan/clang-highlight/cpp/fuzzy"
	"github.com/gangfan/clang-highlight/cpp/lexer"
	"github.com/gangfan/clang-highlight/cpp/token"
)

// Region is one styled token of the source.
type Region struct {
	Tok   token.Token
	Style Style
}

// Document is a highlighted source file: the raw bytes plus the styled
// regions in source order. Bytes between regions (whitespace) render
// unstyled.
type Document struct {
	File    string
	Source  []byte
	Regions []Region

	// AST and Tokens keep the parse result available to consumers that
	// need more than the styled regions.
	AST    *fuzzy.TranslationUnit
	Tokens []fuzzy.AnnotatedToken
}

// FromSource runs the whole pipeline: lex, annotate, fuzzy-parse,
// classify.
func FromSource(src []byte, file string) *Document {
	toks := lexer.Tokenize(src, file)
	buf := fuzzy.Annotate(toks)
	tu := fuzzy.Parse(buf)
	styles := Classify(buf, tu)

	doc := &Document{
		File:   file,
		Source: src,
		AST:    tu,
		Tokens: buf,
	}
	for i := range buf {
		if buf[i].Tok.Kind == token.EOF {
			continue
		}
		doc.Regions = append(doc.Regions, Region{Tok: buf[i].Tok, Style: styles[i]})
	}
	return doc
}

// Encoder renders a highlighted document, mirroring the encoder shape used
// elsewhere in the toolchain.
type Encoder interface {
	encoding.TextMarshaler
	Encode(doc *Document) error
}
