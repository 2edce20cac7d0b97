package highlight

import (
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// TermEncoder renders a document with ANSI colors for terminal output.
type TermEncoder struct {
	w       io.Writer
	profile termenv.Profile
	doc     *Document
}

func NewTermEncoder(w io.Writer) *TermEncoder {
	return &TermEncoder{w: w, profile: termenv.ColorProfile()}
}

func (e *TermEncoder) Encode(doc *Document) error {
	e.doc = doc
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TermEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder

	pos := 0
	src := e.doc.Source
	for _, region := range e.doc.Regions {
		start := region.Tok.Span.Start.Offset
		end := region.Tok.Span.End.Offset
		if start > pos {
			sb.WriteString(string(src[pos:start]))
		}
		sb.WriteString(e.render(string(src[start:end]), region.Style))
		pos = end
	}
	if pos < len(src) {
		sb.WriteString(string(src[pos:]))
	}

	return []byte(sb.String()), nil
}

func (e *TermEncoder) render(text string, style Style) string {
	s := termenv.String(text)
	switch style {
	case StyleKeyword:
		s = s.Foreground(e.profile.Color("#569cd6")).Bold()
	case StyleTypeName:
		s = s.Foreground(e.profile.Color("#4ec9b0"))
	case StyleNamespace:
		s = s.Foreground(e.profile.Color("#9cdcfe"))
	case StyleFunction:
		s = s.Foreground(e.profile.Color("#dcdcaa"))
	case StyleLabel:
		s = s.Foreground(e.profile.Color("#c586c0"))
	case StyleNumeric:
		s = s.Foreground(e.profile.Color("#b5cea8"))
	case StyleString, StyleChar:
		s = s.Foreground(e.profile.Color("#ce9178"))
	case StyleComment:
		s = s.Foreground(e.profile.Color("#6a9955")).Italic()
	case StylePreprocessor:
		s = s.Foreground(e.profile.Color("#c586c0"))
	case StyleUnparsable:
		s = s.Underline()
	default:
		return text
	}
	return s.String()
}
