package highlight

import (
	"fmt"
	"html"
	"io"
	"strings"
)

// HTMLEncoder renders a document as a standalone HTML page with one span
// per styled region.
type HTMLEncoder struct {
	w   io.Writer
	doc *Document
}

func NewHTMLEncoder(w io.Writer) *HTMLEncoder {
	return &HTMLEncoder{w: w}
}

func (e *HTMLEncoder) Encode(doc *Document) error {
	e.doc = doc
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *HTMLEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n", html.EscapeString(e.doc.File))
	sb.WriteString("<style>\n" + stylesheet + "</style>\n</head>\n<body>\n<pre class=\"highlight\">")

	pos := 0
	src := e.doc.Source
	for _, region := range e.doc.Regions {
		start := region.Tok.Span.Start.Offset
		end := region.Tok.Span.End.Offset
		if start > pos {
			sb.WriteString(html.EscapeString(string(src[pos:start])))
		}
		if region.Style == StylePlain {
			sb.WriteString(html.EscapeString(string(src[start:end])))
		} else {
			fmt.Fprintf(&sb, "<span class=\"%s\">%s</span>",
				region.Style, html.EscapeString(string(src[start:end])))
		}
		pos = end
	}
	if pos < len(src) {
		sb.WriteString(html.EscapeString(string(src[pos:])))
	}

	sb.WriteString("</pre>\n</body>\n</html>\n")
	return []byte(sb.String()), nil
}

const stylesheet = `pre.highlight { background: #1e1e1e; color: #d4d4d4; padding: 1em; }
.keyword { color: #569cd6; }
.type { color: #4ec9b0; }
.namespace { color: #9cdcfe; }
.variable { color: #d4d4d4; }
.function { color: #dcdcaa; }
.label { color: #c586c0; }
.numeric { color: #b5cea8; }
.string { color: #ce9178; }
.char { color: #ce9178; }
.operator { color: #d4d4d4; }
.comment { color: #6a9955; }
.preprocessor { color: #c586c0; }
.unparsable { text-decoration: underline wavy #f44747; }
`
