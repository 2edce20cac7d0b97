package lsp

import (
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/gangfan/clang-highlight/cpp/highlight"
)

// legendTypes is the semantic token legend advertised at initialize time.
// Indices into it appear in the encoded token data.
var legendTypes = []string{
	"namespace",
	"type",
	"variable",
	"function",
	"keyword",
	"number",
	"string",
	"operator",
	"comment",
	"macro",
	"decorator",
}

var styleToLegend = map[highlight.Style]int{
	highlight.StyleNamespace:    0,
	highlight.StyleTypeName:     1,
	highlight.StyleVariable:     2,
	highlight.StyleFunction:     3,
	highlight.StyleKeyword:      4,
	highlight.StyleNumeric:      5,
	highlight.StyleString:       6,
	highlight.StyleChar:         6,
	highlight.StyleOperator:     7,
	highlight.StyleComment:      8,
	highlight.StylePreprocessor: 9,
	highlight.StyleLabel:        10,
}

// encodeSemanticTokens flattens the styled regions into the LSP
// delta-encoded quintuple stream. Tokens spanning several lines (block
// comments) are split so each emitted token stays on one line.
func encodeSemanticTokens(doc *highlight.Document) []protocol.UInteger {
	var data []protocol.UInteger
	prevLine := 0
	prevCol := 0

	emit := func(line, col, length, legend int) {
		deltaLine := line - prevLine
		deltaStart := col
		if deltaLine == 0 {
			deltaStart = col - prevCol
		}
		data = append(data,
			protocol.UInteger(deltaLine),
			protocol.UInteger(deltaStart),
			protocol.UInteger(length),
			protocol.UInteger(legend),
			0,
		)
		prevLine = line
		prevCol = col
	}

	for _, region := range doc.Regions {
		legend, ok := styleToLegend[region.Style]
		if !ok {
			continue
		}
		line := region.Tok.Span.Start.Line - 1
		col := region.Tok.Span.Start.Column - 1

		if !strings.Contains(region.Tok.Literal, "\n") {
			emit(line, col, len(region.Tok.Literal), legend)
			continue
		}

		for i, part := range strings.Split(region.Tok.Literal, "\n") {
			if i > 0 {
				line++
				col = 0
			}
			if len(part) > 0 {
				emit(line, col, len(part), legend)
			}
		}
	}

	return data
}
