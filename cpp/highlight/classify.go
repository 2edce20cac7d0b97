// Package highlight turns a fuzzy-parsed token buffer into styled regions
// and renders them as HTML or ANSI terminal output.
package highlight

import (
	"github.com/gangfan/clang-highlight/cpp/fuzzy"
	"github.com/gangfan/clang-highlight/cpp/token"
)

type Style int

const (
	StylePlain Style = iota
	StyleKeyword
	StyleTypeName
	StyleNamespace
	StyleVariable
	StyleFunction
	StyleLabel
	StyleNumeric
	StyleString
	StyleChar
	StyleOperator
	StyleComment
	StylePreprocessor
	StyleUnparsable
)

var styleNames = map[Style]string{
	StylePlain:        "plain",
	StyleKeyword:      "keyword",
	StyleTypeName:     "type",
	StyleNamespace:    "namespace",
	StyleVariable:     "variable",
	StyleFunction:     "function",
	StyleLabel:        "label",
	StyleNumeric:      "numeric",
	StyleString:       "string",
	StyleChar:         "char",
	StyleOperator:     "operator",
	StyleComment:      "comment",
	StylePreprocessor: "preprocessor",
	StyleUnparsable:   "unparsable",
}

func (s Style) String() string {
	if name, ok := styleNames[s]; ok {
		return name
	}
	return "plain"
}

// Classify assigns a style to every token in the annotated buffer. The
// first pass styles by token kind alone; the second refines identifiers
// through their AST back-references; the last marks call callees as
// functions, which only the tree can tell apart from variable reads.
func Classify(buf []fuzzy.AnnotatedToken, tu *fuzzy.TranslationUnit) []Style {
	styles := make([]Style, len(buf))

	for i := range buf {
		styles[i] = kindStyle(buf[i].Tok)
	}

	for i := range buf {
		tok := &buf[i]
		if tok.Tok.Kind != token.Identifier {
			continue
		}
		switch ref := tok.Ref().(type) {
		case *fuzzy.Type:
			if ref.Name() == tok {
				styles[i] = StyleTypeName
			} else {
				styles[i] = StyleNamespace
			}
		case *fuzzy.DeclRefExpr:
			if ref.Name() == tok {
				styles[i] = StyleVariable
			} else {
				styles[i] = StyleNamespace
			}
		case *fuzzy.VarDecl:
			styles[i] = StyleVariable
		case *fuzzy.FunctionDecl:
			styles[i] = StyleFunction
		case *fuzzy.LabelStmt:
			styles[i] = StyleLabel
		case *fuzzy.UnparsableBlock:
			styles[i] = StyleUnparsable
		}
	}

	if tu != nil {
		callees := make(map[*fuzzy.AnnotatedToken]bool)
		for _, st := range tu.Body {
			collectCallees(st, callees)
		}
		for i := range buf {
			if callees[&buf[i]] {
				styles[i] = StyleFunction
			}
		}
	}

	return styles
}

func kindStyle(tok token.Token) Style {
	k := tok.Kind
	switch {
	case k == token.Comment || k == token.LineComment:
		return StyleComment
	case k == token.Unknown:
		if len(tok.Literal) > 0 && tok.Literal[0] == '#' {
			return StylePreprocessor
		}
		return StylePlain
	case k == token.IntLiteral || k == token.FloatLiteral:
		return StyleNumeric
	case k == token.StringLiteral:
		return StyleString
	case k == token.CharLiteral:
		return StyleChar
	case token.IsKeyword(k):
		return StyleKeyword
	case token.BinaryPrecedence(k) != 0 || k == token.Not || k == token.Tilde ||
		k == token.Increment || k == token.Decrement ||
		k == token.Period || k == token.Arrow:
		return StyleOperator
	}
	return StylePlain
}

// collectCallees walks the tree and records the name token of every call
// expression's callee.
func collectCallees(el fuzzy.Element, out map[*fuzzy.AnnotatedToken]bool) {
	switch n := el.(type) {
	case *fuzzy.DeclStmt:
		for _, d := range n.Decls {
			collectCallees(d, out)
		}
	case *fuzzy.VarDecl:
		if n.VariableType != nil {
			collectCallees(n.VariableType, out)
		}
		if n.Value != nil && n.Value.Value != nil {
			collectCallees(n.Value.Value, out)
		}
	case *fuzzy.Type:
		if n.Template != nil {
			for _, arg := range n.Template.Args {
				collectCallees(arg, out)
			}
		}
	case *fuzzy.FunctionDecl:
		if n.ReturnType != nil {
			collectCallees(n.ReturnType, out)
		}
		for _, p := range n.Params {
			collectCallees(p, out)
		}
		if n.Body != nil {
			collectCallees(n.Body, out)
		}
	case *fuzzy.ClassDecl:
		for _, st := range n.Body {
			collectCallees(st, out)
		}
	case *fuzzy.ReturnStmt:
		if n.Body != nil {
			collectCallees(n.Body, out)
		}
	case *fuzzy.ExprLineStmt:
		collectCallees(n.Value, out)
	case *fuzzy.CompoundStmt:
		for _, st := range n.Body {
			collectCallees(st, out)
		}
	case *fuzzy.DeclRefExpr:
		if n.Template != nil {
			for _, arg := range n.Template.Args {
				collectCallees(arg, out)
			}
		}
	case *fuzzy.CallExpr:
		if n.Callee != nil {
			if name := n.Callee.Name(); name != nil {
				out[name] = true
			}
			collectCallees(n.Callee, out)
		}
		for _, arg := range n.Args {
			collectCallees(arg, out)
		}
	case *fuzzy.UnaryOperator:
		collectCallees(n.Value, out)
	case *fuzzy.BinaryOperator:
		collectCallees(n.LHS, out)
		collectCallees(n.RHS, out)
	}
}
