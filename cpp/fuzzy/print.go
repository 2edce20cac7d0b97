package fuzzy

import (
	"strings"
)

// DumpString renders the AST as an indented tree, one node per line,
// with the claimed token spellings inline.
func DumpString(el Element) string {
	var sb strings.Builder
	dumpIndent(&sb, el, 0)
	return sb.String()
}

func dumpIndent(sb *strings.Builder, el Element, indent int) {
	if el == nil {
		return
	}
	prefix := strings.Repeat("  ", indent)

	switch n := el.(type) {
	case *TranslationUnit:
		sb.WriteString(prefix + "TranslationUnit\n")
		for _, st := range n.Body {
			dumpIndent(sb, st, indent+1)
		}
	case *Type:
		sb.WriteString(prefix + "Type " + typeSpelling(n) + "\n")
		if n.Template != nil {
			for _, arg := range n.Template.Args {
				dumpIndent(sb, arg, indent+1)
			}
		}
	case *VarDecl:
		name := ""
		if n.NameTok != nil {
			name = " " + n.NameTok.Tok.Literal
		}
		sb.WriteString(prefix + "VarDecl" + name + "\n")
		dumpIndent(sb, n.VariableType, indent+1)
		if n.Value != nil {
			dumpIndent(sb, n.Value, indent+1)
		}
	case *VarInitialization:
		sb.WriteString(prefix + "VarInitialization\n")
		dumpIndent(sb, n.Value, indent+1)
	case *DeclStmt:
		sb.WriteString(prefix + "DeclStmt\n")
		for _, d := range n.Decls {
			dumpIndent(sb, d, indent+1)
		}
	case *FunctionDecl:
		name := ""
		if n.NameTok != nil {
			name = " " + n.NameTok.Tok.Literal
		}
		sb.WriteString(prefix + "FunctionDecl" + name + "\n")
		if n.ReturnType != nil {
			dumpIndent(sb, n.ReturnType, indent+1)
		}
		for _, p := range n.Params {
			dumpIndent(sb, p, indent+1)
		}
		if n.Body != nil {
			dumpIndent(sb, n.Body, indent+1)
		}
	case *ClassDecl:
		sb.WriteString(prefix + "ClassDecl " + n.ClassTok.Tok.Literal + " " + typeSpelling(n.Name) + "\n")
		for _, b := range n.Bases {
			access := ""
			if b.Accessibility != nil {
				access = b.Accessibility.Tok.Literal + " "
			}
			sb.WriteString(prefix + "  Base " + access + typeSpelling(b.BaseType) + "\n")
		}
		for _, st := range n.Body {
			dumpIndent(sb, st, indent+1)
		}
	case *LabelStmt:
		sb.WriteString(prefix + "LabelStmt " + n.LabelTok.Tok.Literal + "\n")
	case *ReturnStmt:
		sb.WriteString(prefix + "ReturnStmt\n")
		if n.Body != nil {
			dumpIndent(sb, n.Body, indent+1)
		}
	case *ExprLineStmt:
		sb.WriteString(prefix + "ExprLineStmt\n")
		dumpIndent(sb, n.Value, indent+1)
	case *CompoundStmt:
		sb.WriteString(prefix + "CompoundStmt\n")
		for _, st := range n.Body {
			dumpIndent(sb, st, indent+1)
		}
	case *DeclRefExpr:
		sb.WriteString(prefix + "DeclRefExpr " + qualSpelling(&n.qualifiedName) + "\n")
		if n.Template != nil {
			for _, arg := range n.Template.Args {
				dumpIndent(sb, arg, indent+1)
			}
		}
	case *CallExpr:
		sb.WriteString(prefix + "CallExpr " + qualSpelling(&n.Callee.qualifiedName) + "\n")
		for _, arg := range n.Args {
			dumpIndent(sb, arg, indent+1)
		}
	case *LiteralConstant:
		sb.WriteString(prefix + "LiteralConstant " + n.Tok.Tok.Literal + "\n")
	case *UnaryOperator:
		sb.WriteString(prefix + "UnaryOperator " + n.OperatorTok.Tok.Literal + "\n")
		dumpIndent(sb, n.Value, indent+1)
	case *BinaryOperator:
		sb.WriteString(prefix + "BinaryOperator " + n.OperatorTok.Tok.Literal + "\n")
		dumpIndent(sb, n.LHS, indent+1)
		dumpIndent(sb, n.RHS, indent+1)
	case *UnparsableBlock:
		var toks []string
		for _, t := range n.Tokens {
			toks = append(toks, t.Tok.Literal)
		}
		sb.WriteString(prefix + "UnparsableBlock " + strings.Join(toks, " ") + "\n")
	}
}

func typeSpelling(t *Type) string {
	if t == nil {
		return ""
	}
	sb := joinSpelled(t.Qualifiers)
	if t.Template != nil {
		sb += "<...>"
	}
	for _, d := range t.Decorations {
		sb += d.Tok.Tok.Literal
	}
	return sb
}

func qualSpelling(q *qualifiedName) string {
	sb := joinSpelled(q.Qualifiers)
	if q.Template != nil {
		sb += "<...>"
	}
	return sb
}

// joinSpelled concatenates token spellings, spacing apart adjacent
// word-like tokens so 'unsigned long' does not render as 'unsignedlong'.
func joinSpelled(toks []*AnnotatedToken) string {
	var sb strings.Builder
	for i, tok := range toks {
		lit := tok.Tok.Literal
		if i > 0 && wordlike(sb.String()) && lit != "" && isWordByte(lit[0]) {
			sb.WriteByte(' ')
		}
		sb.WriteString(lit)
	}
	return sb.String()
}

func wordlike(s string) bool {
	return s != "" && isWordByte(s[len(s)-1])
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
