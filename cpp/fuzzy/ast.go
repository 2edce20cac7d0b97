package fuzzy

import (
	"github.com/gangfan/clang-highlight/cpp/token"
)

// AnnotatedToken is a lexed token plus a mutable back-reference to the AST
// node that claims it. The back-reference is a weak link: nodes own their
// children, never their tokens.
type AnnotatedToken struct {
	Tok token.Token
	ref Element
}

// Ref returns the AST node that claimed this token, or nil if no node did.
func (t *AnnotatedToken) Ref() Element { return t.ref }

func (t *AnnotatedToken) claim(e Element) *AnnotatedToken {
	t.ref = e
	return t
}

// Annotate wraps a lexed token slice into an annotated buffer ready for
// parsing.
func Annotate(toks []token.Token) []AnnotatedToken {
	buf := make([]AnnotatedToken, len(toks))
	for i, tok := range toks {
		buf[i] = AnnotatedToken{Tok: tok}
	}
	return buf
}

type ElementKind int

const (
	KindType ElementKind = iota + 1
	KindVarInitialization
	KindVarDecl
	KindDeclStmt
	KindFunctionDecl
	KindClassDecl
	KindLabelStmt
	KindReturnStmt
	KindExprLineStmt
	KindCompoundStmt
	KindDeclRefExpr
	KindCallExpr
	KindLiteralConstant
	KindUnaryOperator
	KindBinaryOperator
	KindUnparsableBlock
	KindTranslationUnit
)

var elementKindNames = map[ElementKind]string{
	KindType:              "Type",
	KindVarInitialization: "VarInitialization",
	KindVarDecl:           "VarDecl",
	KindDeclStmt:          "DeclStmt",
	KindFunctionDecl:      "FunctionDecl",
	KindClassDecl:         "ClassDecl",
	KindLabelStmt:         "LabelStmt",
	KindReturnStmt:        "ReturnStmt",
	KindExprLineStmt:      "ExprLineStmt",
	KindCompoundStmt:      "CompoundStmt",
	KindDeclRefExpr:       "DeclRefExpr",
	KindCallExpr:          "CallExpr",
	KindLiteralConstant:   "LiteralConstant",
	KindUnaryOperator:     "UnaryOperator",
	KindBinaryOperator:    "BinaryOperator",
	KindUnparsableBlock:   "UnparsableBlock",
	KindTranslationUnit:   "TranslationUnit",
}

func (k ElementKind) String() string {
	if name, ok := elementKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Element is anything an AnnotatedToken may back-reference.
type Element interface {
	Kind() ElementKind
}

// Stmt is a statement-level node: anything parseAny can produce.
type Stmt interface {
	Element
	stmtNode()
}

// Expr is an expression-level node.
type Expr interface {
	Element
	exprNode()
}

// scope is an append-only statement list. CompoundStmt, ClassDecl and
// TranslationUnit bodies all parse through it.
type scope interface {
	addStmt(Stmt)
}

// TemplateArgs holds a template argument list: the separator tokens
// ('<', ',' and '>') and the arguments, each either a *Type or an Expr.
type TemplateArgs struct {
	Separators []*AnnotatedToken
	Args       []Element
}

// qualifiedName is the shared qualified-id target of Type and DeclRefExpr.
// Tokens appended through it are claimed by the owning node.
type qualifiedName struct {
	owner      Element
	Qualifiers []*AnnotatedToken
	Template   *TemplateArgs
}

func (q *qualifiedName) addNameQualifier(tok *AnnotatedToken) {
	q.Qualifiers = append(q.Qualifiers, tok.claim(q.owner))
}

func (q *qualifiedName) makeTemplateArgs() {
	q.Template = &TemplateArgs{}
}

func (q *qualifiedName) addTemplateSeparator(tok *AnnotatedToken) {
	q.Template.Separators = append(q.Template.Separators, tok.claim(q.owner))
}

func (q *qualifiedName) addTemplateArgument(arg Element) {
	q.Template.Args = append(q.Template.Args, arg)
}

// lastName returns the final identifier qualifier, the name the qualified-id
// ultimately refers to.
func (q *qualifiedName) lastName() *AnnotatedToken {
	for i := len(q.Qualifiers) - 1; i >= 0; i-- {
		if q.Qualifiers[i].Tok.Kind == token.Identifier {
			return q.Qualifiers[i]
		}
	}
	return nil
}

type qualOwner interface {
	addNameQualifier(*AnnotatedToken)
	makeTemplateArgs()
	addTemplateSeparator(*AnnotatedToken)
	addTemplateArgument(Element)
}

type DecorationClass int

const (
	DecorationPointer DecorationClass = iota
	DecorationReference
)

// Decoration is a pointer or reference suffix on a type.
type Decoration struct {
	Class DecorationClass
	Tok   *AnnotatedToken
}

// Type is a (possibly qualified) type name with pointer/reference
// decorations.
type Type struct {
	qualifiedName
	Decorations []Decoration
}

func NewType() *Type {
	t := &Type{}
	t.owner = t
	return t
}

func (t *Type) Kind() ElementKind { return KindType }

func (t *Type) addDecoration(class DecorationClass, tok *AnnotatedToken) {
	t.Decorations = append(t.Decorations, Decoration{Class: class, Tok: tok.claim(t)})
}

// CloneWithoutDecorations copies the type's name qualifiers and template
// argument list, dropping the decorations. The qualifier tokens are
// re-claimed by the clone; template argument nodes are shared.
func (t *Type) CloneWithoutDecorations() *Type {
	c := NewType()
	for _, q := range t.Qualifiers {
		c.addNameQualifier(q)
	}
	if t.Template != nil {
		c.makeTemplateArgs()
		for _, s := range t.Template.Separators {
			c.addTemplateSeparator(s)
		}
		c.Template.Args = append(c.Template.Args, t.Template.Args...)
	}
	return c
}

// Name returns the final identifier qualifier token, or nil for pure
// builtin types.
func (t *Type) Name() *AnnotatedToken { return t.lastName() }

type InitializationType int

const (
	InitAssignment InitializationType = iota
	InitConstructor
	InitBrace
)

// VarInitialization is the initializer of a VarDecl: '= expr' or the
// reserved constructor-call and brace forms.
type VarInitialization struct {
	InitType      InitializationType
	AssignmentOps [2]*AnnotatedToken
	Value         Expr
}

func (v *VarInitialization) Kind() ElementKind { return KindVarInitialization }

func (v *VarInitialization) setAssignmentOp(initType InitializationType, tok *AnnotatedToken) {
	v.InitType = initType
	v.AssignmentOps[0] = tok.claim(v)
}

// VarDecl declares a single variable: type, optional name, optional
// initializer. Parameters are VarDecls with optional names.
type VarDecl struct {
	VariableType *Type
	NameTok      *AnnotatedToken
	Value        *VarInitialization
}

func (d *VarDecl) Kind() ElementKind { return KindVarDecl }

func (d *VarDecl) setName(tok *AnnotatedToken) { d.NameTok = tok.claim(d) }

// DeclStmt is a semicolon-terminated sequence of VarDecls sharing one
// underlying type.
type DeclStmt struct {
	Decls  []*VarDecl
	Commas []*AnnotatedToken
	Semi   *AnnotatedToken
}

func (d *DeclStmt) Kind() ElementKind { return KindDeclStmt }
func (d *DeclStmt) stmtNode()         {}

func (d *DeclStmt) appendComma(tok *AnnotatedToken) {
	d.Commas = append(d.Commas, tok.claim(d))
}

func (d *DeclStmt) setSemi(tok *AnnotatedToken) { d.Semi = tok.claim(d) }

// FunctionDecl is a function declaration or definition, destructors
// included. Tokens between the parameter list and the body or semicolon
// (member initializers, trailing qualifiers) are preserved verbatim in
// Trailing but not structured.
type FunctionDecl struct {
	StaticTok  *AnnotatedToken
	VirtualTok *AnnotatedToken
	ReturnType *Type
	NameTok    *AnnotatedToken
	LeftParen  *AnnotatedToken
	RightParen *AnnotatedToken
	Params     []*VarDecl
	Commas     []*AnnotatedToken
	Trailing   []*AnnotatedToken
	Semi       *AnnotatedToken
	Body       *CompoundStmt
}

func (f *FunctionDecl) Kind() ElementKind { return KindFunctionDecl }
func (f *FunctionDecl) stmtNode()         {}

func (f *FunctionDecl) setStatic(tok *AnnotatedToken)  { f.StaticTok = tok.claim(f) }
func (f *FunctionDecl) setVirtual(tok *AnnotatedToken) { f.VirtualTok = tok.claim(f) }
func (f *FunctionDecl) setName(tok *AnnotatedToken)    { f.NameTok = tok.claim(f) }
func (f *FunctionDecl) setLeftParen(tok *AnnotatedToken) {
	f.LeftParen = tok.claim(f)
}
func (f *FunctionDecl) setRightParen(tok *AnnotatedToken) {
	f.RightParen = tok.claim(f)
}
func (f *FunctionDecl) appendComma(tok *AnnotatedToken) {
	f.Commas = append(f.Commas, tok.claim(f))
}
func (f *FunctionDecl) appendTrailing(tok *AnnotatedToken) {
	f.Trailing = append(f.Trailing, tok.claim(f))
}
func (f *FunctionDecl) setSemi(tok *AnnotatedToken) { f.Semi = tok.claim(f) }

// IsDestructor reports whether the declaration was parsed in the
// '~Name()' form.
func (f *FunctionDecl) IsDestructor() bool {
	return f.NameTok != nil && f.NameTok.Tok.Kind == token.Tilde
}

// BaseClass is one entry of a class declaration's base clause.
type BaseClass struct {
	Accessibility *AnnotatedToken
	BaseType      *Type
	Comma         *AnnotatedToken
}

// ClassDecl covers class, struct, union and enum declarations. The body, if
// present, is a scope of member statements.
type ClassDecl struct {
	ClassTok   *AnnotatedToken
	Name       *Type
	ColonTok   *AnnotatedToken
	Bases      []BaseClass
	Skipped    []*AnnotatedToken
	LeftBrace  *AnnotatedToken
	RightBrace *AnnotatedToken
	Body       []Stmt
	Semi       *AnnotatedToken
}

func (c *ClassDecl) Kind() ElementKind { return KindClassDecl }
func (c *ClassDecl) stmtNode()         {}
func (c *ClassDecl) addStmt(st Stmt)   { c.Body = append(c.Body, st) }

func (c *ClassDecl) setClass(tok *AnnotatedToken) { c.ClassTok = tok.claim(c) }
func (c *ClassDecl) setColon(tok *AnnotatedToken) { c.ColonTok = tok.claim(c) }
func (c *ClassDecl) setLeftBrace(tok *AnnotatedToken) {
	c.LeftBrace = tok.claim(c)
}
func (c *ClassDecl) setRightBrace(tok *AnnotatedToken) {
	c.RightBrace = tok.claim(c)
}
func (c *ClassDecl) setSemi(tok *AnnotatedToken) { c.Semi = tok.claim(c) }

func (c *ClassDecl) addBaseClass(accessibility *AnnotatedToken, baseType *Type, comma *AnnotatedToken) {
	base := BaseClass{BaseType: baseType}
	if accessibility != nil {
		base.Accessibility = accessibility.claim(c)
	}
	if comma != nil {
		base.Comma = comma.claim(c)
	}
	c.Bases = append(c.Bases, base)
}

func (c *ClassDecl) appendSkipped(tok *AnnotatedToken) {
	c.Skipped = append(c.Skipped, tok.claim(c))
}

// LabelStmt is 'name:' where name is an identifier or access specifier.
type LabelStmt struct {
	LabelTok *AnnotatedToken
	ColonTok *AnnotatedToken
}

func NewLabelStmt(label, colon *AnnotatedToken) *LabelStmt {
	s := &LabelStmt{}
	s.LabelTok = label.claim(s)
	s.ColonTok = colon.claim(s)
	return s
}

func (s *LabelStmt) Kind() ElementKind { return KindLabelStmt }
func (s *LabelStmt) stmtNode()         {}

// ReturnStmt is 'return expr? ;'.
type ReturnStmt struct {
	ReturnTok *AnnotatedToken
	Body      Expr
	Semi      *AnnotatedToken
}

func NewReturnStmt(returnTok *AnnotatedToken, body Expr, semi *AnnotatedToken) *ReturnStmt {
	s := &ReturnStmt{Body: body}
	s.ReturnTok = returnTok.claim(s)
	s.Semi = semi.claim(s)
	return s
}

func (s *ReturnStmt) Kind() ElementKind { return KindReturnStmt }
func (s *ReturnStmt) stmtNode()         {}

// ExprLineStmt is an expression used as a statement.
type ExprLineStmt struct {
	Value Expr
	Semi  *AnnotatedToken
}

func NewExprLineStmt(value Expr, semi *AnnotatedToken) *ExprLineStmt {
	s := &ExprLineStmt{Value: value}
	s.Semi = semi.claim(s)
	return s
}

func (s *ExprLineStmt) Kind() ElementKind { return KindExprLineStmt }
func (s *ExprLineStmt) stmtNode()         {}

// CompoundStmt is a braced block of statements.
type CompoundStmt struct {
	LeftBrace  *AnnotatedToken
	RightBrace *AnnotatedToken
	Body       []Stmt
}

func (c *CompoundStmt) Kind() ElementKind { return KindCompoundStmt }
func (c *CompoundStmt) stmtNode()         {}
func (c *CompoundStmt) addStmt(st Stmt)   { c.Body = append(c.Body, st) }

func (c *CompoundStmt) setLeftBrace(tok *AnnotatedToken) {
	c.LeftBrace = tok.claim(c)
}
func (c *CompoundStmt) setRightBrace(tok *AnnotatedToken) {
	c.RightBrace = tok.claim(c)
}

// DeclRefExpr is a qualified name used inside an expression.
type DeclRefExpr struct {
	qualifiedName
}

func NewDeclRefExpr() *DeclRefExpr {
	d := &DeclRefExpr{}
	d.owner = d
	return d
}

func (d *DeclRefExpr) Kind() ElementKind { return KindDeclRefExpr }
func (d *DeclRefExpr) exprNode()         {}

// Name returns the final identifier qualifier token.
func (d *DeclRefExpr) Name() *AnnotatedToken { return d.lastName() }

// CallExpr is 'callee(arg, ...)'.
type CallExpr struct {
	Callee     *DeclRefExpr
	LeftParen  *AnnotatedToken
	RightParen *AnnotatedToken
	Args       []Expr
	Commas     []*AnnotatedToken
}

func NewCallExpr(callee *DeclRefExpr) *CallExpr {
	return &CallExpr{Callee: callee}
}

func (c *CallExpr) Kind() ElementKind { return KindCallExpr }
func (c *CallExpr) exprNode()         {}

func (c *CallExpr) setLeftParen(tok *AnnotatedToken) {
	c.LeftParen = tok.claim(c)
}
func (c *CallExpr) setRightParen(tok *AnnotatedToken) {
	c.RightParen = tok.claim(c)
}
func (c *CallExpr) appendComma(tok *AnnotatedToken) {
	c.Commas = append(c.Commas, tok.claim(c))
}

// LiteralConstant is a literal or constant keyword token.
type LiteralConstant struct {
	Tok *AnnotatedToken
}

func NewLiteralConstant(tok *AnnotatedToken) *LiteralConstant {
	l := &LiteralConstant{}
	l.Tok = tok.claim(l)
	return l
}

func (l *LiteralConstant) Kind() ElementKind { return KindLiteralConstant }
func (l *LiteralConstant) exprNode()         {}

// UnaryOperator is a prefix operator applied to an operand.
type UnaryOperator struct {
	OperatorTok *AnnotatedToken
	Value       Expr
}

func NewUnaryOperator(operatorTok *AnnotatedToken, value Expr) *UnaryOperator {
	u := &UnaryOperator{Value: value}
	u.OperatorTok = operatorTok.claim(u)
	return u
}

func (u *UnaryOperator) Kind() ElementKind { return KindUnaryOperator }
func (u *UnaryOperator) exprNode()         {}

// BinaryOperator covers all binary operators, member access included.
type BinaryOperator struct {
	OperatorTok *AnnotatedToken
	LHS         Expr
	RHS         Expr
}

func NewBinaryOperator(lhs, rhs Expr, operatorTok *AnnotatedToken) *BinaryOperator {
	b := &BinaryOperator{LHS: lhs, RHS: rhs}
	b.OperatorTok = operatorTok.claim(b)
	return b
}

func (b *BinaryOperator) Kind() ElementKind { return KindBinaryOperator }
func (b *BinaryOperator) exprNode()         {}

// UnparsableBlock boxes a run of tokens the parser gave up on, ending at a
// statement boundary.
type UnparsableBlock struct {
	Tokens []*AnnotatedToken
}

func (u *UnparsableBlock) Kind() ElementKind { return KindUnparsableBlock }
func (u *UnparsableBlock) stmtNode()         {}

func (u *UnparsableBlock) push(tok *AnnotatedToken) {
	u.Tokens = append(u.Tokens, tok.claim(u))
}

// TranslationUnit is the parse result: an ordered list of top-level
// statements.
type TranslationUnit struct {
	Body []Stmt
}

func (t *TranslationUnit) Kind() ElementKind { return KindTranslationUnit }
func (t *TranslationUnit) addStmt(st Stmt)   { t.Body = append(t.Body, st) }
