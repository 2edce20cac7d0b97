package fuzzy

import (
	"github.com/gangfan/clang-highlight/cpp/token"
)

// Synthetic precedence ranks above the binary operator range. Unary prefix
// operators bind tighter than any binary operator, and member access binds
// tighter still.
const (
	precUnaryOperator  = token.PrecPointerToMember + 1
	precArrowAndPeriod = token.PrecPointerToMember + 2
)

func checkKind(cur *cursor, kind token.Kind) bool {
	tok := cur.peek()
	return tok != nil && tok.Tok.Kind == kind
}

func isLiteralOrConstant(k token.Kind) bool {
	if token.IsLiteral(k) {
		return true
	}
	switch k {
	case token.True, token.False, token.Nullptr:
		return true
	}
	return false
}

func isBuiltinType(k token.Kind) bool {
	switch k {
	case token.Void, token.Bool, token.Char, token.WChar, token.Char16,
		token.Char32, token.Short, token.Int, token.Long, token.Signed,
		token.Unsigned, token.Float, token.Double:
		return true
	}
	return false
}

func isCVQualifier(k token.Kind) bool {
	switch k {
	case token.Const, token.Volatile, token.Register:
		return true
	}
	return false
}

func parseUnaryOperator(cur *cursor) Expr {
	switch {
	case checkKind(cur, token.Plus), checkKind(cur, token.Minus),
		checkKind(cur, token.Not), checkKind(cur, token.Tilde),
		checkKind(cur, token.Star), checkKind(cur, token.Amp),
		checkKind(cur, token.Increment), checkKind(cur, token.Decrement):
		op := cur.next()
		value := parseUnaryOperator(cur)
		if value == nil {
			return nil
		}
		return NewUnaryOperator(op, value)
	}
	return parseExpression(cur, precArrowAndPeriod, false)
}

func parseCallExpr(cur *cursor, callee *DeclRefExpr) Expr {
	call := NewCallExpr(callee)
	call.setLeftParen(cur.next())
	if !checkKind(cur, token.RParen) {
		// A comma must be followed by another argument; trailing commas
		// fail the whole call.
		for {
			if cur.peek() == nil {
				return nil
			}
			arg := parseExpression(cur, token.PrecComma+1, false)
			if arg == nil {
				return nil
			}
			call.Args = append(call.Args, arg)
			if !checkKind(cur, token.Comma) {
				break
			}
			call.appendComma(cur.next())
		}
	}
	if checkKind(cur, token.RParen) {
		call.setRightParen(cur.next())
		return call
	}
	return nil
}

// parseQualifiedID recognizes '::'? identifier ('::' identifier)* followed
// by an optional template argument list, appending into q. Template
// arguments dispatch type-first, then expression with stop-at-'>'.
func parseQualifiedID(cur *cursor, q qualOwner) bool {
	g := cur.guard()
	defer g.exit()

	for first := true; ; first = false {
		if checkKind(cur, token.ColonColon) {
			q.addNameQualifier(cur.next())
		} else if !first {
			return false
		}
		if !checkKind(cur, token.Identifier) {
			return false
		}
		q.addNameQualifier(cur.next())
		if !checkKind(cur, token.ColonColon) {
			break
		}
	}

	if checkKind(cur, token.LT) {
		q.makeTemplateArgs()
		isFirst := true
		for {
			q.addTemplateSeparator(cur.next())

			if isFirst && checkKind(cur, token.GT) {
				break
			}
			isFirst = false

			if arg := parseType(cur, true); arg != nil {
				q.addTemplateArgument(arg)
			} else if e := parseExpression(cur, token.PrecComma+1, true); e != nil {
				q.addTemplateArgument(e)
			} else {
				return false
			}
			if !checkKind(cur, token.Comma) {
				break
			}
		}
		if !checkKind(cur, token.GT) {
			return false
		}
		q.addTemplateSeparator(cur.next())
	}

	g.dismiss()
	return true
}

// parseExpression climbs the binary precedence levels. Two synthetic ranks
// sit above the binary range: unary prefix operators and member access.
// With stopAtGreater set, a top-level '>' ends the expression, which is how
// template arguments avoid eating their closing bracket.
func parseExpression(cur *cursor, precedence int, stopAtGreater bool) Expr {
	if cur.peek() == nil {
		return nil
	}

	if precedence == precUnaryOperator {
		return parseUnaryOperator(cur)
	}

	if precedence > precArrowAndPeriod {
		if isLiteralOrConstant(cur.peek().Tok.Kind) {
			return NewLiteralConstant(cur.next())
		}

		if checkKind(cur, token.Identifier) || checkKind(cur, token.ColonColon) {
			ref := NewDeclRefExpr()
			if !parseQualifiedID(cur, ref) {
				return nil
			}
			if checkKind(cur, token.LParen) {
				return parseCallExpr(cur, ref)
			}
			return ref
		}

		return nil
	}

	left := parseExpression(cur, precedence+1, stopAtGreater)
	if left == nil {
		return nil
	}

	for cur.peek() != nil {
		if stopAtGreater && checkKind(cur, token.GT) {
			break
		}

		currentPrecedence := token.BinaryPrecedence(cur.peek().Tok.Kind)
		if checkKind(cur, token.Period) || checkKind(cur, token.Arrow) {
			currentPrecedence = precArrowAndPeriod
		}
		if currentPrecedence == 0 {
			return left
		}
		// The recursive call at precedence+1 consumed everything that binds
		// tighter, so anything left is at most this level.
		if currentPrecedence < precedence {
			break
		}

		operatorTok := cur.next()

		right := parseExpression(cur, precedence+1, stopAtGreater)
		if right == nil {
			return nil
		}
		left = NewBinaryOperator(left, right, operatorTok)
	}

	return left
}

func parseReturnStmt(cur *cursor) Stmt {
	g := cur.guard()
	defer g.exit()

	if !checkKind(cur, token.Return) {
		return nil
	}
	returnTok := cur.next()
	var body Expr
	if !checkKind(cur, token.Semicolon) {
		body = parseExpression(cur, token.PrecComma, false)
		if body == nil || !checkKind(cur, token.Semicolon) {
			return nil
		}
	}
	semi := cur.next()
	g.dismiss()
	return NewReturnStmt(returnTok, body, semi)
}

func parseTypeDecorations(cur *cursor, t *Type) {
	for {
		switch {
		case checkKind(cur, token.Star):
			t.addDecoration(DecorationPointer, cur.next())
		case checkKind(cur, token.Amp), checkKind(cur, token.AndAnd):
			t.addDecoration(DecorationReference, cur.next())
		default:
			return
		}
	}
}

// parseType recognizes cv-qualifiers, then a builtin keyword chain, 'auto'
// or a qualified-id, then trailing cv-qualifiers and, unless the caller
// keeps decorations for the declarators, pointer/reference decorations.
func parseType(cur *cursor, withDecorations bool) *Type {
	g := cur.guard()
	defer g.exit()

	t := NewType()

	for cur.peek() != nil && isCVQualifier(cur.peek().Tok.Kind) {
		t.addNameQualifier(cur.next())
	}

	if checkKind(cur, token.Auto) {
		t.addNameQualifier(cur.next())
	} else if cur.peek() != nil && isBuiltinType(cur.peek().Tok.Kind) {
		for cur.peek() != nil && isBuiltinType(cur.peek().Tok.Kind) {
			t.addNameQualifier(cur.next())
		}
	} else if !parseQualifiedID(cur, t) {
		return nil
	}

	for cur.peek() != nil && isCVQualifier(cur.peek().Tok.Kind) {
		t.addNameQualifier(cur.next())
	}

	if withDecorations {
		parseTypeDecorations(cur, t)
	}

	g.dismiss()
	return t
}

// parseVarDecl recognizes one declarator: per-declarator decorations, a
// name (optional for parameters) and an optional '=' initializer. When
// typeName is non-nil the declarator shares it, cloned without decorations.
func parseVarDecl(cur *cursor, typeName *Type, nameOptional bool) *VarDecl {
	g := cur.guard()
	defer g.exit()

	d := &VarDecl{}

	if typeName == nil {
		t := parseType(cur, true)
		if t == nil {
			return nil
		}
		d.VariableType = t
	} else {
		d.VariableType = typeName.CloneWithoutDecorations()
	}
	parseTypeDecorations(cur, d.VariableType)

	if checkKind(cur, token.Identifier) {
		d.setName(cur.next())
	} else if !nameOptional {
		return nil
	}

	if checkKind(cur, token.Assign) {
		equalTok := cur.next()
		value := parseExpression(cur, token.PrecComma+1, false)
		if value == nil {
			return nil
		}
		init := &VarInitialization{Value: value}
		init.setAssignmentOp(InitAssignment, equalTok)
		d.Value = init
	}
	// TODO: var(init) and var{init} initializer forms.

	g.dismiss()
	return d
}

func parseDeclStmt(cur *cursor) Stmt {
	g := cur.guard()
	defer g.exit()

	typeName := parseType(cur, false)
	if typeName == nil {
		return nil
	}
	decl := &DeclStmt{}

	for cur.peek() != nil {
		if checkKind(cur, token.Semicolon) && len(decl.Decls) > 0 {
			decl.setSemi(cur.next())
			g.dismiss()
			return decl
		}
		d := parseVarDecl(cur, typeName, false)
		if d == nil {
			return nil
		}
		decl.Decls = append(decl.Decls, d)
		if checkKind(cur, token.Comma) {
			decl.appendComma(cur.next())
		} else if !checkKind(cur, token.Semicolon) {
			return nil
		}
	}

	return nil
}

func parseDestructor(cur *cursor, f *FunctionDecl) bool {
	if !checkKind(cur, token.Tilde) {
		return false
	}
	f.setName(cur.next())
	f.ReturnType = parseType(cur, true)
	return f.ReturnType != nil
}

func parseFunctionDecl(cur *cursor, nameOptional bool) *FunctionDecl {
	g := cur.guard()
	defer g.exit()

	f := &FunctionDecl{}
	if checkKind(cur, token.Static) {
		f.setStatic(cur.next())
	}
	if checkKind(cur, token.Virtual) {
		f.setVirtual(cur.next())
	}

	inDestructor := false

	if t := parseType(cur, true); t != nil {
		f.ReturnType = t
	} else if nameOptional && parseDestructor(cur, f) {
		inDestructor = true
	} else {
		return nil
	}

	if !inDestructor {
		if !checkKind(cur, token.Identifier) {
			if !nameOptional {
				return nil
			}
		} else {
			f.setName(cur.next())
		}
	}

	if !checkKind(cur, token.LParen) {
		return nil
	}

	f.setLeftParen(cur.next())
	for !checkKind(cur, token.RParen) {
		if cur.peek() == nil {
			return nil
		}
		param := parseVarDecl(cur, nil, true)
		if param == nil {
			return nil
		}
		f.Params = append(f.Params, param)
		if checkKind(cur, token.Comma) {
			f.appendComma(cur.next())
		} else {
			break
		}
	}
	if !checkKind(cur, token.RParen) {
		return nil
	}

	f.setRightParen(cur.next())

	// Member-initializer lists, attributes and trailing const/override are
	// not structured; the token run is kept verbatim on the declaration.
	for cur.peek() != nil && !checkKind(cur, token.LBrace) && !checkKind(cur, token.Semicolon) {
		f.appendTrailing(cur.next())
	}

	if checkKind(cur, token.Semicolon) {
		f.setSemi(cur.next())
	}
	g.dismiss()
	return f
}

// skipUnparsable consumes tokens up to and including the next statement
// boundary and boxes them into an UnparsableBlock. The block is never
// empty, which guarantees forward progress.
func skipUnparsable(cur *cursor) Stmt {
	if cur.peek() == nil {
		return nil
	}
	block := &UnparsableBlock{}
	for cur.peek() != nil {
		kind := cur.peek().Tok.Kind
		block.push(cur.next())
		if kind == token.Semicolon || kind == token.RBrace || kind == token.LBrace {
			break
		}
	}
	return block
}

func parseLabelStmt(cur *cursor) Stmt {
	g := cur.guard()
	defer g.exit()

	if !(checkKind(cur, token.Identifier) || checkKind(cur, token.Private) ||
		checkKind(cur, token.Protected) || checkKind(cur, token.Public)) {
		return nil
	}
	labelName := cur.next()
	if !checkKind(cur, token.Colon) {
		return nil
	}
	g.dismiss()
	return NewLabelStmt(labelName, cur.next())
}

func parseScope(cur *cursor, sc scope) bool {
	if checkKind(cur, token.RBrace) {
		return true
	}
	for cur.peek() != nil {
		st := parseAny(cur, true, true)
		if st == nil {
			break
		}
		sc.addStmt(st)
		if cur.peek() == nil {
			return false
		}
		if checkKind(cur, token.RBrace) {
			return true
		}
	}
	return checkKind(cur, token.RBrace)
}

func parseCompoundStmt(cur *cursor) *CompoundStmt {
	if !checkKind(cur, token.LBrace) {
		return nil
	}
	c := &CompoundStmt{}
	c.setLeftBrace(cur.next())
	parseScope(cur, c)
	if checkKind(cur, token.RBrace) {
		c.setRightBrace(cur.next())
	}
	// An unterminated block is kept as-is.
	return c
}

func parseClassScope(cur *cursor, c *ClassDecl) bool {
	if !checkKind(cur, token.LBrace) {
		return false
	}

	c.setLeftBrace(cur.next())
	if !parseScope(cur, c) {
		return false
	}

	if checkKind(cur, token.RBrace) {
		c.setRightBrace(cur.next())
	}

	if checkKind(cur, token.Semicolon) {
		c.setSemi(cur.next())
	}

	return true
}

func parseClassDecl(cur *cursor) *ClassDecl {
	g := cur.guard()
	defer g.exit()

	if !(checkKind(cur, token.Class) || checkKind(cur, token.Struct) ||
		checkKind(cur, token.Union) || checkKind(cur, token.Enum)) {
		return nil
	}
	c := &ClassDecl{}
	c.setClass(cur.next())

	if c.Name = parseType(cur, true); c.Name == nil {
		return nil
	}

	if checkKind(cur, token.Colon) {
		c.setColon(cur.next())
		skip := true
		for {
			var accessibility *AnnotatedToken
			if checkKind(cur, token.Private) || checkKind(cur, token.Protected) ||
				checkKind(cur, token.Public) {
				accessibility = cur.next()
			}
			t := parseType(cur, false)
			if t == nil {
				if accessibility != nil {
					c.appendSkipped(accessibility)
				}
				break
			}
			if checkKind(cur, token.LBrace) {
				c.addBaseClass(accessibility, t, nil)
				skip = false
				break
			}
			if !checkKind(cur, token.Comma) {
				if accessibility != nil {
					c.appendSkipped(accessibility)
				}
				break
			}
			c.addBaseClass(accessibility, t, cur.next())
		}
		if skip {
			for cur.peek() != nil && !checkKind(cur, token.LBrace) {
				c.appendSkipped(cur.next())
			}
			if cur.peek() == nil {
				return nil
			}
		}
	}

	if checkKind(cur, token.Semicolon) {
		c.setSemi(cur.next())
	} else {
		parseClassScope(cur, c)
	}

	g.dismiss()
	return c
}

// parseAny dispatches to the statement recognizers in a fixed order; the
// first that applies wins. When everything fails and skipping is enabled,
// the unparsable run is boxed and the cursor realigns at a statement
// boundary.
func parseAny(cur *cursor, skipToBoundary bool, nameOptional bool) Stmt {
	if s := parseReturnStmt(cur); s != nil {
		return s
	}
	if s := parseDeclStmt(cur); s != nil {
		return s
	}
	if s := parseLabelStmt(cur); s != nil {
		return s
	}
	if f := parseFunctionDecl(cur, nameOptional); f != nil {
		if checkKind(cur, token.Semicolon) {
			f.setSemi(cur.next())
		} else if checkKind(cur, token.LBrace) {
			f.Body = parseCompoundStmt(cur)
		}
		return f
	}

	if c := parseClassDecl(cur); c != nil {
		if checkKind(cur, token.Semicolon) {
			c.setSemi(cur.next())
		} else if checkKind(cur, token.LBrace) {
			parseClassScope(cur, c)
		}
		return c
	}

	{
		g := cur.guard()
		if e := parseExpression(cur, token.PrecComma, false); e != nil {
			if checkKind(cur, token.Semicolon) {
				g.dismiss()
				return NewExprLineStmt(e, cur.next())
			}
		}
		g.exit()
	}

	if skipToBoundary {
		return skipUnparsable(cur)
	}
	return nil
}

// Parse consumes the annotated buffer and returns the translation unit.
// Claimed tokens have their back-references set to the node that ultimately
// owns them.
func Parse(buf []AnnotatedToken) *TranslationUnit {
	tu := &TranslationUnit{}
	cur := newCursor(buf)
	for cur.peek() != nil {
		st := parseAny(cur, true, false)
		if st == nil {
			break
		}
		tu.addStmt(st)
	}
	return tu
}
