// Package parser builds an AST from a gos token stream using recursive
// descent with precedence climbing over the binary operators.
package parser

import (
	"gos/internal/goserr"
	"gos/pkg/ast"
	"gos/pkg/token"
)

// Parser consumes the flat token slice produced by the Lexer and builds an
// AST.
//
// Grammar (highest to lowest precedence, left-associative):
//
//	factor     = literal | identifier ("++"|"--"|"("args")"|"="expr)? |
//	             ("+"|"-"|"!") factor | "(" expr ")"
//	term       = factor (("*"|"/") factor)*
//	additive   = term (("+"|"-") term)*
//	comparison = additive (("=="|"!="|">"|">="|"<"|"<="|"&&"|"||") additive)*
//	logical    = comparison (("&"|"|"|"^") comparison)*
//	expr       = "exit" expr | "goto" IDENT | "let" IDENT "=" expr |
//	             "out" expr | "in" IDENT | "return" expr? | "eval" expr |
//	             "del" IDENT | block | if | while | logical
//	stmt       = block | ctrl
//	ctrl       = "if" expr stmt ("else" stmt)? | "while" expr stmt |
//	             "fun" IDENT "(" params ")" stmt | IDENT ":" | stmt
//	Program    = ctrl*
type Parser struct {
	tokens []token.Token
	pos    int
}

// New tokenizes nothing itself; it wraps an already-lexed token slice.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse tokenizes has already happened; Parse builds the Program.
func Parse(tokens []token.Token) (*ast.Program, error) {
	p := New(tokens)
	return p.ParseProgram()
}

func (p *Parser) peek() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekAt(offset int) token.Token {
	if p.pos+offset >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[p.pos+offset]
}

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) check(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) match(k token.Kind) bool {
	if p.check(k) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(k token.Kind) (token.Token, error) {
	tok := p.advance()
	if tok.Kind != k {
		return tok, goserr.New(goserr.PhaseParser, tok.Line, "expected %s, got %s (%q)", k, tok.Kind, tok.Text)
	}
	return tok, nil
}

// ParseProgram parses the full token stream as Program := ctrl*.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	for !p.check(token.EOF) {
		node, err := p.parseCtrl()
		if err != nil {
			return nil, err
		}
		prog.Body = append(prog.Body, node)
	}
	return prog, nil
}

// parseCtrl := if | while | fun | stmt
func (p *Parser) parseCtrl() (ast.Node, error) {
	switch p.peek().Kind {
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FUN:
		return p.parseFuncDecl()
	default:
		return p.parseTopLevelIdent()
	}
}

// parseStmt := block | ctrl
func (p *Parser) parseStmt() (ast.Node, error) {
	if p.check(token.LBRACE) {
		return p.parseBlock()
	}
	return p.parseCtrl()
}

func (p *Parser) parseBlock() (*ast.Stmt, error) {
	open, err := p.expect(token.LBRACE)
	if err != nil {
		return nil, err
	}
	block := &ast.Stmt{Line: open.Line}
	for !p.check(token.RBRACE) {
		if p.check(token.EOF) {
			return nil, goserr.New(goserr.PhaseParser, open.Line, "unterminated block, missing '}'")
		}
		node, err := p.parseCtrl()
		if err != nil {
			return nil, err
		}
		e, ok := node.(ast.Expr)
		if !ok {
			return nil, goserr.New(goserr.PhaseParser, open.Line, "declarative construct is not valid inside a block")
		}
		block.Body = append(block.Body, e)
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return block, nil
}

func (p *Parser) parseIf() (ast.Node, error) {
	tok, _ := p.expect(token.IF)
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseStmtAsExpr()
	if err != nil {
		return nil, err
	}
	node := &ast.If{Cond: cond, Body: body, Line: tok.Line}
	if p.match(token.ELSE) {
		elseBody, err := p.parseStmtAsExpr()
		if err != nil {
			return nil, err
		}
		node.Else = elseBody
	}
	return node, nil
}

func (p *Parser) parseWhile() (ast.Node, error) {
	tok, _ := p.expect(token.WHILE)
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseStmtAsExpr()
	if err != nil {
		return nil, err
	}
	return &ast.While{Cond: cond, Body: body, Line: tok.Line}, nil
}

// parseStmtAsExpr parses a stmt production but requires the result to be
// expression-valued, since If/While bodies always feed the value stack.
func (p *Parser) parseStmtAsExpr() (ast.Expr, error) {
	node, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	e, ok := node.(ast.Expr)
	if !ok {
		return nil, goserr.New(goserr.PhaseParser, 0, "expected an expression-valued statement")
	}
	return e, nil
}

func (p *Parser) parseFuncDecl() (ast.Node, error) {
	tok, _ := p.expect(token.FUN)
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var params []string
	for !p.check(token.RPAREN) {
		pname, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		params = append(params, pname.Text)
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseStmtAsExpr()
	if err != nil {
		return nil, err
	}
	return &ast.FuncDecl{Name: name.Text, Params: params, Body: body, Line: tok.Line}, nil
}

// parseExpr implements the `expr` production: the keyword-led forms, then
// falling through to the binary-operator precedence chain.
func (p *Parser) parseExpr() (ast.Expr, error) {
	switch p.peek().Kind {
	case token.EXIT:
		tok, _ := p.expect(token.EXIT)
		status, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.Exit{Status: status, Line: tok.Line}, nil
	case token.GOTO:
		tok, _ := p.expect(token.GOTO)
		name, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		return &ast.Goto{Name: name.Text, Line: tok.Line}, nil
	case token.LET:
		tok, _ := p.expect(token.LET)
		name, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.ASSIGN); err != nil {
			return nil, err
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.VarDecl{Name: name.Text, Value: value, Line: tok.Line}, nil
	case token.OUT:
		tok, _ := p.expect(token.OUT)
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.Out{Value: value, Line: tok.Line}, nil
	case token.IN:
		tok, _ := p.expect(token.IN)
		name, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		return &ast.In{Name: name.Text, Line: tok.Line}, nil
	case token.RETURN:
		tok, _ := p.expect(token.RETURN)
		if p.atExprBoundary() {
			return &ast.Return{Line: tok.Line}, nil
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.Return{Value: value, Line: tok.Line}, nil
	case token.EVAL:
		tok, _ := p.expect(token.EVAL)
		code, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.Eval{Code: code, Line: tok.Line}, nil
	case token.DEL:
		tok, _ := p.expect(token.DEL)
		name, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		return &ast.Del{Name: name.Text, Line: tok.Line}, nil
	case token.LBRACE:
		return p.parseBlock()
	case token.IF:
		node, err := p.parseIf()
		if err != nil {
			return nil, err
		}
		return node.(ast.Expr), nil
	case token.WHILE:
		node, err := p.parseWhile()
		if err != nil {
			return nil, err
		}
		return node.(ast.Expr), nil
	default:
		return p.parseLogical()
	}
}

// atExprBoundary reports whether the current token cannot begin an
// expression, meaning a bare `return` should push unit rather than try to
// parse a value.
func (p *Parser) atExprBoundary() bool {
	switch p.peek().Kind {
	case token.RBRACE, token.EOF:
		return true
	default:
		return false
	}
}

// parseLogical handles the bitwise/logical tier: & | ^ over comparisons.
// `!` is not accepted as an infix operator here; unary `!` is handled in
// factor.
func (p *Parser) parseLogical() (ast.Expr, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for {
		var kind ast.BinOpKind
		switch p.peek().Kind {
		case token.AND:
			kind = ast.BinAnd
		case token.OR:
			kind = ast.BinOr
		case token.XOR:
			kind = ast.BinXor
		default:
			return left, nil
		}
		tok := p.advance()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Op: kind, Left: left, Right: right, Line: tok.Line}
	}
}

// parseComparison handles == != > >= < <= && ||.
func (p *Parser) parseComparison() (ast.Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		var kind ast.BinOpKind
		switch p.peek().Kind {
		case token.EQ:
			kind = ast.BinEq
		case token.NE:
			kind = ast.BinNe
		case token.GT:
			kind = ast.BinGt
		case token.GE:
			kind = ast.BinGe
		case token.LT:
			kind = ast.BinLt
		case token.LE:
			kind = ast.BinLe
		case token.AND_LOGICAL:
			kind = ast.BinAndLogical
		case token.OR_LOGICAL:
			kind = ast.BinOrLogical
		default:
			return left, nil
		}
		tok := p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Op: kind, Left: left, Right: right, Line: tok.Line}
	}
}

// parseAdditive handles + -.
func (p *Parser) parseAdditive() (ast.Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		var kind ast.BinOpKind
		switch p.peek().Kind {
		case token.ADD:
			kind = ast.BinAdd
		case token.SUB:
			kind = ast.BinSub
		default:
			return left, nil
		}
		tok := p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Op: kind, Left: left, Right: right, Line: tok.Line}
	}
}

// parseTerm handles * /.
func (p *Parser) parseTerm() (ast.Expr, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for {
		var kind ast.BinOpKind
		switch p.peek().Kind {
		case token.MUL:
			kind = ast.BinMul
		case token.DIV:
			kind = ast.BinDiv
		default:
			return left, nil
		}
		tok := p.advance()
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Op: kind, Left: left, Right: right, Line: tok.Line}
	}
}

// parseFactor handles literals, identifiers (with trailing label/inc/dec/
// call/assign forms), unary prefixes, and parenthesized expressions.
func (p *Parser) parseFactor() (ast.Expr, error) {
	tok := p.peek()
	switch tok.Kind {
	case token.NUMBER, token.STRING, token.TRUE, token.FALSE, token.NULL:
		p.advance()
		return &ast.Val{Value: tok.Value, Line: tok.Line}, nil
	case token.POS:
		p.advance()
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Op: ast.UnaryPos, Operand: operand, Line: tok.Line}, nil
	case token.NEG:
		p.advance()
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Op: ast.UnaryNeg, Operand: operand, Line: tok.Line}, nil
	case token.NOT:
		p.advance()
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Op: ast.UnaryLogNot, Operand: operand, Line: tok.Line}, nil
	case token.LPAREN:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return inner, nil
	case token.IDENT:
		return p.parseIdentExpr()
	default:
		return nil, goserr.New(goserr.PhaseParser, tok.Line, "unexpected token %s (%q)", tok.Kind, tok.Text)
	}
}

// parseIdentExpr resolves the trailing forms an identifier can introduce:
// a label declaration, postfix ++/--, a call, an assignment, or a bare
// variable reference.
func (p *Parser) parseIdentExpr() (ast.Expr, error) {
	tok, _ := p.expect(token.IDENT)

	if p.check(token.COLON) {
		return nil, goserr.New(goserr.PhaseParser, tok.Line, "label %q is only valid as a statement, not inside an expression", tok.Text)
	}
	if p.match(token.INC) {
		return &ast.UnaryOp{Op: ast.UnaryInc, Operand: &ast.Var{Name: tok.Text, Line: tok.Line}, Line: tok.Line}, nil
	}
	if p.match(token.DEC) {
		return &ast.UnaryOp{Op: ast.UnaryDec, Operand: &ast.Var{Name: tok.Text, Line: tok.Line}, Line: tok.Line}, nil
	}
	if p.match(token.ASSIGN) {
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.VarMod{Name: tok.Text, Value: value, Line: tok.Line}, nil
	}
	if p.check(token.LPAREN) {
		return p.parseCallArgs(tok)
	}
	return &ast.Var{Name: tok.Text, Line: tok.Line}, nil
}

// parseCallArgs parses `(args)` where args are whitespace-separated
// expressions with no comma delimiter.
func (p *Parser) parseCallArgs(name token.Token) (ast.Expr, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	call := &ast.FuncCall{Name: name.Text, Line: name.Line}
	for !p.check(token.RPAREN) {
		if p.check(token.EOF) {
			return nil, goserr.New(goserr.PhaseParser, name.Line, "unterminated argument list for %q", name.Text)
		}
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return call, nil
}

// parseTopLevelIdent handles the one place `IDENT :` is legal: as a
// standalone ctrl-level statement, producing a Label.
func (p *Parser) parseTopLevelIdent() (ast.Node, error) {
	if p.check(token.IDENT) && p.peekAt(1).Kind == token.COLON {
		tok := p.advance()
		p.advance() // consume ':'
		return &ast.Label{Name: tok.Text, Line: tok.Line}, nil
	}
	return p.parseExpr()
}
