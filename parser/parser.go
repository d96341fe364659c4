// Package parser implements the syntactic analyzer for the TinyLang
// programming language.
//
// The parser takes a stream of tokens from the lexer and constructs an
// Abstract Syntax Tree (AST) that represents the structure of the
// program. It is a recursive-descent parser with Pratt parsing
// (precedence climbing) for expressions.
//
// Unlike a parser that tries to recover and keep going after a bad
// token, Parser stops at the first syntax error: TinyLang programs are
// small and a single precise [errs.SyntaxError] is more useful here than
// a wall of cascading ones caused by the parser losing its place.
//
// The main entry point is [New], which creates a new Parser, and
// [Parser.ParseProgram], which parses a complete TinyLang program.
package parser

import (
	"strconv"

	"github.com/dr8co/tinylang/ast"
	"github.com/dr8co/tinylang/errs"
	"github.com/dr8co/tinylang/lexer"
	"github.com/dr8co/tinylang/token"
)

// Operator precedence levels, lowest to highest. TinyLang's grammar is
// fixed (there are no user-defined operators), so these mirror the
// grammar's or/and/equality/comparison/term/factor ladder directly.
const (
	_ int = iota
	Lowest
	Or          // ||
	And         // &&
	Equals      // == !=
	LessGreater // < > <= >=
	Sum         // + -
	Product     // * / %
	Unary       // -x !x
)

var precedences = map[token.Type]int{
	token.OR:        Or,
	token.AND:       And,
	token.EQ:        Equals,
	token.NOT_EQ:    Equals,
	token.LT:        LessGreater,
	token.GT:        LessGreater,
	token.LTE:       LessGreater,
	token.GTE:       LessGreater,
	token.PLUS:      Sum,
	token.MINUS:     Sum,
	token.ASTERISK:  Product,
	token.SLASH:     Product,
	token.PERCENT:   Product,
}

type (
	prefixParseFn func() (ast.Expression, error)
	infixParseFn  func(ast.Expression) (ast.Expression, error)
)

// Parser turns a token stream into an AST. A Parser is single-use: once
// ParseProgram returns an error, the Parser must not be reused.
type Parser struct {
	l *lexer.Lexer

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn
}

// New creates a Parser reading from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixParseFns = map[token.Type]prefixParseFn{
		token.IDENT:  p.parseVarRef,
		token.INT:    p.parseIntLit,
		token.TRUE:   p.parseBoolLit,
		token.FALSE:  p.parseBoolLit,
		token.BANG:   p.parseUnary,
		token.MINUS:  p.parseUnary,
		token.LPAREN: p.parseGroupedExpr,
	}

	p.infixParseFns = map[token.Type]infixParseFn{
		token.PLUS:     p.parseBinary,
		token.MINUS:    p.parseBinary,
		token.ASTERISK: p.parseBinary,
		token.SLASH:    p.parseBinary,
		token.PERCENT:  p.parseBinary,
		token.LT:       p.parseBinary,
		token.GT:       p.parseBinary,
		token.LTE:      p.parseBinary,
		token.GTE:      p.parseBinary,
		token.EQ:       p.parseBinary,
		token.NOT_EQ:   p.parseBinary,
		token.AND:      p.parseBinary,
		token.OR:       p.parseBinary,
	}

	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return Lowest
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return Lowest
}

func (p *Parser) syntaxErr(expected string) error {
	return &errs.SyntaxError{
		Line:     p.curToken.Line,
		Column:   p.curToken.Column,
		Expected: expected,
		Found:    p.curToken.Literal,
	}
}

func (p *Parser) expectPeek(t token.Type, expected string) error {
	if p.peekToken.Type != t {
		return &errs.SyntaxError{
			Line:     p.peekToken.Line,
			Column:   p.peekToken.Column,
			Expected: expected,
			Found:    p.peekToken.Literal,
		}
	}
	p.nextToken()
	return nil
}

// ParseProgram parses a complete TinyLang program. It returns the first
// syntax error encountered, if any; on error the returned *ast.Program
// is nil.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	program := &ast.Program{Statements: []ast.Statement{}}

	for p.curToken.Type != token.EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		program.Statements = append(program.Statements, stmt)
		p.nextToken()
	}

	return program, nil
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.curToken.Type {
	case token.INT_TYPE, token.BOOL_TYPE:
		return p.parseVarDecl()
	case token.IDENT:
		return p.parseAssign()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.PRINT:
		return p.parsePrint()
	case token.LBRACE:
		return p.parseBlockStatement()
	default:
		return nil, p.syntaxErr("statement")
	}
}

func (p *Parser) parseVarDecl() (ast.Statement, error) {
	vd := &ast.VarDecl{Token: p.curToken}
	if p.curToken.Type == token.INT_TYPE {
		vd.DeclType = ast.Int
	} else {
		vd.DeclType = ast.Bool
	}

	if err := p.expectPeek(token.IDENT, "identifier"); err != nil {
		return nil, err
	}
	vd.Name = p.curToken.Literal

	if p.peekToken.Type == token.ASSIGN {
		p.nextToken()
		p.nextToken()
		val, err := p.parseExpression(Lowest)
		if err != nil {
			return nil, err
		}
		vd.Value = val
	}

	if err := p.expectPeek(token.SEMICOLON, ";"); err != nil {
		return nil, err
	}
	return vd, nil
}

func (p *Parser) parseAssign() (ast.Statement, error) {
	a := &ast.Assign{Token: p.curToken, Name: p.curToken.Literal}

	if err := p.expectPeek(token.ASSIGN, "="); err != nil {
		return nil, err
	}
	p.nextToken()

	val, err := p.parseExpression(Lowest)
	if err != nil {
		return nil, err
	}
	a.Value = val

	if err := p.expectPeek(token.SEMICOLON, ";"); err != nil {
		return nil, err
	}
	return a, nil
}

func (p *Parser) parseIf() (ast.Statement, error) {
	stmt := &ast.If{Token: p.curToken}

	if err := p.expectPeek(token.LPAREN, "("); err != nil {
		return nil, err
	}
	p.nextToken()

	cond, err := p.parseExpression(Lowest)
	if err != nil {
		return nil, err
	}
	stmt.Cond = cond

	if err := p.expectPeek(token.RPAREN, ")"); err != nil {
		return nil, err
	}
	if err := p.expectPeek(token.LBRACE, "{"); err != nil {
		return nil, err
	}

	then, err := p.parseBlockStatement()
	if err != nil {
		return nil, err
	}
	stmt.Then = then.(*ast.BlockStatement)

	if p.peekToken.Type == token.ELSE {
		p.nextToken()
		if err := p.expectPeek(token.LBRACE, "{"); err != nil {
			return nil, err
		}
		els, err := p.parseBlockStatement()
		if err != nil {
			return nil, err
		}
		stmt.Else = els.(*ast.BlockStatement)
	}

	return stmt, nil
}

func (p *Parser) parseWhile() (ast.Statement, error) {
	stmt := &ast.While{Token: p.curToken}

	if err := p.expectPeek(token.LPAREN, "("); err != nil {
		return nil, err
	}
	p.nextToken()

	cond, err := p.parseExpression(Lowest)
	if err != nil {
		return nil, err
	}
	stmt.Cond = cond

	if err := p.expectPeek(token.RPAREN, ")"); err != nil {
		return nil, err
	}
	if err := p.expectPeek(token.LBRACE, "{"); err != nil {
		return nil, err
	}

	body, err := p.parseBlockStatement()
	if err != nil {
		return nil, err
	}
	stmt.Body = body.(*ast.BlockStatement)

	return stmt, nil
}

func (p *Parser) parsePrint() (ast.Statement, error) {
	stmt := &ast.Print{Token: p.curToken}

	if err := p.expectPeek(token.LPAREN, "("); err != nil {
		return nil, err
	}
	p.nextToken()

	val, err := p.parseExpression(Lowest)
	if err != nil {
		return nil, err
	}
	stmt.Value = val

	if err := p.expectPeek(token.RPAREN, ")"); err != nil {
		return nil, err
	}
	if err := p.expectPeek(token.SEMICOLON, ";"); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseBlockStatement() (ast.Statement, error) {
	block := &ast.BlockStatement{Token: p.curToken, Statements: []ast.Statement{}}
	p.nextToken()

	for p.curToken.Type != token.RBRACE && p.curToken.Type != token.EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)
		p.nextToken()
	}

	if p.curToken.Type != token.RBRACE {
		return nil, p.syntaxErr("}")
	}
	return block, nil
}

func (p *Parser) parseExpression(precedence int) (ast.Expression, error) {
	prefix, ok := p.prefixParseFns[p.curToken.Type]
	if !ok {
		return nil, p.syntaxErr("expression")
	}

	left, err := prefix()
	if err != nil {
		return nil, err
	}

	for p.peekToken.Type != token.SEMICOLON && precedence < p.peekPrecedence() {
		infix, ok := p.infixParseFns[p.peekToken.Type]
		if !ok {
			return left, nil
		}
		p.nextToken()

		left, err = infix(left)
		if err != nil {
			return nil, err
		}
	}

	return left, nil
}

func (p *Parser) parseVarRef() (ast.Expression, error) {
	return &ast.VarRef{Token: p.curToken, Name: p.curToken.Literal}, nil
}

func (p *Parser) parseIntLit() (ast.Expression, error) {
	value, err := strconv.ParseInt(p.curToken.Literal, 10, 32)
	if err != nil {
		return nil, &errs.SyntaxError{
			Line:     p.curToken.Line,
			Column:   p.curToken.Column,
			Expected: "32-bit integer literal",
			Found:    p.curToken.Literal,
		}
	}
	return &ast.IntLit{Token: p.curToken, Value: int32(value)}, nil
}

func (p *Parser) parseBoolLit() (ast.Expression, error) {
	return &ast.BoolLit{Token: p.curToken, Value: p.curToken.Type == token.TRUE}, nil
}

func (p *Parser) parseUnary() (ast.Expression, error) {
	tok := p.curToken
	op := p.curToken.Literal
	p.nextToken()

	operand, err := p.parseExpression(Unary)
	if err != nil {
		return nil, err
	}
	return &ast.UnaryOp{Token: tok, Op: op, Operand: operand}, nil
}

func (p *Parser) parseBinary(left ast.Expression) (ast.Expression, error) {
	tok := p.curToken
	op := p.curToken.Literal
	precedence := p.curPrecedence()
	p.nextToken()

	right, err := p.parseExpression(precedence)
	if err != nil {
		return nil, err
	}
	return &ast.BinaryOp{Token: tok, Op: op, Left: left, Right: right}, nil
}

func (p *Parser) parseGroupedExpr() (ast.Expression, error) {
	p.nextToken()
	expr, err := p.parseExpression(Lowest)
	if err != nil {
		return nil, err
	}
	if err := p.expectPeek(token.RPAREN, ")"); err != nil {
		return nil, err
	}
	return expr, nil
}
