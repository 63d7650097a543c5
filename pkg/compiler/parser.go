package compiler

import (
	"strconv"
	"strings"
)

// Parser consumes the flat token slice produced by the Lexer and builds an
// AST, inserting every recognised declaration into the symbol table as a
// side effect.
//
// Grammar:
//
//	program    = functionDecl* EOF
//	functionDecl = ("int" | "void") IDENTIFIER "(" params? ")" "{" statement* "}"
//	params     = "void" | "int" IDENTIFIER ("," "int" IDENTIFIER)*
//	statement  = varDecl | arrayDecl | assignment | if | while | returnStmt | callStmt
//	varDecl    = "int" IDENTIFIER ";"
//	arrayDecl  = "int" IDENTIFIER "[" NUMBER "]" ";"
//	assignment = IDENTIFIER ("[" expression "]")? "=" expression ";"
//	if         = "if" "(" expression ")" "{" statement* "}" ("else" "{" statement* "}")?
//	while      = "while" "(" expression ")" "{" statement* "}"
//	returnStmt = "return" expression? ";"
//	callStmt   = IDENTIFIER "(" args? ")" ";"
//	expression = additive (("==") additive)*
//	additive   = multiplicative (("+" | "-") multiplicative)*
//	multiplicative = primary (("*" | "/") primary)*
//	primary    = NUMBER | IDENTIFIER ("[" expression "]" | "(" args? ")")? | "(" expression ")"
//	args       = expression ("," expression)*
//
// No scope or type rules are enforced: duplicate declarations overwrite the
// earlier symbol and undeclared names pass through untouched.
type Parser struct {
	tokens      []Token
	pos         int
	syms        *SymbolTable
	sourceLines []string
}

func NewParser(tokens []Token, rawSource string) *Parser {
	return &Parser{
		tokens:      tokens,
		syms:        NewSymbolTable(),
		sourceLines: strings.Split(rawSource, "\n"),
	}
}

// errExpected builds a *SyntaxError for tok, wrapping the source line where
// the token appears.
func (p *Parser) errExpected(tok Token, expected ...TokenType) error {
	snippet := ""
	lineIdx := tok.Line - 1 // lines are 1-based
	if lineIdx >= 0 && lineIdx < len(p.sourceLines) {
		snippet = strings.TrimSpace(p.sourceLines[lineIdx])
	}
	return &SyntaxError{Expected: expected, Found: tok, snippet: snippet}
}

// peek returns the current token without consuming it.
func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: EOF}
	}
	return p.tokens[p.pos]
}

// peekNext returns the token immediately after the current one.
func (p *Parser) peekNext() Token {
	if p.pos+1 >= len(p.tokens) {
		return Token{Type: EOF}
	}
	return p.tokens[p.pos+1]
}

// advance consumes and returns the current token.
func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// expect consumes the current token if it matches tt, otherwise returns an error.
func (p *Parser) expect(tt TokenType) (Token, error) {
	tok := p.advance()
	if tok.Type != tt {
		return tok, p.errExpected(tok, tt)
	}
	return tok, nil
}

// Parse builds the AST for the whole token sequence. rawSource is used only
// to attach source snippets to syntax errors. On error no partial AST is
// returned.
func Parse(tokens []Token, rawSource string) (*Program, *SymbolTable, error) {
	p := NewParser(tokens, rawSource)
	prog := &Program{}
	for p.peek().Type != EOF {
		fn, err := p.parseFunction()
		if err != nil {
			return nil, nil, err
		}
		prog.Functions = append(prog.Functions, fn)
	}
	return prog, p.syms, nil
}

// parseFunction handles  ("int" | "void") name "(" params ")" "{" body "}".
// The return type is recorded but carries no semantics (no type checking).
func (p *Parser) parseFunction() (*FunctionDecl, error) {
	retTok := p.advance()
	if retTok.Type != INT && retTok.Type != VOID {
		return nil, p.errExpected(retTok, INT, VOID)
	}

	nameTok, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}

	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}

	// The function is declared as soon as its signature is known.
	p.syms.Define(Symbol{Name: nameTok.Lexeme, Kind: SymFunction, Arity: len(params)})

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &FunctionDecl{
		Name:       nameTok.Lexeme,
		ReturnType: retTok.Lexeme,
		Params:     params,
		Body:       body,
	}, nil
}

// parseParams handles an empty list, a lone "void", or "int name" pairs.
// Parameter names are declared as plain variables.
func (p *Parser) parseParams() ([]string, error) {
	if p.peek().Type == RPAREN {
		return nil, nil
	}
	if p.peek().Type == VOID {
		p.advance()
		return nil, nil
	}

	var params []string
	for {
		if _, err := p.expect(INT); err != nil {
			return nil, err
		}
		nameTok, err := p.expect(IDENTIFIER)
		if err != nil {
			return nil, err
		}
		params = append(params, nameTok.Lexeme)
		p.syms.Define(Symbol{Name: nameTok.Lexeme, Kind: SymVariable})

		if p.peek().Type != COMMA {
			return params, nil
		}
		p.advance()
	}
}

// parseBlock handles "{" statement* "}".
func (p *Parser) parseBlock() ([]Stmt, error) {
	if _, err := p.expect(LBRACE); err != nil {
		return nil, err
	}
	var stmts []Stmt
	for p.peek().Type != RBRACE {
		if p.peek().Type == EOF {
			return nil, p.errExpected(p.peek(), RBRACE)
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	p.advance() // consume }
	return stmts, nil
}

func (p *Parser) parseStatement() (Stmt, error) {
	switch p.peek().Type {
	case INT:
		return p.parseDecl()
	case IF:
		return p.parseIf()
	case WHILE:
		return p.parseWhile()
	case RETURN:
		return p.parseReturn()
	case IDENTIFIER:
		if p.peekNext().Type == LPAREN {
			return p.parseCallStmt()
		}
		return p.parseAssignment()
	default:
		return nil, p.errExpected(p.peek(), INT, IF, WHILE, RETURN, IDENTIFIER)
	}
}

// parseDecl handles  int name;  and  int name[size];
func (p *Parser) parseDecl() (Stmt, error) {
	p.advance() // consume int
	nameTok, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}

	if p.peek().Type == LBRACKET {
		p.advance()
		sizeTok, err := p.expect(NUMBER)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RBRACKET); err != nil {
			return nil, err
		}
		if _, err := p.expect(SEMICOLON); err != nil {
			return nil, err
		}
		size, _ := strconv.Atoi(sizeTok.Lexeme)
		p.syms.Define(Symbol{Name: nameTok.Lexeme, Kind: SymArray, Size: size})
		return &ArrayDecl{Name: nameTok.Lexeme, Size: size}, nil
	}

	if p.peek().Type != SEMICOLON {
		return nil, p.errExpected(p.peek(), LBRACKET, SEMICOLON)
	}
	p.advance()
	p.syms.Define(Symbol{Name: nameTok.Lexeme, Kind: SymVariable})
	return &VariableDecl{Name: nameTok.Lexeme}, nil
}

// parseAssignment handles  name = expr;  and  name[index] = expr;
func (p *Parser) parseAssignment() (Stmt, error) {
	nameTok := p.advance() // IDENTIFIER, checked by caller

	var target Expr = &VarRef{Name: nameTok.Lexeme}
	if p.peek().Type == LBRACKET {
		p.advance()
		index, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RBRACKET); err != nil {
			return nil, err
		}
		target = &IndexExpr{Name: nameTok.Lexeme, Index: index}
	}

	if _, err := p.expect(ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	return &Assignment{Target: target, Value: value}, nil
}

func (p *Parser) parseIf() (Stmt, error) {
	p.advance() // consume if
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	stmt := &IfStmt{Condition: cond, Body: body}
	if p.peek().Type == ELSE {
		p.advance()
		elseBody, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		if elseBody == nil {
			elseBody = []Stmt{}
		}
		stmt.ElseBody = elseBody
	}
	return stmt, nil
}

func (p *Parser) parseWhile() (Stmt, error) {
	p.advance() // consume while
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &WhileStmt{Condition: cond, Body: body}, nil
}

func (p *Parser) parseReturn() (Stmt, error) {
	p.advance() // consume return
	if p.peek().Type == SEMICOLON {
		p.advance()
		return &ReturnStmt{}, nil
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	return &ReturnStmt{Expr: value}, nil
}

// parseCallStmt handles  name(args);
func (p *Parser) parseCallStmt() (Stmt, error) {
	call, err := p.parseCall()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	return &ExprStmt{Expr: call}, nil
}

// parseCall handles  name "(" args? ")"  with the IDENTIFIER still current.
func (p *Parser) parseCall() (*FunctionCall, error) {
	nameTok := p.advance() // IDENTIFIER, checked by caller
	p.advance()            // consume (

	call := &FunctionCall{Name: nameTok.Lexeme}
	if p.peek().Type != RPAREN {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, arg)
			if p.peek().Type != COMMA {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	return call, nil
}

// parseExpression is the entry point for expression parsing.
// Equality binds loosest.
func (p *Parser) parseExpression() (Expr, error) {
	expr, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == EQUALS {
		op := p.advance().Type
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Op: op, Left: expr, Right: right}
	}
	return expr, nil
}

// parseAdditive handles + and - (left-associative).
func (p *Parser) parseAdditive() (Expr, error) {
	expr, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		tt := p.peek().Type
		if tt != PLUS && tt != MINUS {
			break
		}
		op := p.advance().Type
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Op: op, Left: expr, Right: right}
	}
	return expr, nil
}

// parseMultiplicative handles * and / (left-associative).
func (p *Parser) parseMultiplicative() (Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		tt := p.peek().Type
		if tt != STAR && tt != SLASH {
			break
		}
		op := p.advance().Type
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Op: op, Left: expr, Right: right}
	}
	return expr, nil
}

// parsePrimary handles literals, identifiers (plain, indexed, or called),
// and parenthesised expressions.
func (p *Parser) parsePrimary() (Expr, error) {
	tok := p.peek()
	switch tok.Type {
	case NUMBER:
		p.advance()
		value, err := strconv.Atoi(tok.Lexeme)
		if err != nil {
			// The lexer only emits digit runs; overflow is the one way here.
			return nil, p.errExpected(tok, NUMBER)
		}
		return &Literal{Value: value}, nil

	case IDENTIFIER:
		switch p.peekNext().Type {
		case LPAREN:
			return p.parseCall()
		case LBRACKET:
			p.advance() // name
			p.advance() // [
			index, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(RBRACKET); err != nil {
				return nil, err
			}
			return &IndexExpr{Name: tok.Lexeme, Index: index}, nil
		default:
			p.advance()
			return &VarRef{Name: tok.Lexeme}, nil
		}

	case LPAREN:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		return expr, nil

	default:
		return nil, p.errExpected(tok, NUMBER, IDENTIFIER, LPAREN)
	}
}
