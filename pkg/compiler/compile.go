package compiler

import (
	"fmt"
	"strings"
)

// Result holds everything one successful compile produced.
type Result struct {
	Tokens       []Token
	Program      *Program
	Symbols      *SymbolTable
	Instructions []Instruction
}

// Compile runs the whole pipeline over src: Lex, Parse, Generate. All
// per-compile state (token slice, symbol table, temp/label counters) is
// created fresh inside this call, so independent callers may compile
// concurrently.
//
// On failure the error is a *LexicalError or a *SyntaxError and the result
// is nil; there is no partial output.
func Compile(src string) (*Result, error) {
	tokens, err := Lex(src)
	if err != nil {
		return nil, err
	}

	prog, syms, err := Parse(tokens, src)
	if err != nil {
		return nil, err
	}

	instrs := Generate(prog, syms)

	return &Result{
		Tokens:       tokens,
		Program:      prog,
		Symbols:      syms,
		Instructions: instrs,
	}, nil
}

// FormatTokens renders the token stream as (kind, lexeme) pairs in lexical
// order, one per line.
func (r *Result) FormatTokens() string {
	var sb strings.Builder
	for _, tok := range r.Tokens {
		fmt.Fprintf(&sb, "(%s, %q)\n", tok.Type, tok.Lexeme)
	}
	return sb.String()
}

// FormatAST renders the AST as an indented tree.
func (r *Result) FormatAST() string {
	return FormatAST(r.Program)
}

// FormatTAC renders the instruction listing, one instruction per line.
func (r *Result) FormatTAC() string {
	return FormatTAC(r.Instructions)
}
