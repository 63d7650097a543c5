package compiler

import (
	"fmt"
	"strings"
)

// LexicalError reports a character outside the language's alphabet.
// It is fatal: the lexer does not skip the character and continue.
type LexicalError struct {
	Line int
	Col  int
	Char rune // the offending character
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("line %d, col %d: illegal character %q", e.Line, e.Col, e.Char)
}

// SyntaxError reports a token that does not satisfy the grammar rule the
// parser was in. It names the token kind(s) that would have been accepted.
type SyntaxError struct {
	Expected []TokenType
	Found    Token
	snippet  string // trimmed source line where Found appears, may be empty
}

func (e *SyntaxError) Error() string {
	names := make([]string, len(e.Expected))
	for i, tt := range e.Expected {
		names[i] = tt.String()
	}
	msg := fmt.Sprintf("line %d, col %d: expected %s, got %s (%q)",
		e.Found.Line, e.Found.Col, strings.Join(names, " or "), e.Found.Type, e.Found.Lexeme)
	if e.snippet != "" {
		msg += "\n  |> " + e.snippet
	}
	return msg
}
