package compiler

import (
	"fmt"
	"sort"
	"strings"
)

// SymbolKind classifies a symbol table entry.
type SymbolKind int

const (
	SymVariable SymbolKind = iota
	SymArray
	SymFunction
)

func (k SymbolKind) String() string {
	switch k {
	case SymVariable:
		return "variable"
	case SymArray:
		return "array"
	case SymFunction:
		return "function"
	}
	return fmt.Sprintf("SymbolKind(%d)", int(k))
}

// Symbol is one declared name.
type Symbol struct {
	Name  string
	Kind  SymbolKind
	Size  int // array length; 0 for variables and functions
	Arity int // parameter count; 0 for variables and arrays
}

// SymbolTable is a single flat mapping from name to Symbol. There is no
// block scoping: a later declaration of the same name silently overwrites
// the earlier one, so shadowing is invisible to callers. The table lives
// for exactly one compile and is populated as the parser recognises
// declarations.
type SymbolTable struct {
	entries map[string]Symbol
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{entries: make(map[string]Symbol)}
}

// Define inserts sym, unconditionally replacing any existing entry of the
// same name.
func (s *SymbolTable) Define(sym Symbol) {
	s.entries[sym.Name] = sym
}

// Lookup returns the symbol and whether it was found.
func (s *SymbolTable) Lookup(name string) (Symbol, bool) {
	sym, ok := s.entries[name]
	return sym, ok
}

// Len returns the number of distinct declared names.
func (s *SymbolTable) Len() int {
	return len(s.entries)
}

// Names returns all declared names in sorted order.
func (s *SymbolTable) Names() []string {
	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// String returns a deterministically ordered dump of the table.
func (s *SymbolTable) String() string {
	if len(s.entries) == 0 {
		return "Symbols: (empty)\n"
	}
	var sb strings.Builder
	sb.WriteString("Symbols:\n")
	for _, name := range s.Names() {
		sym := s.entries[name]
		switch sym.Kind {
		case SymArray:
			fmt.Fprintf(&sb, "  %-20s  %s (size %d)\n", name, sym.Kind, sym.Size)
		case SymFunction:
			fmt.Fprintf(&sb, "  %-20s  %s (arity %d)\n", name, sym.Kind, sym.Arity)
		default:
			fmt.Fprintf(&sb, "  %-20s  %s\n", name, sym.Kind)
		}
	}
	return sb.String()
}
