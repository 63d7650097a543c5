package compiler

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"testing"
)

const pipelineSource = `int add(int a, int b) {
	return a + b;
}

int main() {
	int x;
	int arr[10];
	x = 0;
	while (x == 0) {
		arr[x] = add(x, 2);
		x = x + 1;
	}
	if (x == 1) {
		return arr[0];
	} else {
		return 0;
	}
}
`

func TestCompile(t *testing.T) {
	res, err := Compile(pipelineSource)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	if len(res.Tokens) == 0 || res.Tokens[len(res.Tokens)-1].Type != EOF {
		t.Error("token stream missing or not EOF-terminated")
	}
	if len(res.Program.Functions) != 2 {
		t.Errorf("parsed %d functions, want 2", len(res.Program.Functions))
	}
	if _, ok := res.Symbols.Lookup("add"); !ok {
		t.Error("symbol table missing add")
	}
	if len(res.Instructions) == 0 {
		t.Error("no instructions emitted")
	}

	ast := res.FormatAST()
	for _, want := range []string{"Program", "FunctionDecl int add(a, b)", "WhileStmt", "IfStmt"} {
		if !strings.Contains(ast, want) {
			t.Errorf("AST dump missing %q:\n%s", want, ast)
		}
	}

	tac := res.FormatTAC()
	for _, want := range []string{"func add:", "func main:", "array arr 10", "ifFalse"} {
		if !strings.Contains(tac, want) {
			t.Errorf("TAC listing missing %q:\n%s", want, tac)
		}
	}
}

// TestCompileDeterminism verifies byte-identical output across repeated
// compiles of the same source, including compiles running concurrently.
func TestCompileDeterminism(t *testing.T) {
	first, err := Compile(pipelineSource)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	var wg sync.WaitGroup
	results := make([]*Result, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := Compile(pipelineSource)
			if err != nil {
				t.Errorf("Compile failed: %v", err)
				return
			}
			results[i] = res
		}(i)
	}
	wg.Wait()

	for i, res := range results {
		if res == nil {
			continue
		}
		if res.FormatTokens() != first.FormatTokens() {
			t.Errorf("compile %d: token rendering differs", i)
		}
		if res.FormatAST() != first.FormatAST() {
			t.Errorf("compile %d: AST rendering differs", i)
		}
		if res.FormatTAC() != first.FormatTAC() {
			t.Errorf("compile %d: TAC listing differs", i)
		}
		if !reflect.DeepEqual(res.Instructions, first.Instructions) {
			t.Errorf("compile %d: instruction sequences differ", i)
		}
	}
}

// TestTemporaryMonotonicity verifies that temporary indices strictly
// increase in emission order and that every temporary is written before
// any instruction reads it.
func TestTemporaryMonotonicity(t *testing.T) {
	res, err := Compile(pipelineSource)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	tempIndex := func(operand string) (int, bool) {
		if len(operand) < 2 || operand[0] != 't' {
			return 0, false
		}
		n, err := strconv.Atoi(operand[1:])
		return n, err == nil
	}

	written := map[string]bool{}
	last := -1
	for _, in := range res.Instructions {
		// Reads happen before the write of the same instruction.
		for _, operand := range append([]string{in.Src, in.Left, in.Right, in.Index}, in.Args...) {
			if _, ok := tempIndex(operand); ok && !written[operand] {
				t.Errorf("%s reads %s before it is written", in, operand)
			}
		}
		if in.Op == OpCall || in.Op == OpAssign || in.Op == OpBinary || in.Op == OpLoad {
			if n, ok := tempIndex(in.Dest); ok {
				if n <= last {
					t.Errorf("%s defines t%d after t%d", in, n, last)
				}
				last = n
				if written[in.Dest] {
					t.Errorf("%s writes %s twice", in, in.Dest)
				}
				written[in.Dest] = true
			}
		}
	}
}

// TestLabelPairing verifies every jump targets exactly one emitted label.
func TestLabelPairing(t *testing.T) {
	res, err := Compile(pipelineSource)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	defined := map[string]int{}
	for _, in := range res.Instructions {
		if in.Op == OpLabel {
			defined[in.Label]++
		}
	}
	for label, n := range defined {
		if n != 1 {
			t.Errorf("label %s emitted %d times", label, n)
		}
	}
	for _, in := range res.Instructions {
		if in.Op == OpGoto || in.Op == OpIfFalse {
			if defined[in.Label] != 1 {
				t.Errorf("%s targets label %s defined %d times", in, in.Label, defined[in.Label])
			}
		}
	}
}

// TestLabelCounts verifies the per-construct label budget: one label for an
// else-less if, two for if/else, two for while.
func TestLabelCounts(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		labels int
	}{
		{"if", "int main() { if (x == 1) { x = 2; } }", 1},
		{"if-else", "int main() { if (x == 1) { x = 2; } else { x = 3; } }", 2},
		{"while", "int main() { while (x == 0) { x = 1; } }", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Compile(tt.input)
			if err != nil {
				t.Fatalf("Compile failed: %v", err)
			}
			count := 0
			for _, in := range res.Instructions {
				if in.Op == OpLabel {
					count++
				}
			}
			if count != tt.labels {
				t.Errorf("emitted %d labels, want %d", count, tt.labels)
			}
		})
	}
}

// TestCompileErrors verifies the two fatal error kinds surface through
// Compile with no partial result.
func TestCompileErrors(t *testing.T) {
	t.Run("lexical", func(t *testing.T) {
		res, err := Compile("int main() { x = @; }")
		if res != nil {
			t.Error("expected nil result")
		}
		var lexErr *LexicalError
		if !errors.As(err, &lexErr) {
			t.Fatalf("expected *LexicalError, got %T (%v)", err, err)
		}
	})

	t.Run("syntax", func(t *testing.T) {
		res, err := Compile("int main() { int x = ; }")
		if res != nil {
			t.Error("expected nil result")
		}
		var synErr *SyntaxError
		if !errors.As(err, &synErr) {
			t.Fatalf("expected *SyntaxError, got %T (%v)", err, err)
		}
	})
}

// TestUndeclaredNamesAccepted pins the deliberate absence of semantic
// checks: undeclared reads and writes compile and lower untouched.
func TestUndeclaredNamesAccepted(t *testing.T) {
	res, err := Compile("int main() { y = nowhere + 1; return missing(); }")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	tac := res.FormatTAC()
	for _, want := range []string{"nowhere + t0", "y = t1", "call missing, 0"} {
		if !strings.Contains(tac, want) {
			t.Errorf("TAC missing %q:\n%s", want, tac)
		}
	}
}
