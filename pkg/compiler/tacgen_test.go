package compiler

import (
	"reflect"
	"testing"
)

// generate runs the front half of the pipeline and lowers the result.
func generate(t *testing.T, input string) []Instruction {
	t.Helper()
	prog, syms, err := Parse(mustLex(t, input), input)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return Generate(prog, syms)
}

// renderLines turns an instruction sequence into its textual lines.
func renderLines(instrs []Instruction) []string {
	lines := make([]string, len(instrs))
	for i, in := range instrs {
		lines[i] = in.String()
	}
	return lines
}

// assertTAC compares the full listing, in order.
func assertTAC(t *testing.T, input string, want []string) {
	t.Helper()
	got := renderLines(generate(t, input))
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TAC mismatch for %q\ngot:\n  %v\nwant:\n  %v", input, got, want)
	}
}

func TestGenerate_LiteralThroughTemp(t *testing.T) {
	assertTAC(t, "int main() { x = 5; }", []string{
		"func main:",
		"t0 = 5",
		"x = t0",
	})
}

func TestGenerate_ExpressionTemps(t *testing.T) {
	// Operands lower before operators; temporaries strictly increase.
	assertTAC(t, "int main() { x = 1 + 2 * 3; }", []string{
		"func main:",
		"t0 = 1",
		"t1 = 2",
		"t2 = 3",
		"t3 = t1 * t2",
		"t4 = t0 + t3",
		"x = t4",
	})
}

func TestGenerate_Prologue(t *testing.T) {
	// Declarations are hoisted ahead of the statements, including those
	// inside nested bodies, in source order.
	assertTAC(t, `int main() {
		int x;
		if (x == 0) {
			int y;
			y = 1;
		}
		int arr[4];
	}`, []string{
		"func main:",
		"var x",
		"var y",
		"array arr 4",
		"t0 = 0",
		"t1 = x == t0",
		"ifFalse t1 goto L0",
		"t2 = 1",
		"y = t2",
		"L0:",
	})
}

func TestGenerate_ArrayRoundTrip(t *testing.T) {
	assertTAC(t, "int main() { int arr[10]; arr[0] = 5; return arr[0]; }", []string{
		"func main:",
		"array arr 10",
		"t0 = 0",
		"t1 = 5",
		"arr[t0] = t1",
		"t2 = 0",
		"t3 = arr[t2]",
		"return t3",
	})
}

func TestGenerate_IfWithoutElse(t *testing.T) {
	// One label per else-less if; control falls through to it.
	assertTAC(t, "int main() { if (x == 1) { x = 2; } x = 3; }", []string{
		"func main:",
		"t0 = 1",
		"t1 = x == t0",
		"ifFalse t1 goto L0",
		"t2 = 2",
		"x = t2",
		"L0:",
		"t3 = 3",
		"x = t3",
	})
}

func TestGenerate_IfElse(t *testing.T) {
	// Two labels: else target first, reconvergence second. Exactly one
	// branch can execute and both paths reach L1.
	assertTAC(t, "int main() { if (x == 10) { return x; } else { x = 0; } }", []string{
		"func main:",
		"t0 = 10",
		"t1 = x == t0",
		"ifFalse t1 goto L0",
		"return x",
		"goto L1",
		"L0:",
		"t2 = 0",
		"x = t2",
		"L1:",
	})
}

func TestGenerate_While(t *testing.T) {
	// Condition sits between the start label and the ifFalse, so each
	// iteration re-evaluates it before the body runs.
	assertTAC(t, "int main() { while (x == 0) { x = x + 1; } }", []string{
		"func main:",
		"L0:",
		"t0 = 0",
		"t1 = x == t0",
		"ifFalse t1 goto L1",
		"t2 = 1",
		"t3 = x + t2",
		"x = t3",
		"goto L0",
		"L1:",
	})
}

func TestGenerate_Calls(t *testing.T) {
	// Arguments lower left to right; a bare call statement still gets a
	// result temporary, it is just never read.
	assertTAC(t, "int main() { foo(1, x); y = bar(2); }", []string{
		"func main:",
		"t0 = 1",
		"call foo, 2 -> t1",
		"t2 = 2",
		"call bar, 1 -> t3",
		"y = t3",
	})
}

func TestGenerate_ReturnForms(t *testing.T) {
	assertTAC(t, "void f() { return; } int g() { return 7; }", []string{
		"func f:",
		"return",
		"func g:",
		"t0 = 7",
		"return t0",
	})
}

func TestGenerate_CountersSpanFunctions(t *testing.T) {
	// Counters are per compile, not per function: no temp or label name
	// is ever reused within one listing.
	assertTAC(t, `int f() { if (a == 1) { return 1; } return 0; }
		int g() { if (b == 2) { return 2; } return 0; }`, []string{
		"func f:",
		"t0 = 1",
		"t1 = a == t0",
		"ifFalse t1 goto L0",
		"t2 = 1",
		"return t2",
		"L0:",
		"t3 = 0",
		"return t3",
		"func g:",
		"t4 = 2",
		"t5 = b == t4",
		"ifFalse t5 goto L1",
		"t6 = 2",
		"return t6",
		"L1:",
		"t7 = 0",
		"return t7",
	})
}

func TestGenerate_CallArgsRecorded(t *testing.T) {
	instrs := generate(t, "int main() { x = add(1, y); }")
	var call *Instruction
	for i := range instrs {
		if instrs[i].Op == OpCall {
			call = &instrs[i]
		}
	}
	if call == nil {
		t.Fatal("no call instruction emitted")
	}
	if call.Name != "add" || call.ArgCount != 2 {
		t.Errorf("call = %s, want call add, 2", call)
	}
	if !reflect.DeepEqual(call.Args, []string{"t0", "y"}) {
		t.Errorf("call args = %v, want [t0 y]", call.Args)
	}
}
