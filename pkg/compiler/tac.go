package compiler

import (
	"fmt"
	"strings"
)

// Opcode identifies the shape of a three-address instruction.
type Opcode int

const (
	OpAssign  Opcode = iota // Dest = Src
	OpBinary                // Dest = Left Operator Right
	OpLoad                  // Dest = Name[Index]
	OpStore                 // Name[Index] = Src
	OpLabel                 // Label:
	OpGoto                  // goto Label
	OpIfFalse               // ifFalse Src goto Label
	OpCall                  // call Name, ArgCount -> Dest  (Dest empty: discarded)
	OpReturn                // return Src  (Src empty: bare return)
	OpFunc                  // func Name:
	OpVar                   // var Name
	OpArray                 // array Name Size
)

// Instruction is one three-address instruction. Which fields are meaningful
// depends on Op; see the Opcode constants. Operands are names: temporaries
// (t0, t1, ...), declared variables, or nothing. Every temporary is written
// exactly once before any instruction reads it.
type Instruction struct {
	Op       Opcode
	Dest     string
	Src      string // assign/store source; ifFalse condition; return value
	Left     string
	Right    string
	Operator string // binary operator spelling: + - * / ==
	Name     string // array, function, or variable name
	Index    string // array index operand
	Label    string
	Size     int      // array length
	ArgCount int      // call argument count
	Args     []string // call argument operands, in evaluation order
}

// String renders the instruction in its canonical textual form, e.g.
// "t2 = t0 + t1", "arr[t0] = t1", "ifFalse t3 goto L1", "call f, 2 -> t5".
func (in Instruction) String() string {
	switch in.Op {
	case OpAssign:
		return fmt.Sprintf("%s = %s", in.Dest, in.Src)
	case OpBinary:
		return fmt.Sprintf("%s = %s %s %s", in.Dest, in.Left, in.Operator, in.Right)
	case OpLoad:
		return fmt.Sprintf("%s = %s[%s]", in.Dest, in.Name, in.Index)
	case OpStore:
		return fmt.Sprintf("%s[%s] = %s", in.Name, in.Index, in.Src)
	case OpLabel:
		return in.Label + ":"
	case OpGoto:
		return "goto " + in.Label
	case OpIfFalse:
		return fmt.Sprintf("ifFalse %s goto %s", in.Src, in.Label)
	case OpCall:
		if in.Dest == "" {
			return fmt.Sprintf("call %s, %d", in.Name, in.ArgCount)
		}
		return fmt.Sprintf("call %s, %d -> %s", in.Name, in.ArgCount, in.Dest)
	case OpReturn:
		if in.Src == "" {
			return "return"
		}
		return "return " + in.Src
	case OpFunc:
		return fmt.Sprintf("func %s:", in.Name)
	case OpVar:
		return "var " + in.Name
	case OpArray:
		return fmt.Sprintf("array %s %d", in.Name, in.Size)
	}
	return fmt.Sprintf("Instruction(op=%d)", int(in.Op))
}

// FormatTAC renders the listing one instruction per line, in emission order.
func FormatTAC(instrs []Instruction) string {
	var sb strings.Builder
	for _, in := range instrs {
		sb.WriteString(in.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
