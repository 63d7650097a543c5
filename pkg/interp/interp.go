// Package interp executes three-address code produced by pkg/compiler.
//
// It exists for testing and tooling: lowering is static, so checking that a
// loop really re-evaluates its condition, or that only one branch of an
// if/else runs, needs an executor. The machine is deliberately small: named
// storage cells instead of memory addresses, one frame per active call, and
// a step budget so a runaway loop fails instead of hanging.
package interp

import (
	"fmt"
	"strconv"

	"minicc/pkg/compiler"
)

// DefaultMaxSteps bounds one Call. Each executed instruction costs a step.
const DefaultMaxSteps = 100000

// Machine executes a compiled program. It is not safe for concurrent use;
// create one Machine per goroutine.
type Machine struct {
	instrs   []compiler.Instruction
	funcs    map[string]int      // function name -> index of its func marker
	params   map[string][]string // function name -> parameter names
	labels   map[string]int      // label -> instruction index
	MaxSteps int
	steps    int
}

// frame is the storage of one active function call. Scalars and temporaries
// share one namespace, mirroring the flat symbol table.
type frame struct {
	vars   map[string]int
	arrays map[string][]int
}

func newFrame() *frame {
	return &frame{vars: make(map[string]int), arrays: make(map[string][]int)}
}

// New builds a Machine over a compile result. The AST is needed alongside
// the instructions because parameter names never appear in the TAC stream.
func New(res *compiler.Result) *Machine {
	m := &Machine{
		instrs:   res.Instructions,
		funcs:    make(map[string]int),
		params:   make(map[string][]string),
		labels:   make(map[string]int),
		MaxSteps: DefaultMaxSteps,
	}
	for i, in := range res.Instructions {
		switch in.Op {
		case compiler.OpFunc:
			m.funcs[in.Name] = i
		case compiler.OpLabel:
			m.labels[in.Label] = i
		}
	}
	for _, fn := range res.Program.Functions {
		m.params[fn.Name] = fn.Params
	}
	return m
}

// Call runs the named function with the given argument values and returns
// its result. A bare return (or falling off the end of the function)
// yields 0.
func (m *Machine) Call(name string, args ...int) (int, error) {
	m.steps = 0
	return m.call(name, args)
}

func (m *Machine) call(name string, args []int) (int, error) {
	start, ok := m.funcs[name]
	if !ok {
		return 0, fmt.Errorf("call to unknown function %q", name)
	}

	f := newFrame()
	for i, param := range m.params[name] {
		if i < len(args) {
			f.vars[param] = args[i]
		}
	}

	pc := start + 1
	for pc < len(m.instrs) {
		if m.steps >= m.MaxSteps {
			return 0, fmt.Errorf("step limit (%d) exceeded in %q", m.MaxSteps, name)
		}
		m.steps++

		in := m.instrs[pc]
		switch in.Op {
		case compiler.OpFunc:
			// Fell into the next function: implicit bare return.
			return 0, nil

		case compiler.OpVar:
			f.vars[in.Name] = 0

		case compiler.OpArray:
			f.arrays[in.Name] = make([]int, in.Size)

		case compiler.OpAssign:
			f.vars[in.Dest] = f.value(in.Src)

		case compiler.OpBinary:
			v, err := binaryOp(in.Operator, f.value(in.Left), f.value(in.Right))
			if err != nil {
				return 0, err
			}
			f.vars[in.Dest] = v

		case compiler.OpLoad:
			arr := f.arrays[in.Name]
			idx := f.value(in.Index)
			if idx < 0 || idx >= len(arr) {
				return 0, fmt.Errorf("index %d out of range for %s[%d]", idx, in.Name, len(arr))
			}
			f.vars[in.Dest] = arr[idx]

		case compiler.OpStore:
			arr := f.arrays[in.Name]
			idx := f.value(in.Index)
			if idx < 0 || idx >= len(arr) {
				return 0, fmt.Errorf("index %d out of range for %s[%d]", idx, in.Name, len(arr))
			}
			arr[idx] = f.value(in.Src)

		case compiler.OpLabel:
			// Position marker only.

		case compiler.OpGoto:
			target, ok := m.labels[in.Label]
			if !ok {
				return 0, fmt.Errorf("goto undefined label %q", in.Label)
			}
			pc = target
			continue

		case compiler.OpIfFalse:
			if f.value(in.Src) == 0 {
				target, ok := m.labels[in.Label]
				if !ok {
					return 0, fmt.Errorf("ifFalse to undefined label %q", in.Label)
				}
				pc = target
				continue
			}

		case compiler.OpCall:
			argVals := make([]int, len(in.Args))
			for i, a := range in.Args {
				argVals[i] = f.value(a)
			}
			result, err := m.call(in.Name, argVals)
			if err != nil {
				return 0, err
			}
			if in.Dest != "" {
				f.vars[in.Dest] = result
			}

		case compiler.OpReturn:
			if in.Src == "" {
				return 0, nil
			}
			return f.value(in.Src), nil
		}
		pc++
	}
	return 0, nil
}

// value resolves an operand: an integer literal spelling, or a named cell.
// Unknown names read as 0, matching the front end's no-semantic-checks rule.
func (f *frame) value(operand string) int {
	if n, err := strconv.Atoi(operand); err == nil {
		return n
	}
	return f.vars[operand]
}

func binaryOp(op string, left, right int) (int, error) {
	switch op {
	case "+":
		return left + right, nil
	case "-":
		return left - right, nil
	case "*":
		return left * right, nil
	case "/":
		if right == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return left / right, nil
	case "==":
		if left == right {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("unknown operator %q", op)
}
