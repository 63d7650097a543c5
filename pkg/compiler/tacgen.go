package compiler

import (
	"fmt"
	"strconv"
)

// Generator walks an AST and emits three-address instructions.
//
// The walk is a single depth-first pass: functions in declaration order,
// statements in source order, expression operands before their operator.
// Output order is fully determined by the tree shape, so repeated runs over
// the same AST produce identical listings.
type Generator struct {
	syms      *SymbolTable
	out       []Instruction
	nextTemp  int
	nextLabel int
}

func newGenerator(syms *SymbolTable) *Generator {
	return &Generator{syms: syms}
}

// newTemp returns a fresh temporary name. Temporaries are assigned exactly
// once; the counter is never reset within a compile.
func (g *Generator) newTemp() string {
	t := fmt.Sprintf("t%d", g.nextTemp)
	g.nextTemp++
	return t
}

// newLabel returns a fresh label name.
func (g *Generator) newLabel() string {
	l := fmt.Sprintf("L%d", g.nextLabel)
	g.nextLabel++
	return l
}

func (g *Generator) emit(in Instruction) {
	g.out = append(g.out, in)
}

// Generate lowers the whole program. syms is the table the parser filled;
// generation never fails: undeclared or mistyped names lower as-is.
func Generate(prog *Program, syms *SymbolTable) []Instruction {
	g := newGenerator(syms)
	for _, fn := range prog.Functions {
		g.genFunction(fn)
	}
	return g.out
}

// genFunction emits the function marker, then a flat prologue of var/array
// declarations for every local declared anywhere in the body, then the
// lowered statements.
func (g *Generator) genFunction(fn *FunctionDecl) {
	g.emit(Instruction{Op: OpFunc, Name: fn.Name})
	g.genPrologue(fn.Body)
	g.genStmts(fn.Body)
}

// genPrologue hoists declarations out of the statement list, recursing into
// if/while bodies. The symbol table is flat, so nesting does not matter;
// source order is kept.
func (g *Generator) genPrologue(stmts []Stmt) {
	for _, s := range stmts {
		switch n := s.(type) {
		case *VariableDecl:
			g.emit(Instruction{Op: OpVar, Name: n.Name})
		case *ArrayDecl:
			g.emit(Instruction{Op: OpArray, Name: n.Name, Size: n.Size})
		case *IfStmt:
			g.genPrologue(n.Body)
			g.genPrologue(n.ElseBody)
		case *WhileStmt:
			g.genPrologue(n.Body)
		}
	}
}

func (g *Generator) genStmts(stmts []Stmt) {
	for _, s := range stmts {
		g.genStmt(s)
	}
}

func (g *Generator) genStmt(s Stmt) {
	switch n := s.(type) {
	case *VariableDecl, *ArrayDecl:
		// Already emitted in the function prologue.

	case *Assignment:
		switch target := n.Target.(type) {
		case *VarRef:
			value := g.genExpr(n.Value)
			g.emit(Instruction{Op: OpAssign, Dest: target.Name, Src: value})
		case *IndexExpr:
			// Index before value, so a store reads its operands in the
			// order they appear in the instruction.
			index := g.genExpr(target.Index)
			value := g.genExpr(n.Value)
			g.emit(Instruction{Op: OpStore, Name: target.Name, Index: index, Src: value})
		}

	case *IfStmt:
		cond := g.genExpr(n.Condition)
		if n.ElseBody == nil {
			end := g.newLabel()
			g.emit(Instruction{Op: OpIfFalse, Src: cond, Label: end})
			g.genStmts(n.Body)
			g.emit(Instruction{Op: OpLabel, Label: end})
		} else {
			elseLabel := g.newLabel()
			endLabel := g.newLabel()
			g.emit(Instruction{Op: OpIfFalse, Src: cond, Label: elseLabel})
			g.genStmts(n.Body)
			g.emit(Instruction{Op: OpGoto, Label: endLabel})
			g.emit(Instruction{Op: OpLabel, Label: elseLabel})
			g.genStmts(n.ElseBody)
			g.emit(Instruction{Op: OpLabel, Label: endLabel})
		}

	case *WhileStmt:
		start := g.newLabel()
		end := g.newLabel()
		g.emit(Instruction{Op: OpLabel, Label: start})
		cond := g.genExpr(n.Condition)
		g.emit(Instruction{Op: OpIfFalse, Src: cond, Label: end})
		g.genStmts(n.Body)
		g.emit(Instruction{Op: OpGoto, Label: start})
		g.emit(Instruction{Op: OpLabel, Label: end})

	case *ReturnStmt:
		if n.Expr == nil {
			g.emit(Instruction{Op: OpReturn})
		} else {
			value := g.genExpr(n.Expr)
			g.emit(Instruction{Op: OpReturn, Src: value})
		}

	case *ExprStmt:
		// A bare call still allocates a result temporary; the value is
		// simply never read.
		g.genExpr(n.Expr)
	}
}

// genExpr lowers an expression and returns the operand holding its value.
// Variable reads lower to the variable name itself; everything else lands
// in a fresh temporary, including integer literals.
func (g *Generator) genExpr(e Expr) string {
	switch n := e.(type) {
	case *Literal:
		t := g.newTemp()
		g.emit(Instruction{Op: OpAssign, Dest: t, Src: strconv.Itoa(n.Value)})
		return t

	case *VarRef:
		return n.Name

	case *BinaryExpr:
		left := g.genExpr(n.Left)
		right := g.genExpr(n.Right)
		t := g.newTemp()
		g.emit(Instruction{Op: OpBinary, Dest: t, Left: left, Operator: opText(n.Op), Right: right})
		return t

	case *IndexExpr:
		index := g.genExpr(n.Index)
		t := g.newTemp()
		g.emit(Instruction{Op: OpLoad, Dest: t, Name: n.Name, Index: index})
		return t

	case *FunctionCall:
		args := make([]string, 0, len(n.Args))
		for _, a := range n.Args {
			args = append(args, g.genExpr(a))
		}
		t := g.newTemp()
		g.emit(Instruction{Op: OpCall, Dest: t, Name: n.Name, ArgCount: len(args), Args: args})
		return t
	}
	return ""
}
