package compiler

import (
	"fmt"
	"strings"
)

//  Expression nodes

// Expr is implemented by every node that produces a value.
type Expr interface {
	exprNode()
	String() string
}

// Literal is a compile-time integer constant.
//
//	x = 10;
//	    ^^  Literal{Value: 10}
type Literal struct {
	Value int
}

func (*Literal) exprNode()        {}
func (l *Literal) String() string { return fmt.Sprintf("%d", l.Value) }

// VarRef is a read of a named variable.
//
//	return x;
//	       ^  VarRef{Name: "x"}
type VarRef struct {
	Name string
}

func (*VarRef) exprNode()        {}
func (v *VarRef) String() string { return v.Name }

// BinaryExpr represents a binary operation: Left Op Right.
// Op is one of PLUS, MINUS, STAR, SLASH, EQUALS.
type BinaryExpr struct {
	Op    TokenType
	Left  Expr
	Right Expr
}

func (*BinaryExpr) exprNode() {}
func (b *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, opText(b.Op), b.Right)
}

// IndexExpr represents Name[Index].
type IndexExpr struct {
	Name  string
	Index Expr
}

func (*IndexExpr) exprNode()        {}
func (e *IndexExpr) String() string { return fmt.Sprintf("%s[%s]", e.Name, e.Index) }

// FunctionCall represents Name(Args).
type FunctionCall struct {
	Name string
	Args []Expr
}

func (*FunctionCall) exprNode() {}
func (c *FunctionCall) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Name, strings.Join(args, ", "))
}

//  Statement nodes

// Stmt is implemented by every node that does not produce a value.
type Stmt interface {
	stmtNode()
	String() string
}

// VariableDecl represents  int name;
type VariableDecl struct {
	Name string
}

func (*VariableDecl) stmtNode()        {}
func (d *VariableDecl) String() string { return fmt.Sprintf("VariableDecl(int %s)", d.Name) }

// ArrayDecl represents  int name[size];
type ArrayDecl struct {
	Name string
	Size int
}

func (*ArrayDecl) stmtNode()        {}
func (d *ArrayDecl) String() string { return fmt.Sprintf("ArrayDecl(int %s[%d])", d.Name, d.Size) }

// Assignment represents  Target = Value;
// Target is a VarRef or an IndexExpr; the parser produces nothing else.
type Assignment struct {
	Target Expr
	Value  Expr
}

func (*Assignment) stmtNode() {}
func (a *Assignment) String() string {
	return fmt.Sprintf("Assignment(%s = %s)", a.Target, a.Value)
}

// IfStmt represents if (cond) { body } [else { elseBody }].
// ElseBody is nil when the else branch is absent.
type IfStmt struct {
	Condition Expr
	Body      []Stmt
	ElseBody  []Stmt
}

func (*IfStmt) stmtNode() {}
func (i *IfStmt) String() string {
	if i.ElseBody != nil {
		return fmt.Sprintf("IfStmt(if %s then %d stmts else %d stmts)", i.Condition, len(i.Body), len(i.ElseBody))
	}
	return fmt.Sprintf("IfStmt(if %s then %d stmts)", i.Condition, len(i.Body))
}

// WhileStmt represents while (cond) { body }.
type WhileStmt struct {
	Condition Expr
	Body      []Stmt
}

func (*WhileStmt) stmtNode() {}
func (w *WhileStmt) String() string {
	return fmt.Sprintf("WhileStmt(while %s do %d stmts)", w.Condition, len(w.Body))
}

// ReturnStmt represents  return expr;  or a bare  return;
// Expr is nil for the bare form.
type ReturnStmt struct {
	Expr Expr
}

func (*ReturnStmt) stmtNode() {}
func (r *ReturnStmt) String() string {
	if r.Expr == nil {
		return "ReturnStmt()"
	}
	return fmt.Sprintf("ReturnStmt(%s)", r.Expr)
}

// ExprStmt represents a bare call evaluated for its side effects.
type ExprStmt struct {
	Expr Expr
}

func (*ExprStmt) stmtNode()        {}
func (e *ExprStmt) String() string { return fmt.Sprintf("ExprStmt(%s)", e.Expr) }

// FunctionDecl represents  int|void name(params) { body }.
type FunctionDecl struct {
	Name       string
	ReturnType string // "int" or "void"; not checked, carried through as-is
	Params     []string
	Body       []Stmt
}

func (*FunctionDecl) stmtNode() {}
func (f *FunctionDecl) String() string {
	return fmt.Sprintf("FunctionDecl(%s %s(%s), %d stmts)",
		f.ReturnType, f.Name, strings.Join(f.Params, ", "), len(f.Body))
}

// Program is the root of the AST: every top-level declaration is a function.
type Program struct {
	Functions []*FunctionDecl
}

// opText maps an operator TokenType back to its source spelling.
func opText(tt TokenType) string {
	switch tt {
	case PLUS:
		return "+"
	case MINUS:
		return "-"
	case STAR:
		return "*"
	case SLASH:
		return "/"
	case EQUALS:
		return "=="
	}
	return tt.String()
}

//  AST rendering

// FormatAST renders the tree one node per line, two spaces of indentation
// per depth. Output is fully determined by the tree shape.
func FormatAST(p *Program) string {
	var sb strings.Builder
	sb.WriteString("Program\n")
	for _, fn := range p.Functions {
		fmt.Fprintf(&sb, "  FunctionDecl %s %s(%s)\n", fn.ReturnType, fn.Name, strings.Join(fn.Params, ", "))
		dumpStmts(&sb, fn.Body, 2)
	}
	return sb.String()
}

func dumpStmts(sb *strings.Builder, stmts []Stmt, depth int) {
	for _, s := range stmts {
		dumpStmt(sb, s, depth)
	}
}

func dumpStmt(sb *strings.Builder, s Stmt, depth int) {
	pad := strings.Repeat("  ", depth)
	switch n := s.(type) {
	case *VariableDecl:
		fmt.Fprintf(sb, "%sVariableDecl %s\n", pad, n.Name)
	case *ArrayDecl:
		fmt.Fprintf(sb, "%sArrayDecl %s[%d]\n", pad, n.Name, n.Size)
	case *Assignment:
		fmt.Fprintf(sb, "%sAssignment\n", pad)
		dumpExpr(sb, n.Target, depth+1)
		dumpExpr(sb, n.Value, depth+1)
	case *IfStmt:
		fmt.Fprintf(sb, "%sIfStmt\n", pad)
		dumpExpr(sb, n.Condition, depth+1)
		fmt.Fprintf(sb, "%s  Then\n", pad)
		dumpStmts(sb, n.Body, depth+2)
		if n.ElseBody != nil {
			fmt.Fprintf(sb, "%s  Else\n", pad)
			dumpStmts(sb, n.ElseBody, depth+2)
		}
	case *WhileStmt:
		fmt.Fprintf(sb, "%sWhileStmt\n", pad)
		dumpExpr(sb, n.Condition, depth+1)
		fmt.Fprintf(sb, "%s  Body\n", pad)
		dumpStmts(sb, n.Body, depth+2)
	case *ReturnStmt:
		fmt.Fprintf(sb, "%sReturnStmt\n", pad)
		if n.Expr != nil {
			dumpExpr(sb, n.Expr, depth+1)
		}
	case *ExprStmt:
		fmt.Fprintf(sb, "%sExprStmt\n", pad)
		dumpExpr(sb, n.Expr, depth+1)
	default:
		fmt.Fprintf(sb, "%s%s\n", pad, s)
	}
}

func dumpExpr(sb *strings.Builder, e Expr, depth int) {
	pad := strings.Repeat("  ", depth)
	switch n := e.(type) {
	case *Literal:
		fmt.Fprintf(sb, "%sLiteral %d\n", pad, n.Value)
	case *VarRef:
		fmt.Fprintf(sb, "%sVarRef %s\n", pad, n.Name)
	case *BinaryExpr:
		fmt.Fprintf(sb, "%sBinaryExpr %s\n", pad, opText(n.Op))
		dumpExpr(sb, n.Left, depth+1)
		dumpExpr(sb, n.Right, depth+1)
	case *IndexExpr:
		fmt.Fprintf(sb, "%sIndexExpr %s\n", pad, n.Name)
		dumpExpr(sb, n.Index, depth+1)
	case *FunctionCall:
		fmt.Fprintf(sb, "%sFunctionCall %s\n", pad, n.Name)
		for _, a := range n.Args {
			dumpExpr(sb, a, depth+1)
		}
	default:
		fmt.Fprintf(sb, "%s%s\n", pad, e)
	}
}
