package ir

import (
	"strconv"

	"github.com/dr8co/tinylang/ast"
)

var binaryOps = map[string]Op{
	"+":  ADD,
	"-":  SUB,
	"*":  MUL,
	"/":  DIV,
	"%":  MOD,
	"<":  LT,
	">":  GT,
	"<=": LTE,
	">=": GTE,
	"==": EQ,
	"!=": NEQ,
	"&&": AND,
	"||": OR,
}

func literalInt(v int32) string  { return "#" + strconv.FormatInt(int64(v), 10) }
func literalBool(v bool) string {
	if v {
		return "#true"
	}
	return "#false"
}

// Generator turns a checked AST into a flat list of TAC instructions.
// It must only be run on a program that [semantics.Analyzer] has already
// annotated: it trusts Mangled names and ExprType without re-checking
// them.
type Generator struct {
	instrs     []*Instruction
	tempCount  int
	labelCount int
}

// Generate produces the TAC for a whole program.
func Generate(program *ast.Program) []*Instruction {
	g := &Generator{}
	for _, stmt := range program.Statements {
		g.genStatement(stmt)
	}
	return g.instrs
}

func (g *Generator) emit(op Op, dst, arg1, arg2 string) {
	g.instrs = append(g.instrs, &Instruction{Op: op, Dst: dst, Arg1: arg1, Arg2: arg2})
}

func (g *Generator) newTemp() string {
	t := "t" + strconv.Itoa(g.tempCount)
	g.tempCount++
	return t
}

func (g *Generator) newLabel() string {
	l := "L" + strconv.Itoa(g.labelCount)
	g.labelCount++
	return l
}

func (g *Generator) genStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		g.genVarDecl(s)
	case *ast.Assign:
		operand := g.genExpr(s.Value)
		g.emit(ASSIGN, s.Mangled, operand, "")
	case *ast.If:
		g.genIf(s)
	case *ast.While:
		g.genWhile(s)
	case *ast.Print:
		operand := g.genExpr(s.Value)
		g.emit(PRINT, "", operand, "")
	case *ast.BlockStatement:
		g.genBlock(s)
	}
}

func (g *Generator) genVarDecl(vd *ast.VarDecl) {
	if vd.Value != nil {
		operand := g.genExpr(vd.Value)
		g.emit(ASSIGN, vd.Mangled, operand, "")
		return
	}

	var zero string
	if vd.DeclType == ast.Bool {
		zero = literalBool(false)
	} else {
		zero = literalInt(0)
	}
	g.emit(ASSIGN, vd.Mangled, zero, "")
}

func (g *Generator) genBlock(b *ast.BlockStatement) {
	for _, stmt := range b.Statements {
		g.genStatement(stmt)
	}
}

func (g *Generator) genIf(ifs *ast.If) {
	cond := g.genExpr(ifs.Cond)

	if ifs.Else == nil {
		lEnd := g.newLabel()
		g.emit(IF_FALSE, lEnd, cond, "")
		g.genBlock(ifs.Then)
		g.emit(LABEL, lEnd, "", "")
		return
	}

	lElse := g.newLabel()
	lEnd := g.newLabel()
	g.emit(IF_FALSE, lElse, cond, "")
	g.genBlock(ifs.Then)
	g.emit(GOTO, lEnd, "", "")
	g.emit(LABEL, lElse, "", "")
	g.genBlock(ifs.Else)
	g.emit(LABEL, lEnd, "", "")
}

func (g *Generator) genWhile(w *ast.While) {
	lStart := g.newLabel()
	lEnd := g.newLabel()

	g.emit(LABEL, lStart, "", "")
	cond := g.genExpr(w.Cond)
	g.emit(IF_FALSE, lEnd, cond, "")
	g.genBlock(w.Body)
	g.emit(GOTO, lStart, "", "")
	g.emit(LABEL, lEnd, "", "")
}

func (g *Generator) genExpr(expr ast.Expression) string {
	switch e := expr.(type) {
	case *ast.IntLit:
		return literalInt(e.Value)
	case *ast.BoolLit:
		return literalBool(e.Value)
	case *ast.VarRef:
		return e.Mangled
	case *ast.UnaryOp:
		operand := g.genExpr(e.Operand)
		t := g.newTemp()
		if e.Op == "!" {
			g.emit(NOT, t, operand, "")
		} else {
			g.emit(NEG, t, operand, "")
		}
		return t
	case *ast.BinaryOp:
		// Both operands are always generated, even when one of them is a
		// literal that could short-circuit the other at runtime: TinyLang
		// specifies && and || as strict, not short-circuiting, operators.
		left := g.genExpr(e.Left)
		right := g.genExpr(e.Right)
		t := g.newTemp()
		g.emit(binaryOps[e.Op], t, left, right)
		return t
	default:
		return ""
	}
}
