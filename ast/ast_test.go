package ast_test

import (
	"testing"

	"github.com/dr8co/tinylang/ast"
	"github.com/dr8co/tinylang/token"
)

func TestTypeString(t *testing.T) {
	tests := []struct {
		typ  ast.Type
		want string
	}{
		{ast.Int, "int"},
		{ast.Bool, "bool"},
		{ast.Unknown, "unknown"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("Type(%d).String() = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func TestVarDeclString(t *testing.T) {
	vd := &ast.VarDecl{
		Token:    token.Token{Type: token.INT_TYPE, Literal: "int"},
		DeclType: ast.Int,
		Name:     "x",
		Value:    &ast.IntLit{Token: token.Token{Literal: "5"}, Value: 5},
	}
	if got, want := vd.String(), "int x = 5;"; got != want {
		t.Errorf("VarDecl.String() = %q, want %q", got, want)
	}

	vdNoInit := &ast.VarDecl{DeclType: ast.Bool, Name: "done"}
	if got, want := vdNoInit.String(), "bool done;"; got != want {
		t.Errorf("VarDecl.String() (no init) = %q, want %q", got, want)
	}
}

func TestAssignString(t *testing.T) {
	a := &ast.Assign{
		Name:  "x",
		Value: &ast.IntLit{Token: token.Token{Literal: "10"}, Value: 10},
	}
	if got, want := a.String(), "x = 10;"; got != want {
		t.Errorf("Assign.String() = %q, want %q", got, want)
	}
}

func TestIfString(t *testing.T) {
	ifStmt := &ast.If{
		Cond: &ast.BoolLit{Token: token.Token{Literal: "true"}, Value: true},
		Then: &ast.BlockStatement{
			Statements: []ast.Statement{
				&ast.Print{Value: &ast.IntLit{Token: token.Token{Literal: "1"}, Value: 1}},
			},
		},
	}
	want := "if (true) {\n  print(1);\n}"
	if got := ifStmt.String(); got != want {
		t.Errorf("If.String() (no else) = %q, want %q", got, want)
	}

	ifStmt.Else = &ast.BlockStatement{
		Statements: []ast.Statement{
			&ast.Print{Value: &ast.IntLit{Token: token.Token{Literal: "0"}, Value: 0}},
		},
	}
	want = "if (true) {\n  print(1);\n} else {\n  print(0);\n}"
	if got := ifStmt.String(); got != want {
		t.Errorf("If.String() (with else) = %q, want %q", got, want)
	}
}

func TestWhileString(t *testing.T) {
	w := &ast.While{
		Cond: &ast.BoolLit{Token: token.Token{Literal: "true"}, Value: true},
		Body: &ast.BlockStatement{},
	}
	if got, want := w.String(), "while (true) {\n}"; got != want {
		t.Errorf("While.String() = %q, want %q", got, want)
	}
}

func TestBinaryOpString(t *testing.T) {
	b := &ast.BinaryOp{
		Op:   "+",
		Left: &ast.IntLit{Token: token.Token{Literal: "1"}, Value: 1},
		Right: &ast.BinaryOp{
			Op:    "*",
			Left:  &ast.IntLit{Token: token.Token{Literal: "2"}, Value: 2},
			Right: &ast.IntLit{Token: token.Token{Literal: "3"}, Value: 3},
		},
	}
	if got, want := b.String(), "(1 + (2 * 3))"; got != want {
		t.Errorf("BinaryOp.String() = %q, want %q", got, want)
	}
}

func TestUnaryOpString(t *testing.T) {
	u := &ast.UnaryOp{Op: "-", Operand: &ast.IntLit{Token: token.Token{Literal: "5"}, Value: 5}}
	if got, want := u.String(), "(-5)"; got != want {
		t.Errorf("UnaryOp.String() = %q, want %q", got, want)
	}

	n := &ast.UnaryOp{Op: "!", Operand: &ast.BoolLit{Token: token.Token{Literal: "true"}, Value: true}}
	if got, want := n.String(), "(!true)"; got != want {
		t.Errorf("UnaryOp.String() = %q, want %q", got, want)
	}
}

func TestExprTypeDefaultsToUnknownAndIsSettable(t *testing.T) {
	lit := &ast.IntLit{Token: token.Token{Literal: "5"}, Value: 5}
	if lit.ExprType() != ast.Unknown {
		t.Fatalf("new expression should default to Unknown, got %v", lit.ExprType())
	}
	lit.SetType(ast.Int)
	if lit.ExprType() != ast.Int {
		t.Fatalf("SetType(Int) did not stick, got %v", lit.ExprType())
	}
}

func TestVarRefString(t *testing.T) {
	vr := &ast.VarRef{Name: "count", Mangled: "count$1$2"}
	if got, want := vr.String(), "count"; got != want {
		t.Errorf("VarRef.String() = %q, want %q (should render source name, not mangled)", got, want)
	}
}

func TestProgramString(t *testing.T) {
	prog := &ast.Program{
		Statements: []ast.Statement{
			&ast.VarDecl{DeclType: ast.Int, Name: "x", Value: &ast.IntLit{Token: token.Token{Literal: "1"}, Value: 1}},
			&ast.Print{Value: &ast.VarRef{Name: "x"}},
		},
	}
	want := "int x = 1;print(x);"
	if got := prog.String(); got != want {
		t.Errorf("Program.String() = %q, want %q", got, want)
	}
}
