package semantics

import (
	"fmt"

	"github.com/dr8co/tinylang/ast"
	"github.com/dr8co/tinylang/errs"
)

// Analyzer walks a parsed program, resolving variable references,
// checking types, and annotating the AST with the results: every
// Expression's ExprType is set, and every VarDecl/Assign/VarRef gets
// its Mangled runtime name filled in.
type Analyzer struct {
	symbols *SymbolTable
	errors  []*errs.SemanticError
}

// NewAnalyzer creates an Analyzer ready to check a program.
func NewAnalyzer() *Analyzer {
	return &Analyzer{symbols: NewSymbolTable()}
}

// Analyze checks program in place and returns every semantic error
// found, in the order encountered. A nil or empty result means the
// program is well-formed and safe to hand to the TAC generator.
func (a *Analyzer) Analyze(program *ast.Program) []*errs.SemanticError {
	for _, stmt := range program.Statements {
		a.analyzeStatement(stmt)
	}
	return a.errors
}

func (a *Analyzer) addError(line, col int, kind errs.SemanticErrorKind, format string, args ...any) {
	a.errors = append(a.errors, &errs.SemanticError{
		Line:    line,
		Column:  col,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	})
}

func astType(t Type) ast.Type {
	switch t {
	case Int:
		return ast.Int
	case Bool:
		return ast.Bool
	default:
		return ast.Unknown
	}
}

func fromASTType(t ast.Type) Type {
	switch t {
	case ast.Int:
		return Int
	case ast.Bool:
		return Bool
	default:
		return Unknown
	}
}

func (a *Analyzer) analyzeStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		a.analyzeVarDecl(s)
	case *ast.Assign:
		a.analyzeAssign(s)
	case *ast.If:
		a.analyzeIf(s)
	case *ast.While:
		a.analyzeWhile(s)
	case *ast.Print:
		a.analyzeExpr(s.Value)
	case *ast.BlockStatement:
		a.symbols.Enter()
		for _, inner := range s.Statements {
			a.analyzeStatement(inner)
		}
		a.symbols.Leave()
	}
}

func (a *Analyzer) analyzeVarDecl(vd *ast.VarDecl) {
	declType := fromASTType(vd.DeclType)

	var valueType Type
	if vd.Value != nil {
		a.analyzeExpr(vd.Value)
		valueType = fromASTType(vd.Value.ExprType())
		if valueType != Unknown && valueType != declType {
			a.addError(vd.Token.Line, vd.Token.Column, errs.TypeMismatch,
				"cannot initialize %s %q with %s value", astType(declType), vd.Name, astType(valueType))
		}
	}

	sym, fresh := a.symbols.Declare(vd.Name, declType)
	if !fresh {
		a.addError(vd.Token.Line, vd.Token.Column, errs.Redeclaration,
			"%q is already declared in this scope", vd.Name)
	}
	vd.Mangled = sym.Mangled
}

func (a *Analyzer) analyzeAssign(as *ast.Assign) {
	a.analyzeExpr(as.Value)

	sym, ok := a.symbols.Resolve(as.Name)
	if !ok {
		a.addError(as.Token.Line, as.Token.Column, errs.UndeclaredRef,
			"%q is not declared", as.Name)
		return
	}

	valueType := fromASTType(as.Value.ExprType())
	if valueType != Unknown && valueType != sym.Type {
		a.addError(as.Token.Line, as.Token.Column, errs.TypeMismatch,
			"cannot assign %s value to %s %q", astType(valueType), astType(sym.Type), as.Name)
	}
	as.Mangled = sym.Mangled
}

func (a *Analyzer) analyzeIf(ifs *ast.If) {
	a.analyzeExpr(ifs.Cond)
	a.checkBoolean(ifs.Cond, ifs.Token.Line, ifs.Token.Column)

	a.analyzeStatement(ifs.Then)
	if ifs.Else != nil {
		a.analyzeStatement(ifs.Else)
	}
}

func (a *Analyzer) analyzeWhile(w *ast.While) {
	a.analyzeExpr(w.Cond)
	a.checkBoolean(w.Cond, w.Token.Line, w.Token.Column)
	a.analyzeStatement(w.Body)
}

func (a *Analyzer) checkBoolean(cond ast.Expression, line, col int) {
	if t := fromASTType(cond.ExprType()); t != Unknown && t != Bool {
		a.addError(line, col, errs.NonBooleanCondition,
			"condition must be bool, got %s", astType(t))
	}
}

func (a *Analyzer) analyzeExpr(expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.IntLit:
		e.SetType(ast.Int)
	case *ast.BoolLit:
		e.SetType(ast.Bool)
	case *ast.VarRef:
		sym, ok := a.symbols.Resolve(e.Name)
		if !ok {
			a.addError(e.Token.Line, e.Token.Column, errs.UndeclaredRef,
				"%q is not declared", e.Name)
			e.SetType(ast.Unknown)
			return
		}
		e.Mangled = sym.Mangled
		e.SetType(astType(sym.Type))
	case *ast.UnaryOp:
		a.analyzeUnary(e)
	case *ast.BinaryOp:
		a.analyzeBinary(e)
	}
}

func (a *Analyzer) analyzeUnary(u *ast.UnaryOp) {
	a.analyzeExpr(u.Operand)
	operandType := fromASTType(u.Operand.ExprType())

	switch u.Op {
	case "-":
		if operandType != Unknown && operandType != Int {
			a.addError(u.Token.Line, u.Token.Column, errs.OperatorTypeMismatch,
				"unary - requires int, got %s", astType(operandType))
		}
		u.SetType(ast.Int)
	case "!":
		if operandType != Unknown && operandType != Bool {
			a.addError(u.Token.Line, u.Token.Column, errs.OperatorTypeMismatch,
				"unary ! requires bool, got %s", astType(operandType))
		}
		u.SetType(ast.Bool)
	default:
		u.SetType(ast.Unknown)
	}
}

var arithmeticOps = map[string]bool{"+": true, "-": true, "*": true, "/": true, "%": true}
var comparisonOps = map[string]bool{"<": true, ">": true, "<=": true, ">=": true}
var equalityOps = map[string]bool{"==": true, "!=": true}
var logicalOps = map[string]bool{"&&": true, "||": true}

func (a *Analyzer) analyzeBinary(b *ast.BinaryOp) {
	a.analyzeExpr(b.Left)
	a.analyzeExpr(b.Right)

	leftType := fromASTType(b.Left.ExprType())
	rightType := fromASTType(b.Right.ExprType())

	mismatch := func() {
		a.addError(b.Token.Line, b.Token.Column, errs.OperatorTypeMismatch,
			"operator %s does not accept %s and %s", b.Op, astType(leftType), astType(rightType))
	}

	switch {
	case arithmeticOps[b.Op]:
		if leftType != Unknown && rightType != Unknown && (leftType != Int || rightType != Int) {
			mismatch()
		}
		b.SetType(ast.Int)
	case comparisonOps[b.Op]:
		if leftType != Unknown && rightType != Unknown && (leftType != Int || rightType != Int) {
			mismatch()
		}
		b.SetType(ast.Bool)
	case equalityOps[b.Op]:
		if leftType != Unknown && rightType != Unknown && leftType != rightType {
			mismatch()
		}
		b.SetType(ast.Bool)
	case logicalOps[b.Op]:
		if leftType != Unknown && rightType != Unknown && (leftType != Bool || rightType != Bool) {
			mismatch()
		}
		b.SetType(ast.Bool)
	default:
		b.SetType(ast.Unknown)
	}
}
