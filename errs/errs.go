// Package errs defines the structured error types TinyLang's compilation
// and execution pipeline reports.
//
// Four kinds of error exist, one per pipeline stage that can fail:
// [SyntaxError] from the parser, [SemanticError] from the analyzer
// (accumulated rather than fatal), [OptimizerError] from the TAC
// optimizer, and [RuntimeError] from the VM. Only SyntaxError and
// SemanticError are expected during normal use of a rejected program;
// OptimizerError and RuntimeError mark conditions that should never
// occur and indicate a bug in the compiler itself.
package errs

import "fmt"

// SyntaxError reports a malformed token sequence found by the parser.
type SyntaxError struct {
	Line     int
	Column   int
	Expected string
	Found    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %d:%d: expected %s, found %s",
		e.Line, e.Column, e.Expected, e.Found)
}

// SemanticErrorKind classifies a SemanticError.
type SemanticErrorKind int

const (
	// UndeclaredRef marks a reference to a variable that was never declared.
	UndeclaredRef SemanticErrorKind = iota

	// Redeclaration marks a second declaration of a name already bound
	// in the same scope.
	Redeclaration

	// TypeMismatch marks an assignment or initializer whose value type
	// does not match the declared variable type.
	TypeMismatch

	// NonBooleanCondition marks an if/while condition that is not of
	// type bool.
	NonBooleanCondition

	// OperatorTypeMismatch marks an operator applied to operand types it
	// does not accept.
	OperatorTypeMismatch
)

func (k SemanticErrorKind) String() string {
	switch k {
	case UndeclaredRef:
		return "undeclared reference"
	case Redeclaration:
		return "redeclaration"
	case TypeMismatch:
		return "type mismatch"
	case NonBooleanCondition:
		return "non-boolean condition"
	case OperatorTypeMismatch:
		return "operator type mismatch"
	default:
		return "unknown"
	}
}

// SemanticError reports a single static-analysis violation. The
// analyzer accumulates these rather than stopping at the first one, so
// a program can be reported with every defect found in one pass.
type SemanticError struct {
	Line    int
	Column  int
	Kind    SemanticErrorKind
	Message string
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("semantic error at %d:%d: %s: %s", e.Line, e.Column, e.Kind, e.Message)
}

// OptimizerError marks an invariant violation discovered while
// optimizing three-address code. It should never occur for a program
// that passed semantic analysis; its presence signals a bug in the
// optimizer passes, not a bad program.
type OptimizerError struct {
	Pass    string
	Message string
}

func (e *OptimizerError) Error() string {
	return fmt.Sprintf("optimizer error in %s pass: %s", e.Pass, e.Message)
}

// RuntimeError marks a VM invariant violation: an empty-stack pop, a
// jump target outside the instruction stream, a read from an undefined
// variable slot. These conditions are unreachable for bytecode produced
// from a program that passed semantic analysis; a RuntimeError means
// the compiler emitted bad bytecode. Division and modulo by zero are
// NOT reported this way — they are defined to evaluate to 0.
type RuntimeError struct {
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error: %s", e.Message)
}
