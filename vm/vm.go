// Package vm implements TinyLang's runtime: a stack-based virtual
// machine that executes the bytecode the compiler pipeline produces.
//
// The VM holds an operand stack and a single flat map[string]int32
// variable environment keyed by name-pool entries — both declared
// TinyLang variables (under their analyzer-mangled names) and
// compiler-generated temporaries live in the same map. Booleans are
// represented as the ints 0 and 1 throughout; print always writes the
// underlying integer.
package vm

import (
	"fmt"
	"io"

	"github.com/dr8co/tinylang/bytecode"
	"github.com/dr8co/tinylang/errs"
)

// VM executes a single compiled TinyLang program. It is not safe for
// concurrent use, and is meant to be run once.
type VM struct {
	instructions bytecode.Instructions
	constants    []int32
	names        []string

	stack Stack
	vars  map[string]int32

	out   io.Writer
	debug bool
}

// Option configures a VM.
type Option func(*VM)

// WithOutput directs PRINT output to w instead of the default io.Discard.
func WithOutput(w io.Writer) Option {
	return func(vm *VM) { vm.out = w }
}

// WithDebug enables a disassembly trace written to the VM's output as
// each instruction executes.
func WithDebug(debug bool) Option {
	return func(vm *VM) { vm.debug = debug }
}

// New creates a VM ready to run the given compiled program.
func New(bc *bytecode.Bytecode, opts ...Option) *VM {
	vm := &VM{
		instructions: bc.Instructions,
		constants:    bc.Constants,
		names:        bc.Names,
		vars:         make(map[string]int32),
		out:          io.Discard,
	}
	for _, opt := range opts {
		opt(vm)
	}
	return vm
}

// Run executes the program from the start of its instruction stream
// until OpHalt. It returns an *errs.RuntimeError if it hits a VM
// invariant violation, which should never happen for bytecode the
// compiler pipeline produced.
func (vm *VM) Run() error {
	pc := 0

	for pc < len(vm.instructions) {
		op := bytecode.Opcode(vm.instructions[pc])

		if vm.debug {
			if def, err := bytecode.Lookup(byte(op)); err == nil {
				operands, _ := bytecode.ReadOperands(def, vm.instructions[pc+1:])
				_, _ = fmt.Fprintf(vm.out, "%04d %s %v\n", pc, def.Name, operands)
			}
		}

		switch op {
		case bytecode.OpHalt:
			return nil

		case bytecode.OpConst:
			idx := bytecode.ReadUint16(vm.instructions[pc+1:])
			if int(idx) >= len(vm.constants) {
				return &errs.RuntimeError{Message: fmt.Sprintf("constant index %d out of range", idx)}
			}
			vm.stack.push(vm.constants[idx])
			pc += 3

		case bytecode.OpLoad:
			idx := bytecode.ReadUint16(vm.instructions[pc+1:])
			name, err := vm.nameAt(idx)
			if err != nil {
				return err
			}
			vm.stack.push(vm.vars[name])
			pc += 3

		case bytecode.OpStore:
			idx := bytecode.ReadUint16(vm.instructions[pc+1:])
			name, err := vm.nameAt(idx)
			if err != nil {
				return err
			}
			value, err := vm.stack.pop()
			if err != nil {
				return err
			}
			vm.vars[name] = value
			pc += 3

		case bytecode.OpAdd, bytecode.OpSub, bytecode.OpMul, bytecode.OpDiv, bytecode.OpMod,
			bytecode.OpLt, bytecode.OpGt, bytecode.OpLte, bytecode.OpGte, bytecode.OpEq, bytecode.OpNeq,
			bytecode.OpAnd, bytecode.OpOr:
			if err := vm.execBinary(op); err != nil {
				return err
			}
			pc++

		case bytecode.OpNeg:
			v, err := vm.stack.pop()
			if err != nil {
				return err
			}
			vm.stack.push(-v)
			pc++

		case bytecode.OpNot:
			v, err := vm.stack.pop()
			if err != nil {
				return err
			}
			vm.stack.push(boolToInt(v == 0))
			pc++

		case bytecode.OpJump:
			target := bytecode.ReadUint16(vm.instructions[pc+1:])
			if int(target) > len(vm.instructions) {
				return &errs.RuntimeError{Message: fmt.Sprintf("jump target %d out of range", target)}
			}
			pc = int(target)

		case bytecode.OpJumpIfFalse:
			target := bytecode.ReadUint16(vm.instructions[pc+1:])
			if int(target) > len(vm.instructions) {
				return &errs.RuntimeError{Message: fmt.Sprintf("jump target %d out of range", target)}
			}
			cond, err := vm.stack.pop()
			if err != nil {
				return err
			}
			if cond == 0 {
				pc = int(target)
			} else {
				pc += 3
			}

		case bytecode.OpPrint:
			v, err := vm.stack.pop()
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(vm.out, v)
			pc++

		default:
			return &errs.RuntimeError{Message: fmt.Sprintf("unknown opcode %d at pc %d", op, pc)}
		}
	}

	return nil
}

func (vm *VM) nameAt(idx uint16) (string, error) {
	if int(idx) >= len(vm.names) {
		return "", &errs.RuntimeError{Message: fmt.Sprintf("name index %d out of range", idx)}
	}
	return vm.names[idx], nil
}

func (vm *VM) execBinary(op bytecode.Opcode) error {
	b, err := vm.stack.pop()
	if err != nil {
		return err
	}
	a, err := vm.stack.pop()
	if err != nil {
		return err
	}

	switch op {
	case bytecode.OpAdd:
		vm.stack.push(a + b)
	case bytecode.OpSub:
		vm.stack.push(a - b)
	case bytecode.OpMul:
		vm.stack.push(a * b)
	case bytecode.OpDiv:
		vm.stack.push(floorDiv(a, b))
	case bytecode.OpMod:
		vm.stack.push(floorMod(a, b))
	case bytecode.OpLt:
		vm.stack.push(boolToInt(a < b))
	case bytecode.OpGt:
		vm.stack.push(boolToInt(a > b))
	case bytecode.OpLte:
		vm.stack.push(boolToInt(a <= b))
	case bytecode.OpGte:
		vm.stack.push(boolToInt(a >= b))
	case bytecode.OpEq:
		vm.stack.push(boolToInt(a == b))
	case bytecode.OpNeq:
		vm.stack.push(boolToInt(a != b))
	case bytecode.OpAnd:
		vm.stack.push(boolToInt(a != 0 && b != 0))
	case bytecode.OpOr:
		vm.stack.push(boolToInt(a != 0 || b != 0))
	}
	return nil
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// floorDiv and floorMod give division and modulo the sign of the
// divisor (floored division), and define division/modulo by zero as 0
// rather than trapping, matching TinyLang's arithmetic semantics.
func floorDiv(x, y int32) int32 {
	if y == 0 {
		return 0
	}
	q := x / y
	r := x % y
	if r != 0 && (r < 0) != (y < 0) {
		q--
	}
	return q
}

func floorMod(x, y int32) int32 {
	if y == 0 {
		return 0
	}
	r := x % y
	if r != 0 && (r < 0) != (y < 0) {
		r += y
	}
	return r
}
