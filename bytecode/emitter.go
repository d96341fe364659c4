package bytecode

import (
	"encoding/binary"
	"strconv"

	"github.com/dr8co/tinylang/errs"
	"github.com/dr8co/tinylang/ir"
)

// Bytecode is the complete output of emission: the instruction stream
// plus the constant and name pools it references.
type Bytecode struct {
	Instructions Instructions
	Constants    []int32

	// Names holds every variable and compiler-generated temporary
	// referenced by the program; OpLoad/OpStore operands index into it.
	// The VM keys its flat variable environment by these same strings.
	Names []string
}

var binaryOpcodes = map[ir.Op]Opcode{
	ir.ADD: OpAdd,
	ir.SUB: OpSub,
	ir.MUL: OpMul,
	ir.DIV: OpDiv,
	ir.MOD: OpMod,
	ir.LT:  OpLt,
	ir.GT:  OpGt,
	ir.LTE: OpLte,
	ir.GTE: OpGte,
	ir.EQ:  OpEq,
	ir.NEQ: OpNeq,
	ir.AND: OpAnd,
	ir.OR:  OpOr,
}

type jumpFixup struct {
	pos   int // byte offset of the operand to patch
	label string
}

// emitter turns optimized three-address code into a flat instruction
// stream, a two-pass process: instructions are emitted linearly with
// placeholder jump targets while label positions are recorded, then
// every recorded jump is patched with the resolved program counter.
type emitter struct {
	ins Instructions

	constants  []int32
	constIndex map[int32]int

	names     []string
	nameIndex map[string]int

	labels  map[string]int
	fixups  []jumpFixup
}

// Emit compiles a TAC instruction list into Bytecode. It returns an
// *errs.OptimizerError if a GOTO/IF_FALSE targets a label that does not
// exist in the input — a condition that should never occur for TAC
// produced by [ir.Generate] and [ir.Optimize].
func Emit(instrs []*ir.Instruction) (*Bytecode, error) {
	e := &emitter{
		constIndex: make(map[int32]int),
		nameIndex:  make(map[string]int),
		labels:     make(map[string]int),
	}

	for _, instr := range instrs {
		e.emitOne(instr)
	}
	e.append(OpHalt)

	for _, fix := range e.fixups {
		pc, ok := e.labels[fix.label]
		if !ok {
			return nil, &errs.OptimizerError{
				Pass:    "emit",
				Message: "jump target \"" + fix.label + "\" has no matching label",
			}
		}
		binary.BigEndian.PutUint16(e.ins[fix.pos:], uint16(pc))
	}

	return &Bytecode{Instructions: e.ins, Constants: e.constants, Names: e.names}, nil
}

func (e *emitter) emitOne(instr *ir.Instruction) {
	switch instr.Op {
	case ir.LABEL:
		e.labels[instr.Dst] = len(e.ins)
	case ir.GOTO:
		e.appendWithOperand(OpJump, 0)
		e.recordFixup(instr.Dst)
	case ir.IF_FALSE:
		e.loadOperand(instr.Arg1)
		e.appendWithOperand(OpJumpIfFalse, 0)
		e.recordFixup(instr.Dst)
	case ir.PRINT:
		e.loadOperand(instr.Arg1)
		e.append(OpPrint)
	case ir.ASSIGN, ir.COPY:
		e.loadOperand(instr.Arg1)
		e.appendStore(instr.Dst)
	case ir.NEG:
		e.loadOperand(instr.Arg1)
		e.append(OpNeg)
		e.appendStore(instr.Dst)
	case ir.NOT:
		e.loadOperand(instr.Arg1)
		e.append(OpNot)
		e.appendStore(instr.Dst)
	default:
		e.loadOperand(instr.Arg1)
		e.loadOperand(instr.Arg2)
		e.append(binaryOpcodes[instr.Op])
		e.appendStore(instr.Dst)
	}
}

func (e *emitter) loadOperand(operand string) {
	if ir.IsLiteral(operand) {
		idx := e.addConstant(parseLiteralOperand(operand))
		e.appendWithOperand(OpConst, idx)
		return
	}
	idx := e.addName(operand)
	e.appendWithOperand(OpLoad, idx)
}

func parseLiteralOperand(operand string) int32 {
	switch operand {
	case "#true":
		return 1
	case "#false":
		return 0
	default:
		n, _ := strconv.ParseInt(operand[1:], 10, 64)
		return int32(n)
	}
}

func (e *emitter) appendStore(name string) {
	idx := e.addName(name)
	e.appendWithOperand(OpStore, idx)
}

func (e *emitter) append(op Opcode) {
	e.ins = append(e.ins, Make(op)...)
}

func (e *emitter) appendWithOperand(op Opcode, operand int) {
	e.ins = append(e.ins, Make(op, operand)...)
}

func (e *emitter) recordFixup(label string) {
	e.fixups = append(e.fixups, jumpFixup{pos: len(e.ins) - 2, label: label})
}

func (e *emitter) addConstant(v int32) int {
	if idx, ok := e.constIndex[v]; ok {
		return idx
	}
	idx := len(e.constants)
	e.constants = append(e.constants, v)
	e.constIndex[v] = idx
	return idx
}

func (e *emitter) addName(name string) int {
	if idx, ok := e.nameIndex[name]; ok {
		return idx
	}
	idx := len(e.names)
	e.names = append(e.names, name)
	e.nameIndex[name] = idx
	return idx
}
