package bytecode

import "testing"

func TestMakeAndReadOperands(t *testing.T) {
	ins := Make(OpConst, 65534)
	if len(ins) != 3 {
		t.Fatalf("expected instruction length 3, got %d", len(ins))
	}
	if Opcode(ins[0]) != OpConst {
		t.Fatalf("expected OpConst, got %d", ins[0])
	}

	def, err := Lookup(byte(OpConst))
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}
	operands, n := ReadOperands(def, Instructions(ins[1:]))
	if n != 2 || operands[0] != 65534 {
		t.Fatalf("expected operand 65534, got %v (read %d bytes)", operands, n)
	}
}

func TestInstructionsString(t *testing.T) {
	instructions := []Instructions{
		Make(OpConst, 1),
		Make(OpConst, 2),
		Make(OpAdd),
		Make(OpStore, 0),
	}

	var concatted Instructions
	for _, ins := range instructions {
		concatted = append(concatted, ins...)
	}

	expected := `0000 OpConst 1
0003 OpConst 2
0006 OpAdd
0007 OpStore 0
`
	if concatted.String() != expected {
		t.Fatalf("instructions wrongly formatted.\nwant=%q\ngot=%q", expected, concatted.String())
	}
}

func TestLookupUndefinedOpcode(t *testing.T) {
	if _, err := Lookup(255); err == nil {
		t.Fatal("expected an error for an undefined opcode")
	}
}
