package vm_test

import (
	"strings"
	"testing"

	"github.com/dr8co/tinylang/bytecode"
	"github.com/dr8co/tinylang/ir"
	"github.com/dr8co/tinylang/lexer"
	"github.com/dr8co/tinylang/parser"
	"github.com/dr8co/tinylang/semantics"
	"github.com/dr8co/tinylang/vm"
)

func run(t *testing.T, source string) string {
	t.Helper()

	p := parser.New(lexer.New(source))
	program, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("ParseProgram() error: %v", err)
	}

	if errors := semantics.NewAnalyzer().Analyze(program); len(errors) != 0 {
		t.Fatalf("Analyze() returned errors: %v", errors)
	}

	instrs := ir.Generate(program)
	optimized, err := ir.Optimize(instrs)
	if err != nil {
		t.Fatalf("Optimize() error: %v", err)
	}

	bc, err := bytecode.Emit(optimized)
	if err != nil {
		t.Fatalf("Emit() error: %v", err)
	}

	var out strings.Builder
	machine := vm.New(bc, vm.WithOutput(&out))
	if err := machine.Run(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	return out.String()
}

func TestArithmeticAndPrint(t *testing.T) {
	out := run(t, `int x = 3;
int y = 5;
print(x + y);`)
	if out != "8\n" {
		t.Fatalf("expected \"8\\n\", got %q", out)
	}
}

func TestWhileLoopCountsUp(t *testing.T) {
	out := run(t, `int i = 0;
while (i < 3) {
  print(i);
  i = i + 1;
}`)
	if out != "0\n1\n2\n" {
		t.Fatalf("expected \"0\\n1\\n2\\n\", got %q", out)
	}
}

func TestIfElseBranching(t *testing.T) {
	out := run(t, `int x = 10;
if (x > 5) {
  print(1);
} else {
  print(0);
}`)
	if out != "1\n" {
		t.Fatalf("expected \"1\\n\", got %q", out)
	}
}

func TestBooleanPrintsAsZeroOrOne(t *testing.T) {
	out := run(t, `bool flag = 3 < 5;
print(flag);`)
	if out != "1\n" {
		t.Fatalf("expected \"1\\n\", got %q", out)
	}
}

func TestDivisionByZeroYieldsZero(t *testing.T) {
	out := run(t, `print(5 / 0);`)
	if out != "0\n" {
		t.Fatalf("expected \"0\\n\", got %q", out)
	}
}

func TestModuloByZeroYieldsZero(t *testing.T) {
	out := run(t, `print(5 % 0);`)
	if out != "0\n" {
		t.Fatalf("expected \"0\\n\", got %q", out)
	}
}

func TestFlooredDivisionAndModulo(t *testing.T) {
	out := run(t, `print(-7 / 2);
print(-7 % 2);`)
	if out != "-4\n1\n" {
		t.Fatalf("expected floored division/modulo results, got %q", out)
	}
}

func TestInt32Wraparound(t *testing.T) {
	out := run(t, `int max = 2147483647;
print(max + 1);`)
	if out != "-2147483648\n" {
		t.Fatalf("expected wraparound to INT_MIN, got %q", out)
	}
}

func TestLogicalOperatorsEvaluateBothOperandsStrictly(t *testing.T) {
	out := run(t, `bool a = false;
bool b = true;
print(a && b);
print(a || b);`)
	if out != "0\n1\n" {
		t.Fatalf("expected \"0\\n1\\n\", got %q", out)
	}
}

func TestShadowedVariablesDoNotCollide(t *testing.T) {
	out := run(t, `int x = 1;
if (x < 5) {
  int x = 2;
  print(x);
}
print(x);`)
	if out != "2\n1\n" {
		t.Fatalf("expected shadowed then outer binding, got %q", out)
	}
}

func TestNestedBlockStatement(t *testing.T) {
	out := run(t, `int x = 1;
{
  int y = 2;
  print(x + y);
}`)
	if out != "3\n" {
		t.Fatalf("expected \"3\\n\", got %q", out)
	}
}
