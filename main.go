// tinylang compiles TinyLang source code into bytecode and runs it on a
// stack-based virtual machine.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dr8co/tinylang/bytecode"
	"github.com/dr8co/tinylang/errs"
	"github.com/dr8co/tinylang/ir"
	"github.com/dr8co/tinylang/lexer"
	"github.com/dr8co/tinylang/parser"
	"github.com/dr8co/tinylang/repl"
	"github.com/dr8co/tinylang/semantics"
	"github.com/dr8co/tinylang/vm"
)

const version = "0.1.0"

// printUsage displays custom usage information.
func printUsage() {
	_, _ = fmt.Fprintf(os.Stderr, `TinyLang Compiler v%s

USAGE:
    %s [OPTIONS]

DESCRIPTION:
    tinylang compiles TinyLang source code into bytecode and runs it on
    a stack-based virtual machine. Without any flags, it starts an
    interactive REPL (Read-Eval-Print-Loop).

OPTIONS:
    -f, --file <path>       Execute a TinyLang script file
    -e, --eval <code>       Evaluate a TinyLang snippet and run it
    -d, --debug             Print the AST, TAC, and bytecode disassembly
    -v, --version           Show version information
    -h, --help              Show this help message

EXAMPLES:
    # Start interactive REPL
    %s

    # Execute a script file
    %s -f program.tiny
    %s --file program.tiny

    # Evaluate a snippet
    %s -e "int x = 5; print(x * 2);"

    # Execute with debug mode
    %s -f program.tiny -d

`, version, os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0])
}

func main() {
	flag.Usage = printUsage

	fileFlag := flag.String("file", "", "Execute a TinyLang script file")
	evalFlag := flag.String("eval", "", "Evaluate a TinyLang snippet and run it")
	debugFlag := flag.Bool("debug", false, "Print the AST, TAC, and bytecode disassembly")
	versionFlag := flag.Bool("version", false, "Show version information")

	flag.StringVar(fileFlag, "f", "", "Execute a TinyLang script file")
	flag.StringVar(evalFlag, "e", "", "Evaluate a TinyLang snippet and run it")
	flag.BoolVar(debugFlag, "d", false, "Print the AST, TAC, and bytecode disassembly")
	flag.BoolVar(versionFlag, "v", false, "Show version information")

	flag.Parse()

	if *versionFlag {
		fmt.Printf("TinyLang Compiler v%s\n", version)
		return
	}

	if *fileFlag != "" {
		executeFile(*fileFlag, *debugFlag)
		return
	}

	if *evalFlag != "" {
		executeSource(*evalFlag, *debugFlag)
		return
	}

	fmt.Println("Welcome to the TinyLang REPL!")
	fmt.Println("Type TinyLang statements followed by Enter. Ctrl+C to exit.")

	repl.Start(repl.Options{Debug: *debugFlag})
}

// executeFile reads and executes a TinyLang script file.
func executeFile(filename string, debug bool) {
	cleaned := filepath.Clean(filename)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		fmt.Printf("Error getting absolute path: %s\n", err)
		os.Exit(1)
	}

	//nolint:gosec // the path comes from a trusted command-line flag
	content, err := os.ReadFile(absolute)
	if err != nil {
		fmt.Printf("Error reading file: %s\n", err)
		os.Exit(1)
	}

	executeSource(string(content), debug)
}

// executeSource compiles and runs one TinyLang program, printing
// diagnostics and exiting non-zero on any pipeline failure.
func executeSource(source string, debug bool) {
	p := parser.New(lexer.New(source))
	program, err := p.ParseProgram()
	if err != nil {
		var syn *errs.SyntaxError
		if asSyntaxError(err, &syn) {
			fmt.Printf("Syntax error at %d:%d: expected %s, found %q\n", syn.Line, syn.Column, syn.Expected, syn.Found)
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}

	if debug {
		fmt.Println("--- AST ---")
		fmt.Println(program.String())
	}

	analyzer := semantics.NewAnalyzer()
	if semErrors := analyzer.Analyze(program); len(semErrors) != 0 {
		fmt.Println("Semantic errors:")
		for _, se := range semErrors {
			fmt.Printf("\t%s\n", se)
		}
		os.Exit(1)
	}

	instrs := ir.Generate(program)
	optimized, err := ir.Optimize(instrs)
	if err != nil {
		fmt.Printf("Internal compiler error: %s\n", err)
		os.Exit(1)
	}

	if debug {
		fmt.Println("--- TAC ---")
		for _, instr := range optimized {
			fmt.Println(instr)
		}
	}

	bc, err := bytecode.Emit(optimized)
	if err != nil {
		fmt.Printf("Internal compiler error: %s\n", err)
		os.Exit(1)
	}

	if debug {
		fmt.Println("--- Bytecode ---")
		fmt.Print(bc.Instructions.String())
	}

	machine := vm.New(bc, vm.WithOutput(os.Stdout), vm.WithDebug(false))
	if err := machine.Run(); err != nil {
		fmt.Printf("Runtime error: %s\n", err)
		os.Exit(1)
	}
}

func asSyntaxError(err error, target **errs.SyntaxError) bool {
	se, ok := err.(*errs.SyntaxError)
	if ok {
		*target = se
	}
	return ok
}
