// Package repl implements the Read-Eval-Print Loop for the TinyLang
// programming language.
//
// Unlike a REPL that evaluates every line the moment it's entered,
// TinyLang's REPL buffers lines and only compiles and runs them when the
// user types the "run" command. This matches the interactive compiler
// shipped alongside TinyLang's reference implementation: statements are
// accumulated, and "run" compiles the buffer through the full pipeline
// (lexer, parser, semantic analyzer, TAC generator and optimizer,
// bytecode emitter) before handing it to the VM. "clear" empties the
// buffer and "help" lists the available commands.
//
// The interface itself uses the Charm libraries (Bubbletea, Bubbles,
// and Lipgloss) for a styled terminal UI with syntax highlighting and a
// scrolling history of past runs.
package repl

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dr8co/tinylang/bytecode"
	"github.com/dr8co/tinylang/errs"
	"github.com/dr8co/tinylang/ir"
	"github.com/dr8co/tinylang/lexer"
	"github.com/dr8co/tinylang/parser"
	"github.com/dr8co/tinylang/semantics"
	"github.com/dr8co/tinylang/token"
	"github.com/dr8co/tinylang/vm"
)

const (
	// Prompt is shown while the line buffer is empty.
	Prompt = ">>> "

	// ContPrompt is shown once one or more lines are buffered.
	ContPrompt = "... "
)

// Options configures the REPL.
type Options struct {
	// Debug prints the AST, TAC, and bytecode disassembly before a
	// buffer's output whenever it is run.
	Debug bool
}

// Start initializes and runs the REPL with the given options.
func Start(options Options) {
	p := tea.NewProgram(initialModel(options))
	if _, err := p.Run(); err != nil {
		fmt.Println("Error running program:", err)
	}
}

// Styling
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F87"))

	syntaxErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FF5F87")).
				Bold(true)

	semanticErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFAF00")).
				Bold(true)

	compileErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FF79C6")).
				Bold(true)

	runtimeErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FF8700")).
				Bold(true)

	historyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#767676"))

	debugStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6272A4"))

	keywordStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF79C6")).
			Bold(true)

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8BE9FD")).
			Bold(true)

	identifierStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#F8F8F2"))

	literalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F1FA8C"))

	operatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5555"))

	delimiterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#BD93F9"))
)

// ErrorType classifies which pipeline stage produced a failed run, so
// the result can be styled and worded accordingly.
type ErrorType int

const (
	NoError ErrorType = iota
	SyntaxErr
	SemanticErr
	CompileErr
	RuntimeErr
)

// evalResultMsg is delivered once a buffered run finishes.
type evalResultMsg struct {
	output    string
	isError   bool
	errorType ErrorType
	elapsed   time.Duration
}

// historyEntry is a single completed interaction: either a buffered
// program that was run, or a plain REPL command like "help" or "clear".
type historyEntry struct {
	lines          []string
	output         string
	isError        bool
	errorType      ErrorType
	evaluationTime time.Duration
}

type model struct {
	textInput textinput.Model
	spinner   spinner.Model
	history   []historyEntry

	buffer     []string
	lastRun    []string
	evaluating bool
	options    Options
}

func initialModel(options Options) model {
	ti := textinput.New()
	ti.Placeholder = "int x = 5;"
	ti.Focus()
	ti.Width = 80
	ti.Prompt = promptStyle.Render(Prompt)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF79C6"))

	return model{
		textInput: ti,
		spinner:   s,
		options:   options,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// evalCmd compiles and runs a buffered program asynchronously through
// the full TinyLang pipeline.
func evalCmd(source string, debug bool) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()

		var out strings.Builder

		p := parser.New(lexer.New(source))
		program, err := p.ParseProgram()
		if err != nil {
			msg := err.Error()
			if syn, ok := err.(*errs.SyntaxError); ok {
				msg = fmt.Sprintf("Syntax error at %d:%d: expected %s, found %q", syn.Line, syn.Column, syn.Expected, syn.Found)
			}
			return evalResultMsg{output: msg, isError: true, errorType: SyntaxErr, elapsed: time.Since(start)}
		}

		if debug {
			out.WriteString("--- AST ---\n")
			out.WriteString(program.String())
			out.WriteString("\n")
		}

		semErrors := semantics.NewAnalyzer().Analyze(program)
		if len(semErrors) != 0 {
			var b strings.Builder
			b.WriteString("Semantic errors:\n")
			for _, se := range semErrors {
				fmt.Fprintf(&b, "  %s\n", se)
			}
			return evalResultMsg{output: b.String(), isError: true, errorType: SemanticErr, elapsed: time.Since(start)}
		}

		instrs := ir.Generate(program)
		optimized, err := ir.Optimize(instrs)
		if err != nil {
			return evalResultMsg{
				output:    fmt.Sprintf("Internal compiler error: %s", err),
				isError:   true,
				errorType: CompileErr,
				elapsed:   time.Since(start),
			}
		}

		if debug {
			out.WriteString("--- TAC ---\n")
			for _, instr := range optimized {
				out.WriteString(instr.String())
				out.WriteString("\n")
			}
		}

		bc, err := bytecode.Emit(optimized)
		if err != nil {
			return evalResultMsg{
				output:    fmt.Sprintf("Internal compiler error: %s", err),
				isError:   true,
				errorType: CompileErr,
				elapsed:   time.Since(start),
			}
		}

		if debug {
			out.WriteString("--- Bytecode ---\n")
			out.WriteString(bc.Instructions.String())
		}

		machine := vm.New(bc, vm.WithOutput(&out))
		if err := machine.Run(); err != nil {
			out.WriteString(fmt.Sprintf("Runtime error: %s\n", err))
			return evalResultMsg{output: out.String(), isError: true, errorType: RuntimeErr, elapsed: time.Since(start)}
		}

		return evalResultMsg{output: out.String(), elapsed: time.Since(start)}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.evaluating {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case evalResultMsg:
		m.evaluating = false
		m.history = append(m.history, historyEntry{
			lines:          m.lastRun,
			output:         msg.output,
			isError:        msg.isError,
			errorType:      msg.errorType,
			evaluationTime: msg.elapsed,
		})
		m.lastRun = nil
		return m, nil

	case tea.KeyMsg:
		if m.evaluating && msg.Type != tea.KeyCtrlC {
			return m, m.spinner.Tick
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyCtrlD:
			return m, tea.Quit
		case tea.KeyEnter:
			line := m.textInput.Value()
			m.textInput.SetValue("")

			switch strings.TrimSpace(line) {
			case "exit":
				return m, tea.Quit
			case "help":
				m.history = append(m.history, historyEntry{
					lines: []string{line},
					output: "Commands:\n" +
						"  run   - Compile and run the buffered program\n" +
						"  clear - Clear the buffer\n" +
						"  help  - Show this help\n" +
						"  exit  - Exit the REPL\n",
				})
				return m, nil
			case "clear":
				m.buffer = nil
				m.history = append(m.history, historyEntry{lines: []string{line}, output: "Buffer cleared"})
				return m, nil
			case "run":
				if len(m.buffer) == 0 {
					m.history = append(m.history, historyEntry{lines: []string{line}, output: "Buffer is empty"})
					return m, nil
				}
				source := strings.Join(m.buffer, "\n")
				m.lastRun = m.buffer
				m.buffer = nil
				m.evaluating = true
				return m, evalCmd(source, m.options.Debug)
			default:
				m.buffer = append(m.buffer, line)
				return m, nil
			}
		}
	}

	if !m.evaluating {
		m.textInput, cmd = m.textInput.Update(msg)
	}

	if m.evaluating {
		return m, m.spinner.Tick
	}

	return m, cmd
}

func (m model) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" TinyLang REPL "))
	s.WriteString("\n\n")

	for _, entry := range m.history {
		for i, line := range entry.lines {
			if i == 0 {
				s.WriteString(promptStyle.Render(Prompt))
			} else {
				s.WriteString(promptStyle.Render(ContPrompt))
			}
			s.WriteString(highlightCode(line))
			s.WriteString("\n")
		}

		style := resultStyle
		if entry.isError {
			switch entry.errorType {
			case SyntaxErr:
				style = syntaxErrorStyle
			case SemanticErr:
				style = semanticErrorStyle
			case CompileErr:
				style = compileErrorStyle
			case RuntimeErr:
				style = runtimeErrorStyle
			default:
				style = errorStyle
			}
		}

		for _, part := range strings.Split(strings.TrimRight(entry.output, "\n"), "\n") {
			if strings.HasPrefix(part, "---") {
				s.WriteString(debugStyle.Render(part))
			} else {
				s.WriteString(style.Render(part))
			}
			s.WriteString("\n")
		}

		if entry.evaluationTime > 10*time.Millisecond {
			s.WriteString(historyStyle.Render(fmt.Sprintf(" (%.3fs)", entry.evaluationTime.Seconds())))
			s.WriteString("\n")
		}

		s.WriteString("\n")
	}

	if m.evaluating {
		s.WriteString(promptStyle.Render(ContPrompt))
		s.WriteString(m.spinner.View())
		s.WriteString(" compiling and running...\n\n")
	}

	if !m.evaluating {
		if len(m.buffer) > 0 {
			s.WriteString(historyStyle.Render(fmt.Sprintf("buffer: %d line(s) — type \"run\" to execute, \"clear\" to discard\n", len(m.buffer))))
			m.textInput.Prompt = promptStyle.Render(ContPrompt)
		} else {
			m.textInput.Prompt = promptStyle.Render(Prompt)
		}
		s.WriteString(m.textInput.View())
		s.WriteString("\n")
	}

	s.WriteString(historyStyle.Render("\nCommands: run | clear | help | exit  (Esc/Ctrl+C/Ctrl+D also exit)"))

	return s.String()
}

// highlightCode applies syntax highlighting to a single line of
// TinyLang source, used while rendering buffered input in the history.
func highlightCode(code string) string {
	l := lexer.New(code)
	var s strings.Builder

	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			break
		}

		switch tok.Type {
		case token.IF, token.ELSE, token.WHILE, token.PRINT:
			s.WriteString(keywordStyle.Render(tok.Literal))
		case token.INT_TYPE, token.BOOL_TYPE, token.TRUE, token.FALSE:
			s.WriteString(typeStyle.Render(tok.Literal))
		case token.IDENT:
			s.WriteString(identifierStyle.Render(tok.Literal))
		case token.INT:
			s.WriteString(literalStyle.Render(tok.Literal))
		case token.PLUS, token.MINUS, token.ASTERISK, token.SLASH, token.PERCENT,
			token.LT, token.GT, token.LTE, token.GTE, token.EQ, token.NOT_EQ,
			token.AND, token.OR, token.BANG, token.ASSIGN:
			s.WriteString(operatorStyle.Render(tok.Literal))
		case token.SEMICOLON, token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE, token.COMMA:
			s.WriteString(delimiterStyle.Render(tok.Literal))
		default:
			s.WriteString(tok.Literal)
		}
		s.WriteString(" ")
	}

	return strings.TrimRight(s.String(), " ")
}
