package lexer

import (
	"testing"

	"github.com/dr8co/tinylang/token"
)

// TestNextToken exercises every token class the lexer recognizes.
func TestNextToken(t *testing.T) {
	input := `int x = 10;
bool flag = true;
if (x >= 5) {
    print(x);
} else {
    print(0);
}
while (x < 20) {
    x = x + 1;
}
x % 3;
!flag && false || true;
x <= 9 != 8;
// a comment
x = -x;`

	tests := []struct {
		expectedType    token.Type
		expectedLiteral string
	}{
		{token.INT_TYPE, "int"},
		{token.IDENT, "x"},
		{token.ASSIGN, "="},
		{token.INT, "10"},
		{token.SEMICOLON, ";"},
		{token.BOOL_TYPE, "bool"},
		{token.IDENT, "flag"},
		{token.ASSIGN, "="},
		{token.TRUE, "true"},
		{token.SEMICOLON, ";"},
		{token.IF, "if"},
		{token.LPAREN, "("},
		{token.IDENT, "x"},
		{token.GTE, ">="},
		{token.INT, "5"},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.PRINT, "print"},
		{token.LPAREN, "("},
		{token.IDENT, "x"},
		{token.RPAREN, ")"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.ELSE, "else"},
		{token.LBRACE, "{"},
		{token.PRINT, "print"},
		{token.LPAREN, "("},
		{token.INT, "0"},
		{token.RPAREN, ")"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.WHILE, "while"},
		{token.LPAREN, "("},
		{token.IDENT, "x"},
		{token.LT, "<"},
		{token.INT, "20"},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.IDENT, "x"},
		{token.ASSIGN, "="},
		{token.IDENT, "x"},
		{token.PLUS, "+"},
		{token.INT, "1"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.IDENT, "x"},
		{token.PERCENT, "%"},
		{token.INT, "3"},
		{token.SEMICOLON, ";"},
		{token.BANG, "!"},
		{token.IDENT, "flag"},
		{token.AND, "&&"},
		{token.FALSE, "false"},
		{token.OR, "||"},
		{token.TRUE, "true"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "x"},
		{token.LTE, "<="},
		{token.INT, "9"},
		{token.NOT_EQ, "!="},
		{token.INT, "8"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "x"},
		{token.ASSIGN, "="},
		{token.MINUS, "-"},
		{token.IDENT, "x"},
		{token.SEMICOLON, ";"},
		{token.EOF, ""},
	}

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q (literal %q)",
				i, tt.expectedType, tok.Type, tok.Literal)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

// TestLinesAndColumns checks that line/column tracking survives newlines.
func TestLinesAndColumns(t *testing.T) {
	input := "int x = 1;\nint y = 2;"
	l := New(input)

	first := l.NextToken() // "int" on line 1
	if first.Line != 1 {
		t.Fatalf("expected line 1, got %d", first.Line)
	}

	for {
		tok := l.NextToken()
		if tok.Literal == "y" {
			if tok.Line != 2 {
				t.Fatalf("expected 'y' on line 2, got line %d", tok.Line)
			}
			return
		}
		if tok.Type == token.EOF {
			t.Fatal("never found 'y' token")
		}
	}
}
