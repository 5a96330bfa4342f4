package c4

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scanAll drains the scanner into a slice, stopping at EOF or the first
// illegal token.
func scanAll(s string) []Token {
	scanner := NewScanner(strings.NewReader(s))
	tokens := []Token{}
	for {
		token := scanner.Scan()
		tokens = append(tokens, token)
		if token.TokenType == EOF || token.TokenType == ILLEGAL {
			return tokens
		}
	}
}

func TestScanner_LetStatement(t *testing.T) {
	tokens := scanAll("let x = 10;")

	require.Len(t, tokens, 6)
	assert.Equal(t, Token{LET, "let", Position{0, 0}}, tokens[0])
	assert.Equal(t, Token{ID, "x", Position{0, 4}}, tokens[1])
	assert.Equal(t, Token{EQUALS, "=", Position{0, 6}}, tokens[2])
	assert.Equal(t, Token{NUM, "10", Position{0, 8}}, tokens[3])
	assert.Equal(t, Token{SEMICOLON, ";", Position{0, 10}}, tokens[4])
	assert.Equal(t, EOF, tokens[5].TokenType)
}

func TestScanner_Operators(t *testing.T) {
	tests := []struct {
		input     string
		tokenType TokenType
		lexeme    string
	}{
		{"==", RELOP, "=="},
		{"!=", RELOP, "!="},
		{"<", RELOP, "<"},
		{">", RELOP, ">"},
		{"<=", RELOP, "<="},
		{">=", RELOP, ">="},
		{"<<", SHIFTOP, "<<"},
		{">>", SHIFTOP, ">>"},
		{"=", EQUALS, "="},
		{"!", NOT, "!"},
		{"||", OR, "||"},
		{"|", PIPE, "|"},
		{"&&", AND, "&&"},
		{"&", AMP, "&"},
		{"^", CARET, "^"},
		{"++", INC, "++"},
		{"+", ADDOP, "+"},
		{"--", DEC, "--"},
		{"-", ADDOP, "-"},
		{"*", MULOP, "*"},
		{"/", MULOP, "/"},
		{"%", MULOP, "%"},
		{"?", QUESTION, "?"},
		{":", COLON, ":"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := scanAll(tt.input)
			require.Len(t, tokens, 2)
			assert.Equal(t, tt.tokenType, tokens[0].TokenType)
			assert.Equal(t, tt.lexeme, tokens[0].Lexeme)
		})
	}
}

// The scanner takes the longest match: "<<=" is a shift followed by an
// assignment, never three single-character tokens.
func TestScanner_MaximalMunch(t *testing.T) {
	tokens := scanAll("a<<=b")

	require.Len(t, tokens, 5)
	assert.Equal(t, ID, tokens[0].TokenType)
	assert.Equal(t, Token{SHIFTOP, "<<", Position{0, 1}}, tokens[1])
	assert.Equal(t, Token{EQUALS, "=", Position{0, 3}}, tokens[2])
	assert.Equal(t, ID, tokens[3].TokenType)
}

func TestScanner_Keywords(t *testing.T) {
	tokens := scanAll("let int char bool void str if else while return enum sizeof print true false lettuce")

	want := []TokenType{LET, INT, CHAR, BOOL, VOID, STR, IF, ELSE, WHILE,
		RETURN, ENUM, SIZEOF, PRINT, TRUE, FALSE, ID, EOF}
	require.Len(t, tokens, len(want))
	for i, typ := range want {
		assert.Equal(t, typ, tokens[i].TokenType, "token %d", i)
	}
	assert.Equal(t, "lettuce", tokens[15].Lexeme)
}

func TestScanner_Identifiers(t *testing.T) {
	tokens := scanAll("_tmp x1 camelCase")

	require.Len(t, tokens, 4)
	assert.Equal(t, Token{ID, "_tmp", Position{0, 0}}, tokens[0])
	assert.Equal(t, Token{ID, "x1", Position{0, 5}}, tokens[1])
	assert.Equal(t, Token{ID, "camelCase", Position{0, 8}}, tokens[2])
}

func TestScanner_Comments(t *testing.T) {
	tokens := scanAll("let /* block\ncomment */ x // trailing\n= 1;")

	require.Len(t, tokens, 6)
	assert.Equal(t, LET, tokens[0].TokenType)
	assert.Equal(t, Token{ID, "x", Position{1, 11}}, tokens[1])
	assert.Equal(t, Token{EQUALS, "=", Position{2, 0}}, tokens[2])
	assert.Equal(t, NUM, tokens[3].TokenType)
	assert.Equal(t, SEMICOLON, tokens[4].TokenType)
}

func TestScanner_CharLiterals(t *testing.T) {
	tests := []struct {
		input string
		want  rune
	}{
		{`'A'`, 'A'},
		{`'\n'`, '\n'},
		{`'\t'`, '\t'},
		{`'\''`, '\''},
		{`'\\'`, '\\'},
		{`'\0'`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := scanAll(tt.input)
			require.Len(t, tokens, 2)
			assert.Equal(t, CHARLIT, tokens[0].TokenType)
			assert.Equal(t, string(tt.want), tokens[0].Lexeme)
		})
	}
}

func TestScanner_StringLiterals(t *testing.T) {
	tokens := scanAll(`"hello" "a\tb" "say \"hi\""`)

	require.Len(t, tokens, 4)
	assert.Equal(t, Token{STRING, "hello", Position{0, 0}}, tokens[0])
	assert.Equal(t, Token{STRING, "a\tb", Position{0, 8}}, tokens[1])
	assert.Equal(t, Token{STRING, `say "hi"`, Position{0, 15}}, tokens[2])
}

func TestScanner_IllegalCharacter(t *testing.T) {
	scanner := NewScanner(strings.NewReader("let $"))
	scanner.Scan()

	token := scanner.Scan()
	assert.Equal(t, ILLEGAL, token.TokenType)
	require.NotNil(t, scanner.Err)
	assert.Equal(t, `unexpected character '$' at line 1, char 5`, scanner.Err.Error())
}

func TestScanner_UnterminatedComment(t *testing.T) {
	scanner := NewScanner(strings.NewReader("/* never ends"))

	token := scanner.Scan()
	assert.Equal(t, ILLEGAL, token.TokenType)
	require.NotNil(t, scanner.Err)
	assert.Contains(t, scanner.Err.Error(), "unterminated block comment")
}

func TestScanner_UnterminatedString(t *testing.T) {
	scanner := NewScanner(strings.NewReader(`"oops`))

	token := scanner.Scan()
	assert.Equal(t, ILLEGAL, token.TokenType)
	require.NotNil(t, scanner.Err)
	assert.Contains(t, scanner.Err.Error(), "unterminated string literal")
}

func TestScanner_UnknownEscape(t *testing.T) {
	scanner := NewScanner(strings.NewReader(`"\q"`))

	token := scanner.Scan()
	assert.Equal(t, ILLEGAL, token.TokenType)
	require.NotNil(t, scanner.Err)
	assert.Contains(t, scanner.Err.Error(), "unknown escape sequence")
}
