package c4

// TokenType identifies the lexical class of a token.
type TokenType int

// C4's tokens
const (
	// Special tokens
	ILLEGAL TokenType = iota
	EOF

	// Symbols
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	LBRACKET  // [
	RBRACKET  // ]
	COMMA     // ,
	SEMICOLON // ;
	COLON     // :
	QUESTION  // ?
	EQUALS    // =

	// Keywords
	LET
	INT
	CHAR
	BOOL
	VOID
	STR
	IF
	ELSE
	WHILE
	RETURN
	ENUM
	SIZEOF
	PRINT
	TRUE
	FALSE

	// Operators
	RELOP   // == | != | < | > | <= | >=
	SHIFTOP // << | >>
	ADDOP   // + | -
	MULOP   // * | / | %
	OR      // ||
	AND     // &&
	NOT     // !
	AMP     // &
	PIPE    // |
	CARET   // ^
	INC     // ++
	DEC     // --

	// Literals
	ID
	NUM
	CHARLIT
	STRING
)

// Position specifies the line and character position of a token.
// The Column and Line are both zero-based indexes.
type Position struct {
	Line   int
	Column int
}

// Token represents a lexical token. Lexeme holds the matched text; for
// CHARLIT and STRING tokens it holds the decoded literal value instead.
type Token struct {
	TokenType TokenType
	Lexeme    string
	Position  Position
}

var tokens = [...]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",

	// Symbols
	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",
	LBRACKET:  "[",
	RBRACKET:  "]",
	COMMA:     ",",
	SEMICOLON: ";",
	COLON:     ":",
	QUESTION:  "?",
	EQUALS:    "=",

	// Keywords
	LET:    "let",
	INT:    "int",
	CHAR:   "char",
	BOOL:   "bool",
	VOID:   "void",
	STR:    "str",
	IF:     "if",
	ELSE:   "else",
	WHILE:  "while",
	RETURN: "return",
	ENUM:   "enum",
	SIZEOF: "sizeof",
	PRINT:  "print",
	TRUE:   "true",
	FALSE:  "false",

	// Operators
	RELOP:   "RELOP",
	SHIFTOP: "SHIFTOP",
	ADDOP:   "ADDOP",
	MULOP:   "MULOP",
	OR:      "||",
	AND:     "&&",
	NOT:     "!",
	AMP:     "&",
	PIPE:    "|",
	CARET:   "^",
	INC:     "++",
	DEC:     "--",

	// Literals
	ID:      "ID",
	NUM:     "NUM",
	CHARLIT: "CHARLIT",
	STRING:  "STRING",
}

// keywords maps reserved words to their token types.
var keywords = map[string]TokenType{
	"let":    LET,
	"int":    INT,
	"char":   CHAR,
	"bool":   BOOL,
	"void":   VOID,
	"str":    STR,
	"if":     IF,
	"else":   ELSE,
	"while":  WHILE,
	"return": RETURN,
	"enum":   ENUM,
	"sizeof": SIZEOF,
	"print":  PRINT,
	"true":   TRUE,
	"false":  FALSE,
}

// String returns the string representation of the token.
func (tok TokenType) String() string {
	if tok >= 0 && tok < TokenType(len(tokens)) {
		return tokens[tok]
	}
	return ""
}

// isTypeKeyword reports whether tok begins a type, e.g. in a cast or a
// typed declaration.
func isTypeKeyword(tok TokenType) bool {
	switch tok {
	case INT, CHAR, BOOL, VOID, STR:
		return true
	}
	return false
}
