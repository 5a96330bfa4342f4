package c4

import (
	"bufio"
	"bytes"
	"io"
)

var eof = rune(0)

// Scanner represents a lexical scanner. The token stream it produces is
// lazy, finite and forward-only; re-scanning requires a new Scanner.
type Scanner struct {
	Reader      *bufio.Reader
	position    Position
	eof         bool
	bufferIndex int
	bufferSize  int
	buffer      [1024]struct {
		ch       rune
		position Position
	}

	// Err holds the first lexical error encountered, if any. When set,
	// the scanner has already emitted an ILLEGAL token for it.
	Err *LexError
}

// NewScanner returns a new instance of Scanner.
func NewScanner(reader io.Reader) *Scanner {
	return &Scanner{
		Reader: bufio.NewReader(reader),
	}
}

// read reads the next rune from the bufferred reader.
// Returns the rune(0) if an error occurs (or io.EOF is returned).
func (s *Scanner) read() (rune, Position) {
	// If we have unread characters then read them off the buffer first.
	if s.bufferSize > 0 {
		s.bufferSize--
		return s.curr()
	}

	// Read next rune from underlying reader.
	// Any error (including io.EOF) should return as EOF.
	ch, _, err := s.Reader.ReadRune()
	if err != nil {
		ch = eof
	} else if ch == '\r' {
		if ch, _, err := s.Reader.ReadRune(); err != nil {
			// nop
		} else if ch != '\n' {
			_ = s.Reader.UnreadRune()
		}
		ch = '\n'
	}

	// Save character and position to the buffer.
	s.bufferIndex = (s.bufferIndex + 1) % len(s.buffer)
	buffer := &s.buffer[s.bufferIndex]
	buffer.ch, buffer.position = ch, s.position

	// Update position.
	// Only count EOF once.
	if ch == '\n' {
		s.position.Line++
		s.position.Column = 0
	} else if !s.eof {
		s.position.Column++
	}

	// Mark the reader as EOF.
	// This is used so we don't double count EOF characters.
	if ch == eof {
		s.eof = true
	}

	return s.curr()
}

// curr returns the last read character and position.
func (s *Scanner) curr() (ch rune, pos Position) {
	bufferIndex := (s.bufferIndex - s.bufferSize + len(s.buffer)) % len(s.buffer)
	buffer := &s.buffer[bufferIndex]
	return buffer.ch, buffer.position
}

// Unscan pushes the previously read character back onto the buffer.
func (s *Scanner) Unscan() {
	s.bufferSize++
}

// illegal records a lexical error and returns an ILLEGAL token for it.
func (s *Scanner) illegal(ch rune, msg string, pos Position) Token {
	if s.Err == nil {
		s.Err = &LexError{Char: ch, Message: msg, Pos: pos}
	}
	return Token{TokenType: ILLEGAL, Lexeme: string(ch), Position: pos}
}

// Scan returns the next token and literal value.
func (s *Scanner) Scan() Token {
	// Read the next rune.
	ch, pos := s.read()

	// Skip comments and whitespaces.
	for {
		if ch == '/' {
			ch2, _ := s.read()
			if ch2 == '*' {
				if err := s.skipUntilEndComment(); err != nil {
					return s.illegal(ch, "unterminated block comment", pos)
				}
			} else if ch2 == '/' {
				s.skipUntilEndOfLine()
			} else {
				s.Unscan()
				break
			}
		} else if isWhitespace(ch) {
			s.scanWhitespace()
		} else {
			break
		}

		ch, pos = s.read()
	}

	// If we see a letter then consume as an ID or reserved word.
	if isLetter(ch) || ch == '_' {
		s.Unscan()
		return s.scanIdentifier()
	} else if isDigit(ch) {
		s.Unscan()
		return s.scanNumber()
	}

	// Otherwise read the individual character.
	switch ch {
	case eof:
		return Token{TokenType: EOF, Lexeme: "EOF", Position: pos}

	case '\'':
		return s.scanCharLiteral(pos)

	case '"':
		return s.scanStringLiteral(pos)

	case '>', '<':
		ch2, _ := s.read()
		if ch2 == '=' {
			return Token{TokenType: RELOP, Lexeme: string(ch) + string(ch2), Position: pos}
		} else if ch2 == ch {
			return Token{TokenType: SHIFTOP, Lexeme: string(ch) + string(ch2), Position: pos}
		}

		s.Unscan()
		return Token{TokenType: RELOP, Lexeme: string(ch), Position: pos}

	case '=':
		ch2, _ := s.read()
		if ch2 == '=' {
			return Token{TokenType: RELOP, Lexeme: "==", Position: pos}
		}

		s.Unscan()
		return Token{TokenType: EQUALS, Lexeme: string(ch), Position: pos}

	case '!':
		ch2, _ := s.read()
		if ch2 == '=' {
			return Token{TokenType: RELOP, Lexeme: "!=", Position: pos}
		}

		s.Unscan()
		return Token{TokenType: NOT, Lexeme: string(ch), Position: pos}

	case '|':
		ch2, _ := s.read()
		if ch2 == '|' {
			return Token{TokenType: OR, Lexeme: "||", Position: pos}
		}

		s.Unscan()
		return Token{TokenType: PIPE, Lexeme: string(ch), Position: pos}

	case '&':
		ch2, _ := s.read()
		if ch2 == '&' {
			return Token{TokenType: AND, Lexeme: "&&", Position: pos}
		}

		s.Unscan()
		return Token{TokenType: AMP, Lexeme: string(ch), Position: pos}

	case '^':
		return Token{TokenType: CARET, Lexeme: string(ch), Position: pos}

	case '+':
		ch2, _ := s.read()
		if ch2 == '+' {
			return Token{TokenType: INC, Lexeme: "++", Position: pos}
		}

		s.Unscan()
		return Token{TokenType: ADDOP, Lexeme: string(ch), Position: pos}

	case '-':
		ch2, _ := s.read()
		if ch2 == '-' {
			return Token{TokenType: DEC, Lexeme: "--", Position: pos}
		}

		s.Unscan()
		return Token{TokenType: ADDOP, Lexeme: string(ch), Position: pos}

	case '*', '/', '%':
		return Token{TokenType: MULOP, Lexeme: string(ch), Position: pos}

	case ';':
		return Token{TokenType: SEMICOLON, Lexeme: string(ch), Position: pos}

	case '(':
		return Token{TokenType: LPAREN, Lexeme: string(ch), Position: pos}

	case ')':
		return Token{TokenType: RPAREN, Lexeme: string(ch), Position: pos}

	case '{':
		return Token{TokenType: LBRACE, Lexeme: string(ch), Position: pos}

	case '}':
		return Token{TokenType: RBRACE, Lexeme: string(ch), Position: pos}

	case '[':
		return Token{TokenType: LBRACKET, Lexeme: string(ch), Position: pos}

	case ']':
		return Token{TokenType: RBRACKET, Lexeme: string(ch), Position: pos}

	case ',':
		return Token{TokenType: COMMA, Lexeme: string(ch), Position: pos}

	case ':':
		return Token{TokenType: COLON, Lexeme: string(ch), Position: pos}

	case '?':
		return Token{TokenType: QUESTION, Lexeme: string(ch), Position: pos}
	}

	return s.illegal(ch, "unexpected character", pos)
}

// scanWhitespace consumes the current rune and all contiguous whitespace.
func (s *Scanner) scanWhitespace() {
	// Read every subsequent whitespace character into the buffer.
	// Non-whitespace characters and EOF will cause the loop to exit.
	for {
		if ch, _ := s.read(); ch == eof {
			break
		} else if !isWhitespace(ch) {
			s.Unscan()
			break
		}
	}
}

// scanIdentifier consumes the current rune and all contiguous identifier runes.
func (s *Scanner) scanIdentifier() Token {
	ch, pos := s.read()

	// Create a buffer and read the current character into it.
	var buf bytes.Buffer
	buf.WriteRune(ch)

	// Read every subsequent ident character into the buffer.
	// Non-ident characters and EOF will cause the loop to exit.
	for {
		if ch, _ = s.read(); ch == eof {
			break
		} else if !isLetter(ch) && !isDigit(ch) && ch != '_' {
			s.Unscan()
			break
		} else {
			_, _ = buf.WriteRune(ch)
		}
	}

	// If the string matches a keyword then return that keyword.
	if tok, ok := keywords[buf.String()]; ok {
		return Token{TokenType: tok, Lexeme: buf.String(), Position: pos}
	}

	return Token{TokenType: ID, Lexeme: buf.String(), Position: pos}
}

// scanNumber consumes a contiguous series of decimal digits.
func (s *Scanner) scanNumber() Token {
	var buf bytes.Buffer
	ch, pos := s.read()

	for {
		if !isDigit(ch) {
			s.Unscan()
			break
		}
		_, _ = buf.WriteRune(ch)
		ch, _ = s.read()
	}

	return Token{TokenType: NUM, Lexeme: buf.String(), Position: pos}
}

// scanCharLiteral consumes a single-quoted character literal. The opening
// quote has already been read.
func (s *Scanner) scanCharLiteral(pos Position) Token {
	ch, _ := s.read()
	if ch == eof || ch == '\n' {
		return s.illegal('\'', "unterminated character literal", pos)
	}

	if ch == '\\' {
		esc, _ := s.read()
		decoded, ok := unescape(esc)
		if !ok {
			return s.illegal(esc, "unknown escape sequence", pos)
		}
		ch = decoded
	}

	if quote, _ := s.read(); quote != '\'' {
		return s.illegal(quote, "unterminated character literal", pos)
	}

	return Token{TokenType: CHARLIT, Lexeme: string(ch), Position: pos}
}

// scanStringLiteral consumes a double-quoted string literal. The opening
// quote has already been read.
func (s *Scanner) scanStringLiteral(pos Position) Token {
	var buf bytes.Buffer
	for {
		ch, _ := s.read()
		if ch == eof || ch == '\n' {
			return s.illegal('"', "unterminated string literal", pos)
		}
		if ch == '"' {
			break
		}
		if ch == '\\' {
			esc, _ := s.read()
			decoded, ok := unescape(esc)
			if !ok {
				return s.illegal(esc, "unknown escape sequence", pos)
			}
			ch = decoded
		}
		_, _ = buf.WriteRune(ch)
	}

	return Token{TokenType: STRING, Lexeme: buf.String(), Position: pos}
}

// skipUntilEndComment skips characters until it reaches a '*/' symbol.
func (s *Scanner) skipUntilEndComment() error {
	for {
		if ch, _ := s.read(); ch == '*' {
			// We might be at the end.
		star:
			ch2, _ := s.read()
			if ch2 == '/' {
				return nil
			} else if ch2 == '*' {
				// We are back in the state machine since we see a star.
				goto star
			} else if ch2 == eof {
				return io.EOF
			}
		} else if ch == eof {
			return io.EOF
		}
	}
}

// skipUntilEndOfLine skips characters through the end of a '//' comment.
func (s *Scanner) skipUntilEndOfLine() {
	for {
		if ch, _ := s.read(); ch == '\n' || ch == eof {
			return
		}
	}
}

// unescape decodes the character following a backslash.
func unescape(ch rune) (rune, bool) {
	switch ch {
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	case '\\':
		return '\\', true
	case '\'':
		return '\'', true
	case '"':
		return '"', true
	case '0':
		return 0, true
	}
	return 0, false
}

func isWhitespace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\n'
}

func isLetter(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9')
}
