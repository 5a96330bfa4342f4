package c4

import (
	"strconv"
	"strings"
)

// Parser represents a C4 parser. It pulls tokens from a Scanner on demand
// and builds the abstract syntax tree. Parsing is unrecoverable: the first
// error aborts and is returned to the caller.
type Parser struct {
	scanner   *Scanner
	lookahead Token
}

// NewParser returns a new instance of Parser.
func NewParser(scanner *Scanner) *Parser {
	return &Parser{
		scanner:   scanner,
		lookahead: scanner.Scan(),
	}
}

// Parse parses a C4 program and returns its top-level statements.
func Parse(s string) ([]Statement, error) {
	parser := NewParser(NewScanner(strings.NewReader(s)))
	return parser.ParseProgram()
}

// matchToken consumes and returns the lookahead token if it has one of the
// requested types.
func (p *Parser) matchToken(tokenTypes ...TokenType) (Token, bool) {
	for _, tokType := range tokenTypes {
		if tokType == p.lookahead.TokenType {
			token := p.lookahead
			p.lookahead = p.scanner.Scan()
			return token, true
		}
	}

	return p.lookahead, false
}

// errHere builds the error for an unexpected lookahead token. A pending
// scanner error takes precedence so lexical failures surface as LexError.
func (p *Parser) errHere(expected ...string) error {
	if p.lookahead.TokenType == ILLEGAL && p.scanner.Err != nil {
		return p.scanner.Err
	}
	return newParseError(p.lookahead.Lexeme, expected, p.lookahead.Position)
}

// expect consumes a token of the given type or fails with a ParseError.
func (p *Parser) expect(tokenType TokenType, expected string) (Token, error) {
	if token, ok := p.matchToken(tokenType); ok {
		return token, nil
	}
	return Token{}, p.errHere(expected)
}

// ParseProgram parses the entire token stream and returns the ordered
// sequence of top-level statements.
// 	program -> stmt* EOF
func (p *Parser) ParseProgram() ([]Statement, error) {
	statements := []Statement{}
	for p.lookahead.TokenType != EOF {
		statement, err := p.ParseStatement()
		if err != nil {
			return nil, err
		}
		statements = append(statements, statement)
	}

	return statements, nil
}

// ParseStatement parses a C4 statement, dispatching on the leading token.
//	stmt -> let_stmt | declaration | if_stmt | while_stmt | return_stmt
//		| enum_stmt | stmt_block | expression ';'
func (p *Parser) ParseStatement() (Statement, error) {
	switch p.lookahead.TokenType {
	case LET:
		return p.ParseLetStatement()

	case INT, CHAR, BOOL, VOID, STR:
		return p.ParseDeclaration()

	case IF:
		return p.ParseIfStatement()

	case WHILE:
		return p.ParseWhileStatement()

	case RETURN:
		return p.ParseReturnStatement()

	case ENUM:
		return p.ParseEnumStatement()

	case LBRACE:
		return p.ParseBlock()
	}

	return p.ParseExpressionStatement()
}

// ParseLetStatement parses a let declaration with one or more bindings.
// 	let_stmt -> LET binding (',' binding)* ';'
// 	binding -> ID (':' type)? ('=' expression)?
func (p *Parser) ParseLetStatement() (Statement, error) {
	result := &Let{Position: p.lookahead.Position}
	if _, err := p.expect(LET, "let"); err != nil {
		return nil, err
	}

	for {
		binding, err := p.parseBinding(TypeRef{Base: Integer})
		if err != nil {
			return nil, err
		}
		result.Bindings = append(result.Bindings, *binding)

		if _, ok := p.matchToken(COMMA); !ok {
			break
		}
	}

	if _, err := p.expect(SEMICOLON, ";"); err != nil {
		return nil, err
	}

	return result, nil
}

// parseBinding parses a single name with an optional type annotation and
// an optional initializer.
func (p *Parser) parseBinding(defaultType TypeRef) (*LetBinding, error) {
	name, err := p.expect(ID, "ID")
	if err != nil {
		return nil, err
	}

	binding := &LetBinding{Name: name.Lexeme, Type: defaultType}

	if _, ok := p.matchToken(COLON); ok {
		typ, err := p.ParseTypeRef(true)
		if err != nil {
			return nil, err
		}
		binding.Type = *typ
	}

	if _, ok := p.matchToken(EQUALS); ok {
		value, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		binding.Value = value
	}

	return binding, nil
}

// ParseDeclaration parses a statement led by a type keyword: either a
// function declaration or a typed variable declaration.
// 	declaration -> type ID '(' params ')' stmt_block
//		| type binding (',' binding)* ';'
func (p *Parser) ParseDeclaration() (Statement, error) {
	pos := p.lookahead.Position
	typ, err := p.ParseTypeRef(false)
	if err != nil {
		return nil, err
	}

	name, err := p.expect(ID, "ID")
	if err != nil {
		return nil, err
	}

	// A parenthesis after the name makes this a function signature.
	if p.lookahead.TokenType == LPAREN {
		return p.parseFunctionDecl(name.Lexeme, *typ, pos)
	}

	result := &Let{Position: pos}
	binding := &LetBinding{Name: name.Lexeme, Type: *typ}
	if _, ok := p.matchToken(EQUALS); ok {
		value, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		binding.Value = value
	}
	result.Bindings = append(result.Bindings, *binding)

	for {
		if _, ok := p.matchToken(COMMA); !ok {
			break
		}
		binding, err := p.parseBinding(*typ)
		if err != nil {
			return nil, err
		}
		result.Bindings = append(result.Bindings, *binding)
	}

	if _, err := p.expect(SEMICOLON, ";"); err != nil {
		return nil, err
	}

	return result, nil
}

// parseFunctionDecl parses the parameter list and body of a function whose
// return type and name were already consumed.
// 	params -> ε | param (',' param)*
// 	param -> type? ID
func (p *Parser) parseFunctionDecl(name string, returnType TypeRef, pos Position) (Statement, error) {
	result := &FunctionDecl{Name: name, ReturnType: returnType, Position: pos}

	if _, err := p.expect(LPAREN, "("); err != nil {
		return nil, err
	}

	for p.lookahead.TokenType != RPAREN {
		param := Param{Type: TypeRef{Base: Integer}}
		if isTypeKeyword(p.lookahead.TokenType) {
			typ, err := p.ParseTypeRef(false)
			if err != nil {
				return nil, err
			}
			param.Type = *typ
		}

		token, err := p.expect(ID, "ID")
		if err != nil {
			return nil, err
		}
		param.Name = token.Lexeme
		result.Params = append(result.Params, param)

		if _, ok := p.matchToken(COMMA); !ok {
			break
		}
	}

	if _, err := p.expect(RPAREN, ")"); err != nil {
		return nil, err
	}

	body, err := p.ParseBlock()
	if err != nil {
		return nil, err
	}
	result.Body = body.(*Block)

	return result, nil
}

// ParseIfStatement parses a conditional statement. An "else if" chain is
// represented as a nested IfStatement in the else branch.
// 	if_stmt -> IF '(' expression ')' stmt (ELSE stmt)?
func (p *Parser) ParseIfStatement() (Statement, error) {
	result := &IfStatement{Position: p.lookahead.Position}
	if _, err := p.expect(IF, "if"); err != nil {
		return nil, err
	}

	if _, err := p.expect(LPAREN, "("); err != nil {
		return nil, err
	}

	condition, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	result.Condition = condition

	if _, err := p.expect(RPAREN, ")"); err != nil {
		return nil, err
	}

	ifBranch, err := p.ParseStatement()
	if err != nil {
		return nil, err
	}
	result.IfBranch = ifBranch

	if _, ok := p.matchToken(ELSE); ok {
		elseBranch, err := p.ParseStatement()
		if err != nil {
			return nil, err
		}
		result.ElseBranch = elseBranch
	}

	return result, nil
}

// ParseWhileStatement parses a while loop.
// 	while_stmt -> WHILE '(' expression ')' stmt
func (p *Parser) ParseWhileStatement() (Statement, error) {
	result := &WhileStatement{Position: p.lookahead.Position}
	if _, err := p.expect(WHILE, "while"); err != nil {
		return nil, err
	}

	if _, err := p.expect(LPAREN, "("); err != nil {
		return nil, err
	}

	condition, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	result.Condition = condition

	if _, err := p.expect(RPAREN, ")"); err != nil {
		return nil, err
	}

	body, err := p.ParseStatement()
	if err != nil {
		return nil, err
	}
	result.Body = body

	return result, nil
}

// ParseReturnStatement parses a return with an optional value. A missing
// value yields int 0 at evaluation time.
// 	return_stmt -> RETURN expression? (';' | before '}')
func (p *Parser) ParseReturnStatement() (Statement, error) {
	result := &ReturnStatement{Position: p.lookahead.Position}
	if _, err := p.expect(RETURN, "return"); err != nil {
		return nil, err
	}

	if p.lookahead.TokenType != SEMICOLON && p.lookahead.TokenType != RBRACE {
		value, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		result.Value = value
	}

	// The semicolon may be omitted right before a closing brace.
	if _, ok := p.matchToken(SEMICOLON); !ok && p.lookahead.TokenType != RBRACE {
		return nil, p.errHere(";")
	}

	return result, nil
}

// ParseEnumStatement parses an enum declaration. Member values resolve at
// parse time: an explicit literal, or one greater than the previous member,
// starting at 0.
// 	enum_stmt -> ENUM '{' member (',' member)* '}' ';'
// 	member -> ID ('=' '-'? NUM)?
func (p *Parser) ParseEnumStatement() (Statement, error) {
	result := &EnumDecl{Position: p.lookahead.Position}
	if _, err := p.expect(ENUM, "enum"); err != nil {
		return nil, err
	}

	if _, err := p.expect(LBRACE, "{"); err != nil {
		return nil, err
	}

	next := int64(0)
	for p.lookahead.TokenType != RBRACE {
		name, err := p.expect(ID, "ID")
		if err != nil {
			return nil, err
		}

		if _, ok := p.matchToken(EQUALS); ok {
			value, err := p.parseIntValue()
			if err != nil {
				return nil, err
			}
			next = value
		}

		result.Members = append(result.Members, EnumMember{Name: name.Lexeme, Value: next})
		next++

		if _, ok := p.matchToken(COMMA); !ok {
			break
		}
	}

	if _, err := p.expect(RBRACE, "}"); err != nil {
		return nil, err
	}

	if _, err := p.expect(SEMICOLON, ";"); err != nil {
		return nil, err
	}

	return result, nil
}

// parseIntValue parses an integer literal with an optional leading minus.
func (p *Parser) parseIntValue() (int64, error) {
	negative := false
	if token, ok := p.matchToken(ADDOP); ok {
		if token.Lexeme != "-" {
			return 0, newParseError(token.Lexeme, []string{"NUM"}, token.Position)
		}
		negative = true
	}

	token, err := p.expect(NUM, "NUM")
	if err != nil {
		return 0, err
	}

	value, err := strconv.ParseInt(token.Lexeme, 10, 64)
	if err != nil {
		return 0, &ParseError{Message: token.Lexeme + " is not an int", Pos: token.Position}
	}

	if negative {
		value = -value
	}
	return value, nil
}

// ParseExpressionStatement parses a bare expression followed by a
// semicolon. This covers calls and implicit declaration by assignment.
// 	expr_stmt -> expression ';'
func (p *Parser) ParseExpressionStatement() (Statement, error) {
	result := &ExpressionStatement{Position: p.lookahead.Position}
	value, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	result.Value = value

	if _, err := p.expect(SEMICOLON, ";"); err != nil {
		return nil, err
	}

	return result, nil
}

// ParseBlock parses a brace-delimited statements block.
//	stmt_block -> '{' stmt* '}'
func (p *Parser) ParseBlock() (Statement, error) {
	result := &Block{Position: p.lookahead.Position}
	if _, err := p.expect(LBRACE, "{"); err != nil {
		return nil, err
	}

	for p.lookahead.TokenType != RBRACE && p.lookahead.TokenType != EOF {
		statement, err := p.ParseStatement()
		if err != nil {
			return nil, err
		}
		result.Statements = append(result.Statements, statement)
	}

	if _, err := p.expect(RBRACE, "}"); err != nil {
		return nil, err
	}

	return result, nil
}

// ParseExpression parses an expression at the lowest precedence level.
// 	expression -> ternary
func (p *Parser) ParseExpression() (Expression, error) {
	return p.ParseTernary()
}

// ParseTernary parses the right-associative ?: conditional.
// 	ternary -> assignment ('?' expression ':' expression)?
func (p *Parser) ParseTernary() (Expression, error) {
	condition, err := p.ParseAssignment()
	if err != nil {
		return nil, err
	}

	token, ok := p.matchToken(QUESTION)
	if !ok {
		return condition, nil
	}

	thenBranch, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(COLON, ":"); err != nil {
		return nil, err
	}

	elseBranch, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}

	return &Ternary{
		Condition:  condition,
		ThenBranch: thenBranch,
		ElseBranch: elseBranch,
		Position:   token.Position,
	}, nil
}

// ParseAssignment parses a right-associative assignment. The target must
// be a variable, an array element or a pointer dereference.
// 	assignment -> logical_or ('=' assignment)?
func (p *Parser) ParseAssignment() (Expression, error) {
	lhs, err := p.ParseLogicalOr()
	if err != nil {
		return nil, err
	}

	token, ok := p.matchToken(EQUALS)
	if !ok {
		return lhs, nil
	}

	rhs, err := p.ParseAssignment()
	if err != nil {
		return nil, err
	}

	switch lhs.(type) {
	case *Variable, *Index, *Deref:
		return &Assign{Target: lhs, Value: rhs, Position: token.Position}, nil
	}

	return nil, &ParseError{Message: "invalid assignment target", Pos: token.Position}
}

// ParseLogicalOr parses a left-associative || chain.
// 	logical_or -> logical_and ('||' logical_and)*
func (p *Parser) ParseLogicalOr() (Expression, error) {
	result, err := p.ParseLogicalAnd()
	if err != nil {
		return nil, err
	}

	for {
		token, ok := p.matchToken(OR)
		if !ok {
			return result, nil
		}

		rhs, err := p.ParseLogicalAnd()
		if err != nil {
			return nil, err
		}
		result = &Binary{Operator: LogicalOr, LHS: result, RHS: rhs, Position: token.Position}
	}
}

// ParseLogicalAnd parses a left-associative && chain.
// 	logical_and -> bit_or ('&&' bit_or)*
func (p *Parser) ParseLogicalAnd() (Expression, error) {
	result, err := p.ParseBitOr()
	if err != nil {
		return nil, err
	}

	for {
		token, ok := p.matchToken(AND)
		if !ok {
			return result, nil
		}

		rhs, err := p.ParseBitOr()
		if err != nil {
			return nil, err
		}
		result = &Binary{Operator: LogicalAnd, LHS: result, RHS: rhs, Position: token.Position}
	}
}

// ParseBitOr parses a left-associative | chain.
// 	bit_or -> bit_xor ('|' bit_xor)*
func (p *Parser) ParseBitOr() (Expression, error) {
	result, err := p.ParseBitXor()
	if err != nil {
		return nil, err
	}

	for {
		token, ok := p.matchToken(PIPE)
		if !ok {
			return result, nil
		}

		rhs, err := p.ParseBitXor()
		if err != nil {
			return nil, err
		}
		result = &Binary{Operator: BitOr, LHS: result, RHS: rhs, Position: token.Position}
	}
}

// ParseBitXor parses a left-associative ^ chain.
// 	bit_xor -> bit_and ('^' bit_and)*
func (p *Parser) ParseBitXor() (Expression, error) {
	result, err := p.ParseBitAnd()
	if err != nil {
		return nil, err
	}

	for {
		token, ok := p.matchToken(CARET)
		if !ok {
			return result, nil
		}

		rhs, err := p.ParseBitAnd()
		if err != nil {
			return nil, err
		}
		result = &Binary{Operator: BitXor, LHS: result, RHS: rhs, Position: token.Position}
	}
}

// ParseBitAnd parses a left-associative & chain.
// 	bit_and -> equality ('&' equality)*
func (p *Parser) ParseBitAnd() (Expression, error) {
	result, err := p.ParseEquality()
	if err != nil {
		return nil, err
	}

	for {
		token, ok := p.matchToken(AMP)
		if !ok {
			return result, nil
		}

		rhs, err := p.ParseEquality()
		if err != nil {
			return nil, err
		}
		result = &Binary{Operator: BitAnd, LHS: result, RHS: rhs, Position: token.Position}
	}
}

// ParseEquality parses a left-associative == / != chain.
// 	equality -> relational (('==' | '!=') relational)*
func (p *Parser) ParseEquality() (Expression, error) {
	result, err := p.ParseRelational()
	if err != nil {
		return nil, err
	}

	for p.lookahead.TokenType == RELOP &&
		(p.lookahead.Lexeme == "==" || p.lookahead.Lexeme == "!=") {
		token, _ := p.matchToken(RELOP)
		op := EqualTo
		if token.Lexeme == "!=" {
			op = NotEqualTo
		}

		rhs, err := p.ParseRelational()
		if err != nil {
			return nil, err
		}
		result = &Binary{Operator: op, LHS: result, RHS: rhs, Position: token.Position}
	}

	return result, nil
}

// ParseRelational parses a left-associative < / > / <= / >= chain.
// 	relational -> shift (('<' | '>' | '<=' | '>=') shift)*
func (p *Parser) ParseRelational() (Expression, error) {
	result, err := p.ParseShift()
	if err != nil {
		return nil, err
	}

	for p.lookahead.TokenType == RELOP &&
		p.lookahead.Lexeme != "==" && p.lookahead.Lexeme != "!=" {
		token, _ := p.matchToken(RELOP)
		var op Operator
		switch token.Lexeme {
		case "<":
			op = LessThan
		case ">":
			op = GreaterThan
		case "<=":
			op = LessThanOrEqualTo
		case ">=":
			op = GreaterThanOrEqualTo
		}

		rhs, err := p.ParseShift()
		if err != nil {
			return nil, err
		}
		result = &Binary{Operator: op, LHS: result, RHS: rhs, Position: token.Position}
	}

	return result, nil
}

// ParseShift parses a left-associative << / >> chain.
// 	shift -> additive (('<<' | '>>') additive)*
func (p *Parser) ParseShift() (Expression, error) {
	result, err := p.ParseAdditive()
	if err != nil {
		return nil, err
	}

	for {
		token, ok := p.matchToken(SHIFTOP)
		if !ok {
			return result, nil
		}
		op := ShiftLeft
		if token.Lexeme == ">>" {
			op = ShiftRight
		}

		rhs, err := p.ParseAdditive()
		if err != nil {
			return nil, err
		}
		result = &Binary{Operator: op, LHS: result, RHS: rhs, Position: token.Position}
	}
}

// ParseAdditive parses a left-associative + / - chain.
// 	additive -> multiplicative (('+' | '-') multiplicative)*
func (p *Parser) ParseAdditive() (Expression, error) {
	result, err := p.ParseMultiplicative()
	if err != nil {
		return nil, err
	}

	for {
		token, ok := p.matchToken(ADDOP)
		if !ok {
			return result, nil
		}
		op := Add
		if token.Lexeme == "-" {
			op = Subtract
		}

		rhs, err := p.ParseMultiplicative()
		if err != nil {
			return nil, err
		}
		result = &Binary{Operator: op, LHS: result, RHS: rhs, Position: token.Position}
	}
}

// ParseMultiplicative parses a left-associative * / / / % chain.
// 	multiplicative -> unary (('*' | '/' | '%') unary)*
func (p *Parser) ParseMultiplicative() (Expression, error) {
	result, err := p.ParseUnary()
	if err != nil {
		return nil, err
	}

	for {
		token, ok := p.matchToken(MULOP)
		if !ok {
			return result, nil
		}
		var op Operator
		switch token.Lexeme {
		case "*":
			op = Multiply
		case "/":
			op = Divide
		case "%":
			op = Modulo
		}

		rhs, err := p.ParseUnary()
		if err != nil {
			return nil, err
		}
		result = &Binary{Operator: op, LHS: result, RHS: rhs, Position: token.Position}
	}
}

// ParseUnary parses prefix operators: !, unary -, ++/--, address-of and
// dereference. Casts are recognized in ParsePrimary since they start with
// a parenthesis.
// 	unary -> ('!' | '-' | '++' | '--' | '&' | '*') unary | postfix
func (p *Parser) ParseUnary() (Expression, error) {
	pos := p.lookahead.Position

	switch p.lookahead.TokenType {
	case NOT:
		p.matchToken(NOT)
		operand, err := p.ParseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{Operator: Not, Operand: operand, Position: pos}, nil

	case ADDOP:
		if p.lookahead.Lexeme == "-" {
			p.matchToken(ADDOP)
			operand, err := p.ParseUnary()
			if err != nil {
				return nil, err
			}
			return &Unary{Operator: Negate, Operand: operand, Position: pos}, nil
		}

	case INC, DEC:
		token, _ := p.matchToken(INC, DEC)
		operand, err := p.ParseUnary()
		if err != nil {
			return nil, err
		}
		return &IncDec{
			Operand:   operand,
			Decrement: token.TokenType == DEC,
			Prefix:    true,
			Position:  pos,
		}, nil

	case AMP:
		p.matchToken(AMP)
		operand, err := p.ParseUnary()
		if err != nil {
			return nil, err
		}
		return &AddressOf{Operand: operand, Position: pos}, nil

	case MULOP:
		if p.lookahead.Lexeme == "*" {
			p.matchToken(MULOP)
			operand, err := p.ParseUnary()
			if err != nil {
				return nil, err
			}
			return &Deref{Operand: operand, Position: pos}, nil
		}
	}

	primary, err := p.ParsePrimary()
	if err != nil {
		return nil, err
	}
	return p.ParsePostfix(primary)
}

// ParsePostfix parses the postfix operators binding tightest after a
// primary: calls, indexing and ++/--.
// 	postfix -> primary ('(' args ')' | '[' expression ']' | '++' | '--')*
func (p *Parser) ParsePostfix(expr Expression) (Expression, error) {
	for {
		switch p.lookahead.TokenType {
		case LPAREN:
			variable, ok := expr.(*Variable)
			if !ok {
				return nil, &ParseError{Message: "called value is not a function name", Pos: p.lookahead.Position}
			}
			p.matchToken(LPAREN)
			args, err := p.parseArguments()
			if err != nil {
				return nil, err
			}
			expr = &Call{Name: variable.Name, Args: args, Position: variable.Position}

		case LBRACKET:
			token, _ := p.matchToken(LBRACKET)
			index, err := p.ParseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(RBRACKET, "]"); err != nil {
				return nil, err
			}
			expr = &Index{Array: expr, Index: index, Position: token.Position}

		case INC, DEC:
			token, _ := p.matchToken(INC, DEC)
			expr = &IncDec{
				Operand:   expr,
				Decrement: token.TokenType == DEC,
				Position:  token.Position,
			}

		default:
			return expr, nil
		}
	}
}

// parseArguments parses a comma-separated argument list up to and
// including the closing parenthesis.
func (p *Parser) parseArguments() ([]Expression, error) {
	args := []Expression{}
	if _, ok := p.matchToken(RPAREN); ok {
		return args, nil
	}

	for {
		arg, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		if _, ok := p.matchToken(COMMA); !ok {
			break
		}
	}

	if _, err := p.expect(RPAREN, ")"); err != nil {
		return nil, err
	}

	return args, nil
}

// ParsePrimary parses literals, identifiers, grouped expressions, casts,
// array literals, sizeof and the print builtin.
func (p *Parser) ParsePrimary() (Expression, error) {
	pos := p.lookahead.Position

	switch p.lookahead.TokenType {
	case NUM:
		token, _ := p.matchToken(NUM)
		value, err := strconv.ParseInt(token.Lexeme, 10, 64)
		if err != nil {
			return nil, &ParseError{Message: token.Lexeme + " is not an int", Pos: token.Position}
		}
		return &IntLiteral{Value: value, Position: pos}, nil

	case CHARLIT:
		token, _ := p.matchToken(CHARLIT)
		return &CharLiteral{Value: []rune(token.Lexeme)[0], Position: pos}, nil

	case STRING:
		token, _ := p.matchToken(STRING)
		return &StringLiteral{Value: token.Lexeme, Position: pos}, nil

	case TRUE:
		p.matchToken(TRUE)
		return &BoolLiteral{Value: true, Position: pos}, nil

	case FALSE:
		p.matchToken(FALSE)
		return &BoolLiteral{Value: false, Position: pos}, nil

	case ID:
		token, _ := p.matchToken(ID)
		return &Variable{Name: token.Lexeme, Position: pos}, nil

	case PRINT:
		p.matchToken(PRINT)
		if _, err := p.expect(LPAREN, "("); err != nil {
			return nil, err
		}
		args, err := p.parseArguments()
		if err != nil {
			return nil, err
		}
		return &Call{Name: "print", Args: args, Position: pos}, nil

	case SIZEOF:
		return p.parseSizeOf()

	case LBRACKET:
		p.matchToken(LBRACKET)
		return p.parseArrayLiteral(RBRACKET, "]", pos)

	case LBRACE:
		p.matchToken(LBRACE)
		return p.parseArrayLiteral(RBRACE, "}", pos)

	case LPAREN:
		p.matchToken(LPAREN)

		// A type keyword right after '(' makes this a cast.
		if isTypeKeyword(p.lookahead.TokenType) {
			typ, err := p.ParseTypeRef(false)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(RPAREN, ")"); err != nil {
				return nil, err
			}
			operand, err := p.ParseUnary()
			if err != nil {
				return nil, err
			}
			return &Cast{Target: *typ, Operand: operand, Position: pos}, nil
		}

		expr, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN, ")"); err != nil {
			return nil, err
		}
		return expr, nil
	}

	return nil, p.errHere("expression")
}

// parseSizeOf parses a sizeof over either a type (with an optional array
// suffix, e.g. int[3]) or a parenthesized expression.
// 	sizeof -> SIZEOF '(' (type | expression) ')'
func (p *Parser) parseSizeOf() (Expression, error) {
	pos := p.lookahead.Position
	p.matchToken(SIZEOF)

	if _, err := p.expect(LPAREN, "("); err != nil {
		return nil, err
	}

	result := &SizeOf{Position: pos}
	if isTypeKeyword(p.lookahead.TokenType) {
		typ, err := p.ParseTypeRef(true)
		if err != nil {
			return nil, err
		}
		result.Type = typ
	} else {
		operand, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		result.Operand = operand
	}

	if _, err := p.expect(RPAREN, ")"); err != nil {
		return nil, err
	}

	return result, nil
}

// parseArrayLiteral parses the elements of an array literal up to the
// given closing delimiter. Both [1, 2] and {1, 2} forms share this.
func (p *Parser) parseArrayLiteral(closing TokenType, closingName string, pos Position) (Expression, error) {
	result := &ArrayLiteral{Position: pos}
	if _, ok := p.matchToken(closing); ok {
		return result, nil
	}

	for {
		element, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		result.Elements = append(result.Elements, element)

		if _, ok := p.matchToken(COMMA); !ok {
			break
		}
	}

	if _, err := p.expect(closing, closingName); err != nil {
		return nil, err
	}

	return result, nil
}

// ParseTypeRef parses a type: a primitive keyword, optional '*' pointer
// markers and, when allowDims is set, array length suffixes.
// 	type -> (INT | CHAR | BOOL | VOID | STR) '*'* ('[' NUM ']')*
func (p *Parser) ParseTypeRef(allowDims bool) (*TypeRef, error) {
	token, ok := p.matchToken(INT, CHAR, BOOL, VOID, STR)
	if !ok {
		return nil, p.errHere("int", "char", "bool", "void", "str")
	}

	result := &TypeRef{}
	switch token.TokenType {
	case INT:
		result.Base = Integer
	case CHAR:
		result.Base = Character
	case BOOL:
		result.Base = Boolean
	case VOID:
		result.Base = Void
	case STR:
		result.Base = String
	}

	for p.lookahead.TokenType == MULOP && p.lookahead.Lexeme == "*" {
		p.matchToken(MULOP)
		result.Pointer = true
	}

	if allowDims {
		for {
			if _, ok := p.matchToken(LBRACKET); !ok {
				break
			}
			length, err := p.parseIntValue()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(RBRACKET, "]"); err != nil {
				return nil, err
			}
			result.Dims = append(result.Dims, length)
		}
	}

	return result, nil
}
