package c4

// DataType represents the primitive data types available in C4.
type DataType int

const (
	// Unknown primitive data type.
	Unknown DataType = iota
	// Integer means the data type is an int.
	Integer
	// Character means the data type is a char.
	Character
	// Boolean means the data type is a bool.
	Boolean
	// String means the data type is a str.
	String
	// Void means the absence of a value.
	Void
)

// TypeRef describes a parsed type: a primitive base, optional pointer
// indirection, and optional array dimensions (e.g. int, char*, int[3]).
type TypeRef struct {
	Base    DataType
	Pointer bool
	Dims    []int64
}

// Operator represents a boolean, bitwise or arithmetic operator in C4.
type Operator int

// Types of operators
const (
	Add                  Operator = iota // +
	Subtract                             // -
	Multiply                             // *
	Divide                               // /
	Modulo                               // %
	EqualTo                              // ==
	NotEqualTo                           // !=
	GreaterThan                          // >
	LessThan                             // <
	GreaterThanOrEqualTo                 // >=
	LessThanOrEqualTo                    // <=
	LogicalAnd                           // &&
	LogicalOr                            // ||
	Not                                  // !
	BitAnd                               // &
	BitOr                                // |
	BitXor                               // ^
	ShiftLeft                            // <<
	ShiftRight                           // >>
	Negate                               // unary -
)

var operatorNames = [...]string{
	Add:                  "+",
	Subtract:             "-",
	Multiply:             "*",
	Divide:               "/",
	Modulo:               "%",
	EqualTo:              "==",
	NotEqualTo:           "!=",
	GreaterThan:          ">",
	LessThan:             "<",
	GreaterThanOrEqualTo: ">=",
	LessThanOrEqualTo:    "<=",
	LogicalAnd:           "&&",
	LogicalOr:            "||",
	Not:                  "!",
	BitAnd:               "&",
	BitOr:                "|",
	BitXor:               "^",
	ShiftLeft:            "<<",
	ShiftRight:           ">>",
	Negate:               "-",
}

// String returns the source form of the operator.
func (op Operator) String() string {
	if op >= 0 && op < Operator(len(operatorNames)) {
		return operatorNames[op]
	}
	return ""
}

// Node represents a node in the C4 abstract syntax tree.
type Node interface {
	// node is unexported to ensure implementations of Node
	// can only originate in this package.
	node()
}

// Statement represents a single command in C4.
type Statement interface {
	Node
	// statement is unexported to ensure implementations of Statement
	// can only originate in this package.
	statement()
}

// Expression is a combination of literals, variables and operators that
// can be evaluated to a value.
type Expression interface {
	Node
	// expression is unexported to ensure implementations of Expression
	// can only originate in this package.
	expression()
}

// LetBinding is a single (name, optional initializer) pair in a Let
// statement. A nil Value leaves the variable zero-initialized.
type LetBinding struct {
	Name  string
	Type  TypeRef
	Value Expression
}

// Let declares one or more variables in the current scope,
// e.g: let x = 1, y = 2;
type Let struct {
	Bindings []LetBinding
	Position Position
}

// ExpressionStatement evaluates an expression for its effect,
// e.g: print(x); or x = 5;
type ExpressionStatement struct {
	Value    Expression
	Position Position
}

// IfStatement represents a conditional command. The else branch is optional;
// "else if" chains are realized as a nested IfStatement in ElseBranch.
type IfStatement struct {
	Condition  Expression
	IfBranch   Statement
	ElseBranch Statement
	Position   Position
}

// WhileStatement is a control flow statement that allows code to be executed
// repeatedly based on a given condition.
type WhileStatement struct {
	Condition Expression
	Body      Statement
	Position  Position
}

// ReturnStatement returns from the enclosing function call, or ends the
// program when executed at the top level. A nil Value yields int 0.
type ReturnStatement struct {
	Value    Expression
	Position Position
}

// Block represents a brace-delimited list of statements. It introduces a
// new lexical scope when executed.
type Block struct {
	Statements []Statement
	Position   Position
}

// Param is a single function parameter. The type annotation is optional.
type Param struct {
	Name string
	Type TypeRef
}

// FunctionDecl declares a named function. Re-declaring a name overwrites
// the previous function.
type FunctionDecl struct {
	Name       string
	Params     []Param
	Body       *Block
	ReturnType TypeRef
	Position   Position
}

// EnumMember is a single enum constant. Value is resolved at parse time:
// either the explicit literal, or one greater than the previous member.
type EnumMember struct {
	Name  string
	Value int64
}

// EnumDecl declares a list of integer constants,
// e.g: enum { A = 1, B, C = 10 };
type EnumDecl struct {
	Members  []EnumMember
	Position Position
}

// IntLiteral is an expression that contains a single constant integer.
type IntLiteral struct {
	Value    int64
	Position Position
}

// CharLiteral is a single-quoted character constant.
type CharLiteral struct {
	Value    rune
	Position Position
}

// BoolLiteral is a true or false constant.
type BoolLiteral struct {
	Value    bool
	Position Position
}

// StringLiteral is a double-quoted string constant.
type StringLiteral struct {
	Value    string
	Position Position
}

// Variable is an expression that references a variable or enum constant.
type Variable struct {
	Name     string
	Position Position
}

// Unary is an expression with a prefix operator (! or unary -).
type Unary struct {
	Operator Operator
	Operand  Expression
	Position Position
}

// Binary is an expression that combines two operands with an infix operator.
type Binary struct {
	Operator Operator
	LHS      Expression
	RHS      Expression
	Position Position
}

// Ternary is the right-associative ?: conditional expression.
type Ternary struct {
	Condition  Expression
	ThenBranch Expression
	ElseBranch Expression
	Position   Position
}

// Assign stores a value through an assignable target: a variable, an array
// element, or a pointer dereference.
type Assign struct {
	Target   Expression
	Value    Expression
	Position Position
}

// Call invokes a function (or the print builtin) by name.
type Call struct {
	Name     string
	Args     []Expression
	Position Position
}

// Index selects one element of an array expression.
type Index struct {
	Array    Expression
	Index    Expression
	Position Position
}

// AddressOf produces the simulated address of a variable, e.g: &x.
type AddressOf struct {
	Operand  Expression
	Position Position
}

// Deref reads (or, as an assignment target, writes) through a simulated
// pointer, e.g: *p.
type Deref struct {
	Operand  Expression
	Position Position
}

// IncDec is a prefix or postfix ++/-- on a variable.
type IncDec struct {
	Operand   Expression
	Decrement bool
	Prefix    bool
	Position  Position
}

// Cast reinterprets a value as another primitive type, e.g: (int) x.
type Cast struct {
	Target   TypeRef
	Operand  Expression
	Position Position
}

// SizeOf yields the fixed byte size of a type or of an expression's value.
// Exactly one of Type and Operand is set.
type SizeOf struct {
	Type     *TypeRef
	Operand  Expression
	Position Position
}

// ArrayLiteral builds a fixed-length array value, e.g: [1, 2, 3].
type ArrayLiteral struct {
	Elements []Expression
	Position Position
}

func (*Let) node()                 {}
func (*ExpressionStatement) node() {}
func (*IfStatement) node()         {}
func (*WhileStatement) node()      {}
func (*ReturnStatement) node()     {}
func (*Block) node()               {}
func (*FunctionDecl) node()        {}
func (*EnumDecl) node()            {}
func (*IntLiteral) node()          {}
func (*CharLiteral) node()         {}
func (*BoolLiteral) node()         {}
func (*StringLiteral) node()       {}
func (*Variable) node()            {}
func (*Unary) node()               {}
func (*Binary) node()              {}
func (*Ternary) node()             {}
func (*Assign) node()              {}
func (*Call) node()                {}
func (*Index) node()               {}
func (*AddressOf) node()           {}
func (*Deref) node()               {}
func (*IncDec) node()              {}
func (*Cast) node()                {}
func (*SizeOf) node()              {}
func (*ArrayLiteral) node()        {}

func (*Let) statement()                 {}
func (*ExpressionStatement) statement() {}
func (*IfStatement) statement()         {}
func (*WhileStatement) statement()      {}
func (*ReturnStatement) statement()     {}
func (*Block) statement()               {}
func (*FunctionDecl) statement()        {}
func (*EnumDecl) statement()            {}

func (*IntLiteral) expression()    {}
func (*CharLiteral) expression()   {}
func (*BoolLiteral) expression()   {}
func (*StringLiteral) expression() {}
func (*Variable) expression()      {}
func (*Unary) expression()         {}
func (*Binary) expression()        {}
func (*Ternary) expression()       {}
func (*Assign) expression()        {}
func (*Call) expression()          {}
func (*Index) expression()         {}
func (*AddressOf) expression()     {}
func (*Deref) expression()         {}
func (*IncDec) expression()        {}
func (*Cast) expression()          {}
func (*SizeOf) expression()        {}
func (*ArrayLiteral) expression()  {}
