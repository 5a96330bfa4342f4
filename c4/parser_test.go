package c4

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parseExpr parses a single expression statement and returns its
// expression.
func parseExpr(t *testing.T, source string) Expression {
	t.Helper()
	program, err := Parse(source)
	require.NoError(t, err)
	require.Len(t, program, 1)
	statement, ok := program[0].(*ExpressionStatement)
	require.True(t, ok, "expected an expression statement, got %T", program[0])
	return statement.Value
}

func TestParser_Precedence(t *testing.T) {
	expr := parseExpr(t, "2 + 3 * 4;")

	sum, ok := expr.(*Binary)
	require.True(t, ok)
	assert.Equal(t, Add, sum.Operator)
	assert.Equal(t, int64(2), sum.LHS.(*IntLiteral).Value)

	product, ok := sum.RHS.(*Binary)
	require.True(t, ok)
	assert.Equal(t, Multiply, product.Operator)
	assert.Equal(t, int64(3), product.LHS.(*IntLiteral).Value)
	assert.Equal(t, int64(4), product.RHS.(*IntLiteral).Value)
}

func TestParser_LeftAssociativity(t *testing.T) {
	expr := parseExpr(t, "10 - 2 - 3;")

	outer, ok := expr.(*Binary)
	require.True(t, ok)
	assert.Equal(t, Subtract, outer.Operator)
	assert.Equal(t, int64(3), outer.RHS.(*IntLiteral).Value)

	inner, ok := outer.LHS.(*Binary)
	require.True(t, ok)
	assert.Equal(t, Subtract, inner.Operator)
	assert.Equal(t, int64(10), inner.LHS.(*IntLiteral).Value)
	assert.Equal(t, int64(2), inner.RHS.(*IntLiteral).Value)
}

func TestParser_Grouping(t *testing.T) {
	expr := parseExpr(t, "(2 + 3) * 4;")

	product, ok := expr.(*Binary)
	require.True(t, ok)
	assert.Equal(t, Multiply, product.Operator)

	sum, ok := product.LHS.(*Binary)
	require.True(t, ok)
	assert.Equal(t, Add, sum.Operator)
}

func TestParser_BitwiseChain(t *testing.T) {
	// | binds looser than ^, which binds looser than &.
	expr := parseExpr(t, "1 | 2 ^ 3 & 4;")

	or, ok := expr.(*Binary)
	require.True(t, ok)
	assert.Equal(t, BitOr, or.Operator)

	xor, ok := or.RHS.(*Binary)
	require.True(t, ok)
	assert.Equal(t, BitXor, xor.Operator)

	and, ok := xor.RHS.(*Binary)
	require.True(t, ok)
	assert.Equal(t, BitAnd, and.Operator)
}

func TestParser_Ternary(t *testing.T) {
	expr := parseExpr(t, "a ? b : c ? d : e;")

	outer, ok := expr.(*Ternary)
	require.True(t, ok)
	assert.Equal(t, "a", outer.Condition.(*Variable).Name)
	assert.Equal(t, "b", outer.ThenBranch.(*Variable).Name)

	inner, ok := outer.ElseBranch.(*Ternary)
	require.True(t, ok)
	assert.Equal(t, "c", inner.Condition.(*Variable).Name)
}

func TestParser_AssignmentRightAssociative(t *testing.T) {
	expr := parseExpr(t, "a = b = 1;")

	outer, ok := expr.(*Assign)
	require.True(t, ok)
	assert.Equal(t, "a", outer.Target.(*Variable).Name)

	inner, ok := outer.Value.(*Assign)
	require.True(t, ok)
	assert.Equal(t, "b", inner.Target.(*Variable).Name)
}

func TestParser_LetBindings(t *testing.T) {
	program, err := Parse("let x = 1, y, s: str = \"hi\";")
	require.NoError(t, err)
	require.Len(t, program, 1)

	let, ok := program[0].(*Let)
	require.True(t, ok)
	require.Len(t, let.Bindings, 3)

	assert.Equal(t, "x", let.Bindings[0].Name)
	assert.NotNil(t, let.Bindings[0].Value)

	assert.Equal(t, "y", let.Bindings[1].Name)
	assert.Nil(t, let.Bindings[1].Value)

	assert.Equal(t, "s", let.Bindings[2].Name)
	assert.Equal(t, String, let.Bindings[2].Type.Base)
}

func TestParser_TypedDeclaration(t *testing.T) {
	program, err := Parse("int* p = 0;")
	require.NoError(t, err)
	require.Len(t, program, 1)

	let, ok := program[0].(*Let)
	require.True(t, ok)
	require.Len(t, let.Bindings, 1)
	assert.Equal(t, "p", let.Bindings[0].Name)
	assert.Equal(t, Integer, let.Bindings[0].Type.Base)
	assert.True(t, let.Bindings[0].Type.Pointer)
}

func TestParser_FunctionDecl(t *testing.T) {
	program, err := Parse("int add(int a, b) { return a + b; }")
	require.NoError(t, err)
	require.Len(t, program, 1)

	function, ok := program[0].(*FunctionDecl)
	require.True(t, ok)
	assert.Equal(t, "add", function.Name)
	assert.Equal(t, Integer, function.ReturnType.Base)
	require.Len(t, function.Params, 2)
	assert.Equal(t, "a", function.Params[0].Name)
	assert.Equal(t, "b", function.Params[1].Name)
	require.Len(t, function.Body.Statements, 1)
}

// The semicolon after return may be omitted when a closing brace follows.
func TestParser_ReturnBeforeClosingBrace(t *testing.T) {
	program, err := Parse("int f() { return 1 }")
	require.NoError(t, err)

	function := program[0].(*FunctionDecl)
	ret := function.Body.Statements[0].(*ReturnStatement)
	assert.NotNil(t, ret.Value)

	program, err = Parse("void f() { return }")
	require.NoError(t, err)

	function = program[0].(*FunctionDecl)
	ret = function.Body.Statements[0].(*ReturnStatement)
	assert.Nil(t, ret.Value)
}

func TestParser_EnumAutoIncrement(t *testing.T) {
	program, err := Parse("enum { A = 1, B, C = 10, D };")
	require.NoError(t, err)
	require.Len(t, program, 1)

	enum, ok := program[0].(*EnumDecl)
	require.True(t, ok)
	require.Len(t, enum.Members, 4)
	assert.Equal(t, EnumMember{"A", 1}, enum.Members[0])
	assert.Equal(t, EnumMember{"B", 2}, enum.Members[1])
	assert.Equal(t, EnumMember{"C", 10}, enum.Members[2])
	assert.Equal(t, EnumMember{"D", 11}, enum.Members[3])
}

func TestParser_EnumImplicitStart(t *testing.T) {
	program, err := Parse("enum { A, B };")
	require.NoError(t, err)

	enum := program[0].(*EnumDecl)
	assert.Equal(t, int64(0), enum.Members[0].Value)
	assert.Equal(t, int64(1), enum.Members[1].Value)
}

func TestParser_PointerExpressions(t *testing.T) {
	expr := parseExpr(t, "*p = &x;")

	assign, ok := expr.(*Assign)
	require.True(t, ok)

	deref, ok := assign.Target.(*Deref)
	require.True(t, ok)
	assert.Equal(t, "p", deref.Operand.(*Variable).Name)

	addr, ok := assign.Value.(*AddressOf)
	require.True(t, ok)
	assert.Equal(t, "x", addr.Operand.(*Variable).Name)
}

func TestParser_Cast(t *testing.T) {
	expr := parseExpr(t, "(char) n;")

	cast, ok := expr.(*Cast)
	require.True(t, ok)
	assert.Equal(t, Character, cast.Target.Base)
	assert.Equal(t, "n", cast.Operand.(*Variable).Name)
}

func TestParser_GroupedExpressionIsNotACast(t *testing.T) {
	expr := parseExpr(t, "(n);")

	_, ok := expr.(*Variable)
	assert.True(t, ok)
}

func TestParser_ArrayLiterals(t *testing.T) {
	for _, source := range []string{"let a = [1, 2, 3];", "let a = {1, 2, 3};"} {
		program, err := Parse(source)
		require.NoError(t, err, source)

		let := program[0].(*Let)
		literal, ok := let.Bindings[0].Value.(*ArrayLiteral)
		require.True(t, ok, source)
		assert.Len(t, literal.Elements, 3, source)
	}
}

func TestParser_IndexChain(t *testing.T) {
	expr := parseExpr(t, "m[1][2];")

	outer, ok := expr.(*Index)
	require.True(t, ok)

	inner, ok := outer.Array.(*Index)
	require.True(t, ok)
	assert.Equal(t, "m", inner.Array.(*Variable).Name)
}

func TestParser_SizeOfType(t *testing.T) {
	expr := parseExpr(t, "sizeof(int[3]);")

	size, ok := expr.(*SizeOf)
	require.True(t, ok)
	require.NotNil(t, size.Type)
	assert.Equal(t, Integer, size.Type.Base)
	assert.Equal(t, []int64{3}, size.Type.Dims)
}

func TestParser_SizeOfExpression(t *testing.T) {
	expr := parseExpr(t, "sizeof(x + 1);")

	size, ok := expr.(*SizeOf)
	require.True(t, ok)
	assert.Nil(t, size.Type)
	assert.NotNil(t, size.Operand)
}

func TestParser_IncDec(t *testing.T) {
	prefix := parseExpr(t, "++i;").(*IncDec)
	assert.True(t, prefix.Prefix)
	assert.False(t, prefix.Decrement)

	postfix := parseExpr(t, "i--;").(*IncDec)
	assert.False(t, postfix.Prefix)
	assert.True(t, postfix.Decrement)
}

func TestParser_PrintIsACall(t *testing.T) {
	expr := parseExpr(t, "print(1, \"two\");")

	call, ok := expr.(*Call)
	require.True(t, ok)
	assert.Equal(t, "print", call.Name)
	assert.Len(t, call.Args, 2)
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"missing semicolon", "let x = 1", "found EOF, expected ; at line 1, char 10"},
		{"bad let name", "let 5;", "found 5, expected ID at line 1, char 5"},
		{"call on literal", "3(1);", "called value is not a function name at line 1, char 2"},
		{"bad assignment target", "1 = 2;", "invalid assignment target at line 1, char 3"},
		{"dangling operator", "1 + ;", "found ;, expected expression at line 1, char 5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.source)
			require.Error(t, err)

			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, tt.want, parseErr.Error())
		})
	}
}

// The first error aborts the parse; nothing after it is reported.
func TestParser_StopsAtFirstError(t *testing.T) {
	_, err := Parse("let = 1;\nlet also broken;")
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 0, parseErr.Pos.Line)
}

func TestParser_SurfacesLexErrors(t *testing.T) {
	_, err := Parse("let x = $;")
	require.Error(t, err)

	var lexErr *LexError
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, '$', lexErr.Char)
}
