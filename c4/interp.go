package c4

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// addressScale converts a slot index into a simulated pointer address.
const addressScale = 1000

// Function represents a callable declared in the program. Re-declaring a
// name overwrites the previous entry in the function table.
type Function struct {
	Name       string
	Params     []Param
	Body       *Block
	ReturnType TypeRef
}

// slot is one storage location for a variable binding. Slots are assigned
// monotonically and never reused, so a stale pointer can be detected.
type slot struct {
	value Value
	live  bool
}

// signal is the evaluator's control signal: either fall through to the
// next statement, or unwind an in-flight return to the enclosing call.
type signal int

const (
	sigNone signal = iota
	sigReturn
)

// Interp is the tree-walking evaluator. It owns the scope stack, the slot
// arena backing the simulated address model, and the global function and
// enum-constant tables. A fresh Interp is fully isolated from other runs.
type Interp struct {
	// Output receives everything the interpreted program prints.
	Output io.Writer

	scopes    []map[string]int
	slots     []slot
	functions map[string]*Function
	enums     map[string]int64
}

// NewInterp returns a new instance of Interp writing to stdout.
func NewInterp() *Interp {
	return &Interp{
		Output:    os.Stdout,
		scopes:    []map[string]int{{}},
		functions: map[string]*Function{},
		enums:     map[string]int64{},
	}
}

// Run executes the top-level statements in order and returns the program
// result: the value of the first top-level return, or void.
func (in *Interp) Run(statements []Statement) (Value, error) {
	for _, statement := range statements {
		sig, result, err := in.execute(statement)
		if err != nil {
			return VoidVal(), err
		}
		if sig == sigReturn {
			return result, nil
		}
	}

	return VoidVal(), nil
}

// pushScope opens a new innermost scope.
func (in *Interp) pushScope() {
	in.scopes = append(in.scopes, map[string]int{})
}

// popScope destroys the innermost scope and marks its slots dead, so
// pointers into it fail instead of reading stale storage.
func (in *Interp) popScope() {
	top := in.scopes[len(in.scopes)-1]
	for _, index := range top {
		in.slots[index].live = false
	}
	in.scopes = in.scopes[:len(in.scopes)-1]
}

// declare creates a new slot for name in the current scope.
func (in *Interp) declare(name string, value Value) int {
	index := len(in.slots)
	in.slots = append(in.slots, slot{value: value, live: true})
	in.scopes[len(in.scopes)-1][name] = index
	return index
}

// lookup finds the slot of the nearest enclosing binding of name.
func (in *Interp) lookup(name string) (int, bool) {
	for i := len(in.scopes) - 1; i >= 0; i-- {
		if index, ok := in.scopes[i][name]; ok {
			return index, true
		}
	}
	return 0, false
}

// execute runs a single statement and reports whether a return is
// unwinding, together with the returned value.
func (in *Interp) execute(statement Statement) (signal, Value, error) {
	switch s := statement.(type) {
	case *Let:
		return in.executeLet(s)
	case *ExpressionStatement:
		_, err := in.Eval(s.Value)
		return sigNone, Value{}, err
	case *IfStatement:
		return in.executeIf(s)
	case *WhileStatement:
		return in.executeWhile(s)
	case *ReturnStatement:
		return in.executeReturn(s)
	case *Block:
		return in.executeBlock(s)
	case *FunctionDecl:
		in.functions[s.Name] = &Function{
			Name:       s.Name,
			Params:     s.Params,
			Body:       s.Body,
			ReturnType: s.ReturnType,
		}
		return sigNone, Value{}, nil
	case *EnumDecl:
		for _, member := range s.Members {
			in.enums[member.Name] = member.Value
		}
		return sigNone, Value{}, nil
	}

	return sigNone, Value{}, nil
}

// executeLet binds each name in the current scope. Re-declaring a name in
// the same scope updates its existing slot; in an inner scope it creates a
// distinct shadowing binding.
func (in *Interp) executeLet(s *Let) (signal, Value, error) {
	for _, binding := range s.Bindings {
		value := typeZero(binding.Type)
		if binding.Value != nil {
			v, err := in.Eval(binding.Value)
			if err != nil {
				return sigNone, Value{}, err
			}
			value = v.Clone()
		}

		if index, ok := in.scopes[len(in.scopes)-1][binding.Name]; ok {
			in.slots[index].value = value
			in.slots[index].live = true
		} else {
			in.declare(binding.Name, value)
		}
	}

	return sigNone, Value{}, nil
}

func (in *Interp) executeIf(s *IfStatement) (signal, Value, error) {
	condition, err := in.Eval(s.Condition)
	if err != nil {
		return sigNone, Value{}, err
	}

	if condition.Truthy() {
		return in.execute(s.IfBranch)
	}
	if s.ElseBranch != nil {
		return in.execute(s.ElseBranch)
	}

	return sigNone, Value{}, nil
}

// executeWhile re-evaluates the condition before every iteration and
// propagates a return raised inside the body immediately.
func (in *Interp) executeWhile(s *WhileStatement) (signal, Value, error) {
	for {
		condition, err := in.Eval(s.Condition)
		if err != nil {
			return sigNone, Value{}, err
		}
		if !condition.Truthy() {
			return sigNone, Value{}, nil
		}

		sig, result, err := in.execute(s.Body)
		if err != nil {
			return sigNone, Value{}, err
		}
		if sig == sigReturn {
			return sig, result, nil
		}
	}
}

// executeReturn evaluates the optional return value; a bare return yields
// int 0.
func (in *Interp) executeReturn(s *ReturnStatement) (signal, Value, error) {
	if s.Value == nil {
		return sigReturn, IntVal(0), nil
	}

	result, err := in.Eval(s.Value)
	if err != nil {
		return sigNone, Value{}, err
	}
	return sigReturn, result, nil
}

// executeBlock runs the statements in a fresh scope. The scope is popped
// unconditionally, including when a return unwinds out of the block.
func (in *Interp) executeBlock(s *Block) (signal, Value, error) {
	in.pushScope()
	defer in.popScope()

	for _, statement := range s.Statements {
		sig, result, err := in.execute(statement)
		if err != nil {
			return sigNone, Value{}, err
		}
		if sig == sigReturn {
			return sig, result, nil
		}
	}

	return sigNone, Value{}, nil
}

// Eval evaluates an expression to a value.
func (in *Interp) Eval(expression Expression) (Value, error) {
	switch e := expression.(type) {
	case *IntLiteral:
		return IntVal(e.Value), nil
	case *CharLiteral:
		return CharVal(int64(e.Value)), nil
	case *BoolLiteral:
		return BoolVal(e.Value), nil
	case *StringLiteral:
		return StrVal(e.Value), nil
	case *Variable:
		return in.evalVariable(e)
	case *Unary:
		return in.evalUnary(e)
	case *Binary:
		return in.evalBinary(e)
	case *Ternary:
		return in.evalTernary(e)
	case *Assign:
		return in.evalAssign(e)
	case *Call:
		return in.evalCall(e)
	case *Index:
		return in.evalIndex(e)
	case *AddressOf:
		return in.evalAddressOf(e)
	case *Deref:
		return in.evalDeref(e)
	case *IncDec:
		return in.evalIncDec(e)
	case *Cast:
		return in.evalCast(e)
	case *SizeOf:
		return in.evalSizeOf(e)
	case *ArrayLiteral:
		return in.evalArrayLiteral(e)
	}

	return Value{}, newRuntimeError(TypeMismatch, Position{}, "unsupported expression")
}

func (in *Interp) evalVariable(e *Variable) (Value, error) {
	if index, ok := in.lookup(e.Name); ok {
		return in.slots[index].value.Clone(), nil
	}
	if value, ok := in.enums[e.Name]; ok {
		return IntVal(value), nil
	}
	return Value{}, newRuntimeError(UndefinedVariable, e.Position, "variable %q is not defined", e.Name)
}

func (in *Interp) evalUnary(e *Unary) (Value, error) {
	operand, err := in.Eval(e.Operand)
	if err != nil {
		return Value{}, err
	}

	switch e.Operator {
	case Not:
		if operand.IsNumeric() {
			if operand.N == 0 {
				return IntVal(1), nil
			}
			return IntVal(0), nil
		}
		if operand.Kind == StrValue {
			return IntVal(0), nil
		}
		return Value{}, newRuntimeError(TypeMismatch, e.Position, "cannot apply %q to %s", "!", operand.Kind)

	case Negate:
		if operand.IsNumeric() {
			return IntVal(-operand.N), nil
		}
		return Value{}, newRuntimeError(TypeMismatch, e.Position, "cannot negate %s", operand.Kind)
	}

	return Value{}, newRuntimeError(TypeMismatch, e.Position, "unsupported unary operator %q", e.Operator)
}

// evalBinary evaluates both operands left to right and applies the
// operator. Numeric kinds (int, char, bool, pointer) all compute as
// integers; strings support +, == and !=.
func (in *Interp) evalBinary(e *Binary) (Value, error) {
	lhs, err := in.Eval(e.LHS)
	if err != nil {
		return Value{}, err
	}
	rhs, err := in.Eval(e.RHS)
	if err != nil {
		return Value{}, err
	}

	if lhs.IsNumeric() && rhs.IsNumeric() {
		return in.evalNumericBinary(e, lhs.N, rhs.N)
	}

	if lhs.Kind == StrValue && rhs.Kind == StrValue {
		switch e.Operator {
		case Add:
			return StrVal(lhs.Str + rhs.Str), nil
		case EqualTo:
			return boolToInt(lhs.Str == rhs.Str), nil
		case NotEqualTo:
			return boolToInt(lhs.Str != rhs.Str), nil
		}
		return Value{}, newRuntimeError(TypeMismatch, e.Position, "unsupported string operation %q", e.Operator)
	}

	return Value{}, newRuntimeError(TypeMismatch, e.Position,
		"mismatched operand types %s and %s for %q", lhs.Kind, rhs.Kind, e.Operator)
}

func (in *Interp) evalNumericBinary(e *Binary, l, r int64) (Value, error) {
	switch e.Operator {
	case Add:
		return IntVal(l + r), nil
	case Subtract:
		return IntVal(l - r), nil
	case Multiply:
		return IntVal(l * r), nil
	case Divide:
		if r == 0 {
			return Value{}, newRuntimeError(DivisionByZero, e.Position, "cannot divide %d by zero", l)
		}
		return IntVal(l / r), nil
	case Modulo:
		if r == 0 {
			return Value{}, newRuntimeError(DivisionByZero, e.Position, "cannot take %d modulo zero", l)
		}
		return IntVal(l % r), nil
	case EqualTo:
		return boolToInt(l == r), nil
	case NotEqualTo:
		return boolToInt(l != r), nil
	case LessThan:
		return boolToInt(l < r), nil
	case GreaterThan:
		return boolToInt(l > r), nil
	case LessThanOrEqualTo:
		return boolToInt(l <= r), nil
	case GreaterThanOrEqualTo:
		return boolToInt(l >= r), nil
	case LogicalAnd:
		return boolToInt(l != 0 && r != 0), nil
	case LogicalOr:
		return boolToInt(l != 0 || r != 0), nil
	case BitAnd:
		return IntVal(l & r), nil
	case BitOr:
		return IntVal(l | r), nil
	case BitXor:
		return IntVal(l ^ r), nil
	case ShiftLeft, ShiftRight:
		if r < 0 {
			return Value{}, newRuntimeError(TypeMismatch, e.Position, "negative shift count %d", r)
		}
		if e.Operator == ShiftLeft {
			return IntVal(l << uint(r)), nil
		}
		return IntVal(l >> uint(r)), nil
	}

	return Value{}, newRuntimeError(TypeMismatch, e.Position, "unsupported operator %q", e.Operator)
}

func (in *Interp) evalTernary(e *Ternary) (Value, error) {
	condition, err := in.Eval(e.Condition)
	if err != nil {
		return Value{}, err
	}

	if condition.Truthy() {
		return in.Eval(e.ThenBranch)
	}
	return in.Eval(e.ElseBranch)
}

// evalAssign stores through a variable, array element or dereference.
// Assigning to a visible variable mutates the nearest enclosing binding;
// assigning to an unknown name creates it in the current scope.
func (in *Interp) evalAssign(e *Assign) (Value, error) {
	value, err := in.Eval(e.Value)
	if err != nil {
		return Value{}, err
	}

	switch target := e.Target.(type) {
	case *Variable:
		if index, ok := in.lookup(target.Name); ok {
			in.slots[index].value = value.Clone()
		} else {
			in.declare(target.Name, value.Clone())
		}
		return value, nil

	case *Index:
		if err := in.storeElement(target, value.Clone()); err != nil {
			return Value{}, err
		}
		return value, nil

	case *Deref:
		pointer, err := in.Eval(target.Operand)
		if err != nil {
			return Value{}, err
		}
		index, err := in.pointerSlot(pointer, target.Position)
		if err != nil {
			return Value{}, err
		}
		in.slots[index].value = value.Clone()
		return value, nil
	}

	return Value{}, newRuntimeError(TypeMismatch, e.Position, "assignment target is not assignable")
}

// storeElement writes one array element in place, resolving a possibly
// nested index chain down to a variable or dereferenced slot. All index
// expressions are evaluated before the slot storage is touched.
func (in *Interp) storeElement(target *Index, value Value) error {
	// Collect the index chain outermost-last.
	indices := []int64{}
	positions := []Position{}
	base := Expression(target)
	for {
		idx, ok := base.(*Index)
		if !ok {
			break
		}
		n, err := in.Eval(idx.Index)
		if err != nil {
			return err
		}
		if !n.IsNumeric() {
			return newRuntimeError(TypeMismatch, idx.Position, "array index must be an integer, got %s", n.Kind)
		}
		indices = append([]int64{n.N}, indices...)
		positions = append([]Position{idx.Position}, positions...)
		base = idx.Array
	}

	var slotIndex int
	switch b := base.(type) {
	case *Variable:
		index, ok := in.lookup(b.Name)
		if !ok {
			return newRuntimeError(UndefinedVariable, b.Position, "variable %q is not defined", b.Name)
		}
		slotIndex = index
	case *Deref:
		pointer, err := in.Eval(b.Operand)
		if err != nil {
			return err
		}
		index, err := in.pointerSlot(pointer, b.Position)
		if err != nil {
			return err
		}
		slotIndex = index
	default:
		return newRuntimeError(TypeMismatch, target.Position, "indexed assignment target must be a variable")
	}

	current := &in.slots[slotIndex].value
	for i, n := range indices {
		if current.Kind != ArrayValue {
			return newRuntimeError(TypeMismatch, positions[i], "cannot index %s", current.Kind)
		}
		if n < 0 || n >= int64(len(current.Elems)) {
			return newRuntimeError(IndexOutOfBounds, positions[i],
				"array index %d out of bounds (length %d)", n, len(current.Elems))
		}
		current = &current.Elems[n]
	}

	*current = value
	return nil
}

// evalCall dispatches the print builtin or invokes a declared function.
// Arguments are evaluated left to right in the caller's scope before the
// callee's parameter scope is pushed.
func (in *Interp) evalCall(e *Call) (Value, error) {
	if e.Name == "print" {
		return in.evalPrint(e)
	}

	function, ok := in.functions[e.Name]
	if !ok {
		return Value{}, newRuntimeError(UndefinedFunction, e.Position, "function %q is not defined", e.Name)
	}

	if len(e.Args) != len(function.Params) {
		return Value{}, newRuntimeError(ArityMismatch, e.Position,
			"function %q expects %d arguments, got %d", e.Name, len(function.Params), len(e.Args))
	}

	args := make([]Value, len(e.Args))
	for i, arg := range e.Args {
		value, err := in.Eval(arg)
		if err != nil {
			return Value{}, err
		}
		args[i] = value
	}

	in.pushScope()
	defer in.popScope()

	for i, param := range function.Params {
		in.declare(param.Name, args[i].Clone())
	}

	sig, result, err := in.execute(function.Body)
	if err != nil {
		return Value{}, err
	}
	if sig == sigReturn {
		return result, nil
	}
	return VoidVal(), nil
}

// evalPrint formats each argument per its runtime kind and writes one
// line to the configured output.
func (in *Interp) evalPrint(e *Call) (Value, error) {
	parts := make([]string, len(e.Args))
	for i, arg := range e.Args {
		value, err := in.Eval(arg)
		if err != nil {
			return Value{}, err
		}
		parts[i] = value.String()
	}

	fmt.Fprintln(in.Output, strings.Join(parts, " "))
	return VoidVal(), nil
}

func (in *Interp) evalIndex(e *Index) (Value, error) {
	array, err := in.Eval(e.Array)
	if err != nil {
		return Value{}, err
	}
	index, err := in.Eval(e.Index)
	if err != nil {
		return Value{}, err
	}

	if !index.IsNumeric() {
		return Value{}, newRuntimeError(TypeMismatch, e.Position, "array index must be an integer, got %s", index.Kind)
	}
	if array.Kind != ArrayValue {
		return Value{}, newRuntimeError(TypeMismatch, e.Position, "cannot index %s", array.Kind)
	}
	if index.N < 0 || index.N >= int64(len(array.Elems)) {
		return Value{}, newRuntimeError(IndexOutOfBounds, e.Position,
			"array index %d out of bounds (length %d)", index.N, len(array.Elems))
	}

	return array.Elems[index.N].Clone(), nil
}

// evalAddressOf produces the simulated address of a variable: its slot
// index scaled by 1000.
func (in *Interp) evalAddressOf(e *AddressOf) (Value, error) {
	variable, ok := e.Operand.(*Variable)
	if !ok {
		return Value{}, newRuntimeError(TypeMismatch, e.Position, "can only take the address of a variable")
	}

	index, found := in.lookup(variable.Name)
	if !found {
		return Value{}, newRuntimeError(UndefinedVariable, variable.Position, "variable %q is not defined", variable.Name)
	}

	return PtrVal(int64(index) * addressScale), nil
}

func (in *Interp) evalDeref(e *Deref) (Value, error) {
	pointer, err := in.Eval(e.Operand)
	if err != nil {
		return Value{}, err
	}

	index, err := in.pointerSlot(pointer, e.Position)
	if err != nil {
		return Value{}, err
	}
	return in.slots[index].value.Clone(), nil
}

// pointerSlot validates a pointer value and recovers the slot index it
// names. The address must be an exact multiple of 1000 naming a live slot.
func (in *Interp) pointerSlot(pointer Value, pos Position) (int, error) {
	if pointer.Kind != PointerValue {
		return 0, newRuntimeError(InvalidPointer, pos, "cannot dereference %s", pointer.Kind)
	}
	if pointer.N%addressScale != 0 {
		return 0, newRuntimeError(InvalidPointer, pos, "address %d is not a valid simulated address", pointer.N)
	}

	index := pointer.N / addressScale
	if index < 0 || index >= int64(len(in.slots)) || !in.slots[index].live {
		return 0, newRuntimeError(InvalidPointer, pos, "address %d does not name a live slot", pointer.N)
	}

	return int(index), nil
}

// evalIncDec applies ++/-- to a variable through its nearest enclosing
// binding, returning the new value (prefix) or the original (postfix).
func (in *Interp) evalIncDec(e *IncDec) (Value, error) {
	variable, ok := e.Operand.(*Variable)
	if !ok {
		op := "++"
		if e.Decrement {
			op = "--"
		}
		return Value{}, newRuntimeError(TypeMismatch, e.Position, "%s requires a variable", op)
	}

	index, found := in.lookup(variable.Name)
	if !found {
		return Value{}, newRuntimeError(UndefinedVariable, e.Position, "variable %q is not defined", variable.Name)
	}

	original := in.slots[index].value
	if !original.IsNumeric() {
		return Value{}, newRuntimeError(TypeMismatch, e.Position, "cannot increment %s", original.Kind)
	}

	delta := int64(1)
	if e.Decrement {
		delta = -1
	}
	updated := original
	updated.N += delta
	in.slots[index].value = updated

	if e.Prefix {
		return updated, nil
	}
	return original, nil
}

// evalCast reinterprets the numeric representation without changing any
// addressed slot. Casting a string to a numeric type yields zero.
func (in *Interp) evalCast(e *Cast) (Value, error) {
	operand, err := in.Eval(e.Operand)
	if err != nil {
		return Value{}, err
	}

	if len(e.Target.Dims) > 0 {
		return Value{}, newRuntimeError(TypeMismatch, e.Position, "cannot cast to an array type")
	}

	if e.Target.Pointer {
		if operand.IsNumeric() {
			return PtrVal(operand.N), nil
		}
		return Value{}, newRuntimeError(TypeMismatch, e.Position, "cannot cast %s to a pointer", operand.Kind)
	}

	switch e.Target.Base {
	case Integer:
		if operand.IsNumeric() {
			return IntVal(operand.N), nil
		}
		if operand.Kind == StrValue {
			return IntVal(0), nil
		}
	case Character:
		if operand.IsNumeric() {
			return CharVal(operand.N & 0xFF), nil
		}
		if operand.Kind == StrValue {
			return CharVal(0), nil
		}
	case Boolean:
		if operand.IsNumeric() {
			return BoolVal(operand.N != 0), nil
		}
		if operand.Kind == StrValue {
			return BoolVal(false), nil
		}
	case String:
		if operand.Kind == StrValue {
			return operand, nil
		}
	}

	return Value{}, newRuntimeError(TypeMismatch, e.Position, "unsupported cast of %s", operand.Kind)
}

// evalSizeOf returns the fixed byte size of a type or of an expression's
// runtime value: int=4, char=1, bool=1, str=8, pointer=8, arrays scale by
// length.
func (in *Interp) evalSizeOf(e *SizeOf) (Value, error) {
	if e.Type != nil {
		if len(e.Type.Dims) > 1 {
			return Value{}, newRuntimeError(TypeMismatch, e.Position, "nested arrays are not supported in sizeof")
		}

		size := primitiveSize(*e.Type)
		if len(e.Type.Dims) == 1 {
			size *= e.Type.Dims[0]
		}
		return IntVal(size), nil
	}

	operand, err := in.Eval(e.Operand)
	if err != nil {
		return Value{}, err
	}
	return IntVal(valueSize(operand)), nil
}

func (in *Interp) evalArrayLiteral(e *ArrayLiteral) (Value, error) {
	elements := make([]Value, len(e.Elements))
	for i, element := range e.Elements {
		value, err := in.Eval(element)
		if err != nil {
			return Value{}, err
		}
		elements[i] = value
	}

	return ArrayVal(elements), nil
}

// primitiveSize returns the byte size of a non-array type reference.
func primitiveSize(t TypeRef) int64 {
	if t.Pointer {
		return 8
	}
	switch t.Base {
	case Integer:
		return 4
	case Character, Boolean:
		return 1
	case String:
		return 8
	}
	return 0
}

// valueSize returns the byte size of a runtime value's representation.
func valueSize(v Value) int64 {
	switch v.Kind {
	case IntValue:
		return 4
	case CharValue, BoolValue:
		return 1
	case StrValue, PointerValue:
		return 8
	case ArrayValue:
		if len(v.Elems) == 0 {
			return 0
		}
		return valueSize(v.Elems[0]) * int64(len(v.Elems))
	}
	return 0
}

// typeZero returns the zero value of a declared type, used when a binding
// has no initializer.
func typeZero(t TypeRef) Value {
	if t.Pointer {
		return PtrVal(0)
	}
	switch t.Base {
	case Character:
		return CharVal(0)
	case Boolean:
		return BoolVal(false)
	case String:
		return StrVal("")
	}
	return IntVal(0)
}

// boolToInt converts a comparison result to the language's 0/1 ints.
func boolToInt(b bool) Value {
	if b {
		return IntVal(1)
	}
	return IntVal(0)
}
