package runtime

import (
	"math"
	"math/big"

	"github.com/funvibe/aivi-core/internal/value"
)

// BinaryOp is binary_op (§4.1): native Int/Float/Bool arithmetic and
// comparison dispatch directly; BigInt operands route through math/big
// (grounded in the teacher's own math/big-backed numeric tower); anything
// the core has no native rule for falls back to a user-defined operator
// looked up as a global named "operator:<op>" and applied like any other
// two-argument function.
func (c *Context) BinaryOp(op string, lhs, rhs *value.Value) *value.Value {
	switch op {
	case "+", "-", "*", "/", "%", "**":
		return c.arithOp(op, lhs, rhs)
	case "==":
		return value.NewBool(value.Equals(lhs, rhs))
	case "!=":
		return value.NewBool(!value.Equals(lhs, rhs))
	case "<", "<=", ">", ">=":
		return c.compareOp(op, lhs, rhs)
	case "&&", "||":
		return c.boolOp(op, lhs, rhs)
	case "++":
		return c.concatOp(lhs, rhs)
	case "::":
		return c.consOp(lhs, rhs)
	default:
		return c.userDefinedOp(op, lhs, rhs)
	}
}

func (c *Context) arithOp(op string, lhs, rhs *value.Value) *value.Value {
	if lhs.Tag == value.BigInt || rhs.Tag == value.BigInt {
		return c.bigIntOp(op, lhs, rhs)
	}
	if lhs.Tag == value.Int && rhs.Tag == value.Int {
		return intOp(op, lhs.I, rhs.I)
	}
	lf, lok := toFloat(lhs)
	rf, rok := toFloat(rhs)
	if !lok || !rok {
		return value.NewError(value.TypeMismatch, "binary_op: operands are not numeric")
	}
	return floatOp(op, lf, rf)
}

func toFloat(v *value.Value) (float64, bool) {
	switch v.Tag {
	case value.Int:
		return float64(v.I), true
	case value.Float:
		return v.F, true
	default:
		return 0, false
	}
}

func intOp(op string, a, b int64) *value.Value {
	switch op {
	case "+":
		return value.NewInt(a + b)
	case "-":
		return value.NewInt(a - b)
	case "*":
		return value.NewInt(a * b)
	case "/":
		if b == 0 {
			return value.NewError(value.TypeMismatch, "binary_op: division by zero")
		}
		return value.NewInt(a / b)
	case "%":
		if b == 0 {
			return value.NewError(value.TypeMismatch, "binary_op: division by zero")
		}
		return value.NewInt(a % b)
	case "**":
		return value.NewFloat(math.Pow(float64(a), float64(b)))
	}
	return value.NewError(value.TypeMismatch, "binary_op: unsupported int operator "+op)
}

func floatOp(op string, a, b float64) *value.Value {
	switch op {
	case "+":
		return value.NewFloat(a + b)
	case "-":
		return value.NewFloat(a - b)
	case "*":
		return value.NewFloat(a * b)
	case "/":
		return value.NewFloat(a / b)
	case "%":
		return value.NewFloat(floatMod(a, b))
	case "**":
		return value.NewFloat(math.Pow(a, b))
	}
	return value.NewError(value.TypeMismatch, "binary_op: unsupported float operator "+op)
}

func floatMod(a, b float64) float64 {
	return math.Mod(a, b)
}

func (c *Context) bigIntOp(op string, lhs, rhs *value.Value) *value.Value {
	a, aok := bigFromValue(lhs)
	b, bok := bigFromValue(rhs)
	if !aok || !bok {
		return value.NewError(value.TypeMismatch, "binary_op: operands are not BigInt-compatible")
	}
	result := new(big.Int)
	switch op {
	case "+":
		result.Add(a, b)
	case "-":
		result.Sub(a, b)
	case "*":
		result.Mul(a, b)
	case "/":
		if b.Sign() == 0 {
			return value.NewError(value.TypeMismatch, "binary_op: division by zero")
		}
		result.Quo(a, b)
	case "%":
		if b.Sign() == 0 {
			return value.NewError(value.TypeMismatch, "binary_op: division by zero")
		}
		result.Rem(a, b)
	case "**":
		result.Exp(a, b, nil)
	default:
		return value.NewError(value.TypeMismatch, "binary_op: unsupported BigInt operator "+op)
	}
	return value.NewBigInt(result.String())
}

func bigFromValue(v *value.Value) (*big.Int, bool) {
	switch v.Tag {
	case value.BigInt:
		n, ok := new(big.Int).SetString(v.S, 10)
		return n, ok
	case value.Int:
		return big.NewInt(v.I), true
	default:
		return nil, false
	}
}

func (c *Context) compareOp(op string, lhs, rhs *value.Value) *value.Value {
	if lhs.Tag == value.BigInt || rhs.Tag == value.BigInt {
		a, aok := bigFromValue(lhs)
		b, bok := bigFromValue(rhs)
		if !aok || !bok {
			return value.NewError(value.TypeMismatch, "binary_op: operands are not comparable")
		}
		return value.NewBool(compareResult(op, a.Cmp(b)))
	}
	lf, lok := toFloat(lhs)
	rf, rok := toFloat(rhs)
	if !lok || !rok {
		return value.NewError(value.TypeMismatch, "binary_op: operands are not comparable")
	}
	switch op {
	case "<":
		return value.NewBool(lf < rf)
	case "<=":
		return value.NewBool(lf <= rf)
	case ">":
		return value.NewBool(lf > rf)
	case ">=":
		return value.NewBool(lf >= rf)
	}
	return value.NewError(value.TypeMismatch, "binary_op: unsupported comparison "+op)
}

func compareResult(op string, cmp int) bool {
	switch op {
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	case ">":
		return cmp > 0
	case ">=":
		return cmp >= 0
	}
	return false
}

func (c *Context) boolOp(op string, lhs, rhs *value.Value) *value.Value {
	if lhs.Tag != value.Bool || rhs.Tag != value.Bool {
		return value.NewError(value.TypeMismatch, "binary_op: operands are not Bool")
	}
	switch op {
	case "&&":
		return value.NewBool(lhs.B && rhs.B)
	case "||":
		return value.NewBool(lhs.B || rhs.B)
	}
	return value.NewError(value.TypeMismatch, "binary_op: unsupported bool operator "+op)
}

func (c *Context) concatOp(lhs, rhs *value.Value) *value.Value {
	switch {
	case lhs.Tag == value.Text && rhs.Tag == value.Text:
		return value.NewText(lhs.S + rhs.S)
	case lhs.Tag == value.List && rhs.Tag == value.List:
		return c.ListConcat(lhs, rhs)
	default:
		return value.NewError(value.TypeMismatch, "binary_op: ++ requires two Text or two List operands")
	}
}

func (c *Context) consOp(head, tail *value.Value) *value.Value {
	if tail.Tag != value.List {
		return value.NewError(value.TypeMismatch, "binary_op: :: requires a List tail")
	}
	out := make([]*value.Value, 0, len(tail.Lst)+1)
	out = append(out, head)
	out = append(out, tail.Lst...)
	return value.NewList(out)
}

// userDefinedOp routes an operator the core has no native rule for to a
// user-defined two-argument function registered under "operator:<op>".
func (c *Context) userDefinedOp(op string, lhs, rhs *value.Value) *value.Value {
	fn := c.GetGlobal("operator:" + op)
	if fn.Tag == value.Error {
		return fn
	}
	partial := c.Apply(fn, lhs)
	if partial.Tag == value.Error {
		return partial
	}
	return c.Apply(partial, rhs)
}
