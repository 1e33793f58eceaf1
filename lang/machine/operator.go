package machine

import (
	"math"

	"github.com/mna/wisp/lang/token"
	"github.com/mna/wisp/lang/values"
)

// binary evaluates x op y for the arithmetic and comparison opcodes the
// compiler lowers to OpBinary, following the teacher's per-type Binary
// method idiom (lang/types/float.go) but centralized here as a single
// dispatch, since this language's value universe is small enough that a
// per-type method on every container would be pure ceremony.
func binary(op token.Token, x, y values.Value) (values.Value, error) {
	switch op {
	case token.PLUS:
		return add(x, y)
	case token.MINUS, token.STAR, token.SLASH, token.PERCENT:
		return arith(op, x, y)
	case token.LT, token.GT, token.LE, token.GE:
		return order(op, x, y)
	case token.EQL:
		return values.Bool(equal(x, y)), nil
	case token.NEQ:
		return values.Bool(!equal(x, y)), nil
	default:
		return nil, values.Newf(values.RuntimeErrorKind, "unsupported binary operator %#v", op)
	}
}

func unary(op token.Token, x values.Value) (values.Value, error) {
	switch op {
	case token.MINUS:
		n, ok := x.(values.Number)
		if !ok {
			return nil, values.Newf(values.TypeErrorKind, "unsupported operand type for -: %s", x.Type())
		}
		return -n, nil
	case token.NOT:
		return values.Bool(!values.Truthy(x)), nil
	default:
		return nil, values.Newf(values.RuntimeErrorKind, "unsupported unary operator %#v", op)
	}
}

func add(x, y values.Value) (values.Value, error) {
	switch a := x.(type) {
	case values.Number:
		b, ok := y.(values.Number)
		if !ok {
			return nil, typeMismatch("+", x, y)
		}
		return a + b, nil
	case values.String:
		b, ok := y.(values.String)
		if !ok {
			return nil, typeMismatch("+", x, y)
		}
		return a + b, nil
	case *values.List:
		b, ok := y.(*values.List)
		if !ok {
			return nil, typeMismatch("+", x, y)
		}
		elems := make([]values.Value, 0, a.Len()+b.Len())
		elems = append(elems, a.Elems()...)
		elems = append(elems, b.Elems()...)
		return values.NewList(elems), nil
	default:
		return nil, typeMismatch("+", x, y)
	}
}

func arith(op token.Token, x, y values.Value) (values.Value, error) {
	a, ok := x.(values.Number)
	if !ok {
		return nil, typeMismatch(op.String(), x, y)
	}
	b, ok := y.(values.Number)
	if !ok {
		return nil, typeMismatch(op.String(), x, y)
	}
	switch op {
	case token.MINUS:
		return a - b, nil
	case token.STAR:
		return a * b, nil
	case token.SLASH:
		if b == 0 {
			return nil, values.Newf(values.ValueErrorKind, "division by zero")
		}
		return a / b, nil
	case token.PERCENT:
		if b == 0 {
			return nil, values.Newf(values.ValueErrorKind, "division by zero")
		}
		return values.Number(math.Mod(float64(a), float64(b))), nil
	default:
		panic("machine: unreachable arith operator")
	}
}

func order(op token.Token, x, y values.Value) (values.Value, error) {
	cmp, err := Compare(x, y)
	if err != nil {
		return nil, err
	}
	switch op {
	case token.LT:
		return values.Bool(cmp < 0), nil
	case token.GT:
		return values.Bool(cmp > 0), nil
	case token.LE:
		return values.Bool(cmp <= 0), nil
	case token.GE:
		return values.Bool(cmp >= 0), nil
	default:
		panic("machine: unreachable order operator")
	}
}

// equal implements == across the value universe: atoms compare by value,
// lists/sets/maps compare structurally, everything else (functions,
// classes, modules, handles, generators) compares by identity.
func equal(x, y values.Value) bool {
	switch a := x.(type) {
	case values.Nil:
		_, ok := y.(values.Nil)
		return ok
	case values.Bool:
		b, ok := y.(values.Bool)
		return ok && a == b
	case values.Number:
		b, ok := y.(values.Number)
		return ok && a == b
	case values.String:
		b, ok := y.(values.String)
		return ok && a == b
	case *values.List:
		b, ok := y.(*values.List)
		if !ok || a.Len() != b.Len() {
			return false
		}
		for i := 0; i < a.Len(); i++ {
			if !equal(a.Index(i), b.Index(i)) {
				return false
			}
		}
		return true
	case *values.Map:
		b, ok := y.(*values.Map)
		if !ok || a.Len() != b.Len() {
			return false
		}
		for _, kv := range a.Items() {
			bv, found, err := b.Get(kv[0])
			if err != nil || !found || !equal(kv[1], bv) {
				return false
			}
		}
		return true
	case *values.Set:
		b, ok := y.(*values.Set)
		if !ok || a.Len() != b.Len() {
			return false
		}
		it := a.Iterate()
		defer it.Done()
		var v values.Value
		for it.Next(&v) {
			has, err := b.Has(v)
			if err != nil || !has {
				return false
			}
		}
		return true
	default:
		return x == y
	}
}

// Compare orders x against y, returning -1, 0 or 1. Only numbers and
// strings (against their own kind) are orderable; exported so lang/stdlib
// can share the same ordering for min/max/sorted rather than
// reimplementing it.
func Compare(x, y values.Value) (int, error) {
	switch a := x.(type) {
	case values.Number:
		b, ok := y.(values.Number)
		if !ok {
			return 0, values.Newf(values.TypeErrorKind, "cannot compare %s and %s", x.Type(), y.Type())
		}
		switch {
		case a < b:
			return -1, nil
		case a > b:
			return 1, nil
		default:
			return 0, nil
		}
	case values.String:
		b, ok := y.(values.String)
		if !ok {
			return 0, values.Newf(values.TypeErrorKind, "cannot compare %s and %s", x.Type(), y.Type())
		}
		switch {
		case a < b:
			return -1, nil
		case a > b:
			return 1, nil
		default:
			return 0, nil
		}
	default:
		return 0, values.Newf(values.TypeErrorKind, "value of type %s is not orderable", x.Type())
	}
}

func typeMismatch(op string, x, y values.Value) error {
	return values.Newf(values.TypeErrorKind, "unsupported operand types for %s: %s and %s", op, x.Type(), y.Type())
}
