package value

import "bytes"

// Equals implements the structural equality required by value_equals (§4.1)
// and pattern-match literal tests (§4.3.5). Int/Float compare by numeric
// value after promotion; the arbitrary-precision variants never promote
// against Float or each other (§A.3) and compare textually instead.
//
// Grounded in the teacher's internal/evaluator/objects_equal.go.
func Equals(a, b *Value) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}

	if (a.Tag == Int || a.Tag == Float) && (b.Tag == Int || b.Tag == Float) {
		return numericEquals(a, b)
	}
	if a.Tag != b.Tag {
		return false
	}

	switch a.Tag {
	case Unit:
		return true
	case Bool:
		return a.B == b.B
	case Text, BigInt, Rational, Decimal, DateTime:
		return a.S == b.S
	case Bytes:
		return bytes.Equal(a.Byt, b.Byt)
	case List, Tuple:
		if len(a.Lst) != len(b.Lst) {
			return false
		}
		for i := range a.Lst {
			if !Equals(a.Lst[i], b.Lst[i]) {
				return false
			}
		}
		return true
	case Record:
		if len(a.Rec) != len(b.Rec) {
			return false
		}
		for i := range a.Rec {
			if a.Rec[i].Name != b.Rec[i].Name || !Equals(a.Rec[i].Value, b.Rec[i].Value) {
				return false
			}
		}
		return true
	case Constructor:
		if a.Name != b.Name || len(a.Args) != len(b.Args) {
			return false
		}
		for i := range a.Args {
			if !Equals(a.Args[i], b.Args[i]) {
				return false
			}
		}
		return true
	case Map, Set:
		if len(a.Ents) != len(b.Ents) {
			return false
		}
		for _, ea := range a.Ents {
			found := false
			for _, eb := range b.Ents {
				if Equals(ea.Key, eb.Key) {
					found = a.Tag == Set || Equals(ea.Value, eb.Value)
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	case Error:
		return a.Err.Kind == b.Err.Kind && a.Err.Message == b.Err.Message
	default:
		// Closure, Effect, Resource, Thunk are compared by identity only;
		// they are never directly observable by user code (§3.2 inv. 4).
		return false
	}
}

func numericEquals(a, b *Value) bool {
	if a.Tag == Int && b.Tag == Int {
		return a.I == b.I
	}
	if a.Tag == Float && b.Tag == Float {
		return a.F == b.F
	}
	if a.Tag == Int {
		return float64(a.I) == b.F
	}
	return a.F == float64(b.I)
}
