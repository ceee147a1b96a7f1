package ir

import (
	"cmp"
	"fmt"
	"math"
	"math/big"
	"strings"
)

// Compare returns an integer comparing two nodes: 0 if a == b, -1 if a < b,
// +1 if a > b. Ordering is defined among numbers, among strings, among
// bools, and recursively for arrays and objects. Mixed kinds and NaN are
// not ordered and yield ErrValue.
func Compare(a, b *Node) (int, error) {
	if a == b {
		return 0, nil
	}
	if a.Type.IsNumber() && b.Type.IsNumber() {
		return compareNumbers(a, b)
	}
	if a.Type != b.Type {
		return 0, fmt.Errorf("%w: %s is not ordered with %s", ErrValue, a.Type, b.Type)
	}
	switch a.Type {
	case NullType:
		return 0, nil
	case BoolType:
		if a.Bool == b.Bool {
			return 0, nil
		}
		if !a.Bool {
			return -1, nil
		}
		return 1, nil
	case StringType:
		return strings.Compare(a.String, b.String), nil
	case ArrayType:
		return compareArrays(a, b)
	case ObjectType:
		return compareObjects(a, b)
	}
	return 0, fmt.Errorf("%w: cannot order %s", ErrValue, a.Type)
}

func compareNumbers(a, b *Node) (int, error) {
	if a.Type == FloatType && math.IsNaN(a.Float64) ||
		b.Type == FloatType && math.IsNaN(b.Float64) {
		return 0, fmt.Errorf("%w: NaN is not ordered", ErrValue)
	}
	if a.Type == b.Type {
		switch a.Type {
		case IntType:
			return a.Int.Cmp(b.Int), nil
		case FloatType:
			return cmp.Compare(a.Float64, b.Float64), nil
		case DecimalType:
			return a.Decimal.Cmp(b.Decimal), nil
		}
	}
	return bigFloat(a).Cmp(bigFloat(b)), nil
}

func bigFloat(n *Node) *big.Float {
	switch n.Type {
	case IntType:
		return new(big.Float).SetInt(n.Int)
	case FloatType:
		return new(big.Float).SetFloat64(n.Float64)
	default:
		return n.Decimal.BigFloat()
	}
}

func compareArrays(a, b *Node) (int, error) {
	n := min(len(a.Values), len(b.Values))
	for i := 0; i < n; i++ {
		c, err := Compare(a.Values[i], b.Values[i])
		if err != nil {
			return 0, err
		}
		if c != 0 {
			return c, nil
		}
	}
	return cmp.Compare(len(a.Values), len(b.Values)), nil
}

func compareObjects(a, b *Node) (int, error) {
	n := min(len(a.Fields), len(b.Fields))
	for i := 0; i < n; i++ {
		if c := strings.Compare(a.Fields[i].String, b.Fields[i].String); c != 0 {
			return c, nil
		}
		c, err := Compare(a.Values[i], b.Values[i])
		if err != nil {
			return 0, err
		}
		if c != 0 {
			return c, nil
		}
	}
	return cmp.Compare(len(a.Fields), len(b.Fields)), nil
}

// Equal reports structural equality: same kinds, same values, same member
// order, same duplicate-key markers.
func Equal(a, b *Node) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case NullType:
		return true
	case BoolType:
		return a.Bool == b.Bool
	case IntType:
		return a.Int.Cmp(b.Int) == 0
	case FloatType:
		if math.IsNaN(a.Float64) && math.IsNaN(b.Float64) {
			return true
		}
		return a.Float64 == b.Float64
	case DecimalType:
		return a.Decimal.Equal(b.Decimal)
	case StringType:
		return a.String == b.String
	case ArrayType:
		if len(a.Values) != len(b.Values) {
			return false
		}
		for i := range a.Values {
			if !Equal(a.Values[i], b.Values[i]) {
				return false
			}
		}
		return true
	case ObjectType:
		if len(a.Fields) != len(b.Fields) {
			return false
		}
		for i := range a.Fields {
			if a.Fields[i].String != b.Fields[i].String {
				return false
			}
			if a.Fields[i].Dup != b.Fields[i].Dup {
				return false
			}
			if !Equal(a.Values[i], b.Values[i]) {
				return false
			}
		}
		return true
	}
	return false
}
