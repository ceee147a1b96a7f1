package gomap

import (
	"math/big"

	"github.com/jsonquill/jsonquill/ir"
)

// ToAny converts a tree into plain Go data: nil, bool, int64 (or
// *big.Int when out of range), float64, decimal.Decimal, string, []any
// and map[string]any. Object insertion order is lost and later
// duplicate keys win.
func ToAny(n *ir.Node) any {
	if n == nil {
		return nil
	}
	switch n.Type {
	case ir.BoolType:
		return n.Bool
	case ir.IntType:
		if n.Int.IsInt64() {
			return n.Int.Int64()
		}
		return new(big.Int).Set(n.Int)
	case ir.FloatType:
		return n.Float64
	case ir.DecimalType:
		return n.Decimal
	case ir.StringType:
		return n.String
	case ir.ArrayType:
		res := make([]any, len(n.Values))
		for i, v := range n.Values {
			res[i] = ToAny(v)
		}
		return res
	case ir.ObjectType:
		res := make(map[string]any, len(n.Fields))
		for i := range n.Fields {
			res[n.Fields[i].String] = ToAny(n.Values[i])
		}
		return res
	default:
		return nil
	}
}
