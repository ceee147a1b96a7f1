package query

import (
	"fmt"

	"github.com/expr-lang/expr"

	"github.com/jsonquill/jsonquill/gomap"
	"github.com/jsonquill/jsonquill/ir"
)

// PredicateFunc decides whether a candidate node is selected by Filter.
type PredicateFunc func(*ir.Node) (bool, error)

// Filter applies pred over the elements of an array or the values of an
// object, returning the matching locations in order.
func Filter(node *ir.Node, pred PredicateFunc) ([]Location, error) {
	var out []Location
	switch node.Type {
	case ir.ArrayType:
		for i, v := range node.Values {
			ok, err := pred(v)
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, Location{Container: node, Index: i, Node: v})
			}
		}
	case ir.ObjectType:
		for i, v := range node.Values {
			ok, err := pred(v)
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, Location{Container: node, Index: i, Key: node.Fields[i].String, Node: v})
			}
		}
	default:
		return nil, fmt.Errorf("%w: cannot filter %s", ErrLookup, node.Path())
	}
	return out, nil
}

// ExprPredicate compiles src into a predicate using expr-lang. The
// program sees the candidate as "value" (plain Go data) and "path" (its
// diagnostic path), plus get(p) resolving a relative path expression
// against the candidate:
//
//	locs, err := query.Filter(users, mustPredicate(`value.age >= 21`))
func ExprPredicate(src string) (PredicateFunc, error) {
	prg, err := expr.Compile(src, expr.AllowUndefinedVariables(), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrQuery, err)
	}
	return func(n *ir.Node) (bool, error) {
		env := map[string]any{
			"value": gomap.ToAny(n),
			"path":  n.Path(),
			"get": func(path string) any {
				e, err := Parse(path)
				if err != nil {
					return nil
				}
				loc, err := ResolveOne(e, n.Root(), n)
				if err != nil {
					return nil
				}
				return gomap.ToAny(loc.Node)
			},
		}
		res, err := expr.Run(prg, env)
		if err != nil {
			return false, fmt.Errorf("%w: %s", ErrQuery, err)
		}
		ok, isBool := res.(bool)
		if !isBool {
			return false, fmt.Errorf("%w: filter program returned %T, want bool", ErrQuery, res)
		}
		return ok, nil
	}, nil
}
