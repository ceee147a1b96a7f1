package patch

import (
	"fmt"

	"github.com/jsonquill/jsonquill/ir"
)

// Decode reads a patch document: a single operation object, or an
// array of them. Field values are referenced, not cloned; callers that
// keep the document around get copy-on-apply behavior from the
// operations themselves.
func Decode(doc *ir.Node) ([]*Operation, error) {
	switch doc.Type {
	case ir.ObjectType:
		op, err := decodeOp(doc)
		if err != nil {
			return nil, err
		}
		return []*Operation{op}, nil
	case ir.ArrayType:
		ops := make([]*Operation, 0, len(doc.Values))
		for i, v := range doc.Values {
			op, err := decodeOp(v)
			if err != nil {
				return nil, &OpError{Index: i, Err: err}
			}
			ops = append(ops, op)
		}
		return ops, nil
	default:
		return nil, fmt.Errorf("%w: patch document must be an object or an array, got %s", ErrPatch, doc.Type)
	}
}

func decodeOp(n *ir.Node) (*Operation, error) {
	if n.Type != ir.ObjectType {
		return nil, fmt.Errorf("%w: operation must be an object, got %s", ErrPatch, n.Type)
	}
	op := &Operation{}
	for i, f := range n.Fields {
		v := n.Values[i]
		var err error
		switch f.String {
		case "op":
			op.Op, err = strField("op", v)
		case "path":
			op.Path, err = strField("path", v)
		case "value":
			op.Value = v
		case "values":
			if v.Type != ir.ArrayType {
				err = fmt.Errorf("%w: values must be an array, got %s", ErrPatch, v.Type)
				break
			}
			op.Values = append([]*ir.Node{}, v.Values...)
		case "expr":
			op.Expr, err = strField("expr", v)
		case "msg":
			op.Msg, err = strField("msg", v)
		case "mode":
			op.Mode, err = strField("mode", v)
		case "from":
			op.From, err = strField("from", v)
		case "to":
			op.To, err = strField("to", v)
		case "reverse":
			if v.Type != ir.BoolType {
				err = fmt.Errorf("%w: reverse must be a boolean, got %s", ErrPatch, v.Type)
				break
			}
			op.Reverse = v.Bool
		case "properties":
			op.Properties = v
		default:
			err = fmt.Errorf("%w: unknown operation field %q", ErrPatch, f.String)
		}
		if err != nil {
			return nil, err
		}
	}
	if op.Op == "" {
		return nil, fmt.Errorf("%w: operation is missing an op", ErrPatch)
	}
	return op, nil
}

func strField(field string, v *ir.Node) (string, error) {
	if v.Type != ir.StringType {
		return "", fmt.Errorf("%w: %s must be a string, got %s", ErrPatch, field, v.Type)
	}
	return v.String, nil
}
