package patch

import (
	"fmt"

	"github.com/jsonquill/jsonquill/ir"
	"github.com/jsonquill/jsonquill/query"
)

var appendSym = register(&appendSymbol{name: "append"})

type appendSymbol struct {
	name
}

func (s *appendSymbol) Instance(op *Operation) (Op, error) {
	if op.Value == nil {
		return nil, fmt.Errorf("%w: append requires a value", ErrPatch)
	}
	path, err := parsePath(op.Path)
	if err != nil {
		return nil, err
	}
	return &appendOp{baseOp: baseOp{s.name}, path: path, value: op.Value}, nil
}

type appendOp struct {
	baseOp
	path  *query.Expr
	value *ir.Node
}

func (o *appendOp) Apply(root *ir.Node) (*ir.Node, error) {
	loc, err := one(o.path, root)
	if err != nil {
		return nil, err
	}
	if err := wantArray(loc.Node, "append"); err != nil {
		return nil, err
	}
	loc.Node.AppendValue(detach(o.value))
	return root, nil
}
