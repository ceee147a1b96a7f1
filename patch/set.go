package patch

import (
	"fmt"

	"github.com/jsonquill/jsonquill/ir"
	"github.com/jsonquill/jsonquill/query"
)

var setSym = register(&setSymbol{name: "set"})

type setSymbol struct {
	name
}

func (s *setSymbol) Instance(op *Operation) (Op, error) {
	if op.Value == nil {
		return nil, fmt.Errorf("%w: set requires a value", ErrPatch)
	}
	path, err := parsePath(op.Path)
	if err != nil {
		return nil, err
	}
	return &setOp{baseOp: baseOp{s.name}, path: path, value: op.Value}, nil
}

type setOp struct {
	baseOp
	path  *query.Expr
	value *ir.Node
}

func (o *setOp) Apply(root *ir.Node) (*ir.Node, error) {
	locs, err := all(o.path, root)
	if err != nil {
		return nil, err
	}
	for i := range locs {
		loc := &locs[i]
		if loc.IsRoot() {
			root = detach(o.value)
			continue
		}
		loc.Container.SetValue(loc.Index, detach(o.value))
	}
	return root, nil
}
