package patch

import (
	"fmt"

	"github.com/jsonquill/jsonquill/ir"
	"github.com/jsonquill/jsonquill/query"
)

var clearSym = register(&clearSymbol{name: "clear"})

type clearSymbol struct {
	name
}

func (s *clearSymbol) Instance(op *Operation) (Op, error) {
	path, err := parsePath(op.Path)
	if err != nil {
		return nil, err
	}
	return &clearOp{baseOp: baseOp{s.name}, path: path}, nil
}

type clearOp struct {
	baseOp
	path *query.Expr
}

func (o *clearOp) Apply(root *ir.Node) (*ir.Node, error) {
	locs, err := all(o.path, root)
	if err != nil {
		return nil, err
	}
	for i := range locs {
		n := locs[i].Node
		if n.Type != ir.ArrayType && n.Type != ir.ObjectType {
			return nil, fmt.Errorf("%w: clear target %s is not a container, got %s", ErrPatch, n.Path(), n.Type)
		}
		n.Clear()
	}
	return root, nil
}
