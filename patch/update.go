package patch

import (
	"fmt"

	"github.com/jsonquill/jsonquill/ir"
	"github.com/jsonquill/jsonquill/query"
)

var updateSym = register(&updateSymbol{name: "update"})

type updateSymbol struct {
	name
}

func (s *updateSymbol) Instance(op *Operation) (Op, error) {
	if op.Properties == nil {
		return nil, fmt.Errorf("%w: update requires properties", ErrPatch)
	}
	if op.Properties.Type != ir.ObjectType {
		return nil, fmt.Errorf("%w: update properties must be an object, got %s", ErrPatch, op.Properties.Type)
	}
	path, err := parsePath(op.Path)
	if err != nil {
		return nil, err
	}
	return &updateOp{baseOp: baseOp{s.name}, path: path, props: op.Properties}, nil
}

type updateOp struct {
	baseOp
	path  *query.Expr
	props *ir.Node
}

func (o *updateOp) Apply(root *ir.Node) (*ir.Node, error) {
	loc, err := one(o.path, root)
	if err != nil {
		return nil, err
	}
	if err := wantObject(loc.Node, "update"); err != nil {
		return nil, err
	}
	for i, f := range o.props.Fields {
		loc.Node.SetKey(f.String, detach(o.props.Values[i]))
	}
	return root, nil
}
