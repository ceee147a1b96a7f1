package patch

import (
	"fmt"
	"slices"

	"github.com/jsonquill/jsonquill/ir"
	"github.com/jsonquill/jsonquill/query"
)

var delSym = register(&delSymbol{name: "del"})

type delSymbol struct {
	name
}

func (s *delSymbol) Instance(op *Operation) (Op, error) {
	if op.Path == "" {
		return nil, fmt.Errorf("%w: del requires a path", ErrPatch)
	}
	path, err := parsePath(op.Path)
	if err != nil {
		return nil, err
	}
	return &delOp{baseOp: baseOp{s.name}, path: path}, nil
}

type delOp struct {
	baseOp
	path *query.Expr
}

func (o *delOp) Apply(root *ir.Node) (*ir.Node, error) {
	locs, err := all(o.path, root)
	if err != nil {
		return nil, err
	}
	// Removing a slot renumbers its siblings, and negative slice steps
	// yield matches in reverse order. Group per container and remove
	// from the highest index down so no removal shifts a slot still
	// waiting to be removed.
	groups := map[*ir.Node][]query.Location{}
	var order []*ir.Node
	for _, loc := range locs {
		if _, ok := groups[loc.Container]; !ok {
			order = append(order, loc.Container)
		}
		groups[loc.Container] = append(groups[loc.Container], loc)
	}
	for _, c := range order {
		g := groups[c]
		slices.SortFunc(g, func(a, b query.Location) int { return b.Index - a.Index })
		for i := range g {
			if _, err := removeAt(&g[i]); err != nil {
				return nil, err
			}
		}
	}
	return root, nil
}
