package patch

import (
	"fmt"

	"github.com/jsonquill/jsonquill/debug"
	"github.com/jsonquill/jsonquill/ir"
)

// Apply runs ops against root in order, returning the resulting root.
// Operations mutate the tree in place; a set on the document root
// returns a new one. Application stops at the first failure with no
// rollback of earlier operations.
func Apply(root *ir.Node, ops []*Operation) (*ir.Node, error) {
	for i, op := range ops {
		sym, ok := symbols[op.Op]
		if !ok {
			return nil, &OpError{Index: i, Op: op.Op, Err: fmt.Errorf("%w: unknown op %q", ErrPatch, op.Op)}
		}
		inst, err := sym.Instance(op)
		if err != nil {
			return nil, &OpError{Index: i, Op: op.Op, Err: err}
		}
		if debug.Op() {
			debug.Logf("patch op %d: %s path=%q", i, inst, op.Path)
		}
		if root, err = inst.Apply(root); err != nil {
			return nil, &OpError{Index: i, Op: op.Op, Err: err}
		}
		if debug.Patch() {
			debug.Logf("after op %d: %v", i, root)
		}
	}
	return root, nil
}

// ApplyDoc decodes a patch document and applies it.
func ApplyDoc(root, doc *ir.Node) (*ir.Node, error) {
	ops, err := Decode(doc)
	if err != nil {
		return nil, err
	}
	return Apply(root, ops)
}
