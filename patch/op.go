package patch

import (
	"fmt"
	"slices"

	"github.com/jsonquill/jsonquill/ir"
	"github.com/jsonquill/jsonquill/query"
)

// Operation is one decoded patch operation. Only the fields relevant to
// Op are consulted; Value and Properties are nil when absent.
type Operation struct {
	Op         string
	Path       string
	Value      *ir.Node
	Values     []*ir.Node
	Expr       string
	Msg        string
	Mode       string
	From       string
	To         string
	Reverse    bool
	Properties *ir.Node
}

// Symbol validates an Operation into an executable Op.
type Symbol interface {
	Name() string
	Instance(op *Operation) (Op, error)
}

// Op applies one operation, returning the possibly replaced root.
type Op interface {
	Apply(root *ir.Node) (*ir.Node, error)
	String() string
}

type name string

func (n name) Name() string   { return string(n) }
func (n name) String() string { return string(n) }

type baseOp struct {
	name
}

var symbols = map[string]Symbol{}

func register(s Symbol) Symbol {
	symbols[s.Name()] = s
	return s
}

// Symbols returns the registered operation names, sorted.
func Symbols() []string {
	res := make([]string, 0, len(symbols))
	for k := range symbols {
		res = append(res, k)
	}
	slices.Sort(res)
	return res
}

// parsePath parses a path field, "$" when absent.
func parsePath(s string) (*query.Expr, error) {
	if s == "" {
		s = "$"
	}
	e, err := query.Parse(s)
	if err != nil {
		return nil, err
	}
	if e.Relative {
		return nil, fmt.Errorf("%w: path must be absolute, got %q", ErrPatch, s)
	}
	return e, nil
}

// parseRel parses a from/to field, "@" when absent. Filters are not
// allowed there.
func parseRel(field, s string) (*query.Expr, error) {
	if s == "" {
		s = "@"
	}
	e, err := query.Parse(s)
	if err != nil {
		return nil, err
	}
	if !e.Relative {
		return nil, fmt.Errorf("%w: %s must be a relative path, got %q", ErrPatch, field, s)
	}
	if e.HasFilter() {
		return nil, fmt.Errorf("%w: %s cannot contain filters: %q", ErrPatch, field, s)
	}
	return e, nil
}

func one(e *query.Expr, root *ir.Node) (query.Location, error) {
	return query.ResolveOne(e, root, nil)
}

func all(e *query.Expr, root *ir.Node) ([]query.Location, error) {
	return query.Resolve(e, root)
}

// detach clones v for insertion into a tree.
func detach(v *ir.Node) *ir.Node {
	c := v.Clone()
	c.Parent = nil
	c.ParentIndex = 0
	c.ParentField = ""
	return c
}

// removeAt deletes the element or pair a location points at.
func removeAt(loc *query.Location) (*ir.Node, error) {
	if loc.IsRoot() {
		return nil, fmt.Errorf("%w: cannot remove the document root", ErrPatch)
	}
	if loc.Container.Type == ir.ObjectType {
		return loc.Container.RemoveKey(loc.Index), nil
	}
	return loc.Container.RemoveValue(loc.Index), nil
}

func wantArray(n *ir.Node, what string) error {
	if n.Type != ir.ArrayType {
		return fmt.Errorf("%w: %s target %s is not an array, got %s", ErrPatch, what, n.Path(), n.Type)
	}
	return nil
}

func wantObject(n *ir.Node, what string) error {
	if n.Type != ir.ObjectType {
		return fmt.Errorf("%w: %s target %s is not an object, got %s", ErrPatch, what, n.Path(), n.Type)
	}
	return nil
}
