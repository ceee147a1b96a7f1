package ir

import (
	"math/big"
	"slices"
	"strconv"
	"unicode"

	"github.com/shopspring/decimal"
)

// Node is one value in a document tree. Exactly one of the scalar slots is
// meaningful, selected by Type. Objects keep Fields and Values as parallel
// slices so insertion order is preserved; Fields entries are StringType
// nodes, with Dup set on later duplicates when the scanning dialect allows
// them.
type Node struct {
	Type        Type
	Parent      *Node
	ParentIndex int
	ParentField string
	Fields      []*Node
	Values      []*Node

	String  string
	Bool    bool
	Int     *big.Int
	Float64 float64
	Decimal decimal.Decimal

	Dup bool
}

func Null() *Node {
	return &Node{Type: NullType}
}

func FromBool(v bool) *Node {
	return &Node{Type: BoolType, Bool: v}
}

func FromInt(v int64) *Node {
	return &Node{Type: IntType, Int: big.NewInt(v)}
}

func FromBigInt(v *big.Int) *Node {
	return &Node{Type: IntType, Int: v}
}

func FromFloat(v float64) *Node {
	return &Node{Type: FloatType, Float64: v}
}

func FromDecimal(v decimal.Decimal) *Node {
	return &Node{Type: DecimalType, Decimal: v}
}

func FromString(v string) *Node {
	return &Node{Type: StringType, String: v}
}

func FromSlice(vs []*Node) *Node {
	res := &Node{Type: ArrayType}
	res.Values = make([]*Node, len(vs))
	for i, v := range vs {
		v.Parent = res
		v.ParentIndex = i
		v.ParentField = ""
		res.Values[i] = v
	}
	return res
}

type KeyVal struct {
	Key *Node
	Val *Node
}

func FromKeyVals(kvs []KeyVal) *Node {
	res := &Node{Type: ObjectType}
	res.Fields = make([]*Node, len(kvs))
	res.Values = make([]*Node, len(kvs))
	for i := range kvs {
		kv := &kvs[i]
		kv.Key.Parent = res
		kv.Key.ParentIndex = i
		kv.Key.ParentField = kv.Key.String
		kv.Val.Parent = res
		kv.Val.ParentIndex = i
		kv.Val.ParentField = kv.Key.String
		res.Fields[i] = kv.Key
		res.Values[i] = kv.Val
	}
	return res
}

// FromMap builds an object with keys in sorted order. Use FromKeyVals when
// insertion order matters.
func FromMap(m map[string]*Node) *Node {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	kvs := make([]KeyVal, 0, len(m))
	for _, k := range keys {
		kvs = append(kvs, KeyVal{Key: FromString(k), Val: m[k]})
	}
	return FromKeyVals(kvs)
}

func ToMap(node *Node) map[string]*Node {
	if node.Type != ObjectType {
		return nil
	}
	res := make(map[string]*Node, len(node.Fields))
	for i := range node.Fields {
		res[node.Fields[i].String] = node.Values[i]
	}
	return res
}

// Get returns the value for field, or nil. With duplicate keys present the
// first occurrence wins.
func Get(y *Node, field string) *Node {
	i := y.FieldIndex(field)
	if i == -1 {
		return nil
	}
	return y.Values[i]
}

// FieldIndex returns the pair index of the first occurrence of field, or -1.
func (y *Node) FieldIndex(field string) int {
	for i := range y.Fields {
		if y.Fields[i].String == field {
			return i
		}
	}
	return -1
}

func (y *Node) Clone() *Node {
	res := &Node{}
	return y.CloneTo(res)
}

func (y *Node) CloneTo(dst *Node) *Node {
	dst.Type = y.Type
	dst.Parent = y.Parent
	dst.ParentIndex = y.ParentIndex
	dst.ParentField = y.ParentField
	dst.String = y.String
	dst.Bool = y.Bool
	dst.Float64 = y.Float64
	dst.Decimal = y.Decimal
	dst.Dup = y.Dup
	if y.Int != nil {
		dst.Int = new(big.Int).Set(y.Int)
	}
	if y.Fields != nil {
		dst.Fields = make([]*Node, len(y.Fields))
		for i, yf := range y.Fields {
			f := yf.Clone()
			f.Parent = dst
			dst.Fields[i] = f
		}
	}
	if y.Values != nil {
		dst.Values = make([]*Node, len(y.Values))
		for i, yv := range y.Values {
			v := yv.Clone()
			v.Parent = dst
			dst.Values[i] = v
		}
	}
	return dst
}

func (y *Node) Root() *Node {
	res := y
	for res.Parent != nil {
		res = res.Parent
	}
	return res
}

// Visit walks the subtree depth first, calling f before (isPost false) and
// after (isPost true) each node's children. Returning false from the pre
// call skips the children.
func (y *Node) Visit(f func(y *Node, isPost bool) (bool, error)) error {
	dive, err := f(y, false)
	if err != nil {
		return err
	}
	if dive {
		for _, yy := range y.Values {
			if err := yy.Visit(f); err != nil {
				return err
			}
		}
	}
	_, err = f(y, true)
	return err
}

// Path returns a diagnostic path from the document root, in query syntax.
func (y *Node) Path() string {
	if y.Parent == nil {
		return "$"
	}
	prefix := y.Parent.Path()
	switch y.Parent.Type {
	case ObjectType:
		f := y.ParentField
		if isIdent(f) {
			return prefix + "." + f
		}
		return prefix + "[" + strconv.Quote(f) + "]"
	case ArrayType:
		return prefix + "[" + strconv.Itoa(y.ParentIndex) + "]"
	default:
		return prefix
	}
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

// Array and object mutators. All of them keep Parent, ParentIndex and
// ParentField consistent; callers outside this package should prefer these
// over touching Fields/Values directly.

func (y *Node) AppendValue(v *Node) {
	v.Parent = y
	v.ParentIndex = len(y.Values)
	v.ParentField = ""
	y.Values = append(y.Values, v)
}

func (y *Node) InsertValue(i int, v *Node) {
	v.Parent = y
	v.ParentField = ""
	y.Values = append(y.Values, nil)
	copy(y.Values[i+1:], y.Values[i:])
	y.Values[i] = v
	y.renumber(i)
}

func (y *Node) RemoveValue(i int) *Node {
	v := y.Values[i]
	copy(y.Values[i:], y.Values[i+1:])
	y.Values = y.Values[:len(y.Values)-1]
	y.renumber(i)
	v.Parent = nil
	return v
}

// SetValue replaces the array element or object value at pair index i.
func (y *Node) SetValue(i int, v *Node) {
	old := y.Values[i]
	v.Parent = y
	v.ParentIndex = i
	v.ParentField = old.ParentField
	y.Values[i] = v
	old.Parent = nil
}

// SetKey sets field key to v, replacing the first occurrence or appending a
// new pair, preserving insertion order for new keys.
func (y *Node) SetKey(key string, v *Node) {
	if i := y.FieldIndex(key); i != -1 {
		y.SetValue(i, v)
		return
	}
	k := FromString(key)
	k.Parent = y
	k.ParentIndex = len(y.Fields)
	k.ParentField = key
	v.Parent = y
	v.ParentIndex = len(y.Values)
	v.ParentField = key
	y.Fields = append(y.Fields, k)
	y.Values = append(y.Values, v)
}

// RemoveKey removes the object pair at index i.
func (y *Node) RemoveKey(i int) *Node {
	v := y.Values[i]
	copy(y.Fields[i:], y.Fields[i+1:])
	y.Fields = y.Fields[:len(y.Fields)-1]
	copy(y.Values[i:], y.Values[i+1:])
	y.Values = y.Values[:len(y.Values)-1]
	y.renumber(i)
	v.Parent = nil
	return v
}

// Clear removes all elements or pairs.
func (y *Node) Clear() {
	y.Fields = nil
	y.Values = nil
}

// ReplaceWith overwrites y's type and contents with v's, keeping y's
// position in its parent. v's children are reparented to y.
func (y *Node) ReplaceWith(v *Node) {
	y.Type = v.Type
	y.String = v.String
	y.Bool = v.Bool
	y.Int = v.Int
	y.Float64 = v.Float64
	y.Decimal = v.Decimal
	y.Dup = v.Dup
	y.Fields = v.Fields
	y.Values = v.Values
	for _, f := range y.Fields {
		f.Parent = y
	}
	for _, vv := range y.Values {
		vv.Parent = y
	}
}

// Reverse reverses array element order in place.
func (y *Node) Reverse() {
	slices.Reverse(y.Values)
	y.renumber(0)
}

// SortValues sorts array elements by natural order, descending when
// reverse. It fails if the elements are not totally ordered; element
// order is unspecified on failure.
func (y *Node) SortValues(reverse bool) error {
	var sortErr error
	slices.SortStableFunc(y.Values, func(a, b *Node) int {
		c, err := Compare(a, b)
		if err != nil && sortErr == nil {
			sortErr = err
		}
		return c
	})
	if sortErr != nil {
		return sortErr
	}
	if reverse {
		slices.Reverse(y.Values)
	}
	y.renumber(0)
	return nil
}

func (y *Node) renumber(from int) {
	for i := from; i < len(y.Values); i++ {
		y.Values[i].ParentIndex = i
		if i < len(y.Fields) {
			y.Fields[i].ParentIndex = i
			y.Values[i].ParentField = y.Fields[i].String
		}
	}
}
