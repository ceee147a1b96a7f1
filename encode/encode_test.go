package encode

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/jsonquill/jsonquill/ir"
)

func obj(kvs ...any) *ir.Node {
	pairs := make([]ir.KeyVal, 0, len(kvs)/2)
	for i := 0; i < len(kvs); i += 2 {
		pairs = append(pairs, ir.KeyVal{
			Key: ir.FromString(kvs[i].(string)),
			Val: kvs[i+1].(*ir.Node),
		})
	}
	return ir.FromKeyVals(pairs)
}

func arr(vs ...*ir.Node) *ir.Node {
	return ir.FromSlice(vs)
}

func TestEncodeCompact(t *testing.T) {
	for _, tc := range []struct {
		node *ir.Node
		want string
	}{
		{ir.Null(), "null"},
		{ir.FromBool(true), "true"},
		{ir.FromInt(-42), "-42"},
		{ir.FromFloat(1), "1.0"},
		{ir.FromFloat(0.25), "0.25"},
		{ir.FromFloat(1e21), "1e+21"},
		{ir.FromString("a\"b\\c\n"), `"a\"b\\c\n"`},
		{ir.FromString("é😀"), "\"é😀\""},
		{arr(), "[]"},
		{obj(), "{}"},
		{arr(ir.FromInt(1), ir.FromInt(2)), "[1, 2]"},
		{obj("a", ir.FromInt(1), "b", arr(ir.FromBool(false))), `{"a": 1, "b": [false]}`},
	} {
		got, err := String(tc.node)
		if err != nil {
			t.Errorf("%s: %s", tc.want, err)
			continue
		}
		if got != tc.want+"\n" {
			t.Errorf("got %q, want %q", got, tc.want+"\n")
		}
	}
}

func TestEncodeIndent(t *testing.T) {
	node := obj(
		"bar", obj("a", ir.FromInt(1), "b", ir.FromInt(2), "c", ir.FromInt(3)),
		"foo", arr(ir.FromInt(1), ir.FromInt(2), ir.FromInt(3)),
	)
	got := MustString(node, Indent("    "))
	want := `{
    "bar": {
        "a": 1,
        "b": 2,
        "c": 3
    },
    "foo": [
        1,
        2,
        3
    ]
}
`
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

// Leaf containers stay inline when IndentLeaves is off.
func TestEncodeIndentLeaves(t *testing.T) {
	node := obj(
		"foo", arr(ir.FromInt(1), ir.FromInt(2), ir.FromInt(3)),
		"bar", obj("a", ir.FromInt(1), "b", ir.FromInt(2), "c", ir.FromInt(3)),
	)
	got := MustString(node, Indent("    "), IndentLeaves(false), SortKeys(true))
	want := `{
    "bar": {"a": 1, "b": 2, "c": 3},
    "foo": [1, 2, 3]
}
`
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestEncodeMaxIndentLevel(t *testing.T) {
	node := arr(arr(arr(ir.FromInt(1))))
	got := MustString(node, Indent("  "), MaxIndentLevel(2))
	want := "[\n  [\n    [1]\n  ]\n]\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEncodeTrailingComma(t *testing.T) {
	got := MustString(arr(ir.FromInt(1), ir.FromInt(2)), Indent("  "), TrailingComma(true))
	want := "[\n  1,\n  2,\n]\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	// no trailing comma without indentation
	got = MustString(arr(ir.FromInt(1)), TrailingComma(true))
	if got != "[1]\n" {
		t.Errorf("got %q", got)
	}
}

func TestEncodeSortKeysStable(t *testing.T) {
	node := obj("b", ir.FromInt(1), "a", ir.FromInt(2), "c", ir.FromInt(3))
	got := MustString(node, SortKeys(true))
	want := `{"a": 2, "b": 1, "c": 3}` + "\n"
	if got != want {
		t.Errorf("got %q", got)
	}
	// the tree itself is untouched
	if node.Fields[0].String != "b" {
		t.Errorf("tree reordered: %q", node.Fields[0].String)
	}
}

func TestEncodeEnsureASCII(t *testing.T) {
	got := MustString(ir.FromString("éz😀"), EnsureASCII(true))
	want := `"éz😀"` + "\n"
	if got != want {
		t.Errorf("got %q", got)
	}
}

func TestEncodeQuotedKeys(t *testing.T) {
	node := obj("abc", ir.FromInt(1), "x y", ir.FromInt(2))
	got := MustString(node, QuotedKeys(false))
	want := `{abc: 1, "x y": 2}` + "\n"
	if got != want {
		t.Errorf("got %q", got)
	}
	// non-ASCII identifiers stay quoted under EnsureASCII
	got = MustString(obj("é", ir.FromInt(1)), QuotedKeys(false), EnsureASCII(true))
	want = `{"é": 1}` + "\n"
	if got != want {
		t.Errorf("got %q", got)
	}
}

func TestEncodeEndSeparators(t *testing.T) {
	got := MustString(arr(ir.FromInt(1), ir.FromInt(2)), End(""), Separators(",", ":"))
	if got != "[1,2]" {
		t.Errorf("got %q", got)
	}
	got = MustString(obj("a", ir.FromInt(1)), End(""), Separators(",", ":"))
	if got != `{"a":1}` {
		t.Errorf("got %q", got)
	}
}

func TestEncodeNonFinite(t *testing.T) {
	if _, err := String(ir.FromFloat(math.NaN())); !errors.Is(err, ir.ErrValue) {
		t.Errorf("got %v", err)
	}
	got := MustString(
		arr(ir.FromFloat(math.NaN()), ir.FromFloat(math.Inf(1)), ir.FromFloat(math.Inf(-1))),
		AllowNaNAndInfinity(true), End(""))
	if got != "[NaN, Infinity, -Infinity]" {
		t.Errorf("got %q", got)
	}
}

func TestEncodeDecimal(t *testing.T) {
	d, err := decimal.NewFromString("1.25")
	if err != nil {
		t.Fatal(err)
	}
	got := MustString(ir.FromDecimal(d), End(""))
	if got != "1.25" {
		t.Errorf("got %q", got)
	}
}

func TestEncodeSurrogates(t *testing.T) {
	lone := string([]byte{0xED, 0xA0, 0x80}) // U+D800 in its three byte form
	if _, err := String(ir.FromString(lone)); err == nil {
		t.Error("no error")
	}
	got := MustString(ir.FromString(lone), AllowSurrogates(true), End(""))
	if got != `"\ud800"` {
		t.Errorf("got %q", got)
	}
}

func TestEncodeCycle(t *testing.T) {
	node := arr(ir.FromInt(1))
	node.AppendValue(node)
	_, err := String(node)
	if !errors.Is(err, ir.ErrValue) {
		t.Fatalf("got %v", err)
	}
	if !strings.Contains(err.Error(), "circular") {
		t.Errorf("got %q", err.Error())
	}
}

// Shared (acyclic) substructure is fine.
func TestEncodeSharedSubtree(t *testing.T) {
	leaf := arr(ir.FromInt(1))
	node := &ir.Node{Type: ir.ArrayType, Values: []*ir.Node{leaf, leaf}}
	got, err := String(node, End(""))
	if err != nil {
		t.Fatal(err)
	}
	if got != "[[1], [1]]" {
		t.Errorf("got %q", got)
	}
}

func TestEncodeHook(t *testing.T) {
	redact := func(n *ir.Node) (*ir.Node, error) {
		if n.Type == ir.StringType {
			return ir.FromString("***"), nil
		}
		return n, nil
	}
	got := MustString(arr(ir.FromString("secret"), ir.FromInt(1)), Hook(redact), End(""))
	if got != `["***", 1]` {
		t.Errorf("got %q", got)
	}
}
