package patch

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jsonquill/jsonquill/encode"
	"github.com/jsonquill/jsonquill/ir"
	"github.com/jsonquill/jsonquill/scan"
)

func doc(t *testing.T, text string) *ir.Node {
	t.Helper()
	n, err := scan.Scan("test.json", []byte(text))
	require.NoError(t, err)
	return n
}

func text(t *testing.T, n *ir.Node) string {
	t.Helper()
	return encode.MustString(n, encode.End(""))
}

// applyText runs the patch document in patchText against docText and
// renders the result compactly.
func applyText(t *testing.T, docText, patchText string) (string, error) {
	t.Helper()
	root := doc(t, docText)
	out, err := ApplyDoc(root, doc(t, patchText))
	if err != nil {
		return "", err
	}
	return text(t, out), nil
}

func TestApplyOps(t *testing.T) {
	for _, tc := range []struct {
		name  string
		doc   string
		patch string
		want  string
	}{
		{
			"append",
			`[1, 2, 3]`,
			`{"op": "append", "value": 4}`,
			`[1, 2, 3, 4]`,
		},
		{
			"append nested",
			`{"xs": [1]}`,
			`{"op": "append", "path": "$.xs", "value": {"a": 1}}`,
			`{"xs": [1, {"a": 1}]}`,
		},
		{
			"extend",
			`[1]`,
			`{"op": "extend", "values": [2, 3]}`,
			`[1, 2, 3]`,
		},
		{
			"extend empty",
			`[1]`,
			`{"op": "extend", "values": []}`,
			`[1]`,
		},
		{
			"insert middle",
			`{"xs": [1, 3]}`,
			`{"op": "insert", "path": "$.xs[1]", "value": 2}`,
			`{"xs": [1, 2, 3]}`,
		},
		{
			"insert negative",
			`[1, 2, 4]`,
			`{"op": "insert", "path": "$[-1]", "value": 3}`,
			`[1, 2, 3, 4]`,
		},
		{
			"insert clamped",
			`[1]`,
			`{"op": "insert", "path": "$[99]", "value": 2}`,
			`[1, 2]`,
		},
		{
			"set field",
			`{"a": 1, "b": 2}`,
			`{"op": "set", "path": "$.a", "value": 10}`,
			`{"a": 10, "b": 2}`,
		},
		{
			"set multi",
			`[{"x": 1}, {"x": 2}]`,
			`{"op": "set", "path": "$[:].x", "value": 0}`,
			`[{"x": 0}, {"x": 0}]`,
		},
		{
			"set root",
			`{"a": 1}`,
			`{"op": "set", "value": [1, 2]}`,
			`[1, 2]`,
		},
		{
			"set filtered",
			`[{"n": 1}, {"n": 5}]`,
			`[{"op": "set", "path": "${@.n > 3}.n", "value": 0}]`,
			`[{"n": 1}, {"n": 0}]`,
		},
		{
			"del field",
			`{"a": 1, "b": 2}`,
			`{"op": "del", "path": "$.a"}`,
			`{"b": 2}`,
		},
		{
			"del slice",
			`[1, 2, 3, 4]`,
			`{"op": "del", "path": "$[1:3]"}`,
			`[1, 4]`,
		},
		{
			"del filtered",
			`{"a": 1, "b": "x", "c": 2}`,
			`{"op": "del", "path": "${@ == \"x\"}"}`,
			`{"a": 1, "c": 2}`,
		},
		{
			"del reversed slice",
			`[1, 2, 3]`,
			`{"op": "del", "path": "$[::-1]"}`,
			`[]`,
		},
		{
			"del negative step slice",
			`[1, 2, 3, 4, 5]`,
			`{"op": "del", "path": "$[::-2]"}`,
			`[2, 4]`,
		},
		{
			"clear object",
			`{"a": {"x": 1}, "b": [2]}`,
			`{"op": "clear", "path": "$.a"}`,
			`{"a": {}, "b": [2]}`,
		},
		{
			"clear multi",
			`[[1], [2, 3]]`,
			`{"op": "clear", "path": "$[:]"}`,
			`[[], []]`,
		},
		{
			"update",
			`{"a": 1, "b": 2}`,
			`{"op": "update", "properties": {"b": 20, "c": 30}}`,
			`{"a": 1, "b": 20, "c": 30}`,
		},
		{
			"sort",
			`[3, 1, 2]`,
			`{"op": "sort"}`,
			`[1, 2, 3]`,
		},
		{
			"sort reverse",
			`[3, 1, 2]`,
			`{"op": "sort", "reverse": true}`,
			`[3, 2, 1]`,
		},
		{
			"reverse",
			`["a", "b", "c"]`,
			`{"op": "reverse"}`,
			`["c", "b", "a"]`,
		},
		{
			"copy set",
			`{"a": {"x": 1}, "b": null}`,
			`{"op": "copy", "from": "@.a", "to": "@.b"}`,
			`{"a": {"x": 1}, "b": {"x": 1}}`,
		},
		{
			"copy set creates key",
			`{"a": 0}`,
			`{"op": "copy", "mode": "set", "from": "@.a", "to": "@.b"}`,
			`{"a": 0, "b": 0}`,
		},
		{
			"copy append",
			`{"src": 9, "xs": [1]}`,
			`{"op": "copy", "from": "@.src", "to": "@.xs", "mode": "append"}`,
			`{"src": 9, "xs": [1, 9]}`,
		},
		{
			"copy extend",
			`{"src": [2, 3], "xs": [1]}`,
			`{"op": "copy", "from": "@.src", "to": "@.xs", "mode": "extend"}`,
			`{"src": [2, 3], "xs": [1, 2, 3]}`,
		},
		{
			"copy insert",
			`{"src": 2, "xs": [1, 3]}`,
			`{"op": "copy", "from": "@.src", "to": "@.xs[1]", "mode": "insert"}`,
			`{"src": 2, "xs": [1, 2, 3]}`,
		},
		{
			"copy update",
			`{"src": {"b": 2}, "dst": {"a": 1}}`,
			`{"op": "copy", "from": "@.src", "to": "@.dst", "mode": "update"}`,
			`{"src": {"b": 2}, "dst": {"a": 1, "b": 2}}`,
		},
		{
			"move",
			`{"a": {"x": 1}, "b": null}`,
			`{"op": "move", "from": "@.a", "to": "@.b"}`,
			`{"b": {"x": 1}}`,
		},
		{
			"move creates key",
			`{"a": {"x": 1}}`,
			`{"op": "move", "from": "@.a", "to": "@.b"}`,
			`{"b": {"x": 1}}`,
		},
		{
			"move with path anchor",
			`{"inner": {"a": 1, "b": null}}`,
			`{"op": "move", "path": "$.inner", "from": "@.a", "to": "@.b"}`,
			`{"inner": {"b": 1}}`,
		},
		{
			"assert passes",
			`{"n": 5}`,
			`[{"op": "assert", "path": "$.n", "expr": "@ > 3"}, {"op": "set", "path": "$.n", "value": 0}]`,
			`{"n": 0}`,
		},
		{
			"sequence",
			`[1, 2, 3]`,
			`[{"op": "append", "value": 4}, {"op": "del", "path": "$[0]"}, {"op": "reverse"}]`,
			`[4, 3, 2]`,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := applyText(t, tc.doc, tc.patch)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestApplyErrors(t *testing.T) {
	for _, tc := range []struct {
		name  string
		doc   string
		patch string
		want  string
	}{
		{
			"unknown op",
			`[]`,
			`{"op": "frobnicate"}`,
			`op 0 (frobnicate): patch error: unknown op "frobnicate"`,
		},
		{
			"missing value",
			`[]`,
			`{"op": "append"}`,
			`op 0 (append): patch error: append requires a value`,
		},
		{
			"append to scalar",
			`{"a": 1}`,
			`{"op": "append", "path": "$.a", "value": 2}`,
			`op 0 (append): patch error: append target $.a is not an array, got Int`,
		},
		{
			"del needs path",
			`[1]`,
			`{"op": "del"}`,
			`op 0 (del): patch error: del requires a path`,
		},
		{
			"del root",
			`[1]`,
			`{"op": "del", "path": "$"}`,
			`op 0 (del): patch error: cannot remove the document root`,
		},
		{
			"relative path",
			`[]`,
			`{"op": "append", "path": "@.xs", "value": 1}`,
			`op 0 (append): patch error: path must be absolute, got "@.xs"`,
		},
		{
			"filtered from",
			`{"a": 1}`,
			`{"op": "copy", "from": "@{@ > 0}", "to": "@.b"}`,
			`op 0 (copy): patch error: from cannot contain filters: "@{@ > 0}"`,
		},
		{
			"bad mode",
			`{"a": 1}`,
			`{"op": "copy", "from": "@.a", "to": "@.a", "mode": "explode"}`,
			`op 0 (copy): patch error: unknown mode "explode"`,
		},
		{
			"unknown field",
			`[]`,
			`[{"op": "append", "value": 1, "bogus": 2}]`,
			`op 0: patch error: unknown operation field "bogus"`,
		},
		{
			"second op fails",
			`[1, 2]`,
			`[{"op": "reverse"}, {"op": "sort", "path": "$[0]"}]`,
			`op 1 (sort): patch error: sort target $[0] is not an array, got Int`,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := applyText(t, tc.doc, tc.patch)
			require.Error(t, err)
			require.Equal(t, tc.want, err.Error())
		})
	}
}

func TestApplyAssertFailure(t *testing.T) {
	root := doc(t, `{"n": 2}`)
	_, err := ApplyDoc(root, doc(t, `{"op": "assert", "path": "$.n", "expr": "@ > 3"}`))
	require.Error(t, err)
	require.ErrorIs(t, err, ErrAssert)
	require.Equal(t, "op 0 (assert): assertion failed: Path $.n: @ > 3", err.Error())

	var oe *OpError
	require.ErrorAs(t, err, &oe)
	require.Equal(t, 0, oe.Index)

	_, err = ApplyDoc(root, doc(t, `{"op": "assert", "path": "$.n", "expr": "@ > 3", "msg": "n too small"}`))
	require.EqualError(t, err, "op 0 (assert): assertion failed: n too small")
}

func TestApplyAssertZeroMatches(t *testing.T) {
	root := doc(t, `[{"n": 1}]`)
	_, err := ApplyDoc(root, doc(t, `{"op": "assert", "path": "${@.n > 5}", "expr": "@.n > 0"}`))
	require.ErrorIs(t, err, ErrAssert)
	require.EqualError(t, err, "op 0 (assert): assertion failed: Path ${@.n > 5}: @.n > 0")
}

func TestApplyNoRollback(t *testing.T) {
	root := doc(t, `{"xs": [1]}`)
	_, err := ApplyDoc(root, doc(t, `[
		{"op": "append", "path": "$.xs", "value": 2},
		{"op": "sort", "path": "$.missing"}
	]`))
	require.Error(t, err)
	// The first append sticks even though the patch failed.
	require.Equal(t, `{"xs": [1, 2]}`, text(t, root))
}

func TestApplyValueDetached(t *testing.T) {
	root := doc(t, `{"a": [], "b": []}`)
	patchDoc := doc(t, `[
		{"op": "append", "path": "$.a", "value": {"k": 1}},
		{"op": "append", "path": "$.b", "value": {"k": 1}}
	]`)
	out, err := ApplyDoc(root, patchDoc)
	require.NoError(t, err)

	// Each landing site got its own clone.
	a := ir.Get(out, "a").Values[0]
	b := ir.Get(out, "b").Values[0]
	require.NotSame(t, a, b)
	a.SetKey("k", ir.FromInt(9))
	require.Equal(t, `{"a": [{"k": 9}], "b": [{"k": 1}]}`, text(t, out))
}

func TestSymbols(t *testing.T) {
	require.Equal(t, []string{
		"append", "assert", "clear", "copy", "del", "extend",
		"insert", "move", "reverse", "set", "sort", "update",
	}, Symbols())
}

func TestApplyRFC6902(t *testing.T) {
	root := doc(t, `{"a": 1, "xs": [1, 2]}`)
	out, err := ApplyRFC6902(root, doc(t, `[
		{"op": "replace", "path": "/a", "value": 10},
		{"op": "add", "path": "/xs/-", "value": 3},
		{"op": "remove", "path": "/xs/0"}
	]`))
	require.NoError(t, err)
	require.Equal(t, `{"a": 10, "xs": [2, 3]}`, text(t, out))
}

func TestApplyRFC6902TestOp(t *testing.T) {
	root := doc(t, `{"a": 1}`)
	_, err := ApplyRFC6902(root, doc(t, `[{"op": "test", "path": "/a", "value": 2}]`))
	require.Error(t, err)
}

func TestDecodeErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		text string
		want string
	}{
		{"scalar doc", `1`, "patch error: patch document must be an object or an array, got Int"},
		{"scalar op", `[1]`, "op 0: patch error: operation must be an object, got Int"},
		{"missing op", `{"path": "$"}`, "patch error: operation is missing an op"},
		{"op type", `{"op": 1}`, "patch error: op must be a string, got Int"},
		{"values type", `{"op": "extend", "values": 1}`, "patch error: values must be an array, got Int"},
		{"reverse type", `{"op": "sort", "reverse": 1}`, "patch error: reverse must be a boolean, got Int"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(doc(t, tc.text))
			require.EqualError(t, err, tc.want)
		})
	}
}
