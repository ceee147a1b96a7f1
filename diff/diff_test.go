package diff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jsonquill/jsonquill/encode"
	"github.com/jsonquill/jsonquill/ir"
	"github.com/jsonquill/jsonquill/patch"
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

// canonical renders with sorted keys; patches reproduce objects up to
// key order.
func canonical(t *testing.T, n *ir.Node) string {
	t.Helper()
	return encode.MustString(n, encode.End(""), encode.SortKeys(true))
}

func TestOpsRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		name string
		old  string
		new  string
	}{
		{"equal", `{"a": 1}`, `{"a": 1}`},
		{"scalar", `1`, `2`},
		{"type change", `{"a": 1}`, `[1]`},
		{"field change", `{"a": 1, "b": 2}`, `{"a": 1, "b": 3}`},
		{"field added", `{"a": 1}`, `{"a": 1, "b": 2}`},
		{"field removed", `{"a": 1, "b": 2}`, `{"b": 2}`},
		{"field renamed", `{"a": 1, "b": 2}`, `{"a": 1, "c": 2}`},
		{"nested", `{"a": {"x": [1, 2]}}`, `{"a": {"x": [1, 3]}}`},
		{"array append", `[1, 2]`, `[1, 2, 3]`},
		{"array prepend", `[2, 3]`, `[1, 2, 3]`},
		{"array remove run", `[1, 2, 3, 4, 5]`, `[1, 5]`},
		{"array replace", `[{"n": 1}, {"n": 2}]`, `[{"n": 1}, {"n": 3}]`},
		{"array reorder", `[1, 2, 3]`, `[3, 2, 1]`},
		{"key order", `{"a": 1, "b": 2}`, `{"b": 2, "a": 1}`},
		{"empty to full", `{}`, `{"a": [1, {"b": null}]}`},
		{"full to empty", `{"a": [1, {"b": null}]}`, `{}`},
		{"deep mix", `{"xs": [{"id": 1, "v": "a"}, {"id": 2, "v": "b"}], "n": 1}`,
			`{"xs": [{"id": 1, "v": "a"}, {"id": 2, "v": "c"}, {"id": 3, "v": "d"}], "m": 2}`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			old := doc(t, tc.old)
			want := doc(t, tc.new)
			ops, err := Ops(old, want)
			require.NoError(t, err)
			got, err := patch.Apply(old, ops)
			require.NoError(t, err)
			require.Equal(t, canonical(t, want), canonical(t, got))
		})
	}
}

func TestOpsEqualIsEmpty(t *testing.T) {
	old := doc(t, `{"a": [1, 2], "b": {"c": null}}`)
	new := doc(t, `{"a": [1, 2], "b": {"c": null}}`)
	ops, err := Ops(old, new)
	require.NoError(t, err)
	require.Empty(t, ops)
}

func TestOpsScalarChange(t *testing.T) {
	old := doc(t, `{"a": 1, "b": 2}`)
	new := doc(t, `{"a": 1, "b": 3}`)
	ops, err := Ops(old, new)
	require.NoError(t, err)
	require.Len(t, ops, 1)
	require.Equal(t, "set", ops[0].Op)
	require.Equal(t, "$.b", ops[0].Path)
}

func TestOpsNonIdentKey(t *testing.T) {
	old := doc(t, `{"a b": 1}`)
	new := doc(t, `{"a b": 2}`)
	ops, err := Ops(old, new)
	require.NoError(t, err)
	require.Len(t, ops, 1)
	require.Equal(t, `$["a b"]`, ops[0].Path)
	got, err := patch.Apply(old, ops)
	require.NoError(t, err)
	require.Equal(t, `{"a b": 2}`, text(t, got))
}

func TestOpsDoesNotAliasNew(t *testing.T) {
	old := doc(t, `{"a": 1}`)
	new := doc(t, `{"a": {"x": 1}}`)
	ops, err := Ops(old, new)
	require.NoError(t, err)
	got, err := patch.Apply(old, ops)
	require.NoError(t, err)
	ir.Get(got, "a").SetKey("x", ir.FromInt(9))
	require.Equal(t, `{"a": {"x": 1}}`, text(t, new))
}

func TestText(t *testing.T) {
	old := doc(t, `{"a": 1, "b": 2}`)
	new := doc(t, `{"a": 1, "b": 3}`)
	got, err := Text(old, new)
	require.NoError(t, err)
	require.Contains(t, got, "-   \"b\": 2")
	require.Contains(t, got, "+   \"b\": 3")
	require.Contains(t, got, "    \"a\": 1,")
}

func TestTextEqual(t *testing.T) {
	n := doc(t, `[1, 2]`)
	got, err := Text(n, n)
	require.NoError(t, err)
	for _, line := range strings.Split(strings.TrimSuffix(got, "\n"), "\n") {
		require.True(t, strings.HasPrefix(line, "  "), "line %q", line)
	}
}
