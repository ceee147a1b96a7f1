// Package diff computes patch operations and textual diffs between two
// document trees.
package diff

import (
	"fmt"
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/jsonquill/jsonquill/encode"
	"github.com/jsonquill/jsonquill/ir"
	"github.com/jsonquill/jsonquill/patch"
	"github.com/jsonquill/jsonquill/token"
)

// Ops computes a patch such that applying it to old yields a tree equal
// to new, up to object key order. The returned operations reference
// nodes of new; patch application clones them on the way in.
func Ops(old, new *ir.Node) ([]*patch.Operation, error) {
	d := &differ{dmp: diffpatch.New(), memo: map[*ir.Node]string{}}
	var ops []*patch.Operation
	if err := d.walk("$", old, new, &ops); err != nil {
		return nil, err
	}
	return ops, nil
}

type differ struct {
	dmp  *diffpatch.DiffMatchPatch
	memo map[*ir.Node]string
}

// render produces the canonical text used for node equality.
func (d *differ) render(n *ir.Node) (string, error) {
	if s, ok := d.memo[n]; ok {
		return s, nil
	}
	s, err := encode.String(n,
		encode.End(""),
		encode.AllowNaNAndInfinity(true),
		encode.AllowSurrogates(true))
	if err != nil {
		return "", err
	}
	d.memo[n] = s
	return s, nil
}

func (d *differ) walk(path string, old, new *ir.Node, ops *[]*patch.Operation) error {
	os, err := d.render(old)
	if err != nil {
		return err
	}
	ns, err := d.render(new)
	if err != nil {
		return err
	}
	if os == ns {
		return nil
	}
	if old.Type != new.Type {
		*ops = append(*ops, &patch.Operation{Op: "set", Path: path, Value: new})
		return nil
	}
	switch old.Type {
	case ir.ObjectType:
		return d.object(path, old, new, ops)
	case ir.ArrayType:
		return d.array(path, old, new, ops)
	default:
		*ops = append(*ops, &patch.Operation{Op: "set", Path: path, Value: new})
		return nil
	}
}

// object diffs the field name sequences of two objects, deleting
// dropped keys, recursing on shared ones, and collecting added keys
// into a single update.
func (d *differ) object(path string, old, new *ir.Node, ops *[]*patch.Operation) error {
	if hasDup(old) || hasDup(new) {
		*ops = append(*ops, &patch.Operation{Op: "set", Path: path, Value: new})
		return nil
	}
	fieldMap := map[string]rune{}
	runeMap := map[rune]string{}
	oldRunes := mapFieldsTo(fieldMap, runeMap, old)
	newRunes := mapFieldsTo(fieldMap, runeMap, new)
	diffs := d.dmp.DiffMainRunes(oldRunes, newRunes, false)
	var props *ir.Node
	fi, ti := 0, 0
	for i := range diffs {
		diff := &diffs[i]
		switch diff.Type {
		case diffpatch.DiffDelete:
			for _, r := range diff.Text {
				kp, err := childKey(path, runeMap[r])
				if err != nil {
					return err
				}
				*ops = append(*ops, &patch.Operation{Op: "del", Path: kp})
				fi++
			}
		case diffpatch.DiffEqual:
			for _, r := range diff.Text {
				kp, err := childKey(path, runeMap[r])
				if err != nil {
					return err
				}
				if err := d.walk(kp, old.Values[fi], new.Values[ti], ops); err != nil {
					return err
				}
				fi++
				ti++
			}
		case diffpatch.DiffInsert:
			for _, r := range diff.Text {
				if props == nil {
					props = &ir.Node{Type: ir.ObjectType}
				}
				props.SetKey(runeMap[r], new.Values[ti].Clone())
				ti++
			}
		}
	}
	if props != nil {
		*ops = append(*ops, &patch.Operation{Op: "update", Path: path, Properties: props})
	}
	return nil
}

// array diffs element sequences keyed by their rendered text. A delete
// run followed by an insert run is treated as element replacements so
// nested changes recurse rather than churn whole elements.
func (d *differ) array(path string, old, new *ir.Node, ops *[]*patch.Operation) error {
	elemMap := map[string]rune{}
	oldRunes, err := d.mapElemsTo(elemMap, old)
	if err != nil {
		return err
	}
	newRunes, err := d.mapElemsTo(elemMap, new)
	if err != nil {
		return err
	}
	diffs := d.dmp.DiffMainRunes(oldRunes, newRunes, false)
	idx, fi, ti := 0, 0, 0
	for i := 0; i < len(diffs); i++ {
		diff := &diffs[i]
		switch diff.Type {
		case diffpatch.DiffEqual:
			n := len([]rune(diff.Text))
			idx += n
			fi += n
			ti += n
		case diffpatch.DiffDelete:
			nd := len([]rune(diff.Text))
			ni := 0
			if i+1 < len(diffs) && diffs[i+1].Type == diffpatch.DiffInsert {
				ni = len([]rune(diffs[i+1].Text))
			}
			paired := min(nd, ni)
			for j := 0; j < paired; j++ {
				ep := fmt.Sprintf("%s[%d]", path, idx)
				if err := d.walk(ep, old.Values[fi], new.Values[ti], ops); err != nil {
					return err
				}
				idx++
				fi++
				ti++
			}
			if rest := nd - paired; rest > 0 {
				p := fmt.Sprintf("%s[%d]", path, idx)
				if rest > 1 {
					p = fmt.Sprintf("%s[%d:%d]", path, idx, idx+rest)
				}
				*ops = append(*ops, &patch.Operation{Op: "del", Path: p})
				fi += rest
			}
			for j := paired; j < ni; j++ {
				*ops = append(*ops, &patch.Operation{
					Op:    "insert",
					Path:  fmt.Sprintf("%s[%d]", path, idx),
					Value: new.Values[ti],
				})
				idx++
				ti++
			}
			if ni > 0 {
				i++
			}
		case diffpatch.DiffInsert:
			for range diff.Text {
				*ops = append(*ops, &patch.Operation{
					Op:    "insert",
					Path:  fmt.Sprintf("%s[%d]", path, idx),
					Value: new.Values[ti],
				})
				idx++
				ti++
			}
		}
	}
	return nil
}

func (d *differ) mapElemsTo(m map[string]rune, node *ir.Node) ([]rune, error) {
	rs := make([]rune, len(node.Values))
	for i, v := range node.Values {
		s, err := d.render(v)
		if err != nil {
			return nil, err
		}
		r, ok := m[s]
		if !ok {
			r = rune(len(m))
			m[s] = r
		}
		rs[i] = r
	}
	return rs, nil
}

func mapFieldsTo(m map[string]rune, im map[rune]string, node *ir.Node) []rune {
	rs := make([]rune, len(node.Fields))
	for i := range node.Fields {
		f := node.Fields[i].String
		r, ok := m[f]
		if !ok {
			r = rune(len(m))
			m[f] = r
			im[r] = f
		}
		rs[i] = r
	}
	return rs
}

func hasDup(n *ir.Node) bool {
	for _, f := range n.Fields {
		if f.Dup {
			return true
		}
	}
	return false
}

func childKey(path, key string) (string, error) {
	if token.IsIdent(key) {
		return path + "." + key, nil
	}
	q, err := token.AppendQuoted(nil, key, false, true)
	if err != nil {
		return "", err
	}
	return path + "[" + string(q) + "]", nil
}

// Text renders old and new with the given encoding options and returns
// a line diff, "-" and "+" marking removed and added lines. Without
// options both trees are rendered with a two space indent.
func Text(old, new *ir.Node, opts ...encode.Option) (string, error) {
	all := append([]encode.Option{encode.Indent("  ")}, opts...)
	os, err := encode.String(old, all...)
	if err != nil {
		return "", err
	}
	ns, err := encode.String(new, all...)
	if err != nil {
		return "", err
	}
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(os, ns)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)
	var sb strings.Builder
	for i := range diffs {
		diff := &diffs[i]
		prefix := "  "
		switch diff.Type {
		case diffpatch.DiffDelete:
			prefix = "- "
		case diffpatch.DiffInsert:
			prefix = "+ "
		}
		text := strings.TrimSuffix(diff.Text, "\n")
		for _, line := range strings.Split(text, "\n") {
			sb.WriteString(prefix)
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}
	return sb.String(), nil
}
