package patch

import (
	"github.com/jsonquill/jsonquill/debug"
	"github.com/jsonquill/jsonquill/encode"
	"github.com/jsonquill/jsonquill/ir"
	"github.com/jsonquill/jsonquill/scan"

	jsonpatch "github.com/evanphx/json-patch"
)

// ApplyRFC6902 applies an RFC 6902 patch document to root. Both trees
// round-trip through strict JSON text, so non-finite numbers and other
// dialect extensions are rejected by the encoder first.
func ApplyRFC6902(root, doc *ir.Node) (*ir.Node, error) {
	pd, err := encode.String(doc, encode.End(""))
	if err != nil {
		return nil, err
	}
	ops, err := jsonpatch.DecodePatch([]byte(pd))
	if err != nil {
		return nil, err
	}
	d, err := encode.String(root, encode.End(""))
	if err != nil {
		return nil, err
	}
	if debug.Patch() {
		debug.Logf("rfc6902 patch %s on %s", pd, d)
	}
	out, err := ops.Apply([]byte(d))
	if err != nil {
		return nil, err
	}
	return scan.Scan("", out)
}
