package scan

import "github.com/jsonquill/jsonquill/ir"

// Hooks are per-kind conversion hooks applied to scanned values before
// tree insertion. Nil entries are no-ops. A hook receives the freshly
// built node and returns the node to insert.
type Hooks struct {
	Bool   func(*ir.Node) (*ir.Node, error)
	Int    func(*ir.Node) (*ir.Node, error)
	Float  func(*ir.Node) (*ir.Node, error)
	String func(*ir.Node) (*ir.Node, error)
	Array  func(*ir.Node) (*ir.Node, error)
	Object func(*ir.Node) (*ir.Node, error)
}

type scanOpts struct {
	comments      bool
	missingCommas bool
	nanInf        bool
	surrogates    bool
	trailingComma bool
	unquotedKeys  bool
	dupKeys       bool
	useDecimal    bool
	maxDepth      int
	hooks         Hooks
}

type Option func(*scanOpts)

// AllowComments permits // line comments and /* */ block comments between
// tokens.
func AllowComments(v bool) Option {
	return func(o *scanOpts) { o.comments = v }
}

// AllowMissingCommas permits whitespace in place of commas between
// container members.
func AllowMissingCommas(v bool) Option {
	return func(o *scanOpts) { o.missingCommas = v }
}

// AllowNaNAndInfinity permits the literals NaN, Infinity and -Infinity.
func AllowNaNAndInfinity(v bool) Option {
	return func(o *scanOpts) { o.nanInf = v }
}

// AllowSurrogates permits lone surrogate escapes in strings.
func AllowSurrogates(v bool) Option {
	return func(o *scanOpts) { o.surrogates = v }
}

// AllowTrailingComma permits a comma before a closing bracket.
func AllowTrailingComma(v bool) Option {
	return func(o *scanOpts) { o.trailingComma = v }
}

// AllowUnquotedKeys permits bare identifier object keys.
func AllowUnquotedKeys(v bool) Option {
	return func(o *scanOpts) { o.unquotedKeys = v }
}

// AllowDuplicateKeys keeps repeated object keys instead of rejecting
// them; later occurrences are marked Dup.
func AllowDuplicateKeys(v bool) Option {
	return func(o *scanOpts) { o.dupKeys = v }
}

// UseDecimal routes all floating point numbers through exact decimals.
func UseDecimal(v bool) Option {
	return func(o *scanOpts) { o.useDecimal = v }
}

// MaxDepth bounds container nesting; exceeding it is a syntax error
// rather than a stack overflow.
func MaxDepth(n int) Option {
	return func(o *scanOpts) { o.maxDepth = n }
}

// WithHooks installs per-kind conversion hooks.
func WithHooks(h Hooks) Option {
	return func(o *scanOpts) { o.hooks = h }
}

const defaultMaxDepth = 1000
