package normalize

import (
	"github.com/signadot/xconv/format"
	"github.com/signadot/xconv/xmlconv"
)

type options struct {
	deep   bool
	policy xmlconv.Policy
	as     format.Kind
	root   string

	// pointers on the current conversion path
	visiting map[uintptr]bool
}

type Option func(*options)

// Deep converts every nested struct and contract value into a mapping.
// Without it only the outer value is reshaped and nested objects are kept
// as record nodes.
func Deep(v bool) Option { return func(o *options) { o.deep = v } }

// XMLPolicy sets the attribute policy used for XML input.
func XMLPolicy(p xmlconv.Policy) Option { return func(o *options) { o.policy = p } }

// As skips detection and decodes text input as the given kind, failing
// with a MalformedInputError when it does not parse.
func As(k format.Kind) Option { return func(o *options) { o.as = k } }

// XMLRoot sets the root name passed to values producing their own XML.
func XMLRoot(name string) Option { return func(o *options) { o.root = name } }
