// Package convert is the entry point for converting values between native
// Go values, JSON, serialized text, XML, YAML and MessagePack.
//
// Every conversion funnels through the normalizer: the input is turned into
// a deep node tree and the tree is encoded. Values implementing the
// contract interfaces short-circuit this where they supply the requested
// text themselves.
package convert

import (
	"github.com/signadot/xconv/contract"
	"github.com/signadot/xconv/detect"
	"github.com/signadot/xconv/format"
	"github.com/signadot/xconv/ir"
	"github.com/signadot/xconv/jsonfmt"
	"github.com/signadot/xconv/msgpackfmt"
	"github.com/signadot/xconv/normalize"
	"github.com/signadot/xconv/serial"
	"github.com/signadot/xconv/xmlconv"
	"github.com/signadot/xconv/yamlfmt"
)

// Classify returns the representation kind of v.
func Classify(v any) format.Kind { return detect.Classify(v) }

// Is reports whether v classifies as kind.
func Is(v any, kind format.Kind) bool { return detect.Classify(v) == kind }

func IsMapping(v any) bool    { return detect.IsMapping(v) }
func IsObject(v any) bool     { return detect.IsObject(v) }
func IsJSON(v any) bool       { return detect.IsJSON(v) }
func IsSerialized(v any) bool { return detect.IsSerialized(v) }
func IsXML(v any) bool        { return detect.IsXML(v) }
func IsResource(v any) bool   { return detect.IsResource(v) }

// Macro registers a custom classifier in the process wide registry. The
// kind it yields is derived from name, so "isBoolean" classifies values as
// "boolean".
func Macro(name string, p detect.Predicate) error {
	return detect.Register(name, p)
}

// ToStructure converts v into a container node, flattening nested objects
// when deep is set.
func ToStructure(v any, deep bool) (*ir.Node, error) {
	return normalize.ToStructure(v, normalize.Deep(deep))
}

// ToStructureWith converts v into a container node with explicit options.
func ToStructureWith(v any, opts ...normalize.Option) (*ir.Node, error) {
	return normalize.ToStructure(v, opts...)
}

func structure(v any, opts ...normalize.Option) (*ir.Node, error) {
	return normalize.ToStructure(v, append([]normalize.Option{normalize.Deep(true)}, opts...)...)
}

// ToJSON returns v as JSON text. A JSONer supplies its text directly;
// options then apply by re-encoding it.
func ToJSON(v any, opts ...jsonfmt.EncodeOption) (string, error) {
	var (
		node *ir.Node
		err  error
	)
	if j, ok := v.(contract.JSONer); ok {
		var s string
		s, err = j.ToJSON()
		if err != nil || len(opts) == 0 {
			return s, err
		}
		node, err = jsonfmt.Decode([]byte(s))
	} else {
		node, err = structure(v)
	}
	if err != nil {
		return "", err
	}
	d, err := jsonfmt.Marshal(node, opts...)
	if err != nil {
		return "", err
	}
	return string(d), nil
}

// ToSerialized returns v as serialized text.
func ToSerialized(v any) (string, error) {
	node, err := structure(v)
	if err != nil {
		return "", err
	}
	d, err := serial.Marshal(node)
	if err != nil {
		return "", err
	}
	return string(d), nil
}

// ToXML returns v as an XML document whose document element is named root,
// or "root" when root is empty. An XMLer supplies its document directly.
func ToXML(v any, root string, opts ...xmlconv.EncodeOption) (string, error) {
	if root == "" {
		root = "root"
	}
	if x, ok := v.(contract.XMLer); ok && len(opts) == 0 {
		return x.ToXML(root)
	}
	node, err := structure(v, normalize.XMLRoot(root))
	if err != nil {
		return "", err
	}
	d, err := xmlconv.Marshal(node, append([]xmlconv.EncodeOption{xmlconv.Root(root)}, opts...)...)
	if err != nil {
		return "", err
	}
	return string(d), nil
}

// XMLToStructure decodes an XML document under the given attribute policy.
func XMLToStructure(doc string, policy xmlconv.Policy) (*ir.Node, error) {
	return xmlconv.Decode([]byte(doc), policy)
}

// ToYAML returns v as YAML text.
func ToYAML(v any, opts ...yamlfmt.EncodeOption) (string, error) {
	node, err := structure(v)
	if err != nil {
		return "", err
	}
	d, err := yamlfmt.Marshal(node, opts...)
	if err != nil {
		return "", err
	}
	return string(d), nil
}

// ToMsgpack returns v encoded as MessagePack.
func ToMsgpack(v any) ([]byte, error) {
	node, err := structure(v)
	if err != nil {
		return nil, err
	}
	return msgpackfmt.Marshal(node)
}

// ToMap converts v into an object node. Sequences become objects keyed by
// index and scalars end up under "0".
func ToMap(v any) (*ir.Node, error) {
	node, err := structure(v)
	if err != nil {
		return nil, err
	}
	return node.AsObject(), nil
}

// ToSlice converts v into an array node holding the values of a mapping in
// order.
func ToSlice(v any) (*ir.Node, error) {
	node, err := structure(v)
	if err != nil {
		return nil, err
	}
	if node.Type == ir.ArrayType {
		return node, nil
	}
	return ir.FromSlice(node.Values), nil
}

// Equal reports whether a and b normalize to the same tree.
func Equal(a, b any) (bool, error) {
	na, err := structure(a)
	if err != nil {
		return false, err
	}
	nb, err := structure(b)
	if err != nil {
		return false, err
	}
	return ir.Equal(na, nb), nil
}
