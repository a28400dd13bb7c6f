// Package normalize turns any supported input into a node tree.
//
// Native maps, slices and structs are reshaped by reflection, values
// implementing a contract capability supply their own representation, and
// text is decoded according to its detected (or forced) format.
package normalize

import (
	"fmt"

	"github.com/signadot/xconv/contract"
	"github.com/signadot/xconv/debug"
	"github.com/signadot/xconv/detect"
	"github.com/signadot/xconv/format"
	"github.com/signadot/xconv/ir"
	"github.com/signadot/xconv/jsonfmt"
	"github.com/signadot/xconv/msgpackfmt"
	"github.com/signadot/xconv/serial"
	"github.com/signadot/xconv/xmlconv"
	"github.com/signadot/xconv/yamlfmt"
)

// ToStructure converts v into a container node.
//
// A result that is not a container is wrapped in a one-element array and
// nil becomes an empty array, so callers can always iterate the result.
func ToStructure(v any, opts ...Option) (*ir.Node, error) {
	n, err := ToNode(v, opts...)
	if err != nil {
		return nil, err
	}
	return Wrap(n), nil
}

// Wrap returns n if it is a container, an empty array for null and a
// one-element array holding n otherwise.
func Wrap(n *ir.Node) *ir.Node {
	switch {
	case n.IsContainer():
		return n
	case n.Type == ir.NullType:
		return ir.NewArray()
	}
	return ir.FromSlice([]*ir.Node{n})
}

// ToNode converts v like ToStructure without wrapping scalars.
func ToNode(v any, opts ...Option) (*ir.Node, error) {
	o := &options{root: "root", visiting: map[uintptr]bool{}}
	for _, opt := range opts {
		opt(o)
	}
	kind := o.as
	if kind == "" {
		kind = detect.Builtin(v)
	}
	n, err := o.fromKind(v, kind)
	if err != nil {
		return nil, err
	}
	if debug.Normalize() {
		debug.Logf("normalize %T as %s (deep=%t): %v\n", v, kind, o.deep, n)
	}
	return n, nil
}

func (o *options) fromKind(v any, kind format.Kind) (*ir.Node, error) {
	switch kind {
	case format.JSON, format.Serialized, format.XML, format.YAML, format.Msgpack:
		d, ok := detect.Text(v)
		if !ok {
			return nil, &MarshalError{Message: fmt.Sprintf("%T is not %s text", v, kind)}
		}
		return o.decode(d, kind)
	case format.Object:
		return o.object(v, "", true)
	case format.Resource:
		return ir.FromRecord(v), nil
	}
	return o.value(v, "", true)
}

// decode parses text of a known format.
func (o *options) decode(d []byte, kind format.Kind) (*ir.Node, error) {
	switch kind {
	case format.JSON:
		return jsonfmt.Decode(d)
	case format.Serialized:
		return serial.Decode(d)
	case format.XML:
		return xmlconv.Decode(d, o.policy)
	case format.YAML:
		return yamlfmt.Decode(d)
	case format.Msgpack:
		return msgpackfmt.Decode(d)
	}
	return nil, &format.UnsupportedConversionError{To: kind, Reason: "not a text format"}
}

// object converts a value classified as an object. Contract capabilities
// take precedence over reflection: Mapper, then JSONer, then XMLer.
func (o *options) object(v any, path string, top bool) (*ir.Node, error) {
	switch x := v.(type) {
	case contract.Mapper:
		m, err := x.ToMap()
		if err != nil {
			return nil, &MarshalError{FieldPath: path, Message: "ToMap", Err: err}
		}
		if _, again := m.(contract.Mapper); again {
			return nil, &MarshalError{FieldPath: path, Message: fmt.Sprintf("ToMap of %T returned a Mapper", v)}
		}
		return o.value(m, path, top)
	case contract.JSONer:
		s, err := x.ToJSON()
		if err != nil {
			return nil, &MarshalError{FieldPath: path, Message: "ToJSON", Err: err}
		}
		return jsonfmt.Decode([]byte(s))
	case contract.XMLer:
		s, err := x.ToXML(o.root)
		if err != nil {
			return nil, &MarshalError{FieldPath: path, Message: "ToXML", Err: err}
		}
		return xmlconv.Decode([]byte(s), o.policy)
	}
	return o.value(v, path, top)
}
