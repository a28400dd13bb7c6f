// Package detect classifies the representation of arbitrary values.
//
// Classification runs, in order: the custom predicates of a Registry,
// native containers, contract implementers and handles, structs, text
// sniffing (serialized, then JSON, then XML) and finally scalar kinds.
// It never fails; unknown values end up in a scalar or resource kind.
package detect

import (
	"io"
	"reflect"

	"github.com/signadot/xconv/contract"
	"github.com/signadot/xconv/debug"
	"github.com/signadot/xconv/format"
	"github.com/signadot/xconv/ir"
	"github.com/signadot/xconv/jsonfmt"
	"github.com/signadot/xconv/serial"
	"github.com/signadot/xconv/xmlconv"
)

// Classify classifies v, consulting the Default registry first.
func Classify(v any) format.Kind {
	return Default.Classify(v)
}

// Classify classifies v, consulting the predicates of r first.
func (r *Registry) Classify(v any) format.Kind {
	if k, ok := r.Match(v); ok {
		if debug.Detect() {
			debug.Logf("classify %T: custom %s\n", v, k)
		}
		return k
	}
	k := Builtin(v)
	if debug.Detect() {
		debug.Logf("classify %T: %s\n", v, k)
	}
	return k
}

// Builtin classifies v without any custom predicate.
func Builtin(v any) format.Kind {
	if v == nil {
		return format.Null
	}
	if n, ok := v.(*ir.Node); ok {
		return nodeKind(n)
	}
	if IsMapping(v) {
		return format.Mapping
	}
	if contract.Implements(v) {
		return format.Object
	}
	if IsResource(v) {
		return format.Resource
	}
	if isStruct(v) {
		return format.Object
	}
	if d, ok := Text(v); ok {
		return sniff(d)
	}
	return scalarKind(reflect.ValueOf(v))
}

func nodeKind(n *ir.Node) format.Kind {
	if n == nil {
		return format.Null
	}
	switch n.Type {
	case ir.ObjectType, ir.ArrayType:
		return format.Mapping
	case ir.NullType:
		return format.Null
	case ir.BoolType:
		return format.Boolean
	case ir.NumberType:
		if n.Int64 != nil {
			return format.Integer
		}
		return format.Float
	case ir.StringType:
		return sniff([]byte(n.String))
	}
	return Builtin(n.Record)
}

func sniff(d []byte) format.Kind {
	switch {
	case serial.Valid(d):
		return format.Serialized
	case jsonfmt.Valid(d):
		return format.JSON
	case xmlconv.Valid(d):
		return format.XML
	}
	return format.String
}

func scalarKind(rv reflect.Value) format.Kind {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return format.Null
		}
		return Builtin(rv.Elem().Interface())
	case reflect.Bool:
		return format.Boolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return format.Integer
	case reflect.Float32, reflect.Float64:
		return format.Float
	case reflect.String:
		return format.String
	}
	return format.Resource
}

// IsMapping reports whether v is a native container: a map, a slice or
// array other than raw bytes, or an object or array node.
func IsMapping(v any) bool {
	if n, ok := v.(*ir.Node); ok {
		return n != nil && n.IsContainer()
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		return true
	case reflect.Slice, reflect.Array:
		return rv.Type().Elem().Kind() != reflect.Uint8
	}
	return false
}

// IsObject reports whether v implements a contract capability or is a
// struct (or non-nil pointer to one) that is not a resource handle.
func IsObject(v any) bool {
	if contract.Implements(v) {
		return true
	}
	return !IsResource(v) && isStruct(v)
}

func isStruct(v any) bool {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	return rv.Kind() == reflect.Struct
}

// IsResource reports whether v is a handle: a reader, writer or closer
// (files included), a channel, a function or an unsafe pointer.
func IsResource(v any) bool {
	switch v.(type) {
	case io.Reader, io.Writer, io.Closer:
		return true
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return true
	}
	return false
}

// IsJSON reports whether v is text holding a JSON object or array.
func IsJSON(v any) bool {
	d, ok := Text(v)
	return ok && jsonfmt.Valid(d)
}

// IsSerialized reports whether v is text holding exactly one serialized
// value.
func IsSerialized(v any) bool {
	d, ok := Text(v)
	return ok && serial.Valid(d)
}

// IsXML reports whether v is text holding a well formed document with a
// single root element.
func IsXML(v any) bool {
	d, ok := Text(v)
	return ok && xmlconv.Valid(d)
}

// Text returns the content of string-like values: strings, byte slices and
// types defined on them, and string nodes.
func Text(v any) ([]byte, bool) {
	switch x := v.(type) {
	case string:
		return []byte(x), true
	case []byte:
		return x, true
	case *ir.Node:
		if x != nil && x.Type == ir.StringType {
			return []byte(x.String), true
		}
		return nil, false
	}
	rv := reflect.ValueOf(v)
	switch {
	case rv.Kind() == reflect.String:
		return []byte(rv.String()), true
	case rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8:
		return rv.Bytes(), true
	}
	return nil, false
}
