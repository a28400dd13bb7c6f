// Package yamlfmt converts between YAML documents and nodes, keeping
// mapping order.
package yamlfmt

import (
	"fmt"
	"io"
	"maps"
	"math"
	"reflect"
	"slices"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/signadot/xconv/format"
	"github.com/signadot/xconv/ir"
)

// Decode parses a single YAML document.
func Decode(d []byte) (*ir.Node, error) {
	var v any
	if err := yaml.UnmarshalWithOptions(d, &v, yaml.UseOrderedMap()); err != nil {
		return nil, format.Malformed(format.YAML, err)
	}
	n, err := FromValue(v)
	if err != nil {
		return nil, format.Malformed(format.YAML, err)
	}
	return n, nil
}

// FromValue converts the values produced by ordered YAML decoding
// (yaml.MapSlice, []any and scalars) into a node.
func FromValue(v any) (*ir.Node, error) {
	switch x := v.(type) {
	case nil:
		return ir.Null(), nil
	case yaml.MapSlice:
		res := ir.NewObject()
		for _, item := range x {
			val, err := FromValue(item.Value)
			if err != nil {
				return nil, err
			}
			res.Set(KeyString(item.Key), val)
		}
		return res, nil
	case map[string]any:
		return FromValue(sortedMapSlice(x))
	case []any:
		res := ir.NewArray()
		for _, item := range x {
			val, err := FromValue(item)
			if err != nil {
				return nil, err
			}
			res.Append(val)
		}
		return res, nil
	case string:
		return ir.FromString(x), nil
	case bool:
		return ir.FromBool(x), nil
	case []byte:
		return ir.FromString(string(x)), nil
	case fmt.Stringer:
		return ir.FromString(x.String()), nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return ir.FromInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return ir.FromFloat(float64(u)), nil
		}
		return ir.FromInt(int64(u)), nil
	case reflect.Float32, reflect.Float64:
		return ir.FromFloat(rv.Float()), nil
	}
	return nil, fmt.Errorf("unexpected yaml value of type %T", v)
}

// KeyString renders a mapping key.
func KeyString(k any) string {
	switch x := k.(type) {
	case string:
		return x
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return fmt.Sprint(k)
}

func sortedMapSlice(m map[string]any) yaml.MapSlice {
	res := make(yaml.MapSlice, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		res = append(res, yaml.MapItem{Key: k, Value: m[k]})
	}
	return res
}

type encState struct {
	indent int
}

type EncodeOption func(*encState)

// Indent sets the number of spaces per indentation level, 2 by default.
func Indent(n int) EncodeOption {
	return func(es *encState) { es.indent = n }
}

// Encode writes node to w as a YAML document.
func Encode(node *ir.Node, w io.Writer, opts ...EncodeOption) error {
	d, err := Marshal(node, opts...)
	if err != nil {
		return err
	}
	_, err = w.Write(d)
	return err
}

// Marshal renders node as a YAML document. Objects become ordered
// mappings, except sequential ones which become sequences.
func Marshal(node *ir.Node, opts ...EncodeOption) ([]byte, error) {
	es := &encState{indent: 2}
	for _, opt := range opts {
		opt(es)
	}
	v, err := ToValue(node)
	if err != nil {
		return nil, err
	}
	return yaml.MarshalWithOptions(v, yaml.Indent(es.indent), yaml.IndentSequence(true))
}

// ToValue converts node into values goccy/go-yaml encodes in order.
func ToValue(node *ir.Node) (any, error) {
	if node == nil {
		return nil, nil
	}
	switch node.Type {
	case ir.NullType:
		return nil, nil
	case ir.BoolType:
		return node.Bool, nil
	case ir.StringType:
		return node.String, nil
	case ir.NumberType:
		if node.Int64 != nil {
			return *node.Int64, nil
		}
		if node.Float64 != nil {
			return *node.Float64, nil
		}
	case ir.ArrayType:
		return toSeq(node.Values)
	case ir.ObjectType:
		if len(node.Fields) != 0 && node.IsSequential() {
			return toSeq(node.Values)
		}
		res := make(yaml.MapSlice, len(node.Fields))
		for i, f := range node.Fields {
			v, err := ToValue(node.Values[i])
			if err != nil {
				return nil, err
			}
			res[i] = yaml.MapItem{Key: f, Value: v}
		}
		return res, nil
	}
	return nil, &format.UnsupportedConversionError{To: format.YAML, Reason: fmt.Sprintf("node type %s", node.Type)}
}

func toSeq(vs []*ir.Node) ([]any, error) {
	res := make([]any, len(vs))
	for i, v := range vs {
		x, err := ToValue(v)
		if err != nil {
			return nil, err
		}
		res[i] = x
	}
	return res, nil
}
