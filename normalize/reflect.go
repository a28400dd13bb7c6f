package normalize

import (
	"cmp"
	"encoding"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/signadot/xconv/contract"
	"github.com/signadot/xconv/detect"
	"github.com/signadot/xconv/ir"
	"github.com/signadot/xconv/jsonfmt"
	"github.com/signadot/xconv/yamlfmt"
)

// value converts a Go value by reflection. Below the top level, structs
// and contract values are only flattened in deep mode; otherwise they are
// kept as records.
func (o *options) value(v any, path string, top bool) (*ir.Node, error) {
	switch x := v.(type) {
	case nil:
		return ir.Null(), nil
	case *ir.Node:
		if x == nil {
			return ir.Null(), nil
		}
		return o.node(x, path)
	case yaml.MapSlice:
		res := ir.NewObject()
		for _, item := range x {
			k := yamlfmt.KeyString(item.Key)
			child, err := o.value(item.Value, ir.PathField(path, k), false)
			if err != nil {
				return nil, err
			}
			res.Set(k, child)
		}
		return res, nil
	}
	if detect.IsResource(v) {
		return ir.FromRecord(v), nil
	}
	if contract.Implements(v) {
		if !top && !o.deep {
			return ir.FromRecord(v), nil
		}
		return o.object(v, path, top)
	}
	switch x := v.(type) {
	case json.Marshaler:
		if !isNilPointer(x) {
			d, err := x.MarshalJSON()
			if err != nil {
				return nil, &MarshalError{FieldPath: path, Message: "MarshalJSON", Err: err}
			}
			return jsonfmt.Decode(d)
		}
	case encoding.TextMarshaler:
		if !isNilPointer(x) {
			d, err := x.MarshalText()
			if err != nil {
				return nil, &MarshalError{FieldPath: path, Message: "MarshalText", Err: err}
			}
			return ir.FromString(string(d)), nil
		}
	}
	if !top && !o.deep && isStruct(v) {
		return ir.FromRecord(v), nil
	}
	return o.reflectValue(reflect.ValueOf(v), path)
}

func (o *options) reflectValue(rv reflect.Value, path string) (*ir.Node, error) {
	switch rv.Kind() {
	case reflect.Invalid:
		return ir.Null(), nil
	case reflect.Pointer:
		if rv.IsNil() {
			return ir.Null(), nil
		}
		p := rv.Pointer()
		if o.visiting[p] {
			return nil, &MarshalError{FieldPath: path, Message: fmt.Sprintf("cycle through %s", rv.Type())}
		}
		o.visiting[p] = true
		defer delete(o.visiting, p)
		return o.value(rv.Elem().Interface(), path, true)
	case reflect.Interface:
		if rv.IsNil() {
			return ir.Null(), nil
		}
		return o.value(rv.Elem().Interface(), path, false)
	case reflect.String:
		return ir.FromString(rv.String()), nil
	case reflect.Bool:
		return ir.FromBool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return ir.FromInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return ir.FromFloat(float64(u)), nil
		}
		return ir.FromInt(int64(u)), nil
	case reflect.Float32:
		// keep the shortest float32 decimal, 1.1 rather than 1.100000023841858
		f, _ := strconv.ParseFloat(strconv.FormatFloat(rv.Float(), 'g', -1, 32), 64)
		return ir.FromFloat(f), nil
	case reflect.Float64:
		return ir.FromFloat(rv.Float()), nil
	case reflect.Slice:
		if rv.IsNil() {
			return ir.Null(), nil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return ir.FromString(string(rv.Bytes())), nil
		}
		return o.reflectSeq(rv, path)
	case reflect.Array:
		return o.reflectSeq(rv, path)
	case reflect.Map:
		return o.reflectMap(rv, path)
	case reflect.Struct:
		return o.reflectStruct(rv, path)
	case reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return ir.FromRecord(rv.Interface()), nil
	}
	return nil, &MarshalError{FieldPath: path, Message: fmt.Sprintf("unsupported type: %s", rv.Type())}
}

func (o *options) reflectSeq(rv reflect.Value, path string) (*ir.Node, error) {
	res := &ir.Node{Type: ir.ArrayType, Values: make([]*ir.Node, 0, rv.Len())}
	for i := range rv.Len() {
		child, err := o.value(rv.Index(i).Interface(), ir.PathIndex(path, i), false)
		if err != nil {
			return nil, err
		}
		res.Values = append(res.Values, child)
	}
	return res, nil
}

type mapEntry struct {
	key    string
	intKey int64
	isInt  bool
	val    reflect.Value
}

// reflectMap converts a map with its keys sorted: numerically when every
// key is an integer, as strings otherwise.
func (o *options) reflectMap(rv reflect.Value, path string) (*ir.Node, error) {
	if rv.IsNil() {
		return ir.Null(), nil
	}
	p := rv.Pointer()
	if o.visiting[p] {
		return nil, &MarshalError{FieldPath: path, Message: fmt.Sprintf("cycle through %s", rv.Type())}
	}
	o.visiting[p] = true
	defer delete(o.visiting, p)
	entries := make([]mapEntry, 0, rv.Len())
	allInt := true
	iter := rv.MapRange()
	for iter.Next() {
		e, err := mapKey(iter.Key(), path)
		if err != nil {
			return nil, err
		}
		e.val = iter.Value()
		allInt = allInt && e.isInt
		entries = append(entries, e)
	}
	slices.SortFunc(entries, func(a, b mapEntry) int {
		if allInt {
			return cmp.Compare(a.intKey, b.intKey)
		}
		return strings.Compare(a.key, b.key)
	})
	res := &ir.Node{Type: ir.ObjectType, Fields: make([]string, 0, len(entries)), Values: make([]*ir.Node, 0, len(entries))}
	for _, e := range entries {
		child, err := o.value(e.val.Interface(), ir.PathField(path, e.key), false)
		if err != nil {
			return nil, err
		}
		res.Set(e.key, child)
	}
	return res, nil
}

func mapKey(k reflect.Value, path string) (mapEntry, error) {
	if k.Kind() == reflect.Interface && !k.IsNil() {
		k = k.Elem()
	}
	switch k.Kind() {
	case reflect.String:
		s := k.String()
		i, err := strconv.ParseInt(s, 10, 64)
		return mapEntry{key: s, intKey: i, isInt: err == nil && ir.IsIntKey(s)}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return mapEntry{key: strconv.FormatInt(k.Int(), 10), intKey: k.Int(), isInt: true}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := k.Uint()
		return mapEntry{key: strconv.FormatUint(u, 10), intKey: int64(u), isInt: u <= math.MaxInt64}, nil
	case reflect.Bool:
		return mapEntry{key: strconv.FormatBool(k.Bool())}, nil
	case reflect.Float32, reflect.Float64:
		return mapEntry{key: strconv.FormatFloat(k.Float(), 'f', -1, 64)}, nil
	}
	if tm, ok := k.Interface().(encoding.TextMarshaler); ok {
		d, err := tm.MarshalText()
		if err != nil {
			return mapEntry{}, &MarshalError{FieldPath: path, Message: "map key", Err: err}
		}
		return mapEntry{key: string(d)}, nil
	}
	return mapEntry{}, &MarshalError{FieldPath: path, Message: fmt.Sprintf("unsupported map key type %s", k.Type())}
}

// reflectStruct converts exported fields in declaration order, honouring
// json tags. Fields of exported embedded structs are promoted; a field
// declared directly wins over a promoted one of the same name.
func (o *options) reflectStruct(rv reflect.Value, path string) (*ir.Node, error) {
	typ := rv.Type()
	res := ir.NewObject()
	direct := map[string]bool{}
	for i := range typ.NumField() {
		f := typ.Field(i)
		if !f.IsExported() {
			continue
		}
		name, omitEmpty, skip := parseTag(f)
		if skip {
			continue
		}
		fv := rv.Field(i)
		if f.Anonymous && name == "" {
			ev := fv
			if ev.Kind() == reflect.Pointer {
				if ev.IsNil() {
					continue
				}
				ev = ev.Elem()
			}
			if ev.Kind() == reflect.Struct && !contract.Implements(fv.Interface()) {
				emb, err := o.reflectStruct(ev, path)
				if err != nil {
					return nil, err
				}
				for j, k := range emb.Fields {
					if !direct[k] && res.Index(k) < 0 {
						res.Set(k, emb.Values[j])
					}
				}
				continue
			}
		}
		if name == "" {
			name = f.Name
		}
		if omitEmpty && isEmptyValue(fv) {
			continue
		}
		child, err := o.value(fv.Interface(), ir.PathField(path, name), false)
		if err != nil {
			return nil, err
		}
		res.Set(name, child)
		direct[name] = true
	}
	return res, nil
}

func parseTag(f reflect.StructField) (name string, omitEmpty, skip bool) {
	tag, ok := f.Tag.Lookup("json")
	if !ok {
		return "", false, false
	}
	if tag == "-" {
		return "", false, true
	}
	name, opts, _ := strings.Cut(tag, ",")
	for _, opt := range strings.Split(opts, ",") {
		if opt == "omitempty" || opt == "omitzero" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Interface, reflect.Pointer:
		return v.IsZero()
	}
	return false
}

func isStruct(v any) bool {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	return rv.Kind() == reflect.Struct
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// node copies n, flattening records in deep mode.
func (o *options) node(n *ir.Node, path string) (*ir.Node, error) {
	if !o.deep {
		return n.Clone(), nil
	}
	switch n.Type {
	case ir.RecordType:
		return o.value(n.Record, path, true)
	case ir.ObjectType:
		res := &ir.Node{Type: ir.ObjectType, Fields: make([]string, 0, len(n.Fields)), Values: make([]*ir.Node, 0, len(n.Fields))}
		for i, f := range n.Fields {
			child, err := o.node(n.Values[i], ir.PathField(path, f))
			if err != nil {
				return nil, err
			}
			res.Set(f, child)
		}
		return res, nil
	case ir.ArrayType:
		res := &ir.Node{Type: ir.ArrayType, Values: make([]*ir.Node, 0, len(n.Values))}
		for i, v := range n.Values {
			child, err := o.node(v, ir.PathIndex(path, i))
			if err != nil {
				return nil, err
			}
			res.Values = append(res.Values, child)
		}
		return res, nil
	}
	return n.Clone(), nil
}
