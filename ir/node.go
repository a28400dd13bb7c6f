package ir

import (
	"strconv"
)

type Node struct {
	Type   Type
	Fields []string
	Values []*Node

	String  string
	Bool    bool
	Float64 *float64
	Int64   *int64
	Record  any
}

func (y *Node) Clone() *Node {
	res := &Node{}
	return y.CloneTo(res)
}

func (y *Node) CloneTo(dst *Node) *Node {
	dst.Type = y.Type
	dst.String = y.String
	dst.Bool = y.Bool
	dst.Record = y.Record
	dst.Float64, dst.Int64 = nil, nil
	if y.Float64 != nil {
		f := *y.Float64
		dst.Float64 = &f
	}
	if y.Int64 != nil {
		i := *y.Int64
		dst.Int64 = &i
	}
	dst.Fields = nil
	if y.Fields != nil {
		dst.Fields = make([]string, len(y.Fields))
		copy(dst.Fields, y.Fields)
	}
	dst.Values = nil
	if y.Values != nil {
		dst.Values = make([]*Node, len(y.Values))
		for i, yv := range y.Values {
			dst.Values[i] = yv.Clone()
		}
	}
	return dst
}

func FromString(v string) *Node {
	return &Node{Type: StringType, String: v}
}

func FromInt(v int64) *Node {
	return &Node{
		Type:  NumberType,
		Int64: &v,
	}
}

func FromFloat(f float64) *Node {
	return &Node{
		Type:    NumberType,
		Float64: &f,
	}
}

func FromBool(v bool) *Node {
	return &Node{
		Type: BoolType,
		Bool: v,
	}
}

func FromRecord(v any) *Node {
	return &Node{Type: RecordType, Record: v}
}

func Null() *Node {
	return &Node{Type: NullType}
}

func FromSlice(ySlice []*Node) *Node {
	res := &Node{Type: ArrayType, Values: make([]*Node, len(ySlice))}
	copy(res.Values, ySlice)
	return res
}

type KeyVal struct {
	Key string
	Val *Node
}

// FromKeyVals builds an object in the order given. A repeated key keeps its
// first position and takes the last value.
func FromKeyVals(kvs []KeyVal) *Node {
	res := &Node{Type: ObjectType, Fields: []string{}, Values: []*Node{}}
	for _, kv := range kvs {
		res.Set(kv.Key, kv.Val)
	}
	return res
}

// NewObject returns an empty object.
func NewObject() *Node {
	return &Node{Type: ObjectType, Fields: []string{}, Values: []*Node{}}
}

// NewArray returns an empty array.
func NewArray() *Node {
	return &Node{Type: ArrayType, Values: []*Node{}}
}

func (y *Node) KeyVals() []KeyVal {
	res := make([]KeyVal, len(y.Fields))
	for i, f := range y.Fields {
		res[i] = KeyVal{Key: f, Val: y.Values[i]}
	}
	return res
}

// Get returns the value stored under field, or nil.
func Get(y *Node, field string) *Node {
	if y == nil || y.Type != ObjectType {
		return nil
	}
	if i := y.Index(field); i >= 0 {
		return y.Values[i]
	}
	return nil
}

// Index returns the position of field in an object, or -1.
func (y *Node) Index(field string) int {
	for i, f := range y.Fields {
		if f == field {
			return i
		}
	}
	return -1
}

// Set stores v under field, replacing any existing value in place.
func (y *Node) Set(field string, v *Node) {
	if i := y.Index(field); i >= 0 {
		y.Values[i] = v
		return
	}
	y.Fields = append(y.Fields, field)
	y.Values = append(y.Values, v)
}

// Append adds v to the end of an array.
func (y *Node) Append(v *Node) {
	y.Values = append(y.Values, v)
}

func (y *Node) Len() int {
	return len(y.Values)
}

func (y *Node) IsContainer() bool {
	return y.Type == ObjectType || y.Type == ArrayType
}

func (y *Node) IsInt() bool {
	return y.Type == NumberType && y.Int64 != nil
}

func (y *Node) IsFloat() bool {
	return y.Type == NumberType && y.Float64 != nil
}

// IsSequential reports whether y is an array, or an object whose keys are
// exactly "0", "1", ... in order.
func (y *Node) IsSequential() bool {
	switch y.Type {
	case ArrayType:
		return true
	case ObjectType:
		for i, f := range y.Fields {
			if f != strconv.Itoa(i) {
				return false
			}
		}
		return true
	}
	return false
}

// IsNumericKeyed reports whether y is an array, or an object whose keys are
// all integers in any order.
func (y *Node) IsNumericKeyed() bool {
	switch y.Type {
	case ArrayType:
		return true
	case ObjectType:
		for _, f := range y.Fields {
			if !IsIntKey(f) {
				return false
			}
		}
		return true
	}
	return false
}

// IsIntKey reports whether k is the canonical decimal form of an integer.
func IsIntKey(k string) bool {
	if k == "" {
		return false
	}
	i, err := strconv.ParseInt(k, 10, 64)
	return err == nil && strconv.FormatInt(i, 10) == k
}

// AsObject returns y as an object, converting arrays to index-keyed objects.
func (y *Node) AsObject() *Node {
	switch y.Type {
	case ObjectType:
		return y
	case ArrayType:
		res := &Node{Type: ObjectType, Fields: make([]string, len(y.Values)), Values: make([]*Node, len(y.Values))}
		for i, v := range y.Values {
			res.Fields[i] = strconv.Itoa(i)
			res.Values[i] = v
		}
		return res
	}
	return nil
}

func (y *Node) Visit(f func(y *Node, isPost bool) (bool, error)) error {
	dive, err := f(y, false)
	if err != nil {
		return err
	}
	if dive {
		for _, yy := range y.Values {
			if err := yy.Visit(f); err != nil {
				return err
			}
		}
	}
	if _, err := f(y, true); err != nil {
		return err
	}
	return nil
}
