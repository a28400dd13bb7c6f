package ir

import "fmt"

// Type tags a Node.
type Type int

const (
	NullType Type = iota
	NumberType
	StringType
	BoolType
	// ObjectType is a mapping with ordered, unique string keys.
	ObjectType
	// ArrayType is a sequence.
	ArrayType
	// RecordType holds a Go value that shallow normalization left as is,
	// such as a nested struct or a value implementing one of the contract
	// interfaces. Deep normalization replaces every record by its mapping,
	// so encoders reject the type.
	RecordType
)

var typeNames = [...]string{
	NullType:   "Null",
	NumberType: "Number",
	StringType: "String",
	BoolType:   "Bool",
	ObjectType: "Object",
	ArrayType:  "Array",
	RecordType: "Record",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "<unknown type>"
	}
	return typeNames[t]
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(d []byte) error {
	for i, name := range typeNames {
		if name == string(d) {
			*t = Type(i)
			return nil
		}
	}
	return fmt.Errorf("unrecognized type %q", d)
}

// Types lists every node type in declaration order.
func Types() []Type {
	res := make([]Type, len(typeNames))
	for i := range res {
		res[i] = Type(i)
	}
	return res
}

// IsLeaf reports whether nodes of type t have no child nodes. A record is a
// leaf until it is flattened.
func (t Type) IsLeaf() bool {
	switch t {
	case ObjectType, ArrayType:
		return false
	default:
		return true
	}
}
