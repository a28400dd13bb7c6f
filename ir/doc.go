// Package ir provides the canonical in-memory structure every xconv
// conversion passes through.
//
// # Node Structure
//
// A Node is a recursive tagged union. The Type field selects which of the
// remaining fields carry the value:
//
//   - NullType: no value
//   - BoolType: Bool
//   - NumberType: exactly one of Int64 or Float64
//   - StringType: String
//   - ArrayType: Values, an ordered sequence
//   - ObjectType: Fields and Values in parallel, an ordered mapping
//   - RecordType: Record, an opaque Go value left in place by shallow
//     normalization
//
// # Objects
//
// For ObjectType nodes, Fields[i] is the key for the value at Values[i], so
// there are always as many fields as values. Keys are unique and insertion
// order is preserved; encoders rely on that order for deterministic output.
//
// Integer-like keys are kept as their decimal string. An object whose keys
// are exactly "0".."n-1" is sequential (see IsSequential) and may be encoded
// as an array; sparse integer keys are never dropped.
//
// # Creating Nodes
//
//	obj := ir.FromKeyVals([]ir.KeyVal{
//	    {Key: "name", Val: ir.FromString("Barbarian")},
//	    {Key: "life", Val: ir.FromInt(50)},
//	})
//	arr := ir.FromSlice([]*ir.Node{ir.FromInt(1), ir.FromInt(2)})
//
// # Thread Safety
//
// Node structures are not thread-safe. Clone nodes before sharing them
// between goroutines that mutate them.
package ir
