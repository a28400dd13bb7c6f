package ir

import (
	"cmp"
	"fmt"
	"reflect"
	"strings"
)

// Compare returns an integer comparing two nodes.
// The result will be 0 if a==b, -1 if a < b, and +1 if a > b.
//
// Objects compare field by field in order, so two objects holding the same
// entries in a different order are not equal.
func Compare(a, b *Node) int {
	if a == b {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}

	// a non-empty object keyed "0".."n-1" is the same value as an array
	if isSeqObject(a) && b.Type == ArrayType || a.Type == ArrayType && isSeqObject(b) {
		return compareArrays(a, b)
	}

	rankA := rank(a.Type)
	rankB := rank(b.Type)
	if rankA != rankB {
		return cmp.Compare(rankA, rankB)
	}

	switch a.Type {
	case NumberType:
		return compareNumbers(a, b)
	case StringType:
		return strings.Compare(a.String, b.String)
	case BoolType:
		if a.Bool == b.Bool {
			return 0
		}
		if !a.Bool {
			return -1
		}
		return 1
	case ArrayType:
		return compareArrays(a, b)
	case ObjectType:
		return compareObjects(a, b)
	case RecordType:
		if reflect.DeepEqual(a.Record, b.Record) {
			return 0
		}
		if c := strings.Compare(fmt.Sprintf("%T", a.Record), fmt.Sprintf("%T", b.Record)); c != 0 {
			return c
		}
		return strings.Compare(fmt.Sprintf("%#v", a.Record), fmt.Sprintf("%#v", b.Record))
	}
	return 0
}

// Equal reports whether a and b hold the same structure.
func Equal(a, b *Node) bool {
	return Compare(a, b) == 0
}

// rank returns the sorting rank of a type.
// Order: Null < Bool < Number < String < Array < Object < Record
func rank(t Type) int {
	switch t {
	case NullType:
		return 1
	case BoolType:
		return 2
	case NumberType:
		return 3
	case StringType:
		return 4
	case ArrayType:
		return 5
	case ObjectType:
		return 6
	case RecordType:
		return 7
	}
	return 100
}

func compareNumbers(a, b *Node) int {
	// Sub-rank: Int64 < Float64
	subRankA := numberSubRank(a)
	subRankB := numberSubRank(b)
	if subRankA != subRankB {
		return cmp.Compare(subRankA, subRankB)
	}
	if a.Int64 != nil {
		return cmp.Compare(*a.Int64, *b.Int64)
	}
	if a.Float64 != nil {
		return cmp.Compare(*a.Float64, *b.Float64)
	}
	return 0
}

func numberSubRank(n *Node) int {
	if n.Int64 != nil {
		return 0
	}
	if n.Float64 != nil {
		return 1
	}
	return 2
}

func compareArrays(a, b *Node) int {
	n := min(len(a.Values), len(b.Values))
	for i := range n {
		if c := Compare(a.Values[i], b.Values[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a.Values), len(b.Values))
}

func isSeqObject(n *Node) bool {
	return n.Type == ObjectType && len(n.Fields) != 0 && n.IsSequential()
}

func compareObjects(a, b *Node) int {
	n := min(len(a.Fields), len(b.Fields))
	for i := range n {
		if c := strings.Compare(a.Fields[i], b.Fields[i]); c != 0 {
			return c
		}
		if c := Compare(a.Values[i], b.Values[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a.Fields), len(b.Fields))
}
