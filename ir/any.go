package ir

// ToAny exports y as plain Go values: map[string]any, []any, int64,
// float64, string, bool or nil. Object key order is lost; use KeyVals when
// order matters.
func (y *Node) ToAny() any {
	if y == nil {
		return nil
	}
	switch y.Type {
	case BoolType:
		return y.Bool
	case StringType:
		return y.String
	case NumberType:
		if y.Int64 != nil {
			return *y.Int64
		}
		if y.Float64 != nil {
			return *y.Float64
		}
		return nil
	case ArrayType:
		res := make([]any, len(y.Values))
		for i, v := range y.Values {
			res[i] = v.ToAny()
		}
		return res
	case ObjectType:
		res := make(map[string]any, len(y.Fields))
		for i, f := range y.Fields {
			res[f] = y.Values[i].ToAny()
		}
		return res
	case RecordType:
		return y.Record
	}
	return nil
}
