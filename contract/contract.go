// Package contract declares the capabilities a value can implement to
// supply its own representation instead of being inspected by reflection.
//
// When a value implements more than one capability, conversions use the
// most specific one: Mapper, then JSONer, then XMLer.
package contract

// Mapper produces a native mapping or sequence, for example a
// map[string]any, a []any or an *ir.Node.
type Mapper interface {
	ToMap() (any, error)
}

// JSONer produces JSON text.
type JSONer interface {
	ToJSON() (string, error)
}

// XMLer produces an XML document whose document element is named root.
type XMLer interface {
	ToXML(root string) (string, error)
}

// Implements reports whether v implements any of the capabilities.
func Implements(v any) bool {
	switch v.(type) {
	case Mapper, JSONer, XMLer:
		return true
	}
	return false
}
