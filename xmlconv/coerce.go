package xmlconv

import (
	"regexp"
	"strconv"

	"github.com/signadot/xconv/ir"
)

var (
	intRE   = regexp.MustCompile(`^[-+]?[0-9]+$`)
	floatRE = regexp.MustCompile(`^[-+]?([0-9]+\.[0-9]*|\.[0-9]+|[0-9]+)([eE][-+]?[0-9]+)?$`)
)

// Coerce types leaf text: "true" and "false" become booleans, integer and
// decimal literals become numbers, anything else stays a string.
func Coerce(s string) *ir.Node {
	switch s {
	case "true":
		return ir.FromBool(true)
	case "false":
		return ir.FromBool(false)
	case "":
		return ir.FromString("")
	}
	if intRE.MatchString(s) {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return ir.FromInt(i)
		}
	}
	if floatRE.MatchString(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return ir.FromFloat(f)
		}
	}
	return ir.FromString(s)
}
