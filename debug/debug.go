// Package debug provides environment-gated diagnostics for xconv.
//
// Each flag is read once at start up from an XCONV_DEBUG_* variable and
// output goes to stderr.
package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Detect    bool
	Normalize bool
	XML       bool
	Registry  bool
}

var d *debug

func init() {
	d = &debug{}
	d.Detect = boolEnv("XCONV_DEBUG_DETECT")
	d.Normalize = boolEnv("XCONV_DEBUG_NORMALIZE")
	d.XML = boolEnv("XCONV_DEBUG_XML")
	d.Registry = boolEnv("XCONV_DEBUG_REGISTRY")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Detect() bool {
	return d.Detect
}
func Normalize() bool {
	return d.Normalize
}
func XML() bool {
	return d.XML
}
func Registry() bool {
	return d.Registry
}
