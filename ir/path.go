package ir

import (
	"strconv"
	"strings"
)

// RootPath is the path of a document root.
const RootPath = "$"

// PathField extends a JSONPath-style path with an object field.
func PathField(prefix, f string) string {
	if prefix == "" {
		prefix = RootPath
	}
	if f != "" && strings.IndexAny(f, "'.*$[] ") == -1 {
		return prefix + "." + f
	}
	return prefix + ".'" + strings.ReplaceAll(f, "'", "\\'") + "'"
}

// PathIndex extends a JSONPath-style path with an array index.
func PathIndex(prefix string, i int) string {
	if prefix == "" {
		prefix = RootPath
	}
	return prefix + "[" + strconv.Itoa(i) + "]"
}
