package format

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is the classification of a value's representation.
//
// Custom classifiers registered with the detect package produce kinds
// outside of the predefined set.
type Kind string

const (
	Mapping    Kind = "mapping"
	Object     Kind = "object"
	JSON       Kind = "json"
	Serialized Kind = "serialized"
	XML        Kind = "xml"
	Resource   Kind = "resource"

	Null    Kind = "null"
	Boolean Kind = "boolean"
	Integer Kind = "integer"
	Float   Kind = "float"
	String  Kind = "string"

	// not auto-detected
	YAML    Kind = "yaml"
	Msgpack Kind = "msgpack"
)

var ErrBadFormat = errors.New("bad format")

// Parse parses a format name as accepted on command lines.
func Parse(v string) (Kind, error) {
	k, ok := map[string]Kind{
		"j":          JSON,
		"json":       JSON,
		"s":          Serialized,
		"ser":        Serialized,
		"serialized": Serialized,
		"x":          XML,
		"xml":        XML,
		"y":          YAML,
		"yml":        YAML,
		"yaml":       YAML,
		"m":          Msgpack,
		"mp":         Msgpack,
		"msgpack":    Msgpack,
	}[strings.ToLower(v)]
	if ok {
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrBadFormat, v)
}

// FromSuffix returns the kind associated with a file extension (including
// the dot).
func FromSuffix(ext string) (Kind, bool) {
	k, ok := map[string]Kind{
		".json":    JSON,
		".ser":     Serialized,
		".xml":     XML,
		".yaml":    YAML,
		".yml":     YAML,
		".msgpack": Msgpack,
		".mp":      Msgpack,
	}[strings.ToLower(ext)]
	return k, ok
}

func (k Kind) String() string { return string(k) }

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k), nil
}

func (k *Kind) UnmarshalText(d []byte) error {
	pk, err := Parse(string(d))
	if err != nil {
		return err
	}
	*k = pk
	return nil
}

// IsText reports whether k is a textual interchange format.
func (k Kind) IsText() bool {
	switch k {
	case JSON, Serialized, XML, YAML:
		return true
	}
	return false
}

// IsScalar reports whether k is one of the built-in scalar kinds.
func (k Kind) IsScalar() bool {
	switch k {
	case Null, Boolean, Integer, Float, String:
		return true
	}
	return false
}

// Suffix returns the file extension for this kind (including the dot).
func (k Kind) Suffix() string {
	switch k {
	case JSON:
		return ".json"
	case Serialized:
		return ".ser"
	case XML:
		return ".xml"
	case YAML:
		return ".yaml"
	case Msgpack:
		return ".msgpack"
	default:
		return ""
	}
}

// Targets returns all encodable kinds in preference order.
func Targets() []Kind {
	return []Kind{JSON, Serialized, XML, YAML, Msgpack}
}
