// Package jsonfmt decodes JSON text into ir nodes and encodes ir nodes as
// JSON text, preserving object key order in both directions.
package jsonfmt

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/signadot/xconv/format"
	"github.com/signadot/xconv/ir"
)

// Decode parses a single JSON document. Integers that fit in an int64
// become Int64 numbers; every other number becomes a Float64.
func Decode(d []byte) (*ir.Node, error) {
	dec := json.NewDecoder(bytes.NewReader(d))
	dec.UseNumber()
	node, err := decodeValue(dec)
	if err != nil {
		return nil, malformed(dec, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = errors.New("trailing data after document")
		}
		return nil, malformed(dec, err)
	}
	return node, nil
}

// Valid reports whether d holds a single JSON document whose root is an
// object or an array.
func Valid(d []byte) bool {
	t := bytes.TrimLeft(d, " \t\r\n")
	if len(t) == 0 || (t[0] != '{' && t[0] != '[') {
		return false
	}
	return json.Valid(t)
}

func malformed(dec *json.Decoder, err error) error {
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return &format.MalformedInputError{Kind: format.JSON, Offset: dec.InputOffset(), Err: err}
}

func decodeValue(dec *json.Decoder) (*ir.Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
		return nil, errors.New("unexpected delimiter " + v.String())
	case string:
		return ir.FromString(v), nil
	case json.Number:
		return FromNumber(string(v))
	case bool:
		return ir.FromBool(v), nil
	case nil:
		return ir.Null(), nil
	}
	return nil, errors.New("unexpected token")
}

func decodeObject(dec *json.Decoder) (*ir.Node, error) {
	res := ir.NewObject()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errors.New("object key is not a string")
		}
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		res.Set(key, val)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return res, nil
}

func decodeArray(dec *json.Decoder) (*ir.Node, error) {
	res := ir.NewArray()
	for dec.More() {
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		res.Append(val)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return res, nil
}

// FromNumber converts a JSON number literal to a number node.
func FromNumber(s string) (*ir.Node, error) {
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return ir.FromInt(i), nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return ir.FromFloat(f), nil
}
