// Package serial implements the tagged serialized text format.
//
// Every value starts with a one letter type tag:
//
//	N;                       null
//	b:1;                     boolean
//	i:42;                    integer
//	d:1.5;                   float (also INF, -INF, NAN)
//	s:5:"hello";             string, length in bytes
//	a:2:{i:0;s:1:"x";i:1;N;} array of key/value pairs, keys are i: or s:
//	O:8:"stdClass":1:{...}   object, decoded as a mapping
//
// The grammar is rigid, so malformed input is rejected at the first
// unexpected byte.
package serial

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/signadot/xconv/format"
	"github.com/signadot/xconv/ir"
)

type decoder struct {
	d   []byte
	off int
}

// Decode parses exactly one serialized value.
func Decode(d []byte) (*ir.Node, error) {
	dec := &decoder{d: d}
	n, err := dec.value()
	if err != nil {
		return nil, err
	}
	if dec.off != len(d) {
		return nil, dec.errorf("trailing data after value")
	}
	return n, nil
}

// Valid reports whether d holds exactly one serialized value.
func Valid(d []byte) bool {
	if len(d) < 2 {
		return false
	}
	switch d[0] {
	case 'N', 'b', 'i', 'd', 's', 'a', 'O', 'C':
	default:
		return false
	}
	_, err := Decode(d)
	return err == nil
}

func (dec *decoder) errorf(f string, args ...any) error {
	return format.Malformedf(format.Serialized, int64(dec.off), f, args...)
}

func (dec *decoder) value() (*ir.Node, error) {
	if dec.off >= len(dec.d) {
		return nil, dec.errorf("unexpected end of input")
	}
	tag := dec.d[dec.off]
	dec.off++
	if tag == 'N' {
		if err := dec.expect(';'); err != nil {
			return nil, err
		}
		return ir.Null(), nil
	}
	if err := dec.expect(':'); err != nil {
		return nil, err
	}
	switch tag {
	case 'b':
		s, err := dec.until(';')
		if err != nil {
			return nil, err
		}
		switch s {
		case "0":
			return ir.FromBool(false), nil
		case "1":
			return ir.FromBool(true), nil
		}
		return nil, dec.errorf("invalid boolean %q", s)
	case 'i':
		s, err := dec.until(';')
		if err != nil {
			return nil, err
		}
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, dec.errorf("invalid integer %q", s)
		}
		return ir.FromInt(i), nil
	case 'd':
		s, err := dec.until(';')
		if err != nil {
			return nil, err
		}
		f, err := parseFloat(s)
		if err != nil {
			return nil, dec.errorf("invalid float %q", s)
		}
		return ir.FromFloat(f), nil
	case 's':
		s, err := dec.lenString()
		if err != nil {
			return nil, err
		}
		if err := dec.expect(';'); err != nil {
			return nil, err
		}
		return ir.FromString(s), nil
	case 'a':
		return dec.array(true)
	case 'O':
		if _, err := dec.lenString(); err != nil {
			return nil, err
		}
		if err := dec.expect(':'); err != nil {
			return nil, err
		}
		return dec.array(false)
	case 'C':
		if _, err := dec.lenString(); err != nil {
			return nil, err
		}
		if err := dec.expect(':'); err != nil {
			return nil, err
		}
		n, err := dec.length()
		if err != nil {
			return nil, err
		}
		if err := dec.expect('{'); err != nil {
			return nil, err
		}
		if n > len(dec.d)-dec.off {
			return nil, dec.errorf("custom payload exceeds input")
		}
		inner, err := Decode(dec.d[dec.off : dec.off+n])
		if err != nil {
			return nil, err
		}
		dec.off += n
		if err := dec.expect('}'); err != nil {
			return nil, err
		}
		return inner, nil
	}
	return nil, dec.errorf("unsupported type tag %q", tag)
}

// array parses "<count>:{<key><value>...}" after the tag. When seq is set
// a mapping keyed 0..n-1 becomes a sequence.
func (dec *decoder) array(seq bool) (*ir.Node, error) {
	n, err := dec.length()
	if err != nil {
		return nil, err
	}
	if err := dec.expect('{'); err != nil {
		return nil, err
	}
	// every entry takes at least 4 bytes
	c := min(n, (len(dec.d)-dec.off)/4)
	res := &ir.Node{Type: ir.ObjectType, Fields: make([]string, 0, c), Values: make([]*ir.Node, 0, c)}
	for range n {
		k, err := dec.value()
		if err != nil {
			return nil, err
		}
		var key string
		switch {
		case k.IsInt():
			key = strconv.FormatInt(*k.Int64, 10)
		case k.Type == ir.StringType:
			key = memberName(k.String)
		default:
			return nil, dec.errorf("invalid array key type %s", k.Type)
		}
		v, err := dec.value()
		if err != nil {
			return nil, err
		}
		res.Set(key, v)
	}
	if err := dec.expect('}'); err != nil {
		return nil, err
	}
	if seq && res.IsSequential() {
		return ir.FromSlice(res.Values), nil
	}
	return res, nil
}

// memberName strips the visibility prefix of protected ("\0*\0name") and
// private ("\0Class\0name") object members.
func memberName(k string) string {
	if len(k) == 0 || k[0] != 0 {
		return k
	}
	if i := strings.IndexByte(k[1:], 0); i >= 0 {
		return k[i+2:]
	}
	return k
}

// lenString parses `<len>:"<bytes>"`.
func (dec *decoder) lenString() (string, error) {
	n, err := dec.length()
	if err != nil {
		return "", err
	}
	if err := dec.expect('"'); err != nil {
		return "", err
	}
	if n > len(dec.d)-dec.off {
		return "", dec.errorf("string length %d exceeds input", n)
	}
	s := string(dec.d[dec.off : dec.off+n])
	dec.off += n
	if err := dec.expect('"'); err != nil {
		return "", err
	}
	return s, nil
}

// length parses a non-negative count followed by ':'.
func (dec *decoder) length() (int, error) {
	s, err := dec.until(':')
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, dec.errorf("invalid length %q", s)
	}
	return n, nil
}

func (dec *decoder) until(c byte) (string, error) {
	i := bytes.IndexByte(dec.d[dec.off:], c)
	if i < 0 {
		return "", dec.errorf("missing %q", c)
	}
	s := string(dec.d[dec.off : dec.off+i])
	dec.off += i + 1
	return s, nil
}

func (dec *decoder) expect(c byte) error {
	if dec.off >= len(dec.d) || dec.d[dec.off] != c {
		return dec.errorf("expected %q", c)
	}
	dec.off++
	return nil
}

func parseFloat(s string) (float64, error) {
	switch s {
	case "INF":
		return math.Inf(1), nil
	case "-INF":
		return math.Inf(-1), nil
	case "NAN":
		return math.NaN(), nil
	}
	if s == "" || strings.ContainsAny(s, "xXpP_") {
		return 0, fmt.Errorf("bad float")
	}
	return strconv.ParseFloat(s, 64)
}
