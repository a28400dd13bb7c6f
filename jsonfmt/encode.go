package jsonfmt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/signadot/xconv/format"
	"github.com/signadot/xconv/ir"
)

type encState struct {
	prefix, indent string
	pretty         bool
	escapeHTML     bool

	scratch bytes.Buffer
	strEnc  *json.Encoder
}

type EncodeOption func(*encState)

// Indent pretty prints the output the way json.Indent does.
func Indent(prefix, indent string) EncodeOption {
	return func(es *encState) {
		es.prefix, es.indent = prefix, indent
		es.pretty = true
	}
}

// EscapeHTML controls escaping of <, > and & inside strings. It is off by
// default.
func EscapeHTML(v bool) EncodeOption {
	return func(es *encState) { es.escapeHTML = v }
}

// Encode writes node to w as JSON. Objects whose keys are exactly
// "0".."n-1" are written as arrays.
func Encode(node *ir.Node, w io.Writer, opts ...EncodeOption) error {
	d, err := Marshal(node, opts...)
	if err != nil {
		return err
	}
	_, err = w.Write(d)
	return err
}

// Marshal returns the JSON encoding of node.
func Marshal(node *ir.Node, opts ...EncodeOption) ([]byte, error) {
	es := &encState{}
	for _, opt := range opts {
		opt(es)
	}
	es.strEnc = json.NewEncoder(&es.scratch)
	es.strEnc.SetEscapeHTML(es.escapeHTML)

	buf := bytes.NewBuffer(nil)
	if err := encode(node, buf, es); err != nil {
		return nil, err
	}
	if !es.pretty {
		return buf.Bytes(), nil
	}
	out := bytes.NewBuffer(nil)
	if err := json.Indent(out, buf.Bytes(), es.prefix, es.indent); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func encode(node *ir.Node, buf *bytes.Buffer, es *encState) error {
	if node == nil {
		buf.WriteString("null")
		return nil
	}
	switch node.Type {
	case ir.NullType:
		buf.WriteString("null")
	case ir.BoolType:
		buf.WriteString(strconv.FormatBool(node.Bool))
	case ir.NumberType:
		s, err := formatNumber(node)
		if err != nil {
			return err
		}
		buf.WriteString(s)
	case ir.StringType:
		return writeString(buf, node.String, es)
	case ir.ArrayType:
		return encodeSeq(node.Values, buf, es)
	case ir.ObjectType:
		if len(node.Fields) != 0 && node.IsSequential() {
			return encodeSeq(node.Values, buf, es)
		}
		buf.WriteByte('{')
		for i, f := range node.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(buf, f, es); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := encode(node.Values[i], buf, es); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return &format.UnsupportedConversionError{
			To:     format.JSON,
			Reason: fmt.Sprintf("node type %s", node.Type),
		}
	}
	return nil
}

func encodeSeq(vs []*ir.Node, buf *bytes.Buffer, es *encState) error {
	buf.WriteByte('[')
	for i, v := range vs {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encode(v, buf, es); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}

func writeString(buf *bytes.Buffer, s string, es *encState) error {
	es.scratch.Reset()
	if err := es.strEnc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(es.scratch.Bytes(), []byte{'\n'}))
	return nil
}

func formatNumber(node *ir.Node) (string, error) {
	if node.Int64 != nil {
		return strconv.FormatInt(*node.Int64, 10), nil
	}
	if node.Float64 == nil {
		return "", &format.UnsupportedConversionError{To: format.JSON, Reason: "number without value"}
	}
	f := *node.Float64
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", &format.UnsupportedConversionError{
			To:     format.JSON,
			Reason: fmt.Sprintf("float value %v", f),
		}
	}
	return FormatFloat(f), nil
}

// FormatFloat renders f with the shortest decimal that round-trips, using
// exponent notation outside [1e-6, 1e21) like encoding/json. Integral
// values keep a ".0" so they decode back as floats.
func FormatFloat(f float64) string {
	abs := math.Abs(f)
	fmtc := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		fmtc = 'e'
	}
	s := strconv.FormatFloat(f, fmtc, -1, 64)
	if fmtc == 'e' {
		// clean up e-09 to e-9
		n := len(s)
		if n >= 4 && s[n-4] == 'e' && s[n-3] == '-' && s[n-2] == '0' {
			s = s[:n-2] + s[n-1:]
		}
		return s
	}
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
