package serial

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/signadot/xconv/format"
	"github.com/signadot/xconv/ir"
)

// Encode writes node to w in serialized form.
func Encode(node *ir.Node, w io.Writer) error {
	d, err := Marshal(node)
	if err != nil {
		return err
	}
	_, err = w.Write(d)
	return err
}

// Marshal returns the serialized form of node. Object entries are written
// in insertion order; integer-like keys are written with the i: tag.
func Marshal(node *ir.Node) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := encode(node, buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encode(node *ir.Node, buf *bytes.Buffer) error {
	if node == nil {
		buf.WriteString("N;")
		return nil
	}
	switch node.Type {
	case ir.NullType:
		buf.WriteString("N;")
	case ir.BoolType:
		if node.Bool {
			buf.WriteString("b:1;")
		} else {
			buf.WriteString("b:0;")
		}
	case ir.NumberType:
		switch {
		case node.Int64 != nil:
			buf.WriteString("i:")
			buf.WriteString(strconv.FormatInt(*node.Int64, 10))
		case node.Float64 != nil:
			buf.WriteString("d:")
			buf.WriteString(formatFloat(*node.Float64))
		default:
			return &format.UnsupportedConversionError{To: format.Serialized, Reason: "number without value"}
		}
		buf.WriteByte(';')
	case ir.StringType:
		writeString(buf, node.String)
	case ir.ArrayType:
		fmt.Fprintf(buf, "a:%d:{", len(node.Values))
		for i, v := range node.Values {
			fmt.Fprintf(buf, "i:%d;", i)
			if err := encode(v, buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case ir.ObjectType:
		if len(node.Fields) == 0 {
			buf.WriteString(emptyObject)
			break
		}
		fmt.Fprintf(buf, "a:%d:{", len(node.Fields))
		for i, f := range node.Fields {
			if ir.IsIntKey(f) {
				buf.WriteString("i:")
				buf.WriteString(f)
				buf.WriteByte(';')
			} else {
				writeString(buf, f)
			}
			if err := encode(node.Values[i], buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return &format.UnsupportedConversionError{
			To:     format.Serialized,
			Reason: fmt.Sprintf("node type %s", node.Type),
		}
	}
	return nil
}

// emptyObject keeps an empty mapping distinct from the empty array a:0:{}.
const emptyObject = `O:8:"stdClass":0:{}`

func writeString(buf *bytes.Buffer, s string) {
	fmt.Fprintf(buf, "s:%d:\"", len(s))
	buf.WriteString(s)
	buf.WriteString("\";")
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NAN"
	case math.IsInf(f, 1):
		return "INF"
	case math.IsInf(f, -1):
		return "-INF"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-5 || abs >= 1e15) {
		return strconv.FormatFloat(f, 'E', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
