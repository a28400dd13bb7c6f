// Package msgpackfmt converts between MessagePack and nodes. Maps are
// written and read entry by entry so their order is kept.
package msgpackfmt

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/signadot/xconv/format"
	"github.com/signadot/xconv/ir"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

// Encode writes node to w as a single MessagePack value.
func Encode(node *ir.Node, w io.Writer) error {
	return encode(msgpack.NewEncoder(w), node)
}

// Marshal returns the MessagePack encoding of node.
func Marshal(node *ir.Node) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := Encode(node, buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encode(enc *msgpack.Encoder, node *ir.Node) error {
	if node == nil {
		return enc.EncodeNil()
	}
	switch node.Type {
	case ir.NullType:
		return enc.EncodeNil()
	case ir.BoolType:
		return enc.EncodeBool(node.Bool)
	case ir.StringType:
		return enc.EncodeString(node.String)
	case ir.NumberType:
		if node.Int64 != nil {
			return enc.EncodeInt(*node.Int64)
		}
		if node.Float64 != nil {
			return enc.EncodeFloat64(*node.Float64)
		}
	case ir.ArrayType:
		return encodeSeq(enc, node.Values)
	case ir.ObjectType:
		if len(node.Fields) != 0 && node.IsSequential() {
			return encodeSeq(enc, node.Values)
		}
		if err := enc.EncodeMapLen(len(node.Fields)); err != nil {
			return err
		}
		for i, f := range node.Fields {
			if err := enc.EncodeString(f); err != nil {
				return err
			}
			if err := encode(enc, node.Values[i]); err != nil {
				return err
			}
		}
		return nil
	}
	return &format.UnsupportedConversionError{To: format.Msgpack, Reason: fmt.Sprintf("node type %s", node.Type)}
}

func encodeSeq(enc *msgpack.Encoder, vs []*ir.Node) error {
	if err := enc.EncodeArrayLen(len(vs)); err != nil {
		return err
	}
	for _, v := range vs {
		if err := encode(enc, v); err != nil {
			return err
		}
	}
	return nil
}

// Decode reads exactly one MessagePack value.
func Decode(d []byte) (*ir.Node, error) {
	r := bytes.NewReader(d)
	dec := msgpack.NewDecoder(r)
	n, err := decode(dec)
	if err != nil {
		return nil, format.Malformed(format.Msgpack, err)
	}
	if r.Len() != 0 {
		return nil, format.Malformedf(format.Msgpack, int64(len(d)-r.Len()), "trailing data after value")
	}
	return n, nil
}

func decode(dec *msgpack.Decoder) (*ir.Node, error) {
	c, err := dec.PeekCode()
	if err != nil {
		return nil, err
	}
	switch {
	case msgpcode.IsFixedMap(c) || c == msgpcode.Map16 || c == msgpcode.Map32:
		n, err := dec.DecodeMapLen()
		if err != nil {
			return nil, err
		}
		res := ir.NewObject()
		for range n {
			k, err := dec.DecodeInterfaceLoose()
			if err != nil {
				return nil, err
			}
			v, err := decode(dec)
			if err != nil {
				return nil, err
			}
			res.Set(keyString(k), v)
		}
		return res, nil
	case msgpcode.IsFixedArray(c) || c == msgpcode.Array16 || c == msgpcode.Array32:
		n, err := dec.DecodeArrayLen()
		if err != nil {
			return nil, err
		}
		res := ir.NewArray()
		for range n {
			v, err := decode(dec)
			if err != nil {
				return nil, err
			}
			res.Append(v)
		}
		return res, nil
	}
	v, err := dec.DecodeInterfaceLoose()
	if err != nil {
		return nil, err
	}
	switch x := v.(type) {
	case nil:
		return ir.Null(), nil
	case bool:
		return ir.FromBool(x), nil
	case string:
		return ir.FromString(x), nil
	case []byte:
		return ir.FromString(string(x)), nil
	case int64:
		return ir.FromInt(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return ir.FromFloat(float64(x)), nil
		}
		return ir.FromInt(int64(x)), nil
	case float64:
		return ir.FromFloat(x), nil
	case fmt.Stringer:
		return ir.FromString(x.String()), nil
	}
	return nil, fmt.Errorf("unsupported msgpack value %T", v)
}

func keyString(k any) string {
	switch x := k.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case nil:
		return ""
	}
	return fmt.Sprint(k)
}
