package xmlconv

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/signadot/xconv/format"
	"github.com/signadot/xconv/ir"
)

// Header is written before every encoded document.
const Header = `<?xml version="1.0" encoding="utf-8"?>` + "\n"

type encState struct {
	root   string
	header bool
}

type EncodeOption func(*encState)

// Root sets the name of the document element, "root" by default.
func Root(name string) EncodeOption {
	return func(es *encState) { es.root = name }
}

// WithHeader controls whether the xml declaration is written.
func WithHeader(v bool) EncodeOption {
	return func(es *encState) { es.header = v }
}

// Encode writes node to w as an XML document.
func Encode(node *ir.Node, w io.Writer, opts ...EncodeOption) error {
	d, err := Marshal(node, opts...)
	if err != nil {
		return err
	}
	_, err = w.Write(d)
	return err
}

// Marshal renders node as an XML document.
//
// Object keys become child elements. The entries of an array, or of an
// object keyed only by integers, are written as repeated elements named
// after the key holding them. An object of the form
// {"value": v, "attributes": {...}} or one carrying a "value" key next to
// scalar entries is written as an element with attributes, which is the
// shape Group and Merge decoding produce. The document element never
// carries attributes.
func Marshal(node *ir.Node, opts ...EncodeOption) ([]byte, error) {
	es := &encState{root: "root", header: true}
	for _, opt := range opts {
		opt(es)
	}
	if node != nil && node.Type == ir.ArrayType || isList(node) {
		return nil, &format.UnsupportedConversionError{
			To:     format.XML,
			Reason: "top level sequence has no tag name to repeat",
		}
	}
	buf := bytes.NewBuffer(nil)
	if es.header {
		buf.WriteString(Header)
	}
	if err := writeRoot(buf, es.root, node); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeRoot writes the document element. Its keys are always child
// elements; only nested objects take the attribute forms.
func writeRoot(buf *bytes.Buffer, tag string, node *ir.Node) error {
	if node == nil || node.Type != ir.ObjectType {
		return writeElement(buf, tag, node, ir.RootPath)
	}
	if !validName(tag) {
		return &format.AmbiguousXMLNameError{Name: tag, Path: ir.RootPath}
	}
	return writeObject(buf, tag, nil, node, ir.RootPath)
}

// isList reports whether node is a non-empty object keyed only by integers.
func isList(node *ir.Node) bool {
	return node != nil && node.Type == ir.ObjectType && len(node.Fields) != 0 && node.IsNumericKeyed()
}

func writeEntry(buf *bytes.Buffer, key string, v *ir.Node, path string) error {
	if v != nil && (v.Type == ir.ArrayType || isList(v)) {
		for i, item := range v.Values {
			if err := writeElement(buf, key, item, ir.PathIndex(path, i)); err != nil {
				return err
			}
		}
		return nil
	}
	return writeElement(buf, key, v, path)
}

func writeElement(buf *bytes.Buffer, tag string, v *ir.Node, path string) error {
	if !validName(tag) {
		return &format.AmbiguousXMLNameError{Name: tag, Path: path}
	}
	if v == nil {
		v = ir.Null()
	}
	switch v.Type {
	case ir.ObjectType:
		attrs, content, ok := attributeForm(v)
		if !ok {
			return writeObject(buf, tag, nil, v, path)
		}
		if content == nil {
			return writeObject(buf, tag, attrs, ir.NewObject(), path)
		}
		if content.IsContainer() {
			return writeObject(buf, tag, attrs, content, ir.PathField(path, ValueKey))
		}
		if err := openTag(buf, tag, attrs); err != nil {
			return err
		}
		if err := writeText(buf, content, path); err != nil {
			return err
		}
		closeTag(buf, tag)
	case ir.ArrayType:
		// nested sequences repeat the tag they are found under
		buf.WriteString("<" + tag + ">")
		for i, item := range v.Values {
			if err := writeElement(buf, tag, item, ir.PathIndex(path, i)); err != nil {
				return err
			}
		}
		closeTag(buf, tag)
	case ir.RecordType:
		return &format.UnsupportedConversionError{To: format.XML, Reason: fmt.Sprintf("record at %s", path)}
	default:
		buf.WriteString("<" + tag + ">")
		if err := writeText(buf, v, path); err != nil {
			return err
		}
		closeTag(buf, tag)
	}
	return nil
}

func writeObject(buf *bytes.Buffer, tag string, attrs, obj *ir.Node, path string) error {
	if obj.Type == ir.ArrayType || isList(obj) {
		if err := openTag(buf, tag, attrs); err != nil {
			return err
		}
		for i, item := range obj.Values {
			if err := writeElement(buf, tag, item, ir.PathIndex(path, i)); err != nil {
				return err
			}
		}
		closeTag(buf, tag)
		return nil
	}
	if len(obj.Fields) == 0 {
		buf.WriteByte('<')
		buf.WriteString(tag)
		if err := writeAttrs(buf, attrs); err != nil {
			return err
		}
		buf.WriteString("/>")
		return nil
	}
	if err := openTag(buf, tag, attrs); err != nil {
		return err
	}
	for i, f := range obj.Fields {
		if err := writeEntry(buf, f, obj.Values[i], ir.PathField(path, f)); err != nil {
			return err
		}
	}
	closeTag(buf, tag)
	return nil
}

// attributeForm splits an object in Group or Merge shape into its
// attributes and content. Content is nil when the element has none.
func attributeForm(v *ir.Node) (attrs, content *ir.Node, ok bool) {
	if i := v.Index(AttributesKey); i >= 0 && v.Values[i].Type == ir.ObjectType && allScalar(v.Values[i], -1) {
		switch {
		case len(v.Fields) == 1:
			return v.Values[i], nil, true
		case len(v.Fields) == 2 && v.Index(ValueKey) >= 0:
			return v.Values[i], ir.Get(v, ValueKey), true
		}
	}
	j := v.Index(ValueKey)
	if j < 0 || len(v.Fields) < 2 || !allScalar(v, j) || !v.Values[j].Type.IsLeaf() {
		return nil, nil, false
	}
	attrs = ir.NewObject()
	for i, f := range v.Fields {
		if i != j {
			attrs.Set(f, v.Values[i])
		}
	}
	return attrs, v.Values[j], true
}

// allScalar reports whether all values of v except the one at skip are
// leaves.
func allScalar(v *ir.Node, skip int) bool {
	for i, x := range v.Values {
		if i != skip && (x == nil || !x.Type.IsLeaf()) {
			return false
		}
	}
	return true
}

func openTag(buf *bytes.Buffer, tag string, attrs *ir.Node) error {
	buf.WriteByte('<')
	buf.WriteString(tag)
	if err := writeAttrs(buf, attrs); err != nil {
		return err
	}
	buf.WriteByte('>')
	return nil
}

func closeTag(buf *bytes.Buffer, tag string) {
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteByte('>')
}

func writeAttrs(buf *bytes.Buffer, attrs *ir.Node) error {
	if attrs == nil {
		return nil
	}
	for i, f := range attrs.Fields {
		if !validName(f) || strings.HasPrefix(f, "xmlns") {
			return &format.AmbiguousXMLNameError{Name: f}
		}
		s, err := leafText(attrs.Values[i])
		if err != nil {
			return err
		}
		buf.WriteByte(' ')
		buf.WriteString(f)
		buf.WriteString(`="`)
		buf.WriteString(attrEscaper.Replace(s))
		buf.WriteByte('"')
	}
	return nil
}

func writeText(buf *bytes.Buffer, v *ir.Node, path string) error {
	s, err := leafText(v)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	buf.WriteString(textEscaper.Replace(s))
	return nil
}

// leafText renders a scalar: booleans as true/false, null as the empty
// string and floats in their shortest exact decimal form.
func leafText(v *ir.Node) (string, error) {
	switch v.Type {
	case ir.NullType:
		return "", nil
	case ir.BoolType:
		return strconv.FormatBool(v.Bool), nil
	case ir.StringType:
		return v.String, nil
	case ir.NumberType:
		if v.Int64 != nil {
			return strconv.FormatInt(*v.Int64, 10), nil
		}
		if v.Float64 != nil {
			f := *v.Float64
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return "", &format.UnsupportedConversionError{To: format.XML, Reason: fmt.Sprintf("float value %v", f)}
			}
			return strconv.FormatFloat(f, 'f', -1, 64), nil
		}
	}
	return "", &format.UnsupportedConversionError{To: format.XML, Reason: fmt.Sprintf("%s is not a leaf", v.Type)}
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "\n", "&#xA;", "\t", "&#x9;")
)

// validName reports whether s can be used as an element or attribute name.
func validName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case unicode.IsLetter(r), r == '_', r == ':':
		case i > 0 && (unicode.IsDigit(r) || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}
