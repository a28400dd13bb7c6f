package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/scott-cotton/cli"
	"github.com/signadot/xconv/convert"
	"github.com/signadot/xconv/format"
	"github.com/signadot/xconv/ir"
	"github.com/signadot/xconv/jsonfmt"
	"github.com/signadot/xconv/msgpackfmt"
	"github.com/signadot/xconv/normalize"
	"github.com/signadot/xconv/serial"
	"github.com/signadot/xconv/xmlconv"
	"github.com/signadot/xconv/yamlfmt"
)

func convertInputs(cfg *ConvertConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Convert.Parse(cc, args)
	if err != nil {
		cfg.Convert.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	to, err := parseKind(cfg.To, format.JSON)
	if err != nil {
		return err
	}
	from, err := parseKind(cfg.From, "")
	if err != nil {
		return err
	}
	policy, err := parsePolicy(cfg.Policy, xmlconv.None)
	if err != nil {
		return err
	}
	ins, err := readInputs(convert.FileLoader, cc.In, args)
	if err != nil {
		return err
	}
	enc := &encoder{to: to, root: cfg.Root, indent: cfg.Indent}
	for _, in := range ins {
		node, err := in.structure(from, normalize.XMLPolicy(policy))
		if err != nil {
			return fmt.Errorf("error decoding %s: %w", in.name, err)
		}
		theLog.Debug("decoded input", "name", in.name, "type", node.Type)
		if err := enc.write(cc.Out, node); err != nil {
			return fmt.Errorf("error encoding %s as %s: %w", in.name, to, err)
		}
	}
	return nil
}

type encoder struct {
	to     format.Kind
	root   string
	indent int
}

func (e *encoder) encode(node *ir.Node) ([]byte, error) {
	switch e.to {
	case format.JSON:
		var opts []jsonfmt.EncodeOption
		if e.indent > 0 {
			opts = append(opts, jsonfmt.Indent("", strings.Repeat(" ", e.indent)))
		}
		return jsonfmt.Marshal(node, opts...)
	case format.Serialized:
		return serial.Marshal(node)
	case format.XML:
		root := e.root
		if root == "" {
			root = "root"
		}
		return xmlconv.Marshal(node, xmlconv.Root(root))
	case format.YAML:
		var opts []yamlfmt.EncodeOption
		if e.indent > 0 {
			opts = append(opts, yamlfmt.Indent(e.indent))
		}
		return yamlfmt.Marshal(node, opts...)
	case format.Msgpack:
		return msgpackfmt.Marshal(node)
	}
	return nil, &format.UnsupportedConversionError{To: e.to, Reason: "no encoder"}
}

// write encodes node to w, ending text output with a newline.
func (e *encoder) write(w io.Writer, node *ir.Node) error {
	d, err := e.encode(node)
	if err != nil {
		return err
	}
	if e.to.IsText() && (len(d) == 0 || d[len(d)-1] != '\n') {
		d = append(d, '\n')
	}
	_, err = w.Write(d)
	return err
}
