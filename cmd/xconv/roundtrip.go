package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/signadot/xconv/convert"
	"github.com/signadot/xconv/format"
	"github.com/signadot/xconv/ir"
	"github.com/signadot/xconv/jsonfmt"
	"github.com/signadot/xconv/normalize"
	"github.com/signadot/xconv/xmlconv"
)

func roundtrip(cfg *RoundtripConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Roundtrip.Parse(cc, args)
	if err != nil {
		cfg.Roundtrip.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	via, err := parseKind(cfg.Via, format.JSON)
	if err != nil {
		return err
	}
	policy, err := parsePolicy(cfg.Policy, xmlconv.Merge)
	if err != nil {
		return err
	}
	ins, err := readInputs(convert.FileLoader, cc.In, args)
	if err != nil {
		return err
	}
	cfg.colors(cc.Out)
	differs := false
	for _, in := range ins {
		node, err := in.structure("", normalize.XMLPolicy(policy))
		if err != nil {
			return fmt.Errorf("error decoding %s: %w", in.name, err)
		}
		back, err := viaFormat(node, via, policy)
		if err != nil {
			return fmt.Errorf("error converting %s via %s: %w", in.name, via, err)
		}
		d, err := writeDiff(cc.Out, in.name, node, back)
		if err != nil {
			return err
		}
		differs = differs || d
	}
	if differs {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// viaFormat encodes node as kind and decodes the result.
func viaFormat(node *ir.Node, kind format.Kind, policy xmlconv.Policy) (*ir.Node, error) {
	enc := &encoder{to: kind}
	d, err := enc.encode(node)
	if err != nil {
		return nil, err
	}
	theLog.Debug("encoded", "format", kind, "bytes", len(d))
	return normalize.ToStructure(d, normalize.As(kind), normalize.XMLPolicy(policy))
}

// writeDiff writes a line diff of the indented JSON renderings of a and b
// and reports whether they differ.
func writeDiff(w io.Writer, name string, a, b *ir.Node) (bool, error) {
	if ir.Equal(a, b) {
		return false, nil
	}
	ta, err := jsonfmt.Marshal(a, jsonfmt.Indent("", "  "))
	if err != nil {
		return true, err
	}
	tb, err := jsonfmt.Marshal(b, jsonfmt.Indent("", "  "))
	if err != nil {
		return true, err
	}
	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(string(ta)+"\n", string(tb)+"\n")
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- %s\n+++ %s (round trip)\n", name, name)
	for _, d := range diffs {
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			switch d.Type {
			case diffmatchpatch.DiffDelete:
				sb.WriteString(color.RedString("-%s", line))
			case diffmatchpatch.DiffInsert:
				sb.WriteString(color.GreenString("+%s", line))
			default:
				sb.WriteString(" " + line)
			}
		}
	}
	_, err = io.WriteString(w, sb.String())
	return true, err
}
