package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"
	"github.com/signadot/xconv/convert"
	"github.com/signadot/xconv/format"
)

func classify(cfg *ClassifyConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Classify.Parse(cc, args)
	if err != nil {
		return err
	}
	ins, err := readInputs(convert.FileLoader, cc.In, args)
	if err != nil {
		return err
	}
	cfg.colors(cc.Out)
	return writeKinds(cc.Out, ins)
}

func writeKinds(w io.Writer, ins []input) error {
	for _, in := range ins {
		k := convert.Classify(in.data)
		if _, err := fmt.Fprintf(w, "%s: %s\n", in.name, kindColor(k)(string(k))); err != nil {
			return err
		}
	}
	return nil
}

func kindColor(k format.Kind) func(...any) string {
	switch k {
	case format.JSON, format.Serialized, format.XML:
		return color.New(color.FgGreen).SprintFunc()
	case format.String:
		return color.New(color.FgYellow).SprintFunc()
	case format.Mapping, format.Object, format.Resource,
		format.Null, format.Boolean, format.Integer, format.Float:
		return fmt.Sprint
	}
	return color.New(color.FgMagenta, color.Bold).SprintFunc()
}
