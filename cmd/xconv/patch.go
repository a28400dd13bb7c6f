package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
	"github.com/signadot/xconv/convert"
	"github.com/signadot/xconv/format"
	"github.com/signadot/xconv/ir"
)

func patch(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		cfg.Patch.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if cfg.File == "" {
		return fmt.Errorf("%w: patch requires -p patchfile", cli.ErrUsage)
	}
	p, err := convert.FileLoader.Load(cfg.File)
	if err != nil {
		return fmt.Errorf("could not read patch: %w", err)
	}
	ins, err := readInputs(convert.FileLoader, cc.In, args)
	if err != nil {
		return err
	}
	enc := &encoder{to: format.JSON, indent: 2}
	for _, in := range ins {
		res, err := applyPatch(in, p, cfg.Merge)
		if err != nil {
			return fmt.Errorf("error patching %s: %w", in.name, err)
		}
		if err := enc.write(cc.Out, res); err != nil {
			return fmt.Errorf("error encoding result: %w", err)
		}
	}
	return nil
}

func applyPatch(in input, p []byte, merge bool) (*ir.Node, error) {
	node, err := in.structure("")
	if err != nil {
		return nil, err
	}
	if merge {
		return convert.MergePatch(node, p)
	}
	return convert.Patch(node, p)
}
