package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, "xconv").
		WithSynopsis("xconv [opts] command [opts]").
		WithDescription("xconv converts values between json, serialized text, xml, yaml and msgpack.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return xconvMain(cfg, cc, args)
		}).
		WithSubs(
			ClassifyCommand(cfg),
			ConvertCommand(cfg),
			RoundtripCommand(cfg),
			PatchCommand(cfg))
}

func ClassifyCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ClassifyConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Classify, "classify").
		WithAliases("c", "cl").
		WithSynopsis("classify [files]").
		WithDescription("print the detected kind of each input").
		WithRun(func(cc *cli.Context, args []string) error {
			return classify(cfg, cc, args)
		})
}

func ConvertCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ConvertConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Convert, "convert").
		WithAliases("x", "conv").
		WithSynopsis("convert [-to fmt] [-from fmt] [-policy p] [-root name] [-indent n] [files]").
		WithDescription(convertDescription).
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return convertInputs(cfg, cc, args)
		})
}

const convertDescription = `convert decodes each input and writes it in the requested format.

Inputs are files or - for stdin (the default).  The input format comes
from -from, then from the file extension, and is detected otherwise.

Formats: json/j, serialized/s, xml/x, yaml/y, msgpack/m.
XML attribute policies: none, merge, group, attribs.`

func RoundtripCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &RoundtripConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Roundtrip, "roundtrip").
		WithAliases("r", "rt").
		WithSynopsis("roundtrip -via fmt [-policy p] [files]").
		WithDescription("encode each input via a format, decode it again and diff the results").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return roundtrip(cfg, cc, args)
		})
}

func PatchCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &PatchConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Patch, "patch").
		WithAliases("p", "pa").
		WithSynopsis("patch -p patchfile [-merge] [files]").
		WithDescription("apply a json patch (or merge patch) to each input and print json").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return patch(cfg, cc, args)
		})
}
