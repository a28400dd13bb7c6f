package main

import (
	"fmt"
	"io"
	"os"

	"github.com/signadot/xconv/format"
	"github.com/signadot/xconv/xmlconv"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
)

type MainConfig struct {
	Config  string `cli:"name=config desc='yaml file declaring expression classifiers'"`
	Verbose bool   `cli:"name=v desc='verbose logging'"`
	Color   bool   `cli:"name=color desc='color output'"`

	Main *cli.Command
}

// colors enables color when -color was given or w is a terminal.
func (cfg *MainConfig) colors(w io.Writer) bool {
	use := cfg.Color
	if !use {
		colorSet := false
		for _, opt := range cfg.Main.Opts {
			if opt.Name != "color" {
				continue
			}
			colorSet = opt.Value != nil
			break
		}
		if f, ok := w.(*os.File); ok && !colorSet {
			use = isatty.IsTerminal(f.Fd())
		}
	}
	color.NoColor = !use
	return use
}

type ClassifyConfig struct {
	*MainConfig

	Classify *cli.Command
}

type ConvertConfig struct {
	*MainConfig

	To     string `cli:"name=to desc='output format (default json)'"`
	From   string `cli:"name=from desc='input format (default detected)'"`
	Policy string `cli:"name=policy desc='xml attribute policy (default none)'"`
	Root   string `cli:"name=root desc='xml root element name (default root)'"`
	Indent int    `cli:"name=indent desc='indent json and yaml output'"`

	Convert *cli.Command
}

type RoundtripConfig struct {
	*MainConfig

	Via    string `cli:"name=via desc='intermediate format (default json)'"`
	Policy string `cli:"name=policy desc='xml attribute policy (default merge)'"`

	Roundtrip *cli.Command
}

type PatchConfig struct {
	*MainConfig

	File  string `cli:"name=p desc='patch file'"`
	Merge bool   `cli:"name=merge desc='apply as a merge patch'"`

	Patch *cli.Command
}

// parseKind parses a format flag, returning def when v is empty.
func parseKind(v string, def format.Kind) (format.Kind, error) {
	if v == "" {
		return def, nil
	}
	k, err := format.Parse(v)
	if err != nil {
		return "", fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	return k, nil
}

func parsePolicy(v string, def xmlconv.Policy) (xmlconv.Policy, error) {
	if v == "" {
		return def, nil
	}
	p, err := xmlconv.ParsePolicy(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	return p, nil
}
