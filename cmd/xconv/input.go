package main

import (
	"fmt"
	"io"

	"github.com/signadot/xconv/convert"
	"github.com/signadot/xconv/format"
	"github.com/signadot/xconv/ir"
	"github.com/signadot/xconv/normalize"
)

type input struct {
	name string
	data []byte
}

// readInputs reads the named files, or in when there are none. The name
// "-" also stands for in.
func readInputs(l convert.Loader, in io.Reader, args []string) ([]input, error) {
	if len(args) == 0 {
		args = []string{"-"}
	}
	res := make([]input, 0, len(args))
	for _, arg := range args {
		var (
			d   []byte
			err error
		)
		if arg == "-" {
			d, err = io.ReadAll(in)
		} else {
			d, err = l.Load(arg)
		}
		if err != nil {
			return nil, fmt.Errorf("could not read %q: %w", arg, err)
		}
		theLog.Debug("read input", "name", arg, "bytes", len(d))
		res = append(res, input{name: arg, data: d})
	}
	return res, nil
}

// structure decodes in deeply. An explicit from kind wins over the name's
// extension, which wins over detection.
func (in input) structure(from format.Kind, opts ...normalize.Option) (*ir.Node, error) {
	opts = append([]normalize.Option{normalize.Deep(true)}, opts...)
	if from != "" {
		opts = append(opts, normalize.As(from))
	}
	l := convert.LoaderFunc(func(string) ([]byte, error) { return in.data, nil })
	return convert.Load(l, in.name, opts...)
}
