package main

import (
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/signadot/xconv/convert"
	"github.com/signadot/xconv/detect"
)

// fileConfig is the content of the -config file.
//
//	classifiers:
//	- name: isEven
//	  expr: kind == "integer" && value % 2 == 0
type fileConfig struct {
	Classifiers []classifierConfig `yaml:"classifiers"`
}

type classifierConfig struct {
	Name string `yaml:"name"`
	Expr string `yaml:"expr"`
}

func loadFileConfig(l convert.Loader, path string) (*fileConfig, error) {
	d, err := l.Load(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}
	fc := &fileConfig{}
	if err := yaml.UnmarshalWithOptions(d, fc, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("could not decode config %s: %w", path, err)
	}
	return fc, nil
}

// register adds the configured classifiers to r in file order.
func (fc *fileConfig) register(r *detect.Registry) error {
	for i := range fc.Classifiers {
		c := &fc.Classifiers[i]
		if err := r.RegisterExpr(c.Name, c.Expr); err != nil {
			return err
		}
		theLog.Debug("registered classifier", "name", c.Name, "kind", detect.KindFromName(c.Name))
	}
	return nil
}
