package detect

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/signadot/xconv/debug"
)

// Env is the environment expression classifiers run in.
//
//	value  the value being classified
//	kind   its builtin classification, e.g. "integer" or "json"
//	text   its content when it is string-like, otherwise ""
type Env map[string]any

func newEnv(v any) Env {
	env := Env{"value": v, "kind": string(Builtin(v)), "text": ""}
	if d, ok := Text(v); ok {
		env["text"] = string(d)
	}
	return env
}

// CompileExpr compiles a boolean expression into a predicate.
func CompileExpr(expression string) (Predicate, error) {
	prg, err := expr.Compile(expression, exprOpts()...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadClassifier, err)
	}
	return func(v any) bool {
		return runExpr(prg, v)
	}, nil
}

func runExpr(prg *vm.Program, v any) bool {
	res, err := expr.Run(prg, newEnv(v))
	if err != nil {
		if debug.Registry() {
			debug.Logf("classifier expression on %T: %v\n", v, err)
		}
		return false
	}
	b, _ := res.(bool)
	return b
}

func exprOpts() []expr.Option {
	return []expr.Option{
		expr.Env(Env{"value": nil, "kind": "", "text": ""}),
		expr.AsBool(),
		expr.Function("builtin", func(params ...any) (any, error) {
			return string(Builtin(params[0])), nil
		},
			new(func(any) string)),
		expr.Function("isJSON", func(params ...any) (any, error) {
			return IsJSON(params[0]), nil
		},
			new(func(any) bool)),
		expr.Function("isXML", func(params ...any) (any, error) {
			return IsXML(params[0]), nil
		},
			new(func(any) bool)),
	}
}

// RegisterExpr compiles expression and registers it under name in the
// default registry.
func RegisterExpr(name, expression string) error {
	return Default.RegisterExpr(name, expression)
}

// RegisterExpr compiles expression and registers it under name.
func (r *Registry) RegisterExpr(name, expression string) error {
	p, err := CompileExpr(expression)
	if err != nil {
		return fmt.Errorf("classifier %q: %w", name, err)
	}
	return r.Register(name, p)
}
